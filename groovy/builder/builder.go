// Package builder lowers the concrete syntax tree of one Groovy compilation
// unit into the ast package's typed tree.
//
// The builder validates the language rules the grammar cannot express and
// stamps every node with its source range. The first violation aborts the
// unit: it is added to the sink and Build returns the sink's failure.
package builder

import (
	"fmt"

	"github.com/dhamidi/grove/groovy/ast"
	"github.com/dhamidi/grove/groovy/diag"
	"github.com/dhamidi/grove/groovy/parser"
	"github.com/dhamidi/grove/groovy/position"
	"github.com/tliron/commonlog"
)

func logger() commonlog.Logger {
	return commonlog.GetLogger("grove.builder")
}

// Build lowers root, the compilation unit tree the driver produced for src.
// On failure the returned error is the sink's *diag.CompilationFailed and
// no module is returned.
func Build(root *parser.Node, src []byte, sink *diag.Sink) (mod *ast.Module, err error) {
	if root == nil || root.Kind != parser.KindCompilationUnit {
		d := diag.NewDefect("build: root is not a compilation unit")
		sink.Add(diag.Diagnostic{Kind: diag.KindDefect, Message: d.Error()})
		return nil, sink.Failure(d)
	}

	b := newBuilder(src, sink)
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		mod = nil
		switch r := r.(type) {
		case abort:
			err = sink.Failure(r.cause)
		case *diag.Defect:
			logger().Errorf("%s: %+v", sink.Unit(), r)
			sink.Add(diag.Diagnostic{Kind: diag.KindDefect, Message: r.Error(), Range: b.defectRange})
			err = sink.Failure(r)
		default:
			d := diag.NewDefect("%v", r)
			logger().Errorf("%s: %+v", sink.Unit(), d)
			sink.Add(diag.Diagnostic{Kind: diag.KindDefect, Message: d.Error(), Range: b.defectRange})
			err = sink.Failure(d)
		}
	}()

	mod = b.compilationUnit(root)
	return mod, nil
}

// abort unwinds the builder after a violation was added to the sink.
type abort struct {
	cause error
}

type builder struct {
	src    []byte
	index  *position.Index
	sink   *diag.Sink
	module *ast.Module

	// classes is the stack of class declarations being built, innermost
	// last. The script class is never on it.
	classes []*ast.ClassNode
	// anonymous holds one roster per method body being built. Anonymous
	// classes created in the body are added to the innermost roster.
	anonymous [][]*ast.ClassNode
	// anonCount numbers the anonymous classes of the innermost class.
	anonCount int

	loops, switches, asserts, closures int

	// parens counts the parentheses around an expression.
	parens map[ast.Expr]int
	// numberErr is the last invalid number literal. It is reported once
	// the whole unit was built, since unary minus may still repair it.
	numberErr *numberError
	// defectRange locates the node being lowered when a defect occurs.
	defectRange diag.Range
}

type numberError struct {
	node *parser.Node
	err  error
}

func newBuilder(src []byte, sink *diag.Sink) *builder {
	return &builder{
		src:       src,
		index:     position.New(src),
		sink:      sink,
		module:    &ast.Module{Unit: sink.Unit()},
		parens:    make(map[ast.Expr]int),
		anonCount: 1,
	}
}

// fail reports a violation covering n and aborts the unit.
func (b *builder) fail(n *parser.Node, format string, args ...any) {
	b.failRange(b.rangeOf(n.Span), format, args...)
}

// failToken reports a violation covering exactly tok.
func (b *builder) failToken(tok *parser.Token, format string, args ...any) {
	b.failRange(b.rangeOf(tok.Span), format, args...)
}

// failAt reports a violation covering an already built node.
func (b *builder) failAt(node ast.Node, format string, args ...any) {
	p := node.Position()
	b.failRange(diag.Range{
		Start: diag.Point{Line: p.Line, Column: p.Column, Offset: p.Start},
		End:   diag.Point{Line: p.LastLine, Column: p.LastColumn, Offset: p.End},
	}, format, args...)
}

func (b *builder) failRange(r diag.Range, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	b.sink.Add(diag.Diagnostic{Kind: diag.KindViolation, Message: msg, Range: r})
	panic(abort{cause: fmt.Errorf("%d:%d: %s", r.Start.Line, r.Start.Column, msg)})
}

// defect aborts on a tree shape the parser never builds.
func (b *builder) defect(n *parser.Node, format string, args ...any) {
	if n != nil {
		b.defectRange = b.rangeOf(n.Span)
	}
	panic(diag.NewDefect(format, args...))
}

func (b *builder) rangeOf(s parser.Span) diag.Range {
	p := b.span(s.Start.Offset, s.End.Offset)
	return diag.Range{
		Start: diag.Point{Line: p.Line, Column: p.Column, Offset: p.Start},
		End:   diag.Point{Line: p.LastLine, Column: p.LastColumn, Offset: p.End},
	}
}

// declList is a local variable declaration declaring one or more variables.
// It is spliced into the enclosing block, one statement per variable.
type declList struct {
	ast.Pos
	decls []*ast.ExprStmt
}

// visit lowers one CST node. Kinds that only occur inside a parent with its
// own lowering are defects here.
func (b *builder) visit(n *parser.Node) ast.Node {
	switch n.Kind {
	case parser.KindError:
		b.defect(n, "error node in a successful parse: %s", n.Error.Message)

	// Declarations
	case parser.KindClassDecl:
		return b.classDecl(n)
	case parser.KindMethodDecl:
		return b.methodDecl(n)
	case parser.KindVariableDecl:
		return b.localVariableDecl(n)

	// Statements
	case parser.KindBlock:
		return b.block(n)
	case parser.KindEmptyStmt:
		return stamp(b, &ast.EmptyStmt{}, n)
	case parser.KindExprStmt:
		return b.exprStmt(n)
	case parser.KindIfStmt:
		return b.ifStmt(n)
	case parser.KindForStmt:
		return b.forStmt(n)
	case parser.KindWhileStmt:
		return b.whileStmt(n)
	case parser.KindDoWhileStmt:
		return b.doWhileStmt(n)
	case parser.KindSwitchStmt:
		return b.switchStmt(n)
	case parser.KindTryStmt:
		return b.tryStmt(n)
	case parser.KindAssertStmt:
		return b.assertStmt(n)
	case parser.KindThrowStmt:
		return stamp(b, &ast.ThrowStmt{Expr: b.expr(n.Children[0])}, n)
	case parser.KindReturnStmt:
		return b.returnStmt(n)
	case parser.KindBreakStmt:
		return b.breakStmt(n)
	case parser.KindContinueStmt:
		return b.continueStmt(n)
	case parser.KindLabeledStmt:
		return b.labeledStmt(n)
	case parser.KindSyncStmt:
		return stamp(b, &ast.SynchronizedStmt{
			Expr: b.exprInPar(n.Children[0]),
			Body: b.block(n.Children[1]),
		}, n)

	// Expressions
	case parser.KindIdentifier:
		return stamp(b, &ast.VariableExpr{Name: n.TokenLiteral()}, n)
	case parser.KindLiteral:
		return b.literal(n)
	case parser.KindGString:
		return b.gstring(n)
	case parser.KindThis, parser.KindSuper:
		return stamp(b, &ast.VariableExpr{Name: n.TokenLiteral()}, n)
	case parser.KindPrimitive:
		return b.primitiveValue(n)
	case parser.KindParExpr:
		return b.parExpr(n)
	case parser.KindList:
		return b.list(n)
	case parser.KindMap:
		return b.mapLiteral(n)
	case parser.KindClosure:
		return b.closure(n)
	case parser.KindLambda:
		return b.lambda(n)
	case parser.KindNew:
		return b.creator(n)
	case parser.KindPath:
		return b.path(n)
	case parser.KindBinary:
		return b.binary(n)
	case parser.KindAssign:
		return b.assign(n)
	case parser.KindTernary:
		return b.ternary(n)
	case parser.KindElvis:
		return stamp(b, &ast.ElvisExpr{
			Cond: b.expr(n.Children[0]),
			Else: b.expr(n.Children[1]),
		}, n)
	case parser.KindPrefix:
		return b.prefix(n)
	case parser.KindPostfix:
		return b.postfix(n)
	case parser.KindCast:
		return stamp(b, &ast.CastExpr{
			Type: b.typ(n.Children[0]),
			Expr: b.expr(n.Children[1]),
		}, n)
	case parser.KindAs:
		return stamp(b, &ast.CastExpr{
			Expr:   b.expr(n.Children[0]),
			Type:   b.typ(n.Children[1]),
			Coerce: true,
		}, n)
	case parser.KindInstanceof:
		return b.instanceof(n)
	case parser.KindCommand:
		return b.command(n)

	case parser.KindToken, parser.KindCompilationUnit, parser.KindPackageDecl,
		parser.KindImportDecl, parser.KindAlias, parser.KindQualifiedName,
		parser.KindExtends, parser.KindImplements, parser.KindClassBody,
		parser.KindEnumConstant, parser.KindInitializer, parser.KindParameters,
		parser.KindParameter, parser.KindThrows, parser.KindDefaultValue,
		parser.KindVariableDeclarator, parser.KindTupleDeclarator,
		parser.KindTupleVariable, parser.KindModifiers, parser.KindModifier,
		parser.KindAnnotation, parser.KindAnnotationArgs, parser.KindAnnotationPair,
		parser.KindElementArray, parser.KindType, parser.KindDims,
		parser.KindTypeArguments, parser.KindWildcard, parser.KindTypeParameters,
		parser.KindTypeParameter, parser.KindForInControl, parser.KindForControl,
		parser.KindForInit, parser.KindForCond, parser.KindForUpdate,
		parser.KindExprList, parser.KindSwitchGroup, parser.KindSwitchLabel,
		parser.KindResources, parser.KindResource, parser.KindCatchClause,
		parser.KindCatchType, parser.KindFinally, parser.KindGStringText,
		parser.KindGStringValue, parser.KindGStringPath, parser.KindGStringPathPart,
		parser.KindMapEntry, parser.KindSpread, parser.KindDimExpr,
		parser.KindArrayInit, parser.KindMember, parser.KindArguments,
		parser.KindNamedArg, parser.KindIndex, parser.KindCommandArgs,
		parser.KindCommandArgument:
		b.defect(n, "%s outside of its parent", n.Kind)
	}
	b.defect(n, "unknown node kind %d", int(n.Kind))
	return nil
}

// expr lowers n, which must yield an expression.
func (b *builder) expr(n *parser.Node) ast.Expr {
	e, ok := b.visit(n).(ast.Expr)
	if !ok {
		b.defect(n, "%s is not an expression", n.Kind)
	}
	return e
}

// stmts lowers n into the statements it contributes to a block.
func (b *builder) stmts(n *parser.Node) []ast.Stmt {
	switch n.Kind {
	case parser.KindClassDecl:
		b.fail(n, "Class definition not expected here")
	case parser.KindMethodDecl:
		b.fail(n, "Method definition not expected here")
	}
	switch s := b.visit(n).(type) {
	case *declList:
		out := make([]ast.Stmt, len(s.decls))
		for i, d := range s.decls {
			out[i] = d
		}
		return out
	case ast.Stmt:
		return []ast.Stmt{s}
	}
	b.defect(n, "%s is not a statement", n.Kind)
	return nil
}

// stmt lowers a single statement position such as a loop body. Several
// declarations there are grouped into a block.
func (b *builder) stmt(n *parser.Node) ast.Stmt {
	list := b.stmts(n)
	if len(list) == 1 {
		return list[0]
	}
	block := stamp(b, &ast.BlockStmt{}, n)
	block.Stmts = list
	return block
}

func (b *builder) isParenthesized(e ast.Expr) bool {
	return b.parens[e] > 0
}

func (b *builder) currentClass() *ast.ClassNode {
	if len(b.classes) == 0 {
		return nil
	}
	return b.classes[len(b.classes)-1]
}
