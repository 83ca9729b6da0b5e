package builder

import (
	"github.com/dhamidi/grove/groovy/ast"
	"github.com/dhamidi/grove/groovy/parser"
	"github.com/dhamidi/grove/groovy/syntax"
)

// parExpr lowers "(e)" to e itself, counting the parentheses around it. A
// tuple is only valid on the left of an assignment, which lowers it there.
func (b *builder) parExpr(n *parser.Node) ast.Expr {
	if len(n.Children) != 1 {
		b.fail(n, "Unexpected input: '%s'", b.source(n))
	}
	e := b.expr(n.Children[0])
	b.parens[e]++
	return e
}

// source returns the text n was parsed from.
func (b *builder) source(n *parser.Node) string {
	return string(b.src[n.Span.Start.Offset:n.Span.End.Offset])
}

func (b *builder) primitiveValue(n *parser.Node) ast.Expr {
	dims := n.FirstChildOfKind(parser.KindDims)
	if dims == nil {
		return stamp(b, &ast.VariableExpr{Name: n.TokenLiteral()}, n)
	}
	t := stamp(b, &ast.Type{
		Name:      n.TokenLiteral(),
		Primitive: n.TokenKind() != parser.TokenVoid,
		Dims:      len(dims.Children),
	}, n)
	return stamp(b, &ast.ClassExpr{Type: t}, n)
}

func (b *builder) binary(n *parser.Node) ast.Expr {
	op := syntax.FromToken(n.Token)
	left, right := b.expr(n.Children[0]), b.expr(n.Children[1])
	if op == syntax.OpRange || op == syntax.OpRangeExclusive {
		return stamp(b, &ast.RangeExpr{From: left, To: right, Inclusive: op == syntax.OpRange}, n)
	}
	return stamp(b, &ast.BinaryExpr{Left: left, Op: op, Right: right}, n)
}

func (b *builder) instanceof(n *parser.Node) ast.Expr {
	typeNode := n.Children[1]
	return stamp(b, &ast.BinaryExpr{
		Left:  b.expr(n.Children[0]),
		Op:    syntax.FromToken(n.Token),
		Right: stamp(b, &ast.ClassExpr{Type: b.typ(typeNode)}, typeNode),
	}, n)
}

// assign validates the target of an assignment. A parenthesized variable
// list is a multiple assignment.
func (b *builder) assign(n *parser.Node) ast.Expr {
	op := syntax.FromToken(n.Token)
	lhs := n.Children[0]

	if lhs.Kind == parser.KindParExpr && len(lhs.Children) > 1 {
		if op != syntax.OpAssign {
			b.failToken(n.Token, "Multiple assignment only supports the = operator")
		}
		tuple := stamp(b, &ast.TupleExpr{}, lhs)
		for _, c := range lhs.Children {
			if c.Kind != parser.KindIdentifier {
				b.fail(c, "The LHS of an assignment should be a variable or a field accessing expression")
			}
			tuple.Exprs = append(tuple.Exprs, b.expr(c))
		}
		return stamp(b, &ast.BinaryExpr{Left: tuple, Op: op, Right: b.expr(n.Children[1])}, n)
	}

	left := b.expr(lhs)
	if v, ok := left.(*ast.VariableExpr); ok && b.isParenthesized(v) {
		if b.parens[v] > 1 {
			b.fail(n, "Nested parenthesis is not allowed in multiple assignment, e.g. ((a)) = b")
		}
		tuple := stamp(b, &ast.TupleExpr{Exprs: []ast.Expr{v}}, lhs)
		return stamp(b, &ast.BinaryExpr{Left: tuple, Op: op, Right: b.expr(n.Children[1])}, n)
	}
	if !b.isAssignable(left) {
		b.fail(n, "The LHS of an assignment should be a variable or a field accessing expression")
	}
	return stamp(b, &ast.BinaryExpr{Left: left, Op: op, Right: b.expr(n.Children[1])}, n)
}

func (b *builder) isAssignable(e ast.Expr) bool {
	switch e := e.(type) {
	case *ast.VariableExpr:
		return !b.isParenthesized(e)
	case *ast.PropertyExpr:
		return true
	case *ast.BinaryExpr:
		return e.Op == syntax.OpIndex
	}
	return false
}

func (b *builder) ternary(n *parser.Node) ast.Expr {
	cond := n.Children[0]
	return stamp(b, &ast.TernaryExpr{
		Cond: stamp(b, &ast.BooleanExpr{Expr: b.expr(cond)}, cond),
		Then: b.expr(n.Children[1]),
		Else: b.expr(n.Children[2]),
	}, n)
}

// prefix lowers the unary operators. A sign directly in front of a number
// literal is folded into the constant.
func (b *builder) prefix(n *parser.Node) ast.Expr {
	operand := n.Children[0]
	kind := operand.TokenKind()
	isLiteral := operand.Kind == parser.KindLiteral && kind != parser.TokenStringLiteral
	isNumber := isLiteral && (kind == parser.TokenIntLiteral || kind == parser.TokenFloatLiteral)

	switch n.Token.Kind {
	case parser.TokenMinus:
		if isNumber {
			return b.negativeLiteral(n, operand)
		}
		return stamp(b, &ast.UnaryMinusExpr{Expr: b.expr(operand)}, n)
	case parser.TokenPlus:
		e := b.expr(operand)
		if isLiteral {
			return stamp(b, e.(*ast.ConstantExpr), n)
		}
		return stamp(b, &ast.UnaryPlusExpr{Expr: e}, n)
	case parser.TokenNot:
		return stamp(b, &ast.NotExpr{Expr: b.expr(operand)}, n)
	case parser.TokenBitNot:
		return stamp(b, &ast.BitwiseNegationExpr{Expr: b.expr(operand)}, n)
	}
	return stamp(b, &ast.PrefixExpr{Op: syntax.FromToken(n.Token), Expr: b.expr(operand)}, n)
}

// postfix lowers "x++" and "x--". Inside an assertion the node is placed on
// the operator so that power assertions can show its value.
func (b *builder) postfix(n *parser.Node) ast.Expr {
	e := &ast.PostfixExpr{Expr: b.expr(n.Children[0]), Op: syntax.FromToken(n.Token)}
	if b.asserts > 0 {
		return stampToken(b, e, n.Token)
	}
	return stamp(b, e, n)
}

func (b *builder) list(n *parser.Node) *ast.ListExpr {
	l := stamp(b, &ast.ListExpr{}, n)
	for _, c := range n.Children {
		switch c.Kind {
		case parser.KindToken:
			b.failToken(c.Token, "Empty list constructor should not contain any comma(,)")
		case parser.KindSpread:
			l.Elements = append(l.Elements, stamp(b, &ast.SpreadExpr{Expr: b.expr(c.Children[0])}, c))
		default:
			l.Elements = append(l.Elements, b.expr(c))
		}
	}
	return l
}

func (b *builder) mapLiteral(n *parser.Node) *ast.MapExpr {
	m := stamp(b, &ast.MapExpr{}, n)
	for _, c := range n.Children {
		m.Entries = append(m.Entries, b.mapEntry(c))
	}
	return m
}

// mapEntry lowers a map literal entry or a named argument. The key of a
// spread entry "*: m" is the spread itself.
func (b *builder) mapEntry(n *parser.Node) *ast.MapEntryExpr {
	if n.TokenKind() == parser.TokenStar {
		value := b.expr(n.Children[0])
		spread := stamp(b, &ast.SpreadMapExpr{Expr: value}, n)
		return stamp(b, &ast.MapEntryExpr{Key: spread, Value: value}, n)
	}
	return stamp(b, &ast.MapEntryExpr{
		Key:   b.mapKey(n.Children[0]),
		Value: b.expr(n.Children[1]),
	}, n)
}

// mapKey lowers a map key. Bare identifiers and keywords are strings;
// a parenthesized variable stays a variable.
func (b *builder) mapKey(n *parser.Node) ast.Expr {
	if n.Kind == parser.KindIdentifier {
		return stamp(b, stringConstant(n.TokenLiteral()), n)
	}
	return b.expr(n)
}

func (b *builder) closure(n *parser.Node) *ast.ClosureExpr {
	b.closures++
	defer func() { b.closures-- }()

	c := stamp(b, &ast.ClosureExpr{}, n)
	if params := n.FirstChildOfKind(parser.KindParameters); params != nil {
		c.Params = b.parameters(params)
	}
	c.Body = b.block(n.Children[len(n.Children)-1])
	return c
}

func (b *builder) lambda(n *parser.Node) *ast.LambdaExpr {
	l := stamp(b, &ast.LambdaExpr{}, n)
	if params := b.parameters(n.Children[0]); len(params) > 0 {
		l.Params = params
	}
	body := n.Children[1]
	if body.Kind == parser.KindBlock {
		l.Body = b.block(body)
	} else {
		e := b.expr(body)
		l.Body = copyPos(&ast.ExprStmt{Expr: e}, e)
	}
	return l
}

// creator lowers "new": a constructor call, possibly with an anonymous
// class body, or an array creation.
func (b *builder) creator(n *parser.Node) ast.Expr {
	typeNode := n.Children[0]
	t := b.typ(typeNode)
	nameNode := typeNode
	if q := typeNode.FirstChildOfKind(parser.KindQualifiedName); q != nil {
		nameNode = q
	}

	if argsNode := n.FirstChildOfKind(parser.KindArguments); argsNode != nil {
		call := stamp(b, &ast.ConstructorCallExpr{Type: t, Args: b.arguments(argsNode)}, n)
		b.nameRange(call, nameNode)
		if body := n.FirstChildOfKind(parser.KindClassBody); body != nil {
			anon := b.anonymousClass(t, body, nil)
			b.nameRange(anon, nameNode)
			// The class starts at the type it extends so that its name lies
			// inside it.
			anon.Pos = b.span(nameNode.Span.Start.Offset, anon.End)
			if len(b.anonymous) > 0 {
				roster := &b.anonymous[len(b.anonymous)-1]
				*roster = append(*roster, anon)
			}
			call.Type = copyPos(&ast.Type{Name: anon.Name}, t)
			call.Anonymous = anon
		}
		return call
	}

	if init := n.FirstChildOfKind(parser.KindArrayInit); init != nil {
		elem := *t
		elem.Dims = max(elem.Dims-1, 0)
		return stamp(b, b.arrayInit(&elem, init), n)
	}

	arr := stamp(b, &ast.ArrayExpr{ElementType: t}, n)
	for _, c := range n.ChildrenOfKind(parser.KindDimExpr) {
		arr.Sizes = append(arr.Sizes, b.expr(c.Children[0]))
	}
	if dims := n.FirstChildOfKind(parser.KindDims); dims != nil {
		for _, d := range dims.Children {
			arr.Sizes = append(arr.Sizes, stamp(b, &ast.EmptyExpr{}, d))
		}
	}
	return arr
}

// arrayInit lowers "{a, b}" of elements typed elem. Nested braces are
// arrays of the next lower dimension.
func (b *builder) arrayInit(elem *ast.Type, n *parser.Node) *ast.ArrayExpr {
	arr := stamp(b, &ast.ArrayExpr{ElementType: elem, Inits: []ast.Expr{}}, n)
	for _, c := range n.Children {
		if c.Kind == parser.KindArrayInit {
			inner := *elem
			inner.Dims = max(inner.Dims-1, 0)
			arr.Inits = append(arr.Inits, b.arrayInit(&inner, c))
			continue
		}
		arr.Inits = append(arr.Inits, b.expr(c))
	}
	return arr
}
