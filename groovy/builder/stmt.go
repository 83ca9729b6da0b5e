package builder

import (
	"github.com/dhamidi/grove/groovy/ast"
	"github.com/dhamidi/grove/groovy/parser"
	"github.com/dhamidi/grove/groovy/syntax"
)

func (b *builder) block(n *parser.Node) *ast.BlockStmt {
	block := stamp(b, &ast.BlockStmt{}, n)
	for _, c := range n.Children {
		block.Stmts = append(block.Stmts, b.stmts(c)...)
	}
	return block
}

// statements builds a block from statement nodes that have no block node
// of their own, such as the statements of a switch group. It is
// positioned from the first to the last statement.
func (b *builder) statements(nodes []*parser.Node) *ast.BlockStmt {
	block := &ast.BlockStmt{}
	for _, c := range nodes {
		block.Stmts = append(block.Stmts, b.stmts(c)...)
	}
	if len(nodes) > 0 {
		*block.Position() = b.span(nodes[0].Span.Start.Offset, nodes[len(nodes)-1].Span.End.Offset)
	}
	return block
}

func (b *builder) exprStmt(n *parser.Node) *ast.ExprStmt {
	return stamp(b, &ast.ExprStmt{Expr: b.expr(n.Children[0])}, n)
}

// exprInPar lowers the parenthesized expression of a statement header. The
// parentheses belong to the statement, not to the expression.
func (b *builder) exprInPar(n *parser.Node) ast.Expr {
	if n.Kind != parser.KindParExpr || len(n.Children) != 1 {
		b.defect(n, "%s is not a statement condition", n.Kind)
	}
	return b.expr(n.Children[0])
}

func (b *builder) condition(n *parser.Node) *ast.BooleanExpr {
	e := b.exprInPar(n)
	return copyPos(&ast.BooleanExpr{Expr: e}, e)
}

func (b *builder) ifStmt(n *parser.Node) *ast.IfStmt {
	s := stamp(b, &ast.IfStmt{
		Cond: b.condition(n.Children[0]),
		Then: b.stmt(n.Children[1]),
		Else: &ast.EmptyStmt{},
	}, n)
	if len(n.Children) > 2 {
		s.Else = b.stmt(n.Children[2])
	}
	return s
}

func (b *builder) loop(fn func()) {
	b.loops++
	defer func() { b.loops-- }()
	fn()
}

func (b *builder) forStmt(n *parser.Node) *ast.ForStmt {
	s := stamp(b, &ast.ForStmt{}, n)
	b.loop(func() {
		control := n.Children[0]
		if control.Kind == parser.KindForInControl {
			s.Var = b.forInVariable(control.Children[0])
			s.Collection = b.expr(control.Children[1])
		} else {
			s.Var = &ast.Parameter{Name: ast.ForLoopDummy, Type: ast.Object()}
			s.Collection = b.forControl(control)
		}
		s.Body = b.stmt(n.Children[1])
	})
	return s
}

func (b *builder) forInVariable(n *parser.Node) *ast.Parameter {
	mods := b.modifiers(n.FirstChildOfKind(parser.KindModifiers))
	ident := n.FirstChildOfKind(parser.KindIdentifier)
	typeNode := n.FirstChildOfKind(parser.KindType)
	p := stamp(b, &ast.Parameter{
		Name:        ident.TokenLiteral(),
		Type:        b.typ(typeNode),
		Modifiers:   mods.flags,
		Annotations: mods.annotations,
		Dynamic:     typeNode == nil,
	}, n)
	b.nameRange(p, ident)
	return p
}

// forControl lowers "init; cond; update" into a closure list of three.
func (b *builder) forControl(n *parser.Node) *ast.ClosureListExpr {
	list := stamp(b, &ast.ClosureListExpr{}, n)
	init := n.FirstChildOfKind(parser.KindForInit)
	cond := n.FirstChildOfKind(parser.KindForCond)
	update := n.FirstChildOfKind(parser.KindForUpdate)

	var initExpr ast.Expr = &ast.EmptyExpr{}
	if len(init.Children) > 0 {
		c := init.Children[0]
		if c.Kind == parser.KindVariableDecl {
			decls := b.localVariableDecl(c).decls
			if len(decls) == 1 {
				initExpr = stamp(b, decls[0].Expr, init)
			} else {
				l := stamp(b, &ast.ClosureListExpr{}, init)
				for _, d := range decls {
					l.Exprs = append(l.Exprs, d.Expr)
				}
				initExpr = l
			}
		} else {
			initExpr = b.exprList(c)
		}
	}

	var condExpr ast.Expr = &ast.EmptyExpr{}
	if len(cond.Children) > 0 {
		condExpr = b.expr(cond.Children[0])
	}
	var updateExpr ast.Expr = &ast.EmptyExpr{}
	if len(update.Children) > 0 {
		updateExpr = b.exprList(update.Children[0])
	}
	list.Exprs = []ast.Expr{initExpr, condExpr, updateExpr}
	return list
}

// exprList lowers a comma separated expression list. A single expression
// stands for itself.
func (b *builder) exprList(n *parser.Node) ast.Expr {
	if len(n.Children) == 1 {
		return stamp(b, b.expr(n.Children[0]), n)
	}
	list := stamp(b, &ast.ClosureListExpr{}, n)
	for _, c := range n.Children {
		list.Exprs = append(list.Exprs, b.expr(c))
	}
	return list
}

func (b *builder) whileStmt(n *parser.Node) *ast.WhileStmt {
	s := stamp(b, &ast.WhileStmt{}, n)
	b.loop(func() {
		s.Cond = b.condition(n.Children[0])
		s.Body = b.stmt(n.Children[1])
	})
	return s
}

func (b *builder) doWhileStmt(n *parser.Node) *ast.DoWhileStmt {
	s := stamp(b, &ast.DoWhileStmt{}, n)
	b.loop(func() {
		s.Body = b.stmt(n.Children[0])
		s.Cond = b.condition(n.Children[1])
	})
	return s
}

func (b *builder) switchStmt(n *parser.Node) *ast.SwitchStmt {
	b.switches++
	defer func() { b.switches-- }()

	s := stamp(b, &ast.SwitchStmt{
		Expr:    b.exprInPar(n.Children[0]),
		Default: &ast.EmptyStmt{},
	}, n)

	var defaults []*parser.Node
	lastIsCase := false
	for _, group := range n.ChildrenOfKind(parser.KindSwitchGroup) {
		labels := group.ChildrenOfKind(parser.KindSwitchLabel)
		body := b.statements(group.Children[len(labels):])

		// Every case of a group is positioned at the group's first case.
		var first *parser.Token
		for i, label := range labels {
			isLast := i == len(labels)-1
			if label.TokenKind() == parser.TokenDefault {
				defaults = append(defaults, label)
				if len(defaults) == 1 {
					s.Default = body
				}
				lastIsCase = false
				continue
			}
			if first == nil {
				first = label.Token
			}
			c := stampToken(b, &ast.CaseStmt{Expr: b.expr(label.Children[0]), Body: &ast.EmptyStmt{}}, first)
			if isLast {
				c.Body = body
			}
			s.Cases = append(s.Cases, c)
			lastIsCase = true
		}
	}

	if len(defaults) > 1 {
		b.fail(defaults[0], "switch statement should have only one default case, which should appear at last")
	}
	if len(defaults) > 0 && lastIsCase {
		b.fail(defaults[0], "default case should appear at last")
	}
	return s
}

func (b *builder) tryStmt(n *parser.Node) *ast.TryStmt {
	resources := n.FirstChildOfKind(parser.KindResources)
	catches := n.ChildrenOfKind(parser.KindCatchClause)
	finally := n.FirstChildOfKind(parser.KindFinally)
	if resources == nil && len(catches) == 0 && finally == nil {
		b.fail(n, "Either a catch or finally clause or both is required for a try-catch-finally statement")
	}

	s := stamp(b, &ast.TryStmt{Finally: &ast.EmptyStmt{}}, n)
	if resources != nil {
		for _, r := range resources.Children {
			s.Resources = append(s.Resources, b.resource(r))
		}
	}
	s.Body = b.block(n.FirstChildOfKind(parser.KindBlock))
	for _, c := range catches {
		s.Catches = append(s.Catches, b.catchClause(c)...)
	}
	if finally != nil {
		s.Finally = stamp(b, b.block(finally.Children[0]), finally)
	}
	return s
}

func (b *builder) resource(n *parser.Node) *ast.ExprStmt {
	c := n.Children[0]
	if c.Kind == parser.KindVariableDecl {
		decls := b.localVariableDecl(c).decls
		if len(decls) > 1 {
			b.fail(n, "Multi resources can not be declared in one statement")
		}
		return decls[0]
	}

	e := b.expr(c)
	assign, ok := e.(*ast.BinaryExpr)
	if !ok || assign.Op != syntax.OpAssign {
		b.fail(n, "Only variable declarations are allowed to declare resource")
	}
	left, ok := assign.Left.(*ast.VariableExpr)
	if !ok {
		b.fail(n, "Only variable declarations are allowed to declare resource")
	}
	v := copyPos(&ast.VariableExpr{Name: left.Name, Type: ast.Object(), Dynamic: true}, left)
	decl := stamp(b, &ast.DeclarationExpr{Left: v, Right: assign.Right}, n)
	return stamp(b, &ast.ExprStmt{Expr: decl}, n)
}

// catchClause unpacks a multi-catch into one catch per exception type.
// The clauses share the body.
func (b *builder) catchClause(n *parser.Node) []*ast.CatchStmt {
	mods := b.modifiers(n.FirstChildOfKind(parser.KindModifiers))
	ident := n.FirstChildOfKind(parser.KindIdentifier)
	body := b.block(n.FirstChildOfKind(parser.KindBlock))

	types := []*ast.Type{ast.Object()}
	dynamic := true
	if ct := n.FirstChildOfKind(parser.KindCatchType); ct != nil {
		types = b.types(ct)
		dynamic = false
	}

	list := make([]*ast.CatchStmt, 0, len(types))
	for i, t := range types {
		p := &ast.Parameter{
			Name:        ident.TokenLiteral(),
			Type:        t,
			Modifiers:   mods.flags,
			Annotations: mods.annotations,
			Dynamic:     dynamic,
		}
		start := ident.Span.Start.Offset
		switch {
		case i == 0 && len(mods.node.Children) > 0:
			start = mods.node.Span.Start.Offset
		case t.Position().IsSet():
			start = t.Start
		}
		*p.Position() = b.span(start, ident.Span.End.Offset)
		b.nameRange(p, ident)
		list = append(list, stamp(b, &ast.CatchStmt{Param: p, Body: body}, n))
	}
	return list
}

func (b *builder) assertStmt(n *parser.Node) *ast.AssertStmt {
	b.asserts++
	defer func() { b.asserts-- }()

	e := b.expr(n.Children[0])
	if bin, ok := e.(*ast.BinaryExpr); ok && bin.Op == syntax.OpAssign {
		b.failAt(e, "Assignment expression is not allowed in the assert statement")
	}
	s := stamp(b, &ast.AssertStmt{Cond: copyPos(&ast.BooleanExpr{Expr: e}, e)}, n)
	if len(n.Children) > 1 {
		s.Message = b.expr(n.Children[1])
	}
	return s
}

func (b *builder) returnStmt(n *parser.Node) *ast.ReturnStmt {
	s := stamp(b, &ast.ReturnStmt{}, n)
	if len(n.Children) > 0 {
		s.Expr = b.expr(n.Children[0])
	} else {
		s.Expr = &ast.ConstantExpr{}
	}
	return s
}

func (b *builder) breakStmt(n *parser.Node) *ast.BreakStmt {
	if b.loops == 0 && b.switches == 0 {
		b.failToken(n.Token, "break statement is only allowed inside loops or switches")
	}
	s := stamp(b, &ast.BreakStmt{}, n)
	if len(n.Children) > 0 {
		s.Label = n.Children[0].TokenLiteral()
	}
	return s
}

func (b *builder) continueStmt(n *parser.Node) *ast.ContinueStmt {
	if b.loops == 0 {
		b.failToken(n.Token, "continue statement is only allowed inside loops")
	}
	s := stamp(b, &ast.ContinueStmt{}, n)
	if len(n.Children) > 0 {
		s.Label = n.Children[0].TokenLiteral()
	}
	return s
}

// labeledStmt attaches the label to the statement itself. Labels do not
// change its position.
func (b *builder) labeledStmt(n *parser.Node) ast.Stmt {
	s := b.stmt(n.Children[1])
	s.AddLabel(n.Children[0].TokenLiteral())
	return s
}

// localVariableDecl lowers a declaration into one declaration statement per
// variable, or a single one declaring a tuple.
func (b *builder) localVariableDecl(n *parser.Node) *declList {
	mods := b.modifiers(n.FirstChildOfKind(parser.KindModifiers))
	typeNode := n.FirstChildOfKind(parser.KindType)
	base := b.typ(typeNode)
	list := stamp(b, &declList{}, n)

	if t := n.FirstChildOfKind(parser.KindTupleDeclarator); t != nil {
		vars := stamp(b, &ast.ArgumentListExpr{}, t)
		for _, v := range t.ChildrenOfKind(parser.KindTupleVariable) {
			vt := v.FirstChildOfKind(parser.KindType)
			ve := stamp(b, &ast.VariableExpr{
				Name:      v.FirstChildOfKind(parser.KindIdentifier).TokenLiteral(),
				Type:      b.typ(vt),
				Modifiers: mods.flags,
				Dynamic:   vt == nil,
			}, v)
			vars.Args = append(vars.Args, ve)
		}
		if len(vars.Args) > 0 {
			between(vars, vars.Args[0], vars.Args[len(vars.Args)-1])
		}
		init := b.expr(t.Children[len(t.Children)-1])
		decl := stamp(b, &ast.DeclarationExpr{Left: vars, Right: init}, n)
		list.decls = []*ast.ExprStmt{copyPos(&ast.ExprStmt{Expr: decl}, decl)}
		return list
	}

	declarators := n.ChildrenOfKind(parser.KindVariableDeclarator)
	for _, d := range declarators {
		ident := d.Children[0]
		t := base
		if dims := d.FirstChildOfKind(parser.KindDims); dims != nil {
			clone := *base
			clone.Dims += len(dims.Children)
			t = &clone
		}
		v := stamp(b, &ast.VariableExpr{
			Name:      ident.TokenLiteral(),
			Type:      t,
			Modifiers: mods.flags,
			Dynamic:   typeNode == nil,
		}, ident)
		var init ast.Expr = &ast.EmptyExpr{}
		if last := d.Children[len(d.Children)-1]; last != ident && last.Kind != parser.KindDims {
			init = b.expr(last)
		}
		decl := stamp(b, &ast.DeclarationExpr{Left: v, Right: init}, d)
		list.decls = append(list.decls, &ast.ExprStmt{Expr: decl})
	}

	if len(list.decls) == 1 {
		*list.decls[0].Expr.Position() = b.posOf(n)
	} else if len(list.decls) > 1 {
		startAt(list.decls[0].Expr, list)
	}
	for _, s := range list.decls {
		copyPos(s, s.Expr)
	}
	return list
}
