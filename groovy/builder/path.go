package builder

import (
	"github.com/dhamidi/grove/groovy/ast"
	"github.com/dhamidi/grove/groovy/parser"
	"github.com/dhamidi/grove/groovy/syntax"
)

var primitiveNames = map[string]bool{
	"boolean": true, "byte": true, "char": true, "short": true,
	"int": true, "long": true, "float": true, "double": true,
}

func (b *builder) path(n *parser.Node) ast.Expr {
	return b.pathFrom(b.expr(n.Children[0]), n.Span.Start.Offset, n.Children[1:])
}

// pathFrom applies path elements to r, left to right. Every intermediate
// result spans from start to the end of its element.
func (b *builder) pathFrom(r ast.Expr, start int, elems []*parser.Node) ast.Expr {
	var (
		safeChain bool
		generics  []*ast.GenericType
	)
	for _, el := range elems {
		var next ast.Expr
		switch el.Kind {
		case parser.KindMember:
			next, generics = b.member(r, el, &safeChain)
		case parser.KindIndex:
			next, generics = b.indexAccess(r, el), nil
		case parser.KindArguments:
			next, generics = b.call(r, b.arguments(el), el, generics), nil
		case parser.KindClosure:
			next, generics = b.trailingClosure(r, el, generics), nil
		default:
			b.defect(el, "unexpected %s in path", el.Kind)
		}
		*next.Position() = b.span(start, el.Span.End.Offset)
		r = next
	}
	return r
}

// member lowers ".name" and its variants. Type arguments are returned for
// the call that may follow.
func (b *builder) member(r ast.Expr, n *parser.Node, safeChain *bool) (ast.Expr, []*ast.GenericType) {
	var generics []*ast.GenericType
	if ta := n.FirstChildOfKind(parser.KindTypeArguments); ta != nil {
		generics = b.typeArguments(ta)
	}
	name := b.memberName(n.Children[len(n.Children)-1])

	switch n.Token.Kind {
	case parser.TokenMethodPointer:
		return &ast.MethodPointerExpr{Object: r, Method: name}, nil
	case parser.TokenColonColon:
		return &ast.MethodReferenceExpr{Object: r, Method: name}, nil
	}

	p := &ast.PropertyExpr{Object: r, Property: name, Safe: *safeChain, SafeChain: *safeChain}
	switch n.Token.Kind {
	case parser.TokenSafeDot:
		p.Safe = true
	case parser.TokenSafeChainDot:
		*safeChain = true
		p.Safe, p.SafeChain = true, true
	case parser.TokenSpreadDot:
		p.Safe, p.SpreadSafe = true, true
	case parser.TokenAttrDot:
		p.Attribute = true
	case parser.TokenSpreadAttrDot:
		p.Attribute, p.Safe, p.SpreadSafe = true, true, true
	}
	return p, generics
}

func (b *builder) memberName(n *parser.Node) ast.Expr {
	if n.Kind == parser.KindIdentifier {
		return stamp(b, stringConstant(n.TokenLiteral()), n)
	}
	return b.expr(n)
}

// indexAccess lowers "r[i]". Several indices form a wrapped list, named entries
// a map.
func (b *builder) indexAccess(r ast.Expr, n *parser.Node) ast.Expr {
	var idx ast.Expr
	switch {
	case len(n.ChildrenOfKind(parser.KindNamedArg)) > 0:
		m := stamp(b, &ast.MapExpr{}, n)
		for _, c := range n.Children {
			if c.Kind != parser.KindNamedArg {
				b.fail(c, "Unexpected input: '%s'", b.source(c))
			}
			m.Entries = append(m.Entries, b.mapEntry(c))
		}
		idx = m
	case len(n.Children) == 1 && n.Children[0].Kind != parser.KindSpread:
		idx = b.expr(n.Children[0])
	default:
		l := stamp(b, &ast.ListExpr{Elements: []ast.Expr{}, Wrapped: len(n.Children) != 1}, n)
		for _, c := range n.Children {
			if c.Kind == parser.KindSpread {
				l.Elements = append(l.Elements, stamp(b, &ast.SpreadExpr{Expr: b.expr(c.Children[0])}, c))
				continue
			}
			l.Elements = append(l.Elements, b.expr(c))
		}
		idx = l
	}
	return &ast.BinaryExpr{
		Left:  r,
		Op:    syntax.OpIndex,
		Right: idx,
		Safe:  n.TokenKind() == parser.TokenSafeIndex,
	}
}

// call lowers "r(args)". Names and property accesses are method calls,
// this(...) and super(...) are constructor calls outside closures, and
// anything else is a call of its "call" method.
func (b *builder) call(r, args ast.Expr, n *parser.Node, generics []*ast.GenericType) ast.Expr {
	if b.isParenthesized(r) {
		return b.callMethod(r, args, n, false)
	}
	switch e := r.(type) {
	case *ast.PropertyExpr:
		if e.Attribute {
			e.SpreadSafe = false
			return b.callMethod(e, args, n, true)
		}
		return b.propertyCall(e, args, generics)
	case *ast.VariableExpr:
		switch {
		case e.Name == "void":
			return b.callMethod(copyPos(stringConstant(e.Name), e), args, n, false)
		case primitiveNames[e.Name]:
			b.failAt(e, "Primitive type literal: %s cannot be used as a method name", e.Name)
		case e.IsThis() || e.IsSuper():
			if b.closures > 0 {
				return b.callMethod(e, args, n, true)
			}
			c := &ast.ConstructorCallExpr{Type: &ast.Type{Name: e.Name}, Args: args, Special: e.Name}
			c.SetNameRange(e.Start, e.End-1)
			return c
		}
		return b.thisCall(copyPos(stringConstant(e.Name), e), args)
	case *ast.GStringExpr:
		return b.thisCall(e, args)
	case *ast.ConstantExpr:
		if _, ok := e.Value.(string); ok {
			return b.thisCall(e, args)
		}
	}
	return b.callMethod(r, args, n, false)
}

// callMethod calls the "call" method of obj. The name has no source; it is
// placed at the start of the argument list.
func (b *builder) callMethod(obj, args ast.Expr, n *parser.Node, implicitThis bool) *ast.MethodCallExpr {
	c := &ast.MethodCallExpr{
		Object:       obj,
		Method:       stringConstant("call"),
		Args:         args,
		ImplicitThis: implicitThis,
	}
	c.SetNameRange(n.Span.Start.Offset, n.Span.Start.Offset)
	return c
}

// thisCall calls method on the implicit this.
func (b *builder) thisCall(method, args ast.Expr) *ast.MethodCallExpr {
	c := &ast.MethodCallExpr{
		Object:       &ast.VariableExpr{Name: "this"},
		Method:       method,
		Args:         args,
		ImplicitThis: true,
	}
	p := method.Position()
	c.SetNameRange(p.Start, p.End-1)
	return c
}

// propertyCall turns "obj.name" into the call "obj.name(args)". A spread
// call is not safe, unlike a spread property access.
func (b *builder) propertyCall(p *ast.PropertyExpr, args ast.Expr, generics []*ast.GenericType) *ast.MethodCallExpr {
	c := &ast.MethodCallExpr{
		Object:     p.Object,
		Method:     p.Property,
		Args:       args,
		Safe:       p.Safe && !p.SpreadSafe,
		SpreadSafe: p.SpreadSafe,
		Generics:   generics,
	}
	pp := p.Property.Position()
	c.SetNameRange(pp.Start, pp.End-1)
	return c
}

// trailingClosure lowers "r { ... }". The closure joins the arguments of a
// preceding call; otherwise it is the only argument.
func (b *builder) trailingClosure(r ast.Expr, n *parser.Node, generics []*ast.GenericType) ast.Expr {
	closure := b.closure(n)
	single := copyPos(&ast.ArgumentListExpr{Args: []ast.Expr{closure}}, closure)

	switch e := r.(type) {
	case *ast.MethodCallExpr:
		switch args := e.Args.(type) {
		case *ast.ArgumentListExpr:
			args.Args = append(args.Args, closure)
		case *ast.TupleExpr:
			named := args.Exprs[0].(*ast.MapExpr)
			m := copyPos(&ast.MapExpr{Entries: named.Entries}, named)
			e.Args = copyPos(&ast.ArgumentListExpr{Args: []ast.Expr{m, closure}}, args)
		default:
			b.defect(n, "call arguments of type %T", e.Args)
		}
		return e
	case *ast.PropertyExpr:
		return b.propertyCall(e, single, generics)
	case *ast.VariableExpr:
		return b.thisCall(copyPos(stringConstant(e.Name), e), single)
	}
	return b.thisCall(r, single)
}

// arguments lowers a call's arguments. Named arguments are collected into
// one map: alone they form a tuple, mixed with others the map comes first.
func (b *builder) arguments(n *parser.Node) ast.Expr {
	exprs := []ast.Expr{}
	var entries []*ast.MapEntryExpr
	seen := make(map[string]bool)
	for _, c := range n.Children {
		switch c.Kind {
		case parser.KindNamedArg:
			entry := b.mapEntry(c)
			if key, ok := b.namedKey(entry.Key); ok {
				if seen[key] {
					b.failAt(entry, "Duplicated named parameter '%s' found", key)
				}
				seen[key] = true
			}
			entries = append(entries, entry)
		case parser.KindSpread:
			exprs = append(exprs, stamp(b, &ast.SpreadExpr{Expr: b.expr(c.Children[0])}, c))
		default:
			exprs = append(exprs, b.expr(c))
		}
	}

	if len(entries) == 0 {
		return stamp(b, &ast.ArgumentListExpr{Args: exprs}, n)
	}
	named := stamp(b, &ast.MapExpr{Entries: entries, Named: true}, n)
	if len(exprs) == 0 {
		return stamp(b, &ast.TupleExpr{Exprs: []ast.Expr{named}}, n)
	}
	return stamp(b, &ast.ArgumentListExpr{Args: append([]ast.Expr{named}, exprs...)}, n)
}

// namedKey returns the text a named argument is identified by. Spread
// entries and parenthesized keys are computed and never duplicates.
func (b *builder) namedKey(key ast.Expr) (string, bool) {
	switch k := key.(type) {
	case *ast.SpreadMapExpr:
		return "", false
	case *ast.ConstantExpr:
		if s, ok := k.Value.(string); ok {
			return s, true
		}
	}
	if b.isParenthesized(key) {
		return "", false
	}
	return b.text(key), true
}

// argumentList returns the expressions of lowered call arguments.
func argumentList(e ast.Expr) []ast.Expr {
	switch e := e.(type) {
	case *ast.ArgumentListExpr:
		return e.Args
	case *ast.TupleExpr:
		return e.Exprs
	}
	return nil
}

// command lowers a call without parentheses, "foo a, b", and the chain of
// command arguments after it: "a b c d" is a(b).c(d).
func (b *builder) command(n *parser.Node) ast.Expr {
	start := n.Span.Start.Offset
	r := b.expr(n.Children[0])
	rest := n.Children[1:]

	if len(rest) > 0 && rest[0].Kind == parser.KindCommandArgs {
		argsNode := rest[0]
		rest = rest[1:]
		call := b.commandCall(r, b.arguments(argsNode))
		*call.Position() = b.span(start, argsNode.Span.End.Offset)
		r = call
	}
	if call, ok := r.(*ast.MethodCallExpr); ok {
		call.Command = true
	}

	for _, arg := range rest {
		r = b.commandArgument(r, arg)
		*r.Position() = b.span(start, arg.Span.End.Offset)
	}
	return stamp(b, r, n)
}

func (b *builder) commandCall(r, args ast.Expr) *ast.MethodCallExpr {
	if p, ok := r.(*ast.PropertyExpr); ok {
		return b.propertyCall(p, args, nil)
	}
	if !b.isParenthesized(r) {
		switch e := r.(type) {
		case *ast.VariableExpr:
			return b.thisCall(copyPos(stringConstant(e.Name), e), args)
		case *ast.GStringExpr:
			return b.thisCall(e, args)
		case *ast.ConstantExpr:
			if _, ok := e.Value.(string); ok {
				return b.thisCall(e, args)
			}
		}
	}
	b.failAt(r, "Unsupported command expression: %s", b.text(r))
	return nil
}

// commandArgument applies one link of a command chain to r: "name args"
// is a call, "name" alone or followed by path elements a property.
func (b *builder) commandArgument(r ast.Expr, n *parser.Node) ast.Expr {
	primaryNode := n.Children[0]
	name := b.expr(primaryNode)
	if v, ok := name.(*ast.VariableExpr); ok {
		name = copyPos(stringConstant(v.Name), v)
	}

	if len(n.Children) > 1 && n.Children[1].Kind == parser.KindCommandArgs {
		if _, ok := r.(*ast.PropertyExpr); ok {
			b.fail(n, "Unsupported command argument: %s", b.source(n))
		}
		call := &ast.MethodCallExpr{
			Object:  r,
			Method:  name,
			Args:    b.arguments(n.Children[1]),
			Command: true,
		}
		p := name.Position()
		call.SetNameRange(p.Start, p.End-1)
		return call
	}

	prop := stamp(b, &ast.PropertyExpr{Object: r, Property: name}, primaryNode)
	return b.pathFrom(prop, primaryNode.Span.Start.Offset, n.Children[1:])
}
