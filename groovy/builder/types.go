package builder

import (
	"github.com/dhamidi/grove/groovy/ast"
	"github.com/dhamidi/grove/groovy/parser"
)

// typ lowers a type in a position where void is not allowed. A nil node is
// the implicit Object type.
func (b *builder) typ(n *parser.Node) *ast.Type {
	t := b.anyType(n)
	if t.IsVoid() {
		b.fail(n, "void is not allowed here")
	}
	return t
}

// returnType lowers a method's return type, which may be void.
func (b *builder) returnType(n *parser.Node) *ast.Type {
	return b.anyType(n)
}

func (b *builder) anyType(n *parser.Node) *ast.Type {
	if n == nil {
		return ast.Object()
	}
	if n.Kind != parser.KindType {
		b.defect(n, "%s is not a type", n.Kind)
	}
	t := stamp(b, &ast.Type{}, n)
	if n.Token != nil {
		t.Name = n.Token.Literal
		t.Primitive = n.Token.Kind != parser.TokenVoid
	}
	for _, c := range n.Children {
		switch c.Kind {
		case parser.KindQualifiedName:
			t.Name = qualifiedName(c)
		case parser.KindTypeArguments:
			t.Generics = b.typeArguments(c)
			t.Diamond = len(t.Generics) == 0
		case parser.KindDims:
			t.Dims = len(c.Children)
		default:
			b.defect(c, "unexpected %s in type", c.Kind)
		}
	}
	return t
}

func (b *builder) typeArguments(n *parser.Node) []*ast.GenericType {
	generics := make([]*ast.GenericType, 0, len(n.Children))
	for _, c := range n.Children {
		switch c.Kind {
		case parser.KindType:
			generics = append(generics, stamp(b, &ast.GenericType{Type: b.typ(c)}, c))
		case parser.KindWildcard:
			generics = append(generics, b.wildcard(c))
		default:
			b.defect(c, "unexpected %s in type arguments", c.Kind)
		}
	}
	return generics
}

func (b *builder) wildcard(n *parser.Node) *ast.GenericType {
	g := stamp(b, &ast.GenericType{Name: "?", Wildcard: true}, n)
	if len(n.Children) == 2 {
		bound := b.typ(n.Children[1])
		if n.Children[0].TokenKind() == parser.TokenSuper {
			g.Lower = bound
		} else {
			g.Upper = []*ast.Type{bound}
		}
	}
	return g
}

func (b *builder) typeParameters(n *parser.Node) []*ast.GenericType {
	if n == nil {
		return nil
	}
	params := make([]*ast.GenericType, 0, len(n.Children))
	for _, c := range n.Children {
		g := stamp(b, &ast.GenericType{Name: c.Children[0].TokenLiteral(), Placeholder: true}, c)
		for _, bound := range c.Children[1:] {
			g.Upper = append(g.Upper, b.typ(bound))
		}
		params = append(params, g)
	}
	return params
}

func (b *builder) types(n *parser.Node) []*ast.Type {
	if n == nil {
		return nil
	}
	list := make([]*ast.Type, 0, len(n.Children))
	for _, c := range n.Children {
		list = append(list, b.typ(c))
	}
	return list
}

func (b *builder) annotation(n *parser.Node) *ast.Annotation {
	name := n.Children[0]
	a := stamp(b, &ast.Annotation{
		Type: stamp(b, &ast.Type{Name: qualifiedName(name)}, name),
	}, n)

	args := n.FirstChildOfKind(parser.KindAnnotationArgs)
	if args == nil {
		return a
	}
	seen := make(map[string]bool)
	for _, c := range args.Children {
		if c.Kind != parser.KindAnnotationPair {
			a.Members = append(a.Members, &ast.AnnotationMember{Name: "value", Value: b.elementValue(c)})
			continue
		}
		key := c.Children[0].TokenLiteral()
		if seen[key] {
			b.fail(c, "Duplicate key %s", key)
		}
		seen[key] = true
		a.Members = append(a.Members, &ast.AnnotationMember{Name: key, Value: b.elementValue(c.Children[1])})
	}
	return a
}

func (b *builder) annotations(nodes []*parser.Node) []*ast.Annotation {
	var list []*ast.Annotation
	for _, n := range nodes {
		list = append(list, b.annotation(n))
	}
	return list
}

func (b *builder) elementValue(n *parser.Node) ast.Expr {
	switch n.Kind {
	case parser.KindAnnotation:
		return stamp(b, &ast.AnnotationConstantExpr{Annotation: b.annotation(n)}, n)
	case parser.KindElementArray:
		list := stamp(b, &ast.ListExpr{}, n)
		for _, c := range n.Children {
			list.Elements = append(list.Elements, b.elementValue(c))
		}
		return list
	}
	return b.expr(n)
}

// modifierSet is a lowered modifier list. Keywords without a JVM flag (def,
// var, default, threadsafe) are only remembered.
type modifierSet struct {
	node        *parser.Node
	flags       ast.Modifiers
	keywords    map[parser.TokenKind]*parser.Node
	annotations []*ast.Annotation
}

var modifierFlags = map[parser.TokenKind]ast.Modifiers{
	parser.TokenPublic:       ast.ModPublic,
	parser.TokenPrivate:      ast.ModPrivate,
	parser.TokenProtected:    ast.ModProtected,
	parser.TokenStatic:       ast.ModStatic,
	parser.TokenFinal:        ast.ModFinal,
	parser.TokenSynchronized: ast.ModSynchronized,
	parser.TokenVolatile:     ast.ModVolatile,
	parser.TokenTransient:    ast.ModTransient,
	parser.TokenNative:       ast.ModNative,
	parser.TokenAbstract:     ast.ModAbstract,
	parser.TokenStrictfp:     ast.ModStrict,
}

func (b *builder) modifiers(n *parser.Node) *modifierSet {
	m := &modifierSet{node: n, keywords: make(map[parser.TokenKind]*parser.Node)}
	if n == nil {
		return m
	}
	for _, c := range n.Children {
		if c.Kind == parser.KindAnnotation {
			m.annotations = append(m.annotations, b.annotation(c))
			continue
		}
		kind := c.TokenKind()
		if m.keywords[kind] != nil {
			b.fail(c, "Cannot repeat modifier: %s", c.TokenLiteral())
		}
		flag := modifierFlags[kind]
		if flag&ast.ModVisibility != 0 && m.flags&ast.ModVisibility != 0 {
			b.fail(c, "Cannot specify modifier: %s when access scope has already been defined", c.TokenLiteral())
		}
		m.keywords[kind] = c
		m.flags |= flag
	}
	return m
}

func (m *modifierSet) has(kind parser.TokenKind) bool {
	return m.keywords[kind] != nil
}

func (m *modifierSet) hasVisibility() bool {
	return m.flags&ast.ModVisibility != 0
}

// isEmpty reports whether neither modifiers nor annotations were written.
func (m *modifierSet) isEmpty() bool {
	return len(m.keywords) == 0 && len(m.annotations) == 0
}
