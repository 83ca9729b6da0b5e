package builder

import (
	"github.com/dhamidi/grove/groovy/ast"
	"github.com/dhamidi/grove/groovy/parser"
)

// methodDecl builds a method, constructor or script method. Members of a
// class are added to it here; script methods are returned to the unit.
func (b *builder) methodDecl(n *parser.Node) *ast.MethodNode {
	mods := b.modifiers(n.FirstChildOfKind(parser.KindModifiers))
	ident := n.FirstChildOfKind(parser.KindIdentifier)
	name := b.methodName(ident)
	typeNode := n.FirstChildOfKind(parser.KindType)
	params := b.parameters(n.FirstChildOfKind(parser.KindParameters))

	m := stamp(b, &ast.MethodNode{
		Name:        name,
		ReturnType:  b.returnType(typeNode),
		Parameters:  params,
		Exceptions:  b.types(n.FirstChildOfKind(parser.KindThrows)),
		Annotations: mods.annotations,
		Generics:    b.typeParameters(n.FirstChildOfKind(parser.KindTypeParameters)),
	}, n)
	b.nameRange(m, ident)
	if dims := n.FirstChildOfKind(parser.KindDims); dims != nil {
		t := *m.ReturnType
		t.Dims += len(dims.Children)
		m.ReturnType = &t
	}

	b.anonymous = append(b.anonymous, nil)
	if body := n.FirstChildOfKind(parser.KindBlock); body != nil {
		m.Body = b.block(body)
	}
	anon := b.anonymous[len(b.anonymous)-1]
	b.anonymous = b.anonymous[:len(b.anonymous)-1]

	cls := b.currentClass()
	if cls != nil {
		b.checkInterfaceDefaults(cls, params)
		b.classMethod(cls, m, mods, n, typeNode != nil)
	} else {
		b.scriptMethod(m, mods)
	}

	for _, c := range anon {
		c.EnclosingMethod = m
	}
	m.AnonymousClasses = anon
	if !mods.hasVisibility() {
		m.Modifiers |= ast.ModPublic
		m.SyntheticPublic = true
	}
	if mods.has(parser.TokenStatic) {
		for _, p := range m.Parameters {
			p.InStaticContext = true
		}
	}

	b.validateMethod(m, mods, cls)
	return m
}

// methodName returns the declared name. Names may be string literals.
func (b *builder) methodName(ident *parser.Node) string {
	if ident.TokenKind() == parser.TokenStringLiteral {
		return b.stringLiteral(ident.Token)
	}
	return ident.TokenLiteral()
}

func (b *builder) classMethod(cls *ast.ClassNode, m *ast.MethodNode, mods *modifierSet, n *parser.Node, hasReturnType bool) {
	m.Declaring = cls
	m.Modifiers = mods.flags

	if !hasReturnType && m.Body != nil && !cls.Anonymous && m.Name == cls.SimpleName() {
		if call := constructorCallAfterFirst(m.Body); call != nil {
			b.failAt(call, "%s should be the first statement in the constructor[%s]", b.text(call), m.Name)
		}
		m.Constructor = true
		m.ReturnType = nil
		cls.Constructors = append(cls.Constructors, m)
		return
	}
	if !hasReturnType && m.Body != nil && mods.isEmpty() {
		b.fail(n, "Invalid method declaration: %s", m.Name)
	}

	if def := n.FirstChildOfKind(parser.KindDefaultValue); def != nil {
		value := b.elementValue(def.Children[0])
		m.Body = copyPos(&ast.ExprStmt{Expr: value}, value)
		m.AnnotationDefault = true
	}
	if !mods.has(parser.TokenStatic) && (cls.IsInterface() || (cls.DefaultMethods && !mods.has(parser.TokenDefault))) {
		m.Modifiers |= ast.ModAbstract
	}

	sig := m.Signature()
	for _, other := range cls.Methods {
		if other.Signature() == sig {
			b.fail(n, "The method %s duplicates another method of the same signature", methodText(other))
		}
	}
	cls.Methods = append(cls.Methods, m)
}

func (b *builder) scriptMethod(m *ast.MethodNode, mods *modifierSet) {
	m.ScriptMethod = true
	m.Declaring = b.module.ScriptClass
	m.Modifiers = mods.flags
	if !mods.has(parser.TokenPrivate) {
		m.Modifiers |= ast.ModPublic
	}
}

// methodText renders a method header for diagnostics.
func methodText(m *ast.MethodNode) string {
	s := m.Modifiers.String()
	if s != "" {
		s += " "
	}
	s += m.ReturnType.String() + " " + m.Name + "("
	for i, p := range m.Parameters {
		if i > 0 {
			s += ", "
		}
		s += p.Type.String() + " " + p.Name
	}
	return s + ")"
}

// constructorCallAfterFirst finds an explicit this(...) or super(...) call
// that is not the first statement of a constructor body.
func constructorCallAfterFirst(body ast.Stmt) *ast.ConstructorCallExpr {
	block, ok := body.(*ast.BlockStmt)
	if !ok {
		return nil
	}
	for i, s := range block.Stmts {
		if i == 0 {
			continue
		}
		if es, ok := s.(*ast.ExprStmt); ok {
			if call, ok := es.Expr.(*ast.ConstructorCallExpr); ok && call.Special != "" {
				return call
			}
		}
	}
	return nil
}

func (b *builder) checkInterfaceDefaults(cls *ast.ClassNode, params []*ast.Parameter) {
	if !cls.IsInterface() {
		return
	}
	for _, p := range params {
		if p.Default != nil {
			b.failAt(p, "Cannot specify default value for method parameter '%s = %s' inside an interface", p.Name, b.text(p.Default))
		}
	}
}

func (b *builder) validateMethod(m *ast.MethodNode, mods *modifierSet, cls *ast.ClassNode) {
	abstract, hasBody := m.IsAbstract(), m.Body != nil

	if cls == nil {
		if !abstract && hasBody {
			return
		}
		msg := "You can not define a "
		if abstract {
			msg += "abstract"
		}
		msg += " method[" + m.Name + "] "
		if !hasBody {
			msg += "without method body"
		}
		msg += " in the script. Try "
		if abstract {
			msg += "removing the 'abstract'"
		}
		if abstract && !hasBody {
			msg += " and"
		}
		if !hasBody {
			msg += " adding a method body"
		}
		b.failAt(m, "%s", msg)
	}

	if !abstract && !hasBody {
		b.failAt(m, "You defined a method[%s] without body. Try adding a method body, or declare it abstract", m.Name)
	}
	abstractOwner := cls.Modifiers.IsAbstract() && !cls.Modifiers.Has(ast.ModAnnotation)
	if abstractOwner && abstract && hasBody && !mods.has(parser.TokenDefault) {
		hint := ""
		if cls.IsInterface() {
			hint = ", or declare it default"
		}
		b.failAt(m, "You defined an abstract method[%s] with body. Try removing the method body%s", m.Name, hint)
	}
}

// parameters lowers a method, closure or lambda parameter list.
func (b *builder) parameters(n *parser.Node) []*ast.Parameter {
	if n == nil {
		return nil
	}
	nodes := n.ChildrenOfKind(parser.KindParameter)
	params := make([]*ast.Parameter, 0, len(nodes))
	for i, c := range nodes {
		ident := c.FirstChildOfKind(parser.KindIdentifier)
		if i < len(nodes)-1 && c.HasToken(parser.TokenEllipsis) {
			b.fail(c, "The var-arg parameter %s must be the last parameter", ident.TokenLiteral())
		}
		params = append(params, b.parameter(c))
	}

	for i := len(params) - 1; i >= 0; i-- {
		for j, other := range params {
			if i != j && other.Name == params[i].Name {
				b.failAt(params[i], "Duplicated parameter '%s' found.", params[i].Name)
			}
		}
	}
	return params
}

func (b *builder) parameter(n *parser.Node) *ast.Parameter {
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
	if n.HasToken(parser.TokenEllipsis) {
		t := *p.Type
		t.Dims++
		p.Type = &t
		p.Vararg = true
	}
	if last := n.Children[len(n.Children)-1]; last != ident {
		p.Default = b.expr(last)
	}
	return p
}

// text returns the source of a built node.
func (b *builder) text(node ast.Node) string {
	p := node.Position()
	if !p.IsSet() || p.Start < 0 || p.End > len(b.src) || p.Start > p.End {
		return ""
	}
	return string(b.src[p.Start:p.End])
}
