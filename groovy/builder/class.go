package builder

import (
	"strconv"

	"github.com/dhamidi/grove/groovy/ast"
	"github.com/dhamidi/grove/groovy/parser"
)

func (b *builder) classDecl(n *parser.Node) *ast.ClassNode {
	mods := b.modifiers(n.FirstChildOfKind(parser.KindModifiers))
	ident := n.FirstChildOfKind(parser.KindIdentifier)
	simple := ident.TokenLiteral()
	outer := b.currentClass()

	cls := stamp(b, &ast.ClassNode{Kind: classKind(n), Outer: outer}, n)
	b.nameRange(cls, ident)
	if outer != nil {
		cls.Name = outer.Name + "$" + simple
	} else {
		cls.Name = b.module.PackageName() + simple
	}

	cls.Modifiers = mods.flags
	if !mods.hasVisibility() {
		cls.Modifiers |= ast.ModPublic
		cls.SyntheticPublic = true
	}
	if outer != nil && (outer.IsInterface() || cls.Kind == ast.ClassKindEnum) {
		cls.Modifiers |= ast.ModStatic
	}

	if cls.Kind == ast.ClassKindTrait {
		cls.Annotations = append(cls.Annotations, traitAnnotation())
	}
	cls.Annotations = append(cls.Annotations, mods.annotations...)
	cls.Generics = b.typeParameters(n.FirstChildOfKind(parser.KindTypeParameters))

	body := n.FirstChildOfKind(parser.KindClassBody)
	extends := b.types(n.FirstChildOfKind(parser.KindExtends))
	implements := b.types(n.FirstChildOfKind(parser.KindImplements))

	switch cls.Kind {
	case ast.ClassKindClass, ast.ClassKindTrait:
		cls.Super = ast.Object()
		if len(extends) > 0 {
			cls.Super = extends[0]
		}
		cls.Interfaces = implements
	case ast.ClassKindInterface:
		cls.Super = ast.Object()
		cls.Interfaces = extends
		if hasDefaultMethods(body) {
			cls.DefaultMethods = true
			cls.Annotations = append(cls.Annotations, traitAnnotation())
		} else {
			cls.Modifiers |= ast.ModInterface | ast.ModAbstract
		}
	case ast.ClassKindEnum:
		cls.Modifiers |= ast.ModEnum | ast.ModFinal
		cls.Super = &ast.Type{Name: ast.EnumType, Generics: []*ast.GenericType{{Type: &ast.Type{Name: cls.Name}}}}
		cls.Interfaces = implements
	case ast.ClassKindAnnotation:
		cls.Modifiers |= ast.ModInterface | ast.ModAbstract | ast.ModAnnotation
		cls.Super = ast.Object()
		cls.Interfaces = []*ast.Type{{Name: ast.AnnotationType}}
	}

	if outer != nil {
		outer.Inner = append(outer.Inner, cls)
	}

	// Classes and traits are listed before their members so that the first
	// class of a unit is never one of its inner classes.
	early := cls.Kind == ast.ClassKindClass || cls.Kind == ast.ClassKindTrait
	if early {
		b.module.Classes = append(b.module.Classes, cls)
	}
	b.withClass(cls, func() { b.classBody(cls, body) })
	if !early {
		b.module.Classes = append(b.module.Classes, cls)
	}
	return cls
}

func classKind(n *parser.Node) ast.ClassKind {
	switch n.TokenKind() {
	case parser.TokenInterface:
		if n.HasToken(parser.TokenAt) {
			return ast.ClassKindAnnotation
		}
		return ast.ClassKindInterface
	case parser.TokenTrait:
		return ast.ClassKindTrait
	case parser.TokenEnum:
		return ast.ClassKindEnum
	}
	return ast.ClassKindClass
}

func traitAnnotation() *ast.Annotation {
	return &ast.Annotation{Type: &ast.Type{Name: ast.TraitAnnotation}}
}

// hasDefaultMethods reports whether an interface body declares a method
// with the default modifier.
func hasDefaultMethods(body *parser.Node) bool {
	for _, m := range body.ChildrenOfKind(parser.KindMethodDecl) {
		if mods := m.FirstChildOfKind(parser.KindModifiers); mods != nil {
			for _, c := range mods.ChildrenOfKind(parser.KindModifier) {
				if c.TokenKind() == parser.TokenDefault {
					return true
				}
			}
		}
	}
	return false
}

// withClass runs fn with cls as the innermost class. Anonymous classes
// declared inside are numbered from 1.
func (b *builder) withClass(cls *ast.ClassNode, fn func()) {
	saved := b.anonCount
	b.anonCount = 1
	b.classes = append(b.classes, cls)
	fn()
	b.classes = b.classes[:len(b.classes)-1]
	b.anonCount = saved
}

func (b *builder) classBody(cls *ast.ClassNode, body *parser.Node) {
	for _, c := range body.Children {
		switch c.Kind {
		case parser.KindEnumConstant:
			b.enumConstant(cls, c)
		case parser.KindClassDecl:
			b.classDecl(c)
		case parser.KindMethodDecl:
			b.methodDecl(c)
		case parser.KindVariableDecl:
			b.fieldDecl(cls, c)
		case parser.KindInitializer:
			b.initializer(cls, c)
		default:
			b.defect(c, "unexpected %s in class body", c.Kind)
		}
	}
}

func (b *builder) initializer(cls *ast.ClassNode, n *parser.Node) {
	block := b.block(n.FirstChildOfKind(parser.KindBlock))
	if !n.HasToken(parser.TokenStatic) {
		cls.ObjectInitializers = append(cls.ObjectInitializers, block)
		return
	}
	if cls.StaticInitializer == nil {
		cls.StaticInitializer = block
		return
	}
	cls.StaticInitializer.Stmts = append(cls.StaticInitializer.Stmts, block.Stmts...)
	endAt(cls.StaticInitializer, block)
}

// anonymousClass builds the class of "new T() { ... }" or of an enum
// constant with a body, where enum is the enclosing enum.
func (b *builder) anonymousClass(super *ast.Type, body *parser.Node, enum *ast.ClassNode) *ast.ClassNode {
	outer := b.currentClass()
	if outer == nil {
		outer = b.module.ScriptClass
	}
	var outerName string
	if outer != nil {
		outerName = outer.Name
	}

	cls := stamp(b, &ast.ClassNode{
		Name:      outerName + "$" + strconv.Itoa(b.anonCount),
		Kind:      ast.ClassKindClass,
		Modifiers: ast.ModPublic,
		Super:     super,
		Anonymous: true,
		Outer:     outer,
	}, body)
	b.anonCount++
	cls.SetNameRange(cls.Start, cls.Start)
	if enum != nil {
		cls.Modifiers = enum.Modifiers | ast.ModFinal
		cls.EnumConstant = true
		enum.Modifiers &^= ast.ModFinal
	}
	if outer != nil {
		outer.Inner = append(outer.Inner, cls)
	}

	b.withClass(cls, func() { b.classBody(cls, body) })
	b.module.Classes = append(b.module.Classes, cls)
	return cls
}

func (b *builder) enumConstant(enum *ast.ClassNode, n *parser.Node) {
	ident := n.FirstChildOfKind(parser.KindIdentifier)
	name := ident.TokenLiteral()
	if f := enum.Field(name); f != nil {
		b.fail(n, "The field '%s' is declared multiple times", name)
	}

	var anon *ast.ClassNode
	if body := n.FirstChildOfKind(parser.KindClassBody); body != nil {
		anon = b.anonymousClass(&ast.Type{Name: enum.Name}, body, enum)
	}

	f := stamp(b, &ast.Field{
		Name:         name,
		Type:         &ast.Type{Name: enum.Name},
		Modifiers:    ast.ModPublic | ast.ModStatic | ast.ModFinal | ast.ModEnum,
		Annotations:  b.annotations(n.ChildrenOfKind(parser.KindAnnotation)),
		EnumConstant: true,
		Declaring:    enum,
	}, n)
	b.nameRange(f, ident)
	f.Init = b.enumConstantInit(n.FirstChildOfKind(parser.KindArguments), anon)
	enum.Fields = append(enum.Fields, f)
}

// enumConstantInit packs the constructor arguments of an enum constant,
// followed by its class if it has a body, into the field initializer.
func (b *builder) enumConstantInit(args *parser.Node, anon *ast.ClassNode) ast.Expr {
	if args == nil && anon == nil {
		return nil
	}
	classExpr := func() ast.Expr {
		return copyPos(&ast.ClassExpr{Type: &ast.Type{Name: anon.Name}}, anon)
	}

	var exprs []ast.Expr
	if args != nil {
		exprs = argumentList(b.arguments(args))
	}

	if len(exprs) == 1 {
		e := exprs[0]
		if named, ok := e.(*ast.MapExpr); ok && named.Named {
			list := stamp(b, &ast.ListExpr{}, args)
			for _, entry := range named.Entries {
				list.Elements = append(list.Elements, entry)
			}
			if anon != nil {
				list.Elements = append(list.Elements, classExpr())
			}
			list.Wrapped = len(named.Entries) > 1
			return list
		}
		if anon == nil {
			if _, ok := e.(*ast.ListExpr); ok {
				return stamp(b, &ast.ListExpr{Elements: []ast.Expr{e}}, args)
			}
			return e
		}
		list := stamp(b, &ast.ListExpr{}, args)
		if inner, ok := e.(*ast.ListExpr); ok {
			list.Elements = append(list.Elements, inner.Elements...)
		} else {
			list.Elements = append(list.Elements, e)
		}
		list.Elements = append(list.Elements, classExpr())
		return list
	}

	list := &ast.ListExpr{Elements: exprs}
	if anon != nil {
		list.Elements = append(list.Elements, classExpr())
	}
	if args != nil {
		list.Wrapped = true
		return stamp(b, list, args)
	}
	return copyPos(list, anon)
}

// fieldDecl declares the fields or properties of one member declaration.
// Members with a visibility modifier, and all members of interfaces, are
// fields; the others are properties backed by a private field.
func (b *builder) fieldDecl(cls *ast.ClassNode, n *parser.Node) {
	mods := b.modifiers(n.FirstChildOfKind(parser.KindModifiers))
	typeNode := n.FirstChildOfKind(parser.KindType)
	base := b.typ(typeNode)
	if t := n.FirstChildOfKind(parser.KindTupleDeclarator); t != nil {
		b.fail(t, "Multiple assignment declarations are not allowed in a class body")
	}

	isField := cls.IsInterface() || mods.hasVisibility()
	for i, d := range n.ChildrenOfKind(parser.KindVariableDeclarator) {
		ident := d.Children[0]
		name := ident.TokenLiteral()
		t := base
		if dims := d.FirstChildOfKind(parser.KindDims); dims != nil {
			clone := *base
			clone.Dims += len(dims.Children)
			t = &clone
		}

		var init ast.Expr
		if len(d.Children) > 1 && d.Children[len(d.Children)-1].Kind != parser.KindDims {
			init = b.expr(d.Children[len(d.Children)-1])
		}
		flags := mods.flags
		if cls.IsInterface() {
			if init == nil {
				init = defaultValue(t)
			}
			flags |= ast.ModPublic | ast.ModStatic | ast.ModFinal
		}

		// The first member of a declaration starts at its modifiers.
		pos := b.posOf(ident)
		if i == 0 {
			pos = b.posOf(n)
		}
		if init != nil && init.Position().IsSet() {
			end := init.Position()
			pos.LastLine, pos.LastColumn, pos.End = end.LastLine, end.LastColumn, end.End
		} else {
			end := b.posOf(ident)
			pos.LastLine, pos.LastColumn, pos.End = end.LastLine, end.LastColumn, end.End
		}

		if isField {
			b.declareField(cls, d, mods, name, t, typeNode == nil, flags, init, pos, ident)
		} else {
			b.declareProperty(cls, d, mods, name, t, typeNode == nil, flags, init, pos, ident)
		}
	}
}

func (b *builder) declareField(cls *ast.ClassNode, n *parser.Node, mods *modifierSet, name string, t *ast.Type, dynamic bool, flags ast.Modifiers, init ast.Expr, pos ast.Pos, ident *parser.Node) {
	if existing := cls.Field(name); existing != nil && !existing.Synthetic {
		b.fail(n, "The field '%s' is declared multiple times", name)
	}

	f := &ast.Field{
		Pos:         pos,
		Name:        name,
		Type:        t,
		Modifiers:   flags,
		Annotations: mods.annotations,
		Init:        init,
		Dynamic:     dynamic,
		Declaring:   cls,
	}
	b.nameRange(f, ident)

	if p := cls.Property(name); p != nil && p.Field.Synthetic {
		cls.Fields = removeField(cls.Fields, p.Field)
		p.Field = f
	}
	cls.Fields = append(cls.Fields, f)
}

func (b *builder) declareProperty(cls *ast.ClassNode, n *parser.Node, mods *modifierSet, name string, t *ast.Type, dynamic bool, flags ast.Modifiers, init ast.Expr, pos ast.Pos, ident *parser.Node) {
	if cls.Property(name) != nil {
		b.fail(n, "The property '%s' is declared multiple times", name)
	}

	f := cls.Field(name)
	if f == nil {
		f = &ast.Field{
			Name:      name,
			Type:      t,
			Init:      init,
			Dynamic:   dynamic,
			Declaring: cls,
		}
		cls.Fields = append(cls.Fields, f)
		f.Annotations = mods.annotations
		f.Pos = pos
		b.nameRange(f, ident)
		f.Modifiers = flags&^ast.ModPublic | ast.ModPrivate
		f.Synthetic = !cls.IsInterface()
	}

	p := &ast.Property{
		Pos:       pos,
		Name:      name,
		Modifiers: flags | ast.ModPublic,
		Field:     f,
	}
	b.nameRange(p, ident)
	cls.Properties = append(cls.Properties, p)
}

func removeField(fields []*ast.Field, f *ast.Field) []*ast.Field {
	for i, g := range fields {
		if g == f {
			return append(fields[:i:i], fields[i+1:]...)
		}
	}
	return fields
}

// defaultValue is the implicit initializer of an interface constant of a
// primitive type. Other types have none.
func defaultValue(t *ast.Type) ast.Expr {
	if !t.Primitive || t.Dims > 0 {
		return nil
	}
	var v any
	switch t.Name {
	case "boolean":
		v = false
	case "char":
		v = "\x00"
	case "byte", "short", "int":
		v = int32(0)
	case "long":
		v = int64(0)
	case "float":
		v = float32(0)
	case "double":
		v = float64(0)
	default:
		return nil
	}
	return &ast.ConstantExpr{Value: v, Type: t.Name}
}
