package builder

import (
	"testing"

	"github.com/dhamidi/grove/groovy/ast"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDuplicateMembers(t *testing.T) {
	tests := []struct {
		input   string
		message string
	}{
		{"class A { int x\n int x }", "The property 'x' is declared multiple times"},
		{"class A { private int x; private String x }", "The field 'x' is declared multiple times"},
		{"class A { public int x, x }", "The field 'x' is declared multiple times"},
		{"class A { private int x; int x; private int x }", "The field 'x' is declared multiple times"},
		{"enum E { RED, RED }", "The field 'RED' is declared multiple times"},
		{"class A { void m(int a) {}; void m(int b) {} }", "The method public void m(int a) duplicates another method of the same signature"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			d := violation(t, tt.input)
			assert.Equal(t, tt.message, d.Message)
		})
	}
}

func TestFieldAndPropertyMerge(t *testing.T) {
	mod := build(t, "class A { private int x; int x }")
	cls := mod.Class("A")
	require.Len(t, cls.Fields, 1)
	require.Len(t, cls.Properties, 1)
	assert.Same(t, cls.Fields[0], cls.Properties[0].Field)
	assert.False(t, cls.Fields[0].Synthetic)
	assert.True(t, cls.Fields[0].Modifiers.IsPrivate())
}

func TestAnonymousClassRangeCoversName(t *testing.T) {
	src := "def r = new Runnable() { void run() { } }"
	mod := build(t, src)
	cls := mod.Class("test$1")
	require.NotNil(t, cls)

	start, end := cls.NameRange()
	assert.Equal(t, "Runnable", src[start:end+1])
	if !(cls.Start <= start && end < cls.End) {
		t.Errorf("got class %d..%d, name %d..%d, want the name inside the class", cls.Start, cls.End, start, end)
	}
	assert.Equal(t, "Runnable() { void run() { } }", src[cls.Start:cls.End])
}

func TestPropertiesAndFields(t *testing.T) {
	mod := build(t, "class A { String name = 'n'\n private int count\n static final X = 1 }")
	cls := mod.Class("A")

	name := cls.Property("name")
	require.NotNil(t, name)
	assert.True(t, name.Modifiers.Has(ast.ModPublic))
	require.NotNil(t, name.Field)
	assert.True(t, name.Field.Synthetic)
	assert.True(t, name.Field.Modifiers.Has(ast.ModPrivate))
	assert.Equal(t, "n", name.Field.Init.(*ast.ConstantExpr).Value)

	assert.Nil(t, cls.Property("count"))
	count := cls.Field("count")
	require.NotNil(t, count)
	assert.Equal(t, "int", count.Type.Name)

	x := cls.Property("X")
	require.NotNil(t, x)
	assert.True(t, x.Modifiers.Has(ast.ModStatic|ast.ModFinal))
	assert.True(t, x.Field.Dynamic)
}

func TestInterfaceMethodBody(t *testing.T) {
	d := violation(t, "interface I { void m() { } }")
	assert.Equal(t, "You defined an abstract method[m] with body. Try removing the method body, or declare it default", d.Message)

	d = violation(t, "abstract class A { abstract void m() { } }")
	assert.Equal(t, "You defined an abstract method[m] with body. Try removing the method body", d.Message)

	d = violation(t, "class A { void m() }")
	assert.Equal(t, "You defined a method[m] without body. Try adding a method body, or declare it abstract", d.Message)
}

func TestInterfaceWithDefaultMethodsIsTrait(t *testing.T) {
	mod := build(t, "interface I extends J { default void a() { }\n void m() { }\n static void s() { } }")
	cls := mod.Class("I")
	require.NotNil(t, cls)

	assert.True(t, cls.DefaultMethods)
	assert.False(t, cls.IsInterface())
	assert.True(t, cls.HasAnnotation(ast.TraitAnnotation))
	require.Len(t, cls.Interfaces, 1)
	assert.Equal(t, "J", cls.Interfaces[0].Name)

	assert.False(t, cls.Method("a").IsAbstract())
	assert.True(t, cls.Method("m").IsAbstract())
	assert.False(t, cls.Method("s").IsAbstract())
}

func TestInterfaceMembers(t *testing.T) {
	mod := build(t, "interface I { int X\n String NAME = 'n'\n void m() }")
	cls := mod.Class("I")
	require.NotNil(t, cls)
	assert.True(t, cls.IsInterface())
	assert.True(t, cls.Modifiers.Has(ast.ModAbstract))

	x := cls.Field("X")
	require.NotNil(t, x)
	assert.True(t, x.Modifiers.Has(ast.ModPublic|ast.ModStatic|ast.ModFinal))
	assert.Equal(t, int32(0), x.Init.(*ast.ConstantExpr).Value)
	assert.Empty(t, cls.Properties)

	assert.True(t, cls.Method("m").IsAbstract())
}

func TestInterfaceParameterDefault(t *testing.T) {
	d := violation(t, "interface I { void m(int a = 1) }")
	assert.Equal(t, "Cannot specify default value for method parameter 'a = 1' inside an interface", d.Message)
}

func TestClassKinds(t *testing.T) {
	tests := []struct {
		input string
		name  string
		kind  ast.ClassKind
		super string
	}{
		{"class A {}", "A", ast.ClassKindClass, ast.ObjectType},
		{"class A extends B {}", "A", ast.ClassKindClass, "B"},
		{"trait T {}", "T", ast.ClassKindTrait, ast.ObjectType},
		{"enum E { X }", "E", ast.ClassKindEnum, ast.EnumType},
		{"@interface Ann { String value() }", "Ann", ast.ClassKindAnnotation, ast.ObjectType},
		{"package p\nclass A {}", "p.A", ast.ClassKindClass, ast.ObjectType},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			mod := build(t, tt.input)
			cls := mod.Class(tt.name)
			require.NotNil(t, cls)
			assert.Equal(t, tt.kind, cls.Kind)
			assert.Equal(t, tt.super, cls.Super.Name)
		})
	}
}

func TestClassVisibility(t *testing.T) {
	mod := build(t, "class A {}\nprivate class B {}")
	a, b := mod.Class("A"), mod.Class("B")
	assert.True(t, a.Modifiers.Has(ast.ModPublic))
	assert.True(t, a.SyntheticPublic)
	assert.True(t, b.Modifiers.Has(ast.ModPrivate))
	assert.False(t, b.SyntheticPublic)
}

func TestTraitAnnotation(t *testing.T) {
	mod := build(t, "trait T { void hello() { } }")
	cls := mod.Class("T")
	assert.True(t, cls.HasAnnotation(ast.TraitAnnotation))
}

func TestInnerClasses(t *testing.T) {
	mod := build(t, "class A { class B { } \n enum C { X } }")
	a := mod.Class("A")
	require.NotNil(t, a)
	require.Len(t, a.Inner, 2)

	b := mod.Class("A$B")
	require.NotNil(t, b)
	assert.Same(t, a, b.Outer)
	c := mod.Class("A$C")
	require.NotNil(t, c)
	assert.True(t, c.Modifiers.Has(ast.ModStatic))
	assert.Same(t, a, mod.Classes[0])
}

func TestEnumConstants(t *testing.T) {
	mod := build(t, "enum Color { RED, GREEN(2), BLUE { String toString() { 'b' } } }")
	enum := mod.Class("Color")
	require.NotNil(t, enum)
	require.Len(t, enum.Fields, 3)

	for _, f := range enum.Fields {
		assert.True(t, f.EnumConstant, f.Name)
		assert.True(t, f.Modifiers.Has(ast.ModPublic|ast.ModStatic|ast.ModFinal|ast.ModEnum), f.Name)
		assert.Equal(t, "Color", f.Type.Name)
	}
	assert.Nil(t, enum.Fields[0].Init)
	assert.Equal(t, int32(2), enum.Fields[1].Init.(*ast.ConstantExpr).Value)

	blue := mod.Class("Color$1")
	require.NotNil(t, blue)
	assert.True(t, blue.Anonymous)
	assert.True(t, blue.EnumConstant)
	assert.True(t, blue.Modifiers.Has(ast.ModFinal))
	assert.False(t, enum.Modifiers.Has(ast.ModFinal))
	assert.Equal(t, "Color", blue.Super.Name)

	init, ok := enum.Fields[2].Init.(*ast.ListExpr)
	require.True(t, ok)
	require.Len(t, init.Elements, 1)
	assert.Equal(t, "Color$1", init.Elements[0].(*ast.ClassExpr).Type.Name)
}

func TestAnonymousClasses(t *testing.T) {
	src := `class A {
    def m() {
        def r = new Runnable() { void run() { } }
        def c = new Object() { }
    }
    class B { def n() { new Object() { } } }
}
def s() { new Object() { } }
`
	mod := build(t, src)

	tests := []struct {
		name  string
		outer string
		super string
	}{
		{"A$1", "A", "Runnable"},
		{"A$2", "A", "Object"},
		{"A$B$1", "A$B", "Object"},
		{"test$1", "test", "Object"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cls := mod.Class(tt.name)
			require.NotNil(t, cls)
			assert.True(t, cls.Anonymous)
			require.NotNil(t, cls.Outer)
			assert.Equal(t, tt.outer, cls.Outer.Name)
			assert.Equal(t, tt.super, cls.Super.Name)
		})
	}

	m := mod.Class("A").Method("m")
	require.Len(t, m.AnonymousClasses, 2)
	assert.Same(t, m, m.AnonymousClasses[0].EnclosingMethod)

	calls := ast.Collect[*ast.ConstructorCallExpr](m)
	require.Len(t, calls, 2)
	assert.Same(t, mod.Class("A$1"), calls[0].Anonymous)
	assert.Equal(t, "A$1", calls[0].Type.Name)
}

func TestConstructors(t *testing.T) {
	mod := build(t, "class A { A() { this(1) }\n A(int x) { super() } }")
	cls := mod.Class("A")
	require.Len(t, cls.Constructors, 2)
	assert.Empty(t, cls.Methods)
	for _, c := range cls.Constructors {
		assert.True(t, c.Constructor)
		assert.Nil(t, c.ReturnType)
	}

	calls := ast.Collect[*ast.ConstructorCallExpr](cls.Constructors[0])
	require.Len(t, calls, 1)
	assert.Equal(t, "this", calls[0].Special)
}

func TestConstructorCallMustComeFirst(t *testing.T) {
	d := violation(t, "class A { A() { println 1\n this(2) } }")
	assert.Equal(t, "this(2) should be the first statement in the constructor[A]", d.Message)
}

func TestMethodModifiers(t *testing.T) {
	mod := build(t, "class A { def a() {}\n private b() {}\n static void c(x) {} }")
	cls := mod.Class("A")

	a := cls.Method("a")
	assert.True(t, a.Modifiers.Has(ast.ModPublic))
	assert.True(t, a.SyntheticPublic)
	assert.Equal(t, ast.ObjectType, a.ReturnType.Name)

	b := cls.Method("b")
	assert.True(t, b.Modifiers.Has(ast.ModPrivate))
	assert.False(t, b.SyntheticPublic)

	c := cls.Method("c")
	require.Len(t, c.Parameters, 1)
	assert.True(t, c.Parameters[0].InStaticContext)
	assert.True(t, c.Parameters[0].Dynamic)
}

func TestModifierRules(t *testing.T) {
	tests := []struct {
		input   string
		message string
	}{
		{"class A { static static int x }", "Cannot repeat modifier: static"},
		{"class A { public private int x }", "Cannot specify modifier: private when access scope has already been defined"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			d := violation(t, tt.input)
			assert.Equal(t, tt.message, d.Message)
		})
	}
}

func TestParameterRules(t *testing.T) {
	tests := []struct {
		input   string
		message string
	}{
		{"def m(String... a, int b) {}", "The var-arg parameter a must be the last parameter"},
		{"def m(a, a) {}", "Duplicated parameter 'a' found."},
		{"c = { a, a -> a }", "Duplicated parameter 'a' found."},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			d := violation(t, tt.input)
			assert.Equal(t, tt.message, d.Message)
		})
	}
}

func TestVarargParameter(t *testing.T) {
	mod := build(t, "def m(int a, String... rest) {}")
	require.Len(t, mod.Methods, 1)
	m := mod.Methods[0]
	assert.True(t, m.ScriptMethod)
	require.Len(t, m.Parameters, 2)
	rest := m.Parameters[1]
	assert.True(t, rest.Vararg)
	assert.Equal(t, 1, rest.Type.Dims)
	assert.Equal(t, "String", rest.Type.Name)
}

func TestScriptMethodRules(t *testing.T) {
	d := violation(t, "abstract def m() {}")
	assert.Equal(t, "You can not define a abstract method[m]  in the script. Try removing the 'abstract'", d.Message)
}

func TestTupleDeclarationInClassBody(t *testing.T) {
	d := violation(t, "class A { def (a, b) = [1, 2] }")
	assert.Equal(t, "Multiple assignment declarations are not allowed in a class body", d.Message)
}

func TestAnnotations(t *testing.T) {
	mod := build(t, "@Grab(group = 'g', module = 'm')\n@Deprecated\nclass A {}")
	cls := mod.Class("A")
	require.Len(t, cls.Annotations, 2)
	assert.Equal(t, "Grab", cls.Annotations[0].Type.Name)
	assert.Equal(t, "g", cls.Annotations[0].Member("group").(*ast.ConstantExpr).Value)
	assert.Equal(t, "Deprecated", cls.Annotations[1].Type.Name)

	d := violation(t, "@A(x = 1, x = 2) class B {}")
	assert.Equal(t, "Duplicate key x", d.Message)
}

func TestStaticInitializer(t *testing.T) {
	mod := build(t, "class A { static { x() }\n static { y() }\n { z() } }")
	cls := mod.Class("A")
	require.NotNil(t, cls.StaticInitializer)
	assert.Len(t, cls.StaticInitializer.Stmts, 2)
	require.Len(t, cls.ObjectInitializers, 1)
}
