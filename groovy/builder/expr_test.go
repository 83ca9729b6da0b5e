package builder

import (
	"testing"

	"github.com/dhamidi/grove/groovy/ast"
	"github.com/dhamidi/grove/groovy/syntax"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// constants returns the values of a list of constant expressions.
func constants(t *testing.T, exprs []ast.Expr) []any {
	t.Helper()
	var out []any
	for _, e := range exprs {
		c, ok := e.(*ast.ConstantExpr)
		require.True(t, ok, "got %T, want *ast.ConstantExpr", e)
		out = append(out, c.Value)
	}
	return out
}

func methodName(t *testing.T, call *ast.MethodCallExpr) any {
	t.Helper()
	c, ok := call.Method.(*ast.ConstantExpr)
	require.True(t, ok, "got %T, want *ast.ConstantExpr", call.Method)
	return c.Value
}

func TestCommandCallMatchesParenthesizedCall(t *testing.T) {
	tests := []struct {
		input   string
		command bool
	}{
		{"foo 1, 2", true},
		{"foo(1, 2)", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			call, ok := firstExpr(t, tt.input).(*ast.MethodCallExpr)
			require.True(t, ok)
			assert.Equal(t, "foo", methodName(t, call))
			assert.True(t, call.ImplicitThis)
			assert.Equal(t, tt.command, call.Command)

			this, ok := call.Object.(*ast.VariableExpr)
			require.True(t, ok)
			assert.True(t, this.IsThis())

			args, ok := call.Args.(*ast.ArgumentListExpr)
			require.True(t, ok)
			assert.Equal(t, []any{int32(1), int32(2)}, constants(t, args.Args))

			start, end := call.NameRange()
			if got := tt.input[start : end+1]; got != "foo" {
				t.Errorf("got name %q, want %q", got, "foo")
			}
			assert.Equal(t, 0, call.Start)
			assert.Equal(t, len(tt.input), call.End)
		})
	}
}

func TestCommandChain(t *testing.T) {
	outer, ok := firstExpr(t, "move left by 2").(*ast.MethodCallExpr)
	require.True(t, ok)
	assert.Equal(t, "by", methodName(t, outer))
	assert.True(t, outer.Command)
	assert.Equal(t, []any{int32(2)}, constants(t, outer.Args.(*ast.ArgumentListExpr).Args))
	assert.Equal(t, 0, outer.Start)

	inner, ok := outer.Object.(*ast.MethodCallExpr)
	require.True(t, ok)
	assert.Equal(t, "move", methodName(t, inner))
	assert.True(t, inner.ImplicitThis)
	assert.Equal(t, 0, inner.Start)
	assert.Equal(t, len("move left"), inner.End)

	prop, ok := firstExpr(t, "take coffee with").(*ast.PropertyExpr)
	require.True(t, ok)
	assert.Equal(t, "with", prop.Property.(*ast.ConstantExpr).Value)
	_, ok = prop.Object.(*ast.MethodCallExpr)
	assert.True(t, ok)
}

func TestCommandWithStringArgument(t *testing.T) {
	call, ok := firstExpr(t, "println 'hi'").(*ast.MethodCallExpr)
	require.True(t, ok)
	assert.Equal(t, "println", methodName(t, call))
	assert.Equal(t, []any{"hi"}, constants(t, argumentList(call.Args)))
}

func TestNamedArguments(t *testing.T) {
	call := firstExpr(t, "foo(a: 1, b: 2)").(*ast.MethodCallExpr)
	tuple, ok := call.Args.(*ast.TupleExpr)
	require.True(t, ok)
	require.Len(t, tuple.Exprs, 1)
	named := tuple.Exprs[0].(*ast.MapExpr)
	assert.True(t, named.Named)
	require.Len(t, named.Entries, 2)
	assert.Equal(t, "a", named.Entries[0].Key.(*ast.ConstantExpr).Value)

	call = firstExpr(t, "foo(a: 1, 2)").(*ast.MethodCallExpr)
	args, ok := call.Args.(*ast.ArgumentListExpr)
	require.True(t, ok)
	require.Len(t, args.Args, 2)
	assert.True(t, args.Args[0].(*ast.MapExpr).Named)

	call = firstExpr(t, "foo a: 1").(*ast.MethodCallExpr)
	_, ok = call.Args.(*ast.TupleExpr)
	assert.True(t, ok)
}

func TestDuplicateNamedArgument(t *testing.T) {
	tests := []string{"foo(a: 1, a: 2)", "foo a: 1, a: 2", "foo('a': 1, a: 2)"}

	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			d := violation(t, input)
			assert.Equal(t, "Duplicated named parameter 'a' found", d.Message)
		})
	}
}

func TestTrailingClosure(t *testing.T) {
	call := firstExpr(t, "foo(1) { it }").(*ast.MethodCallExpr)
	args := call.Args.(*ast.ArgumentListExpr).Args
	require.Len(t, args, 2)
	_, ok := args[1].(*ast.ClosureExpr)
	assert.True(t, ok)

	call = firstExpr(t, "foo(a: 1) { it }").(*ast.MethodCallExpr)
	args = call.Args.(*ast.ArgumentListExpr).Args
	require.Len(t, args, 2)
	m := args[0].(*ast.MapExpr)
	assert.False(t, m.Named)
	assert.Len(t, m.Entries, 1)

	call = firstExpr(t, "xs.each { println it }").(*ast.MethodCallExpr)
	assert.Equal(t, "each", methodName(t, call))
	assert.Equal(t, "xs", call.Object.(*ast.VariableExpr).Name)
	assert.False(t, call.ImplicitThis)
}

func TestPropertyAccess(t *testing.T) {
	tests := []struct {
		input                              string
		safe, spread, attribute, safeChain bool
	}{
		{"a.b", false, false, false, false},
		{"a?.b", true, false, false, false},
		{"a*.b", true, true, false, false},
		{"a.@b", false, false, true, false},
		{"a*.@b", true, true, true, false},
		{"x??.b", true, false, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			p, ok := firstExpr(t, tt.input).(*ast.PropertyExpr)
			require.True(t, ok)
			assert.Equal(t, "b", p.Property.(*ast.ConstantExpr).Value)
			assert.Equal(t, tt.safe, p.Safe, "safe")
			assert.Equal(t, tt.spread, p.SpreadSafe, "spread")
			assert.Equal(t, tt.attribute, p.Attribute, "attribute")
			assert.Equal(t, tt.safeChain, p.SafeChain, "safe chain")
		})
	}
}

func TestSafeChainPropagates(t *testing.T) {
	p := firstExpr(t, "a??.b.c").(*ast.PropertyExpr)
	assert.True(t, p.Safe)
	assert.True(t, p.SafeChain)
	assert.Equal(t, "c", p.Property.(*ast.ConstantExpr).Value)
}

func TestMethodCalls(t *testing.T) {
	tests := []struct {
		input        string
		name         any
		safe, spread bool
		implicitThis bool
	}{
		{"a.b()", "b", false, false, false},
		{"a?.b()", "b", true, false, false},
		{"a*.b()", "b", false, true, false},
		{"this.b()", "b", false, false, false},
		{"b()", "b", false, false, true},
		{"a.b.c()", "c", false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			call, ok := firstExpr(t, tt.input).(*ast.MethodCallExpr)
			require.True(t, ok)
			assert.Equal(t, tt.name, methodName(t, call))
			assert.Equal(t, tt.safe, call.Safe, "safe")
			assert.Equal(t, tt.spread, call.SpreadSafe, "spread")
			assert.Equal(t, tt.implicitThis, call.ImplicitThis, "implicit this")
			assert.Equal(t, 0, call.Start)
			assert.Equal(t, len(tt.input), call.End)
		})
	}
}

func TestGenericMethodCall(t *testing.T) {
	call := firstExpr(t, "a.<String>b()").(*ast.MethodCallExpr)
	require.Len(t, call.Generics, 1)
	assert.Equal(t, "String", call.Generics[0].Type.Name)
}

func TestMethodPointers(t *testing.T) {
	ptr, ok := firstExpr(t, "a.&b").(*ast.MethodPointerExpr)
	require.True(t, ok)
	assert.Equal(t, "b", ptr.Method.(*ast.ConstantExpr).Value)

	ref, ok := firstExpr(t, "String::valueOf").(*ast.MethodReferenceExpr)
	require.True(t, ok)
	assert.Equal(t, "valueOf", ref.Method.(*ast.ConstantExpr).Value)
}

func TestSpecialCalls(t *testing.T) {
	c := firstExpr(t, "c = { -> this(1) }").(*ast.BinaryExpr).Right.(*ast.ClosureExpr)
	call := c.Body.(*ast.BlockStmt).Stmts[0].(*ast.ExprStmt).Expr.(*ast.MethodCallExpr)
	assert.Equal(t, "call", methodName(t, call))
	assert.True(t, call.ImplicitThis)
	assert.True(t, call.Object.(*ast.VariableExpr).IsThis())
}

func TestIndex(t *testing.T) {
	bin := firstExpr(t, "a[0]").(*ast.BinaryExpr)
	assert.Equal(t, syntax.OpIndex, bin.Op)
	assert.Equal(t, int32(0), bin.Right.(*ast.ConstantExpr).Value)
	assert.False(t, bin.Safe)

	bin = firstExpr(t, "a[1, 2]").(*ast.BinaryExpr)
	list := bin.Right.(*ast.ListExpr)
	assert.True(t, list.Wrapped)
	assert.Equal(t, []any{int32(1), int32(2)}, constants(t, list.Elements))

	bin = firstExpr(t, "a?[0]").(*ast.BinaryExpr)
	assert.True(t, bin.Safe)

	bin = firstExpr(t, "a[*xs]").(*ast.BinaryExpr)
	list = bin.Right.(*ast.ListExpr)
	assert.False(t, list.Wrapped)
	_, ok := list.Elements[0].(*ast.SpreadExpr)
	assert.True(t, ok)
}

func TestAssignmentTargets(t *testing.T) {
	tests := []struct {
		input string
		left  string
	}{
		{"a = 1", "*ast.VariableExpr"},
		{"a.b = 1", "*ast.PropertyExpr"},
		{"a[0] = 1", "*ast.BinaryExpr"},
		{"a += 1", "*ast.VariableExpr"},
		{"(a) = 1", "*ast.TupleExpr"},
		{"(a, b) = [1, 2]", "*ast.TupleExpr"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			bin, ok := firstExpr(t, tt.input).(*ast.BinaryExpr)
			require.True(t, ok)
			assert.True(t, bin.Op.IsAssignment())
			if got := typeString(bin.Left); got != tt.left {
				t.Errorf("got %s, want %s", got, tt.left)
			}
		})
	}

	bin := firstExpr(t, "(a, b) = [1, 2]").(*ast.BinaryExpr)
	assert.Len(t, bin.Left.(*ast.TupleExpr).Exprs, 2)
}

func TestInvalidAssignmentTargets(t *testing.T) {
	tests := []struct {
		input   string
		message string
	}{
		{"f() = 1", "The LHS of an assignment should be a variable or a field accessing expression"},
		{"1 = 2", "The LHS of an assignment should be a variable or a field accessing expression"},
		{"((a)) = 1", "Nested parenthesis is not allowed in multiple assignment, e.g. ((a)) = b"},
		{"(a, b) += [1, 2]", "Multiple assignment only supports the = operator"},
		{"(a, b.c) = [1, 2]", "The LHS of an assignment should be a variable or a field accessing expression"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			d := violation(t, tt.input)
			assert.Equal(t, tt.message, d.Message)
		})
	}
}

func typeString(e ast.Expr) string {
	switch e.(type) {
	case *ast.VariableExpr:
		return "*ast.VariableExpr"
	case *ast.PropertyExpr:
		return "*ast.PropertyExpr"
	case *ast.BinaryExpr:
		return "*ast.BinaryExpr"
	case *ast.TupleExpr:
		return "*ast.TupleExpr"
	}
	return "other"
}

func TestUnaryOperators(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"-x", "minus"},
		{"+x", "plus"},
		{"!x", "not"},
		{"~x", "bitnot"},
		{"++x", "prefix"},
		{"--x", "prefix"},
		{"-'s'", "minus"},
		{"+'s'", "plus"},
		{"-true", "minus"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			var got string
			switch firstExpr(t, tt.input).(type) {
			case *ast.UnaryMinusExpr:
				got = "minus"
			case *ast.UnaryPlusExpr:
				got = "plus"
			case *ast.NotExpr:
				got = "not"
			case *ast.BitwiseNegationExpr:
				got = "bitnot"
			case *ast.PrefixExpr:
				got = "prefix"
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSignedLiterals(t *testing.T) {
	tests := []struct {
		input string
		want  any
	}{
		{"-1", int32(-1)},
		{"-2147483648", int32(-2147483648)},
		{"-9223372036854775808", int64(-9223372036854775808)},
		{"+1", int32(1)},
		{"-1.5f", float32(-1.5)},
		{"-1L", int64(-1)},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			c, ok := firstExpr(t, tt.input).(*ast.ConstantExpr)
			require.True(t, ok)
			assert.Equal(t, tt.want, c.Value)
			assert.Equal(t, 0, c.Start)
			assert.Equal(t, len(tt.input), c.End)
		})
	}
}

func TestNumberOutOfRange(t *testing.T) {
	d := violation(t, "x = 2147483648i")
	assert.Equal(t, "Number of value 2147483648 exceeds the range of type int", d.Message)
	assert.Equal(t, 4, d.Range.Start.Offset)

	build(t, "x = -2147483648i")
}

func TestPostfixInAssert(t *testing.T) {
	mod := build(t, "assert x++ == 1")
	post := ast.Collect[*ast.PostfixExpr](mod)
	require.Len(t, post, 1)
	assert.Equal(t, 8, post[0].Start)
	assert.Equal(t, 10, post[0].End)

	post = ast.Collect[*ast.PostfixExpr](build(t, "x++"))
	require.Len(t, post, 1)
	assert.Equal(t, 0, post[0].Start)
}

func TestRangesAndTernaries(t *testing.T) {
	r := firstExpr(t, "1..2").(*ast.RangeExpr)
	assert.True(t, r.Inclusive)
	r = firstExpr(t, "1..<2").(*ast.RangeExpr)
	assert.False(t, r.Inclusive)

	tern := firstExpr(t, "a ? b : c").(*ast.TernaryExpr)
	_, ok := tern.Cond.Expr.(*ast.VariableExpr)
	assert.True(t, ok)

	elvis := firstExpr(t, "a ?: b").(*ast.ElvisExpr)
	assert.Equal(t, "a", elvis.Cond.(*ast.VariableExpr).Name)
}

func TestTypeOperators(t *testing.T) {
	bin := firstExpr(t, "x instanceof String").(*ast.BinaryExpr)
	assert.Equal(t, syntax.OpInstanceof, bin.Op)
	assert.Equal(t, "String", bin.Right.(*ast.ClassExpr).Type.Name)

	cast := firstExpr(t, "(String) x").(*ast.CastExpr)
	assert.False(t, cast.Coerce)
	assert.Equal(t, "String", cast.Type.Name)

	cast = firstExpr(t, "x as List").(*ast.CastExpr)
	assert.True(t, cast.Coerce)
}

func TestCollections(t *testing.T) {
	list := firstExpr(t, "[1, *xs]").(*ast.ListExpr)
	require.Len(t, list.Elements, 2)
	_, ok := list.Elements[1].(*ast.SpreadExpr)
	assert.True(t, ok)

	m := firstExpr(t, "[a: 1, 'b': 2, *: other]").(*ast.MapExpr)
	require.Len(t, m.Entries, 3)
	assert.Equal(t, "a", m.Entries[0].Key.(*ast.ConstantExpr).Value)
	assert.Equal(t, "b", m.Entries[1].Key.(*ast.ConstantExpr).Value)
	_, ok = m.Entries[2].Key.(*ast.SpreadMapExpr)
	assert.True(t, ok)

	empty := firstExpr(t, "[:]").(*ast.MapExpr)
	assert.Empty(t, empty.Entries)

	d := violation(t, "x = [,]")
	assert.Equal(t, "Empty list constructor should not contain any comma(,)", d.Message)
	assert.Equal(t, 5, d.Range.Start.Offset)
	assert.Equal(t, 6, d.Range.End.Offset)
}

func TestClosureParameters(t *testing.T) {
	tests := []struct {
		input    string
		implicit bool
		params   int
	}{
		{"c = { it }", true, 0},
		{"c = { -> 1 }", false, 0},
		{"c = { a, b -> a }", false, 2},
		{"c = { String s -> s }", false, 1},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			bin := firstExpr(t, tt.input).(*ast.BinaryExpr)
			c, ok := bin.Right.(*ast.ClosureExpr)
			require.True(t, ok)
			assert.Equal(t, tt.implicit, c.HasImplicitParam())
			assert.Len(t, c.Params, tt.params)
		})
	}
}

func TestLambda(t *testing.T) {
	bin := firstExpr(t, "f = (a, b) -> a + b").(*ast.BinaryExpr)
	l, ok := bin.Right.(*ast.LambdaExpr)
	require.True(t, ok)
	require.Len(t, l.Params, 2)
	_, ok = l.Body.(*ast.ExprStmt)
	assert.True(t, ok)

	bin = firstExpr(t, "f = () -> { 1 }").(*ast.BinaryExpr)
	l = bin.Right.(*ast.LambdaExpr)
	assert.Nil(t, l.Params)
	_, ok = l.Body.(*ast.BlockStmt)
	assert.True(t, ok)
}

func TestCreators(t *testing.T) {
	call := firstExpr(t, "new Foo(1)").(*ast.ConstructorCallExpr)
	assert.Equal(t, "Foo", call.Type.Name)
	assert.Equal(t, []any{int32(1)}, constants(t, argumentList(call.Args)))
	start, end := call.NameRange()
	assert.Equal(t, "Foo", "new Foo(1)"[start:end+1])

	arr := firstExpr(t, "new int[3]").(*ast.ArrayExpr)
	assert.Equal(t, "int", arr.ElementType.Name)
	assert.Equal(t, []any{int32(3)}, constants(t, arr.Sizes))

	arr = firstExpr(t, "new int[3][]").(*ast.ArrayExpr)
	require.Len(t, arr.Sizes, 2)
	_, ok := arr.Sizes[1].(*ast.EmptyExpr)
	assert.True(t, ok)

	arr = firstExpr(t, "new int[] {1, 2}").(*ast.ArrayExpr)
	assert.Equal(t, 0, arr.ElementType.Dims)
	assert.Equal(t, []any{int32(1), int32(2)}, constants(t, arr.Inits))

	arr = firstExpr(t, "new int[][] {{1}, {2, 3}}").(*ast.ArrayExpr)
	assert.Equal(t, 1, arr.ElementType.Dims)
	require.Len(t, arr.Inits, 2)
	inner := arr.Inits[1].(*ast.ArrayExpr)
	assert.Equal(t, 0, inner.ElementType.Dims)
	assert.Len(t, inner.Inits, 2)
}

func TestPrimitiveValues(t *testing.T) {
	v, ok := firstExpr(t, "println int").(*ast.MethodCallExpr)
	require.True(t, ok)
	arg := argumentList(v.Args)[0].(*ast.VariableExpr)
	assert.Equal(t, "int", arg.Name)

	cls, ok := firstExpr(t, "x = int[]").(*ast.BinaryExpr).Right.(*ast.ClassExpr)
	require.True(t, ok)
	assert.Equal(t, 1, cls.Type.Dims)
	assert.True(t, cls.Type.Primitive)
}
