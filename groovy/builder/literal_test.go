package builder

import (
	"math/big"
	"testing"

	"github.com/dhamidi/grove/groovy/ast"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseInteger(t *testing.T) {
	tests := []struct {
		input string
		value any
		typ   string
	}{
		{"0", int32(0), "int"},
		{"42", int32(42), "int"},
		{"1_000", int32(1000), "int"},
		{"0x1F", int32(31), "int"},
		{"0b101", int32(5), "int"},
		{"017", int32(15), "int"},
		{"2147483647", int32(2147483647), "int"},
		{"2147483648", int64(2147483648), "long"},
		{"-2147483648", int32(-2147483648), "int"},
		{"42L", int64(42), "long"},
		{"42l", int64(42), "long"},
		{"42i", int32(42), "int"},
		{"0xFFL", int64(255), "long"},
		{"-9223372036854775808", int64(-9223372036854775808), "long"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			c, err := numberConstant(tt.input, false)
			require.NoError(t, err)
			assert.Equal(t, tt.value, c.Value)
			assert.Equal(t, tt.typ, c.Type)
		})
	}
}

func TestParseBigInteger(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"9223372036854775808", "9223372036854775808"},
		{"42G", "42"},
		{"0xFFFFFFFFFFFFFFFFFF", "4722366482869645213695"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			c, err := numberConstant(tt.input, false)
			require.NoError(t, err)
			assert.Equal(t, ast.BigIntegerType, c.Type)
			v, ok := c.Value.(*big.Int)
			require.True(t, ok)
			if got := v.String(); got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestParseIntegerOutOfRange(t *testing.T) {
	tests := []struct {
		input   string
		message string
	}{
		{"2147483648i", "Number of value 2147483648 exceeds the range of type int"},
		{"9223372036854775808L", "Number of value 9223372036854775808 exceeds the range of type long"},
		{"09", "invalid number literal 09"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			c, err := numberConstant(tt.input, false)
			require.Error(t, err)
			assert.Equal(t, tt.message, err.Error())
			assert.Nil(t, c.Value)
		})
	}
}

func TestParseDecimal(t *testing.T) {
	tests := []struct {
		input string
		value any
		typ   string
	}{
		{"1.5f", float32(1.5), "float"},
		{"1.5F", float32(1.5), "float"},
		{"2.25d", 2.25, "double"},
		{"1e3d", 1000.0, "double"},
		{"-0.5d", -0.5, "double"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			c, err := numberConstant(tt.input, true)
			require.NoError(t, err)
			assert.Equal(t, tt.value, c.Value)
			assert.Equal(t, tt.typ, c.Type)
		})
	}
}

func TestParseBigDecimal(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"1.5", "3/2"},
		{"0.1", "1/10"},
		{"1.5g", "3/2"},
		{"1_000.25", "4001/4"},
		{"1e2", "100/1"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			c, err := numberConstant(tt.input, true)
			require.NoError(t, err)
			assert.Equal(t, ast.BigDecimalType, c.Type)
			r, ok := c.Value.(*big.Rat)
			require.True(t, ok)
			if got := r.String(); got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestUnquote(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{`'abc'`, "abc"},
		{`"abc"`, "abc"},
		{`''`, ""},
		{`'a\tb\nc'`, "a\tb\nc"},
		{`'it\'s'`, "it's"},
		{`"say \"hi\""`, `say "hi"`},
		{`'a\\b'`, `a\b`},
		{`'A\uu0042'`, "AB"},
		{`'\101\7'`, "A\a"},
		{`'\s'`, " "},
		{`"\$x"`, "$x"},
		{"'a\\\nb'", "ab"},
		{"'''x\r\ny'''", "x\ny"},
		{`"""a"b"""`, `a"b`},
		{`/a\/b\d/`, `a/b\d`},
		{`/A/`, "A"},
		{`$/a$$b$/c/$`, "a$b/c"},
		{`$/\n/$`, `\n`},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := unquote(tt.input); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStringLiterals(t *testing.T) {
	c := firstExpr(t, `x = 'a\tb'`).(*ast.BinaryExpr).Right.(*ast.ConstantExpr)
	assert.Equal(t, "a\tb", c.Value)
	assert.Equal(t, ast.StringType, c.Type)
	assert.Equal(t, 4, c.Start)
	assert.Equal(t, 10, c.End)

	c = firstExpr(t, `x = "plain"`).(*ast.BinaryExpr).Right.(*ast.ConstantExpr)
	assert.Equal(t, "plain", c.Value)
}

func TestBooleanAndNullLiterals(t *testing.T) {
	tests := []struct {
		input string
		value any
		typ   string
	}{
		{"x = true", true, "boolean"},
		{"x = false", false, "boolean"},
		{"x = null", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			c := firstExpr(t, tt.input).(*ast.BinaryExpr).Right.(*ast.ConstantExpr)
			assert.Equal(t, tt.value, c.Value)
			assert.Equal(t, tt.typ, c.Type)
		})
	}
}

func gstringOf(t *testing.T, src string) *ast.GStringExpr {
	t.Helper()
	bin, ok := firstExpr(t, src).(*ast.BinaryExpr)
	require.True(t, ok)
	g, ok := bin.Right.(*ast.GStringExpr)
	require.True(t, ok, "got %T, want *ast.GStringExpr", bin.Right)
	return g
}

func TestGString(t *testing.T) {
	g := gstringOf(t, `s = "a${b}c$d.e"`)
	require.Len(t, g.Strings, 3)
	assert.Equal(t, []any{"a", "c", ""}, []any{g.Strings[0].Value, g.Strings[1].Value, g.Strings[2].Value})
	require.Len(t, g.Values, 2)

	v, ok := g.Values[0].(*ast.VariableExpr)
	require.True(t, ok)
	assert.Equal(t, "b", v.Name)

	p, ok := g.Values[1].(*ast.PropertyExpr)
	require.True(t, ok)
	assert.Equal(t, "d", p.Object.(*ast.VariableExpr).Name)
	assert.Equal(t, "e", p.Property.(*ast.ConstantExpr).Value)

	// d sits at offset 12 and e at 14.
	assert.Equal(t, 12, p.Start)
	assert.Equal(t, 15, p.End)
	assert.Equal(t, 14, p.Property.Position().Start)
}

func TestGStringEscapes(t *testing.T) {
	g := gstringOf(t, `s = "tab\t$x\n"`)
	require.Len(t, g.Strings, 2)
	assert.Equal(t, "tab\t", g.Strings[0].Value)
	assert.Equal(t, "\n", g.Strings[1].Value)

	g = gstringOf(t, "s = \"\"\"line\r\n$x\"\"\"")
	assert.Equal(t, "line\n", g.Strings[0].Value)
}

func TestGStringPathVerbatim(t *testing.T) {
	g := gstringOf(t, `s = "x=$a.b!"`)
	assert.Equal(t, "x=$a.b!", g.Verbatim)
}

func TestGStringClosures(t *testing.T) {
	g := gstringOf(t, `s = "${-> 1}"`)
	require.Len(t, g.Values, 1)
	c, ok := g.Values[0].(*ast.ClosureExpr)
	require.True(t, ok)
	assert.False(t, c.HasImplicitParam())

	g = gstringOf(t, `s = "${}"`)
	require.Len(t, g.Values, 1)
	null, ok := g.Values[0].(*ast.ConstantExpr)
	require.True(t, ok)
	assert.Nil(t, null.Value)
}
