package builder

import (
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/dhamidi/grove/groovy/ast"
	"github.com/dhamidi/grove/groovy/parser"
	"github.com/pkg/errors"
)

func (b *builder) literal(n *parser.Node) *ast.ConstantExpr {
	tok := n.Token
	switch tok.Kind {
	case parser.TokenIntLiteral, parser.TokenFloatLiteral:
		c, err := numberConstant(tok.Literal, tok.Kind == parser.TokenFloatLiteral)
		if err != nil {
			b.numberErr = &numberError{node: n, err: err}
		}
		return stamp(b, c, n)
	case parser.TokenStringLiteral:
		return stamp(b, stringConstant(b.stringLiteral(tok)), n)
	case parser.TokenTrue, parser.TokenFalse:
		return stamp(b, &ast.ConstantExpr{Value: tok.Kind == parser.TokenTrue, Type: "boolean"}, n)
	case parser.TokenNull:
		return stamp(b, &ast.ConstantExpr{}, n)
	}
	b.defect(n, "unexpected literal %s", tok.Kind)
	return nil
}

func stringConstant(s string) *ast.ConstantExpr {
	return &ast.ConstantExpr{Value: s, Type: ast.StringType}
}

// numberConstant parses a number literal. On failure the constant keeps the
// literal's type and a nil value.
func numberConstant(text string, decimal bool) (*ast.ConstantExpr, error) {
	if decimal {
		return parseDecimal(text)
	}
	return parseInteger(text)
}

var (
	minInt  = big.NewInt(math.MinInt32)
	maxInt  = big.NewInt(math.MaxInt32)
	minLong = big.NewInt(math.MinInt64)
	maxLong = big.NewInt(math.MaxInt64)
)

func fits(v, lo, hi *big.Int) bool {
	return v.Cmp(lo) >= 0 && v.Cmp(hi) <= 0
}

// parseInteger handles the radix prefixes 0x, 0b and 0 (octal), an optional
// leading minus and the suffixes i, l and g. Without a suffix the smallest
// of int, long and BigInteger is chosen.
func parseInteger(text string) (*ast.ConstantExpr, error) {
	s := strings.ReplaceAll(text, "_", "")
	negative := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	var suffix byte
	if last := s[len(s)-1]; strings.IndexByte("iIlLgG", last) >= 0 {
		suffix = last | 0x20
		s = s[:len(s)-1]
	}

	radix := 10
	switch {
	case isHexLiteral(s):
		radix, s = 16, s[2:]
	case len(s) > 2 && (s[:2] == "0b" || s[:2] == "0B"):
		radix, s = 2, s[2:]
	case len(s) > 1 && s[0] == '0':
		radix, s = 8, s[1:]
	}

	c := &ast.ConstantExpr{Type: integerType(suffix)}
	v, ok := new(big.Int).SetString(s, radix)
	if !ok {
		return c, errors.Errorf("invalid number literal %s", text)
	}
	if negative {
		v.Neg(v)
	}

	switch suffix {
	case 'i':
		if radix == 10 && !fits(v, minInt, maxInt) {
			return c, errors.Errorf("Number of value %s exceeds the range of type int", v)
		}
		c.Value = int32(v.Int64())
	case 'l':
		if radix == 10 && !fits(v, minLong, maxLong) {
			return c, errors.Errorf("Number of value %s exceeds the range of type long", v)
		}
		c.Value = v.Int64()
	case 'g':
		c.Value = v
	default:
		switch {
		case fits(v, minInt, maxInt):
			c.Value, c.Type = int32(v.Int64()), "int"
		case fits(v, minLong, maxLong):
			c.Value, c.Type = v.Int64(), "long"
		default:
			c.Value, c.Type = v, ast.BigIntegerType
		}
	}
	return c, nil
}

func isHexLiteral(s string) bool {
	return len(s) > 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X')
}

func integerType(suffix byte) string {
	switch suffix {
	case 'l':
		return "long"
	case 'g':
		return ast.BigIntegerType
	}
	return "int"
}

// parseDecimal handles the suffixes f, d and g. Without a suffix the value
// is a BigDecimal, held as an exact rational.
func parseDecimal(text string) (*ast.ConstantExpr, error) {
	s := strings.ReplaceAll(text, "_", "")
	var suffix byte
	if last := s[len(s)-1] | 0x20; last == 'f' || last == 'd' || last == 'g' {
		suffix = last
		s = s[:len(s)-1]
	}

	switch suffix {
	case 'f':
		c := &ast.ConstantExpr{Type: "float"}
		f, err := strconv.ParseFloat(s, 32)
		if err != nil {
			return c, errors.Errorf("Number of value %s exceeds the range of type float", s)
		}
		c.Value = float32(f)
		return c, nil
	case 'd':
		c := &ast.ConstantExpr{Type: "double"}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return c, errors.Errorf("Number of value %s exceeds the range of type double", s)
		}
		c.Value = f
		return c, nil
	}
	c := &ast.ConstantExpr{Type: ast.BigDecimalType}
	r, ok := new(big.Rat).SetString(s)
	if !ok {
		return c, errors.Errorf("invalid number literal %s", text)
	}
	c.Value = r
	return c, nil
}

// negativeLiteral folds a minus sign into the number literal n.
func (b *builder) negativeLiteral(minus, n *parser.Node) *ast.ConstantExpr {
	c, err := numberConstant("-"+n.TokenLiteral(), n.TokenKind() == parser.TokenFloatLiteral)
	if err != nil {
		b.fail(minus, "%s", err)
	}
	if b.numberErr != nil && b.numberErr.node == n {
		b.numberErr = nil
	}
	return stamp(b, c, minus)
}

func (b *builder) stringLiteral(tok *parser.Token) string {
	return unquote(tok.Literal)
}

// closingQuote maps an opening string delimiter to its closing one.
var closingQuote = map[string]string{
	`"""`: `"""`,
	`'''`: `'''`,
	`"`:   `"`,
	`'`:   `'`,
	`/`:   `/`,
	`$/`:  `/$`,
}

func openingQuote(text string) string {
	for _, q := range []string{`"""`, `'''`, `$/`, `"`, `'`, `/`} {
		if strings.HasPrefix(text, q) {
			return q
		}
	}
	return ""
}

// unquote strips the delimiters of a string literal and replaces its
// escapes. Multi-line styles drop carriage returns.
func unquote(text string) string {
	q := openingQuote(text)
	switch q {
	case `"""`, `'''`, `/`, `$/`:
		text = strings.ReplaceAll(text, "\r\n", "\n")
	}
	closing := closingQuote[q]
	if len(text) >= len(q)+len(closing) {
		text = text[len(q) : len(text)-len(closing)]
	}

	switch q {
	case `/`:
		text = replaceLineEscapes(replaceUnicodeEscapes(text))
		return strings.ReplaceAll(text, `\/`, "/")
	case `$/`:
		text = replaceLineEscapes(replaceUnicodeEscapes(text))
		text = strings.ReplaceAll(text, "$$", "$")
		return strings.ReplaceAll(text, "$/", "/")
	}
	return replaceEscapes(text)
}

func replaceLineEscapes(s string) string {
	s = strings.ReplaceAll(s, "\\\r\n", "")
	return strings.ReplaceAll(s, "\\\n", "")
}

// replaceUnicodeEscapes replaces \uXXXX, allowing repeated u's.
func replaceUnicodeEscapes(s string) string {
	if !strings.Contains(s, `\u`) {
		return s
	}
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		if r, n, ok := unicodeEscape(s[i:]); ok {
			sb.WriteRune(r)
			i += n - 1
			continue
		}
		sb.WriteByte(s[i])
	}
	return sb.String()
}

func unicodeEscape(s string) (rune, int, bool) {
	if len(s) < 2 || s[0] != '\\' || s[1] != 'u' {
		return 0, 0, false
	}
	i := 1
	for i < len(s) && s[i] == 'u' {
		i++
	}
	if len(s) < i+4 {
		return 0, 0, false
	}
	v, err := strconv.ParseUint(s[i:i+4], 16, 32)
	if err != nil {
		return 0, 0, false
	}
	return rune(v), i + 4, true
}

var standardEscapes = map[byte]byte{
	'b': '\b', 't': '\t', 'n': '\n', 'f': '\f', 'r': '\r', 's': ' ',
	'"': '"', '\'': '\'', '\\': '\\', '$': '$',
}

// replaceEscapes replaces the escapes of quoted strings: the standard
// ones, octal and unicode escapes, and backslash line continuations.
func replaceEscapes(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i+1 == len(s) {
			sb.WriteByte(c)
			continue
		}
		next := s[i+1]
		if e, ok := standardEscapes[next]; ok {
			sb.WriteByte(e)
			i++
			continue
		}
		switch {
		case next == 'u':
			if r, n, ok := unicodeEscape(s[i:]); ok {
				sb.WriteRune(r)
				i += n - 1
				continue
			}
		case next == '\n':
			i++
			continue
		case next == '\r' && i+2 < len(s) && s[i+2] == '\n':
			i += 2
			continue
		case next >= '0' && next <= '7':
			j := i + 1
			width := 3
			if next > '3' {
				width = 2
			}
			for j < len(s) && j-i-1 < width && s[j] >= '0' && s[j] <= '7' {
				j++
			}
			v, _ := strconv.ParseUint(s[i+1:j], 8, 8)
			sb.WriteByte(byte(v))
			i = j - 1
			continue
		}
		sb.WriteByte(c)
	}
	return sb.String()
}

// gstring lowers an interpolated string. Each text segment is completed
// with the delimiters of the literal before escapes are replaced.
func (b *builder) gstring(n *parser.Node) *ast.GStringExpr {
	g := stamp(b, &ast.GStringExpr{}, n)
	open := openingQuote(n.Children[0].TokenLiteral())
	closing := closingQuote[open]

	var verbatim strings.Builder
	for _, c := range n.Children {
		switch c.Kind {
		case parser.KindGStringText:
			text := c.TokenLiteral()
			switch c.TokenKind() {
			case parser.TokenGStringBegin:
				text = strings.TrimSuffix(text, "$") + closing
			case parser.TokenGStringPart:
				text = open + strings.TrimSuffix(text, "$") + closing
			default:
				text = open + text
			}
			s := stamp(b, stringConstant(unquote(text)), c)
			g.Strings = append(g.Strings, s)
			verbatim.WriteString(s.Text())
		case parser.KindGStringValue:
			g.Values = append(g.Values, b.gstringValue(c))
			verbatim.WriteString("$" + string(b.src[c.Span.Start.Offset:c.Span.End.Offset]))
		case parser.KindGStringPath:
			g.Values = append(g.Values, b.gstringPath(c))
			verbatim.WriteString("$" + string(b.src[c.Span.Start.Offset:c.Span.End.Offset]))
		default:
			b.defect(c, "unexpected %s in string", c.Kind)
		}
	}
	g.Verbatim = verbatim.String()
	return g
}

// gstringValue lowers "${...}". Empty braces are null; a closure without an
// arrow is called with no arguments.
func (b *builder) gstringValue(n *parser.Node) ast.Expr {
	if len(n.Children) == 0 {
		return stamp(b, &ast.ConstantExpr{}, n)
	}
	c := n.Children[0]
	if c.Kind != parser.KindClosure {
		return b.expr(c)
	}
	closure := b.closure(c)
	if !closure.HasImplicitParam() {
		return closure
	}
	if body, ok := closure.Body.(*ast.BlockStmt); ok && body.IsEmpty() {
		return stamp(b, &ast.ConstantExpr{}, n)
	}
	call := stamp(b, &ast.MethodCallExpr{
		Object:       closure,
		Method:       stamp(b, stringConstant("call"), n),
		Args:         stamp(b, &ast.ArgumentListExpr{}, n),
		ImplicitThis: true,
	}, n)
	call.SetNameRange(call.Start, call.Start)
	return call
}

// gstringPath lowers "$name.a.b" into nested property accesses.
func (b *builder) gstringPath(n *parser.Node) ast.Expr {
	var e ast.Expr = stamp(b, &ast.VariableExpr{Name: n.Children[0].TokenLiteral()}, n.Children[0])
	for _, part := range n.Children[1:] {
		start := part.Span.Start.Offset + 1
		name := &ast.ConstantExpr{Value: part.TokenLiteral()[1:], Type: ast.StringType}
		*name.Position() = b.span(start, part.Span.End.Offset)
		prop := &ast.PropertyExpr{Object: e, Property: name}
		*prop.Position() = b.span(e.Position().Start, part.Span.End.Offset)
		e = prop
	}
	return e
}
