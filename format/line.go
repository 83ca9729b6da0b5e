package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/dhamidi/grove/groovy/ast"
)

// LineEncoder lists the classes of a unit with one tab-separated line per
// declaration:
//
//	class	pkg.A	public
//	field	x	int	private
//	property	name	java.lang.String	public
//	method	area	double	-	public
type LineEncoder struct {
	w    io.Writer
	node ast.Node
}

func NewLineEncoder(w io.Writer) *LineEncoder {
	return &LineEncoder{w: w}
}

func (e *LineEncoder) Encode(node ast.Node) error {
	e.node = node
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *LineEncoder) MarshalText() ([]byte, error) {
	var sb strings.Builder
	switch n := e.node.(type) {
	case *ast.Module:
		for _, c := range n.Classes {
			writeClassLines(&sb, c)
		}
		if n.ScriptClass != nil {
			writeClassLines(&sb, n.ScriptClass)
		}
	case *ast.ClassNode:
		writeClassLines(&sb, n)
	default:
		return nil, fmt.Errorf("lines: cannot list %T", e.node)
	}
	return []byte(sb.String()), nil
}

func writeClassLines(sb *strings.Builder, c *ast.ClassNode) {
	fmt.Fprintf(sb, "%s\t%s\t%s\n", classKindStr(c), c.Name, modifiersStr(c.Modifiers))

	for _, p := range c.Properties {
		typ := "def"
		if p.Field != nil {
			typ = typeStr(p.Field.Type, p.Field.Dynamic)
		}
		fmt.Fprintf(sb, "property\t%s\t%s\t%s\n", p.Name, typ, modifiersStr(p.Modifiers))
	}

	for _, f := range c.Fields {
		if f.Synthetic {
			continue
		}
		kind := "field"
		if f.EnumConstant {
			kind = "constant"
		}
		fmt.Fprintf(sb, "%s\t%s\t%s\t%s\n", kind, f.Name, typeStr(f.Type, f.Dynamic), modifiersStr(f.Modifiers))
	}

	for _, m := range c.Constructors {
		fmt.Fprintf(sb, "constructor\t%s\t%s\n", parametersStr(m.Parameters), modifiersStr(m.Modifiers))
	}

	for _, m := range c.Methods {
		fmt.Fprintf(sb, "method\t%s\t%s\t%s\t%s\n",
			m.Name,
			typeStr(m.ReturnType, false),
			parametersStr(m.Parameters),
			modifiersStr(m.Modifiers),
		)
	}
}

func classKindStr(c *ast.ClassNode) string {
	switch {
	case c.Anonymous:
		return "anonymous"
	case c.Kind == "":
		return string(ast.ClassKindClass)
	default:
		return string(c.Kind)
	}
}

func modifiersStr(m ast.Modifiers) string {
	names := m.Names()
	if len(names) == 0 {
		return "-"
	}
	return strings.Join(names, ",")
}

func parametersStr(params []*ast.Parameter) string {
	if len(params) == 0 {
		return "-"
	}
	var parts []string
	for _, p := range params {
		parts = append(parts, typeStr(p.Type, p.Dynamic))
	}
	return strings.Join(parts, ",")
}

// typeStr marks dynamically typed declarations.
func typeStr(t *ast.Type, dynamic bool) string {
	if dynamic || t == nil {
		return "def"
	}
	return t.String()
}
