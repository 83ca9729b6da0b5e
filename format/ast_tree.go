package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/dhamidi/grove/groovy/ast"
)

// positionKeys are folded into one "[line:col-line:col]" label.
var positionKeys = map[string]bool{
	"line": true, "column": true, "lastLine": true, "lastColumn": true,
	"start": true, "end": true, "nameStart": true, "nameEnd": true,
}

// ASTTree writes node as an indented outline. Each node shows its kind,
// range and scalar fields on one line; child nodes follow, indented under
// the field that holds them.
func ASTTree(w io.Writer, node ast.Node) error {
	return NewASTTreeEncoder(w).Encode(node)
}

type ASTTreeEncoder struct {
	w    io.Writer
	node ast.Node
}

func NewASTTreeEncoder(w io.Writer) *ASTTreeEncoder {
	return &ASTTreeEncoder{w: w}
}

func (e *ASTTreeEncoder) Encode(node ast.Node) error {
	e.node = node
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *ASTTreeEncoder) MarshalText() ([]byte, error) {
	var sb strings.Builder
	writeTree(&sb, "", tree(e.node), 0)
	return []byte(sb.String()), nil
}

func writeTree(sb *strings.Builder, label string, v any, depth int) {
	indent := strings.Repeat("  ", depth)
	switch v := v.(type) {
	case *object:
		sb.WriteString(indent)
		if label != "" {
			sb.WriteString(label + ": ")
		}
		writeHeader(sb, v)
		sb.WriteByte('\n')
		for i, key := range v.keys {
			switch child := v.values[i].(type) {
			case *object:
				writeTree(sb, key, child, depth+1)
			case []any:
				for j, item := range child {
					writeTree(sb, fmt.Sprintf("%s[%d]", key, j), item, depth+1)
				}
			}
		}
	case nil:
	default:
		fmt.Fprintf(sb, "%s%s: %v\n", indent, label, v)
	}
}

func writeHeader(sb *strings.Builder, o *object) {
	var line, col, lastLine, lastCol int64
	var attrs []string
	for i, key := range o.keys {
		value := o.values[i]
		switch key {
		case "kind":
			sb.WriteString(fmt.Sprint(value))
			continue
		case "line":
			line, _ = value.(int64)
		case "column":
			col, _ = value.(int64)
		case "lastLine":
			lastLine, _ = value.(int64)
		case "lastColumn":
			lastCol, _ = value.(int64)
		}
		if positionKeys[key] {
			continue
		}
		switch value := value.(type) {
		case *object, []any:
		case nil:
		case string:
			if value != "" {
				attrs = append(attrs, fmt.Sprintf("%s=%q", key, value))
			}
		default:
			attrs = append(attrs, fmt.Sprintf("%s=%v", key, value))
		}
	}
	if line > 0 {
		fmt.Fprintf(sb, " [%d:%d-%d:%d]", line, col, lastLine, lastCol)
	}
	for _, a := range attrs {
		sb.WriteString(" " + a)
	}
}
