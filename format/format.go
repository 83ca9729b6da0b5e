package format

import (
	"encoding"
	"fmt"
	"io"

	"github.com/dhamidi/grove/groovy/ast"
)

type Encoder interface {
	encoding.TextMarshaler
	Encode(node ast.Node) error
}

// Formats lists the names NewEncoder accepts.
var Formats = []string{"json", "yaml", "tree", "lines"}

// NewEncoder returns the encoder for the named output format.
func NewEncoder(name string, w io.Writer) (Encoder, error) {
	switch name {
	case "json":
		return NewASTJSONEncoder(w), nil
	case "yaml":
		return NewASTYAMLEncoder(w), nil
	case "tree":
		return NewASTTreeEncoder(w), nil
	case "lines":
		return NewLineEncoder(w), nil
	}
	return nil, fmt.Errorf("unknown format: %s", name)
}
