package format

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/dhamidi/grove/groovy/ast"
	"gopkg.in/yaml.v3"
)

// ASTJSONEncoder writes typed syntax trees as indented JSON. Each node is an
// object with a "kind" key naming its type, followed by its position and
// its fields.
type ASTJSONEncoder struct {
	w    io.Writer
	node ast.Node
}

func NewASTJSONEncoder(w io.Writer) *ASTJSONEncoder {
	return &ASTJSONEncoder{w: w}
}

func (e *ASTJSONEncoder) Encode(node ast.Node) error {
	e.node = node
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	text = append(text, '\n')
	_, err = e.w.Write(text)
	return err
}

func (e *ASTJSONEncoder) MarshalText() ([]byte, error) {
	return json.MarshalIndent(tree(e.node), "", "  ")
}

// ASTJSON writes node and its subtree to w as JSON.
func ASTJSON(w io.Writer, node ast.Node) error {
	return NewASTJSONEncoder(w).Encode(node)
}

// ASTYAMLEncoder writes the same tree as ASTJSONEncoder in YAML.
type ASTYAMLEncoder struct {
	w      io.Writer
	node   ast.Node
	indent int
}

func NewASTYAMLEncoder(w io.Writer) *ASTYAMLEncoder {
	return &ASTYAMLEncoder{w: w, indent: 2}
}

func (e *ASTYAMLEncoder) Encode(node ast.Node) error {
	e.node = node
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *ASTYAMLEncoder) MarshalText() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(e.indent)
	if err := enc.Encode(tree(e.node)); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ASTYAML writes node and its subtree to w as YAML.
func ASTYAML(w io.Writer, node ast.Node) error {
	return NewASTYAMLEncoder(w).Encode(node)
}
