package format

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dhamidi/grove/groovy/parser"
)

// CST writes the concrete syntax tree as an indented outline, one node per
// line, with the token literal of leaves and the message of error nodes.
func CST(w io.Writer, node *parser.Node, positions bool) error {
	if node == nil {
		return fmt.Errorf("cst: empty tree")
	}
	text := node.String()
	if positions {
		text = node.StringWithPositions()
	}
	_, err := io.WriteString(w, text)
	return err
}

// CSTJSON writes the concrete syntax tree as indented JSON.
func CSTJSON(w io.Writer, node *parser.Node) error {
	text, err := json.MarshalIndent(node, "", "  ")
	if err != nil {
		return err
	}
	_, err = w.Write(append(text, '\n'))
	return err
}

// TokenEncoder writes one token per line: its range, kind and literal.
type TokenEncoder struct {
	w      io.Writer
	tokens []parser.Token
}

func NewTokenEncoder(w io.Writer) *TokenEncoder {
	return &TokenEncoder{w: w}
}

func (e *TokenEncoder) Encode(tokens []parser.Token) error {
	e.tokens = tokens
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *TokenEncoder) MarshalText() ([]byte, error) {
	var sb strings.Builder
	for _, tok := range e.tokens {
		fmt.Fprintf(&sb, "%s-%s\t%s", tok.Span.Start, tok.Span.End, tok.Kind)
		if tok.Literal != "" {
			sb.WriteString("\t" + strconv.Quote(tok.Literal))
		}
		if tok.Message != "" {
			sb.WriteString("\t" + tok.Message)
		}
		sb.WriteByte('\n')
	}
	return []byte(sb.String()), nil
}

// Tokens writes tokens to w, one per line.
func Tokens(w io.Writer, tokens []parser.Token) error {
	return NewTokenEncoder(w).Encode(tokens)
}
