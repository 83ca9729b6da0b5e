package parser

import "encoding/json"

type jsonNode struct {
	Kind     string      `json:"kind"`
	Span     *jsonSpan   `json:"span,omitempty"`
	Token    *jsonToken  `json:"token,omitempty"`
	Error    *jsonError  `json:"error,omitempty"`
	Children []*jsonNode `json:"children,omitempty"`
}

type jsonSpan struct {
	Start jsonPosition `json:"start"`
	End   jsonPosition `json:"end"`
}

type jsonPosition struct {
	Line   int `json:"line"`
	Column int `json:"column"`
	Offset int `json:"offset"`
}

type jsonToken struct {
	Kind    string `json:"kind"`
	Literal string `json:"literal,omitempty"`
	Newline bool   `json:"newline,omitempty"`
}

type jsonError struct {
	Message  string   `json:"message"`
	Expected []string `json:"expected,omitempty"`
	Got      string   `json:"got,omitempty"`
}

func (n *Node) MarshalJSON() ([]byte, error) {
	return json.Marshal(n.toJSON())
}

func (t Token) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		jsonToken
		Span jsonSpan `json:"span"`
	}{
		jsonToken: tokenJSON(t),
		Span:      spanJSON(t.Span),
	})
}

func tokenJSON(t Token) jsonToken {
	return jsonToken{Kind: t.Kind.String(), Literal: t.Literal, Newline: t.NewlineBefore}
}

func spanJSON(s Span) jsonSpan {
	return jsonSpan{
		Start: jsonPosition{Line: s.Start.Line, Column: s.Start.Column, Offset: s.Start.Offset},
		End:   jsonPosition{Line: s.End.Line, Column: s.End.Column, Offset: s.End.Offset},
	}
}

func (n *Node) toJSON() *jsonNode {
	jn := &jsonNode{
		Kind: n.Kind.String(),
	}

	if n.Span.Start.Line != 0 || n.Span.End.Line != 0 {
		span := spanJSON(n.Span)
		jn.Span = &span
	}

	if n.Token != nil {
		tok := tokenJSON(*n.Token)
		jn.Token = &tok
	}

	if n.Error != nil {
		jn.Error = &jsonError{
			Message: n.Error.Message,
		}
		for _, exp := range n.Error.Expected {
			jn.Error.Expected = append(jn.Error.Expected, exp.String())
		}
		if n.Error.Got != nil {
			jn.Error.Got = n.Error.Got.Literal
		}
	}

	if len(n.Children) > 0 {
		jn.Children = make([]*jsonNode, len(n.Children))
		for i, child := range n.Children {
			jn.Children[i] = child.toJSON()
		}
	}

	return jn
}
