// Package ast is the typed syntax tree of one Groovy compilation unit.
//
// Every node embeds a Pos. Lines and columns are 1-based, offsets are
// 0-based and End is exclusive. A zero Pos marks a placeholder the source
// does not spell out, such as the empty else branch of an if statement.
//
// The tree is built once by the builder package and is not modified
// afterwards. Back links (ClassNode.Outer, MethodNode.Declaring and the
// like) are tagged `json:"-"` so that generic encoders see a tree.
package ast

import "fmt"

type Pos struct {
	Line       int `json:"line"`
	Column     int `json:"column"`
	LastLine   int `json:"lastLine"`
	LastColumn int `json:"lastColumn"`
	Start      int `json:"start"`
	End        int `json:"end"`
}

// Position gives access to the embedded Pos of any node.
func (p *Pos) Position() *Pos { return p }

// IsSet reports whether the position was stamped from source.
func (p *Pos) IsSet() bool { return p.Line > 0 }

func (p *Pos) Len() int { return p.End - p.Start }

// Contains reports whether q lies within p.
func (p *Pos) Contains(q *Pos) bool {
	return p.Start <= q.Start && q.End <= p.End
}

func (p Pos) String() string {
	return fmt.Sprintf("%d:%d-%d:%d", p.Line, p.Column, p.LastLine, p.LastColumn)
}

// NamePos is the offset range of a declaration's name token. NameEnd is
// inclusive, so a one-character name has NameStart == NameEnd.
type NamePos struct {
	NameStart int `json:"nameStart"`
	NameEnd   int `json:"nameEnd"`
}

func (n *NamePos) NameRange() (start, end int) { return n.NameStart, n.NameEnd }

func (n *NamePos) SetNameRange(start, end int) {
	n.NameStart, n.NameEnd = start, end
}

type Node interface {
	Position() *Pos
}

// Named is a node with a name sub-range: classes, methods, fields,
// properties, parameters and method calls.
type Named interface {
	Node
	NameRange() (start, end int)
}

type Expr interface {
	Node
	exprNode()
}

// Stmt is a statement. Statements may carry labels ("outer: for ...").
type Stmt interface {
	Node
	StatementLabels() []string
	AddLabel(label string)
	stmtNode()
}

type stmtBase struct {
	Pos
	Labels []string `json:"labels,omitempty"`
}

func (s *stmtBase) StatementLabels() []string { return s.Labels }

func (s *stmtBase) AddLabel(label string) { s.Labels = append(s.Labels, label) }

func (*stmtBase) stmtNode() {}

type exprBase struct {
	Pos
}

func (*exprBase) exprNode() {}
