package builder

import (
	"github.com/dhamidi/grove/groovy/ast"
	"github.com/dhamidi/grove/groovy/parser"
)

// span converts the half-open offset range [start, end) into a position.
func (b *builder) span(start, end int) ast.Pos {
	if end < start {
		end = start
	}
	line, col := b.index.RowCol(start)
	lastLine, lastCol := b.index.RowCol(end)
	return ast.Pos{
		Line:       line,
		Column:     col,
		LastLine:   lastLine,
		LastColumn: lastCol,
		Start:      start,
		End:        end,
	}
}

func (b *builder) posOf(n *parser.Node) ast.Pos {
	return b.span(n.Span.Start.Offset, n.Span.End.Offset)
}

func (b *builder) tokenPos(tok *parser.Token) ast.Pos {
	return b.span(tok.Span.Start.Offset, tok.Span.End.Offset)
}

// stamp sets node's position to the range of n.
func stamp[T ast.Node](b *builder, node T, n *parser.Node) T {
	*node.Position() = b.posOf(n)
	return node
}

// stampToken sets node's position to the range of tok.
func stampToken[T ast.Node](b *builder, node T, tok *parser.Token) T {
	*node.Position() = b.tokenPos(tok)
	return node
}

// copyPos gives node the position of from.
func copyPos[T ast.Node](node T, from ast.Node) T {
	*node.Position() = *from.Position()
	return node
}

// between positions node from the start of first to the end of last.
func between[T ast.Node](node T, first, last ast.Node) T {
	f, l := first.Position(), last.Position()
	*node.Position() = ast.Pos{
		Line:       f.Line,
		Column:     f.Column,
		LastLine:   l.LastLine,
		LastColumn: l.LastColumn,
		Start:      f.Start,
		End:        l.End,
	}
	return node
}

// startAt moves the start of node's position to the start of from.
func startAt(node, from ast.Node) {
	p, f := node.Position(), from.Position()
	p.Line, p.Column, p.Start = f.Line, f.Column, f.Start
}

// endAt moves the end of node's position to the end of from.
func endAt(node, from ast.Node) {
	p, f := node.Position(), from.Position()
	p.LastLine, p.LastColumn, p.End = f.LastLine, f.LastColumn, f.End
}

// nameRange makes the name of node cover n. The end is inclusive.
func (b *builder) nameRange(node interface{ SetNameRange(int, int) }, n *parser.Node) {
	node.SetNameRange(n.Span.Start.Offset, n.Span.End.Offset-1)
}

// clamp snaps the range of node into container.
func clamp(node, container ast.Node) {
	p, c := node.Position(), container.Position()
	if !c.IsSet() || !p.IsSet() {
		return
	}
	if p.Start < c.Start {
		startAt(node, container)
	}
	if p.End > c.End {
		endAt(node, container)
	}
}
