// Package position translates between (line, column) coordinates and
// absolute byte offsets of one source text.
//
// Lines and columns are 1-based, offsets are 0-based. Columns count bytes,
// matching the lexer.
package position

import "sort"

// Index is the line-start table of a source text. It is immutable once built
// and safe to share between goroutines.
type Index struct {
	// starts[i] is the offset of the first byte of line i+1.
	starts []int
	end    int
}

// New scans src for line breaks. "\r\n" counts as one break; a lone '\r'
// does not start a new line.
func New(src []byte) *Index {
	starts := []int{0}
	for i, c := range src {
		if c == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &Index{starts: starts, end: len(src)}
}

// Lines returns the number of lines, counting a trailing empty line.
func (x *Index) Lines() int { return len(x.starts) }

// End returns the offset one past the last byte.
func (x *Index) End() int { return x.end }

// FindOffset converts a 1-based (line, col) pair into an offset. Out of range
// coordinates are clamped to [0, End()].
func (x *Index) FindOffset(line, col int) int {
	if line < 1 {
		return 0
	}
	if line > len(x.starts) {
		return x.end
	}
	if col < 1 {
		col = 1
	}
	off := x.starts[line-1] + col - 1
	if line < len(x.starts) && off >= x.starts[line] {
		// Past the end of the line: snap to its terminating newline.
		off = x.starts[line] - 1
	}
	if off > x.end {
		off = x.end
	}
	return off
}

// RowCol converts an offset back into a 1-based (line, col) pair. Offsets
// beyond End() map to the position just after the last byte.
func (x *Index) RowCol(offset int) (line, col int) {
	if offset < 0 {
		offset = 0
	}
	if offset > x.end {
		offset = x.end
	}
	// First line whose start is past offset; the line we want is the one before.
	i := sort.Search(len(x.starts), func(i int) bool { return x.starts[i] > offset })
	return i, offset - x.starts[i-1] + 1
}

// LineStart returns the offset of the first byte of line, clamped.
func (x *Index) LineStart(line int) int {
	if line < 1 {
		return 0
	}
	if line > len(x.starts) {
		return x.end
	}
	return x.starts[line-1]
}
