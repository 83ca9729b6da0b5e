package position

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFindOffset(t *testing.T) {
	x := New([]byte("ab\ncde\n\nf"))

	tests := []struct {
		line, col int
		want      int
	}{
		{1, 1, 0},
		{1, 3, 2},
		{2, 1, 3},
		{2, 3, 5},
		{3, 1, 7},
		{4, 1, 8},
		{4, 2, 9},
		// clamping
		{0, 5, 0},
		{1, 0, 0},
		{1, 40, 2},
		{9, 1, 9},
		{4, 40, 9},
	}

	for _, tt := range tests {
		got := x.FindOffset(tt.line, tt.col)
		if got != tt.want {
			t.Errorf("FindOffset(%d, %d) = %d, want %d", tt.line, tt.col, got, tt.want)
		}
	}
}

func TestRowColRoundTrip(t *testing.T) {
	src := []byte("class A {\n  def x = 1\r\n}\n")
	x := New(src)

	for off := 0; off <= len(src); off++ {
		line, col := x.RowCol(off)
		assert.Equal(t, off, x.FindOffset(line, col), "offset %d -> %d:%d", off, line, col)
	}
}

func TestRowCol(t *testing.T) {
	x := New([]byte("a\nbc"))

	line, col := x.RowCol(3)
	assert.Equal(t, 2, line)
	assert.Equal(t, 2, col)

	line, col = x.RowCol(100)
	assert.Equal(t, 2, line)
	assert.Equal(t, 3, col)

	line, col = x.RowCol(-1)
	assert.Equal(t, 1, line)
	assert.Equal(t, 1, col)
}

func TestEmpty(t *testing.T) {
	x := New(nil)
	assert.Equal(t, 0, x.End())
	assert.Equal(t, 1, x.Lines())
	assert.Equal(t, 0, x.FindOffset(1, 1))
	assert.Equal(t, 0, x.FindOffset(2, 1))
}
