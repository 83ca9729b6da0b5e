package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/dhamidi/grove/groovy/diag"
	"github.com/dhamidi/grove/groovy/position"
	"github.com/fatih/color"
)

func getColor(enabled bool, attributes ...color.Attribute) *color.Color {
	if !enabled {
		c := color.New()
		c.DisableColor()
		return c
	}
	c := color.New(attributes...)
	c.EnableColor()
	return c
}

// DiagnosticEncoder renders diagnostics the way compilers do:
//
//	unit:line:col: error: message
//	  source line
//	  ^~~~
type DiagnosticEncoder struct {
	w     io.Writer
	src   []byte
	index *position.Index
	diags []diag.Diagnostic

	location *color.Color
	severity *color.Color
	excerpt  *color.Color
	caret    *color.Color
}

func NewDiagnosticEncoder(w io.Writer, src []byte, colored bool) *DiagnosticEncoder {
	return &DiagnosticEncoder{
		w:        w,
		src:      src,
		index:    position.New(src),
		location: getColor(colored, color.Bold),
		severity: getColor(colored, color.FgRed, color.Bold),
		excerpt:  getColor(colored),
		caret:    getColor(colored, color.FgGreen, color.Bold),
	}
}

func (e *DiagnosticEncoder) Encode(diags []diag.Diagnostic) error {
	e.diags = diags
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *DiagnosticEncoder) MarshalText() ([]byte, error) {
	var sb strings.Builder
	for _, d := range e.diags {
		e.write(&sb, d)
	}
	return []byte(sb.String()), nil
}

func (e *DiagnosticEncoder) write(sb *strings.Builder, d diag.Diagnostic) {
	start := d.Range.Start
	loc := fmt.Sprintf("%d:%d:", start.Line, start.Column)
	if d.Unit != "" {
		loc = d.Unit + ":" + loc
	}
	fmt.Fprintf(sb, "%s %s %s\n", e.location.Sprint(loc), e.severity.Sprint(d.Kind.String()+":"), d.Message)

	if start.Line < 1 || start.Line > e.index.Lines() || len(e.src) == 0 {
		return
	}
	line := e.line(start.Line)
	if strings.TrimSpace(line) == "" {
		return
	}

	width := 1
	end := d.Range.End
	if end.Line == start.Line && end.Column > start.Column {
		width = end.Column - start.Column
	} else if end.Line > start.Line {
		width = len(line) - start.Column + 1
	}
	if width < 1 {
		width = 1
	}

	// Tabs in the excerpt are kept in the padding so the caret lines up.
	var pad strings.Builder
	for i := 0; i < start.Column-1 && i < len(line); i++ {
		if line[i] == '\t' {
			pad.WriteByte('\t')
		} else {
			pad.WriteByte(' ')
		}
	}
	fmt.Fprintf(sb, "  %s\n", e.excerpt.Sprint(line))
	fmt.Fprintf(sb, "  %s%s\n", pad.String(), e.caret.Sprint("^"+strings.Repeat("~", width-1)))
}

// line returns the text of a 1-based line without its terminator.
func (e *DiagnosticEncoder) line(n int) string {
	from := e.index.LineStart(n)
	to := len(e.src)
	if n < e.index.Lines() {
		to = e.index.LineStart(n + 1)
	}
	return strings.TrimRight(string(e.src[from:to]), "\r\n")
}

// Diagnostics writes diags with an excerpt of src under each one. With
// colored set the output carries ANSI escapes.
func Diagnostics(w io.Writer, src []byte, diags []diag.Diagnostic, colored bool) error {
	return NewDiagnosticEncoder(w, src, colored).Encode(diags)
}
