// Package diag collects the diagnostics produced while building one
// compilation unit and turns them into a single structured failure.
package diag

import (
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/sasha-s/go-deadlock"
)

type Kind int

const (
	// KindLexical is an error in the token stream. The parser is not retried.
	KindLexical Kind = iota
	// KindSyntax is a grammar error that remained after the exhaustive retry.
	KindSyntax
	// KindViolation is a language rule broken by otherwise well-formed code.
	KindViolation
	// KindDefect is an internal error: a tree shape the parser never builds.
	KindDefect
)

func (k Kind) String() string {
	switch k {
	case KindLexical:
		return "lexical error"
	case KindSyntax:
		return "syntax error"
	case KindViolation:
		return "error"
	case KindDefect:
		return "internal error"
	}
	return "unknown"
}

// Point is a location in a source unit. Line and Column are 1-based,
// Offset is 0-based.
type Point struct {
	Line   int `json:"line"`
	Column int `json:"column"`
	Offset int `json:"offset"`
}

// Range is a half-open source range.
type Range struct {
	Start Point `json:"start"`
	End   Point `json:"end"`
}

type Diagnostic struct {
	Kind    Kind   `json:"-"`
	Message string `json:"message"`
	Range   Range  `json:"range"`
	Unit    string `json:"unit,omitempty"`
}

func (d Diagnostic) Error() string {
	if d.Unit == "" {
		return fmt.Sprintf("%d:%d: %s", d.Range.Start.Line, d.Range.Start.Column, d.Message)
	}
	return fmt.Sprintf("%s:%d:%d: %s", d.Unit, d.Range.Start.Line, d.Range.Start.Column, d.Message)
}

// Sink accumulates the diagnostics of one compilation unit in insertion
// order. It is safe for concurrent use, although a unit is normally built
// by a single goroutine.
type Sink struct {
	unit string

	mu       deadlock.Mutex
	diags    []Diagnostic
	consumed bool
}

func NewSink(unit string) *Sink {
	return &Sink{unit: unit}
}

func (s *Sink) Unit() string {
	return s.unit
}

func (s *Sink) Add(d Diagnostic) {
	if d.Unit == "" {
		d.Unit = s.unit
	}
	s.mu.Lock()
	s.diags = append(s.diags, d)
	s.mu.Unlock()
}

func (s *Sink) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.diags)
}

// Diagnostics returns a copy of the queued diagnostics.
func (s *Sink) Diagnostics() []Diagnostic {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Diagnostic(nil), s.diags...)
}

// Failure returns the structured failure for the unit, wrapping cause and
// every queued diagnostic. It returns nil if there is nothing to report, and
// nil on every call after the first that returned a failure.
func (s *Sink) Failure(cause error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.consumed || (cause == nil && len(s.diags) == 0) {
		return nil
	}
	s.consumed = true
	return &CompilationFailed{
		Unit:        s.unit,
		Cause:       cause,
		Diagnostics: append([]Diagnostic(nil), s.diags...),
	}
}

// CompilationFailed is returned for every unit that could not be built.
type CompilationFailed struct {
	Unit        string
	Cause       error
	Diagnostics []Diagnostic
}

func (e *CompilationFailed) Error() string {
	var merr *multierror.Error
	for _, d := range e.Diagnostics {
		merr = multierror.Append(merr, d)
	}
	if merr == nil {
		if e.Cause != nil {
			return fmt.Sprintf("%s: compilation failed: %v", e.Unit, e.Cause)
		}
		return fmt.Sprintf("%s: compilation failed", e.Unit)
	}
	merr.ErrorFormat = func(errs []error) string {
		lines := make([]string, len(errs))
		for i, err := range errs {
			lines[i] = err.Error()
		}
		noun := "errors"
		if len(errs) == 1 {
			noun = "error"
		}
		return fmt.Sprintf("%s: compilation failed with %d %s:\n\t%s",
			e.Unit, len(errs), noun, strings.Join(lines, "\n\t"))
	}
	return merr.Error()
}

func (e *CompilationFailed) Unwrap() error {
	return e.Cause
}

// Defect reports a tree shape the parser should never produce. It carries
// the stack of the code that found it.
type Defect struct {
	err error
}

// NewDefect returns a defect with a formatted message and the caller's stack.
func NewDefect(format string, args ...any) *Defect {
	return &Defect{err: errors.Errorf(format, args...)}
}

func (d *Defect) Error() string {
	return "internal error: " + d.err.Error()
}

func (d *Defect) Unwrap() error {
	return d.err
}

// Format prints the stack with "%+v".
func (d *Defect) Format(s fmt.State, verb rune) {
	if verb == 'v' && s.Flag('+') {
		fmt.Fprintf(s, "internal error: %+v", d.err)
		return
	}
	fmt.Fprint(s, d.Error())
}

// IsDefect reports whether err wraps a *Defect.
func IsDefect(err error) bool {
	var d *Defect
	return errors.As(err, &d)
}
