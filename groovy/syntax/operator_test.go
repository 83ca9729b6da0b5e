package syntax

import (
	"testing"

	"github.com/dhamidi/grove/groovy/parser"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		kind parser.TokenKind
		want Operator
		ok   bool
	}{
		{parser.TokenPlus, OpPlus, true},
		{parser.TokenShr, OpRightShift, true},
		{parser.TokenUShrAssign, OpUnsignedRightShiftAssign, true},
		{parser.TokenNotIn, OpNotIn, true},
		{parser.TokenSpaceship, OpCompareTo, true},
		{parser.TokenRangeExclusive, OpRangeExclusive, true},
		{parser.TokenSafeIndex, OpIndex, true},
		{parser.TokenIdent, OpNone, false},
		{parser.TokenComma, OpNone, false},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			got, ok := Classify(tt.kind)
			if got != tt.want || ok != tt.ok {
				t.Errorf("got %v, %v, want %v, %v", got, ok, tt.want, tt.ok)
			}
		})
	}
}

// Every operator token the lexer produces renders back to its own text.
func TestOperatorTextMatchesToken(t *testing.T) {
	for kind, op := range tokenOperators {
		if kind == parser.TokenSafeIndex || kind == parser.TokenLBracket {
			continue
		}
		if got, want := op.String(), kind.String(); got != want {
			t.Errorf("%v: got %q, want %q", kind, got, want)
		}
	}
}

func TestOperatorPredicates(t *testing.T) {
	tests := []struct {
		op         Operator
		assignment bool
		comparison bool
		base       Operator
	}{
		{OpAssign, true, false, OpAssign},
		{OpPlusAssign, true, false, OpPlus},
		{OpLeftShiftAssign, true, false, OpLeftShift},
		{OpElvisAssign, true, false, OpElvisAssign},
		{OpEqual, false, true, OpEqual},
		{OpNotInstanceof, false, true, OpNotInstanceof},
		{OpPlus, false, false, OpPlus},
	}

	for _, tt := range tests {
		t.Run(tt.op.String(), func(t *testing.T) {
			if got := tt.op.IsAssignment(); got != tt.assignment {
				t.Errorf("IsAssignment: got %v, want %v", got, tt.assignment)
			}
			if got := tt.op.IsComparison(); got != tt.comparison {
				t.Errorf("IsComparison: got %v, want %v", got, tt.comparison)
			}
			if got := tt.op.Base(); got != tt.base {
				t.Errorf("Base: got %v, want %v", got, tt.base)
			}
		})
	}
}
