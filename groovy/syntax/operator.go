// Package syntax classifies raw tokens into the operators carried by binary,
// unary and assignment AST nodes.
package syntax

import "github.com/dhamidi/grove/groovy/parser"

type Operator int

const (
	OpNone Operator = iota

	// Assignment
	OpAssign
	OpPlusAssign
	OpMinusAssign
	OpMultiplyAssign
	OpDivideAssign
	OpModAssign
	OpPowerAssign
	OpAndAssign
	OpOrAssign
	OpXorAssign
	OpLeftShiftAssign
	OpRightShiftAssign
	OpUnsignedRightShiftAssign
	OpElvisAssign

	// Logical
	OpLogicalOr
	OpLogicalAnd
	OpNot

	// Bitwise
	OpBitwiseOr
	OpBitwiseXor
	OpBitwiseAnd
	OpBitwiseNot

	// Comparison
	OpEqual
	OpNotEqual
	OpIdentical
	OpNotIdentical
	OpLess
	OpLessEqual
	OpGreater
	OpGreaterEqual
	OpCompareTo
	OpFind
	OpMatch
	OpIn
	OpNotIn
	OpInstanceof
	OpNotInstanceof

	// Arithmetic
	OpLeftShift
	OpRightShift
	OpUnsignedRightShift
	OpPlus
	OpMinus
	OpMultiply
	OpDivide
	OpMod
	OpPower
	OpIncrement
	OpDecrement

	// Misc
	OpAs
	OpRange
	OpRangeExclusive
	OpIndex
)

var operatorText = map[Operator]string{
	OpAssign:                   "=",
	OpPlusAssign:               "+=",
	OpMinusAssign:              "-=",
	OpMultiplyAssign:           "*=",
	OpDivideAssign:             "/=",
	OpModAssign:                "%=",
	OpPowerAssign:              "**=",
	OpAndAssign:                "&=",
	OpOrAssign:                 "|=",
	OpXorAssign:                "^=",
	OpLeftShiftAssign:          "<<=",
	OpRightShiftAssign:         ">>=",
	OpUnsignedRightShiftAssign: ">>>=",
	OpElvisAssign:              "?=",
	OpLogicalOr:                "||",
	OpLogicalAnd:               "&&",
	OpNot:                      "!",
	OpBitwiseOr:                "|",
	OpBitwiseXor:               "^",
	OpBitwiseAnd:               "&",
	OpBitwiseNot:               "~",
	OpEqual:                    "==",
	OpNotEqual:                 "!=",
	OpIdentical:                "===",
	OpNotIdentical:             "!==",
	OpLess:                     "<",
	OpLessEqual:                "<=",
	OpGreater:                  ">",
	OpGreaterEqual:             ">=",
	OpCompareTo:                "<=>",
	OpFind:                     "=~",
	OpMatch:                    "==~",
	OpIn:                       "in",
	OpNotIn:                    "!in",
	OpInstanceof:               "instanceof",
	OpNotInstanceof:            "!instanceof",
	OpLeftShift:                "<<",
	OpRightShift:               ">>",
	OpUnsignedRightShift:       ">>>",
	OpPlus:                     "+",
	OpMinus:                    "-",
	OpMultiply:                 "*",
	OpDivide:                   "/",
	OpMod:                      "%",
	OpPower:                    "**",
	OpIncrement:                "++",
	OpDecrement:                "--",
	OpAs:                       "as",
	OpRange:                    "..",
	OpRangeExclusive:           "..<",
	OpIndex:                    "[",
}

// String returns the operator as written in source.
func (o Operator) String() string {
	if s, ok := operatorText[o]; ok {
		return s
	}
	return "<none>"
}

func (o Operator) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

var tokenOperators = map[parser.TokenKind]Operator{
	parser.TokenAssign:         OpAssign,
	parser.TokenPlusAssign:     OpPlusAssign,
	parser.TokenMinusAssign:    OpMinusAssign,
	parser.TokenStarAssign:     OpMultiplyAssign,
	parser.TokenSlashAssign:    OpDivideAssign,
	parser.TokenPercentAssign:  OpModAssign,
	parser.TokenPowerAssign:    OpPowerAssign,
	parser.TokenAndAssign:      OpAndAssign,
	parser.TokenOrAssign:       OpOrAssign,
	parser.TokenXorAssign:      OpXorAssign,
	parser.TokenShlAssign:      OpLeftShiftAssign,
	parser.TokenShrAssign:      OpRightShiftAssign,
	parser.TokenUShrAssign:     OpUnsignedRightShiftAssign,
	parser.TokenElvisAssign:    OpElvisAssign,
	parser.TokenOr:             OpLogicalOr,
	parser.TokenAnd:            OpLogicalAnd,
	parser.TokenNot:            OpNot,
	parser.TokenBitOr:          OpBitwiseOr,
	parser.TokenBitXor:         OpBitwiseXor,
	parser.TokenBitAnd:         OpBitwiseAnd,
	parser.TokenBitNot:         OpBitwiseNot,
	parser.TokenEQ:             OpEqual,
	parser.TokenNE:             OpNotEqual,
	parser.TokenIdentical:      OpIdentical,
	parser.TokenNotIdentical:   OpNotIdentical,
	parser.TokenLT:             OpLess,
	parser.TokenLE:             OpLessEqual,
	parser.TokenGT:             OpGreater,
	parser.TokenGE:             OpGreaterEqual,
	parser.TokenSpaceship:      OpCompareTo,
	parser.TokenRegexFind:      OpFind,
	parser.TokenRegexMatch:     OpMatch,
	parser.TokenIn:             OpIn,
	parser.TokenNotIn:          OpNotIn,
	parser.TokenInstanceof:     OpInstanceof,
	parser.TokenNotInstanceof:  OpNotInstanceof,
	parser.TokenShl:            OpLeftShift,
	parser.TokenShr:            OpRightShift,
	parser.TokenUShr:           OpUnsignedRightShift,
	parser.TokenPlus:           OpPlus,
	parser.TokenMinus:          OpMinus,
	parser.TokenStar:           OpMultiply,
	parser.TokenSlash:          OpDivide,
	parser.TokenPercent:        OpMod,
	parser.TokenPower:          OpPower,
	parser.TokenIncrement:      OpIncrement,
	parser.TokenDecrement:      OpDecrement,
	parser.TokenAs:             OpAs,
	parser.TokenRange:          OpRange,
	parser.TokenRangeExclusive: OpRangeExclusive,
	parser.TokenLBracket:       OpIndex,
	parser.TokenSafeIndex:      OpIndex,
}

// Classify returns the operator a token denotes. The second result is false
// for tokens that are not operators.
func Classify(kind parser.TokenKind) (Operator, bool) {
	op, ok := tokenOperators[kind]
	return op, ok
}

// FromToken classifies tok, returning OpNone for non-operators.
func FromToken(tok *parser.Token) Operator {
	if tok == nil {
		return OpNone
	}
	return tokenOperators[tok.Kind]
}

func (o Operator) IsAssignment() bool {
	return o >= OpAssign && o <= OpElvisAssign
}

// IsComparison reports whether o yields a boolean from two operands.
func (o Operator) IsComparison() bool {
	return o >= OpEqual && o <= OpNotInstanceof
}

func (o Operator) IsLogical() bool {
	return o == OpLogicalOr || o == OpLogicalAnd || o == OpNot
}

// Base returns the binary operator a compound assignment applies, or o
// itself for anything else.
func (o Operator) Base() Operator {
	switch o {
	case OpPlusAssign:
		return OpPlus
	case OpMinusAssign:
		return OpMinus
	case OpMultiplyAssign:
		return OpMultiply
	case OpDivideAssign:
		return OpDivide
	case OpModAssign:
		return OpMod
	case OpPowerAssign:
		return OpPower
	case OpAndAssign:
		return OpBitwiseAnd
	case OpOrAssign:
		return OpBitwiseOr
	case OpXorAssign:
		return OpBitwiseXor
	case OpLeftShiftAssign:
		return OpLeftShift
	case OpRightShiftAssign:
		return OpRightShift
	case OpUnsignedRightShiftAssign:
		return OpUnsignedRightShift
	}
	return o
}
