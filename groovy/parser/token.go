package parser

import "fmt"

type Position struct {
	Offset int
	Line   int
	Column int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

type Span struct {
	Start Position
	End   Position
}

type TokenKind int

const (
	TokenEOF TokenKind = iota
	TokenError
	TokenWhitespace
	TokenComment
	TokenLineComment

	// Literals
	TokenIdent
	TokenIntLiteral
	TokenFloatLiteral
	TokenStringLiteral
	TokenGStringBegin
	TokenGStringPart
	TokenGStringEnd
	TokenGStringPath
	TokenTrue
	TokenFalse
	TokenNull

	// Keywords
	TokenAbstract
	TokenAs
	TokenAssert
	TokenBoolean
	TokenBreak
	TokenByte
	TokenCase
	TokenCatch
	TokenChar
	TokenClass
	TokenConst
	TokenContinue
	TokenDef
	TokenDefault
	TokenDo
	TokenDouble
	TokenElse
	TokenEnum
	TokenExtends
	TokenFinal
	TokenFinally
	TokenFloat
	TokenFor
	TokenGoto
	TokenIf
	TokenImplements
	TokenImport
	TokenIn
	TokenInstanceof
	TokenInt
	TokenInterface
	TokenLong
	TokenNative
	TokenNew
	TokenPackage
	TokenPrivate
	TokenProtected
	TokenPublic
	TokenReturn
	TokenShort
	TokenStatic
	TokenStrictfp
	TokenSuper
	TokenSwitch
	TokenSynchronized
	TokenThis
	TokenThreadsafe
	TokenThrow
	TokenThrows
	TokenTrait
	TokenTransient
	TokenTry
	TokenVar
	TokenVoid
	TokenVolatile
	TokenWhile

	// Operators and punctuation
	TokenLParen
	TokenRParen
	TokenLBrace
	TokenRBrace
	TokenLBracket
	TokenRBracket
	TokenSafeIndex
	TokenSemicolon
	TokenComma
	TokenDot
	TokenSafeDot
	TokenSafeChainDot
	TokenSpreadDot
	TokenMethodPointer
	TokenAttrDot
	TokenSpreadAttrDot
	TokenColonColon
	TokenEllipsis
	TokenRange
	TokenRangeExclusive
	TokenAt

	TokenAssign
	TokenEQ
	TokenNE
	TokenIdentical
	TokenNotIdentical
	TokenLT
	TokenLE
	TokenGT
	TokenGE
	TokenSpaceship
	TokenRegexFind
	TokenRegexMatch
	TokenNotIn
	TokenNotInstanceof
	TokenAnd
	TokenOr
	TokenNot
	TokenBitAnd
	TokenBitOr
	TokenBitXor
	TokenBitNot
	TokenShl
	TokenShr
	TokenUShr
	TokenPlus
	TokenMinus
	TokenStar
	TokenSlash
	TokenPercent
	TokenPower
	TokenIncrement
	TokenDecrement
	TokenQuestion
	TokenElvis
	TokenColon
	TokenArrow
	TokenPlusAssign
	TokenMinusAssign
	TokenStarAssign
	TokenSlashAssign
	TokenPercentAssign
	TokenPowerAssign
	TokenAndAssign
	TokenOrAssign
	TokenXorAssign
	TokenShlAssign
	TokenShrAssign
	TokenUShrAssign
	TokenElvisAssign
)

var tokenKindNames = map[TokenKind]string{
	TokenEOF:            "EOF",
	TokenError:          "Error",
	TokenWhitespace:     "Whitespace",
	TokenComment:        "Comment",
	TokenLineComment:    "LineComment",
	TokenIdent:          "Identifier",
	TokenIntLiteral:     "IntLiteral",
	TokenFloatLiteral:   "FloatLiteral",
	TokenStringLiteral:  "StringLiteral",
	TokenGStringBegin:   "GStringBegin",
	TokenGStringPart:    "GStringPart",
	TokenGStringEnd:     "GStringEnd",
	TokenGStringPath:    "GStringPath",
	TokenTrue:           "true",
	TokenFalse:          "false",
	TokenNull:           "null",
	TokenAbstract:       "abstract",
	TokenAs:             "as",
	TokenAssert:         "assert",
	TokenBoolean:        "boolean",
	TokenBreak:          "break",
	TokenByte:           "byte",
	TokenCase:           "case",
	TokenCatch:          "catch",
	TokenChar:           "char",
	TokenClass:          "class",
	TokenConst:          "const",
	TokenContinue:       "continue",
	TokenDef:            "def",
	TokenDefault:        "default",
	TokenDo:             "do",
	TokenDouble:         "double",
	TokenElse:           "else",
	TokenEnum:           "enum",
	TokenExtends:        "extends",
	TokenFinal:          "final",
	TokenFinally:        "finally",
	TokenFloat:          "float",
	TokenFor:            "for",
	TokenGoto:           "goto",
	TokenIf:             "if",
	TokenImplements:     "implements",
	TokenImport:         "import",
	TokenIn:             "in",
	TokenInstanceof:     "instanceof",
	TokenInt:            "int",
	TokenInterface:      "interface",
	TokenLong:           "long",
	TokenNative:         "native",
	TokenNew:            "new",
	TokenPackage:        "package",
	TokenPrivate:        "private",
	TokenProtected:      "protected",
	TokenPublic:         "public",
	TokenReturn:         "return",
	TokenShort:          "short",
	TokenStatic:         "static",
	TokenStrictfp:       "strictfp",
	TokenSuper:          "super",
	TokenSwitch:         "switch",
	TokenSynchronized:   "synchronized",
	TokenThis:           "this",
	TokenThreadsafe:     "threadsafe",
	TokenThrow:          "throw",
	TokenThrows:         "throws",
	TokenTrait:          "trait",
	TokenTransient:      "transient",
	TokenTry:            "try",
	TokenVar:            "var",
	TokenVoid:           "void",
	TokenVolatile:       "volatile",
	TokenWhile:          "while",
	TokenLParen:         "(",
	TokenRParen:         ")",
	TokenLBrace:         "{",
	TokenRBrace:         "}",
	TokenLBracket:       "[",
	TokenRBracket:       "]",
	TokenSafeIndex:      "?[",
	TokenSemicolon:      ";",
	TokenComma:          ",",
	TokenDot:            ".",
	TokenSafeDot:        "?.",
	TokenSafeChainDot:   "??.",
	TokenSpreadDot:      "*.",
	TokenMethodPointer:  ".&",
	TokenAttrDot:        ".@",
	TokenSpreadAttrDot:  "*.@",
	TokenColonColon:     "::",
	TokenEllipsis:       "...",
	TokenRange:          "..",
	TokenRangeExclusive: "..<",
	TokenAt:             "@",
	TokenAssign:         "=",
	TokenEQ:             "==",
	TokenNE:             "!=",
	TokenIdentical:      "===",
	TokenNotIdentical:   "!==",
	TokenLT:             "<",
	TokenLE:             "<=",
	TokenGT:             ">",
	TokenGE:             ">=",
	TokenSpaceship:      "<=>",
	TokenRegexFind:      "=~",
	TokenRegexMatch:     "==~",
	TokenNotIn:          "!in",
	TokenNotInstanceof:  "!instanceof",
	TokenAnd:            "&&",
	TokenOr:             "||",
	TokenNot:            "!",
	TokenBitAnd:         "&",
	TokenBitOr:          "|",
	TokenBitXor:         "^",
	TokenBitNot:         "~",
	TokenShl:            "<<",
	TokenShr:            ">>",
	TokenUShr:           ">>>",
	TokenPlus:           "+",
	TokenMinus:          "-",
	TokenStar:           "*",
	TokenSlash:          "/",
	TokenPercent:        "%",
	TokenPower:          "**",
	TokenIncrement:      "++",
	TokenDecrement:      "--",
	TokenQuestion:       "?",
	TokenElvis:          "?:",
	TokenColon:          ":",
	TokenArrow:          "->",
	TokenPlusAssign:     "+=",
	TokenMinusAssign:    "-=",
	TokenStarAssign:     "*=",
	TokenSlashAssign:    "/=",
	TokenPercentAssign:  "%=",
	TokenPowerAssign:    "**=",
	TokenAndAssign:      "&=",
	TokenOrAssign:       "|=",
	TokenXorAssign:      "^=",
	TokenShlAssign:      "<<=",
	TokenShrAssign:      ">>=",
	TokenUShrAssign:     ">>>=",
	TokenElvisAssign:    "?=",
}

func (k TokenKind) String() string {
	if name, ok := tokenKindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// Token is a lexeme. NewlineBefore is set when a significant line break
// separates the token from the previous one; line breaks inside parentheses
// and brackets are not significant.
type Token struct {
	Kind          TokenKind
	Span          Span
	Literal       string
	NewlineBefore bool
	// Message describes a TokenError.
	Message string
}

var keywords = map[string]TokenKind{
	"abstract":     TokenAbstract,
	"as":           TokenAs,
	"assert":       TokenAssert,
	"boolean":      TokenBoolean,
	"break":        TokenBreak,
	"byte":         TokenByte,
	"case":         TokenCase,
	"catch":        TokenCatch,
	"char":         TokenChar,
	"class":        TokenClass,
	"const":        TokenConst,
	"continue":     TokenContinue,
	"def":          TokenDef,
	"default":      TokenDefault,
	"do":           TokenDo,
	"double":       TokenDouble,
	"else":         TokenElse,
	"enum":         TokenEnum,
	"extends":      TokenExtends,
	"final":        TokenFinal,
	"finally":      TokenFinally,
	"float":        TokenFloat,
	"for":          TokenFor,
	"goto":         TokenGoto,
	"if":           TokenIf,
	"implements":   TokenImplements,
	"import":       TokenImport,
	"in":           TokenIn,
	"instanceof":   TokenInstanceof,
	"int":          TokenInt,
	"interface":    TokenInterface,
	"long":         TokenLong,
	"native":       TokenNative,
	"new":          TokenNew,
	"package":      TokenPackage,
	"private":      TokenPrivate,
	"protected":    TokenProtected,
	"public":       TokenPublic,
	"return":       TokenReturn,
	"short":        TokenShort,
	"static":       TokenStatic,
	"strictfp":     TokenStrictfp,
	"super":        TokenSuper,
	"switch":       TokenSwitch,
	"synchronized": TokenSynchronized,
	"this":         TokenThis,
	"threadsafe":   TokenThreadsafe,
	"throw":        TokenThrow,
	"throws":       TokenThrows,
	"trait":        TokenTrait,
	"transient":    TokenTransient,
	"try":          TokenTry,
	"var":          TokenVar,
	"void":         TokenVoid,
	"volatile":     TokenVolatile,
	"while":        TokenWhile,
	"true":         TokenTrue,
	"false":        TokenFalse,
	"null":         TokenNull,
}

func LookupKeyword(ident string) TokenKind {
	if kind, ok := keywords[ident]; ok {
		return kind
	}
	return TokenIdent
}

// IsKeyword reports whether k is a reserved word, including the literal
// keywords true, false and null.
func (k TokenKind) IsKeyword() bool {
	return (k >= TokenAbstract && k <= TokenWhile) || k == TokenTrue || k == TokenFalse || k == TokenNull
}

// IsPrimitive reports whether k names a built-in primitive type.
func (k TokenKind) IsPrimitive() bool {
	switch k {
	case TokenBoolean, TokenByte, TokenChar, TokenShort, TokenInt, TokenLong, TokenFloat, TokenDouble:
		return true
	}
	return false
}

// IsModifier reports whether k may appear in a modifier list.
func (k TokenKind) IsModifier() bool {
	switch k {
	case TokenAbstract, TokenDef, TokenDefault, TokenFinal, TokenNative, TokenPrivate,
		TokenProtected, TokenPublic, TokenStatic, TokenStrictfp, TokenSynchronized,
		TokenThreadsafe, TokenTransient, TokenVar, TokenVolatile:
		return true
	}
	return false
}
