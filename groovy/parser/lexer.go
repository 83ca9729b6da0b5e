package parser

import (
	"unicode"
	"unicode/utf8"
)

// quoteStyle identifies how a string literal is delimited.
type quoteStyle int

const (
	quoteDouble       quoteStyle = iota // "..."
	quoteTripleDouble                   // """..."""
	quoteSlashy                         // /.../
	quoteDollarSlashy                   // $/.../$
)

// frame is one entry of the lexer's nesting stack.
type frame struct {
	open  byte // '(', '[', '{' or '$' for the brace opening an interpolation
	style quoteStyle
}

// pathState tracks a "$name.path" interpolation inside a string.
type pathState int

const (
	pathNone pathState = iota
	pathHead           // next token is the identifier after '$'
	pathTail           // optional ".name" segments, then string content
	pathResume         // string content after a closing interpolation brace
)

type Lexer struct {
	input  []byte
	pos    int
	line   int
	column int

	stack     []frame
	path      pathState
	pathStyle quoteStyle
	// openInterpolation is set after a string segment ending in "${".
	openInterpolation bool

	newline  bool
	lastKind TokenKind
}

func NewLexer(input []byte) *Lexer {
	return &Lexer{
		input:    input,
		line:     1,
		column:   1,
		lastKind: TokenEOF,
	}
}

func (l *Lexer) Position() Position {
	return Position{
		Offset: l.pos,
		Line:   l.line,
		Column: l.column,
	}
}

func (l *Lexer) peek() byte {
	if l.pos >= len(l.input) {
		return 0
	}
	return l.input[l.pos]
}

func (l *Lexer) peekN(n int) byte {
	if l.pos+n >= len(l.input) {
		return 0
	}
	return l.input[l.pos+n]
}

func (l *Lexer) advance() byte {
	if l.pos >= len(l.input) {
		return 0
	}
	ch := l.input[l.pos]
	l.pos++
	if ch == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
	return ch
}

func (l *Lexer) advanceN(n int) {
	for i := 0; i < n; i++ {
		l.advance()
	}
}

func (l *Lexer) atEnd() bool {
	return l.pos >= len(l.input)
}

// significant reports whether a line break at the current nesting level
// terminates a statement.
func (l *Lexer) significant() bool {
	if len(l.stack) == 0 {
		return true
	}
	top := l.stack[len(l.stack)-1].open
	return top != '(' && top != '['
}

// NextToken returns the next token including whitespace and comments.
func (l *Lexer) NextToken() Token {
	tok := l.next()
	switch tok.Kind {
	case TokenWhitespace, TokenLineComment, TokenComment:
		if l.significant() && containsNewline(tok.Literal) {
			l.newline = true
		}
	default:
		tok.NewlineBefore = l.newline
		l.newline = false
		l.lastKind = tok.Kind
	}
	return tok
}

func containsNewline(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			return true
		}
	}
	return false
}

func (l *Lexer) next() Token {
	startPos := l.Position()

	switch l.path {
	case pathHead:
		l.path = pathTail
		l.scanPathName()
		tok := l.token(TokenIdent, startPos)
		tok.Kind = LookupKeyword(tok.Literal)
		return tok
	case pathTail:
		if l.peek() == '.' && l.peekN(1) != '$' && l.isIdentStartAt(l.pos+1) {
			l.advance()
			l.scanPathName()
			return l.token(TokenGStringPath, startPos)
		}
		l.path = pathNone
		return l.scanStringContent(startPos, l.pathStyle, false)
	case pathResume:
		l.path = pathNone
		return l.scanStringContent(startPos, l.pathStyle, false)
	}

	if l.atEnd() {
		return Token{Kind: TokenEOF, Span: Span{Start: startPos, End: startPos}}
	}

	ch := l.peek()

	if ch == '/' && l.peekN(1) == '/' {
		return l.scanLineComment(startPos)
	}
	if ch == '/' && l.peekN(1) == '*' {
		return l.scanBlockComment(startPos)
	}
	if ch == '#' && l.peekN(1) == '!' && l.pos == 0 {
		return l.scanLineComment(startPos)
	}

	if ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n' || ch == '\f' {
		return l.scanWhitespace(startPos)
	}
	if ch == '\\' && (l.peekN(1) == '\n' || (l.peekN(1) == '\r' && l.peekN(2) == '\n')) {
		// Line continuation.
		l.advance()
		tok := l.scanWhitespace(startPos)
		tok.Literal = ""
		return tok
	}

	if ch == '$' && l.peekN(1) == '/' {
		l.advanceN(2)
		return l.scanStringContent(startPos, quoteDollarSlashy, true)
	}

	if l.isIdentStartAt(l.pos) {
		return l.scanIdentOrKeyword(startPos)
	}

	if isDigit(ch) {
		return l.scanNumber(startPos)
	}

	if ch == '\'' {
		if l.peekN(1) == '\'' && l.peekN(2) == '\'' {
			return l.scanTripleSingle(startPos)
		}
		return l.scanSingleQuoted(startPos)
	}

	if ch == '"' {
		if l.peekN(1) == '"' && l.peekN(2) == '"' {
			l.advanceN(3)
			return l.scanStringContent(startPos, quoteTripleDouble, true)
		}
		l.advance()
		return l.scanStringContent(startPos, quoteDouble, true)
	}

	if ch == '/' && !l.endsOperand() && l.peekN(1) != '=' {
		l.advance()
		return l.scanStringContent(startPos, quoteSlashy, true)
	}

	return l.scanOperator(startPos)
}

// endsOperand reports whether the previous token can end an operand, in which
// case a following '/' is division rather than the start of a slashy string.
func (l *Lexer) endsOperand() bool {
	switch l.lastKind {
	case TokenIdent, TokenIntLiteral, TokenFloatLiteral, TokenStringLiteral, TokenGStringEnd,
		TokenTrue, TokenFalse, TokenNull, TokenThis, TokenSuper,
		TokenRParen, TokenRBracket, TokenRBrace, TokenIncrement, TokenDecrement:
		return true
	}
	return l.lastKind.IsPrimitive()
}

func (l *Lexer) scanWhitespace(start Position) Token {
	for {
		ch := l.peek()
		if ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n' || ch == '\f' {
			l.advance()
		} else {
			break
		}
	}
	return l.token(TokenWhitespace, start)
}

func (l *Lexer) scanLineComment(start Position) Token {
	l.advanceN(2)
	for l.peek() != 0 && l.peek() != '\n' {
		l.advance()
	}
	return l.token(TokenLineComment, start)
}

func (l *Lexer) scanBlockComment(start Position) Token {
	l.advanceN(2)
	for {
		if l.atEnd() {
			tok := l.token(TokenError, start)
			tok.Message = "unterminated comment"
			return tok
		}
		if l.peek() == '*' && l.peekN(1) == '/' {
			l.advanceN(2)
			break
		}
		l.advance()
	}
	return l.token(TokenComment, start)
}

func (l *Lexer) scanIdentOrKeyword(start Position) Token {
	for l.isIdentPartAt(l.pos) {
		l.advanceRune()
	}
	tok := l.token(TokenIdent, start)
	tok.Kind = LookupKeyword(tok.Literal)
	return tok
}

// scanPathName consumes an identifier inside an interpolated string, where
// '$' starts the next interpolation instead of continuing the name.
func (l *Lexer) scanPathName() {
	for l.peek() != '$' && l.isIdentPartAt(l.pos) {
		l.advanceRune()
	}
}

func (l *Lexer) advanceRune() {
	if l.peek() < utf8.RuneSelf {
		l.advance()
		return
	}
	_, size := utf8.DecodeRune(l.input[l.pos:])
	l.advanceN(size)
}

func (l *Lexer) isIdentStartAt(i int) bool {
	if i >= len(l.input) {
		return false
	}
	ch := l.input[i]
	if ch >= utf8.RuneSelf {
		r, _ := utf8.DecodeRune(l.input[i:])
		return unicode.IsLetter(r)
	}
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch == '_' || ch == '$'
}

func (l *Lexer) isIdentPartAt(i int) bool {
	if i >= len(l.input) {
		return false
	}
	ch := l.input[i]
	if ch >= utf8.RuneSelf {
		r, _ := utf8.DecodeRune(l.input[i:])
		return unicode.IsLetter(r) || unicode.IsDigit(r)
	}
	return l.isIdentStartAt(i) || isDigit(ch)
}

func (l *Lexer) scanNumber(start Position) Token {
	if l.peek() == '0' && (l.peekN(1) == 'x' || l.peekN(1) == 'X') {
		l.advanceN(2)
		for isHexDigit(l.peek()) || l.peek() == '_' {
			l.advance()
		}
		l.scanIntegerSuffix()
		return l.token(TokenIntLiteral, start)
	}
	if l.peek() == '0' && (l.peekN(1) == 'b' || l.peekN(1) == 'B') {
		l.advanceN(2)
		for l.peek() == '0' || l.peek() == '1' || l.peek() == '_' {
			l.advance()
		}
		l.scanIntegerSuffix()
		return l.token(TokenIntLiteral, start)
	}

	isFloat := false
	for isDigit(l.peek()) || l.peek() == '_' {
		l.advance()
	}

	if l.peek() == '.' && isDigit(l.peekN(1)) {
		isFloat = true
		l.advance()
		for isDigit(l.peek()) || l.peek() == '_' {
			l.advance()
		}
	}

	if (l.peek() == 'e' || l.peek() == 'E') &&
		(isDigit(l.peekN(1)) || ((l.peekN(1) == '+' || l.peekN(1) == '-') && isDigit(l.peekN(2)))) {
		isFloat = true
		l.advance()
		if l.peek() == '+' || l.peek() == '-' {
			l.advance()
		}
		for isDigit(l.peek()) || l.peek() == '_' {
			l.advance()
		}
	}

	switch l.peek() {
	case 'f', 'F', 'd', 'D':
		isFloat = true
		l.advance()
	case 'g', 'G':
		l.advance()
	case 'i', 'I', 'l', 'L':
		if !isFloat {
			l.advance()
		}
	}

	if l.isIdentPartAt(l.pos) {
		for l.isIdentPartAt(l.pos) {
			l.advanceRune()
		}
		tok := l.token(TokenError, start)
		tok.Message = "invalid number literal " + tok.Literal
		return tok
	}

	kind := TokenIntLiteral
	if isFloat {
		kind = TokenFloatLiteral
	}
	return l.token(kind, start)
}

func (l *Lexer) scanIntegerSuffix() {
	switch l.peek() {
	case 'i', 'I', 'l', 'L', 'g', 'G':
		l.advance()
	}
}

func (l *Lexer) scanSingleQuoted(start Position) Token {
	l.advance()
	for {
		if l.atEnd() || l.peek() == '\n' {
			return l.unterminated(start)
		}
		switch l.peek() {
		case '\\':
			l.advance()
		case '\'':
			l.advance()
			return l.token(TokenStringLiteral, start)
		}
		l.advance()
	}
}

func (l *Lexer) scanTripleSingle(start Position) Token {
	l.advanceN(3)
	for {
		if l.atEnd() {
			return l.unterminated(start)
		}
		if l.peek() == '\'' && l.peekN(1) == '\'' && l.peekN(2) == '\'' {
			l.advanceN(3)
			return l.token(TokenStringLiteral, start)
		}
		if l.peek() == '\\' {
			l.advance()
		}
		l.advance()
	}
}

// scanStringContent scans the body of an interpolating string up to its
// closing delimiter or the next "$" interpolation. The opening delimiter, if
// any, has already been consumed. begin indicates the segment starts the
// literal.
func (l *Lexer) scanStringContent(start Position, style quoteStyle, begin bool) Token {
	for {
		if l.atEnd() {
			return l.unterminated(start)
		}
		ch := l.peek()
		switch style {
		case quoteDouble:
			if ch == '\n' {
				return l.unterminated(start)
			}
			if ch == '"' {
				l.advance()
				return l.finishString(start, begin)
			}
		case quoteTripleDouble:
			if ch == '"' && l.peekN(1) == '"' && l.peekN(2) == '"' {
				l.advanceN(3)
				return l.finishString(start, begin)
			}
		case quoteSlashy:
			if ch == '/' {
				l.advance()
				return l.finishString(start, begin)
			}
			if ch == '\\' && l.peekN(1) == '/' {
				l.advanceN(2)
				continue
			}
		case quoteDollarSlashy:
			if ch == '/' && l.peekN(1) == '$' {
				l.advanceN(2)
				return l.finishString(start, begin)
			}
			if ch == '$' && (l.peekN(1) == '$' || l.peekN(1) == '/') {
				l.advanceN(2)
				continue
			}
		}

		if ch == '\\' && style != quoteSlashy && style != quoteDollarSlashy {
			l.advanceN(2)
			continue
		}
		if ch == '$' {
			if l.peekN(1) == '{' {
				l.advance()
				l.openInterpolation = true
				l.pathStyle = style
				return l.segment(start, begin)
			}
			if l.isIdentStartAt(l.pos+1) && l.peekN(1) != '$' {
				l.advance()
				l.path = pathHead
				l.pathStyle = style
				return l.segment(start, begin)
			}
		}
		l.advanceRune()
	}
}

func (l *Lexer) segment(start Position, begin bool) Token {
	if begin {
		return l.token(TokenGStringBegin, start)
	}
	return l.token(TokenGStringPart, start)
}

func (l *Lexer) finishString(start Position, begin bool) Token {
	if begin {
		return l.token(TokenStringLiteral, start)
	}
	return l.token(TokenGStringEnd, start)
}

func (l *Lexer) unterminated(start Position) Token {
	tok := l.token(TokenError, start)
	tok.Message = "unterminated string literal"
	return tok
}

func (l *Lexer) push(open byte) {
	l.stack = append(l.stack, frame{open: open})
}

// pop closes the innermost frame and reports whether it was an
// interpolation brace.
func (l *Lexer) pop() (frame, bool) {
	if len(l.stack) == 0 {
		return frame{}, false
	}
	top := l.stack[len(l.stack)-1]
	l.stack = l.stack[:len(l.stack)-1]
	return top, top.open == '$'
}

func (l *Lexer) scanOperator(start Position) Token {
	ch := l.peek()

	switch ch {
	case '(':
		l.advance()
		l.push('(')
		return l.token(TokenLParen, start)
	case ')':
		l.advance()
		l.pop()
		return l.token(TokenRParen, start)
	case '{':
		l.advance()
		if l.openInterpolation {
			l.openInterpolation = false
			l.stack = append(l.stack, frame{open: '$', style: l.pathStyle})
		} else {
			l.push('{')
		}
		return l.token(TokenLBrace, start)
	case '}':
		l.advance()
		top, interp := l.pop()
		tok := l.token(TokenRBrace, start)
		if interp {
			l.path = pathResume
			l.pathStyle = top.style
		}
		return tok
	case '[':
		l.advance()
		l.push('[')
		return l.token(TokenLBracket, start)
	case ']':
		l.advance()
		l.pop()
		return l.token(TokenRBracket, start)
	case ';':
		l.advance()
		return l.token(TokenSemicolon, start)
	case ',':
		l.advance()
		return l.token(TokenComma, start)
	case '@':
		l.advance()
		return l.token(TokenAt, start)
	case '~':
		l.advance()
		return l.token(TokenBitNot, start)

	case '?':
		switch {
		case l.peekN(1) == '?' && l.peekN(2) == '.':
			l.advanceN(3)
			return l.token(TokenSafeChainDot, start)
		case l.peekN(1) == '.' && !isDigit(l.peekN(2)):
			l.advanceN(2)
			return l.token(TokenSafeDot, start)
		case l.peekN(1) == '[':
			l.advanceN(2)
			l.push('[')
			return l.token(TokenSafeIndex, start)
		case l.peekN(1) == ':':
			l.advanceN(2)
			return l.token(TokenElvis, start)
		case l.peekN(1) == '=' && l.peekN(2) != '=':
			l.advanceN(2)
			return l.token(TokenElvisAssign, start)
		}
		l.advance()
		return l.token(TokenQuestion, start)

	case '.':
		switch {
		case l.peekN(1) == '.' && l.peekN(2) == '.':
			l.advanceN(3)
			return l.token(TokenEllipsis, start)
		case l.peekN(1) == '.' && l.peekN(2) == '<':
			l.advanceN(3)
			return l.token(TokenRangeExclusive, start)
		case l.peekN(1) == '.':
			l.advanceN(2)
			return l.token(TokenRange, start)
		case l.peekN(1) == '&':
			l.advanceN(2)
			return l.token(TokenMethodPointer, start)
		case l.peekN(1) == '@':
			l.advanceN(2)
			return l.token(TokenAttrDot, start)
		}
		l.advance()
		return l.token(TokenDot, start)

	case ':':
		if l.peekN(1) == ':' {
			l.advanceN(2)
			return l.token(TokenColonColon, start)
		}
		l.advance()
		return l.token(TokenColon, start)

	case '=':
		switch {
		case l.peekN(1) == '=' && l.peekN(2) == '=':
			l.advanceN(3)
			return l.token(TokenIdentical, start)
		case l.peekN(1) == '=' && l.peekN(2) == '~':
			l.advanceN(3)
			return l.token(TokenRegexMatch, start)
		case l.peekN(1) == '=':
			l.advanceN(2)
			return l.token(TokenEQ, start)
		case l.peekN(1) == '~':
			l.advanceN(2)
			return l.token(TokenRegexFind, start)
		}
		l.advance()
		return l.token(TokenAssign, start)

	case '!':
		if l.peekN(1) == '=' {
			if l.peekN(2) == '=' {
				l.advanceN(3)
				return l.token(TokenNotIdentical, start)
			}
			l.advanceN(2)
			return l.token(TokenNE, start)
		}
		if l.followedByWord(1, "instanceof") {
			l.advanceN(11)
			return l.token(TokenNotInstanceof, start)
		}
		if l.followedByWord(1, "in") {
			l.advanceN(3)
			return l.token(TokenNotIn, start)
		}
		l.advance()
		return l.token(TokenNot, start)

	case '<':
		if l.peekN(1) == '<' {
			if l.peekN(2) == '=' {
				l.advanceN(3)
				return l.token(TokenShlAssign, start)
			}
			l.advanceN(2)
			return l.token(TokenShl, start)
		}
		if l.peekN(1) == '=' {
			if l.peekN(2) == '>' {
				l.advanceN(3)
				return l.token(TokenSpaceship, start)
			}
			l.advanceN(2)
			return l.token(TokenLE, start)
		}
		l.advance()
		return l.token(TokenLT, start)

	case '>':
		if l.peekN(1) == '>' {
			if l.peekN(2) == '>' {
				if l.peekN(3) == '=' {
					l.advanceN(4)
					return l.token(TokenUShrAssign, start)
				}
				l.advanceN(3)
				return l.token(TokenUShr, start)
			}
			if l.peekN(2) == '=' {
				l.advanceN(3)
				return l.token(TokenShrAssign, start)
			}
			l.advanceN(2)
			return l.token(TokenShr, start)
		}
		if l.peekN(1) == '=' {
			l.advanceN(2)
			return l.token(TokenGE, start)
		}
		l.advance()
		return l.token(TokenGT, start)

	case '&':
		if l.peekN(1) == '&' {
			l.advanceN(2)
			return l.token(TokenAnd, start)
		}
		if l.peekN(1) == '=' {
			l.advanceN(2)
			return l.token(TokenAndAssign, start)
		}
		l.advance()
		return l.token(TokenBitAnd, start)

	case '|':
		if l.peekN(1) == '|' {
			l.advanceN(2)
			return l.token(TokenOr, start)
		}
		if l.peekN(1) == '=' {
			l.advanceN(2)
			return l.token(TokenOrAssign, start)
		}
		l.advance()
		return l.token(TokenBitOr, start)

	case '^':
		if l.peekN(1) == '=' {
			l.advanceN(2)
			return l.token(TokenXorAssign, start)
		}
		l.advance()
		return l.token(TokenBitXor, start)

	case '+':
		if l.peekN(1) == '+' {
			l.advanceN(2)
			return l.token(TokenIncrement, start)
		}
		if l.peekN(1) == '=' {
			l.advanceN(2)
			return l.token(TokenPlusAssign, start)
		}
		l.advance()
		return l.token(TokenPlus, start)

	case '-':
		if l.peekN(1) == '-' {
			l.advanceN(2)
			return l.token(TokenDecrement, start)
		}
		if l.peekN(1) == '=' {
			l.advanceN(2)
			return l.token(TokenMinusAssign, start)
		}
		if l.peekN(1) == '>' {
			l.advanceN(2)
			return l.token(TokenArrow, start)
		}
		l.advance()
		return l.token(TokenMinus, start)

	case '*':
		switch {
		case l.peekN(1) == '*' && l.peekN(2) == '=':
			l.advanceN(3)
			return l.token(TokenPowerAssign, start)
		case l.peekN(1) == '*':
			l.advanceN(2)
			return l.token(TokenPower, start)
		case l.peekN(1) == '.' && l.peekN(2) == '@':
			l.advanceN(3)
			return l.token(TokenSpreadAttrDot, start)
		case l.peekN(1) == '.':
			l.advanceN(2)
			return l.token(TokenSpreadDot, start)
		case l.peekN(1) == '=':
			l.advanceN(2)
			return l.token(TokenStarAssign, start)
		}
		l.advance()
		return l.token(TokenStar, start)

	case '/':
		if l.peekN(1) == '=' {
			l.advanceN(2)
			return l.token(TokenSlashAssign, start)
		}
		l.advance()
		return l.token(TokenSlash, start)

	case '%':
		if l.peekN(1) == '=' {
			l.advanceN(2)
			return l.token(TokenPercentAssign, start)
		}
		l.advance()
		return l.token(TokenPercent, start)
	}

	l.advanceRune()
	tok := l.token(TokenError, start)
	tok.Message = "unexpected character " + tok.Literal
	return tok
}

func (l *Lexer) followedByWord(offset int, word string) bool {
	end := l.pos + offset + len(word)
	if end > len(l.input) || string(l.input[l.pos+offset:end]) != word {
		return false
	}
	return !l.isIdentPartAt(end)
}

func (l *Lexer) token(kind TokenKind, start Position) Token {
	end := l.Position()
	return Token{
		Kind:    kind,
		Span:    Span{Start: start, End: end},
		Literal: string(l.input[start.Offset:end.Offset]),
	}
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isHexDigit(ch byte) bool {
	return (ch >= '0' && ch <= '9') || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}
