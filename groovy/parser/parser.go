package parser

import (
	"context"
	"fmt"
)

// Strategy selects how the parser predicts between alternatives.
type Strategy int

const (
	// StrategyOptimistic uses bounded lookahead and cached decisions and
	// stops at the first syntax error.
	StrategyOptimistic Strategy = iota
	// StrategyExhaustive uses unbounded lookahead, reports every syntax
	// error to the attached listeners and recovers to keep going.
	StrategyExhaustive
)

func (s Strategy) String() string {
	switch s {
	case StrategyOptimistic:
		return "optimistic"
	case StrategyExhaustive:
		return "exhaustive"
	}
	return "unknown"
}

// DefaultLookahead bounds the tokens an optimistic prediction may examine.
const DefaultLookahead = 64

// Listener receives syntax errors found by an exhaustive parse.
type Listener interface {
	SyntaxError(tok Token, msg string)
}

type ListenerFunc func(tok Token, msg string)

func (f ListenerFunc) SyntaxError(tok Token, msg string) { f(tok, msg) }

type Option func(*Parser)

func WithStrategy(s Strategy) Option {
	return func(p *Parser) {
		p.strategy = s
	}
}

func WithCache(c *Cache) Option {
	return func(p *Parser) {
		p.cache = c
	}
}

func WithListener(l Listener) Option {
	return func(p *Parser) {
		p.listeners = append(p.listeners, l)
	}
}

func WithLookahead(n int) Option {
	return func(p *Parser) {
		p.lookahead = n
	}
}

// WithContext makes the parser stop between top-level statements once ctx
// is done.
func WithContext(ctx context.Context) Option {
	return func(p *Parser) {
		p.ctx = ctx
	}
}

// Bailout is the error an optimistic parse stops with.
type Bailout struct {
	Token   Token
	Message string
}

func (b *Bailout) Error() string {
	return fmt.Sprintf("%s: %s", b.Token.Span.Start, b.Message)
}

type Parser struct {
	tokens    []Token
	pos       int
	strategy  Strategy
	cache     *Cache
	listeners []Listener
	lookahead int
	ctx       context.Context
	errors    int
}

// New returns a parser over tokens, which must end with TokenEOF and must
// not contain whitespace or comments.
func New(tokens []Token, opts ...Option) *Parser {
	p := &Parser{
		tokens:    tokens,
		lookahead: DefaultLookahead,
		ctx:       context.Background(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Tokenize lexes src, dropping whitespace. Comments are returned separately.
// Lexical errors appear as TokenError entries in tokens.
func Tokenize(src []byte) (tokens, comments []Token) {
	l := NewLexer(src)
	for {
		tok := l.NextToken()
		switch tok.Kind {
		case TokenWhitespace:
			continue
		case TokenComment, TokenLineComment:
			comments = append(comments, tok)
			continue
		}
		tokens = append(tokens, tok)
		if tok.Kind == TokenEOF {
			return tokens, comments
		}
	}
}

// ErrorCount returns the number of syntax errors reported so far.
func (p *Parser) ErrorCount() int {
	return p.errors
}

// ParseCompilationUnit parses a whole source unit. An optimistic parse
// returns a *Bailout on the first syntax error; an exhaustive parse returns
// a tree that may contain error nodes. A done context yields ctx.Err().
func (p *Parser) ParseCompilationUnit() (root *Node, err error) {
	return p.run((*Parser).parseCompilationUnit)
}

// ParseExpression parses a single expression followed by EOF.
func (p *Parser) ParseExpression() (root *Node, err error) {
	return p.run(func(p *Parser) *Node {
		n := p.parseExpressionOrCommand()
		if !p.check(TokenEOF) {
			n = p.errorNode("unexpected "+describe(p.peek()), nil)
		}
		return n
	})
}

type canceled struct{ err error }

func (p *Parser) run(entry func(*Parser) *Node) (root *Node, err error) {
	defer func() {
		if r := recover(); r != nil {
			switch r := r.(type) {
			case *Bailout:
				root, err = nil, r
			case canceled:
				root, err = nil, r.err
			default:
				panic(r)
			}
		}
	}()
	return entry(p), nil
}

func (p *Parser) checkContext() {
	if err := p.ctx.Err(); err != nil {
		panic(canceled{err})
	}
}

func (p *Parser) peek() Token {
	if p.pos >= len(p.tokens) {
		return Token{Kind: TokenEOF}
	}
	return p.tokens[p.pos]
}

func (p *Parser) peekN(n int) Token {
	if p.pos+n >= len(p.tokens) {
		return Token{Kind: TokenEOF}
	}
	return p.tokens[p.pos+n]
}

func (p *Parser) advance() Token {
	tok := p.peek()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return tok
}

func (p *Parser) expect(kind TokenKind) *Token {
	tok := p.peek()
	if tok.Kind == kind {
		p.advance()
		return &tok
	}
	return nil
}

func (p *Parser) check(kind TokenKind) bool {
	return p.peek().Kind == kind
}

func (p *Parser) match(kinds ...TokenKind) bool {
	for _, kind := range kinds {
		if p.check(kind) {
			return true
		}
	}
	return false
}

// sameLine reports whether the next token continues the current line.
func (p *Parser) sameLine() bool {
	return !p.peek().NewlineBefore
}

// mustProgress returns a function that checks if the parser has advanced.
// Call it at the start of a loop iteration, then call the returned function
// at the end to break if no progress was made.
func (p *Parser) mustProgress() func() bool {
	saved := p.pos
	return func() bool {
		if p.pos == saved {
			if !p.check(TokenEOF) {
				p.advance()
			}
			return false
		}
		return true
	}
}

func (p *Parser) startNode(kind NodeKind) *Node {
	return &Node{
		Kind: kind,
		Span: Span{Start: p.peek().Span.Start},
	}
}

func (p *Parser) finishNode(n *Node) *Node {
	if p.pos > 0 && p.pos <= len(p.tokens) {
		n.Span.End = p.tokens[p.pos-1].Span.End
	} else if len(p.tokens) > 0 {
		n.Span.End = p.tokens[len(p.tokens)-1].Span.End
	}
	if n.Span.End.Offset < n.Span.Start.Offset {
		n.Span.End = n.Span.Start
	}
	return n
}

// leaf consumes the next token into a childless node.
func (p *Parser) leaf(kind NodeKind) *Node {
	tok := p.advance()
	return &Node{Kind: kind, Span: tok.Span, Token: &tok}
}

// wrap starts a node at the start of first and makes first its first child.
func wrap(kind NodeKind, first *Node) *Node {
	n := &Node{Kind: kind, Span: Span{Start: first.Span.Start}}
	n.AddChild(first)
	return n
}

func (p *Parser) report(tok Token, msg string) {
	if p.strategy == StrategyOptimistic {
		panic(&Bailout{Token: tok, Message: msg})
	}
	p.errors++
	for _, l := range p.listeners {
		l.SyntaxError(tok, msg)
	}
}

// errorNode reports a syntax error at the next token, skips it and then
// skips to one of recoverTo.
func (p *Parser) errorNode(msg string, recoverTo []TokenKind, expected ...TokenKind) *Node {
	tok := p.peek()
	p.report(tok, msg)
	node := &Node{
		Kind: KindError,
		Span: Span{Start: tok.Span.Start, End: tok.Span.End},
		Error: &Error{
			Message:  msg,
			Expected: expected,
			Got:      &tok,
		},
	}
	p.recoverTo(recoverTo)
	return node
}

// missing reports an expected token that is absent without consuming input.
func (p *Parser) missing(kind TokenKind) *Node {
	tok := p.peek()
	msg := fmt.Sprintf("expected '%s' but found %s", kind, describe(tok))
	p.report(tok, msg)
	return &Node{
		Kind:  KindError,
		Span:  Span{Start: tok.Span.Start, End: tok.Span.Start},
		Error: &Error{Message: msg, Expected: []TokenKind{kind}, Got: &tok},
	}
}

// missingExpression reports an argument list ending in a comma.
func (p *Parser) missingExpression() *Node {
	tok := p.peek()
	p.report(tok, "Expression expected")
	return &Node{
		Kind:  KindError,
		Span:  Span{Start: tok.Span.Start, End: tok.Span.Start},
		Error: &Error{Message: "Expression expected", Got: &tok},
	}
}

// require consumes kind or adds an error node for it to parent.
func (p *Parser) require(parent *Node, kind TokenKind) bool {
	if p.expect(kind) != nil {
		return true
	}
	parent.AddChild(p.missing(kind))
	return false
}

func (p *Parser) recoverTo(kinds []TokenKind) {
	if !p.check(TokenEOF) {
		p.advance()
	}
	if len(kinds) == 0 {
		return
	}
	for !p.check(TokenEOF) {
		for _, kind := range kinds {
			if p.check(kind) {
				return
			}
		}
		p.advance()
	}
}

// recoverStatement skips to the start of the next statement.
func (p *Parser) recoverStatement() {
	for !p.check(TokenEOF) {
		if p.match(TokenSemicolon, TokenRBrace) || !p.sameLine() {
			return
		}
		p.advance()
	}
}

func describe(tok Token) string {
	switch tok.Kind {
	case TokenEOF:
		return "end of file"
	case TokenIdent:
		return fmt.Sprintf("identifier '%s'", tok.Literal)
	case TokenError:
		return tok.Message
	}
	if tok.Literal != "" {
		return fmt.Sprintf("'%s'", tok.Literal)
	}
	return fmt.Sprintf("'%s'", tok.Kind)
}

// endStatement consumes statement separators. A statement must be followed
// by ';', a line break, a closing brace or the end of input.
func (p *Parser) endStatement(parent *Node) {
	if p.check(TokenSemicolon) {
		for p.expect(TokenSemicolon) != nil {
		}
		return
	}
	if p.match(TokenEOF, TokenRBrace) || !p.sameLine() {
		return
	}
	p.report(p.peek(), "unexpected "+describe(p.peek()))
	tok := p.peek()
	parent.AddChild(&Node{
		Kind:  KindError,
		Span:  tok.Span,
		Error: &Error{Message: "unexpected " + describe(tok), Got: &tok},
	})
	p.advance()
	p.recoverStatement()
	for p.expect(TokenSemicolon) != nil {
	}
}

func (p *Parser) skipSeparators() {
	for p.expect(TokenSemicolon) != nil {
	}
}
