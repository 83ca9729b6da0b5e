package parser

import (
	"unicode"
	"unicode/utf8"
)

// Decision identifies a point where the grammar needs lookahead to choose
// between alternatives.
type Decision int

const (
	DecisionLocalVariable Decision = iota
	DecisionMethod
	DecisionClass
	DecisionImport
	DecisionCast
	DecisionLambda
	DecisionClosureParams
	DecisionForIn
	DecisionEnumConstant
	DecisionNamedArg
	DecisionGStringBlock
	numDecisions
)

var decisionNames = [...]string{
	DecisionLocalVariable: "local-variable",
	DecisionMethod:        "method",
	DecisionClass:         "class",
	DecisionImport:        "import",
	DecisionCast:          "cast",
	DecisionLambda:        "lambda",
	DecisionClosureParams: "closure-params",
	DecisionForIn:         "for-in",
	DecisionEnumConstant:  "enum-constant",
	DecisionNamedArg:      "named-arg",
	DecisionGStringBlock:  "gstring-block",
}

func (d Decision) String() string {
	if d >= 0 && d < numDecisions {
		return decisionNames[d]
	}
	return "unknown"
}

// lookahead gives a predicate access to upcoming tokens and records how far
// it looked. A predicate may only depend on the class of each token (see
// tokenClass) so that its result can be cached.
type lookahead struct {
	p     *Parser
	limit int
	max   int
}

func (la *lookahead) at(i int) Token {
	if la.limit > 0 && i >= la.limit {
		panic(&Bailout{Token: la.p.peek(), Message: "prediction exceeds lookahead bound"})
	}
	if i > la.max {
		la.max = i
	}
	return la.p.peekN(i)
}

func (la *lookahead) kind(i int) TokenKind {
	return la.at(i).Kind
}

// predict evaluates fn at the current position, consulting the cache first.
func (p *Parser) predict(d Decision, fn func(la *lookahead) bool) bool {
	rest := p.tokens[min(p.pos, len(p.tokens)):]
	if p.cache != nil {
		if alt, ok := p.cache.lookup(d, rest); ok {
			return alt
		}
	}
	la := &lookahead{p: p}
	if p.strategy == StrategyOptimistic {
		la.limit = p.lookahead
	}
	alt := fn(la)
	if p.cache != nil {
		p.cache.store(d, rest, la.max+1, alt)
	}
	return alt
}

// tokenClass is what the cache keys on: the kind, whether an identifier
// starts with a lower-case letter, and whether a line break precedes it.
func tokenClass(tok Token) uint32 {
	c := uint32(tok.Kind) << 2
	if tok.Kind == TokenIdent && startsLower(tok.Literal) {
		c |= 2
	}
	if tok.NewlineBefore {
		c |= 1
	}
	return c
}

func startsLower(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return unicode.IsLower(r)
}

func classAt(tokens []Token, i int) uint32 {
	if i < len(tokens) {
		return tokenClass(tokens[i])
	}
	return tokenClass(Token{Kind: TokenEOF})
}

// scanType matches a type starting at i and returns the index after it.
func scanType(la *lookahead, i int) (int, bool) {
	switch k := la.kind(i); {
	case k.IsPrimitive() || k == TokenVoid:
		i++
	case k == TokenIdent:
		i++
		for {
			for la.kind(i) == TokenDot && la.kind(i+1) == TokenIdent {
				i += 2
			}
			if la.kind(i) != TokenLT {
				break
			}
			var ok bool
			if i, ok = scanTypeArgs(la, i); !ok {
				return i, false
			}
			if la.kind(i) != TokenDot {
				break
			}
		}
	default:
		return i, false
	}
	for la.kind(i) == TokenLBracket && la.kind(i+1) == TokenRBracket {
		i += 2
	}
	return i, true
}

// scanTypeArgs matches a balanced "<...>" starting at i.
func scanTypeArgs(la *lookahead, i int) (int, bool) {
	depth := 0
	for {
		switch k := la.kind(i); k {
		case TokenLT:
			depth++
		case TokenGT:
			depth--
		case TokenShr:
			depth -= 2
		case TokenUShr:
			depth -= 3
		case TokenIdent, TokenDot, TokenComma, TokenQuestion, TokenExtends, TokenSuper,
			TokenBitAnd, TokenLBracket, TokenRBracket:
		default:
			if !k.IsPrimitive() {
				return i, false
			}
		}
		i++
		if depth <= 0 {
			return i, depth == 0
		}
	}
}

// skipBalanced skips from an opening token at i to just after its match.
func skipBalanced(la *lookahead, i int) (int, bool) {
	depth := 0
	for {
		switch la.kind(i) {
		case TokenLParen, TokenLBracket, TokenLBrace, TokenSafeIndex:
			depth++
		case TokenRParen, TokenRBracket, TokenRBrace:
			depth--
		case TokenEOF:
			return i, false
		}
		i++
		if depth == 0 {
			return i, true
		}
	}
}

// skipAnnotation skips "@Name(...)" starting at i.
func skipAnnotation(la *lookahead, i int) (int, bool) {
	i++
	if la.kind(i) != TokenIdent {
		return i, false
	}
	i++
	for la.kind(i) == TokenDot && la.kind(i+1) == TokenIdent {
		i += 2
	}
	if la.kind(i) == TokenLParen {
		return skipBalanced(la, i)
	}
	return i, true
}

// skipModifiers skips modifier keywords and annotations.
func skipModifiers(la *lookahead, i int) (int, bool) {
	found := false
	for {
		k := la.kind(i)
		switch {
		case k.IsModifier():
			i++
		case k == TokenAt && la.kind(i+1) != TokenInterface:
			var ok bool
			if i, ok = skipAnnotation(la, i); !ok {
				return i, found
			}
		default:
			return i, found
		}
		found = true
	}
}

// declFollows reports whether the token at i may follow a declared
// variable name.
func declFollows(la *lookahead, i int) bool {
	tok := la.at(i)
	if tok.NewlineBefore {
		return true
	}
	switch tok.Kind {
	case TokenAssign, TokenComma, TokenSemicolon, TokenRBrace, TokenRParen, TokenColon, TokenIn, TokenEOF:
		return true
	}
	return false
}

func (p *Parser) isLocalVariableDecl() bool {
	return p.predict(DecisionLocalVariable, func(la *lookahead) bool {
		i, mods := skipModifiers(la, 0)
		if mods {
			if la.kind(i) == TokenLParen {
				return true
			}
			if la.kind(i) == TokenIdent && declFollows(la, i+1) {
				return true
			}
			j, ok := scanType(la, i)
			return ok && la.kind(j) == TokenIdent && declFollows(la, j+1)
		}
		j, ok := scanType(la, i)
		if !ok || la.kind(j) != TokenIdent || !declFollows(la, j+1) {
			return false
		}
		// "foo bar" is a command expression unless a type is evident from
		// capitalization, generics, dimensions or an initializer.
		first := la.at(i)
		if first.Kind != TokenIdent {
			return true
		}
		last := i
		for k := i + 1; k < j; k++ {
			switch la.kind(k) {
			case TokenLT, TokenLBracket:
				return true
			case TokenIdent:
				last = k
			}
		}
		if la.kind(j+1) == TokenAssign {
			return true
		}
		return !startsLower(la.at(last).Literal)
	})
}

func (p *Parser) isMethodDecl() bool {
	return p.predict(DecisionMethod, func(la *lookahead) bool {
		i, mods := skipModifiers(la, 0)
		if la.kind(i) == TokenLT {
			var ok bool
			if i, ok = scanTypeArgs(la, i); !ok {
				return false
			}
		}
		typed := false
		if !(isMethodName(la.kind(i)) && la.kind(i+1) == TokenLParen) {
			j, ok := scanType(la, i)
			if !ok {
				return false
			}
			typed, i = true, j
		}
		if !isMethodName(la.kind(i)) || la.kind(i+1) != TokenLParen {
			return false
		}
		if !mods && !typed {
			return false
		}
		k, ok := skipBalanced(la, i+1)
		if !ok {
			return false
		}
		switch la.kind(k) {
		case TokenLBrace, TokenThrows:
			return true
		}
		return mods
	})
}

func isMethodName(k TokenKind) bool {
	return k == TokenIdent || k == TokenStringLiteral
}

func (p *Parser) isClassDecl() bool {
	return p.predict(DecisionClass, func(la *lookahead) bool {
		i, _ := skipModifiers(la, 0)
		switch la.kind(i) {
		case TokenClass, TokenInterface, TokenTrait, TokenEnum:
			return true
		case TokenAt:
			return la.kind(i+1) == TokenInterface
		}
		return false
	})
}

func (p *Parser) isImportDecl() bool {
	if p.check(TokenImport) {
		return true
	}
	if !p.check(TokenAt) {
		return false
	}
	return p.predict(DecisionImport, func(la *lookahead) bool {
		i := 0
		for la.kind(i) == TokenAt {
			var ok bool
			if i, ok = skipAnnotation(la, i); !ok {
				return false
			}
		}
		return la.kind(i) == TokenImport
	})
}

// isCast reports whether "(" starts a cast such as "(String) x".
func (p *Parser) isCast() bool {
	return p.predict(DecisionCast, func(la *lookahead) bool {
		j, ok := scanType(la, 1)
		if !ok || la.kind(j) != TokenRParen {
			return false
		}
		switch la.kind(j + 1) {
		case TokenIdent, TokenIntLiteral, TokenFloatLiteral, TokenStringLiteral, TokenGStringBegin,
			TokenTrue, TokenFalse, TokenNull, TokenThis, TokenSuper, TokenNew,
			TokenLParen, TokenNot, TokenBitNot:
			return true
		case TokenPlus, TokenMinus, TokenIncrement, TokenDecrement:
			return la.kind(1).IsPrimitive() && la.kind(2) == TokenRParen
		}
		return false
	})
}

func (p *Parser) isLambda() bool {
	return p.predict(DecisionLambda, func(la *lookahead) bool {
		k, ok := skipBalanced(la, 0)
		return ok && la.kind(k) == TokenArrow
	})
}

// hasClosureParams reports whether the closure opening at "{" declares
// parameters with "->" before its first line break.
func (p *Parser) hasClosureParams() bool {
	return p.predict(DecisionClosureParams, func(la *lookahead) bool {
		depth := 0
		for i := 1; ; i++ {
			tok := la.at(i)
			if depth == 0 {
				if tok.Kind == TokenArrow {
					return true
				}
				if i > 1 && tok.NewlineBefore {
					return false
				}
			}
			switch tok.Kind {
			case TokenEOF:
				return false
			case TokenLParen, TokenLBracket, TokenLBrace, TokenSafeIndex:
				depth++
			case TokenRParen, TokenRBracket, TokenRBrace:
				if depth == 0 {
					return false
				}
				depth--
			case TokenSemicolon:
				if depth == 0 {
					return false
				}
			}
		}
	})
}

// isForIn reports whether the for header after "(" is "x in xs" or
// "T x : xs".
func (p *Parser) isForIn() bool {
	return p.predict(DecisionForIn, func(la *lookahead) bool {
		depth := 0
		for i := 0; ; i++ {
			switch la.kind(i) {
			case TokenEOF:
				return false
			case TokenLParen, TokenLBracket, TokenLBrace:
				depth++
			case TokenRParen, TokenRBracket, TokenRBrace:
				if depth == 0 {
					return false
				}
				depth--
			case TokenSemicolon:
				if depth == 0 {
					return false
				}
			case TokenIn, TokenColon:
				if depth == 0 {
					return true
				}
			}
		}
	})
}

func (p *Parser) isEnumConstant() bool {
	return p.predict(DecisionEnumConstant, func(la *lookahead) bool {
		i := 0
		for la.kind(i) == TokenAt {
			var ok bool
			if i, ok = skipAnnotation(la, i); !ok {
				return false
			}
		}
		if la.kind(i) != TokenIdent {
			return false
		}
		next := la.at(i + 1)
		if next.NewlineBefore {
			return true
		}
		switch next.Kind {
		case TokenComma, TokenLParen, TokenLBrace, TokenSemicolon, TokenRBrace, TokenEOF:
			return true
		}
		return false
	})
}

// isNamedArg reports whether an argument starts with "key:".
func (p *Parser) isNamedArg() bool {
	return p.predict(DecisionNamedArg, func(la *lookahead) bool {
		k := la.kind(0)
		switch {
		case k == TokenIdent || k == TokenStringLiteral || k == TokenIntLiteral ||
			k == TokenFloatLiteral || k.IsKeyword():
			return la.kind(1) == TokenColon
		case k == TokenLParen:
			j, ok := skipBalanced(la, 0)
			return ok && la.kind(j) == TokenColon
		case k == TokenGStringBegin:
			for i := 1; ; i++ {
				switch la.kind(i) {
				case TokenGStringEnd:
					return la.kind(i+1) == TokenColon
				case TokenEOF:
					return false
				}
			}
		}
		return false
	})
}

// isGStringBlock reports whether the "{" after a "$" holds more than one
// statement, which makes it a closure rather than a single expression.
func (p *Parser) isGStringBlock() bool {
	return p.predict(DecisionGStringBlock, func(la *lookahead) bool {
		depth := 0
		for i := 1; ; i++ {
			switch la.kind(i) {
			case TokenEOF, TokenGStringPart, TokenGStringEnd:
				return false
			case TokenLParen, TokenLBracket, TokenLBrace, TokenSafeIndex:
				depth++
			case TokenRParen, TokenRBracket:
				depth--
			case TokenRBrace:
				if depth == 0 {
					return false
				}
				depth--
			case TokenSemicolon:
				if depth == 0 {
					return true
				}
			}
		}
	})
}
