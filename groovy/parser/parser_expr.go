package parser

// parseExpressionOrCommand parses an expression that may be a command
// expression such as "println x" or "move a by b".
func (p *Parser) parseExpressionOrCommand() *Node {
	if p.check(TokenIdent) && p.peekN(1).Kind == TokenArrow {
		return p.parseBareLambda()
	}
	expr := p.parseExpression()
	if !isCommandBase(expr) || !p.startsCommandArgs() {
		return expr
	}
	if endsWithCall(expr) && !p.startsCommandPrimary() {
		return expr
	}
	return p.parseCommand(expr)
}

func isCommandBase(n *Node) bool {
	switch n.Kind {
	case KindIdentifier, KindPath, KindLiteral, KindGString, KindThis, KindSuper:
		return true
	}
	return false
}

// startsCommandArgs reports whether the next token begins a parenthesis-free
// argument on the current line.
func (p *Parser) startsCommandArgs() bool {
	tok := p.peek()
	if tok.NewlineBefore {
		return false
	}
	switch tok.Kind {
	case TokenIdent, TokenIntLiteral, TokenFloatLiteral, TokenStringLiteral, TokenGStringBegin,
		TokenTrue, TokenFalse, TokenNull, TokenThis, TokenSuper, TokenNew, TokenNot, TokenBitNot:
		return true
	}
	return tok.Kind.IsPrimitive()
}

func (p *Parser) startsCommandPrimary() bool {
	tok := p.peek()
	if tok.NewlineBefore {
		return false
	}
	switch tok.Kind {
	case TokenIdent, TokenIntLiteral, TokenFloatLiteral, TokenStringLiteral, TokenGStringBegin,
		TokenTrue, TokenFalse, TokenNull:
		return true
	}
	return false
}

func (p *Parser) parseCommand(base *Node) *Node {
	node := wrap(KindCommand, base)
	if !endsWithCall(base) {
		node.AddChild(p.parseCommandArgs())
	}
	for p.startsCommandPrimary() {
		progress := p.mustProgress()
		arg := p.startNode(KindCommandArgument)
		arg.AddChild(p.parseCommandPrimary())
		if p.startsPathElement() {
			for p.startsPathElement() {
				arg.AddChild(p.parsePathElement())
			}
		} else if p.startsCommandArgs() {
			arg.AddChild(p.parseCommandArgs())
		}
		node.AddChild(p.finishNode(arg))
		if !progress() {
			break
		}
	}
	return p.finishNode(node)
}

// endsWithCall reports whether n is a path whose last element is an
// argument list or a trailing closure.
func endsWithCall(n *Node) bool {
	if n.Kind != KindPath {
		return false
	}
	last := n.Children[len(n.Children)-1]
	return last.Kind == KindArguments || last.Kind == KindClosure
}

func (p *Parser) parseCommandPrimary() *Node {
	switch p.peek().Kind {
	case TokenIdent:
		return p.leaf(KindIdentifier)
	case TokenGStringBegin:
		return p.parseGString()
	}
	return p.leaf(KindLiteral)
}

func (p *Parser) parseCommandArgs() *Node {
	node := p.startNode(KindCommandArgs)
	for {
		progress := p.mustProgress()
		node.AddChild(p.parseArgument())
		if p.expect(TokenComma) == nil || !progress() {
			break
		}
		if p.match(TokenEOF, TokenRBrace, TokenSemicolon) {
			node.AddChild(p.missingExpression())
			break
		}
	}
	return p.finishNode(node)
}

// parseArgument parses one call argument: a named argument, a spread or an
// expression.
func (p *Parser) parseArgument() *Node {
	if p.check(TokenStar) && p.peekN(1).Kind == TokenColon {
		node := p.startNode(KindNamedArg)
		star := p.advance()
		node.Token = &star
		p.advance()
		node.AddChild(p.parseExpression())
		return p.finishNode(node)
	}
	if p.check(TokenStar) {
		node := p.startNode(KindSpread)
		p.advance()
		node.AddChild(p.parseExpression())
		return p.finishNode(node)
	}
	if p.isNamedArg() {
		node := p.startNode(KindNamedArg)
		node.AddChild(p.parseMapKey())
		colon := p.advance()
		node.Token = &colon
		node.AddChild(p.parseExpression())
		return p.finishNode(node)
	}
	if p.check(TokenIdent) && p.peekN(1).Kind == TokenArrow {
		return p.parseBareLambda()
	}
	return p.parseExpression()
}

func (p *Parser) parseMapKey() *Node {
	switch tok := p.peek(); {
	case tok.Kind == TokenIdent || tok.Kind.IsKeyword() && tok.Kind != TokenTrue && tok.Kind != TokenFalse && tok.Kind != TokenNull:
		return p.leaf(KindIdentifier)
	case tok.Kind == TokenGStringBegin:
		return p.parseGString()
	case tok.Kind == TokenLParen:
		return p.parsePrimary()
	}
	return p.leaf(KindLiteral)
}

func isAssignOp(k TokenKind) bool {
	switch k {
	case TokenAssign, TokenPlusAssign, TokenMinusAssign, TokenStarAssign, TokenSlashAssign,
		TokenPercentAssign, TokenPowerAssign, TokenAndAssign, TokenOrAssign, TokenXorAssign,
		TokenShlAssign, TokenShrAssign, TokenUShrAssign, TokenElvisAssign:
		return true
	}
	return false
}

func (p *Parser) parseExpression() *Node {
	left := p.parseTernary()
	if isAssignOp(p.peek().Kind) && p.sameLine() {
		node := wrap(KindAssign, left)
		op := p.advance()
		node.Token = &op
		node.AddChild(p.parseExpressionOrCommand())
		return p.finishNode(node)
	}
	return left
}

func (p *Parser) parseTernary() *Node {
	cond := p.parseBinary(0)
	switch {
	case p.check(TokenQuestion):
		node := wrap(KindTernary, cond)
		p.advance()
		node.AddChild(p.parseTernary())
		if p.require(node, TokenColon) {
			node.AddChild(p.parseTernary())
		}
		return p.finishNode(node)
	case p.check(TokenElvis):
		node := wrap(KindElvis, cond)
		p.advance()
		node.AddChild(p.parseTernary())
		return p.finishNode(node)
	}
	return cond
}

// binaryLevels lists binary operators from loosest to tightest binding.
// Operators marked multiline may start a continuation line.
var binaryLevels = []struct {
	ops       []TokenKind
	multiline bool
}{
	{ops: []TokenKind{TokenOr}, multiline: true},
	{ops: []TokenKind{TokenAnd}, multiline: true},
	{ops: []TokenKind{TokenBitOr}, multiline: true},
	{ops: []TokenKind{TokenBitXor}, multiline: true},
	{ops: []TokenKind{TokenBitAnd}, multiline: true},
	{ops: []TokenKind{TokenRegexFind, TokenRegexMatch}, multiline: true},
	{ops: []TokenKind{TokenEQ, TokenNE, TokenSpaceship, TokenIdentical, TokenNotIdentical}, multiline: true},
	{ops: []TokenKind{TokenLT, TokenLE, TokenGT, TokenGE, TokenIn, TokenNotIn, TokenAs, TokenInstanceof, TokenNotInstanceof}},
	{ops: []TokenKind{TokenShl, TokenShr, TokenUShr, TokenRange, TokenRangeExclusive}},
	{ops: []TokenKind{TokenPlus, TokenMinus}},
	{ops: []TokenKind{TokenStar, TokenSlash, TokenPercent}},
}

func (p *Parser) parseBinary(level int) *Node {
	if level == len(binaryLevels) {
		return p.parseUnary()
	}
	left := p.parseBinary(level + 1)
	for {
		tok := p.peek()
		if !hasKind(binaryLevels[level].ops, tok.Kind) {
			return left
		}
		if tok.NewlineBefore && !binaryLevels[level].multiline && !isTypeOperator(tok.Kind) {
			return left
		}
		p.advance()
		var node *Node
		switch tok.Kind {
		case TokenAs:
			node = wrap(KindAs, left)
			node.AddChild(p.parseType())
		case TokenInstanceof, TokenNotInstanceof:
			node = wrap(KindInstanceof, left)
			node.Token = &tok
			node.AddChild(p.parseType())
		default:
			node = wrap(KindBinary, left)
			node.Token = &tok
			node.AddChild(p.parseBinary(level + 1))
		}
		left = p.finishNode(node)
	}
}

func isTypeOperator(k TokenKind) bool {
	return k == TokenAs || k == TokenInstanceof || k == TokenNotInstanceof || k == TokenIn || k == TokenNotIn
}

func hasKind(kinds []TokenKind, k TokenKind) bool {
	for _, kind := range kinds {
		if kind == k {
			return true
		}
	}
	return false
}

// parseUnary handles the prefix + - ++ -- operators, which bind looser than
// the power operator: -2**2 is -(2**2).
func (p *Parser) parseUnary() *Node {
	if p.match(TokenPlus, TokenMinus, TokenIncrement, TokenDecrement) {
		node := p.startNode(KindPrefix)
		tok := p.advance()
		node.Token = &tok
		node.AddChild(p.parseUnary())
		return p.finishNode(node)
	}
	return p.parsePower()
}

func (p *Parser) parsePower() *Node {
	left := p.parseUnaryNot()
	for p.check(TokenPower) && p.sameLine() {
		node := wrap(KindBinary, left)
		tok := p.advance()
		node.Token = &tok
		node.AddChild(p.parsePowerOperand())
		left = p.finishNode(node)
	}
	return left
}

func (p *Parser) parsePowerOperand() *Node {
	if p.match(TokenPlus, TokenMinus, TokenIncrement, TokenDecrement) {
		node := p.startNode(KindPrefix)
		tok := p.advance()
		node.Token = &tok
		node.AddChild(p.parsePowerOperand())
		return p.finishNode(node)
	}
	return p.parseUnaryNot()
}

func (p *Parser) parseUnaryNot() *Node {
	switch {
	case p.match(TokenNot, TokenBitNot):
		node := p.startNode(KindPrefix)
		tok := p.advance()
		node.Token = &tok
		node.AddChild(p.parseUnaryNot())
		return p.finishNode(node)
	case p.check(TokenLParen) && p.isCast():
		node := p.startNode(KindCast)
		p.advance()
		node.AddChild(p.parseType())
		p.require(node, TokenRParen)
		node.AddChild(p.parsePowerOperand())
		return p.finishNode(node)
	}
	return p.parsePostfix()
}

func (p *Parser) parsePostfix() *Node {
	expr := p.parsePathExpression()
	for p.match(TokenIncrement, TokenDecrement) && p.sameLine() {
		node := wrap(KindPostfix, expr)
		tok := p.advance()
		node.Token = &tok
		expr = p.finishNode(node)
	}
	return expr
}

func (p *Parser) parsePathExpression() *Node {
	primary := p.parsePrimary()
	if !p.startsPathElement() {
		return primary
	}
	node := wrap(KindPath, primary)
	for p.startsPathElement() {
		progress := p.mustProgress()
		node.AddChild(p.parsePathElement())
		if !progress() {
			break
		}
	}
	return p.finishNode(node)
}

func isMemberOp(k TokenKind) bool {
	switch k {
	case TokenDot, TokenSafeDot, TokenSafeChainDot, TokenSpreadDot, TokenMethodPointer,
		TokenAttrDot, TokenSpreadAttrDot, TokenColonColon:
		return true
	}
	return false
}

func (p *Parser) startsPathElement() bool {
	tok := p.peek()
	if isMemberOp(tok.Kind) {
		return true
	}
	if tok.NewlineBefore {
		return false
	}
	switch tok.Kind {
	case TokenLParen, TokenLBracket, TokenSafeIndex, TokenLBrace:
		return true
	}
	return false
}

func (p *Parser) parsePathElement() *Node {
	tok := p.peek()
	switch {
	case isMemberOp(tok.Kind):
		node := p.startNode(KindMember)
		op := p.advance()
		node.Token = &op
		if p.check(TokenLT) {
			node.AddChild(p.parseTypeArguments())
		}
		node.AddChild(p.parseMemberName())
		return p.finishNode(node)
	case tok.Kind == TokenLParen:
		return p.parseArguments()
	case tok.Kind == TokenLBracket || tok.Kind == TokenSafeIndex:
		node := p.startNode(KindIndex)
		open := p.advance()
		node.Token = &open
		for !p.check(TokenRBracket) && !p.check(TokenEOF) {
			progress := p.mustProgress()
			node.AddChild(p.parseArgument())
			if p.expect(TokenComma) == nil || !progress() {
				break
			}
		}
		p.require(node, TokenRBracket)
		return p.finishNode(node)
	}
	return p.parseClosure()
}

func (p *Parser) parseMemberName() *Node {
	switch tok := p.peek(); {
	case tok.Kind == TokenIdent || tok.Kind.IsKeyword():
		return p.leaf(KindIdentifier)
	case tok.Kind == TokenStringLiteral:
		return p.leaf(KindLiteral)
	case tok.Kind == TokenGStringBegin:
		return p.parseGString()
	case tok.Kind == TokenLParen:
		return p.parseParExpr()
	}
	return p.missing(TokenIdent)
}

func (p *Parser) parseArguments() *Node {
	node := p.startNode(KindArguments)
	p.advance()
	for !p.check(TokenRParen) && !p.check(TokenEOF) {
		progress := p.mustProgress()
		node.AddChild(p.parseArgument())
		if p.expect(TokenComma) == nil || !progress() {
			break
		}
		if p.check(TokenRParen) {
			node.AddChild(p.missingExpression())
		}
	}
	p.require(node, TokenRParen)
	return p.finishNode(node)
}

func (p *Parser) parsePrimary() *Node {
	tok := p.peek()
	switch tok.Kind {
	case TokenIdent:
		return p.leaf(KindIdentifier)
	case TokenIntLiteral, TokenFloatLiteral, TokenStringLiteral, TokenTrue, TokenFalse, TokenNull:
		return p.leaf(KindLiteral)
	case TokenGStringBegin:
		return p.parseGString()
	case TokenThis:
		return p.leaf(KindThis)
	case TokenSuper:
		return p.leaf(KindSuper)
	case TokenLParen:
		if p.isLambda() {
			return p.parseLambda()
		}
		return p.parseParenthesized()
	case TokenLBracket:
		return p.parseListOrMap()
	case TokenLBrace:
		return p.parseClosure()
	case TokenNew:
		return p.parseCreator()
	case TokenError:
		return p.errorNode(tok.Message, nil)
	}
	if tok.Kind.IsPrimitive() || tok.Kind == TokenVoid {
		node := p.startNode(KindPrimitive)
		p.advance()
		node.Token = &tok
		if dims := p.parseDims(); dims != nil {
			node.AddChild(dims)
		}
		return p.finishNode(node)
	}
	return p.errorNode("unexpected "+describe(tok), nil)
}

// parseParenthesized parses "(expr)" or a tuple "(a, b)" used as an
// assignment target.
func (p *Parser) parseParenthesized() *Node {
	node := p.startNode(KindParExpr)
	p.advance()
	node.AddChild(p.parseExpressionOrCommand())
	for p.expect(TokenComma) != nil {
		node.AddChild(p.parseExpression())
	}
	p.require(node, TokenRParen)
	return p.finishNode(node)
}

func (p *Parser) parseListOrMap() *Node {
	if p.peekN(1).Kind == TokenColon && p.peekN(2).Kind == TokenRBracket {
		node := p.startNode(KindMap)
		p.advance()
		p.advance()
		p.advance()
		return p.finishNode(node)
	}
	open := p.advance()
	start := Span{Start: open.Span.Start}

	if (p.check(TokenStar) && p.peekN(1).Kind == TokenColon) || p.isNamedArg() {
		node := &Node{Kind: KindMap, Span: start}
		for !p.check(TokenRBracket) && !p.check(TokenEOF) {
			progress := p.mustProgress()
			node.AddChild(p.parseMapEntry())
			if p.expect(TokenComma) == nil || !progress() {
				break
			}
		}
		p.require(node, TokenRBracket)
		return p.finishNode(node)
	}

	node := &Node{Kind: KindList, Span: start}
	if p.check(TokenComma) && p.peekN(1).Kind == TokenRBracket {
		node.AddChild(p.leaf(KindToken))
	}
	for !p.check(TokenRBracket) && !p.check(TokenEOF) {
		progress := p.mustProgress()
		if p.check(TokenStar) {
			spread := p.startNode(KindSpread)
			p.advance()
			spread.AddChild(p.parseExpression())
			node.AddChild(p.finishNode(spread))
		} else {
			node.AddChild(p.parseExpression())
		}
		if p.expect(TokenComma) == nil || !progress() {
			break
		}
	}
	p.require(node, TokenRBracket)
	return p.finishNode(node)
}

func (p *Parser) parseMapEntry() *Node {
	node := p.startNode(KindMapEntry)
	if p.check(TokenStar) && p.peekN(1).Kind == TokenColon {
		star := p.advance()
		node.Token = &star
		p.advance()
		node.AddChild(p.parseExpression())
		return p.finishNode(node)
	}
	node.AddChild(p.parseMapKey())
	if colon := p.expect(TokenColon); colon != nil {
		node.Token = colon
	} else {
		node.AddChild(p.missing(TokenColon))
		return p.finishNode(node)
	}
	node.AddChild(p.parseExpression())
	return p.finishNode(node)
}

func (p *Parser) parseClosure() *Node {
	node := p.startNode(KindClosure)
	params := p.hasClosureParams()
	p.advance()
	if params {
		node.AddChild(p.parseParameters(TokenEOF, TokenArrow))
	}
	body := p.startNode(KindBlock)
	p.parseStatements(body)
	node.AddChild(p.finishNode(body))
	p.require(node, TokenRBrace)
	return p.finishNode(node)
}

func (p *Parser) parseLambda() *Node {
	node := p.startNode(KindLambda)
	node.AddChild(p.parseParameters(TokenLParen, TokenRParen))
	p.require(node, TokenArrow)
	node.AddChild(p.parseLambdaBody())
	return p.finishNode(node)
}

// parseBareLambda parses "x -> body" with a single untyped parameter.
func (p *Parser) parseBareLambda() *Node {
	node := p.startNode(KindLambda)
	params := p.startNode(KindParameters)
	param := p.startNode(KindParameter)
	param.AddChild(&Node{Kind: KindModifiers, Span: Span{Start: p.peek().Span.Start, End: p.peek().Span.Start}})
	param.AddChild(p.leaf(KindIdentifier))
	params.AddChild(p.finishNode(param))
	node.AddChild(p.finishNode(params))
	p.advance()
	node.AddChild(p.parseLambdaBody())
	return p.finishNode(node)
}

func (p *Parser) parseLambdaBody() *Node {
	if p.check(TokenLBrace) {
		return p.parseBlock()
	}
	return p.parseExpressionOrCommand()
}

func (p *Parser) parseCreator() *Node {
	node := p.startNode(KindNew)
	p.advance()
	node.AddChild(p.parseType())
	switch {
	case p.check(TokenLParen):
		node.AddChild(p.parseArguments())
		if p.check(TokenLBrace) && p.sameLine() {
			node.AddChild(p.parseClassBody(false))
		}
	case p.check(TokenLBracket):
		for p.check(TokenLBracket) && p.peekN(1).Kind != TokenRBracket {
			dim := p.startNode(KindDimExpr)
			p.advance()
			dim.AddChild(p.parseExpression())
			p.require(dim, TokenRBracket)
			node.AddChild(p.finishNode(dim))
		}
		if dims := p.parseDims(); dims != nil {
			node.AddChild(dims)
		}
	case p.check(TokenLBrace):
		node.AddChild(p.parseArrayInit())
	default:
		node.AddChild(p.missing(TokenLParen))
	}
	return p.finishNode(node)
}

func (p *Parser) parseArrayInit() *Node {
	node := p.startNode(KindArrayInit)
	p.advance()
	for !p.check(TokenRBrace) && !p.check(TokenEOF) {
		progress := p.mustProgress()
		if p.check(TokenLBrace) {
			node.AddChild(p.parseArrayInit())
		} else {
			node.AddChild(p.parseExpression())
		}
		if p.expect(TokenComma) == nil || !progress() {
			break
		}
	}
	p.require(node, TokenRBrace)
	return p.finishNode(node)
}

func (p *Parser) parseGString() *Node {
	node := p.startNode(KindGString)
	node.AddChild(p.leaf(KindGStringText))
	for {
		switch {
		case p.check(TokenLBrace):
			node.AddChild(p.parseGStringValue())
		case p.check(TokenGStringPart) || p.check(TokenGStringEnd) || p.check(TokenEOF):
			node.AddChild(p.missing(TokenIdent))
		default:
			path := p.startNode(KindGStringPath)
			path.AddChild(p.leaf(KindIdentifier))
			for p.check(TokenGStringPath) {
				path.AddChild(p.leaf(KindGStringPathPart))
			}
			node.AddChild(p.finishNode(path))
		}
		switch {
		case p.check(TokenGStringPart):
			node.AddChild(p.leaf(KindGStringText))
		case p.check(TokenGStringEnd):
			node.AddChild(p.leaf(KindGStringText))
			return p.finishNode(node)
		default:
			node.AddChild(p.missing(TokenGStringEnd))
			return p.finishNode(node)
		}
	}
}

// parseGStringValue parses "{...}" after a "$". The braces may hold nothing,
// one expression, or a closure with parameters or several statements.
func (p *Parser) parseGStringValue() *Node {
	node := p.startNode(KindGStringValue)
	if p.hasClosureParams() || p.isGStringBlock() {
		node.AddChild(p.parseClosure())
		return p.finishNode(node)
	}
	p.advance()
	if !p.check(TokenRBrace) {
		node.AddChild(p.parseExpressionOrCommand())
	}
	p.require(node, TokenRBrace)
	return p.finishNode(node)
}
