package parser

func (p *Parser) parseBlock() *Node {
	node := p.startNode(KindBlock)
	if !p.require(node, TokenLBrace) {
		return p.finishNode(node)
	}
	p.parseStatements(node)
	p.require(node, TokenRBrace)
	return p.finishNode(node)
}

// parseStatements parses statements into node up to a closing brace.
func (p *Parser) parseStatements(node *Node) {
	p.skipSeparators()
	for !p.check(TokenRBrace) && !p.check(TokenEOF) {
		progress := p.mustProgress()
		node.AddChild(p.parseBlockStatement())
		p.endStatement(node)
		if !progress() {
			break
		}
	}
}

func (p *Parser) parseBlockStatement() *Node {
	switch {
	case p.check(TokenSynchronized) && p.peekN(1).Kind == TokenLParen:
		return p.parseStatement()
	case p.check(TokenIdent) && p.peekN(1).Kind == TokenColon:
		return p.parseLabeledStatement()
	case p.isClassDecl():
		return p.parseClassDecl(p.parseModifiers())
	case p.isLocalVariableDecl():
		return p.parseLocalVariableDecl()
	case p.isMethodDecl():
		return p.parseMethodDecl(p.parseModifiers())
	}
	return p.parseStatement()
}

func (p *Parser) parseLabeledStatement() *Node {
	node := p.startNode(KindLabeledStmt)
	node.AddChild(p.leaf(KindIdentifier))
	p.advance()
	for p.check(TokenSemicolon) {
		p.advance()
	}
	if p.check(TokenRBrace) || p.check(TokenEOF) {
		node.AddChild(p.missing(TokenIdent))
		return p.finishNode(node)
	}
	node.AddChild(p.parseBlockStatement())
	return p.finishNode(node)
}

func (p *Parser) parseStatement() *Node {
	switch p.peek().Kind {
	case TokenLBrace:
		return p.parseBlock()
	case TokenSemicolon:
		return p.leaf(KindEmptyStmt)
	case TokenIf:
		return p.parseIf()
	case TokenFor:
		return p.parseFor()
	case TokenWhile:
		return p.parseWhile()
	case TokenDo:
		return p.parseDoWhile()
	case TokenSwitch:
		return p.parseSwitch()
	case TokenTry:
		return p.parseTry()
	case TokenReturn:
		node := p.startNode(KindReturnStmt)
		p.advance()
		if !p.peek().NewlineBefore && p.startsExpression() {
			node.AddChild(p.parseExpressionOrCommand())
		}
		return p.finishNode(node)
	case TokenThrow:
		node := p.startNode(KindThrowStmt)
		p.advance()
		node.AddChild(p.parseExpression())
		return p.finishNode(node)
	case TokenBreak, TokenContinue:
		kind := KindBreakStmt
		if p.check(TokenContinue) {
			kind = KindContinueStmt
		}
		node := p.startNode(kind)
		tok := p.advance()
		node.Token = &tok
		if p.check(TokenIdent) && p.sameLine() {
			node.AddChild(p.leaf(KindIdentifier))
		}
		return p.finishNode(node)
	case TokenAssert:
		node := p.startNode(KindAssertStmt)
		p.advance()
		node.AddChild(p.parseExpression())
		if p.expect(TokenColon) != nil || p.expect(TokenComma) != nil {
			node.AddChild(p.parseExpression())
		}
		return p.finishNode(node)
	case TokenSynchronized:
		node := p.startNode(KindSyncStmt)
		p.advance()
		node.AddChild(p.parseParExpr())
		node.AddChild(p.parseBlock())
		return p.finishNode(node)
	case TokenImport, TokenPackage:
		return p.errorNode(describe(p.peek())+" is not allowed here", nil)
	}

	if !p.startsExpression() {
		node := p.errorNode("unexpected "+describe(p.peek()), nil)
		p.recoverStatement()
		return node
	}
	node := p.startNode(KindExprStmt)
	node.AddChild(p.parseExpressionOrCommand())
	return p.finishNode(node)
}

// startsExpression reports whether the next token can begin an expression.
func (p *Parser) startsExpression() bool {
	switch p.peek().Kind {
	case TokenEOF, TokenSemicolon, TokenRBrace, TokenRParen, TokenRBracket, TokenComma,
		TokenColon, TokenElse, TokenCase, TokenDefault, TokenCatch, TokenFinally:
		return false
	}
	return true
}

func (p *Parser) parseParExpr() *Node {
	node := p.startNode(KindParExpr)
	if !p.require(node, TokenLParen) {
		return p.finishNode(node)
	}
	node.AddChild(p.parseExpressionOrCommand())
	p.require(node, TokenRParen)
	return p.finishNode(node)
}

// parseBody parses a loop or branch body, which may start on the next line.
func (p *Parser) parseBody() *Node {
	if p.check(TokenRBrace) || p.check(TokenEOF) {
		return p.missing(TokenLBrace)
	}
	if p.check(TokenSemicolon) {
		return p.leaf(KindEmptyStmt)
	}
	return p.parseBlockStatement()
}

func (p *Parser) parseIf() *Node {
	node := p.startNode(KindIfStmt)
	p.advance()
	node.AddChild(p.parseParExpr())
	node.AddChild(p.parseBody())

	saved := p.pos
	for p.check(TokenSemicolon) {
		p.advance()
	}
	if p.check(TokenElse) {
		p.advance()
		node.AddChild(p.parseBody())
	} else {
		p.pos = saved
	}
	return p.finishNode(node)
}

func (p *Parser) parseWhile() *Node {
	node := p.startNode(KindWhileStmt)
	p.advance()
	node.AddChild(p.parseParExpr())
	node.AddChild(p.parseBody())
	return p.finishNode(node)
}

func (p *Parser) parseDoWhile() *Node {
	node := p.startNode(KindDoWhileStmt)
	p.advance()
	node.AddChild(p.parseBody())
	for p.check(TokenSemicolon) {
		p.advance()
	}
	if !p.require(node, TokenWhile) {
		return p.finishNode(node)
	}
	node.AddChild(p.parseParExpr())
	return p.finishNode(node)
}

func (p *Parser) parseFor() *Node {
	node := p.startNode(KindForStmt)
	p.advance()
	if !p.require(node, TokenLParen) {
		return p.finishNode(node)
	}
	if p.isForIn() {
		node.AddChild(p.parseForInControl())
	} else {
		node.AddChild(p.parseForControl())
	}
	if !p.require(node, TokenRParen) {
		p.recoverTo([]TokenKind{TokenRParen, TokenLBrace})
		p.expect(TokenRParen)
	}
	node.AddChild(p.parseBody())
	return p.finishNode(node)
}

func (p *Parser) parseForInControl() *Node {
	node := p.startNode(KindForInControl)
	param := p.startNode(KindParameter)
	param.AddChild(p.parseModifiers())
	if p.hasParameterType() {
		param.AddChild(p.parseType())
	}
	param.AddChild(p.parseIdentifier())
	node.AddChild(p.finishNode(param))
	if p.expect(TokenIn) == nil && p.expect(TokenColon) == nil {
		node.AddChild(p.missing(TokenIn))
		return p.finishNode(node)
	}
	node.AddChild(p.parseExpression())
	return p.finishNode(node)
}

func (p *Parser) parseForControl() *Node {
	node := p.startNode(KindForControl)

	init := p.startNode(KindForInit)
	if !p.check(TokenSemicolon) {
		if p.isLocalVariableDecl() {
			init.AddChild(p.parseLocalVariableDecl())
		} else {
			init.AddChild(p.parseExpressionList())
		}
	}
	node.AddChild(p.finishNode(init))
	p.require(node, TokenSemicolon)

	cond := p.startNode(KindForCond)
	if !p.check(TokenSemicolon) {
		cond.AddChild(p.parseExpression())
	}
	node.AddChild(p.finishNode(cond))
	p.require(node, TokenSemicolon)

	update := p.startNode(KindForUpdate)
	if !p.check(TokenRParen) {
		update.AddChild(p.parseExpressionList())
	}
	node.AddChild(p.finishNode(update))
	return p.finishNode(node)
}

func (p *Parser) parseExpressionList() *Node {
	node := p.startNode(KindExprList)
	node.AddChild(p.parseExpression())
	for p.expect(TokenComma) != nil {
		node.AddChild(p.parseExpression())
	}
	return p.finishNode(node)
}

func (p *Parser) parseSwitch() *Node {
	node := p.startNode(KindSwitchStmt)
	p.advance()
	node.AddChild(p.parseParExpr())
	if !p.require(node, TokenLBrace) {
		return p.finishNode(node)
	}
	p.skipSeparators()
	for p.check(TokenCase) || p.check(TokenDefault) {
		group := p.startNode(KindSwitchGroup)
		for p.check(TokenCase) || p.check(TokenDefault) {
			label := p.startNode(KindSwitchLabel)
			tok := p.advance()
			label.Token = &tok
			if tok.Kind == TokenCase {
				label.AddChild(p.parseExpression())
			}
			p.require(label, TokenColon)
			group.AddChild(p.finishNode(label))
			p.skipSeparators()
		}
		for !p.match(TokenCase, TokenDefault, TokenRBrace, TokenEOF) {
			progress := p.mustProgress()
			group.AddChild(p.parseBlockStatement())
			p.endStatement(group)
			if !progress() {
				break
			}
		}
		node.AddChild(p.finishNode(group))
	}
	if !p.check(TokenRBrace) {
		node.AddChild(p.errorNode("unexpected "+describe(p.peek())+" in switch", []TokenKind{TokenRBrace}))
	}
	p.require(node, TokenRBrace)
	return p.finishNode(node)
}

func (p *Parser) parseTry() *Node {
	node := p.startNode(KindTryStmt)
	p.advance()
	if p.check(TokenLParen) {
		res := p.startNode(KindResources)
		p.advance()
		for !p.check(TokenRParen) && !p.check(TokenEOF) {
			progress := p.mustProgress()
			r := p.startNode(KindResource)
			if p.isLocalVariableDecl() {
				r.AddChild(p.parseLocalVariableDecl())
			} else {
				r.AddChild(p.parseExpression())
			}
			res.AddChild(p.finishNode(r))
			if p.expect(TokenSemicolon) == nil || !progress() {
				break
			}
		}
		p.require(res, TokenRParen)
		node.AddChild(p.finishNode(res))
	}
	node.AddChild(p.parseBlock())
	for p.check(TokenCatch) {
		c := p.startNode(KindCatchClause)
		p.advance()
		if p.require(c, TokenLParen) {
			c.AddChild(p.parseModifiers())
			if p.hasCatchType() {
				types := p.startNode(KindCatchType)
				types.AddChild(p.parseType())
				for p.expect(TokenBitOr) != nil {
					types.AddChild(p.parseType())
				}
				c.AddChild(p.finishNode(types))
			}
			c.AddChild(p.parseIdentifier())
			p.require(c, TokenRParen)
		}
		c.AddChild(p.parseBlock())
		node.AddChild(p.finishNode(c))
	}
	if p.check(TokenFinally) {
		f := p.startNode(KindFinally)
		p.advance()
		f.AddChild(p.parseBlock())
		node.AddChild(p.finishNode(f))
	}
	return p.finishNode(node)
}

func (p *Parser) hasCatchType() bool {
	return !(p.check(TokenIdent) && p.peekN(1).Kind == TokenRParen)
}
