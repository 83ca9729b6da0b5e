package parser

func (p *Parser) parseCompilationUnit() *Node {
	node := p.startNode(KindCompilationUnit)
	p.skipSeparators()

	if p.check(TokenPackage) || p.isAnnotatedPackage() {
		node.AddChild(p.parsePackageDecl())
		p.endStatement(node)
	}

	for !p.check(TokenEOF) {
		p.checkContext()
		progress := p.mustProgress()
		node.AddChild(p.parseScriptStatement())
		p.endStatement(node)
		if !progress() {
			break
		}
	}
	return p.finishNode(node)
}

func (p *Parser) isAnnotatedPackage() bool {
	if !p.check(TokenAt) {
		return false
	}
	saved := p.pos
	defer func() { p.pos = saved }()
	for p.check(TokenAt) && p.peekN(1).Kind != TokenInterface {
		p.skipAnnotationTokens()
	}
	return p.check(TokenPackage)
}

// skipAnnotationTokens advances past one annotation without building nodes.
func (p *Parser) skipAnnotationTokens() {
	p.advance()
	for p.check(TokenIdent) || p.check(TokenDot) {
		p.advance()
	}
	if p.check(TokenLParen) {
		depth := 0
		for !p.check(TokenEOF) {
			switch p.advance().Kind {
			case TokenLParen:
				depth++
			case TokenRParen:
				depth--
			}
			if depth == 0 {
				return
			}
		}
	}
}

func (p *Parser) parseScriptStatement() *Node {
	switch {
	case p.isImportDecl():
		return p.parseImportDecl()
	case p.isClassDecl():
		return p.parseClassDecl(p.parseModifiers())
	case p.isMethodDecl():
		return p.parseMethodDecl(p.parseModifiers())
	}
	return p.parseBlockStatement()
}

func (p *Parser) parsePackageDecl() *Node {
	node := p.startNode(KindPackageDecl)
	for p.check(TokenAt) {
		node.AddChild(p.parseAnnotation())
	}
	p.advance()
	node.AddChild(p.parseQualifiedName())
	return p.finishNode(node)
}

func (p *Parser) parseImportDecl() *Node {
	node := p.startNode(KindImportDecl)
	for p.check(TokenAt) {
		node.AddChild(p.parseAnnotation())
	}
	if !p.require(node, TokenImport) {
		return p.finishNode(node)
	}
	if p.check(TokenStatic) {
		node.AddChild(p.leaf(KindToken))
	}
	name := p.startNode(KindQualifiedName)
	name.AddChild(p.parseName())
	for p.check(TokenDot) {
		if p.peekN(1).Kind == TokenStar {
			p.advance()
			p.finishNode(name)
			node.AddChild(name)
			node.AddChild(p.leaf(KindToken))
			return p.finishNode(node)
		}
		p.advance()
		name.AddChild(p.parseName())
	}
	node.AddChild(p.finishNode(name))
	if p.check(TokenAs) {
		alias := p.startNode(KindAlias)
		p.advance()
		alias.AddChild(p.parseName())
		node.AddChild(p.finishNode(alias))
	}
	return p.finishNode(node)
}

// parseName parses an identifier. Keywords are accepted after a dot, as in
// "import groovy.transform.*" or "x.class".
func (p *Parser) parseName() *Node {
	tok := p.peek()
	if tok.Kind == TokenIdent || tok.Kind.IsKeyword() {
		return p.leaf(KindIdentifier)
	}
	return p.errorNode("expected identifier but found "+describe(tok), nil, TokenIdent)
}

func (p *Parser) parseIdentifier() *Node {
	if p.check(TokenIdent) {
		return p.leaf(KindIdentifier)
	}
	return p.missing(TokenIdent)
}

func (p *Parser) parseQualifiedName() *Node {
	node := p.startNode(KindQualifiedName)
	node.AddChild(p.parseName())
	for p.check(TokenDot) && p.peekN(1).Kind != TokenStar {
		p.advance()
		node.AddChild(p.parseName())
	}
	return p.finishNode(node)
}

func (p *Parser) parseModifiers() *Node {
	node := p.startNode(KindModifiers)
	for {
		switch {
		case p.peek().Kind.IsModifier():
			node.AddChild(p.leaf(KindModifier))
		case p.check(TokenAt) && p.peekN(1).Kind != TokenInterface:
			node.AddChild(p.parseAnnotation())
		default:
			return p.finishNode(node)
		}
	}
}

func (p *Parser) parseAnnotation() *Node {
	node := p.startNode(KindAnnotation)
	p.advance()
	node.AddChild(p.parseQualifiedName())
	if p.check(TokenLParen) && p.sameLine() {
		args := p.startNode(KindAnnotationArgs)
		p.advance()
		if p.check(TokenIdent) && p.peekN(1).Kind == TokenAssign {
			for {
				pair := p.startNode(KindAnnotationPair)
				pair.AddChild(p.parseIdentifier())
				p.require(pair, TokenAssign)
				pair.AddChild(p.parseElementValue())
				args.AddChild(p.finishNode(pair))
				if p.expect(TokenComma) == nil {
					break
				}
			}
		} else if !p.check(TokenRParen) {
			args.AddChild(p.parseElementValue())
		}
		p.require(args, TokenRParen)
		node.AddChild(p.finishNode(args))
	}
	return p.finishNode(node)
}

func (p *Parser) parseElementValue() *Node {
	switch {
	case p.check(TokenAt):
		return p.parseAnnotation()
	case p.check(TokenLBracket):
		node := p.startNode(KindElementArray)
		p.advance()
		for !p.check(TokenRBracket) && !p.check(TokenEOF) {
			node.AddChild(p.parseElementValue())
			if p.expect(TokenComma) == nil {
				break
			}
		}
		p.require(node, TokenRBracket)
		return p.finishNode(node)
	}
	return p.parseTernary()
}

func (p *Parser) parseType() *Node {
	node := p.startNode(KindType)
	tok := p.peek()
	switch {
	case tok.Kind.IsPrimitive() || tok.Kind == TokenVoid:
		p.advance()
		node.Token = &tok
	case tok.Kind == TokenIdent:
		name := p.startNode(KindQualifiedName)
		name.AddChild(p.leaf(KindIdentifier))
		for p.check(TokenDot) && p.peekN(1).Kind == TokenIdent {
			p.advance()
			name.AddChild(p.leaf(KindIdentifier))
		}
		node.AddChild(p.finishNode(name))
		if p.check(TokenLT) {
			node.AddChild(p.parseTypeArguments())
		}
	default:
		return p.errorNode("expected type but found "+describe(tok), nil)
	}
	if dims := p.parseDims(); dims != nil {
		node.AddChild(dims)
	}
	return p.finishNode(node)
}

// parseDims parses "[]" pairs, returning nil if there are none.
func (p *Parser) parseDims() *Node {
	if !(p.check(TokenLBracket) && p.peekN(1).Kind == TokenRBracket) {
		return nil
	}
	node := p.startNode(KindDims)
	for p.check(TokenLBracket) && p.peekN(1).Kind == TokenRBracket {
		node.AddChild(p.leaf(KindToken))
		p.advance()
	}
	return p.finishNode(node)
}

func (p *Parser) parseTypeArguments() *Node {
	node := p.startNode(KindTypeArguments)
	p.advance()
	for !p.check(TokenGT) && !p.check(TokenShr) && !p.check(TokenUShr) && !p.check(TokenEOF) {
		progress := p.mustProgress()
		if p.check(TokenQuestion) {
			w := p.startNode(KindWildcard)
			tok := p.advance()
			w.Token = &tok
			if p.check(TokenExtends) || p.check(TokenSuper) {
				w.AddChild(p.leaf(KindToken))
				w.AddChild(p.parseType())
			}
			node.AddChild(p.finishNode(w))
		} else {
			node.AddChild(p.parseType())
		}
		if p.expect(TokenComma) == nil || !progress() {
			break
		}
	}
	if !p.expectGT() {
		node.AddChild(p.missing(TokenGT))
	}
	return p.finishNode(node)
}

func (p *Parser) expectGT() bool {
	switch p.peek().Kind {
	case TokenGT:
		p.advance()
		return true
	case TokenShr:
		p.splitToken(TokenGT)
		return true
	case TokenUShr:
		p.splitToken(TokenShr)
		return true
	case TokenGE:
		p.splitToken(TokenAssign)
		return true
	case TokenShrAssign:
		p.splitToken(TokenGE)
		return true
	case TokenUShrAssign:
		p.splitToken(TokenShrAssign)
		return true
	}
	return false
}

// splitToken consumes the leading '>' of the next token, leaving the
// remainder in its place.
func (p *Parser) splitToken(remainder TokenKind) {
	tok := p.tokens[p.pos]
	p.tokens[p.pos] = Token{
		Kind:    remainder,
		Literal: tok.Literal[1:],
		Span: Span{
			Start: Position{
				Offset: tok.Span.Start.Offset + 1,
				Line:   tok.Span.Start.Line,
				Column: tok.Span.Start.Column + 1,
			},
			End: tok.Span.End,
		},
	}
}

func (p *Parser) parseTypeParameters() *Node {
	node := p.startNode(KindTypeParameters)
	p.advance()
	for {
		tp := p.startNode(KindTypeParameter)
		tp.AddChild(p.parseIdentifier())
		if p.expect(TokenExtends) != nil {
			tp.AddChild(p.parseType())
			for p.expect(TokenBitAnd) != nil {
				tp.AddChild(p.parseType())
			}
		}
		node.AddChild(p.finishNode(tp))
		if p.expect(TokenComma) == nil {
			break
		}
	}
	if !p.expectGT() {
		node.AddChild(p.missing(TokenGT))
	}
	return p.finishNode(node)
}

func (p *Parser) parseClassDecl(modifiers *Node) *Node {
	node := &Node{Kind: KindClassDecl, Span: Span{Start: modifiers.Span.Start}}
	if len(modifiers.Children) == 0 {
		node.Span.Start = p.peek().Span.Start
	}
	node.AddChild(modifiers)
	if p.check(TokenAt) {
		node.AddChild(p.leaf(KindToken))
	}
	kw := p.advance()
	node.Token = &kw
	node.AddChild(p.parseIdentifier())
	if p.check(TokenLT) {
		node.AddChild(p.parseTypeParameters())
	}
	if p.check(TokenExtends) {
		ext := p.startNode(KindExtends)
		p.advance()
		ext.AddChild(p.parseType())
		for p.expect(TokenComma) != nil {
			ext.AddChild(p.parseType())
		}
		node.AddChild(p.finishNode(ext))
	}
	if p.check(TokenImplements) {
		impl := p.startNode(KindImplements)
		p.advance()
		impl.AddChild(p.parseType())
		for p.expect(TokenComma) != nil {
			impl.AddChild(p.parseType())
		}
		node.AddChild(p.finishNode(impl))
	}
	node.AddChild(p.parseClassBody(kw.Kind == TokenEnum))
	return p.finishNode(node)
}

func (p *Parser) parseClassBody(enum bool) *Node {
	node := p.startNode(KindClassBody)
	if !p.require(node, TokenLBrace) {
		return p.finishNode(node)
	}
	p.skipSeparators()
	if enum {
		for p.isEnumConstant() {
			node.AddChild(p.parseEnumConstant())
			if p.expect(TokenComma) == nil {
				break
			}
		}
		p.skipSeparators()
	}
	for !p.check(TokenRBrace) && !p.check(TokenEOF) {
		progress := p.mustProgress()
		node.AddChild(p.parseClassMember())
		p.endStatement(node)
		if !progress() {
			break
		}
	}
	p.require(node, TokenRBrace)
	return p.finishNode(node)
}

func (p *Parser) parseEnumConstant() *Node {
	node := p.startNode(KindEnumConstant)
	for p.check(TokenAt) {
		node.AddChild(p.parseAnnotation())
	}
	node.AddChild(p.parseIdentifier())
	if p.check(TokenLParen) {
		node.AddChild(p.parseArguments())
	}
	if p.check(TokenLBrace) {
		node.AddChild(p.parseClassBody(false))
	}
	return p.finishNode(node)
}

func (p *Parser) parseClassMember() *Node {
	if p.check(TokenLBrace) || (p.check(TokenStatic) && p.peekN(1).Kind == TokenLBrace) {
		node := p.startNode(KindInitializer)
		if p.check(TokenStatic) {
			node.AddChild(p.leaf(KindToken))
		}
		node.AddChild(p.parseBlock())
		return p.finishNode(node)
	}

	if p.isClassDecl() {
		return p.parseClassDecl(p.parseModifiers())
	}

	modifiers := p.parseModifiers()
	var typeParams *Node
	if p.check(TokenLT) {
		typeParams = p.parseTypeParameters()
	}
	if isMethodName(p.peek().Kind) && p.peekN(1).Kind == TokenLParen {
		return p.finishMethodDecl(modifiers, typeParams, nil)
	}
	if len(modifiers.Children) > 0 && p.check(TokenLParen) && typeParams == nil {
		return p.finishVariableDecl(modifiers, nil)
	}
	if len(modifiers.Children) > 0 && p.check(TokenIdent) && typeParams == nil &&
		p.peekN(1).Kind != TokenDot && p.peekN(1).Kind != TokenLT && p.peekN(1).Kind != TokenIdent &&
		!(p.peekN(1).Kind == TokenLBracket && p.peekN(2).Kind == TokenRBracket) {
		return p.finishVariableDecl(modifiers, nil)
	}
	if !(p.peek().Kind == TokenIdent || p.peek().Kind.IsPrimitive() || p.check(TokenVoid)) {
		return p.errorNode("unexpected "+describe(p.peek())+" in class body", nil)
	}
	typ := p.parseType()
	if isMethodName(p.peek().Kind) && p.peekN(1).Kind == TokenLParen {
		return p.finishMethodDecl(modifiers, typeParams, typ)
	}
	return p.finishVariableDecl(modifiers, typ)
}

// parseMethodDecl parses a method declared at statement level, where
// isMethodDecl has already matched.
func (p *Parser) parseMethodDecl(modifiers *Node) *Node {
	var typeParams *Node
	if p.check(TokenLT) {
		typeParams = p.parseTypeParameters()
	}
	var typ *Node
	if !(isMethodName(p.peek().Kind) && p.peekN(1).Kind == TokenLParen) {
		typ = p.parseType()
	}
	return p.finishMethodDecl(modifiers, typeParams, typ)
}

func (p *Parser) finishMethodDecl(modifiers, typeParams, typ *Node) *Node {
	node := p.declNode(KindMethodDecl, modifiers, typeParams, typ)
	node.AddChild(modifiers)
	node.AddChild(typeParams)
	node.AddChild(typ)
	node.AddChild(p.leaf(KindIdentifier))
	node.AddChild(p.parseParameters(TokenLParen, TokenRParen))
	if dims := p.parseDims(); dims != nil {
		node.AddChild(dims)
	}
	if p.check(TokenThrows) {
		throws := p.startNode(KindThrows)
		p.advance()
		throws.AddChild(p.parseType())
		for p.expect(TokenComma) != nil {
			throws.AddChild(p.parseType())
		}
		node.AddChild(p.finishNode(throws))
	}
	if p.check(TokenDefault) {
		def := p.startNode(KindDefaultValue)
		p.advance()
		def.AddChild(p.parseElementValue())
		node.AddChild(p.finishNode(def))
	}
	if p.check(TokenLBrace) {
		node.AddChild(p.parseBlock())
	}
	return p.finishNode(node)
}

// declNode starts a declaration at the first present leading part.
func (p *Parser) declNode(kind NodeKind, parts ...*Node) *Node {
	start := p.peek().Span.Start
	for _, part := range parts {
		if part != nil && (part.Kind != KindModifiers || len(part.Children) > 0) {
			start = part.Span.Start
			break
		}
	}
	return &Node{Kind: kind, Span: Span{Start: start}}
}

// parseParameters parses a parameter list between open and close. For a
// closure, open is TokenEOF (no opening token) and close is TokenArrow.
func (p *Parser) parseParameters(open, close TokenKind) *Node {
	node := p.startNode(KindParameters)
	if open != TokenEOF && !p.require(node, open) {
		return p.finishNode(node)
	}
	for !p.check(close) && !p.check(TokenEOF) {
		progress := p.mustProgress()
		node.AddChild(p.parseParameter())
		if p.expect(TokenComma) == nil || !progress() {
			break
		}
	}
	p.require(node, close)
	return p.finishNode(node)
}

func (p *Parser) parseParameter() *Node {
	node := p.startNode(KindParameter)
	node.AddChild(p.parseModifiers())
	if p.hasParameterType() {
		node.AddChild(p.parseType())
	}
	if p.check(TokenEllipsis) {
		node.AddChild(p.leaf(KindToken))
	}
	node.AddChild(p.parseIdentifier())
	if p.expect(TokenAssign) != nil {
		node.AddChild(p.parseExpression())
	}
	return p.finishNode(node)
}

// hasParameterType reports whether a type precedes the parameter name.
func (p *Parser) hasParameterType() bool {
	saved := p.pos
	defer func() { p.pos = saved }()
	la := &lookahead{p: p}
	j, ok := scanType(la, 0)
	if !ok {
		return false
	}
	k := la.kind(j)
	return k == TokenIdent || k == TokenEllipsis
}

// finishVariableDecl parses declarators after the modifiers and type.
func (p *Parser) finishVariableDecl(modifiers, typ *Node) *Node {
	node := p.declNode(KindVariableDecl, modifiers, typ)
	node.AddChild(modifiers)
	node.AddChild(typ)
	if p.check(TokenLParen) {
		node.AddChild(p.parseTupleDeclarator())
		return p.finishNode(node)
	}
	for {
		d := p.startNode(KindVariableDeclarator)
		d.AddChild(p.parseIdentifier())
		if dims := p.parseDims(); dims != nil {
			d.AddChild(dims)
		}
		if p.expect(TokenAssign) != nil {
			d.AddChild(p.parseExpressionOrCommand())
		}
		node.AddChild(p.finishNode(d))
		if p.expect(TokenComma) == nil {
			break
		}
	}
	return p.finishNode(node)
}

func (p *Parser) parseTupleDeclarator() *Node {
	node := p.startNode(KindTupleDeclarator)
	p.advance()
	for !p.check(TokenRParen) && !p.check(TokenEOF) {
		progress := p.mustProgress()
		v := p.startNode(KindTupleVariable)
		if p.hasParameterType() {
			v.AddChild(p.parseType())
		}
		v.AddChild(p.parseIdentifier())
		node.AddChild(p.finishNode(v))
		if p.expect(TokenComma) == nil || !progress() {
			break
		}
	}
	p.require(node, TokenRParen)
	if p.require(node, TokenAssign) {
		node.AddChild(p.parseExpressionOrCommand())
	}
	return p.finishNode(node)
}

// parseLocalVariableDecl parses a declaration where isLocalVariableDecl
// has matched.
func (p *Parser) parseLocalVariableDecl() *Node {
	modifiers := p.parseModifiers()
	var typ *Node
	if !p.check(TokenLParen) && !(len(modifiers.Children) > 0 && p.check(TokenIdent) && p.isBareName()) {
		typ = p.parseType()
	}
	return p.finishVariableDecl(modifiers, typ)
}

// isBareName reports whether the identifier at the cursor is a variable
// name rather than the start of a type.
func (p *Parser) isBareName() bool {
	next := p.peekN(1)
	if next.NewlineBefore {
		return true
	}
	switch next.Kind {
	case TokenAssign, TokenComma, TokenSemicolon, TokenRBrace, TokenRParen, TokenColon, TokenIn, TokenEOF:
		return true
	}
	return false
}
