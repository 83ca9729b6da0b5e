package parser

import "strings"

type NodeKind int

// CST node kinds. The comment after each kind lists its children in order;
// "?" marks an optional child, "*" a repeated one, and Tok names what the
// node's Token field holds.
const (
	KindError NodeKind = iota
	KindToken // Tok: keyword or punctuation leaf

	// Compilation unit level
	KindCompilationUnit // PackageDecl? (ImportDecl | ClassDecl | MethodDecl | statement)*
	KindPackageDecl     // Annotation* QualifiedName
	KindImportDecl      // Annotation* Token(static)? QualifiedName Token(*)? Alias?
	KindAlias           // Identifier
	KindQualifiedName   // Identifier+

	// Declarations
	KindClassDecl          // Tok: class|interface|trait|enum; Modifiers Token(@)? Identifier TypeParameters? Extends? Implements? ClassBody
	KindExtends            // Type+
	KindImplements         // Type+
	KindClassBody          // EnumConstant* (ClassDecl | MethodDecl | VariableDecl | Initializer)*
	KindEnumConstant       // Annotation* Identifier Arguments? ClassBody?
	KindInitializer        // Token(static)? Block
	KindMethodDecl         // Modifiers TypeParameters? Type? Identifier Parameters Dims? Throws? DefaultValue? Block?
	KindParameters         // Parameter*
	KindParameter          // Modifiers Type? Token(...)? Identifier Expression?
	KindThrows             // Type+
	KindDefaultValue       // element value
	KindVariableDecl       // Modifiers Type? (VariableDeclarator+ | TupleDeclarator)
	KindVariableDeclarator // Identifier Dims? Expression?
	KindTupleDeclarator    // TupleVariable+ Expression
	KindTupleVariable      // Type? Identifier

	// Types and modifiers
	KindModifiers      // (Modifier | Annotation)*
	KindModifier       // Tok: modifier keyword
	KindAnnotation     // QualifiedName AnnotationArgs?
	KindAnnotationArgs // (AnnotationPair* | element value)
	KindAnnotationPair // Identifier element value
	KindElementArray   // element value*
	KindType           // Tok: primitive or void; QualifiedName? TypeArguments? Dims?
	KindDims           // Token([)+
	KindTypeArguments  // (Type | Wildcard)*
	KindWildcard       // Tok: ?; Token(extends|super)? Type?
	KindTypeParameters // TypeParameter+
	KindTypeParameter  // Identifier Type*

	// Statements
	KindBlock        // statement*
	KindEmptyStmt    // Tok: ;
	KindExprStmt     // Expression
	KindIfStmt       // ParExpr statement statement?
	KindForStmt      // (ForInControl | ForControl) statement
	KindForInControl // Parameter Expression
	KindForControl   // ForInit ForCond ForUpdate
	KindForInit      // VariableDecl | ExpressionList | nothing
	KindForCond      // Expression?
	KindForUpdate    // ExpressionList?
	KindExprList     // Expression+
	KindWhileStmt    // ParExpr statement
	KindDoWhileStmt  // statement ParExpr
	KindSwitchStmt   // ParExpr SwitchGroup*
	KindSwitchGroup  // SwitchLabel+ statement*
	KindSwitchLabel  // Tok: case|default; Expression?
	KindTryStmt      // Resources? Block CatchClause* Finally?
	KindResources    // Resource+
	KindResource     // VariableDecl | Expression
	KindCatchClause  // Modifiers CatchType? Identifier Block
	KindCatchType    // Type+
	KindFinally      // Block
	KindAssertStmt   // Expression Expression?
	KindThrowStmt    // Expression
	KindReturnStmt   // Expression?
	KindBreakStmt    // Tok: break; Identifier?
	KindContinueStmt // Tok: continue; Identifier?
	KindLabeledStmt  // Identifier statement
	KindSyncStmt     // ParExpr Block

	// Expressions
	KindIdentifier      // Tok: identifier (also a name inside other nodes)
	KindLiteral         // Tok: number, string, true, false or null
	KindGString         // (GStringText (GStringValue | GStringPathExpr))* GStringText
	KindGStringText     // Tok: GStringBegin|GStringPart|GStringEnd
	KindGStringValue    // Expression | Closure | nothing
	KindGStringPath     // Identifier GStringPathPart*
	KindGStringPathPart // Tok: .name
	KindThis            // Tok: this
	KindSuper           // Tok: super
	KindPrimitive       // Tok: primitive keyword used as a value (int.class)
	KindParExpr         // Expression+ (several only as a tuple assignment target)
	KindList            // Token(,)? element*
	KindMap             // MapEntry*
	KindMapEntry        // Tok: ':', or '*' for a spread entry; key? value
	KindSpread          // Expression
	KindClosure         // Parameters? Block
	KindLambda          // Parameters (Expression | Block)
	KindNew             // Type (Arguments ClassBody? | DimExpr* Dims? ArrayInit?)
	KindDimExpr         // Expression
	KindArrayInit       // element*
	KindPath            // primary PathElement+
	KindMember          // Tok: . ?. ??. *. .& .@ *.@ ::; TypeArguments? name
	KindArguments       // (Expression | NamedArg | Spread)*
	KindNamedArg        // Tok: ':', or '*' for a spread entry; key? value
	KindIndex           // Tok: [ or ?[; (Expression | MapEntry)*
	KindBinary          // Tok: operator; left right
	KindAssign          // Tok: assignment operator; left right
	KindTernary         // cond then else
	KindElvis           // cond else
	KindPrefix          // Tok: + - ! ~ ++ --; operand
	KindPostfix         // Tok: ++ --; operand
	KindCast            // Type operand
	KindAs              // operand Type
	KindInstanceof      // Tok: instanceof | !instanceof; operand Type
	KindCommand         // base CommandArgs? CommandArgument*
	KindCommandArgs     // (Expression | NamedArg)+
	KindCommandArgument // primary (PathElement+ | CommandArgs)?
)

var nodeKindNames = map[NodeKind]string{
	KindError:              "Error",
	KindToken:              "Token",
	KindCompilationUnit:    "CompilationUnit",
	KindPackageDecl:        "PackageDecl",
	KindImportDecl:         "ImportDecl",
	KindAlias:              "Alias",
	KindQualifiedName:      "QualifiedName",
	KindClassDecl:          "ClassDecl",
	KindExtends:            "Extends",
	KindImplements:         "Implements",
	KindClassBody:          "ClassBody",
	KindEnumConstant:       "EnumConstant",
	KindInitializer:        "Initializer",
	KindMethodDecl:         "MethodDecl",
	KindParameters:         "Parameters",
	KindParameter:          "Parameter",
	KindThrows:             "Throws",
	KindDefaultValue:       "DefaultValue",
	KindVariableDecl:       "VariableDecl",
	KindVariableDeclarator: "VariableDeclarator",
	KindTupleDeclarator:    "TupleDeclarator",
	KindTupleVariable:      "TupleVariable",
	KindModifiers:          "Modifiers",
	KindModifier:           "Modifier",
	KindAnnotation:         "Annotation",
	KindAnnotationArgs:     "AnnotationArgs",
	KindAnnotationPair:     "AnnotationPair",
	KindElementArray:       "ElementArray",
	KindType:               "Type",
	KindDims:               "Dims",
	KindTypeArguments:      "TypeArguments",
	KindWildcard:           "Wildcard",
	KindTypeParameters:     "TypeParameters",
	KindTypeParameter:      "TypeParameter",
	KindBlock:              "Block",
	KindEmptyStmt:          "EmptyStmt",
	KindExprStmt:           "ExprStmt",
	KindIfStmt:             "IfStmt",
	KindForStmt:            "ForStmt",
	KindForInControl:       "ForInControl",
	KindForControl:         "ForControl",
	KindForInit:            "ForInit",
	KindForCond:            "ForCond",
	KindForUpdate:          "ForUpdate",
	KindExprList:           "ExprList",
	KindWhileStmt:          "WhileStmt",
	KindDoWhileStmt:        "DoWhileStmt",
	KindSwitchStmt:         "SwitchStmt",
	KindSwitchGroup:        "SwitchGroup",
	KindSwitchLabel:        "SwitchLabel",
	KindTryStmt:            "TryStmt",
	KindResources:          "Resources",
	KindResource:           "Resource",
	KindCatchClause:        "CatchClause",
	KindCatchType:          "CatchType",
	KindFinally:            "Finally",
	KindAssertStmt:         "AssertStmt",
	KindThrowStmt:          "ThrowStmt",
	KindReturnStmt:         "ReturnStmt",
	KindBreakStmt:          "BreakStmt",
	KindContinueStmt:       "ContinueStmt",
	KindLabeledStmt:        "LabeledStmt",
	KindSyncStmt:           "SyncStmt",
	KindIdentifier:         "Identifier",
	KindLiteral:            "Literal",
	KindGString:            "GString",
	KindGStringText:        "GStringText",
	KindGStringValue:       "GStringValue",
	KindGStringPath:        "GStringPath",
	KindGStringPathPart:    "GStringPathPart",
	KindThis:               "This",
	KindSuper:              "Super",
	KindPrimitive:          "Primitive",
	KindParExpr:            "ParExpr",
	KindList:               "List",
	KindMap:                "Map",
	KindMapEntry:           "MapEntry",
	KindSpread:             "Spread",
	KindClosure:            "Closure",
	KindLambda:             "Lambda",
	KindNew:                "New",
	KindDimExpr:            "DimExpr",
	KindArrayInit:          "ArrayInit",
	KindPath:               "Path",
	KindMember:             "Member",
	KindArguments:          "Arguments",
	KindNamedArg:           "NamedArg",
	KindIndex:              "Index",
	KindBinary:             "Binary",
	KindAssign:             "Assign",
	KindTernary:            "Ternary",
	KindElvis:              "Elvis",
	KindPrefix:             "Prefix",
	KindPostfix:            "Postfix",
	KindCast:               "Cast",
	KindAs:                 "As",
	KindInstanceof:         "Instanceof",
	KindCommand:            "Command",
	KindCommandArgs:        "CommandArgs",
	KindCommandArgument:    "CommandArgument",
}

func (k NodeKind) String() string {
	if name, ok := nodeKindNames[k]; ok {
		return name
	}
	return "Unknown"
}

type Error struct {
	Message  string
	Expected []TokenKind
	Got      *Token
}

type Node struct {
	Kind     NodeKind
	Span     Span
	Children []*Node
	Token    *Token
	Error    *Error
}

func (n *Node) AddChild(child *Node) {
	if child != nil {
		n.Children = append(n.Children, child)
	}
}

func (n *Node) IsError() bool {
	return n.Kind == KindError
}

func (n *Node) FirstChildOfKind(kind NodeKind) *Node {
	for _, child := range n.Children {
		if child.Kind == kind {
			return child
		}
	}
	return nil
}

func (n *Node) ChildrenOfKind(kind NodeKind) []*Node {
	var result []*Node
	for _, child := range n.Children {
		if child.Kind == kind {
			result = append(result, child)
		}
	}
	return result
}

// HasToken reports whether n has a direct leaf child holding a token of the
// given kind. Leaf children are used for optional keywords such as the
// static in an import.
func (n *Node) HasToken(kind TokenKind) bool {
	return n.TokenChild(kind) != nil
}

// TokenChild returns the first direct leaf child holding a token of kind.
func (n *Node) TokenChild(kind TokenKind) *Node {
	for _, child := range n.Children {
		if child.Kind == KindToken && child.Token.Kind == kind {
			return child
		}
	}
	return nil
}

func (n *Node) TokenLiteral() string {
	if n.Token != nil {
		return n.Token.Literal
	}
	return ""
}

// TokenKind returns the kind of n's token, or TokenEOF if it has none.
func (n *Node) TokenKind() TokenKind {
	if n.Token != nil {
		return n.Token.Kind
	}
	return TokenEOF
}

// Errors returns every error node in the subtree rooted at n in source order.
func (n *Node) Errors() []*Node {
	var errs []*Node
	var walk func(*Node)
	walk = func(n *Node) {
		if n.Kind == KindError {
			errs = append(errs, n)
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(n)
	return errs
}

func (n *Node) String() string {
	return n.stringIndent(0, false)
}

func (n *Node) StringWithPositions() string {
	return n.stringIndent(0, true)
}

func (n *Node) stringIndent(indent int, showPositions bool) string {
	var b strings.Builder
	n.writeIndent(&b, indent, showPositions)
	return b.String()
}

func (n *Node) writeIndent(b *strings.Builder, indent int, showPositions bool) {
	b.WriteString(strings.Repeat("  ", indent))
	b.WriteString(n.Kind.String())
	if showPositions {
		b.WriteString(" [" + n.Span.Start.String() + "-" + n.Span.End.String() + "]")
	}
	if n.Token != nil {
		b.WriteString(" " + n.Token.Literal)
	}
	if n.Error != nil {
		b.WriteString(" ERROR: " + n.Error.Message)
	}
	b.WriteString("\n")

	for _, child := range n.Children {
		child.writeIndent(b, indent+1, showPositions)
	}
}
