package ast

type BlockStmt struct {
	stmtBase
	Stmts []Stmt `json:"stmts"`
}

func (b *BlockStmt) IsEmpty() bool { return len(b.Stmts) == 0 }

func (b *BlockStmt) Add(s Stmt) { b.Stmts = append(b.Stmts, s) }

type ExprStmt struct {
	stmtBase
	Expr Expr `json:"expr"`
}

type EmptyStmt struct {
	stmtBase
}

type IfStmt struct {
	stmtBase
	Cond *BooleanExpr `json:"cond"`
	Then Stmt         `json:"then"`
	// Else is an unpositioned EmptyStmt when there is no else branch.
	Else Stmt `json:"else"`
}

// ForStmt covers both loop forms. A for-in loop has its variable and
// collection; a classic loop has the ForLoopDummy variable and a
// ClosureListExpr of init, condition and update as its collection.
type ForStmt struct {
	stmtBase
	Var        *Parameter `json:"var"`
	Collection Expr       `json:"collection"`
	Body       Stmt       `json:"body"`
}

// ForLoopDummy names the variable of a classic for loop.
const ForLoopDummy = "forLoopDummyParameter"

func (f *ForStmt) IsClassic() bool { return f.Var != nil && f.Var.Name == ForLoopDummy }

type WhileStmt struct {
	stmtBase
	Cond *BooleanExpr `json:"cond"`
	Body Stmt         `json:"body"`
}

type DoWhileStmt struct {
	stmtBase
	Cond *BooleanExpr `json:"cond"`
	Body Stmt         `json:"body"`
}

// SwitchStmt holds one CaseStmt per case label. Labels that share a group
// get an EmptyStmt body, except the last which gets the group's block.
type SwitchStmt struct {
	stmtBase
	Expr  Expr        `json:"expr"`
	Cases []*CaseStmt `json:"cases,omitempty"`
	// Default is an unpositioned EmptyStmt when there is no default.
	Default Stmt `json:"default"`
}

type CaseStmt struct {
	stmtBase
	Expr Expr `json:"expr"`
	Body Stmt `json:"body"`
}

type TryStmt struct {
	stmtBase
	// Resources are declaration statements.
	Resources []*ExprStmt  `json:"resources,omitempty"`
	Body      Stmt         `json:"body"`
	Catches   []*CatchStmt `json:"catches,omitempty"`
	Finally   Stmt         `json:"finally"`
}

type CatchStmt struct {
	stmtBase
	Param *Parameter `json:"param"`
	Body  Stmt       `json:"body"`
}

type AssertStmt struct {
	stmtBase
	Cond    *BooleanExpr `json:"cond"`
	Message Expr         `json:"message"`
}

type ThrowStmt struct {
	stmtBase
	Expr Expr `json:"expr"`
}

type ReturnStmt struct {
	stmtBase
	Expr Expr `json:"expr"`
}

type BreakStmt struct {
	stmtBase
	Label string `json:"label,omitempty"`
}

type ContinueStmt struct {
	stmtBase
	Label string `json:"label,omitempty"`
}

type SynchronizedStmt struct {
	stmtBase
	Expr Expr `json:"expr"`
	Body Stmt `json:"body"`
}
