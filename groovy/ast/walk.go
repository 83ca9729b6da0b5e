package ast

// Visitor is called by Walk for each node. If Visit returns a non-nil
// visitor w, Walk visits the children of n with w and then calls
// w.Visit(nil).
type Visitor interface {
	Visit(n Node) (w Visitor)
}

// Walk traverses the tree rooted at n depth-first in source order. Back
// links are not followed, and classes are visited where the module lists
// them, not inside their outer classes or constructor calls.
func Walk(v Visitor, n Node) {
	if v = v.Visit(n); v == nil {
		return
	}

	switch n := n.(type) {
	case *Module:
		if n.Package != nil {
			Walk(v, n.Package)
		}
		for _, imp := range n.Imports {
			Walk(v, imp)
		}
		Walk(v, n.Statements)
		for _, m := range n.Methods {
			Walk(v, m)
		}
		for _, c := range n.Classes {
			Walk(v, c)
		}
	case *Package:
		walkAnnotations(v, n.Annotations)
	case *Import:
		walkAnnotations(v, n.Annotations)
	case *ClassNode:
		walkAnnotations(v, n.Annotations)
		walkGenerics(v, n.Generics)
		walkType(v, n.Super)
		for _, t := range n.Interfaces {
			Walk(v, t)
		}
		for _, f := range n.Fields {
			Walk(v, f)
		}
		for _, p := range n.Properties {
			Walk(v, p)
		}
		for _, c := range n.Constructors {
			Walk(v, c)
		}
		for _, m := range n.Methods {
			Walk(v, m)
		}
		for _, b := range n.ObjectInitializers {
			Walk(v, b)
		}
		if n.StaticInitializer != nil {
			Walk(v, n.StaticInitializer)
		}
	case *MethodNode:
		walkAnnotations(v, n.Annotations)
		walkGenerics(v, n.Generics)
		walkType(v, n.ReturnType)
		for _, p := range n.Parameters {
			Walk(v, p)
		}
		for _, t := range n.Exceptions {
			Walk(v, t)
		}
		walkStmt(v, n.Body)
	case *Parameter:
		walkAnnotations(v, n.Annotations)
		walkType(v, n.Type)
		walkExpr(v, n.Default)
	case *Field:
		walkAnnotations(v, n.Annotations)
		walkType(v, n.Type)
		walkExpr(v, n.Init)
	case *Property:
	case *Annotation:
		walkType(v, n.Type)
		for _, m := range n.Members {
			walkExpr(v, m.Value)
		}
	case *Type:
		walkAnnotations(v, n.Annotations)
		walkGenerics(v, n.Generics)
	case *GenericType:
		walkType(v, n.Type)
		for _, t := range n.Upper {
			Walk(v, t)
		}
		walkType(v, n.Lower)

	// Statements
	case *BlockStmt:
		for _, s := range n.Stmts {
			Walk(v, s)
		}
	case *ExprStmt:
		walkExpr(v, n.Expr)
	case *EmptyStmt:
	case *IfStmt:
		Walk(v, n.Cond)
		walkStmt(v, n.Then)
		walkStmt(v, n.Else)
	case *ForStmt:
		if n.Var != nil {
			Walk(v, n.Var)
		}
		walkExpr(v, n.Collection)
		walkStmt(v, n.Body)
	case *WhileStmt:
		Walk(v, n.Cond)
		walkStmt(v, n.Body)
	case *DoWhileStmt:
		walkStmt(v, n.Body)
		Walk(v, n.Cond)
	case *SwitchStmt:
		walkExpr(v, n.Expr)
		for _, c := range n.Cases {
			Walk(v, c)
		}
		walkStmt(v, n.Default)
	case *CaseStmt:
		walkExpr(v, n.Expr)
		walkStmt(v, n.Body)
	case *TryStmt:
		for _, r := range n.Resources {
			Walk(v, r)
		}
		walkStmt(v, n.Body)
		for _, c := range n.Catches {
			Walk(v, c)
		}
		walkStmt(v, n.Finally)
	case *CatchStmt:
		Walk(v, n.Param)
		walkStmt(v, n.Body)
	case *AssertStmt:
		Walk(v, n.Cond)
		walkExpr(v, n.Message)
	case *ThrowStmt:
		walkExpr(v, n.Expr)
	case *ReturnStmt:
		walkExpr(v, n.Expr)
	case *BreakStmt, *ContinueStmt:
	case *SynchronizedStmt:
		walkExpr(v, n.Expr)
		walkStmt(v, n.Body)

	// Expressions
	case *VariableExpr:
		walkType(v, n.Type)
	case *ConstantExpr, *EmptyExpr:
	case *GStringExpr:
		// Strings and values interleave in source order.
		for i, s := range n.Strings {
			Walk(v, s)
			if i < len(n.Values) {
				walkExpr(v, n.Values[i])
			}
		}
	case *PropertyExpr:
		walkExpr(v, n.Object)
		walkExpr(v, n.Property)
	case *MethodCallExpr:
		walkExpr(v, n.Object)
		walkExpr(v, n.Method)
		walkExpr(v, n.Args)
	case *ConstructorCallExpr:
		walkType(v, n.Type)
		walkExpr(v, n.Args)
	case *MethodPointerExpr:
		walkExpr(v, n.Object)
		walkExpr(v, n.Method)
	case *MethodReferenceExpr:
		walkExpr(v, n.Object)
		walkExpr(v, n.Method)
	case *BinaryExpr:
		walkExpr(v, n.Left)
		walkExpr(v, n.Right)
	case *DeclarationExpr:
		walkExpr(v, n.Left)
		walkExpr(v, n.Right)
	case *BooleanExpr:
		walkExpr(v, n.Expr)
	case *NotExpr:
		walkExpr(v, n.Expr)
	case *BitwiseNegationExpr:
		walkExpr(v, n.Expr)
	case *UnaryMinusExpr:
		walkExpr(v, n.Expr)
	case *UnaryPlusExpr:
		walkExpr(v, n.Expr)
	case *PrefixExpr:
		walkExpr(v, n.Expr)
	case *PostfixExpr:
		walkExpr(v, n.Expr)
	case *TernaryExpr:
		Walk(v, n.Cond)
		walkExpr(v, n.Then)
		walkExpr(v, n.Else)
	case *ElvisExpr:
		walkExpr(v, n.Cond)
		walkExpr(v, n.Else)
	case *RangeExpr:
		walkExpr(v, n.From)
		walkExpr(v, n.To)
	case *CastExpr:
		if n.Coerce {
			walkExpr(v, n.Expr)
			walkType(v, n.Type)
		} else {
			walkType(v, n.Type)
			walkExpr(v, n.Expr)
		}
	case *ClassExpr:
		walkType(v, n.Type)
	case *ListExpr:
		walkExprs(v, n.Elements)
	case *MapExpr:
		for _, e := range n.Entries {
			Walk(v, e)
		}
	case *MapEntryExpr:
		walkExpr(v, n.Key)
		walkExpr(v, n.Value)
	case *SpreadExpr:
		walkExpr(v, n.Expr)
	case *SpreadMapExpr:
		walkExpr(v, n.Expr)
	case *ClosureExpr:
		for _, p := range n.Params {
			Walk(v, p)
		}
		walkStmt(v, n.Body)
	case *LambdaExpr:
		for _, p := range n.Params {
			Walk(v, p)
		}
		walkStmt(v, n.Body)
	case *ArrayExpr:
		walkType(v, n.ElementType)
		walkExprs(v, n.Sizes)
		walkExprs(v, n.Inits)
	case *TupleExpr:
		walkExprs(v, n.Exprs)
	case *ArgumentListExpr:
		walkExprs(v, n.Args)
	case *ClosureListExpr:
		walkExprs(v, n.Exprs)
	case *AnnotationConstantExpr:
		Walk(v, n.Annotation)
	}

	v.Visit(nil)
}

func walkAnnotations(v Visitor, as []*Annotation) {
	for _, a := range as {
		Walk(v, a)
	}
}

func walkGenerics(v Visitor, gs []*GenericType) {
	for _, g := range gs {
		Walk(v, g)
	}
}

func walkType(v Visitor, t *Type) {
	if t != nil {
		Walk(v, t)
	}
}

func walkStmt(v Visitor, s Stmt) {
	if s != nil {
		Walk(v, s)
	}
}

func walkExpr(v Visitor, e Expr) {
	if e != nil {
		Walk(v, e)
	}
}

func walkExprs(v Visitor, es []Expr) {
	for _, e := range es {
		walkExpr(v, e)
	}
}

type inspector func(Node) bool

func (f inspector) Visit(n Node) Visitor {
	if f(n) {
		return f
	}
	return nil
}

// Inspect calls f for each node of the tree rooted at n, descending into a
// node's children when f returns true. f is called with nil after the
// children of a node were visited.
func Inspect(n Node, f func(Node) bool) {
	Walk(inspector(f), n)
}

// Collect returns every node of type T under n, in walk order.
func Collect[T Node](n Node) []T {
	var out []T
	Inspect(n, func(n Node) bool {
		if t, ok := n.(T); ok {
			out = append(out, t)
		}
		return true
	})
	return out
}
