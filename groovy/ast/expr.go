package ast

import "github.com/dhamidi/grove/groovy/syntax"

// VariableExpr is a reference to a variable, or its declaration on the
// left of a DeclarationExpr. "this" and "super" are variables too.
type VariableExpr struct {
	exprBase
	Name string `json:"name"`
	// Type is the declared type inside a declaration.
	Type      *Type     `json:"type,omitempty"`
	Modifiers Modifiers `json:"modifiers,omitempty"`
	Dynamic   bool      `json:"dynamic,omitempty"`
}

func (v *VariableExpr) IsThis() bool  { return v.Name == "this" }
func (v *VariableExpr) IsSuper() bool { return v.Name == "super" }

// ConstantExpr is a literal. Value holds nil, bool, string, int32, int64,
// *big.Int, float32, float64 or *big.Rat (for BigDecimal); Type names it.
type ConstantExpr struct {
	exprBase
	Value any    `json:"value"`
	Type  string `json:"type,omitempty"`
}

func (c *ConstantExpr) IsNull() bool { return c.Value == nil }

// Text returns the string value, or "" if the constant is not a string.
func (c *ConstantExpr) Text() string {
	s, _ := c.Value.(string)
	return s
}

// GStringExpr alternates Strings and Values: Strings[0] Values[0]
// Strings[1] ... with one more string than values.
type GStringExpr struct {
	exprBase
	Verbatim string          `json:"verbatim"`
	Strings  []*ConstantExpr `json:"strings"`
	Values   []Expr          `json:"values"`
}

// PropertyExpr is "obj.name" and its safe, spread and attribute forms.
type PropertyExpr struct {
	exprBase
	Object     Expr `json:"object"`
	Property   Expr `json:"property"`
	Safe       bool `json:"safe,omitempty"`
	SpreadSafe bool `json:"spreadSafe,omitempty"`
	// Attribute is set for direct field access: "obj.@name".
	Attribute bool `json:"attribute,omitempty"`
	// SafeChain is set after "??.", which makes the rest of the chain safe.
	SafeChain bool `json:"safeChain,omitempty"`
}

// PropertyName returns the property as a string if it is a constant.
func (p *PropertyExpr) PropertyName() string {
	if c, ok := p.Property.(*ConstantExpr); ok {
		return c.Text()
	}
	return ""
}

type MethodCallExpr struct {
	exprBase
	NamePos
	Object Expr `json:"object"`
	Method Expr `json:"method"`
	// Args is an *ArgumentListExpr, or a *TupleExpr holding one named
	// argument map when only named arguments were passed.
	Args         Expr           `json:"args"`
	ImplicitThis bool           `json:"implicitThis,omitempty"`
	Safe         bool           `json:"safe,omitempty"`
	SpreadSafe   bool           `json:"spreadSafe,omitempty"`
	Generics     []*GenericType `json:"generics,omitempty"`
	// Command is set for calls written without parentheses.
	Command bool `json:"command,omitempty"`
}

// MethodName returns the method as a string if it is a constant.
func (m *MethodCallExpr) MethodName() string {
	if c, ok := m.Method.(*ConstantExpr); ok {
		return c.Text()
	}
	return ""
}

// ConstructorCallExpr is "new T(...)", or "this(...)"/"super(...)" inside
// a constructor.
type ConstructorCallExpr struct {
	exprBase
	NamePos
	Type *Type `json:"type"`
	Args Expr  `json:"args"`
	// Special is "this" or "super" for explicit constructor calls.
	Special string `json:"special,omitempty"`
	// Anonymous is the class created by "new T() { ... }".
	Anonymous *ClassNode `json:"anonymous,omitempty"`
}

type MethodPointerExpr struct {
	exprBase
	Object Expr `json:"object"`
	Method Expr `json:"method"`
}

type MethodReferenceExpr struct {
	exprBase
	Object Expr `json:"object"`
	Method Expr `json:"method"`
}

// BinaryExpr covers arithmetic, comparison, logical and assignment
// operators. Index access is OpIndex with the index on the right.
type BinaryExpr struct {
	exprBase
	Left  Expr            `json:"left"`
	Op    syntax.Operator `json:"op"`
	Right Expr            `json:"right"`
	// Safe is set for "a?[i]".
	Safe bool `json:"safe,omitempty"`
}

// DeclarationExpr declares one variable, or several at once when Left is
// a *ArgumentListExpr of variables. Right is an EmptyExpr without an
// initializer.
type DeclarationExpr struct {
	exprBase
	Left  Expr `json:"left"`
	Right Expr `json:"right"`
}

// Variable returns the single declared variable, or nil for a tuple.
func (d *DeclarationExpr) Variable() *VariableExpr {
	v, _ := d.Left.(*VariableExpr)
	return v
}

func (d *DeclarationExpr) IsMultiple() bool {
	_, ok := d.Left.(*ArgumentListExpr)
	return ok
}

// BooleanExpr marks an expression evaluated for its truth value.
type BooleanExpr struct {
	exprBase
	Expr Expr `json:"expr"`
}

type NotExpr struct {
	exprBase
	Expr Expr `json:"expr"`
}

type BitwiseNegationExpr struct {
	exprBase
	Expr Expr `json:"expr"`
}

type UnaryMinusExpr struct {
	exprBase
	Expr Expr `json:"expr"`
}

type UnaryPlusExpr struct {
	exprBase
	Expr Expr `json:"expr"`
}

type PrefixExpr struct {
	exprBase
	Op   syntax.Operator `json:"op"`
	Expr Expr            `json:"expr"`
}

type PostfixExpr struct {
	exprBase
	Expr Expr            `json:"expr"`
	Op   syntax.Operator `json:"op"`
}

type TernaryExpr struct {
	exprBase
	Cond *BooleanExpr `json:"cond"`
	Then Expr         `json:"then"`
	Else Expr         `json:"else"`
}

// ElvisExpr is "a ?: b".
type ElvisExpr struct {
	exprBase
	Cond Expr `json:"cond"`
	Else Expr `json:"else"`
}

type RangeExpr struct {
	exprBase
	From      Expr `json:"from"`
	To        Expr `json:"to"`
	Inclusive bool `json:"inclusive"`
}

// CastExpr is "(T) x", or "x as T" when Coerce is set.
type CastExpr struct {
	exprBase
	Type   *Type `json:"type"`
	Expr   Expr  `json:"expr"`
	Coerce bool  `json:"coerce,omitempty"`
}

// ClassExpr is a type used as a value, as on the right of instanceof.
type ClassExpr struct {
	exprBase
	Type *Type `json:"type"`
}

type ListExpr struct {
	exprBase
	Elements []Expr `json:"elements"`
	// Wrapped marks the list built from several index arguments: a[1, 2].
	Wrapped bool `json:"wrapped,omitempty"`
}

type MapExpr struct {
	exprBase
	Entries []*MapEntryExpr `json:"entries"`
	// Named marks the map collecting named call arguments.
	Named bool `json:"named,omitempty"`
}

type MapEntryExpr struct {
	exprBase
	Key   Expr `json:"key"`
	Value Expr `json:"value"`
}

type SpreadExpr struct {
	exprBase
	Expr Expr `json:"expr"`
}

// SpreadMapExpr is the "*:" entry of a map or call.
type SpreadMapExpr struct {
	exprBase
	Expr Expr `json:"expr"`
}

// ClosureExpr is "{ params -> body }". Params is nil when no arrow was
// written (the implicit "it" parameter) and empty for "{ -> body }".
type ClosureExpr struct {
	exprBase
	Params []*Parameter `json:"params"`
	Body   Stmt         `json:"body"`
}

func (c *ClosureExpr) HasImplicitParam() bool { return c.Params == nil }

type LambdaExpr struct {
	exprBase
	Params []*Parameter `json:"params"`
	Body   Stmt         `json:"body"`
}

// ArrayExpr is "new T[n]" with Sizes or "new T[] {a, b}" with Inits.
type ArrayExpr struct {
	exprBase
	ElementType *Type  `json:"elementType"`
	Inits       []Expr `json:"inits,omitempty"`
	Sizes       []Expr `json:"sizes,omitempty"`
}

type TupleExpr struct {
	exprBase
	Exprs []Expr `json:"exprs"`
}

type ArgumentListExpr struct {
	exprBase
	Args []Expr `json:"args"`
}

// ClosureListExpr is the "init; cond; update" header of a classic for.
type ClosureListExpr struct {
	exprBase
	Exprs []Expr `json:"exprs"`
}

// EmptyExpr stands for an absent part, such as a missing for condition.
type EmptyExpr struct {
	exprBase
}

// AnnotationConstantExpr is an annotation used as an annotation value.
type AnnotationConstantExpr struct {
	exprBase
	Annotation *Annotation `json:"annotation"`
}
