package ast

type ClassKind string

const (
	ClassKindClass      ClassKind = "class"
	ClassKindInterface  ClassKind = "interface"
	ClassKindTrait      ClassKind = "trait"
	ClassKindEnum       ClassKind = "enum"
	ClassKindAnnotation ClassKind = "annotation"
	ClassKindScript     ClassKind = "script"
)

// Names of the types the builder refers to implicitly.
const (
	ObjectType       = "java.lang.Object"
	EnumType         = "java.lang.Enum"
	AnnotationType   = "java.lang.annotation.Annotation"
	TraitAnnotation  = "groovy.transform.Trait"
	StringType       = "java.lang.String"
	BigIntegerType   = "java.math.BigInteger"
	BigDecimalType   = "java.math.BigDecimal"
	GStringType      = "groovy.lang.GString"
	ClosureType      = "groovy.lang.Closure"
	PackageInfoClass = "package-info"
)

// ClassNode is a class, interface, trait, enum or annotation type,
// including inner, anonymous and enum-constant classes.
type ClassNode struct {
	Pos
	NamePos
	// Name is the qualified binary name: "pkg.Outer$Inner".
	Name      string    `json:"name"`
	Kind      ClassKind `json:"classKind"`
	Modifiers Modifiers `json:"modifiers"`
	// SyntheticPublic is set when public was implied rather than written.
	SyntheticPublic bool `json:"syntheticPublic,omitempty"`

	Super       *Type          `json:"super,omitempty"`
	Interfaces  []*Type        `json:"interfaces,omitempty"`
	Generics    []*GenericType `json:"generics,omitempty"`
	Annotations []*Annotation  `json:"annotations,omitempty"`

	Fields       []*Field      `json:"fields,omitempty"`
	Properties   []*Property   `json:"properties,omitempty"`
	Methods      []*MethodNode `json:"methods,omitempty"`
	Constructors []*MethodNode `json:"constructors,omitempty"`
	// ObjectInitializers are the instance initializer blocks.
	ObjectInitializers []*BlockStmt `json:"objectInitializers,omitempty"`
	// StaticInitializer merges every static block of the class.
	StaticInitializer *BlockStmt `json:"staticInitializer,omitempty"`

	Anonymous bool `json:"anonymous,omitempty"`
	// EnumConstant marks the class of an enum constant with a body.
	EnumConstant bool `json:"enumConstant,omitempty"`
	// DefaultMethods marks an interface promoted to a trait because it
	// declares default methods.
	DefaultMethods bool `json:"defaultMethods,omitempty"`

	Outer *ClassNode   `json:"-"`
	Inner []*ClassNode `json:"-"`
	// EnclosingMethod is the method whose body declares this anonymous
	// class. It is nil for classes created in script code.
	EnclosingMethod *MethodNode `json:"-"`
}

// SimpleName returns the name after the last '.' or '$'.
func (c *ClassNode) SimpleName() string {
	for i := len(c.Name) - 1; i >= 0; i-- {
		if c.Name[i] == '.' || c.Name[i] == '$' {
			return c.Name[i+1:]
		}
	}
	return c.Name
}

func (c *ClassNode) IsInterface() bool { return c.Modifiers.IsInterface() }

func (c *ClassNode) Field(name string) *Field {
	for _, f := range c.Fields {
		if f.Name == name {
			return f
		}
	}
	return nil
}

func (c *ClassNode) Property(name string) *Property {
	for _, p := range c.Properties {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// Method returns the first method with the given name.
func (c *ClassNode) Method(name string) *MethodNode {
	for _, m := range c.Methods {
		if m.Name == name {
			return m
		}
	}
	return nil
}

func (c *ClassNode) HasAnnotation(typeName string) bool {
	for _, a := range c.Annotations {
		if a.Type.Name == typeName {
			return true
		}
	}
	return false
}

// MethodNode is a method or constructor.
type MethodNode struct {
	Pos
	NamePos
	Name            string         `json:"name"`
	Modifiers       Modifiers      `json:"modifiers"`
	SyntheticPublic bool           `json:"syntheticPublic,omitempty"`
	ReturnType      *Type          `json:"returnType,omitempty"`
	Parameters      []*Parameter   `json:"parameters"`
	Exceptions      []*Type        `json:"exceptions,omitempty"`
	Generics        []*GenericType `json:"generics,omitempty"`
	Annotations     []*Annotation  `json:"annotations,omitempty"`
	// Body is nil for abstract methods. For an annotation element with a
	// default value it holds the value as an expression statement.
	Body              Stmt `json:"body,omitempty"`
	Constructor       bool `json:"constructor,omitempty"`
	AnnotationDefault bool `json:"annotationDefault,omitempty"`
	// ScriptMethod marks a method declared at the top level of a script.
	ScriptMethod bool `json:"scriptMethod,omitempty"`

	Declaring *ClassNode `json:"-"`
	// AnonymousClasses are the anonymous classes created in the body.
	AnonymousClasses []*ClassNode `json:"-"`
}

func (m *MethodNode) IsAbstract() bool { return m.Modifiers.IsAbstract() }

// Signature is the name plus parameter types, used to detect duplicates.
func (m *MethodNode) Signature() string {
	s := m.Name + "("
	for i, p := range m.Parameters {
		if i > 0 {
			s += ","
		}
		s += p.Type.String()
	}
	return s + ")"
}

type Parameter struct {
	Pos
	NamePos
	Name        string        `json:"name"`
	Type        *Type         `json:"type"`
	Modifiers   Modifiers     `json:"modifiers,omitempty"`
	Annotations []*Annotation `json:"annotations,omitempty"`
	Default     Expr          `json:"default,omitempty"`
	Vararg      bool          `json:"vararg,omitempty"`
	// Dynamic is set when no type was written.
	Dynamic bool `json:"dynamic,omitempty"`
	// InStaticContext is set for parameters of static methods.
	InStaticContext bool `json:"inStaticContext,omitempty"`
}

type Field struct {
	Pos
	NamePos
	Name        string        `json:"name"`
	Type        *Type         `json:"type"`
	Modifiers   Modifiers     `json:"modifiers"`
	Annotations []*Annotation `json:"annotations,omitempty"`
	Init        Expr          `json:"init,omitempty"`
	Dynamic     bool          `json:"dynamic,omitempty"`
	// Synthetic marks the private field backing a property.
	Synthetic bool `json:"synthetic,omitempty"`
	// EnumConstant marks the field of an enum constant.
	EnumConstant bool `json:"enumConstant,omitempty"`

	Declaring *ClassNode `json:"-"`
}

// Property is a field declared without an explicit visibility. It is
// backed by a private synthetic field of the same name.
type Property struct {
	Pos
	NamePos
	Name      string    `json:"name"`
	Modifiers Modifiers `json:"modifiers"`
	Field     *Field    `json:"-"`
}

// Annotation is a use of an annotation. Members are kept in source order.
type Annotation struct {
	Pos
	Type    *Type               `json:"type"`
	Members []*AnnotationMember `json:"members,omitempty"`
}

// Member returns the value of the named member, or nil.
func (a *Annotation) Member(name string) Expr {
	for _, m := range a.Members {
		if m.Name == name {
			return m.Value
		}
	}
	return nil
}

type AnnotationMember struct {
	Name  string `json:"name"`
	Value Expr   `json:"value"`
}

// Type is a reference to a type.
type Type struct {
	Pos
	// Name is the name as written, or the qualified name for implicit
	// types such as java.lang.Object.
	Name        string         `json:"name"`
	Generics    []*GenericType `json:"generics,omitempty"`
	Dims        int            `json:"dims,omitempty"`
	Primitive   bool           `json:"primitive,omitempty"`
	Diamond     bool           `json:"diamond,omitempty"`
	Annotations []*Annotation  `json:"annotations,omitempty"`
}

// Object returns an unpositioned java.lang.Object reference.
func Object() *Type { return &Type{Name: ObjectType} }

func (t *Type) IsObject() bool { return t != nil && t.Name == ObjectType && t.Dims == 0 }

func (t *Type) IsVoid() bool { return t != nil && t.Name == "void" && t.Dims == 0 }

func (t *Type) String() string {
	if t == nil {
		return ""
	}
	s := t.Name
	if t.Diamond {
		s += "<>"
	} else if len(t.Generics) > 0 {
		s += "<"
		for i, g := range t.Generics {
			if i > 0 {
				s += ","
			}
			s += g.String()
		}
		s += ">"
	}
	for i := 0; i < t.Dims; i++ {
		s += "[]"
	}
	return s
}

// GenericType is a type argument or a type parameter.
//
//	List<String>          Type String
//	List<? extends T>     Wildcard, Upper [T]
//	<T extends A & B>     Placeholder, Name "T", Upper [A, B]
type GenericType struct {
	Pos
	Name        string  `json:"name,omitempty"`
	Type        *Type   `json:"type,omitempty"`
	Wildcard    bool    `json:"wildcard,omitempty"`
	Placeholder bool    `json:"placeholder,omitempty"`
	Upper       []*Type `json:"upper,omitempty"`
	Lower       *Type   `json:"lower,omitempty"`
}

func (g *GenericType) String() string {
	var s string
	switch {
	case g.Wildcard:
		s = "?"
	case g.Placeholder:
		s = g.Name
	default:
		return g.Type.String()
	}
	if len(g.Upper) > 0 {
		s += " extends "
		for i, u := range g.Upper {
			if i > 0 {
				s += " & "
			}
			s += u.String()
		}
	}
	if g.Lower != nil {
		s += " super " + g.Lower.String()
	}
	return s
}
