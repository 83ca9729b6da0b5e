package ast

// Module is one compilation unit.
type Module struct {
	Pos
	// Unit is the logical name the unit was parsed under.
	Unit    string    `json:"unit"`
	Package *Package  `json:"package,omitempty"`
	Imports []*Import `json:"imports,omitempty"`
	// Statements holds the top-level script statements in source order.
	Statements *BlockStmt    `json:"statements"`
	Methods    []*MethodNode `json:"methods,omitempty"`
	// Classes lists every class of the unit, nested and anonymous ones
	// included, in the order their declarations were completed.
	Classes []*ClassNode `json:"classes,omitempty"`
	// ScriptClass owns Statements and Methods. It is nil when the unit only
	// declares classes.
	ScriptClass *ClassNode `json:"scriptClass,omitempty"`
}

// PackageName returns the package prefix with its trailing dot, or "".
func (m *Module) PackageName() string {
	if m.Package == nil {
		return ""
	}
	return m.Package.Name
}

// IsBlank reports whether the unit declares nothing.
func (m *Module) IsBlank() bool {
	return len(m.Statements.Stmts) == 0 && len(m.Methods) == 0 && len(m.Classes) == 0
}

// Class returns the class with the given qualified name.
func (m *Module) Class(name string) *ClassNode {
	for _, c := range m.Classes {
		if c.Name == name {
			return c
		}
	}
	return nil
}

type Package struct {
	Pos
	// Name ends with a dot: "com.example.".
	Name        string        `json:"name"`
	Annotations []*Annotation `json:"annotations,omitempty"`
}

type ImportKind string

const (
	ImportRegular    ImportKind = "regular"
	ImportStatic     ImportKind = "static"
	ImportStar       ImportKind = "star"
	ImportStaticStar ImportKind = "staticStar"
)

// Import is one import declaration.
//
//	import a.b.C          Type "a.b.C", Alias "C"
//	import a.b.C as D     Type "a.b.C", Alias "D"
//	import a.b.*          Package "a.b."
//	import static a.B.f   Type "a.B", Field "f", Alias "f"
//	import static a.B.*   Type "a.B"
type Import struct {
	Pos
	Kind        ImportKind    `json:"importKind"`
	Type        string        `json:"type,omitempty"`
	Package     string        `json:"package,omitempty"`
	Field       string        `json:"field,omitempty"`
	Alias       string        `json:"alias,omitempty"`
	Annotations []*Annotation `json:"annotations,omitempty"`
}
