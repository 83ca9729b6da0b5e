package builder

import (
	"path"
	"strings"

	"github.com/dhamidi/grove/groovy/ast"
	"github.com/dhamidi/grove/groovy/parser"
)

const packageInfoFile = "package-info.groovy"

func (b *builder) compilationUnit(n *parser.Node) *ast.Module {
	m := b.module
	m.Statements = &ast.BlockStmt{}

	// Script classes cannot be positioned before the unit is complete, but
	// methods and anonymous classes need them as their owner.
	if !b.isPackageInfo() {
		m.ScriptClass = &ast.ClassNode{
			Name:      m.PackageName() + scriptName(m.Unit),
			Kind:      ast.ClassKindScript,
			Modifiers: ast.ModPublic,
			Super:     &ast.Type{Name: "groovy.lang.Script"},
		}
	}

	for _, c := range n.Children {
		switch c.Kind {
		case parser.KindPackageDecl:
			m.Package = b.packageDecl(c)
			if m.ScriptClass != nil {
				m.ScriptClass.Name = m.PackageName() + scriptName(m.Unit)
			}
		case parser.KindImportDecl:
			m.Imports = append(m.Imports, b.importDecl(c))
		case parser.KindClassDecl:
			b.classDecl(c)
		case parser.KindMethodDecl:
			m.Methods = append(m.Methods, b.methodDecl(c))
		default:
			for _, s := range b.stmts(c) {
				m.Statements.Add(s)
			}
		}
	}

	if b.isPackageInfo() {
		name := m.PackageName() + ast.PackageInfoClass
		if m.Class(name) == nil {
			m.Classes = append(m.Classes, &ast.ClassNode{
				Name:      name,
				Kind:      ast.ClassKindInterface,
				Modifiers: ast.ModInterface | ast.ModAbstract | ast.ModSynthetic,
			})
		}
	} else if m.IsBlank() {
		m.Statements.Add(b.emptyScriptReturn())
	}

	if b.numberErr != nil {
		b.fail(b.numberErr.node, "%s", b.numberErr.err)
	}

	b.positionScript()
	*m.Position() = b.span(0, b.index.End())
	logger().Debugf("%s: %d statements, %d methods, %d classes",
		m.Unit, len(m.Statements.Stmts), len(m.Methods), len(m.Classes))
	return m
}

func (b *builder) isPackageInfo() bool {
	return strings.HasSuffix(b.module.Unit, packageInfoFile)
}

// scriptName derives the script class name from the unit name.
func scriptName(unit string) string {
	name := path.Base(strings.ReplaceAll(unit, "\\", "/"))
	if i := strings.LastIndexByte(name, '.'); i > 0 {
		name = name[:i]
	}
	if name == "" || name == "." || name == "/" {
		return "script"
	}
	return name
}

// emptyScriptReturn is the "return null" of a unit without code. It sits on
// the line after the last import or the package declaration, since those
// do not include their trailing separator, or at the very start.
func (b *builder) emptyScriptReturn() *ast.ReturnStmt {
	var after *ast.Pos
	switch m := b.module; {
	case len(m.Imports) > 0:
		after = &m.Imports[len(m.Imports)-1].Pos
	case m.Package != nil:
		after = &m.Package.Pos
	}

	off := 0
	if after != nil {
		off = min(b.index.FindOffset(after.LastLine+1, 1), b.index.End()-1)
		off = max(off, 0)
	}
	ret := &ast.ReturnStmt{Expr: &ast.ConstantExpr{Value: nil}}
	*ret.Position() = b.span(off, off)
	*ret.Expr.Position() = b.span(off, off)
	return ret
}

// positionScript widens the statement block and the script class from the
// first to the last statement or script method. Leading package and import
// text is left out.
func (b *builder) positionScript() {
	m := b.module
	if m.ScriptClass == nil {
		return
	}
	if m.Statements.IsEmpty() && len(m.Methods) == 0 {
		m.ScriptClass = nil
		return
	}

	var first, last ast.Node
	consider := func(n ast.Node) {
		p := n.Position()
		if first == nil || p.Start < first.Position().Start {
			first = n
		}
		if last == nil || p.End >= last.Position().End {
			last = n
		}
	}
	if s := m.Statements.Stmts; len(s) > 0 {
		consider(s[0])
		consider(s[len(s)-1])
	}
	if len(m.Methods) > 0 {
		consider(m.Methods[0])
		consider(m.Methods[len(m.Methods)-1])
	}

	if !m.Statements.IsEmpty() {
		between(m.Statements, first, last)
	}
	between(m.ScriptClass, first, last)
	m.ScriptClass.SetNameRange(m.ScriptClass.Start, m.ScriptClass.Start)
}

func (b *builder) packageDecl(n *parser.Node) *ast.Package {
	name := n.FirstChildOfKind(parser.KindQualifiedName)
	pkg := stamp(b, &ast.Package{Name: qualifiedName(name) + "."}, name)
	for _, a := range n.ChildrenOfKind(parser.KindAnnotation) {
		pkg.Annotations = append(pkg.Annotations, b.annotation(a))
	}
	return pkg
}

func (b *builder) importDecl(n *parser.Node) *ast.Import {
	imp := stamp(b, &ast.Import{}, n)
	for _, a := range n.ChildrenOfKind(parser.KindAnnotation) {
		imp.Annotations = append(imp.Annotations, b.annotation(a))
	}

	name := n.FirstChildOfKind(parser.KindQualifiedName)
	parts := nameParts(name)
	static := n.HasToken(parser.TokenStatic)
	star := n.HasToken(parser.TokenStar)
	var alias string
	if a := n.FirstChildOfKind(parser.KindAlias); a != nil {
		alias = a.Children[0].TokenLiteral()
	}
	full := strings.Join(parts, ".")

	switch {
	case static && star:
		imp.Kind = ast.ImportStaticStar
		imp.Type = full
	case static:
		if len(parts) < 2 {
			b.fail(name, "Invalid static import %s", full)
		}
		imp.Kind = ast.ImportStatic
		imp.Type = strings.Join(parts[:len(parts)-1], ".")
		imp.Field = parts[len(parts)-1]
		imp.Alias = imp.Field
	case star:
		imp.Kind = ast.ImportStar
		imp.Package = full + "."
	default:
		imp.Kind = ast.ImportRegular
		imp.Type = full
		imp.Alias = parts[len(parts)-1]
	}
	if alias != "" {
		imp.Alias = alias
	}
	return imp
}

func nameParts(n *parser.Node) []string {
	parts := make([]string, 0, len(n.Children))
	for _, c := range n.Children {
		parts = append(parts, c.TokenLiteral())
	}
	return parts
}

func qualifiedName(n *parser.Node) string {
	return strings.Join(nameParts(n), ".")
}
