package builder

import (
	"testing"

	"github.com/dhamidi/grove/groovy/ast"
	"github.com/dhamidi/grove/groovy/syntax"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssertWithoutMessage(t *testing.T) {
	mod := build(t, "assert x == 1")
	require.Len(t, mod.Statements.Stmts, 1)
	s, ok := mod.Statements.Stmts[0].(*ast.AssertStmt)
	require.True(t, ok)
	assert.Nil(t, s.Message)

	require.NotNil(t, s.Cond)
	bin, ok := s.Cond.Expr.(*ast.BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, syntax.OpEqual, bin.Op)
	assert.Equal(t, bin.Start, s.Cond.Start)
	assert.Equal(t, bin.End, s.Cond.End)
}

func TestAssertWithMessage(t *testing.T) {
	mod := build(t, "assert x, 'no x'")
	s := mod.Statements.Stmts[0].(*ast.AssertStmt)
	msg, ok := s.Message.(*ast.ConstantExpr)
	require.True(t, ok)
	assert.Equal(t, "no x", msg.Value)
}

func TestAssertRejectsAssignment(t *testing.T) {
	d := violation(t, "assert x = 1")
	assert.Equal(t, "Assignment expression is not allowed in the assert statement", d.Message)
}

func TestJumpOutsideLoop(t *testing.T) {
	tests := []struct {
		input      string
		message    string
		start, end int
		line, col  int
	}{
		{"break", "break statement is only allowed inside loops or switches", 0, 5, 1, 1},
		{"x = 1\nbreak", "break statement is only allowed inside loops or switches", 6, 11, 2, 1},
		{"def f() {\n  break\n}", "break statement is only allowed inside loops or switches", 12, 17, 2, 3},
		{"continue", "continue statement is only allowed inside loops", 0, 8, 1, 1},
		{"switch (x) { case 1: continue }", "continue statement is only allowed inside loops", 21, 29, 1, 22},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			d := violation(t, tt.input)
			assert.Equal(t, tt.message, d.Message)
			assert.Equal(t, tt.start, d.Range.Start.Offset)
			assert.Equal(t, tt.end, d.Range.End.Offset)
			assert.Equal(t, tt.line, d.Range.Start.Line)
			assert.Equal(t, tt.col, d.Range.Start.Column)
		})
	}
}

func TestJumpInsideLoop(t *testing.T) {
	tests := []string{
		"for (i in xs) { break }",
		"for (int i = 0; i < 3; i++) { continue }",
		"while (true) { break }",
		"do { continue } while (x)",
		"switch (x) { case 1: break }",
		"outer: for (i in xs) { for (j in ys) { break outer } }",
	}

	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			build(t, input)
		})
	}
}

func TestBreakLabel(t *testing.T) {
	mod := build(t, "outer: while (true) { break outer }")
	breaks := ast.Collect[*ast.BreakStmt](mod)
	require.Len(t, breaks, 1)
	assert.Equal(t, "outer", breaks[0].Label)
}

func TestSwitchDefaults(t *testing.T) {
	tests := []struct {
		input   string
		message string
	}{
		{"switch (x) { default: break; case 1: break }", "default case should appear at last"},
		{"switch (x) { default: break; default: break }", "switch statement should have only one default case, which should appear at last"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			d := violation(t, tt.input)
			assert.Equal(t, tt.message, d.Message)
		})
	}
}

func TestSwitchGroups(t *testing.T) {
	mod := build(t, "switch (x) { case 1: case 2: y(); break; default: z() }")
	s, ok := mod.Statements.Stmts[0].(*ast.SwitchStmt)
	require.True(t, ok)
	require.Len(t, s.Cases, 2)

	_, empty := s.Cases[0].Body.(*ast.EmptyStmt)
	assert.True(t, empty, "first case of a group has no body")
	body, ok := s.Cases[1].Body.(*ast.BlockStmt)
	require.True(t, ok)
	assert.Len(t, body.Stmts, 2)
	assert.Equal(t, s.Cases[0].Start, s.Cases[1].Start)

	def, ok := s.Default.(*ast.BlockStmt)
	require.True(t, ok)
	assert.Len(t, def.Stmts, 1)
}

func TestTryRequiresHandler(t *testing.T) {
	d := violation(t, "try { x() }")
	assert.Equal(t, "Either a catch or finally clause or both is required for a try-catch-finally statement", d.Message)

	build(t, "try { x() } finally { y() }")
	build(t, "try (def r = open()) { r.read() }")
}

func TestMultiCatch(t *testing.T) {
	mod := build(t, "try { x() } catch (IOException | RuntimeException e) { log(e) }")
	s := mod.Statements.Stmts[0].(*ast.TryStmt)
	require.Len(t, s.Catches, 2)
	assert.Equal(t, "IOException", s.Catches[0].Param.Type.Name)
	assert.Equal(t, "RuntimeException", s.Catches[1].Param.Type.Name)
	assert.Same(t, s.Catches[0].Body, s.Catches[1].Body)
	assert.Equal(t, "e", s.Catches[0].Param.Name)
}

func TestTryResources(t *testing.T) {
	tests := []struct {
		input   string
		message string
	}{
		{"try (def a = x(), b = y()) { }", "Multi resources can not be declared in one statement"},
		{"try (x()) { }", "Only variable declarations are allowed to declare resource"},
		{"try (a.b = x()) { }", "Only variable declarations are allowed to declare resource"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			d := violation(t, tt.input)
			assert.Equal(t, tt.message, d.Message)
		})
	}

	mod := build(t, "try (r = open()) { }")
	s := mod.Statements.Stmts[0].(*ast.TryStmt)
	require.Len(t, s.Resources, 1)
	decl, ok := s.Resources[0].Expr.(*ast.DeclarationExpr)
	require.True(t, ok)
	assert.Equal(t, "r", decl.Left.(*ast.VariableExpr).Name)
}

func TestClassicForLoop(t *testing.T) {
	mod := build(t, "for (int i = 0, j = 1; i < 3; i++, j++) { }")
	s := mod.Statements.Stmts[0].(*ast.ForStmt)
	assert.Equal(t, ast.ForLoopDummy, s.Var.Name)
	list, ok := s.Collection.(*ast.ClosureListExpr)
	require.True(t, ok)
	require.Len(t, list.Exprs, 3)
	init, ok := list.Exprs[0].(*ast.ClosureListExpr)
	require.True(t, ok)
	assert.Len(t, init.Exprs, 2)
}

func TestForInLoop(t *testing.T) {
	mod := build(t, "for (String s in names) { println s }")
	s := mod.Statements.Stmts[0].(*ast.ForStmt)
	assert.Equal(t, "s", s.Var.Name)
	assert.Equal(t, "String", s.Var.Type.Name)
	assert.False(t, s.Var.Dynamic)
	v, ok := s.Collection.(*ast.VariableExpr)
	require.True(t, ok)
	assert.Equal(t, "names", v.Name)
}

func TestIfWithoutElse(t *testing.T) {
	mod := build(t, "if (x) y()")
	s := mod.Statements.Stmts[0].(*ast.IfStmt)
	_, ok := s.Else.(*ast.EmptyStmt)
	assert.True(t, ok)
	_, ok = s.Cond.Expr.(*ast.VariableExpr)
	assert.True(t, ok)
}

func TestLocalVariables(t *testing.T) {
	mod := build(t, "int a = 1, b[] = null\ndef (x, String y) = pair()")
	require.Len(t, mod.Statements.Stmts, 3)

	first := mod.Statements.Stmts[0].(*ast.ExprStmt).Expr.(*ast.DeclarationExpr)
	a := first.Left.(*ast.VariableExpr)
	assert.Equal(t, "a", a.Name)
	assert.Equal(t, "int", a.Type.Name)

	second := mod.Statements.Stmts[1].(*ast.ExprStmt).Expr.(*ast.DeclarationExpr)
	assert.Equal(t, 1, second.Left.(*ast.VariableExpr).Type.Dims)

	tuple := mod.Statements.Stmts[2].(*ast.ExprStmt).Expr.(*ast.DeclarationExpr)
	vars, ok := tuple.Left.(*ast.ArgumentListExpr)
	require.True(t, ok)
	require.Len(t, vars.Args, 2)
	assert.True(t, vars.Args[0].(*ast.VariableExpr).Dynamic)
	assert.Equal(t, "String", vars.Args[1].(*ast.VariableExpr).Type.Name)
}

func TestClassInBlockRejected(t *testing.T) {
	d := violation(t, "if (x) { class A {} }")
	assert.Equal(t, "Class definition not expected here", d.Message)
}
