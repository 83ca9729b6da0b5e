package parser

import (
	"errors"
	"testing"
)

func parseUnit(t *testing.T, src string) *Node {
	t.Helper()
	tokens, _ := Tokenize([]byte(src))
	p := New(tokens, WithStrategy(StrategyExhaustive))
	root, err := p.ParseCompilationUnit()
	if err != nil {
		t.Fatalf("parse %q: %v", src, err)
	}
	if p.ErrorCount() > 0 {
		t.Fatalf("parse %q: %d errors\n%s", src, p.ErrorCount(), root)
	}
	return root
}

func parseExpr(t *testing.T, src string) *Node {
	t.Helper()
	tokens, _ := Tokenize([]byte(src))
	p := New(tokens, WithStrategy(StrategyExhaustive))
	root, err := p.ParseExpression()
	if err != nil {
		t.Fatalf("parse %q: %v", src, err)
	}
	if p.ErrorCount() > 0 {
		t.Fatalf("parse %q: %d errors\n%s", src, p.ErrorCount(), root)
	}
	return root
}

func kindsOf(nodes []*Node) []NodeKind {
	var out []NodeKind
	for _, n := range nodes {
		out = append(out, n.Kind)
	}
	return out
}

func TestParseExpression(t *testing.T) {
	tests := []struct {
		input string
		kind  NodeKind
	}{
		{"42", KindLiteral},
		{"x", KindIdentifier},
		{"x + y", KindBinary},
		{"x * y + z", KindBinary},
		{"-x", KindPrefix},
		{"!x", KindPrefix},
		{"x++", KindPostfix},
		{"a ? b : c", KindTernary},
		{"a ?: b", KindElvis},
		{"x = 5", KindAssign},
		{"x += 5", KindAssign},
		{"(x)", KindParExpr},
		{"obj.field", KindPath},
		{"obj.method()", KindPath},
		{"obj?.method()", KindPath},
		{"a[0]", KindPath},
		{"[1, 2]", KindList},
		{"[]", KindList},
		{"[a: 1, b: 2]", KindMap},
		{"[:]", KindMap},
		{"{ it }", KindClosure},
		{"{ a, b -> a }", KindClosure},
		{"(a) -> a", KindLambda},
		{"x -> x", KindLambda},
		{"new Foo()", KindNew},
		{"new int[3]", KindNew},
		{"(String) x", KindCast},
		{"(int) -1", KindCast},
		{"x as String", KindAs},
		{"x instanceof String", KindInstanceof},
		{"x !instanceof String", KindInstanceof},
		{"1..2", KindBinary},
		{"a in b", KindBinary},
		{"foo 1, 2", KindCommand},
		{`"a${b}"`, KindGString},
		{`"a$b.c"`, KindGString},
		{"a.&b", KindPath},
		{"String::valueOf", KindPath},
		{"this", KindThis},
		{"int.class", KindPath},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			node := parseExpr(t, tt.input)
			if node.Kind != tt.kind {
				t.Errorf("got %v, want %v\n%s", node.Kind, tt.kind, node)
			}
		})
	}
}

func TestParsePrecedence(t *testing.T) {
	tests := []struct {
		input string
		op    TokenKind
		right NodeKind
	}{
		{"1 + 2 * 3", TokenPlus, KindBinary},
		{"1 * 2 + 3", TokenPlus, KindLiteral},
		{"a || b && c", TokenOr, KindBinary},
		{"a == b && c", TokenAnd, KindIdentifier},
		{"a = b = c", TokenAssign, KindAssign},
		{"a & b == c", TokenBitAnd, KindBinary},
		{"2 ** 3 ** 2", TokenPower, KindLiteral},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			node := parseExpr(t, tt.input)
			if node.TokenKind() != tt.op {
				t.Fatalf("got operator %v, want %v\n%s", node.TokenKind(), tt.op, node)
			}
			if got := node.Children[1].Kind; got != tt.right {
				t.Errorf("right operand: got %v, want %v\n%s", got, tt.right, node)
			}
		})
	}
}

func TestParseUnaryMinusBindsLooserThanPower(t *testing.T) {
	node := parseExpr(t, "-2 ** 2")
	if node.Kind != KindPrefix || node.Children[0].TokenKind() != TokenPower {
		t.Errorf("got\n%s", node)
	}
	node = parseExpr(t, "!a ** b")
	if node.Kind != KindBinary || node.Children[0].Kind != KindPrefix {
		t.Errorf("got\n%s", node)
	}
}

func TestParseStatements(t *testing.T) {
	tests := []struct {
		input string
		kind  NodeKind
	}{
		{"package a.b", KindPackageDecl},
		{"import a.b.C", KindImportDecl},
		{"import static a.b.C.*", KindImportDecl},
		{"import a.b.C as D", KindImportDecl},
		{"class A {}", KindClassDecl},
		{"interface I {}", KindClassDecl},
		{"trait T {}", KindClassDecl},
		{"enum E { A, B }", KindClassDecl},
		{"@interface Ann {}", KindClassDecl},
		{"@Deprecated class A {}", KindClassDecl},
		{"def f() {}", KindMethodDecl},
		{"void f(int a, String... rest) {}", KindMethodDecl},
		{"static <T> T id(T t) { t }", KindMethodDecl},
		{"int x = 1", KindVariableDecl},
		{"def x = 1", KindVariableDecl},
		{"String s", KindVariableDecl},
		{"final a = 1, b = 2", KindVariableDecl},
		{"List<List<String>> xs = []", KindVariableDecl},
		{"def (a, b) = [1, 2]", KindVariableDecl},
		{"foo bar", KindExprStmt},
		{"x = 1", KindExprStmt},
		{"if (a) b else c", KindIfStmt},
		{"if (a) {\n} else if (b) {\n}", KindIfStmt},
		{"for (i in 0..3) {}", KindForStmt},
		{"for (String s : list) {}", KindForStmt},
		{"for (int i = 0; i < 3; i++) {}", KindForStmt},
		{"for (;;) {}", KindForStmt},
		{"while (true) {}", KindWhileStmt},
		{"do { } while (x)", KindDoWhileStmt},
		{"switch (x) { case 1: break; default: y }", KindSwitchStmt},
		{"try { } catch (e) { } finally { }", KindTryStmt},
		{"try { } catch (IOException | RuntimeException e) { }", KindTryStmt},
		{"try (def r = open()) { }", KindTryStmt},
		{"assert x : 'm'", KindAssertStmt},
		{"return", KindReturnStmt},
		{"return x", KindReturnStmt},
		{"throw e", KindThrowStmt},
		{"outer: for (x in y) { continue outer }", KindLabeledStmt},
		{"synchronized (x) { }", KindSyncStmt},
		{"{ a }", KindBlock},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			root := parseUnit(t, tt.input)
			if len(root.Children) == 0 {
				t.Fatalf("no statements\n%s", root)
			}
			if got := root.Children[0].Kind; got != tt.kind {
				t.Errorf("got %v, want %v\n%s", got, tt.kind, root)
			}
		})
	}
}

func TestParseClassMembers(t *testing.T) {
	src := `class A<T> extends B implements C, D {
	int x; String name = 'n'
	void m(int a) { }
	A() { }
	static { }
	def p
	private static final Map<String, Integer> m = [:]
	class Inner { }
}`
	root := parseUnit(t, src)
	decl := root.Children[0]
	body := decl.FirstChildOfKind(KindClassBody)
	if body == nil {
		t.Fatalf("no class body\n%s", root)
	}
	want := []NodeKind{
		KindVariableDecl, KindVariableDecl, KindMethodDecl, KindMethodDecl,
		KindInitializer, KindVariableDecl, KindVariableDecl, KindClassDecl,
	}
	got := kindsOf(body.Children)
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range got {
		if got[i] != want[i] {
			t.Errorf("member %d: got %v, want %v", i, got[i], want[i])
		}
	}
	if decl.FirstChildOfKind(KindTypeParameters) == nil ||
		decl.FirstChildOfKind(KindExtends) == nil ||
		len(decl.FirstChildOfKind(KindImplements).Children) != 2 {
		t.Errorf("class header:\n%s", decl)
	}
}

func TestParseEnumBody(t *testing.T) {
	root := parseUnit(t, "enum Color {\n  RED('r'), GREEN { String toString() { 'g' } }\n  String code\n}")
	body := root.Children[0].FirstChildOfKind(KindClassBody)
	got := kindsOf(body.Children)
	want := []NodeKind{KindEnumConstant, KindEnumConstant, KindVariableDecl}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	if body.Children[0].FirstChildOfKind(KindArguments) == nil {
		t.Errorf("RED has no arguments")
	}
	if body.Children[1].FirstChildOfKind(KindClassBody) == nil {
		t.Errorf("GREEN has no body")
	}
}

func TestParseCommandChain(t *testing.T) {
	node := parseExpr(t, "move a by b")
	want := []NodeKind{KindIdentifier, KindCommandArgs, KindCommandArgument}
	got := kindsOf(node.Children)
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v\n%s", got, want, node)
	}
	arg := node.Children[2]
	if arg.Children[0].TokenLiteral() != "by" || arg.Children[1].Kind != KindCommandArgs {
		t.Errorf("got\n%s", arg)
	}

	node = parseExpr(t, "foo(1) bar 2")
	got = kindsOf(node.Children)
	if len(got) != 2 || got[0] != KindPath || got[1] != KindCommandArgument {
		t.Errorf("got %v\n%s", got, node)
	}

	node = parseExpr(t, "foo a: 1, 2")
	args := node.Children[1]
	if args.Children[0].Kind != KindNamedArg || args.Children[1].Kind != KindLiteral {
		t.Errorf("got\n%s", node)
	}
}

func TestParseNewlines(t *testing.T) {
	tests := []struct {
		input      string
		statements int
	}{
		{"a\nb", 2},
		{"a = 1\n-1", 2},
		{"a = 1 +\n 2", 1},
		{"x = a\n  .b()", 1},
		{"x = a &&\n b", 1},
		{"x = a\n ? b\n : c", 1},
		{"foo(1,\n2)", 1},
		{"foo\n{ x }", 2},
		{"list.each {\n println it\n}", 1},
		{"println 'a'; println 'b'", 2},
		{"x = 1\nprintln x", 2},
		{"return\nx", 2},
		{"return x\ny", 2},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			root := parseUnit(t, tt.input)
			if len(root.Children) != tt.statements {
				t.Errorf("got %d statements, want %d\n%s", len(root.Children), tt.statements, root)
			}
		})
	}
}

func TestParseGString(t *testing.T) {
	node := parseExpr(t, `"a ${b + 1} $c.d e ${-> f} ${}"`)
	want := []NodeKind{
		KindGStringText, KindGStringValue, KindGStringText, KindGStringPath,
		KindGStringText, KindGStringValue, KindGStringText, KindGStringValue, KindGStringText,
	}
	got := kindsOf(node.Children)
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v\n%s", got, want, node)
	}
	for i := range got {
		if got[i] != want[i] {
			t.Errorf("part %d: got %v, want %v", i, got[i], want[i])
		}
	}
	if node.Children[5].Children[0].Kind != KindClosure {
		t.Errorf("lazy value is not a closure\n%s", node.Children[5])
	}
	if len(node.Children[7].Children) != 0 {
		t.Errorf("empty value has children\n%s", node.Children[7])
	}
}

func TestParseTupleAssignment(t *testing.T) {
	node := parseExpr(t, "(a, b) = [1, 2]")
	if node.Kind != KindAssign || node.Children[0].Kind != KindParExpr || len(node.Children[0].Children) != 2 {
		t.Errorf("got\n%s", node)
	}
}

func TestParseAnonymousClass(t *testing.T) {
	node := parseExpr(t, "new Runnable() { void run() { } }")
	if node.FirstChildOfKind(KindArguments) == nil || node.FirstChildOfKind(KindClassBody) == nil {
		t.Errorf("got\n%s", node)
	}
}

func TestParseOptimisticBailout(t *testing.T) {
	tokens, _ := Tokenize([]byte("foo(1, 2"))
	_, err := New(tokens).ParseCompilationUnit()
	var bail *Bailout
	if !errors.As(err, &bail) {
		t.Fatalf("got %v, want bailout", err)
	}
	if bail.Message != "expected ')' but found end of file" {
		t.Errorf("got %q", bail.Message)
	}
}

func TestParseExhaustiveRecovers(t *testing.T) {
	src := "a = 1 )\nb = [1 2]\nc = 3"
	tokens, _ := Tokenize([]byte(src))
	var messages []string
	p := New(tokens,
		WithStrategy(StrategyExhaustive),
		WithListener(ListenerFunc(func(tok Token, msg string) {
			messages = append(messages, msg)
		})),
	)
	root, err := p.ParseCompilationUnit()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ErrorCount() == 0 || len(messages) != p.ErrorCount() {
		t.Fatalf("got %d errors and %d messages", p.ErrorCount(), len(messages))
	}
	if len(root.Errors()) == 0 {
		t.Errorf("no error nodes\n%s", root)
	}
	last := root.Children[len(root.Children)-1]
	if last.Kind != KindExprStmt {
		t.Errorf("last statement: got %v\n%s", last.Kind, root)
	}
}

func TestParseSpans(t *testing.T) {
	root := parseUnit(t, "def x = 1\nfoo(x)")
	stmt := root.Children[1]
	if stmt.Span.Start.Line != 2 || stmt.Span.Start.Column != 1 || stmt.Span.End.Column != 7 {
		t.Errorf("got %s", stmt.StringWithPositions())
	}
	if root.Span.End.Offset != len("def x = 1\nfoo(x)") {
		t.Errorf("unit ends at %d", root.Span.End.Offset)
	}
}

func TestParseTrailingCommaInArguments(t *testing.T) {
	tests := []string{"foo(1,)", "foo 1,"}

	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			tokens, _ := Tokenize([]byte(input))
			var messages []string
			p := New(tokens,
				WithStrategy(StrategyExhaustive),
				WithListener(ListenerFunc(func(tok Token, msg string) {
					messages = append(messages, msg)
				})),
			)
			if _, err := p.ParseCompilationUnit(); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(messages) == 0 || messages[0] != "Expression expected" {
				t.Errorf("got %q, want %q", messages, "Expression expected")
			}
		})
	}
}

func TestParseGStringBlockIsClosure(t *testing.T) {
	node := parseExpr(t, `"${a; b}"`)
	value := node.FirstChildOfKind(KindGStringValue)
	if value == nil || len(value.Children) != 1 || value.Children[0].Kind != KindClosure {
		t.Errorf("got\n%s", node)
	}
}

func TestParseTupleDeclarationInClassBody(t *testing.T) {
	root := parseUnit(t, "class A { def (a, b) = [1, 2] }")
	body := root.Children[0].FirstChildOfKind(KindClassBody)
	if body == nil || len(body.Children) != 1 {
		t.Fatalf("got\n%s", root)
	}
	decl := body.Children[0]
	if decl.Kind != KindVariableDecl || decl.FirstChildOfKind(KindTupleDeclarator) == nil {
		t.Errorf("got\n%s", decl)
	}
}
