package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dhamidi/grove/groovy/parser"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func run(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"-q", "--no-color"}, args...))
	err = cmd.Execute()
	return out.String(), errOut.String(), err
}

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return dir
}

func TestParseCommand(t *testing.T) {
	dir := writeFiles(t, map[string]string{"a.groovy": "class A { private int x }\n"})
	path := filepath.Join(dir, "a.groovy")

	tests := []struct {
		format string
		check  func(t *testing.T, out string)
	}{
		{"json", func(t *testing.T, out string) {
			assert.Equal(t, "A", gjson.Get(out, "classes.0.name").String())
		}},
		{"yaml", func(t *testing.T, out string) {
			assert.True(t, strings.HasPrefix(out, "kind: Module\n"), out)
		}},
		{"tree", func(t *testing.T, out string) {
			assert.True(t, strings.HasPrefix(out, "Module ["), out)
		}},
		{"lines", func(t *testing.T, out string) {
			assert.Contains(t, out, "field\tx\tint\tprivate\n")
		}},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			out, _, err := run(t, "parse", "-f", tt.format, path)
			require.NoError(t, err)
			tt.check(t, out)
		})
	}
}

func TestParseCommandFailure(t *testing.T) {
	dir := writeFiles(t, map[string]string{"bad.groovy": "break\n"})
	path := filepath.Join(dir, "bad.groovy")

	_, stderr, err := run(t, "parse", path)
	require.EqualError(t, err, path+": compilation failed")
	assert.Contains(t, stderr, path+":1:1: error: break statement is only allowed inside loops or switches")
	assert.Contains(t, stderr, "  break\n  ^~~~~\n")
}

func TestCheckCommand(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"ok.groovy":      "println 'ok'",
		"sub/bad.groovy": "continue",
		"notes.txt":      "ignored",
	})

	_, stderr, err := run(t, "check", dir)
	require.EqualError(t, err, "1 of 2 units failed")
	assert.Contains(t, stderr, "bad.groovy:1:1: error: continue statement is only allowed inside loops")

	out, _, err := run(t, "check", filepath.Join(dir, "ok.groovy"))
	require.NoError(t, err)
	assert.Equal(t, "1 units ok\n", out)
}

func TestCheckCommandRejectsEmptyDirectory(t *testing.T) {
	dir := writeFiles(t, map[string]string{"notes.txt": "no sources"})
	_, _, err := run(t, "check", dir)
	assert.Error(t, err)
}

func TestStrategyFlag(t *testing.T) {
	dir := writeFiles(t, map[string]string{"a.groovy": "x = 1"})
	path := filepath.Join(dir, "a.groovy")

	_, _, err := run(t, "--strategy", "exhaustive", "parse", path)
	assert.NoError(t, err)

	_, _, err = run(t, "--strategy", "eager", "parse", path)
	assert.Error(t, err)
}

func TestTokensCommand(t *testing.T) {
	dir := writeFiles(t, map[string]string{"a.groovy": "x = 1 // one\n"})
	path := filepath.Join(dir, "a.groovy")

	out, _, err := run(t, "tokens", path)
	require.NoError(t, err)
	assert.NotContains(t, out, "// one")

	out, _, err = run(t, "tokens", "--comments", path)
	require.NoError(t, err)
	assert.Contains(t, out, `"// one"`)
}

func TestCSTCommand(t *testing.T) {
	dir := writeFiles(t, map[string]string{"a.groovy": "x = 1"})
	path := filepath.Join(dir, "a.groovy")

	out, _, err := run(t, "cst", "-f", "json", path)
	require.NoError(t, err)
	assert.True(t, gjson.Valid(out))
	assert.Equal(t, "CompilationUnit", gjson.Get(out, "kind").String())
}

func TestMergeTokens(t *testing.T) {
	tok := func(offset int, lit string) parser.Token {
		return parser.Token{Literal: lit, Span: parser.Span{Start: parser.Position{Offset: offset}}}
	}
	a := []parser.Token{tok(0, "x"), tok(2, "="), tok(10, "1")}
	b := []parser.Token{tok(4, "/* c */"), tok(12, "// d")}

	var got []string
	for _, t := range mergeTokens(a, b) {
		got = append(got, t.Literal)
	}
	assert.Equal(t, []string{"x", "=", "/* c */", "1", "// d"}, got)
}

func TestExpandSources(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/p/a.groovy", nil, 0o644))
	require.NoError(t, afero.WriteFile(fs, "/p/lib/b.groovy", nil, 0o644))
	require.NoError(t, afero.WriteFile(fs, "/p/lib/c.txt", nil, 0o644))
	require.NoError(t, afero.WriteFile(fs, "/q.groovy", nil, 0o644))

	got, err := expandSources(fs, []string{"/q.groovy", "/p"})
	require.NoError(t, err)
	assert.Equal(t, []string{"/q.groovy", "/p/a.groovy", "/p/lib/b.groovy"}, got)

	_, err = expandSources(fs, []string{"/missing"})
	assert.Error(t, err)
}
