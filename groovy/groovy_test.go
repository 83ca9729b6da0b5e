package groovy

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/dhamidi/grove/groovy/diag"
	"github.com/dhamidi/grove/groovy/parser"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestParse(t *testing.T) {
	src := []byte("// greeting\nclass A { def hi() { 'hi' } }\nprintln new A().hi()\n")
	res, err := Parse(context.Background(), "hello.groovy", src)
	require.NoError(t, err)

	assert.Equal(t, "hello.groovy", res.Unit)
	require.NotNil(t, res.Module.Class("A"))
	require.NotNil(t, res.Module.ScriptClass)
	assert.Equal(t, "hello", res.Module.ScriptClass.Name)
	require.Len(t, res.Comments, 1)
	assert.Equal(t, "// greeting", res.Comments[0].Literal)
	assert.NotEmpty(t, res.Tokens)
}

func TestParseFailures(t *testing.T) {
	tests := []struct {
		name string
		src  string
		kind diag.Kind
	}{
		{"violation", "break", diag.KindViolation},
		{"syntax", "x = (", diag.KindSyntax},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Parse(context.Background(), "bad.groovy", []byte(tt.src))
			assert.Nil(t, res)
			var failed *diag.CompilationFailed
			require.True(t, errors.As(err, &failed), "got %T, want *diag.CompilationFailed", err)
			assert.Equal(t, "bad.groovy", failed.Unit)
			require.NotEmpty(t, failed.Diagnostics)
			assert.Equal(t, tt.kind, failed.Diagnostics[0].Kind)
		})
	}
}

func TestParseCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Parse(ctx, "a.groovy", []byte("x = 1"))
	var failed *diag.CompilationFailed
	require.True(t, errors.As(err, &failed))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestParseExhaustiveStrategy(t *testing.T) {
	res, err := Parse(context.Background(), "a.groovy", []byte("x = 1"), WithStrategy(parser.StrategyExhaustive))
	require.NoError(t, err)
	assert.Equal(t, parser.StrategyExhaustive, res.Strategy)
}

func TestParseAll(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "src/a.groovy", []byte("class A {}"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "src/b.groovy", []byte("break"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "src/c.groovy", []byte("println 'c'"), 0o644))

	paths := []string{"src/a.groovy", "src/b.groovy", "src/missing.groovy", "src/c.groovy"}
	outcomes := ParseAll(context.Background(), fs, paths, WithWorkers(2))
	require.Len(t, outcomes, len(paths))

	for i, out := range outcomes {
		assert.Equal(t, paths[i], out.Path)
	}
	assert.NoError(t, outcomes[0].Err)
	assert.Error(t, outcomes[1].Err)
	assert.Error(t, outcomes[2].Err)
	assert.NoError(t, outcomes[3].Err)
	assert.Nil(t, outcomes[1].Result)

	var failed *diag.CompilationFailed
	require.True(t, errors.As(outcomes[2].Err, &failed))
	assert.Equal(t, "src/missing.groovy", failed.Unit)

	err := Failures(outcomes)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "src/b.groovy")
	assert.Contains(t, err.Error(), "src/missing.groovy")

	assert.NoError(t, Failures(outcomes[:1]))
}

func TestConcurrentParsesAndClear(t *testing.T) {
	defer goleak.VerifyNone(t)

	cache := parser.NewCache()
	src := []byte(`
class Point {
    int x, y
    Point plus(Point o) { new Point(x: x + o.x, y: y + o.y) }
}
def p = new Point(x: 1, y: 2) + new Point(x: 3, y: 4)
assert p.x == 4
items.each { println it }
`)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var wg sync.WaitGroup
	errs := make(chan error, 64)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 8; j++ {
				name := fmt.Sprintf("unit%d_%d.groovy", i, j)
				if _, err := Parse(ctx, name, src, WithCache(cache)); err != nil {
					errs <- err
					return
				}
			}
		}()
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		for j := 0; j < 16; j++ {
			cache.Clear()
		}
	}()
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Error(err)
	}
}

func TestConcurrentUnitsAreIndependent(t *testing.T) {
	fs := afero.NewMemMapFs()
	var paths []string
	for i := 0; i < 20; i++ {
		path := fmt.Sprintf("u%d.groovy", i)
		src := fmt.Sprintf("def a = new Object() {}\ndef b = new Object() {}\nclass C%d {}", i)
		require.NoError(t, afero.WriteFile(fs, path, []byte(src), 0o644))
		paths = append(paths, path)
	}

	outcomes := ParseAll(context.Background(), fs, paths, WithWorkers(4))
	for i, out := range outcomes {
		require.NoError(t, out.Err)
		mod := out.Result.Module
		script := fmt.Sprintf("u%d", i)
		var names []string
		for _, c := range mod.Classes {
			if c.Anonymous {
				names = append(names, c.Name)
			}
		}
		assert.Equal(t, []string{script + "$1", script + "$2"}, names)
	}
}

func TestLoadConfig(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want Config
		err  bool
	}{
		{
			name: "defaults",
			env:  map[string]string{},
			want: DefaultConfig(),
		},
		{
			name: "overrides",
			env: map[string]string{
				"GROVE_WORKERS":          "3",
				"GROVE_STRATEGY":         "exhaustive",
				"GROVE_LOG_LEVEL":        "debug",
				"GROVE_DEADLOCK_TIMEOUT": "5s",
			},
			want: Config{Workers: 3, Strategy: "exhaustive", LogLevel: "debug", DeadlockTimeout: 5 * time.Second},
		},
		{
			name: "bad strategy",
			env:  map[string]string{"GROVE_STRATEGY": "greedy"},
			err:  true,
		},
		{
			name: "bad workers",
			env:  map[string]string{"GROVE_WORKERS": "many"},
			err:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conf, err := LoadConfig(func(key string) (string, bool) {
				v, ok := tt.env[key]
				return v, ok
			})
			if tt.err {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, conf)
		})
	}
}

func TestVerbosity(t *testing.T) {
	tests := []struct {
		level string
		want  int
	}{
		{"", 0},
		{"error", -2},
		{"INFO", 1},
		{"debug", 2},
		{"3", 3},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			got, err := Verbosity(tt.level)
			require.NoError(t, err)
			if got != tt.want {
				t.Errorf("got %d, want %d", got, tt.want)
			}
		})
	}

	_, err := Verbosity("loud")
	assert.Error(t, err)
}
