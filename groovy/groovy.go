// Package groovy parses Groovy compilation units into the typed tree of
// package ast.
//
// Parse builds a single unit. ParseAll builds many units concurrently, each
// one owned by a single goroutine; the only state the units share is the
// prediction cache of package parser.
package groovy

import (
	"context"
	"runtime"

	"github.com/dhamidi/grove/groovy/ast"
	"github.com/dhamidi/grove/groovy/builder"
	"github.com/dhamidi/grove/groovy/diag"
	"github.com/dhamidi/grove/groovy/parser"
	"github.com/tliron/commonlog"
)

func logger() commonlog.Logger {
	return commonlog.GetLogger("grove.groovy")
}

// Result is a successfully built compilation unit.
type Result struct {
	Unit   string
	Module *ast.Module
	// Tokens is the significant token stream, Comments the comment tokens
	// in source order.
	Tokens   []parser.Token
	Comments []parser.Token
	// Strategy is the parser strategy that produced the tree.
	Strategy parser.Strategy
}

type options struct {
	cache     *parser.Cache
	strategy  parser.Strategy
	lookahead int
	workers   int
}

type Option func(*options)

// WithCache shares cache between parses instead of the process-wide one.
func WithCache(cache *parser.Cache) Option {
	return func(o *options) {
		o.cache = cache
	}
}

// WithStrategy set to parser.StrategyExhaustive skips the optimistic pass.
func WithStrategy(s parser.Strategy) Option {
	return func(o *options) {
		o.strategy = s
	}
}

func WithLookahead(n int) Option {
	return func(o *options) {
		o.lookahead = n
	}
}

// WithWorkers bounds the units ParseAll builds at the same time. Values
// below one mean one worker per CPU.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

func newOptions(opts []Option) *options {
	o := &options{lookahead: parser.DefaultLookahead}
	for _, opt := range opts {
		opt(o)
	}
	if o.workers < 1 {
		o.workers = runtime.GOMAXPROCS(0)
	}
	return o
}

func (o *options) driver() *parser.Driver {
	d := parser.NewDriver(o.cache)
	d.Strategy = o.strategy
	if o.lookahead > 0 {
		d.Lookahead = o.lookahead
	}
	return d
}

// Parse builds the unit called name from src. The name appears in
// diagnostics and decides the script class name. Every error returned is a
// *diag.CompilationFailed and a failed unit never yields a module.
func Parse(ctx context.Context, name string, src []byte, opts ...Option) (*Result, error) {
	return parse(ctx, newOptions(opts), name, src)
}

func parse(ctx context.Context, o *options, name string, src []byte) (*Result, error) {
	sink := diag.NewSink(name)
	if err := ctx.Err(); err != nil {
		return nil, sink.Failure(err)
	}

	out, err := o.driver().Build(ctx, src, sink)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, sink.Failure(err)
	}

	mod, err := builder.Build(out.Root, src, sink)
	if err != nil {
		return nil, err
	}
	logger().Debugf("%s: parsed with the %s strategy", name, out.Strategy)

	return &Result{
		Unit:     name,
		Module:   mod,
		Tokens:   out.Tokens,
		Comments: out.Comments,
		Strategy: out.Strategy,
	}, nil
}
