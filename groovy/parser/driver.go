package parser

import (
	"context"
	"errors"
	"fmt"

	"github.com/dhamidi/grove/groovy/diag"
	"github.com/tliron/commonlog"
)

// logger is looked up on use so that a backend configured after package
// initialization takes effect.
func logger() commonlog.Logger {
	return commonlog.GetLogger("grove.parser")
}

// Output is a successfully built parse tree and the tokens it came from.
type Output struct {
	Root     *Node
	Tokens   []Token
	Comments []Token
	// Strategy is the strategy of the pass that produced Root.
	Strategy Strategy
}

// Driver builds concrete syntax trees. It tries an optimistic parse first and
// retries once with the exhaustive strategy when that fails.
type Driver struct {
	Cache     *Cache
	Lookahead int
	// Strategy set to StrategyExhaustive skips the optimistic pass.
	Strategy Strategy
}

func NewDriver(cache *Cache) *Driver {
	if cache == nil {
		cache = DefaultCache()
	}
	return &Driver{Cache: cache, Lookahead: DefaultLookahead}
}

// Build lexes and parses src. Every problem found is added to sink and the
// returned error is the sink's failure; a failed build never returns a tree.
func (d *Driver) Build(ctx context.Context, src []byte, sink *diag.Sink) (*Output, error) {
	tokens, comments := Tokenize(src)
	if lexical := lexicalErrors(tokens); len(lexical) > 0 {
		for _, tok := range lexical {
			sink.Add(diagnosticAt(diag.KindLexical, tok, tok.Message))
		}
		return nil, sink.Failure(fmt.Errorf("%d lexical errors", len(lexical)))
	}
	return d.BuildTokens(ctx, tokens, comments, sink)
}

// BuildTokens parses an already lexed token stream without lexical errors.
func (d *Driver) BuildTokens(ctx context.Context, tokens, comments []Token, sink *diag.Sink) (*Output, error) {
	release := d.Cache.Acquire()
	defer release()

	if d.Strategy != StrategyExhaustive {
		root, err := d.pass(ctx, tokens, StrategyOptimistic, nil)
		if err == nil {
			return &Output{Root: root, Tokens: tokens, Comments: comments, Strategy: StrategyOptimistic}, nil
		}
		var bail *Bailout
		if !errors.As(err, &bail) {
			return nil, sink.Failure(err)
		}
		logger().Debugf("optimistic parse failed at %s (%s), retrying exhaustively", bail.Token.Span.Start, bail.Message)
	}

	before := sink.Len()
	listener := ListenerFunc(func(tok Token, msg string) {
		sink.Add(diagnosticAt(diag.KindSyntax, tok, msg))
	})
	root, err := d.pass(ctx, tokens, StrategyExhaustive, listener)
	if err != nil {
		return nil, sink.Failure(err)
	}
	if n := sink.Len() - before; n > 0 {
		return nil, sink.Failure(fmt.Errorf("%d syntax errors", n))
	}
	return &Output{Root: root, Tokens: tokens, Comments: comments, Strategy: StrategyExhaustive}, nil
}

func (d *Driver) pass(ctx context.Context, tokens []Token, strategy Strategy, l Listener) (*Node, error) {
	// Each pass gets its own copy: splitting ">>" in generics rewrites
	// tokens in place.
	own := append([]Token(nil), tokens...)
	opts := []Option{
		WithStrategy(strategy),
		WithCache(d.Cache),
		WithContext(ctx),
	}
	if d.Lookahead > 0 {
		opts = append(opts, WithLookahead(d.Lookahead))
	}
	if l != nil {
		opts = append(opts, WithListener(l))
	}
	return New(own, opts...).ParseCompilationUnit()
}

func lexicalErrors(tokens []Token) []Token {
	var errs []Token
	for _, tok := range tokens {
		if tok.Kind == TokenError {
			errs = append(errs, tok)
		}
	}
	return errs
}

func diagnosticAt(kind diag.Kind, tok Token, msg string) diag.Diagnostic {
	end := tok.Span.End
	if end.Offset <= tok.Span.Start.Offset {
		end = tok.Span.Start
	}
	return diag.Diagnostic{
		Kind:    kind,
		Message: msg,
		Range: diag.Range{
			Start: point(tok.Span.Start),
			End:   point(end),
		},
	}
}

func point(p Position) diag.Point {
	return diag.Point{Line: p.Line, Column: p.Column, Offset: p.Offset}
}
