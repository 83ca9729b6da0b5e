// Package parser builds concrete syntax trees (CST) for Groovy source code.
//
// # Overview
//
// The lexer turns bytes into tokens, the recursive-descent parser turns tokens
// into a uniform tree of Nodes, and the Driver ties both together:
//
//	┌─────────────┐     ┌─────────────┐     ┌─────────────┐
//	│   Input     │────▶│   Lexer     │────▶│   Parser    │
//	│  (bytes)    │     │  (tokens)   │     │   (CST)     │
//	└─────────────┘     └─────────────┘     └─────────────┘
//	                           │                   │
//	                           ▼                   ▼
//	                    ┌─────────────┐     ┌─────────────┐
//	                    │  Comments   │     │ Prediction  │
//	                    │ (side list) │     │   Cache     │
//	                    └─────────────┘     └─────────────┘
//
// # Lexical Modes
//
// Groovy needs more lexer state than Java:
//
//   - Interpolated strings ("a $b ${c}") are split into GStringBegin,
//     GStringPart and GStringEnd tokens around the embedded expressions.
//   - A slash starts a slashy string where a value cannot appear, and is a
//     division operator everywhere else.
//   - Line breaks end statements, except inside parentheses and brackets.
//     Tokens carry NewlineBefore instead of separate newline tokens.
//
// # Prediction
//
// Groovy has several decisions that need unbounded lookahead: whether a
// statement is a declaration or an expression, whether a parenthesized
// expression is a cast, whether a brace opens a closure with parameters.
// These are answered by predicates over a lookahead window.
//
// Two strategies exist:
//
//	StrategyOptimistic  bounded lookahead, cached decisions, stops at the
//	                    first syntax error with a *Bailout
//	StrategyExhaustive  unbounded lookahead, reports every error to the
//	                    listeners and recovers with error nodes
//
// The Driver runs the optimistic strategy first and retries once with the
// exhaustive one. Lexical errors are never retried.
//
// # Prediction Cache
//
// Decisions are cached in a trie keyed by token classes (see tokenClass).
// A Cache is shared by every parse that uses it: parses hold the read side of
// its lock for their whole run, Clear takes the write side.
//
//	cache := parser.NewCache()
//	d := parser.NewDriver(cache)
//	out, err := d.Build(ctx, src, diag.NewSink("build.groovy"))
//	...
//	cache.Clear() // blocks until in-flight parses finish
//
// # Node Types
//
// The CST uses a uniform node structure:
//
//	type Node struct {
//	    Kind     NodeKind
//	    Span     Span
//	    Children []*Node
//	    Token    *Token
//	    Error    *Error
//	}
//
// The comment next to each NodeKind constant lists the children it holds.
//
// # Thread Safety
//
// A Parser is not safe for concurrent use. A Driver and a Cache are.
package parser
