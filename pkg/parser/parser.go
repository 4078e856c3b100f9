// Package parser implements the rowcalc formula parser.
//
// The parser uses a hand-written recursive descent approach built on
// Pratt's "Top Down Operator Precedence" algorithm. Two precedence
// regimes are supported:
//
//   - Flat (default): every binary operator shares a single precedence
//     level and associates left-to-right, so 2+3*4 parses as (2+3)*4.
//     Parenthesization is the only way to force evaluation order.
//     Existing formulas depend on this reading, so it stays the default.
//   - Climbing (opt-in via WithPrecedenceClimbing): conventional
//     operator tiering, || < && < comparisons < +,- < *,/.
//
// # Example
//
//	expr, err := parser.Parse(`SUM({data.value}, 10)`)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	ast := expr.AST()
package parser

import (
	"github.com/sandrolain/rowcalc/pkg/types"
)

// Parse parses a formula and returns the compiled Expression.
//
// The function tokenizes the input, builds an AST, and validates the
// syntax. Errors carry a code and the byte position of the offending
// token; the parser does not attempt error recovery.
func Parse(input string) (*types.Expression, error) {
	p := NewParser(input)
	return p.Parse()
}

// Compile is an alias for Parse, provided for API consistency.
func Compile(input string, opts ...CompileOption) (*types.Expression, error) {
	p := NewParser(input, opts...)
	return p.Parse()
}

// CompileOption configures compilation behavior.
type CompileOption func(*CompileOptions)

// CompileOptions holds parser configuration.
type CompileOptions struct {
	// MaxDepth limits expression nesting to prevent stack overflow.
	MaxDepth int
	// PrecedenceClimbing enables conventional operator precedence
	// tiering instead of the default flat left-to-right chain.
	PrecedenceClimbing bool
}

// WithMaxDepth sets the maximum parsing depth.
func WithMaxDepth(depth int) CompileOption {
	return func(opts *CompileOptions) {
		opts.MaxDepth = depth
	}
}

// WithPrecedenceClimbing switches the parser to conventional operator
// precedence. The default (false) keeps the flat single-level chain.
func WithPrecedenceClimbing(enable bool) CompileOption {
	return func(opts *CompileOptions) {
		opts.PrecedenceClimbing = enable
	}
}
