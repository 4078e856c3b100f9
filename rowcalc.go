// Package rowcalc provides an embeddable formula engine for tabular
// data tools.
//
// Users type expressions like SUM({data.value}, 10) or
// IF({status}=="Done", "ok", "pending") into cells or a formula
// tester; rowcalc tokenizes, parses, and evaluates them against a row
// of typed data, optionally resolving references into other records
// through a pluggable store.
//
// # Quick Start
//
//	// One-shot evaluation
//	result, err := rowcalc.Eval(`SUM(1, 2, 3)`, nil)
//
//	// An engine reuses parse and result caches across calls
//	engine := rowcalc.New(rowcalc.WithStore(myStore))
//	result, err := engine.Evaluate(ctx, `{price} * {qty}`, row)
//
// # Error model
//
// The error return covers the structural channel only: lexical and
// syntactic failures, recursion-depth overflow, and context
// cancellation. Runtime anomalies — division by zero, unknown function
// names, failed coercions — are successes with an unusual payload:
// in-band sentinel values ("#DIV/0", "#UNKNOWN_FUNC(NAME)", NaN, nil)
// that compose through the rest of the expression.
//
// # Caching
//
// Evaluate memoizes through two bounded LRU caches: a parse cache
// keyed by formula text and a result cache keyed by formula plus the
// JSON-serialized context. The result cache cannot detect staleness on
// its own — hosts must call ClearCache whenever record data changes.
//
// # More Information
//
// For detailed documentation, see:
//   - Parser: github.com/sandrolain/rowcalc/pkg/parser
//   - Evaluator: github.com/sandrolain/rowcalc/pkg/evaluator
//   - Store: github.com/sandrolain/rowcalc/pkg/store
//   - Types: github.com/sandrolain/rowcalc/pkg/types
package rowcalc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sandrolain/rowcalc/pkg/cache"
	"github.com/sandrolain/rowcalc/pkg/evaluator"
	"github.com/sandrolain/rowcalc/pkg/parser"
	"github.com/sandrolain/rowcalc/pkg/store"
	"github.com/sandrolain/rowcalc/pkg/types"
)

// Version returns the current version of rowcalc.
func Version() string {
	return "v0.1.0-dev"
}

// result is a memoized evaluation outcome: the final value or the
// structural error, whichever the computation produced.
type result struct {
	value interface{}
	err   error
}

// Engine is a formula engine instance with its collaborators injected
// at construction time. It is safe for concurrent use.
type Engine struct {
	opts        Options
	ev          *evaluator.Evaluator
	parserOpts  []parser.CompileOption
	parseCache  *cache.Cache[*types.Expression]
	resultCache *cache.Cache[result]
}

// Options holds engine configuration.
type Options struct {
	// Store is the record-store collaborator used by LOOKUP.
	Store store.Store
	// Clock supplies the current time to NOW and TODAY.
	Clock evaluator.Clock
	// Logger for structured logging; defaults to slog.Default.
	Logger *slog.Logger
	// Debug enables debug logging.
	Debug bool
	// MaxEvalDepth bounds evaluation recursion (default 200).
	MaxEvalDepth int
	// MaxParseDepth bounds expression nesting (default 100).
	MaxParseDepth int
	// PrecedenceClimbing switches the parser from the default flat
	// left-to-right operator chain to conventional precedence tiering.
	PrecedenceClimbing bool
	// ParseCacheSize bounds the formula-text cache (default 256).
	ParseCacheSize int
	// ResultCacheSize bounds the result cache (default 1024).
	ResultCacheSize int
	// DisableResultCache turns off result memoization. The parse
	// cache stays on: re-parsing identical formula text per row is
	// pure waste.
	DisableResultCache bool
}

// Option configures an Engine.
type Option func(*Options)

// WithStore injects the record store consumed by LOOKUP.
func WithStore(s store.Store) Option {
	return func(o *Options) { o.Store = s }
}

// WithClock sets the time source for NOW and TODAY.
func WithClock(c evaluator.Clock) Option {
	return func(o *Options) { o.Clock = c }
}

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) { o.Logger = l }
}

// WithDebug enables debug logging.
func WithDebug(enabled bool) Option {
	return func(o *Options) { o.Debug = enabled }
}

// WithMaxEvalDepth bounds evaluation recursion depth.
func WithMaxEvalDepth(depth int) Option {
	return func(o *Options) { o.MaxEvalDepth = depth }
}

// WithMaxParseDepth bounds expression nesting depth.
func WithMaxParseDepth(depth int) Option {
	return func(o *Options) { o.MaxParseDepth = depth }
}

// WithPrecedenceClimbing enables conventional operator precedence.
func WithPrecedenceClimbing(enabled bool) Option {
	return func(o *Options) { o.PrecedenceClimbing = enabled }
}

// WithParseCacheSize sets the parse cache capacity.
func WithParseCacheSize(size int) Option {
	return func(o *Options) { o.ParseCacheSize = size }
}

// WithResultCacheSize sets the result cache capacity.
func WithResultCacheSize(size int) Option {
	return func(o *Options) { o.ResultCacheSize = size }
}

// WithoutResultCache disables result memoization.
func WithoutResultCache() Option {
	return func(o *Options) { o.DisableResultCache = true }
}

// New creates a formula engine with the given options.
func New(opts ...Option) *Engine {
	options := Options{
		MaxEvalDepth:    200,
		MaxParseDepth:   100,
		ParseCacheSize:  256,
		ResultCacheSize: 1024,
	}
	for _, opt := range opts {
		opt(&options)
	}

	evalOpts := []evaluator.EvalOption{
		evaluator.WithMaxDepth(options.MaxEvalDepth),
		evaluator.WithDebug(options.Debug),
	}
	if options.Store != nil {
		evalOpts = append(evalOpts, evaluator.WithStore(options.Store))
	}
	if options.Clock != nil {
		evalOpts = append(evalOpts, evaluator.WithClock(options.Clock))
	}
	if options.Logger != nil {
		evalOpts = append(evalOpts, evaluator.WithLogger(options.Logger))
	}

	parserOpts := []parser.CompileOption{
		parser.WithMaxDepth(options.MaxParseDepth),
		parser.WithPrecedenceClimbing(options.PrecedenceClimbing),
	}

	e := &Engine{
		opts:       options,
		ev:         evaluator.New(evalOpts...),
		parserOpts: parserOpts,
		parseCache: cache.New[*types.Expression](options.ParseCacheSize),
	}
	if !options.DisableResultCache {
		e.resultCache = cache.New[result](options.ResultCacheSize)
	}
	return e
}

// Evaluate tokenizes, parses and evaluates a formula against the given
// context map, memoizing the complete outcome by formula text plus the
// JSON-serialized context.
//
// The context shape is {row?, ...fallback fields}: when a "row" entry
// is present it becomes the field-resolution root, otherwise the whole
// map is the row. Evaluate never mutates the context.
func (e *Engine) Evaluate(ctx context.Context, formula string, data map[string]interface{}) (interface{}, error) {
	key, keyed := cacheKey(formula, data)

	if keyed && e.resultCache != nil {
		if r, ok := e.resultCache.Get(key); ok {
			return r.value, r.err
		}
	}

	value, err := e.compute(ctx, formula, data)

	// Cancellations reflect the caller's context, not the formula:
	// caching them would poison the key for later calls.
	if err != nil && (errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)) {
		return nil, err
	}

	if keyed && e.resultCache != nil {
		e.resultCache.Set(key, result{value: value, err: err})
	}
	return value, err
}

// compute runs the full pipeline: parse (through the parse cache) and
// evaluate.
func (e *Engine) compute(ctx context.Context, formula string, data map[string]interface{}) (interface{}, error) {
	expr, err := e.parseCache.GetOrCompute(formula, func() (*types.Expression, error) {
		return parser.Compile(formula, e.parserOpts...)
	})
	if err != nil {
		return nil, err
	}
	return e.ev.Eval(ctx, expr, data)
}

// ClearCache empties both the parse cache and the result cache. Hosts
// must call it whenever underlying record data changes — the caches
// have no dependency tracking and cannot detect staleness on their
// own.
func (e *Engine) ClearCache() {
	e.parseCache.Clear()
	if e.resultCache != nil {
		e.resultCache.Clear()
	}
}

// cacheKey derives the memoization key for a formula and context pair.
// A context that cannot be JSON-serialized disables memoization for
// the call instead of failing it.
func cacheKey(formula string, data map[string]interface{}) (string, bool) {
	encoded, err := json.Marshal(data)
	if err != nil {
		return "", false
	}
	return formula + "\x00" + string(encoded), true
}

// Compile parses a formula for repeated evaluation without an Engine.
func Compile(formula string, opts ...parser.CompileOption) (*types.Expression, error) {
	return parser.Compile(formula, opts...)
}

// Eval is a convenience function that compiles and evaluates a formula
// in a single call. For repeated evaluations construct an Engine.
func Eval(formula string, data map[string]interface{}, opts ...Option) (interface{}, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	return New(opts...).Evaluate(ctx, formula, data)
}

// MustCompile is like Compile but panics if the formula cannot be
// compiled. It simplifies safe initialization of global variables.
func MustCompile(formula string) *types.Expression {
	expr, err := Compile(formula)
	if err != nil {
		panic(fmt.Sprintf("rowcalc: Compile(%q): %v", formula, err))
	}
	return expr
}
