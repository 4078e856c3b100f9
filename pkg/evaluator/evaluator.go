// Package evaluator implements the rowcalc formula evaluation engine.
//
// The evaluator receives a parsed Abstract Syntax Tree (AST) from the
// parser and walks it against an evaluation context (typically one row
// of a table). It supports:
//   - Field resolution over dotted paths
//   - A closed library of math/string/date/logical/reference functions
//   - Timeout and cancellation via context.Context
//   - A bounded recursion depth that fails closed
//
// Runtime anomalies never surface as Go errors: division by zero,
// unknown function names and failed coercions produce in-band values
// ("#DIV/0", "#UNKNOWN_FUNC(NAME)", NaN, nil) that flow through the
// rest of the expression like any other operand. The error return of
// Eval is reserved for depth overflow and context cancellation.
package evaluator

import (
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/sandrolain/rowcalc/pkg/store"
)

// Clock provides the current time to the date functions.
// Injecting it keeps NOW() and TODAY() testable.
type Clock interface {
	Now() time.Time
}

// wallClock is the default Clock using system time.
type wallClock struct{}

func (wallClock) Now() time.Time { return time.Now() }

// Evaluator evaluates formula ASTs against row data.
type Evaluator struct {
	opts   EvalOptions
	logger *slog.Logger
	store  store.Store
	clock  Clock
}

// EvalOptions configures evaluator behavior.
type EvalOptions struct {
	// MaxDepth limits recursion depth; evaluation fails closed with an
	// error instead of overflowing the native stack. <= 0 disables the
	// guard.
	MaxDepth int
	// Store is the record-store collaborator used by LOOKUP.
	// When nil, LOOKUP resolves to nil.
	Store store.Store
	// Clock supplies the current time to NOW and TODAY.
	Clock Clock
	// Debug enables debug logging.
	Debug bool
	// Logger for structured logging.
	Logger *slog.Logger
}

// New creates a new Evaluator with default options.
func New(opts ...EvalOption) *Evaluator {
	options := EvalOptions{
		MaxDepth: 200,
	}

	for _, opt := range opts {
		opt(&options)
	}

	if options.Logger == nil {
		options.Logger = slog.Default()
	}
	if options.Clock == nil {
		options.Clock = wallClock{}
	}

	return &Evaluator{
		opts:   options,
		logger: options.Logger,
		store:  options.Store,
		clock:  options.Clock,
	}
}

// EvalOption configures evaluation behavior.
type EvalOption func(*EvalOptions)

// WithMaxDepth sets the maximum recursion depth.
func WithMaxDepth(depth int) EvalOption {
	return func(opts *EvalOptions) {
		opts.MaxDepth = depth
	}
}

// WithStore attaches the record-store collaborator used by LOOKUP.
func WithStore(s store.Store) EvalOption {
	return func(opts *EvalOptions) {
		opts.Store = s
	}
}

// WithClock sets the time source for NOW and TODAY.
func WithClock(c Clock) EvalOption {
	return func(opts *EvalOptions) {
		opts.Clock = c
	}
}

// WithDebug enables or disables debug logging.
func WithDebug(enabled bool) EvalOption {
	return func(opts *EvalOptions) {
		opts.Debug = enabled
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) EvalOption {
	return func(opts *EvalOptions) {
		opts.Logger = logger
	}
}

// Functions returns the names of all registered built-in functions,
// sorted, together with their definitions. Used by hosts to present a
// function catalog.
func Functions() []*FunctionDef {
	initBuiltinFunctions()
	defs := make([]*FunctionDef, 0, len(builtinFunctions))
	for _, def := range builtinFunctions {
		defs = append(defs, def)
	}
	sort.Slice(defs, func(i, j int) bool { return defs[i].Name < defs[j].Name })
	return defs
}

// debugf logs at debug level when the Debug option is set.
func (e *Evaluator) debugf(msg string, args ...interface{}) {
	if e.opts.Debug {
		e.logger.Debug(fmt.Sprintf(msg, args...))
	}
}
