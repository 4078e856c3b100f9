package evaluator

import (
	"context"
	"fmt"

	"github.com/sandrolain/rowcalc/pkg/types"
)

// Sentinel values surfaced in-band by the semantic error channel.
const (
	// SentinelDivZero is returned by division when the right operand
	// is the number zero.
	SentinelDivZero = "#DIV/0"
)

// UnknownFunctionSentinel builds the in-band value returned when a
// formula calls a function name the library does not define.
func UnknownFunctionSentinel(name string) string {
	return "#UNKNOWN_FUNC(" + name + ")"
}

// Env carries per-evaluation state: the caller-supplied context map,
// the resolution root derived from it, and the recursion depth.
type Env struct {
	data  map[string]interface{}
	row   interface{}
	depth int
}

// Data returns the raw evaluation context map.
func (env *Env) Data() map[string]interface{} {
	return env.data
}

// Row returns the field-resolution root: the context's "row" entry
// when present, otherwise the context itself.
func (env *Env) Row() interface{} {
	return env.row
}

// Eval evaluates a compiled expression against the given context map.
//
// The returned error is non-nil only for the structural channel: an
// invalid expression, recursion beyond MaxDepth, or cancellation of
// ctx. All semantic anomalies come back as in-band values.
func (e *Evaluator) Eval(ctx context.Context, expr *types.Expression, data map[string]interface{}) (interface{}, error) {
	if expr == nil || expr.AST() == nil {
		return nil, fmt.Errorf("invalid expression")
	}

	env := &Env{
		data: data,
		row:  contextRow(data),
	}

	result, err := e.evalNode(ctx, expr.AST(), env)
	if err != nil {
		return nil, err
	}

	e.debugf("evaluated %q -> %v", expr.Source(), result)
	return result, nil
}

// evalNode dispatches on the node kind. It maintains the shared depth
// counter and honors context cancellation between node visits.
func (e *Evaluator) evalNode(ctx context.Context, node *types.ASTNode, env *Env) (interface{}, error) {
	if err := ctx.Err(); err != nil {
		return nil, types.NewError(types.ErrCancelled, "Evaluation cancelled", node.Position).WithCause(err)
	}

	env.depth++
	defer func() { env.depth-- }()
	if e.opts.MaxDepth > 0 && env.depth > e.opts.MaxDepth {
		return nil, types.NewError(types.ErrEvalDepth,
			fmt.Sprintf("Evaluation depth exceeds %d", e.opts.MaxDepth), node.Position)
	}

	switch node.Type {
	case types.NodeLiteral:
		return node.Value, nil
	case types.NodeField:
		return ResolveField(node.Path, env.row), nil
	case types.NodeUnary:
		return e.evalUnary(ctx, node, env)
	case types.NodeBinary:
		return e.evalBinary(ctx, node, env)
	case types.NodeCall:
		return e.evalCall(ctx, node, env)
	default:
		return nil, fmt.Errorf("unknown node type: %s", node.Type)
	}
}

func (e *Evaluator) evalUnary(ctx context.Context, node *types.ASTNode, env *Env) (interface{}, error) {
	operand, err := e.evalNode(ctx, node.RHS, env)
	if err != nil {
		return nil, err
	}

	switch node.Op {
	case types.OpNeg:
		// No coercion guard: negating a non-number yields NaN.
		return -toNumber(operand), nil
	case types.OpNot:
		return !isTruthy(operand), nil
	default:
		return nil, fmt.Errorf("unknown unary operator: %s", node.Op)
	}
}

// evalBinary evaluates both operands eagerly — there is no
// short-circuiting, even for && and || — then dispatches to the
// operator table.
func (e *Evaluator) evalBinary(ctx context.Context, node *types.ASTNode, env *Env) (interface{}, error) {
	left, err := e.evalNode(ctx, node.LHS, env)
	if err != nil {
		return nil, err
	}

	right, err := e.evalNode(ctx, node.RHS, env)
	if err != nil {
		return nil, err
	}

	fn, ok := binaryOps[node.Op]
	if !ok {
		return nil, fmt.Errorf("unknown binary operator: %s", node.Op)
	}
	return fn(left, right), nil
}

// evalCall evaluates all arguments first — arguments are never lazy,
// so IF evaluates both branches before selecting one — then dispatches
// to the function library by name. Unrecognized names produce the
// "#UNKNOWN_FUNC(NAME)" sentinel rather than an error.
func (e *Evaluator) evalCall(ctx context.Context, node *types.ASTNode, env *Env) (interface{}, error) {
	args := make([]interface{}, len(node.Args))
	for i, argNode := range node.Args {
		arg, err := e.evalNode(ctx, argNode, env)
		if err != nil {
			return nil, err
		}
		args[i] = arg
	}

	def, ok := lookupBuiltin(node.Name)
	if !ok {
		e.debugf("unknown function %s", node.Name)
		return UnknownFunctionSentinel(node.Name), nil
	}

	return def.Impl(ctx, e, env, args), nil
}
