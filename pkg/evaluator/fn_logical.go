package evaluator

import "context"

// fnIf selects by truthiness of the condition. Both branches were
// already evaluated by the evaluator — arguments are never lazy — so
// IF only chooses which value to return.
func fnIf(_ context.Context, _ *Evaluator, _ *Env, args []interface{}) interface{} {
	if isTruthy(arg(args, 0)) {
		return arg(args, 1)
	}
	return arg(args, 2)
}

func fnAnd(_ context.Context, _ *Evaluator, _ *Env, args []interface{}) interface{} {
	for _, v := range args {
		if !isTruthy(v) {
			return false
		}
	}
	return true
}

func fnOr(_ context.Context, _ *Evaluator, _ *Env, args []interface{}) interface{} {
	for _, v := range args {
		if isTruthy(v) {
			return true
		}
	}
	return false
}

func fnNot(_ context.Context, _ *Evaluator, _ *Env, args []interface{}) interface{} {
	return !isTruthy(arg(args, 0))
}
