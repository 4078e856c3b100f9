package evaluator

import (
	"context"
	"math"
)

// Aggregates operate over all arguments flattened one level, so a
// field holding an array can be mixed with scalar arguments:
// SUM({scores}, 10).

func fnSum(_ context.Context, _ *Evaluator, _ *Env, args []interface{}) interface{} {
	total := 0.0
	for _, v := range flattenOnce(args) {
		total += numberOrZero(v)
	}
	return total
}

// fnAvg divides by the flattened argument count; zero arguments yields
// NaN, not an error.
func fnAvg(_ context.Context, _ *Evaluator, _ *Env, args []interface{}) interface{} {
	values := flattenOnce(args)
	if len(values) == 0 {
		return math.NaN()
	}
	total := 0.0
	for _, v := range values {
		total += numberOrZero(v)
	}
	return total / float64(len(values))
}

// MIN and MAX use raw numeric coercion with no zero default, so a
// non-numeric entry poisons the result with NaN. With no arguments
// they return +Inf/-Inf respectively.

func fnMin(_ context.Context, _ *Evaluator, _ *Env, args []interface{}) interface{} {
	min := math.Inf(1)
	for _, v := range flattenOnce(args) {
		min = math.Min(min, toNumber(v))
	}
	return min
}

func fnMax(_ context.Context, _ *Evaluator, _ *Env, args []interface{}) interface{} {
	max := math.Inf(-1)
	for _, v := range flattenOnce(args) {
		max = math.Max(max, toNumber(v))
	}
	return max
}

func fnCount(_ context.Context, _ *Evaluator, _ *Env, args []interface{}) interface{} {
	return float64(len(flattenOnce(args)))
}

func fnAbs(_ context.Context, _ *Evaluator, _ *Env, args []interface{}) interface{} {
	return math.Abs(toNumber(arg(args, 0)))
}

func fnFloor(_ context.Context, _ *Evaluator, _ *Env, args []interface{}) interface{} {
	return math.Floor(toNumber(arg(args, 0)))
}

func fnCeil(_ context.Context, _ *Evaluator, _ *Env, args []interface{}) interface{} {
	return math.Ceil(toNumber(arg(args, 0)))
}

// fnRound scales by 10^precision, rounds half-up, and rescales.
// Precision defaults to 0.
func fnRound(_ context.Context, _ *Evaluator, _ *Env, args []interface{}) interface{} {
	value := toNumber(arg(args, 0))
	precision := intArg(args, 1, 0)

	scale := math.Pow(10, float64(precision))
	return math.Floor(value*scale+0.5) / scale
}
