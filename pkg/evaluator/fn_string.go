package evaluator

import (
	"context"
	"strings"
)

// fnConcat joins all arguments as strings with no separator.
func fnConcat(_ context.Context, _ *Evaluator, _ *Env, args []interface{}) interface{} {
	var b strings.Builder
	for _, v := range args {
		b.WriteString(toString(v))
	}
	return b.String()
}

func fnUpper(_ context.Context, _ *Evaluator, _ *Env, args []interface{}) interface{} {
	return strings.ToUpper(toString(arg(args, 0)))
}

func fnLower(_ context.Context, _ *Evaluator, _ *Env, args []interface{}) interface{} {
	return strings.ToLower(toString(arg(args, 0)))
}

func fnTrim(_ context.Context, _ *Evaluator, _ *Env, args []interface{}) interface{} {
	return strings.TrimSpace(toString(arg(args, 0)))
}

func fnLen(_ context.Context, _ *Evaluator, _ *Env, args []interface{}) interface{} {
	return float64(len([]rune(toString(arg(args, 0)))))
}

// fnLeft returns the first n characters of the string; n defaults to 1.
func fnLeft(_ context.Context, _ *Evaluator, _ *Env, args []interface{}) interface{} {
	runes := []rune(toString(arg(args, 0)))
	n := clamp(intArg(args, 1, 1), 0, len(runes))
	return string(runes[:n])
}

// fnRight returns the last n characters of the string; n defaults to 1.
func fnRight(_ context.Context, _ *Evaluator, _ *Env, args []interface{}) interface{} {
	runes := []rune(toString(arg(args, 0)))
	n := clamp(intArg(args, 1, 1), 0, len(runes))
	return string(runes[len(runes)-n:])
}

// fnMid extracts a substring starting at start (default 0) with the
// given length (default 1).
func fnMid(_ context.Context, _ *Evaluator, _ *Env, args []interface{}) interface{} {
	runes := []rune(toString(arg(args, 0)))
	start := clamp(intArg(args, 1, 0), 0, len(runes))
	length := intArg(args, 2, 1)
	if length < 0 {
		length = 0
	}
	end := clamp(start+length, start, len(runes))
	return string(runes[start:end])
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
