package evaluator

import (
	"github.com/sandrolain/rowcalc/pkg/types"
)

// binaryOp computes a binary operator over two already-evaluated
// operands. Operators never fail: anomalies come back as in-band
// values (NaN, "#DIV/0", booleans).
type binaryOp func(left, right interface{}) interface{}

// binaryOps is the operator dispatch table, keyed by typed operator
// identity and fixed at package initialization.
var binaryOps = map[types.Operator]binaryOp{
	types.OpAdd:       opAdd,
	types.OpSub:       opSub,
	types.OpMul:       opMul,
	types.OpDiv:       opDiv,
	types.OpLess:      opLess,
	types.OpGreater:   opGreater,
	types.OpLessEq:    opLessEq,
	types.OpGreaterEq: opGreaterEq,
	types.OpEqual:     opEqual,
	types.OpNotEqual:  opNotEqual,
	types.OpAnd:       opAnd,
	types.OpOr:        opOr,
}

func opAdd(left, right interface{}) interface{} {
	return toNumber(left) + toNumber(right)
}

func opSub(left, right interface{}) interface{} {
	return toNumber(left) - toNumber(right)
}

func opMul(left, right interface{}) interface{} {
	return toNumber(left) * toNumber(right)
}

// opDiv returns the "#DIV/0" sentinel when the right operand is the
// number zero. A right operand that merely coerces to zero (e.g. the
// string "0") divides normally, producing an infinity.
func opDiv(left, right interface{}) interface{} {
	if n, ok := asNumber(right); ok && n == 0 {
		return SentinelDivZero
	}
	return toNumber(left) / toNumber(right)
}

// Relational operators compare strings lexicographically and
// everything else numerically. NaN comparisons are always false.

func opLess(left, right interface{}) interface{} {
	if ls, ok := left.(string); ok {
		if rs, ok := right.(string); ok {
			return ls < rs
		}
	}
	return toNumber(left) < toNumber(right)
}

func opGreater(left, right interface{}) interface{} {
	if ls, ok := left.(string); ok {
		if rs, ok := right.(string); ok {
			return ls > rs
		}
	}
	return toNumber(left) > toNumber(right)
}

func opLessEq(left, right interface{}) interface{} {
	if ls, ok := left.(string); ok {
		if rs, ok := right.(string); ok {
			return ls <= rs
		}
	}
	return toNumber(left) <= toNumber(right)
}

func opGreaterEq(left, right interface{}) interface{} {
	if ls, ok := left.(string); ok {
		if rs, ok := right.(string); ok {
			return ls >= rs
		}
	}
	return toNumber(left) >= toNumber(right)
}

func opEqual(left, right interface{}) interface{} {
	return strictEqual(left, right)
}

func opNotEqual(left, right interface{}) interface{} {
	return !strictEqual(left, right)
}

// strictEqual compares without cross-type coercion: numbers compare as
// numbers regardless of their Go numeric type, strings and booleans
// compare by value within their own type, nil equals only nil.
// Composite values (slices, maps) are never equal.
func strictEqual(left, right interface{}) bool {
	if ln, ok := asNumber(left); ok {
		rn, ok := asNumber(right)
		return ok && ln == rn
	}
	switch l := left.(type) {
	case string:
		r, ok := right.(string)
		return ok && l == r
	case bool:
		r, ok := right.(bool)
		return ok && l == r
	case nil:
		return right == nil
	default:
		return false
	}
}

// opAnd and opOr implement short-circuit-free logical evaluation: both
// operands were already evaluated, and the result is the operand that
// decided the outcome, not a coerced boolean.

func opAnd(left, right interface{}) interface{} {
	if !isTruthy(left) {
		return left
	}
	return right
}

func opOr(left, right interface{}) interface{} {
	if isTruthy(left) {
		return left
	}
	return right
}
