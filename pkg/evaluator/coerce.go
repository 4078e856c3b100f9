package evaluator

import (
	"math"
	"strconv"
	"strings"
)

// toNumber coerces a value to a float64 following the permissive
// semantics formulas rely on: booleans map to 1/0, nil to 0, numeric
// strings are parsed, and anything else is NaN.
func toNumber(v interface{}) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int8:
		return float64(n)
	case int16:
		return float64(n)
	case int32:
		return float64(n)
	case int64:
		return float64(n)
	case uint:
		return float64(n)
	case uint8:
		return float64(n)
	case uint16:
		return float64(n)
	case uint32:
		return float64(n)
	case uint64:
		return float64(n)
	case bool:
		if n {
			return 1
		}
		return 0
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return 0
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
		return math.NaN()
	case nil:
		return 0
	default:
		return math.NaN()
	}
}

// numberOrZero is the Number(x)||0 coercion used by SUM and AVG:
// values that fail numeric coercion contribute zero.
func numberOrZero(v interface{}) float64 {
	n := toNumber(v)
	if math.IsNaN(n) {
		return 0
	}
	return n
}

// asNumber reports whether the value is already a number (of any Go
// numeric type) and returns it as float64 without coercion.
func asNumber(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	default:
		return 0, false
	}
}

// toString coerces a value to its string form. Floats render in their
// shortest exact representation; nil renders as the empty string so
// missing fields concatenate invisibly.
func toString(v interface{}) string {
	switch s := v.(type) {
	case string:
		return s
	case nil:
		return ""
	case bool:
		return strconv.FormatBool(s)
	default:
		if n, ok := asNumber(v); ok {
			return strconv.FormatFloat(n, 'f', -1, 64)
		}
		return ""
	}
}

// isTruthy implements the truthiness rules of the formula language:
// nil, false, zero, NaN and the empty string are falsy; everything
// else — arrays and objects included, even empty ones — is truthy.
func isTruthy(v interface{}) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	default:
		if n, ok := asNumber(v); ok {
			return n != 0 && !math.IsNaN(n)
		}
		return true
	}
}

// flattenOnce expands slice arguments one level, so a field holding an
// array can be passed to an aggregate alongside scalar arguments.
func flattenOnce(args []interface{}) []interface{} {
	out := make([]interface{}, 0, len(args))
	for _, a := range args {
		if items, ok := a.([]interface{}); ok {
			out = append(out, items...)
			continue
		}
		out = append(out, a)
	}
	return out
}

// arg returns args[i], or nil when the argument is absent.
func arg(args []interface{}, i int) interface{} {
	if i < len(args) {
		return args[i]
	}
	return nil
}

// intArg returns args[i] coerced to int, or def when absent or
// non-numeric.
func intArg(args []interface{}, i int, def int) int {
	if i >= len(args) {
		return def
	}
	n := toNumber(args[i])
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return def
	}
	return int(n)
}
