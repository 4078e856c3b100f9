package evaluator

import (
	"context"
	"math"
	"time"
)

const (
	isoTimestamp = "2006-01-02T15:04:05.000Z07:00"
	isoDate      = "2006-01-02"
)

// fnNow returns the current instant as a full ISO-8601 timestamp.
func fnNow(_ context.Context, e *Evaluator, _ *Env, _ []interface{}) interface{} {
	return e.clock.Now().UTC().Format(isoTimestamp)
}

// fnToday returns the current date as ISO-8601 date-only.
func fnToday(_ context.Context, e *Evaluator, _ *Env, _ []interface{}) interface{} {
	return e.clock.Now().UTC().Format(isoDate)
}

func fnYear(_ context.Context, _ *Evaluator, _ *Env, args []interface{}) interface{} {
	t, ok := parseDate(arg(args, 0))
	if !ok {
		return math.NaN()
	}
	return float64(t.UTC().Year())
}

// fnMonth is 1-indexed: January is 1.
func fnMonth(_ context.Context, _ *Evaluator, _ *Env, args []interface{}) interface{} {
	t, ok := parseDate(arg(args, 0))
	if !ok {
		return math.NaN()
	}
	return float64(int(t.UTC().Month()))
}

func fnDay(_ context.Context, _ *Evaluator, _ *Env, args []interface{}) interface{} {
	t, ok := parseDate(arg(args, 0))
	if !ok {
		return math.NaN()
	}
	return float64(t.UTC().Day())
}

// fnDateDiff returns the floor of the whole-day difference b - a.
func fnDateDiff(_ context.Context, _ *Evaluator, _ *Env, args []interface{}) interface{} {
	a, okA := parseDate(arg(args, 0))
	b, okB := parseDate(arg(args, 1))
	if !okA || !okB {
		return math.NaN()
	}
	return math.Floor(b.Sub(a).Hours() / 24)
}

// dateLayouts are tried in order when parsing a string date argument.
var dateLayouts = []string{
	isoTimestamp,
	time.RFC3339,
	isoDate,
}

// parseDate interprets a date argument: a time.Time passes through,
// strings are parsed as ISO-8601 (with or without time), and numbers
// are Unix milliseconds.
func parseDate(v interface{}) (time.Time, bool) {
	switch d := v.(type) {
	case time.Time:
		return d, true
	case string:
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, d); err == nil {
				return t, true
			}
		}
		return time.Time{}, false
	default:
		if n, ok := asNumber(v); ok && !math.IsNaN(n) {
			return time.UnixMilli(int64(n)), true
		}
		return time.Time{}, false
	}
}
