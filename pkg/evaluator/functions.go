package evaluator

import (
	"context"
	"sync"
)

// Category groups built-in functions for catalog listings.
type Category string

const (
	CategoryMath      Category = "math"
	CategoryString    Category = "string"
	CategoryDate      Category = "date"
	CategoryLogical   Category = "logical"
	CategoryReference Category = "reference"
)

// FunctionDef describes a built-in function.
//
// MinArgs and MaxArgs document the arity contract (-1 for unlimited);
// they are informational — implementations treat missing arguments as
// nil and apply their documented defaults, so a short call degrades to
// a value rather than an error.
type FunctionDef struct {
	Name     string
	Category Category
	MinArgs  int
	MaxArgs  int // -1 for unlimited
	Impl     FunctionImpl
}

// FunctionImpl is the implementation of a built-in function. Arguments
// arrive fully evaluated. Implementations never return errors: semantic
// anomalies are in-band values.
type FunctionImpl func(ctx context.Context, e *Evaluator, env *Env, args []interface{}) interface{}

var (
	builtinFunctions     map[string]*FunctionDef
	builtinFunctionsOnce sync.Once
)

// initBuiltinFunctions initializes the built-in function registry.
// The catalog is closed: hosts cannot register additional functions.
func initBuiltinFunctions() {
	builtinFunctionsOnce.Do(func() {
		builtinFunctions = map[string]*FunctionDef{
			// Math
			"SUM":   {Name: "SUM", Category: CategoryMath, MinArgs: 0, MaxArgs: -1, Impl: fnSum},
			"AVG":   {Name: "AVG", Category: CategoryMath, MinArgs: 0, MaxArgs: -1, Impl: fnAvg},
			"MIN":   {Name: "MIN", Category: CategoryMath, MinArgs: 0, MaxArgs: -1, Impl: fnMin},
			"MAX":   {Name: "MAX", Category: CategoryMath, MinArgs: 0, MaxArgs: -1, Impl: fnMax},
			"COUNT": {Name: "COUNT", Category: CategoryMath, MinArgs: 0, MaxArgs: -1, Impl: fnCount},
			"ABS":   {Name: "ABS", Category: CategoryMath, MinArgs: 1, MaxArgs: 1, Impl: fnAbs},
			"FLOOR": {Name: "FLOOR", Category: CategoryMath, MinArgs: 1, MaxArgs: 1, Impl: fnFloor},
			"CEIL":  {Name: "CEIL", Category: CategoryMath, MinArgs: 1, MaxArgs: 1, Impl: fnCeil},
			"ROUND": {Name: "ROUND", Category: CategoryMath, MinArgs: 1, MaxArgs: 2, Impl: fnRound},

			// String
			"CONCAT": {Name: "CONCAT", Category: CategoryString, MinArgs: 0, MaxArgs: -1, Impl: fnConcat},
			"UPPER":  {Name: "UPPER", Category: CategoryString, MinArgs: 1, MaxArgs: 1, Impl: fnUpper},
			"LOWER":  {Name: "LOWER", Category: CategoryString, MinArgs: 1, MaxArgs: 1, Impl: fnLower},
			"TRIM":   {Name: "TRIM", Category: CategoryString, MinArgs: 1, MaxArgs: 1, Impl: fnTrim},
			"LEN":    {Name: "LEN", Category: CategoryString, MinArgs: 1, MaxArgs: 1, Impl: fnLen},
			"LEFT":   {Name: "LEFT", Category: CategoryString, MinArgs: 1, MaxArgs: 2, Impl: fnLeft},
			"RIGHT":  {Name: "RIGHT", Category: CategoryString, MinArgs: 1, MaxArgs: 2, Impl: fnRight},
			"MID":    {Name: "MID", Category: CategoryString, MinArgs: 1, MaxArgs: 3, Impl: fnMid},

			// Date
			"NOW":      {Name: "NOW", Category: CategoryDate, MinArgs: 0, MaxArgs: 0, Impl: fnNow},
			"TODAY":    {Name: "TODAY", Category: CategoryDate, MinArgs: 0, MaxArgs: 0, Impl: fnToday},
			"YEAR":     {Name: "YEAR", Category: CategoryDate, MinArgs: 1, MaxArgs: 1, Impl: fnYear},
			"MONTH":    {Name: "MONTH", Category: CategoryDate, MinArgs: 1, MaxArgs: 1, Impl: fnMonth},
			"DAY":      {Name: "DAY", Category: CategoryDate, MinArgs: 1, MaxArgs: 1, Impl: fnDay},
			"DATEDIFF": {Name: "DATEDIFF", Category: CategoryDate, MinArgs: 2, MaxArgs: 2, Impl: fnDateDiff},

			// Logical
			"IF":  {Name: "IF", Category: CategoryLogical, MinArgs: 3, MaxArgs: 3, Impl: fnIf},
			"AND": {Name: "AND", Category: CategoryLogical, MinArgs: 0, MaxArgs: -1, Impl: fnAnd},
			"OR":  {Name: "OR", Category: CategoryLogical, MinArgs: 0, MaxArgs: -1, Impl: fnOr},
			"NOT": {Name: "NOT", Category: CategoryLogical, MinArgs: 1, MaxArgs: 1, Impl: fnNot},

			// Reference
			"LOOKUP":       {Name: "LOOKUP", Category: CategoryReference, MinArgs: 2, MaxArgs: 2, Impl: fnLookup},
			"COUNT_LINKED": {Name: "COUNT_LINKED", Category: CategoryReference, MinArgs: 1, MaxArgs: 1, Impl: fnCountLinked},
		}
	})
}

// lookupBuiltin returns the definition for an uppercased function name.
func lookupBuiltin(name string) (*FunctionDef, bool) {
	initBuiltinFunctions()
	def, ok := builtinFunctions[name]
	return def, ok
}
