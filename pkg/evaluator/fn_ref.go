package evaluator

import (
	"context"

	"github.com/sandrolain/rowcalc/pkg/store"
)

// fnLookup finds an entity by id via the record-store collaborator and
// resolves a dotted field path against it. A missing store, a store
// failure, or an unknown id all resolve to nil — reference functions
// never abort an evaluation.
func fnLookup(ctx context.Context, e *Evaluator, _ *Env, args []interface{}) interface{} {
	if e.store == nil {
		return nil
	}

	id := toString(arg(args, 0))
	path := toString(arg(args, 1))

	entities, err := e.store.GetEntities(ctx)
	if err != nil {
		e.logger.Debug("lookup: store unavailable", "error", err)
		return nil
	}

	for _, entity := range entities {
		if toString(entity[store.FieldID]) == id {
			return ResolveField(path, entity)
		}
	}
	return nil
}

// fnCountLinked resolves a field path in the current context and
// returns its array length, or 1/0 for a truthy/falsy scalar.
func fnCountLinked(_ context.Context, _ *Evaluator, env *Env, args []interface{}) interface{} {
	value := ResolveField(toString(arg(args, 0)), env.row)

	if items, ok := value.([]interface{}); ok {
		return float64(len(items))
	}
	if isTruthy(value) {
		return 1.0
	}
	return 0.0
}
