// Package store defines the record-store collaborator consumed by the
// reference functions of the formula engine.
//
// The engine only needs read access: LOOKUP scans the entities returned
// by GetEntities for a matching id and resolves a dotted field path
// against it. Hosts embed their own implementation; Memory and the
// sqlite sub-package cover the common cases.
package store

import "context"

// FieldID is the entity field holding the record identifier.
const FieldID = "id"

// Entity is a single record: an id field plus arbitrary typed fields.
// Nested maps are addressable from formulas via dotted paths.
type Entity = map[string]interface{}

// Store provides read access to the records a formula may reference.
type Store interface {
	// GetEntities returns all records. The engine treats the result as
	// a snapshot; implementations must not mutate returned entities.
	GetEntities(ctx context.Context) ([]Entity, error)
}

// ID returns the entity's id as a string, or "" when absent.
func ID(e Entity) string {
	if v, ok := e[FieldID]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
