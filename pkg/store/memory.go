package store

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// Memory is an in-process Store backed by a slice. It is the default
// collaborator for the formula-tester CLI and for tests.
//
// Safe for concurrent use by multiple goroutines.
type Memory struct {
	mu       sync.RWMutex
	entities []Entity
}

// NewMemory creates a Memory store seeded with the given entities.
// Entities without an id are assigned a random one.
func NewMemory(entities ...Entity) *Memory {
	m := &Memory{}
	for _, e := range entities {
		m.Put(e)
	}
	return m
}

// GetEntities returns a snapshot of all stored entities.
func (m *Memory) GetEntities(_ context.Context) ([]Entity, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Entity, len(m.entities))
	copy(out, m.entities)
	return out, nil
}

// Put inserts or replaces an entity, keyed by its id.
// A missing id is filled with a random UUID. Returns the id.
func (m *Memory) Put(e Entity) string {
	id := ID(e)
	if id == "" {
		id = uuid.NewString()
		e[FieldID] = id
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for i, existing := range m.entities {
		if ID(existing) == id {
			m.entities[i] = e
			return id
		}
	}
	m.entities = append(m.entities, e)
	return id
}

// Delete removes the entity with the given id. Returns true if removed.
func (m *Memory) Delete(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, e := range m.entities {
		if ID(e) == id {
			m.entities = append(m.entities[:i], m.entities[i+1:]...)
			return true
		}
	}
	return false
}

// Len returns the number of stored entities.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entities)
}
