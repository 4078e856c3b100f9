package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/sandrolain/rowcalc/pkg/store"
	"github.com/sandrolain/rowcalc/pkg/store/sqlite"
)

func openStore(t *testing.T) *sqlite.Store {
	t.Helper()
	s, err := sqlite.Open(context.Background(), filepath.Join(t.TempDir(), "entities.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLitePutGet(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)

	if _, err := s.Put(ctx, store.Entity{"id": "a1", "name": "Widget", "price": 9.5}); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Put(ctx, store.Entity{"id": "b2", "meta": map[string]interface{}{"origin": "IT"}}); err != nil {
		t.Fatal(err)
	}

	entities, err := s.GetEntities(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(entities) != 2 {
		t.Fatalf("got %d entities, want 2", len(entities))
	}

	// GetEntities orders by id, so a1 comes first.
	if entities[0]["name"] != "Widget" || entities[0]["price"] != 9.5 {
		t.Errorf("entity a1 = %v", entities[0])
	}
	meta, ok := entities[1]["meta"].(map[string]interface{})
	if !ok || meta["origin"] != "IT" {
		t.Errorf("nested fields did not round-trip: %v", entities[1])
	}
}

func TestSQLitePutAssignsID(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)

	id, err := s.Put(ctx, store.Entity{"name": "anonymous"})
	if err != nil {
		t.Fatal(err)
	}
	if id == "" {
		t.Fatal("Put returned empty id")
	}

	entities, _ := s.GetEntities(ctx)
	if len(entities) != 1 || store.ID(entities[0]) != id {
		t.Errorf("stored id = %q, want %q", store.ID(entities[0]), id)
	}
}

func TestSQLitePutReplaces(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)

	if _, err := s.Put(ctx, store.Entity{"id": "a1", "v": 1.0}); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Put(ctx, store.Entity{"id": "a1", "v": 2.0}); err != nil {
		t.Fatal(err)
	}

	entities, _ := s.GetEntities(ctx)
	if len(entities) != 1 {
		t.Fatalf("got %d entities after upsert, want 1", len(entities))
	}
	if entities[0]["v"] != 2.0 {
		t.Errorf("v = %v after upsert, want 2", entities[0]["v"])
	}
}

func TestSQLiteDelete(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)

	if _, err := s.Put(ctx, store.Entity{"id": "a1"}); err != nil {
		t.Fatal(err)
	}
	if err := s.Delete(ctx, "a1"); err != nil {
		t.Fatal(err)
	}

	entities, _ := s.GetEntities(ctx)
	if len(entities) != 0 {
		t.Errorf("got %d entities after delete, want 0", len(entities))
	}
}

func TestSQLitePersistsAcrossOpens(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "entities.db")

	s, err := sqlite.Open(ctx, path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.Put(ctx, store.Entity{"id": "a1", "name": "Widget"}); err != nil {
		t.Fatal(err)
	}
	s.Close()

	s, err = sqlite.Open(ctx, path)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	entities, err := s.GetEntities(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(entities) != 1 || entities[0]["name"] != "Widget" {
		t.Errorf("entities after reopen = %v", entities)
	}
}
