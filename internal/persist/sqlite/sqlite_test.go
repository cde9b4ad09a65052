package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"divvy/internal/persist"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(filepath.Join(t.TempDir(), "divvy.db"))
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestLoadMissingCollection(t *testing.T) {
	store := newTestStore(t)

	data, err := store.Load(context.Background(), persist.CollectionGroups)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if data != nil {
		t.Errorf("Load() = %q, want nil for missing collection", data)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	snapshot := []byte(`[{"id":"e1","title":"Dinner","amount":90}]`)
	if err := store.Save(ctx, persist.CollectionExpenses, snapshot); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	data, err := store.Load(ctx, persist.CollectionExpenses)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if string(data) != string(snapshot) {
		t.Errorf("Load() = %q, want %q", data, snapshot)
	}
}

func TestSaveUpserts(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	if err := store.Save(ctx, persist.CollectionUsers, []byte(`["old"]`)); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	if err := store.Save(ctx, persist.CollectionUsers, []byte(`["new"]`)); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	data, err := store.Load(ctx, persist.CollectionUsers)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if string(data) != `["new"]` {
		t.Errorf("Load() = %q, want %q", data, `["new"]`)
	}
}

func TestReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "divvy.db")

	store, err := New(dbPath)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if err := store.Save(ctx, persist.CollectionGroups, []byte(`["g1"]`)); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}

	reopened, err := New(dbPath)
	if err != nil {
		t.Fatalf("reopen New() error: %v", err)
	}
	defer reopened.Close()

	data, err := reopened.Load(ctx, persist.CollectionGroups)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if string(data) != `["g1"]` {
		t.Errorf("Load() = %q, want %q", data, `["g1"]`)
	}
}
