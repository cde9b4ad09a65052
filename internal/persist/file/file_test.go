package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"divvy/internal/persist"
)

func TestLoadMissingCollection(t *testing.T) {
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	data, err := store.Load(context.Background(), persist.CollectionUsers)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if data != nil {
		t.Errorf("Load() = %q, want nil for missing collection", data)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	store, err := New(dir)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	snapshot := []byte(`[{"id":"u1","name":"Alice"}]`)
	if err := store.Save(ctx, persist.CollectionUsers, snapshot); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	data, err := store.Load(ctx, persist.CollectionUsers)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if string(data) != string(snapshot) {
		t.Errorf("Load() = %q, want %q", data, snapshot)
	}

	// One file per collection, named after it
	if _, err := os.Stat(filepath.Join(dir, "users.json")); err != nil {
		t.Errorf("expected users.json in data directory: %v", err)
	}
}

func TestSaveOverwrites(t *testing.T) {
	ctx := context.Background()
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	if err := store.Save(ctx, persist.CollectionGroups, []byte(`["old"]`)); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	if err := store.Save(ctx, persist.CollectionGroups, []byte(`["new"]`)); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	data, err := store.Load(ctx, persist.CollectionGroups)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if string(data) != `["new"]` {
		t.Errorf("Load() = %q, want %q", data, `["new"]`)
	}
}

func TestSaveLeavesNoTempFiles(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	store, err := New(dir)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	if err := store.Save(ctx, persist.CollectionExpenses, []byte(`[]`)); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir() error: %v", err)
	}
	for _, entry := range entries {
		if filepath.Ext(entry.Name()) == ".tmp" {
			t.Errorf("leftover temp file %s", entry.Name())
		}
	}
}

func TestCollectionsAreIndependent(t *testing.T) {
	ctx := context.Background()
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	if err := store.Save(ctx, persist.CollectionUsers, []byte(`["u"]`)); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	data, err := store.Load(ctx, persist.CollectionExpenses)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if data != nil {
		t.Errorf("Load(expenses) = %q, want nil", data)
	}
}
