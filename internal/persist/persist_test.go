package persist_test

import (
	"context"
	"errors"
	"testing"

	"divvy/internal/persist"
	"divvy/internal/persist/memory"
)

type recordingPublisher struct {
	changed []string
}

func (p *recordingPublisher) CollectionChanged(_ context.Context, collection string) {
	p.changed = append(p.changed, collection)
}

func TestWithNotify_NilPublisherReturnsInner(t *testing.T) {
	inner := memory.New()
	if got := persist.WithNotify(inner, nil); got != persist.Store(inner) {
		t.Error("WithNotify(inner, nil) did not return inner unchanged")
	}
}

func TestNotifying_PublishesAfterSuccessfulSave(t *testing.T) {
	ctx := context.Background()
	pub := &recordingPublisher{}
	store := persist.WithNotify(memory.New(), pub)

	if err := store.Save(ctx, persist.CollectionUsers, []byte(`[]`)); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	if err := store.Save(ctx, persist.CollectionExpenses, []byte(`[]`)); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	want := []string{persist.CollectionUsers, persist.CollectionExpenses}
	if len(pub.changed) != len(want) {
		t.Fatalf("published %v, want %v", pub.changed, want)
	}
	for i, collection := range want {
		if pub.changed[i] != collection {
			t.Errorf("changed[%d] = %q, want %q", i, pub.changed[i], collection)
		}
	}
}

func TestNotifying_SilentOnFailedSave(t *testing.T) {
	ctx := context.Background()
	inner := memory.New()
	inner.FailSavesWith(persist.ErrStorage)
	pub := &recordingPublisher{}
	store := persist.WithNotify(inner, pub)

	if err := store.Save(ctx, persist.CollectionUsers, []byte(`[]`)); !errors.Is(err, persist.ErrStorage) {
		t.Fatalf("Save() error = %v, want ErrStorage", err)
	}
	if len(pub.changed) != 0 {
		t.Errorf("published %v after failed save, want none", pub.changed)
	}
}

func TestNotifying_LoadPassesThrough(t *testing.T) {
	ctx := context.Background()
	inner := memory.New()
	if err := inner.Save(ctx, persist.CollectionGroups, []byte(`[{"id":"g1"}]`)); err != nil {
		t.Fatalf("seed: %v", err)
	}
	pub := &recordingPublisher{}
	store := persist.WithNotify(inner, pub)

	data, err := store.Load(ctx, persist.CollectionGroups)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if string(data) != `[{"id":"g1"}]` {
		t.Errorf("Load() = %q", data)
	}
	if len(pub.changed) != 0 {
		t.Errorf("Load published %v, want none", pub.changed)
	}
}
