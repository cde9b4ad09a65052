// Package persist defines the boundary between the in-memory stores and
// whatever medium holds their durable snapshots. The medium is opaque to
// the stores: they push the full JSON snapshot of a collection after every
// mutation and load it back on startup.
package persist

import (
	"context"
	"errors"
)

// Collection names used by the stores.
const (
	CollectionUsers    = "users"
	CollectionGroups   = "groups"
	CollectionExpenses = "expenses"
)

// ErrStorage marks a failed durable read or write. Durability is best
// effort: when a save fails the in-memory state keeps the mutation and the
// caller decides whether to surface the error.
var ErrStorage = errors.New("storage unavailable")

// Store holds one JSON snapshot per collection.
type Store interface {
	// Load returns the last saved snapshot for the collection, or nil when
	// none has been saved yet.
	Load(ctx context.Context, collection string) ([]byte, error)

	// Save replaces the snapshot for the collection.
	Save(ctx context.Context, collection string, data []byte) error
}

// ChangePublisher is told that a collection snapshot changed. Publishing is
// fire-and-forget; implementations must not fail the save.
type ChangePublisher interface {
	CollectionChanged(ctx context.Context, collection string)
}

// Notifying decorates a Store with change notifications after each
// successful save.
type Notifying struct {
	inner Store
	pub   ChangePublisher
}

// WithNotify wraps inner so that pub learns about every successful save.
// A nil pub returns inner unchanged.
func WithNotify(inner Store, pub ChangePublisher) Store {
	if pub == nil {
		return inner
	}
	return &Notifying{inner: inner, pub: pub}
}

func (n *Notifying) Load(ctx context.Context, collection string) ([]byte, error) {
	return n.inner.Load(ctx, collection)
}

func (n *Notifying) Save(ctx context.Context, collection string, data []byte) error {
	if err := n.inner.Save(ctx, collection, data); err != nil {
		return err
	}
	n.pub.CollectionChanged(ctx, collection)
	return nil
}
