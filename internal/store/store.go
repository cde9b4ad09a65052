// Package store holds the three stores of the ledger: the user directory,
// the group registry and the expense ledger.
//
// All mutations are synchronous and atomic with respect to the store they
// touch. Memory is updated first, then the full collection snapshot is
// pushed to the persistence adapter; when the push fails the mutation
// stands in memory and persist.ErrStorage is returned, durability is best
// effort. There are no concurrent writers in the intended
// deployment; the mutexes only keep reads consistent.
package store

import (
	"context"
	"encoding/json"
	"fmt"

	"divvy/internal/persist"
)

func saveCollection(ctx context.Context, p persist.Store, collection string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", collection, err)
	}
	return p.Save(ctx, collection, data)
}

func loadCollection(ctx context.Context, p persist.Store, collection string, v any) error {
	data, err := p.Load(ctx, collection)
	if err != nil {
		return err
	}
	if data == nil {
		return nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s: %w", collection, err)
	}
	return nil
}
