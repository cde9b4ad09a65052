// Package worker maintains a normalized SQLite mirror of the ledger
// snapshots. It reacts to change messages and additionally sweeps all
// collections periodically, which recovers from lost messages and from
// worker downtime.
package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"divvy/internal/core"
	"divvy/internal/event"
	"divvy/internal/persist"
)

type MirrorWorker struct {
	source persist.Store
	mirror *Mirror
}

func NewMirrorWorker(source persist.Store, mirror *Mirror) *MirrorWorker {
	return &MirrorWorker{
		source: source,
		mirror: mirror,
	}
}

// HandleChange refreshes the mirror tables for the collection named by the
// message. Unknown collections are acknowledged and skipped so a newer
// publisher cannot wedge the queue.
func (w *MirrorWorker) HandleChange(ctx context.Context, msg *event.ChangeMessage) error {
	switch msg.Collection {
	case persist.CollectionUsers:
		return w.refreshUsers(ctx)
	case persist.CollectionGroups:
		return w.refreshGroups(ctx)
	case persist.CollectionExpenses:
		return w.refreshExpenses(ctx)
	default:
		slog.WarnContext(ctx, "Skipping unknown collection", "collection", msg.Collection)
		return nil
	}
}

// SweepAll refreshes every collection from the primary backend.
func (w *MirrorWorker) SweepAll(ctx context.Context) error {
	if err := w.refreshUsers(ctx); err != nil {
		return fmt.Errorf("sweep users: %w", err)
	}
	if err := w.refreshGroups(ctx); err != nil {
		return fmt.Errorf("sweep groups: %w", err)
	}
	if err := w.refreshExpenses(ctx); err != nil {
		return fmt.Errorf("sweep expenses: %w", err)
	}

	users, groups, expenses, err := w.mirror.Counts(ctx)
	if err != nil {
		slog.WarnContext(ctx, "Failed to count mirrored rows", "error", err)
		return nil
	}

	slog.InfoContext(ctx, "Sweep completed",
		"users", users,
		"groups", groups,
		"expenses", expenses)

	return nil
}

// StartupCheck runs one full sweep so the mirror catches up with whatever
// changed while the worker was down.
func (w *MirrorWorker) StartupCheck(ctx context.Context) error {
	slog.InfoContext(ctx, "Running startup sweep")
	if err := w.SweepAll(ctx); err != nil {
		return fmt.Errorf("startup sweep: %w", err)
	}
	return nil
}

func (w *MirrorWorker) refreshUsers(ctx context.Context) error {
	data, err := w.source.Load(ctx, persist.CollectionUsers)
	if err != nil {
		return fmt.Errorf("load users snapshot: %w", err)
	}

	// The users snapshot wraps the records with session state the mirror
	// does not care about.
	var snap struct {
		Users []core.User `json:"users"`
	}
	if data != nil {
		if err := json.Unmarshal(data, &snap); err != nil {
			return fmt.Errorf("decode users snapshot: %w", err)
		}
	}

	if err := w.mirror.ReplaceUsers(ctx, snap.Users); err != nil {
		return fmt.Errorf("replace users: %w", err)
	}

	slog.InfoContext(ctx, "Mirrored users", "count", len(snap.Users))
	return nil
}

func (w *MirrorWorker) refreshGroups(ctx context.Context) error {
	data, err := w.source.Load(ctx, persist.CollectionGroups)
	if err != nil {
		return fmt.Errorf("load groups snapshot: %w", err)
	}

	var groups []core.Group
	if data != nil {
		if err := json.Unmarshal(data, &groups); err != nil {
			return fmt.Errorf("decode groups snapshot: %w", err)
		}
	}

	if err := w.mirror.ReplaceGroups(ctx, groups); err != nil {
		return fmt.Errorf("replace groups: %w", err)
	}

	slog.InfoContext(ctx, "Mirrored groups", "count", len(groups))
	return nil
}

func (w *MirrorWorker) refreshExpenses(ctx context.Context) error {
	data, err := w.source.Load(ctx, persist.CollectionExpenses)
	if err != nil {
		return fmt.Errorf("load expenses snapshot: %w", err)
	}

	var expenses []core.Expense
	if data != nil {
		if err := json.Unmarshal(data, &expenses); err != nil {
			return fmt.Errorf("decode expenses snapshot: %w", err)
		}
	}

	if err := w.mirror.ReplaceExpenses(ctx, expenses); err != nil {
		return fmt.Errorf("replace expenses: %w", err)
	}

	slog.InfoContext(ctx, "Mirrored expenses", "count", len(expenses))
	return nil
}
