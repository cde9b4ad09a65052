package store

import (
	"context"
	"log/slog"
	"sync"

	"divvy/internal/core"
	"divvy/internal/persist"
)

// userSnapshot is the persisted form of the directory: the user records
// plus the designated current user, if any.
type userSnapshot struct {
	CurrentUserID string      `json:"currentUserId,omitempty"`
	Users         []core.User `json:"users"`
}

// UserDirectory owns the User records. The "current user" designation is
// instance state, persisted with the collection, rather than a process
// global; callers that need it thread it through explicitly.
type UserDirectory struct {
	mu        sync.Mutex
	persist   persist.Store
	users     []core.User
	currentID string
}

// NewUserDirectory hydrates the directory from the persistence adapter.
// Absence of prior data starts an empty directory.
func NewUserDirectory(ctx context.Context, p persist.Store) (*UserDirectory, error) {
	var snap userSnapshot
	if err := loadCollection(ctx, p, persist.CollectionUsers, &snap); err != nil {
		return nil, err
	}
	return &UserDirectory{
		persist:   p,
		users:     snap.Users,
		currentID: snap.CurrentUserID,
	}, nil
}

func (d *UserDirectory) saveLocked(ctx context.Context) error {
	snap := userSnapshot{CurrentUserID: d.currentID, Users: d.users}
	return saveCollection(ctx, d.persist, persist.CollectionUsers, snap)
}

// AddUser creates and stores a user with a fresh id. Email and avatar may
// be empty.
func (d *UserDirectory) AddUser(ctx context.Context, name, email, avatar string) (core.User, error) {
	u := core.User{ID: core.NewID(), Name: name, Email: email, Avatar: avatar}
	if err := u.Validate(); err != nil {
		return core.User{}, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.users = append(d.users, u)

	slog.InfoContext(ctx, "user added", "user_id", u.ID, "name", u.Name)
	return u, d.saveLocked(ctx)
}

// UpdateUser merges the patch into the stored record. Unknown ids are a
// silent no-op. The current-user designation follows the record by id, so
// updating the designated user refreshes what CurrentUser returns.
func (d *UserDirectory) UpdateUser(ctx context.Context, id string, patch core.UserPatch) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	for i := range d.users {
		if d.users[i].ID == id {
			patch.Apply(&d.users[i])
			return d.saveLocked(ctx)
		}
	}
	return nil
}

// DeleteUser removes the user from the directory. Groups and expenses that
// reference the user keep their embedded snapshots; nothing cascades. If
// the deleted user was the designated current user, the designation is
// cleared.
func (d *UserDirectory) DeleteUser(ctx context.Context, id string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	kept := d.users[:0]
	removed := false
	for _, u := range d.users {
		if u.ID == id {
			removed = true
			continue
		}
		kept = append(kept, u)
	}
	if !removed {
		return nil
	}
	d.users = kept
	if d.currentID == id {
		d.currentID = ""
	}
	slog.InfoContext(ctx, "user deleted", "user_id", id)
	return d.saveLocked(ctx)
}

func (d *UserDirectory) GetUserByID(id string) (core.User, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, u := range d.users {
		if u.ID == id {
			return u, true
		}
	}
	return core.User{}, false
}

func (d *UserDirectory) ListUsers() []core.User {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]core.User(nil), d.users...)
}

// SetCurrentUser designates the session's current user. Nil clears the
// designation. The designation survives restarts.
func (d *UserDirectory) SetCurrentUser(ctx context.Context, u *core.User) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if u == nil {
		d.currentID = ""
	} else {
		d.currentID = u.ID
	}
	return d.saveLocked(ctx)
}

func (d *UserDirectory) CurrentUser() (core.User, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.currentID == "" {
		return core.User{}, false
	}
	for _, u := range d.users {
		if u.ID == d.currentID {
			return u, true
		}
	}
	return core.User{}, false
}
