package store

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"divvy/internal/core"
	"divvy/internal/persist"
)

// GroupRegistry owns the Group records. Members are value snapshots of
// User taken at the time of addition: renaming a user later does not
// change what a group already holds.
type GroupRegistry struct {
	mu      sync.Mutex
	persist persist.Store
	groups  []core.Group
}

func NewGroupRegistry(ctx context.Context, p persist.Store) (*GroupRegistry, error) {
	var groups []core.Group
	if err := loadCollection(ctx, p, persist.CollectionGroups, &groups); err != nil {
		return nil, err
	}
	return &GroupRegistry{persist: p, groups: groups}, nil
}

func (r *GroupRegistry) saveLocked(ctx context.Context) error {
	return saveCollection(ctx, r.persist, persist.CollectionGroups, r.groups)
}

func copyGroup(g core.Group) core.Group {
	g.Members = append([]core.User(nil), g.Members...)
	return g
}

// AddGroup creates a group with a fresh id. The member list is copied by
// value, keeping the first occurrence of each id. The registry does not
// verify that createdBy appears in it; the calling layer seeds the creator
// into members.
func (r *GroupRegistry) AddGroup(ctx context.Context, name, description string, members []core.User, createdBy string) (core.Group, error) {
	g := core.Group{
		ID:          core.NewID(),
		Name:        name,
		Description: description,
		Members:     core.UniqueMembers(members),
		CreatedAt:   time.Now(),
		CreatedBy:   createdBy,
	}
	if err := g.Validate(); err != nil {
		return core.Group{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.groups = append(r.groups, g)

	slog.InfoContext(ctx, "group added",
		"group_id", g.ID, "name", g.Name, "members", len(g.Members))
	return copyGroup(g), r.saveLocked(ctx)
}

// UpdateGroup merges the patch into the stored record; unknown ids are a
// silent no-op.
func (r *GroupRegistry) UpdateGroup(ctx context.Context, id string, patch core.GroupPatch) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.groups {
		if r.groups[i].ID == id {
			patch.Apply(&r.groups[i])
			return r.saveLocked(ctx)
		}
	}
	return nil
}

func (r *GroupRegistry) DeleteGroup(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.groups[:0]
	removed := false
	for _, g := range r.groups {
		if g.ID == id {
			removed = true
			continue
		}
		kept = append(kept, g)
	}
	if !removed {
		return nil
	}
	r.groups = kept
	slog.InfoContext(ctx, "group deleted", "group_id", id)
	return r.saveLocked(ctx)
}

// AddMember adds a member snapshot to the group. Idempotent: a member with
// the same id already present leaves the group unchanged.
func (r *GroupRegistry) AddMember(ctx context.Context, groupID string, member core.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.groups {
		if r.groups[i].ID != groupID {
			continue
		}
		if r.groups[i].HasMember(member.ID) {
			return nil
		}
		r.groups[i].Members = append(r.groups[i].Members, member)
		slog.InfoContext(ctx, "member added", "group_id", groupID, "user_id", member.ID)
		return r.saveLocked(ctx)
	}
	return nil
}

// RemoveMember removes the member by id. It does not check for outstanding
// expenses or splits; historical expenses keep referencing the removed id.
func (r *GroupRegistry) RemoveMember(ctx context.Context, groupID, memberID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.groups {
		if r.groups[i].ID != groupID {
			continue
		}
		members := r.groups[i].Members
		kept := members[:0]
		removed := false
		for _, m := range members {
			if m.ID == memberID {
				removed = true
				continue
			}
			kept = append(kept, m)
		}
		if !removed {
			return nil
		}
		r.groups[i].Members = kept
		slog.InfoContext(ctx, "member removed", "group_id", groupID, "user_id", memberID)
		return r.saveLocked(ctx)
	}
	return nil
}

func (r *GroupRegistry) GetGroup(id string) (core.Group, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, g := range r.groups {
		if g.ID == id {
			return copyGroup(g), true
		}
	}
	return core.Group{}, false
}

func (r *GroupRegistry) ListGroups() []core.Group {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]core.Group, len(r.groups))
	for i, g := range r.groups {
		out[i] = copyGroup(g)
	}
	return out
}
