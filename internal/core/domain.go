package core

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Categories offered by default when recording an expense. Free-text
// categories are accepted as well; this list is advisory.
var Categories = []string{
	"Food", "Transportation", "Housing", "Entertainment", "Utilities", "Other",
}

type (
	// User is a person known to the directory. Groups embed value copies
	// of User taken at membership time, so a later rename does not touch
	// snapshots already held by a group.
	User struct {
		ID     string `json:"id"`
		Name   string `json:"name"`
		Email  string `json:"email,omitempty"`
		Avatar string `json:"avatar,omitempty"`
	}

	// Group is a named set of member snapshots. Member order is the order
	// of addition; it carries no meaning beyond display.
	Group struct {
		ID          string    `json:"id"`
		Name        string    `json:"name"`
		Description string    `json:"description,omitempty"`
		Members     []User    `json:"members"`
		CreatedAt   time.Time `json:"createdAt"`
		CreatedBy   string    `json:"createdBy"`
	}

	// Split assigns one user their share of a single expense.
	Split struct {
		UserID string  `json:"userId"`
		Amount float64 `json:"amount"`
	}

	// Expense records a payment made by one group member and owed across
	// the listed splits. The ledger stores it verbatim: it does not check
	// that splits sum to Amount or that the referenced users are members
	// of the group. Callers that want those guarantees run the checks in
	// integrity.go before committing.
	Expense struct {
		ID          string    `json:"id"`
		Title       string    `json:"title"`
		Description string    `json:"description,omitempty"`
		Amount      float64   `json:"amount"`
		Category    string    `json:"category"`
		Date        time.Time `json:"date"`
		PayerID     string    `json:"payerId"`
		GroupID     string    `json:"groupId"`
		Splits      []Split   `json:"splits"`
	}

	// Balance is a user's derived net position within one group.
	// Positive means the user is owed money, negative means they owe.
	// Balances are recomputed on demand and never stored.
	Balance struct {
		UserID string  `json:"userId"`
		Amount float64 `json:"amount"`
	}
)

var (
	ErrEmptyName     = errors.New("empty name")
	ErrEmptyTitle    = errors.New("empty title")
	ErrInvalidAmount = errors.New("invalid amount")
)

// IsValidation reports whether err is one of the input-validation errors.
func IsValidation(err error) bool {
	return errors.Is(err, ErrEmptyName) ||
		errors.Is(err, ErrEmptyTitle) ||
		errors.Is(err, ErrInvalidAmount)
}

// NewID returns a fresh random identifier. Identifiers are always
// generated by the component that creates a record, never by callers.
func NewID() string {
	return uuid.NewString()
}

func (u User) Validate() error {
	if strings.TrimSpace(u.Name) == "" {
		return ErrEmptyName
	}
	return nil
}

func (g Group) Validate() error {
	if strings.TrimSpace(g.Name) == "" {
		return ErrEmptyName
	}
	return nil
}

func (e Expense) Validate() error {
	if strings.TrimSpace(e.Title) == "" {
		return ErrEmptyTitle
	}
	if e.Amount <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

// UniqueMembers copies members keeping only the first occurrence of each
// id. Group member lists never hold the same user twice; AddMember upholds
// that incrementally and this upholds it wherever a whole list is taken in.
func UniqueMembers(members []User) []User {
	seen := make(map[string]struct{}, len(members))
	out := make([]User, 0, len(members))
	for _, m := range members {
		if _, ok := seen[m.ID]; ok {
			continue
		}
		seen[m.ID] = struct{}{}
		out = append(out, m)
	}
	return out
}

// HasMember reports whether a member with the given id is in the group.
func (g Group) HasMember(userID string) bool {
	for _, m := range g.Members {
		if m.ID == userID {
			return true
		}
	}
	return false
}

type (
	// UserPatch carries the fields of a partial user update. Nil fields
	// are left unchanged.
	UserPatch struct {
		Name   *string `json:"name,omitempty"`
		Email  *string `json:"email,omitempty"`
		Avatar *string `json:"avatar,omitempty"`
	}

	// GroupPatch carries the fields of a partial group update.
	GroupPatch struct {
		Name        *string `json:"name,omitempty"`
		Description *string `json:"description,omitempty"`
		Members     []User  `json:"members,omitempty"`
	}

	// ExpensePatch carries the fields of a partial expense update.
	ExpensePatch struct {
		Title       *string    `json:"title,omitempty"`
		Description *string    `json:"description,omitempty"`
		Amount      *float64   `json:"amount,omitempty"`
		Category    *string    `json:"category,omitempty"`
		Date        *time.Time `json:"date,omitempty"`
		PayerID     *string    `json:"payerId,omitempty"`
		Splits      []Split    `json:"splits,omitempty"`
	}
)

func (p UserPatch) Apply(u *User) {
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.Avatar != nil {
		u.Avatar = *p.Avatar
	}
}

func (p GroupPatch) Apply(g *Group) {
	if p.Name != nil {
		g.Name = *p.Name
	}
	if p.Description != nil {
		g.Description = *p.Description
	}
	if p.Members != nil {
		g.Members = UniqueMembers(p.Members)
	}
}

func (p ExpensePatch) Apply(e *Expense) {
	if p.Title != nil {
		e.Title = *p.Title
	}
	if p.Description != nil {
		e.Description = *p.Description
	}
	if p.Amount != nil {
		e.Amount = *p.Amount
	}
	if p.Category != nil {
		e.Category = *p.Category
	}
	if p.Date != nil {
		e.Date = *p.Date
	}
	if p.PayerID != nil {
		e.PayerID = *p.PayerID
	}
	if p.Splits != nil {
		e.Splits = append([]Split(nil), p.Splits...)
	}
}
