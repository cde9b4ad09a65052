package core

import (
	"errors"
	"fmt"
	"math"
)

// SplitTolerance is the float slack allowed when comparing a split total
// against the expense amount.
const SplitTolerance = 1e-6

var (
	ErrUnbalancedSplits = errors.New("splits do not sum to expense amount")
	ErrNotGroupMember   = errors.New("user is not a group member")
)

// The ledger itself never runs these checks: it accepts unbalanced splits
// and orphaned user references. Callers that want stricter guarantees
// invoke them before committing a mutation.

// CheckSplitsTotal verifies that an expense's splits sum to its amount.
func CheckSplitsTotal(e Expense) error {
	var total float64
	for _, s := range e.Splits {
		total += s.Amount
	}
	if math.Abs(total-e.Amount) > SplitTolerance {
		return fmt.Errorf("%w: amount %v, splits total %v", ErrUnbalancedSplits, e.Amount, total)
	}
	return nil
}

// CheckMembership verifies that the payer and every split participant are
// current members of the group.
func CheckMembership(e Expense, g Group) error {
	if !g.HasMember(e.PayerID) {
		return fmt.Errorf("%w: payer %s", ErrNotGroupMember, e.PayerID)
	}
	for _, s := range e.Splits {
		if !g.HasMember(s.UserID) {
			return fmt.Errorf("%w: split participant %s", ErrNotGroupMember, s.UserID)
		}
	}
	return nil
}

// OrphanedUserIDs reports the ids referenced by the expenses of a group
// that are not (or no longer) members. Useful for diagnostics; orphans are
// tolerated by the ledger.
func OrphanedUserIDs(g Group, expenses []Expense) []string {
	seen := make(map[string]struct{})
	var orphans []string

	note := func(id string) {
		if g.HasMember(id) {
			return
		}
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		orphans = append(orphans, id)
	}

	for _, e := range expenses {
		note(e.PayerID)
		for _, s := range e.Splits {
			note(s.UserID)
		}
	}
	return orphans
}
