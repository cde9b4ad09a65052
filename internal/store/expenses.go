package store

import (
	"context"
	"log/slog"
	"sync"

	"divvy/internal/core"
	"divvy/internal/persist"
)

// ExpenseLedger owns the Expense records and derives balances from them.
// Records are stored verbatim: the ledger does not check that splits sum
// to the amount or that payer and split ids are members of the group.
// Those checks live in core's integrity functions for callers that want
// them before committing.
type ExpenseLedger struct {
	mu       sync.Mutex
	persist  persist.Store
	expenses []core.Expense
}

func NewExpenseLedger(ctx context.Context, p persist.Store) (*ExpenseLedger, error) {
	var expenses []core.Expense
	if err := loadCollection(ctx, p, persist.CollectionExpenses, &expenses); err != nil {
		return nil, err
	}
	return &ExpenseLedger{persist: p, expenses: expenses}, nil
}

func (l *ExpenseLedger) saveLocked(ctx context.Context) error {
	return saveCollection(ctx, l.persist, persist.CollectionExpenses, l.expenses)
}

func copyExpense(e core.Expense) core.Expense {
	e.Splits = append([]core.Split(nil), e.Splits...)
	return e
}

// AddExpense assigns a fresh id and stores the record as supplied. Title
// and amount are validated; everything else is the caller's responsibility.
func (l *ExpenseLedger) AddExpense(ctx context.Context, e core.Expense) (core.Expense, error) {
	if err := e.Validate(); err != nil {
		return core.Expense{}, err
	}
	e.ID = core.NewID()
	e = copyExpense(e)

	l.mu.Lock()
	defer l.mu.Unlock()
	l.expenses = append(l.expenses, e)

	slog.InfoContext(ctx, "expense added",
		"expense_id", e.ID, "group_id", e.GroupID, "payer_id", e.PayerID,
		"amount", e.Amount, "splits", len(e.Splits))
	return copyExpense(e), l.saveLocked(ctx)
}

// UpdateExpense merges the patch into the stored record; unknown ids are a
// silent no-op. No cross-record validation is performed.
func (l *ExpenseLedger) UpdateExpense(ctx context.Context, id string, patch core.ExpensePatch) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i := range l.expenses {
		if l.expenses[i].ID == id {
			patch.Apply(&l.expenses[i])
			return l.saveLocked(ctx)
		}
	}
	return nil
}

func (l *ExpenseLedger) DeleteExpense(ctx context.Context, id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	kept := l.expenses[:0]
	removed := false
	for _, e := range l.expenses {
		if e.ID == id {
			removed = true
			continue
		}
		kept = append(kept, e)
	}
	if !removed {
		return nil
	}
	l.expenses = kept
	slog.InfoContext(ctx, "expense deleted", "expense_id", id)
	return l.saveLocked(ctx)
}

// GetExpensesByGroup returns the group's expenses in insertion order,
// recomputed on every call.
func (l *ExpenseLedger) GetExpensesByGroup(groupID string) []core.Expense {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.byGroupLocked(groupID)
}

func (l *ExpenseLedger) byGroupLocked(groupID string) []core.Expense {
	var out []core.Expense
	for _, e := range l.expenses {
		if e.GroupID == groupID {
			out = append(out, copyExpense(e))
		}
	}
	return out
}

// CalculateBalances derives the net position of every user that appears in
// the group's expenses. See core.ComputeBalances for the algorithm.
func (l *ExpenseLedger) CalculateBalances(groupID string) []core.Balance {
	l.mu.Lock()
	expenses := l.byGroupLocked(groupID)
	l.mu.Unlock()

	return core.ComputeBalances(expenses)
}
