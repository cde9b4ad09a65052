package core

import (
	"testing"
	"time"
)

func TestUserValidate(t *testing.T) {
	if err := (User{ID: NewID(), Name: "Alice"}).Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	for i, name := range []string{"", "   ", "\t"} {
		if err := (User{ID: NewID(), Name: name}).Validate(); err != ErrEmptyName {
			t.Fatalf("case %d expected ErrEmptyName, got %v", i, err)
		}
	}
}

func TestGroupValidate(t *testing.T) {
	g := Group{ID: NewID(), Name: "Trip", CreatedAt: time.Now()}
	if err := g.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	g.Name = " "
	if err := g.Validate(); err != ErrEmptyName {
		t.Fatalf("expected ErrEmptyName, got %v", err)
	}
}

func TestExpenseValidate(t *testing.T) {
	good := Expense{Title: "Dinner", Amount: 42.5, Category: "Food"}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	cases := []struct {
		e    Expense
		want error
	}{
		{Expense{Title: "", Amount: 10}, ErrEmptyTitle},
		{Expense{Title: "  ", Amount: 10}, ErrEmptyTitle},
		{Expense{Title: "x", Amount: 0}, ErrInvalidAmount},
		{Expense{Title: "x", Amount: -3}, ErrInvalidAmount},
	}
	for i, tc := range cases {
		if err := tc.e.Validate(); err != tc.want {
			t.Fatalf("case %d expected %v, got %v", i, tc.want, err)
		}
	}
}

func TestIsValidation(t *testing.T) {
	for _, err := range []error{ErrEmptyName, ErrEmptyTitle, ErrInvalidAmount} {
		if !IsValidation(err) {
			t.Fatalf("%v should be a validation error", err)
		}
	}
	if IsValidation(ErrUnbalancedSplits) {
		t.Fatal("integrity errors are not validation errors")
	}
}

func TestUserPatchApply(t *testing.T) {
	u := User{ID: "u1", Name: "Alice", Email: "a@example.com"}
	name := "Alicia"
	UserPatch{Name: &name}.Apply(&u)

	if u.Name != "Alicia" {
		t.Fatalf("name not merged: %q", u.Name)
	}
	if u.Email != "a@example.com" {
		t.Fatalf("untouched field changed: %q", u.Email)
	}
}

func TestExpensePatchApplySplits(t *testing.T) {
	e := Expense{Title: "Dinner", Amount: 30, Splits: []Split{{UserID: "a", Amount: 30}}}
	patch := ExpensePatch{Splits: []Split{{UserID: "a", Amount: 15}, {UserID: "b", Amount: 15}}}
	patch.Apply(&e)

	if len(e.Splits) != 2 {
		t.Fatalf("splits not replaced: %v", e.Splits)
	}

	// The patch keeps its own copy; mutating the expense must not leak back.
	e.Splits[0].Amount = 99
	if patch.Splits[0].Amount != 15 {
		t.Fatal("patch splits aliased into expense")
	}
}

func TestNewIDUnique(t *testing.T) {
	a, b := NewID(), NewID()
	if a == "" || a == b {
		t.Fatalf("ids not unique: %q %q", a, b)
	}
}
