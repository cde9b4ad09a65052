package core

// ComputeBalances folds expenses into per-user net positions: the payer of
// each expense is credited its full amount, every split participant is
// debited their share. One Balance is emitted per user id that appeared as
// payer or split participant, in first-appearance order so the output is
// deterministic. A removed member with historical expenses still appears.
//
// When every expense satisfies sum(splits) == amount, each expense
// contributes net zero, so the balances of a group sum to zero. The fold is
// commutative: the order expenses were recorded in does not matter.
func ComputeBalances(expenses []Expense) []Balance {
	totals := make(map[string]float64)
	var order []string

	touch := func(id string) {
		if _, ok := totals[id]; !ok {
			totals[id] = 0
			order = append(order, id)
		}
	}

	for _, e := range expenses {
		touch(e.PayerID)
		totals[e.PayerID] += e.Amount

		for _, s := range e.Splits {
			touch(s.UserID)
			totals[s.UserID] -= s.Amount
		}
	}

	balances := make([]Balance, 0, len(order))
	for _, id := range order {
		balances = append(balances, Balance{UserID: id, Amount: totals[id]})
	}
	return balances
}

// EqualSplits divides amount evenly across the given members. Full float
// precision is kept; rounding happens only at display boundaries.
func EqualSplits(amount float64, members []User) []Split {
	if len(members) == 0 {
		return nil
	}
	share := amount / float64(len(members))
	splits := make([]Split, len(members))
	for i, m := range members {
		splits[i] = Split{UserID: m.ID, Amount: share}
	}
	return splits
}
