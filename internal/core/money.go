// Package core defines the entities of the shared-expense ledger and the
// balance computation over them.
//
// This file holds amount parsing and formatting. Amounts are currency-less
// float64 values; the ledger keeps full precision and rounding to two
// fractional digits happens only at display boundaries.
package core

import (
	"math"
	"strconv"
	"strings"
)

// ParseAmount converts a decimal string to a positive amount. Both dot
// (12.34) and comma (12,34) separators are accepted.
//
// Examples:
//
//	ParseAmount("90")    -> 90, nil
//	ParseAmount("12,34") -> 12.34, nil
//	ParseAmount("-5")    -> 0, ErrInvalidAmount
func ParseAmount(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	if v <= 0 || math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, ErrInvalidAmount
	}
	return v, nil
}

// RoundDisplay rounds an amount to two fractional digits, half away from
// zero. For user-facing output only; never applied inside the ledger.
func RoundDisplay(v float64) float64 {
	return math.Round(v*100) / 100
}

// FormatAmount renders an amount with two fractional digits for display.
func FormatAmount(v float64) string {
	return strconv.FormatFloat(RoundDisplay(v), 'f', 2, 64)
}
