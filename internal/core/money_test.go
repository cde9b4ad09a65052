package core

import (
	"math"
	"testing"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"90", 90, true},
		{"12.34", 12.34, true},
		{"12,34", 12.34, true},
		{" 5.1 ", 5.1, true},
		{"", 0, false},
		{"abc", 0, false},
		{"0", 0, false},
		{"-5", 0, false},
		{"NaN", 0, false},
	}
	for i, tc := range cases {
		got, err := ParseAmount(tc.in)
		if tc.ok && (err != nil || math.Abs(got-tc.want) > 1e-9) {
			t.Fatalf("case %d (%q): got %v, %v", i, tc.in, got, err)
		}
		if !tc.ok && err != ErrInvalidAmount {
			t.Fatalf("case %d (%q): expected ErrInvalidAmount, got %v", i, tc.in, err)
		}
	}
}

func TestRoundDisplay(t *testing.T) {
	cases := []struct{ in, want float64 }{
		{10.005, 10.01},
		{10.004, 10.0},
		{-10.005, -10.01},
		{100.0 / 3, 33.33},
	}
	for i, tc := range cases {
		if got := RoundDisplay(tc.in); math.Abs(got-tc.want) > 1e-9 {
			t.Fatalf("case %d: RoundDisplay(%v) = %v, want %v", i, tc.in, got, tc.want)
		}
	}
}

func TestFormatAmount(t *testing.T) {
	if got := FormatAmount(100.0 / 3); got != "33.33" {
		t.Fatalf("got %q", got)
	}
	if got := FormatAmount(90); got != "90.00" {
		t.Fatalf("got %q", got)
	}
}
