package core

import (
	"errors"
	"math"
	"strings"
	"testing"
	"time"
)

func TestDateValidate(t *testing.T) {
	cases := []struct {
		d  Date
		ok bool
	}{
		{NewDate(2025, 1, 1), true},
		{NewDate(2025, 12, 31), true},
		{NewDate(1, 1, 1), true},
		{Date{Time: time.Time{}}, false}, // unset
		{Date{Time: time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)}, false},
	}
	for i, tc := range cases {
		err := tc.d.Validate()
		if tc.ok && err != nil {
			t.Fatalf("case %d expected ok, got %v", i, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-03-15")
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if d.Year() != 2024 || d.Month() != 3 || d.Day() != 15 {
		t.Fatalf("unexpected date parts: %v", d)
	}
	if d.String() != "2024-03-15" {
		t.Fatalf("String() = %q", d.String())
	}

	for _, in := range []string{"", "2024-13-01", "15/03/2024", "2024-02-30", "2024-03-15T10:00:00Z"} {
		if _, err := ParseDate(in); !errors.Is(err, ErrInvalidDate) {
			t.Fatalf("ParseDate(%q) expected ErrInvalidDate, got %v", in, err)
		}
	}
}

func TestExpenseValidate(t *testing.T) {
	good := Expense{Amount: 42.5, Category: "food", Date: NewDate(2024, 3, 15)}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	// Negative amounts and empty categories are accepted.
	if err := (Expense{Amount: -3, Category: "", Date: NewDate(2024, 1, 1)}).Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	// Exactly 200 multi-byte characters is still valid.
	if err := (Expense{Category: strings.Repeat("é", MaxCategoryLength), Date: NewDate(2024, 1, 1)}).Validate(); err != nil {
		t.Fatalf("expected ok at limit, got %v", err)
	}

	bads := []struct {
		e    Expense
		want error
	}{
		{Expense{Amount: 1, Category: "a"}, ErrInvalidDate},
		{Expense{Amount: math.NaN(), Category: "a", Date: NewDate(2024, 1, 1)}, ErrInvalidAmount},
		{Expense{Amount: math.Inf(1), Category: "a", Date: NewDate(2024, 1, 1)}, ErrInvalidAmount},
		{Expense{Amount: 1, Category: strings.Repeat("x", MaxCategoryLength+1), Date: NewDate(2024, 1, 1)}, ErrCategoryTooLong},
	}
	for i, tc := range bads {
		if err := tc.e.Validate(); !errors.Is(err, tc.want) {
			t.Fatalf("case %d expected %v, got %v", i, tc.want, err)
		}
	}
}

func TestExpenseInMonth(t *testing.T) {
	e := Expense{Date: NewDate(2024, 3, 15)}
	if !e.InMonth(2024, 3) {
		t.Fatal("expected match for 2024-03")
	}
	if e.InMonth(2024, 4) || e.InMonth(2023, 3) {
		t.Fatal("year and month must both match")
	}
}

func TestNewTotals(t *testing.T) {
	sum := 42.5
	got := NewTotals(100, &sum)
	if got.TotalExpenses != 42.5 || got.RemainingAmount != 57.5 {
		t.Fatalf("unexpected totals: %+v", got)
	}

	empty := NewTotals(100, nil)
	if empty.TotalExpenses != 0 || empty.RemainingAmount != 100 {
		t.Fatalf("nil sum should count as zero: %+v", empty)
	}

	neg := NewTotals(-10, &sum)
	if neg.RemainingAmount != -10-42.5 {
		t.Fatalf("unexpected remaining for negative salary: %+v", neg)
	}
}

func TestParseDateEarliestYear(t *testing.T) {
	d, err := ParseDate("0001-01-01")
	if err != nil {
		t.Fatalf("ParseDate() error = %v", err)
	}
	if err := d.Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil for 0001-01-01", err)
	}
	if err := (Expense{Amount: 1, Category: "x", Date: d}).Validate(); err != nil {
		t.Errorf("Expense.Validate() = %v", err)
	}
	if d.String() != "0001-01-01" {
		t.Errorf("String() = %q", d.String())
	}
}
