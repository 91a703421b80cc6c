package core

import (
	"errors"
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
		{Date{Time: time.Time{}}, false}, // zero time
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

func TestEntryValidate(t *testing.T) {
	good := Entry{
		Date:        NewDate(2025, 1, 15),
		Description: "Donativo anónimo",
		Amount:      Money{Cents: 5000},
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	// Zero amount is accepted; only negatives are invalid.
	zero := good
	zero.Amount = Money{}
	if err := zero.Validate(); err != nil {
		t.Fatalf("zero amount expected ok, got %v", err)
	}

	bads := []struct {
		e    Entry
		want error
	}{
		{Entry{Date: Date{}, Description: "a", Amount: Money{Cents: 1}}, nil}, // zero date, untyped error
		{Entry{Date: NewDate(2025, 1, 1), Description: "   ", Amount: Money{Cents: 1}}, ErrEmptyDescription},
		{Entry{Date: NewDate(2025, 1, 1), Description: strings.Repeat("x", 201), Amount: Money{Cents: 1}}, ErrDescriptionTooLong},
		{Entry{Date: NewDate(2025, 1, 1), Description: "a", Amount: Money{Cents: -1}}, ErrNegativeAmount},
	}
	for i, tc := range bads {
		err := tc.e.Validate()
		if err == nil {
			t.Fatalf("case %d expected error", i)
		}
		if tc.want != nil && !errors.Is(err, tc.want) {
			t.Fatalf("case %d expected %v, got %v", i, tc.want, err)
		}
	}
}

func TestAddEntryRejectsInvalid(t *testing.T) {
	yb := NewYearBook(2025)
	cases := []struct {
		name  string
		month int
		kind  LedgerKind
		e     Entry
		want  error
	}{
		{"negative amount", 1, Donation, Entry{Date: NewDate(2025, 1, 5), Description: "x", Amount: Money{Cents: -100}}, ErrNegativeAmount},
		{"empty description", 1, Donation, Entry{Date: NewDate(2025, 1, 5), Description: "", Amount: Money{Cents: 100}}, ErrEmptyDescription},
		{"overlong description", 1, Donation, Entry{Date: NewDate(2025, 1, 5), Description: strings.Repeat("x", 201), Amount: Money{Cents: 100}}, ErrDescriptionTooLong},
		{"date in wrong month", 2, Expense, Entry{Date: NewDate(2025, 1, 5), Description: "x", Amount: Money{Cents: 100}}, ErrDateOutOfMonth},
		{"date in wrong year", 1, Expense, Entry{Date: NewDate(2024, 1, 5), Description: "x", Amount: Money{Cents: 100}}, ErrDateOutOfMonth},
		{"month out of range", 13, Donation, Entry{Date: NewDate(2025, 1, 5), Description: "x", Amount: Money{Cents: 100}}, ErrInvalidMonth},
		{"bad ledger kind", 1, LedgerKind("loan"), Entry{Date: NewDate(2025, 1, 5), Description: "x", Amount: Money{Cents: 100}}, ErrInvalidLedger},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := yb.AddEntry(tc.month, tc.kind, tc.e)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			if !IsValidationError(err) {
				t.Fatalf("expected validation error classification for %v", err)
			}
		})
	}
	// Atomic reject: nothing was recorded.
	if yb.HasEntries() {
		t.Fatalf("rejected entries must not mutate the book")
	}
	if len(yb.Months) != 0 {
		t.Fatalf("rejected entries must not create months, got %d", len(yb.Months))
	}
}

func TestAddEntryCreatesMonthLazily(t *testing.T) {
	yb := NewYearBook(2025)
	m, err := yb.AddEntry(3, Expense, Entry{
		Date:        NewDate(2025, 3, 10),
		Description: "Pizza reunión",
		Amount:      Money{Cents: 2500},
	})
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if m.Year != 2025 || m.Month != 3 {
		t.Fatalf("unexpected month record %d-%d", m.Year, m.Month)
	}
	if len(m.Expenses) != 1 || len(m.Donations) != 0 {
		t.Fatalf("entry landed in wrong ledger")
	}
	if yb.Months[3] != m {
		t.Fatalf("month not registered in book")
	}
}

func TestMonthTotals(t *testing.T) {
	m := &Month{Year: 2025, Month: 1}
	if d, e := m.Totals(); !d.IsZero() || !e.IsZero() {
		t.Fatalf("empty ledgers must total zero, got %v/%v", d, e)
	}
	m.Donations = []Entry{
		{Date: NewDate(2025, 1, 2), Description: "a", Amount: Money{Cents: 5000}},
		{Date: NewDate(2025, 1, 9), Description: "b", Amount: Money{Cents: 1250}},
	}
	m.Expenses = []Entry{
		{Date: NewDate(2025, 1, 20), Description: "c", Amount: Money{Cents: 2000}},
	}
	d, e := m.Totals()
	if d.Cents != 6250 || e.Cents != 2000 {
		t.Fatalf("totals mismatch: donations=%d expenses=%d", d.Cents, e.Cents)
	}
}

func TestMonthsInOrder(t *testing.T) {
	yb := NewYearBook(2025)
	for _, m := range []int{11, 2, 7} {
		yb.MonthFor(m)
	}
	got := yb.MonthsInOrder()
	want := []int{2, 7, 11}
	if len(got) != len(want) {
		t.Fatalf("expected %d months, got %d", len(want), len(got))
	}
	for i, m := range got {
		if m.Month != want[i] {
			t.Fatalf("position %d: expected month %d, got %d", i, want[i], m.Month)
		}
	}
}

func TestCloneIsDeep(t *testing.T) {
	yb := NewYearBook(2025)
	if _, err := yb.AddEntry(1, Donation, Entry{Date: NewDate(2025, 1, 1), Description: "a", Amount: Money{Cents: 100}}); err != nil {
		t.Fatalf("add: %v", err)
	}
	cp := yb.Clone()
	if _, err := cp.AddEntry(1, Donation, Entry{Date: NewDate(2025, 1, 2), Description: "b", Amount: Money{Cents: 200}}); err != nil {
		t.Fatalf("add to clone: %v", err)
	}
	if len(yb.Months[1].Donations) != 1 {
		t.Fatalf("clone mutation leaked into original")
	}
}

func TestMonthName(t *testing.T) {
	if MonthName(1) != "Enero" || MonthName(12) != "Diciembre" {
		t.Fatalf("unexpected month names: %q %q", MonthName(1), MonthName(12))
	}
	if MonthName(0) != "" || MonthName(13) != "" {
		t.Fatalf("out-of-range months must map to empty string")
	}
}
