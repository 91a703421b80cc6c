package core

import (
	"reflect"
	"testing"
)

func mustAdd(t *testing.T, yb *YearBook, month int, kind LedgerKind, day int, desc string, cents int64) {
	t.Helper()
	_, err := yb.AddEntry(month, kind, Entry{
		Date:        NewDate(yb.Year, month, day),
		Description: desc,
		Amount:      Money{Cents: cents},
	})
	if err != nil {
		t.Fatalf("add %s %q: %v", kind, desc, err)
	}
}

// The worked example: Jan opening 100.00, donation 50.00, expense 20.00,
// Feb expense 30.00.
func TestComputeBalancesExample(t *testing.T) {
	yb := NewYearBook(2025)
	yb.OpeningBalance = Money{Cents: 10000}
	mustAdd(t, yb, 1, Donation, 5, "Donativo actividad", 5000)
	mustAdd(t, yb, 1, Expense, 12, "Meriendas asamblea", 2000)
	mustAdd(t, yb, 2, Expense, 3, "Pizza reunión", 3000)

	got := ComputeBalances(yb, Money{Cents: 99999}) // ignored: book has entries
	want := []MonthBalance{
		{Year: 2025, Month: 1, Before: Money{Cents: 10000}, After: Money{Cents: 13000}},
		{Year: 2025, Month: 2, Before: Money{Cents: 13000}, After: Money{Cents: 10000}},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("balances mismatch:\n got %+v\nwant %+v", got, want)
	}
}

func TestComputeBalancesRecurrence(t *testing.T) {
	yb := NewYearBook(2025)
	yb.OpeningBalance = Money{Cents: 500}
	mustAdd(t, yb, 1, Donation, 1, "a", 1000)
	mustAdd(t, yb, 3, Expense, 15, "b", 700)
	mustAdd(t, yb, 3, Donation, 20, "c", 50)
	mustAdd(t, yb, 9, Expense, 2, "d", 5000)

	balances := ComputeBalances(yb, Money{})
	for i, b := range balances {
		m := yb.Months[b.Month]
		d, e := m.Totals()
		if b.After != b.Before.Add(d).Sub(e) {
			t.Fatalf("month %d: after != before + donations - expenses", b.Month)
		}
		if i > 0 && balances[i-1].After != b.Before {
			t.Fatalf("month %d: before does not chain from prior month's after", b.Month)
		}
	}
	// Net can go negative; it is reported, not prevented.
	last := balances[len(balances)-1]
	if !last.After.IsNegative() {
		t.Fatalf("expected negative final balance, got %d", last.After.Cents)
	}
}

func TestComputeBalancesOpeningRules(t *testing.T) {
	// Empty book: the supplied opening is the January baseline.
	empty := NewYearBook(2025)
	if got := BalanceBefore(empty, 1, Money{Cents: 7500}); got.Cents != 7500 {
		t.Fatalf("empty book: expected opening 7500, got %d", got.Cents)
	}

	// Once a month exists the supplied opening has no effect; the stored
	// value governs even when it is zero.
	yb := NewYearBook(2025)
	mustAdd(t, yb, 2, Donation, 1, "a", 100)
	first := ComputeBalances(yb, Money{Cents: 7500})[0]
	if first.Before.Cents != 0 {
		t.Fatalf("recorded book must ignore supplied opening, got before=%d", first.Before.Cents)
	}

	yb.OpeningBalance = Money{Cents: 300}
	first = ComputeBalances(yb, Money{Cents: 7500})[0]
	if first.Before.Cents != 300 {
		t.Fatalf("stored opening must govern, got before=%d", first.Before.Cents)
	}
}

func TestComputeBalancesIdempotent(t *testing.T) {
	yb := NewYearBook(2025)
	yb.OpeningBalance = Money{Cents: 1234}
	mustAdd(t, yb, 1, Donation, 1, "a", 999)
	mustAdd(t, yb, 4, Expense, 30, "b", 501)

	first := ComputeBalances(yb, Money{})
	second := ComputeBalances(yb, Money{})
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("recomputation must be deterministic:\n %+v\n %+v", first, second)
	}
}

func TestBalanceBeforeIgnoresLaterMonths(t *testing.T) {
	yb := NewYearBook(2025)
	yb.OpeningBalance = Money{Cents: 1000}
	mustAdd(t, yb, 1, Donation, 1, "a", 500)
	mustAdd(t, yb, 6, Expense, 1, "late", 100000)

	if got := BalanceBefore(yb, 3, Money{}); got.Cents != 1500 {
		t.Fatalf("expected 1500 before month 3, got %d", got.Cents)
	}
}

func TestChartSlices(t *testing.T) {
	m := &Month{Year: 2025, Month: 1}
	m.Donations = []Entry{{Date: NewDate(2025, 1, 2), Description: "a", Amount: Money{Cents: 5000}}}
	m.Expenses = []Entry{{Date: NewDate(2025, 1, 9), Description: "b", Amount: Money{Cents: 2000}}}

	funding, usage := ChartSlices(Money{Cents: 10000}, m)
	if funding.Clamped || usage.Clamped {
		t.Fatalf("no clamping expected")
	}
	if funding.Slices[0].Amount.Cents != 10000 || funding.Slices[1].Amount.Cents != 5000 {
		t.Fatalf("funding slices mismatch: %+v", funding.Slices)
	}
	if usage.Slices[0].Amount.Cents != 2000 || usage.Slices[1].Amount.Cents != 13000 {
		t.Fatalf("usage slices mismatch: %+v", usage.Slices)
	}
}

func TestChartSlicesClampNegativeRemaining(t *testing.T) {
	m := &Month{Year: 2025, Month: 1}
	m.Expenses = []Entry{{Date: NewDate(2025, 1, 9), Description: "b", Amount: Money{Cents: 9000}}}

	funding, usage := ChartSlices(Money{Cents: 1000}, m)
	if funding.Clamped {
		t.Fatalf("funding should not clamp for positive previous balance")
	}
	if !usage.Clamped {
		t.Fatalf("expected clamped usage for negative remaining")
	}
	if usage.Slices[1].Amount.Cents != 0 {
		t.Fatalf("remaining slice must be floored at zero, got %d", usage.Slices[1].Amount.Cents)
	}
}

func TestChartSlicesClampNegativePreviousBalance(t *testing.T) {
	m := &Month{Year: 2025, Month: 2}
	funding, _ := ChartSlices(Money{Cents: -500}, m)
	if !funding.Clamped {
		t.Fatalf("expected clamped funding for negative previous balance")
	}
	if funding.Slices[0].Amount.Cents != 0 {
		t.Fatalf("previous balance slice must be floored at zero")
	}
}
