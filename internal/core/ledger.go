package core

// MonthBalance is the running balance carried into and out of one month.
type MonthBalance struct {
	Year   int
	Month  int
	Before Money
	After  Money
}

// Slice is one wedge of a pie breakdown.
type Slice struct {
	Label  string
	Amount Money
}

// Breakdown is a two-slice pie. Clamped is set when a negative value had to
// be floored at zero so the pie stays drawable; the true figure is still
// visible in the month summary.
type Breakdown struct {
	Slices  []Slice
	Clamped bool
}

// ComputeBalances produces (before, after) for every recorded month in
// chronological order:
//
//	before(first) = opening balance
//	after(m)      = before(m) + donations(m) − expenses(m)
//	before(m+1)   = after(m)
//
// Months without records contribute nothing, so consecutive recorded months
// chain directly. The opening argument only applies to a book with no
// recorded entries; once any month has entries the book's stored
// OpeningBalance governs (explicit branch, no hidden state). The pass is a
// pure function of the book: calling it twice yields identical results.
func ComputeBalances(yb *YearBook, opening Money) []MonthBalance {
	start := opening
	if yb.HasEntries() {
		start = yb.OpeningBalance
	}
	months := yb.MonthsInOrder()
	out := make([]MonthBalance, 0, len(months))
	running := start
	for _, m := range months {
		donations, expenses := m.Totals()
		after := running.Add(donations).Sub(expenses)
		out = append(out, MonthBalance{
			Year:   m.Year,
			Month:  m.Month,
			Before: running,
			After:  after,
		})
		running = after
	}
	return out
}

// BalanceBefore rolls the recurrence up to (but not including) the given
// month. Months after the target do not affect the result.
func BalanceBefore(yb *YearBook, month int, opening Money) Money {
	start := opening
	if yb.HasEntries() {
		start = yb.OpeningBalance
	}
	running := start
	for _, m := range yb.MonthsInOrder() {
		if m.Month >= month {
			break
		}
		donations, expenses := m.Totals()
		running = running.Add(donations).Sub(expenses)
	}
	return running
}

// ChartSlices builds the two dashboard pies for a month: where the budget
// came from (previous balance vs donations) and how it was used (spent vs
// remaining). Slices are never negative; a negative previous balance or a
// negative remainder is clamped to zero and flagged.
func ChartSlices(before Money, m *Month) (funding, usage Breakdown) {
	donations, expenses := m.Totals()
	after := before.Add(donations).Sub(expenses)

	prev := before
	if prev.IsNegative() {
		prev = Money{}
		funding.Clamped = true
	}
	funding.Slices = []Slice{
		{Label: "Saldo previo", Amount: prev},
		{Label: "Donaciones", Amount: donations},
	}

	remaining := after
	if remaining.IsNegative() {
		remaining = Money{}
		usage.Clamped = true
	}
	usage.Slices = []Slice{
		{Label: "Gastado", Amount: expenses},
		{Label: "Restante", Amount: remaining},
	}
	return funding, usage
}
