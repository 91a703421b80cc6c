package core

import (
	"errors"
	"sort"
	"strings"
	"time"
)

const (
	Donation LedgerKind = "donation"
	Expense  LedgerKind = "expense"
)

type (
	// LedgerKind selects one of the two entry collections of a month.
	LedgerKind string

	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	// Entry is a single dated ledger line. Amounts are non-negative at
	// entry time; the running balance may still go negative.
	Entry struct {
		Date        Date
		Description string
		Amount      Money
	}

	// Month holds the two ledgers recorded for one calendar month.
	// Expenses are semantically the "Comida y Meriendas" category.
	Month struct {
		Year      int
		Month     int // 1-12
		Donations []Entry
		Expenses  []Entry
	}

	// YearBook is the persisted unit: every recorded month of one year
	// plus the stored January opening balance.
	YearBook struct {
		Year           int
		OpeningBalance Money
		Months         map[int]*Month
	}
)

var (
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrNegativeAmount     = errors.New("negative amount")
	ErrEmptyDescription   = errors.New("empty description")
	ErrDescriptionTooLong = errors.New("description too long (max 200 characters)")
	ErrInvalidMonth       = errors.New("invalid month")
	ErrDateOutOfMonth     = errors.New("date outside month")
	ErrInvalidLedger      = errors.New("invalid ledger kind")
)

// IsValidationError reports whether err belongs to the entry-validation
// family. These are user errors, surfaced inline and never persisted.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidAmount) ||
		errors.Is(err, ErrNegativeAmount) ||
		errors.Is(err, ErrEmptyDescription) ||
		errors.Is(err, ErrDescriptionTooLong) ||
		errors.Is(err, ErrInvalidMonth) ||
		errors.Is(err, ErrDateOutOfMonth) ||
		errors.Is(err, ErrInvalidLedger)
}

func (k LedgerKind) IsValid() bool {
	return k == Donation || k == Expense
}

// String implements fmt.Stringer
func (k LedgerKind) String() string {
	return string(k)
}

// spanishMonths is indexed 1-12; sheet names and UI labels use these.
var spanishMonths = [13]string{
	"", "Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
	"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
}

// MonthName returns the Spanish month name for 1-12, or "" out of range.
func MonthName(month int) string {
	if month < 1 || month > 12 {
		return ""
	}
	return spanishMonths[month]
}

// NewDate creates a Date at UTC midnight.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

func (d Date) Validate() error {
	if d.IsZero() {
		return errors.New("date cannot be zero")
	}
	return nil
}

// Day returns the day of the month
func (d Date) Day() int {
	return d.Time.Day()
}

// Month returns the month as 1-12
func (d Date) Month() int {
	return int(d.Time.Month())
}

// Year returns the year
func (d Date) Year() int {
	return d.Time.Year()
}

// ISO formats the date as YYYY-MM-DD, the form stored in workbook cells.
func (d Date) ISO() string {
	return d.Format("2006-01-02")
}

func (e Entry) Validate() error {
	if err := e.Date.Validate(); err != nil {
		return err
	}
	if len(strings.TrimSpace(e.Description)) == 0 {
		return ErrEmptyDescription
	}
	if len(e.Description) > 200 {
		return ErrDescriptionTooLong
	}
	if e.Amount.Cents < 0 {
		return ErrNegativeAmount
	}
	return nil
}

// Totals sums each ledger of the month. Empty ledgers total zero.
func (m *Month) Totals() (donations, expenses Money) {
	for _, e := range m.Donations {
		donations = donations.Add(e.Amount)
	}
	for _, e := range m.Expenses {
		expenses = expenses.Add(e.Amount)
	}
	return donations, expenses
}

// HasEntries reports whether either ledger holds at least one entry.
func (m *Month) HasEntries() bool {
	return len(m.Donations) > 0 || len(m.Expenses) > 0
}

func NewYearBook(year int) *YearBook {
	return &YearBook{Year: year, Months: make(map[int]*Month)}
}

// MonthFor returns the month record, inserting an empty one on first access.
func (yb *YearBook) MonthFor(month int) *Month {
	if yb.Months == nil {
		yb.Months = make(map[int]*Month)
	}
	m, ok := yb.Months[month]
	if !ok {
		m = &Month{Year: yb.Year, Month: month}
		yb.Months[month] = m
	}
	return m
}

// HasEntries reports whether any month of the year has recorded entries.
// The stored opening balance is fixed once this turns true.
func (yb *YearBook) HasEntries() bool {
	for _, m := range yb.Months {
		if m.HasEntries() {
			return true
		}
	}
	return false
}

// MonthsInOrder returns the recorded months sorted chronologically.
func (yb *YearBook) MonthsInOrder() []*Month {
	out := make([]*Month, 0, len(yb.Months))
	for _, m := range yb.Months {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out
}

// AddEntry validates and appends an entry to the given ledger of the given
// month, creating the month record if absent. Accept-or-reject is atomic:
// on error nothing is modified.
func (yb *YearBook) AddEntry(month int, kind LedgerKind, e Entry) (*Month, error) {
	if month < 1 || month > 12 {
		return nil, ErrInvalidMonth
	}
	if !kind.IsValid() {
		return nil, ErrInvalidLedger
	}
	if err := e.Validate(); err != nil {
		return nil, err
	}
	if e.Date.Year() != yb.Year || e.Date.Month() != month {
		return nil, ErrDateOutOfMonth
	}
	m := yb.MonthFor(month)
	switch kind {
	case Donation:
		m.Donations = append(m.Donations, e)
	case Expense:
		m.Expenses = append(m.Expenses, e)
	}
	return m, nil
}

// Clone returns a deep copy, so stores can hand out books without aliasing
// their internal state.
func (yb *YearBook) Clone() *YearBook {
	out := NewYearBook(yb.Year)
	out.OpeningBalance = yb.OpeningBalance
	for k, m := range yb.Months {
		cp := &Month{Year: m.Year, Month: m.Month}
		cp.Donations = append([]Entry(nil), m.Donations...)
		cp.Expenses = append([]Entry(nil), m.Expenses...)
		out.Months[k] = cp
	}
	return out
}
