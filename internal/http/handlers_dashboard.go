package http

import (
	"encoding/json"
	"net/http"
	"time"

	"desglose/internal/core"
	"desglose/internal/log"
)

type monthOption struct {
	Num  int
	Name string
}

type indexView struct {
	Year      int
	Month     int
	MonthName string
	Years     []int
	Months    []monthOption
	ReadOnly  bool
	PublicURL string
	Today     string
}

type entryRow struct {
	Date        string
	Description string
	Amount      string
}

type monthOverviewView struct {
	Year      int
	Month     int
	MonthName string

	Before    string
	Donations string
	Budget    string
	Expenses  string
	Remaining string

	RemainingNegative bool
	Clamped           bool

	DonationRows []entryRow
	ExpenseRows  []entryRow
	HasEntries   bool
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		MethodNotAllowedError("GET").Write(w)
		return
	}

	year, month, err := parseYearMonth(r)
	if err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}

	now := time.Now()
	years := []int{now.Year() - 2, now.Year() - 1, now.Year(), now.Year() + 1}
	months := make([]monthOption, 0, 12)
	for i := 1; i <= 12; i++ {
		months = append(months, monthOption{Num: i, Name: core.MonthName(i)})
	}

	view := indexView{
		Year:      year,
		Month:     month,
		MonthName: core.MonthName(month),
		Years:     years,
		Months:    months,
		ReadOnly:  s.opts.AdminCode == "",
		PublicURL: s.opts.PublicURL,
		Today:     now.Format("2006-01-02"),
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(w, "index.html", view); err != nil {
		s.logger.ErrorContext(r.Context(), "Failed to render index", log.FieldError, err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

// handleMonthOverview renders the month summary partial: carried-in balance,
// totals, remaining balance, and both ledger tables.
func (s *Server) handleMonthOverview(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		MethodNotAllowedError("GET").Write(w)
		return
	}

	year, month, err := parseYearMonth(r)
	if err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}

	yb := s.loadBookOrEmpty(r.Context(), year)
	view := s.buildMonthOverview(yb, month)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(w, "month_overview.html", view); err != nil {
		s.logger.ErrorContext(r.Context(), "Failed to render month overview", log.FieldError, err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func (s *Server) buildMonthOverview(yb *core.YearBook, month int) monthOverviewView {
	before := core.BalanceBefore(yb, month, s.opts.OpeningBalance)

	m := yb.Months[month]
	if m == nil {
		m = &core.Month{Year: yb.Year, Month: month}
	}
	donations, expenses := m.Totals()
	budget := before.Add(donations)
	remaining := budget.Sub(expenses)

	_, usage := core.ChartSlices(before, m)

	view := monthOverviewView{
		Year:              yb.Year,
		Month:             month,
		MonthName:         core.MonthName(month),
		Before:            formatAmount(before),
		Donations:         formatAmount(donations),
		Budget:            formatAmount(budget),
		Expenses:          formatAmount(expenses),
		Remaining:         formatAmount(remaining),
		RemainingNegative: remaining.IsNegative(),
		Clamped:           usage.Clamped,
		HasEntries:        m.HasEntries(),
	}

	for _, e := range m.Donations {
		view.DonationRows = append(view.DonationRows, entryRow{
			Date:        e.Date.ISO(),
			Description: e.Description,
			Amount:      formatAmount(e.Amount),
		})
	}
	for _, e := range m.Expenses {
		view.ExpenseRows = append(view.ExpenseRows, entryRow{
			Date:        e.Date.ISO(),
			Description: e.Description,
			Amount:      formatAmount(e.Amount),
		})
	}
	return view
}

type chartBreakdown struct {
	Labels  []string  `json:"labels"`
	Values  []float64 `json:"values"`
	Clamped bool      `json:"clamped"`
}

type chartSlicesResponse struct {
	Year    int            `json:"year"`
	Month   int            `json:"month"`
	Funding chartBreakdown `json:"funding"`
	Usage   chartBreakdown `json:"usage"`
}

// handleChartSlices serves the pie chart data for a month as JSON. Slices
// are recomputed from the book on every call.
func (s *Server) handleChartSlices(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		MethodNotAllowedError("GET").Write(w)
		return
	}

	year, month, err := parseYearMonth(r)
	if err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}

	yb := s.loadBookOrEmpty(r.Context(), year)
	before := core.BalanceBefore(yb, month, s.opts.OpeningBalance)
	m := yb.Months[month]
	if m == nil {
		m = &core.Month{Year: year, Month: month}
	}
	funding, usage := core.ChartSlices(before, m)

	resp := chartSlicesResponse{
		Year:    year,
		Month:   month,
		Funding: toChartBreakdown(funding),
		Usage:   toChartBreakdown(usage),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.logger.ErrorContext(r.Context(), "Failed to encode chart slices", log.FieldError, err)
	}
}

func toChartBreakdown(b core.Breakdown) chartBreakdown {
	out := chartBreakdown{Clamped: b.Clamped}
	for _, sl := range b.Slices {
		out.Labels = append(out.Labels, sl.Label)
		out.Values = append(out.Values, sl.Amount.Decimal().InexactFloat64())
	}
	return out
}
