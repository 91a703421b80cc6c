// Package xlsx persists year books as one XLSX workbook per year, with one
// sheet per recorded month. The donations table occupies columns A-C and the
// expenses table columns E-G, both with headers in row 2 and data from row 3.
// An "Inicio" sheet carries usage notes and the stored opening balance.
package xlsx

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/xuri/excelize/v2"

	"desglose/internal/core"
)

const (
	inicioSheet    = "Inicio"
	donationsTitle = "DONACIONES"
	expensesTitle  = "GASTOS (Comida y Meriendas)"

	headerRow    = 2
	firstDataRow = 3

	openingLabelCell = "A4"
	openingValueCell = "B4"
)

// Store reads and writes year workbooks under a base directory. The mutex
// serializes whole-file rewrites; concurrent admins are out of scope and a
// second process may still overwrite this one's changes.
type Store struct {
	mu  sync.Mutex
	dir string
}

func New(dir string) *Store {
	return &Store{dir: dir}
}

// SheetName returns the per-month sheet name, e.g. "Enero 2025".
func SheetName(year, month int) string {
	return fmt.Sprintf("%s %d", core.MonthName(month), year)
}

func (s *Store) path(year int) string {
	return filepath.Join(s.dir, fmt.Sprintf("desglose_%d.xlsx", year))
}

// LoadYearBook reads the workbook for a year. A missing file yields an empty
// book; a file that cannot be parsed is an error for the caller to downgrade.
func (s *Store) LoadYearBook(_ context.Context, year int) (*core.YearBook, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.path(year)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return core.NewYearBook(year), nil
	}
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook for %d: %w", year, err)
	}
	defer f.Close()

	return parseWorkbook(f, year)
}

// SaveYearBook rewrites the year workbook from scratch. Partial in-place
// edits are not attempted; the book is small and a full rewrite keeps the
// sheet layout canonical.
func (s *Store) SaveYearBook(_ context.Context, yb *core.YearBook) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("create books directory: %w", err)
	}
	f, err := BuildWorkbook(yb)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := f.SaveAs(s.path(yb.Year)); err != nil {
		return fmt.Errorf("save workbook for %d: %w", yb.Year, err)
	}
	return nil
}

// BuildWorkbook renders a year book into a fresh workbook.
func BuildWorkbook(yb *core.YearBook) (*excelize.File, error) {
	f := excelize.NewFile()

	// The default sheet becomes the instruction sheet.
	if err := f.SetSheetName("Sheet1", inicioSheet); err != nil {
		return nil, fmt.Errorf("rename default sheet: %w", err)
	}
	f.SetCellValue(inicioSheet, "A1", "Desglose Económico Mensual")
	f.SetCellValue(inicioSheet, "A2", "Las hojas se crean automáticamente al registrar datos por mes.")
	f.SetCellValue(inicioSheet, openingLabelCell, "Saldo inicial de enero")
	f.SetCellValue(inicioSheet, openingValueCell, centsToCell(yb.OpeningBalance))

	for _, m := range yb.MonthsInOrder() {
		sheet := SheetName(yb.Year, m.Month)
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, fmt.Errorf("create sheet %q: %w", sheet, err)
		}

		f.SetCellValue(sheet, "A1", donationsTitle)
		f.SetCellValue(sheet, "E1", expensesTitle)
		for _, h := range []struct{ cell, label string }{
			{"A2", "Fecha"}, {"B2", "Descripción"}, {"C2", "Monto"},
			{"E2", "Fecha"}, {"F2", "Descripción"}, {"G2", "Monto"},
		} {
			f.SetCellValue(sheet, h.cell, h.label)
		}
		_ = f.SetColWidth(sheet, "B", "B", 32)
		_ = f.SetColWidth(sheet, "F", "F", 32)

		writeTable(f, sheet, "A", m.Donations)
		writeTable(f, sheet, "E", m.Expenses)
	}
	return f, nil
}

// WriteWorkbook streams the rendered workbook, used by the HTTP export.
func WriteWorkbook(yb *core.YearBook, w io.Writer) error {
	f, err := BuildWorkbook(yb)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook for %d: %w", yb.Year, err)
	}
	return nil
}

func writeTable(f *excelize.File, sheet, startCol string, entries []core.Entry) {
	for i, e := range entries {
		row := firstDataRow + i
		cols := []string{startCol, nextCol(startCol), nextCol(nextCol(startCol))}
		f.SetCellValue(sheet, fmt.Sprintf("%s%d", cols[0], row), e.Date.ISO())
		f.SetCellValue(sheet, fmt.Sprintf("%s%d", cols[1], row), e.Description)
		f.SetCellValue(sheet, fmt.Sprintf("%s%d", cols[2], row), centsToCell(e.Amount))
	}
}

func nextCol(col string) string {
	return string(col[0] + 1)
}

// centsToCell converts Money to the float written into a cell. The shortest
// round-trip formatting excelize applies reproduces two decimals exactly at
// human-entry magnitudes.
func centsToCell(m core.Money) float64 {
	f, _ := m.Decimal().Float64()
	return f
}

func parseWorkbook(f *excelize.File, year int) (*core.YearBook, error) {
	yb := core.NewYearBook(year)

	if raw, err := f.GetCellValue(inicioSheet, openingValueCell); err == nil && raw != "" {
		opening, err := core.ParseAmount(raw)
		if err != nil {
			return nil, fmt.Errorf("opening balance cell %s: %w", openingValueCell, err)
		}
		yb.OpeningBalance = opening
	}

	for month := 1; month <= 12; month++ {
		sheet := SheetName(year, month)
		idx, err := f.GetSheetIndex(sheet)
		if err != nil || idx < 0 {
			continue
		}
		rec := yb.MonthFor(month)
		if rec.Donations, err = readTable(f, sheet, "A"); err != nil {
			return nil, fmt.Errorf("sheet %q donations: %w", sheet, err)
		}
		if rec.Expenses, err = readTable(f, sheet, "E"); err != nil {
			return nil, fmt.Errorf("sheet %q expenses: %w", sheet, err)
		}
	}
	return yb, nil
}

// readTable scans a 3-column table downward from the first data row and
// stops at the first fully empty row.
func readTable(f *excelize.File, sheet, startCol string) ([]core.Entry, error) {
	var out []core.Entry
	cols := []string{startCol, nextCol(startCol), nextCol(nextCol(startCol))}
	for row := firstDataRow; ; row++ {
		dateRaw, _ := f.GetCellValue(sheet, fmt.Sprintf("%s%d", cols[0], row))
		desc, _ := f.GetCellValue(sheet, fmt.Sprintf("%s%d", cols[1], row))
		amountRaw, _ := f.GetCellValue(sheet, fmt.Sprintf("%s%d", cols[2], row))
		if dateRaw == "" && desc == "" && amountRaw == "" {
			break
		}
		d, err := time.Parse("2006-01-02", dateRaw)
		if err != nil {
			return nil, fmt.Errorf("row %d: bad date %q: %w", row, dateRaw, err)
		}
		amount, err := core.ParseAmount(amountRaw)
		if err != nil {
			return nil, fmt.Errorf("row %d: bad amount %q: %w", row, amountRaw, err)
		}
		out = append(out, core.Entry{
			Date:        core.Date{Time: d},
			Description: desc,
			Amount:      amount,
		})
	}
	return out, nil
}
