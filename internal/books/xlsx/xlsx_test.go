package xlsx

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"desglose/internal/core"
)

func sampleBook(t *testing.T) *core.YearBook {
	t.Helper()
	yb := core.NewYearBook(2025)
	yb.OpeningBalance = core.Money{Cents: 10000}
	adds := []struct {
		month int
		kind  core.LedgerKind
		day   int
		desc  string
		cents int64
	}{
		{1, core.Donation, 5, "Donativo anónimo", 5000},
		{1, core.Expense, 12, "Meriendas asamblea", 2000},
		{2, core.Expense, 3, "Pizza reunión", 3000},
	}
	for _, a := range adds {
		if _, err := yb.AddEntry(a.month, a.kind, core.Entry{
			Date:        core.NewDate(2025, a.month, a.day),
			Description: a.desc,
			Amount:      core.Money{Cents: a.cents},
		}); err != nil {
			t.Fatalf("add %q: %v", a.desc, err)
		}
	}
	return yb
}

func TestLoadMissingFileIsEmptyBook(t *testing.T) {
	s := New(t.TempDir())
	yb, err := s.LoadYearBook(context.Background(), 2031)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if yb.Year != 2031 || yb.HasEntries() || yb.OpeningBalance.Cents != 0 {
		t.Fatalf("expected empty book, got %+v", yb)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := New(t.TempDir())
	ctx := context.Background()

	if err := s.SaveYearBook(ctx, sampleBook(t)); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := s.LoadYearBook(ctx, 2025)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if got.OpeningBalance.Cents != 10000 {
		t.Fatalf("opening balance: expected 10000, got %d", got.OpeningBalance.Cents)
	}
	jan := got.Months[1]
	if jan == nil || len(jan.Donations) != 1 || len(jan.Expenses) != 1 {
		t.Fatalf("january tables mismatch: %+v", jan)
	}
	if jan.Donations[0].Description != "Donativo anónimo" || jan.Donations[0].Amount.Cents != 5000 {
		t.Fatalf("donation row mismatch: %+v", jan.Donations[0])
	}
	if jan.Donations[0].Date.ISO() != "2025-01-05" {
		t.Fatalf("donation date mismatch: %s", jan.Donations[0].Date.ISO())
	}
	feb := got.Months[2]
	if feb == nil || len(feb.Expenses) != 1 || feb.Expenses[0].Amount.Cents != 3000 {
		t.Fatalf("february tables mismatch: %+v", feb)
	}

	// The recurrence survives persistence.
	balances := core.ComputeBalances(got, core.Money{})
	if balances[0].After.Cents != 13000 || balances[1].After.Cents != 10000 {
		t.Fatalf("balances after reload: %+v", balances)
	}
}

func TestSheetLayout(t *testing.T) {
	dir := t.TempDir()
	s := New(dir)
	if err := s.SaveYearBook(context.Background(), sampleBook(t)); err != nil {
		t.Fatalf("save: %v", err)
	}

	f, err := excelize.OpenFile(filepath.Join(dir, "desglose_2025.xlsx"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()

	for _, want := range []struct{ sheet, cell, value string }{
		{"Inicio", "A4", "Saldo inicial de enero"},
		{"Enero 2025", "A1", "DONACIONES"},
		{"Enero 2025", "E1", "GASTOS (Comida y Meriendas)"},
		{"Enero 2025", "A2", "Fecha"},
		{"Enero 2025", "G2", "Monto"},
		{"Enero 2025", "B3", "Donativo anónimo"},
		{"Enero 2025", "F3", "Meriendas asamblea"},
		{"Febrero 2025", "E3", "2025-02-03"},
	} {
		got, err := f.GetCellValue(want.sheet, want.cell)
		if err != nil {
			t.Fatalf("%s!%s: %v", want.sheet, want.cell, err)
		}
		if got != want.value {
			t.Fatalf("%s!%s: expected %q, got %q", want.sheet, want.cell, got, want.value)
		}
	}
}

func TestLoadMalformedAmountFails(t *testing.T) {
	dir := t.TempDir()
	f := excelize.NewFile()
	_ = f.SetSheetName("Sheet1", "Inicio")
	if _, err := f.NewSheet("Enero 2025"); err != nil {
		t.Fatalf("new sheet: %v", err)
	}
	f.SetCellValue("Enero 2025", "A3", "2025-01-05")
	f.SetCellValue("Enero 2025", "B3", "x")
	f.SetCellValue("Enero 2025", "C3", "not-a-number")
	if err := f.SaveAs(filepath.Join(dir, "desglose_2025.xlsx")); err != nil {
		t.Fatalf("save fixture: %v", err)
	}
	_ = f.Close()

	if _, err := New(dir).LoadYearBook(context.Background(), 2025); err == nil {
		t.Fatalf("expected parse error for malformed amount")
	}
}

func TestWriteWorkbookStream(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteWorkbook(sampleBook(t), &buf); err != nil {
		t.Fatalf("write: %v", err)
	}
	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer f.Close()
	if got, _ := f.GetCellValue("Enero 2025", "B3"); got != "Donativo anónimo" {
		t.Fatalf("streamed workbook mismatch: %q", got)
	}
}
