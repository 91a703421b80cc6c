package worker

import (
	"context"
	"errors"
	"testing"

	"desglose/internal/amqp"
	"desglose/internal/books/memory"
	"desglose/internal/core"
)

type staticYears []int

func (s staticYears) Years(context.Context) ([]int, error) { return s, nil }

func seedYear(t *testing.T, store *memory.Store, year int) {
	t.Helper()
	yb := core.NewYearBook(year)
	if _, err := yb.AddEntry(1, core.Donation, core.Entry{
		Date: core.NewDate(year, 1, 1), Description: "a", Amount: core.Money{Cents: 100},
	}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := store.SaveYearBook(context.Background(), yb); err != nil {
		t.Fatalf("seed: %v", err)
	}
}

func TestHandleSyncMessageExportsYear(t *testing.T) {
	source := memory.New()
	target := memory.New()
	seedYear(t, source, 2025)

	e := NewExporter(source, staticYears{2025}, target)
	if err := e.HandleSyncMessage(context.Background(), amqp.NewBookSyncMessage(2025)); err != nil {
		t.Fatalf("handle: %v", err)
	}

	got, err := target.LoadYearBook(context.Background(), 2025)
	if err != nil {
		t.Fatalf("load target: %v", err)
	}
	if !got.HasEntries() {
		t.Fatalf("export did not reach target store")
	}
}

func TestExportAllCoversEveryYear(t *testing.T) {
	source := memory.New()
	target := memory.New()
	seedYear(t, source, 2024)
	seedYear(t, source, 2025)

	e := NewExporter(source, staticYears{2024, 2025}, target)
	if err := e.ExportAll(context.Background()); err != nil {
		t.Fatalf("export all: %v", err)
	}
	for _, year := range []int{2024, 2025} {
		got, _ := target.LoadYearBook(context.Background(), year)
		if !got.HasEntries() {
			t.Fatalf("year %d not exported", year)
		}
	}
}

type failingLister struct{}

func (failingLister) Years(context.Context) ([]int, error) { return nil, errors.New("boom") }

func TestExportAllPropagatesListError(t *testing.T) {
	e := NewExporter(memory.New(), failingLister{}, memory.New())
	if err := e.ExportAll(context.Background()); err == nil {
		t.Fatalf("expected error from year listing")
	}
}
