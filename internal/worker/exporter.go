// Package worker rebuilds XLSX year workbooks from the SQLite ledger.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"desglose/internal/amqp"
	"desglose/internal/books"
)

// YearLister is the slice of the SQLite repository the fallback pass needs.
type YearLister interface {
	Years(ctx context.Context) ([]int, error)
}

// Exporter re-renders year workbooks on demand. Messages only name a year,
// so handling one twice is harmless.
type Exporter struct {
	source books.Loader
	years  YearLister
	target books.Saver
}

func NewExporter(source books.Loader, years YearLister, target books.Saver) *Exporter {
	return &Exporter{
		source: source,
		years:  years,
		target: target,
	}
}

// HandleSyncMessage re-exports the workbook for the year named in a message.
func (e *Exporter) HandleSyncMessage(ctx context.Context, msg *amqp.BookSyncMessage) error {
	return e.ExportYear(ctx, msg.Year)
}

// ExportYear loads the year's ledger and rewrites its workbook.
func (e *Exporter) ExportYear(ctx context.Context, year int) error {
	yb, err := e.source.LoadYearBook(ctx, year)
	if err != nil {
		return fmt.Errorf("load year %d: %w", year, err)
	}
	if err := e.target.SaveYearBook(ctx, yb); err != nil {
		return fmt.Errorf("export year %d: %w", year, err)
	}
	slog.InfoContext(ctx, "Exported year workbook", "year", year, "months", len(yb.Months))
	return nil
}

// ExportAll re-exports every recorded year. Run periodically as a backup in
// case sync messages are lost.
func (e *Exporter) ExportAll(ctx context.Context) error {
	years, err := e.years.Years(ctx)
	if err != nil {
		return fmt.Errorf("list years: %w", err)
	}
	for _, year := range years {
		if err := e.ExportYear(ctx, year); err != nil {
			return err
		}
	}
	return nil
}

// RunFallback re-exports all years on a fixed interval until ctx is done.
func (e *Exporter) RunFallback(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := e.ExportAll(ctx); err != nil {
				slog.ErrorContext(ctx, "Fallback export pass failed", "error", err)
			}
		}
	}
}
