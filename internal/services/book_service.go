// Package services orchestrates persistence with the async workbook export.
package services

import (
	"context"
	"fmt"
	"log/slog"

	"desglose/internal/amqp"
	"desglose/internal/books"
	"desglose/internal/core"
)

// BookService wraps a books.Store and publishes a sync message after every
// successful save, so the worker re-exports the year's XLSX workbook. The
// save is the source of truth; a failed publish is logged and the request
// still succeeds (the worker's fallback pass catches up).
type BookService struct {
	store      books.Store
	amqpClient *amqp.Client
}

func NewBookService(store books.Store, amqpClient *amqp.Client) *BookService {
	return &BookService{
		store:      store,
		amqpClient: amqpClient,
	}
}

// LoadYearBook implements books.Loader.
func (s *BookService) LoadYearBook(ctx context.Context, year int) (*core.YearBook, error) {
	return s.store.LoadYearBook(ctx, year)
}

// SaveYearBook implements books.Saver.
func (s *BookService) SaveYearBook(ctx context.Context, yb *core.YearBook) error {
	if err := s.store.SaveYearBook(ctx, yb); err != nil {
		return fmt.Errorf("save year book: %w", err)
	}

	if s.amqpClient == nil {
		slog.WarnContext(ctx, "AMQP client not available, skipping sync message", "year", yb.Year)
		return nil
	}
	if err := s.amqpClient.PublishBookSync(ctx, yb.Year); err != nil {
		slog.ErrorContext(ctx, "Failed to publish book sync message", "year", yb.Year, "error", err)
		// Don't fail the request; the book is saved locally.
	}
	return nil
}

// Close closes the AMQP connection and, when the underlying store exposes
// one, its resources too.
func (s *BookService) Close() error {
	var errs []error

	if closer, ok := s.store.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			errs = append(errs, fmt.Errorf("store: %w", err))
		}
	}
	if s.amqpClient != nil {
		if err := s.amqpClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("close book service: %v", errs)
	}
	return nil
}
