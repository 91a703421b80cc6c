// Package books defines the persistence ports for year books.
package books

import (
	"context"

	"desglose/internal/core"
)

// Ports for outbound adapters. A missing year is not an error: loaders
// return an empty book so the caller can render "no data yet".
type (
	Loader interface {
		LoadYearBook(ctx context.Context, year int) (*core.YearBook, error)
	}

	Saver interface {
		// SaveYearBook rewrites the whole year unit.
		SaveYearBook(ctx context.Context, yb *core.YearBook) error
	}

	Store interface {
		Loader
		Saver
	}
)
