// Package storage provides the SQLite ledger backend. It implements the
// books ports over a flat entries table; the XLSX workbook is rebuilt from
// this table by the sync worker.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"desglose/internal/core"

	_ "modernc.org/sqlite"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// LoadYearBook implements books.Loader.
func (r *SQLiteRepository) LoadYearBook(ctx context.Context, year int) (*core.YearBook, error) {
	yb := core.NewYearBook(year)

	var openingCents int64
	err := r.db.QueryRowContext(ctx,
		`SELECT amount_cents FROM opening_balances WHERE year = ?`, year,
	).Scan(&openingCents)
	switch {
	case err == sql.ErrNoRows:
		// No stored opening yet; the book stays at zero.
	case err != nil:
		return nil, fmt.Errorf("load opening balance for %d: %w", year, err)
	default:
		yb.OpeningBalance = core.Money{Cents: openingCents}
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT month, entry_date, kind, description, amount_cents
		 FROM entries WHERE year = ?
		 ORDER BY month, entry_date, id`, year)
	if err != nil {
		return nil, fmt.Errorf("load entries for %d: %w", year, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			month       int
			dateRaw     string
			kind        string
			description string
			amountCents int64
		)
		if err := rows.Scan(&month, &dateRaw, &kind, &description, &amountCents); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		d, err := time.Parse("2006-01-02", dateRaw)
		if err != nil {
			return nil, fmt.Errorf("bad entry date %q: %w", dateRaw, err)
		}
		entry := core.Entry{
			Date:        core.Date{Time: d},
			Description: description,
			Amount:      core.Money{Cents: amountCents},
		}
		m := yb.MonthFor(month)
		switch core.LedgerKind(kind) {
		case core.Donation:
			m.Donations = append(m.Donations, entry)
		case core.Expense:
			m.Expenses = append(m.Expenses, entry)
		default:
			return nil, fmt.Errorf("unknown ledger kind %q", kind)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate entries: %w", err)
	}
	return yb, nil
}

// SaveYearBook implements books.Saver with a replace-the-year transaction.
// The year unit is small (human-entry scale), so a full rewrite keeps the
// store and the engine's atomic accept-or-reject semantics aligned.
func (r *SQLiteRepository) SaveYearBook(ctx context.Context, yb *core.YearBook) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM entries WHERE year = ?`, yb.Year); err != nil {
		return fmt.Errorf("clear year %d: %w", yb.Year, err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO opening_balances (year, amount_cents) VALUES (?, ?)
		 ON CONFLICT (year) DO UPDATE SET amount_cents = excluded.amount_cents`,
		yb.Year, yb.OpeningBalance.Cents); err != nil {
		return fmt.Errorf("store opening balance: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO entries (year, month, entry_date, kind, description, amount_cents)
		 VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, m := range yb.MonthsInOrder() {
		for _, e := range m.Donations {
			if _, err := stmt.ExecContext(ctx, yb.Year, m.Month, e.Date.ISO(), string(core.Donation), e.Description, e.Amount.Cents); err != nil {
				return fmt.Errorf("insert donation: %w", err)
			}
		}
		for _, e := range m.Expenses {
			if _, err := stmt.ExecContext(ctx, yb.Year, m.Month, e.Date.ISO(), string(core.Expense), e.Description, e.Amount.Cents); err != nil {
				return fmt.Errorf("insert expense: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save: %w", err)
	}

	slog.InfoContext(ctx, "Year book saved to SQLite", "year", yb.Year, "months", len(yb.Months))
	return nil
}

// Years lists the years with any recorded entries, oldest first. The sync
// worker uses this for its fallback export pass.
func (r *SQLiteRepository) Years(ctx context.Context) ([]int, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT DISTINCT year FROM entries ORDER BY year`)
	if err != nil {
		return nil, fmt.Errorf("list years: %w", err)
	}
	defer rows.Close()

	var years []int
	for rows.Next() {
		var y int
		if err := rows.Scan(&y); err != nil {
			return nil, fmt.Errorf("scan year: %w", err)
		}
		years = append(years, y)
	}
	return years, rows.Err()
}
