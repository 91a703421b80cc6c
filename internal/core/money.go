// Package core implements the ledger engine: month-partitioned donation and
// expense ledgers, the carried-balance recurrence, and entry validation.
//
// This file handles monetary amounts. All arithmetic is on integer cents;
// decimal strings are only parsed at the edges.
package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount converts a decimal string to Money with half-up rounding at
// the cent. Both dot (12.34) and comma (12,34) separators are accepted.
// Zero is a valid amount; negative values are rejected.
func ParseAmount(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Money{}, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, ErrInvalidAmount
	}
	if d.IsNegative() {
		return Money{}, ErrNegativeAmount
	}
	cents := d.Shift(2).Round(0)
	if !cents.IsInteger() || !cents.BigInt().IsInt64() {
		return Money{}, ErrInvalidAmount
	}
	return Money{Cents: cents.IntPart()}, nil
}

func (m Money) Add(n Money) Money {
	return Money{Cents: m.Cents + n.Cents}
}

func (m Money) Sub(n Money) Money {
	return Money{Cents: m.Cents - n.Cents}
}

func (m Money) IsNegative() bool {
	return m.Cents < 0
}

func (m Money) IsZero() bool {
	return m.Cents == 0
}

// Decimal returns the exact decimal value, used when writing workbook cells.
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(m.Cents, -2)
}

// String formats the amount as a plain decimal ("12.34"). Currency symbols
// are a presentation concern.
func (m Money) String() string {
	return m.Decimal().StringFixed(2)
}
