// Package sequence is the single owner of the human-readable identifier
// series: customer numbers (global scope) and receipt numbers (per calendar
// year). No other component may synthesize either kind of identifier.
package sequence

import (
	"context"
	"fmt"

	"github.com/EstebanRsh/UP/internal/repository"

	"gorm.io/gorm"
)

const (
	customerScope = "customer"
	customerWidth = 6
	receiptWidth  = 6
)

// Allocator issues the next number in a scope from the persisted counter.
// Allocation must run inside the transaction that consumes the number: the
// counter row lock serializes concurrent allocators, and a rollback of the
// consuming write rolls the counter back with it, keeping the series gapless.
type Allocator struct {
	repo   repository.SequenceRepository
	series string // receipt prefix, e.g. "REC"
}

func NewAllocator(repo repository.SequenceRepository, receiptSeries string) *Allocator {
	if receiptSeries == "" {
		receiptSeries = "REC"
	}
	return &Allocator{repo: repo, series: receiptSeries}
}

// NextCustomerNumber returns the next zero-padded customer number ("000001").
func (a *Allocator) NextCustomerNumber(ctx context.Context, tx *gorm.DB) (string, error) {
	n, err := a.repo.Next(ctx, tx, customerScope)
	if err != nil {
		return "", err
	}
	return FormatCustomerNumber(n), nil
}

// NextReceiptNumber returns the next receipt number for the given year
// ("REC-2025-000001"). The sequence restarts at 1 for each new year.
func (a *Allocator) NextReceiptNumber(ctx context.Context, tx *gorm.DB, year int) (string, error) {
	n, err := a.repo.Next(ctx, tx, ReceiptScope(year))
	if err != nil {
		return "", err
	}
	return FormatReceiptNumber(a.series, year, n), nil
}

// ReceiptScope names the per-year counter scope.
func ReceiptScope(year int) string {
	return fmt.Sprintf("receipt:%d", year)
}

// FormatCustomerNumber renders a customer number with fixed zero padding.
func FormatCustomerNumber(n int64) string {
	return fmt.Sprintf("%0*d", customerWidth, n)
}

// FormatReceiptNumber renders "SERIES-YYYY-NNNNNN".
func FormatReceiptNumber(series string, year int, n int64) string {
	return fmt.Sprintf("%s-%d-%0*d", series, year, receiptWidth, n)
}
