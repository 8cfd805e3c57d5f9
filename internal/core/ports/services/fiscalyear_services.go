package services

import (
	"context"

	"github.com/corebooks/ledger_backend/internal/core/domain"
)

// FiscalYearService defines the operations of the fiscal period manager.
type FiscalYearService interface {
	// CreateFiscalYear creates the calendar-year period for the given year.
	CreateFiscalYear(ctx context.Context, year int, creatorUserID string) (*domain.FiscalYear, error)

	// GetFiscalYearByID returns the fiscal year record.
	GetFiscalYearByID(ctx context.Context, fiscalYearID string) (*domain.FiscalYear, error)

	// CloseFiscalYear computes net income over the period, posts the closing
	// entry against retained earnings and marks the year closed, atomically.
	// A second close of the same year fails and posts nothing.
	CloseFiscalYear(ctx context.Context, fiscalYearID string, closedBy string) (*domain.FiscalYear, error)
}
