package repositories

import (
	"context"
	"time"

	"github.com/corebooks/ledger_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// FiscalYearRepository defines persistence operations for fiscal years and
// the period close.
type FiscalYearRepository interface {
	// SaveFiscalYear inserts a new fiscal year. Returns apperrors.ErrDuplicate
	// when a record for the same year already exists.
	SaveFiscalYear(ctx context.Context, fy domain.FiscalYear) error

	// FindFiscalYearByID returns the fiscal year or apperrors.ErrNotFound.
	FindFiscalYearByID(ctx context.Context, fiscalYearID string) (*domain.FiscalYear, error)

	// FindFiscalYearForDate returns the fiscal year whose window contains the
	// given date, or apperrors.ErrNotFound when no year covers it.
	FindFiscalYearForDate(ctx context.Context, date time.Time) (*domain.FiscalYear, error)

	// NetIncome computes sum(credit - debit) over posted journal lines on
	// REVENUE and EXPENSE accounts dated within [start, end].
	NetIncome(ctx context.Context, start, end time.Time) (decimal.Decimal, error)

	// CloseFiscalYear marks the year closed and, when closingEntry is non-nil,
	// persists the closing entry and its lines in the same transaction. The
	// closed flag is flipped with a compare-and-set; apperrors.ErrConflict is
	// returned when the year was already closed, and nothing is written.
	CloseFiscalYear(ctx context.Context, fy domain.FiscalYear, closingEntry *domain.JournalEntry, closingLines []domain.JournalLine) error
}
