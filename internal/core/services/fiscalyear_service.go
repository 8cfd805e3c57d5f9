package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/corebooks/ledger_backend/internal/apperrors"
	"github.com/corebooks/ledger_backend/internal/core/domain"
	portsrepo "github.com/corebooks/ledger_backend/internal/core/ports/repositories"
	portssvc "github.com/corebooks/ledger_backend/internal/core/ports/services"
	"github.com/corebooks/ledger_backend/internal/utils/accounting"
)

// Named errors for fiscal year operations.
var (
	// ErrDuplicateYear is returned when a fiscal year record for the same
	// calendar year already exists.
	ErrDuplicateYear = fmt.Errorf("%w: fiscal year already exists", apperrors.ErrDuplicate)

	// ErrAlreadyClosed is returned when closing a fiscal year that is
	// already closed. The close posts nothing in that case.
	ErrAlreadyClosed = fmt.Errorf("%w: fiscal year already closed", apperrors.ErrConflict)
)

// fiscalYearService implements fiscal period management and the year-end
// close with its retained earnings transfer.
type fiscalYearService struct {
	BaseService
	fiscalYearRepo       portsrepo.FiscalYearRepository
	accountService       portssvc.AccountService
	retainedEarningsCode string
}

// NewFiscalYearService creates a new FiscalYearService. retainedEarningsCode
// names the equity account the close books net income into.
func NewFiscalYearService(
	fiscalYearRepo portsrepo.FiscalYearRepository,
	accountService portssvc.AccountService,
	retainedEarningsCode string,
) portssvc.FiscalYearService {
	return &fiscalYearService{
		fiscalYearRepo:       fiscalYearRepo,
		accountService:       accountService,
		retainedEarningsCode: retainedEarningsCode,
	}
}

var _ portssvc.FiscalYearService = (*fiscalYearService)(nil)

// CreateFiscalYear creates the calendar-year period for the given year,
// spanning January 1st through the last second of December 31st, UTC.
func (s *fiscalYearService) CreateFiscalYear(ctx context.Context, year int, creatorUserID string) (*domain.FiscalYear, error) {
	now := time.Now().UTC()
	fy := domain.FiscalYear{
		FiscalYearID: uuid.NewString(),
		Year:         year,
		StartDate:    time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC),
		EndDate:      time.Date(year, time.December, 31, 23, 59, 59, 0, time.UTC),
		IsClosed:     false,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.fiscalYearRepo.SaveFiscalYear(ctx, fy); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, fmt.Errorf("%w: year %d", ErrDuplicateYear, year)
		}
		s.LogError(ctx, err, "Failed to save fiscal year", slog.Int("year", year))
		return nil, fmt.Errorf("failed to save fiscal year: %w", err)
	}

	s.LogInfo(ctx, "Fiscal year created", slog.String("fiscal_year_id", fy.FiscalYearID), slog.Int("year", year))
	return &fy, nil
}

// GetFiscalYearByID returns the fiscal year record.
func (s *fiscalYearService) GetFiscalYearByID(ctx context.Context, fiscalYearID string) (*domain.FiscalYear, error) {
	fy, err := s.fiscalYearRepo.FindFiscalYearByID(ctx, fiscalYearID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find fiscal year", slog.String("fiscal_year_id", fiscalYearID))
		}
		return nil, err
	}
	return fy, nil
}

// CloseFiscalYear computes net income over the period, books it into the
// retained earnings account through a closing entry and marks the year
// closed. The closing entry and the closed flag are written in one
// transaction; a concurrent or repeated close fails with ErrAlreadyClosed
// and writes nothing.
func (s *fiscalYearService) CloseFiscalYear(ctx context.Context, fiscalYearID string, closedBy string) (*domain.FiscalYear, error) {
	fy, err := s.fiscalYearRepo.FindFiscalYearByID(ctx, fiscalYearID)
	if err != nil {
		return nil, err
	}
	if fy.IsClosed {
		return nil, fmt.Errorf("%w: year %d", ErrAlreadyClosed, fy.Year)
	}

	netIncome, err := s.fiscalYearRepo.NetIncome(ctx, fy.StartDate, fy.EndDate)
	if err != nil {
		s.LogError(ctx, err, "Failed to compute net income", slog.Int("year", fy.Year))
		return nil, fmt.Errorf("failed to compute net income: %w", err)
	}

	retained, err := s.accountService.EnsureSystemAccount(ctx, s.retainedEarningsCode, "Retained Earnings", domain.Equity, closedBy)
	if err != nil {
		return nil, fmt.Errorf("failed to provision retained earnings account: %w", err)
	}

	closedAt := time.Now().UTC()
	fy.IsClosed = true
	fy.ClosedAt = &closedAt
	fy.ClosedBy = closedBy
	fy.LastUpdatedAt = closedAt
	fy.LastUpdatedBy = closedBy

	var closingEntry *domain.JournalEntry
	var closingLines []domain.JournalLine
	if !accounting.IsZeroWithinTolerance(netIncome) {
		closingEntry = &domain.JournalEntry{
			EntryID:     uuid.NewString(),
			EntryDate:   fy.EndDate,
			Description: fmt.Sprintf("Closing entry for fiscal year %d", fy.Year),
			IsPosted:    true,
			ApprovedBy:  closedBy,
			PostedAt:    &closedAt,
			AuditFields: domain.AuditFields{
				CreatedAt:     closedAt,
				CreatedBy:     closedBy,
				LastUpdatedAt: closedAt,
				LastUpdatedBy: closedBy,
			},
		}

		// A profit increases equity, so retained earnings is credited; a
		// loss debits it.
		line := domain.JournalLine{
			LineID:      uuid.NewString(),
			EntryID:     closingEntry.EntryID,
			AccountID:   retained.AccountID,
			AccountCode: retained.Code,
			Description: fmt.Sprintf("Net income transfer for fiscal year %d", fy.Year),
		}
		if netIncome.IsPositive() {
			line.Credit = netIncome
		} else {
			line.Debit = netIncome.Neg()
		}
		closingLines = []domain.JournalLine{line}
	}

	if err := s.fiscalYearRepo.CloseFiscalYear(ctx, *fy, closingEntry, closingLines); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return nil, fmt.Errorf("%w: year %d", ErrAlreadyClosed, fy.Year)
		}
		s.LogError(ctx, err, "Failed to close fiscal year", slog.Int("year", fy.Year))
		return nil, fmt.Errorf("failed to close fiscal year: %w", err)
	}

	s.LogInfo(ctx, "Fiscal year closed",
		slog.Int("year", fy.Year),
		slog.String("net_income", netIncome.String()),
		slog.String("closed_by", closedBy))
	return fy, nil
}
