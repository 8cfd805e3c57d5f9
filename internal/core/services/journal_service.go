package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/corebooks/ledger_backend/internal/apperrors"
	"github.com/corebooks/ledger_backend/internal/core/domain"
	portsrepo "github.com/corebooks/ledger_backend/internal/core/ports/repositories"
	portssvc "github.com/corebooks/ledger_backend/internal/core/ports/services"
	"github.com/corebooks/ledger_backend/internal/dto"
	"github.com/corebooks/ledger_backend/internal/utils/accounting"
)

// Named errors for journal validation failures.
var (
	// ErrUnbalancedEntry is returned when total debits and total credits of
	// an entry differ by more than the rounding tolerance.
	ErrUnbalancedEntry = fmt.Errorf("%w: journal entry debits and credits do not balance", apperrors.ErrValidation)

	// ErrNegativeAmount is returned when a line carries a negative debit or
	// credit; direction is expressed by the column, never by sign.
	ErrNegativeAmount = fmt.Errorf("%w: journal line amounts must be non-negative", apperrors.ErrValidation)

	// ErrAccountNotFound is returned when a line references an unknown
	// account code.
	ErrAccountNotFound = fmt.Errorf("account: %w", apperrors.ErrNotFound)

	// ErrInactiveAccount is returned when a line references a deactivated
	// account.
	ErrInactiveAccount = fmt.Errorf("%w: account is inactive", apperrors.ErrValidation)

	// ErrFiscalYearClosed is returned when the entry date falls inside a
	// fiscal year that has already been closed.
	ErrFiscalYearClosed = fmt.Errorf("%w: fiscal year is closed", apperrors.ErrValidation)

	// ErrAlreadyPosted is returned when posting an entry that is already
	// posted.
	ErrAlreadyPosted = fmt.Errorf("%w: journal entry already posted", apperrors.ErrConflict)
)

// journalService implements the journal engine: balanced-entry validation,
// atomic persistence and the unposted-to-posted transition.
type journalService struct {
	BaseService
	journalRepo    portsrepo.JournalRepository
	accountRepo    portsrepo.AccountRepository
	fiscalYearRepo portsrepo.FiscalYearRepository
}

// NewJournalService creates a new JournalService.
func NewJournalService(
	journalRepo portsrepo.JournalRepository,
	accountRepo portsrepo.AccountRepository,
	fiscalYearRepo portsrepo.FiscalYearRepository,
) portssvc.JournalService {
	return &journalService{
		journalRepo:    journalRepo,
		accountRepo:    accountRepo,
		fiscalYearRepo: fiscalYearRepo,
	}
}

var _ portssvc.JournalService = (*journalService)(nil)

// CreateEntry validates the request and persists the entry with its lines in
// one transaction. The entry is created unposted; only posted entries feed
// aggregation.
func (s *journalService) CreateEntry(ctx context.Context, req dto.CreateJournalEntryRequest, creatorUserID string) (*domain.JournalEntry, error) {
	if len(req.Lines) == 0 {
		return nil, fmt.Errorf("%w: journal entry requires at least one line", apperrors.ErrValidation)
	}

	if err := s.checkPeriodOpen(ctx, req.Date); err != nil {
		return nil, err
	}

	codes := make([]string, 0, len(req.Lines))
	totalDebit := decimal.Zero
	totalCredit := decimal.Zero
	for i, line := range req.Lines {
		if line.Debit.IsNegative() || line.Credit.IsNegative() {
			return nil, fmt.Errorf("%w (line %d)", ErrNegativeAmount, i+1)
		}
		codes = append(codes, line.AccountCode)
		totalDebit = totalDebit.Add(line.Debit)
		totalCredit = totalCredit.Add(line.Credit)
	}

	if !accounting.WithinTolerance(totalDebit, totalCredit) {
		s.LogWarn(ctx, "Rejected unbalanced journal entry",
			slog.String("total_debit", totalDebit.String()),
			slog.String("total_credit", totalCredit.String()))
		return nil, fmt.Errorf("%w: debits %s, credits %s", ErrUnbalancedEntry, totalDebit.String(), totalCredit.String())
	}

	accounts, err := s.accountRepo.FindAccountsByCodes(ctx, codes)
	if err != nil {
		s.LogError(ctx, err, "Failed to resolve accounts for journal entry")
		return nil, fmt.Errorf("failed to resolve accounts: %w", err)
	}

	now := time.Now().UTC()
	entry := domain.JournalEntry{
		EntryID:     uuid.NewString(),
		EntryDate:   req.Date,
		Description: req.Description,
		IsPosted:    false,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	lines := make([]domain.JournalLine, len(req.Lines))
	for i, lineReq := range req.Lines {
		account, ok := accounts[lineReq.AccountCode]
		if !ok {
			return nil, fmt.Errorf("%w: code %s", ErrAccountNotFound, lineReq.AccountCode)
		}
		if !account.IsActive {
			return nil, fmt.Errorf("%w: code %s", ErrInactiveAccount, lineReq.AccountCode)
		}
		lines[i] = domain.JournalLine{
			LineID:       uuid.NewString(),
			EntryID:      entry.EntryID,
			AccountID:    account.AccountID,
			AccountCode:  account.Code,
			Debit:        lineReq.Debit,
			Credit:       lineReq.Credit,
			Description:  lineReq.Description,
			CostCenterID: lineReq.CostCenterID,
		}
	}

	if err := s.journalRepo.SaveEntry(ctx, entry, lines); err != nil {
		s.LogError(ctx, err, "Failed to save journal entry", slog.String("entry_id", entry.EntryID))
		return nil, fmt.Errorf("failed to save journal entry: %w", err)
	}

	entry.Lines = lines
	s.LogInfo(ctx, "Journal entry created",
		slog.String("entry_id", entry.EntryID),
		slog.Int("lines", len(lines)),
		slog.String("total_debit", totalDebit.String()))
	return &entry, nil
}

// PostEntry transitions an entry from unposted to posted, recording the
// approver. The transition is final.
func (s *journalService) PostEntry(ctx context.Context, entryID string, approverUserID string) (*domain.JournalEntry, error) {
	entry, err := s.journalRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if entry.IsPosted {
		return nil, fmt.Errorf("%w: entry %s", ErrAlreadyPosted, entryID)
	}

	if err := s.checkPeriodOpen(ctx, entry.EntryDate); err != nil {
		return nil, err
	}

	postedAt := time.Now().UTC()
	if err := s.journalRepo.MarkEntryPosted(ctx, entryID, approverUserID, postedAt); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return nil, fmt.Errorf("%w: entry %s", ErrAlreadyPosted, entryID)
		}
		s.LogError(ctx, err, "Failed to post journal entry", slog.String("entry_id", entryID))
		return nil, fmt.Errorf("failed to post journal entry: %w", err)
	}

	entry.IsPosted = true
	entry.ApprovedBy = approverUserID
	entry.PostedAt = &postedAt

	lines, err := s.journalRepo.FindLinesByEntryID(ctx, entryID)
	if err != nil {
		s.LogError(ctx, err, "Failed to load lines for posted entry", slog.String("entry_id", entryID))
		return nil, fmt.Errorf("failed to load journal lines: %w", err)
	}
	entry.Lines = lines

	s.LogInfo(ctx, "Journal entry posted", slog.String("entry_id", entryID), slog.String("approved_by", approverUserID))
	return entry, nil
}

// GetEntryByID returns the entry with its lines populated.
func (s *journalService) GetEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	entry, err := s.journalRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		return nil, err
	}

	lines, err := s.journalRepo.FindLinesByEntryID(ctx, entryID)
	if err != nil {
		s.LogError(ctx, err, "Failed to load journal lines", slog.String("entry_id", entryID))
		return nil, fmt.Errorf("failed to load journal lines: %w", err)
	}
	entry.Lines = lines
	return entry, nil
}

// checkPeriodOpen rejects dates that fall inside a closed fiscal year. Dates
// outside any recorded fiscal year are accepted.
func (s *journalService) checkPeriodOpen(ctx context.Context, date time.Time) error {
	fy, err := s.fiscalYearRepo.FindFiscalYearForDate(ctx, date)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil
		}
		s.LogError(ctx, err, "Failed to look up fiscal year for entry date")
		return fmt.Errorf("failed to look up fiscal year: %w", err)
	}
	if fy.IsClosed {
		return fmt.Errorf("%w: year %d", ErrFiscalYearClosed, fy.Year)
	}
	return nil
}
