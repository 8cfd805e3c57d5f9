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
	"github.com/corebooks/ledger_backend/internal/dto"
)

// ErrParentAccountNotFound is returned when an account creation request names
// a parent code that does not resolve.
var ErrParentAccountNotFound = fmt.Errorf("parent account: %w", apperrors.ErrNotFound)

// accountService implements the account registry on top of the account
// repository.
type accountService struct {
	BaseService
	accountRepo portsrepo.AccountRepository
}

// NewAccountService creates a new AccountService.
func NewAccountService(accountRepo portsrepo.AccountRepository) portssvc.AccountService {
	return &accountService{accountRepo: accountRepo}
}

var _ portssvc.AccountService = (*accountService)(nil)

// CreateAccount registers a new account, resolving the optional parent code.
// An unresolvable parent fails the call; the registry never silently drops
// the parent reference.
func (s *accountService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest, creatorUserID string) (*domain.Account, error) {
	parentAccountID := ""
	if req.ParentCode != "" {
		parent, err := s.accountRepo.FindAccountByCode(ctx, req.ParentCode)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				s.LogWarn(ctx, "Parent account not found for account creation", slog.String("parent_code", req.ParentCode))
				return nil, fmt.Errorf("%w: code %s", ErrParentAccountNotFound, req.ParentCode)
			}
			return nil, fmt.Errorf("failed to resolve parent account %s: %w", req.ParentCode, err)
		}
		parentAccountID = parent.AccountID
	}

	now := time.Now().UTC()
	account := domain.Account{
		AccountID:       uuid.NewString(),
		Code:            req.Code,
		Name:            req.Name,
		AccountType:     req.AccountType,
		Description:     req.Description,
		ParentAccountID: parentAccountID,
		IsActive:        true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, fmt.Errorf("%w: account code %s", apperrors.ErrDuplicate, req.Code)
		}
		s.LogError(ctx, err, "Failed to save account", slog.String("code", req.Code))
		return nil, fmt.Errorf("failed to save account: %w", err)
	}

	s.LogInfo(ctx, "Account created", slog.String("account_id", account.AccountID), slog.String("code", account.Code))
	return &account, nil
}

// GetAccountByCode looks up an account by its user-facing code.
func (s *accountService) GetAccountByCode(ctx context.Context, code string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByCode(ctx, code)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find account by code", slog.String("code", code))
		}
		return nil, err
	}
	return account, nil
}

// GetAccountByID looks up an account by its surrogate ID.
func (s *accountService) GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find account by ID", slog.String("account_id", accountID))
		}
		return nil, err
	}
	return account, nil
}

// ListChildAccounts lists the direct children of the account with the given
// code. Cycle detection is not performed; callers must never close a cycle
// through parent codes.
func (s *accountService) ListChildAccounts(ctx context.Context, code string) ([]domain.Account, error) {
	parent, err := s.accountRepo.FindAccountByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	children, err := s.accountRepo.FindChildAccounts(ctx, parent.AccountID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list child accounts", slog.String("code", code))
		return nil, fmt.Errorf("failed to list child accounts: %w", err)
	}
	return children, nil
}

// DeactivateAccount clears the active flag for the account with the given
// code. Accounts are never deleted.
func (s *accountService) DeactivateAccount(ctx context.Context, code string, userID string) error {
	account, err := s.accountRepo.FindAccountByCode(ctx, code)
	if err != nil {
		return err
	}

	if err := s.accountRepo.DeactivateAccount(ctx, account.AccountID, userID, time.Now().UTC()); err != nil {
		s.LogError(ctx, err, "Failed to deactivate account", slog.String("code", code))
		return fmt.Errorf("failed to deactivate account: %w", err)
	}

	s.LogInfo(ctx, "Account deactivated", slog.String("code", code))
	return nil
}

// EnsureSystemAccount returns the account with the given code, lazily
// creating it when absent. This keeps system account provisioning (e.g. the
// retained earnings account used by the period close) in one place.
func (s *accountService) EnsureSystemAccount(ctx context.Context, code, name string, accountType domain.AccountType, userID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByCode(ctx, code)
	if err == nil {
		return account, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		s.LogError(ctx, err, "Failed to look up system account", slog.String("code", code))
		return nil, fmt.Errorf("failed to look up system account %s: %w", code, err)
	}

	s.LogInfo(ctx, "Provisioning system account", slog.String("code", code), slog.String("account_type", string(accountType)))
	return s.CreateAccount(ctx, dto.CreateAccountRequest{
		Code:        code,
		Name:        name,
		AccountType: accountType,
		Description: "System-provisioned account",
	}, userID)
}
