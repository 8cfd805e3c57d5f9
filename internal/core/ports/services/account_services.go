package services

import (
	"context"

	"github.com/corebooks/ledger_backend/internal/core/domain"
	"github.com/corebooks/ledger_backend/internal/dto"
)

// AccountService defines the operations of the account registry.
type AccountService interface {
	// CreateAccount registers a new account. When ParentCode is set it must
	// resolve to an existing account or the call fails with
	// apperrors.ErrNotFound.
	CreateAccount(ctx context.Context, req dto.CreateAccountRequest, creatorUserID string) (*domain.Account, error)

	// GetAccountByCode looks up an account by its user-facing code.
	GetAccountByCode(ctx context.Context, code string) (*domain.Account, error)

	// GetAccountByID looks up an account by its surrogate ID.
	GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// ListChildAccounts lists the direct children of the account with the
	// given code, for hierarchy reporting.
	ListChildAccounts(ctx context.Context, code string) ([]domain.Account, error)

	// DeactivateAccount clears the active flag; accounts are never deleted.
	DeactivateAccount(ctx context.Context, code string, userID string) error

	// EnsureSystemAccount returns the account with the given code, creating
	// it with the supplied name and type when it does not exist yet. Used for
	// lazily provisioned system accounts such as retained earnings.
	EnsureSystemAccount(ctx context.Context, code, name string, accountType domain.AccountType, userID string) (*domain.Account, error)
}
