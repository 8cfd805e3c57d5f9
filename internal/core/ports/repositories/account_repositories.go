package repositories

import (
	"context"
	"time"

	"github.com/corebooks/ledger_backend/internal/core/domain"
)

// AccountRepository defines persistence operations for the chart of accounts.
type AccountRepository interface {
	// SaveAccount inserts a new account. Returns apperrors.ErrDuplicate when
	// the code is already taken.
	SaveAccount(ctx context.Context, account domain.Account) error

	// FindAccountByCode returns the account with the given code or
	// apperrors.ErrNotFound.
	FindAccountByCode(ctx context.Context, code string) (*domain.Account, error)

	// FindAccountByID returns the account with the given surrogate ID or
	// apperrors.ErrNotFound.
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// FindAccountsByCodes resolves a set of codes to accounts. Missing codes
	// are simply absent from the returned map.
	FindAccountsByCodes(ctx context.Context, codes []string) (map[string]domain.Account, error)

	// FindChildAccounts lists the direct children of an account.
	FindChildAccounts(ctx context.Context, parentAccountID string) ([]domain.Account, error)

	// DeactivateAccount clears the active flag. Returns apperrors.ErrNotFound
	// if the account does not exist.
	DeactivateAccount(ctx context.Context, accountID string, updatedBy string, updatedAt time.Time) error
}
