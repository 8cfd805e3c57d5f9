package repositories

import (
	"context"
	"time"

	"github.com/corebooks/ledger_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// BudgetRepository defines persistence for budgets, cost centers and cost
// allocations.
type BudgetRepository interface {
	// SaveBudget inserts a new budget.
	SaveBudget(ctx context.Context, budget domain.Budget) error

	// FindBudgetByID returns the budget or apperrors.ErrNotFound.
	FindBudgetByID(ctx context.Context, budgetID string) (*domain.Budget, error)

	// SumAccountActivity computes sum(debit - credit) over posted lines for
	// the account with entry dates within [start, end].
	SumAccountActivity(ctx context.Context, accountID string, start, end time.Time) (decimal.Decimal, error)

	// SaveCostCenter inserts a new cost center. Returns apperrors.ErrDuplicate
	// when the code is already taken.
	SaveCostCenter(ctx context.Context, cc domain.CostCenter) error

	// FindCostCenterByID returns the cost center or apperrors.ErrNotFound.
	FindCostCenterByID(ctx context.Context, costCenterID string) (*domain.CostCenter, error)

	// SaveAllocations persists an allocation batch in one transaction; either
	// the whole batch is stored or none of it.
	SaveAllocations(ctx context.Context, allocations []domain.CostAllocation) error
}
