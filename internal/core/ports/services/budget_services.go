package services

import (
	"context"

	"github.com/corebooks/ledger_backend/internal/core/domain"
	"github.com/corebooks/ledger_backend/internal/dto"
)

// BudgetService defines budget variance analysis and cost allocation.
type BudgetService interface {
	// CreateBudget registers a budgeted amount for an account and period.
	CreateBudget(ctx context.Context, req dto.CreateBudgetRequest, creatorUserID string) (*domain.Budget, error)

	// AnalyzeBudgetVariance compares posted ledger activity against the
	// budgeted amount for the budget's account and period.
	AnalyzeBudgetVariance(ctx context.Context, budgetID string) (*domain.BudgetVariance, error)

	// CreateCostCenter registers a new allocation target.
	CreateCostCenter(ctx context.Context, req dto.CreateCostCenterRequest, creatorUserID string) (*domain.CostCenter, error)

	// AllocateCosts apportions a journal line's net amount across cost
	// centers by ratio; the ratios must sum to 1.0 within tolerance.
	AllocateCosts(ctx context.Context, lineID string, req dto.AllocateCostsRequest, creatorUserID string) ([]domain.CostAllocation, error)
}
