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

// Named errors for budget and allocation validation failures.
var (
	// ErrInvalidPeriod is returned when a budget's period end is not after
	// its period start.
	ErrInvalidPeriod = fmt.Errorf("%w: budget period end must be after period start", apperrors.ErrValidation)

	// ErrInvalidRatioSum is returned when an allocation batch's ratios do
	// not sum to 1.0 within the rounding tolerance.
	ErrInvalidRatioSum = fmt.Errorf("%w: allocation ratios must sum to 1.0", apperrors.ErrValidation)

	// ErrInvalidRatio is returned when an individual allocation ratio falls
	// outside (0, 1].
	ErrInvalidRatio = fmt.Errorf("%w: allocation ratio must be in (0, 1]", apperrors.ErrValidation)

	// ErrCostCenterNotFound is returned when an allocation targets an
	// unknown cost center.
	ErrCostCenterNotFound = fmt.Errorf("cost center: %w", apperrors.ErrNotFound)
)

var one = decimal.NewFromInt(1)

// budgetService implements budget variance analysis and cost allocation.
type budgetService struct {
	BaseService
	budgetRepo     portsrepo.BudgetRepository
	accountRepo    portsrepo.AccountRepository
	journalRepo    portsrepo.JournalRepository
	fiscalYearRepo portsrepo.FiscalYearRepository
}

// NewBudgetService creates a new BudgetService.
func NewBudgetService(
	budgetRepo portsrepo.BudgetRepository,
	accountRepo portsrepo.AccountRepository,
	journalRepo portsrepo.JournalRepository,
	fiscalYearRepo portsrepo.FiscalYearRepository,
) portssvc.BudgetService {
	return &budgetService{
		budgetRepo:     budgetRepo,
		accountRepo:    accountRepo,
		journalRepo:    journalRepo,
		fiscalYearRepo: fiscalYearRepo,
	}
}

var _ portssvc.BudgetService = (*budgetService)(nil)

// CreateBudget registers a budgeted amount for an account and period within
// a fiscal year.
func (s *budgetService) CreateBudget(ctx context.Context, req dto.CreateBudgetRequest, creatorUserID string) (*domain.Budget, error) {
	if !req.PeriodEnd.After(req.PeriodStart) {
		return nil, ErrInvalidPeriod
	}

	if _, err := s.fiscalYearRepo.FindFiscalYearByID(ctx, req.FiscalYearID); err != nil {
		return nil, err
	}

	account, err := s.accountRepo.FindAccountByCode(ctx, req.AccountCode)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: code %s", ErrAccountNotFound, req.AccountCode)
		}
		return nil, fmt.Errorf("failed to resolve account %s: %w", req.AccountCode, err)
	}

	now := time.Now().UTC()
	budget := domain.Budget{
		BudgetID:     uuid.NewString(),
		FiscalYearID: req.FiscalYearID,
		AccountID:    account.AccountID,
		BudgetType:   req.BudgetType,
		PeriodStart:  req.PeriodStart,
		PeriodEnd:    req.PeriodEnd,
		Amount:       req.Amount,
		Description:  req.Description,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.budgetRepo.SaveBudget(ctx, budget); err != nil {
		s.LogError(ctx, err, "Failed to save budget", slog.String("account_code", req.AccountCode))
		return nil, fmt.Errorf("failed to save budget: %w", err)
	}

	s.LogInfo(ctx, "Budget created", slog.String("budget_id", budget.BudgetID), slog.String("account_code", req.AccountCode))
	return &budget, nil
}

// AnalyzeBudgetVariance compares posted ledger activity against the budgeted
// amount for the budget's account and period. The variance percentage is
// reported as zero when the budgeted amount is zero.
func (s *budgetService) AnalyzeBudgetVariance(ctx context.Context, budgetID string) (*domain.BudgetVariance, error) {
	budget, err := s.budgetRepo.FindBudgetByID(ctx, budgetID)
	if err != nil {
		return nil, err
	}

	actual, err := s.budgetRepo.SumAccountActivity(ctx, budget.AccountID, budget.PeriodStart, budget.PeriodEnd)
	if err != nil {
		s.LogError(ctx, err, "Failed to sum account activity for budget", slog.String("budget_id", budgetID))
		return nil, fmt.Errorf("failed to sum account activity: %w", err)
	}

	variance := actual.Sub(budget.Amount)
	variancePct := decimal.Zero
	if !budget.Amount.IsZero() {
		variancePct = variance.Div(budget.Amount.Abs()).Mul(decimal.NewFromInt(100)).Round(2)
	}

	return &domain.BudgetVariance{
		BudgetID:           budgetID,
		BudgetAmount:       budget.Amount,
		ActualAmount:       actual,
		Variance:           variance,
		VariancePercentage: variancePct,
	}, nil
}

// CreateCostCenter registers a new allocation target.
func (s *budgetService) CreateCostCenter(ctx context.Context, req dto.CreateCostCenterRequest, creatorUserID string) (*domain.CostCenter, error) {
	now := time.Now().UTC()
	cc := domain.CostCenter{
		CostCenterID: uuid.NewString(),
		Code:         req.Code,
		Name:         req.Name,
		Description:  req.Description,
		IsActive:     true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.budgetRepo.SaveCostCenter(ctx, cc); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, fmt.Errorf("%w: cost center code %s", apperrors.ErrDuplicate, req.Code)
		}
		s.LogError(ctx, err, "Failed to save cost center", slog.String("code", req.Code))
		return nil, fmt.Errorf("failed to save cost center: %w", err)
	}

	s.LogInfo(ctx, "Cost center created", slog.String("cost_center_id", cc.CostCenterID), slog.String("code", cc.Code))
	return &cc, nil
}

// AllocateCosts apportions a journal line's net amount across cost centers
// by ratio. The ratios must sum to 1.0 within tolerance and every target
// cost center must exist; the batch is persisted atomically.
func (s *budgetService) AllocateCosts(ctx context.Context, lineID string, req dto.AllocateCostsRequest, creatorUserID string) ([]domain.CostAllocation, error) {
	line, err := s.journalRepo.FindLineByID(ctx, lineID)
	if err != nil {
		return nil, err
	}

	ratioSum := decimal.Zero
	for _, a := range req.Allocations {
		if !a.Ratio.IsPositive() || a.Ratio.GreaterThan(one) {
			return nil, fmt.Errorf("%w: got %s", ErrInvalidRatio, a.Ratio.String())
		}
		ratioSum = ratioSum.Add(a.Ratio)
	}
	if !accounting.WithinTolerance(ratioSum, one) {
		s.LogWarn(ctx, "Rejected allocation with invalid ratio sum", slog.String("ratio_sum", ratioSum.String()))
		return nil, fmt.Errorf("%w: got %s", ErrInvalidRatioSum, ratioSum.String())
	}

	net := line.Debit.Sub(line.Credit)
	now := time.Now().UTC()
	allocations := make([]domain.CostAllocation, len(req.Allocations))
	for i, a := range req.Allocations {
		if _, err := s.budgetRepo.FindCostCenterByID(ctx, a.CostCenterID); err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, fmt.Errorf("%w: id %s", ErrCostCenterNotFound, a.CostCenterID)
			}
			return nil, fmt.Errorf("failed to resolve cost center %s: %w", a.CostCenterID, err)
		}
		allocations[i] = domain.CostAllocation{
			AllocationID: uuid.NewString(),
			LineID:       lineID,
			CostCenterID: a.CostCenterID,
			Ratio:        a.Ratio,
			Amount:       net.Mul(a.Ratio).Round(2),
			CreatedAt:    now,
			CreatedBy:    creatorUserID,
		}
	}

	if err := s.budgetRepo.SaveAllocations(ctx, allocations); err != nil {
		s.LogError(ctx, err, "Failed to save cost allocations", slog.String("line_id", lineID))
		return nil, fmt.Errorf("failed to save cost allocations: %w", err)
	}

	s.LogInfo(ctx, "Costs allocated", slog.String("line_id", lineID), slog.Int("targets", len(allocations)))
	return allocations, nil
}
