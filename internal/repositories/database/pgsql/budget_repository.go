package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/corebooks/ledger_backend/internal/apperrors"
	"github.com/corebooks/ledger_backend/internal/core/domain"
	portsrepo "github.com/corebooks/ledger_backend/internal/core/ports/repositories"
)

// PgxBudgetRepository persists budgets, cost centers and cost allocations in
// PostgreSQL.
type PgxBudgetRepository struct {
	BaseRepository
}

func newPgxBudgetRepository(pool *pgxpool.Pool) portsrepo.BudgetRepository {
	return &PgxBudgetRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.BudgetRepository = (*PgxBudgetRepository)(nil)

// SaveBudget inserts a new budget row.
func (r *PgxBudgetRepository) SaveBudget(ctx context.Context, budget domain.Budget) error {
	query := `
		INSERT INTO budgets (budget_id, fiscal_year_id, account_id, budget_type, period_start, period_end, amount, description, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NULLIF($8, ''), $9, $10, $11, $12);
	`
	_, err := r.Pool.Exec(ctx, query,
		budget.BudgetID, budget.FiscalYearID, budget.AccountID, budget.BudgetType,
		budget.PeriodStart, budget.PeriodEnd, budget.Amount, budget.Description,
		budget.CreatedAt, budget.CreatedBy, budget.LastUpdatedAt, budget.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert budget %s: %w", budget.BudgetID, err)
	}
	return nil
}

// FindBudgetByID returns the budget with the given ID.
func (r *PgxBudgetRepository) FindBudgetByID(ctx context.Context, budgetID string) (*domain.Budget, error) {
	query := `
		SELECT budget_id, fiscal_year_id, account_id, budget_type, period_start, period_end, amount, description, created_at, created_by, last_updated_at, last_updated_by
		FROM budgets WHERE budget_id = $1;
	`
	var b domain.Budget
	var description *string
	err := r.Pool.QueryRow(ctx, query, budgetID).Scan(
		&b.BudgetID, &b.FiscalYearID, &b.AccountID, &b.BudgetType,
		&b.PeriodStart, &b.PeriodEnd, &b.Amount, &description,
		&b.CreatedAt, &b.CreatedBy, &b.LastUpdatedAt, &b.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("budget %s: %w", budgetID, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to query budget: %w", err)
	}
	if description != nil {
		b.Description = *description
	}
	return &b, nil
}

// SumAccountActivity computes sum(debit - credit) over posted lines for the
// account with entry dates within [start, end].
func (r *PgxBudgetRepository) SumAccountActivity(ctx context.Context, accountID string, start, end time.Time) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(jl.debit - jl.credit), 0)
		FROM journal_lines jl
		JOIN journal_entries je ON je.entry_id = jl.entry_id
		WHERE je.is_posted = TRUE
		  AND jl.account_id = $1
		  AND je.entry_date >= $2 AND je.entry_date <= $3;
	`
	var actual decimal.Decimal
	if err := r.Pool.QueryRow(ctx, query, accountID, start, end).Scan(&actual); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum account activity: %w", err)
	}
	return actual, nil
}

// SaveCostCenter inserts a new cost center row.
func (r *PgxBudgetRepository) SaveCostCenter(ctx context.Context, cc domain.CostCenter) error {
	query := `
		INSERT INTO cost_centers (cost_center_id, code, name, description, parent_id, is_active, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''), $6, $7, $8, $9, $10);
	`
	_, err := r.Pool.Exec(ctx, query,
		cc.CostCenterID, cc.Code, cc.Name, cc.Description, cc.ParentID, cc.IsActive,
		cc.CreatedAt, cc.CreatedBy, cc.LastUpdatedAt, cc.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // Unique violation
			return fmt.Errorf("cost center code %s: %w", cc.Code, apperrors.ErrDuplicate)
		}
		return fmt.Errorf("failed to insert cost center %s: %w", cc.Code, err)
	}
	return nil
}

// FindCostCenterByID returns the cost center with the given ID.
func (r *PgxBudgetRepository) FindCostCenterByID(ctx context.Context, costCenterID string) (*domain.CostCenter, error) {
	query := `
		SELECT cost_center_id, code, name, description, parent_id, is_active, created_at, created_by, last_updated_at, last_updated_by
		FROM cost_centers WHERE cost_center_id = $1;
	`
	var cc domain.CostCenter
	var description, parentID *string
	err := r.Pool.QueryRow(ctx, query, costCenterID).Scan(
		&cc.CostCenterID, &cc.Code, &cc.Name, &description, &parentID, &cc.IsActive,
		&cc.CreatedAt, &cc.CreatedBy, &cc.LastUpdatedAt, &cc.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("cost center %s: %w", costCenterID, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to query cost center: %w", err)
	}
	if description != nil {
		cc.Description = *description
	}
	if parentID != nil {
		cc.ParentID = *parentID
	}
	return &cc, nil
}

// SaveAllocations persists an allocation batch in one transaction.
func (r *PgxBudgetRepository) SaveAllocations(ctx context.Context, allocations []domain.CostAllocation) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	query := `
		INSERT INTO cost_allocations (allocation_id, line_id, cost_center_id, ratio, amount, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	batch := &pgx.Batch{}
	for _, a := range allocations {
		batch.Queue(query, a.AllocationID, a.LineID, a.CostCenterID, a.Ratio, a.Amount, a.CreatedAt, a.CreatedBy)
	}
	results := tx.SendBatch(ctx, batch)
	for range allocations {
		if _, err := results.Exec(); err != nil {
			results.Close()
			return fmt.Errorf("failed to insert cost allocation: %w", err)
		}
	}
	if err := results.Close(); err != nil {
		return fmt.Errorf("failed to close allocation batch: %w", err)
	}

	return r.Commit(ctx, tx)
}
