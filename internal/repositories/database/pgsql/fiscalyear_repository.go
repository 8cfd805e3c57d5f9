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

// PgxFiscalYearRepository persists fiscal years and runs the period close in
// PostgreSQL.
type PgxFiscalYearRepository struct {
	BaseRepository
}

func newPgxFiscalYearRepository(pool *pgxpool.Pool) portsrepo.FiscalYearRepository {
	return &PgxFiscalYearRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.FiscalYearRepository = (*PgxFiscalYearRepository)(nil)

const fiscalYearColumns = `fiscal_year_id, year, start_date, end_date, is_closed, closed_at, closed_by, created_at, created_by, last_updated_at, last_updated_by`

func scanFiscalYear(row pgx.Row) (*domain.FiscalYear, error) {
	var fy domain.FiscalYear
	var closedBy *string
	err := row.Scan(
		&fy.FiscalYearID, &fy.Year, &fy.StartDate, &fy.EndDate, &fy.IsClosed, &fy.ClosedAt, &closedBy,
		&fy.CreatedAt, &fy.CreatedBy, &fy.LastUpdatedAt, &fy.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	if closedBy != nil {
		fy.ClosedBy = *closedBy
	}
	return &fy, nil
}

// SaveFiscalYear inserts a new fiscal year row. The year column carries a
// unique constraint.
func (r *PgxFiscalYearRepository) SaveFiscalYear(ctx context.Context, fy domain.FiscalYear) error {
	query := `
		INSERT INTO fiscal_years (fiscal_year_id, year, start_date, end_date, is_closed, closed_at, closed_by, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''), $8, $9, $10, $11);
	`
	_, err := r.Pool.Exec(ctx, query,
		fy.FiscalYearID, fy.Year, fy.StartDate, fy.EndDate, fy.IsClosed, fy.ClosedAt, fy.ClosedBy,
		fy.CreatedAt, fy.CreatedBy, fy.LastUpdatedAt, fy.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // Unique violation
			return fmt.Errorf("fiscal year %d: %w", fy.Year, apperrors.ErrDuplicate)
		}
		return fmt.Errorf("failed to insert fiscal year %d: %w", fy.Year, err)
	}
	return nil
}

// FindFiscalYearByID returns the fiscal year with the given ID.
func (r *PgxFiscalYearRepository) FindFiscalYearByID(ctx context.Context, fiscalYearID string) (*domain.FiscalYear, error) {
	query := `SELECT ` + fiscalYearColumns + ` FROM fiscal_years WHERE fiscal_year_id = $1;`
	fy, err := scanFiscalYear(r.Pool.QueryRow(ctx, query, fiscalYearID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("fiscal year %s: %w", fiscalYearID, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to query fiscal year: %w", err)
	}
	return fy, nil
}

// FindFiscalYearForDate returns the fiscal year whose window contains the
// given date.
func (r *PgxFiscalYearRepository) FindFiscalYearForDate(ctx context.Context, date time.Time) (*domain.FiscalYear, error) {
	query := `SELECT ` + fiscalYearColumns + ` FROM fiscal_years WHERE start_date <= $1 AND end_date >= $1;`
	fy, err := scanFiscalYear(r.Pool.QueryRow(ctx, query, date))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("fiscal year for %s: %w", date.Format(time.RFC3339), apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to query fiscal year for date: %w", err)
	}
	return fy, nil
}

// NetIncome computes sum(credit - debit) over posted journal lines on
// REVENUE and EXPENSE accounts dated within [start, end]. Revenue carries a
// credit-normal balance and expense a debit-normal one, so a single signed
// sum yields revenue minus expense.
func (r *PgxFiscalYearRepository) NetIncome(ctx context.Context, start, end time.Time) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(jl.credit - jl.debit), 0)
		FROM journal_lines jl
		JOIN journal_entries je ON je.entry_id = jl.entry_id
		JOIN accounts a ON a.account_id = jl.account_id
		WHERE je.is_posted = TRUE
		  AND je.entry_date >= $1 AND je.entry_date <= $2
		  AND a.account_type IN ('REVENUE', 'EXPENSE');
	`
	var netIncome decimal.Decimal
	if err := r.Pool.QueryRow(ctx, query, start, end).Scan(&netIncome); err != nil {
		return decimal.Zero, fmt.Errorf("failed to compute net income: %w", err)
	}
	return netIncome, nil
}

// CloseFiscalYear flips the closed flag with a compare-and-set and persists
// the closing entry with its lines in the same transaction. When the flag
// was already set nothing is written and apperrors.ErrConflict is returned.
func (r *PgxFiscalYearRepository) CloseFiscalYear(ctx context.Context, fy domain.FiscalYear, closingEntry *domain.JournalEntry, closingLines []domain.JournalLine) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	closeQuery := `
		UPDATE fiscal_years
		SET is_closed = TRUE, closed_at = $2, closed_by = $3, last_updated_at = $4, last_updated_by = $3
		WHERE fiscal_year_id = $1 AND is_closed = FALSE;
	`
	tag, err := tx.Exec(ctx, closeQuery, fy.FiscalYearID, fy.ClosedAt, fy.ClosedBy, fy.LastUpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to close fiscal year %d: %w", fy.Year, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("fiscal year %d already closed: %w", fy.Year, apperrors.ErrConflict)
	}

	if closingEntry != nil {
		entryQuery := `
			INSERT INTO journal_entries (entry_id, entry_date, description, is_posted, approved_by, posted_at, created_at, created_by, last_updated_at, last_updated_by)
			VALUES ($1, $2, NULLIF($3, ''), $4, NULLIF($5, ''), $6, $7, $8, $9, $10);
		`
		_, err = tx.Exec(ctx, entryQuery,
			closingEntry.EntryID, closingEntry.EntryDate, closingEntry.Description, closingEntry.IsPosted,
			closingEntry.ApprovedBy, closingEntry.PostedAt,
			closingEntry.CreatedAt, closingEntry.CreatedBy, closingEntry.LastUpdatedAt, closingEntry.LastUpdatedBy,
		)
		if err != nil {
			return fmt.Errorf("failed to insert closing entry for fiscal year %d: %w", fy.Year, err)
		}

		batch := &pgx.Batch{}
		for _, line := range closingLines {
			batch.Queue(insertLineQuery,
				line.LineID, line.EntryID, line.AccountID, line.AccountCode,
				line.Debit, line.Credit, line.Description, line.CostCenterID,
			)
		}
		results := tx.SendBatch(ctx, batch)
		for range closingLines {
			if _, err := results.Exec(); err != nil {
				results.Close()
				return fmt.Errorf("failed to insert closing line for fiscal year %d: %w", fy.Year, err)
			}
		}
		if err := results.Close(); err != nil {
			return fmt.Errorf("failed to close closing line batch: %w", err)
		}
	}

	return r.Commit(ctx, tx)
}
