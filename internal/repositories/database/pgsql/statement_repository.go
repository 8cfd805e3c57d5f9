package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/corebooks/ledger_backend/internal/core/domain"
	portsrepo "github.com/corebooks/ledger_backend/internal/core/ports/repositories"
)

// PgxStatementRepository runs the read-side aggregation queries and persists
// derived statement snapshots.
type PgxStatementRepository struct {
	BaseRepository
}

func newPgxStatementRepository(pool *pgxpool.Pool) portsrepo.StatementRepository {
	return &PgxStatementRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.StatementRepository = (*PgxStatementRepository)(nil)

// GetAccountTotals returns accumulated posted debit and credit totals per
// account with activity dated within [start, end]. The Balance field is left
// zero; the service applies the sign convention.
func (r *PgxStatementRepository) GetAccountTotals(ctx context.Context, start, end time.Time) ([]domain.AccountBalance, error) {
	query := `
		SELECT a.code, a.name, a.account_type,
		       COALESCE(SUM(jl.debit), 0) AS total_debit,
		       COALESCE(SUM(jl.credit), 0) AS total_credit
		FROM journal_lines jl
		JOIN journal_entries je ON je.entry_id = jl.entry_id
		JOIN accounts a ON a.account_id = jl.account_id
		WHERE je.is_posted = TRUE
		  AND je.entry_date >= $1 AND je.entry_date <= $2
		GROUP BY a.code, a.name, a.account_type
		ORDER BY a.code;
	`
	rows, err := r.Pool.Query(ctx, query, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query account totals: %w", err)
	}
	defer rows.Close()

	var totals []domain.AccountBalance
	for rows.Next() {
		var b domain.AccountBalance
		if err := rows.Scan(&b.AccountCode, &b.Name, &b.AccountType, &b.Debit, &b.Credit); err != nil {
			return nil, fmt.Errorf("failed to scan account total: %w", err)
		}
		totals = append(totals, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read account totals: %w", err)
	}
	return totals, nil
}

// SaveStatements persists the given snapshots in one transaction.
func (r *PgxStatementRepository) SaveStatements(ctx context.Context, statements []domain.FinancialStatement) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	query := `
		INSERT INTO financial_statements (statement_id, fiscal_year_id, statement_type, period_end, data, created_at)
		VALUES ($1, $2, $3, $4, $5, $6);
	`
	batch := &pgx.Batch{}
	for _, st := range statements {
		batch.Queue(query, st.StatementID, st.FiscalYearID, st.StatementType, st.PeriodEnd, st.Data, st.CreatedAt)
	}
	results := tx.SendBatch(ctx, batch)
	for range statements {
		if _, err := results.Exec(); err != nil {
			results.Close()
			return fmt.Errorf("failed to insert financial statement: %w", err)
		}
	}
	if err := results.Close(); err != nil {
		return fmt.Errorf("failed to close statement batch: %w", err)
	}

	return r.Commit(ctx, tx)
}

// SumAccountNet computes sum(debit - credit) over posted lines for one
// account, bounded by the cutoff date.
func (r *PgxStatementRepository) SumAccountNet(ctx context.Context, accountID string, cutoff time.Time, exclusive bool) (decimal.Decimal, error) {
	op := "<="
	if exclusive {
		op = "<"
	}
	query := `
		SELECT COALESCE(SUM(jl.debit - jl.credit), 0)
		FROM journal_lines jl
		JOIN journal_entries je ON je.entry_id = jl.entry_id
		WHERE je.is_posted = TRUE
		  AND jl.account_id = $1
		  AND je.entry_date ` + op + ` $2;
	`
	var net decimal.Decimal
	if err := r.Pool.QueryRow(ctx, query, accountID, cutoff).Scan(&net); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum account activity: %w", err)
	}
	return net, nil
}

// SaveAccountAnalysis persists an account analysis snapshot.
func (r *PgxStatementRepository) SaveAccountAnalysis(ctx context.Context, analysis domain.AccountAnalysis) error {
	query := `
		INSERT INTO account_analyses (analysis_id, account_id, analysis_date, balance, trend, variance_percentage, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	_, err := r.Pool.Exec(ctx, query,
		analysis.AnalysisID, analysis.AccountID, analysis.AnalysisDate,
		analysis.Balance, analysis.Trend, analysis.VariancePercentage, analysis.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert account analysis: %w", err)
	}
	return nil
}
