package repositories

import (
	"context"
	"time"

	"github.com/corebooks/ledger_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// StatementRepository defines the read-side aggregation queries and the
// persistence of derived statement snapshots.
type StatementRepository interface {
	// GetAccountTotals returns, per account with at least one posted line
	// dated within [start, end], the accumulated debit and credit totals.
	GetAccountTotals(ctx context.Context, start, end time.Time) ([]domain.AccountBalance, error)

	// SaveStatements persists the given snapshots in one transaction.
	SaveStatements(ctx context.Context, statements []domain.FinancialStatement) error

	// SumAccountNet computes sum(debit - credit) over posted lines for one
	// account with entry dates strictly before the cutoff when exclusive is
	// true, or on/before it otherwise.
	SumAccountNet(ctx context.Context, accountID string, cutoff time.Time, exclusive bool) (decimal.Decimal, error)

	// SaveAccountAnalysis persists an account analysis snapshot.
	SaveAccountAnalysis(ctx context.Context, analysis domain.AccountAnalysis) error
}
