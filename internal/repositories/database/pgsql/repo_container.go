package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/corebooks/ledger_backend/internal/core/ports/repositories"
)

// NewRepositoryProvider wires the PostgreSQL repository implementations.
func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		AccountRepo:    newPgxAccountRepository(dbPool),
		JournalRepo:    newPgxJournalRepository(dbPool),
		FiscalYearRepo: newPgxFiscalYearRepository(dbPool),
		StatementRepo:  newPgxStatementRepository(dbPool),
		BudgetRepo:     newPgxBudgetRepository(dbPool),
	}
}
