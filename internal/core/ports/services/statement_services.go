package services

import (
	"context"
	"time"

	"github.com/corebooks/ledger_backend/internal/core/domain"
)

// StatementService defines the derived-statement aggregation operations.
type StatementService interface {
	// GenerateStatements aggregates the year's posted lines into balance
	// sheet and income statement buckets, persists the two snapshots and
	// returns the in-memory result.
	GenerateStatements(ctx context.Context, fiscalYearID string) (*domain.StatementSet, error)

	// TrialBalance returns the per-account debit/credit totals for the year
	// without persisting anything.
	TrialBalance(ctx context.Context, fiscalYearID string) ([]domain.AccountBalance, error)

	// AnalyzeAccount snapshots the account's balance as of the given date,
	// compared against the balance at the start of that month.
	AnalyzeAccount(ctx context.Context, accountCode string, analysisDate time.Time) (*domain.AccountAnalysis, error)
}
