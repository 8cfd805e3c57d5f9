package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/corebooks/ledger_backend/internal/core/domain"
	portsrepo "github.com/corebooks/ledger_backend/internal/core/ports/repositories"
	portssvc "github.com/corebooks/ledger_backend/internal/core/ports/services"
	"github.com/corebooks/ledger_backend/internal/utils/accounting"
)

// statementService implements the derived-statement aggregation: balance
// sheet and income statement generation, trial balance and point-in-time
// account analysis.
type statementService struct {
	BaseService
	statementRepo  portsrepo.StatementRepository
	fiscalYearRepo portsrepo.FiscalYearRepository
	accountRepo    portsrepo.AccountRepository
}

// NewStatementService creates a new StatementService.
func NewStatementService(
	statementRepo portsrepo.StatementRepository,
	fiscalYearRepo portsrepo.FiscalYearRepository,
	accountRepo portsrepo.AccountRepository,
) portssvc.StatementService {
	return &statementService{
		statementRepo:  statementRepo,
		fiscalYearRepo: fiscalYearRepo,
		accountRepo:    accountRepo,
	}
}

var _ portssvc.StatementService = (*statementService)(nil)

// GenerateStatements aggregates the year's posted lines into balance sheet
// and income statement buckets, persists both snapshots and returns the
// result. A year with no posted activity yields statements with empty
// buckets, not an error.
func (s *statementService) GenerateStatements(ctx context.Context, fiscalYearID string) (*domain.StatementSet, error) {
	fy, err := s.fiscalYearRepo.FindFiscalYearByID(ctx, fiscalYearID)
	if err != nil {
		return nil, err
	}

	totals, err := s.statementRepo.GetAccountTotals(ctx, fy.StartDate, fy.EndDate)
	if err != nil {
		s.LogError(ctx, err, "Failed to aggregate account totals", slog.Int("year", fy.Year))
		return nil, fmt.Errorf("failed to aggregate account totals: %w", err)
	}

	set := domain.StatementSet{
		FiscalYearID: fiscalYearID,
		PeriodEnd:    fy.EndDate,
		BalanceSheet: domain.BalanceSheetData{
			Assets:      []domain.AccountBalance{},
			Liabilities: []domain.AccountBalance{},
			Equity:      []domain.AccountBalance{},
		},
		IncomeStatement: domain.IncomeStatementData{
			Revenue: []domain.AccountBalance{},
			Expense: []domain.AccountBalance{},
		},
	}

	for _, row := range totals {
		balance, err := accounting.BalanceFor(row.AccountType, row.Debit, row.Credit)
		if err != nil {
			return nil, fmt.Errorf("account %s: %w", row.AccountCode, err)
		}
		row.Balance = balance

		switch row.AccountType {
		case domain.Asset:
			set.BalanceSheet.Assets = append(set.BalanceSheet.Assets, row)
		case domain.Liability:
			set.BalanceSheet.Liabilities = append(set.BalanceSheet.Liabilities, row)
		case domain.Equity:
			set.BalanceSheet.Equity = append(set.BalanceSheet.Equity, row)
		case domain.Revenue:
			set.IncomeStatement.Revenue = append(set.IncomeStatement.Revenue, row)
		case domain.Expense:
			set.IncomeStatement.Expense = append(set.IncomeStatement.Expense, row)
		}
	}

	bsData, err := json.Marshal(set.BalanceSheet)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize balance sheet: %w", err)
	}
	isData, err := json.Marshal(set.IncomeStatement)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize income statement: %w", err)
	}

	now := time.Now().UTC()
	statements := []domain.FinancialStatement{
		{
			StatementID:   uuid.NewString(),
			FiscalYearID:  fiscalYearID,
			StatementType: domain.BalanceSheet,
			PeriodEnd:     fy.EndDate,
			Data:          bsData,
			CreatedAt:     now,
		},
		{
			StatementID:   uuid.NewString(),
			FiscalYearID:  fiscalYearID,
			StatementType: domain.IncomeStatement,
			PeriodEnd:     fy.EndDate,
			Data:          isData,
			CreatedAt:     now,
		},
	}
	if err := s.statementRepo.SaveStatements(ctx, statements); err != nil {
		s.LogError(ctx, err, "Failed to persist statements", slog.Int("year", fy.Year))
		return nil, fmt.Errorf("failed to persist statements: %w", err)
	}

	s.LogInfo(ctx, "Statements generated", slog.Int("year", fy.Year), slog.Int("accounts", len(totals)))
	return &set, nil
}

// TrialBalance returns the per-account debit/credit totals for the year with
// their signed balances. Nothing is persisted.
func (s *statementService) TrialBalance(ctx context.Context, fiscalYearID string) ([]domain.AccountBalance, error) {
	fy, err := s.fiscalYearRepo.FindFiscalYearByID(ctx, fiscalYearID)
	if err != nil {
		return nil, err
	}

	totals, err := s.statementRepo.GetAccountTotals(ctx, fy.StartDate, fy.EndDate)
	if err != nil {
		s.LogError(ctx, err, "Failed to aggregate trial balance", slog.Int("year", fy.Year))
		return nil, fmt.Errorf("failed to aggregate trial balance: %w", err)
	}

	for i := range totals {
		balance, err := accounting.BalanceFor(totals[i].AccountType, totals[i].Debit, totals[i].Credit)
		if err != nil {
			return nil, fmt.Errorf("account %s: %w", totals[i].AccountCode, err)
		}
		totals[i].Balance = balance
	}
	return totals, nil
}

// AnalyzeAccount snapshots the account's signed balance as of analysisDate
// and classifies the trend against the balance at the start of that month.
// The snapshot is persisted and returned.
func (s *statementService) AnalyzeAccount(ctx context.Context, accountCode string, analysisDate time.Time) (*domain.AccountAnalysis, error) {
	account, err := s.accountRepo.FindAccountByCode(ctx, accountCode)
	if err != nil {
		return nil, err
	}

	current, err := s.statementRepo.SumAccountNet(ctx, account.AccountID, analysisDate, false)
	if err != nil {
		s.LogError(ctx, err, "Failed to sum account activity", slog.String("code", accountCode))
		return nil, fmt.Errorf("failed to sum account activity: %w", err)
	}

	monthStart := time.Date(analysisDate.Year(), analysisDate.Month(), 1, 0, 0, 0, 0, time.UTC)
	previous, err := s.statementRepo.SumAccountNet(ctx, account.AccountID, monthStart, true)
	if err != nil {
		s.LogError(ctx, err, "Failed to sum prior account activity", slog.String("code", accountCode))
		return nil, fmt.Errorf("failed to sum prior account activity: %w", err)
	}

	// SumAccountNet returns debit-normal nets; flip for credit-normal types.
	if account.AccountType == domain.Liability || account.AccountType == domain.Equity || account.AccountType == domain.Revenue {
		current = current.Neg()
		previous = previous.Neg()
	}

	trend := domain.TrendStable
	diff := current.Sub(previous)
	switch {
	case diff.GreaterThan(accounting.Tolerance):
		trend = domain.TrendIncreasing
	case diff.LessThan(accounting.Tolerance.Neg()):
		trend = domain.TrendDecreasing
	}

	variancePct := decimal.Zero
	if !previous.IsZero() {
		variancePct = diff.Div(previous.Abs()).Mul(decimal.NewFromInt(100)).Round(2)
	}

	analysis := domain.AccountAnalysis{
		AnalysisID:         uuid.NewString(),
		AccountID:          account.AccountID,
		AnalysisDate:       analysisDate,
		Balance:            current,
		Trend:              trend,
		VariancePercentage: variancePct,
		CreatedAt:          time.Now().UTC(),
	}
	if err := s.statementRepo.SaveAccountAnalysis(ctx, analysis); err != nil {
		s.LogError(ctx, err, "Failed to persist account analysis", slog.String("code", accountCode))
		return nil, fmt.Errorf("failed to persist account analysis: %w", err)
	}

	s.LogInfo(ctx, "Account analyzed",
		slog.String("code", accountCode),
		slog.String("balance", current.String()),
		slog.String("trend", string(trend)))
	return &analysis, nil
}
