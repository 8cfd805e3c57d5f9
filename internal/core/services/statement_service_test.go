package services_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/corebooks/ledger_backend/internal/core/domain"
	portssvc "github.com/corebooks/ledger_backend/internal/core/ports/services"
	"github.com/corebooks/ledger_backend/internal/core/services"
)

type StatementServiceTestSuite struct {
	suite.Suite
	mockStatementRepo  *MockStatementRepository
	mockFiscalYearRepo *MockFiscalYearRepository
	mockAccountRepo    *MockAccountRepository
	service            portssvc.StatementService

	year domain.FiscalYear
}

func (s *StatementServiceTestSuite) SetupTest() {
	s.mockStatementRepo = new(MockStatementRepository)
	s.mockFiscalYearRepo = new(MockFiscalYearRepository)
	s.mockAccountRepo = new(MockAccountRepository)
	s.service = services.NewStatementService(s.mockStatementRepo, s.mockFiscalYearRepo, s.mockAccountRepo)

	s.year = domain.FiscalYear{
		FiscalYearID: uuid.NewString(),
		Year:         2025,
		StartDate:    time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC),
		EndDate:      time.Date(2025, time.December, 31, 23, 59, 59, 0, time.UTC),
	}
}

func (s *StatementServiceTestSuite) TestGenerateStatements_BucketsByAccountType() {
	ctx := context.Background()

	totals := []domain.AccountBalance{
		{AccountCode: "1000", Name: "Cash", AccountType: domain.Asset, Debit: decimal.NewFromInt(500), Credit: decimal.NewFromInt(200)},
		{AccountCode: "2000", Name: "Payables", AccountType: domain.Liability, Debit: decimal.Zero, Credit: decimal.NewFromInt(300)},
		{AccountCode: "4000", Name: "Revenue", AccountType: domain.Revenue, Debit: decimal.Zero, Credit: decimal.NewFromInt(1000)},
		{AccountCode: "5000", Name: "Rent", AccountType: domain.Expense, Debit: decimal.NewFromInt(400), Credit: decimal.Zero},
	}

	s.mockFiscalYearRepo.On("FindFiscalYearByID", ctx, s.year.FiscalYearID).Return(&s.year, nil).Once()
	s.mockStatementRepo.On("GetAccountTotals", ctx, s.year.StartDate, s.year.EndDate).Return(totals, nil).Once()
	s.mockStatementRepo.On("SaveStatements", ctx, mock.MatchedBy(func(statements []domain.FinancialStatement) bool {
		if len(statements) != 2 {
			return false
		}
		return statements[0].StatementType == domain.BalanceSheet && statements[1].StatementType == domain.IncomeStatement
	})).Return(nil).Once()

	set, err := s.service.GenerateStatements(ctx, s.year.FiscalYearID)

	s.Require().NoError(err)
	s.Require().Len(set.BalanceSheet.Assets, 1)
	s.Require().Len(set.BalanceSheet.Liabilities, 1)
	s.Empty(set.BalanceSheet.Equity)
	s.Require().Len(set.IncomeStatement.Revenue, 1)
	s.Require().Len(set.IncomeStatement.Expense, 1)

	// Asset: debit - credit; revenue: credit - debit.
	s.True(set.BalanceSheet.Assets[0].Balance.Equal(decimal.NewFromInt(300)))
	s.True(set.IncomeStatement.Revenue[0].Balance.Equal(decimal.NewFromInt(1000)))
	s.True(set.IncomeStatement.Expense[0].Balance.Equal(decimal.NewFromInt(400)))
	s.mockStatementRepo.AssertExpectations(s.T())
}

func (s *StatementServiceTestSuite) TestGenerateStatements_EmptyYear() {
	ctx := context.Background()

	s.mockFiscalYearRepo.On("FindFiscalYearByID", ctx, s.year.FiscalYearID).Return(&s.year, nil).Once()
	s.mockStatementRepo.On("GetAccountTotals", ctx, s.year.StartDate, s.year.EndDate).
		Return([]domain.AccountBalance{}, nil).Once()
	s.mockStatementRepo.On("SaveStatements", ctx, mock.MatchedBy(func(statements []domain.FinancialStatement) bool {
		var bs domain.BalanceSheetData
		if err := json.Unmarshal(statements[0].Data, &bs); err != nil {
			return false
		}
		return len(bs.Assets) == 0 && len(bs.Liabilities) == 0 && len(bs.Equity) == 0
	})).Return(nil).Once()

	set, err := s.service.GenerateStatements(ctx, s.year.FiscalYearID)

	s.Require().NoError(err)
	s.NotNil(set.BalanceSheet.Assets)
	s.Empty(set.BalanceSheet.Assets)
	s.Empty(set.IncomeStatement.Revenue)
}

func (s *StatementServiceTestSuite) TestTrialBalance_AppliesSignConventions() {
	ctx := context.Background()

	totals := []domain.AccountBalance{
		{AccountCode: "1000", AccountType: domain.Asset, Debit: decimal.NewFromInt(500), Credit: decimal.NewFromInt(200)},
		{AccountCode: "4000", AccountType: domain.Revenue, Debit: decimal.Zero, Credit: decimal.NewFromInt(1000)},
	}

	s.mockFiscalYearRepo.On("FindFiscalYearByID", ctx, s.year.FiscalYearID).Return(&s.year, nil).Once()
	s.mockStatementRepo.On("GetAccountTotals", ctx, s.year.StartDate, s.year.EndDate).Return(totals, nil).Once()

	balances, err := s.service.TrialBalance(ctx, s.year.FiscalYearID)

	s.Require().NoError(err)
	s.Require().Len(balances, 2)
	s.True(balances[0].Balance.Equal(decimal.NewFromInt(300)), "asset balance should be debit - credit")
	s.True(balances[1].Balance.Equal(decimal.NewFromInt(1000)), "revenue balance should be credit - debit")
	s.mockStatementRepo.AssertNotCalled(s.T(), "SaveStatements", mock.Anything, mock.Anything)
}

func (s *StatementServiceTestSuite) TestAnalyzeAccount_IncreasingTrend() {
	ctx := context.Background()
	account := domain.Account{AccountID: uuid.NewString(), Code: "1000", AccountType: domain.Asset, IsActive: true}
	analysisDate := time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC)
	monthStart := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)

	s.mockAccountRepo.On("FindAccountByCode", ctx, "1000").Return(&account, nil).Once()
	s.mockStatementRepo.On("SumAccountNet", ctx, account.AccountID, analysisDate, false).
		Return(decimal.NewFromInt(1500), nil).Once()
	s.mockStatementRepo.On("SumAccountNet", ctx, account.AccountID, monthStart, true).
		Return(decimal.NewFromInt(1000), nil).Once()
	s.mockStatementRepo.On("SaveAccountAnalysis", ctx, mock.AnythingOfType("domain.AccountAnalysis")).
		Return(nil).Once()

	analysis, err := s.service.AnalyzeAccount(ctx, "1000", analysisDate)

	s.Require().NoError(err)
	s.True(analysis.Balance.Equal(decimal.NewFromInt(1500)))
	s.Equal(domain.TrendIncreasing, analysis.Trend)
	s.True(analysis.VariancePercentage.Equal(decimal.NewFromInt(50)))
}

func (s *StatementServiceTestSuite) TestAnalyzeAccount_CreditNormalBalanceFlipped() {
	ctx := context.Background()
	account := domain.Account{AccountID: uuid.NewString(), Code: "4000", AccountType: domain.Revenue, IsActive: true}
	analysisDate := time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC)
	monthStart := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)

	// Debit-normal net of -1000 means 1000 in credits for a revenue account.
	s.mockAccountRepo.On("FindAccountByCode", ctx, "4000").Return(&account, nil).Once()
	s.mockStatementRepo.On("SumAccountNet", ctx, account.AccountID, analysisDate, false).
		Return(decimal.NewFromInt(-1000), nil).Once()
	s.mockStatementRepo.On("SumAccountNet", ctx, account.AccountID, monthStart, true).
		Return(decimal.NewFromInt(-1000), nil).Once()
	s.mockStatementRepo.On("SaveAccountAnalysis", ctx, mock.Anything).Return(nil).Once()

	analysis, err := s.service.AnalyzeAccount(ctx, "4000", analysisDate)

	s.Require().NoError(err)
	s.True(analysis.Balance.Equal(decimal.NewFromInt(1000)))
	s.Equal(domain.TrendStable, analysis.Trend)
	s.True(analysis.VariancePercentage.IsZero())
}

func TestStatementService(t *testing.T) {
	suite.Run(t, new(StatementServiceTestSuite))
}
