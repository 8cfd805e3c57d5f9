package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/corebooks/ledger_backend/internal/apperrors"
	"github.com/corebooks/ledger_backend/internal/core/domain"
	portssvc "github.com/corebooks/ledger_backend/internal/core/ports/services"
	"github.com/corebooks/ledger_backend/internal/core/services"
	"github.com/corebooks/ledger_backend/internal/dto"
)

type BudgetServiceTestSuite struct {
	suite.Suite
	mockBudgetRepo     *MockBudgetRepository
	mockAccountRepo    *MockAccountRepository
	mockJournalRepo    *MockJournalRepository
	mockFiscalYearRepo *MockFiscalYearRepository
	service            portssvc.BudgetService

	userID string
	year   domain.FiscalYear
}

func (s *BudgetServiceTestSuite) SetupTest() {
	s.mockBudgetRepo = new(MockBudgetRepository)
	s.mockAccountRepo = new(MockAccountRepository)
	s.mockJournalRepo = new(MockJournalRepository)
	s.mockFiscalYearRepo = new(MockFiscalYearRepository)
	s.service = services.NewBudgetService(s.mockBudgetRepo, s.mockAccountRepo, s.mockJournalRepo, s.mockFiscalYearRepo)

	s.userID = uuid.NewString()
	s.year = domain.FiscalYear{
		FiscalYearID: uuid.NewString(),
		Year:         2025,
		StartDate:    time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC),
		EndDate:      time.Date(2025, time.December, 31, 23, 59, 59, 0, time.UTC),
	}
}

func (s *BudgetServiceTestSuite) TestCreateBudget_Success() {
	ctx := context.Background()
	account := domain.Account{AccountID: uuid.NewString(), Code: "5000", AccountType: domain.Expense, IsActive: true}
	req := dto.CreateBudgetRequest{
		FiscalYearID: s.year.FiscalYearID,
		AccountCode:  "5000",
		BudgetType:   domain.BudgetAnnual,
		PeriodStart:  s.year.StartDate,
		PeriodEnd:    s.year.EndDate,
		Amount:       decimal.NewFromInt(12000),
	}

	s.mockFiscalYearRepo.On("FindFiscalYearByID", ctx, s.year.FiscalYearID).Return(&s.year, nil).Once()
	s.mockAccountRepo.On("FindAccountByCode", ctx, "5000").Return(&account, nil).Once()
	s.mockBudgetRepo.On("SaveBudget", ctx, mock.MatchedBy(func(b domain.Budget) bool {
		return b.AccountID == account.AccountID && b.Amount.Equal(decimal.NewFromInt(12000))
	})).Return(nil).Once()

	budget, err := s.service.CreateBudget(ctx, req, s.userID)

	s.Require().NoError(err)
	s.Equal(account.AccountID, budget.AccountID)
	s.mockBudgetRepo.AssertExpectations(s.T())
}

func (s *BudgetServiceTestSuite) TestCreateBudget_InvalidPeriod() {
	ctx := context.Background()
	req := dto.CreateBudgetRequest{
		FiscalYearID: s.year.FiscalYearID,
		AccountCode:  "5000",
		BudgetType:   domain.BudgetAnnual,
		PeriodStart:  s.year.EndDate,
		PeriodEnd:    s.year.StartDate,
		Amount:       decimal.NewFromInt(12000),
	}

	budget, err := s.service.CreateBudget(ctx, req, s.userID)

	s.Require().Error(err)
	s.Nil(budget)
	s.ErrorIs(err, services.ErrInvalidPeriod)
}

func (s *BudgetServiceTestSuite) TestAnalyzeBudgetVariance() {
	ctx := context.Background()
	budget := domain.Budget{
		BudgetID:    uuid.NewString(),
		AccountID:   uuid.NewString(),
		PeriodStart: s.year.StartDate,
		PeriodEnd:   s.year.EndDate,
		Amount:      decimal.NewFromInt(10000),
	}

	s.mockBudgetRepo.On("FindBudgetByID", ctx, budget.BudgetID).Return(&budget, nil).Once()
	s.mockBudgetRepo.On("SumAccountActivity", ctx, budget.AccountID, budget.PeriodStart, budget.PeriodEnd).
		Return(decimal.NewFromInt(12500), nil).Once()

	variance, err := s.service.AnalyzeBudgetVariance(ctx, budget.BudgetID)

	s.Require().NoError(err)
	s.True(variance.ActualAmount.Equal(decimal.NewFromInt(12500)))
	s.True(variance.Variance.Equal(decimal.NewFromInt(2500)))
	s.True(variance.VariancePercentage.Equal(decimal.NewFromInt(25)))
}

func (s *BudgetServiceTestSuite) TestAnalyzeBudgetVariance_ZeroBudgetAmount() {
	ctx := context.Background()
	budget := domain.Budget{
		BudgetID:    uuid.NewString(),
		AccountID:   uuid.NewString(),
		PeriodStart: s.year.StartDate,
		PeriodEnd:   s.year.EndDate,
		Amount:      decimal.Zero,
	}

	s.mockBudgetRepo.On("FindBudgetByID", ctx, budget.BudgetID).Return(&budget, nil).Once()
	s.mockBudgetRepo.On("SumAccountActivity", ctx, budget.AccountID, budget.PeriodStart, budget.PeriodEnd).
		Return(decimal.NewFromInt(500), nil).Once()

	variance, err := s.service.AnalyzeBudgetVariance(ctx, budget.BudgetID)

	s.Require().NoError(err)
	s.True(variance.Variance.Equal(decimal.NewFromInt(500)))
	s.True(variance.VariancePercentage.IsZero(), "variance percentage should be zero when nothing was budgeted")
}

func (s *BudgetServiceTestSuite) TestAllocateCosts_Success() {
	ctx := context.Background()
	line := domain.JournalLine{
		LineID:    uuid.NewString(),
		AccountID: uuid.NewString(),
		Debit:     decimal.NewFromInt(1000),
		Credit:    decimal.Zero,
	}
	ccA := uuid.NewString()
	ccB := uuid.NewString()
	req := dto.AllocateCostsRequest{
		Allocations: []dto.CostAllocationRequest{
			{CostCenterID: ccA, Ratio: decimal.RequireFromString("0.5")},
			{CostCenterID: ccB, Ratio: decimal.RequireFromString("0.5")},
		},
	}

	s.mockJournalRepo.On("FindLineByID", ctx, line.LineID).Return(&line, nil).Once()
	s.mockBudgetRepo.On("FindCostCenterByID", ctx, ccA).Return(&domain.CostCenter{CostCenterID: ccA, IsActive: true}, nil).Once()
	s.mockBudgetRepo.On("FindCostCenterByID", ctx, ccB).Return(&domain.CostCenter{CostCenterID: ccB, IsActive: true}, nil).Once()
	s.mockBudgetRepo.On("SaveAllocations", ctx, mock.MatchedBy(func(allocations []domain.CostAllocation) bool {
		if len(allocations) != 2 {
			return false
		}
		return allocations[0].Amount.Equal(decimal.NewFromInt(500)) && allocations[1].Amount.Equal(decimal.NewFromInt(500))
	})).Return(nil).Once()

	allocations, err := s.service.AllocateCosts(ctx, line.LineID, req, s.userID)

	s.Require().NoError(err)
	s.Len(allocations, 2)
	s.mockBudgetRepo.AssertExpectations(s.T())
}

func (s *BudgetServiceTestSuite) TestAllocateCosts_InvalidRatioSum() {
	ctx := context.Background()
	line := domain.JournalLine{LineID: uuid.NewString(), Debit: decimal.NewFromInt(1000)}
	req := dto.AllocateCostsRequest{
		Allocations: []dto.CostAllocationRequest{
			{CostCenterID: uuid.NewString(), Ratio: decimal.RequireFromString("0.5")},
			{CostCenterID: uuid.NewString(), Ratio: decimal.RequireFromString("0.4")},
		},
	}

	s.mockJournalRepo.On("FindLineByID", ctx, line.LineID).Return(&line, nil).Once()

	allocations, err := s.service.AllocateCosts(ctx, line.LineID, req, s.userID)

	s.Require().Error(err)
	s.Nil(allocations)
	s.ErrorIs(err, services.ErrInvalidRatioSum)
	s.ErrorIs(err, apperrors.ErrValidation)
	s.mockBudgetRepo.AssertNotCalled(s.T(), "SaveAllocations", mock.Anything, mock.Anything)
}

func (s *BudgetServiceTestSuite) TestAllocateCosts_RatioSumWithinTolerance() {
	ctx := context.Background()
	line := domain.JournalLine{LineID: uuid.NewString(), Debit: decimal.NewFromInt(900)}
	cc := make([]string, 3)
	for i := range cc {
		cc[i] = uuid.NewString()
	}
	third := decimal.RequireFromString("0.333")
	req := dto.AllocateCostsRequest{
		Allocations: []dto.CostAllocationRequest{
			{CostCenterID: cc[0], Ratio: third},
			{CostCenterID: cc[1], Ratio: third},
			{CostCenterID: cc[2], Ratio: third},
		},
	}

	s.mockJournalRepo.On("FindLineByID", ctx, line.LineID).Return(&line, nil).Once()
	for _, id := range cc {
		s.mockBudgetRepo.On("FindCostCenterByID", ctx, id).Return(&domain.CostCenter{CostCenterID: id, IsActive: true}, nil).Once()
	}
	s.mockBudgetRepo.On("SaveAllocations", ctx, mock.Anything).Return(nil).Once()

	allocations, err := s.service.AllocateCosts(ctx, line.LineID, req, s.userID)

	s.Require().NoError(err)
	s.Len(allocations, 3)
}

func (s *BudgetServiceTestSuite) TestAllocateCosts_RatioOutOfRange() {
	ctx := context.Background()
	line := domain.JournalLine{LineID: uuid.NewString(), Debit: decimal.NewFromInt(1000)}
	req := dto.AllocateCostsRequest{
		Allocations: []dto.CostAllocationRequest{
			{CostCenterID: uuid.NewString(), Ratio: decimal.RequireFromString("1.5")},
		},
	}

	s.mockJournalRepo.On("FindLineByID", ctx, line.LineID).Return(&line, nil).Once()

	allocations, err := s.service.AllocateCosts(ctx, line.LineID, req, s.userID)

	s.Require().Error(err)
	s.Nil(allocations)
	s.ErrorIs(err, services.ErrInvalidRatio)
}

func (s *BudgetServiceTestSuite) TestAllocateCosts_UnknownCostCenter() {
	ctx := context.Background()
	line := domain.JournalLine{LineID: uuid.NewString(), Debit: decimal.NewFromInt(1000)}
	ccID := uuid.NewString()
	req := dto.AllocateCostsRequest{
		Allocations: []dto.CostAllocationRequest{
			{CostCenterID: ccID, Ratio: decimal.NewFromInt(1)},
		},
	}

	s.mockJournalRepo.On("FindLineByID", ctx, line.LineID).Return(&line, nil).Once()
	s.mockBudgetRepo.On("FindCostCenterByID", ctx, ccID).Return(nil, apperrors.ErrNotFound).Once()

	allocations, err := s.service.AllocateCosts(ctx, line.LineID, req, s.userID)

	s.Require().Error(err)
	s.Nil(allocations)
	s.ErrorIs(err, services.ErrCostCenterNotFound)
	s.mockBudgetRepo.AssertNotCalled(s.T(), "SaveAllocations", mock.Anything, mock.Anything)
}

func TestBudgetService(t *testing.T) {
	suite.Run(t, new(BudgetServiceTestSuite))
}
