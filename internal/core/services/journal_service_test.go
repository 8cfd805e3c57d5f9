package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/corebooks/ledger_backend/internal/apperrors"
	"github.com/corebooks/ledger_backend/internal/core/domain"
	portssvc "github.com/corebooks/ledger_backend/internal/core/ports/services"
	"github.com/corebooks/ledger_backend/internal/core/services"
	"github.com/corebooks/ledger_backend/internal/dto"
)

type JournalServiceTestSuite struct {
	suite.Suite
	mockJournalRepo    *MockJournalRepository
	mockAccountRepo    *MockAccountRepository
	mockFiscalYearRepo *MockFiscalYearRepository
	service            portssvc.JournalService

	userID         string
	cashAccount    domain.Account
	revenueAccount domain.Account
	entryDate      time.Time
}

func (s *JournalServiceTestSuite) SetupTest() {
	s.mockJournalRepo = new(MockJournalRepository)
	s.mockAccountRepo = new(MockAccountRepository)
	s.mockFiscalYearRepo = new(MockFiscalYearRepository)
	s.service = services.NewJournalService(s.mockJournalRepo, s.mockAccountRepo, s.mockFiscalYearRepo)

	s.userID = uuid.NewString()
	s.cashAccount = domain.Account{
		AccountID:   uuid.NewString(),
		Code:        "1000",
		Name:        "Cash",
		AccountType: domain.Asset,
		IsActive:    true,
	}
	s.revenueAccount = domain.Account{
		AccountID:   uuid.NewString(),
		Code:        "4000",
		Name:        "Sales Revenue",
		AccountType: domain.Revenue,
		IsActive:    true,
	}
	s.entryDate = time.Date(2025, time.March, 15, 0, 0, 0, 0, time.UTC)
}

func (s *JournalServiceTestSuite) balancedRequest() dto.CreateJournalEntryRequest {
	return dto.CreateJournalEntryRequest{
		Date:        s.entryDate,
		Description: "Cash sale",
		Lines: []dto.CreateJournalLineRequest{
			{AccountCode: "1000", Debit: decimal.NewFromInt(100)},
			{AccountCode: "4000", Credit: decimal.NewFromInt(100)},
		},
	}
}

func (s *JournalServiceTestSuite) expectOpenPeriod() {
	s.mockFiscalYearRepo.On("FindFiscalYearForDate", mock.Anything, s.entryDate).
		Return(nil, apperrors.ErrNotFound).Once()
}

func (s *JournalServiceTestSuite) TestCreateEntry_Success() {
	ctx := context.Background()
	req := s.balancedRequest()

	s.expectOpenPeriod()
	s.mockAccountRepo.On("FindAccountsByCodes", ctx, []string{"1000", "4000"}).
		Return(map[string]domain.Account{"1000": s.cashAccount, "4000": s.revenueAccount}, nil).Once()
	s.mockJournalRepo.On("SaveEntry", ctx, mock.AnythingOfType("domain.JournalEntry"), mock.AnythingOfType("[]domain.JournalLine")).
		Return(nil).Once()

	entry, err := s.service.CreateEntry(ctx, req, s.userID)

	s.Require().NoError(err)
	s.Require().NotNil(entry)
	s.False(entry.IsPosted)
	s.Len(entry.Lines, 2)
	s.Equal(s.cashAccount.AccountID, entry.Lines[0].AccountID)
	s.True(entry.Lines[0].Debit.Equal(decimal.NewFromInt(100)))
	s.True(entry.Lines[1].Credit.Equal(decimal.NewFromInt(100)))
	s.mockJournalRepo.AssertExpectations(s.T())
}

func (s *JournalServiceTestSuite) TestCreateEntry_Unbalanced() {
	ctx := context.Background()
	req := dto.CreateJournalEntryRequest{
		Date: s.entryDate,
		Lines: []dto.CreateJournalLineRequest{
			{AccountCode: "1000", Debit: decimal.NewFromInt(100)},
			{AccountCode: "4000", Credit: decimal.NewFromInt(99)},
		},
	}

	s.expectOpenPeriod()

	entry, err := s.service.CreateEntry(ctx, req, s.userID)

	s.Require().Error(err)
	s.Nil(entry)
	s.ErrorIs(err, services.ErrUnbalancedEntry)
	s.ErrorIs(err, apperrors.ErrValidation)
	s.mockJournalRepo.AssertNotCalled(s.T(), "SaveEntry", mock.Anything, mock.Anything, mock.Anything)
}

func (s *JournalServiceTestSuite) TestCreateEntry_WithinTolerance() {
	ctx := context.Background()
	req := dto.CreateJournalEntryRequest{
		Date: s.entryDate,
		Lines: []dto.CreateJournalLineRequest{
			{AccountCode: "1000", Debit: decimal.RequireFromString("100.00")},
			{AccountCode: "4000", Credit: decimal.RequireFromString("99.995")},
		},
	}

	s.expectOpenPeriod()
	s.mockAccountRepo.On("FindAccountsByCodes", ctx, []string{"1000", "4000"}).
		Return(map[string]domain.Account{"1000": s.cashAccount, "4000": s.revenueAccount}, nil).Once()
	s.mockJournalRepo.On("SaveEntry", ctx, mock.Anything, mock.Anything).Return(nil).Once()

	entry, err := s.service.CreateEntry(ctx, req, s.userID)

	s.Require().NoError(err)
	s.NotNil(entry)
}

func (s *JournalServiceTestSuite) TestCreateEntry_NegativeAmount() {
	ctx := context.Background()
	req := dto.CreateJournalEntryRequest{
		Date: s.entryDate,
		Lines: []dto.CreateJournalLineRequest{
			{AccountCode: "1000", Debit: decimal.NewFromInt(-100)},
			{AccountCode: "4000", Credit: decimal.NewFromInt(-100)},
		},
	}

	s.expectOpenPeriod()

	entry, err := s.service.CreateEntry(ctx, req, s.userID)

	s.Require().Error(err)
	s.Nil(entry)
	s.ErrorIs(err, services.ErrNegativeAmount)
}

func (s *JournalServiceTestSuite) TestCreateEntry_UnknownAccount() {
	ctx := context.Background()
	req := s.balancedRequest()

	s.expectOpenPeriod()
	s.mockAccountRepo.On("FindAccountsByCodes", ctx, []string{"1000", "4000"}).
		Return(map[string]domain.Account{"1000": s.cashAccount}, nil).Once()

	entry, err := s.service.CreateEntry(ctx, req, s.userID)

	s.Require().Error(err)
	s.Nil(entry)
	s.ErrorIs(err, services.ErrAccountNotFound)
	s.mockJournalRepo.AssertNotCalled(s.T(), "SaveEntry", mock.Anything, mock.Anything, mock.Anything)
}

func (s *JournalServiceTestSuite) TestCreateEntry_InactiveAccount() {
	ctx := context.Background()
	req := s.balancedRequest()

	inactive := s.cashAccount
	inactive.IsActive = false

	s.expectOpenPeriod()
	s.mockAccountRepo.On("FindAccountsByCodes", ctx, []string{"1000", "4000"}).
		Return(map[string]domain.Account{"1000": inactive, "4000": s.revenueAccount}, nil).Once()

	entry, err := s.service.CreateEntry(ctx, req, s.userID)

	s.Require().Error(err)
	s.Nil(entry)
	s.ErrorIs(err, services.ErrInactiveAccount)
}

func (s *JournalServiceTestSuite) TestCreateEntry_ClosedFiscalYear() {
	ctx := context.Background()
	req := s.balancedRequest()

	closedAt := time.Now().UTC()
	s.mockFiscalYearRepo.On("FindFiscalYearForDate", mock.Anything, s.entryDate).
		Return(&domain.FiscalYear{
			FiscalYearID: uuid.NewString(),
			Year:         2025,
			IsClosed:     true,
			ClosedAt:     &closedAt,
		}, nil).Once()

	entry, err := s.service.CreateEntry(ctx, req, s.userID)

	s.Require().Error(err)
	s.Nil(entry)
	s.ErrorIs(err, services.ErrFiscalYearClosed)
	s.mockJournalRepo.AssertNotCalled(s.T(), "SaveEntry", mock.Anything, mock.Anything, mock.Anything)
}

func (s *JournalServiceTestSuite) TestPostEntry_Success() {
	ctx := context.Background()
	entryID := uuid.NewString()
	approver := uuid.NewString()

	s.mockJournalRepo.On("FindEntryByID", ctx, entryID).
		Return(&domain.JournalEntry{EntryID: entryID, EntryDate: s.entryDate, IsPosted: false}, nil).Once()
	s.expectOpenPeriod()
	s.mockJournalRepo.On("MarkEntryPosted", ctx, entryID, approver, mock.AnythingOfType("time.Time")).
		Return(nil).Once()
	s.mockJournalRepo.On("FindLinesByEntryID", ctx, entryID).
		Return([]domain.JournalLine{{LineID: uuid.NewString(), EntryID: entryID}}, nil).Once()

	entry, err := s.service.PostEntry(ctx, entryID, approver)

	s.Require().NoError(err)
	s.True(entry.IsPosted)
	s.Equal(approver, entry.ApprovedBy)
	s.NotNil(entry.PostedAt)
	s.mockJournalRepo.AssertExpectations(s.T())
}

func (s *JournalServiceTestSuite) TestPostEntry_AlreadyPosted() {
	ctx := context.Background()
	entryID := uuid.NewString()

	s.mockJournalRepo.On("FindEntryByID", ctx, entryID).
		Return(&domain.JournalEntry{EntryID: entryID, EntryDate: s.entryDate, IsPosted: true}, nil).Once()

	entry, err := s.service.PostEntry(ctx, entryID, s.userID)

	s.Require().Error(err)
	s.Nil(entry)
	s.ErrorIs(err, services.ErrAlreadyPosted)
	s.ErrorIs(err, apperrors.ErrConflict)
	s.mockJournalRepo.AssertNotCalled(s.T(), "MarkEntryPosted", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *JournalServiceTestSuite) TestPostEntry_ConcurrentPostLosesRace() {
	ctx := context.Background()
	entryID := uuid.NewString()

	s.mockJournalRepo.On("FindEntryByID", ctx, entryID).
		Return(&domain.JournalEntry{EntryID: entryID, EntryDate: s.entryDate, IsPosted: false}, nil).Once()
	s.expectOpenPeriod()
	s.mockJournalRepo.On("MarkEntryPosted", ctx, entryID, s.userID, mock.AnythingOfType("time.Time")).
		Return(apperrors.ErrConflict).Once()

	entry, err := s.service.PostEntry(ctx, entryID, s.userID)

	s.Require().Error(err)
	s.Nil(entry)
	s.ErrorIs(err, services.ErrAlreadyPosted)
}

func (s *JournalServiceTestSuite) TestGetEntryByID_NotFound() {
	ctx := context.Background()
	entryID := uuid.NewString()

	s.mockJournalRepo.On("FindEntryByID", ctx, entryID).Return(nil, apperrors.ErrNotFound).Once()

	entry, err := s.service.GetEntryByID(ctx, entryID)

	s.Require().Error(err)
	s.Nil(entry)
	assert.ErrorIs(s.T(), err, apperrors.ErrNotFound)
}

func TestJournalService(t *testing.T) {
	suite.Run(t, new(JournalServiceTestSuite))
}
