package dto

import (
	"time"

	"github.com/corebooks/ledger_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateJournalLineRequest is one debit/credit movement inside an entry
// creation request. Amounts are non-negative; by convention exactly one of
// the two columns is nonzero.
type CreateJournalLineRequest struct {
	AccountCode  string          `json:"accountCode" binding:"required"`
	Debit        decimal.Decimal `json:"debit"`
	Credit       decimal.Decimal `json:"credit"`
	Description  string          `json:"description" binding:"max=500"`
	CostCenterID string          `json:"costCenterID"`
}

// CreateJournalEntryRequest defines the expected JSON body for creating a
// journal entry with its lines.
type CreateJournalEntryRequest struct {
	Date        time.Time                  `json:"date" binding:"required"`
	Description string                     `json:"description" binding:"max=500"`
	Lines       []CreateJournalLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// JournalLineResponse defines the data returned for a journal line.
type JournalLineResponse struct {
	LineID       string          `json:"lineID"`
	AccountCode  string          `json:"accountCode"`
	Debit        decimal.Decimal `json:"debit"`
	Credit       decimal.Decimal `json:"credit"`
	Description  string          `json:"description,omitempty"`
	CostCenterID string          `json:"costCenterID,omitempty"`
}

// JournalEntryResponse defines the data returned for a journal entry.
type JournalEntryResponse struct {
	EntryID     string                `json:"entryID"`
	EntryDate   time.Time             `json:"entryDate"`
	Description string                `json:"description"`
	IsPosted    bool                  `json:"isPosted"`
	ApprovedBy  string                `json:"approvedBy,omitempty"`
	CreatedAt   time.Time             `json:"createdAt"`
	CreatedBy   string                `json:"createdBy"`
	Lines       []JournalLineResponse `json:"lines,omitempty"`
}

// ToJournalLineResponse converts a domain.JournalLine to its response DTO.
func ToJournalLineResponse(l *domain.JournalLine) JournalLineResponse {
	return JournalLineResponse{
		LineID:       l.LineID,
		AccountCode:  l.AccountCode,
		Debit:        l.Debit,
		Credit:       l.Credit,
		Description:  l.Description,
		CostCenterID: l.CostCenterID,
	}
}

// ToJournalEntryResponse converts a domain.JournalEntry (with any loaded
// lines) to its response DTO.
func ToJournalEntryResponse(e *domain.JournalEntry) JournalEntryResponse {
	resp := JournalEntryResponse{
		EntryID:     e.EntryID,
		EntryDate:   e.EntryDate,
		Description: e.Description,
		IsPosted:    e.IsPosted,
		ApprovedBy:  e.ApprovedBy,
		CreatedAt:   e.CreatedAt,
		CreatedBy:   e.CreatedBy,
	}
	if len(e.Lines) > 0 {
		resp.Lines = make([]JournalLineResponse, len(e.Lines))
		for i := range e.Lines {
			resp.Lines[i] = ToJournalLineResponse(&e.Lines[i])
		}
	}
	return resp
}
