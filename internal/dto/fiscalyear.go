package dto

import (
	"time"

	"github.com/corebooks/ledger_backend/internal/core/domain"
)

// CreateFiscalYearRequest defines the expected JSON body for creating a
// fiscal year.
type CreateFiscalYearRequest struct {
	Year int `json:"year" binding:"required,min=1900,max=9999"`
}

// FiscalYearResponse defines the data returned for a fiscal year.
type FiscalYearResponse struct {
	FiscalYearID string     `json:"fiscalYearID"`
	Year         int        `json:"year"`
	StartDate    time.Time  `json:"startDate"`
	EndDate      time.Time  `json:"endDate"`
	IsClosed     bool       `json:"isClosed"`
	ClosedAt     *time.Time `json:"closedAt,omitempty"`
	ClosedBy     string     `json:"closedBy,omitempty"`
}

// ToFiscalYearResponse converts a domain.FiscalYear to its response DTO.
func ToFiscalYearResponse(fy *domain.FiscalYear) FiscalYearResponse {
	return FiscalYearResponse{
		FiscalYearID: fy.FiscalYearID,
		Year:         fy.Year,
		StartDate:    fy.StartDate,
		EndDate:      fy.EndDate,
		IsClosed:     fy.IsClosed,
		ClosedAt:     fy.ClosedAt,
		ClosedBy:     fy.ClosedBy,
	}
}

// CloseFiscalYearResponse combines the closed year with the statements
// generated as part of the close.
type CloseFiscalYearResponse struct {
	FiscalYear FiscalYearResponse  `json:"fiscalYear"`
	Statements domain.StatementSet `json:"statements"`
}
