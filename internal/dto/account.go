package dto

import (
	"time"

	"github.com/corebooks/ledger_backend/internal/core/domain"
)

// CreateAccountRequest defines the expected JSON body for creating an account.
type CreateAccountRequest struct {
	Code        string             `json:"code" binding:"required,alphanum,max=10"`
	Name        string             `json:"name" binding:"required,max=100"`
	AccountType domain.AccountType `json:"accountType" binding:"required,accounttype"`
	Description string             `json:"description" binding:"max=500"`
	ParentCode  string             `json:"parentCode"` // Optional; must resolve when set
}

// AnalyzeAccountRequest defines the expected JSON body for snapshotting an
// account balance analysis.
type AnalyzeAccountRequest struct {
	AnalysisDate time.Time `json:"analysisDate" binding:"required"`
}

// AccountResponse defines the data returned for an account.
type AccountResponse struct {
	AccountID   string             `json:"accountID"`
	Code        string             `json:"code"`
	Name        string             `json:"name"`
	AccountType domain.AccountType `json:"accountType"`
	Description string             `json:"description"`
	ParentCode  string             `json:"parentCode,omitempty"`
	IsActive    bool               `json:"isActive"`
	CreatedAt   time.Time          `json:"createdAt"`
	CreatedBy   string             `json:"createdBy"`
}

// ToAccountResponse converts a domain.Account to its response DTO.
// parentCode is passed separately because the domain type carries only the
// parent's surrogate ID.
func ToAccountResponse(a *domain.Account, parentCode string) AccountResponse {
	return AccountResponse{
		AccountID:   a.AccountID,
		Code:        a.Code,
		Name:        a.Name,
		AccountType: a.AccountType,
		Description: a.Description,
		ParentCode:  parentCode,
		IsActive:    a.IsActive,
		CreatedAt:   a.CreatedAt,
		CreatedBy:   a.CreatedBy,
	}
}
