package dto

import (
	"time"

	"github.com/corebooks/ledger_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateBudgetRequest defines the expected JSON body for creating a budget.
type CreateBudgetRequest struct {
	FiscalYearID string            `json:"fiscalYearID" binding:"required"`
	AccountCode  string            `json:"accountCode" binding:"required"`
	BudgetType   domain.BudgetType `json:"budgetType" binding:"required,budgettype"`
	PeriodStart  time.Time         `json:"periodStart" binding:"required"`
	PeriodEnd    time.Time         `json:"periodEnd" binding:"required"`
	Amount       decimal.Decimal   `json:"amount" binding:"required"`
	Description  string            `json:"description" binding:"max=500"`
}

// CreateCostCenterRequest defines the expected JSON body for creating a cost
// center.
type CreateCostCenterRequest struct {
	Code        string `json:"code" binding:"required,alphanum,max=10"`
	Name        string `json:"name" binding:"required,max=100"`
	Description string `json:"description" binding:"max=500"`
}

// CostAllocationRequest is one target of a cost allocation batch.
type CostAllocationRequest struct {
	CostCenterID string          `json:"costCenterID" binding:"required"`
	Ratio        decimal.Decimal `json:"ratio" binding:"required"`
}

// AllocateCostsRequest defines the expected JSON body for allocating a
// journal line across cost centers.
type AllocateCostsRequest struct {
	Allocations []CostAllocationRequest `json:"allocations" binding:"required,min=1,dive"`
}

// CostAllocationResponse defines the data returned for one persisted
// allocation.
type CostAllocationResponse struct {
	AllocationID string          `json:"allocationID"`
	LineID       string          `json:"lineID"`
	CostCenterID string          `json:"costCenterID"`
	Ratio        decimal.Decimal `json:"ratio"`
	Amount       decimal.Decimal `json:"amount"`
}

// ToCostAllocationResponses converts persisted allocations to response DTOs.
func ToCostAllocationResponses(allocations []domain.CostAllocation) []CostAllocationResponse {
	responses := make([]CostAllocationResponse, len(allocations))
	for i, a := range allocations {
		responses[i] = CostAllocationResponse{
			AllocationID: a.AllocationID,
			LineID:       a.LineID,
			CostCenterID: a.CostCenterID,
			Ratio:        a.Ratio,
			Amount:       a.Amount,
		}
	}
	return responses
}
