package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// BudgetType defines the period granularity of a budget.
type BudgetType string

const (
	BudgetAnnual    BudgetType = "ANNUAL"
	BudgetQuarterly BudgetType = "QUARTERLY"
	BudgetMonthly   BudgetType = "MONTHLY"
	BudgetProject   BudgetType = "PROJECT"
)

// Budget ties a budgeted amount to an account for a period within a fiscal year.
type Budget struct {
	BudgetID     string          `json:"budgetID"` // Primary key (UUID)
	FiscalYearID string          `json:"fiscalYearID"`
	AccountID    string          `json:"accountID"`
	BudgetType   BudgetType      `json:"budgetType"`
	PeriodStart  time.Time       `json:"periodStart"`
	PeriodEnd    time.Time       `json:"periodEnd"`
	Amount       decimal.Decimal `json:"amount"`
	Description  string          `json:"description"`
	AuditFields
}

// BudgetVariance is the result of comparing posted ledger activity against a budget.
type BudgetVariance struct {
	BudgetID           string          `json:"budgetID"`
	BudgetAmount       decimal.Decimal `json:"budgetAmount"`
	ActualAmount       decimal.Decimal `json:"actualAmount"`
	Variance           decimal.Decimal `json:"variance"`
	VariancePercentage decimal.Decimal `json:"variancePercentage"`
}

// CostCenter is a hierarchical allocation target, independent of the chart of
// accounts hierarchy.
type CostCenter struct {
	CostCenterID string `json:"costCenterID"` // Primary key (UUID)
	Code         string `json:"code"`         // Unique short code
	Name         string `json:"name"`
	Description  string `json:"description"`
	ParentID     string `json:"parentID"` // Nullable self-referencing FK
	IsActive     bool   `json:"isActive"`
	AuditFields
}

// CostAllocation apportions one journal line's net amount to a cost center by
// ratio. Within an allocation batch the ratios sum to 1.0.
type CostAllocation struct {
	AllocationID string          `json:"allocationID"` // Primary key (UUID)
	LineID       string          `json:"lineID"`       // FK -> journal_lines
	CostCenterID string          `json:"costCenterID"`
	Ratio        decimal.Decimal `json:"ratio"`  // In (0, 1]
	Amount       decimal.Decimal `json:"amount"` // (line.debit - line.credit) * ratio
	CreatedAt    time.Time       `json:"createdAt"`
	CreatedBy    string          `json:"createdBy"`
}
