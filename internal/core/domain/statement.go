package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// StatementType tags a persisted financial statement snapshot.
type StatementType string

const (
	BalanceSheet    StatementType = "balance_sheet"
	IncomeStatement StatementType = "income_statement"
)

// FinancialStatement is a derived, persisted snapshot of aggregated ledger
// data for a fiscal year. Never mutated after creation.
type FinancialStatement struct {
	StatementID   string        `json:"statementID"` // Primary key (UUID)
	FiscalYearID  string        `json:"fiscalYearID"`
	StatementType StatementType `json:"statementType"`
	PeriodEnd     time.Time     `json:"periodEnd"`
	Data          []byte        `json:"data"` // Serialized bucket data (JSON)
	CreatedAt     time.Time     `json:"createdAt"`
}

// AccountBalance is one aggregated row of a statement: total posted debits
// and credits for an account plus its type-dependent signed balance.
type AccountBalance struct {
	AccountCode string          `json:"accountCode"`
	Name        string          `json:"name"`
	AccountType AccountType     `json:"accountType"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Balance     decimal.Decimal `json:"balance"`
}

// BalanceSheetData groups balances into the three balance sheet buckets.
type BalanceSheetData struct {
	Assets      []AccountBalance `json:"assets"`
	Liabilities []AccountBalance `json:"liabilities"`
	Equity      []AccountBalance `json:"equity"`
}

// IncomeStatementData groups balances into the income statement buckets.
type IncomeStatementData struct {
	Revenue []AccountBalance `json:"revenue"`
	Expense []AccountBalance `json:"expense"`
}

// StatementSet is the in-memory result of statement generation, returned to
// the caller alongside the persisted snapshots.
type StatementSet struct {
	FiscalYearID    string              `json:"fiscalYearID"`
	PeriodEnd       time.Time           `json:"periodEnd"`
	BalanceSheet    BalanceSheetData    `json:"balanceSheet"`
	IncomeStatement IncomeStatementData `json:"incomeStatement"`
}

// AccountTrend tags the direction of an account balance between two points.
type AccountTrend string

const (
	TrendIncreasing AccountTrend = "INCREASING"
	TrendDecreasing AccountTrend = "DECREASING"
	TrendStable     AccountTrend = "STABLE"
)

// AccountAnalysis is a persisted point-in-time balance analysis for one
// account: balance as of the analysis date compared with the balance at the
// start of that month.
type AccountAnalysis struct {
	AnalysisID         string          `json:"analysisID"` // Primary key (UUID)
	AccountID          string          `json:"accountID"`
	AnalysisDate       time.Time       `json:"analysisDate"`
	Balance            decimal.Decimal `json:"balance"`
	Trend              AccountTrend    `json:"trend"`
	VariancePercentage decimal.Decimal `json:"variancePercentage"`
	CreatedAt          time.Time       `json:"createdAt"`
}
