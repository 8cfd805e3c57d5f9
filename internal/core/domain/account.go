package domain

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Revenue   AccountType = "REVENUE"
	Expense   AccountType = "EXPENSE"
)

// Account represents a node in the chart of accounts.
// The short alphanumeric Code is the user-facing identity; AccountID is the
// surrogate key used by journal lines. Accounts are never deleted, only
// deactivated.
type Account struct {
	AccountID       string      `json:"accountID"`       // Primary key (UUID)
	Code            string      `json:"code"`            // Unique short code, e.g. "3200"
	Name            string      `json:"name"`            // Display name
	AccountType     AccountType `json:"accountType"`     // ASSET, LIABILITY, EQUITY, REVENUE, EXPENSE
	Description     string      `json:"description"`     // Nullable user description
	ParentAccountID string      `json:"parentAccountID"` // Nullable self-referencing FK
	IsActive        bool        `json:"isActive"`
	AuditFields
}
