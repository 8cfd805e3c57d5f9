package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// JournalEntry represents a single balanced financial event composed of
// journal lines. Entries are created unposted and become final through an
// explicit posting step; only posted entries feed statements and close
// calculations.
type JournalEntry struct {
	EntryID     string     `json:"entryID"` // Primary key (UUID)
	EntryDate   time.Time  `json:"entryDate"`
	Description string     `json:"description"`
	IsPosted    bool       `json:"isPosted"`
	ApprovedBy  string     `json:"approvedBy"` // Set when the entry is posted
	PostedAt    *time.Time `json:"postedAt"`
	AuditFields

	// Lines are owned exclusively by the entry and loaded on demand.
	Lines []JournalLine `json:"lines,omitempty"`
}

// JournalLine is a debit/credit movement against one account. Both columns
// exist in the data model; by convention a line carries a nonzero value in
// exactly one of the two.
type JournalLine struct {
	LineID       string          `json:"lineID"`  // Primary key (UUID)
	EntryID      string          `json:"entryID"` // FK -> journal_entries
	AccountID    string          `json:"accountID"`
	AccountCode  string          `json:"accountCode"` // Denormalized for aggregation output
	Debit        decimal.Decimal `json:"debit"`
	Credit       decimal.Decimal `json:"credit"`
	Description  string          `json:"description"`
	CostCenterID string          `json:"costCenterID"` // Nullable FK -> cost_centers
}
