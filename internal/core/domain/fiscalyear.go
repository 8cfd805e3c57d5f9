package domain

import "time"

// FiscalYear represents a calendar-year accounting period.
// Transitions once from open to closed; once closed it is immutable and no
// entries may be dated inside its range.
type FiscalYear struct {
	FiscalYearID string     `json:"fiscalYearID"` // Primary key (UUID)
	Year         int        `json:"year"`
	StartDate    time.Time  `json:"startDate"` // Jan 1 00:00:00 UTC
	EndDate      time.Time  `json:"endDate"`   // Dec 31 23:59:59 UTC
	IsClosed     bool       `json:"isClosed"`
	ClosedAt     *time.Time `json:"closedAt"`
	ClosedBy     string     `json:"closedBy"`
	AuditFields
}

// Contains reports whether t falls within the fiscal year window (inclusive).
func (fy FiscalYear) Contains(t time.Time) bool {
	return !t.Before(fy.StartDate) && !t.After(fy.EndDate)
}
