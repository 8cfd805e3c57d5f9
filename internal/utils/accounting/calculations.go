// Package accounting holds the shared double-entry arithmetic helpers:
// rounding tolerance and the account-type sign conventions.
package accounting

import (
	"fmt"

	"github.com/corebooks/ledger_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// Tolerance is the rounding slack applied when comparing monetary sums
// (one cent of the base currency unit).
var Tolerance = decimal.New(1, -2) // 0.01

// WithinTolerance reports whether a and b differ by no more than Tolerance.
func WithinTolerance(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThanOrEqual(Tolerance)
}

// IsZeroWithinTolerance reports whether v is zero up to Tolerance.
func IsZeroWithinTolerance(v decimal.Decimal) bool {
	return v.Abs().LessThanOrEqual(Tolerance)
}

// BalanceFor computes the signed balance for an account given accumulated
// debit and credit totals.
//
// ASSET and EXPENSE accounts carry a debit-normal balance (debit - credit);
// LIABILITY, EQUITY and REVENUE carry a credit-normal balance (credit - debit).
func BalanceFor(accountType domain.AccountType, debit, credit decimal.Decimal) (decimal.Decimal, error) {
	switch accountType {
	case domain.Asset, domain.Expense:
		return debit.Sub(credit), nil
	case domain.Liability, domain.Equity, domain.Revenue:
		return credit.Sub(debit), nil
	default:
		return decimal.Zero, fmt.Errorf("unknown account type %q", accountType)
	}
}
