package accounting_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corebooks/ledger_backend/internal/core/domain"
	"github.com/corebooks/ledger_backend/internal/utils/accounting"
)

func TestWithinTolerance(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want bool
	}{
		{"equal", "100.00", "100.00", true},
		{"exactly at tolerance", "100.00", "100.01", true},
		{"just over tolerance", "100.00", "100.011", false},
		{"clearly unbalanced", "100", "99", false},
		{"negative difference within tolerance", "99.995", "100.00", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := decimal.RequireFromString(tt.a)
			b := decimal.RequireFromString(tt.b)
			assert.Equal(t, tt.want, accounting.WithinTolerance(a, b))
		})
	}
}

func TestIsZeroWithinTolerance(t *testing.T) {
	assert.True(t, accounting.IsZeroWithinTolerance(decimal.Zero))
	assert.True(t, accounting.IsZeroWithinTolerance(decimal.RequireFromString("0.01")))
	assert.True(t, accounting.IsZeroWithinTolerance(decimal.RequireFromString("-0.01")))
	assert.False(t, accounting.IsZeroWithinTolerance(decimal.RequireFromString("0.02")))
}

func TestBalanceFor(t *testing.T) {
	debit := decimal.NewFromInt(500)
	credit := decimal.NewFromInt(200)

	tests := []struct {
		accountType domain.AccountType
		want        int64
	}{
		{domain.Asset, 300},
		{domain.Expense, 300},
		{domain.Liability, -300},
		{domain.Equity, -300},
		{domain.Revenue, -300},
	}
	for _, tt := range tests {
		t.Run(string(tt.accountType), func(t *testing.T) {
			got, err := accounting.BalanceFor(tt.accountType, debit, credit)
			require.NoError(t, err)
			assert.True(t, got.Equal(decimal.NewFromInt(tt.want)))
		})
	}
}

func TestBalanceFor_CreditOnlyRevenue(t *testing.T) {
	got, err := accounting.BalanceFor(domain.Revenue, decimal.Zero, decimal.NewFromInt(1000))
	require.NoError(t, err)
	assert.True(t, got.Equal(decimal.NewFromInt(1000)))
}

func TestBalanceFor_UnknownType(t *testing.T) {
	_, err := accounting.BalanceFor(domain.AccountType("CONTRA"), decimal.Zero, decimal.Zero)
	require.Error(t, err)
}
