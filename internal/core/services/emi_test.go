package services

import (
	"errors"
	"testing"

	"creditline/internal/core/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateInstallment_CompoundInterest(t *testing.T) {
	emi, err := CalculateInstallment(decimal.NewFromInt(100000), decimal.NewFromInt(12), 12)

	require.NoError(t, err)
	assert.Equal(t, "8884.88", emi.StringFixed(2))
}

func TestCalculateInstallment_ZeroRate(t *testing.T) {
	emi, err := CalculateInstallment(decimal.NewFromInt(120000), decimal.Zero, 12)

	require.NoError(t, err)
	assert.Equal(t, "10000.00", emi.StringFixed(2))
}

func TestCalculateInstallment_InvalidPrincipal(t *testing.T) {
	_, err := CalculateInstallment(decimal.Zero, decimal.NewFromInt(10), 12)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidArgument))

	_, err = CalculateInstallment(decimal.NewFromInt(-500), decimal.NewFromInt(10), 12)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidArgument))
}

func TestCalculateInstallment_InvalidTenure(t *testing.T) {
	_, err := CalculateInstallment(decimal.NewFromInt(1000), decimal.NewFromInt(10), 0)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidArgument))
}

func TestCalculateInstallment_NegativeRate(t *testing.T) {
	_, err := CalculateInstallment(decimal.NewFromInt(1000), decimal.NewFromInt(-1), 12)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidArgument))
}

// With a positive rate, compounding can never bring total repayment below
// the principal.
func TestCalculateInstallment_TotalRepaymentCoversPrincipal(t *testing.T) {
	cases := []struct {
		principal int64
		rate      float64
		tenure    int
	}{
		{100000, 12, 12},
		{50000, 8.5, 24},
		{2500000, 16, 60},
		{1000, 0.1, 6},
		{750000, 22, 36},
	}

	for _, tc := range cases {
		emi, err := CalculateInstallment(decimal.NewFromInt(tc.principal), decimal.NewFromFloat(tc.rate), tc.tenure)
		require.NoError(t, err)

		total := emi.Mul(decimal.NewFromInt(int64(tc.tenure)))
		assert.True(t, total.GreaterThanOrEqual(decimal.NewFromInt(tc.principal)),
			"principal=%d rate=%v tenure=%d: total %s < principal", tc.principal, tc.rate, tc.tenure, total)
	}
}

func TestCalculateInstallment_ZeroRateDividesExactly(t *testing.T) {
	emi, err := CalculateInstallment(decimal.NewFromInt(90000), decimal.Zero, 36)

	require.NoError(t, err)
	assert.Equal(t, "2500.00", emi.StringFixed(2))
}
