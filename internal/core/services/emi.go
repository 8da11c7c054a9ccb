package services

import (
	"fmt"

	"creditline/internal/core/domain"

	"github.com/shopspring/decimal"
)

var (
	one     = decimal.NewFromInt(1)
	twelve  = decimal.NewFromInt(12)
	hundred = decimal.NewFromInt(100)
)

// CalculateInstallment computes the equated monthly installment for a loan
// using the compound interest formula
//
//	EMI = P x R x (1+R)^N / ((1+R)^N - 1)
//
// where R is the monthly rate (annual rate / 12 / 100) and N the tenure in
// months. A zero interest rate degenerates to simple division. The result
// is rounded to 2 decimal places, half up.
func CalculateInstallment(principal, annualRatePct decimal.Decimal, tenureMonths int) (decimal.Decimal, error) {
	if principal.Sign() <= 0 {
		return decimal.Zero, fmt.Errorf("%w: principal must be greater than 0", domain.ErrInvalidArgument)
	}
	if tenureMonths <= 0 {
		return decimal.Zero, fmt.Errorf("%w: tenure must be greater than 0", domain.ErrInvalidArgument)
	}
	if annualRatePct.Sign() < 0 {
		return decimal.Zero, fmt.Errorf("%w: interest rate must not be negative", domain.ErrInvalidArgument)
	}

	n := decimal.NewFromInt(int64(tenureMonths))
	if annualRatePct.IsZero() {
		return principal.Div(n).Round(2), nil
	}

	monthlyRate := annualRatePct.Div(twelve).Div(hundred)
	growth := one.Add(monthlyRate).Pow(n)
	emi := principal.Mul(monthlyRate).Mul(growth).Div(growth.Sub(one))
	return emi.Round(2), nil
}
