package services

import (
	"context"
	"testing"

	"creditline/internal/core/domain"
	"creditline/internal/pkg/logger"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCustomerService(repo *mockCustomerRepository) *CustomerService {
	return NewCustomerService(repo, logger.New(logger.Config{Level: "error"}))
}

func TestApprovedLimitFor(t *testing.T) {
	cases := []struct {
		salary int64
		limit  string
	}{
		{50000, "1800000"},  // 36x lands exactly on a lakh
		{12500, "400000"},   // 450000 = 4.5 lakh, half-even rounds down
		{37500, "1400000"},  // 1350000 = 13.5 lakh, half-even rounds up
		{100000, "3600000"},
		{0, "0"},
	}

	for _, tc := range cases {
		limit := ApprovedLimitFor(decimal.NewFromInt(tc.salary))
		assert.Equal(t, tc.limit, limit.String(), "salary=%d", tc.salary)
	}
}

func TestRegister_DerivesLimitAndZeroDebt(t *testing.T) {
	repo := newMockCustomerRepository()
	svc := newTestCustomerService(repo)

	customer, err := svc.Register(context.Background(), RegisterCustomerInput{
		FirstName:     "Asha",
		LastName:      "Rao",
		Age:           30,
		MonthlyIncome: decimal.NewFromInt(50000),
		PhoneNumber:   9876543210,
	})
	require.NoError(t, err)

	assert.NotZero(t, customer.ID)
	assert.Equal(t, "1800000", customer.ApprovedLimit.String())
	assert.True(t, customer.CurrentDebt.IsZero())
	require.NotNil(t, customer.Age)
	assert.Equal(t, 30, *customer.Age)
	assert.Equal(t, "Asha Rao", customer.FullName())
}

func TestRegister_NegativeIncomeRejected(t *testing.T) {
	svc := newTestCustomerService(newMockCustomerRepository())

	_, err := svc.Register(context.Background(), RegisterCustomerInput{
		FirstName:     "Asha",
		LastName:      "Rao",
		Age:           30,
		MonthlyIncome: decimal.NewFromInt(-1),
		PhoneNumber:   9876543210,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestCustomerGetByID_NotFound(t *testing.T) {
	svc := newTestCustomerService(newMockCustomerRepository())

	_, err := svc.GetByID(context.Background(), 404)
	assert.ErrorIs(t, err, domain.ErrCustomerNotFound)
}
