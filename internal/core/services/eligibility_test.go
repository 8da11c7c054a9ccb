package services

import (
	"testing"
	"time"

	"creditline/internal/adapters/persistence/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var decisionToday = time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)

func decisionCustomer(salary, limit int64) *models.Customer {
	return &models.Customer{
		ID:            7,
		MonthlySalary: decimal.NewFromInt(salary),
		ApprovedLimit: decimal.NewFromInt(limit),
	}
}

// A customer with no history scores exactly 50, which is NOT above 50: the
// mid band applies and a requested rate at or below 12% gets corrected.
func TestCheckEligibility_NoHistoryFallsInMidBand(t *testing.T) {
	customer := decisionCustomer(100000, 3600000)

	result, err := CheckEligibility(customer, nil,
		decimal.NewFromInt(200000), decimal.NewFromInt(10), 12, decisionToday)
	require.NoError(t, err)

	assert.True(t, result.Approved)
	assert.Equal(t, 50, result.CreditScore)
	assert.Equal(t, "12", result.CorrectedInterestRate.String())
	assert.Equal(t, "10", result.InterestRate.String())
	assert.Equal(t, MsgApprovedCorrected, result.Message)

	corrected, err := CalculateInstallment(decimal.NewFromInt(200000), decimal.NewFromInt(12), 12)
	require.NoError(t, err)
	assert.True(t, result.MonthlyInstallment.Equal(corrected))
}

func TestCheckEligibility_MidBandKeepsRateAbove12(t *testing.T) {
	customer := decisionCustomer(100000, 3600000)

	result, err := CheckEligibility(customer, nil,
		decimal.NewFromInt(200000), decimal.NewFromFloat(14.5), 12, decisionToday)
	require.NoError(t, err)

	assert.True(t, result.Approved)
	assert.Equal(t, "14.5", result.CorrectedInterestRate.String())
	assert.Equal(t, MsgApproved, result.Message)
}

// Score 51 crosses into the top band: the requested rate stands even below 12%.
// One loan: on-time 3/5 -> 21, count -> 10, one origination this year -> 15,
// volume above the limit but fully repaid -> 5. Total 51.
func TestCheckEligibility_ScoreJustAbove50KeepsRequestedRate(t *testing.T) {
	customer := decisionCustomer(100000, 500000)
	history := []*models.Loan{
		historyLoan("2025-01-01", "2025-06-01", 600000, 5, 3),
	}

	result, err := CheckEligibility(customer, history,
		decimal.NewFromInt(100000), decimal.NewFromInt(8), 12, decisionToday)
	require.NoError(t, err)

	assert.Equal(t, 51, result.CreditScore)
	assert.True(t, result.Approved)
	assert.Equal(t, "8", result.CorrectedInterestRate.String())
	assert.Equal(t, MsgApproved, result.Message)
}

func TestCheckEligibility_LowBandEnforcesSixteenPercentFloor(t *testing.T) {
	// One closed loan this year, nothing paid on time, volume above the
	// limit: 0 + 10 + 15 + 5 = 30, the top of the 16% band.
	customer := decisionCustomer(1000000, 500000)
	history := []*models.Loan{
		historyLoan("2025-01-01", "2025-03-01", 600000, 2, 0),
	}

	result, err := CheckEligibility(customer, history,
		decimal.NewFromInt(100000), decimal.NewFromInt(12), 12, decisionToday)
	require.NoError(t, err)

	assert.Equal(t, 30, result.CreditScore)
	assert.True(t, result.Approved)
	assert.Equal(t, "16", result.CorrectedInterestRate.String())
	assert.Equal(t, MsgApprovedCorrected, result.Message)

	corrected, err := CalculateInstallment(decimal.NewFromInt(100000), decimal.NewFromInt(16), 12)
	require.NoError(t, err)
	assert.True(t, result.MonthlyInstallment.Equal(corrected))
}

func TestCheckEligibility_LowBandKeepsRateAbove16(t *testing.T) {
	customer := decisionCustomer(1000000, 500000)
	history := []*models.Loan{
		historyLoan("2025-01-01", "2025-03-01", 600000, 2, 0),
	}

	result, err := CheckEligibility(customer, history,
		decimal.NewFromInt(100000), decimal.NewFromFloat(18), 12, decisionToday)
	require.NoError(t, err)

	assert.True(t, result.Approved)
	assert.Equal(t, "18", result.CorrectedInterestRate.String())
}

func TestCheckEligibility_VetoRejectsWithLowScoreMessage(t *testing.T) {
	customer := decisionCustomer(1000000, 500000)
	history := []*models.Loan{
		historyLoan("2025-01-01", "2026-01-01", 600000, 12, 0),
	}

	requested := decimal.NewFromInt(100000)
	result, err := CheckEligibility(customer, history,
		requested, decimal.NewFromInt(10), 12, decisionToday)
	require.NoError(t, err)

	assert.Equal(t, 0, result.CreditScore)
	assert.False(t, result.Approved)
	assert.Equal(t, MsgRejectedLowScore, result.Message)
	// Rate and installment are echoed uncorrected on rejection
	assert.Equal(t, "10", result.CorrectedInterestRate.String())

	original, err := CalculateInstallment(requested, decimal.NewFromInt(10), 12)
	require.NoError(t, err)
	assert.True(t, result.MonthlyInstallment.Equal(original))
}

// EMIs landing exactly on 50% of salary pass: the gate uses strict greater-than.
func TestCheckEligibility_AffordabilityGateIsStrict(t *testing.T) {
	// salary 20000 -> cap 10000. Active EMI 5000, zero-rate loan of
	// 60000 over 12 months -> new EMI exactly 5000.
	customer := decisionCustomer(20000, 10000000)
	active := historyLoan("2025-01-01", "2026-01-01", 10000, 12, 12)
	active.MonthlyRepayment = decimal.NewFromInt(5000)

	result, err := CheckEligibility(customer, []*models.Loan{active},
		decimal.NewFromInt(60000), decimal.Zero, 12, decisionToday)
	require.NoError(t, err)

	assert.True(t, result.Approved)
}

func TestCheckEligibility_AffordabilityGateRejectsAboveHalfSalary(t *testing.T) {
	customer := decisionCustomer(20000, 10000000)
	active := historyLoan("2025-01-01", "2026-01-01", 10000, 12, 12)
	active.MonthlyRepayment = decimal.NewFromInt(5000)

	// New EMI 5000.01 pushes the total just past the cap
	result, err := CheckEligibility(customer, []*models.Loan{active},
		decimal.NewFromFloat(60000.12), decimal.Zero, 12, decisionToday)
	require.NoError(t, err)

	assert.False(t, result.Approved)
	assert.Equal(t, MsgRejectedEMIBurden, result.Message)
	// The gate fires before any band logic: rate stays as requested
	assert.Equal(t, "0", result.CorrectedInterestRate.String())
	assert.Equal(t, "5000.01", result.MonthlyInstallment.StringFixed(2))
}

func TestCheckEligibility_ClosedLoanEMIsDoNotCountTowardGate(t *testing.T) {
	customer := decisionCustomer(20000, 10000000)
	closed := historyLoan("2020-01-01", "2021-01-01", 10000, 12, 12)
	closed.MonthlyRepayment = decimal.NewFromInt(9999)

	result, err := CheckEligibility(customer, []*models.Loan{closed},
		decimal.NewFromInt(60000), decimal.Zero, 12, decisionToday)
	require.NoError(t, err)

	assert.True(t, result.Approved)
}

func TestCheckEligibility_InvalidAmountPropagates(t *testing.T) {
	customer := decisionCustomer(50000, 1800000)

	_, err := CheckEligibility(customer, nil,
		decimal.Zero, decimal.NewFromInt(10), 12, decisionToday)
	assert.Error(t, err)
}

func TestCheckEligibility_Deterministic(t *testing.T) {
	customer := decisionCustomer(80000, 2900000)
	history := []*models.Loan{
		historyLoan("2024-02-01", "2026-02-01", 500000, 24, 10),
	}

	first, err := CheckEligibility(customer, history,
		decimal.NewFromInt(150000), decimal.NewFromFloat(11.5), 18, decisionToday)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		again, err := CheckEligibility(customer, history,
			decimal.NewFromInt(150000), decimal.NewFromFloat(11.5), 18, decisionToday)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}
