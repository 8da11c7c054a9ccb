package services

import (
	"time"

	"creditline/internal/adapters/persistence/models"

	"github.com/shopspring/decimal"
)

// Decision messages returned to the API layer
const (
	MsgApproved          = "Loan approved"
	MsgApprovedCorrected = "Loan approved with corrected interest rate"
	MsgRejectedEMIBurden = "Total EMIs would exceed 50% of monthly salary"
	MsgRejectedLowScore  = "Loan not approved due to low credit score"
)

// Score band rate floors
var (
	rateFloorMidBand = decimal.NewFromInt(12)
	rateFloorLowBand = decimal.NewFromInt(16)

	half = decimal.NewFromFloat(0.5)
)

// EligibilityResult is the outcome of a loan eligibility check
type EligibilityResult struct {
	CustomerID            uint
	Approved              bool
	InterestRate          decimal.Decimal
	CorrectedInterestRate decimal.Decimal
	Tenure                int
	MonthlyInstallment    decimal.Decimal
	CreditScore           int
	Message               string
}

// CheckEligibility decides whether a loan can be granted to the customer.
// loans must be the customer's full loan history; active loans are derived
// from it against today.
//
// The affordability gate runs before any rate-band correction: when current
// EMIs plus the new EMI would exceed half the monthly salary (strictly),
// the request is rejected with the uncorrected installment. Otherwise the
// credit score picks the band: above 50 the requested rate stands, 30-50
// enforces a 12% floor, 10-30 a 16% floor, and 10 or below is rejected.
func CheckEligibility(customer *models.Customer, loans []*models.Loan, loanAmount, interestRate decimal.Decimal, tenure int, today time.Time) (*EligibilityResult, error) {
	creditScore := CreditScore(customer, loans, today)

	currentTotalEMI := decimal.Zero
	for _, loan := range loans {
		if loan.IsActive(today) {
			currentTotalEMI = currentTotalEMI.Add(loan.MonthlyRepayment)
		}
	}

	newEMI, err := CalculateInstallment(loanAmount, interestRate, tenure)
	if err != nil {
		return nil, err
	}

	result := &EligibilityResult{
		CustomerID:            customer.ID,
		InterestRate:          interestRate,
		CorrectedInterestRate: interestRate,
		Tenure:                tenure,
		MonthlyInstallment:    newEMI,
		CreditScore:           creditScore,
	}

	// EMIs exactly at 50% of salary still pass, the comparison is strict
	if currentTotalEMI.Add(newEMI).GreaterThan(customer.MonthlySalary.Mul(half)) {
		result.Approved = false
		result.Message = MsgRejectedEMIBurden
		return result, nil
	}

	switch {
	case creditScore > 50:
		result.Approved = true
		result.Message = MsgApproved

	case creditScore > 30:
		result.Approved = true
		if interestRate.GreaterThan(rateFloorMidBand) {
			result.Message = MsgApproved
		} else {
			result.CorrectedInterestRate = rateFloorMidBand
			result.Message = MsgApprovedCorrected
			result.MonthlyInstallment, err = CalculateInstallment(loanAmount, rateFloorMidBand, tenure)
			if err != nil {
				return nil, err
			}
		}

	case creditScore > 10:
		result.Approved = true
		if interestRate.GreaterThan(rateFloorLowBand) {
			result.Message = MsgApproved
		} else {
			result.CorrectedInterestRate = rateFloorLowBand
			result.Message = MsgApprovedCorrected
			result.MonthlyInstallment, err = CalculateInstallment(loanAmount, rateFloorLowBand, tenure)
			if err != nil {
				return nil, err
			}
		}

	default:
		result.Approved = false
		result.Message = MsgRejectedLowScore
	}

	return result, nil
}
