package services

import (
	"time"

	"creditline/internal/adapters/persistence/models"

	"github.com/shopspring/decimal"
)

// Scoring constants. The four component caps sum to 100.
const (
	scoreNoHistory = 50

	onTimeCap        = 35
	onTimeNoEMIsFlat = 25

	loanCountCap = 20

	currentYearCap = 20

	volumeCap         = 25
	volumeNoLimitFlat = 15
)

var (
	utilizationLow      = decimal.NewFromFloat(0.3)
	utilizationModerate = decimal.NewFromFloat(0.5)
	utilizationHigh     = decimal.NewFromFloat(0.7)
	utilizationFull     = decimal.NewFromInt(1)
)

// CreditScore computes a customer's credit score out of 100 from their full
// loan history. today is the reference date for activity checks; callers
// must pass the same date they use elsewhere in the decision.
//
// Components:
//  1. EMIs paid on time vs total expected (max 35)
//  2. Number of loans taken (max 20)
//  3. Loan activity in the current calendar year (max 20, inverse)
//  4. Approved volume utilization (max 25)
//
// Overexposure veto: when the principals of still-active loans exceed the
// approved limit the score is 0 regardless of anything else.
func CreditScore(customer *models.Customer, loans []*models.Loan, today time.Time) int {
	if len(loans) == 0 {
		// No track record, neutral default
		return scoreNoHistory
	}

	activeSum := decimal.Zero
	for _, loan := range loans {
		if loan.IsActive(today) {
			activeSum = activeSum.Add(loan.LoanAmount)
		}
	}
	if activeSum.GreaterThan(customer.ApprovedLimit) {
		return 0
	}

	score := 0

	// Component 1: past EMIs paid on time
	totalPaidOnTime := 0
	totalExpectedEMIs := 0
	for _, loan := range loans {
		totalPaidOnTime += loan.EMIsPaidOnTime
		totalExpectedEMIs += loan.Tenure
	}
	if totalExpectedEMIs > 0 {
		onTimeRatio := float64(totalPaidOnTime) / float64(totalExpectedEMIs)
		score += int(onTimeRatio * onTimeCap)
	} else {
		score += onTimeNoEMIsFlat
	}

	// Component 2: number of loans taken
	switch numLoans := len(loans); {
	case numLoans >= 5:
		score += loanCountCap
	case numLoans >= 3:
		score += 15
	case numLoans >= 1:
		score += 10
	}

	// Component 3: loan activity in the current year. Recent originations
	// read as risk, so fewer is better.
	currentYearLoans := 0
	for _, loan := range loans {
		if loan.StartDate.Year() == today.Year() {
			currentYearLoans++
		}
	}
	switch {
	case currentYearLoans == 0:
		score += currentYearCap
	case currentYearLoans <= 2:
		score += 15
	case currentYearLoans <= 4:
		score += 10
	default:
		score += 5
	}

	// Component 4: lifetime approved volume vs limit, closed loans included
	totalVolume := decimal.Zero
	for _, loan := range loans {
		totalVolume = totalVolume.Add(loan.LoanAmount)
	}
	if customer.ApprovedLimit.Sign() > 0 {
		volumeRatio := totalVolume.Div(customer.ApprovedLimit)
		switch {
		case volumeRatio.LessThanOrEqual(utilizationLow):
			score += volumeCap
		case volumeRatio.LessThanOrEqual(utilizationModerate):
			score += 20
		case volumeRatio.LessThanOrEqual(utilizationHigh):
			score += 15
		case volumeRatio.LessThanOrEqual(utilizationFull):
			score += 10
		default:
			score += 5
		}
	} else {
		score += volumeNoLimitFlat
	}

	// Defensive clamp; the component caps already bound the sum to 100
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
