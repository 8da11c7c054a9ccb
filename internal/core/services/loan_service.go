package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"creditline/internal/adapters/persistence/models"
	"creditline/internal/adapters/persistence/repositories"
	"creditline/internal/core/domain"
	"creditline/internal/pkg/logger"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const viewCacheTTL = 5 * time.Minute

// LoanService orchestrates eligibility decisions, loan origination and
// loan views over persistence.
type LoanService struct {
	customerRepo repositories.CustomerRepository
	loanRepo     repositories.LoanRepository
	tx           repositories.TxRunner
	cache        repositories.CacheRepository
	log          *logger.Logger
	now          func() time.Time
}

// NewLoanService creates a new loan service
func NewLoanService(
	customerRepo repositories.CustomerRepository,
	loanRepo repositories.LoanRepository,
	tx repositories.TxRunner,
	cache repositories.CacheRepository,
	log *logger.Logger,
) *LoanService {
	return &LoanService{
		customerRepo: customerRepo,
		loanRepo:     loanRepo,
		tx:           tx,
		cache:        cache,
		log:          log,
		now:          time.Now,
	}
}

// WithClock overrides the reference clock, used by tests to pin "today"
func (s *LoanService) WithClock(now func() time.Time) *LoanService {
	s.now = now
	return s
}

// today returns the reference date at midnight UTC
func (s *LoanService) today() time.Time {
	y, m, d := s.now().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// CheckEligibility evaluates a loan request against the customer's history
// without writing anything.
func (s *LoanService) CheckEligibility(ctx context.Context, customerID uint, loanAmount, interestRate decimal.Decimal, tenure int) (*EligibilityResult, error) {
	customer, err := s.customerRepo.GetByID(ctx, customerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrCustomerNotFound
		}
		return nil, err
	}

	history, err := s.loanRepo.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}

	return CheckEligibility(customer, history, loanAmount, interestRate, tenure, s.today())
}

// CreateLoanResult represents the outcome of a loan origination attempt
type CreateLoanResult struct {
	LoanID             *uint
	CustomerID         uint
	Approved           bool
	Message            string
	MonthlyInstallment decimal.Decimal
}

// CreateLoan runs the eligibility decision and, on approval, persists the
// loan and increments the customer's debt inside one transaction. The
// customer row is locked for the duration, so concurrent originations for
// the same customer serialize and each sees a consistent active-loan set.
func (s *LoanService) CreateLoan(ctx context.Context, customerID uint, loanAmount, interestRate decimal.Decimal, tenure int) (*CreateLoanResult, error) {
	today := s.today()

	var result *CreateLoanResult
	err := s.tx.Run(ctx, func(customers repositories.CustomerRepository, loans repositories.LoanRepository) error {
		customer, err := customers.GetByIDForUpdate(ctx, customerID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrCustomerNotFound
			}
			return err
		}

		history, err := loans.ListByCustomer(ctx, customerID)
		if err != nil {
			return err
		}

		decision, err := CheckEligibility(customer, history, loanAmount, interestRate, tenure, today)
		if err != nil {
			return err
		}

		result = &CreateLoanResult{
			CustomerID:         customerID,
			Approved:           decision.Approved,
			Message:            decision.Message,
			MonthlyInstallment: decision.MonthlyInstallment,
		}

		if !decision.Approved {
			return nil
		}

		loan := &models.Loan{
			CustomerID:       customerID,
			LoanAmount:       loanAmount,
			Tenure:           tenure,
			InterestRate:     decision.CorrectedInterestRate,
			MonthlyRepayment: decision.MonthlyInstallment,
			EMIsPaidOnTime:   0,
			StartDate:        today,
			EndDate:          addMonths(today, tenure),
		}
		if err := loans.Create(ctx, loan); err != nil {
			return fmt.Errorf("%w: create loan: %v", domain.ErrPersistenceFailure, err)
		}
		if err := customers.IncrementDebt(ctx, customerID, loanAmount); err != nil {
			return fmt.Errorf("%w: update customer debt: %v", domain.ErrPersistenceFailure, err)
		}

		result.LoanID = &loan.ID
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.LoanID != nil {
		s.cache.Delete(ctx, customerLoansKey(customerID))
		s.log.Info().
			Uint("customer_id", customerID).
			Uint("loan_id", *result.LoanID).
			Str("installment", result.MonthlyInstallment.String()).
			Msg("loan originated")
	} else {
		s.log.Info().
			Uint("customer_id", customerID).
			Str("reason", result.Message).
			Msg("loan rejected")
	}

	return result, nil
}

// GetLoan returns loan details for GET /view-loan
func (s *LoanService) GetLoan(ctx context.Context, loanID uint) (*models.LoanDetailResponse, error) {
	key := loanViewKey(loanID)
	if raw, ok := s.cache.Get(ctx, key); ok {
		var resp models.LoanDetailResponse
		if err := json.Unmarshal([]byte(raw), &resp); err == nil {
			return &resp, nil
		}
	}

	loan, err := s.loanRepo.GetByID(ctx, loanID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrLoanNotFound
		}
		return nil, err
	}

	resp := loan.ToDetailResponse()
	if raw, err := json.Marshal(resp); err == nil {
		s.cache.Set(ctx, key, string(raw), viewCacheTTL)
	}
	return resp, nil
}

// ListCustomerLoans returns all loans of a customer for GET /view-loans
func (s *LoanService) ListCustomerLoans(ctx context.Context, customerID uint) ([]*models.LoanListItemResponse, error) {
	exists, err := s.customerRepo.Exists(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, domain.ErrCustomerNotFound
	}

	key := customerLoansKey(customerID)
	if raw, ok := s.cache.Get(ctx, key); ok {
		var items []*models.LoanListItemResponse
		if err := json.Unmarshal([]byte(raw), &items); err == nil {
			return items, nil
		}
	}

	loans, err := s.loanRepo.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}

	today := s.today()
	items := make([]*models.LoanListItemResponse, 0, len(loans))
	for _, loan := range loans {
		items = append(items, loan.ToListItemResponse(today))
	}

	if raw, err := json.Marshal(items); err == nil {
		s.cache.Set(ctx, key, string(raw), viewCacheTTL)
	}
	return items, nil
}

// List lists loans with pagination (admin/reporting)
func (s *LoanService) List(ctx context.Context, page, limit int) ([]*models.Loan, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}
	offset := (page - 1) * limit
	return s.loanRepo.List(ctx, offset, limit)
}

func loanViewKey(loanID uint) string {
	return fmt.Sprintf("loan:view:%d", loanID)
}

func customerLoansKey(customerID uint) string {
	return fmt.Sprintf("customer:loans:%d", customerID)
}

// addMonths advances t by the given number of months, clamping the day to
// the last day of the target month (Jan 31 + 1 month = Feb 28/29).
func addMonths(t time.Time, months int) time.Time {
	y, m, d := t.Date()
	firstOfTarget := time.Date(y, m+time.Month(months), 1, 0, 0, 0, 0, t.Location())
	lastDay := firstOfTarget.AddDate(0, 1, -1).Day()
	if d > lastDay {
		d = lastDay
	}
	return time.Date(firstOfTarget.Year(), firstOfTarget.Month(), d, 0, 0, 0, 0, t.Location())
}
