package services

import (
	"context"
	"errors"
	"fmt"

	"creditline/internal/adapters/persistence/models"
	"creditline/internal/adapters/persistence/repositories"
	"creditline/internal/core/domain"
	"creditline/internal/pkg/logger"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	lakh            = decimal.NewFromInt(100000)
	limitMultiplier = decimal.NewFromInt(36)
)

// ApprovedLimitFor returns the credit limit granted at registration:
// 36x the monthly salary, rounded half-even to the nearest lakh.
func ApprovedLimitFor(monthlySalary decimal.Decimal) decimal.Decimal {
	return monthlySalary.Mul(limitMultiplier).Div(lakh).RoundBank(0).Mul(lakh)
}

// CustomerService handles customer registration and lookups
type CustomerService struct {
	customerRepo repositories.CustomerRepository
	log          *logger.Logger
}

// NewCustomerService creates a new customer service
func NewCustomerService(customerRepo repositories.CustomerRepository, log *logger.Logger) *CustomerService {
	return &CustomerService{
		customerRepo: customerRepo,
		log:          log,
	}
}

// RegisterCustomerInput represents customer registration input
type RegisterCustomerInput struct {
	FirstName     string
	LastName      string
	Age           int
	MonthlyIncome decimal.Decimal
	PhoneNumber   int64
}

// Register creates a new customer with a derived approved credit limit
func (s *CustomerService) Register(ctx context.Context, input RegisterCustomerInput) (*models.Customer, error) {
	if input.MonthlyIncome.Sign() < 0 {
		return nil, fmt.Errorf("%w: monthly income must not be negative", domain.ErrInvalidArgument)
	}

	age := input.Age
	customer := &models.Customer{
		FirstName:     input.FirstName,
		LastName:      input.LastName,
		Age:           &age,
		PhoneNumber:   input.PhoneNumber,
		MonthlySalary: input.MonthlyIncome,
		ApprovedLimit: ApprovedLimitFor(input.MonthlyIncome),
		CurrentDebt:   decimal.Zero,
	}

	if err := s.customerRepo.Create(ctx, customer); err != nil {
		return nil, fmt.Errorf("%w: create customer: %v", domain.ErrPersistenceFailure, err)
	}

	s.log.Info().
		Uint("customer_id", customer.ID).
		Str("approved_limit", customer.ApprovedLimit.String()).
		Msg("customer registered")

	return customer, nil
}

// GetByID gets a customer by ID
func (s *CustomerService) GetByID(ctx context.Context, id uint) (*models.Customer, error) {
	customer, err := s.customerRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrCustomerNotFound
		}
		return nil, err
	}
	return customer, nil
}

// List lists customers with pagination
func (s *CustomerService) List(ctx context.Context, page, limit int) ([]*models.Customer, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}
	offset := (page - 1) * limit
	return s.customerRepo.List(ctx, offset, limit)
}
