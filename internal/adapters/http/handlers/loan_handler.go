package handlers

import (
	"errors"
	"strconv"

	"creditline/internal/core/domain"
	"creditline/internal/core/services"
	"creditline/internal/pkg/pagination"
	"creditline/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// LoanHandler handles loan endpoints
type LoanHandler struct {
	loanService *services.LoanService
}

// NewLoanHandler creates a new loan handler
func NewLoanHandler(loanService *services.LoanService) *LoanHandler {
	return &LoanHandler{
		loanService: loanService,
	}
}

// LoanRequest represents an eligibility check or loan creation request
type LoanRequest struct {
	CustomerID   uint    `json:"customer_id"`
	LoanAmount   float64 `json:"loan_amount"`
	InterestRate float64 `json:"interest_rate"`
	Tenure       int     `json:"tenure"`
}

func (r *LoanRequest) validate(c *fiber.Ctx) error {
	if r.CustomerID == 0 {
		return response.BadRequest(c, "Customer id is required")
	}
	if r.LoanAmount < 0 {
		return response.BadRequest(c, "Loan amount must not be negative")
	}
	if r.InterestRate < 0 {
		return response.BadRequest(c, "Interest rate must not be negative")
	}
	if r.Tenure < 1 {
		return response.BadRequest(c, "Tenure must be at least 1 month")
	}
	return nil
}

// EligibilityResponse represents the eligibility check response
type EligibilityResponse struct {
	CustomerID            uint    `json:"customer_id"`
	Approval              bool    `json:"approval"`
	InterestRate          float64 `json:"interest_rate"`
	CorrectedInterestRate float64 `json:"corrected_interest_rate"`
	Tenure                int     `json:"tenure"`
	MonthlyInstallment    float64 `json:"monthly_installment"`
}

// CheckEligibility checks loan eligibility for a customer
// @Summary Check loan eligibility
// @Description Evaluate a loan request against the customer's credit history without creating anything
// @Tags Loans
// @Accept json
// @Produce json
// @Param body body LoanRequest true "Loan request"
// @Success 200 {object} EligibilityResponse
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /check-eligibility [post]
func (h *LoanHandler) CheckEligibility(c *fiber.Ctx) error {
	var req LoanRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := req.validate(c); err != nil {
		return err
	}

	result, err := h.loanService.CheckEligibility(
		c.Context(),
		req.CustomerID,
		decimal.NewFromFloat(req.LoanAmount),
		decimal.NewFromFloat(req.InterestRate),
		req.Tenure,
	)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrCustomerNotFound):
			return response.NotFound(c, "Customer not found")
		case errors.Is(err, domain.ErrInvalidArgument):
			return response.BadRequest(c, err.Error())
		default:
			return response.InternalServerError(c, "Failed to check eligibility")
		}
	}

	return c.JSON(EligibilityResponse{
		CustomerID:            result.CustomerID,
		Approval:              result.Approved,
		InterestRate:          result.InterestRate.InexactFloat64(),
		CorrectedInterestRate: result.CorrectedInterestRate.InexactFloat64(),
		Tenure:                result.Tenure,
		MonthlyInstallment:    result.MonthlyInstallment.InexactFloat64(),
	})
}

// CreateLoanResponse represents the loan creation response
type CreateLoanResponse struct {
	LoanID             *uint   `json:"loan_id"`
	CustomerID         uint    `json:"customer_id"`
	LoanApproved       bool    `json:"loan_approved"`
	Message            string  `json:"message"`
	MonthlyInstallment float64 `json:"monthly_installment"`
}

// CreateLoan creates a new loan if the customer is eligible
// @Summary Create loan
// @Description Run the eligibility decision and persist the loan on approval
// @Tags Loans
// @Accept json
// @Produce json
// @Param body body LoanRequest true "Loan request"
// @Success 200 {object} CreateLoanResponse
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /create-loan [post]
func (h *LoanHandler) CreateLoan(c *fiber.Ctx) error {
	var req LoanRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := req.validate(c); err != nil {
		return err
	}

	result, err := h.loanService.CreateLoan(
		c.Context(),
		req.CustomerID,
		decimal.NewFromFloat(req.LoanAmount),
		decimal.NewFromFloat(req.InterestRate),
		req.Tenure,
	)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrCustomerNotFound):
			return response.NotFound(c, "Customer not found")
		case errors.Is(err, domain.ErrInvalidArgument):
			return response.BadRequest(c, err.Error())
		case errors.Is(err, domain.ErrPersistenceFailure):
			return response.InternalServerError(c, "Failed to create loan, no changes were saved")
		default:
			return response.InternalServerError(c, "Failed to create loan")
		}
	}

	return c.JSON(CreateLoanResponse{
		LoanID:             result.LoanID,
		CustomerID:         result.CustomerID,
		LoanApproved:       result.Approved,
		Message:            result.Message,
		MonthlyInstallment: result.MonthlyInstallment.InexactFloat64(),
	})
}

// ViewLoan views a single loan with its customer
// @Summary View loan
// @Description Get details of a loan including customer information
// @Tags Loans
// @Accept json
// @Produce json
// @Param loan_id path int true "Loan ID"
// @Success 200 {object} models.LoanDetailResponse
// @Failure 404 {object} response.Response
// @Router /view-loan/{loan_id} [get]
func (h *LoanHandler) ViewLoan(c *fiber.Ctx) error {
	loanID, err := strconv.ParseUint(c.Params("loan_id"), 10, 64)
	if err != nil {
		return response.BadRequest(c, "Invalid loan id")
	}

	detail, err := h.loanService.GetLoan(c.Context(), uint(loanID))
	if err != nil {
		if errors.Is(err, domain.ErrLoanNotFound) {
			return response.NotFound(c, "Loan not found")
		}
		return response.InternalServerError(c, "Failed to retrieve loan")
	}

	return c.JSON(detail)
}

// ViewLoansByCustomer views all loans of a customer
// @Summary View loans by customer
// @Description List all loans of a customer with remaining repayments
// @Tags Loans
// @Accept json
// @Produce json
// @Param customer_id path int true "Customer ID"
// @Success 200 {array} models.LoanListItemResponse
// @Failure 404 {object} response.Response
// @Router /view-loans/{customer_id} [get]
func (h *LoanHandler) ViewLoansByCustomer(c *fiber.Ctx) error {
	customerID, err := strconv.ParseUint(c.Params("customer_id"), 10, 64)
	if err != nil {
		return response.BadRequest(c, "Invalid customer id")
	}

	items, err := h.loanService.ListCustomerLoans(c.Context(), uint(customerID))
	if err != nil {
		if errors.Is(err, domain.ErrCustomerNotFound) {
			return response.NotFound(c, "Customer not found")
		}
		return response.InternalServerError(c, "Failed to retrieve loans")
	}

	return c.JSON(items)
}

// List lists loans
// @Summary List loans
// @Description List all loans with pagination
// @Tags Loans
// @Accept json
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Success 200 {object} pagination.Response
// @Router /loans [get]
func (h *LoanHandler) List(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	loans, total, err := h.loanService.List(c.Context(), params.Page, params.Limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to list loans")
	}

	return c.JSON(pagination.NewResponse(loans, params, total))
}
