package handlers

import (
	"errors"

	"creditline/internal/adapters/persistence/models"
	"creditline/internal/core/domain"
	"creditline/internal/core/services"
	"creditline/internal/pkg/pagination"
	"creditline/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// CustomerHandler handles customer endpoints
type CustomerHandler struct {
	customerService *services.CustomerService
}

// NewCustomerHandler creates a new customer handler
func NewCustomerHandler(customerService *services.CustomerService) *CustomerHandler {
	return &CustomerHandler{
		customerService: customerService,
	}
}

// RegisterCustomerRequest represents customer registration request
type RegisterCustomerRequest struct {
	FirstName     string  `json:"first_name"`
	LastName      string  `json:"last_name"`
	Age           int     `json:"age"`
	MonthlyIncome float64 `json:"monthly_income"`
	PhoneNumber   int64   `json:"phone_number"`
}

// Register registers a new customer
// @Summary Register customer
// @Description Register a new customer with a derived approved credit limit
// @Tags Customers
// @Accept json
// @Produce json
// @Param body body RegisterCustomerRequest true "Customer data"
// @Success 201 {object} models.RegistrationResponse
// @Failure 400 {object} response.Response
// @Router /register [post]
func (h *CustomerHandler) Register(c *fiber.Ctx) error {
	var req RegisterCustomerRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if req.FirstName == "" || req.LastName == "" {
		return response.BadRequest(c, "First name and last name are required")
	}
	if req.Age < 18 {
		return response.BadRequest(c, "Age must be at least 18")
	}
	if req.MonthlyIncome < 0 {
		return response.BadRequest(c, "Monthly income must not be negative")
	}
	if req.PhoneNumber <= 0 {
		return response.BadRequest(c, "Phone number is required")
	}

	customer, err := h.customerService.Register(c.Context(), services.RegisterCustomerInput{
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		Age:           req.Age,
		MonthlyIncome: decimal.NewFromFloat(req.MonthlyIncome),
		PhoneNumber:   req.PhoneNumber,
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidArgument) {
			return response.BadRequest(c, err.Error())
		}
		return response.InternalServerError(c, "Failed to register customer")
	}

	return c.Status(fiber.StatusCreated).JSON(customer.ToRegistrationResponse())
}

// List lists customers
// @Summary List customers
// @Description List registered customers with pagination
// @Tags Customers
// @Accept json
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Success 200 {object} pagination.Response
// @Router /customers [get]
func (h *CustomerHandler) List(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	customers, total, err := h.customerService.List(c.Context(), params.Page, params.Limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to list customers")
	}

	items := make([]*models.RegistrationResponse, 0, len(customers))
	for _, customer := range customers {
		items = append(items, customer.ToRegistrationResponse())
	}

	return c.JSON(pagination.NewResponse(items, params, total))
}
