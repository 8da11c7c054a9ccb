package domain

import "errors"

// Common domain errors
var (
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrNotFound           = errors.New("resource not found")
	ErrPersistenceFailure = errors.New("persistence failure")
	ErrInternalServer     = errors.New("internal server error")
)

// Customer errors
var (
	ErrCustomerNotFound = errors.New("customer not found")
)

// Loan errors
var (
	ErrLoanNotFound = errors.New("loan not found")
)
