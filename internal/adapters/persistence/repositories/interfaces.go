package repositories

import (
	"context"

	"creditline/internal/adapters/persistence/models"

	"github.com/shopspring/decimal"
)

// CustomerRepository defines customer data access
type CustomerRepository interface {
	Create(ctx context.Context, customer *models.Customer) error
	GetByID(ctx context.Context, id uint) (*models.Customer, error)
	// GetByIDForUpdate locks the customer row for the duration of the
	// surrounding transaction. Outside a transaction it behaves like GetByID.
	GetByIDForUpdate(ctx context.Context, id uint) (*models.Customer, error)
	IncrementDebt(ctx context.Context, id uint, delta decimal.Decimal) error
	List(ctx context.Context, offset, limit int) ([]*models.Customer, int64, error)
	Exists(ctx context.Context, id uint) (bool, error)
	// Upsert creates or replaces a customer by external id (bulk ingestion).
	// Returns true when a new row was created.
	Upsert(ctx context.Context, customer *models.Customer) (bool, error)
}

// LoanRepository defines loan data access
type LoanRepository interface {
	Create(ctx context.Context, loan *models.Loan) error
	GetByID(ctx context.Context, id uint) (*models.Loan, error)
	ListByCustomer(ctx context.Context, customerID uint) ([]*models.Loan, error)
	List(ctx context.Context, offset, limit int) ([]*models.Loan, int64, error)
	// Upsert creates or replaces a loan by external id (bulk ingestion).
	Upsert(ctx context.Context, loan *models.Loan) (bool, error)
}

// TxRunner executes fn with repositories bound to a single database
// transaction. fn returning an error rolls everything back.
type TxRunner interface {
	Run(ctx context.Context, fn func(customers CustomerRepository, loans LoanRepository) error) error
}
