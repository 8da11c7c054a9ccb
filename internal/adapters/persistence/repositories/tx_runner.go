package repositories

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

var _ TxRunner = (*txRunner)(nil)

type txRunner struct {
	db *gorm.DB
}

// NewTxRunner creates a transaction runner over the shared connection
func NewTxRunner(db *gorm.DB) TxRunner {
	return &txRunner{db: db}
}

// Run executes fn inside a single database transaction. The repositories
// passed to fn are bound to that transaction, so row locks taken through
// them are held until commit or rollback.
func (r *txRunner) Run(ctx context.Context, fn func(customers CustomerRepository, loans LoanRepository) error) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewCustomerRepository(tx), NewLoanRepository(tx))
	})
	if err != nil {
		return fmt.Errorf("transaction: %w", err)
	}
	return nil
}
