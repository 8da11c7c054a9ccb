package repositories

import (
	"context"

	"creditline/internal/adapters/persistence/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type customerRepository struct {
	db *gorm.DB
}

// NewCustomerRepository creates a new customer repository
func NewCustomerRepository(db *gorm.DB) CustomerRepository {
	return &customerRepository{db: db}
}

// Create creates a new customer
func (r *customerRepository) Create(ctx context.Context, customer *models.Customer) error {
	return r.db.WithContext(ctx).Create(customer).Error
}

// GetByID gets a customer by ID
func (r *customerRepository) GetByID(ctx context.Context, id uint) (*models.Customer, error) {
	var customer models.Customer
	err := r.db.WithContext(ctx).First(&customer, id).Error
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

// GetByIDForUpdate gets a customer by ID with a row-level write lock
func (r *customerRepository) GetByIDForUpdate(ctx context.Context, id uint) (*models.Customer, error) {
	var customer models.Customer
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&customer, id).Error
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

// IncrementDebt adds delta to the customer's current debt
func (r *customerRepository) IncrementDebt(ctx context.Context, id uint, delta decimal.Decimal) error {
	return r.db.WithContext(ctx).
		Model(&models.Customer{}).
		Where("customer_id = ?", id).
		Update("current_debt", gorm.Expr("current_debt + ?", delta)).Error
}

// List lists customers with pagination
func (r *customerRepository) List(ctx context.Context, offset, limit int) ([]*models.Customer, int64, error) {
	var customers []*models.Customer
	var total int64

	r.db.WithContext(ctx).Model(&models.Customer{}).Count(&total)

	err := r.db.WithContext(ctx).
		Order("customer_id ASC").
		Offset(offset).
		Limit(limit).
		Find(&customers).Error

	return customers, total, err
}

// Exists reports whether a customer exists
func (r *customerRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Customer{}).
		Where("customer_id = ?", id).
		Count(&count).Error
	return count > 0, err
}

// Upsert creates or replaces a customer by external id
func (r *customerRepository) Upsert(ctx context.Context, customer *models.Customer) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Customer{}).
		Where("customer_id = ?", customer.ID).
		Count(&count).Error; err != nil {
		return false, err
	}

	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(customer).Error
	return count == 0, err
}
