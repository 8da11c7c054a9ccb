package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ============================================================
// Customer & Loan Tables
// ============================================================

// Customer represents customers table
type Customer struct {
	ID            uint            `gorm:"primaryKey;column:customer_id" json:"customer_id"`
	FirstName     string          `gorm:"size:100;not null" json:"first_name"`
	LastName      string          `gorm:"size:100;not null" json:"last_name"`
	Age           *int            `json:"age"` // nullable for bulk-imported rows
	PhoneNumber   int64           `gorm:"not null" json:"phone_number"`
	MonthlySalary decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"monthly_salary"`
	ApprovedLimit decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"approved_limit"`
	CurrentDebt   decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"current_debt"`
	CreatedAt     time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"autoUpdateTime" json:"updated_at"`

	Loans []Loan `gorm:"foreignKey:CustomerID" json:"-"`
}

func (Customer) TableName() string {
	return "customers"
}

// FullName returns first and last name joined
func (c *Customer) FullName() string {
	return c.FirstName + " " + c.LastName
}

// RegistrationResponse DTO for POST /register
type RegistrationResponse struct {
	CustomerID    uint   `json:"customer_id"`
	Name          string `json:"name"`
	Age           *int   `json:"age"`
	MonthlyIncome int64  `json:"monthly_income"`
	ApprovedLimit int64  `json:"approved_limit"`
	PhoneNumber   int64  `json:"phone_number"`
}

func (c *Customer) ToRegistrationResponse() *RegistrationResponse {
	return &RegistrationResponse{
		CustomerID:    c.ID,
		Name:          c.FullName(),
		Age:           c.Age,
		MonthlyIncome: c.MonthlySalary.IntPart(),
		ApprovedLimit: c.ApprovedLimit.IntPart(),
		PhoneNumber:   c.PhoneNumber,
	}
}

// CustomerBrief DTO nested in loan view responses
type CustomerBrief struct {
	ID          uint   `json:"id"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	PhoneNumber int64  `json:"phone_number"`
	Age         *int   `json:"age"`
}

func (c *Customer) ToBrief() *CustomerBrief {
	return &CustomerBrief{
		ID:          c.ID,
		FirstName:   c.FirstName,
		LastName:    c.LastName,
		PhoneNumber: c.PhoneNumber,
		Age:         c.Age,
	}
}

// Loan represents loans table
type Loan struct {
	ID               uint            `gorm:"primaryKey;column:loan_id" json:"loan_id"`
	CustomerID       uint            `gorm:"index;not null" json:"customer_id"`
	LoanAmount       decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"loan_amount"`
	Tenure           int             `gorm:"not null" json:"tenure"` // months
	InterestRate     decimal.Decimal `gorm:"type:decimal(5,2);not null" json:"interest_rate"`
	MonthlyRepayment decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"monthly_repayment"`
	EMIsPaidOnTime   int             `gorm:"not null;default:0" json:"emis_paid_on_time"`
	StartDate        time.Time       `gorm:"type:date;not null" json:"start_date"`
	EndDate          time.Time       `gorm:"type:date;not null" json:"end_date"`
	CreatedAt        time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time       `gorm:"autoUpdateTime" json:"updated_at"`

	Customer Customer `gorm:"foreignKey:CustomerID" json:"-"`
}

func (Loan) TableName() string {
	return "loans"
}

// IsActive reports whether the loan still has EMIs outstanding as of today.
func (l *Loan) IsActive(today time.Time) bool {
	return !l.EndDate.Before(today)
}

// EMIsElapsed returns the number of whole months between start date and
// today, clamped to [0, tenure].
func (l *Loan) EMIsElapsed(today time.Time) int {
	if today.Before(l.StartDate) {
		return 0
	}
	months := (today.Year()-l.StartDate.Year())*12 + int(today.Month()) - int(l.StartDate.Month())
	if today.Day() < l.StartDate.Day() {
		months--
	}
	if months < 0 {
		months = 0
	}
	if months > l.Tenure {
		return l.Tenure
	}
	return months
}

// RepaymentsLeft returns the remaining EMIs as of today.
func (l *Loan) RepaymentsLeft(today time.Time) int {
	return l.Tenure - l.EMIsElapsed(today)
}

// LoanDetailResponse DTO for GET /view-loan/:loan_id
type LoanDetailResponse struct {
	LoanID             uint           `json:"loan_id"`
	Customer           *CustomerBrief `json:"customer"`
	LoanAmount         float64        `json:"loan_amount"`
	InterestRate       float64        `json:"interest_rate"`
	MonthlyInstallment float64        `json:"monthly_installment"`
	Tenure             int            `json:"tenure"`
}

func (l *Loan) ToDetailResponse() *LoanDetailResponse {
	return &LoanDetailResponse{
		LoanID:             l.ID,
		Customer:           l.Customer.ToBrief(),
		LoanAmount:         l.LoanAmount.InexactFloat64(),
		InterestRate:       l.InterestRate.InexactFloat64(),
		MonthlyInstallment: l.MonthlyRepayment.InexactFloat64(),
		Tenure:             l.Tenure,
	}
}

// LoanListItemResponse DTO for GET /view-loans/:customer_id items
type LoanListItemResponse struct {
	LoanID             uint    `json:"loan_id"`
	LoanAmount         float64 `json:"loan_amount"`
	InterestRate       float64 `json:"interest_rate"`
	MonthlyInstallment float64 `json:"monthly_installment"`
	RepaymentsLeft     int     `json:"repayments_left"`
}

func (l *Loan) ToListItemResponse(today time.Time) *LoanListItemResponse {
	return &LoanListItemResponse{
		LoanID:             l.ID,
		LoanAmount:         l.LoanAmount.InexactFloat64(),
		InterestRate:       l.InterestRate.InexactFloat64(),
		MonthlyInstallment: l.MonthlyRepayment.InexactFloat64(),
		RepaymentsLeft:     l.RepaymentsLeft(today),
	}
}

// AutoMigrate runs auto migration for all tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&Customer{},
		&Loan{},
	)
}
