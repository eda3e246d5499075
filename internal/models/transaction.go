package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	KindIncome  = "income"
	KindExpense = "expense"

	// DefaultCategory is assigned when a record arrives with a blank category
	DefaultCategory = "other"

	MaxCategoryLength = 100
)

var (
	ErrInvalidKind      = errors.New("invalid transaction kind")
	ErrNegativeAmount   = errors.New("transaction amount must not be negative")
	ErrMissingUser      = errors.New("transaction user is required")
	ErrMissingDate      = errors.New("transaction date is required")
	ErrCategoryTooLong  = errors.New("category name too long")
)

// Transaction represents a single dated income or expense record for one user.
// Records are immutable once read by the aggregation pipeline.
type Transaction struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	UserID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"user_id"`
	Kind        string          `gorm:"type:varchar(10);not null;index" json:"kind"`
	Amount      decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"amount"`
	Date        time.Time       `gorm:"not null;index" json:"date"`
	Category    string          `gorm:"type:varchar(100)" json:"category"`
	Description string          `gorm:"type:text" json:"description"`
	Metadata    JSONBMap        `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt   time.Time       `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"not null" json:"updated_at"`
}

// BeforeCreate hook for Transaction
func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}

	t.Normalize()

	// Set timestamps if not already set (for tests)
	now := time.Now()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	if t.UpdatedAt.IsZero() {
		t.UpdatedAt = now
	}

	return t.Validate()
}

// BeforeUpdate hook for Transaction
func (t *Transaction) BeforeUpdate(tx *gorm.DB) error {
	t.UpdatedAt = time.Now()
	t.Normalize()
	return t.Validate()
}

// Normalize fills defaulted fields: blank categories collapse to DefaultCategory.
func (t *Transaction) Normalize() {
	if t.Category == "" {
		t.Category = DefaultCategory
	}
}

// Validate validates the transaction fields
func (t *Transaction) Validate() error {
	if t.UserID == uuid.Nil {
		return ErrMissingUser
	}

	if !IsValidKind(t.Kind) {
		return ErrInvalidKind
	}

	if t.Amount.IsNegative() {
		return ErrNegativeAmount
	}

	if t.Date.IsZero() {
		return ErrMissingDate
	}

	if len(t.Category) > MaxCategoryLength {
		return ErrCategoryTooLong
	}

	return nil
}

// MonthKey returns the YYYY-MM bucket key for the transaction date
func (t *Transaction) MonthKey() string {
	return t.Date.Format("2006-01")
}

// IsIncome returns true for income records
func (t *Transaction) IsIncome() bool {
	return t.Kind == KindIncome
}

// IsExpense returns true for expense records
func (t *Transaction) IsExpense() bool {
	return t.Kind == KindExpense
}

// TableName returns the table name for Transaction
func (t *Transaction) TableName() string {
	return "transactions"
}

// IsValidKind checks if the transaction kind is valid
func IsValidKind(kind string) bool {
	switch kind {
	case KindIncome, KindExpense:
		return true
	default:
		return false
	}
}
