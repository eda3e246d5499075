package models

import (
	"errors"
	"regexp"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

	ErrMissingEmail = errors.New("email is required")
	ErrInvalidEmail = errors.New("invalid email format")
)

// User is the profile record a financial memory snapshot is cached on.
// The snapshot itself is owned by the caller: the pipeline recomputes it,
// the profile merely carries the latest copy.
type User struct {
	ID              uuid.UUID        `gorm:"type:uuid;primary_key" json:"id"`
	Email           string           `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	FirstName       string           `gorm:"type:varchar(100)" json:"first_name"`
	LastName        string           `gorm:"type:varchar(100)" json:"last_name"`
	FinancialMemory *FinancialMemory `gorm:"type:jsonb" json:"financial_memory,omitempty"`
	MemoryUpdatedAt *time.Time       `json:"memory_updated_at,omitempty"`
	CreatedAt       time.Time        `gorm:"not null" json:"created_at"`
	UpdatedAt       time.Time        `gorm:"not null" json:"updated_at"`
	DeletedAt       gorm.DeletedAt   `gorm:"index" json:"deleted_at,omitempty"`

	Transactions []Transaction `gorm:"foreignKey:UserID" json:"-"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}

	now := time.Now()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	if u.UpdatedAt.IsZero() {
		u.UpdatedAt = now
	}

	return u.Validate()
}

func (u *User) BeforeUpdate(tx *gorm.DB) error {
	// Skip validation for map-based partial updates
	if tx != nil && tx.Statement != nil && tx.Statement.Dest != nil {
		if _, ok := tx.Statement.Dest.(map[string]interface{}); ok {
			return nil
		}
	}
	return u.Validate()
}

func (u *User) Validate() error {
	if u.Email == "" {
		return ErrMissingEmail
	}

	if !emailRegex.MatchString(u.Email) {
		return ErrInvalidEmail
	}

	return nil
}

// HasCachedMemory reports whether a usable snapshot is already stored
func (u *User) HasCachedMemory() bool {
	return u.FinancialMemory != nil
}

// TableName returns the table name for User
func (u *User) TableName() string {
	return "users"
}
