package repositories

import (
	"time"

	"finmemory/internal/models"

	"github.com/google/uuid"
)

// UserRepositoryInterface defines the contract for user repository operations
type UserRepositoryInterface interface {
	Create(user *models.User) error
	GetByID(id uuid.UUID) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	Update(user *models.User) error
	SaveFinancialMemory(userID uuid.UUID, memory *models.FinancialMemory, updatedAt time.Time) error
	ClearFinancialMemory(userID uuid.UUID) error
	Delete(userID uuid.UUID) error
	ListUsers(offset, limit int) ([]*models.User, int64, error)
}

// TransactionRepositoryInterface defines the contract for transaction repository operations
type TransactionRepositoryInterface interface {
	Create(transaction *models.Transaction) error
	CreateBatch(transactions []models.Transaction) error
	GetByID(id uuid.UUID) (*models.Transaction, error)
	ListByUser(userID uuid.UUID, offset, limit int) ([]models.Transaction, int64, error)
	ListAllByUser(userID uuid.UUID) ([]models.Transaction, error)
	ListByUserAndKind(userID uuid.UUID, kind string) ([]models.Transaction, error)
	ListByUserAndDateRange(userID uuid.UUID, start, end time.Time) ([]models.Transaction, error)
	Update(transaction *models.Transaction) error
	Delete(id uuid.UUID) error
	CountByUser(userID uuid.UUID) (int64, error)
}
