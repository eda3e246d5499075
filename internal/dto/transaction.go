package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"finmemory/internal/models"
)

// CreateTransactionRequest is the payload for recording a transaction
type CreateTransactionRequest struct {
	Kind        string `json:"kind" validate:"required,transaction_kind"`
	Amount      string `json:"amount" validate:"required,positive_amount"`
	Date        string `json:"date" validate:"required"`
	Category    string `json:"category" validate:"max=100"`
	Description string `json:"description" validate:"max=500"`
}

// SeedTransactionsRequest asks for a synthetic transaction history
type SeedTransactionsRequest struct {
	MonthsBack int `json:"months_back" validate:"required,min=1,max=36"`
}

// TransactionResponse is the API representation of a transaction
type TransactionResponse struct {
	ID          uuid.UUID       `json:"id"`
	Kind        string          `json:"kind"`
	Amount      decimal.Decimal `json:"amount"`
	Date        string          `json:"date"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	CreatedAt   time.Time       `json:"created_at"`
}

// TransactionListResponse is a paginated list of transactions
type TransactionListResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	Total        int64                 `json:"total"`
	Offset       int                   `json:"offset"`
	Limit        int                   `json:"limit"`
}

// NewTransactionResponse maps a model to its API representation
func NewTransactionResponse(tx *models.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:          tx.ID,
		Kind:        tx.Kind,
		Amount:      tx.Amount,
		Date:        tx.Date.Format("2006-01-02"),
		Category:    tx.Category,
		Description: tx.Description,
		CreatedAt:   tx.CreatedAt,
	}
}

// NewTransactionListResponse maps a page of transactions
func NewTransactionListResponse(transactions []models.Transaction, total int64, offset, limit int) TransactionListResponse {
	items := make([]TransactionResponse, 0, len(transactions))
	for i := range transactions {
		items = append(items, NewTransactionResponse(&transactions[i]))
	}
	return TransactionListResponse{
		Transactions: items,
		Total:        total,
		Offset:       offset,
		Limit:        limit,
	}
}
