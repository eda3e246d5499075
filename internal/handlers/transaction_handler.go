package handlers

import (
	"net/http"

	stderrors "errors"

	"finmemory/internal/dto"
	"finmemory/internal/errors"
	"finmemory/internal/models"
	"finmemory/internal/repositories"
	"finmemory/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// TransactionHandler handles transaction CRUD. Every write re-triggers the
// financial memory recomputation through the memory service.
type TransactionHandler struct {
	transactionRepo repositories.TransactionRepositoryInterface
	userRepo        repositories.UserRepositoryInterface
	memoryService   services.MemoryServiceInterface
	generator       services.TransactionGeneratorInterface
}

// NewTransactionHandler creates a new transaction handler
func NewTransactionHandler(
	transactionRepo repositories.TransactionRepositoryInterface,
	userRepo repositories.UserRepositoryInterface,
	memoryService services.MemoryServiceInterface,
	generator services.TransactionGeneratorInterface,
) *TransactionHandler {
	return &TransactionHandler{
		transactionRepo: transactionRepo,
		userRepo:        userRepo,
		memoryService:   memoryService,
		generator:       generator,
	}
}

// CreateTransaction records a new income or expense for the user
func (h *TransactionHandler) CreateTransaction(c echo.Context) error {
	userID, err := getUserIDParam(c)
	if err != nil {
		return SendError(c, errors.UserInvalidID)
	}

	var req dto.CreateTransactionRequest
	if err := c.Bind(&req); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails("invalid request body"))
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if _, err := h.userRepo.GetByID(userID); err != nil {
		if stderrors.Is(err, repositories.ErrUserNotFound) {
			return SendError(c, errors.UserNotFound)
		}
		return SendSystemError(c, err)
	}

	date, err := parseDate(req.Date)
	if err != nil {
		return SendError(c, errors.ValidationInvalidDate, errors.WithDetails("date must be in YYYY-MM-DD format"))
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return SendError(c, errors.TransactionInvalidAmount)
	}

	transaction := &models.Transaction{
		UserID:      userID,
		Kind:        req.Kind,
		Amount:      amount,
		Date:        date,
		Category:    req.Category,
		Description: req.Description,
	}

	if err := h.transactionRepo.Create(transaction); err != nil {
		return SendSystemError(c, err)
	}

	h.memoryService.OnTransactionChanged(userID)

	return c.JSON(http.StatusCreated, SuccessResponse{
		Data:    dto.NewTransactionResponse(transaction),
		Message: "Transaction created successfully",
	})
}

// ListTransactions returns a page of the user's transactions, newest first
func (h *TransactionHandler) ListTransactions(c echo.Context) error {
	userID, err := getUserIDParam(c)
	if err != nil {
		return SendError(c, errors.UserInvalidID)
	}

	offset, limit := getPagination(c)

	transactions, total, err := h.transactionRepo.ListByUser(userID, offset, limit)
	if err != nil {
		return SendSystemError(c, err)
	}

	response := dto.NewTransactionListResponse(transactions, total, offset, limit)

	return c.JSON(http.StatusOK, SuccessResponse{Data: response})
}

// GetTransaction returns a single transaction by its ID
func (h *TransactionHandler) GetTransaction(c echo.Context) error {
	userID, err := getUserIDParam(c)
	if err != nil {
		return SendError(c, errors.UserInvalidID)
	}

	transactionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return SendError(c, errors.TransactionInvalidID)
	}

	transaction, err := h.transactionRepo.GetByID(transactionID)
	if err != nil {
		if stderrors.Is(err, repositories.ErrTransactionNotFound) {
			return SendError(c, errors.TransactionNotFound)
		}
		return SendSystemError(c, err)
	}

	// A transaction id from another user's ledger is indistinguishable
	// from a missing one.
	if transaction.UserID != userID {
		return SendError(c, errors.TransactionNotFound)
	}

	return c.JSON(http.StatusOK, SuccessResponse{Data: dto.NewTransactionResponse(transaction)})
}

// DeleteTransaction removes a transaction and invalidates the cached memory
func (h *TransactionHandler) DeleteTransaction(c echo.Context) error {
	userID, err := getUserIDParam(c)
	if err != nil {
		return SendError(c, errors.UserInvalidID)
	}

	transactionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return SendError(c, errors.TransactionInvalidID)
	}

	transaction, err := h.transactionRepo.GetByID(transactionID)
	if err != nil {
		if stderrors.Is(err, repositories.ErrTransactionNotFound) {
			return SendError(c, errors.TransactionNotFound)
		}
		return SendSystemError(c, err)
	}
	if transaction.UserID != userID {
		return SendError(c, errors.TransactionNotFound)
	}

	if err := h.transactionRepo.Delete(transactionID); err != nil {
		return SendSystemError(c, err)
	}

	h.memoryService.OnTransactionChanged(userID)

	return c.JSON(http.StatusOK, SuccessResponse{
		Message: "Transaction deleted successfully",
	})
}

// SeedTransactions generates a synthetic history for demos and manual testing
func (h *TransactionHandler) SeedTransactions(c echo.Context) error {
	userID, err := getUserIDParam(c)
	if err != nil {
		return SendError(c, errors.UserInvalidID)
	}

	var req dto.SeedTransactionsRequest
	if err := c.Bind(&req); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails("invalid request body"))
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if _, err := h.userRepo.GetByID(userID); err != nil {
		if stderrors.Is(err, repositories.ErrUserNotFound) {
			return SendError(c, errors.UserNotFound)
		}
		return SendSystemError(c, err)
	}

	transactions := h.generator.GenerateHistory(userID, req.MonthsBack)

	if err := h.transactionRepo.CreateBatch(transactions); err != nil {
		return SendSystemError(c, err)
	}

	h.memoryService.OnTransactionChanged(userID)

	return c.JSON(http.StatusCreated, SuccessResponse{
		Data:    map[string]int{"created": len(transactions)},
		Message: "Transaction history generated",
	})
}
