package services

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"finmemory/internal/models"
	"finmemory/internal/repositories"
)

type memoryService struct {
	userRepo        repositories.UserRepositoryInterface
	transactionRepo repositories.TransactionRepositoryInterface
	aggregation     AggregationServiceInterface
	metrics         MetricsRecorderInterface
}

// NewMemoryService creates a new MemoryServiceInterface instance
func NewMemoryService(
	userRepo repositories.UserRepositoryInterface,
	transactionRepo repositories.TransactionRepositoryInterface,
	aggregation AggregationServiceInterface,
	metrics MetricsRecorderInterface,
) MemoryServiceInterface {
	return &memoryService{
		userRepo:        userRepo,
		transactionRepo: transactionRepo,
		aggregation:     aggregation,
		metrics:         metrics,
	}
}

// GetFinancialMemory returns the user's cached snapshot when present,
// recomputing and caching it otherwise. forceRefresh always recomputes.
func (s *memoryService) GetFinancialMemory(userID uuid.UUID, forceRefresh bool) (*models.FinancialMemory, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}

	if !forceRefresh && user.HasCachedMemory() {
		return user.FinancialMemory, nil
	}

	return s.RefreshFinancialMemory(userID)
}

// RefreshFinancialMemory recomputes the snapshot from the full transaction
// history and stores it on the user's profile.
func (s *memoryService) RefreshFinancialMemory(userID uuid.UUID) (*models.FinancialMemory, error) {
	start := time.Now()

	transactions, err := s.transactionRepo.ListAllByUser(userID)
	if err != nil {
		s.metrics.ObserveMemoryRecompute("refresh", "error", time.Since(start))
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}

	memory := s.aggregation.ComputeFinancialMemory(transactions)

	s.recordSnapshotMetrics(memory)

	if err := s.userRepo.SaveFinancialMemory(userID, memory, time.Now().UTC()); err != nil {
		s.metrics.ObserveMemoryRecompute("refresh", "save_error", time.Since(start))
		return nil, fmt.Errorf("failed to cache financial memory: %w", err)
	}

	s.metrics.ObserveMemoryRecompute("refresh", "success", time.Since(start))
	return memory, nil
}

// OnTransactionChanged recomputes and re-caches the snapshot after a
// transaction write. Best effort: failures are logged and swallowed so the
// triggering write still succeeds with at worst a stale cache.
func (s *memoryService) OnTransactionChanged(userID uuid.UUID) {
	start := time.Now()

	transactions, err := s.transactionRepo.ListAllByUser(userID)
	if err != nil {
		s.metrics.ObserveMemoryRecompute("mutation", "error", time.Since(start))
		slog.Warn("memory recompute skipped", "user_id", userID, "error", err)
		return
	}

	memory := s.aggregation.ComputeFinancialMemory(transactions)

	if err := s.userRepo.SaveFinancialMemory(userID, memory, time.Now().UTC()); err != nil {
		s.metrics.ObserveMemoryRecompute("mutation", "save_error", time.Since(start))
		slog.Warn("memory cache save failed", "user_id", userID, "error", err)
		return
	}

	s.metrics.ObserveMemoryRecompute("mutation", "success", time.Since(start))
}

func (s *memoryService) recordSnapshotMetrics(memory *models.FinancialMemory) {
	anomalies := 0
	for _, bucket := range memory.Months {
		anomalies += len(bucket.Anomalies)
	}
	s.metrics.AddAnomaliesDetected(anomalies)
	for _, alert := range memory.Alerts {
		s.metrics.AddAlertGenerated(alert.Severity)
	}
}
