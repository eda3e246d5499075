package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"finmemory/internal/models"
)

// AggregationServiceInterface builds the full financial memory snapshot
// from a transaction history.
type AggregationServiceInterface interface {
	ComputeFinancialMemory(transactions []models.Transaction) *models.FinancialMemory
}

// AnomalyDetectorInterface flags unusually large expense events within
// one month.
type AnomalyDetectorInterface interface {
	DetectExpenseAnomalies(events []models.ExpenseEvent) []models.AnomalyEvent
}

// TrendAnalyzerInterface classifies multi-month direction for income,
// expense and per-category series.
type TrendAnalyzerInterface interface {
	AnalyzeTrends(orderedKeys []string, months map[string]*models.MonthBucket) *models.TrendSummary
}

// AlertRankerInterface merges anomaly and trend findings into a ranked
// alert list.
type AlertRankerInterface interface {
	BuildAlerts(memory *models.FinancialMemory) []models.Alert
}

// PromptBuilderInterface renders a snapshot into the advisor prompt.
type PromptBuilderInterface interface {
	BuildSystemPrompt(memory *models.FinancialMemory, extraContext string) string
}

// ReplyParserInterface extracts structured action items from free-form
// advisor output.
type ReplyParserInterface interface {
	ParseActionableItems(reply string) []models.ActionItem
}

// MemoryServiceInterface owns the cached snapshot lifecycle.
type MemoryServiceInterface interface {
	GetFinancialMemory(userID uuid.UUID, forceRefresh bool) (*models.FinancialMemory, error)
	RefreshFinancialMemory(userID uuid.UUID) (*models.FinancialMemory, error)
	OnTransactionChanged(userID uuid.UUID)
}

// AdvisorServiceInterface generates advice through the external model and
// parses the reply.
type AdvisorServiceInterface interface {
	GenerateAdvice(ctx context.Context, userID uuid.UUID, extraContext string) (*models.AdviceResult, error)
}

// ForecastServiceInterface extrapolates next-month profit from history.
type ForecastServiceInterface interface {
	ForecastNextMonthProfit(transactions []models.Transaction) *decimal.Decimal
}

// RecommendationServiceInterface produces rule-based textual advice.
type RecommendationServiceInterface interface {
	BuildRecommendations(transactions []models.Transaction) []string
}

// TransactionGeneratorInterface produces demo transaction histories.
type TransactionGeneratorInterface interface {
	GenerateHistory(userID uuid.UUID, monthsBack int) []models.Transaction
}

// CircuitBreakerInterface guards calls to the generation backend.
type CircuitBreakerInterface interface {
	IsOpen() bool
	RecordSuccess()
	RecordFailure()
	GetState() models.CircuitBreakerState
	Reset()
	GetFailureCount() int
}

// MetricsRecorderInterface records operational metrics.
type MetricsRecorderInterface interface {
	ObserveMemoryRecompute(trigger, status string, duration time.Duration)
	ObserveAdviceRequest(status string, duration time.Duration)
	AddAnomaliesDetected(count int)
	AddAlertGenerated(severity string)
	ObserveActionItemsParsed(count int)
	SetCircuitBreakerState(service string, state float64)
	ObservePromptLength(bytes int)
}
