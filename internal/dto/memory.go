package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"finmemory/internal/models"
)

// MemoryResponse wraps the financial memory snapshot with cache metadata
type MemoryResponse struct {
	Memory    *models.FinancialMemory `json:"memory"`
	FromCache bool                    `json:"from_cache"`
	UpdatedAt *time.Time              `json:"updated_at,omitempty"`
}

// ForecastResponse carries the next-month profit extrapolation
type ForecastResponse struct {
	Forecast *decimal.Decimal `json:"forecast"`
	HasData  bool             `json:"has_data"`
}

// RecommendationsResponse carries rule-based textual advice
type RecommendationsResponse struct {
	Recommendations []string `json:"recommendations"`
}
