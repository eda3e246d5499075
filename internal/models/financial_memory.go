package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Trend direction classifications over a 3-month window
const (
	TrendGrowth  = "growth"
	TrendDecline = "decline"
	TrendStable  = "stable"
)

// Alert severities, most urgent first
const (
	SeverityCritical = "critical"
	SeverityHigh     = "high"
	SeverityMedium   = "medium"
	SeverityInfo     = "info"
)

// Alert types
const (
	AlertTypeExpenseAnomaly   = "expense_anomaly"
	AlertTypeExpenseSpike     = "expense_spike"
	AlertTypeIncomeDrop       = "income_drop"
	AlertTypeNegativeBalance  = "negative_balance"
	AlertTypeCategoryGrowth   = "category_growth"
	AlertTypeInsufficientData = "insufficient_data"
)

// severityRanks is the fixed severity-to-rank lookup used for alert ordering.
// Ranking never falls back to string comparison.
var severityRanks = map[string]int{
	SeverityCritical: 0,
	SeverityHigh:     1,
	SeverityMedium:   2,
	SeverityInfo:     3,
}

// SeverityRank returns the ordering rank for a severity; unknown severities
// rank alongside info.
func SeverityRank(severity string) int {
	if rank, ok := severityRanks[severity]; ok {
		return rank
	}
	return severityRanks[SeverityInfo]
}

// CategoryAmount is one entry of a top-category ranking
type CategoryAmount struct {
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
}

// ExpenseEvent is a single expense observation handed to the anomaly detector
type ExpenseEvent struct {
	ID          uuid.UUID       `json:"id"`
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category"`
	Date        string          `json:"date"`
	Description string          `json:"description"`
}

// AnomalyEvent is an expense flagged as unusually large within its month.
// Never persisted on its own: recomputed on every aggregation pass.
type AnomalyEvent struct {
	SourceTransactionID uuid.UUID       `json:"source_transaction_id"`
	Amount              decimal.Decimal `json:"amount"`
	Category            string          `json:"category"`
	Date                string          `json:"date"`
	Description         string          `json:"description"`
	ZScore              *float64        `json:"z_score"`
	Threshold           decimal.Decimal `json:"threshold"`
	Mean                decimal.Decimal `json:"mean"`
	Month               string          `json:"month"`
}

// MonthBucket holds the aggregated totals for one calendar month.
// A bucket with zero transactions is never materialized.
type MonthBucket struct {
	IncomeTotal          decimal.Decimal  `json:"income_total"`
	ExpenseTotal         decimal.Decimal  `json:"expense_total"`
	Balance              decimal.Decimal  `json:"balance"`
	TransactionCount     int              `json:"transaction_count"`
	IncomeCount          int              `json:"income_count"`
	ExpenseCount         int              `json:"expense_count"`
	AverageCheck         decimal.Decimal  `json:"average_check"`
	TopIncomeCategories  []CategoryAmount `json:"top_income_categories"`
	TopExpenseCategories []CategoryAmount `json:"top_expense_categories"`
	IncomeChangePct      *float64         `json:"income_change_pct"`
	ExpenseChangePct     *float64         `json:"expense_change_pct"`
	BalanceChangePct     *float64         `json:"balance_change_pct"`
	Anomalies            []AnomalyEvent   `json:"anomalies"`
}

// CategoryTrend is the 3-month direction classification for one expense category
type CategoryTrend struct {
	Trend     string            `json:"trend"`
	ChangePct float64           `json:"change_pct"`
	Values    []decimal.Decimal `json:"values"`
	Latest    decimal.Decimal   `json:"latest"`
	Average   decimal.Decimal   `json:"average"`
}

// TrendSummary is the multi-month directional analysis over the bucket series
type TrendSummary struct {
	HasEnoughData   bool                     `json:"has_enough_data"`
	MonthsAvailable int                      `json:"months_available"`
	Message         string                   `json:"message,omitempty"`
	CategoryTrends  map[string]CategoryTrend `json:"category_trends,omitempty"`
	IncomeTrend     string                   `json:"income_trend,omitempty"`
	ExpenseTrend    string                   `json:"expense_trend,omitempty"`
	RecentMonths    []string                 `json:"recent_months,omitempty"`
}

// Alert is a derived, severity-tagged finding; never stored on its own
type Alert struct {
	Type           string          `json:"type"`
	Severity       string          `json:"severity"`
	Month          string          `json:"month,omitempty"`
	Message        string          `json:"message"`
	Value          decimal.Decimal `json:"value"`
	Date           string          `json:"date,omitempty"`
	Category       string          `json:"category,omitempty"`
	Recommendation string          `json:"recommendation,omitempty"`
}

// FinancialMemory is the complete analytics snapshot for one user.
// It is rebuilt from scratch on every aggregation pass; the caller decides
// whether to cache it and when to force recomputation.
type FinancialMemory struct {
	GeneratedAt      time.Time               `json:"generated_at"`
	OrderedMonthKeys []string                `json:"ordered_month_keys"`
	Months           map[string]*MonthBucket `json:"months"`
	TableMarkdown    string                  `json:"table_markdown"`
	SummaryText      string                  `json:"summary_text"`
	Trends           *TrendSummary           `json:"trends"`
	Alerts           []Alert                 `json:"alerts"`
}

// LatestMonth returns the most recent materialized bucket and its key,
// or nil when no months exist.
func (m *FinancialMemory) LatestMonth() (string, *MonthBucket) {
	if len(m.OrderedMonthKeys) == 0 {
		return "", nil
	}
	key := m.OrderedMonthKeys[len(m.OrderedMonthKeys)-1]
	return key, m.Months[key]
}

// Value implements driver.Valuer so the snapshot can live in a JSONB column
func (m *FinancialMemory) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}

// Scan implements sql.Scanner
func (m *FinancialMemory) Scan(value interface{}) error {
	if value == nil {
		return nil
	}

	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, m)
	case string:
		return json.Unmarshal([]byte(v), m)
	default:
		return fmt.Errorf("unsupported type for FinancialMemory: %T", value)
	}
}
