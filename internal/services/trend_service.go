package services

import (
	"finmemory/internal/models"

	"github.com/shopspring/decimal"
)

const (
	// trendWindow is the number of most recent months a trend is computed over
	trendWindow = 3

	minMonthsForTrends = 2

	insufficientTrendDataMsg = "Недостаточно данных для анализа трендов (требуется минимум 2 месяца)"
)

type trendAnalyzer struct{}

// NewTrendAnalyzer creates a new TrendAnalyzerInterface instance
func NewTrendAnalyzer() TrendAnalyzerInterface {
	return &trendAnalyzer{}
}

// AnalyzeTrends classifies the multi-month direction of income, expense and
// per-category series. Requires at least 2 months for any output; full
// category analysis needs 3.
func (a *trendAnalyzer) AnalyzeTrends(orderedKeys []string, months map[string]*models.MonthBucket) *models.TrendSummary {
	if len(orderedKeys) < minMonthsForTrends {
		return &models.TrendSummary{
			HasEnoughData:   false,
			MonthsAvailable: len(orderedKeys),
			Message:         insufficientTrendDataMsg,
		}
	}

	summary := &models.TrendSummary{
		HasEnoughData:   len(orderedKeys) >= trendWindow,
		MonthsAvailable: len(orderedKeys),
		IncomeTrend:     models.TrendStable,
		ExpenseTrend:    models.TrendStable,
		RecentMonths:    orderedKeys,
	}

	if len(orderedKeys) < trendWindow {
		return summary
	}

	recentKeys := orderedKeys[len(orderedKeys)-trendWindow:]
	summary.RecentMonths = recentKeys
	summary.CategoryTrends = a.categoryTrends(recentKeys, months)

	incomes := make([]decimal.Decimal, 0, trendWindow)
	expenses := make([]decimal.Decimal, 0, trendWindow)
	for _, mk := range recentKeys {
		incomes = append(incomes, months[mk].IncomeTotal)
		expenses = append(expenses, months[mk].ExpenseTotal)
	}

	summary.IncomeTrend = direction(incomes[0], incomes[len(incomes)-1])
	summary.ExpenseTrend = direction(expenses[0], expenses[len(expenses)-1])

	return summary
}

// categoryTrends classifies the last 3 months of top-expense-category
// amounts. A category absent from a month counts as zero there.
func (a *trendAnalyzer) categoryTrends(recentKeys []string, months map[string]*models.MonthBucket) map[string]models.CategoryTrend {
	var categoryOrder []string
	seen := make(map[string]bool)
	for _, mk := range recentKeys {
		for _, entry := range months[mk].TopExpenseCategories {
			if !seen[entry.Category] {
				seen[entry.Category] = true
				categoryOrder = append(categoryOrder, entry.Category)
			}
		}
	}

	trends := make(map[string]models.CategoryTrend, len(categoryOrder))
	for _, category := range categoryOrder {
		values := make([]decimal.Decimal, 0, len(recentKeys))
		for _, mk := range recentKeys {
			values = append(values, categoryAmount(months[mk], category))
		}

		first := values[0]
		latest := values[len(values)-1]

		trend := direction(first, latest)
		changePct := 0.0
		if trend != models.TrendStable && first.IsPositive() {
			delta := latest.Sub(first)
			if trend == models.TrendDecline {
				delta = first.Sub(latest)
			}
			changePct = roundTo(delta.InexactFloat64()/first.InexactFloat64()*100, 2)
		}

		sum := decimal.Zero
		for _, v := range values {
			sum = sum.Add(v)
		}

		trends[category] = models.CategoryTrend{
			Trend:     trend,
			ChangePct: changePct,
			Values:    values,
			Latest:    latest,
			Average:   sum.Div(decimal.NewFromInt(int64(len(values)))).Round(2),
		}
	}

	return trends
}

func categoryAmount(bucket *models.MonthBucket, category string) decimal.Decimal {
	for _, entry := range bucket.TopExpenseCategories {
		if entry.Category == category {
			return entry.Amount
		}
	}
	return decimal.Zero
}

// direction compares the oldest against the newest value of a window
func direction(first, latest decimal.Decimal) string {
	switch latest.Cmp(first) {
	case 1:
		return models.TrendGrowth
	case -1:
		return models.TrendDecline
	default:
		return models.TrendStable
	}
}
