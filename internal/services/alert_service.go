package services

import (
	"fmt"
	"sort"

	"finmemory/internal/models"
)

const (
	// maxAlerts caps the alert list surfaced in the final snapshot
	maxAlerts = 10

	expenseSpikeThresholdPct   = 50.0
	incomeDropThresholdPct     = -30.0
	categoryGrowthThresholdPct = 50.0
	minMonthsForFullAnalysis   = 3
)

type alertRanker struct{}

// NewAlertRanker creates a new AlertRankerInterface instance
func NewAlertRanker() AlertRankerInterface {
	return &alertRanker{}
}

// BuildAlerts evaluates the rule set against the snapshot-in-progress,
// merges the findings with the anomaly alerts already present and returns
// the combined list ranked by severity, then by descending magnitude.
func (r *alertRanker) BuildAlerts(memory *models.FinancialMemory) []models.Alert {
	alerts := make([]models.Alert, 0, len(memory.Alerts)+5)
	alerts = append(alerts, memory.Alerts...)

	if len(memory.OrderedMonthKeys) < minMonthsForFullAnalysis {
		alerts = append(alerts, models.Alert{
			Type:     models.AlertTypeInsufficientData,
			Severity: models.SeverityInfo,
			Message: fmt.Sprintf(
				"⚠️ Внимание: данных только за %d месяц(а/ев). Для качественного анализа рекомендуется минимум 3 месяца.",
				len(memory.OrderedMonthKeys)),
		})
	}

	if latestKey, latest := memory.LatestMonth(); latest != nil {
		alerts = append(alerts, r.latestMonthAlerts(latestKey, latest)...)
	}

	alerts = append(alerts, r.categoryGrowthAlerts(memory.Trends)...)

	sort.SliceStable(alerts, func(i, j int) bool {
		ri, rj := models.SeverityRank(alerts[i].Severity), models.SeverityRank(alerts[j].Severity)
		if ri != rj {
			return ri < rj
		}
		return alerts[i].Value.Abs().Cmp(alerts[j].Value.Abs()) > 0
	})

	if len(alerts) > maxAlerts {
		alerts = alerts[:maxAlerts]
	}
	return alerts
}

func (r *alertRanker) latestMonthAlerts(monthKey string, bucket *models.MonthBucket) []models.Alert {
	var alerts []models.Alert

	if bucket.ExpenseChangePct != nil && *bucket.ExpenseChangePct > expenseSpikeThresholdPct {
		alerts = append(alerts, models.Alert{
			Type:     models.AlertTypeExpenseSpike,
			Severity: models.SeverityHigh,
			Month:    monthKey,
			Message: fmt.Sprintf(
				"🚩 ALERT! Резкий рост расходов на %.1f%% в %s%s. Текущие расходы: %s",
				*bucket.ExpenseChangePct,
				monthPhrase(monthKey, true),
				topCategoryInfo(bucket.TopExpenseCategories),
				formatCurrency(bucket.ExpenseTotal)),
			Value:          bucket.ExpenseTotal,
			Recommendation: "Срочно проверить причины роста и оптимизировать бюджет",
		})
	}

	if bucket.IncomeChangePct != nil && *bucket.IncomeChangePct < incomeDropThresholdPct {
		alerts = append(alerts, models.Alert{
			Type:     models.AlertTypeIncomeDrop,
			Severity: models.SeverityHigh,
			Month:    monthKey,
			Message: fmt.Sprintf(
				"🚩 ALERT! Резкое падение доходов на %.1f%% в %s%s. Текущие доходы: %s",
				-*bucket.IncomeChangePct,
				monthPhrase(monthKey, true),
				topCategoryInfo(bucket.TopIncomeCategories),
				formatCurrency(bucket.IncomeTotal)),
			Value:          bucket.IncomeTotal,
			Recommendation: "Проанализировать причины падения и найти способы восстановления",
		})
	}

	if bucket.Balance.IsNegative() {
		alerts = append(alerts, models.Alert{
			Type:     models.AlertTypeNegativeBalance,
			Severity: models.SeverityCritical,
			Month:    monthKey,
			Message: fmt.Sprintf(
				"🚩 ALERT! Отрицательный баланс %s в %s. Расходы превышают доходы!",
				formatCurrency(bucket.Balance),
				monthPhrase(monthKey, true)),
			Value:          bucket.Balance,
			Recommendation: "КРИТИЧНО: немедленно сократить расходы или увеличить доходы",
		})
	}

	return alerts
}

func (r *alertRanker) categoryGrowthAlerts(trends *models.TrendSummary) []models.Alert {
	if trends == nil || !trends.HasEnoughData || len(trends.CategoryTrends) == 0 {
		return nil
	}

	categories := make([]string, 0, len(trends.CategoryTrends))
	for category := range trends.CategoryTrends {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	var alerts []models.Alert
	for _, category := range categories {
		trend := trends.CategoryTrends[category]
		if trend.Trend != models.TrendGrowth || trend.ChangePct <= categoryGrowthThresholdPct {
			continue
		}

		alerts = append(alerts, models.Alert{
			Type:     models.AlertTypeCategoryGrowth,
			Severity: models.SeverityMedium,
			Message: fmt.Sprintf(
				"🚩 ALERT! Категория '%s' выросла на %.1f%% за последние 3 месяца. Текущее значение: %s",
				category, trend.ChangePct, formatCurrency(trend.Latest)),
			Value:          trend.Latest,
			Category:       category,
			Recommendation: fmt.Sprintf("Проверить обоснованность роста расходов в категории \"%s\"", category),
		})
	}

	return alerts
}

func topCategoryInfo(top []models.CategoryAmount) string {
	if len(top) == 0 {
		return ""
	}
	return fmt.Sprintf(" (категория: %s, %s)", top[0].Category, formatCurrency(top[0].Amount))
}
