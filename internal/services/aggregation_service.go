package services

import (
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"finmemory/internal/models"
)

const (
	topCategoriesPerMonth = 3
	maxAnomalyAlerts      = 10
)

// monthAccumulator collects raw per-month figures before they are folded
// into a MonthBucket. Category maps keep insertion order in catOrder so
// ties resolve the same way on every recompute.
type monthAccumulator struct {
	incomeTotal   decimal.Decimal
	expenseTotal  decimal.Decimal
	incomeCount   int
	expenseCount  int
	incomeByCat   map[string]decimal.Decimal
	expenseByCat  map[string]decimal.Decimal
	incomeOrder   []string
	expenseOrder  []string
	expenseEvents []models.ExpenseEvent
}

func newMonthAccumulator() *monthAccumulator {
	return &monthAccumulator{
		incomeByCat:  make(map[string]decimal.Decimal),
		expenseByCat: make(map[string]decimal.Decimal),
	}
}

type aggregationService struct {
	detector AnomalyDetectorInterface
	trends   TrendAnalyzerInterface
	ranker   AlertRankerInterface
}

// NewAggregationService creates a new AggregationServiceInterface instance
func NewAggregationService(detector AnomalyDetectorInterface, trends TrendAnalyzerInterface, ranker AlertRankerInterface) AggregationServiceInterface {
	return &aggregationService{
		detector: detector,
		trends:   trends,
		ranker:   ranker,
	}
}

// ComputeFinancialMemory folds the user's transactions into monthly buckets
// and derives the full snapshot: totals, top categories, month-over-month
// changes, anomalies, trends, the markdown table, the text summary and the
// ranked alert list.
func (s *aggregationService) ComputeFinancialMemory(transactions []models.Transaction) *models.FinancialMemory {
	accumulators := make(map[string]*monthAccumulator)

	for _, tx := range transactions {
		mk := tx.MonthKey()
		acc, ok := accumulators[mk]
		if !ok {
			acc = newMonthAccumulator()
			accumulators[mk] = acc
		}

		category := tx.Category
		if strings.TrimSpace(category) == "" {
			category = models.DefaultCategory
		}

		switch tx.Kind {
		case models.KindIncome:
			acc.incomeTotal = acc.incomeTotal.Add(tx.Amount)
			acc.incomeCount++
			if _, seen := acc.incomeByCat[category]; !seen {
				acc.incomeOrder = append(acc.incomeOrder, category)
			}
			acc.incomeByCat[category] = acc.incomeByCat[category].Add(tx.Amount)
		case models.KindExpense:
			acc.expenseTotal = acc.expenseTotal.Add(tx.Amount)
			acc.expenseCount++
			if _, seen := acc.expenseByCat[category]; !seen {
				acc.expenseOrder = append(acc.expenseOrder, category)
			}
			acc.expenseByCat[category] = acc.expenseByCat[category].Add(tx.Amount)
			acc.expenseEvents = append(acc.expenseEvents, models.ExpenseEvent{
				ID:          tx.ID,
				Amount:      tx.Amount,
				Category:    category,
				Date:        tx.Date.Format("2006-01-02"),
				Description: tx.Description,
			})
		}
	}

	orderedKeys := make([]string, 0, len(accumulators))
	for mk := range accumulators {
		orderedKeys = append(orderedKeys, mk)
	}
	sort.Strings(orderedKeys)

	months := make(map[string]*models.MonthBucket, len(accumulators))
	var globalAnomalies []models.AnomalyEvent
	var prevIncome, prevExpense *decimal.Decimal

	for _, mk := range orderedKeys {
		acc := accumulators[mk]
		bucket := &models.MonthBucket{
			IncomeTotal:      acc.incomeTotal,
			ExpenseTotal:     acc.expenseTotal,
			Balance:          acc.incomeTotal.Sub(acc.expenseTotal),
			TransactionCount: acc.incomeCount + acc.expenseCount,
			IncomeCount:      acc.incomeCount,
			ExpenseCount:     acc.expenseCount,
		}

		if bucket.TransactionCount > 0 {
			turnover := acc.incomeTotal.Add(acc.expenseTotal)
			bucket.AverageCheck = turnover.Div(decimal.NewFromInt(int64(bucket.TransactionCount))).Round(2)
		}

		bucket.TopIncomeCategories = topCategories(acc.incomeByCat, acc.incomeOrder)
		bucket.TopExpenseCategories = topCategories(acc.expenseByCat, acc.expenseOrder)

		// The bucket keeps its anomalies in discovery order; only the
		// cross-month list below is ranked by amount.
		anomalies := s.detector.DetectExpenseAnomalies(acc.expenseEvents)
		for i := range anomalies {
			anomalies[i].Month = mk
		}
		bucket.Anomalies = anomalies
		globalAnomalies = append(globalAnomalies, anomalies...)

		bucket.IncomeChangePct = computePctChange(acc.incomeTotal, prevIncome)
		bucket.ExpenseChangePct = computePctChange(acc.expenseTotal, prevExpense)
		var prevBalance *decimal.Decimal
		if prevIncome != nil && prevExpense != nil {
			b := prevIncome.Sub(*prevExpense)
			prevBalance = &b
		}
		bucket.BalanceChangePct = computePctChange(bucket.Balance, prevBalance)

		inc, exp := acc.incomeTotal, acc.expenseTotal
		prevIncome, prevExpense = &inc, &exp

		months[mk] = bucket
	}

	sort.SliceStable(globalAnomalies, func(i, j int) bool {
		return globalAnomalies[i].Amount.Cmp(globalAnomalies[j].Amount) > 0
	})

	memory := &models.FinancialMemory{
		GeneratedAt:      time.Now().UTC(),
		OrderedMonthKeys: orderedKeys,
		Months:           months,
		TableMarkdown:    buildTableMarkdown(orderedKeys, months),
		SummaryText:      buildTextSummary(orderedKeys, months, globalAnomalies),
		Trends:           s.trends.AnalyzeTrends(orderedKeys, months),
		Alerts:           anomalyAlerts(globalAnomalies),
	}

	// An empty ledger yields an empty alert list; the rule set only runs
	// once at least one month of data exists.
	if len(orderedKeys) > 0 {
		memory.Alerts = s.ranker.BuildAlerts(memory)
	}

	slog.Info("financial memory computed",
		"months", len(orderedKeys),
		"transactions", len(transactions),
		"anomalies", len(globalAnomalies),
		"alerts", len(memory.Alerts))

	return memory
}

func topCategories(byCat map[string]decimal.Decimal, order []string) []models.CategoryAmount {
	entries := make([]models.CategoryAmount, 0, len(order))
	for _, cat := range order {
		entries = append(entries, models.CategoryAmount{Category: cat, Amount: byCat[cat]})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Amount.Cmp(entries[j].Amount) > 0
	})
	if len(entries) > topCategoriesPerMonth {
		entries = entries[:topCategoriesPerMonth]
	}
	for i := range entries {
		entries[i].Amount = entries[i].Amount.Round(2)
	}
	return entries
}

func anomalyAlerts(anomalies []models.AnomalyEvent) []models.Alert {
	limit := len(anomalies)
	if limit > maxAnomalyAlerts {
		limit = maxAnomalyAlerts
	}

	alerts := make([]models.Alert, 0, limit)
	for _, anomaly := range anomalies[:limit] {
		description := anomaly.Description
		if description == "" {
			description = "без описания"
		}
		alerts = append(alerts, models.Alert{
			Type:     models.AlertTypeExpenseAnomaly,
			Severity: models.SeverityInfo,
			Month:    anomaly.Month,
			Category: anomaly.Category,
			Value:    anomaly.Amount,
			Date:     anomaly.Date,
			Message: monthPhrase(anomaly.Month, true) + ": " +
				formatCurrency(anomaly.Amount) + " на " + anomaly.Category +
				" (" + description + ")",
		})
	}
	return alerts
}

func buildTableMarkdown(orderedKeys []string, months map[string]*models.MonthBucket) string {
	var b strings.Builder
	b.WriteString("| Месяц | Доходы | Расходы | Баланс | Катег. доход | Катег. расход | Средний чек | Транзакций | Изм. доход | Изм. расход |")
	b.WriteString("\n|---|---|---|---|---|---|---|---|---|---|")

	if len(orderedKeys) == 0 {
		b.WriteString("\n| — | 0 | 0 | 0 | — | — | 0 | 0 | — | — |")
		return b.String()
	}

	for _, mk := range orderedKeys {
		bucket := months[mk]

		b.WriteString("\n| ")
		b.WriteString(monthCell(mk))
		b.WriteString(" | ")
		b.WriteString(formatCurrency(bucket.IncomeTotal))
		b.WriteString(" | ")
		b.WriteString(formatCurrency(bucket.ExpenseTotal))
		b.WriteString(" | ")
		b.WriteString(formatCurrency(bucket.Balance))
		b.WriteString(" | ")
		b.WriteString(categoryCell(bucket.TopIncomeCategories))
		b.WriteString(" | ")
		b.WriteString(categoryCell(bucket.TopExpenseCategories))
		b.WriteString(" | ")
		if bucket.AverageCheck.IsZero() {
			b.WriteString("0")
		} else {
			b.WriteString(formatCurrency(bucket.AverageCheck))
		}
		b.WriteString(" | ")
		b.WriteString(strconv.Itoa(bucket.TransactionCount))
		b.WriteString(" | ")
		b.WriteString(pctCell(bucket.IncomeChangePct))
		b.WriteString(" | ")
		b.WriteString(pctCell(bucket.ExpenseChangePct))
		b.WriteString(" |")
	}

	return b.String()
}

// monthCell renders a YYYY-MM key as the MM.YYYY table label
func monthCell(monthKey string) string {
	parts := strings.SplitN(monthKey, "-", 2)
	if len(parts) != 2 {
		return monthKey
	}
	return parts[1] + "." + parts[0]
}

func pctCell(pct *float64) string {
	if pct == nil {
		return "—"
	}
	return fmt.Sprintf("%+.1f%%", *pct)
}

func categoryCell(top []models.CategoryAmount) string {
	if len(top) == 0 {
		return "—"
	}
	parts := make([]string, 0, len(top))
	for _, item := range top {
		parts = append(parts, item.Category+" ("+formatCurrency(item.Amount)+")")
	}
	return strings.Join(parts, ", ")
}

func buildTextSummary(orderedKeys []string, months map[string]*models.MonthBucket, anomalies []models.AnomalyEvent) string {
	if len(orderedKeys) == 0 {
		return "Нет финансовых данных для анализа."
	}

	var sentences []string

	maxIncomeKey := orderedKeys[0]
	maxExpenseKey := orderedKeys[0]
	for _, mk := range orderedKeys[1:] {
		if months[mk].IncomeTotal.Cmp(months[maxIncomeKey].IncomeTotal) > 0 {
			maxIncomeKey = mk
		}
		if months[mk].ExpenseTotal.Cmp(months[maxExpenseKey].ExpenseTotal) > 0 {
			maxExpenseKey = mk
		}
	}

	if months[maxIncomeKey].IncomeTotal.IsPositive() {
		catPart := ""
		if cats := categoryNames(months[maxIncomeKey].TopIncomeCategories, 2); len(cats) > 0 {
			catPart = " за счёт " + strings.Join(cats, ", ")
		}
		sentences = append(sentences,
			"В "+monthPhrase(maxIncomeKey, true)+" рекорд по доходам — "+
				formatCurrency(months[maxIncomeKey].IncomeTotal)+catPart+".")
	}

	if months[maxExpenseKey].ExpenseTotal.IsPositive() {
		catPart := ""
		if cats := categoryNames(months[maxExpenseKey].TopExpenseCategories, 2); len(cats) > 0 {
			catPart = " (категории: " + strings.Join(cats, ", ") + ")"
		}
		sentences = append(sentences,
			monthPhrase(maxExpenseKey, true)+" — пик расходов "+
				formatCurrency(months[maxExpenseKey].ExpenseTotal)+catPart+".")
	}

	if mk, pct, ok := extremeChange(orderedKeys, months, incomeChange, false); ok && pct < 0 {
		sentences = append(sentences,
			fmt.Sprintf("Доходы просели на %.1f%% в %s.", -pct, monthPhrase(mk, true)))
	}

	if mk, pct, ok := extremeChange(orderedKeys, months, expenseChange, true); ok && pct > 0 {
		sentences = append(sentences,
			fmt.Sprintf("Расходы выросли на %.1f%% в %s.", pct, monthPhrase(mk, true)))
	}

	if len(anomalies) > 0 {
		top := anomalies[0]
		sentences = append(sentences,
			"Аномалия: "+formatCurrency(top.Amount)+" на "+top.Category+" ("+top.Date+").")
	}

	if len(sentences) == 0 {
		return "Данные стабильны, явных отклонений не обнаружено."
	}
	return strings.Join(sentences, " ")
}

func categoryNames(top []models.CategoryAmount, limit int) []string {
	if len(top) > limit {
		top = top[:limit]
	}
	names := make([]string, 0, len(top))
	for _, item := range top {
		names = append(names, item.Category)
	}
	return names
}

func incomeChange(b *models.MonthBucket) *float64  { return b.IncomeChangePct }
func expenseChange(b *models.MonthBucket) *float64 { return b.ExpenseChangePct }

// extremeChange returns the month with the smallest (or, when pickMax is
// set, the largest) month-over-month change among months that have one.
func extremeChange(orderedKeys []string, months map[string]*models.MonthBucket, field func(*models.MonthBucket) *float64, pickMax bool) (string, float64, bool) {
	var bestKey string
	var bestValue float64
	found := false
	for _, mk := range orderedKeys {
		pct := field(months[mk])
		if pct == nil {
			continue
		}
		if !found || (pickMax && *pct > bestValue) || (!pickMax && *pct < bestValue) {
			bestKey, bestValue, found = mk, *pct, true
		}
	}
	return bestKey, bestValue, found
}
