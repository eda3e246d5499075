package services

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"finmemory/internal/models"
)

const (
	categoryShareThreshold = 0.4
	incomeDropRatio        = 0.9
	comparisonWindow       = 3
)

type recommendationService struct{}

// NewRecommendationService creates a new RecommendationServiceInterface instance
func NewRecommendationService() RecommendationServiceInterface {
	return &recommendationService{}
}

// BuildRecommendations produces rule-based textual advice: oversized expense
// categories, a sustained income decline, or a stability note when neither
// rule fires.
func (s *recommendationService) BuildRecommendations(transactions []models.Transaction) []string {
	var recs []string

	recs = append(recs, s.categoryRecommendations(transactions)...)

	if s.incomeDeclined(transactions) {
		recs = append(recs, "Замечено снижение доходов. Усильте продажи/маркетинг и проработайте воронку.")
	}

	if len(recs) == 0 {
		recs = append(recs, "Финансовые показатели стабильны. Продолжайте действующие практики и мониторинг.")
	}
	return recs
}

func (s *recommendationService) categoryRecommendations(transactions []models.Transaction) []string {
	totalExpense := decimal.Zero
	byCat := make(map[string]decimal.Decimal)
	var order []string

	for _, tx := range transactions {
		if tx.Kind != models.KindExpense {
			continue
		}
		totalExpense = totalExpense.Add(tx.Amount)
		if _, seen := byCat[tx.Category]; !seen {
			order = append(order, tx.Category)
		}
		byCat[tx.Category] = byCat[tx.Category].Add(tx.Amount)
	}

	if !totalExpense.IsPositive() {
		return nil
	}

	sort.SliceStable(order, func(i, j int) bool {
		return byCat[order[i]].Cmp(byCat[order[j]]) > 0
	})

	threshold := decimal.NewFromFloat(categoryShareThreshold)
	var recs []string
	for _, cat := range order {
		if byCat[cat].Div(totalExpense).Cmp(threshold) > 0 {
			recs = append(recs, fmt.Sprintf(
				"Слишком высокие расходы по категории '%s'. Рассмотрите оптимизацию затрат.", cat))
		}
	}
	return recs
}

// incomeDeclined compares the average income of the last three months with
// the three months before — a drop of more than 10% counts as a decline.
// Needs at least six months of income data.
func (s *recommendationService) incomeDeclined(transactions []models.Transaction) bool {
	byMonth := make(map[string]float64)
	for _, tx := range transactions {
		if tx.Kind != models.KindIncome {
			continue
		}
		amount, _ := tx.Amount.Float64()
		byMonth[tx.MonthKey()] += amount
	}

	if len(byMonth) < comparisonWindow*2 {
		return false
	}

	keys := make([]string, 0, len(byMonth))
	for mk := range byMonth {
		keys = append(keys, mk)
	}
	sort.Strings(keys)

	recent := windowAverage(byMonth, keys[len(keys)-comparisonWindow:])
	previous := windowAverage(byMonth, keys[len(keys)-comparisonWindow*2:len(keys)-comparisonWindow])

	return recent < previous*incomeDropRatio
}

func windowAverage(byMonth map[string]float64, keys []string) float64 {
	var sum float64
	for _, mk := range keys {
		sum += byMonth[mk]
	}
	return sum / float64(len(keys))
}
