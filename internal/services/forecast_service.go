package services

import (
	"sort"

	"github.com/shopspring/decimal"

	"finmemory/internal/models"
)

type forecastService struct{}

// NewForecastService creates a new ForecastServiceInterface instance
func NewForecastService() ForecastServiceInterface {
	return &forecastService{}
}

// ForecastNextMonthProfit fits an ordinary least-squares line through the
// monthly profit series and extrapolates one month ahead. Returns nil when
// there are no transactions; with a single month the forecast is that
// month's profit.
func (s *forecastService) ForecastNextMonthProfit(transactions []models.Transaction) *decimal.Decimal {
	byMonth := make(map[string]float64)
	for _, tx := range transactions {
		amount, _ := tx.Amount.Float64()
		switch tx.Kind {
		case models.KindIncome:
			byMonth[tx.MonthKey()] += amount
		case models.KindExpense:
			byMonth[tx.MonthKey()] -= amount
		}
	}

	if len(byMonth) == 0 {
		return nil
	}

	keys := make([]string, 0, len(byMonth))
	for mk := range byMonth {
		keys = append(keys, mk)
	}
	sort.Strings(keys)

	profits := make([]float64, len(keys))
	for i, mk := range keys {
		profits[i] = byMonth[mk]
	}

	if len(profits) == 1 {
		result := decimal.NewFromFloat(roundTo(profits[0], 2))
		return &result
	}

	slope, intercept := linearFit(profits)
	predicted := intercept + slope*float64(len(profits))

	result := decimal.NewFromFloat(roundTo(predicted, 2))
	return &result
}

// linearFit computes least-squares slope and intercept for y over
// x = 0, 1, ..., len(y)-1.
func linearFit(y []float64) (slope, intercept float64) {
	n := float64(len(y))
	var sumX, sumY, sumXY, sumXX float64
	for i, v := range y {
		x := float64(i)
		sumX += x
		sumY += v
		sumXY += x * v
		sumXX += x * x
	}

	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return 0, sumY / n
	}
	slope = (n*sumXY - sumX*sumY) / denom
	intercept = (sumY - slope*sumX) / n
	return slope, intercept
}
