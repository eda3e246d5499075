package services

import (
	"math"
	"sort"

	"finmemory/internal/models"

	"github.com/shopspring/decimal"
)

const (
	// zeroVarianceEpsilon is the stdev floor below which a month's expense
	// amounts are treated as constant
	zeroVarianceEpsilon = 1e-6

	singleEventFactor     = 1.5
	constantAmountsFactor = 1.7
	deviationMultiplier   = 2.0
	medianGuardFactor     = 1.8
)

type anomalyDetector struct{}

// NewAnomalyDetector creates a new AnomalyDetectorInterface instance
func NewAnomalyDetector() AnomalyDetectorInterface {
	return &anomalyDetector{}
}

// DetectExpenseAnomalies flags unusually large expenses within one month.
// The threshold is mean + 2 stdev, raised to at least median * 1.8 so a
// single outlier cannot suppress its own detection by inflating the stdev.
// Results keep discovery order; callers re-sort globally by amount.
func (d *anomalyDetector) DetectExpenseAnomalies(events []models.ExpenseEvent) []models.AnomalyEvent {
	if len(events) == 0 {
		return nil
	}

	amounts := make([]float64, 0, len(events))
	for _, event := range events {
		amounts = append(amounts, event.Amount.InexactFloat64())
	}

	var meanVal, stdev, threshold float64
	if len(amounts) == 1 {
		meanVal = amounts[0]
		stdev = 0.0
		threshold = amounts[0] * singleEventFactor
	} else {
		meanVal = mean(amounts)
		stdev = populationStdev(amounts, meanVal)
		if stdev < zeroVarianceEpsilon {
			threshold = meanVal * constantAmountsFactor
		} else {
			threshold = meanVal + deviationMultiplier*stdev
		}
		threshold = math.Max(threshold, median(amounts)*medianGuardFactor)
	}

	var anomalies []models.AnomalyEvent
	for _, event := range events {
		amount := event.Amount.InexactFloat64()
		if amount < threshold || amount <= 0 {
			continue
		}

		var zScore *float64
		if stdev > zeroVarianceEpsilon {
			z := roundTo((amount-meanVal)/stdev, 2)
			zScore = &z
		}

		anomalies = append(anomalies, models.AnomalyEvent{
			SourceTransactionID: event.ID,
			Amount:              event.Amount,
			Category:            event.Category,
			Date:                event.Date,
			Description:         event.Description,
			ZScore:              zScore,
			Threshold:           decimal.NewFromFloat(roundTo(threshold, 2)),
			Mean:                decimal.NewFromFloat(roundTo(meanVal, 2)),
		})
	}

	return anomalies
}

func mean(values []float64) float64 {
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func populationStdev(values []float64, meanVal float64) float64 {
	sumSquares := 0.0
	for _, v := range values {
		diff := v - meanVal
		sumSquares += diff * diff
	}
	return math.Sqrt(sumSquares / float64(len(values)))
}

func median(values []float64) float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}
