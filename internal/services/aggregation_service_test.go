package services

import (
	"testing"
	"time"

	"finmemory/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type AggregationServiceTestSuite struct {
	suite.Suite
	service AggregationServiceInterface
	userID  uuid.UUID
}

func TestAggregationServiceSuite(t *testing.T) {
	suite.Run(t, new(AggregationServiceTestSuite))
}

func (s *AggregationServiceTestSuite) SetupTest() {
	s.service = NewAggregationService(NewAnomalyDetector(), NewTrendAnalyzer(), NewAlertRanker())
	s.userID = uuid.New()
}

func (s *AggregationServiceTestSuite) tx(kind string, amount float64, date time.Time, category string) models.Transaction {
	return models.Transaction{
		ID:       uuid.New(),
		UserID:   s.userID,
		Kind:     kind,
		Amount:   decimal.NewFromFloat(amount),
		Date:     date,
		Category: category,
	}
}

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 12, 0, 0, 0, time.UTC)
}

func (s *AggregationServiceTestSuite) TestCompute_EmptyLedger() {
	memory := s.service.ComputeFinancialMemory(nil)

	s.Require().NotNil(memory)
	s.Empty(memory.OrderedMonthKeys)
	s.Empty(memory.Months)
	s.Empty(memory.Alerts)
	s.Equal("Нет финансовых данных для анализа.", memory.SummaryText)
	s.Contains(memory.TableMarkdown, "| Месяц | Доходы | Расходы | Баланс |")
	s.Contains(memory.TableMarkdown, "| — | 0 | 0 | 0 | — | — | 0 | 0 | — | — |")
	s.Require().NotNil(memory.Trends)
	s.False(memory.Trends.HasEnoughData)
	s.False(memory.GeneratedAt.IsZero())
}

func (s *AggregationServiceTestSuite) TestCompute_SingleMonthTotals() {
	transactions := []models.Transaction{
		s.tx(models.KindIncome, 1000, day(2025, time.June, 3), "продажи"),
		s.tx(models.KindIncome, 500, day(2025, time.June, 10), "услуги"),
		s.tx(models.KindExpense, 300, day(2025, time.June, 15), "аренда"),
		s.tx(models.KindExpense, 200, day(2025, time.June, 20), "продукты"),
	}

	memory := s.service.ComputeFinancialMemory(transactions)

	s.Require().Equal([]string{"2025-06"}, memory.OrderedMonthKeys)
	bucket := memory.Months["2025-06"]
	s.Require().NotNil(bucket)

	s.True(bucket.IncomeTotal.Equal(decimal.NewFromInt(1500)))
	s.True(bucket.ExpenseTotal.Equal(decimal.NewFromInt(500)))
	s.True(bucket.Balance.Equal(decimal.NewFromInt(1000)))
	s.Equal(4, bucket.TransactionCount)
	s.Equal(2, bucket.IncomeCount)
	s.Equal(2, bucket.ExpenseCount)
	// (1500+500)/4
	s.True(bucket.AverageCheck.Equal(decimal.NewFromInt(500)))

	s.Nil(bucket.IncomeChangePct, "the first bucket has no previous month to compare against")
	s.Nil(bucket.ExpenseChangePct)
	s.Nil(bucket.BalanceChangePct)
}

func (s *AggregationServiceTestSuite) TestCompute_MonthKeysSortedRegardlessOfInputOrder() {
	transactions := []models.Transaction{
		s.tx(models.KindIncome, 100, day(2025, time.June, 1), "продажи"),
		s.tx(models.KindIncome, 100, day(2025, time.January, 1), "продажи"),
		s.tx(models.KindIncome, 100, day(2025, time.March, 1), "продажи"),
	}

	memory := s.service.ComputeFinancialMemory(transactions)

	s.Equal([]string{"2025-01", "2025-03", "2025-06"}, memory.OrderedMonthKeys)
}

func (s *AggregationServiceTestSuite) TestCompute_PctChangesAgainstPreviousMaterializedMonth() {
	// January and March only: March compares against January, the gap
	// month is never materialized
	transactions := []models.Transaction{
		s.tx(models.KindIncome, 100, day(2025, time.January, 5), "продажи"),
		s.tx(models.KindExpense, 50, day(2025, time.January, 6), "аренда"),
		s.tx(models.KindIncome, 200, day(2025, time.March, 5), "продажи"),
		s.tx(models.KindExpense, 25, day(2025, time.March, 6), "аренда"),
	}

	memory := s.service.ComputeFinancialMemory(transactions)

	s.Len(memory.OrderedMonthKeys, 2)
	s.NotContains(memory.Months, "2025-02")

	march := memory.Months["2025-03"]
	s.Require().NotNil(march.IncomeChangePct)
	s.InDelta(100.0, *march.IncomeChangePct, 0.001)
	s.Require().NotNil(march.ExpenseChangePct)
	s.InDelta(-50.0, *march.ExpenseChangePct, 0.001)
	s.Require().NotNil(march.BalanceChangePct)
	s.InDelta(250.0, *march.BalanceChangePct, 0.001)
}

func (s *AggregationServiceTestSuite) TestCompute_ZeroPreviousYieldsNilPct() {
	transactions := []models.Transaction{
		s.tx(models.KindExpense, 50, day(2025, time.January, 5), "аренда"),
		s.tx(models.KindIncome, 200, day(2025, time.February, 5), "продажи"),
	}

	memory := s.service.ComputeFinancialMemory(transactions)

	february := memory.Months["2025-02"]
	s.Nil(february.IncomeChangePct, "change from a zero base is undefined")
}

func (s *AggregationServiceTestSuite) TestCompute_BlankCategoryDefaulted() {
	transactions := []models.Transaction{
		s.tx(models.KindExpense, 50, day(2025, time.June, 5), ""),
		s.tx(models.KindExpense, 30, day(2025, time.June, 6), "   "),
	}

	memory := s.service.ComputeFinancialMemory(transactions)

	bucket := memory.Months["2025-06"]
	s.Require().Len(bucket.TopExpenseCategories, 1)
	s.Equal(models.DefaultCategory, bucket.TopExpenseCategories[0].Category)
	s.True(bucket.TopExpenseCategories[0].Amount.Equal(decimal.NewFromInt(80)))
}

func (s *AggregationServiceTestSuite) TestCompute_TopCategoriesLimitedToThree() {
	transactions := []models.Transaction{
		s.tx(models.KindExpense, 400, day(2025, time.June, 1), "аренда"),
		s.tx(models.KindExpense, 300, day(2025, time.June, 2), "зарплаты"),
		s.tx(models.KindExpense, 200, day(2025, time.June, 3), "маркетинг"),
		s.tx(models.KindExpense, 100, day(2025, time.June, 4), "связь"),
	}

	memory := s.service.ComputeFinancialMemory(transactions)

	top := memory.Months["2025-06"].TopExpenseCategories
	s.Require().Len(top, 3)
	s.Equal("аренда", top[0].Category)
	s.Equal("зарплаты", top[1].Category)
	s.Equal("маркетинг", top[2].Category)
}

func (s *AggregationServiceTestSuite) TestCompute_TopCategoryTiesKeepFirstSeenOrder() {
	transactions := []models.Transaction{
		s.tx(models.KindExpense, 100, day(2025, time.June, 1), "связь"),
		s.tx(models.KindExpense, 100, day(2025, time.June, 2), "аренда"),
	}

	memory := s.service.ComputeFinancialMemory(transactions)

	top := memory.Months["2025-06"].TopExpenseCategories
	s.Require().Len(top, 2)
	s.Equal("связь", top[0].Category)
	s.Equal("аренда", top[1].Category)
}

func (s *AggregationServiceTestSuite) TestCompute_TableRendersEveryMonth() {
	transactions := []models.Transaction{
		s.tx(models.KindIncome, 1000, day(2025, time.January, 5), "продажи"),
		s.tx(models.KindIncome, 2000, day(2025, time.February, 5), "продажи"),
	}

	memory := s.service.ComputeFinancialMemory(transactions)

	s.Contains(memory.TableMarkdown, "| 01.2025 |")
	s.Contains(memory.TableMarkdown, "| 02.2025 |")
	s.Contains(memory.TableMarkdown, "1 000")
	s.Contains(memory.TableMarkdown, "2 000")
	s.Contains(memory.TableMarkdown, "+100.0%")
}

func (s *AggregationServiceTestSuite) TestCompute_SummaryNamesRecordMonths() {
	transactions := []models.Transaction{
		s.tx(models.KindIncome, 1000, day(2025, time.January, 5), "продажи"),
		s.tx(models.KindIncome, 5000, day(2025, time.February, 5), "консалтинг"),
		s.tx(models.KindExpense, 700, day(2025, time.February, 10), "маркетинг"),
	}

	memory := s.service.ComputeFinancialMemory(transactions)

	s.Contains(memory.SummaryText, "рекорд по доходам — 5 000")
	s.Contains(memory.SummaryText, "Феврале 2025")
	s.Contains(memory.SummaryText, "пик расходов 700")
}

func (s *AggregationServiceTestSuite) TestCompute_AnomalySurfacesInBucketAndAlerts() {
	transactions := []models.Transaction{
		s.tx(models.KindIncome, 100000, day(2025, time.June, 1), "продажи"),
	}
	for i := 0; i < 8; i++ {
		transactions = append(transactions, s.tx(models.KindExpense, 100, day(2025, time.June, 2+i), "продукты"))
	}
	outlier := s.tx(models.KindExpense, 5000, day(2025, time.June, 20), "оборудование")
	transactions = append(transactions, outlier)

	memory := s.service.ComputeFinancialMemory(transactions)

	bucket := memory.Months["2025-06"]
	s.Require().Len(bucket.Anomalies, 1)
	s.Equal("2025-06", bucket.Anomalies[0].Month)
	s.Equal("оборудование", bucket.Anomalies[0].Category)
	s.Equal(outlier.ID, bucket.Anomalies[0].SourceTransactionID)

	s.Contains(memory.SummaryText, "Аномалия: 5 000 на оборудование")

	found := false
	for _, alert := range memory.Alerts {
		if alert.Type == models.AlertTypeExpenseAnomaly {
			found = true
			s.Contains(alert.Message, "5 000 на оборудование")
		}
	}
	s.True(found, "anomaly alerts must survive ranking")
}

func (s *AggregationServiceTestSuite) TestCompute_BucketAnomaliesKeepDiscoveryOrder() {
	var transactions []models.Transaction
	for i := 0; i < 18; i++ {
		transactions = append(transactions, s.tx(models.KindExpense, 100, day(2025, time.June, 1+i%28), "продукты"))
	}
	// Smaller outlier first: an amount-ranked list would reverse them.
	transactions = append(transactions,
		s.tx(models.KindExpense, 1400, day(2025, time.June, 25), "оборудование"),
		s.tx(models.KindExpense, 1500, day(2025, time.June, 28), "маркетинг"),
	)

	memory := s.service.ComputeFinancialMemory(transactions)

	bucket := memory.Months["2025-06"]
	s.Require().Len(bucket.Anomalies, 2)
	s.Equal("оборудование", bucket.Anomalies[0].Category)
	s.Equal("маркетинг", bucket.Anomalies[1].Category)

	// The cross-month view is still ranked by amount, largest first.
	s.Contains(memory.SummaryText, "Аномалия: 1 500 на маркетинг")
}

func (s *AggregationServiceTestSuite) TestCompute_ThreeStableMonthsProduceNoAlerts() {
	var transactions []models.Transaction
	for m := time.April; m <= time.June; m++ {
		transactions = append(transactions,
			s.tx(models.KindIncome, 1000, day(2025, m, 5), "продажи"),
			s.tx(models.KindExpense, 400, day(2025, m, 10), "аренда"),
		)
	}

	memory := s.service.ComputeFinancialMemory(transactions)

	s.Len(memory.OrderedMonthKeys, 3)
	s.Empty(memory.Alerts)
	s.True(memory.Trends.HasEnoughData)
}
