package services

import (
	"math/rand"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"finmemory/internal/models"
)

const (
	minExpensesPerMonth = 8
	maxExpensesPerMonth = 25
	minIncomesPerMonth  = 1
	maxIncomesPerMonth  = 4
)

var expenseCategoryPool = []string{
	"аренда", "продукты", "транспорт", "маркетинг", "зарплаты",
	"коммунальные", "связь", "оборудование", "развлечения", "прочее",
}

var incomeCategoryPool = []string{
	"продажи", "услуги", "консалтинг", "подписки", "прочее",
}

var expenseRanges = map[string][2]float64{
	"аренда":       {30000, 80000},
	"продукты":     {500, 8000},
	"транспорт":    {200, 3000},
	"маркетинг":    {2000, 40000},
	"зарплаты":     {40000, 150000},
	"коммунальные": {3000, 12000},
	"связь":        {500, 3000},
	"оборудование": {1000, 60000},
	"развлечения":  {300, 5000},
	"прочее":       {100, 10000},
}

type transactionGenerator struct {
	faker *gofakeit.Faker
	rng   *rand.Rand
}

// NewTransactionGenerator creates a new demo data generator
func NewTransactionGenerator(seed uint64) TransactionGeneratorInterface {
	return &transactionGenerator{
		faker: gofakeit.New(seed),
		rng:   rand.New(rand.NewSource(int64(seed))),
	}
}

// GenerateHistory produces a plausible transaction history for a user
// covering monthsBack whole months up to and including the current one.
func (g *transactionGenerator) GenerateHistory(userID uuid.UUID, monthsBack int) []models.Transaction {
	if monthsBack <= 0 {
		return []models.Transaction{}
	}

	now := time.Now().UTC()
	var transactions []models.Transaction

	for offset := monthsBack - 1; offset >= 0; offset-- {
		monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -offset, 0)
		transactions = append(transactions, g.generateMonth(userID, monthStart)...)
	}

	return transactions
}

func (g *transactionGenerator) generateMonth(userID uuid.UUID, monthStart time.Time) []models.Transaction {
	var transactions []models.Transaction

	incomes := minIncomesPerMonth + g.rng.Intn(maxIncomesPerMonth-minIncomesPerMonth+1)
	for i := 0; i < incomes; i++ {
		category := incomeCategoryPool[g.rng.Intn(len(incomeCategoryPool))]
		transactions = append(transactions, models.Transaction{
			ID:          uuid.New(),
			UserID:      userID,
			Kind:        models.KindIncome,
			Amount:      decimal.NewFromFloat(g.faker.Float64Range(50000, 400000)).Round(2),
			Date:        g.dayInMonth(monthStart),
			Category:    category,
			Description: g.faker.Sentence(4),
		})
	}

	expenses := minExpensesPerMonth + g.rng.Intn(maxExpensesPerMonth-minExpensesPerMonth+1)
	for i := 0; i < expenses; i++ {
		category := expenseCategoryPool[g.rng.Intn(len(expenseCategoryPool))]
		bounds := expenseRanges[category]
		transactions = append(transactions, models.Transaction{
			ID:          uuid.New(),
			UserID:      userID,
			Kind:        models.KindExpense,
			Amount:      decimal.NewFromFloat(g.faker.Float64Range(bounds[0], bounds[1])).Round(2),
			Date:        g.dayInMonth(monthStart),
			Category:    category,
			Description: g.faker.Sentence(4),
		})
	}

	return transactions
}

// dayInMonth picks a day within the first 28 so every month length works.
func (g *transactionGenerator) dayInMonth(monthStart time.Time) time.Time {
	day := 1 + g.rng.Intn(28)
	return time.Date(monthStart.Year(), monthStart.Month(), day, 12, 0, 0, 0, time.UTC)
}
