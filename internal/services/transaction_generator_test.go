package services

import (
	"testing"

	"finmemory/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

type TransactionGeneratorTestSuite struct {
	suite.Suite
	userID uuid.UUID
}

func TestTransactionGeneratorSuite(t *testing.T) {
	suite.Run(t, new(TransactionGeneratorTestSuite))
}

func (s *TransactionGeneratorTestSuite) SetupTest() {
	s.userID = uuid.New()
}

func (s *TransactionGeneratorTestSuite) TestGenerateHistory_CoversRequestedMonths() {
	generator := NewTransactionGenerator(42)

	transactions := generator.GenerateHistory(s.userID, 6)

	s.NotEmpty(transactions)

	monthsSeen := make(map[string]bool)
	for _, tx := range transactions {
		monthsSeen[tx.MonthKey()] = true
	}
	s.Len(monthsSeen, 6)
}

func (s *TransactionGeneratorTestSuite) TestGenerateHistory_ValidRecords() {
	generator := NewTransactionGenerator(42)

	transactions := generator.GenerateHistory(s.userID, 3)

	incomes, expenses := 0, 0
	for _, tx := range transactions {
		s.Equal(s.userID, tx.UserID)
		s.NotEqual(uuid.Nil, tx.ID)
		s.True(tx.Amount.IsPositive())
		s.NotEmpty(tx.Category)
		s.False(tx.Date.IsZero())
		s.LessOrEqual(tx.Date.Day(), 28)

		switch tx.Kind {
		case models.KindIncome:
			incomes++
		case models.KindExpense:
			expenses++
		default:
			s.Failf("unexpected kind", "kind %q", tx.Kind)
		}
	}

	// each month gets 1-4 incomes and 8-25 expenses
	s.GreaterOrEqual(incomes, 3)
	s.LessOrEqual(incomes, 12)
	s.GreaterOrEqual(expenses, 24)
	s.LessOrEqual(expenses, 75)
}

func (s *TransactionGeneratorTestSuite) TestGenerateHistory_ExpenseAmountsRespectCategoryRanges() {
	generator := NewTransactionGenerator(7)

	transactions := generator.GenerateHistory(s.userID, 4)

	for _, tx := range transactions {
		if tx.Kind != models.KindExpense {
			continue
		}
		bounds, ok := expenseRanges[tx.Category]
		s.Require().True(ok, "unknown expense category %q", tx.Category)
		amount := tx.Amount.InexactFloat64()
		s.GreaterOrEqual(amount, bounds[0])
		s.LessOrEqual(amount, bounds[1])
	}
}

func (s *TransactionGeneratorTestSuite) TestGenerateHistory_DeterministicForSeed() {
	a := NewTransactionGenerator(99).GenerateHistory(s.userID, 3)
	b := NewTransactionGenerator(99).GenerateHistory(s.userID, 3)

	s.Require().Equal(len(a), len(b))
	for i := range a {
		s.Equal(a[i].Kind, b[i].Kind)
		s.True(a[i].Amount.Equal(b[i].Amount))
		s.Equal(a[i].Category, b[i].Category)
		s.Equal(a[i].Date, b[i].Date)
	}
}

func (s *TransactionGeneratorTestSuite) TestGenerateHistory_NonPositiveMonths() {
	generator := NewTransactionGenerator(1)

	s.Empty(generator.GenerateHistory(s.userID, 0))
	s.Empty(generator.GenerateHistory(s.userID, -3))
}
