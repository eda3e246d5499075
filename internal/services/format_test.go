package services

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type FormatTestSuite struct {
	suite.Suite
}

func TestFormatSuite(t *testing.T) {
	suite.Run(t, new(FormatTestSuite))
}

func (s *FormatTestSuite) TestFormatCurrency() {
	testCases := []struct {
		name     string
		value    decimal.Decimal
		expected string
	}{
		{"zero", decimal.Zero, "0"},
		{"small integer", decimal.NewFromInt(300), "300"},
		{"thousands separator", decimal.NewFromInt(15250), "15 250"},
		{"millions", decimal.NewFromInt(1234567), "1 234 567"},
		{"trailing zeros stripped", decimal.NewFromFloat(15250.50), "15 250.5"},
		{"two decimals kept", decimal.NewFromFloat(99.99), "99.99"},
		{"negative", decimal.NewFromInt(-300), "-300"},
		{"negative with fraction", decimal.NewFromFloat(-1500.25), "-1 500.25"},
		{"rounded to cents", decimal.NewFromFloat(10.999), "11"},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			s.Equal(tc.expected, formatCurrency(tc.value))
		})
	}
}

func (s *FormatTestSuite) TestMonthPhrase() {
	s.Equal("Март 2026", monthPhrase("2026-03", false))
	s.Equal("Марте 2026", monthPhrase("2026-03", true))
	s.Equal("Январь 2025", monthPhrase("2025-01", false))
	s.Equal("Декабре 2024", monthPhrase("2024-12", true))
}

func (s *FormatTestSuite) TestMonthPhrase_UnparsableKeyFallsBack() {
	s.Equal("garbage", monthPhrase("garbage", false))
	s.Equal("2025", monthPhrase("2025", true))
}

func (s *FormatTestSuite) TestComputePctChange() {
	dec := decimal.NewFromInt

	s.Nil(computePctChange(dec(100), nil), "no previous bucket")

	prevZero := decimal.Zero
	s.Nil(computePctChange(dec(100), &prevZero), "growth from zero is undefined")

	zeroToZero := computePctChange(decimal.Zero, &prevZero)
	s.Require().NotNil(zeroToZero)
	s.Zero(*zeroToZero)

	prev := dec(200)
	change := computePctChange(dec(300), &prev)
	s.Require().NotNil(change)
	s.InDelta(50.0, *change, 0.001)

	drop := computePctChange(dec(100), &prev)
	s.Require().NotNil(drop)
	s.InDelta(-50.0, *drop, 0.001)
}

func (s *FormatTestSuite) TestRoundTo() {
	s.InDelta(2.65, roundTo(2.6457, 2), 1e-9)
	s.InDelta(-1.5, roundTo(-1.499, 1), 1e-9)
	s.InDelta(100, roundTo(99.999, 2), 0.01)
}
