package services

import (
	"math"
	"strconv"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// monthLabels maps month numbers to Russian names: nominative and
// prepositional case, both lowercase.
var monthLabels = map[int][2]string{
	1:  {"январь", "январе"},
	2:  {"февраль", "феврале"},
	3:  {"март", "марте"},
	4:  {"апрель", "апреле"},
	5:  {"май", "мае"},
	6:  {"июнь", "июне"},
	7:  {"июль", "июле"},
	8:  {"август", "августе"},
	9:  {"сентябрь", "сентябре"},
	10: {"октябрь", "октябре"},
	11: {"ноябрь", "ноябре"},
	12: {"декабрь", "декабре"},
}

// monthPhrase renders a YYYY-MM key as a human-readable Russian phrase,
// e.g. "Март 2026". Falls back to "MM.YYYY" for unparsable keys.
func monthPhrase(monthKey string, prepositional bool) string {
	year, month, ok := splitMonthKey(monthKey)
	if !ok {
		return monthKey
	}

	names, found := monthLabels[month]
	if !found {
		return strings.Split(monthKey, "-")[1] + "." + strings.Split(monthKey, "-")[0]
	}

	idx := 0
	if prepositional {
		idx = 1
	}
	return capitalize(names[idx]) + " " + strconv.Itoa(year)
}

func splitMonthKey(monthKey string) (year, month int, ok bool) {
	parts := strings.Split(monthKey, "-")
	if len(parts) != 2 {
		return 0, 0, false
	}

	year, errY := strconv.Atoi(parts[0])
	month, errM := strconv.Atoi(parts[1])
	if errY != nil || errM != nil {
		return 0, 0, false
	}
	return year, month, true
}

func capitalize(s string) string {
	runes := []rune(s)
	if len(runes) == 0 {
		return s
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

// formatCurrency renders an amount with a space as thousands separator and
// trailing zeros stripped from the fractional part: 15250.50 -> "15 250.5".
func formatCurrency(value decimal.Decimal) string {
	rounded := value.Round(2)
	sign := ""
	if rounded.IsNegative() {
		sign = "-"
	}

	fixed := rounded.Abs().StringFixed(2)
	dot := strings.Index(fixed, ".")
	integerPart := fixed[:dot]
	fractional := strings.TrimRight(fixed[dot+1:], "0")

	var b strings.Builder
	b.WriteString(sign)
	for i, digit := range integerPart {
		if i > 0 && (len(integerPart)-i)%3 == 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(digit)
	}

	if fractional != "" {
		b.WriteByte('.')
		b.WriteString(fractional)
	}
	return b.String()
}

// roundTo rounds to the given number of decimal places
func roundTo(value float64, places int) float64 {
	factor := math.Pow(10, float64(places))
	return math.Round(value*factor) / factor
}

// computePctChange returns the percent delta against the previous period.
// nil previous means no prior bucket exists; a zero previous with a nonzero
// current has no defined percent change, never infinity.
func computePctChange(current decimal.Decimal, previous *decimal.Decimal) *float64 {
	if previous == nil {
		return nil
	}

	if previous.IsZero() {
		if current.IsZero() {
			zero := 0.0
			return &zero
		}
		return nil
	}

	change := roundTo(current.Sub(*previous).InexactFloat64()/previous.InexactFloat64()*100, 2)
	return &change
}
