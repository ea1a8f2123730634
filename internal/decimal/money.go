package decimal

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Zero is decimal zero
var Zero = decimal.Zero

// FromInt creates decimal from int
func FromInt(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

// FromFloat creates decimal from float
func FromFloat(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v)
}

// FromString parses decimal from string
func FromString(s string) (decimal.Decimal, error) {
	return decimal.NewFromString(s)
}

// MustFromString parses decimal from string, panics on error
func MustFromString(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// ParseBR parses a number written with a decimal comma ("1500,50").
// Only the comma is swapped for a dot; thousands separators are NOT
// stripped, so "1.500,50" becomes "1.500.50" and fails to parse.
// Unparseable input yields zero, matching the lenient document reads.
func ParseBR(s string) decimal.Decimal {
	s = strings.TrimSpace(s)
	if s == "" {
		return Zero
	}
	s = strings.ReplaceAll(s, ",", ".")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Zero
	}
	return d
}

// Round2 rounds to 2 places, the precision of every charge and difference.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// Max returns the larger of two decimals
func Max(a, b decimal.Decimal) decimal.Decimal {
	if a.GreaterThanOrEqual(b) {
		return a
	}
	return b
}

// Sum sums a slice of decimals
func Sum(values []decimal.Decimal) decimal.Decimal {
	result := Zero
	for _, v := range values {
		result = result.Add(v)
	}
	return result
}

// CeilBands returns how many complete-or-partial bands of the given
// size the value spans: CeilBands(250, 100) = 3, CeilBands(0, 100) = 0.
func CeilBands(value, bandSize decimal.Decimal) int64 {
	if bandSize.IsZero() || !value.IsPositive() {
		return 0
	}
	return value.Div(bandSize).Ceil().IntPart()
}

// IsPositive returns true if decimal is greater than zero
func IsPositive(d decimal.Decimal) bool {
	return d.GreaterThan(Zero)
}
