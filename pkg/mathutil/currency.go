// Package mathutil provides common mathematical utility functions.
package mathutil

import (
	"math"

	"github.com/iwvelando/mortgage-calculator/pkg/constants"
)

// Round rounds a value to two decimals, i.e. to represent real currency.
// Used for making logical comparisons.
func Round(val float64) float64 {
	return math.Round(val*constants.DecimalPrecision) / constants.DecimalPrecision
}

// IsZero checks if a value is effectively zero (within tolerance)
func IsZero(val float64) bool {
	return math.Abs(val) <= constants.CurrencyTolerance
}

// WithinTolerance checks if two values are within a specified tolerance
func WithinTolerance(val1, val2, tolerance float64) bool {
	return math.Abs(val1-val2) <= tolerance
}

// IsFinite reports whether val is neither NaN nor an infinity.
func IsFinite(val float64) bool {
	return !math.IsNaN(val) && !math.IsInf(val, 0)
}

// PercentToMonthlyRate converts an annual percentage (e.g. 5.0) into the
// periodic rate applied each month (e.g. 0.0041667).
func PercentToMonthlyRate(annualPercent float64) float64 {
	return annualPercent / constants.PercentageMultiplier / constants.MonthsPerYear
}

// FiniteOrZero returns val, or 0 when val is NaN or an infinity.
func FiniteOrZero(val float64) float64 {
	if !IsFinite(val) {
		return 0
	}
	return val
}

// Sum adds all values. A sum that overflows is 0.
func Sum(values ...float64) float64 {
	total := 0.0
	for _, v := range values {
		total += v
	}
	return FiniteOrZero(total)
}
