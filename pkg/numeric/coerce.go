// Package numeric coerces raw form text into numbers. Every function here is
// total: input that cannot be read as a usable number becomes 0.
package numeric

import (
	"math"
	"strings"

	"github.com/iwvelando/mortgage-calculator/pkg/constants"
	"github.com/iwvelando/mortgage-calculator/pkg/mathutil"
	"github.com/spf13/cast"
)

// decorations are characters users commonly type around amounts that carry
// no numeric meaning.
var decorations = strings.NewReplacer(
	constants.CurrencySymbol, "",
	",", "",
	"_", "",
	"%", "",
	" ", "",
)

// ToNonNegativeDecimal reads text as a non-negative decimal. Currency
// symbols, grouping separators and a trailing percent sign are ignored.
// Unparseable, negative, NaN and infinite values all yield 0.
func ToNonNegativeDecimal(text string) float64 {
	cleaned := decorations.Replace(strings.TrimSpace(text))
	if cleaned == "" {
		return 0
	}

	value, err := cast.ToFloat64E(cleaned)
	if err != nil || !mathutil.IsFinite(value) || value <= 0 {
		return 0
	}
	return value
}

// ToPositiveInt reads text as a whole positive count, truncating any
// fractional part. Anything below 1 or beyond the int32 range yields 0.
func ToPositiveInt(text string) int {
	value := math.Trunc(ToNonNegativeDecimal(text))
	if value < 1 || value > math.MaxInt32 {
		return 0
	}
	return int(value)
}

// FromValue coerces a decoded JSON or YAML value (string, number, bool or
// nil) into the raw text form accepted by the coercion functions.
func FromValue(value interface{}) string {
	if value == nil {
		return ""
	}
	text, err := cast.ToStringE(value)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(text)
}
