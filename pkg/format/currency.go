// Package format renders amounts for display and serialization. All rounding
// of monetary values happens here and nowhere else.
package format

import (
	"github.com/iwvelando/mortgage-calculator/pkg/constants"
	"github.com/iwvelando/mortgage-calculator/pkg/mathutil"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// Amount rounds a monetary value half away from zero to cents. Non-finite
// values serialize as zero.
func Amount(value float64) decimal.Decimal {
	if !mathutil.IsFinite(value) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(value).Round(constants.CurrencyPlaces)
}

// Currency returns a currency string with a dollar sign and thousands separators (e.g., "-$1,234.56").
func Currency(value float64) string {
	amount := Amount(value)
	formatted := NumericCurrency(value)
	if amount.IsNegative() {
		return "-" + constants.CurrencySymbol + formatted[1:]
	}
	return constants.CurrencySymbol + formatted
}

// NumericCurrency returns a currency string without a currency symbol but with separators (e.g., "-1,234.56").
func NumericCurrency(value float64) string {
	amount := Amount(value)
	sign := ""
	if amount.IsNegative() {
		sign = "-"
	}
	return sign + printer.Sprintf("%.2f", amount.Abs().InexactFloat64())
}

// Plain returns the rounded amount without separators or symbol (e.g., "1234.56"),
// suitable for CSV cells.
func Plain(value float64) string {
	return Amount(value).StringFixed(constants.CurrencyPlaces)
}

// Percent renders a percentage the way it was entered, e.g. 5 -> "5%" and
// 4.75 -> "4.75%".
func Percent(value float64) string {
	if !mathutil.IsFinite(value) {
		return "0%"
	}
	return decimal.NewFromFloat(value).String() + "%"
}
