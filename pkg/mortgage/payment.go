// Package mortgage provides the level-payment mortgage calculations.
package mortgage

import (
	"math"

	"github.com/iwvelando/mortgage-calculator/pkg/constants"
	"github.com/iwvelando/mortgage-calculator/pkg/mathutil"
)

// Principal is the amount financed. It is negative when the down payment
// exceeds the price, which the payment functions treat as nothing to finance.
func Principal(homePrice, downPayment float64) float64 {
	return homePrice - downPayment
}

// Periods returns the number of monthly payments in a term of whole years.
func Periods(termYears int) int {
	return termYears * constants.MonthsPerYear
}

// MonthlyPayment calculates the fixed monthly payment of a level-payment loan
// using the standard amortization formula P*r / (1 - (1+r)^-n).
//
// The result is 0 whenever principal, rate or term is not positive, so callers
// recomputing on every keystroke never see NaN or Inf. No rounding is applied.
func MonthlyPayment(principal, annualRatePercent float64, termYears int) float64 {
	periodicRate := mathutil.PercentToMonthlyRate(annualRatePercent)
	periods := Periods(termYears)
	if !(principal > 0) || !(periodicRate > 0) || periods <= 0 {
		return 0
	}

	discountFactor := 1.00 - math.Pow(1.00+periodicRate, -float64(periods))
	payment := principal * periodicRate / discountFactor
	if !mathutil.IsFinite(payment) {
		return 0
	}
	return payment
}

// InterestPayment calculates the interest portion of a payment made against
// the remaining principal.
func InterestPayment(remainingPrincipal, annualRatePercent float64) float64 {
	return remainingPrincipal * mathutil.PercentToMonthlyRate(annualRatePercent)
}

// TotalOfPayments is the sum of every scheduled monthly payment, or 0 when
// it overflows.
func TotalOfPayments(monthlyPayment float64, termYears int) float64 {
	if monthlyPayment <= 0 || termYears <= 0 {
		return 0
	}
	return mathutil.FiniteOrZero(monthlyPayment * float64(Periods(termYears)))
}

// TotalInterest is the interest paid over the full term: total payments less
// the principal they retire. It is 0 when the total overflows.
func TotalInterest(principal, annualRatePercent float64, termYears int) float64 {
	total := TotalOfPayments(MonthlyPayment(principal, annualRatePercent, termYears), termYears)
	if total == 0 {
		return 0
	}
	return total - principal
}
