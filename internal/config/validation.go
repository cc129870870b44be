package config

import (
	"fmt"
	"strings"

	"github.com/iwvelando/mortgage-calculator/pkg/constants"
	"github.com/iwvelando/mortgage-calculator/pkg/datetime"
	"github.com/iwvelando/mortgage-calculator/pkg/format"
	"github.com/iwvelando/mortgage-calculator/pkg/mathutil"
	"github.com/iwvelando/mortgage-calculator/pkg/numeric"
	"github.com/iwvelando/mortgage-calculator/pkg/validation"
)

// Validate returns an error for settings that make the lead file unusable.
func (conf *Configuration) Validate() error {
	if err := conf.LandTransferTax.Normalize().Validate(); err != nil {
		return fmt.Errorf("invalid landTransferTax: %w", err)
	}
	if err := datetime.ValidateMonth(strings.TrimSpace(conf.Loan.StartMonth)); err != nil {
		return fmt.Errorf("invalid loan.startMonth: %w", err)
	}
	if conf.Output.Format != "" {
		if err := validation.ValidateOutputFormat(conf.Output.Format); err != nil {
			return err
		}
	}
	return nil
}

// ValidateConfiguration performs general validation of the configuration and
// returns warnings. None of them stop an estimate from being computed; they
// explain why a result may read as zero.
func (conf *Configuration) ValidateConfiguration() []string {
	var warnings []string

	numericFields := []struct {
		name  string
		value string
	}{
		{"loan.homePrice", conf.Loan.HomePrice},
		{"loan.downPayment", conf.Loan.DownPayment},
		{"loan.interestRate", conf.Loan.InterestRate},
		{"fees.propertyTax", conf.Fees.PropertyTax},
		{"fees.insurance", conf.Fees.Insurance},
		{"fees.lawyerFees", conf.Fees.LawyerFees},
		{"fees.inspectionFees", conf.Fees.InspectionFees},
		{"fees.appraisalFees", conf.Fees.AppraisalFees},
		{"fees.titleInsuranceFees", conf.Fees.TitleInsuranceFees},
	}
	for _, field := range numericFields {
		if unreadable(field.value) {
			warnings = append(warnings, fmt.Sprintf("%s value %q is not a non-negative number and is treated as 0",
				field.name, field.value))
		}
	}

	inputs := conf.Form()
	price := numeric.ToNonNegativeDecimal(inputs.HomePrice)
	down := numeric.ToNonNegativeDecimal(inputs.DownPayment)
	if price > 0 && (down > price || mathutil.IsZero(price-down)) {
		warnings = append(warnings, fmt.Sprintf("down payment %s covers the home price %s - monthly payment will be 0",
			format.Currency(down), format.Currency(price)))
	}
	if numeric.ToNonNegativeDecimal(inputs.InterestRate) == 0 {
		warnings = append(warnings, "interest rate is 0 - monthly payment will be 0")
	}
	if numeric.ToPositiveInt(inputs.TermYears) == 0 {
		warnings = append(warnings, fmt.Sprintf("loan.termYears value %q is not a positive whole number - monthly payment will be 0",
			conf.Loan.TermYears))
	} else if term := numeric.ToPositiveInt(inputs.TermYears); term > constants.MaxTermYears {
		warnings = append(warnings, fmt.Sprintf("loan.termYears %d exceeds %d - no amortization schedule can be built",
			term, constants.MaxTermYears))
	}

	for _, floor := range conf.LandTransferTax.Normalize().Discontinuities(0.005) {
		warnings = append(warnings, fmt.Sprintf("%s jumps at bracket floor %s",
			conf.LandTransferTax.Label(), format.Currency(floor)))
	}

	return warnings
}

// unreadable reports whether raw text was entered but coerces to zero even
// though it does not spell zero.
func unreadable(raw string) bool {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || numeric.ToNonNegativeDecimal(trimmed) > 0 {
		return false
	}
	return strings.Trim(trimmed, "$0.,% ") != ""
}
