// Package output provides utilities for formatting and displaying estimates
// and amortization schedules.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/iwvelando/mortgage-calculator/internal/estimate"
	"github.com/iwvelando/mortgage-calculator/pkg/constants"
	"github.com/iwvelando/mortgage-calculator/pkg/format"
	"github.com/iwvelando/mortgage-calculator/pkg/mortgage"
	"github.com/rotisserie/eris"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Row is one labelled amount of an estimate.
type Row struct {
	Label  string
	Amount float64
	// Text replaces the amount for rows that are not money, e.g. the rate.
	Text string
}

// EstimateRows lists an estimate's inputs and results in display order.
func EstimateRows(est estimate.Estimate) []Row {
	loan := est.Inputs.Loan
	fees := est.Inputs.Fees
	return []Row{
		{Label: "Home Price", Amount: loan.HomePrice},
		{Label: "Down Payment", Amount: loan.DownPayment},
		{Label: "Principal", Amount: est.Principal},
		{Label: "Interest Rate", Text: format.Percent(loan.InterestRate)},
		{Label: "Term (years)", Text: strconv.Itoa(loan.TermYears)},
		{Label: "Estimated Monthly Payment", Amount: est.Result.MonthlyPayment},
		{Label: "Total of Payments", Amount: est.TotalOfPayments},
		{Label: "Total Interest", Amount: est.TotalInterest},
		{Label: "Property Tax", Amount: fees.PropertyTax},
		{Label: "Insurance", Amount: fees.Insurance},
		{Label: "Lawyer Fees", Amount: fees.LawyerFees},
		{Label: "Inspection Fees", Amount: fees.InspectionFees},
		{Label: "Appraisal Fees", Amount: fees.AppraisalFees},
		{Label: "Title Insurance Fees", Amount: fees.TitleInsuranceFees},
		{Label: est.TaxLabel, Amount: est.Result.LandTransferTax},
		{Label: "Closing Costs", Amount: est.ClosingCosts},
	}
}

// PrettyFormat writes a human-readable rather than machine-readable table.
func PrettyFormat(w io.Writer, est estimate.Estimate) error {
	name := est.Inputs.Contact.FullName()
	if name == "" {
		name = "unnamed borrower"
	}
	p := message.NewPrinter(language.English)
	if _, err := p.Fprintf(w, "--- Estimate for %s ---\n", name); err != nil {
		return eris.Wrap(err, "failed to write estimate header")
	}
	_, _ = fmt.Fprintf(w, "%-32s | %s\n", "Item", "Amount")
	_, _ = fmt.Fprintf(w, "%-32s | %s\n", "____", "______")
	for _, row := range EstimateRows(est) {
		value := row.Text
		if value == "" {
			value = format.Currency(row.Amount)
		}
		if _, err := fmt.Fprintf(w, "%-32s | %s\n", row.Label, value); err != nil {
			return eris.Wrapf(err, "failed to write row %s", row.Label)
		}
	}
	return nil
}

// CsvFormat writes the estimate in comma-separated value format.
func CsvFormat(w io.Writer, est estimate.Estimate) error {
	_, _ = fmt.Fprintf(w, `"item","amount"`+"\n")
	for _, row := range EstimateRows(est) {
		value := row.Text
		if value == "" {
			value = format.Plain(row.Amount)
		}
		if _, err := fmt.Fprintf(w, "%q,%q\n", row.Label, value); err != nil {
			return eris.Wrapf(err, "failed to write row %s", row.Label)
		}
	}
	return nil
}

// JSONFormat writes v as indented JSON.
func JSONFormat(w io.Writer, v interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		return eris.Wrap(err, "failed to encode JSON output")
	}
	return nil
}

// WriteEstimate writes est in the named output format.
func WriteEstimate(w io.Writer, outputFormat string, est estimate.Estimate) error {
	switch outputFormat {
	case constants.OutputFormatPretty:
		return PrettyFormat(w, est)
	case constants.OutputFormatCSV:
		return CsvFormat(w, est)
	case constants.OutputFormatJSON:
		return JSONFormat(w, struct {
			estimate.Estimate
			Formatted estimate.Formatted `json:"formatted"`
		}{est, est.Format()})
	}
	return eris.Errorf("unsupported output format %q", outputFormat)
}

// PrettySchedule writes the month-by-month amortization table.
func PrettySchedule(w io.Writer, payments []mortgage.Payment) error {
	_, _ = fmt.Fprintf(w, "Period | Month   | Payment       | Principal     | Interest      | Balance\n")
	_, _ = fmt.Fprintf(w, "______ | _______ | _____________ | _____________ | _____________ | _______\n")
	for _, payment := range payments {
		month := payment.Month
		if month == "" {
			month = "-"
		}
		if _, err := fmt.Fprintf(w, "%6d | %-7s | %13s | %13s | %13s | %s\n",
			payment.Period, month,
			format.Currency(payment.Payment),
			format.Currency(payment.Principal),
			format.Currency(payment.Interest),
			format.Currency(payment.RemainingPrincipal)); err != nil {
			return eris.Wrapf(err, "failed to write period %d", payment.Period)
		}
	}
	return nil
}

// CsvSchedule writes the amortization schedule in comma-separated value format.
func CsvSchedule(w io.Writer, payments []mortgage.Payment) error {
	_, _ = fmt.Fprintf(w, `"period","month","payment","principal","interest","remaining principal"`+"\n")
	for _, payment := range payments {
		if _, err := fmt.Fprintf(w, "\"%d\",%q,%q,%q,%q,%q\n",
			payment.Period, payment.Month,
			format.Plain(payment.Payment),
			format.Plain(payment.Principal),
			format.Plain(payment.Interest),
			format.Plain(payment.RemainingPrincipal)); err != nil {
			return eris.Wrapf(err, "failed to write period %d", payment.Period)
		}
	}
	return nil
}

// PrettyYearly writes one row per loan year.
func PrettyYearly(w io.Writer, years []mortgage.YearSummary) error {
	_, _ = fmt.Fprintf(w, "Year | Payments      | Principal     | Interest      | Ending Balance\n")
	_, _ = fmt.Fprintf(w, "____ | _____________ | _____________ | _____________ | ______________\n")
	for _, year := range years {
		if _, err := fmt.Fprintf(w, "%4d | %13s | %13s | %13s | %s\n",
			year.Year,
			format.Currency(year.Payments),
			format.Currency(year.Principal),
			format.Currency(year.Interest),
			format.Currency(year.EndingBalance)); err != nil {
			return eris.Wrapf(err, "failed to write year %d", year.Year)
		}
	}
	return nil
}

// CsvYearly writes the yearly summary in comma-separated value format.
func CsvYearly(w io.Writer, years []mortgage.YearSummary) error {
	_, _ = fmt.Fprintf(w, `"year","payments","principal","interest","ending balance"`+"\n")
	for _, year := range years {
		if _, err := fmt.Fprintf(w, "\"%d\",%q,%q,%q,%q\n",
			year.Year,
			format.Plain(year.Payments),
			format.Plain(year.Principal),
			format.Plain(year.Interest),
			format.Plain(year.EndingBalance)); err != nil {
			return eris.Wrapf(err, "failed to write year %d", year.Year)
		}
	}
	return nil
}

// WriteSchedule writes the schedule in the named output format, either month
// by month or rolled up by loan year.
func WriteSchedule(w io.Writer, outputFormat string, payments []mortgage.Payment, yearly bool) error {
	if yearly {
		years := mortgage.Summarize(payments)
		switch outputFormat {
		case constants.OutputFormatPretty:
			return PrettyYearly(w, years)
		case constants.OutputFormatCSV:
			return CsvYearly(w, years)
		case constants.OutputFormatJSON:
			return JSONFormat(w, years)
		}
	} else {
		switch outputFormat {
		case constants.OutputFormatPretty:
			return PrettySchedule(w, payments)
		case constants.OutputFormatCSV:
			return CsvSchedule(w, payments)
		case constants.OutputFormatJSON:
			return JSONFormat(w, payments)
		}
	}
	return eris.Errorf("unsupported output format %q", outputFormat)
}
