package lead

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/iwvelando/mortgage-calculator/pkg/constants"
	"github.com/iwvelando/mortgage-calculator/pkg/datetime"
	"github.com/iwvelando/mortgage-calculator/pkg/format"
)

// Lines returns the summary one line per entry, in the order a reader of the
// email expects: contact, loan, results and fees, then notes and stamps.
func (s Submission) Lines() []string {
	est := s.Estimate
	contact := est.Inputs.Contact
	loan := est.Inputs.Loan
	fees := est.Inputs.Fees

	return []string{
		"Name: " + contact.FirstName + " " + contact.LastName,
		"Email: " + contact.Email,
		"Phone: " + contact.Phone,
		"Home Price: " + format.Currency(loan.HomePrice),
		"Down Payment: " + format.Currency(loan.DownPayment),
		"Interest Rate: " + format.Percent(loan.InterestRate),
		"Term (years): " + strconv.Itoa(loan.TermYears),
		"Estimated Monthly Payment: " + format.Currency(est.Result.MonthlyPayment),
		"Property Tax: " + format.Currency(fees.PropertyTax),
		"Insurance: " + format.Currency(fees.Insurance),
		"Lawyer Fees: " + format.Currency(fees.LawyerFees),
		"Inspection Fees: " + format.Currency(fees.InspectionFees),
		"Appraisal Fees: " + format.Currency(fees.AppraisalFees),
		"Title Insurance Fees: " + format.Currency(fees.TitleInsuranceFees),
		est.TaxLabel + ": " + format.Currency(est.Result.LandTransferTax),
		constants.SummarySeparator,
		"Notes: " + contact.Notes,
		"Submitted at: " + datetime.FormatTimestamp(s.SubmittedAt),
		"Reference: " + s.Reference,
	}
}

// Summary is the newline-joined plain-text body of the email.
func (s Submission) Summary() string {
	return strings.Join(s.Lines(), "\n")
}

// MailtoURL composes a mailto: target. Subject and body are percent-encoded
// the way mail clients expect, with spaces as %20 rather than '+'.
func MailtoURL(to, subject, body string) string {
	return "mailto:" + escapeRecipient(to) +
		"?subject=" + escapeComponent(subject) +
		"&body=" + escapeComponent(body)
}

// escapeComponent also escapes !'()*, which encodeURIComponent leaves
// alone. Mail clients decode both forms the same way.
func escapeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// escapeRecipient keeps '@' and ',' (multiple recipients) readable.
func escapeRecipient(to string) string {
	escaped := escapeComponent(to)
	escaped = strings.ReplaceAll(escaped, "%40", "@")
	return strings.ReplaceAll(escaped, "%2C", ",")
}
