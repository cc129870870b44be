// Package lead turns an evaluated estimate into the email hand-off: a
// plain-text summary, a subject line and a mailto: link.
package lead

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/iwvelando/mortgage-calculator/internal/estimate"
	"github.com/iwvelando/mortgage-calculator/pkg/constants"
	"github.com/iwvelando/mortgage-calculator/pkg/datetime"
	"github.com/iwvelando/mortgage-calculator/pkg/format"
	"github.com/iwvelando/mortgage-calculator/pkg/validation"
	"github.com/shopspring/decimal"
)

// Options controls message addressing.
type Options struct {
	// To is the recipient placed in the mailto: link; empty leaves it for the
	// mail client to fill in.
	To string `yaml:"to" mapstructure:"to"`
	// SubjectPrefix precedes the borrower's name in the subject.
	SubjectPrefix string `yaml:"subjectPrefix" mapstructure:"subjectPrefix"`
}

// Submission is one submitted estimate.
type Submission struct {
	Reference   string
	Estimate    estimate.Estimate
	SubmittedAt time.Time
}

// Message is the composed email hand-off.
type Message struct {
	To        string `json:"to"`
	Subject   string `json:"subject"`
	Body      string `json:"body"`
	MailtoURL string `json:"mailto"`
}

// Payload is the machine-readable form of a submission. Monetary values are
// rounded to cents and serialize as JSON strings.
type Payload struct {
	Reference          string          `json:"reference"`
	FirstName          string          `json:"firstName"`
	LastName           string          `json:"lastName"`
	Email              string          `json:"email"`
	Phone              string          `json:"phone"`
	HomePrice          decimal.Decimal `json:"homePrice"`
	DownPayment        decimal.Decimal `json:"downPayment"`
	InterestRate       decimal.Decimal `json:"interestRate"`
	TermYears          int             `json:"termYears"`
	MonthlyPayment     decimal.Decimal `json:"monthlyPayment"`
	PropertyTax        decimal.Decimal `json:"propertyTax"`
	Insurance          decimal.Decimal `json:"insurance"`
	LawyerFees         decimal.Decimal `json:"lawyerFees"`
	InspectionFees     decimal.Decimal `json:"inspectionFees"`
	AppraisalFees      decimal.Decimal `json:"appraisalFees"`
	TitleInsuranceFees decimal.Decimal `json:"titleInsuranceFees"`
	LandTransferTax    decimal.Decimal `json:"landTransferTax"`
	Notes              string          `json:"notes"`
	SubmittedAt        string          `json:"submittedAt"`
}

// NewSubmission stamps an estimate with a fresh reference and the current time.
func NewSubmission(est estimate.Estimate) Submission {
	return NewSubmissionAt(est, time.Now())
}

// NewSubmissionAt stamps an estimate with a fresh reference and a fixed time.
func NewSubmissionAt(est estimate.Estimate, at time.Time) Submission {
	return Submission{
		Reference:   uuid.NewString(),
		Estimate:    est,
		SubmittedAt: at,
	}
}

// Validate checks the contact fields a lead needs before it can be sent.
func (s Submission) Validate() error {
	contact := s.Estimate.Inputs.Contact
	return validation.ValidateContact(validation.Contact{
		FirstName: contact.FirstName,
		LastName:  contact.LastName,
		Email:     contact.Email,
		Phone:     contact.Phone,
	})
}

// Subject is "<prefix> <first> <last>".
func (s Submission) Subject(opts Options) string {
	prefix := strings.TrimSpace(opts.SubjectPrefix)
	if prefix == "" {
		prefix = constants.DefaultSubjectPrefix
	}
	contact := s.Estimate.Inputs.Contact
	return prefix + " " + contact.FirstName + " " + contact.LastName
}

// Compose builds the full email hand-off for the submission.
func (s Submission) Compose(opts Options) Message {
	to := strings.TrimSpace(opts.To)
	subject := s.Subject(opts)
	body := s.Summary()
	return Message{
		To:        to,
		Subject:   subject,
		Body:      body,
		MailtoURL: MailtoURL(to, subject, body),
	}
}

// Payload returns the submission with monetary values rounded to cents.
func (s Submission) Payload() Payload {
	est := s.Estimate
	in := est.Inputs
	return Payload{
		Reference:          s.Reference,
		FirstName:          in.Contact.FirstName,
		LastName:           in.Contact.LastName,
		Email:              in.Contact.Email,
		Phone:              in.Contact.Phone,
		HomePrice:          format.Amount(in.Loan.HomePrice),
		DownPayment:        format.Amount(in.Loan.DownPayment),
		InterestRate:       decimal.NewFromFloat(in.Loan.InterestRate),
		TermYears:          in.Loan.TermYears,
		MonthlyPayment:     format.Amount(est.Result.MonthlyPayment),
		PropertyTax:        format.Amount(in.Fees.PropertyTax),
		Insurance:          format.Amount(in.Fees.Insurance),
		LawyerFees:         format.Amount(in.Fees.LawyerFees),
		InspectionFees:     format.Amount(in.Fees.InspectionFees),
		AppraisalFees:      format.Amount(in.Fees.AppraisalFees),
		TitleInsuranceFees: format.Amount(in.Fees.TitleInsuranceFees),
		LandTransferTax:    format.Amount(est.Result.LandTransferTax),
		Notes:              in.Contact.Notes,
		SubmittedAt:        datetime.FormatTimestamp(s.SubmittedAt),
	}
}
