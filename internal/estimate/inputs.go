package estimate

import (
	"strings"

	"github.com/iwvelando/mortgage-calculator/pkg/mathutil"
	"github.com/iwvelando/mortgage-calculator/pkg/mortgage"
	"github.com/iwvelando/mortgage-calculator/pkg/numeric"
)

// ContactInfo identifies the borrower. Notes is the only optional field.
type ContactInfo struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Notes     string `json:"notes"`
}

// FullName joins the first and last name.
func (c ContactInfo) FullName() string {
	return strings.TrimSpace(strings.TrimSpace(c.FirstName) + " " + strings.TrimSpace(c.LastName))
}

// LoanInputs are the values the payment and tax calculators read.
type LoanInputs struct {
	HomePrice    float64 `json:"homePrice"`
	DownPayment  float64 `json:"downPayment"`
	InterestRate float64 `json:"interestRate"`
	TermYears    int     `json:"termYears"`
}

// Principal is HomePrice less DownPayment and may be zero or negative.
func (l LoanInputs) Principal() float64 {
	return mortgage.Principal(l.HomePrice, l.DownPayment)
}

// FeeInputs are closing and carrying costs reported alongside the estimate.
// They do not enter the payment formula.
type FeeInputs struct {
	PropertyTax        float64 `json:"propertyTax"`
	Insurance          float64 `json:"insurance"`
	LawyerFees         float64 `json:"lawyerFees"`
	InspectionFees     float64 `json:"inspectionFees"`
	AppraisalFees      float64 `json:"appraisalFees"`
	TitleInsuranceFees float64 `json:"titleInsuranceFees"`
}

// Total sums every fee.
func (f FeeInputs) Total() float64 {
	return mathutil.Sum(f.PropertyTax, f.Insurance, f.LawyerFees,
		f.InspectionFees, f.AppraisalFees, f.TitleInsuranceFees)
}

// Inputs is a fully coerced form.
type Inputs struct {
	Contact ContactInfo `json:"contact"`
	Loan    LoanInputs  `json:"loan"`
	Fees    FeeInputs   `json:"fees"`
}

// Parse coerces every field of the form. Contact fields are trimmed; numeric
// fields go through numeric.ToNonNegativeDecimal, the term through
// numeric.ToPositiveInt.
func Parse(form Form) Inputs {
	return Inputs{
		Contact: ContactInfo{
			FirstName: strings.TrimSpace(form.FirstName),
			LastName:  strings.TrimSpace(form.LastName),
			Email:     strings.TrimSpace(form.Email),
			Phone:     strings.TrimSpace(form.Phone),
			Notes:     strings.TrimSpace(form.Notes),
		},
		Loan: LoanInputs{
			HomePrice:    numeric.ToNonNegativeDecimal(form.HomePrice),
			DownPayment:  numeric.ToNonNegativeDecimal(form.DownPayment),
			InterestRate: numeric.ToNonNegativeDecimal(form.InterestRate),
			TermYears:    numeric.ToPositiveInt(form.TermYears),
		},
		Fees: FeeInputs{
			PropertyTax:        numeric.ToNonNegativeDecimal(form.PropertyTax),
			Insurance:          numeric.ToNonNegativeDecimal(form.Insurance),
			LawyerFees:         numeric.ToNonNegativeDecimal(form.LawyerFees),
			InspectionFees:     numeric.ToNonNegativeDecimal(form.InspectionFees),
			AppraisalFees:      numeric.ToNonNegativeDecimal(form.AppraisalFees),
			TitleInsuranceFees: numeric.ToNonNegativeDecimal(form.TitleInsuranceFees),
		},
	}
}
