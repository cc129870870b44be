// Package estimate holds the estimate form state and derives its results.
//
// A Form is an immutable snapshot of the raw text a borrower typed. Every
// derived value is recomputed from a snapshot on demand and never stored
// apart from it.
package estimate

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/iwvelando/mortgage-calculator/pkg/constants"
	"github.com/iwvelando/mortgage-calculator/pkg/numeric"
)

// Field names, shared by the JSON payloads, the lead file and Form.With.
const (
	FieldFirstName          = "firstName"
	FieldLastName           = "lastName"
	FieldEmail              = "email"
	FieldPhone              = "phone"
	FieldNotes              = "notes"
	FieldHomePrice          = "homePrice"
	FieldDownPayment        = "downPayment"
	FieldInterestRate       = "interestRate"
	FieldTermYears          = "termYears"
	FieldPropertyTax        = "propertyTax"
	FieldInsurance          = "insurance"
	FieldLawyerFees         = "lawyerFees"
	FieldInspectionFees     = "inspectionFees"
	FieldAppraisalFees      = "appraisalFees"
	FieldTitleInsuranceFees = "titleInsuranceFees"
)

// Form is the raw text of every estimate form field.
type Form struct {
	FirstName          string `json:"firstName"`
	LastName           string `json:"lastName"`
	Email              string `json:"email"`
	Phone              string `json:"phone"`
	Notes              string `json:"notes"`
	HomePrice          string `json:"homePrice"`
	DownPayment        string `json:"downPayment"`
	InterestRate       string `json:"interestRate"`
	TermYears          string `json:"termYears"`
	PropertyTax        string `json:"propertyTax"`
	Insurance          string `json:"insurance"`
	LawyerFees         string `json:"lawyerFees"`
	InspectionFees     string `json:"inspectionFees"`
	AppraisalFees      string `json:"appraisalFees"`
	TitleInsuranceFees string `json:"titleInsuranceFees"`
}

// DefaultForm returns the values the form opens with.
func DefaultForm() Form {
	return Form{
		HomePrice:          strconv.FormatFloat(constants.DefaultHomePrice, 'f', -1, 64),
		DownPayment:        strconv.FormatFloat(constants.DefaultDownPayment, 'f', -1, 64),
		InterestRate:       strconv.FormatFloat(constants.DefaultInterestRate, 'f', -1, 64),
		TermYears:          strconv.Itoa(constants.DefaultTermYears),
		PropertyTax:        "0",
		Insurance:          "0",
		LawyerFees:         "0",
		InspectionFees:     "0",
		AppraisalFees:      "0",
		TitleInsuranceFees: "0",
	}
}

// fields maps each field name to its slot in a Form.
func (f *Form) fields() map[string]*string {
	return map[string]*string{
		FieldFirstName:          &f.FirstName,
		FieldLastName:           &f.LastName,
		FieldEmail:              &f.Email,
		FieldPhone:              &f.Phone,
		FieldNotes:              &f.Notes,
		FieldHomePrice:          &f.HomePrice,
		FieldDownPayment:        &f.DownPayment,
		FieldInterestRate:       &f.InterestRate,
		FieldTermYears:          &f.TermYears,
		FieldPropertyTax:        &f.PropertyTax,
		FieldInsurance:          &f.Insurance,
		FieldLawyerFees:         &f.LawyerFees,
		FieldInspectionFees:     &f.InspectionFees,
		FieldAppraisalFees:      &f.AppraisalFees,
		FieldTitleInsuranceFees: &f.TitleInsuranceFees,
	}
}

// FieldNames lists every recognised field name in sorted order.
func FieldNames() []string {
	var f Form
	names := make([]string, 0, len(f.fields()))
	for name := range f.fields() {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// With returns a copy of the form with one field replaced. The receiver is
// left untouched.
func (f Form) With(field, value string) (Form, error) {
	next := f
	slot, ok := next.fields()[field]
	if !ok {
		return f, fmt.Errorf("unknown form field %q", field)
	}
	*slot = value
	return next, nil
}

// Value returns the raw text of one field.
func (f Form) Value(field string) (string, bool) {
	slot, ok := f.fields()[field]
	if !ok {
		return "", false
	}
	return *slot, true
}

// FormFromMap builds a form on top of base from decoded JSON or YAML values.
// Numbers and strings are both accepted; unknown keys are returned so the
// caller can decide whether to warn about them.
func FormFromMap(base Form, values map[string]interface{}) (Form, []string) {
	form := base
	slots := form.fields()
	var unknown []string
	for key, raw := range values {
		slot, ok := slots[key]
		if !ok {
			unknown = append(unknown, key)
			continue
		}
		*slot = numeric.FromValue(raw)
	}
	sort.Strings(unknown)
	return form, unknown
}
