package validation

import (
	"net/mail"
	"strings"
	"unicode"
)

// MinPhoneDigits is the fewest digits accepted in a phone number.
const MinPhoneDigits = 7

// FieldError describes one invalid contact field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// FieldErrors collects every invalid field of a submission.
type FieldErrors []FieldError

func (e FieldErrors) Error() string {
	parts := make([]string, 0, len(e))
	for _, fe := range e {
		parts = append(parts, fe.Field+": "+fe.Message)
	}
	return "invalid contact details: " + strings.Join(parts, "; ")
}

// Contact holds the raw contact fields to check.
type Contact struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
}

// ValidateContact checks that the required contact fields are present and
// plausible. Notes are optional and never checked. It returns FieldErrors
// when anything is wrong.
func ValidateContact(c Contact) error {
	var errs FieldErrors

	if strings.TrimSpace(c.FirstName) == "" {
		errs = append(errs, FieldError{Field: "firstName", Message: "is required"})
	}
	if strings.TrimSpace(c.LastName) == "" {
		errs = append(errs, FieldError{Field: "lastName", Message: "is required"})
	}

	email := strings.TrimSpace(c.Email)
	switch {
	case email == "":
		errs = append(errs, FieldError{Field: "email", Message: "is required"})
	case !isBareAddress(email):
		errs = append(errs, FieldError{Field: "email", Message: "is not a valid email address"})
	}

	phone := strings.TrimSpace(c.Phone)
	switch {
	case phone == "":
		errs = append(errs, FieldError{Field: "phone", Message: "is required"})
	case countDigits(phone) < MinPhoneDigits:
		errs = append(errs, FieldError{Field: "phone", Message: "needs at least 7 digits"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// isBareAddress accepts "user@host" and rejects display-name forms such as
// "Jane <jane@example.com>".
func isBareAddress(email string) bool {
	addr, err := mail.ParseAddress(email)
	if err != nil {
		return false
	}
	return addr.Address == email && addr.Name == ""
}

func countDigits(s string) int {
	n := 0
	for _, r := range s {
		if unicode.IsDigit(r) {
			n++
		}
	}
	return n
}
