// Package testutil provides common utility functions for testing.
package testutil

import (
	"strings"
	"testing"
	"time"

	"github.com/iwvelando/mortgage-calculator/internal/estimate"
	"github.com/iwvelando/mortgage-calculator/pkg/datetime"
	"github.com/iwvelando/mortgage-calculator/pkg/landtax"
)

// SubmittedAt is the fixed submission time used by tests.
var SubmittedAt = datetime.MustParseTime(time.RFC3339, "2026-10-18T14:05:00Z")

// SampleForm returns the default form filled in with a complete borrower.
func SampleForm() estimate.Form {
	form := estimate.DefaultForm()
	form.FirstName = "Jane"
	form.LastName = "Doe"
	form.Email = "jane.doe@example.com"
	form.Phone = "204-555-0100"
	form.Notes = "Pre-approved with credit union"
	return form
}

// NewCalculator returns a calculator over the default tax schedule and fails
// the test if it cannot be built.
func NewCalculator(t testing.TB) *estimate.Calculator {
	t.Helper()
	calc, err := estimate.NewCalculator(nil, landtax.Default())
	if err != nil {
		t.Fatalf("failed to build calculator: %v", err)
	}
	return calc
}

// FindLine returns the first line with the given prefix, or "" when none
// matches.
func FindLine(lines []string, prefix string) string {
	for _, line := range lines {
		if strings.HasPrefix(line, prefix) {
			return line
		}
	}
	return ""
}
