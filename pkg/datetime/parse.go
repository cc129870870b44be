// Package datetime provides date and time utility functions.
package datetime

import (
	"errors"
	"fmt"
	"time"

	"github.com/iwvelando/mortgage-calculator/pkg/constants"
)

const (
	// DateTimeLayout is the month format used for amortization period labels.
	DateTimeLayout = constants.DateTimeLayout

	// TimestampLayout is the format used for submission timestamps.
	TimestampLayout = time.RFC3339
)

// maxYear is the last year a YYYY-MM label can hold.
const maxYear = 9999

// ErrMonthOutOfRange is returned when an offset lands past year 9999.
var ErrMonthOutOfRange = errors.New("month out of range")

// MustParseTime parses a date string using the given layout and panics on error.
// This is intended for use in tests where the date string is known to be valid.
func MustParseTime(layout, dateStr string) time.Time {
	t, err := time.Parse(layout, dateStr)
	if err != nil {
		panic(err)
	}
	return t
}

// OffsetDate returns the string-formatted date offset by the given number of
// months relative to the given date.
func OffsetDate(date, layout string, months int) (string, error) {
	t, err := time.Parse(layout, date)
	if err != nil {
		return date, err
	}
	offset := t.AddDate(0, months, 0)
	if offset.Year() > maxYear || offset.Year() < 0 {
		return date, fmt.Errorf("%w: %s offset by %d months", ErrMonthOutOfRange, date, months)
	}
	return offset.Format(layout), nil
}

// ValidateMonth checks that date is a YYYY-MM month. An empty date is valid
// and means "unlabelled".
func ValidateMonth(date string) error {
	if date == "" {
		return nil
	}
	if _, err := time.Parse(DateTimeLayout, date); err != nil {
		return fmt.Errorf("invalid month %q, expected YYYY-MM: %w", date, err)
	}
	return nil
}

// FormatTimestamp renders t in UTC using TimestampLayout.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}
