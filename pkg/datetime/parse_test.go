package datetime

import (
	"errors"
	"testing"
	"time"
)

func TestMustParseTime(t *testing.T) {
	tests := []struct {
		name     string
		layout   string
		dateStr  string
		expected string
	}{
		{
			name:     "Valid date",
			layout:   DateTimeLayout,
			dateStr:  "2025-01",
			expected: "2025-01",
		},
		{
			name:     "Another valid date",
			layout:   DateTimeLayout,
			dateStr:  "2030-12",
			expected: "2030-12",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := MustParseTime(tt.layout, tt.dateStr)
			if result.Format(tt.layout) != tt.expected {
				t.Errorf("MustParseTime() = %s, expected %s", result.Format(tt.layout), tt.expected)
			}
		})
	}
}

func TestMustParseTimePanic(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Errorf("Expected MustParseTime to panic with invalid date")
		}
	}()

	MustParseTime(DateTimeLayout, "invalid-date")
}

func TestOffsetDate(t *testing.T) {
	tests := []struct {
		name     string
		date     string
		months   int
		expected string
		wantErr  bool
	}{
		{"Add multiple years", "2025-01", 24, "2027-01", false},
		{"Subtract multiple years", "2025-01", -24, "2023-01", false},
		{"Cross year boundary forward", "2025-06", 8, "2026-02", false},
		{"Full mortgage term", "2025-01", 299, "2049-12", false},
		{"Invalid date", "2025/01", 1, "2025/01", true},
		{"Last labelled month", "9999-01", 11, "9999-12", false},
		{"Past year 9999", "9999-01", 12, "9999-01", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := OffsetDate(tt.date, DateTimeLayout, tt.months)
			if (err != nil) != tt.wantErr {
				t.Fatalf("OffsetDate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if result != tt.expected {
				t.Errorf("OffsetDate() = %s, expected %s", result, tt.expected)
			}
		})
	}
}

func TestOffsetDateOutOfRange(t *testing.T) {
	_, err := OffsetDate("2027-01", DateTimeLayout, 12*8000)
	if !errors.Is(err, ErrMonthOutOfRange) {
		t.Fatalf("expected ErrMonthOutOfRange, got %v", err)
	}
}

func TestValidateMonth(t *testing.T) {
	if err := ValidateMonth(""); err != nil {
		t.Errorf("expected empty month to be valid, got %v", err)
	}
	if err := ValidateMonth("2026-10"); err != nil {
		t.Errorf("expected 2026-10 to be valid, got %v", err)
	}
	if err := ValidateMonth("October 2026"); err == nil {
		t.Error("expected error for non YYYY-MM month")
	}
}

func TestFormatTimestamp(t *testing.T) {
	zone := time.FixedZone("CST", -6*60*60)
	ts := time.Date(2026, 10, 18, 9, 30, 0, 0, zone)

	if got := FormatTimestamp(ts); got != "2026-10-18T15:30:00Z" {
		t.Errorf("FormatTimestamp() = %s, expected 2026-10-18T15:30:00Z", got)
	}
}
