// Package constants provides shared constants for the mortgage-calculator application.
package constants

// DateTimeLayout is the month format used to label amortization periods.
const DateTimeLayout = "2006-01"

// Financial constants
const (
	// MonthsPerYear is the number of months in a year
	MonthsPerYear = 12

	// DecimalPrecision is the precision for currency rounding (2 decimal places)
	DecimalPrecision = 100

	// CurrencyPlaces is the number of decimal places used when serializing money
	CurrencyPlaces = 2

	// CurrencySymbol is prefixed to every formatted amount
	CurrencySymbol = "$"

	// CurrencyTolerance is the tolerance for currency comparisons (1 cent)
	CurrencyTolerance = 0.01

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0
)

// Form defaults, matching the values the estimate form opens with.
const (
	DefaultHomePrice    = 325000.0
	DefaultDownPayment  = 0.0
	DefaultInterestRate = 5.0
	DefaultTermYears    = 25
)

// MaxTermYears bounds the term an amortization schedule is built for.
const MaxTermYears = 100

// Lead composition constants
const (
	// DefaultSubjectPrefix prefixes the borrower's name in the email subject
	DefaultSubjectPrefix = "Mortgage lead:"

	// SummarySeparator splits the figures from the free-text notes
	SummarySeparator = "---"
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"

	// OutputFormatJSON is the JSON output format
	OutputFormatJSON = "json"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default lead file name
	DefaultConfigFile = "lead.yaml"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"

	// EnvPrefix is the prefix for environment overrides of the lead file
	EnvPrefix = "MORTGAGE"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address
	DefaultServerAddress = ":8080"

	// DefaultMaxBodySizeBytes is the default maximum request body size (64 KB)
	DefaultMaxBodySizeBytes int64 = 64 * 1024

	// DefaultRateLimitPerMinute is the default number of lead submissions a
	// single client may make per minute
	DefaultRateLimitPerMinute = 5

	// DefaultRateLimitBurst is the default burst allowance for lead submissions
	DefaultRateLimitBurst = 5
)
