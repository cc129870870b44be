package mortgage

import (
	"errors"
	"fmt"

	"github.com/iwvelando/mortgage-calculator/pkg/constants"
	"github.com/iwvelando/mortgage-calculator/pkg/datetime"
	"github.com/iwvelando/mortgage-calculator/pkg/mathutil"
	"go.uber.org/zap"
)

// ErrTermTooLong is returned when a schedule is requested for more than
// constants.MaxTermYears years.
var ErrTermTooLong = errors.New("term too long for a schedule")

// Payment holds the values for a given payment.
type Payment struct {
	Period             int     `json:"period"`
	Month              string  `json:"month,omitempty"`
	Payment            float64 `json:"payment"`
	Principal          float64 `json:"principal"`
	Interest           float64 `json:"interest"`
	RemainingPrincipal float64 `json:"remainingPrincipal"`
}

// YearSummary aggregates the payments made during one loan year.
type YearSummary struct {
	Year          int     `json:"year"`
	Payments      float64 `json:"payments"`
	Principal     float64 `json:"principal"`
	Interest      float64 `json:"interest"`
	EndingBalance float64 `json:"endingBalance"`
}

// ScheduleGenerator builds amortization schedules.
type ScheduleGenerator struct {
	logger *zap.Logger
}

// NewScheduleGenerator creates a new generator instance
func NewScheduleGenerator(logger *zap.Logger) *ScheduleGenerator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScheduleGenerator{logger: logger}
}

// Generate creates the month-by-month schedule for a level-payment loan.
// startMonth (YYYY-MM) labels the first payment; leave it empty for
// unlabelled periods. A loan with a zero payment has an empty schedule.
// Terms beyond constants.MaxTermYears fail with ErrTermTooLong and labels
// past year 9999 with datetime.ErrMonthOutOfRange.
func (g *ScheduleGenerator) Generate(principal, annualRatePercent float64, termYears int, startMonth string) ([]Payment, error) {
	if err := datetime.ValidateMonth(startMonth); err != nil {
		return nil, err
	}
	if termYears > constants.MaxTermYears {
		return nil, fmt.Errorf("%w: %d years, at most %d allowed", ErrTermTooLong, termYears, constants.MaxTermYears)
	}

	monthlyPayment := MonthlyPayment(principal, annualRatePercent, termYears)
	if monthlyPayment == 0 {
		g.logger.Debug("no payment due, schedule is empty",
			zap.String("op", "mortgage.Generate"),
			zap.Float64("principal", principal),
			zap.Float64("rate", annualRatePercent),
			zap.Int("termYears", termYears),
		)
		return []Payment{}, nil
	}

	periods := Periods(termYears)
	if startMonth != "" {
		if _, err := datetime.OffsetDate(startMonth, datetime.DateTimeLayout, periods-1); err != nil {
			return nil, err
		}
	}
	schedule := make([]Payment, 0, periods)
	balance := principal
	month := startMonth

	for period := 1; period <= periods; period++ {
		current := Payment{
			Period:   period,
			Month:    month,
			Payment:  monthlyPayment,
			Interest: InterestPayment(balance, annualRatePercent),
		}
		current.Principal = monthlyPayment - current.Interest

		if period == periods || mathutil.Round(balance-current.Principal) <= 0 {
			// We will get machine error otherwise so retire the exact balance.
			current.Principal = balance
			current.Payment = current.Interest + balance
			current.RemainingPrincipal = 0.00
			schedule = append(schedule, current)
			if period != periods {
				g.logger.Debug(fmt.Sprintf("loan retired early at period %d of %d", period, periods),
					zap.String("op", "mortgage.Generate"),
				)
			}
			break
		}

		current.RemainingPrincipal = balance - current.Principal
		schedule = append(schedule, current)
		balance = current.RemainingPrincipal

		if month != "" {
			next, err := datetime.OffsetDate(month, datetime.DateTimeLayout, 1)
			if err != nil {
				return nil, err
			}
			month = next
		}
	}

	return schedule, nil
}

// Summarize groups a schedule into loan years of twelve payments each.
func Summarize(schedule []Payment) []YearSummary {
	if len(schedule) == 0 {
		return []YearSummary{}
	}

	years := make([]YearSummary, 0, (len(schedule)+11)/12)
	for _, payment := range schedule {
		year := (payment.Period-1)/12 + 1
		if len(years) == 0 || years[len(years)-1].Year != year {
			years = append(years, YearSummary{Year: year})
		}
		current := &years[len(years)-1]
		current.Payments += payment.Payment
		current.Principal += payment.Principal
		current.Interest += payment.Interest
		current.EndingBalance = payment.RemainingPrincipal
	}
	return years
}
