package estimate

import (
	"fmt"

	"github.com/iwvelando/mortgage-calculator/pkg/format"
	"github.com/iwvelando/mortgage-calculator/pkg/landtax"
	"github.com/iwvelando/mortgage-calculator/pkg/mathutil"
	"github.com/iwvelando/mortgage-calculator/pkg/mortgage"
	"go.uber.org/zap"
)

// Result holds the two calculator outputs.
type Result struct {
	MonthlyPayment  float64 `json:"monthlyPayment"`
	LandTransferTax float64 `json:"landTransferTax"`
}

// Estimate is everything derived from one form snapshot.
type Estimate struct {
	Form            Form    `json:"-"`
	Inputs          Inputs  `json:"inputs"`
	Result          Result  `json:"result"`
	Principal       float64 `json:"principal"`
	TotalOfPayments float64 `json:"totalOfPayments"`
	TotalInterest   float64 `json:"totalInterest"`
	FeesTotal       float64 `json:"feesTotal"`
	ClosingCosts    float64 `json:"closingCosts"`
	TaxLabel        string  `json:"taxLabel"`
}

// Formatted is the display rendering of an estimate.
type Formatted struct {
	Principal       string `json:"principal"`
	MonthlyPayment  string `json:"monthlyPayment"`
	LandTransferTax string `json:"landTransferTax"`
	TotalOfPayments string `json:"totalOfPayments"`
	TotalInterest   string `json:"totalInterest"`
	FeesTotal       string `json:"feesTotal"`
	ClosingCosts    string `json:"closingCosts"`
}

// Calculate runs both calculators over the loan inputs.
func Calculate(loan LoanInputs, schedule landtax.Schedule) Result {
	return Result{
		MonthlyPayment:  mortgage.MonthlyPayment(loan.Principal(), loan.InterestRate, loan.TermYears),
		LandTransferTax: schedule.Tax(loan.HomePrice),
	}
}

// Calculator evaluates form snapshots against one land transfer tax schedule.
type Calculator struct {
	logger   *zap.Logger
	schedule landtax.Schedule
	payments *mortgage.ScheduleGenerator
}

// NewCalculator validates the tax schedule and returns a calculator for it.
func NewCalculator(logger *zap.Logger, schedule landtax.Schedule) (*Calculator, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	normalized := schedule.Normalize()
	if err := normalized.Validate(); err != nil {
		return nil, fmt.Errorf("invalid land transfer tax schedule: %w", err)
	}

	return &Calculator{
		logger:   logger,
		schedule: normalized,
		payments: mortgage.NewScheduleGenerator(logger),
	}, nil
}

// TaxSchedule returns the schedule the calculator applies.
func (c *Calculator) TaxSchedule() landtax.Schedule {
	return c.schedule
}

// Evaluate coerces the snapshot and derives every result from it.
func (c *Calculator) Evaluate(form Form) Estimate {
	inputs := Parse(form)
	result := Calculate(inputs.Loan, c.schedule)
	fees := inputs.Fees.Total()

	est := Estimate{
		Form:            form,
		Inputs:          inputs,
		Result:          result,
		Principal:       inputs.Loan.Principal(),
		TotalOfPayments: mortgage.TotalOfPayments(result.MonthlyPayment, inputs.Loan.TermYears),
		TotalInterest:   mortgage.TotalInterest(inputs.Loan.Principal(), inputs.Loan.InterestRate, inputs.Loan.TermYears),
		FeesTotal:       fees,
		ClosingCosts:    mathutil.Sum(fees, result.LandTransferTax),
		TaxLabel:        c.schedule.Label(),
	}

	c.logger.Debug("estimate evaluated",
		zap.String("op", "estimate.Evaluate"),
		zap.Float64("principal", est.Principal),
		zap.Float64("monthlyPayment", result.MonthlyPayment),
		zap.Float64("landTransferTax", result.LandTransferTax),
	)
	return est
}

// Amortize returns the payment schedule for the snapshot's loan, labelled
// from startMonth (YYYY-MM) when it is set.
func (c *Calculator) Amortize(form Form, startMonth string) ([]mortgage.Payment, error) {
	loan := Parse(form).Loan
	return c.payments.Generate(loan.Principal(), loan.InterestRate, loan.TermYears, startMonth)
}

// Format renders the estimate's monetary values for display.
func (e Estimate) Format() Formatted {
	return Formatted{
		Principal:       format.Currency(e.Principal),
		MonthlyPayment:  format.Currency(e.Result.MonthlyPayment),
		LandTransferTax: format.Currency(e.Result.LandTransferTax),
		TotalOfPayments: format.Currency(e.TotalOfPayments),
		TotalInterest:   format.Currency(e.TotalInterest),
		FeesTotal:       format.Currency(e.FeesTotal),
		ClosingCosts:    format.Currency(e.ClosingCosts),
	}
}
