package main

import (
	"strings"

	"github.com/iwvelando/mortgage-calculator/pkg/output"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

var scheduleYearly bool

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Print the amortization schedule",
	Long: `Prints the month-by-month amortization schedule of the lead's loan, or one
row per loan year with --yearly. Payments are labelled from loan.startMonth
(YYYY-MM) when the lead file sets it.`,
	Annotations: leadCommand,
	RunE: func(cmd *cobra.Command, args []string) error {
		outputFormat, err := resolveOutputFormat()
		if err != nil {
			return err
		}
		calc, err := newCalculator()
		if err != nil {
			return err
		}

		payments, err := calc.Amortize(conf.Form(), strings.TrimSpace(conf.Loan.StartMonth))
		if err != nil {
			return eris.Wrap(err, "schedule: amortize")
		}
		if err := output.WriteSchedule(cmd.OutOrStdout(), outputFormat, payments, scheduleYearly); err != nil {
			return eris.Wrap(err, "schedule")
		}
		return nil
	},
}

func init() {
	scheduleCmd.Flags().StringVar(&outputFormatFlag, "output-format", "", "type of output override: pretty, csv, json")
	scheduleCmd.Flags().BoolVar(&scheduleYearly, "yearly", false, "summarize by loan year instead of by month")
	rootCmd.AddCommand(scheduleCmd)
}
