package main

import (
	"github.com/iwvelando/mortgage-calculator/pkg/output"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var estimateCmd = &cobra.Command{
	Use:         "estimate",
	Short:       "Print the monthly payment, land transfer tax and closing costs",
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

		est := calc.Evaluate(conf.Form())
		logger.Debug("estimate computed",
			zap.String("op", "main.estimate"),
			zap.Float64("monthlyPayment", est.Result.MonthlyPayment),
			zap.Float64("landTransferTax", est.Result.LandTransferTax),
		)

		if err := output.WriteEstimate(cmd.OutOrStdout(), outputFormat, est); err != nil {
			return eris.Wrap(err, "estimate")
		}
		return nil
	},
}

func init() {
	estimateCmd.Flags().StringVar(&outputFormatFlag, "output-format", "", "type of output override: pretty, csv, json")
	rootCmd.AddCommand(estimateCmd)
}
