package main

import (
	"fmt"

	"github.com/iwvelando/mortgage-calculator/internal/lead"
	"github.com/iwvelando/mortgage-calculator/pkg/constants"
	"github.com/iwvelando/mortgage-calculator/pkg/output"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var summaryMailto bool

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Compose the lead summary email",
	Long: `Checks the borrower's contact details and prints the plain-text summary a
broker receives. With --mailto it prints the mailto: link instead, ready to
hand to a mail client. The json output format prints the composed message
together with the machine-readable payload.`,
	Annotations: leadCommand,
	RunE: func(cmd *cobra.Command, args []string) error {
		outputFormat, err := resolveOutputFormat()
		if err != nil {
			return err
		}
		if outputFormat == constants.OutputFormatCSV {
			return eris.New("summary: csv output is not supported, use pretty or json")
		}
		calc, err := newCalculator()
		if err != nil {
			return err
		}

		submission := lead.NewSubmission(calc.Evaluate(conf.Form()))
		if err := submission.Validate(); err != nil {
			return eris.Wrap(err, "summary: lead is incomplete")
		}
		msg := submission.Compose(conf.Mail)
		logger.Info("lead composed",
			zap.String("op", "main.summary"),
			zap.String("reference", submission.Reference),
		)

		out := cmd.OutOrStdout()
		switch {
		case summaryMailto:
			_, err = fmt.Fprintln(out, msg.MailtoURL)
		case outputFormat == constants.OutputFormatJSON:
			err = output.JSONFormat(out, struct {
				Message lead.Message `json:"message"`
				Payload lead.Payload `json:"payload"`
			}{msg, submission.Payload()})
		default:
			_, err = fmt.Fprintf(out, "To: %s\nSubject: %s\n\n%s\n", msg.To, msg.Subject, msg.Body)
		}
		if err != nil {
			return eris.Wrap(err, "summary")
		}
		return nil
	},
}

func init() {
	summaryCmd.Flags().StringVar(&outputFormatFlag, "output-format", "", "type of output override: pretty, json")
	summaryCmd.Flags().BoolVar(&summaryMailto, "mailto", false, "print the mailto: link instead of the summary")
	rootCmd.AddCommand(summaryCmd)
}
