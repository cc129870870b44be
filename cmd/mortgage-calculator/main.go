package main

import (
	"os"

	"github.com/iwvelando/mortgage-calculator/internal/config"
	"github.com/iwvelando/mortgage-calculator/internal/estimate"
	"github.com/iwvelando/mortgage-calculator/pkg/constants"
	"github.com/iwvelando/mortgage-calculator/pkg/validation"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

var (
	configLocation   string
	logLevel         string
	outputFormatFlag string

	conf   *config.Configuration
	logger = zap.NewNop()
)

// leadCommand marks commands that read the lead file before running.
var leadCommand = map[string]string{"lead": "true"}

var rootCmd = &cobra.Command{
	Use:   "mortgage-calculator",
	Short: "Mortgage payment and closing cost estimates",
	Long: `Estimates the monthly payment and provincial land transfer tax for a home
purchase, prints the amortization schedule and composes the lead summary a
broker receives by email.

The estimate and lead details are read from a YAML lead file (--config);
any value can be overridden with a MORTGAGE_ prefixed environment variable,
e.g. MORTGAGE_LOAN_INTERESTRATE=4.75.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Annotations["lead"] == "" {
			return nil
		}
		return loadLead()
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

// loadLead reads and checks the lead file and builds the logger it configures.
func loadLead() error {
	c, err := config.LoadConfiguration(configLocation)
	if err != nil {
		return eris.Wrapf(err, "failed to load configuration at %s", configLocation)
	}
	if err := c.Validate(); err != nil {
		return eris.Wrapf(err, "invalid configuration at %s", configLocation)
	}

	if err := useLogging(c.Logging); err != nil {
		return err
	}
	conf = c

	for _, warning := range conf.ValidateConfiguration() {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", "main"),
		)
	}
	return nil
}

// resolveOutputFormat applies the CLI override over the lead file.
func resolveOutputFormat() (string, error) {
	outputFormat := conf.Output.Format
	if outputFormatFlag != "" {
		outputFormat = outputFormatFlag
	}
	if outputFormat == "" {
		outputFormat = constants.OutputFormatPretty
	}
	if err := validation.ValidateOutputFormat(outputFormat); err != nil {
		return "", eris.Wrap(err, "invalid output format")
	}
	return outputFormat, nil
}

func newCalculator() (*estimate.Calculator, error) {
	calc, err := estimate.NewCalculator(logger, conf.LandTransferTax)
	if err != nil {
		return nil, eris.Wrap(err, "invalid land transfer tax schedule")
	}
	return calc, nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configLocation, "config", constants.DefaultConfigFile, "path to lead file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level override (debug, info, warn, error)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
