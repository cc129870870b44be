// Package config defines the data structures of a lead file and includes
// functions for loading it and turning it into an estimate form.
package config

import (
	"fmt"
	"io"
	"strings"

	"github.com/iwvelando/mortgage-calculator/internal/estimate"
	"github.com/iwvelando/mortgage-calculator/internal/lead"
	"github.com/iwvelando/mortgage-calculator/pkg/constants"
	"github.com/iwvelando/mortgage-calculator/pkg/landtax"
	"github.com/spf13/viper"
)

// Configuration holds everything needed to evaluate and send one lead.
type Configuration struct {
	Borrower        Borrower         `yaml:"borrower" mapstructure:"borrower"`
	Loan            Loan             `yaml:"loan" mapstructure:"loan"`
	Fees            Fees             `yaml:"fees" mapstructure:"fees"`
	Mail            lead.Options     `yaml:"mail" mapstructure:"mail"`
	LandTransferTax landtax.Schedule `yaml:"landTransferTax" mapstructure:"landTransferTax"`
	Logging         LoggingConfig    `yaml:"logging,omitempty" mapstructure:"logging"`
	Output          OutputConfig     `yaml:"output,omitempty" mapstructure:"output"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty" mapstructure:"level"`           // debug, info, warn, error
	Format     string `yaml:"format,omitempty" mapstructure:"format"`         // json, console
	OutputFile string `yaml:"outputFile,omitempty" mapstructure:"outputFile"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty" mapstructure:"format"` // pretty, csv, json
}

// Borrower holds the contact section of a lead file.
type Borrower struct {
	FirstName string `yaml:"firstName" mapstructure:"firstName"`
	LastName  string `yaml:"lastName" mapstructure:"lastName"`
	Email     string `yaml:"email" mapstructure:"email"`
	Phone     string `yaml:"phone" mapstructure:"phone"`
	Notes     string `yaml:"notes" mapstructure:"notes"`
}

// Loan holds the loan section of a lead file. Values are kept as raw text
// so they go through the same coercion as the form.
type Loan struct {
	HomePrice    string `yaml:"homePrice" mapstructure:"homePrice"`
	DownPayment  string `yaml:"downPayment" mapstructure:"downPayment"`
	InterestRate string `yaml:"interestRate" mapstructure:"interestRate"`
	TermYears    string `yaml:"termYears" mapstructure:"termYears"`
	// StartMonth (YYYY-MM) labels the first payment of the amortization schedule.
	StartMonth string `yaml:"startMonth" mapstructure:"startMonth"`
}

// Fees holds the fee section of a lead file.
type Fees struct {
	PropertyTax        string `yaml:"propertyTax" mapstructure:"propertyTax"`
	Insurance          string `yaml:"insurance" mapstructure:"insurance"`
	LawyerFees         string `yaml:"lawyerFees" mapstructure:"lawyerFees"`
	InspectionFees     string `yaml:"inspectionFees" mapstructure:"inspectionFees"`
	AppraisalFees      string `yaml:"appraisalFees" mapstructure:"appraisalFees"`
	TitleInsuranceFees string `yaml:"titleInsuranceFees" mapstructure:"titleInsuranceFees"`
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// lead file there. Values can be overridden with MORTGAGE_ prefixed
// environment variables, e.g. MORTGAGE_LOAN_INTERESTRATE.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %w", err)
	}
	return decode(v)
}

// LoadConfigurationFromReader loads a YAML-formatted lead file from r.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v := newViper()
	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config data, %w", err)
	}
	return decode(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yml")
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func decode(v *viper.Viper) (*Configuration, error) {
	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %w", err)
	}
	configuration.applyDefaults()
	return &configuration, nil
}

// applyDefaults fills in the tax schedule and any loan field the file leaves
// out with the values the form opens with.
func (conf *Configuration) applyDefaults() {
	defaults := estimate.DefaultForm()
	if strings.TrimSpace(conf.Loan.HomePrice) == "" {
		conf.Loan.HomePrice = defaults.HomePrice
	}
	if strings.TrimSpace(conf.Loan.DownPayment) == "" {
		conf.Loan.DownPayment = defaults.DownPayment
	}
	if strings.TrimSpace(conf.Loan.InterestRate) == "" {
		conf.Loan.InterestRate = defaults.InterestRate
	}
	if strings.TrimSpace(conf.Loan.TermYears) == "" {
		conf.Loan.TermYears = defaults.TermYears
	}

	if len(conf.LandTransferTax.Brackets) == 0 {
		region := conf.LandTransferTax.Region
		conf.LandTransferTax = landtax.Default()
		if strings.TrimSpace(region) != "" {
			conf.LandTransferTax.Region = region
		}
	}
	if strings.TrimSpace(conf.Mail.SubjectPrefix) == "" {
		conf.Mail.SubjectPrefix = constants.DefaultSubjectPrefix
	}
}

// Form converts the lead file into an estimate form snapshot.
func (conf *Configuration) Form() estimate.Form {
	return estimate.Form{
		FirstName:          conf.Borrower.FirstName,
		LastName:           conf.Borrower.LastName,
		Email:              conf.Borrower.Email,
		Phone:              conf.Borrower.Phone,
		Notes:              conf.Borrower.Notes,
		HomePrice:          conf.Loan.HomePrice,
		DownPayment:        conf.Loan.DownPayment,
		InterestRate:       conf.Loan.InterestRate,
		TermYears:          conf.Loan.TermYears,
		PropertyTax:        conf.Fees.PropertyTax,
		Insurance:          conf.Fees.Insurance,
		LawyerFees:         conf.Fees.LawyerFees,
		InspectionFees:     conf.Fees.InspectionFees,
		AppraisalFees:      conf.Fees.AppraisalFees,
		TitleInsuranceFees: conf.Fees.TitleInsuranceFees,
	}
}
