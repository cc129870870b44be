package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/iwvelando/mortgage-calculator/internal/config"
	"github.com/iwvelando/mortgage-calculator/pkg/constants"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testLead = `borrower:
  firstName: Jane
  lastName: Doe
  email: jane.doe@example.com
  phone: 204-555-0100
  notes: Pre-approved with credit union
loan:
  homePrice: 325000
  downPayment: 0
  interestRate: 5
  termYears: 25
  startMonth: 2027-01
mail:
  to: broker@example.com
logging:
  level: error
`

func writeLead(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "lead.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0600))
	return path
}

// execute runs the root command with fresh flag values and returns stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	configLocation = constants.DefaultConfigFile
	logLevel = ""
	outputFormatFlag = ""
	scheduleYearly = false
	summaryMailto = false
	conf = nil
	logger = zap.NewNop()

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestRootCommand_HasSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}

	for _, name := range []string{"estimate", "schedule", "summary", "serve", "version"} {
		assert.True(t, names[name], "expected subcommand %q not found", name)
	}
}

func TestRootCommand_Flags(t *testing.T) {
	flag := rootCmd.PersistentFlags().Lookup("config")
	require.NotNil(t, flag)
	assert.Equal(t, constants.DefaultConfigFile, flag.DefValue)
	require.NotNil(t, rootCmd.PersistentFlags().Lookup("log-level"))

	for _, c := range []string{"estimate", "schedule", "summary"} {
		cmd, _, err := rootCmd.Find([]string{c})
		require.NoError(t, err)
		assert.NotNil(t, cmd.Flags().Lookup("output-format"), "%s should have --output-format", c)
	}
	assert.NotNil(t, scheduleCmd.Flags().Lookup("yearly"))
	assert.NotNil(t, summaryCmd.Flags().Lookup("mailto"))

	serverConfig := serveCmd.Flags().Lookup("server-config")
	require.NotNil(t, serverConfig)
	assert.Equal(t, constants.DefaultServerConfigFile, serverConfig.DefValue)
}

func TestEstimateCommand(t *testing.T) {
	path := writeLead(t, testLead)

	out, err := execute(t, "estimate", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "--- Estimate for Jane Doe ---")
	assert.Contains(t, out, "$1,899.92")
	assert.Contains(t, out, "$5,425.00")

	out, err = execute(t, "estimate", "--config", path, "--output-format", "csv")
	require.NoError(t, err)
	assert.Contains(t, out, `"Estimated Monthly Payment","1899.92"`)

	out, err = execute(t, "estimate", "--config", path, "--output-format", "json")
	require.NoError(t, err)
	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, "Manitoba Land Transfer Tax", decoded["taxLabel"])
}

func TestEstimateCommandOutputFormatFromLead(t *testing.T) {
	path := writeLead(t, testLead+"output:\n  format: csv\n")

	out, err := execute(t, "estimate", "--config", path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, `"item","amount"`), out)
}

func TestEstimateCommandErrors(t *testing.T) {
	path := writeLead(t, testLead)

	_, err := execute(t, "estimate", "--config", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = execute(t, "estimate", "--config", path, "--output-format", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid output format")

	_, err = execute(t, "estimate", "--config", path, "--log-level", "loud")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log level")
}

func TestScheduleCommand(t *testing.T) {
	path := writeLead(t, testLead)

	out, err := execute(t, "schedule", "--config", path, "--output-format", "csv")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 301)
	assert.True(t, strings.HasPrefix(lines[1], `"1","2027-01",`), lines[1])
	assert.True(t, strings.HasPrefix(lines[300], `"300","2051-12",`), lines[300])

	out, err = execute(t, "schedule", "--config", path, "--yearly")
	require.NoError(t, err)
	lines = strings.Split(strings.TrimSpace(out), "\n")
	assert.Len(t, lines, 27, "header, separator and 25 years")
}

func TestScheduleCommandTermTooLong(t *testing.T) {
	path := writeLead(t, strings.Replace(testLead, "termYears: 25", "termYears: 2000000000", 1))

	_, err := execute(t, "schedule", "--config", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "term too long")
}

func TestSummaryCommand(t *testing.T) {
	path := writeLead(t, testLead)

	out, err := execute(t, "summary", "--config", path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "To: broker@example.com\nSubject: Mortgage lead: Jane Doe\n\nName: Jane Doe\n"), out)
	assert.Contains(t, out, "Estimated Monthly Payment: $1,899.92")

	out, err = execute(t, "summary", "--config", path, "--mailto")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "mailto:broker@example.com?subject=Mortgage%20lead%3A%20Jane%20Doe&body=Name%3A%20Jane%20Doe%0A"), out)

	out, err = execute(t, "summary", "--config", path, "--output-format", "json")
	require.NoError(t, err)
	var decoded struct {
		Message map[string]string      `json:"message"`
		Payload map[string]interface{} `json:"payload"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, "Mortgage lead: Jane Doe", decoded.Message["subject"])
	assert.Equal(t, "1899.92", decoded.Payload["monthlyPayment"])

	_, err = execute(t, "summary", "--config", path, "--output-format", "csv")
	assert.Error(t, err)
}

func TestSummaryCommandIncompleteLead(t *testing.T) {
	path := writeLead(t, strings.Replace(testLead, "email: jane.doe@example.com", "email: ''", 1))

	_, err := execute(t, "summary", "--config", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "lead is incomplete")
	assert.Contains(t, err.Error(), "email: is required")
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version", "--config", filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err, "version does not read the lead file")
	assert.Equal(t, "mortgage-calculator dev\n", out)
}

func TestRunServerShutsDownOnCancel(t *testing.T) {
	srv := &http.Server{
		Addr:              "127.0.0.1:0",
		Handler:           http.NotFoundHandler(),
		ReadHeaderTimeout: time.Second,
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- runServer(ctx, srv) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestRunServerListenError(t *testing.T) {
	srv := &http.Server{Addr: "256.0.0.1:bad", ReadHeaderTimeout: time.Second}

	err := runServer(context.Background(), srv)
	assert.Error(t, err)
}

func TestBuildLogger(t *testing.T) {
	tests := []struct {
		name     string
		cfg      config.LoggingConfig
		override string
		wantErr  bool
	}{
		{"defaults", config.LoggingConfig{}, "", false},
		{"console debug", config.LoggingConfig{Level: "debug", Format: "console"}, "", false},
		{"override wins", config.LoggingConfig{Level: "bogus"}, "warn", false},
		{"warning alias", config.LoggingConfig{Level: "warning"}, "", false},
		{"invalid level", config.LoggingConfig{Level: "verbose"}, "", true},
		{"upper case level", config.LoggingConfig{Level: "DEBUG"}, "", false},
		{"invalid format", config.LoggingConfig{Format: "xml"}, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := buildLogger(tt.cfg, tt.override)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, l)
		})
	}
}

func TestBuildLoggerOutputFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "mortgage.log")

	l, err := buildLogger(config.LoggingConfig{Level: "info", OutputFile: path}, "")
	require.NoError(t, err)
	l.Info("written to file")
	_ = l.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "written to file")
	assert.Contains(t, string(data), `"version":"dev"`)
}

func TestUseLoggingKeepsLoggerOnError(t *testing.T) {
	logger = zap.NewNop()
	before := logger
	logLevel = ""

	err := useLogging(config.LoggingConfig{Level: "verbose"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log level")
	assert.Same(t, before, logger)
}
