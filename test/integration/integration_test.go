package integration

import (
	"bytes"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/iwvelando/mortgage-calculator/internal/config"
	"github.com/iwvelando/mortgage-calculator/internal/estimate"
	"github.com/iwvelando/mortgage-calculator/internal/lead"
	"github.com/iwvelando/mortgage-calculator/internal/server"
	"github.com/iwvelando/mortgage-calculator/pkg/mortgage"
	"github.com/iwvelando/mortgage-calculator/pkg/output"
	"github.com/iwvelando/mortgage-calculator/pkg/testutil"
	"go.uber.org/zap"
)

const testLeadPath = "../test_lead.yaml"

func loadLead(t *testing.T) (*config.Configuration, *estimate.Calculator) {
	t.Helper()
	conf, err := config.LoadConfiguration(testLeadPath)
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	if err := conf.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	calc, err := estimate.NewCalculator(zap.NewNop(), conf.LandTransferTax)
	if err != nil {
		t.Fatalf("NewCalculator() error = %v", err)
	}
	return conf, calc
}

// TestLeadFileBaseline checks the estimate derived from the sample lead file
// against values worked out by hand.
func TestLeadFileBaseline(t *testing.T) {
	conf, calc := loadLead(t)
	est := calc.Evaluate(conf.Form())

	tests := []struct {
		name     string
		got      float64
		expected float64
	}{
		{"home price", est.Inputs.Loan.HomePrice, 450000},
		{"down payment", est.Inputs.Loan.DownPayment, 90000},
		{"principal", est.Principal, 360000},
		{"monthly payment", est.Result.MonthlyPayment, 1824.07},
		{"land transfer tax", est.Result.LandTransferTax, 8550},
		{"fees total", est.FeesTotal, 7450},
		{"closing costs", est.ClosingCosts, 16000},
	}
	for _, tt := range tests {
		if math.Abs(tt.got-tt.expected) > 0.005 {
			t.Errorf("%s = %.4f, expected %.2f", tt.name, tt.got, tt.expected)
		}
	}

	if warnings := conf.ValidateConfiguration(); len(warnings) != 1 {
		t.Errorf("expected only the bracket jump warning, got %v", warnings)
	}
}

func TestScheduleConsistency(t *testing.T) {
	conf, calc := loadLead(t)

	payments, err := calc.Amortize(conf.Form(), conf.Loan.StartMonth)
	if err != nil {
		t.Fatalf("Amortize() error = %v", err)
	}
	if len(payments) != 360 {
		t.Fatalf("expected 360 payments, got %d", len(payments))
	}
	if payments[0].Month != "2027-03" || payments[359].Month != "2057-02" {
		t.Errorf("unexpected schedule bounds %s..%s", payments[0].Month, payments[359].Month)
	}

	principal := 0.0
	for _, p := range payments {
		principal += p.Principal
		if math.Abs(p.Principal+p.Interest-p.Payment) > 1e-6 {
			t.Fatalf("period %d: principal + interest != payment", p.Period)
		}
	}
	if math.Abs(principal-360000) > 0.01 {
		t.Errorf("principal portions sum to %.2f, expected 360000", principal)
	}
	if payments[359].RemainingPrincipal != 0 {
		t.Errorf("final balance %.2f, expected 0", payments[359].RemainingPrincipal)
	}

	years := mortgage.Summarize(payments)
	if len(years) != 30 {
		t.Fatalf("expected 30 loan years, got %d", len(years))
	}
	if years[0].Interest <= years[29].Interest {
		t.Errorf("interest should fall over the life of the loan")
	}
}

func TestOutputFormats(t *testing.T) {
	conf, calc := loadLead(t)
	est := calc.Evaluate(conf.Form())

	expected := map[string]string{
		"pretty": "Estimated Monthly Payment        | $1,824.07",
		"csv":    `"Estimated Monthly Payment","1824.07"`,
		"json":   `"monthlyPayment": "$1,824.07"`,
	}
	for format, want := range expected {
		var buf bytes.Buffer
		if err := output.WriteEstimate(&buf, format, est); err != nil {
			t.Fatalf("WriteEstimate(%s) error = %v", format, err)
		}
		if !strings.Contains(buf.String(), want) {
			t.Errorf("%s output missing %q:\n%s", format, want, buf.String())
		}
	}
}

func TestLeadComposition(t *testing.T) {
	conf, calc := loadLead(t)

	submission := lead.NewSubmissionAt(calc.Evaluate(conf.Form()), testutil.SubmittedAt)
	if err := submission.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	msg := submission.Compose(conf.Mail)

	if msg.Subject != "Mortgage lead: Sam Tremblay" {
		t.Errorf("unexpected subject %q", msg.Subject)
	}
	for _, want := range []string{
		"Home Price: $450,000.00",
		"Down Payment: $90,000.00",
		"Interest Rate: 4.5%",
		"Term (years): 30",
		"Estimated Monthly Payment: $1,824.07",
		"Property Tax: $3,600.00",
		"Manitoba Land Transfer Tax: $8,550.00",
		"Notes: Prefers contact after 5pm",
	} {
		if testutil.FindLine(submission.Lines(), want) == "" {
			t.Errorf("summary missing line %q", want)
		}
	}

	parsed, err := url.Parse(msg.MailtoURL)
	if err != nil {
		t.Fatalf("mailto link does not parse: %v", err)
	}
	if parsed.Opaque != "leads@example.com" {
		t.Errorf("unexpected recipient %q", parsed.Opaque)
	}
	if got := parsed.Query().Get("body"); got != msg.Body {
		t.Errorf("mailto body does not round-trip")
	}
}

// TestServerEndToEnd drives the HTTP API over a real listener with the same
// lead the CLI reads.
func TestServerEndToEnd(t *testing.T) {
	conf, calc := loadLead(t)

	handler, err := server.NewHandler(zap.NewNop(), server.Options{Calculator: calc, Mail: conf.Mail})
	if err != nil {
		t.Fatalf("NewHandler() error = %v", err)
	}
	srv := httptest.NewServer(handler)
	defer srv.Close()

	payload, err := json.Marshal(conf.Form())
	if err != nil {
		t.Fatalf("failed to encode form: %v", err)
	}

	resp, err := http.Post(srv.URL+"/api/summary", "application/json", bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("POST /api/summary error = %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.StatusCode)
	}

	var decoded struct {
		Subject string                 `json:"subject"`
		Body    string                 `json:"body"`
		Mailto  string                 `json:"mailto"`
		Payload map[string]interface{} `json:"payload"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if decoded.Subject != "Mortgage lead: Sam Tremblay" {
		t.Errorf("unexpected subject %q", decoded.Subject)
	}
	if !strings.HasPrefix(decoded.Mailto, "mailto:leads@example.com?subject=") {
		t.Errorf("unexpected mailto %q", decoded.Mailto)
	}
	if decoded.Payload["monthlyPayment"] != "1824.07" || decoded.Payload["landTransferTax"] != "8550" {
		t.Errorf("unexpected payload %v", decoded.Payload)
	}
	if !strings.Contains(decoded.Body, "Estimated Monthly Payment: $1,824.07") {
		t.Errorf("body missing monthly payment:\n%s", decoded.Body)
	}
}
