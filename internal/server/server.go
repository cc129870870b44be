// Package server exposes the estimate form over HTTP: a JSON API for the
// calculators and lead composer, Prometheus metrics and the embedded form page.
package server

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/iwvelando/mortgage-calculator/internal/estimate"
	"github.com/iwvelando/mortgage-calculator/internal/lead"
	"github.com/iwvelando/mortgage-calculator/pkg/constants"
	"github.com/iwvelando/mortgage-calculator/pkg/datetime"
	"github.com/iwvelando/mortgage-calculator/pkg/landtax"
	"github.com/iwvelando/mortgage-calculator/pkg/mortgage"
	"github.com/iwvelando/mortgage-calculator/pkg/validation"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

//go:embed static/*
var staticFiles embed.FS

// Options configures the handler. Zero values fall back to defaults.
type Options struct {
	// Calculator evaluates forms; nil uses the default tax schedule.
	Calculator  *estimate.Calculator
	Mail        lead.Options
	MaxBodySize int64
	RateLimit   RateLimitConfig
	Version     string
	// Registry receives the handler's collectors and backs /metrics; nil
	// creates a private registry.
	Registry *prometheus.Registry
	// Now stamps submissions; nil uses time.Now.
	Now func() time.Time
}

type handler struct {
	logger      *zap.Logger
	calculator  *estimate.Calculator
	mail        lead.Options
	maxBodySize int64
	limiter     *clientLimiter
	trustProxy  bool
	metrics     *metrics
	version     string
	now         func() time.Time
}

// NewHandler constructs the HTTP handler that serves the form page and estimate API.
func NewHandler(logger *zap.Logger, opts Options) (http.Handler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	calculator := opts.Calculator
	if calculator == nil {
		var err error
		calculator, err = estimate.NewCalculator(logger, landtax.Default())
		if err != nil {
			return nil, fmt.Errorf("failed to build calculator: %w", err)
		}
	}

	maxBodySize := opts.MaxBodySize
	if maxBodySize <= 0 {
		maxBodySize = constants.DefaultMaxBodySizeBytes
	}

	version := strings.TrimSpace(opts.Version)
	if version == "" {
		version = "dev"
	}

	registry := opts.Registry
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	m, err := newMetrics(registry)
	if err != nil {
		return nil, fmt.Errorf("failed to register metrics: %w", err)
	}

	now := opts.Now
	if now == nil {
		now = time.Now
	}

	h := &handler{
		logger:      logger,
		calculator:  calculator,
		mail:        opts.Mail,
		maxBodySize: maxBodySize,
		limiter:     newClientLimiter(opts.RateLimit),
		trustProxy:  opts.RateLimit.TrustProxy,
		metrics:     m,
		version:     version,
		now:         now,
	}

	mux := http.NewServeMux()

	// Calculator endpoints
	mux.HandleFunc("/api/estimate", h.handleEstimate)
	mux.HandleFunc("/api/schedule", h.handleSchedule)

	// Lead hand-off, rate limited per client
	mux.HandleFunc("/api/summary", h.handleSummary)

	// Form metadata for the UI
	mux.HandleFunc("/api/defaults", h.handleDefaults)
	mux.HandleFunc("/api/version", h.handleVersion)

	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	// Static assets (form page)
	sub, err := fs.Sub(staticFiles, "static")
	if err != nil {
		return nil, fmt.Errorf("failed to prepare embedded static files: %w", err)
	}
	mux.Handle("/", http.FileServer(http.FS(sub)))

	return withLogger(logger, m, h.trustProxy, mux), nil
}

type estimateResponse struct {
	estimate.Estimate
	Formatted estimate.Formatted `json:"formatted"`
	Warnings  []string           `json:"warnings,omitempty"`
}

type scheduleResponse struct {
	MonthlyPayment float64                `json:"monthlyPayment"`
	Payments       int                    `json:"payments"`
	Years          []mortgage.YearSummary `json:"years"`
	Warnings       []string               `json:"warnings,omitempty"`
}

type summaryResponse struct {
	Reference   string       `json:"reference"`
	Subject     string       `json:"subject"`
	Body        string       `json:"body"`
	Mailto      string       `json:"mailto"`
	SubmittedAt string       `json:"submittedAt"`
	Payload     lead.Payload `json:"payload"`
	Warnings    []string     `json:"warnings,omitempty"`
}

type defaultsResponse struct {
	Form            estimate.Form    `json:"form"`
	Fields          []string         `json:"fields"`
	LandTransferTax landtax.Schedule `json:"landTransferTax"`
}

type validationErrorResponse struct {
	Error  string                 `json:"error"`
	Fields validation.FieldErrors `json:"fields"`
}

func (h *handler) handleEstimate(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleEstimate"
	if r.Method != http.MethodPost {
		h.methodNotAllowed(w, http.MethodPost)
		return
	}

	values, ok := h.decodeBody(w, r, op)
	if !ok {
		return
	}
	form, unknown := estimate.FormFromMap(estimate.DefaultForm(), values)
	est := h.calculator.Evaluate(form)

	h.writeJSON(w, http.StatusOK, estimateResponse{
		Estimate:  est,
		Formatted: est.Format(),
		Warnings:  unknownFieldWarnings(unknown),
	})
}

func (h *handler) handleSchedule(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleSchedule"
	if r.Method != http.MethodPost {
		h.methodNotAllowed(w, http.MethodPost)
		return
	}

	values, ok := h.decodeBody(w, r, op)
	if !ok {
		return
	}

	startMonth := ""
	if raw, present := values["startMonth"]; present {
		startMonth = strings.TrimSpace(fmt.Sprint(raw))
		delete(values, "startMonth")
		if err := datetime.ValidateMonth(startMonth); err != nil {
			h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("invalid startMonth: %v", err), op)
			return
		}
	}

	form, unknown := estimate.FormFromMap(estimate.DefaultForm(), values)
	payments, err := h.calculator.Amortize(form, startMonth)
	if errors.Is(err, mortgage.ErrTermTooLong) || errors.Is(err, datetime.ErrMonthOutOfRange) {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}
	if err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, fmt.Sprintf("failed to build schedule: %v", err), op)
		return
	}

	monthly := 0.0
	if len(payments) > 0 {
		monthly = payments[0].Payment
	}
	h.writeJSON(w, http.StatusOK, scheduleResponse{
		MonthlyPayment: monthly,
		Payments:       len(payments),
		Years:          mortgage.Summarize(payments),
		Warnings:       unknownFieldWarnings(unknown),
	})
}

func (h *handler) handleSummary(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleSummary"
	if r.Method != http.MethodPost {
		h.methodNotAllowed(w, http.MethodPost)
		return
	}

	client := clientIP(r, h.trustProxy)
	if !h.limiter.Allow(client) {
		h.metrics.rateLimited.Inc()
		h.logger.Warn("lead submission rate limited",
			zap.String("op", op),
			zap.String("clientIP", client),
		)
		h.writeJSON(w, http.StatusTooManyRequests, map[string]string{"error": "too many submissions, try again later"})
		return
	}

	values, ok := h.decodeBody(w, r, op)
	if !ok {
		return
	}
	form, unknown := estimate.FormFromMap(estimate.DefaultForm(), values)
	submission := lead.NewSubmissionAt(h.calculator.Evaluate(form), h.now())

	if err := submission.Validate(); err != nil {
		var fieldErrs validation.FieldErrors
		if errors.As(err, &fieldErrs) {
			h.logger.Warn("lead submission rejected",
				zap.String("op", op),
				zap.Int("invalidFields", len(fieldErrs)),
			)
			h.writeJSON(w, http.StatusBadRequest, validationErrorResponse{Error: err.Error(), Fields: fieldErrs})
			return
		}
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}

	msg := submission.Compose(h.mail)
	h.metrics.leads.Inc()
	h.logger.Info("lead composed",
		zap.String("op", op),
		zap.String("reference", submission.Reference),
	)

	h.writeJSON(w, http.StatusOK, summaryResponse{
		Reference:   submission.Reference,
		Subject:     msg.Subject,
		Body:        msg.Body,
		Mailto:      msg.MailtoURL,
		SubmittedAt: datetime.FormatTimestamp(submission.SubmittedAt),
		Payload:     submission.Payload(),
		Warnings:    unknownFieldWarnings(unknown),
	})
}

func (h *handler) handleDefaults(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.methodNotAllowed(w, http.MethodGet)
		return
	}

	h.writeJSON(w, http.StatusOK, defaultsResponse{
		Form:            estimate.DefaultForm(),
		Fields:          estimate.FieldNames(),
		LandTransferTax: h.calculator.TaxSchedule(),
	})
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.methodNotAllowed(w, http.MethodGet)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

// decodeBody reads a JSON object of form fields. An empty body is an empty
// object. It writes the error response itself and reports false on failure.
func (h *handler) decodeBody(w http.ResponseWriter, r *http.Request, op string) (map[string]interface{}, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodySize)

	values := map[string]interface{}{}
	if err := json.NewDecoder(r.Body).Decode(&values); err != nil {
		var maxBytesErr *http.MaxBytesError
		switch {
		case errors.Is(err, io.EOF):
			return values, true
		case errors.As(err, &maxBytesErr):
			h.respondErrorWithOp(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("request body exceeds limit of %d bytes", h.maxBodySize), op)
		default:
			h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("invalid JSON payload: %v", err), op)
		}
		return nil, false
	}
	return values, true
}

func unknownFieldWarnings(unknown []string) []string {
	if len(unknown) == 0 {
		return nil
	}
	warnings := make([]string, 0, len(unknown))
	for _, field := range unknown {
		warnings = append(warnings, fmt.Sprintf("unknown field %q ignored", field))
	}
	return warnings
}

func (h *handler) methodNotAllowed(w http.ResponseWriter, allowed string) {
	w.Header().Set("Allow", allowed)
	http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
}

func (h *handler) respondErrorWithOp(w http.ResponseWriter, status int, msg string, op string) {
	fields := []zap.Field{
		zap.String("op", op),
		zap.Int("status", status),
		zap.String("error", msg),
	}
	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed", fields...)
	} else {
		h.logger.Warn("request rejected", fields...)
	}

	h.writeJSON(w, status, map[string]string{"error": msg})
}

// writeJSON encodes payload before committing the status, so an encoding
// failure is answered with a 500 instead of an empty body.
func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(payload); err != nil {
		h.logger.Error("failed to encode response",
			zap.String("op", "server.writeJSON"),
			zap.Int("status", status),
			zap.Error(err),
		)
		buf.Reset()
		buf.WriteString(`{"error":"failed to encode response"}` + "\n")
		status = http.StatusInternalServerError
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(buf.Bytes()); err != nil {
		h.logger.Debug("failed to write response",
			zap.String("op", "server.writeJSON"),
			zap.Error(err),
		)
	}
}
