package server

import (
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// RequestIDHeader carries the request ID in both directions.
const RequestIDHeader = "X-Request-Id"

// statusRecorder wraps http.ResponseWriter to capture the final HTTP status
// code written by the downstream handler.
type statusRecorder struct {
	http.ResponseWriter

	status int
}

func (rec *statusRecorder) WriteHeader(code int) {
	rec.status = code
	rec.ResponseWriter.WriteHeader(code)
}

// clientIP determines the originating client address. X-Forwarded-For and
// X-Real-IP are only honored when trustProxy is set.
func clientIP(r *http.Request, trustProxy bool) string {
	if trustProxy {
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			ips := strings.Split(xff, ",")
			return strings.TrimSpace(ips[0])
		}
		if xrip := r.Header.Get("X-Real-IP"); xrip != "" {
			return strings.TrimSpace(xrip)
		}
	}
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// withLogger assigns each request an ID, echoes it back in the response and
// writes a structured access log once the handler finishes.
func withLogger(logger *zap.Logger, metrics *metrics, trustProxy bool, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, requestID)

		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		elapsed := time.Since(start)

		metrics.observe(r.URL.Path, rec.status, elapsed)
		logger.Info("request handled",
			zap.String("op", "server.withLogger"),
			zap.String("requestID", requestID),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("clientIP", clientIP(r, trustProxy)),
			zap.Int("status", rec.status),
			zap.Duration("duration", elapsed),
		)
	})
}

const (
	// limiterIdleTimeout is how long a client's bucket survives without
	// requests.
	limiterIdleTimeout = time.Hour
	// limiterSweepInterval is the minimum gap between sweeps of idle buckets.
	limiterSweepInterval = 10 * time.Minute
)

type clientBucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// clientLimiter hands out one token bucket per client address. Buckets idle
// for limiterIdleTimeout are dropped on the next sweep.
type clientLimiter struct {
	mu        sync.Mutex
	limit     rate.Limit
	burst     int
	buckets   map[string]*clientBucket
	lastSweep time.Time
	now       func() time.Time
}

// newClientLimiter returns nil when perMinute is 0, which disables limiting.
func newClientLimiter(cfg RateLimitConfig) *clientLimiter {
	if cfg.PerMinute <= 0 {
		return nil
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}
	return &clientLimiter{
		limit:     rate.Every(time.Minute / time.Duration(cfg.PerMinute)),
		burst:     burst,
		buckets:   make(map[string]*clientBucket),
		lastSweep: time.Now(),
		now:       time.Now,
	}
}

// Allow reports whether the client may make another request now.
func (l *clientLimiter) Allow(client string) bool {
	if l == nil {
		return true
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastSweep) >= limiterSweepInterval {
		l.sweep(now)
	}

	bucket, ok := l.buckets[client]
	if !ok {
		bucket = &clientBucket{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.buckets[client] = bucket
	}
	bucket.lastSeen = now
	return bucket.limiter.AllowN(now, 1)
}

// sweep drops buckets that have been idle for limiterIdleTimeout. Callers
// hold l.mu.
func (l *clientLimiter) sweep(now time.Time) {
	for client, bucket := range l.buckets {
		if now.Sub(bucket.lastSeen) > limiterIdleTimeout {
			delete(l.buckets, client)
		}
	}
	l.lastSweep = now
}

// metrics are the collectors the handler registers.
type metrics struct {
	requests    *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	leads       prometheus.Counter
	rateLimited prometheus.Counter
}

func newMetrics(registerer prometheus.Registerer) (*metrics, error) {
	m := &metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mortgage",
			Name:      "http_requests_total",
			Help:      "HTTP requests by path and status code.",
		}, []string{"path", "code"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "mortgage",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by path.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"path"}),
		leads: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "mortgage",
			Name:      "leads_composed_total",
			Help:      "Lead summaries composed.",
		}),
		rateLimited: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "mortgage",
			Name:      "rate_limited_total",
			Help:      "Lead submissions rejected by the per-client rate limit.",
		}),
	}
	for _, c := range []prometheus.Collector{m.requests, m.duration, m.leads, m.rateLimited} {
		if err := registerer.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// knownPaths keeps label cardinality bounded for unrouted paths.
var knownPaths = map[string]bool{
	"/api/estimate": true,
	"/api/schedule": true,
	"/api/summary":  true,
	"/api/defaults": true,
	"/api/version":  true,
	"/metrics":      true,
	"/":             true,
}

func (m *metrics) observe(path string, status int, elapsed time.Duration) {
	if !knownPaths[path] {
		path = "other"
	}
	m.requests.WithLabelValues(path, strconv.Itoa(status)).Inc()
	m.duration.WithLabelValues(path).Observe(elapsed.Seconds())
}
