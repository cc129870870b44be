package server

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/iwvelando/mortgage-calculator/pkg/constants"
)

func writeServerConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "server-config.yaml")
	if err := os.WriteFile(path, []byte(contents), 0600); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}
	return path
}

func TestLoadConfigDefaultsWhenMissing(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Address != constants.DefaultServerAddress {
		t.Fatalf("expected default address, got %q", cfg.Address)
	}
	if cfg.BodySizeBytes() != constants.DefaultMaxBodySizeBytes {
		t.Fatalf("expected default body size, got %d", cfg.BodySizeBytes())
	}
	if cfg.RateLimit.PerMinute != constants.DefaultRateLimitPerMinute || cfg.RateLimit.Burst != constants.DefaultRateLimitBurst || cfg.RateLimit.TrustProxy {
		t.Fatalf("expected default rate limit, got %+v", cfg.RateLimit)
	}
	if cfg.Mail.SubjectPrefix != constants.DefaultSubjectPrefix {
		t.Fatalf("expected default subject prefix, got %q", cfg.Mail.SubjectPrefix)
	}
	if cfg.Logging.Level != "" || cfg.Logging.Format != "" || cfg.Logging.OutputFile != "" {
		t.Fatalf("expected empty logging defaults, got %+v", cfg.Logging)
	}
}

func TestLoadConfigEmptyPath(t *testing.T) {
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.BodySizeBytes() != constants.DefaultMaxBodySizeBytes {
		t.Fatalf("expected default body size, got %d", cfg.BodySizeBytes())
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	path := writeServerConfig(t, `address: 127.0.0.1:9000
maxBodySize: 2M
rateLimit:
  perMinute: 10
  burst: 3
  trustProxy: true
mail:
  to: broker@example.com
  subjectPrefix: "New lead:"
logging:
  level: debug
  format: console
  outputFile: /tmp/server.log
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Address != "127.0.0.1:9000" {
		t.Fatalf("expected address override, got %s", cfg.Address)
	}
	if cfg.BodySizeBytes() != 2*1024*1024 {
		t.Fatalf("expected body size override, got %d", cfg.BodySizeBytes())
	}
	if cfg.RateLimit.PerMinute != 10 || cfg.RateLimit.Burst != 3 || !cfg.RateLimit.TrustProxy {
		t.Fatalf("expected rate limit override, got %+v", cfg.RateLimit)
	}
	if cfg.Mail.To != "broker@example.com" || cfg.Mail.SubjectPrefix != "New lead:" {
		t.Fatalf("expected mail override, got %+v", cfg.Mail)
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("expected logging level debug, got %s", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "console" {
		t.Fatalf("expected logging format console, got %s", cfg.Logging.Format)
	}
	if cfg.Logging.OutputFile != "/tmp/server.log" {
		t.Fatalf("expected logging outputFile /tmp/server.log, got %s", cfg.Logging.OutputFile)
	}
}

func TestLoadConfigInvalid(t *testing.T) {
	tests := map[string]string{
		"bad size":          "maxBodySize: invalid",
		"negative limit":    "rateLimit:\n  perMinute: -1",
		"malformed yaml":    "address: [unterminated",
		"fractional size":   "maxBodySize: 1.5M",
		"unsupported units": "maxBodySize: 1G",
	}

	for name, contents := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := LoadConfig(writeServerConfig(t, contents)); err == nil {
				t.Fatalf("expected error for %q but got nil", contents)
			}
		})
	}
}

func TestSetBodySizeBytes(t *testing.T) {
	cfg, _ := LoadConfig("")

	cfg.SetBodySizeBytes(0)
	if cfg.BodySizeBytes() != constants.DefaultMaxBodySizeBytes {
		t.Fatalf("non-positive override should be ignored, got %d", cfg.BodySizeBytes())
	}

	cfg.SetBodySizeBytes(4096)
	if cfg.BodySizeBytes() != 4096 || cfg.MaxBodySize != "4096" {
		t.Fatalf("expected override to 4096, got %d (%s)", cfg.BodySizeBytes(), cfg.MaxBodySize)
	}
}

func TestParseSize(t *testing.T) {
	tests := map[string]int64{
		"":          constants.DefaultMaxBodySizeBytes,
		"1024":      1024,
		"512b":      512,
		"256K":      256 * 1024,
		"64kb":      64 * 1024,
		"1m":        1024 * 1024,
		"3MB":       3 * 1024 * 1024,
		"  4096   ": 4096,
	}

	for input, expected := range tests {
		got, err := ParseSize(input)
		if err != nil {
			t.Fatalf("ParseSize(%q) returned error: %v", input, err)
		}
		if got != expected {
			t.Fatalf("ParseSize(%q) = %d, expected %d", input, got, expected)
		}
	}

	if _, err := ParseSize("1TB"); err == nil {
		t.Fatal("expected error for unsupported unit")
	}
	if _, err := ParseSize("abc"); err == nil {
		t.Fatal("expected error for invalid number")
	}
}
