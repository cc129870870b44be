package server

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"unicode"

	"github.com/iwvelando/mortgage-calculator/internal/config"
	"github.com/iwvelando/mortgage-calculator/internal/lead"
	"github.com/iwvelando/mortgage-calculator/pkg/constants"
	"gopkg.in/yaml.v3"
)

// Config defines runtime parameters for the HTTP server.
type Config struct {
	Address       string               `yaml:"address"`
	MaxBodySize   string               `yaml:"maxBodySize"`
	RateLimit     RateLimitConfig      `yaml:"rateLimit"`
	Mail          lead.Options         `yaml:"mail"`
	Logging       config.LoggingConfig `yaml:"logging"`
	bodySizeBytes int64
}

// RateLimitConfig bounds how often one client may submit a lead. A
// perMinute of 0 turns limiting off. Set trustProxy only when the server
// sits behind a proxy that overwrites X-Forwarded-For; clients are then keyed
// by that header instead of the connection address.
type RateLimitConfig struct {
	PerMinute  int  `yaml:"perMinute"`
	Burst      int  `yaml:"burst"`
	TrustProxy bool `yaml:"trustProxy"`
}

// LoadConfig loads the server configuration from YAML. If the file does not exist,
// defaults are returned without error.
func LoadConfig(path string) (*Config, error) {
	cfg := defaultConfig()

	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read server config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse server config: %w", err)
	}

	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaultConfig() *Config {
	return &Config{
		Address:     constants.DefaultServerAddress,
		MaxBodySize: strconv.FormatInt(constants.DefaultMaxBodySizeBytes, 10),
		RateLimit: RateLimitConfig{
			PerMinute: constants.DefaultRateLimitPerMinute,
			Burst:     constants.DefaultRateLimitBurst,
		},
		Mail:          lead.Options{SubjectPrefix: constants.DefaultSubjectPrefix},
		bodySizeBytes: constants.DefaultMaxBodySizeBytes,
	}
}

// BodySizeBytes returns the configured request body limit in bytes.
func (c *Config) BodySizeBytes() int64 {
	return c.bodySizeBytes
}

// SetBodySizeBytes overrides the configured request body limit.
func (c *Config) SetBodySizeBytes(size int64) {
	if size > 0 {
		c.bodySizeBytes = size
		c.MaxBodySize = strconv.FormatInt(size, 10)
	}
}

func (c *Config) normalize() error {
	if strings.TrimSpace(c.Address) == "" {
		c.Address = constants.DefaultServerAddress
	}
	if c.RateLimit.PerMinute < 0 {
		return fmt.Errorf("rateLimit.perMinute must not be negative, got %d", c.RateLimit.PerMinute)
	}
	if c.RateLimit.Burst <= 0 {
		c.RateLimit.Burst = constants.DefaultRateLimitBurst
	}
	if strings.TrimSpace(c.Mail.SubjectPrefix) == "" {
		c.Mail.SubjectPrefix = constants.DefaultSubjectPrefix
	}

	sizeStr := strings.TrimSpace(c.MaxBodySize)
	if sizeStr == "" {
		c.bodySizeBytes = constants.DefaultMaxBodySizeBytes
		c.MaxBodySize = strconv.FormatInt(constants.DefaultMaxBodySizeBytes, 10)
		return nil
	}

	bytes, err := ParseSize(sizeStr)
	if err != nil {
		return err
	}
	if bytes <= 0 {
		bytes = constants.DefaultMaxBodySizeBytes
	}
	c.bodySizeBytes = bytes
	return nil
}

// ParseSize converts a human-friendly byte string (e.g., "256K", "10M") into bytes.
func ParseSize(value string) (int64, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return constants.DefaultMaxBodySizeBytes, nil
	}

	upper := strings.ToUpper(trimmed)
	idx := len(upper)
	for idx > 0 && !unicode.IsDigit(rune(upper[idx-1])) {
		idx--
	}
	if idx == 0 {
		return 0, fmt.Errorf("invalid size: %s", value)
	}
	numPart := strings.TrimSpace(upper[:idx])
	unitPart := strings.TrimSpace(upper[idx:])

	n, err := strconv.ParseInt(numPart, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid size value %q: %w", value, err)
	}

	var multiplier int64
	switch unitPart {
	case "", "B":
		multiplier = 1
	case "K", "KB":
		multiplier = 1024
	case "M", "MB":
		multiplier = 1024 * 1024
	default:
		return 0, fmt.Errorf("unsupported size unit %q", unitPart)
	}

	if n > 0 && n > (1<<62)/multiplier {
		return 0, fmt.Errorf("size overflow for value %s", value)
	}
	return n * multiplier, nil
}
