package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/iwvelando/mortgage-calculator/internal/config"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var logLevels = map[string]zapcore.Level{
	"debug":   zapcore.DebugLevel,
	"info":    zapcore.InfoLevel,
	"warn":    zapcore.WarnLevel,
	"warning": zapcore.WarnLevel,
	"error":   zapcore.ErrorLevel,
}

var logEncodings = map[string]func() zap.Config{
	"json":    zap.NewProductionConfig,
	"console": zap.NewDevelopmentConfig,
}

// useLogging swaps the command logger for one built from settings. The
// --log-level flag wins over the file's level.
func useLogging(settings config.LoggingConfig) error {
	l, err := buildLogger(settings, logLevel)
	if err != nil {
		return eris.Wrap(err, "failed to initialize logger")
	}
	logger = l
	return nil
}

// buildLogger writes to stderr, keeping stdout for command output, unless
// settings name an output file.
func buildLogger(settings config.LoggingConfig, levelOverride string) (*zap.Logger, error) {
	levelName := firstSet(levelOverride, settings.Level, "info")
	level, ok := logLevels[strings.ToLower(levelName)]
	if !ok {
		return nil, fmt.Errorf("invalid log level: %s", levelName)
	}

	encoding := firstSet(settings.Format, "json")
	newConfig, ok := logEncodings[encoding]
	if !ok {
		return nil, fmt.Errorf("invalid log format: %s", encoding)
	}

	sink := "stderr"
	if settings.OutputFile != "" {
		if err := prepareLogFile(settings.OutputFile); err != nil {
			return nil, err
		}
		sink = settings.OutputFile
	}

	zapConfig := newConfig()
	zapConfig.Level = zap.NewAtomicLevelAt(level)
	zapConfig.OutputPaths = []string{sink}
	zapConfig.ErrorOutputPaths = []string{sink}
	return zapConfig.Build(zap.Fields(zap.String("version", version)))
}

// prepareLogFile creates the log file and its directory so a bad path fails
// before any command runs.
func prepareLogFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create log directory for %s: %w", path, err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file %s: %w", path, err)
	}
	return file.Close()
}

func firstSet(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
