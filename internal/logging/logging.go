// Package logging builds the zap logger shared by the commands.
package logging

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	FormatJSON    = "json"
	FormatConsole = "console"
)

// New builds a production logger at level. The console format switches to
// zap's development encoder for interactive use.
func New(level, format string) (*zap.Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}

	var config zap.Config
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", FormatJSON:
		config = zap.NewProductionConfig()
	case FormatConsole:
		config = zap.NewDevelopmentConfig()
	default:
		return nil, fmt.Errorf("logging: unknown format %q", format)
	}
	config.Level = zap.NewAtomicLevelAt(lvl)

	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("logging: build logger: %w", err)
	}
	return logger, nil
}

// ParseLevel maps a level name onto zap; empty means info.
func ParseLevel(level string) (zapcore.Level, error) {
	level = strings.TrimSpace(level)
	if level == "" {
		return zapcore.InfoLevel, nil
	}
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(strings.ToLower(level))); err != nil {
		return zapcore.InfoLevel, fmt.Errorf("logging: unknown level %q", level)
	}
	return lvl, nil
}
