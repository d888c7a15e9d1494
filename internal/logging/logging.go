// Package logging builds the zap logger used for diagnostics on stderr.
// Diagnostics never share a stream with result output.
package logging

import (
	"fmt"
	"io"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Supported encoder formats
const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

// ParseLevel converts a level name (debug, info, warn, error) to a zap level
func ParseLevel(level string) (zapcore.Level, error) {
	var zapLevel zapcore.Level
	if err := zapLevel.UnmarshalText([]byte(level)); err != nil {
		return zapLevel, fmt.Errorf("invalid log level: %w", err)
	}
	return zapLevel, nil
}

// ValidateFormat checks an encoder format name
func ValidateFormat(format string) error {
	switch format {
	case FormatConsole, FormatJSON:
		return nil
	default:
		return fmt.Errorf("invalid log format %q (expected console or json)", format)
	}
}

// New creates a logger writing to w. The json format uses the production
// encoder; anything else uses the development console encoder.
func New(level, format string, w io.Writer) (*zap.Logger, error) {
	zapLevel, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}
	if err := ValidateFormat(format); err != nil {
		return nil, err
	}

	var loggerConfig zap.Config
	if format == FormatJSON {
		loggerConfig = zap.NewProductionConfig()
	} else {
		loggerConfig = zap.NewDevelopmentConfig()
	}

	var encoder zapcore.Encoder
	if format == FormatJSON {
		encoder = zapcore.NewJSONEncoder(loggerConfig.EncoderConfig)
	} else {
		encoder = zapcore.NewConsoleEncoder(loggerConfig.EncoderConfig)
	}

	core := zapcore.NewCore(encoder, zapcore.Lock(zapcore.AddSync(w)), zap.NewAtomicLevelAt(zapLevel))
	return zap.New(core), nil
}
