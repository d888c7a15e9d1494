package config

import (
	"fmt"
	"strings"

	"github.com/charliek/logscan/internal/domain"
	"github.com/charliek/logscan/internal/logging"
	"github.com/charliek/logscan/internal/output"
	"github.com/charliek/logscan/internal/parser"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks the configuration for errors
func Validate(config *Config) error {
	var errs []ValidationError

	if _, err := output.ParseFormat(config.Output.Format); err != nil {
		errs = append(errs, ValidationError{Field: "output.format", Message: err.Error()})
	}
	if _, err := output.ParseColorMode(config.Output.Color); err != nil {
		errs = append(errs, ValidationError{Field: "output.color", Message: err.Error()})
	}

	for i, layout := range config.Parser.Layouts {
		if err := parser.ValidateLayout(layout); err != nil {
			errs = append(errs, ValidationError{Field: fmt.Sprintf("parser.layouts[%d]", i), Message: err.Error()})
		}
	}

	if _, err := logging.ParseLevel(config.Log.Level); err != nil {
		errs = append(errs, ValidationError{Field: "log.level", Message: fmt.Sprintf("unknown level %q", config.Log.Level)})
	}
	if err := logging.ValidateFormat(config.Log.Format); err != nil {
		errs = append(errs, ValidationError{Field: "log.format", Message: err.Error()})
	}

	if len(errs) > 0 {
		msgs := make([]string, len(errs))
		for i, e := range errs {
			msgs[i] = e.Error()
		}
		return fmt.Errorf("%w: %s", domain.ErrInvalidConfig, strings.Join(msgs, "; "))
	}

	return nil
}
