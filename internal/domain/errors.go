package domain

import "errors"

// Domain errors
var (
	ErrInvalidQuery     = errors.New("invalid query")
	ErrInvalidLevel     = errors.New("invalid log level")
	ErrInvalidDate      = errors.New("invalid date")
	ErrInvalidPattern   = errors.New("invalid keyword pattern")
	ErrInputUnavailable = errors.New("input unavailable")
	ErrConfigNotFound   = errors.New("config file not found")
	ErrInvalidConfig    = errors.New("invalid configuration")
	ErrInvalidOutput    = errors.New("invalid output")
)

// Error codes for machine-readable (JSON) error output
const (
	ErrCodeInvalidQuery     = "INVALID_QUERY"
	ErrCodeInvalidLevel     = "INVALID_LEVEL"
	ErrCodeInvalidDate      = "INVALID_DATE"
	ErrCodeInvalidPattern   = "INVALID_PATTERN"
	ErrCodeInputUnavailable = "INPUT_UNAVAILABLE"
	ErrCodeConfigNotFound   = "CONFIG_NOT_FOUND"
	ErrCodeInvalidConfig    = "INVALID_CONFIG"
	ErrCodeInvalidOutput    = "INVALID_OUTPUT"
)

// ErrorCode returns the stable error code for a domain error.
// More specific sentinels are checked first since query errors may wrap several.
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrInvalidLevel):
		return ErrCodeInvalidLevel
	case errors.Is(err, ErrInvalidDate):
		return ErrCodeInvalidDate
	case errors.Is(err, ErrInvalidPattern):
		return ErrCodeInvalidPattern
	case errors.Is(err, ErrInvalidQuery):
		return ErrCodeInvalidQuery
	case errors.Is(err, ErrInputUnavailable):
		return ErrCodeInputUnavailable
	case errors.Is(err, ErrConfigNotFound):
		return ErrCodeConfigNotFound
	case errors.Is(err, ErrInvalidConfig):
		return ErrCodeInvalidConfig
	case errors.Is(err, ErrInvalidOutput):
		return ErrCodeInvalidOutput
	default:
		return "INTERNAL_ERROR"
	}
}
