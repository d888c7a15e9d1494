// Package constants provides shared configuration values used across the logscan application.
package constants

// Configuration file defaults
const (
	// DefaultConfigFile is the default configuration filename, looked up in the working directory
	DefaultConfigFile = ".logscan.yaml"

	// EnvPrefix is the prefix for environment variable overrides (LOGSCAN_OUTPUT_FORMAT, ...)
	EnvPrefix = "LOGSCAN"
)

// Output defaults
const (
	// DefaultOutputFormat is the renderer used when none is configured
	DefaultOutputFormat = "text"

	// DefaultColorMode controls level coloring in text output
	DefaultColorMode = "auto"

	// DisplayTimeLayout is how timestamps with a time-of-day are rendered
	DisplayTimeLayout = "2006-01-02 15:04:05"

	// DisplayDateLayout is how date-only timestamps are rendered
	DisplayDateLayout = "2006-01-02"
)

// Diagnostic logging defaults
const (
	// DefaultLogLevel is the zap level for diagnostics written to stderr
	DefaultLogLevel = "warn"

	// DefaultLogFormat is the diagnostics encoder (console or json)
	DefaultLogFormat = "console"
)

// Query limits
const (
	// MaxPatternLength is the maximum allowed length for keyword patterns
	// to prevent pathological regular expressions
	MaxPatternLength = 256
)

// Buffer sizes
const (
	// ReaderBufferSize is the buffered reader size for log line scanning
	ReaderBufferSize = 64 * 1024 // 64KB

	// MaxLineLength caps a single log line; longer lines are truncated
	MaxLineLength = 1024 * 1024 // 1MB
)
