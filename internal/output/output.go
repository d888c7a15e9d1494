// Package output renders query results as text, JSON or CSV.
package output

import (
	"fmt"
	"io"
	"iter"
	"strings"

	"github.com/charliek/logscan/internal/constants"
	"github.com/charliek/logscan/internal/domain"
)

// Format selects a renderer
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
)

// Formats returns every supported format
func Formats() []Format {
	return []Format{FormatText, FormatJSON, FormatCSV}
}

// ParseFormat validates a format name, case-insensitively
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Formats() {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown output format %q (expected text, json or csv)", s)
}

// ColorMode controls level coloring in text output
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// ParseColorMode validates a color mode name, case-insensitively
func ParseColorMode(s string) (ColorMode, error) {
	switch m := ColorMode(strings.ToLower(strings.TrimSpace(s))); m {
	case ColorAuto, ColorAlways, ColorNever:
		return m, nil
	default:
		return "", fmt.Errorf("unknown color mode %q (expected auto, always or never)", s)
	}
}

// Input describes the scanned source for overview headers
type Input struct {
	Path        string
	Size        int64
	Compression string
}

// Options configures a Renderer
type Options struct {
	Color ColorMode
	Input Input
}

// Renderer writes analyze and overview results
type Renderer interface {
	// Entries writes every entry of seq and returns how many were written
	Entries(seq iter.Seq[domain.LogEntry]) (int, error)
	// Overview writes aggregate statistics
	Overview(stats domain.OverviewStats) error
}

// New creates a Renderer for format writing to w
func New(format Format, w io.Writer, opts Options) (Renderer, error) {
	switch format {
	case FormatText, "":
		return newTextRenderer(w, opts), nil
	case FormatJSON:
		return newJSONRenderer(w), nil
	case FormatCSV:
		return newCSVRenderer(w), nil
	default:
		return nil, fmt.Errorf("unknown output format %q", format)
	}
}

// formatTimestamp renders an entry's timestamp at the precision it was
// logged with, or "" when it has none.
func formatTimestamp(entry domain.LogEntry) string {
	switch {
	case !entry.HasTimestamp():
		return ""
	case entry.HasTime:
		return entry.Timestamp.Format(constants.DisplayTimeLayout)
	default:
		return entry.Timestamp.Format(constants.DisplayDateLayout)
	}
}
