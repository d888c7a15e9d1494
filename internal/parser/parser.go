// Package parser turns raw log lines into structured entries.
//
// Parsing is tolerant: a line is broken into an optional timestamp, an
// optional level token and a message, each extracted independently. Only
// lines with no usable content at all are reported as a ParseIssue.
package parser

import (
	"fmt"
	"iter"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/charliek/logscan/internal/domain"
)

// layout is one accepted timestamp format. All layouts are fixed width so
// a candidate token can be sliced off the front of a line before parsing.
type layout struct {
	format  string
	hasTime bool
}

// defaultLayouts are tried in order, most specific first
var defaultLayouts = []layout{
	{"2006-01-02 15:04:05", true},
	{"2006-01-02T15:04:05", true},
	{"2006-01-02 15:04", true},
	{"02/01/2006 15:04:05", true},
	{"02/01/2006 15:04", true},
	{"2006-01-02", false},
	{"02/01/2006", false},
}

// referenceTime is formatted with candidate layouts to check they are fixed width
var referenceTime = time.Date(2024, time.November, 22, 13, 14, 15, 0, time.UTC)

// Parser converts a raw log line into a LogEntry
type Parser struct {
	layouts []layout
}

// Option configures a Parser
type Option func(*Parser)

// WithLayouts appends extra timestamp layouts (Go reference-time syntax),
// tried after the built-in ones. Layouts that fail ValidateLayout are skipped.
func WithLayouts(formats ...string) Option {
	return func(p *Parser) {
		for _, f := range formats {
			if ValidateLayout(f) != nil {
				continue
			}
			p.layouts = append(p.layouts, layout{format: f, hasTime: strings.Contains(f, "04")})
		}
	}
}

// New creates a Parser with the built-in layouts plus any options
func New(opts ...Option) *Parser {
	p := &Parser{layouts: append([]layout(nil), defaultLayouts...)}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

var defaultParser = New()

// Parse parses a line with the built-in layouts
func Parse(line string) (domain.LogEntry, error) {
	return defaultParser.Parse(line)
}

// ValidateLayout checks that a timestamp layout carries a date and renders
// at a fixed width.
func ValidateLayout(format string) error {
	if format == "" {
		return fmt.Errorf("empty layout")
	}
	if !strings.Contains(format, "06") || !strings.Contains(format, "02") {
		return fmt.Errorf("layout %q must contain a year and a day", format)
	}
	sample := referenceTime.Format(format)
	if len(sample) != len(format) {
		return fmt.Errorf("layout %q is not fixed width", format)
	}
	if _, err := time.Parse(format, sample); err != nil {
		return fmt.Errorf("layout %q does not round-trip: %w", format, err)
	}
	return nil
}

// Parse converts one line into a LogEntry. The returned error, when not
// nil, is always a *domain.ParseIssue. A trailing carriage return is
// dropped from the raw text.
func (p *Parser) Parse(line string) (domain.LogEntry, error) {
	entry, issue := p.parse(line)
	if issue != nil {
		return domain.LogEntry{}, issue
	}
	return entry, nil
}

func (p *Parser) parse(line string) (domain.LogEntry, *domain.ParseIssue) {
	raw := strings.TrimSuffix(line, "\r")
	text := strings.TrimSpace(strings.TrimPrefix(raw, "\ufeff"))

	if text == "" {
		return domain.LogEntry{}, &domain.ParseIssue{Raw: raw, Reason: domain.IssueEmpty}
	}
	if strings.IndexFunc(text, isVisible) < 0 {
		return domain.LogEntry{}, &domain.ParseIssue{Raw: raw, Reason: domain.IssueNoContent}
	}

	entry := domain.LogEntry{Raw: raw}
	rest := text

	ts, hasTime, afterTS, foundTS := p.extractTimestamp(rest)
	if foundTS {
		entry.Timestamp = ts
		entry.Dated = true
		entry.HasTime = hasTime
		rest = skipSeparator(afterTS)
	}

	if lvl, afterLevel, ok := extractLevel(rest, foundTS); ok {
		entry.Level = lvl
		rest = afterLevel
	}

	entry.Message = strings.TrimSpace(rest)
	return entry, nil
}

// ParseLines lazily parses a sequence of lines, numbering them from 1.
// Each input line yields exactly one result: an entry or a *domain.ParseIssue.
func (p *Parser) ParseLines(lines iter.Seq[string]) iter.Seq2[domain.LogEntry, error] {
	return func(yield func(domain.LogEntry, error) bool) {
		n := 0
		for line := range lines {
			n++
			entry, issue := p.parse(line)
			if issue != nil {
				issue.LineNumber = n
				if !yield(domain.LogEntry{}, issue) {
					return
				}
				continue
			}
			entry.LineNumber = n
			if !yield(entry, nil) {
				return
			}
		}
	}
}

// ParseLines parses lines with the built-in layouts
func ParseLines(lines iter.Seq[string]) iter.Seq2[domain.LogEntry, error] {
	return defaultParser.ParseLines(lines)
}

// extractTimestamp tries each layout against the start of s, optionally
// inside square brackets. On failure s is returned unchanged.
func (p *Parser) extractTimestamp(s string) (time.Time, bool, string, bool) {
	body, bracketed := s, false
	if strings.HasPrefix(s, "[") {
		body, bracketed = s[1:], true
	}

	for _, l := range p.layouts {
		n := len(l.format)
		if len(body) < n {
			continue
		}
		ts, err := time.Parse(l.format, body[:n])
		if err != nil {
			continue
		}
		rest := body[n:]
		if l.hasTime {
			rest = skipFraction(rest)
		}
		if bracketed {
			if !strings.HasPrefix(rest, "]") {
				continue
			}
			rest = rest[1:]
		}
		if !atBoundary(rest) {
			continue
		}
		return ts, l.hasTime, rest, true
	}

	return time.Time{}, false, s, false
}

// extractLevel checks the first token of s for a level word in one of the
// forms [LEVEL], LEVEL:, LEVEL; or a bare LEVEL. Bare words are matched
// case-insensitively after a timestamp; without one they must be upper case
// so a sentence starting with "Info" or "Error" is left as message text.
func extractLevel(s string, afterTimestamp bool) (domain.Level, string, bool) {
	if strings.HasPrefix(s, "[") {
		end := strings.IndexByte(s, ']')
		if end <= 1 {
			return domain.LevelUnknown, s, false
		}
		word := s[1:end]
		if strings.ContainsAny(word, " \t") {
			return domain.LevelUnknown, s, false
		}
		lvl, ok := lineLevel(word)
		if !ok {
			return domain.LevelUnknown, s, false
		}
		rest := s[end+1:]
		if strings.HasPrefix(rest, ":") {
			rest = rest[1:]
		}
		return lvl, rest, true
	}

	end := strings.IndexAny(s, " \t:;")
	if end < 0 {
		end = len(s)
	}
	word := s[:end]
	lvl, ok := lineLevel(word)
	if !ok {
		return domain.LevelUnknown, s, false
	}

	rest := s[end:]
	if strings.HasPrefix(rest, ":") || strings.HasPrefix(rest, ";") {
		return lvl, rest[1:], true
	}
	if !afterTimestamp && word != strings.ToUpper(word) {
		return domain.LevelUnknown, s, false
	}
	return lvl, rest, true
}

// lineLevel matches a token from a log line. UNKNOWN is a fallback, never
// a token, so "unknown host" stays in the message.
func lineLevel(word string) (domain.Level, bool) {
	lvl, ok := domain.ParseLevel(word)
	if !ok || lvl == domain.LevelUnknown {
		return domain.LevelUnknown, false
	}
	return lvl, true
}

// skipFraction consumes fractional seconds (".123" or ",123") and a UTC
// designator following a clock.
func skipFraction(s string) string {
	if len(s) > 1 && (s[0] == '.' || s[0] == ',') && isDigit(s[1]) {
		i := 1
		for i < len(s) && isDigit(s[i]) {
			i++
		}
		s = s[i:]
	}
	if strings.HasPrefix(s, "Z") && atBoundary(s[1:]) {
		s = s[1:]
	}
	return s
}

// skipSeparator drops whitespace and a single field separator between the
// timestamp and the rest of the line.
func skipSeparator(s string) string {
	s = strings.TrimLeft(s, " \t")
	switch {
	case strings.HasPrefix(s, ";"), strings.HasPrefix(s, "|"):
		s = s[1:]
	case s == "-", strings.HasPrefix(s, "- "), strings.HasPrefix(s, "-\t"):
		s = s[1:]
	}
	return strings.TrimLeft(s, " \t")
}

func atBoundary(s string) bool {
	if s == "" {
		return true
	}
	r, _ := utf8.DecodeRuneInString(s)
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func isVisible(r rune) bool {
	return unicode.IsGraphic(r) && !unicode.IsSpace(r)
}
