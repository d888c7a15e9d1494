package domain

import (
	"fmt"
	"time"
)

// LogEntry is a single parsed (possibly partially parsed) log line
type LogEntry struct {
	LineNumber int       `json:"line"`
	Timestamp  time.Time `json:"timestamp,omitzero"`
	Dated      bool      `json:"-"` // true when the line carried a date; Timestamp is meaningful only then
	HasTime    bool      `json:"-"` // true when the line carried a time-of-day, not just a date
	Level      Level     `json:"level"`
	Message    string    `json:"message"`
	Raw        string    `json:"raw"`
}

// HasTimestamp returns true if a date was found on the line
func (e LogEntry) HasTimestamp() bool {
	return e.Dated
}

// Date returns the calendar date of the entry's timestamp, or the zero time
// when the entry has none.
func (e LogEntry) Date() time.Time {
	if !e.HasTimestamp() {
		return time.Time{}
	}
	return DateOf(e.Timestamp)
}

// DateOf truncates t to midnight UTC of its calendar day.
// Parsed log timestamps carry no zone, so calendar comparison happens in UTC.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// IssueReason tags why a line could not be parsed
type IssueReason string

const (
	// IssueEmpty is an empty or whitespace-only line
	IssueEmpty IssueReason = "empty"
	// IssueNoContent is a line holding only control or invisible characters
	IssueNoContent IssueReason = "no_content"
)

// String returns the string representation of IssueReason
func (r IssueReason) String() string {
	return string(r)
}

// ParseIssue marks a line that yielded no usable content.
// It is counted by the engine and never aborts a scan.
type ParseIssue struct {
	LineNumber int
	Raw        string
	Reason     IssueReason
}

func (p *ParseIssue) Error() string {
	if p.LineNumber > 0 {
		return fmt.Sprintf("line %d: unparseable (%s)", p.LineNumber, p.Reason)
	}
	return fmt.Sprintf("unparseable line (%s)", p.Reason)
}
