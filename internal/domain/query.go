package domain

import (
	"time"

	"github.com/charliek/logscan/internal/constants"
)

// Mode selects what a query run produces
type Mode string

const (
	// ModeAnalyze emits the entries that pass every filter
	ModeAnalyze Mode = "analyze"
	// ModeOverview emits aggregate statistics for the whole input
	ModeOverview Mode = "overview"
)

// String returns the string representation of Mode
func (m Mode) String() string {
	return string(m)
}

// DateRange is an inclusive range of calendar dates. A nil Start or End
// leaves that side unbounded; Start == End selects a single day.
type DateRange struct {
	Start *time.Time
	End   *time.Time
}

// SingleDay returns a range covering exactly the calendar day of t
func SingleDay(t time.Time) DateRange {
	d := DateOf(t)
	return DateRange{Start: &d, End: &d}
}

// Between returns the range from the day of start to the day of end. Either
// bound may be nil.
func Between(start, end *time.Time) DateRange {
	var r DateRange
	if start != nil {
		d := DateOf(*start)
		r.Start = &d
	}
	if end != nil {
		d := DateOf(*end)
		r.End = &d
	}
	return r
}

// IsSingleDay returns true if the range selects exactly one date
func (r DateRange) IsSingleDay() bool {
	return r.Start != nil && r.End != nil && r.Start.Equal(*r.End)
}

// Valid returns false when both bounds are set and Start is after End
func (r DateRange) Valid() bool {
	if r.Start == nil || r.End == nil {
		return true
	}
	return !r.Start.After(*r.End)
}

// Contains reports whether the calendar date d falls within the range, bounds inclusive
func (r DateRange) Contains(d time.Time) bool {
	d = DateOf(d)
	if r.Start != nil && d.Before(DateOf(*r.Start)) {
		return false
	}
	if r.End != nil && d.After(DateOf(*r.End)) {
		return false
	}
	return true
}

// String renders the range for diagnostics, "*" marking an open side
func (r DateRange) String() string {
	if r.IsSingleDay() {
		return r.Start.Format(constants.DisplayDateLayout)
	}
	bound := func(t *time.Time) string {
		if t == nil {
			return "*"
		}
		return t.Format(constants.DisplayDateLayout)
	}
	return bound(r.Start) + ".." + bound(r.End)
}

// Query is a validated set of filters plus the run mode.
// It is built once per invocation and never mutated during a scan.
//
// Fields:
//   - Level: require an exact level match. Nil means any level.
//   - Keyword: case-insensitive substring matched against the message, or the
//     raw line when the message is empty. Empty means no keyword filter.
//   - KeywordRegex: treat Keyword as a case-insensitive regular expression.
//   - Dates: restrict to a date or inclusive date range. Nil means any date;
//     when set, entries without a timestamp never match.
//   - Limit: stop after this many matches in analyze mode. 0 means no limit.
type Query struct {
	Mode         Mode
	Level        *Level
	Keyword      string
	KeywordRegex bool
	Dates        *DateRange
	Limit        int
}

// IsEmpty returns true if no filters are set
func (q Query) IsEmpty() bool {
	return q.Level == nil && q.Keyword == "" && q.Dates == nil
}
