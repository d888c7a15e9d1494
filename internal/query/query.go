// Package query builds validated queries from user input and evaluates
// them over a stream of parsed log entries.
package query

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/charliek/logscan/internal/constants"
	"github.com/charliek/logscan/internal/domain"
)

// dateLayouts are the accepted forms for date arguments. A time of day is
// allowed but filters compare calendar dates only.
var dateLayouts = []string{
	"2006-01-02",
	"02/01/2006",
	"2006-01-02 15:04",
	"02/01/2006 15:04",
}

// Params holds raw, unvalidated filter arguments as given on the command line
type Params struct {
	Level   string
	Keyword string
	Regex   bool
	Date    string
	Start   string
	End     string
	Limit   int
	Mode    domain.Mode
}

// Error describes a query that cannot be built. It matches both
// domain.ErrInvalidQuery and the more specific cause with errors.Is.
type Error struct {
	Field   string
	Message string
	Err     error
}

func (e *Error) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// Unwrap returns the sentinels this error matches
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{domain.ErrInvalidQuery}
	}
	return []error{domain.ErrInvalidQuery, e.Err}
}

// New validates p and builds an immutable Query
func New(p Params) (domain.Query, error) {
	q := domain.Query{
		Mode:         p.Mode,
		Keyword:      p.Keyword,
		KeywordRegex: p.Regex,
		Limit:        p.Limit,
	}
	if q.Mode == "" {
		q.Mode = domain.ModeAnalyze
	}

	if p.Level != "" {
		lvl, ok := domain.ParseLevel(p.Level)
		if !ok {
			return domain.Query{}, &Error{
				Field:   "level",
				Message: fmt.Sprintf("%q is not one of %s", p.Level, levelNames()),
				Err:     domain.ErrInvalidLevel,
			}
		}
		q.Level = &lvl
	}

	if p.Date != "" && (p.Start != "" || p.End != "") {
		return domain.Query{}, &Error{
			Field:   "date",
			Message: "a single date cannot be combined with a start or end date",
			Err:     domain.ErrInvalidDate,
		}
	}

	switch {
	case p.Date != "":
		d, err := parseDate("date", p.Date)
		if err != nil {
			return domain.Query{}, err
		}
		r := domain.SingleDay(d)
		q.Dates = &r
	case p.Start != "" || p.End != "":
		var start, end *time.Time
		if p.Start != "" {
			d, err := parseDate("start", p.Start)
			if err != nil {
				return domain.Query{}, err
			}
			start = &d
		}
		if p.End != "" {
			d, err := parseDate("end", p.End)
			if err != nil {
				return domain.Query{}, err
			}
			end = &d
		}
		r := domain.Between(start, end)
		q.Dates = &r
	}

	if err := Validate(q); err != nil {
		return domain.Query{}, err
	}
	return q, nil
}

// Validate checks the structural rules of a Query, including one built by
// hand rather than through New.
func Validate(q domain.Query) error {
	switch q.Mode {
	case domain.ModeAnalyze, domain.ModeOverview:
	default:
		return &Error{Field: "mode", Message: fmt.Sprintf("unknown mode %q", q.Mode)}
	}

	if q.Level != nil && !q.Level.Valid() {
		return &Error{Field: "level", Message: fmt.Sprintf("unknown level value %d", int(*q.Level)), Err: domain.ErrInvalidLevel}
	}

	if q.Dates != nil && !q.Dates.Valid() {
		return &Error{
			Field: "date range",
			Message: fmt.Sprintf("start %s is after end %s",
				q.Dates.Start.Format(constants.DisplayDateLayout),
				q.Dates.End.Format(constants.DisplayDateLayout)),
			Err: domain.ErrInvalidDate,
		}
	}

	if q.Limit < 0 {
		return &Error{Field: "limit", Message: fmt.Sprintf("must not be negative, got %d", q.Limit)}
	}

	if _, err := compileKeyword(q); err != nil {
		return err
	}
	return nil
}

// parseDate accepts YYYY-MM-DD or DD/MM/YYYY, optionally followed by hh:mm
func parseDate(field, s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if d, err := time.Parse(layout, s); err == nil {
			return domain.DateOf(d), nil
		}
	}
	return time.Time{}, &Error{
		Field:   field,
		Message: fmt.Sprintf("%q is not a date (expected YYYY-MM-DD or DD/MM/YYYY)", s),
		Err:     domain.ErrInvalidDate,
	}
}

// compileKeyword returns the case-insensitive regexp for a regex keyword,
// or nil for a plain substring keyword.
func compileKeyword(q domain.Query) (*regexp.Regexp, error) {
	if len(q.Keyword) > constants.MaxPatternLength {
		return nil, &Error{
			Field:   "keyword",
			Message: fmt.Sprintf("pattern exceeds maximum length of %d characters", constants.MaxPatternLength),
			Err:     domain.ErrInvalidPattern,
		}
	}
	if q.Keyword == "" || !q.KeywordRegex {
		return nil, nil
	}
	re, err := regexp.Compile("(?i)" + q.Keyword)
	if err != nil {
		return nil, &Error{Field: "keyword", Message: err.Error(), Err: domain.ErrInvalidPattern}
	}
	return re, nil
}

func levelNames() string {
	levels := domain.Levels()
	names := make([]string, len(levels))
	for i, l := range levels {
		names[i] = l.String()
	}
	return strings.Join(names, ", ")
}
