package query

import (
	"regexp"
	"strings"

	"github.com/charliek/logscan/internal/domain"
)

// Filter applies a Query's predicates to log entries
type Filter struct {
	query   domain.Query
	keyword string // lower-cased substring
	regex   *regexp.Regexp
}

// NewFilter validates q and precompiles its keyword
func NewFilter(q domain.Query) (*Filter, error) {
	if err := Validate(q); err != nil {
		return nil, err
	}

	f := &Filter{query: q}
	re, err := compileKeyword(q)
	if err != nil {
		return nil, err
	}
	f.regex = re
	if re == nil {
		f.keyword = strings.ToLower(q.Keyword)
	}
	return f, nil
}

// Matches returns true if the entry passes every active predicate
func (f *Filter) Matches(entry domain.LogEntry) bool {
	if f.query.Level != nil && entry.Level != *f.query.Level {
		return false
	}

	if f.query.Keyword != "" && !f.matchesKeyword(entry) {
		return false
	}

	if f.query.Dates != nil {
		if !entry.HasTimestamp() || !f.query.Dates.Contains(entry.Date()) {
			return false
		}
	}

	return true
}

// matchesKeyword tests the message, or the raw line when the message is empty
func (f *Filter) matchesKeyword(entry domain.LogEntry) bool {
	text := entry.Message
	if text == "" {
		text = entry.Raw
	}
	if f.regex != nil {
		return f.regex.MatchString(text)
	}
	return strings.Contains(strings.ToLower(text), f.keyword)
}
