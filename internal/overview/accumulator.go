// Package overview aggregates whole-input statistics from parse results.
package overview

import (
	"errors"
	"maps"
	"time"

	"github.com/charliek/logscan/internal/domain"
)

// Accumulator folds parse results into OverviewStats. It is owned by a
// single run and is not safe for concurrent use.
type Accumulator struct {
	stats domain.OverviewStats
}

// NewAccumulator creates an empty accumulator
func NewAccumulator() *Accumulator {
	return &Accumulator{stats: domain.NewOverviewStats()}
}

// Add records one input line: a parsed entry when err is nil, otherwise an
// unparsed line.
func (a *Accumulator) Add(entry domain.LogEntry, err error) {
	a.stats.TotalLines++

	if err != nil {
		a.stats.UnparsedCount++
		var issue *domain.ParseIssue
		if errors.As(err, &issue) {
			a.stats.IssuesByReason[issue.Reason]++
		}
		return
	}

	a.stats.ParsedCount++
	a.stats.CountByLevel[entry.Level]++

	if !entry.HasTimestamp() {
		return
	}
	a.stats.DatedCount++
	ts := entry.Timestamp
	if a.stats.Earliest == nil || ts.Before(*a.stats.Earliest) {
		a.stats.Earliest = &ts
	}
	if a.stats.Latest == nil || ts.After(*a.stats.Latest) {
		latest := ts
		a.stats.Latest = &latest
	}
}

// Stats returns a copy of the statistics gathered so far
func (a *Accumulator) Stats() domain.OverviewStats {
	s := a.stats
	s.CountByLevel = maps.Clone(a.stats.CountByLevel)
	s.IssuesByReason = maps.Clone(a.stats.IssuesByReason)
	s.Earliest = copyTime(a.stats.Earliest)
	s.Latest = copyTime(a.stats.Latest)
	return s
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
