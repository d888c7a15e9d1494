package domain

import "time"

// OverviewStats summarizes a whole input in one pass
type OverviewStats struct {
	TotalLines     int
	ParsedCount    int
	UnparsedCount  int
	DatedCount     int // parsed entries that carried a timestamp
	CountByLevel   map[Level]int
	IssuesByReason map[IssueReason]int
	Earliest       *time.Time
	Latest         *time.Time
}

// NewOverviewStats returns empty stats with every level present at zero
func NewOverviewStats() OverviewStats {
	counts := make(map[Level]int, len(Levels()))
	for _, l := range Levels() {
		counts[l] = 0
	}
	return OverviewStats{
		CountByLevel:   counts,
		IssuesByReason: make(map[IssueReason]int),
	}
}

// LevelTotal returns the sum of all per-level counts
func (s OverviewStats) LevelTotal() int {
	total := 0
	for _, n := range s.CountByLevel {
		total += n
	}
	return total
}

// Span returns the time between the earliest and latest timestamps seen
func (s OverviewStats) Span() time.Duration {
	if s.Earliest == nil || s.Latest == nil {
		return 0
	}
	return s.Latest.Sub(*s.Earliest)
}
