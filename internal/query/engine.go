package query

import (
	"errors"
	"iter"

	"go.uber.org/zap"

	"github.com/charliek/logscan/internal/domain"
	"github.com/charliek/logscan/internal/overview"
)

// Result is the outcome of a run. Entries is set in analyze mode and
// Overview in overview mode.
type Result struct {
	Mode     domain.Mode
	Entries  iter.Seq[domain.LogEntry]
	Counts   *AnalyzeCounts
	Overview *domain.OverviewStats
}

// AnalyzeCounts tracks progress of an analyze run. The values are final
// once the Entries sequence has been fully consumed or stopped.
type AnalyzeCounts struct {
	Scanned int // lines pulled from the input
	Matched int // entries yielded
	Skipped int // unparsed lines
}

// Engine evaluates queries over a stream of parse results
type Engine struct {
	logger *zap.Logger
}

// NewEngine creates an engine. A nil logger disables diagnostics.
func NewEngine(logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{logger: logger}
}

// Run dispatches on q.Mode. An invalid query is reported before any input
// is consumed.
func (e *Engine) Run(results iter.Seq2[domain.LogEntry, error], q domain.Query) (Result, error) {
	if err := Validate(q); err != nil {
		return Result{}, err
	}

	if q.Mode == domain.ModeOverview {
		stats := e.Overview(results)
		return Result{Mode: q.Mode, Overview: &stats}, nil
	}

	entries, counts, err := e.Analyze(results, q)
	if err != nil {
		return Result{}, err
	}
	return Result{Mode: q.Mode, Entries: entries, Counts: counts}, nil
}

// Analyze returns a lazy sequence of the entries matching q, in input
// order. Unparsed lines are skipped. Input is pulled only as the caller
// iterates, and no further input is read once Limit matches were yielded.
func (e *Engine) Analyze(results iter.Seq2[domain.LogEntry, error], q domain.Query) (iter.Seq[domain.LogEntry], *AnalyzeCounts, error) {
	f, err := NewFilter(q)
	if err != nil {
		return nil, nil, err
	}

	counts := &AnalyzeCounts{}
	seq := func(yield func(domain.LogEntry) bool) {
		*counts = AnalyzeCounts{}
		e.logger.Debug("analyze started", queryFields(q)...)
		defer func() {
			e.logger.Debug("analyze finished",
				zap.Int("scanned", counts.Scanned),
				zap.Int("matched", counts.Matched),
				zap.Int("skipped", counts.Skipped))
		}()

		for entry, err := range results {
			counts.Scanned++
			if err != nil {
				counts.Skipped++
				e.logIssue(err)
				continue
			}
			if !f.Matches(entry) {
				continue
			}
			counts.Matched++
			if !yield(entry) {
				return
			}
			if q.Limit > 0 && counts.Matched >= q.Limit {
				return
			}
		}
	}
	return seq, counts, nil
}

// Overview consumes every result and returns whole-input statistics.
// Filters do not apply.
func (e *Engine) Overview(results iter.Seq2[domain.LogEntry, error]) domain.OverviewStats {
	acc := overview.NewAccumulator()
	for entry, err := range results {
		if err != nil {
			e.logIssue(err)
		}
		acc.Add(entry, err)
	}
	stats := acc.Stats()
	if total := stats.LevelTotal(); total != stats.ParsedCount {
		e.logger.Error("level counts do not add up",
			zap.Int("level_total", total),
			zap.Int("parsed", stats.ParsedCount))
	}
	e.logger.Debug("overview finished",
		zap.Int("total", stats.TotalLines),
		zap.Int("parsed", stats.ParsedCount),
		zap.Int("unparsed", stats.UnparsedCount))
	return stats
}

// queryFields describes the active filters for diagnostics
func queryFields(q domain.Query) []zap.Field {
	if q.IsEmpty() {
		return []zap.Field{zap.Bool("unfiltered", true), zap.Int("limit", q.Limit)}
	}
	fields := []zap.Field{zap.Int("limit", q.Limit)}
	if q.Level != nil {
		fields = append(fields, zap.Stringer("level", *q.Level))
	}
	if q.Keyword != "" {
		fields = append(fields, zap.String("keyword", q.Keyword), zap.Bool("regex", q.KeywordRegex))
	}
	if q.Dates != nil {
		key := "dates"
		if q.Dates.IsSingleDay() {
			key = "date"
		}
		fields = append(fields, zap.Stringer(key, *q.Dates))
	}
	return fields
}

func (e *Engine) logIssue(err error) {
	var issue *domain.ParseIssue
	if errors.As(err, &issue) {
		e.logger.Debug("skipping unparsed line",
			zap.Int("line", issue.LineNumber),
			zap.Stringer("reason", issue.Reason))
		return
	}
	e.logger.Debug("skipping line", zap.Error(err))
}
