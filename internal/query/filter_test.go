package query

import (
	"testing"
	"time"

	"github.com/charliek/logscan/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeEntry(level domain.Level, ts time.Time, message string) domain.LogEntry {
	return domain.LogEntry{
		Timestamp: ts,
		Dated:     true,
		Level:     level,
		Message:   message,
		Raw:       ts.Format("2006-01-02") + " [" + level.String() + "] " + message,
	}
}

func mustFilter(t *testing.T, p Params) *Filter {
	t.Helper()
	q, err := New(p)
	require.NoError(t, err)
	f, err := NewFilter(q)
	require.NoError(t, err)
	return f
}

func TestFilter_Empty(t *testing.T) {
	f := mustFilter(t, Params{})
	assert.True(t, f.Matches(makeEntry(domain.LevelInfo, date(2024, 1, 5), "anything")))
	assert.True(t, f.Matches(domain.LogEntry{Raw: "bare", Message: "bare"}))
}

func TestFilter_MatchesLevel(t *testing.T) {
	f := mustFilter(t, Params{Level: "ERROR"})
	assert.True(t, f.Matches(makeEntry(domain.LevelError, date(2024, 1, 5), "x")))
	assert.False(t, f.Matches(makeEntry(domain.LevelWarning, date(2024, 1, 5), "x")))

	unknown := mustFilter(t, Params{Level: "UNKNOWN"})
	assert.True(t, unknown.Matches(domain.LogEntry{Raw: "text", Message: "text"}))
	assert.False(t, unknown.Matches(makeEntry(domain.LevelError, date(2024, 1, 5), "x")))
}

func TestFilter_MatchesKeyword(t *testing.T) {
	f := mustFilter(t, Params{Keyword: "Disk"})

	assert.True(t, f.Matches(makeEntry(domain.LevelError, date(2024, 1, 5), "disk full on /data")))
	assert.True(t, f.Matches(makeEntry(domain.LevelError, date(2024, 1, 5), "DISK FULL")))
	assert.False(t, f.Matches(makeEntry(domain.LevelError, date(2024, 1, 5), "memory low")))
}

func TestFilter_KeywordFallsBackToRaw(t *testing.T) {
	f := mustFilter(t, Params{Keyword: "error"})

	entry := domain.LogEntry{Raw: "2024-01-05 [ERROR]", Level: domain.LevelError, Timestamp: date(2024, 1, 5), Dated: true}
	assert.True(t, f.Matches(entry))

	// The level token alone does not count when a message exists
	assert.False(t, f.Matches(makeEntry(domain.LevelError, date(2024, 1, 5), "disk full")))
}

func TestFilter_MatchesRegex(t *testing.T) {
	f := mustFilter(t, Params{Keyword: `disk\s+full|oom`, Regex: true})

	assert.True(t, f.Matches(makeEntry(domain.LevelError, date(2024, 1, 5), "Disk   full")))
	assert.True(t, f.Matches(makeEntry(domain.LevelError, date(2024, 1, 5), "OOM killed")))
	assert.False(t, f.Matches(makeEntry(domain.LevelError, date(2024, 1, 5), "disk ok")))
}

func TestFilter_MatchesDate(t *testing.T) {
	t.Run("single date", func(t *testing.T) {
		f := mustFilter(t, Params{Date: "2024-01-05"})
		assert.True(t, f.Matches(makeEntry(domain.LevelInfo, time.Date(2024, 1, 5, 23, 59, 0, 0, time.UTC), "x")))
		assert.False(t, f.Matches(makeEntry(domain.LevelInfo, date(2024, 1, 6), "x")))
	})

	t.Run("inclusive range", func(t *testing.T) {
		f := mustFilter(t, Params{Start: "2024-01-01", End: "2024-01-31"})
		assert.True(t, f.Matches(makeEntry(domain.LevelInfo, date(2024, 1, 1), "x")))
		assert.True(t, f.Matches(makeEntry(domain.LevelInfo, date(2024, 1, 31), "x")))
		assert.False(t, f.Matches(makeEntry(domain.LevelInfo, date(2023, 12, 31), "x")))
		assert.False(t, f.Matches(makeEntry(domain.LevelInfo, date(2024, 2, 1), "x")))
	})

	t.Run("year one is a date", func(t *testing.T) {
		f := mustFilter(t, Params{Date: "0001-01-01"})
		assert.True(t, f.Matches(makeEntry(domain.LevelError, time.Time{}, "x")))

		f = mustFilter(t, Params{End: "2024-01-01"})
		assert.True(t, f.Matches(makeEntry(domain.LevelError, time.Time{}, "x")))
	})

	t.Run("undated entries never match", func(t *testing.T) {
		f := mustFilter(t, Params{Start: "2024-01-01"})
		assert.False(t, f.Matches(domain.LogEntry{Raw: "no date", Message: "no date"}))
	})
}

func TestFilter_PredicatesAreANDed(t *testing.T) {
	f := mustFilter(t, Params{Level: "ERROR", Keyword: "disk", Date: "2024-01-05"})

	assert.True(t, f.Matches(makeEntry(domain.LevelError, date(2024, 1, 5), "disk full")))
	assert.False(t, f.Matches(makeEntry(domain.LevelInfo, date(2024, 1, 5), "disk full")))
	assert.False(t, f.Matches(makeEntry(domain.LevelError, date(2024, 1, 5), "cpu hot")))
	assert.False(t, f.Matches(makeEntry(domain.LevelError, date(2024, 1, 6), "disk full")))
}

func TestNewFilter_InvalidQuery(t *testing.T) {
	_, err := NewFilter(domain.Query{Mode: domain.ModeAnalyze, Keyword: "(", KeywordRegex: true})
	assert.ErrorIs(t, err, domain.ErrInvalidPattern)
}
