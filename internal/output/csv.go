package output

import (
	"encoding/csv"
	"io"
	"iter"
	"strconv"

	"github.com/charliek/logscan/internal/domain"
)

var (
	entryHeader    = []string{"line", "timestamp", "level", "message", "raw"}
	overviewHeader = []string{"level", "count"}
)

type csvRenderer struct {
	w *csv.Writer
}

func newCSVRenderer(w io.Writer) *csvRenderer {
	return &csvRenderer{w: csv.NewWriter(w)}
}

func (r *csvRenderer) Entries(seq iter.Seq[domain.LogEntry]) (int, error) {
	if err := r.w.Write(entryHeader); err != nil {
		return 0, err
	}

	n := 0
	for entry := range seq {
		record := []string{
			strconv.Itoa(entry.LineNumber),
			formatTimestamp(entry),
			entry.Level.String(),
			entry.Message,
			entry.Raw,
		}
		if err := r.w.Write(record); err != nil {
			return n, err
		}
		n++
		// Flush per row so followed output appears as it arrives
		r.w.Flush()
		if err := r.w.Error(); err != nil {
			return n, err
		}
	}

	r.w.Flush()
	return n, r.w.Error()
}

func (r *csvRenderer) Overview(stats domain.OverviewStats) error {
	if err := r.w.Write(overviewHeader); err != nil {
		return err
	}
	for _, l := range domain.Levels() {
		if err := r.w.Write([]string{l.String(), strconv.Itoa(stats.CountByLevel[l])}); err != nil {
			return err
		}
	}
	r.w.Flush()
	return r.w.Error()
}
