package output

import (
	"encoding/json"
	"io"
	"iter"
	"time"

	"github.com/charliek/logscan/internal/domain"
)

// jsonRenderer writes one JSON object per entry (NDJSON)
type jsonRenderer struct {
	enc *json.Encoder
}

func newJSONRenderer(w io.Writer) *jsonRenderer {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return &jsonRenderer{enc: enc}
}

// EntryResponse is the JSON form of a LogEntry. Timestamp is omitted for
// undated entries.
type EntryResponse struct {
	Line      int          `json:"line"`
	Timestamp *time.Time   `json:"timestamp,omitempty"`
	Level     domain.Level `json:"level"`
	Message   string       `json:"message"`
	Raw       string       `json:"raw"`
}

func newEntryResponse(entry domain.LogEntry) EntryResponse {
	resp := EntryResponse{
		Line:    entry.LineNumber,
		Level:   entry.Level,
		Message: entry.Message,
		Raw:     entry.Raw,
	}
	if entry.HasTimestamp() {
		ts := entry.Timestamp
		resp.Timestamp = &ts
	}
	return resp
}

func (r *jsonRenderer) Entries(seq iter.Seq[domain.LogEntry]) (int, error) {
	n := 0
	for entry := range seq {
		if err := r.enc.Encode(newEntryResponse(entry)); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

// OverviewResponse is the JSON form of OverviewStats
type OverviewResponse struct {
	TotalLines     int                        `json:"total_lines"`
	ParsedCount    int                        `json:"parsed"`
	UnparsedCount  int                        `json:"unparsed"`
	DatedCount     int                        `json:"dated"`
	CountByLevel   map[domain.Level]int       `json:"levels"`
	IssuesByReason map[domain.IssueReason]int `json:"issues"`
	Earliest       *time.Time                 `json:"earliest,omitempty"`
	Latest         *time.Time                 `json:"latest,omitempty"`
	SpanSeconds    float64                    `json:"span_seconds"`
}

func (r *jsonRenderer) Overview(stats domain.OverviewStats) error {
	return r.enc.Encode(OverviewResponse{
		TotalLines:     stats.TotalLines,
		ParsedCount:    stats.ParsedCount,
		UnparsedCount:  stats.UnparsedCount,
		DatedCount:     stats.DatedCount,
		CountByLevel:   stats.CountByLevel,
		IssuesByReason: stats.IssuesByReason,
		Earliest:       stats.Earliest,
		Latest:         stats.Latest,
		SpanSeconds:    stats.Span().Seconds(),
	})
}
