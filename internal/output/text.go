package output

import (
	"fmt"
	"io"
	"iter"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"

	"github.com/charliek/logscan/internal/constants"
	"github.com/charliek/logscan/internal/domain"
)

// Column widths are fixed so rows can be written as they arrive and
// padding is applied before styling.
var (
	dateWidth  = len(constants.DisplayTimeLayout)
	levelWidth = len(domain.LevelWarning.String())
)

type textRenderer struct {
	w      io.Writer
	styles styles
	input  Input
}

func newTextRenderer(w io.Writer, opts Options) *textRenderer {
	return &textRenderer{
		w:      w,
		styles: newStyles(newLipglossRenderer(w, opts.Color)),
		input:  opts.Input,
	}
}

func (r *textRenderer) Entries(seq iter.Seq[domain.LogEntry]) (int, error) {
	header := fmt.Sprintf("%-*s  %-*s  %s", dateWidth, "DateTime", levelWidth, "Level", "Message")
	if _, err := fmt.Fprintln(r.w, r.styles.header.Render(header)); err != nil {
		return 0, err
	}

	n := 0
	for entry := range seq {
		ts := formatTimestamp(entry)
		if ts == "" {
			ts = "-"
		}
		level := r.styles.level(entry.Level).Render(fmt.Sprintf("%-*s", levelWidth, entry.Level))
		if _, err := fmt.Fprintf(r.w, "%-*s  %s  %s\n", dateWidth, ts, level, entry.Message); err != nil {
			return n, err
		}
		n++
	}

	if _, err := fmt.Fprintf(r.w, "Number of results: %d\n", n); err != nil {
		return n, err
	}
	return n, nil
}

func (r *textRenderer) Overview(stats domain.OverviewStats) error {
	var b strings.Builder

	if r.input.Path != "" {
		details := humanize.IBytes(uint64(r.input.Size))
		if r.input.Compression != "" && r.input.Compression != "none" {
			details += ", " + r.input.Compression
		}
		b.WriteString(r.styles.header.Render(r.input.Path))
		b.WriteString(r.styles.dim.Render(" (" + details + ")"))
		b.WriteString("\n")
	}

	order := domain.Levels()
	levels := r.newTable("Log Level", "Count")
	for _, l := range order {
		levels.Row(l.String(), humanize.Comma(int64(stats.CountByLevel[l])))
	}
	levels.StyleFunc(func(row, col int) lipgloss.Style {
		style := r.cellStyle(row, col)
		if col == 0 && row >= 0 && row < len(order) {
			return r.styles.level(order[row]).Inherit(style)
		}
		return style
	})
	b.WriteString(levels.Render())
	b.WriteString("\n")

	summary := r.newTable("Summary", "")
	summary.Row("Total lines", humanize.Comma(int64(stats.TotalLines)))
	summary.Row("Parsed", humanize.Comma(int64(stats.ParsedCount)))
	summary.Row("Unparsed", humanize.Comma(int64(stats.UnparsedCount)))
	summary.Row("With timestamp", humanize.Comma(int64(stats.DatedCount)))
	summary.Row("Earliest", formatBound(stats.Earliest))
	summary.Row("Latest", formatBound(stats.Latest))
	summary.Row("Span", formatSpan(stats))
	summary.StyleFunc(r.cellStyle)
	b.WriteString(summary.Render())
	b.WriteString("\n")

	_, err := io.WriteString(r.w, b.String())
	return err
}

func (r *textRenderer) newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(r.styles.border).
		Headers(headers...)
}

// cellStyle pads every cell and right-aligns the value column
func (r *textRenderer) cellStyle(row, col int) lipgloss.Style {
	style := r.styles.levels[domain.LevelUnknown].Padding(0, 1)
	if row == table.HeaderRow {
		style = r.styles.header.Padding(0, 1)
	}
	if col == 1 {
		style = style.Align(lipgloss.Right)
	}
	return style
}

func formatBound(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format(constants.DisplayTimeLayout)
}

func formatSpan(stats domain.OverviewStats) string {
	if stats.Earliest == nil || stats.Latest == nil {
		return "-"
	}
	if stats.Span() == 0 {
		return "0s"
	}
	return strings.TrimSpace(humanize.RelTime(*stats.Earliest, *stats.Latest, "", ""))
}
