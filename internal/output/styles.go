package output

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/charliek/logscan/internal/domain"
)

// Level colors
var (
	errorColor   = lipgloss.Color("9")   // Red
	warningColor = lipgloss.Color("11")  // Yellow
	infoColor    = lipgloss.Color("14")  // Cyan
	debugColor   = lipgloss.Color("8")   // Gray
	traceColor   = lipgloss.Color("240") // Dark gray
	borderColor  = lipgloss.Color("240")
)

// styles holds the lipgloss styles bound to one output renderer
type styles struct {
	header lipgloss.Style
	dim    lipgloss.Style
	border lipgloss.Style
	levels map[domain.Level]lipgloss.Style
}

// newLipglossRenderer binds a renderer to w. Auto mode detects the
// terminal (and NO_COLOR) from w itself.
func newLipglossRenderer(w io.Writer, mode ColorMode) *lipgloss.Renderer {
	r := lipgloss.NewRenderer(w)
	switch mode {
	case ColorAlways:
		r.SetColorProfile(termenv.ANSI256)
	case ColorNever:
		r.SetColorProfile(termenv.Ascii)
	}
	return r
}

func newStyles(r *lipgloss.Renderer) styles {
	return styles{
		header: r.NewStyle().Bold(true),
		dim:    r.NewStyle().Foreground(debugColor),
		border: r.NewStyle().Foreground(borderColor),
		levels: map[domain.Level]lipgloss.Style{
			domain.LevelError: r.NewStyle().
				Foreground(errorColor).
				Bold(true),
			domain.LevelWarning: r.NewStyle().
				Foreground(warningColor),
			domain.LevelInfo: r.NewStyle().
				Foreground(infoColor),
			domain.LevelDebug: r.NewStyle().
				Foreground(debugColor),
			domain.LevelTrace: r.NewStyle().
				Foreground(traceColor),
			domain.LevelUnknown: r.NewStyle(),
		},
	}
}

func (s styles) level(l domain.Level) lipgloss.Style {
	if style, ok := s.levels[l]; ok {
		return style
	}
	return s.levels[domain.LevelUnknown]
}
