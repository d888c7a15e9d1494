package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/charliek/logscan/internal/constants"
	"github.com/charliek/logscan/internal/domain"
	"github.com/charliek/logscan/internal/output"
	"github.com/charliek/logscan/internal/parser"
	"github.com/charliek/logscan/internal/source"
)

var errNoLogPath = fmt.Errorf("%w: no log file given, pass a path or --log-path", domain.ErrInputUnavailable)

// resolveLogPath picks the positional path or --log-path
func (a *app) resolveLogPath(args []string) (string, error) {
	switch {
	case len(args) == 1 && a.logPath != "" && args[0] != a.logPath:
		return "", fmt.Errorf("%w: conflicting log paths %q and %q", domain.ErrInputUnavailable, args[0], a.logPath)
	case len(args) == 1:
		return args[0], nil
	case a.logPath != "":
		return a.logPath, nil
	default:
		return "", errNoLogPath
	}
}

// openInput validates the log path and opens it as a line source. The
// input is rejected when --output names the same file, since creating the
// output would truncate it before it is read.
func (a *app) openInput(args []string) (*source.File, error) {
	path, err := a.resolveLogPath(args)
	if err != nil {
		return nil, err
	}
	in, err := source.Open(path)
	if err != nil {
		return nil, err
	}
	if err := a.checkOutputPath(in.Path()); err != nil {
		return nil, err
	}
	return in, nil
}

func (a *app) checkOutputPath(input string) error {
	if a.outputPath == "" {
		return nil
	}
	out, err := os.Stat(a.outputPath)
	if err != nil {
		// Not there yet, so it cannot be the input
		return nil
	}
	in, err := os.Stat(input)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrInputUnavailable, err)
	}
	if os.SameFile(in, out) {
		return fmt.Errorf("%w: output file %s is the input file", domain.ErrInvalidOutput, a.outputPath)
	}
	return nil
}

// reportTruncated warns when long lines were cut while reading in
func (a *app) reportTruncated(in *source.File) {
	if n := in.Truncated(); n > 0 {
		a.logger.Warn("truncated long lines",
			zap.String("file", in.Path()),
			zap.Int("lines", n),
			zap.Int("max_length", constants.MaxLineLength))
	}
}

func (a *app) newParser() *parser.Parser {
	return parser.New(parser.WithLayouts(a.settings.Layouts...))
}

// newRenderer opens the result destination, stdout or --output, and builds
// the configured renderer for it. The returned func closes the destination.
func (a *app) newRenderer(cmd *cobra.Command, in *source.File) (output.Renderer, func() error, error) {
	format, err := output.ParseFormat(a.settings.OutputFormat)
	if err != nil {
		return nil, nil, err
	}
	color, err := output.ParseColorMode(a.settings.Color)
	if err != nil {
		return nil, nil, err
	}

	var w io.Writer = cmd.OutOrStdout()
	closeFn := func() error { return nil }
	if a.outputPath != "" {
		f, err := os.Create(a.outputPath)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: opening output file: %w", domain.ErrInvalidOutput, err)
		}
		w = f
		closeFn = f.Close
	}

	renderer, err := output.New(format, w, output.Options{
		Color: color,
		Input: output.Input{
			Path:        in.Path(),
			Size:        in.Size(),
			Compression: string(in.Compression()),
		},
	})
	if err != nil {
		closeFn()
		return nil, nil, err
	}
	return renderer, closeFn, nil
}
