package cli

import (
	"fmt"
	"iter"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/charliek/logscan/internal/domain"
	"github.com/charliek/logscan/internal/query"
	"github.com/charliek/logscan/internal/source"
)

type analyzeOptions struct {
	level   string
	keyword string
	regex   bool
	date    string
	start   string
	end     string
	limit   int
	follow  bool
}

func (a *app) analyzeCmd() *cobra.Command {
	opts := &analyzeOptions{}

	cmd := &cobra.Command{
		Use:   "analyze [PATH]",
		Short: "List log entries matching filters",
		Long: `List the entries of a log file that match every given filter, in file order.

Dates accept YYYY-MM-DD or DD/MM/YYYY. Use --date for a single day or
--start/--end for an inclusive range; either end may be omitted.
Lines that cannot be parsed are skipped.`,
		Example: `  logscan analyze app.log --level error --keyword disk
  logscan analyze -p app.log.gz --start 2024-01-01 --end 2024-01-31 --format json
  logscan analyze app.log -k "timeout|refused" --regex -n 20`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runAnalyze(cmd, args, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.level, "level", "l", "", "Only entries with this level (error, warning, info, debug, trace, unknown)")
	flags.StringVarP(&opts.keyword, "keyword", "k", "", "Only entries whose message contains this text (case-insensitive)")
	flags.BoolVar(&opts.regex, "regex", false, "Treat --keyword as a regular expression")
	flags.StringVarP(&opts.date, "date", "d", "", "Only entries on this date")
	flags.StringVarP(&opts.start, "start", "s", "", "Only entries on or after this date")
	flags.StringVarP(&opts.end, "end", "e", "", "Only entries on or before this date")
	flags.IntVarP(&opts.limit, "limit", "n", 0, "Stop after this many matches (0 for no limit)")
	flags.BoolVarP(&opts.follow, "follow", "f", false, "Keep reading lines appended to the file")

	return cmd
}

func (a *app) runAnalyze(cmd *cobra.Command, args []string, opts *analyzeOptions) error {
	// Validate the query before touching the input
	q, err := query.New(query.Params{
		Level:   opts.level,
		Keyword: opts.keyword,
		Regex:   opts.regex,
		Date:    opts.date,
		Start:   opts.start,
		End:     opts.end,
		Limit:   opts.limit,
		Mode:    domain.ModeAnalyze,
	})
	if err != nil {
		return err
	}

	in, err := a.openInput(args)
	if err != nil {
		return err
	}
	if opts.follow && in.Compression() != source.CompressionNone {
		return fmt.Errorf("cannot follow %s: %s compressed files are not appended to", in.Path(), in.Compression())
	}

	var lines iter.Seq[string]
	var readErr func() error
	if opts.follow {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		follower := source.Follow(ctx, in.Path(), source.FollowOptions{FromStart: true, Logger: a.logger})
		lines, readErr = follower.Lines(), follower.Err
	} else {
		lines, readErr = in.Lines(), in.Err
	}

	result, err := query.NewEngine(a.logger).Run(a.newParser().ParseLines(lines), q)
	if err != nil {
		return err
	}

	renderer, closeOut, err := a.newRenderer(cmd, in)
	if err != nil {
		return err
	}
	defer closeOut()

	n, err := renderer.Entries(result.Entries)
	if err != nil {
		return fmt.Errorf("writing results: %w", err)
	}
	if err := readErr(); err != nil {
		return err
	}
	if !opts.follow {
		a.reportTruncated(in)
	}

	a.logger.Info("analyze complete",
		zap.String("file", in.Path()),
		zap.Int("matched", n),
		zap.Int("scanned", result.Counts.Scanned),
		zap.Int("skipped", result.Counts.Skipped))

	return closeOut()
}
