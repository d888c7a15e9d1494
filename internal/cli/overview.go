package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/charliek/logscan/internal/domain"
	"github.com/charliek/logscan/internal/query"
)

func (a *app) overviewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "overview [PATH]",
		Short: "Summarize a log file",
		Long: `Summarize the whole log file: entries per level, parsed and unparsed
line counts, and the span between the earliest and latest timestamps.`,
		Example: `  logscan overview app.log
  logscan overview -p app.log.gz --format json`,
		Args: cobra.MaximumNArgs(1),
		RunE: a.runOverview,
	}
}

func (a *app) runOverview(cmd *cobra.Command, args []string) error {
	in, err := a.openInput(args)
	if err != nil {
		return err
	}

	result, err := query.NewEngine(a.logger).Run(a.newParser().ParseLines(in.Lines()), domain.Query{Mode: domain.ModeOverview})
	if err != nil {
		return err
	}
	if err := in.Err(); err != nil {
		return err
	}
	a.reportTruncated(in)

	renderer, closeOut, err := a.newRenderer(cmd, in)
	if err != nil {
		return err
	}
	defer closeOut()

	if err := renderer.Overview(*result.Overview); err != nil {
		return fmt.Errorf("writing overview: %w", err)
	}

	a.logger.Info("overview complete",
		zap.String("file", in.Path()),
		zap.Int("total", result.Overview.TotalLines),
		zap.Int("unparsed", result.Overview.UnparsedCount))

	return closeOut()
}
