package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/charliek/logscan/internal/config"
	"github.com/charliek/logscan/internal/constants"
	"github.com/charliek/logscan/internal/logging"
	"github.com/charliek/logscan/internal/output"
)

// Version is set during build
var Version = "dev"

// flagBindings maps settings keys to the persistent flags that override them
var flagBindings = map[string]string{
	config.KeyOutputFormat: "format",
	config.KeyOutputColor:  "color",
	config.KeyLogLevel:     "log-level",
}

// app holds global flag values and the state resolved before a command runs
type app struct {
	// Global flags
	configPath string
	logPath    string
	outputPath string
	format     string
	color      string
	logLevel   string
	verbose    bool

	settings *config.Settings
	logger   *zap.Logger
}

// Run executes logscan with args and returns the process exit code
func Run(args []string, stdout, stderr io.Writer) int {
	a := &app{logger: zap.NewNop()}
	root := a.rootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.Execute()
	_ = a.logger.Sync()
	if err != nil {
		a.printError(stderr, err)
		return 1
	}
	return 0
}

func (a *app) rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "logscan",
		Short: "Filter and summarize log files",
		Long: `logscan reads a plain text log file and either lists the entries that
match a set of filters or summarizes the whole file. It supports:
  - Filtering by level, keyword or regular expression, and date range
  - Whole-file overview with counts per level and the covered time span
  - Gzip and zstd compressed input
  - Text, JSON and CSV output
  - Following a growing file`,
		Version:           Version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	// Persistent flags available to all subcommands
	flags := cmd.PersistentFlags()
	flags.StringVarP(&a.configPath, "config", "c", constants.DefaultConfigFile, "Config file")
	flags.StringVarP(&a.logPath, "log-path", "p", "", "Log file to read (alternative to the positional argument)")
	flags.StringVarP(&a.outputPath, "output", "o", "", "Write results to this file instead of stdout")
	flags.StringVar(&a.format, "format", constants.DefaultOutputFormat, "Output format: text, json or csv")
	flags.StringVar(&a.color, "color", constants.DefaultColorMode, "Color level names: auto, always or never")
	flags.StringVar(&a.logLevel, "log-level", constants.DefaultLogLevel, "Diagnostic log level: debug, info, warn or error")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "Enable verbose diagnostics (same as --log-level debug)")

	// Set version template
	cmd.SetVersionTemplate("logscan version {{.Version}}\n")

	// Add subcommands
	cmd.AddCommand(a.analyzeCmd())
	cmd.AddCommand(a.overviewCmd())
	cmd.AddCommand(a.versionCmd())

	return cmd
}

// versionCmd represents the version command
func (a *app) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "logscan version %s\n", Version)
			return err
		},
	}
}

// setup loads the config file, layers flags and environment over it and
// builds the diagnostics logger.
func (a *app) setup(cmd *cobra.Command, args []string) error {
	cfg, err := a.loadConfig(cmd)
	if err != nil {
		return err
	}

	if err := config.ApplyEnvFile(cfg); err != nil {
		return err
	}

	settings, err := config.Resolve(cfg, cmd.Flags(), flagBindings)
	if err != nil {
		return err
	}
	a.settings = settings

	level := settings.LogLevel
	if a.verbose {
		level = "debug"
	}
	logger, err := logging.New(level, settings.LogFormat, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	a.logger = logger

	a.logger.Debug("settings resolved",
		zap.String("format", settings.OutputFormat),
		zap.String("color", settings.Color),
		zap.Strings("layouts", settings.Layouts))
	return nil
}

// loadConfig reads the config file. An explicit --config must exist;
// otherwise the working directory is searched and a missing file is fine.
func (a *app) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	if cmd.Flags().Changed("config") {
		return config.Load(a.configPath)
	}

	path := config.FindConfigFile(".")
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

// jsonErrors reports whether errors should be printed as JSON
func (a *app) jsonErrors() bool {
	format := a.format
	if a.settings != nil {
		format = a.settings.OutputFormat
	}
	f, err := output.ParseFormat(format)
	return err == nil && f == output.FormatJSON
}
