package config

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/charliek/logscan/internal/constants"
)

// Settings keys, shared by viper, environment variables and flag bindings
const (
	KeyOutputFormat = "output.format"
	KeyOutputColor  = "output.color"
	KeyLogLevel     = "log.level"
	KeyLogFormat    = "log.format"
)

// Settings are the effective values after layering
type Settings struct {
	OutputFormat string
	Color        string
	LogLevel     string
	LogFormat    string
	Layouts      []string
}

// Resolve layers settings with precedence flags > LOGSCAN_* environment >
// config file > built-in defaults. bindings maps settings keys to flag
// names in flags; unknown or unchanged flags fall through to lower layers.
func Resolve(cfg *Config, flags *pflag.FlagSet, bindings map[string]string) (*Settings, error) {
	if cfg == nil {
		cfg = Default()
	}

	v := viper.New()

	// Environment variable support
	v.AutomaticEnv()
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// The config file acts as the defaults layer
	v.SetDefault(KeyOutputFormat, cfg.Output.Format)
	v.SetDefault(KeyOutputColor, cfg.Output.Color)
	v.SetDefault(KeyLogLevel, cfg.Log.Level)
	v.SetDefault(KeyLogFormat, cfg.Log.Format)

	if flags != nil {
		for key, name := range bindings {
			flag := flags.Lookup(name)
			if flag == nil {
				continue
			}
			if err := v.BindPFlag(key, flag); err != nil {
				return nil, fmt.Errorf("binding flag %s: %w", name, err)
			}
		}
	}

	s := &Settings{
		OutputFormat: v.GetString(KeyOutputFormat),
		Color:        v.GetString(KeyOutputColor),
		LogLevel:     v.GetString(KeyLogLevel),
		LogFormat:    v.GetString(KeyLogFormat),
		Layouts:      cfg.Parser.Layouts,
	}

	// Re-validate since flags and environment bypass the file checks
	check := &Config{
		Output: OutputConfig{Format: s.OutputFormat, Color: s.Color},
		Parser: cfg.Parser,
		Log:    LogConfig{Level: s.LogLevel, Format: s.LogFormat},
	}
	if err := Validate(check); err != nil {
		return nil, fmt.Errorf("%w (from flags, %s_* environment or config)", err, constants.EnvPrefix)
	}

	return s, nil
}
