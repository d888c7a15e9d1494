package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charliek/logscan/internal/constants"
	"github.com/charliek/logscan/internal/domain"
	"gopkg.in/yaml.v3"
)

// Config represents the top-level logscan configuration
type Config struct {
	EnvFile string       `yaml:"env_file"`
	Output  OutputConfig `yaml:"output"`
	Parser  ParserConfig `yaml:"parser"`
	Log     LogConfig    `yaml:"log"`

	// Dir is the directory holding the config file; relative paths resolve against it
	Dir string `yaml:"-"`
}

// OutputConfig defines how results are rendered
type OutputConfig struct {
	Format string `yaml:"format"`
	Color  string `yaml:"color"`
}

// ParserConfig defines extra timestamp layouts in Go reference-time syntax
type ParserConfig struct {
	Layouts []string `yaml:"layouts"`
}

// LogConfig defines diagnostic logging
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the configuration used when no file is present
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// Load reads and parses a configuration file
func Load(path string) (*Config, error) {
	// First check if file exists
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", domain.ErrConfigNotFound, path)
		}
		return nil, fmt.Errorf("checking config file: %w", err)
	}

	// Check file permissions for security
	if err := CheckFilePermissions(path); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}
	cfg.Dir = filepath.Dir(path)
	return cfg, nil
}

// Parse parses configuration from YAML bytes
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: parsing yaml: %v", domain.ErrInvalidConfig, err)
	}

	applyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Output.Format == "" {
		cfg.Output.Format = constants.DefaultOutputFormat
	}
	if cfg.Output.Color == "" {
		cfg.Output.Color = constants.DefaultColorMode
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = constants.DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = constants.DefaultLogFormat
	}
}
