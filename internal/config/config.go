// Package config loads minipy settings from defaults, a YAML file, the
// environment and command-line flags.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// Default configuration values.
const (
	DefaultLogLevel  = "warn"
	DefaultLogFormat = "text"
	DefaultIndent    = 4
	DefaultWidth     = 80

	// EnvPrefix marks environment variables read as configuration, e.g.
	// MINIPY_LOG_LEVEL sets log_level.
	EnvPrefix = "MINIPY_"
)

// FileNames are looked up in the working directory when no config file is
// given explicitly.
var FileNames = []string{"minipy.yaml", "minipy.yml"}

// Config holds all CLI configuration options.
type Config struct {
	LogLevel  string `koanf:"log_level"`
	LogFormat string `koanf:"log_format"`
	// Indent is the number of spaces per nesting level in generated Python.
	Indent    int    `koanf:"indent"`
	Width     int    `koanf:"width"`
	OutputDir string `koanf:"output_dir"`
	Watch     bool   `koanf:"watch"`

	// File is the config file that was loaded, if any.
	File string `koanf:"-"`
}

// Default returns the configuration used when nothing overrides it.
func Default() *Config {
	return &Config{
		LogLevel:  DefaultLogLevel,
		LogFormat: DefaultLogFormat,
		Indent:    DefaultIndent,
		Width:     DefaultWidth,
	}
}

// findConfigFile finds the config file to use.
// Priority: explicit path > minipy.yaml > minipy.yml
func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	for _, name := range FileNames {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

// Load reads the configuration.
// Precedence (highest to lowest): flags > env vars > config file > defaults
//
// Only flags that were set explicitly take part. A flag named log-level sets
// the key log_level.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	// 1. Defaults
	def := Default()
	if err := k.Load(confmap.Provider(map[string]interface{}{
		"log_level":  def.LogLevel,
		"log_format": def.LogFormat,
		"indent":     def.Indent,
		"width":      def.Width,
		"output_dir": def.OutputDir,
		"watch":      def.Watch,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Config file
	used := findConfigFile(cfgFile)
	if used != "" {
		if err := k.Load(file.Provider(used), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", used, err)
		}
	}

	// 3. Environment: MINIPY_LOG_LEVEL -> log_level
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Flags
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed {
				return "", nil
			}
			return strings.ReplaceAll(f.Name, "-", "_"), posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	cfg.File = used

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if _, err := c.Level(); err != nil {
		return err
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log_format %q: must be text or json", c.LogFormat)
	}
	if c.Indent < 1 || c.Indent > 8 {
		return fmt.Errorf("invalid indent %d: must be between 1 and 8", c.Indent)
	}
	if c.Width < 20 {
		return fmt.Errorf("invalid width %d: must be at least 20", c.Width)
	}
	return nil
}

// Level parses LogLevel.
func (c *Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("invalid log_level %q: %w", c.LogLevel, err)
	}
	return level, nil
}

// IndentUnit is the indentation added per nesting level.
func (c *Config) IndentUnit() string {
	return strings.Repeat(" ", c.Indent)
}
