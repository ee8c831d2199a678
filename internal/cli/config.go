package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

const (
	DefaultLogLevel  = "warn"
	DefaultLogFormat = "text"
	DefaultPrompt    = "> "

	envPrefix = "LOX_"
)

// Config holds the settings shared by every command.
type Config struct {
	LogLevel    string `koanf:"log_level"`
	LogFormat   string `koanf:"log_format"`
	Prompt      string `koanf:"prompt"`
	HistoryFile string `koanf:"history_file"`
	Color       bool   `koanf:"color"`

	// File is the config file that was read, if any.
	File string `koanf:"-"`
}

// DefaultConfig is used when no config was loaded into the command context.
func DefaultConfig() *Config {
	return &Config{
		LogLevel:    DefaultLogLevel,
		LogFormat:   DefaultLogFormat,
		Prompt:      DefaultPrompt,
		HistoryFile: defaultHistoryFile(),
		Color:       true,
	}
}

func defaultHistoryFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	return filepath.Join(home, ".lox_history")
}

// findConfigFile returns the explicit path, or lox.yaml / lox.yml in the
// working directory when present.
func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}

	for _, name := range []string{"lox.yaml", "lox.yml"} {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}

	return ""
}

// LoadConfig merges, from lowest to highest precedence: defaults, the config
// file, LOX_* environment variables and flags that were explicitly set.
func LoadConfig(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	defaults := DefaultConfig()
	if err := k.Load(confmap.Provider(map[string]interface{}{
		"log_level":    defaults.LogLevel,
		"log_format":   defaults.LogFormat,
		"prompt":       defaults.Prompt,
		"history_file": defaults.HistoryFile,
		"color":        defaults.Color,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	used := findConfigFile(cfgFile)
	if used != "" {
		if err := k.Load(file.Provider(used), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", used, err)
		}
	}

	// LOX_LOG_LEVEL -> log_level
	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed || f.Name == "config" {
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

	return &cfg, nil
}
