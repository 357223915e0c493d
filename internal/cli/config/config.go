// Package config loads calc's configuration from defaults, a YAML file,
// CALC_ environment variables, and command-line flags, in increasing order of
// precedence.
package config

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

// EnvPrefix is the prefix of environment variables that set config keys.
// CALC_HISTORY_FILE sets history_file.
const EnvPrefix = "CALC_"

// DefaultPrompt is the REPL prompt used when none is configured.
const DefaultPrompt = "calc> "

// fileNames are the config file names searched for, in order.
var fileNames = []string{"calc.yaml", "calc.yml"}

// Config holds all CLI configuration options.
type Config struct {
	// Format is a fmt verb for printing results, e.g. "%.3f". Empty means
	// the shortest plain decimal form.
	Format string `koanf:"format"`
	// Echo prints each expression in postfix form before its result.
	Echo bool `koanf:"echo"`
	// Prompt is the REPL prompt.
	Prompt string `koanf:"prompt"`
	// HistoryFile is where the REPL keeps its line history. Empty disables
	// history.
	HistoryFile string `koanf:"history_file"`
	// Verbose enables debug logging to stderr.
	Verbose bool `koanf:"verbose"`
	// Color enables styled REPL output.
	Color bool `koanf:"color"`

	// File is the config file that was loaded, if any.
	File string `koanf:"-"`
}

// keys are the config keys which flags may set.
var keys = map[string]bool{
	"format":       true,
	"echo":         true,
	"prompt":       true,
	"history_file": true,
	"verbose":      true,
	"color":        true,
}

func defaults() map[string]any {
	hist := ""
	if home, err := os.UserHomeDir(); err == nil {
		hist = filepath.Join(home, ".calc_history")
	}
	return map[string]any{
		"format":       "",
		"echo":         false,
		"prompt":       DefaultPrompt,
		"history_file": hist,
		"verbose":      false,
		"color":        true,
	}
}

// findFile finds the config file to use.
// Priority: explicit path > ./calc.yaml > ./calc.yml > user config dir.
func findFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	for _, name := range fileNames {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	if dir, err := os.UserConfigDir(); err == nil {
		for _, name := range fileNames {
			p := filepath.Join(dir, "calc", name)
			if _, err := os.Stat(p); err == nil {
				return p
			}
		}
	}
	return ""
}

// Load loads configuration. cfgFile names a config file explicitly; if it is
// empty, the working directory and then the user config directory are
// searched. Only flags in flags that were explicitly set override other
// sources. flags may be nil.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	// 1. Defaults
	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Config file
	used := findFile(cfgFile)
	if used != "" {
		if err := k.Load(file.Provider(used), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", used, err)
		}
	}

	// 3. Environment: CALC_HISTORY_FILE -> history_file
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Flags
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, any) {
			if !f.Changed {
				return "", nil
			}
			key := strings.ReplaceAll(f.Name, "-", "_")
			if !keys[key] {
				return "", nil
			}
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	cfg.File = used
	if cfg.Prompt == "" {
		cfg.Prompt = DefaultPrompt
	}
	return &cfg, nil
}
