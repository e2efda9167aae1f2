// Package config loads copysort settings from a config file, environment
// variables and bound command-line flags.
//
// Settings are read from .copysort.yaml in the working directory (or the
// file given with --config). Every key can be overridden with a COPYSORT_
// prefixed environment variable, e.g. COPYSORT_LOG_LEVEL=debug or
// COPYSORT_LINT_MIN_SEVERITY=warning.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/lex00/copysort-go/discover"
	"github.com/lex00/copysort-go/lint"
)

// Keys understood in the config file and environment.
const (
	KeyLogLevel      = "log-level"
	KeyDisabledRules = "lint.disabled-rules"
	KeyMinSeverity   = "lint.min-severity"
	KeyExtensions    = "lint.extensions"
)

// EnvPrefix prefixes environment variable overrides.
const EnvPrefix = "COPYSORT"

// Config is the resolved configuration.
type Config struct {
	LogLevel   string
	Lint       lint.Config
	Extensions []string
	// File is the config file that was read, if any.
	File string
}

// New returns a viper instance with defaults and environment overrides set up.
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyDisabledRules, []string{})
	v.SetDefault(KeyMinSeverity, "info")
	v.SetDefault(KeyExtensions, discover.DefaultExtensions)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the config file into v and resolves the configuration.
// If path is empty, .copysort.yaml is looked up in the working directory
// and its absence is not an error.
func Load(v *viper.Viper, path string) (*Config, error) {
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(".copysort")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	minSeverity, err := lint.ParseSeverity(v.GetString(KeyMinSeverity))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", KeyMinSeverity, err)
	}

	exts := make([]string, 0)
	for _, ext := range v.GetStringSlice(KeyExtensions) {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		exts = append(exts, ext)
	}

	return &Config{
		LogLevel: v.GetString(KeyLogLevel),
		Lint: lint.Config{
			DisabledRules: v.GetStringSlice(KeyDisabledRules),
			MinSeverity:   minSeverity,
		},
		Extensions: exts,
		File:       v.ConfigFileUsed(),
	}, nil
}

// WalkOptions returns the discovery options implied by the configuration.
func (c *Config) WalkOptions() discover.WalkOptions {
	return discover.WalkOptions{
		Extensions: c.Extensions,
		SkipHidden: true,
		SkipVendor: true,
	}
}
