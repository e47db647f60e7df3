// Package config provides configuration loading for SQL Lens.
//
// Values are layered, lowest to highest precedence: built-in defaults, the
// YAML config file, SQLLENS_* environment variables and explicitly set
// command-line flags.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/leapstack-labs/sqllens/pkg/dialect"
	"github.com/leapstack-labs/sqllens/pkg/format"
)

// Config holds all configuration options.
type Config struct {
	Dialect    string           `koanf:"dialect" yaml:"dialect"`
	Verbose    bool             `koanf:"verbose" yaml:"verbose"`
	Output     string           `koanf:"output" yaml:"output"`
	Validation ValidationConfig `koanf:"validation" yaml:"validation"`
	Format     FormatConfig     `koanf:"format" yaml:"format"`
	UI         UIConfig         `koanf:"ui" yaml:"ui"`
	Analysis   AnalysisConfig   `koanf:"analysis" yaml:"analysis"`
	Prefs      PrefsConfig      `koanf:"prefs" yaml:"prefs"`
}

// ValidationConfig controls background validation.
type ValidationConfig struct {
	Debounce time.Duration `koanf:"debounce" yaml:"debounce"`
}

// FormatConfig controls the SQL formatter.
type FormatConfig struct {
	Indent    int  `koanf:"indent" yaml:"indent"`
	Uppercase bool `koanf:"uppercase" yaml:"uppercase"`
}

// UIConfig holds configuration for the UI server.
type UIConfig struct {
	Port          int           `koanf:"port" yaml:"port"`
	AutoOpen      bool          `koanf:"auto_open" yaml:"auto_open"`
	SessionSecret string        `koanf:"session_secret" yaml:"session_secret"`
	IdleTimeout   time.Duration `koanf:"idle_timeout" yaml:"idle_timeout"`
}

// AnalysisConfig configures the OpenAI-compatible analysis endpoint.
type AnalysisConfig struct {
	BaseURL   string        `koanf:"base_url" yaml:"base_url"`
	Model     string        `koanf:"model" yaml:"model"`
	APIKeyEnv string        `koanf:"api_key_env" yaml:"api_key_env"`
	Timeout   time.Duration `koanf:"timeout" yaml:"timeout"`
}

// APIKey reads the credential from the configured environment variable.
func (a AnalysisConfig) APIKey() string {
	if a.APIKeyEnv == "" {
		return ""
	}
	return os.Getenv(a.APIKeyEnv)
}

// PrefsConfig locates the preference database.
type PrefsConfig struct {
	Path string `koanf:"path" yaml:"path"`
}

// DialectTag resolves the configured dialect, falling back to Standard.
func (c *Config) DialectTag() dialect.Tag {
	return dialect.MustParseTag(c.Dialect)
}

// FormatOptions returns formatter options for the configured dialect.
func (c *Config) FormatOptions() format.Options {
	opts := format.DefaultOptions(c.DialectTag())
	if c.Format.Indent > 0 {
		opts.IndentWidth = c.Format.Indent
	}
	if !c.Format.Uppercase {
		opts.KeywordCase = format.Preserve
	}
	return opts
}

// PrefsPath returns the preference database path, defaulting to
// <user config dir>/sqllens/prefs.db.
func (c *Config) PrefsPath() (string, error) {
	if c.Prefs.Path != "" {
		return c.Prefs.Path, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, AppName, DefaultPrefsFile), nil
}
