package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/leapstack-labs/sqllens/pkg/dialect"
	"github.com/leapstack-labs/sqllens/pkg/format"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, _, err := Load(writeConfig(t, ""), nil)
	require.NoError(t, err)

	assert.Equal(t, "standard", cfg.Dialect)
	assert.Equal(t, OutputText, cfg.Output)
	assert.Equal(t, 600*time.Millisecond, cfg.Validation.Debounce)
	assert.Equal(t, 2, cfg.Format.Indent)
	assert.True(t, cfg.Format.Uppercase)
	assert.Equal(t, DefaultPort, cfg.UI.Port)
	assert.Equal(t, DefaultModel, cfg.Analysis.Model)
	assert.Equal(t, time.Minute, cfg.Analysis.Timeout)
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `dialect: postgresql
validation:
  debounce: 250ms
format:
  indent: 4
  uppercase: false
ui:
  port: 9000
  auto_open: false
analysis:
  base_url: http://localhost:11434/v1
`)

	cfg, used, err := Load(path, nil)
	require.NoError(t, err)

	assert.Equal(t, path, used)
	assert.Equal(t, dialect.PostgreSQL, cfg.DialectTag())
	assert.Equal(t, 250*time.Millisecond, cfg.Validation.Debounce)
	assert.Equal(t, 9000, cfg.UI.Port)
	assert.False(t, cfg.UI.AutoOpen)
	assert.Equal(t, "http://localhost:11434/v1", cfg.Analysis.BaseURL)

	opts := cfg.FormatOptions()
	assert.Equal(t, 4, opts.IndentWidth)
	assert.Equal(t, format.Preserve, opts.KeywordCase)
	assert.Equal(t, dialect.PostgreSQL, opts.Dialect)
}

// TestLoad_EnvPrecedenceOverFile tests that env vars override the config file.
func TestLoad_EnvPrecedenceOverFile(t *testing.T) {
	path := writeConfig(t, "dialect: mysql\nui:\n  auto_open: true\n")
	t.Setenv("SQLLENS_DIALECT", "spark")
	t.Setenv("SQLLENS_UI_AUTO_OPEN", "false")
	t.Setenv("SQLLENS_VALIDATION_DEBOUNCE", "1s")

	cfg, _, err := Load(path, nil)
	require.NoError(t, err)

	assert.Equal(t, "spark", cfg.Dialect)
	assert.False(t, cfg.UI.AutoOpen)
	assert.Equal(t, time.Second, cfg.Validation.Debounce)
}

// TestLoad_FlagPrecedence tests that flags override env vars and the config file.
func TestLoad_FlagPrecedence(t *testing.T) {
	path := writeConfig(t, "dialect: mysql\n")
	t.Setenv("SQLLENS_DIALECT", "spark")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("dialect", "", "dialect")
	flags.Int("port", 0, "port")
	flags.Bool("no-browser", false, "no browser")
	require.NoError(t, flags.Set("dialect", "postgresql"))
	require.NoError(t, flags.Set("port", "9100"))
	require.NoError(t, flags.Set("no-browser", "true"))

	cfg, _, err := Load(path, flags)
	require.NoError(t, err)

	assert.Equal(t, "postgresql", cfg.Dialect)
	assert.Equal(t, 9100, cfg.UI.Port)
}

// TestLoad_FlagNotSetUsesEnv tests that unset flags fall back to env vars.
func TestLoad_FlagNotSetUsesEnv(t *testing.T) {
	path := writeConfig(t, "dialect: mysql\n")
	t.Setenv("SQLLENS_DIALECT", "spark")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("dialect", "standard", "dialect")

	cfg, _, err := Load(path, flags)
	require.NoError(t, err)
	assert.Equal(t, "spark", cfg.Dialect)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errSub  string
	}{
		{"unknown dialect", "dialect: oracle\n", "unknown dialect"},
		{"unknown output", "output: yaml\n", "unknown output format"},
		{"negative debounce", "validation:\n  debounce: -1s\n", "debounce"},
		{"indent too wide", "format:\n  indent: 12\n", "format.indent"},
		{"bad duration", "analysis:\n  timeout: soon\n", "decode"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Load(writeConfig(t, tt.content), nil)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errSub)
		})
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, _, err := Load(filepath.Join(t.TempDir(), "absent.yaml"), nil)
	require.Error(t, err)
}

func TestWriteDefault_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", ConfigFileName)
	require.NoError(t, WriteDefault(path, false))

	cfg, _, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	err = WriteDefault(path, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
	require.NoError(t, WriteDefault(path, true))
}

func TestEnvKey(t *testing.T) {
	assert.Equal(t, "dialect", envKey("SQLLENS_DIALECT"))
	assert.Equal(t, "ui.auto_open", envKey("SQLLENS_UI_AUTO_OPEN"))
	assert.Equal(t, "analysis.api_key_env", envKey("SQLLENS_ANALYSIS_API_KEY_ENV"))
	assert.Equal(t, "api_key", envKey("SQLLENS_API_KEY"))
}

func TestAPIKey(t *testing.T) {
	t.Setenv("MY_LENS_KEY", "secret")
	assert.Equal(t, "secret", AnalysisConfig{APIKeyEnv: "MY_LENS_KEY"}.APIKey())
	assert.Empty(t, AnalysisConfig{}.APIKey())
}

func TestPrefsPath(t *testing.T) {
	cfg := Default()
	cfg.Prefs.Path = "/tmp/prefs.db"
	path, err := cfg.PrefsPath()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/prefs.db", path)
}

func TestGetLogger_Fallback(t *testing.T) {
	logger := GetLogger(context.Background())
	require.NotNil(t, logger)

	stored := NewLogger(os.Stderr, true)
	assert.Same(t, stored, GetLogger(WithLogger(context.Background(), stored)))
}

func TestFromContext(t *testing.T) {
	assert.Equal(t, Default(), FromContext(context.Background()))

	cfg := Default()
	cfg.Dialect = "mysql"
	assert.Same(t, cfg, FromContext(WithConfig(context.Background(), cfg)))
}
