package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/leapstack-labs/sqllens/pkg/dialect"
	"gopkg.in/yaml.v3"
)

// Output formats.
const (
	OutputAuto     = "auto"
	OutputText     = "text"
	OutputJSON     = "json"
	OutputMarkdown = "markdown"
)

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if _, ok := dialect.ParseTag(c.Dialect); !ok {
		return fmt.Errorf("unknown dialect %q (want one of %v)", c.Dialect, dialect.Names())
	}
	switch c.Output {
	case OutputAuto, OutputText, OutputJSON, OutputMarkdown:
	default:
		return fmt.Errorf("unknown output format %q (want auto, text, json or markdown)", c.Output)
	}
	if c.Validation.Debounce < 0 {
		return fmt.Errorf("validation.debounce must not be negative")
	}
	if c.Format.Indent < 0 || c.Format.Indent > 8 {
		return fmt.Errorf("format.indent must be between 0 and 8, got %d", c.Format.Indent)
	}
	if c.UI.Port < 0 || c.UI.Port > 65535 {
		return fmt.Errorf("ui.port out of range: %d", c.UI.Port)
	}
	return nil
}

// WriteDefault writes the default configuration as YAML to path. It refuses
// to overwrite an existing file unless force is set.
func WriteDefault(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}
	}
	data, err := yaml.Marshal(Default())
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0600)
}
