package config

import "time"

// Default configuration values.
const (
	AppName          = "sqllens"
	ConfigFileName   = "sqllens.yaml"
	EnvPrefix        = "SQLLENS_"
	DefaultDialect   = "standard"
	DefaultOutput    = "text"
	DefaultDebounce  = 600 * time.Millisecond
	DefaultIndent    = 2
	DefaultPort      = 8765
	DefaultModel     = "gpt-4o-mini"
	DefaultAPIKeyEnv = "SQLLENS_API_KEY"
	DefaultTimeout   = 60 * time.Second
	DefaultIdle      = 30 * time.Minute
	DefaultPrefsFile = "prefs.db"
)

// Default returns the configuration used when nothing else is set.
func Default() *Config {
	return &Config{
		Dialect: DefaultDialect,
		Output:  DefaultOutput,
		Validation: ValidationConfig{
			Debounce: DefaultDebounce,
		},
		Format: FormatConfig{
			Indent:    DefaultIndent,
			Uppercase: true,
		},
		UI: UIConfig{
			Port:        DefaultPort,
			AutoOpen:    true,
			IdleTimeout: DefaultIdle,
		},
		Analysis: AnalysisConfig{
			Model:     DefaultModel,
			APIKeyEnv: DefaultAPIKeyEnv,
			Timeout:   DefaultTimeout,
		},
	}
}

// defaultMap is Default flattened into koanf keys.
func defaultMap() map[string]interface{} {
	d := Default()
	return map[string]interface{}{
		"dialect":              d.Dialect,
		"verbose":              d.Verbose,
		"output":               d.Output,
		"validation.debounce":  d.Validation.Debounce.String(),
		"format.indent":        d.Format.Indent,
		"format.uppercase":     d.Format.Uppercase,
		"ui.port":              d.UI.Port,
		"ui.auto_open":         d.UI.AutoOpen,
		"ui.session_secret":    d.UI.SessionSecret,
		"ui.idle_timeout":      d.UI.IdleTimeout.String(),
		"analysis.base_url":    d.Analysis.BaseURL,
		"analysis.model":       d.Analysis.Model,
		"analysis.api_key_env": d.Analysis.APIKeyEnv,
		"analysis.timeout":     d.Analysis.Timeout.String(),
		"prefs.path":           d.Prefs.Path,
	}
}
