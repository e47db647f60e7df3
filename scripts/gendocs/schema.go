package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/leapstack-labs/sqllens/internal/config"
	"gopkg.in/yaml.v3"
)

// generateSchemaDocs generates the configuration file reference.
func generateSchemaDocs(outDir string) error {
	log.Printf("Generating config docs to %s", outDir)

	if err := os.MkdirAll(outDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if err := generateConfigurationDoc(outDir); err != nil {
		return fmt.Errorf("failed to generate configuration.md: %w", err)
	}
	log.Printf("  Generated configuration.md")

	return nil
}

// ConfigField represents a configuration key.
type ConfigField struct {
	Key         string
	Type        string
	Default     string
	Description string
}

// fieldDescriptions documents every leaf key of the config file.
var fieldDescriptions = map[string]string{
	"dialect":              "SQL dialect: standard, mysql, postgresql or spark",
	"verbose":              "Log debug output to stderr",
	"output":               "Output format: auto, text, markdown or json",
	"validation.debounce":  "Delay after the last edit before validating",
	"format.indent":        "Spaces per indentation level, 0 to 8",
	"format.uppercase":     "Upper-case keywords when formatting",
	"ui.port":              "Port of the browser workspace, 0 picks a free port",
	"ui.auto_open":         "Open the browser when `sqllens ui` starts",
	"ui.session_secret":    "Cookie signing secret, random when empty",
	"ui.idle_timeout":      "Idle time after which workspace sessions are dropped",
	"analysis.base_url":    "OpenAI-compatible endpoint, empty for the default",
	"analysis.model":       "Model used by `analyze` and the UI analysis panel",
	"analysis.api_key_env": "Environment variable holding the API key",
	"analysis.timeout":     "Timeout of one analysis request",
	"prefs.path":           "Preference database, defaults to the user config directory",
}

// getConfigSchema walks config.Config by its koanf tags.
func getConfigSchema() []ConfigField {
	var fields []ConfigField
	var walk func(prefix string, v reflect.Value)
	walk = func(prefix string, v reflect.Value) {
		t := v.Type()
		for i := range t.NumField() {
			tag := t.Field(i).Tag.Get("koanf")
			if tag == "" {
				continue
			}
			key := prefix + tag
			fv := v.Field(i)
			if fv.Kind() == reflect.Struct {
				walk(key+".", fv)
				continue
			}
			fields = append(fields, ConfigField{
				Key:         key,
				Type:        typeName(fv),
				Default:     defaultString(fv),
				Description: fieldDescriptions[key],
			})
		}
	}
	walk("", reflect.ValueOf(*config.Default()))
	return fields
}

func typeName(v reflect.Value) string {
	if v.Type() == reflect.TypeOf(time.Duration(0)) {
		return "duration"
	}
	return v.Kind().String()
}

func defaultString(v reflect.Value) string {
	if d, ok := v.Interface().(time.Duration); ok {
		return d.String()
	}
	s := fmt.Sprint(v.Interface())
	if s == "" {
		return "-"
	}
	return s
}

// generateConfigurationDoc generates the configuration reference page.
func generateConfigurationDoc(outDir string) error {
	w := NewMarkdownWriter()

	w.Frontmatter("Configuration", "SQL Lens configuration reference")
	w.GeneratedMarker()

	w.Header(1, "Configuration")
	w.Paragraph(fmt.Sprintf("SQL Lens reads `%s` from the working directory, or the file given with `--config`. `sqllens init` writes one with every default.", config.ConfigFileName))

	fields := getConfigSchema()
	sections := map[string][][]string{}
	var order []string
	for _, f := range fields {
		section := "General"
		if s, _, ok := strings.Cut(f.Key, "."); ok {
			section = s
		}
		if _, seen := sections[section]; !seen {
			order = append(order, section)
		}
		sections[section] = append(sections[section], []string{
			InlineCode(f.Key),
			f.Type,
			InlineCode(f.Default),
			f.Description,
		})
	}

	headers := []string{"Key", "Type", "Default", "Description"}
	for _, section := range order {
		w.Header(2, section)
		w.Table(headers, sections[section])
	}

	w.Header(2, "Full Configuration Example")
	data, err := yaml.Marshal(config.Default())
	if err != nil {
		return fmt.Errorf("failed to marshal defaults: %w", err)
	}
	w.CodeBlock("yaml", "# "+config.ConfigFileName+"\n"+string(data))

	w.Header(2, "Environment Variables")
	w.Paragraph(fmt.Sprintf("Each key can be overridden with a `%s` variable. Dots become underscores and the name is upper-cased:", config.EnvPrefix))
	w.CodeBlock("bash", fmt.Sprintf(`export %sDIALECT=postgresql
export %sUI_PORT=9000`, config.EnvPrefix, config.EnvPrefix))

	filename := filepath.Join(outDir, "configuration.md")
	return os.WriteFile(filename, w.Bytes(), 0600)
}
