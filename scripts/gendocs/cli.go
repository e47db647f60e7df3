package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/leapstack-labs/sqllens/internal/cli"
	"github.com/leapstack-labs/sqllens/internal/config"
	"github.com/leapstack-labs/sqllens/pkg/dialect"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// documented reports whether cmd gets a reference page.
func documented(cmd *cobra.Command) bool {
	return cmd.IsAvailableCommand() && cmd.Name() != "help"
}

// generateCLIDocs writes index.md plus one page per command.
func generateCLIDocs(outDir string) error {
	log.Printf("Generating CLI docs to %s", outDir)

	if err := os.MkdirAll(outDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	root := cli.NewRootCmd()
	pages := map[string][]byte{"index.md": cliIndex(root)}
	for _, cmd := range root.Commands() {
		if documented(cmd) {
			pages[cmd.Name()+".md"] = commandPage(cmd)
		}
	}

	names := make([]string, 0, len(pages))
	for name := range pages {
		names = append(names, name)
	}
	slices.Sort(names)

	for _, name := range names {
		if err := os.WriteFile(filepath.Join(outDir, name), pages[name], 0600); err != nil {
			return fmt.Errorf("failed to write %s: %w", name, err)
		}
		log.Printf("  Generated %s", name)
	}
	return nil
}

func cliIndex(root *cobra.Command) []byte {
	w := NewMarkdownWriter()
	w.Frontmatter("CLI Reference", "Command-line interface reference for SQL Lens")
	w.GeneratedMarker()

	w.Header(1, "CLI Reference")
	w.Paragraph(root.Long)

	w.Header(2, "Installation")
	w.CodeBlock("bash", "go install github.com/leapstack-labs/sqllens/cmd/sqllens@latest")

	w.Header(2, "Commands")
	var rows [][]string
	for _, cmd := range root.Commands() {
		if !documented(cmd) {
			continue
		}
		rows = append(rows, []string{
			fmt.Sprintf("[%s](/cli/%s)", InlineCode(cmd.Name()), cmd.Name()),
			cleanDescription(cmd.Short),
		})
	}
	w.Table([]string{"Command", "Description"}, rows)

	w.Header(2, "Global Options")
	w.Table(flagHeaders, flagRows(root.PersistentFlags()))

	w.Header(2, "Dialects")
	var dialects [][]string
	for _, name := range dialect.Names() {
		tag, _ := dialect.ParseTag(name)
		dialects = append(dialects, []string{InlineCode(name), dialect.Lookup(tag).DisplayName})
	}
	w.Table([]string{"Name", "Dialect"}, dialects)

	w.Header(2, "Output Formats")
	w.Table([]string{"Format", "Use"}, [][]string{
		{InlineCode(config.OutputText), "Plain or coloured text. The default."},
		{InlineCode(config.OutputMarkdown), "Markdown with fenced SQL, for pasting into reviews."},
		{InlineCode(config.OutputJSON), "Machine-readable results."},
		{InlineCode(config.OutputAuto), "Text on a terminal, markdown when piped."},
	})

	w.Header(2, "Exit Codes")
	w.Table([]string{"Code", "Meaning"}, [][]string{
		{InlineCode("0"), "Success"},
		{InlineCode("1"), "Error, invalid SQL or unformatted input with `--check`"},
	})

	w.Paragraph(fmt.Sprintf("Flags override `%s*` environment variables, which override the config file. See the configuration reference.", config.EnvPrefix))
	return w.Bytes()
}

func commandPage(cmd *cobra.Command) []byte {
	w := NewMarkdownWriter()
	w.Frontmatter(cmd.Name(), cmd.Short)
	w.GeneratedMarker()

	w.Header(1, cmd.Name())
	desc := cmd.Long
	if desc == "" {
		desc = cmd.Short
	}
	w.Paragraph(desc)

	w.Header(2, "Usage")
	w.CodeBlock("bash", config.AppName+" "+strings.TrimPrefix(cmd.UseLine(), config.AppName+" "))

	if len(cmd.Aliases) > 0 {
		w.Header(2, "Aliases")
		aliases := make([]string, len(cmd.Aliases))
		for i, a := range cmd.Aliases {
			aliases[i] = InlineCode(a)
		}
		w.BulletList(aliases)
	}

	if rows := flagRows(cmd.LocalFlags()); len(rows) > 0 {
		w.Header(2, "Options")
		w.Table(flagHeaders, rows)
	}

	if cmd.Example != "" {
		w.Header(2, "Examples")
		w.CodeBlock("bash", dedent(cmd.Example))
	}
	return w.Bytes()
}

var flagHeaders = []string{"Option", "Short", "Default", "Description"}

func flagRows(flags *pflag.FlagSet) [][]string {
	var rows [][]string
	flags.VisitAll(func(f *pflag.Flag) {
		if f.Hidden {
			return
		}
		short := ""
		if f.Shorthand != "" {
			short = InlineCode("-" + f.Shorthand)
		}
		def := f.DefValue
		if def != "" && f.Value.Type() != "bool" {
			def = InlineCode(def)
		}
		rows = append(rows, []string{InlineCode("--" + f.Name), short, def, cleanDescription(f.Usage)})
	})
	return rows
}

// dedent strips the indentation shared by every non-blank line.
func dedent(s string) string {
	lines := strings.Split(s, "\n")
	prefix := -1
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		n := len(line) - len(strings.TrimLeft(line, " \t"))
		if prefix < 0 || n < prefix {
			prefix = n
		}
	}
	for i, line := range lines {
		if len(line) >= prefix && prefix > 0 {
			lines[i] = line[prefix:]
		}
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
