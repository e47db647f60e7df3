package commands

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/leapstack-labs/sqllens/internal/analysis"
	"github.com/leapstack-labs/sqllens/internal/cli/output"
	"github.com/leapstack-labs/sqllens/internal/config"
	"github.com/spf13/cobra"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
}

// NewCommandContext collects the config, logger and renderer stored on the
// command's context by the root command.
func NewCommandContext(cmd *cobra.Command) *CommandContext {
	cfg := config.FromContext(cmd.Context())
	return &CommandContext{
		Cfg:      cfg,
		Logger:   config.GetLogger(cmd.Context()),
		Renderer: output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cfg.Output)),
	}
}

// Analyzer builds the analysis client from the config.
func (c *CommandContext) Analyzer() *analysis.Client {
	return analysis.NewClient(analysis.Options{
		APIKey:  c.Cfg.Analysis.APIKey(),
		BaseURL: c.Cfg.Analysis.BaseURL,
		Model:   c.Cfg.Analysis.Model,
		Timeout: c.Cfg.Analysis.Timeout,
		Logger:  c.Logger,
	})
}

// readSQL reads a file, or stdin when path is "-".
func readSQL(cmd *cobra.Command, path string) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(data), nil
}

// readPair reads the original and modified documents.
func readPair(cmd *cobra.Command, a, b string) (string, string, error) {
	if a == "-" && b == "-" {
		return "", "", fmt.Errorf("only one input may be read from stdin")
	}
	original, err := readSQL(cmd, a)
	if err != nil {
		return "", "", err
	}
	modified, err := readSQL(cmd, b)
	if err != nil {
		return "", "", err
	}
	return original, modified, nil
}
