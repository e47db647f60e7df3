package commands

import (
	"errors"
	"fmt"

	"github.com/leapstack-labs/sqllens/internal/analysis"
	"github.com/leapstack-labs/sqllens/internal/cli/output"
	"github.com/spf13/cobra"
)

// NewAnalyzeCommand creates the analyze command.
func NewAnalyzeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze <original> <modified>",
		Short: "Explain the change between two queries with an AI model",
		Long: `Send both queries to an OpenAI-compatible chat completions endpoint and
print a summary of the change, its likely impact on results and
performance, and up to three optimization tips.

The API key is read from the environment variable named by
analysis.api_key_env (SQLLENS_API_KEY by default).`,
		Example: `  SQLLENS_API_KEY=sk-... sqllens analyze old.sql new.sql

  # A local model behind an OpenAI-compatible server
  sqllens analyze old.sql new.sql --base-url http://localhost:11434/v1 --model llama3`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cc := NewCommandContext(cmd)
			return runAnalyze(cmd, cc, args[0], args[1], cc.Analyzer())
		},
	}

	cmd.Flags().String("model", "", "Model name (default from config)")
	cmd.Flags().String("base-url", "", "API base URL (default from config)")
	return cmd
}

func runAnalyze(cmd *cobra.Command, cc *CommandContext, a, b string, analyzer analysis.Analyzer) error {
	r := cc.Renderer

	original, modified, err := readPair(cmd, a, b)
	if err != nil {
		return err
	}

	if r.IsTTY() && r.EffectiveMode() != output.ModeJSON {
		_, _ = fmt.Fprintln(r.ErrWriter(), r.Styles().Muted.Render("Analyzing…"))
	}
	res, err := analyzer.Analyze(cmd.Context(), original, modified)
	if err != nil {
		if errors.Is(err, analysis.ErrMissingCredential) {
			return fmt.Errorf("%w: set %s", err, cc.Cfg.Analysis.APIKeyEnv)
		}
		return err
	}

	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(output.AnalyzeOutput{Original: a, Modified: b, Result: res})
	}
	printAnalysis(r, res)
	return nil
}

func printAnalysis(r *output.Renderer, res *analysis.Result) {
	r.Header(2, "Summary")
	r.Println(res.Summary)
	r.Println()
	r.Header(2, "Impact")
	r.Println(res.Impact)
	if len(res.OptimizationTips) == 0 {
		return
	}
	r.Println()
	r.Header(2, "Optimization tips")
	for i, tip := range res.OptimizationTips {
		r.Printf("%d. %s\n", i+1, tip)
	}
}
