package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/leapstack-labs/sqllens/internal/cli/output"
	"github.com/leapstack-labs/sqllens/internal/config"
	"github.com/spf13/cobra"
)

// NewInitCommand creates the init command.
func NewInitCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Write a default sqllens.yaml",
		Long: `Write a configuration file holding every option at its default value,
ready to be edited.`,
		Example: `  # Create ./sqllens.yaml
  sqllens init

  # Overwrite an existing file
  sqllens init --force`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			cc := NewCommandContext(cmd)
			return runInit(cc.Renderer, dir, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing configuration")
	return cmd
}

func runInit(r *output.Renderer, dir string, force bool) error {
	if dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	path := filepath.Join(dir, config.ConfigFileName)
	if err := config.WriteDefault(path, force); err != nil {
		return err
	}

	r.StatusLine(path, output.StatusOK, "created")
	r.Println("")
	r.Println("Next steps:")
	r.Println("  1. Pick your dialect in " + config.ConfigFileName)
	r.Printf("  2. Export %s to enable AI analysis\n", config.DefaultAPIKeyEnv)
	r.Println("  3. Run 'sqllens ui' to open the workspace")
	return nil
}
