package cmd

import (
	"github.com/spf13/cobra"

	"github.com/gitquill/gitquill/internal/app"
)

// NewRegenerateCmd creates the regenerate command.
func NewRegenerateCmd() *cobra.Command {
	flags := &WorkflowFlags{}

	cmd := &cobra.Command{
		Use:   "regenerate",
		Short: "Rewrite the last commit's message",
		Long: `Generate a new one-line message for the diff of the last commit and
amend that commit with it. The commit's content is left untouched; only
the message changes.

Do not use this on commits that have already been pushed.

Examples:
  gitquill regenerate            # Rewrite the last commit message
  gitquill regenerate --dry-run  # Show the new message without amending`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWorkflow(cmd, app.ModeRegenerate, flags)
		},
	}

	cmd.Flags().BoolVar(&flags.DryRun, "dry-run", false, "Generate message without amending")
	cmd.Flags().StringVarP(&flags.OutputFile, "output", "o", "", "Write generated message to file (implies --dry-run)")
	cmd.Flags().StringVar(&flags.Model, "model", "", "Override the configured model for this run")

	return cmd
}
