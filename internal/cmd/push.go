package cmd

import (
	"github.com/spf13/cobra"

	"github.com/gitquill/gitquill/internal/app"
)

// NewPushCmd creates the push command.
func NewPushCmd() *cobra.Command {
	flags := &WorkflowFlags{}

	cmd := &cobra.Command{
		Use:   "push",
		Short: "Generate a message, commit, then push",
		Long: `Generate a one-line commit message for your staged changes, commit
with it, then push to the remote.

If the push fails the commit is kept; resolve the push problem and push
manually.

Examples:
  gitquill push            # Commit and push
  gitquill push --dry-run  # Generate without committing or pushing`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWorkflow(cmd, app.ModeCommitAndPush, flags)
		},
	}

	cmd.Flags().BoolVar(&flags.DryRun, "dry-run", false, "Generate message without committing or pushing")
	cmd.Flags().StringVarP(&flags.OutputFile, "output", "o", "", "Write generated message to file (implies --dry-run)")
	cmd.Flags().StringVar(&flags.Model, "model", "", "Override the configured model for this run")

	return cmd
}
