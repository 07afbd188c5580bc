package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/restore/internal/app"
)

func (c *CLI) newCleanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clean [path]",
		Short: "Remove the restore cache and build integration files of a project",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			packages, _ := cmd.Flags().GetBool("packages")

			return c.app.Clean(cmd.Context(), app.CleanOptions{
				Path:     pathArg(args),
				Packages: packages,
			})
		},
	}

	cmd.Flags().Bool("packages", false, "Also remove the packages folder")

	return cmd
}

func pathArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
