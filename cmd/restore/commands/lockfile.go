package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.trai.ch/restore/internal/adapters/lockfile" //nolint:depguard // Raw output uses the on-disk encoding
	"go.trai.ch/restore/internal/core/domain"
	"go.trai.ch/restore/internal/ui/style"
)

func (c *CLI) newLockFileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lockfile",
		Short: "Inspect lock files",
	}
	cmd.AddCommand(c.newLockFileShowCmd())
	return cmd
}

func (c *CLI) newLockFileShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show [path]",
		Short: "Show the targets and libraries of a lock file",
		Long:  "Shows the lock file at path, or the lock file of the project found at path.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, _ := cmd.Flags().GetBool("raw")

			lf, path, err := c.app.LockFile(pathArg(args))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if raw {
				data, err := lockfile.Encode(lf)
				if err != nil {
					return err
				}
				_, err = out.Write(data)
				return err
			}

			printLockFile(out, path, lf)
			return nil
		},
	}

	cmd.Flags().Bool("raw", false, "Print the lock file as stored on disk")

	return cmd
}

func printLockFile(w io.Writer, path string, lf *domain.LockFile) {
	state := "unlocked"
	if lf.Locked {
		state = "locked"
	}
	_, _ = fmt.Fprintf(w, "%s %s\n", style.Title.Render(path), style.Label.Render(state))

	for _, target := range lf.Targets {
		_, _ = fmt.Fprintf(w, "%s %s\n", style.Label.Render(style.Arrow), target.Name())
		for _, lib := range target.Libraries {
			_, _ = fmt.Fprintf(w, "    %s %s %s\n", lib.Name, lib.Version, style.Label.Render(string(lib.Type)))
		}
	}

	_, _ = fmt.Fprintf(w, "%s\n", style.Label.Render(fmt.Sprintf("libraries: %d", len(lf.Libraries))))
}
