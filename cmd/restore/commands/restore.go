package commands

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"go.trai.ch/restore/internal/app"
	"go.trai.ch/restore/internal/ui/style"
)

func (c *CLI) newRestoreCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "restore [path]",
		Short: "Resolve, install and lock the dependencies of a project",
		Long: "Resolves the dependency graph of every framework and runtime of the project found at path,\n" +
			"installs the packages it needs and writes the lock file.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			packages, _ := cmd.Flags().GetString("packages")
			sources, _ := cmd.Flags().GetStringSlice("source")
			runtimes, _ := cmd.Flags().GetStringSlice("runtime")
			profiles, _ := cmd.Flags().GetStringSlice("profile")
			parallel, _ := cmd.Flags().GetInt("parallel")
			lockFile, _ := cmd.Flags().GetString("lock-file")
			lock, _ := cmd.Flags().GetBool("lock")
			force, _ := cmd.Flags().GetBool("force")

			summary, err := c.app.Restore(cmd.Context(), app.RestoreOptions{
				Path:         pathArg(args),
				PackagesPath: packages,
				Sources:      sources,
				Runtimes:     runtimes,
				Profiles:     profiles,
				Parallel:     parallel,
				LockFilePath: lockFile,
				Lock:         lock,
				Force:        force,
			})
			if summary != nil {
				printSummary(cmd.OutOrStdout(), summary)
			}
			return err
		},
	}

	cmd.Flags().StringP("packages", "p", "", "Packages folder to install into")
	cmd.Flags().StringSliceP("source", "s", nil, "Package source folder; replaces the project's sources")
	cmd.Flags().StringSliceP("runtime", "r", nil, "Additional runtime identifier to restore for")
	cmd.Flags().StringSlice("profile", nil, "Additional compatibility profile to check")
	cmd.Flags().IntP("parallel", "j", 0, "Maximum number of concurrent installs")
	cmd.Flags().String("lock-file", "", "Path of the lock file")
	cmd.Flags().Bool("lock", false, "Mark the written lock file as locked")
	cmd.Flags().BoolP("force", "f", false, "Restore even if the last restore is up to date")

	return cmd
}

// printSummary writes the outcome of a restore.
func printSummary(w io.Writer, s *app.Summary) {
	elapsed := s.Elapsed.Round(time.Millisecond)

	switch {
	case s.NoOp:
		_, _ = fmt.Fprintf(w, "%s %s is up to date %s\n",
			style.Success.Render(style.Check), style.Title.Render(s.Project), style.Label.Render(elapsed.String()))
		return
	case s.Success:
		_, _ = fmt.Fprintf(w, "%s Restored %s %s\n",
			style.Success.Render(style.Check), style.Title.Render(s.Project), style.Label.Render(elapsed.String()))
	default:
		_, _ = fmt.Fprintf(w, "%s Restore of %s failed with %s\n",
			style.Failure.Render(style.Cross), style.Title.Render(s.Project), plural(s.Errors, "error"))
	}

	row := func(label, value string) {
		_, _ = fmt.Fprintf(w, "  %s %s\n", style.Label.Render(fmt.Sprintf("%-10s", label)), value)
	}
	row("graphs", fmt.Sprint(s.Graphs))
	row("installed", fmt.Sprint(len(s.Installed)))
	if s.Warnings > 0 {
		row("warnings", style.Notice.Render(fmt.Sprint(s.Warnings)))
	}
	if s.Relocked {
		row("lock", style.Notice.Render("rebuilt, the project no longer matched it"))
	}
	row("lock file", s.LockFile)
}

func plural(n int, word string) string {
	if n == 1 {
		return "1 " + word
	}
	return fmt.Sprintf("%d %ss", n, word)
}
