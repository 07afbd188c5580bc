// Package commands implements the CLI commands for the restore tool.
package commands

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.trai.ch/restore/internal/adapters/telemetry" //nolint:depguard // Tracing is installed by the CLI
	"go.trai.ch/restore/internal/app"
	"go.trai.ch/restore/internal/build"
	"go.trai.ch/restore/internal/core/domain"
	"go.trai.ch/restore/internal/core/ports"
)

// CLI represents the command line interface for restore.
type CLI struct {
	app      Application
	logger   ports.Logger
	rootCmd  *cobra.Command
	shutdown func(context.Context) error
}

// Application represents the application logic interface.
type Application interface {
	Restore(ctx context.Context, opts app.RestoreOptions) (*app.Summary, error)
	LockFile(path string) (*domain.LockFile, string, error)
	Clean(ctx context.Context, opts app.CleanOptions) error
}

// configurableLogger is implemented by loggers whose format can be switched from flags.
type configurableLogger interface {
	SetJSON(enable bool)
	SetVerbose(enable bool)
}

// New creates a new CLI instance with the given app and logger.
func New(a Application, log ports.Logger) *CLI {
	rootCmd := &cobra.Command{
		Use:           "restore",
		Short:         "Restore the package dependencies of a project",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"{{.Name}} version {{.Version}} (commit: %s, date: %s)\n",
		build.Commit,
		build.Date,
	))
	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	rootCmd.PersistentFlags().Bool("json", false, "Write log records as JSON")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Show debug log records")
	rootCmd.PersistentFlags().Bool("trace", false, "Log the duration of every restore phase")

	c := &CLI{
		app:     a,
		logger:  log,
		rootCmd: rootCmd,
	}
	rootCmd.PersistentPreRun = c.configure

	rootCmd.AddCommand(c.newRestoreCmd())
	rootCmd.AddCommand(c.newLockFileCmd())
	rootCmd.AddCommand(c.newCleanCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

// configure applies the logging flags before any command runs.
func (c *CLI) configure(cmd *cobra.Command, _ []string) {
	jsonOut, _ := cmd.Flags().GetBool("json")
	verbose, _ := cmd.Flags().GetBool("verbose")
	trace, _ := cmd.Flags().GetBool("trace")

	if l, ok := c.logger.(configurableLogger); ok {
		l.SetJSON(jsonOut)
		l.SetVerbose(verbose || trace)
	}
	if trace && c.logger != nil {
		c.shutdown = telemetry.Install(c.logger)
	}
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	err := c.rootCmd.Execute()
	if c.shutdown != nil {
		err = errors.Join(err, c.shutdown(ctx))
	}
	return err
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOutput sets the output and error streams for the root command. Used for testing.
func (c *CLI) SetOutput(out, err io.Writer) {
	c.rootCmd.SetOut(out)
	c.rootCmd.SetErr(err)
}
