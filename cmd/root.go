/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/fulmenhq/repokit/pkg/buildinfo"
	"github.com/fulmenhq/repokit/pkg/config"
	"github.com/fulmenhq/repokit/pkg/exitcode"
	"github.com/fulmenhq/repokit/pkg/logger"
	"github.com/spf13/cobra"
)

// newRootCommand creates a fresh root command instance.
// This factory pattern allows tests to create isolated command trees without shared state.
func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "repokit",
		Short: "Maintenance tools for repositories generated from a template",
		Long: `Repokit fills in the placeholders a repository template ships with.

Examples:
   repokit index --repo acme/widget   # Render index.html from GitHub metadata and README.md
   repokit links                      # Replace the placeholder repo and DATE in README.md
   repokit email                      # Set the contact email in .github/SECURITY.md
   repokit license                    # Bring copyright years in the license up to date`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := initializeLogger(cmd); err != nil {
				return err
			}
			envFile, _ := cmd.Flags().GetString("env-file")
			return config.LoadEnvFile(envFile)
		},
	}

	cmd.PersistentFlags().String("log-level", "info", "Set log level (trace|debug|info|warn|error)")
	cmd.PersistentFlags().Bool("json", false, "Output logs in JSON format")
	cmd.PersistentFlags().Bool("no-color", false, "Disable colored output")
	cmd.PersistentFlags().Bool("no-op", false, "Report what would change without writing files")
	cmd.PersistentFlags().String("config", config.DefaultConfigPath, "Repository-relative path of the repo config file")
	cmd.PersistentFlags().String("dir", "", "Repository root (default: current directory)")
	cmd.PersistentFlags().String("env-file", "", "Load environment variables from a dotenv file first")

	cmd.Version = buildinfo.Version()
	cmd.SetVersionTemplate("repokit {{.Version}}\n")

	return cmd
}

// registerSubcommands adds all subcommands to the root command.
func registerSubcommands(cmd *cobra.Command) {
	cmd.AddCommand(newIndexCommand())
	cmd.AddCommand(newLinksCommand())
	cmd.AddCommand(newEmailCommand())
	cmd.AddCommand(newLicenseCommand())
	cmd.AddCommand(newVersionCommand())
}

// Execute runs repokit with the process arguments and exits.
// This is called by main.main().
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes one command tree and returns the exit code. A failure is
// reported as a single marker line on stderr.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	root := newRootCommand()
	registerSubcommands(root)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintf(stderr, "❌ %s\n", err)
	}
	return exitcode.ForError(err)
}

// initializeLogger sets up the logger based on command flags
func initializeLogger(cmd *cobra.Command) error {
	logLevelStr, _ := cmd.Flags().GetString("log-level")
	jsonLogs, _ := cmd.Flags().GetBool("json")
	noColor, _ := cmd.Flags().GetBool("no-color")
	noOp, _ := cmd.Flags().GetBool("no-op")

	cfg := logger.Config{
		Level:     logger.ParseLevel(logLevelStr),
		UseColor:  !noColor,
		JSON:      jsonLogs,
		Component: "repokit",
		NoOp:      noOp,
		Output:    cmd.ErrOrStderr(),
	}
	if err := logger.Initialize(cfg); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	return nil
}
