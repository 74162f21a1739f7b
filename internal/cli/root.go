// Package cli implements the pomo command-line interface using Cobra.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"pomo/internal/platform"
	"pomo/internal/session"
	"pomo/internal/ui/terminal"
)

const appName = "pomo"

// exitInterrupted is the conventional status for a process stopped by SIGINT.
const exitInterrupted = 130

type rootOptions struct {
	verbose bool
}

func newRootCmd(version string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "pomo",
		Short: "A work/break timer for the terminal",
		Long: `pomo cycles you through work intervals and breaks, showing a live
countdown and asking before each break and each new cycle.

Running pomo with no subcommand is the same as 'pomo run'.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	opts := &rootOptions{}
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log at debug level")

	run := newRunCmd(opts)
	rootCmd.Flags().AddFlagSet(run.Flags())
	rootCmd.RunE = run.RunE

	rootCmd.AddCommand(run)
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newHistoryCmd())
	return rootCmd
}

// Execute runs the root command. Called from main.go.
func Execute(version string) {
	if err := newRootCmd(version).Execute(); err != nil {
		if isInterrupt(err) {
			fmt.Fprintln(os.Stderr, "\nStopped.")
			os.Exit(exitInterrupted)
		}
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func isInterrupt(err error) bool {
	return errors.Is(err, session.ErrInterrupted) ||
		errors.Is(err, terminal.ErrInterrupted) ||
		errors.Is(err, context.Canceled)
}

func resolvePaths() (platform.Paths, error) {
	paths, err := platform.ResolvePaths(appName)
	if err != nil {
		return paths, fmt.Errorf("resolve pomo paths: %w", err)
	}
	return paths, nil
}
