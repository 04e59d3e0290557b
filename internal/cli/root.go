// Package cli implements the milp command line tool.
package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

// ErrNotSolved is returned by solve when the search ends without an optimal
// incumbent, so that the process exits non-zero.
var ErrNotSolved = errors.New("model not solved to optimality")

// NewRootCmd creates the root cobra command.
func NewRootCmd(version, commit, date string) *cobra.Command {
	var logLevel string

	rootCmd := &cobra.Command{
		Use:   "milp",
		Short: "Solve mixed-integer linear programs by branch-and-bound",
		Long: `milp solves small mixed-integer linear programs described in YAML.

Each node of the search tree solves an LP relaxation with a dense simplex
method; integrality is enforced by branching on the first fractional variable.`,
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	rootCmd.AddCommand(
		newSolveCmd(&logLevel),
		newValidateCmd(),
		newVersionCmd(version, commit, date),
	)

	return rootCmd
}

func newVersionCmd(version, commit, date string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "milp %s (commit %s, built %s)\n", version, commit, date)
		},
	}
}
