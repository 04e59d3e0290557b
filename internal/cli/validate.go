package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/milp/model"
)

// newValidateCmd creates the validate command
func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate FILE",
		Short: "Check a YAML model and print its normalised form",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := model.LoadFile(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "# %s: %d variables (%d integer), %d constraints\n",
				m.Name(), m.NumVars(), len(m.NonContinuous()), m.NumConstraints())

			return m.Encode(out)
		},
	}
}
