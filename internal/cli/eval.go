package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func NewEvalCmd(ra *RootArgs) *cobra.Command {
	return &cobra.Command{
		Use:   "eval <number>",
		Short: "Decide whether a call from a number would be recorded",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := ra.NewManager(false)
			if err != nil {
				return err
			}

			record, err := m.Evaluate(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("evaluate %q: %w", args[0], err)
			}

			if record {
				mustN(fmt.Fprintln(cmd.OutOrStdout(), "record"))
			} else {
				mustN(fmt.Fprintln(cmd.OutOrStdout(), "skip"))
			}

			return nil
		},
	}
}
