package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func NewResetCmd(ra *RootArgs) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Restore the default rules",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, err := ra.NewManager(false)
			if err != nil {
				return err
			}

			err = m.Reset(cmd.Context())
			if err != nil {
				return fmt.Errorf("reset rules: %w", err)
			}

			printRules(cmd.OutOrStdout(), ra.GetRulesPath(), m.Rules())

			return nil
		},
	}
}
