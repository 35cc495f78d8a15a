package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func NewDeleteCmd(ra *RootArgs) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <index>",
		Short: "Remove a rule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := ra.NewManager(false)
			if err != nil {
				return err
			}

			ctx := cmd.Context()

			index, err := parseRuleIndex(ctx, m, args[0])
			if err != nil {
				return err
			}

			err = m.DeleteRule(ctx, index)
			if err != nil {
				return fmt.Errorf("delete rule: %w", err)
			}

			printRules(cmd.OutOrStdout(), ra.GetRulesPath(), m.Rules())

			return nil
		},
	}
}
