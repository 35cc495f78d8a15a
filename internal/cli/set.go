package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/recwise/recrules/pkg/manager"
)

func NewSetCmd(ra *RootArgs) *cobra.Command {
	return &cobra.Command{
		Use:   "set <index> <on|off>",
		Short: "Enable or disable recording for a rule",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			record, err := parseOnOff(args[1])
			if err != nil {
				return err
			}

			m, err := ra.NewManager(false)
			if err != nil {
				return err
			}

			ctx := cmd.Context()

			index, err := parseRuleIndex(ctx, m, args[0])
			if err != nil {
				return err
			}

			err = m.SetRuleRecord(ctx, index, record)
			if err != nil {
				return fmt.Errorf("set rule record: %w", err)
			}

			printRules(cmd.OutOrStdout(), ra.GetRulesPath(), m.Rules())

			return nil
		},
	}
}

func parseOnOff(s string) (bool, error) {
	switch s {
	case "on", "true", "1", "yes":
		return true, nil
	case "off", "false", "0", "no":
		return false, nil
	}

	return false, fmt.Errorf("invalid argument %q, want on or off", s)
}

func parseRuleIndex(ctx context.Context, m *manager.Manager, s string) (int, error) {
	index, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid argument %q, want a rule index", s)
	}

	// Indexes refer to the current sorted list, so load it before
	// validating. The manager treats a bad index as a caller bug.
	err = m.Load(ctx)
	if err != nil {
		return 0, fmt.Errorf("load rules: %w", err)
	}

	if n := len(m.Rules()); index < 0 || index >= n {
		return 0, fmt.Errorf("invalid argument %d, rule index must be in [0,%d)", index, n)
	}

	return index, nil
}
