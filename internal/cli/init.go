package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/recwise/recrules/api/v1beta1/contactbooks"
	"github.com/recwise/recrules/api/v1beta1/rulesets"
)

func NewInitCmd(ra *RootArgs) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default rule set and contact book files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			err := rulesets.WriteDefault(ra.GetRulesPath(), force)
			if err != nil {
				return fmt.Errorf("init rule set: %w", err)
			}

			err = contactbooks.WriteDefault(ra.GetContactsPath(), force)
			if err != nil {
				return fmt.Errorf("init contact book: %w", err)
			}

			out := cmd.OutOrStdout()
			mustN(fmt.Fprintln(out, ra.GetRulesPath()))
			mustN(fmt.Fprintln(out, ra.GetContactsPath()))

			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Back up and replace existing files")

	return cmd
}
