package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/recwise/recrules/pkg/manager"
)

func NewAddCmd(ra *RootArgs) *cobra.Command {
	return &cobra.Command{
		Use:   "add <contact-uri>",
		Short: "Add an always-record rule for a contact",
		Long: `Add an always-record rule for a contact.

The contact is resolved from the contact book by URI; entries without
an explicit uri can be addressed as "contacts:<lookup-key>".`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := ra.NewManager(false)
			if err != nil {
				return err
			}

			uri := args[0]

			err = m.AddContactRule(cmd.Context(), uri)
			if err != nil {
				return fmt.Errorf("add contact rule: %w", err)
			}

			out := cmd.OutOrStdout()
			notified := false

			for {
				msg, ok := m.AcknowledgeFirstMessage()
				if !ok {
					break
				}

				notified = true

				switch msg.Kind {
				case manager.MessageRuleAdded:
					mustN(fmt.Fprintf(out, "Added rule for %s\n", nameOrFallback(msg.DisplayName)))
				case manager.MessageRuleExists:
					mustN(fmt.Fprintf(out, "A rule for %s already exists\n", nameOrFallback(msg.DisplayName)))
				}
			}

			if !notified {
				mustN(fmt.Fprintf(out, "No contact found for %q, nothing added\n", uri))
			}

			return nil
		},
	}
}

func nameOrFallback(displayName string) string {
	if displayName == "" {
		return "this contact"
	}

	return displayName
}
