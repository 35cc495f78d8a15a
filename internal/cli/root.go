// Package cli wires the recrules commands.
package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/recwise/recrules/api/v1beta1/contactbooks"
	"github.com/recwise/recrules/api/v1beta1/rulesets"
	"github.com/recwise/recrules/pkg/contact"
	"github.com/recwise/recrules/pkg/log"
	"github.com/recwise/recrules/pkg/manager"
	"github.com/recwise/recrules/pkg/store"
)

const (
	cmdName = "recrules"
	cmdDesc = `Manage call-recording rules.`

	cmdExamples = `  # Show the current rules:
  recrules

  # Show the rules and reprint on changes:
  recrules list --watch

  # Always record calls from a contact:
  recrules add contacts:k1

  # Stop recording the rule at index 0:
  recrules set 0 off

  # Remove the rule at index 0:
  recrules delete 0

  # Should a call from this number be recorded?
  recrules eval +15550100001

  # Restore the default rules:
  recrules reset`
)

type RootArgs struct {
	LogLevel     string
	LogFormat    string
	RulesPath    string
	ContactsPath string
}

func NewRootArgs() *RootArgs {
	return &RootArgs{}
}

func (ra *RootArgs) AddFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().
		StringVar(&ra.LogLevel, "log-level", "info", fmt.Sprintf("Log level, one of: %s", log.AllLevels))
	cmd.PersistentFlags().
		StringVar(&ra.LogFormat, "log-format", "text", fmt.Sprintf("Log format, one of: %s", log.AllFormats))
	cmd.PersistentFlags().
		StringVar(&ra.RulesPath, "rules", "", "Path to the rule set file")
	cmd.PersistentFlags().
		StringVar(&ra.ContactsPath, "contacts", "", "Path to the contact book file")

	var err error

	err = cmd.RegisterFlagCompletionFunc("log-format",
		cobra.FixedCompletions(log.AllFormats, cobra.ShellCompDirectiveNoFileComp),
	)
	if err != nil {
		panic(err)
	}

	err = cmd.RegisterFlagCompletionFunc("log-level",
		cobra.FixedCompletions(log.AllLevels, cobra.ShellCompDirectiveNoFileComp),
	)
	if err != nil {
		panic(err)
	}

	err = cmd.MarkPersistentFlagFilename("rules", "yaml", "yml")
	if err != nil {
		panic(err)
	}

	err = cmd.MarkPersistentFlagFilename("contacts", "yaml", "yml")
	if err != nil {
		panic(err)
	}
}

// GetRulesPath returns the rule set path, falling back to the default
// config location.
func (ra *RootArgs) GetRulesPath() string {
	if ra.RulesPath != "" {
		return ra.RulesPath
	}

	return rulesets.GetPath()
}

// GetContactsPath returns the contact book path, falling back to the
// default config location.
func (ra *RootArgs) GetContactsPath() string {
	if ra.ContactsPath != "" {
		return ra.ContactsPath
	}

	return contactbooks.GetPath()
}

// NewManager builds a [manager.Manager] from the configured paths.
// With watch enabled, the rule set file is monitored for external
// changes (start [manager.Manager.RunOnEvent] to consume them).
func (ra *RootArgs) NewManager(watch bool) (*manager.Manager, error) {
	st := store.NewFile(ra.GetRulesPath())
	dir := contact.NewBook(ra.GetContactsPath())

	var opts []manager.Opt
	if watch {
		opts = append(opts, manager.WithWatchPath(st.Path()))
	}

	m, err := manager.New(st, dir, opts...)
	if err != nil {
		return nil, fmt.Errorf("create rule manager: %w", err)
	}

	return m, nil
}

func NewRootCmd() *cobra.Command {
	args := NewRootArgs()
	listArgs := NewListArgs(args)

	listCmd := NewListCmd(listArgs)
	cmd := &cobra.Command{
		Use:               cmdName,
		Short:             cmdDesc,
		Example:           cmdExamples,
		PersistentPreRunE: setupLogging(args),
		Args:              listCmd.Args,
		RunE:              listCmd.RunE,
	}

	args.AddFlags(cmd)
	listArgs.AddFlags(cmd)
	cmd.AddCommand(
		listCmd,
		NewAddCmd(args),
		NewSetCmd(args),
		NewDeleteCmd(args),
		NewResetCmd(args),
		NewEvalCmd(args),
		NewInitCmd(args),
	)

	bindEnvVars(cmd)

	return cmd
}

func setupLogging(rc *RootArgs) func(cmd *cobra.Command, _ []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		logHandler, err := log.CreateHandlerWithStrings(cmd.ErrOrStderr(), rc.LogLevel, rc.LogFormat)
		if err != nil {
			return fmt.Errorf("create log handler: %w", err)
		}

		slog.SetDefault(slog.New(logHandler))

		return nil
	}
}
