package cli

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/recwise/recrules/pkg/manager"
	"github.com/recwise/recrules/pkg/rule"
)

var faintStyle = lipgloss.NewStyle().Faint(true)

type ListArgs struct {
	*RootArgs

	Watch bool
}

func NewListArgs(rootArgs *RootArgs) *ListArgs {
	return &ListArgs{RootArgs: rootArgs}
}

func (la *ListArgs) AddFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVarP(&la.Watch, "watch", "w", false, "Watch the rule set file and reprint on changes")
}

func NewListCmd(la *ListArgs) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print the current rules in evaluation order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, err := la.NewManager(la.Watch)
			if err != nil {
				return err
			}
			defer m.Close()

			ctx := cmd.Context()

			err = m.Load(ctx)
			if err != nil {
				return fmt.Errorf("load rules: %w", err)
			}

			printRules(cmd.OutOrStdout(), la.GetRulesPath(), m.Rules())

			if !la.Watch {
				return nil
			}

			events := make(chan manager.Event, 64)
			m.Subscribe(events)

			go m.RunOnEvent()

			for {
				select {
				case <-ctx.Done():
					return nil

				case evt := <-events:
					if er, ok := evt.(manager.EventRules); ok {
						printRules(cmd.OutOrStdout(), la.GetRulesPath(), er.Rules)
					}
				}
			}
		},
	}

	la.AddFlags(cmd)

	return cmd
}

func printRules(w io.Writer, path string, rules []rule.DisplayRule) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	mustN(fmt.Fprintln(tw, "#\tRULE\tRECORD"))

	for i, d := range rules {
		mustN(fmt.Fprintf(tw, "%d\t%s\t%s\n", i, describeRule(d), onOff(d.Record)))
	}

	must(tw.Flush())

	fi, err := os.Stat(path)
	if err != nil {
		return
	}

	line := fmt.Sprintf("updated %s", humanize.Time(fi.ModTime()))
	if term.IsTerminal(int(os.Stdout.Fd())) {
		line = faintStyle.Render(line)
	}

	mustN(fmt.Fprintln(w, line))
}

func describeRule(d rule.DisplayRule) string {
	switch d.Kind {
	case rule.KindContact:
		if d.HasDisplayName() {
			return d.Name()
		}

		return fmt.Sprintf("contact %s", d.LookupKey)
	case rule.KindUnknownCalls:
		return "Unknown callers"
	case rule.KindAllCalls:
		return "All calls"
	}

	return string(d.Kind)
}

func onOff(record bool) string {
	if record {
		return "on"
	}

	return "off"
}
