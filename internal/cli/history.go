package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/umbrella/internal/status"
	"github.com/roach88/umbrella/internal/store"
)

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	var kind string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show the session journal",
		Long: `Show the lifecycle events recorded in .umbrella/history.db in the order they
happened: start, advance, validate and pause.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(rootOpts, kind, cmd)
		},
	}

	cmd.Flags().StringVar(&kind, "kind", "", "only show events of this kind (start|advance|validate|pause)")

	return cmd
}

func runHistory(rootOpts *RootOptions, kind string, cmd *cobra.Command) error {
	formatter := rootOpts.formatter(cmd)

	switch store.Kind(kind) {
	case "", store.KindStart, store.KindAdvance, store.KindValidate, store.KindPause:
	default:
		return outputUsageError(formatter, fmt.Sprintf("unknown event kind %q", kind))
	}

	m, err := rootOpts.manager(cmd, false)
	if err != nil {
		return err
	}
	events, err := m.History(cmd.Context(), store.Kind(kind))
	if err != nil {
		return outputError(formatter, err)
	}

	if formatter.JSON() {
		if events == nil {
			events = []store.Event{}
		}
		return formatter.Success(events)
	}

	if len(events) == 0 {
		formatter.Printf("📭 No recorded events")
		return nil
	}
	for _, ev := range events {
		formatter.Printf("%4d  %s  %-8s  phase %d%s",
			ev.Seq, ev.RecordedAt.Format(status.TimestampLayout), ev.Kind, ev.Phase, formatDetail(ev))
	}
	return nil
}

func formatDetail(ev store.Event) string {
	var parts []string
	for k, v := range ev.Detail {
		parts = append(parts, fmt.Sprintf("%s=%v", k, v))
	}
	for k, v := range ev.Artifacts {
		parts = append(parts, fmt.Sprintf("artifact:%s=%s", k, v))
	}
	if len(parts) == 0 {
		return ""
	}
	sort.Strings(parts)
	return "  " + strings.Join(parts, " ")
}
