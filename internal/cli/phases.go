package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/umbrella/internal/phase"
	"github.com/roach88/umbrella/internal/status"
)

// PhaseInfo is one row of the phases listing.
type PhaseInfo struct {
	Number    int      `json:"number"`
	Key       string   `json:"key"`
	Name      string   `json:"name"`
	Folder    string   `json:"folder"`
	RulesFile string   `json:"rules_file"`
	Iterative bool     `json:"iterative"`
	Actions   []string `json:"actions"`
	Current   bool     `json:"current"`
}

// NewPhasesCommand creates the phases command.
func NewPhasesCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "phases",
		Short:         "List the seven SDLC phases",
		Long:          "List the SDLC phases in order, marking the project's current phase when a status file exists.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPhases(rootOpts, cmd)
		},
	}
}

func runPhases(rootOpts *RootOptions, cmd *cobra.Command) error {
	formatter := rootOpts.formatter(cmd)

	m, err := rootOpts.manager(cmd, false)
	if err != nil {
		return err
	}

	current := -1
	if content, err := status.Read(m.Root()); err == nil {
		if p, ok := status.ParsePhase(content); ok {
			current = p.Index
		}
	}

	all := phase.All()
	infos := make([]PhaseInfo, 0, len(all))
	for _, p := range all {
		infos = append(infos, PhaseInfo{
			Number:    p.Number(),
			Key:       p.Key,
			Name:      p.Name(),
			Folder:    p.Folder,
			RulesFile: p.RulesFile,
			Iterative: p.Iterative,
			Actions:   p.Actions,
			Current:   p.Index == current,
		})
	}

	if formatter.JSON() {
		return formatter.Success(infos)
	}

	for _, info := range infos {
		marker := "  "
		if info.Current {
			marker = "▶ "
		}
		kind := ""
		if info.Iterative {
			kind = " (Iterative)"
		}
		formatter.Printf("%s%d. %s%s  [%s]", marker, info.Number, info.Name, kind, info.Folder)
		formatter.Printf("     %s", strings.Join(info.Actions, "; "))
	}
	return nil
}
