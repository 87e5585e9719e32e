package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/umbrella/internal/phase"
	"github.com/roach88/umbrella/internal/workflow"
)

// NewAdvanceCommand creates the advance command.
func NewAdvanceCommand(rootOpts *RootOptions) *cobra.Command {
	var artifacts []string

	cmd := &cobra.Command{
		Use:   "advance",
		Short: "Move the project to the next phase",
		Long: `Move the project to the next phase and rewrite SESSION-STATUS.md.

Artifacts given with --artifact name=value are recorded in the session
journal against the phase being left. Advancing from Maintenance keeps the
project in Maintenance.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdvance(rootOpts, artifacts, cmd)
		},
	}

	cmd.Flags().StringArrayVar(&artifacts, "artifact", nil, "artifact produced by the current phase as name=value (repeatable)")

	return cmd
}

func runAdvance(rootOpts *RootOptions, artifactFlags []string, cmd *cobra.Command) error {
	formatter := rootOpts.formatter(cmd)

	artifacts := make(map[string]string, len(artifactFlags))
	for _, a := range artifactFlags {
		name, value, err := workflow.ParseArtifact(a)
		if err != nil {
			return outputUsageError(formatter, err.Error())
		}
		artifacts[name] = value
	}

	m, err := rootOpts.manager(cmd, false)
	if err != nil {
		return err
	}
	result, err := m.Advance(cmd.Context(), artifacts)
	if err != nil {
		return outputError(formatter, err)
	}

	if formatter.JSON() {
		return formatter.Success(result)
	}

	next, _ := phaseByKey(result.Phase)
	if result.AtFinalPhase {
		formatter.Printf("🏁 Already in the final phase: %s", next.Label())
	} else {
		formatter.Printf("🚀 Advanced to Phase %s", next.Label())
	}
	formatter.Printf("🗂️  Work in: %s", result.PhaseFolder)
	if result.ArtifactsStored > 0 {
		formatter.Printf("📦 Artifacts recorded: %d", result.ArtifactsStored)
	}
	formatter.Printf("\n📝 Next Actions:")
	for _, action := range result.Actions {
		formatter.Printf("   - %s", action)
	}
	return nil
}

func phaseByKey(key string) (phase.Phase, bool) {
	for _, p := range phase.All() {
		if p.Key == key {
			return p, true
		}
	}
	return phase.Phase{}, false
}
