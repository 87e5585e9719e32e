package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/umbrella/internal/phase"
	"github.com/roach88/umbrella/internal/workflow"
)

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	var phaseNumber int

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check the current phase's deliverables",
		Long: `Check whether the current phase is complete.

Linear phases (Planning, Requirements, Design, Maintenance) list missing
deliverable files. Iterative phases (Development, Testing, Deployment) report
per-component progress. Exits 1 when the phase is not complete.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, phaseNumber, cmd)
		},
	}

	cmd.Flags().IntVar(&phaseNumber, "phase", 0, "phase number to validate (default: current phase)")

	return cmd
}

func runValidate(rootOpts *RootOptions, phaseNumber int, cmd *cobra.Command) error {
	formatter := rootOpts.formatter(cmd)

	if phaseNumber < 0 || phaseNumber > phase.Count {
		return outputUsageError(formatter, fmt.Sprintf("--phase must be between 1 and %d", phase.Count))
	}

	m, err := rootOpts.manager(cmd, false)
	if err != nil {
		return err
	}
	report, err := m.Validate(cmd.Context(), phaseNumber)
	if err != nil {
		return outputError(formatter, err)
	}

	if formatter.JSON() {
		if err := formatter.Success(report); err != nil {
			return err
		}
	} else if report.Phase.Iterative {
		outputComponentReport(formatter, report)
	} else {
		outputDeliverableReport(formatter, report)
	}

	if !report.Passed {
		return reported(NewExitError(ExitFailure, fmt.Sprintf("%s: phase %d incomplete", ErrCodeIncomplete, report.Phase.Number())))
	}
	return nil
}

func outputDeliverableReport(formatter *OutputFormatter, report workflow.ValidationReport) {
	n := report.Phase.Number()
	formatter.Printf("🔍 Validating Phase %d completion...", n)

	if !report.Passed {
		formatter.Printf("❌ Phase %d incomplete. Missing:", n)
		for _, item := range report.Missing {
			formatter.Printf("   - %s", item)
		}
		if !report.Phase.IsLast() {
			formatter.Printf("\n💡 Complete these items before advancing to Phase %d", n+1)
		}
		return
	}

	formatter.Printf("✅ Phase %d validation passed!", n)
	if !report.Phase.IsLast() {
		formatter.Printf("🚀 Ready to advance to Phase %d", n+1)
	}
}

func outputComponentReport(formatter *OutputFormatter, report workflow.ValidationReport) {
	c := report.Components
	formatter.Printf("🔍 Validating Phase %d completion...", report.Phase.Number())

	switch report.Phase.Number() {
	case 4:
		formatter.Printf("🔄 Phase 4: Development (Iterative)")
		formatter.Printf("📦 Components ready for testing: %d", len(c.Ready))
		formatter.Printf("🚧 Components in development: %d", len(c.Pending))
		if len(c.Ready) > 0 {
			formatter.Printf("✅ Ready components: %s", strings.Join(c.Ready, ", "))
			formatter.Printf("🚀 Move these to Phase 5 (Testing)")
		}
	case 5:
		formatter.Printf("🧪 Phase 5: Testing (Iterative)")
		formatter.Printf("✅ Components ready for deployment: %d", len(c.Ready))
		formatter.Printf("🔬 Components in testing: %d", len(c.Pending))
		if len(c.Ready) > 0 {
			formatter.Printf("🚀 Ready for deployment: %s", strings.Join(c.Ready, ", "))
		}
	case 6:
		formatter.Printf("🚀 Phase 6: Deployment (Iterative)")
		formatter.Printf("✅ Deployed components: %d", len(c.Ready))
		formatter.Printf("📊 Total components: %d", c.Total)
		if len(c.Ready) > 0 {
			formatter.Printf("🎉 Live components: %s", strings.Join(c.Ready, ", "))
		}
	}

	if !report.Passed {
		formatter.Printf("\n💡 No components are ready yet in %s", report.Phase.Folder)
	}
}
