package cli

import (
	"strings"

	"github.com/spf13/cobra"
)

// NewResumeCommand creates the resume command.
func NewResumeCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "resume",
		Short: "Show the project status and where to pick up",
		Long: `Print SESSION-STATUS.md and point at the rules file for the current phase.

When the status file has no recognizable phase line the Planning rules are
suggested.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResume(rootOpts, cmd)
		},
	}
}

func runResume(rootOpts *RootOptions, cmd *cobra.Command) error {
	formatter := rootOpts.formatter(cmd)

	m, err := rootOpts.manager(cmd, false)
	if err != nil {
		return err
	}
	result, err := m.Resume()
	if err != nil {
		return outputError(formatter, err)
	}

	if formatter.JSON() {
		return formatter.Success(result)
	}

	rule := strings.Repeat("=", 50)
	formatter.Printf("📋 Current Project Status:")
	formatter.Printf("%s", rule)
	formatter.Printf("%s", result.Content)
	formatter.Printf("%s", rule)

	formatter.Printf("\n🤖 AI rules already loaded in %s", result.RulesFile)
	formatter.Printf("📁 Work in the current phase folder shown above")
	formatter.Printf("📝 Update SESSION-STATUS.md when you complete tasks")
	formatter.Printf("🔍 Validate progress: umbrella validate")

	formatter.Printf("\n💡 To update status manually, edit: %s", result.StatusFile)
	return nil
}
