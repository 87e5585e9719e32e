package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/umbrella/internal/settings"
	"github.com/roach88/umbrella/internal/workflow"
)

// NewPauseCommand creates the pause command.
func NewPauseCommand(rootOpts *RootOptions) *cobra.Command {
	var message string

	cmd := &cobra.Command{
		Use:   "pause",
		Short: "Commit work and record a pause in SESSION-STATUS.md",
		Long: `Commit all changes, push when a remote is configured, and append a
"Session Paused" section to SESSION-STATUS.md.

The default commit message is "Pause work: <phase> - <timestamp>". A push
failure is reported as a warning; the commit stays local.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPause(rootOpts, message, cmd)
		},
	}

	cmd.Flags().StringVarP(&message, "message", "m", "", "commit message")
	cmd.Flags().Bool("push", true, "push to the remote after committing")
	_ = rootOpts.viper().BindPFlag(settings.KeyPush, cmd.Flags().Lookup("push"))

	return cmd
}

func runPause(rootOpts *RootOptions, message string, cmd *cobra.Command) error {
	formatter := rootOpts.formatter(cmd)
	formatter.Printf("⏸️  Pausing AI-SDLC Project...")

	m, err := rootOpts.manager(cmd, true)
	if err != nil {
		return err
	}
	result, err := m.Pause(cmd.Context(), message)
	if err != nil {
		werr := outputError(formatter, err)
		formatter.Printf("\n❌ Failed to pause project")
		return werr
	}

	if formatter.JSON() {
		return formatter.Success(result)
	}

	if result.UpToDate {
		formatter.Printf("✅ No changes to commit. Project already up to date.")
		return nil
	}

	formatter.Printf("📋 Changes to be committed:")
	formatter.Printf("%s", result.StatusShort)
	formatter.Printf("✅ Changes committed locally: %s", result.CommitMessage)

	switch result.Push {
	case workflow.PushDone:
		formatter.Printf("🚀 Changes pushed to remote repository")
	case workflow.PushNoRemote:
		formatter.Printf("📡 No remote repository configured")
		formatter.Printf("   To add remote: git remote add origin <repository-url>")
		formatter.Printf("   Then push: git push -u origin main")
	case workflow.PushFailed:
		formatter.Printf("⚠️  Could not push to remote (network issue or not configured)")
		formatter.Printf("   Changes are saved locally. Push manually when ready:")
		formatter.Printf("   git push")
	}

	formatter.Printf("\n⏸️  Project paused successfully at %s", result.PausedAt)
	formatter.Printf("📝 SESSION-STATUS.md updated with pause information")
	formatter.Printf("\n✅ Project paused successfully!")
	formatter.Printf("💡 To resume: umbrella resume")
	return nil
}
