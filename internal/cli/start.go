package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/umbrella/internal/project"
	"github.com/roach88/umbrella/internal/settings"
	"github.com/roach88/umbrella/internal/workflow"
)

// StartOptions holds flags for the start command.
type StartOptions struct {
	Name        string
	Description string
	Tech        []string
	Tools       []string
	ConfigFile  string
	NoGit       bool
}

// NewStartCommand creates the start command.
func NewStartCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &StartOptions{}

	cmd := &cobra.Command{
		Use:   "start",
		Short: "Scaffold a new AI-SDLC project",
		Long: `Scaffold a new AI-SDLC project in the project directory.

Creates the seven phase folders, writes SESSION-STATUS.md, initializes a git
repository with an initial commit and copies the AI rule files into
.amazonq/rules. Git and rule problems are reported but do not fail the command.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStart(rootOpts, opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Name, "name", "", "project name (default: directory name)")
	cmd.Flags().StringVar(&opts.Description, "description", "", "project description")
	cmd.Flags().StringSliceVar(&opts.Tech, "tech", nil, "technology stack entry (repeatable or comma-separated)")
	cmd.Flags().StringArrayVar(&opts.Tools, "tool", nil, "AI tool as role=name (repeatable)")
	cmd.Flags().StringVar(&opts.ConfigFile, "config", "", "project config YAML file")
	cmd.Flags().BoolVar(&opts.NoGit, "no-git", false, "skip git initialization")
	cmd.Flags().String("rules-dir", "", "read rule files from this directory instead of the built-in set")
	_ = rootOpts.viper().BindPFlag(settings.KeyRulesDir, cmd.Flags().Lookup("rules-dir"))

	return cmd
}

func runStart(rootOpts *RootOptions, opts *StartOptions, cmd *cobra.Command) error {
	formatter := rootOpts.formatter(cmd)

	m, err := rootOpts.manager(cmd, !opts.NoGit)
	if err != nil {
		return err
	}

	cfg, err := opts.projectConfig(m.Root())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			_ = formatter.Error(ErrCodeNotFound, fmt.Sprintf("config file not found: %s", opts.ConfigFile), nil)
			return reported(WrapExitError(ExitCommandError, ErrCodeNotFound, err))
		}
		return outputError(formatter, err)
	}
	formatter.VerboseLog("Starting project %s in %s", cfg.Name, m.Root())

	result, err := m.Start(cmd.Context(), cfg)
	if err != nil {
		return outputError(formatter, err)
	}
	return outputStartSuccess(formatter, result)
}

// projectConfig merges the config file and flags. Flags win; the directory
// name is the fallback project name.
func (o *StartOptions) projectConfig(root string) (project.Config, error) {
	var cfg project.Config
	if o.ConfigFile != "" {
		loaded, err := project.LoadFile(o.ConfigFile)
		if err != nil {
			return project.Config{}, err
		}
		cfg = loaded
	}

	if o.Name != "" {
		cfg.Name = o.Name
	}
	if cfg.Name == "" {
		cfg.Name = project.NameFromDir(root)
	}
	if o.Description != "" {
		cfg.Description = o.Description
	}
	if len(o.Tech) > 0 {
		cfg.TechStack = o.Tech
	}
	if len(o.Tools) > 0 && cfg.AITools == nil {
		cfg.AITools = make(map[string]string, len(o.Tools))
	}
	for _, t := range o.Tools {
		role, name, err := project.ParseTool(t)
		if err != nil {
			return project.Config{}, &project.ValidationError{Problems: []string{err.Error()}}
		}
		cfg.AITools[role] = name
	}

	cfg.Normalize()
	return cfg, nil
}

func outputStartSuccess(formatter *OutputFormatter, result workflow.StartResult) error {
	if formatter.JSON() {
		return formatter.Success(result)
	}

	formatter.Printf("🚀 AI-SDLC Project Started!")
	formatter.Printf("📁 Project: %s", result.Project)
	formatter.Printf("📋 Current Phase: %s", result.Phase)
	formatter.Printf("🗂️  Work in: %s", result.PhaseFolder)
	formatter.Printf("🔧 Git Status: %s", result.GitStatus)
	formatter.Printf("🤖 AI Rules: %s", result.RulesStatus)

	if result.GitOutcome == workflow.GitMissing {
		formatter.Printf("\n⚠️  Git Installation Required:")
		formatter.Printf("1. Install Git: https://git-scm.com/downloads")
		formatter.Printf("2. Configure Git:")
		formatter.Printf(`   git config --global user.name "Your Name"`)
		formatter.Printf(`   git config --global user.email "your.email@example.com"`)
		formatter.Printf("3. Re-run `umbrella start` to initialize the Git repository")
	}

	if result.RulesCopied > 0 {
		formatter.Printf("\n✅ Amazon Q Integration Ready!")
		formatter.Printf("   - AI rules loaded into .amazonq/rules/ folder")
		formatter.Printf("   - Amazon Q can now access phase-specific guidance")
		formatter.Printf("   - Use @rules in Amazon Q to reference the loaded rules")
	}

	formatter.Printf("\n📝 Next Actions:")
	for _, action := range result.Actions {
		formatter.Printf("   - %s", action)
	}
	return nil
}
