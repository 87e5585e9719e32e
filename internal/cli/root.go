package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/roach88/umbrella/internal/exec"
	"github.com/roach88/umbrella/internal/git"
	"github.com/roach88/umbrella/internal/logging"
	"github.com/roach88/umbrella/internal/rules"
	"github.com/roach88/umbrella/internal/settings"
	"github.com/roach88/umbrella/internal/workflow"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose  bool
	Format   string // "json" | "text"
	Dir      string // project root
	Settings string // settings file; empty means the XDG default if present

	// Runner executes git. Nil means real processes.
	Runner exec.CommandRunner
	// Now overrides the clock used for status dates and commit messages.
	Now func() time.Time

	v      *viper.Viper
	cfg    *settings.Settings
	logger *zap.Logger
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the umbrella CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "umbrella",
		Short: "umbrella - AI-SDLC project scaffolding",
		Long: `Scaffold and track a documentation-driven, seven-phase AI-SDLC project.

umbrella creates the phase folder tree, keeps SESSION-STATUS.md current,
initializes git and installs the AI rule files for each phase.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Validate format flag
			if !isValidFormat(opts.Format) {
				return NewExitError(ExitCommandError,
					fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			return opts.setup(cmd.ErrOrStderr())
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVarP(&opts.Dir, "dir", "C", ".", "project root directory")
	cmd.PersistentFlags().StringVar(&opts.Settings, "settings", "", "settings file (default $XDG_CONFIG_HOME/umbrella/settings.yaml)")

	// Add subcommands
	cmd.AddCommand(NewStartCommand(opts))
	cmd.AddCommand(NewAdvanceCommand(opts))
	cmd.AddCommand(NewResumeCommand(opts))
	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewPauseCommand(opts))
	cmd.AddCommand(NewPhasesCommand(opts))
	cmd.AddCommand(NewHistoryCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

// viper returns the settings instance, creating it on first use so that
// subcommands can bind their flags at construction time.
func (o *RootOptions) viper() *viper.Viper {
	if o.v == nil {
		o.v = settings.New()
	}
	return o.v
}

// setup loads settings and builds the logger once per process.
func (o *RootOptions) setup(stderr io.Writer) error {
	if o.cfg != nil {
		return nil
	}

	v := o.viper()
	path, optional := o.Settings, false
	if path == "" {
		path, optional = settings.DefaultFile(), true
	}
	if err := settings.ReadFile(v, path, optional); err != nil {
		return WrapExitError(ExitCommandError, ErrCodeNotFound, err)
	}
	s, err := settings.From(v)
	if err != nil {
		return WrapExitError(ExitCommandError, ErrCodeGeneric, err)
	}

	logger, err := logging.New(stderr, s.LogLevel, o.Verbose)
	if err != nil {
		return WrapExitError(ExitCommandError, ErrCodeInvalidArg, err)
	}

	o.cfg = &s
	o.logger = logger
	o.logger.Debug("settings loaded",
		zap.String("file", v.ConfigFileUsed()),
		zap.String("git_binary", s.GitBinary),
		zap.String("rules_target", s.RulesTarget),
		zap.Bool("push", s.Push),
	)
	return nil
}

// manager builds a workflow manager for the project root. withGit=false
// leaves git out entirely.
func (o *RootOptions) manager(cmd *cobra.Command, withGit bool) (*workflow.Manager, error) {
	if err := o.setup(cmd.ErrOrStderr()); err != nil {
		return nil, err
	}
	s := o.cfg

	opts := workflow.Options{
		RulesTarget: s.RulesTarget,
		Push:        s.Push,
		Now:         o.Now,
		Logger:      o.logger,
	}
	if s.RulesDir != "" {
		opts.Rules = rules.Source(s.RulesDir)
	}
	if withGit {
		runner := o.Runner
		if runner == nil {
			runner = exec.NewRealRunner()
		}
		opts.Git = git.New(runner, s.GitBinary)
	}

	dir := o.Dir
	if dir == "" {
		dir = "."
	}
	return workflow.New(dir, opts), nil
}

// formatter builds the output formatter for cmd.
func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   o.Verbose,
	}
}

// Execute runs the CLI with args and returns the process exit code.
// Errors not already written by a command go to stderr.
func Execute(args []string, stdout, stderr io.Writer) int {
	cmd := NewRootCommand()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.Execute()
	if err != nil && !Reported(err) {
		fmt.Fprintf(stderr, "Error: %v\n", err)
	}
	return GetExitCode(err)
}
