package cli

import (
	"errors"
	"fmt"

	"github.com/roach88/umbrella/internal/git"
	"github.com/roach88/umbrella/internal/phase"
	"github.com/roach88/umbrella/internal/project"
	"github.com/roach88/umbrella/internal/workflow"
)

// Error codes for CLI output.
const (
	ErrCodeGeneric       = "E001" // Generic/unknown error
	ErrCodeInvalidConfig = "E002" // Project configuration rejected by the schema
	ErrCodeNoStatus      = "E003" // SESSION-STATUS.md missing
	ErrCodeNoRepo        = "E004" // No .git directory
	ErrCodeNotFound      = "E005" // Path not found
	ErrCodeNoPhase       = "E006" // Current phase could not be determined
	ErrCodeInvalidArg    = "E007" // Bad flag or argument value
	ErrCodeGit           = "E008" // Git missing or a git command failed
	ErrCodeIncomplete    = "E009" // Phase validation failed
)

// Text shown for the common precondition failures.
const (
	msgNoStatus = "No SESSION-STATUS.md found. Run `umbrella start` first to setup project."
	msgNoRepo   = "No Git repository found. Run `umbrella start` first."
	msgNoPhase  = "Could not determine current phase"
)

// classify maps a workflow error to an error code, message, details and
// exit code.
func classify(err error) (code, message string, details interface{}, exit int) {
	var (
		validErr *project.ValidationError
		cmdErr   *git.CommandError
	)
	switch {
	case errors.Is(err, workflow.ErrNoStatus):
		return ErrCodeNoStatus, msgNoStatus, nil, ExitCommandError
	case errors.Is(err, workflow.ErrNoRepo):
		return ErrCodeNoRepo, msgNoRepo, nil, ExitCommandError
	case errors.Is(err, workflow.ErrPhaseUndetermined):
		return ErrCodeNoPhase, msgNoPhase, nil, ExitCommandError
	case errors.Is(err, phase.ErrUnknownPhase):
		return ErrCodeInvalidArg, err.Error(), nil, ExitCommandError
	case errors.As(err, &validErr):
		return ErrCodeInvalidConfig, "invalid project configuration", validErr.Problems, ExitCommandError
	case errors.Is(err, git.ErrGitNotFound):
		return ErrCodeGit, "Git not found. Please install Git first. Install from: https://git-scm.com/downloads", nil, ExitFailure
	case errors.As(err, &cmdErr):
		return ErrCodeGit, fmt.Sprintf("Git operation failed: %v", err), cmdErr.Stderr, ExitFailure
	default:
		return ErrCodeGeneric, err.Error(), nil, ExitCommandError
	}
}

// outputError writes err through the formatter and returns the matching
// ExitError.
func outputError(formatter *OutputFormatter, err error) error {
	code, message, details, exit := classify(err)
	_ = formatter.Error(code, message, details)
	return reported(WrapExitError(exit, code, err))
}

// outputUsageError reports a bad flag value (exit code 2).
func outputUsageError(formatter *OutputFormatter, message string) error {
	_ = formatter.Error(ErrCodeInvalidArg, message, nil)
	return reported(NewExitError(ExitCommandError, fmt.Sprintf("%s: %s", ErrCodeInvalidArg, message)))
}
