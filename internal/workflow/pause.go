package workflow

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/roach88/umbrella/internal/git"
	"github.com/roach88/umbrella/internal/status"
	"github.com/roach88/umbrella/internal/store"
)

// PushOutcome classifies the push attempted by pause.
type PushOutcome string

const (
	PushDone     PushOutcome = "pushed"
	PushNoRemote PushOutcome = "no_remote"
	PushFailed   PushOutcome = "failed"
	PushDisabled PushOutcome = "disabled"
)

// PauseResult reports what pause committed and pushed.
type PauseResult struct {
	UpToDate      bool        `json:"up_to_date"`
	ChangedFiles  []string    `json:"changed_files,omitempty"`
	StatusShort   string      `json:"status_short,omitempty"`
	CommitMessage string      `json:"commit_message,omitempty"`
	Push          PushOutcome `json:"push,omitempty"`
	PushError     string      `json:"push_error,omitempty"`
	PausedAt      string      `json:"paused_at,omitempty"`
}

// Pause commits all work, pushes when a remote is configured, and appends
// a pause section to the status file. A clean tree is not an error.
func (m *Manager) Pause(ctx context.Context, message string) (PauseResult, error) {
	content, err := status.Read(m.root)
	if err != nil {
		return PauseResult{}, err
	}
	if !git.IsRepo(m.root) {
		return PauseResult{}, ErrNoRepo
	}
	if m.git == nil {
		return PauseResult{}, fmt.Errorf("pause: %w", git.ErrGitNotFound)
	}

	changed, err := m.git.Porcelain(ctx, m.root)
	if err != nil {
		return PauseResult{}, fmt.Errorf("git status: %w", err)
	}
	if len(changed) == 0 {
		return PauseResult{UpToDate: true}, nil
	}

	short, err := m.git.Short(ctx, m.root)
	if err != nil {
		return PauseResult{}, fmt.Errorf("git status: %w", err)
	}
	if err := m.git.AddAll(ctx, m.root); err != nil {
		return PauseResult{}, fmt.Errorf("git add: %w", err)
	}

	now := m.now()
	if message == "" {
		message = DefaultPauseMessage(status.ParsePhaseLabel(content), now)
	}
	if err := m.git.Commit(ctx, m.root, message); err != nil {
		return PauseResult{}, fmt.Errorf("git commit: %w", err)
	}
	m.log.Debug("changes committed", zap.String("message", message), zap.Int("files", len(changed)))

	result := PauseResult{
		ChangedFiles:  changed,
		StatusShort:   short,
		CommitMessage: message,
		PausedAt:      now.Format(status.TimestampLayout),
	}
	result.Push, result.PushError = m.pushIfRemote(ctx)

	if err := status.AppendPause(m.root, now, message); err != nil {
		return result, err
	}

	m.record(ctx, store.Event{
		Kind:  store.KindPause,
		Phase: phaseNumber(content),
		Detail: map[string]any{
			"commit": message,
			"push":   string(result.Push),
			"files":  len(changed),
		},
		RecordedAt: now,
	})
	return result, nil
}

func (m *Manager) pushIfRemote(ctx context.Context) (PushOutcome, string) {
	if !m.push {
		return PushDisabled, ""
	}
	hasRemote, err := m.git.HasRemote(ctx, m.root)
	if err != nil {
		m.log.Warn("could not list remotes", zap.Error(err))
		return PushFailed, err.Error()
	}
	if !hasRemote {
		return PushNoRemote, ""
	}
	if err := m.git.Push(ctx, m.root); err != nil {
		m.log.Warn("push failed", zap.Error(err))
		return PushFailed, err.Error()
	}
	return PushDone, ""
}

// DefaultPauseMessage builds the commit message used when none is given.
func DefaultPauseMessage(phaseLabel string, at time.Time) string {
	return fmt.Sprintf("Pause work: %s - %s", phaseLabel, at.Format(status.TimestampLayout))
}

func phaseNumber(content string) int {
	if p, ok := status.ParsePhase(content); ok {
		return p.Number()
	}
	return 0
}
