package workflow

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/roach88/umbrella/internal/phase"
	"github.com/roach88/umbrella/internal/project"
	"github.com/roach88/umbrella/internal/status"
	"github.com/roach88/umbrella/internal/store"
)

// AdvanceResult reports the phase a project moved to.
type AdvanceResult struct {
	From            string   `json:"from"`
	Phase           string   `json:"phase"`
	PhaseFolder     string   `json:"phase_folder"`
	Actions         []string `json:"actions"`
	ArtifactsStored int      `json:"artifacts_stored"`
	AtFinalPhase    bool     `json:"at_final_phase"`
}

// Advance moves the project to the next phase and rewrites the status file.
// artifacts are recorded against the phase being left. Advancing from the
// final phase keeps the project there.
func (m *Manager) Advance(ctx context.Context, artifacts map[string]string) (AdvanceResult, error) {
	current, _, err := m.currentPhase()
	if err != nil {
		return AdvanceResult{}, err
	}
	next := current.Next()

	var info *project.Config
	cfg, found, err := project.Load(m.root)
	if err != nil {
		return AdvanceResult{}, err
	}
	if found {
		info = &cfg
	}

	if err := status.Write(m.root, status.RenderUpdate(next, info, m.now())); err != nil {
		return AdvanceResult{}, err
	}

	m.log.Debug("phase advanced",
		zap.String("from", current.Key),
		zap.String("to", next.Key),
		zap.Int("artifacts", len(artifacts)),
	)
	m.record(ctx, store.Event{
		Kind:      store.KindAdvance,
		Phase:     current.Number(),
		Detail:    map[string]any{"to": next.Number()},
		Artifacts: artifacts,
	})

	return AdvanceResult{
		From:            current.Key,
		Phase:           next.Key,
		PhaseFolder:     next.Folder,
		Actions:         next.Actions,
		ArtifactsStored: len(artifacts),
		AtFinalPhase:    current.IsLast(),
	}, nil
}

// ParseArtifact splits a "name=value" flag value.
func ParseArtifact(s string) (string, string, error) {
	name, value, ok := strings.Cut(s, "=")
	name, value = strings.TrimSpace(name), strings.TrimSpace(value)
	if !ok || name == "" || value == "" {
		return "", "", fmt.Errorf("invalid artifact %q: expected name=value", s)
	}
	return name, value, nil
}

// currentPhase reads the phase from the status file.
func (m *Manager) currentPhase() (phase.Phase, string, error) {
	content, err := status.Read(m.root)
	if err != nil {
		return phase.Phase{}, "", err
	}
	p, ok := status.ParsePhase(content)
	if !ok {
		return phase.Phase{}, content, ErrPhaseUndetermined
	}
	return p, content, nil
}
