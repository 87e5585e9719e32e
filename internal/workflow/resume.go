package workflow

import (
	"errors"

	"github.com/roach88/umbrella/internal/phase"
	"github.com/roach88/umbrella/internal/rules"
	"github.com/roach88/umbrella/internal/status"
)

// ResumeResult is what a returning session needs to pick up work.
type ResumeResult struct {
	StatusFile string `json:"status_file"`
	Content    string `json:"content"`
	Phase      string `json:"phase,omitempty"`
	PhaseKnown bool   `json:"phase_known"`
	RulesFile  string `json:"rules_file"`
}

// Resume reads the status file and finds the rules for the current phase.
// When the phase cannot be read, the planning rules are suggested.
func (m *Manager) Resume() (ResumeResult, error) {
	p, content, err := m.currentPhase()
	known := true
	if errors.Is(err, ErrPhaseUndetermined) {
		p, known = phase.First(), false
	} else if err != nil {
		return ResumeResult{}, err
	}

	res := ResumeResult{
		StatusFile: status.Path(m.root),
		Content:    content,
		PhaseKnown: known,
		RulesFile:  rules.PathFor(m.rulesTarget, p),
	}
	if known {
		res.Phase = p.Label()
	}
	return res, nil
}
