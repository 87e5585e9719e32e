package workflow

import (
	"context"
	"os"
	"path/filepath"
	"sort"

	"go.uber.org/zap"

	"github.com/roach88/umbrella/internal/phase"
	"github.com/roach88/umbrella/internal/status"
	"github.com/roach88/umbrella/internal/store"
)

// ComponentReport summarizes component progress in an iterative phase.
type ComponentReport struct {
	// Ready lists components that may move to the next phase
	// (for deployment: those that are live).
	Ready []string `json:"ready"`
	// Pending lists components still being worked on in this phase.
	Pending []string `json:"pending"`
	// Total counts components across development, testing and deployment.
	Total int `json:"total"`
}

// ValidationReport is the outcome of checking one phase.
type ValidationReport struct {
	Phase      phase.Phase      `json:"phase"`
	Passed     bool             `json:"passed"`
	Missing    []string         `json:"missing,omitempty"`
	Components *ComponentReport `json:"components,omitempty"`
}

// Validate checks whether a phase is complete. number overrides the phase
// read from the status file when non-zero. The status file is required
// either way.
func (m *Manager) Validate(ctx context.Context, number int) (ValidationReport, error) {
	content, err := status.Read(m.root)
	if err != nil {
		return ValidationReport{}, err
	}

	var p phase.Phase
	if number != 0 {
		p, err = phase.ByNumber(number)
		if err != nil {
			return ValidationReport{}, err
		}
	} else {
		var ok bool
		p, ok = status.ParsePhase(content)
		if !ok {
			return ValidationReport{}, ErrPhaseUndetermined
		}
	}

	var report ValidationReport
	if p.Iterative {
		report = m.validateComponents(p)
	} else {
		report = m.validateDeliverables(p)
	}

	m.log.Debug("phase validated",
		zap.String("phase", p.Key),
		zap.Bool("passed", report.Passed),
		zap.Int("missing", len(report.Missing)),
	)
	m.record(ctx, store.Event{
		Kind:   store.KindValidate,
		Phase:  p.Number(),
		Detail: map[string]any{"passed": report.Passed},
	})
	return report, nil
}

func (m *Manager) validateDeliverables(p phase.Phase) ValidationReport {
	report := ValidationReport{Phase: p}
	for _, d := range p.Deliverables() {
		path := filepath.Join(m.root, filepath.FromSlash(string(d)))
		if (d.IsDir() && !isDir(path)) || (!d.IsDir() && !exists(path)) {
			report.Missing = append(report.Missing, string(d))
		}
	}
	report.Passed = len(report.Missing) == 0
	return report
}

func (m *Manager) validateComponents(p phase.Phase) ValidationReport {
	dev := m.listComponents(phase.DevComponentsDir)
	tested := m.listComponents(phase.TestComponentsDir)
	deployed := m.listComponents(phase.DeployedComponentsDir)

	comp := &ComponentReport{Total: len(dev) + len(tested) + len(deployed)}

	switch p.Number() {
	case 4:
		for _, name := range dev {
			base := filepath.Join(m.root, filepath.FromSlash(phase.DevComponentsDir), name)
			if isDir(filepath.Join(base, "src")) && isDir(filepath.Join(base, "tests")) && isDir(filepath.Join(base, "docs")) {
				comp.Ready = append(comp.Ready, name)
			} else {
				comp.Pending = append(comp.Pending, name)
			}
		}
	case 5:
		// A component with a test directory has been through testing.
		comp.Ready = tested
	case 6:
		comp.Ready = deployed
	}

	return ValidationReport{
		Phase:      p,
		Passed:     len(comp.Ready) > 0,
		Components: comp,
	}
}

// listComponents returns the sorted subdirectory names of rel.
func (m *Manager) listComponents(rel string) []string {
	entries, err := os.ReadDir(filepath.Join(m.root, filepath.FromSlash(rel)))
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
