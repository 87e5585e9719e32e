package workflow

import (
	"context"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/roach88/umbrella/internal/project"
	"github.com/roach88/umbrella/internal/store"
)

func (m *Manager) journalPath() string {
	return filepath.Join(m.root, project.StateDir, store.FileName)
}

func (m *Manager) openJournal() (*store.Store, error) {
	return store.OpenProject(m.root, project.StateDir)
}

// record appends an event to the project journal. The journal is a side
// record: failures are logged and never fail the operation.
func (m *Manager) record(ctx context.Context, ev store.Event) {
	st, err := m.openJournal()
	if err != nil {
		m.log.Warn("journal unavailable", zap.String("path", m.journalPath()), zap.Error(err))
		return
	}
	defer st.Close()

	if ev.RecordedAt.IsZero() {
		ev.RecordedAt = m.now()
	}
	saved, err := st.Record(ctx, ev)
	if err != nil {
		m.log.Warn("journal write failed", zap.String("kind", string(ev.Kind)), zap.Error(err))
		return
	}
	m.log.Debug("journal event recorded",
		zap.String("kind", string(saved.Kind)),
		zap.Int64("seq", saved.Seq),
		zap.Int("phase", saved.Phase),
	)
}

// History returns the journal in recorded order, limited to one kind when
// kind is non-empty. A project without a journal has an empty history.
func (m *Manager) History(ctx context.Context, kind store.Kind) ([]store.Event, error) {
	if _, err := os.Stat(m.journalPath()); os.IsNotExist(err) {
		return nil, nil
	}
	st, err := m.openJournal()
	if err != nil {
		return nil, err
	}
	defer st.Close()
	if kind != "" {
		return st.EventsOfKind(ctx, kind)
	}
	return st.Events(ctx)
}
