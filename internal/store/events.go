package store

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
)

// Kind names a journal event.
type Kind string

const (
	KindStart    Kind = "start"
	KindAdvance  Kind = "advance"
	KindValidate Kind = "validate"
	KindPause    Kind = "pause"
)

// Event is one journal entry.
type Event struct {
	ID         string            `json:"id"`
	Seq        int64             `json:"seq"`
	Kind       Kind              `json:"kind"`
	Phase      int               `json:"phase"` // one-based phase number
	Detail     map[string]any    `json:"detail,omitempty"`
	RecordedAt time.Time         `json:"recorded_at"`
	Artifacts  map[string]string `json:"artifacts,omitempty"`
}

// NewEventID returns a time-sortable UUIDv7 string.
func NewEventID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// Record appends ev to the journal and returns it with ID and Seq filled in.
// Artifacts are stored in the same transaction.
func (s *Store) Record(ctx context.Context, ev Event) (Event, error) {
	if ev.ID == "" {
		ev.ID = NewEventID()
	}
	if ev.RecordedAt.IsZero() {
		ev.RecordedAt = time.Now()
	}

	detailJSON, err := marshalDetail(ev.Detail)
	if err != nil {
		return Event{}, fmt.Errorf("record event: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Event{}, fmt.Errorf("record event: %w", err)
	}
	defer tx.Rollback()

	if err := tx.QueryRowContext(ctx, "SELECT COALESCE(MAX(seq), 0) + 1 FROM events").Scan(&ev.Seq); err != nil {
		return Event{}, fmt.Errorf("record event: next seq: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO events (id, seq, kind, phase, detail, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, ev.ID, ev.Seq, string(ev.Kind), ev.Phase, string(detailJSON), ev.RecordedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return Event{}, fmt.Errorf("record event: %w", err)
	}

	names := make([]string, 0, len(ev.Artifacts))
	for name := range ev.Artifacts {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO artifacts (event_id, name, value) VALUES (?, ?, ?)
			ON CONFLICT(event_id, name) DO UPDATE SET value = excluded.value
		`, ev.ID, name, ev.Artifacts[name])
		if err != nil {
			return Event{}, fmt.Errorf("record artifact %s: %w", name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return Event{}, fmt.Errorf("record event: commit: %w", err)
	}
	return ev, nil
}

// Events returns every journal entry ordered by seq.
func (s *Store) Events(ctx context.Context) ([]Event, error) {
	return s.query(ctx, `
		SELECT id, seq, kind, phase, detail, recorded_at FROM events
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`)
}

// EventsOfKind returns entries of one kind ordered by seq.
func (s *Store) EventsOfKind(ctx context.Context, kind Kind) ([]Event, error) {
	return s.query(ctx, `
		SELECT id, seq, kind, phase, detail, recorded_at FROM events
		WHERE kind = ?
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`, string(kind))
}

func (s *Store) query(ctx context.Context, q string, args ...any) ([]Event, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var (
			ev         Event
			kind       string
			detailJSON string
			recorded   string
		)
		if err := rows.Scan(&ev.ID, &ev.Seq, &kind, &ev.Phase, &detailJSON, &recorded); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		ev.Kind = Kind(kind)
		ev.Detail, err = unmarshalDetail(detailJSON)
		if err != nil {
			return nil, fmt.Errorf("decode event %s: %w", ev.ID, err)
		}
		ev.RecordedAt, err = time.Parse(time.RFC3339Nano, recorded)
		if err != nil {
			return nil, fmt.Errorf("decode event %s time: %w", ev.ID, err)
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	// Release the single connection before the artifact lookups.
	rows.Close()

	for i := range events {
		arts, err := s.artifacts(ctx, events[i].ID)
		if err != nil {
			return nil, err
		}
		events[i].Artifacts = arts
	}
	return events, nil
}

func (s *Store) artifacts(ctx context.Context, eventID string) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name, value FROM artifacts WHERE event_id = ? ORDER BY name ASC
	`, eventID)
	if err != nil {
		return nil, fmt.Errorf("query artifacts: %w", err)
	}
	defer rows.Close()

	var out map[string]string
	for rows.Next() {
		var name, value string
		if err := rows.Scan(&name, &value); err != nil {
			return nil, fmt.Errorf("scan artifact: %w", err)
		}
		if out == nil {
			out = make(map[string]string)
		}
		out[name] = value
	}
	return out, rows.Err()
}
