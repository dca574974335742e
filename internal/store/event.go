package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Event is one journaled interaction event.
type Event struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	Kind      string    `json:"kind"`
	At        float64   `json:"at"`
	X         float64   `json:"x"`
	Y         float64   `json:"y"`
	Z         float64   `json:"z"`
	Scale     float64   `json:"scale"`
	State     string    `json:"state"`
	CreatedAt time.Time `json:"created_at"`
}

// EventRepository provides access to the interaction journal.
type EventRepository struct {
	db *sql.DB
}

// Events returns the interaction event repository for this store.
func (s *Store) Events() *EventRepository {
	return &EventRepository{db: s.db}
}

// Append journals an event. An empty ID is filled with a UUID.
func (r *EventRepository) Append(e *Event) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.State == "" {
		e.State = "idle"
	}
	e.CreatedAt = time.Now()

	_, err := r.db.Exec(
		`INSERT INTO interaction_events (id, session_id, kind, at, x, y, z, scale, state, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.SessionID, e.Kind, e.At, e.X, e.Y, e.Z, e.Scale, e.State, e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("append %s event: %w", e.Kind, err)
	}
	return nil
}

// ListBySession returns a session's events in the order they happened.
func (r *EventRepository) ListBySession(sessionID string) ([]*Event, error) {
	return r.query(
		`SELECT id, session_id, kind, at, x, y, z, scale, state, created_at
		 FROM interaction_events WHERE session_id = ? ORDER BY at ASC, created_at ASC`,
		sessionID,
	)
}

// Recent returns up to limit events across all sessions, newest first.
func (r *EventRepository) Recent(limit int) ([]*Event, error) {
	if limit <= 0 {
		limit = 50
	}
	return r.query(
		`SELECT id, session_id, kind, at, x, y, z, scale, state, created_at
		 FROM interaction_events ORDER BY created_at DESC LIMIT ?`,
		limit,
	)
}

// CountByKind returns how many events of each kind a session journaled.
func (r *EventRepository) CountByKind(sessionID string) (map[string]int, error) {
	rows, err := r.db.Query(
		`SELECT kind, COUNT(*) FROM interaction_events WHERE session_id = ? GROUP BY kind`,
		sessionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var kind string
		var n int
		if err := rows.Scan(&kind, &n); err != nil {
			return nil, err
		}
		counts[kind] = n
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return counts, nil
}

func (r *EventRepository) query(q string, args ...any) ([]*Event, error) {
	rows, err := r.db.Query(q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := []*Event{}
	for rows.Next() {
		e := &Event{}
		err := rows.Scan(&e.ID, &e.SessionID, &e.Kind, &e.At, &e.X, &e.Y, &e.Z, &e.Scale, &e.State, &e.CreatedAt)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}
