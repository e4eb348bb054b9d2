package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Event records one accepted combo.
type Event struct {
	ID        string    `json:"id"`
	Gesture   string    `json:"gesture"`
	CreatedAt time.Time `json:"created_at"`
}

// EventRepository appends and queries gesture events.
type EventRepository struct {
	db *sql.DB
}

// Events returns the event repository for this store.
func (s *Store) Events() *EventRepository {
	return &EventRepository{db: s.db}
}

// Record stores an event for label at time at.
func (r *EventRepository) Record(label string, at time.Time) (*Event, error) {
	e := &Event{
		ID:        uuid.New().String(),
		Gesture:   label,
		CreatedAt: at.UTC(),
	}

	_, err := r.db.Exec(
		`INSERT INTO gesture_events (id, gesture, created_at) VALUES (?, ?, ?)`,
		e.ID, e.Gesture, e.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("record event: %w", err)
	}
	return e, nil
}

// List returns up to limit events, newest first. A non-positive limit
// returns every event.
func (r *EventRepository) List(limit int) ([]*Event, error) {
	if limit <= 0 {
		limit = -1
	}

	rows, err := r.db.Query(
		`SELECT id, gesture, created_at FROM gesture_events
		 ORDER BY created_at DESC, rowid DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*Event
	for rows.Next() {
		e := &Event{}
		if err := rows.Scan(&e.ID, &e.Gesture, &e.CreatedAt); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// Counts returns the number of events per combo label.
func (r *EventRepository) Counts() (map[string]int, error) {
	rows, err := r.db.Query(`SELECT gesture, COUNT(*) FROM gesture_events GROUP BY gesture`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var label string
		var n int
		if err := rows.Scan(&label, &n); err != nil {
			return nil, err
		}
		counts[label] = n
	}
	return counts, rows.Err()
}
