package store

import (
	"database/sql"
	"time"
)

// LogEntry is one recorded discrete gesture event. ObjectID is set when
// the event selected or released a scene object.
type LogEntry struct {
	ID        int64
	Event     string
	Label     string
	ObjectID  string
	CreatedAt time.Time
}

// EventLogRepository records discrete gesture events.
type EventLogRepository struct {
	db *sql.DB
}

// Events returns the gesture log repository for this store.
func (s *Store) Events() *EventLogRepository {
	return &EventLogRepository{db: s.db}
}

// Insert appends one event to the log.
func (r *EventLogRepository) Insert(event, label, objectID string) error {
	var objID any
	if objectID != "" {
		objID = objectID
	}

	_, err := r.db.Exec(
		`INSERT INTO gesture_log (event, label, object_id) VALUES (?, ?, ?)`,
		event, label, objID,
	)
	return err
}

// Recent returns the newest entries, most recent first.
func (r *EventLogRepository) Recent(limit int) ([]LogEntry, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := r.db.Query(
		`SELECT id, event, label, object_id, created_at
		 FROM gesture_log ORDER BY id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []LogEntry
	for rows.Next() {
		var e LogEntry
		var objID sql.NullString

		if err := rows.Scan(&e.ID, &e.Event, &e.Label, &objID, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.ObjectID = objID.String
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

// Prune deletes everything but the newest keep entries.
func (r *EventLogRepository) Prune(keep int) error {
	if keep <= 0 {
		keep = 1000
	}

	_, err := r.db.Exec(
		`DELETE FROM gesture_log WHERE id NOT IN (
			SELECT id FROM gesture_log ORDER BY id DESC LIMIT ?
		)`,
		keep,
	)
	return err
}

// Count returns the number of logged events.
func (r *EventLogRepository) Count() (int, error) {
	var n int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM gesture_log`).Scan(&n)
	return n, err
}
