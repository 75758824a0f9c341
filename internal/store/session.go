package store

import (
	"database/sql"
	"errors"
	"time"
)

// ErrNotFound is returned when a requested resource does not exist.
var ErrNotFound = errors.New("not found")

// Session represents one measurement run stored in the database.
type Session struct {
	ID          string
	StartedAt   time.Time
	FinishedAt  *time.Time
	BaselineRed float64
	AvgBPM      float64
	Samples     int
	CreatedAt   time.Time
}

// SessionRepository provides CRUD operations for measurement sessions.
type SessionRepository struct {
	db *sql.DB
}

// Sessions returns the session repository for this store.
func (s *Store) Sessions() *SessionRepository {
	return &SessionRepository{db: s.db}
}

// Create inserts a new session into the database.
func (r *SessionRepository) Create(s *Session) error {
	if s.StartedAt.IsZero() {
		s.StartedAt = time.Now()
	}
	s.CreatedAt = time.Now()

	_, err := r.db.Exec(
		`INSERT INTO sessions (id, started_at, baseline_red, avg_bpm, samples, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		s.ID, s.StartedAt, s.BaselineRed, s.AvgBPM, s.Samples, s.CreatedAt,
	)
	return err
}

// Finish marks a session as complete and records its summary figures.
func (r *SessionRepository) Finish(id string, baselineRed, avgBPM float64) error {
	res, err := r.db.Exec(
		`UPDATE sessions SET finished_at = ?, baseline_red = ?, avg_bpm = ? WHERE id = ?`,
		time.Now(), baselineRed, avgBPM, id,
	)
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// GetByID retrieves a session by its ID.
func (r *SessionRepository) GetByID(id string) (*Session, error) {
	s := &Session{}
	var finished sql.NullTime

	err := r.db.QueryRow(
		`SELECT id, started_at, finished_at, baseline_red, avg_bpm, samples, created_at
		 FROM sessions WHERE id = ?`,
		id,
	).Scan(&s.ID, &s.StartedAt, &finished, &s.BaselineRed, &s.AvgBPM, &s.Samples, &s.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if finished.Valid {
		s.FinishedAt = &finished.Time
	}
	return s, nil
}

// List retrieves all sessions, newest first.
func (r *SessionRepository) List() ([]*Session, error) {
	rows, err := r.db.Query(
		`SELECT id, started_at, finished_at, baseline_red, avg_bpm, samples, created_at
		 FROM sessions ORDER BY started_at DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []*Session
	for rows.Next() {
		s := &Session{}
		var finished sql.NullTime

		err := rows.Scan(&s.ID, &s.StartedAt, &finished, &s.BaselineRed, &s.AvgBPM, &s.Samples, &s.CreatedAt)
		if err != nil {
			return nil, err
		}

		if finished.Valid {
			s.FinishedAt = &finished.Time
		}
		sessions = append(sessions, s)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return sessions, nil
}

// Delete removes a session and, via cascade, its samples.
func (r *SessionRepository) Delete(id string) error {
	res, err := r.db.Exec(`DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
