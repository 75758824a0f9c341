package store

import (
	"database/sql"
)

// Sample represents one per-frame measurement within a session.
type Sample struct {
	ID        int64   `json:"id"`
	SessionID string  `json:"session_id"`
	TsMs      int64   `json:"ts_ms"`
	Phase     string  `json:"phase"`
	Red       float64 `json:"red"`
	Green     float64 `json:"green"`
	Blue      float64 `json:"blue"`
	Finger    bool    `json:"finger"`
	BPM       int     `json:"bpm"`
}

// SampleRepository provides operations for session samples.
type SampleRepository struct {
	db *sql.DB
}

// Samples returns the sample repository for this store.
func (s *Store) Samples() *SampleRepository {
	return &SampleRepository{db: s.db}
}

// Add inserts one sample and bumps the sample count on its session.
func (r *SampleRepository) Add(sample *Sample) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	finger := 0
	if sample.Finger {
		finger = 1
	}

	res, err := tx.Exec(
		`INSERT INTO session_samples (session_id, ts_ms, phase, red, green, blue, finger, bpm)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		sample.SessionID, sample.TsMs, sample.Phase,
		sample.Red, sample.Green, sample.Blue, finger, sample.BPM,
	)
	if err != nil {
		return err
	}

	if sample.ID, err = res.LastInsertId(); err != nil {
		return err
	}

	if _, err := tx.Exec(`UPDATE sessions SET samples = samples + 1 WHERE id = ?`, sample.SessionID); err != nil {
		return err
	}

	return tx.Commit()
}

// BySession retrieves all samples for a session in capture order.
func (r *SampleRepository) BySession(sessionID string) ([]Sample, error) {
	rows, err := r.db.Query(
		`SELECT id, session_id, ts_ms, phase, red, green, blue, finger, bpm
		 FROM session_samples WHERE session_id = ? ORDER BY ts_ms, id`,
		sessionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var samples []Sample
	for rows.Next() {
		var s Sample
		var finger int

		err := rows.Scan(&s.ID, &s.SessionID, &s.TsMs, &s.Phase, &s.Red, &s.Green, &s.Blue, &finger, &s.BPM)
		if err != nil {
			return nil, err
		}

		s.Finger = finger != 0
		samples = append(samples, s)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return samples, nil
}
