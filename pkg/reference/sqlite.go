package reference

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// SQLiteStore reads reference angles from a SQLite database. The schema
// mirrors the per-phase JSON files the extraction tooling writes: one row
// per (exercise, phase, joint).
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) a reference database at path.
func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open reference db: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS reference_angles (
			exercise   TEXT NOT NULL,
			phase      TEXT NOT NULL,
			joint      TEXT NOT NULL,
			degrees    DOUBLE NOT NULL,
			PRIMARY KEY (exercise, phase, joint)
		);
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create reference schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Load returns the profile for an exercise, or ErrNotFound when the table
// has no rows for it.
func (s *SQLiteStore) Load(exercise string) (Profile, error) {
	rows, err := s.db.Query(
		`SELECT phase, joint, degrees FROM reference_angles WHERE exercise = ?`,
		exercise,
	)
	if err != nil {
		return nil, fmt.Errorf("query reference angles: %w", err)
	}
	defer rows.Close()

	profile := Profile{}
	for rows.Next() {
		var phase, joint string
		var degrees float64
		if err := rows.Scan(&phase, &joint, &degrees); err != nil {
			return nil, fmt.Errorf("scan reference row: %w", err)
		}
		if profile[phase] == nil {
			profile[phase] = map[string]float64{}
		}
		profile[phase][joint] = degrees
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read reference rows: %w", err)
	}

	if len(profile) == 0 {
		return nil, ErrNotFound
	}
	return profile, nil
}

// Put inserts or replaces one reference angle. Used by extraction tooling
// and tests; the engine itself only reads.
func (s *SQLiteStore) Put(exercise, phase, joint string, degrees float64) error {
	_, err := s.db.Exec(
		`INSERT OR REPLACE INTO reference_angles (exercise, phase, joint, degrees) VALUES (?, ?, ?, ?)`,
		exercise, phase, joint, degrees,
	)
	return err
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

var _ Store = (*SQLiteStore)(nil)
