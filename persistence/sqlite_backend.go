package persistence

import (
	"database/sql"
	"errors"

	_ "modernc.org/sqlite"
)

// SQLiteBackend persists the encoded state layout as a single row in a
// SQLite table, using the pure-Go modernc.org/sqlite driver so the module
// carries no cgo dependency.
type SQLiteBackend struct {
	db *sql.DB
}

// NewSQLiteBackend opens (creating if necessary) the sqlite database at dsn
// and ensures its backing table exists.
func NewSQLiteBackend(dsn string) (*SQLiteBackend, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	const schema = `CREATE TABLE IF NOT EXISTS reaktiv_state (
		id   INTEGER PRIMARY KEY CHECK (id = 1),
		data BLOB NOT NULL
	)`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}
	return &SQLiteBackend{db: db}, nil
}

// Save upserts the single persisted row.
func (s *SQLiteBackend) Save(data []byte) error {
	const stmt = `INSERT INTO reaktiv_state (id, data) VALUES (1, ?)
		ON CONFLICT(id) DO UPDATE SET data = excluded.data`
	_, err := s.db.Exec(stmt, data)
	return err
}

// Load reads the single persisted row.
func (s *SQLiteBackend) Load() ([]byte, bool, error) {
	var data []byte
	err := s.db.QueryRow(`SELECT data FROM reaktiv_state WHERE id = 1`).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

// HasPersistedState reports whether the single row exists.
func (s *SQLiteBackend) HasPersistedState() (bool, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(1) FROM reaktiv_state WHERE id = 1`).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Close releases the underlying database handle.
func (s *SQLiteBackend) Close() error {
	return s.db.Close()
}
