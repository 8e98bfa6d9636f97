// Package blobstore is a SQLite-backed byte sink/source for named
// snapshots. It is a peripheral collaborator, not part of the vector
// index engine itself: vecindex.Store/Index only ever read and write an
// io.Writer/io.Reader, and this package is one concrete place those bytes
// can durably land. Grounded on the teacher's sqlite-vec.EnsureTable /
// NewSQLiteVectorStore setup, repurposed from a chunks-and-embeddings
// schema to a simple named-blob table.
package blobstore

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Store is a SQLite-backed table of named binary blobs, used to persist
// and retrieve vecindex snapshots by name.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the snapshots table in the database at
// path and returns a Store over it.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("blobstore: opening %s: %w", path, err)
	}
	if err := EnsureTable(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

// NewStore wraps an already-open database connection. The caller must
// have already called EnsureTable (or Open) on it.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// EnsureTable creates the snapshots table if it doesn't exist.
func EnsureTable(db *sql.DB) error {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS snapshots (
		name       TEXT PRIMARY KEY,
		data       BLOB NOT NULL,
		dim        INTEGER NOT NULL,
		row_count  INTEGER NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`)
	if err != nil {
		return fmt.Errorf("blobstore: creating snapshots table: %w", err)
	}
	return nil
}

// Put stores data under name, along with the dim/rowCount metadata the
// caller already knows (avoiding a re-parse of the blob just to list
// snapshots later). A second Put under the same name overwrites it.
func (s *Store) Put(name string, data []byte, dim, rowCount int) error {
	_, err := s.db.Exec(`INSERT INTO snapshots (name, data, dim, row_count, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET data=excluded.data, dim=excluded.dim,
			row_count=excluded.row_count, updated_at=excluded.updated_at`,
		name, data, dim, rowCount, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("blobstore: storing %q: %w", name, err)
	}
	return nil
}

// Get retrieves the bytes previously stored under name. If name does not
// exist it returns an error wrapping sql.ErrNoRows.
func (s *Store) Get(name string) ([]byte, error) {
	var data []byte
	err := s.db.QueryRow(`SELECT data FROM snapshots WHERE name = ?`, name).Scan(&data)
	if err != nil {
		return nil, fmt.Errorf("blobstore: loading %q: %w", name, err)
	}
	return data, nil
}

// Info is the metadata recorded about a snapshot without its payload.
type Info struct {
	Name      string
	Dim       int
	RowCount  int
	UpdatedAt time.Time
}

// List returns metadata for every stored snapshot, ordered by name.
func (s *Store) List() ([]Info, error) {
	rows, err := s.db.Query(`SELECT name, dim, row_count, updated_at FROM snapshots ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("blobstore: listing snapshots: %w", err)
	}
	defer rows.Close()

	var out []Info
	for rows.Next() {
		var info Info
		if err := rows.Scan(&info.Name, &info.Dim, &info.RowCount, &info.UpdatedAt); err != nil {
			return nil, fmt.Errorf("blobstore: scanning snapshot row: %w", err)
		}
		out = append(out, info)
	}
	return out, rows.Err()
}

// Delete removes the snapshot stored under name, if any.
func (s *Store) Delete(name string) error {
	_, err := s.db.Exec(`DELETE FROM snapshots WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("blobstore: deleting %q: %w", name, err)
	}
	return nil
}

// Close releases the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}
