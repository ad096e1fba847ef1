package epdframe

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3" // sqlite3 driver
)

// FrameDB caches encoded frames keyed by the SHA1 of the source image and the
// encoder configuration that produced them.
type FrameDB struct {
	db *sql.DB
}

// NewFrameDB opens or creates the cache database in file.
func NewFrameDB(file string) (*FrameDB, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("%s?_busy_timeout=5000", file))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS frame (id INTEGER PRIMARY KEY NOT NULL, sha1 TEXT NOT NULL, config TEXT NOT NULL, data BLOB NOT NULL, UNIQUE(sha1, config))"); err != nil {
		db.Close()
		return nil, err
	}

	return &FrameDB{
		db: db,
	}, nil
}

// Close closes the database.
func (db *FrameDB) Close() error {
	return db.db.Close()
}

// Find returns the cached frame or nil if there isn't one.
func (db *FrameDB) Find(sha, config string) ([]byte, error) {
	var data []byte
	switch err := db.db.QueryRow("SELECT data FROM frame WHERE sha1 = ? AND config = ?", sha, config).Scan(&data); err {
	case sql.ErrNoRows:
		return nil, nil
	case nil:
		return data, nil
	default:
		return nil, err
	}
}

// Add stores a frame, replacing any previous entry for the same key.
func (db *FrameDB) Add(sha, config string, data []byte) error {
	if _, err := db.db.Exec("INSERT OR REPLACE INTO frame (sha1, config, data) VALUES (?, ?, ?)", sha, config, data); err != nil {
		return err
	}
	return nil
}

// Len returns the number of cached frames.
func (db *FrameDB) Len() (int, error) {
	var n int
	if err := db.db.QueryRow("SELECT COUNT(*) FROM frame").Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// Purge removes every cached frame.
func (db *FrameDB) Purge() (int64, error) {
	result, err := db.db.Exec("DELETE FROM frame")
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
