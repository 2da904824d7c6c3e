// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package unitdata provides a persistent key/value store local to a unit,
// surviving across hook invocations.
package unitdata

import (
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/juju/errors"
	"github.com/juju/loggo/v2"
	_ "github.com/mattn/go-sqlite3"
)

var logger = loggo.GetLogger("charmhelpers.unitdata")

const (
	// PathEnvVar overrides the location of the store.
	PathEnvVar = "UNIT_STATE_DB"

	defaultFileName = ".unit-state.db"
)

// DefaultPath returns the store location for the running unit: the value
// of UNIT_STATE_DB if set, otherwise .unit-state.db in the charm
// directory.
func DefaultPath() (string, error) {
	if path := os.Getenv(PathEnvVar); path != "" {
		return path, nil
	}
	charmDir := os.Getenv("CHARM_DIR")
	if charmDir == "" {
		return "", errors.NotFoundf("CHARM_DIR or %s", PathEnvVar)
	}
	return filepath.Join(charmDir, defaultFileName), nil
}

// Store is a key/value store backed by a SQLite database. Values are
// stored JSON encoded.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens the store at path, creating it if needed.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, errors.Annotatef(err, "opening unit state %q", path)
	}
	// Hooks of one unit never run concurrently; a single connection keeps
	// writes serialised within the process.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS kv (
    key TEXT PRIMARY KEY,
    data TEXT
)`); err != nil {
		_ = db.Close()
		return nil, errors.Annotatef(err, "initialising unit state %q", path)
	}
	logger.Tracef("opened unit state %q", path)
	return &Store{db: db, path: path}, nil
}

// Path returns the database file of the store.
func (s *Store) Path() string {
	return s.path
}

// Get decodes the value stored under key into v and reports whether the
// key exists.
func (s *Store) Get(key string, v interface{}) (bool, error) {
	var data string
	err := s.db.QueryRow(`SELECT data FROM kv WHERE key = ?`, key).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	} else if err != nil {
		return false, errors.Annotatef(err, "reading %q", key)
	}
	if err := json.Unmarshal([]byte(data), v); err != nil {
		return false, errors.Annotatef(err, "decoding %q", key)
	}
	return true, nil
}

// Set stores v under key, replacing any existing value.
func (s *Store) Set(key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return errors.Annotatef(err, "encoding %q", key)
	}
	if _, err := s.db.Exec(`INSERT OR REPLACE INTO kv (key, data) VALUES (?, ?)`, key, string(data)); err != nil {
		return errors.Annotatef(err, "writing %q", key)
	}
	return nil
}

// Unset removes key. Removing a missing key is not an error.
func (s *Store) Unset(key string) error {
	if _, err := s.db.Exec(`DELETE FROM kv WHERE key = ?`, key); err != nil {
		return errors.Annotatef(err, "removing %q", key)
	}
	return nil
}

// Keys returns the keys starting with prefix, sorted.
func (s *Store) Keys(prefix string) ([]string, error) {
	rows, err := s.db.Query(`SELECT key FROM kv WHERE instr(key, ?) = 1 ORDER BY key`, prefix)
	if err != nil {
		return nil, errors.Annotatef(err, "listing keys with prefix %q", prefix)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, errors.Trace(err)
		}
		keys = append(keys, key)
	}
	return keys, errors.Trace(rows.Err())
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return errors.Trace(s.db.Close())
}
