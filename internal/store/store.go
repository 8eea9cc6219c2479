package store

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/gob"
	"errors"
	"fmt"
	"sync"
)

// Store is a gob-encoded key/value table.
type Store struct {
	mu   sync.Mutex
	name string
	db   *sql.DB
}

var (
	ErrBadName  = fmt.Errorf("bad name for store")
	ErrNotFound = fmt.Errorf("value not found")
)

func isLetter(c rune) bool {
	return 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || c == '_'
}

func isTableName(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if !isLetter(c) {
			return false
		}
	}
	return true
}

// New creates the backing table if needed. name is used as the table name
// and may only contain Latin letters and underscores.
func New(ctx context.Context, db *sql.DB, name string) (*Store, error) {
	if !isTableName(name) {
		return nil, ErrBadName
	}

	_, err := db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS `+name+` (
	key		TEXT PRIMARY KEY,
	value	BLOB
);`)
	if err != nil {
		return nil, err
	}
	return &Store{name: name, db: db}, nil
}

// Get decodes the value stored under key into value, which must be a
// pointer or nil. A missing key yields [ErrNotFound]. With a nil value the
// data is read and discarded.
func (s *Store) Get(ctx context.Context, key string, value any) error {
	var v []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM `+s.name+` WHERE key = ?;`, key,
	).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	} else if err != nil {
		return err
	}
	if value == nil {
		return nil
	}
	return gob.NewDecoder(bytes.NewReader(v)).Decode(value)
}

// Set inserts a new key-value pair or updates an existing one.
func (s *Store) Set(ctx context.Context, key string, value any) error {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(value); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
INSERT INTO `+s.name+` (key, value)
VALUES(?, ?)
ON CONFLICT(key)
DO UPDATE SET value=excluded.value;`,
		key, buf.Bytes())
	return err
}

// Delete removes key without checking that it existed.
func (s *Store) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `DELETE FROM `+s.name+` WHERE key = ?;`, key)
	return err
}

func (s *Store) Count(ctx context.Context) (count int, err error) {
	err = s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM `+s.name+`;`).Scan(&count)
	return count, err
}

// GetAllKeys returns the keys in ascending order.
func (s *Store) GetAllKeys(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key FROM `+s.name+` ORDER BY key;`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}
	return keys, rows.Err()
}
