// Package store implements the durable key/value surface: a meta range for
// arbitrary agent/classifier state and a symbol-meta range for symbol
// allocator records, both backed by a cgo-free SQLite database so the
// module builds without a C toolchain.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	_ "modernc.org/sqlite"

	"cortexd/internal/logging"
)

var log = logging.Get(logging.CategoryStore)

// Store is the durable key/value backend. Concurrent readers, single writer
// per key range — enforced here by one RWMutex shared across both ranges,
// which is simpler than per-range locks and sufficient at this engine's
// write volume.
type Store struct {
	db   *sql.DB
	mu   sync.RWMutex
	path string
}

// Open creates (if needed) and opens the SQLite-backed store at path.
func Open(path string) (*Store, error) {
	timer := logging.StartTimer(logging.CategoryStore, "Open")
	defer timer.Stop()

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, &IoFailureError{Op: "mkdir " + dir, Err: err}
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, &IoFailureError{Op: "open " + path, Err: err}
	}

	s := &Store{db: db, path: path}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	log.Info("store opened at %s", path)
	return s, nil
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS meta (
			key   TEXT PRIMARY KEY,
			value BLOB NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS symbol_meta (
			symbol_id INTEGER PRIMARY KEY,
			value     BLOB NOT NULL
		)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return &IoFailureError{Op: "migrate", Err: err}
		}
	}
	return nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// PutMeta writes value under key in the meta range, overwriting any
// existing value.
func (s *Store) PutMeta(key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.Exec(
		`INSERT INTO meta(key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	if err != nil {
		return &IoFailureError{Op: fmt.Sprintf("put_meta(%q)", key), Err: err}
	}
	return nil
}

// GetMeta reads the value stored under key, or NotFoundError if absent.
func (s *Store) GetMeta(key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var value []byte
	err := s.db.QueryRow(`SELECT value FROM meta WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, &NotFoundError{Key: key}
	}
	if err != nil {
		return nil, &IoFailureError{Op: fmt.Sprintf("get_meta(%q)", key), Err: err}
	}
	return value, nil
}

// ScanPrefix returns every (key, value) pair whose key starts with prefix,
// as a map keyed by key (so the result carries no order).
func (s *Store) ScanPrefix(prefix string) (map[string][]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	upperBound := prefixUpperBound(prefix)
	var rows *sql.Rows
	var err error
	if upperBound == "" {
		rows, err = s.db.Query(`SELECT key, value FROM meta WHERE key >= ? ORDER BY key`, prefix)
	} else {
		rows, err = s.db.Query(`SELECT key, value FROM meta WHERE key >= ? AND key < ? ORDER BY key`, prefix, upperBound)
	}
	if err != nil {
		return nil, &IoFailureError{Op: fmt.Sprintf("scan_prefix(%q)", prefix), Err: err}
	}
	defer rows.Close()

	out := make(map[string][]byte)
	for rows.Next() {
		var k string
		var v []byte
		if err := rows.Scan(&k, &v); err != nil {
			return nil, &IoFailureError{Op: "scan_prefix scan", Err: err}
		}
		out[k] = v
	}
	return out, rows.Err()
}

// prefixUpperBound returns the smallest string greater than every string
// starting with prefix, or "" if prefix is empty (no practical upper bound).
func prefixUpperBound(prefix string) string {
	if prefix == "" {
		return ""
	}
	b := []byte(prefix)
	for i := len(b) - 1; i >= 0; i-- {
		if b[i] < 0xff {
			b[i]++
			return string(b[:i+1])
		}
	}
	return ""
}

// PutSymbolMeta writes value under symbolID in the symbol-meta range.
func (s *Store) PutSymbolMeta(symbolID uint64, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.Exec(
		`INSERT INTO symbol_meta(symbol_id, value) VALUES (?, ?) ON CONFLICT(symbol_id) DO UPDATE SET value = excluded.value`,
		symbolID, value,
	)
	if err != nil {
		return &IoFailureError{Op: fmt.Sprintf("put_symbol_meta(%d)", symbolID), Err: err}
	}
	return nil
}

// GetSymbolMeta reads the value stored under symbolID, or NotFoundError if
// absent.
func (s *Store) GetSymbolMeta(symbolID uint64) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var value []byte
	err := s.db.QueryRow(`SELECT value FROM symbol_meta WHERE symbol_id = ?`, symbolID).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, &NotFoundError{Key: fmt.Sprintf("symbol:%d", symbolID)}
	}
	if err != nil {
		return nil, &IoFailureError{Op: fmt.Sprintf("get_symbol_meta(%d)", symbolID), Err: err}
	}
	return value, nil
}

// AllSymbolMeta returns every (symbolID, value) pair, used to rebuild the
// allocator and item memory on restart.
func (s *Store) AllSymbolMeta() (map[uint64][]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rows, err := s.db.Query(`SELECT symbol_id, value FROM symbol_meta`)
	if err != nil {
		return nil, &IoFailureError{Op: "all_symbol_meta", Err: err}
	}
	defer rows.Close()

	out := make(map[uint64][]byte)
	for rows.Next() {
		var id uint64
		var v []byte
		if err := rows.Scan(&id, &v); err != nil {
			return nil, &IoFailureError{Op: "all_symbol_meta scan", Err: err}
		}
		out[id] = v
	}
	return out, rows.Err()
}

// IsTriggerKey reports whether key falls in the well-known trigger:<id>
// meta key space (see spec external interfaces for the key convention).
func IsTriggerKey(key string) bool {
	return strings.HasPrefix(key, "trigger:")
}
