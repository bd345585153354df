// Package cache implements a content-addressed cache for compiled Wafer
// modules, persisted in a pure-Go SQLite database. The key is the SHA-256
// of the source string passed to compiler.Compile. The prelude that
// Compile prepends is not part of the key, so an entry written by a build
// with a different prelude is returned as stored.
package cache

import (
	"crypto/sha256"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
	"go.uber.org/zap"

	"github.com/wafer-lang/waferc/internal/telemetry"
)

// Key is the content address of a cached module: the SHA-256 of its
// source text.
type Key [sha256.Size]byte

// KeyOf hashes source into a Key.
func KeyOf(source string) Key {
	return Key(sha256.Sum256([]byte(source)))
}

func (k Key) String() string {
	return fmt.Sprintf("%x", [sha256.Size]byte(k))
}

// Cache stores previously compiled module bytes keyed by source hash.
type Cache struct {
	db *sql.DB
}

// Open creates or opens a cache database at dir/waferc-cache.db, creating
// dir if necessary.
func Open(dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("cache: create directory: %w", err)
	}
	path := filepath.Join(dir, "waferc-cache.db")

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("cache: open database: %w", err)
	}
	if err := initSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Cache{db: db}, nil
}

func initSchema(db *sql.DB) error {
	const schema = `
	CREATE TABLE IF NOT EXISTS modules (
		key   TEXT PRIMARY KEY,
		bytes BLOB NOT NULL
	);
	`
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("cache: init schema: %w", err)
	}
	return nil
}

// Close releases the underlying database handle.
func (c *Cache) Close() error {
	return c.db.Close()
}

// Get returns the cached module bytes for key, and whether it was found.
func (c *Cache) Get(key Key) ([]byte, bool, error) {
	var out []byte
	err := c.db.QueryRow(`SELECT bytes FROM modules WHERE key = ?`, key.String()).Scan(&out)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("cache: get: %w", err)
	}
	return out, true, nil
}

// Put stores module bytes under key, overwriting any previous entry.
// Entries are immutable in practice — the key is a content hash, so a
// collision on key implies identical source and therefore identical
// bytes — but INSERT OR REPLACE keeps Put idempotent regardless.
func (c *Cache) Put(key Key, moduleBytes []byte) error {
	_, err := c.db.Exec(`INSERT OR REPLACE INTO modules (key, bytes) VALUES (?, ?)`, key.String(), moduleBytes)
	if err != nil {
		return fmt.Errorf("cache: put: %w", err)
	}
	return nil
}

// GetOrCompile returns the cached bytes for source if present, else calls
// compile, stores the result, and returns it. compile is expected to be
// compiler.Compile (or something wrapping it); it is passed in rather than
// imported directly so this package stays free of a dependency on the
// compiler pipeline it is caching.
func (c *Cache) GetOrCompile(source string, compile func(string) []byte) []byte {
	log := telemetry.Logger()
	key := KeyOf(source)

	if out, ok, err := c.Get(key); err != nil {
		log.Warn("cache lookup failed, compiling without cache", zap.Error(err))
	} else if ok {
		log.Debug("cache hit")
		return out
	}

	out := compile(source)
	if err := c.Put(key, out); err != nil {
		log.Warn("cache store failed", zap.Error(err))
	}
	return out
}
