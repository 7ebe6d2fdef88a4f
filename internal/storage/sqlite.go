package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/nikbrunner/sc/internal/model"
)

// sqlitePragmas are applied by the driver to every new connection.
var sqlitePragmas = []string{
	"journal_mode(WAL)",
	"synchronous(NORMAL)",
	"busy_timeout(5000)",
}

// schema holds one step per schema version; step i brings the database to
// version i+1.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS kv (
		key        TEXT PRIMARY KEY NOT NULL,
		value      TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,
}

const upsertKV = `INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
	ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`

// SQLiteStorage keeps the state document in a key-value table.
// Legacy split keys are read when no document exists yet and removed on the
// next save.
type SQLiteStorage struct {
	db     *sql.DB
	path   string
	logger *zap.Logger
}

// NewSQLiteStorage opens (creating if needed) the database at path and
// brings its schema up to date.
func NewSQLiteStorage(path string, logger *zap.Logger) (*SQLiteStorage, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	db, err := sql.Open("sqlite", path+"?_pragma="+strings.Join(sqlitePragmas, "&_pragma="))
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	s := &SQLiteStorage{db: db, path: path, logger: logger}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate %s: %w", path, err)
	}
	return s, nil
}

// Path returns the database file path.
func (s *SQLiteStorage) Path() string {
	return s.path
}

// Close closes the database.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// migrate applies the schema steps newer than the database's user_version.
func (s *SQLiteStorage) migrate() error {
	var version int
	if err := s.db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return err
	}

	for v := version; v < len(schema); v++ {
		if _, err := s.db.Exec(schema[v]); err != nil {
			return fmt.Errorf("schema step %d: %w", v+1, err)
		}
		// PRAGMA does not take bind parameters.
		if _, err := s.db.Exec(fmt.Sprintf("PRAGMA user_version = %d", v+1)); err != nil {
			return err
		}
		s.logger.Debug("migrated database", zap.String("path", s.path), zap.Int("version", v+1))
	}
	return nil
}

// Get returns the raw value stored under key.
func (s *SQLiteStorage) Get(key string) (string, bool, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM kv WHERE key = ?", key).Scan(&value)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return "", false, nil
	case err != nil:
		return "", false, fmt.Errorf("read %q: %w", key, err)
	}
	return value, true, nil
}

// Set stores a raw value under key.
func (s *SQLiteStorage) Set(key, value string) error {
	if _, err := s.db.Exec(upsertKV, key, value, now()); err != nil {
		return fmt.Errorf("write %q: %w", key, err)
	}
	return nil
}

// Load reads the store. A database without a state document falls back to
// the legacy keys, and an empty one yields an empty store.
func (s *SQLiteStorage) Load() (*model.Store, error) {
	state, ok, err := s.Get(stateKey)
	if err != nil {
		return nil, err
	}
	if ok {
		store, err := decodeDocument([]byte(state), s.logger)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", s.path, err)
		}
		return store, nil
	}

	legacy := make(map[string]string)
	for _, key := range legacyKeys {
		value, ok, err := s.Get(key)
		if err != nil {
			return nil, err
		}
		if ok {
			legacy[key] = value
		}
	}
	if len(legacy) == 0 {
		return model.NewStore(), nil
	}
	return decodeLegacy(legacy, s.logger), nil
}

// Save replaces the state document and drops any legacy keys in one
// transaction.
func (s *SQLiteStorage) Save(store *model.Store) error {
	data, err := encodeDocument(store)
	if err != nil {
		return err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(upsertKV, stateKey, string(data), now()); err != nil {
		return fmt.Errorf("write state: %w", err)
	}
	for _, key := range legacyKeys {
		if _, err := tx.Exec("DELETE FROM kv WHERE key = ?", key); err != nil {
			return fmt.Errorf("drop %q: %w", key, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}

	s.logger.Debug("saved shortcuts", zap.String("path", s.path), zap.Int("count", len(store.Shortcuts)))
	return nil
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}
