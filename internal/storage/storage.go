package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/nikbrunner/sc/internal/model"
)

// Storage defines the interface for persisting the shortcut store.
// Save always writes the whole store.
type Storage interface {
	Load() (*model.Store, error)
	Save(store *model.Store) error
}

// JSONStorage implements Storage using a JSON file.
type JSONStorage struct {
	path   string
	logger *zap.Logger
}

// NewJSONStorage creates a new JSONStorage with the given file path.
func NewJSONStorage(path string, logger *zap.Logger) *JSONStorage {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &JSONStorage{path: path, logger: logger}
}

// Path returns the storage file path.
func (s *JSONStorage) Path() string {
	return s.path
}

// Load reads the store from the JSON file.
// Returns a freshly seeded store if the file doesn't exist.
func (s *JSONStorage) Load() (*model.Store, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return model.NewStore(), nil
		}
		return nil, err
	}

	store, err := decodeDocument(data, s.logger)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", s.path, err)
	}
	return store, nil
}

// Save writes the store to the JSON file.
// Writes to a temp file first so a failed write never truncates existing data.
func (s *JSONStorage) Save(store *model.Store) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := encodeDocument(store)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".shortcuts-*.json")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		os.Remove(tmpPath)
		return err
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return err
	}

	s.logger.Debug("saved shortcuts", zap.String("path", s.path), zap.Int("count", len(store.Shortcuts)))
	return nil
}

// DefaultDataDir returns the default data directory: ~/.config/sc
func DefaultDataDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".config", "sc"), nil
}

// OpenStorage opens the backend selected in the config, rooted at dataDir.
// The returned close function must be called when done.
func OpenStorage(cfg *Config, dataDir string, logger *zap.Logger) (Storage, func() error, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	switch cfg.Backend {
	case BackendSQLite:
		s, err := NewSQLiteStorage(filepath.Join(dataDir, "shortcuts.db"), logger)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	case BackendJSON, "":
		s := NewJSONStorage(filepath.Join(dataDir, "shortcuts.json"), logger)
		return s, func() error { return nil }, nil
	default:
		return nil, nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
	}
}
