package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/nikbrunner/sc/internal/model"
)

const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

// ErrUnknownBackend is returned for an unsupported storage backend name.
var ErrUnknownBackend = errors.New("unknown storage backend")

// Duration is a time.Duration that reads and writes as a string like "5s".
type Duration time.Duration

// MarshalJSON implements json.Marshaler.
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// UnmarshalJSON implements json.Unmarshaler. Accepts "300ms" or nanoseconds.
func (d *Duration) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		parsed, err := time.ParseDuration(s)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", s, err)
		}
		*d = Duration(parsed)
		return nil
	}

	var n int64
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("invalid duration %s", data)
	}
	*d = Duration(n)
	return nil
}

// Config holds application configuration.
type Config struct {
	Backend                 string   `json:"backend"`
	IconTimeout             Duration `json:"iconTimeout"`
	SearchDebounce          Duration `json:"searchDebounce"`
	FetchMetadata           bool     `json:"fetchMetadata"`
	PreviewService          string   `json:"previewService"` // URL template with {url}
	RefreshConcurrency      int      `json:"refreshConcurrency"`
	MaxBackgroundImageBytes int      `json:"maxBackgroundImageBytes"`
	NerdFont                bool     `json:"nerdFont"`
	LogFile                 string   `json:"logFile"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Backend:                 BackendJSON,
		IconTimeout:             Duration(5 * time.Second),
		SearchDebounce:          Duration(300 * time.Millisecond),
		FetchMetadata:           true,
		RefreshConcurrency:      4,
		MaxBackgroundImageBytes: model.DefaultMaxBackgroundImageBytes,
	}
}

// LoadConfig reads config from the JSON file.
// Creates the file with defaults if it doesn't exist.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			config := DefaultConfig()
			// Non-fatal: return defaults even if save fails
			_ = SaveConfig(path, &config)
			return &config, nil
		}
		return nil, err
	}

	config := DefaultConfig()
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	// Apply defaults for zero values
	defaults := DefaultConfig()
	if config.Backend == "" {
		config.Backend = defaults.Backend
	}
	if config.IconTimeout <= 0 {
		config.IconTimeout = defaults.IconTimeout
	}
	if config.SearchDebounce <= 0 {
		config.SearchDebounce = defaults.SearchDebounce
	}
	if config.RefreshConcurrency <= 0 {
		config.RefreshConcurrency = defaults.RefreshConcurrency
	}
	if config.MaxBackgroundImageBytes <= 0 {
		config.MaxBackgroundImageBytes = defaults.MaxBackgroundImageBytes
	}

	if config.Backend != BackendJSON && config.Backend != BackendSQLite {
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, config.Backend)
	}

	return &config, nil
}

// SaveConfig writes config to the JSON file.
// Creates the directory if it doesn't exist.
func SaveConfig(path string, config *Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// DefaultConfigFilePath returns the default config path: ~/.config/sc/config.json
func DefaultConfigFilePath() (string, error) {
	dir, err := DefaultDataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}
