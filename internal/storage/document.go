package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/nikbrunner/sc/internal/model"
)

// CurrentVersion is the schema version written by Save.
const CurrentVersion = 2

// stateKey holds the versioned document in key-value backends.
const stateKey = "state"

// Fields of the legacy split-key scheme, one value per key. Each field was
// stored either under its bare name or with legacyKeyPrefix in front of the
// capitalized name ("atomalhosShortcuts").
const (
	legacyShortcutsKey   = "shortcuts"
	legacyCategoriesKey  = "categories"
	legacyBgColorKey     = "bgColor"
	legacyButtonColorKey = "buttonColor"
	legacyBgImageKey     = "bgImage"

	legacyKeyPrefix = "atomalhos"
)

var legacyFields = []string{
	legacyShortcutsKey,
	legacyCategoriesKey,
	legacyBgColorKey,
	legacyButtonColorKey,
	legacyBgImageKey,
}

// legacyKeys lists every key name the split-key scheme used.
var legacyKeys = func() []string {
	keys := make([]string, 0, 2*len(legacyFields))
	for _, field := range legacyFields {
		keys = append(keys, field, prefixedKey(field))
	}
	return keys
}()

func prefixedKey(field string) string {
	return legacyKeyPrefix + strings.ToUpper(field[:1]) + field[1:]
}

// legacyValue returns the value stored for field under either key name,
// preferring the prefixed one.
func legacyValue(values map[string]string, field string) (string, bool) {
	if v, ok := values[prefixedKey(field)]; ok {
		return v, true
	}
	v, ok := values[field]
	return v, ok
}

// ErrMalformedDocument is returned when stored data is not a JSON object or
// is an object this program does not recognise.
var ErrMalformedDocument = errors.New("malformed shortcut document")

// document is the on-disk shape written by Save.
type document struct {
	Version    int              `json:"version"`
	Shortcuts  []model.Shortcut `json:"shortcuts"`
	Categories []string         `json:"categories"`
	Settings   model.Settings   `json:"settings"`
}

// storedDocument is the permissive shape used when reading.
type storedDocument struct {
	Version    *int              `json:"version"`
	Shortcuts  []json.RawMessage `json:"shortcuts"`
	Categories []string          `json:"categories"`
	Settings   *model.Settings   `json:"settings"`
}

// storedShortcut accepts records from every schema version.
// Version 0 records have no category or favorite flag and may use "title".
type storedShortcut struct {
	model.Shortcut
	Title     string          `json:"title,omitempty"`
	CreatedAt json.RawMessage `json:"createdAt,omitempty"`
}

// encodeDocument serializes the full store as the current schema.
func encodeDocument(store *model.Store) ([]byte, error) {
	doc := document{
		Version:    CurrentVersion,
		Shortcuts:  store.Shortcuts,
		Categories: store.Categories,
		Settings:   store.Settings,
	}
	if doc.Shortcuts == nil {
		doc.Shortcuts = []model.Shortcut{}
	}
	if doc.Categories == nil {
		doc.Categories = []string{}
	}
	return json.MarshalIndent(doc, "", "  ")
}

// decodeDocument reads a document of any known version.
// A top-level object holding prefixed legacy keys, or whose "shortcuts" value
// is a string, is treated as a dump of the legacy split-key scheme.
// Objects with neither a version nor shortcuts are rejected so that a foreign
// file is never overwritten with an empty store.
func decodeDocument(data []byte, logger *zap.Logger) (*model.Store, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}
	if top == nil {
		return nil, fmt.Errorf("%w: top level is null", ErrMalformedDocument)
	}

	if isLegacyDump(top) {
		values := make(map[string]string, len(top))
		for key, raw := range top {
			var s string
			if err := json.Unmarshal(raw, &s); err == nil {
				values[key] = s
			} else {
				// Some exports keep arrays parsed rather than as strings.
				values[key] = string(raw)
			}
		}
		return decodeLegacy(values, logger), nil
	}

	_, hasVersion := top["version"]
	_, hasShortcuts := top[legacyShortcutsKey]
	if !hasVersion && !hasShortcuts {
		return nil, fmt.Errorf("%w: no version or shortcuts field", ErrMalformedDocument)
	}

	var doc storedDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}

	version := 0
	if doc.Version != nil {
		version = *doc.Version
	}
	if version > CurrentVersion {
		logger.Warn("document written by a newer version, reading best-effort",
			zap.Int("version", version))
	}

	store := &model.Store{
		Shortcuts:  decodeShortcuts(doc.Shortcuts, logger),
		Categories: doc.Categories,
		Settings:   model.DefaultSettings(),
	}
	if doc.Settings != nil {
		store.Settings = *doc.Settings
	}
	if store.Categories == nil && version < CurrentVersion {
		store.Categories = append([]string{}, model.DefaultCategories...)
	}

	if fixes := store.Repair(); fixes > 0 {
		logger.Info("repaired stored data", zap.Int("fixes", fixes), zap.Int("version", version))
	}
	return store, nil
}

// decodeLegacy builds a store from the split-key scheme, where each value is
// stored under its own key and colors are plain strings.
func decodeLegacy(values map[string]string, logger *zap.Logger) *model.Store {
	store := &model.Store{
		Shortcuts:  []model.Shortcut{},
		Categories: append([]string{}, model.DefaultCategories...),
		Settings:   model.DefaultSettings(),
	}

	if raw, ok := legacyValue(values, legacyShortcutsKey); ok {
		var records []json.RawMessage
		if err := json.Unmarshal([]byte(raw), &records); err != nil {
			logger.Warn("discarding unreadable legacy shortcuts", zap.Error(err))
		} else {
			store.Shortcuts = decodeShortcuts(records, logger)
		}
	}
	if raw, ok := legacyValue(values, legacyCategoriesKey); ok {
		var categories []string
		if err := json.Unmarshal([]byte(raw), &categories); err != nil {
			logger.Warn("discarding unreadable legacy categories", zap.Error(err))
		} else {
			store.Categories = categories
		}
	}
	if v, _ := legacyValue(values, legacyBgColorKey); v != "" {
		store.Settings.BackgroundColor = v
	}
	if v, _ := legacyValue(values, legacyButtonColorKey); v != "" {
		store.Settings.ButtonColor = v
	}
	if v, _ := legacyValue(values, legacyBgImageKey); v != "" && v != "null" {
		store.Settings.BackgroundImage = v
	}

	fixes := store.Repair()
	logger.Info("migrated legacy split-key data",
		zap.Int("shortcuts", len(store.Shortcuts)), zap.Int("fixes", fixes))
	return store
}

// decodeShortcuts decodes records one by one, skipping unreadable ones.
func decodeShortcuts(records []json.RawMessage, logger *zap.Logger) []model.Shortcut {
	shortcuts := make([]model.Shortcut, 0, len(records))
	for i, rec := range records {
		var stored storedShortcut
		if err := json.Unmarshal(rec, &stored); err != nil {
			logger.Warn("skipping unreadable shortcut record", zap.Int("index", i), zap.Error(err))
			continue
		}

		sc := stored.Shortcut
		if sc.Name == "" {
			sc.Name = stored.Title
		}
		if sc.URL == "" {
			logger.Warn("skipping shortcut without URL", zap.Int("index", i))
			continue
		}
		if sc.Name == "" {
			sc.Name = sc.URL
		}
		sc.CreatedAt = parseTimestamp(stored.CreatedAt)
		if isIconClass(sc.Icon) {
			sc.Icon = model.FallbackGlyph
		}

		shortcuts = append(shortcuts, sc)
	}
	return shortcuts
}

// parseTimestamp accepts RFC 3339 strings and Unix milliseconds.
// Anything else yields the zero time, which Repair replaces.
func parseTimestamp(raw json.RawMessage) time.Time {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return time.Time{}
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
			return t
		}
		if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
			return time.UnixMilli(ms)
		}
		return time.Time{}
	}

	var ms int64
	if err := json.Unmarshal(raw, &ms); err == nil {
		return time.UnixMilli(ms)
	}
	return time.Time{}
}

// isLegacyDump reports whether top is a split-key dump rather than a
// versioned document.
func isLegacyDump(top map[string]json.RawMessage) bool {
	for _, field := range legacyFields {
		if _, ok := top[prefixedKey(field)]; ok {
			return true
		}
	}
	raw, ok := top[legacyShortcutsKey]
	return ok && isJSONString(raw)
}

// isIconClass matches icon-font class lists such as "fas fa-globe", which
// older data stored in place of a favicon URL.
func isIconClass(icon string) bool {
	for _, class := range strings.Fields(icon) {
		if strings.HasPrefix(class, "fa-") {
			return true
		}
	}
	return false
}

func isJSONString(raw json.RawMessage) bool {
	return strings.HasPrefix(strings.TrimSpace(string(raw)), `"`)
}
