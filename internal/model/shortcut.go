package model

import (
	"net/url"
	"strings"
	"time"
)

// FallbackGlyph is the icon identifier used when no favicon could be resolved.
const FallbackGlyph = "globe"

// CopySuffix is appended to the name of a duplicated shortcut.
const CopySuffix = " (Copy)"

// Preview holds display metadata resolved for a shortcut's URL.
type Preview struct {
	Image       string `json:"image,omitempty"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
}

// Shortcut represents a named link to a URL.
type Shortcut struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	URL        string    `json:"url"`
	Category   string    `json:"category"` // "" = uncategorized
	IsFavorite bool      `json:"isFavorite"`
	Icon       string    `json:"icon,omitempty"` // icon URL or glyph identifier
	Preview    *Preview  `json:"preview,omitempty"`
	Color      string    `json:"color,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// NewShortcutParams holds parameters for creating a new Shortcut.
type NewShortcutParams struct {
	Name       string
	URL        string
	Category   string
	IsFavorite bool
}

// NewShortcut creates a Shortcut with generated UUID and timestamp.
// Inputs are taken as given; validation happens in Store.Add.
func NewShortcut(params NewShortcutParams) Shortcut {
	return Shortcut{
		ID:         GenerateUUID(),
		Name:       params.Name,
		URL:        params.URL,
		Category:   params.Category,
		IsFavorite: params.IsFavorite,
		CreatedAt:  time.Now(),
	}
}

// Hostname returns the host part of the shortcut URL.
// Falls back to the raw URL when it cannot be parsed.
func (s Shortcut) Hostname() string {
	u, err := url.Parse(s.URL)
	if err != nil || u.Hostname() == "" {
		return s.URL
	}
	return u.Hostname()
}

// HasIconURL reports whether Icon holds a fetchable URL rather than a glyph.
func (s Shortcut) HasIconURL() bool {
	return strings.HasPrefix(s.Icon, "http://") || strings.HasPrefix(s.Icon, "https://")
}

// NormalizeURL trims the input and prefixes https:// when no scheme is given.
// Only http and https URLs with a host are accepted.
func NormalizeURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrEmptyURL
	}

	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", ErrInvalidURL
	}
	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return "", ErrInvalidURL
	}
	if u.Host == "" {
		return "", ErrInvalidURL
	}
	u.Scheme = scheme

	return u.String(), nil
}
