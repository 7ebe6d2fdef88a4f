package model

import (
	"encoding/base64"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

const (
	DefaultBackgroundColor = "#1a1a1a"
	DefaultButtonColor     = "#5f8787"

	// DefaultMaxBackgroundImageBytes caps uploaded background images (5 MiB).
	DefaultMaxBackgroundImageBytes = 5 << 20
)

// Settings holds appearance preferences persisted alongside shortcuts.
type Settings struct {
	BackgroundColor string `json:"backgroundColor"`
	ButtonColor     string `json:"buttonColor"`
	BackgroundImage string `json:"backgroundImage,omitempty"` // data: URL
}

// DefaultSettings returns the settings used for a fresh store.
func DefaultSettings() Settings {
	return Settings{
		BackgroundColor: DefaultBackgroundColor,
		ButtonColor:     DefaultButtonColor,
	}
}

// HasBackgroundImage reports whether a background image is set.
func (s Settings) HasBackgroundImage() bool {
	return s.BackgroundImage != ""
}

// NormalizeColor validates a hex color and returns it as lowercase #rrggbb.
// Accepts #rgb and #rrggbb, with or without the leading '#'.
func NormalizeColor(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrInvalidColor
	}
	raw = strings.TrimPrefix(raw, "#")
	if len(raw) != 3 && len(raw) != 6 {
		return "", ErrInvalidColor
	}
	for _, r := range raw {
		if !strings.ContainsRune("0123456789abcdefABCDEF", r) {
			return "", ErrInvalidColor
		}
	}
	raw = "#" + raw

	c, err := colorful.Hex(raw)
	if err != nil {
		return "", ErrInvalidColor
	}
	return c.Hex(), nil
}

// EncodeDataURL builds a data: URL for an image payload.
func EncodeDataURL(data []byte, mimeType string) string {
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// BackgroundImageInfo returns the MIME type and decoded size of the
// background image, or ok=false when none is set or the data URL is malformed.
func (s Settings) BackgroundImageInfo() (mimeType string, size int, ok bool) {
	rest, found := strings.CutPrefix(s.BackgroundImage, "data:")
	if !found {
		return "", 0, false
	}
	meta, payload, found := strings.Cut(rest, ",")
	if !found {
		return "", 0, false
	}
	mimeType, isBase64 := strings.CutSuffix(meta, ";base64")
	if !isBase64 {
		return mimeType, len(payload), true
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", 0, false
	}
	return mimeType, len(data), true
}
