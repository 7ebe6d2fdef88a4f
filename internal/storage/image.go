package storage

import (
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/nikbrunner/sc/internal/model"
)

// ReadImageFile reads a background image from disk and detects its MIME type.
// Files over maxBytes are rejected before reading; maxBytes <= 0 uses
// model.DefaultMaxBackgroundImageBytes. A leading ~ expands to the home dir.
func ReadImageFile(path string, maxBytes int) ([]byte, string, error) {
	if maxBytes <= 0 {
		maxBytes = model.DefaultMaxBackgroundImageBytes
	}

	path, err := expandHome(path)
	if err != nil {
		return nil, "", err
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read image: %w", err)
	}
	if info.Size() > int64(maxBytes) {
		return nil, "", fmt.Errorf("%w: %s is %d bytes, limit is %d", model.ErrImageTooLarge, filepath.Base(path), info.Size(), maxBytes)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read image: %w", err)
	}

	mimeType := detectImageType(path, data)
	if !strings.HasPrefix(mimeType, "image/") {
		return nil, "", fmt.Errorf("%w: %s (%s)", model.ErrNotAnImage, filepath.Base(path), mimeType)
	}
	return data, mimeType, nil
}

// detectImageType sniffs the content; SVG and other text-based formats
// fall back to the file extension.
func detectImageType(path string, data []byte) string {
	sniffed := http.DetectContentType(data)
	if strings.HasPrefix(sniffed, "image/") {
		return sniffed
	}
	if byExt := mime.TypeByExtension(strings.ToLower(filepath.Ext(path))); strings.HasPrefix(byExt, "image/") {
		return byExt
	}
	return sniffed
}

func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
