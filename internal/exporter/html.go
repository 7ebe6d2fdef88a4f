package exporter

import (
	"fmt"
	"html"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/nikbrunner/sc/internal/model"
)

const (
	FormatHTML = "html"
	FormatYAML = "yaml"
)

// DefaultExportPath returns the default export file path for a format.
// Format: ~/Downloads/shortcuts-export-YYYY-MM-DD.<ext>
func DefaultExportPath(format string) (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	ext := "html"
	if format == FormatYAML {
		ext = "yaml"
	}
	filename := fmt.Sprintf("shortcuts-export-%s.%s", time.Now().Format("2006-01-02"), ext)
	return filepath.Join(home, "Downloads", filename), nil
}

// ExportHTML exports the store to Netscape bookmark HTML format.
// Each category becomes a folder; uncategorized shortcuts stay at the root.
func ExportHTML(store *model.Store) string {
	var b strings.Builder

	// Header
	b.WriteString("<!DOCTYPE NETSCAPE-Bookmark-file-1>\n")
	b.WriteString("<META HTTP-EQUIV=\"Content-Type\" CONTENT=\"text/html; charset=UTF-8\">\n")
	b.WriteString("<TITLE>Shortcuts</TITLE>\n")
	b.WriteString("<H1>Shortcuts</H1>\n")
	b.WriteString("<DL><p>\n")

	for _, category := range store.Categories {
		shortcuts := shortcutsIn(store, category)
		if len(shortcuts) == 0 {
			continue
		}
		fmt.Fprintf(&b, "    <DT><H3>%s</H3>\n", html.EscapeString(category))
		b.WriteString("    <DL><p>\n")
		writeShortcuts(&b, shortcuts, 2)
		b.WriteString("    </DL><p>\n")
	}

	writeShortcuts(&b, shortcutsIn(store, ""), 1)

	// Footer
	b.WriteString("</DL><p>\n")

	return b.String()
}

// shortcutsIn returns the shortcuts of one category in store order.
func shortcutsIn(store *model.Store, category string) []model.Shortcut {
	var out []model.Shortcut
	for _, sc := range store.Shortcuts {
		if sc.Category == category {
			out = append(out, sc)
		}
	}
	return out
}

// writeShortcuts writes one <DT><A> line per shortcut.
func writeShortcuts(b *strings.Builder, shortcuts []model.Shortcut, indent int) {
	prefix := strings.Repeat("    ", indent)
	for _, sc := range shortcuts {
		var icon string
		if sc.HasIconURL() {
			icon = fmt.Sprintf(" ICON_URI=\"%s\"", html.EscapeString(sc.Icon))
		}
		fmt.Fprintf(b,
			"%s<DT><A HREF=\"%s\" ADD_DATE=\"%d\"%s>%s</A>\n",
			prefix,
			html.EscapeString(sc.URL),
			sc.CreatedAt.Unix(),
			icon,
			html.EscapeString(sc.Name),
		)
	}
}
