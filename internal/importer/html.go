// Package importer reads shortcuts exported by browsers.
package importer

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/nikbrunner/sc/internal/model"
)

// ParseHTMLShortcuts parses Netscape bookmark HTML as exported by browsers.
// Each folder (H3) becomes a category; shortcuts in nested folders take the
// innermost folder's name. Links outside any folder are uncategorized.
// URLs are returned as found; validation happens in Store.ImportMerge.
func ParseHTMLShortcuts(r io.Reader) ([]model.ImportedShortcut, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse bookmark file: %w", err)
	}

	var w walker
	w.visit(doc)
	return w.found, nil
}

// walker tracks the folder nesting of a bookmark document. A folder heading
// names the <DL> list that follows it.
type walker struct {
	folders []string
	heading string
	found   []model.ImportedShortcut
}

func (w *walker) visit(n *html.Node) {
	if n.Type == html.ElementNode {
		switch n.DataAtom {
		case atom.H3:
			w.heading = model.NormalizeCategory(textOf(n))
			return
		case atom.A:
			w.link(n)
			return
		case atom.Dl:
			w.list(n)
			return
		}
	}
	w.children(n)
}

func (w *walker) children(n *html.Node) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		w.visit(c)
	}
}

func (w *walker) list(n *html.Node) {
	if w.heading == "" {
		w.children(n)
		return
	}

	w.folders = append(w.folders, w.heading)
	w.heading = ""
	w.children(n)
	w.folders = w.folders[:len(w.folders)-1]
}

func (w *walker) link(n *html.Node) {
	href := strings.TrimSpace(attr(n, "href"))
	if href == "" {
		return
	}

	sc := model.ImportedShortcut{
		Name: textOf(n),
		URL:  href,
	}
	if sc.Name == "" {
		sc.Name = href
	}
	if len(w.folders) > 0 {
		sc.Category = w.folders[len(w.folders)-1]
	}
	if secs, err := strconv.ParseInt(attr(n, "add_date"), 10, 64); err == nil {
		sc.CreatedAt = time.Unix(secs, 0)
	}
	// Browsers inline favicons as data URLs; only remote icons are kept.
	if icon := attr(n, "icon_uri"); strings.HasPrefix(icon, "http://") || strings.HasPrefix(icon, "https://") {
		sc.Icon = icon
	}

	w.found = append(w.found, sc)
}

// textOf concatenates the text below n, trimmed.
func textOf(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.TrimSpace(b.String())
}

// attr returns the value of key on n. The parser lowercases attribute names.
func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
