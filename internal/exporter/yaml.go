package exporter

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"github.com/nikbrunner/sc/internal/model"
	"github.com/nikbrunner/sc/internal/render"
)

// uncategorizedGroup names the group holding shortcuts without a category.
const uncategorizedGroup = render.UncategorizedTitle

// BookmarkEntry is a single bookmark in the homepage bookmarks.yaml format.
type BookmarkEntry struct {
	Icon string `yaml:"icon,omitempty"`
	Abbr string `yaml:"abbr"`
	Href string `yaml:"href"`
}

// BookmarkGroup maps a group name to its bookmarks. Each bookmark name maps
// to a single-entry list, as the format requires.
type BookmarkGroup map[string][]map[string][]BookmarkEntry

// ExportYAML exports the store as a homepage bookmarks.yaml document.
// Groups follow category order; uncategorized shortcuts come last.
func ExportYAML(store *model.Store) ([]byte, error) {
	var groups []BookmarkGroup

	for _, category := range store.Categories {
		if group, ok := yamlGroup(render.FormatCategoryName(category), shortcutsIn(store, category)); ok {
			groups = append(groups, group)
		}
	}
	if group, ok := yamlGroup(uncategorizedGroup, shortcutsIn(store, "")); ok {
		groups = append(groups, group)
	}

	if groups == nil {
		groups = []BookmarkGroup{}
	}
	return yaml.Marshal(groups)
}

func yamlGroup(name string, shortcuts []model.Shortcut) (BookmarkGroup, bool) {
	if len(shortcuts) == 0 {
		return nil, false
	}

	entries := make([]map[string][]BookmarkEntry, 0, len(shortcuts))
	for _, sc := range shortcuts {
		entry := BookmarkEntry{
			Abbr: abbreviate(sc.Name),
			Href: sc.URL,
		}
		if sc.HasIconURL() {
			entry.Icon = sc.Icon
		}
		entries = append(entries, map[string][]BookmarkEntry{sc.Name: {entry}})
	}
	return BookmarkGroup{name: entries}, true
}

// abbreviate builds the two-letter badge shown when no icon loads.
func abbreviate(name string) string {
	words := strings.FieldsFunc(name, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	var abbr []rune
	switch len(words) {
	case 0:
		return "??"
	case 1:
		for _, r := range words[0] {
			abbr = append(abbr, r)
			if len(abbr) == 2 {
				break
			}
		}
	default:
		r0, _ := utf8.DecodeRuneInString(words[0])
		r1, _ := utf8.DecodeRuneInString(words[1])
		abbr = []rune{r0, r1}
	}
	return strings.ToUpper(string(abbr))
}
