package search

import (
	"strings"

	"github.com/nikbrunner/sc/internal/model"
	"github.com/sahilm/fuzzy"
)

// Filter names double as reserved category names, so a category can never
// shadow them.
const (
	FilterAll       = model.CategoryAll
	FilterFavorites = model.CategoryFavorites
)

// Filter selects the visible subset of shortcuts.
// Current is FilterAll, FilterFavorites or a category name.
type Filter struct {
	SearchTerm string
	Current    string
}

// NewFilter returns a filter that shows everything.
func NewFilter() Filter {
	return Filter{Current: FilterAll}
}

// Matches reports whether the shortcut passes both the search term and the
// category/favorite selector.
func (f Filter) Matches(sc model.Shortcut) bool {
	if !f.matchesTerm(sc) {
		return false
	}

	switch f.Current {
	case FilterAll, "":
		return true
	case FilterFavorites:
		return sc.IsFavorite
	default:
		return sc.Category == model.NormalizeCategory(f.Current)
	}
}

func (f Filter) matchesTerm(sc model.Shortcut) bool {
	term := strings.ToLower(strings.TrimSpace(f.SearchTerm))
	if term == "" {
		return true
	}
	return strings.Contains(strings.ToLower(sc.Name), term) ||
		strings.Contains(strings.ToLower(sc.URL), term)
}

// IsActive reports whether the filter hides anything.
func (f Filter) IsActive() bool {
	return strings.TrimSpace(f.SearchTerm) != "" || (f.Current != FilterAll && f.Current != "")
}

// Label returns a short description of the selector for status lines.
func (f Filter) Label() string {
	switch f.Current {
	case FilterAll, "":
		return "All"
	case FilterFavorites:
		return "Favorites"
	default:
		return f.Current
	}
}

// Cycle advances the selector: all → favorites → each category → all.
// An unknown current category restarts at all.
func (f Filter) Cycle(categories []string) Filter {
	order := append([]string{FilterAll, FilterFavorites}, categories...)

	current := f.Current
	if current == "" {
		current = FilterAll
	}
	for i, c := range order {
		if c == current {
			f.Current = order[(i+1)%len(order)]
			return f
		}
	}
	f.Current = FilterAll
	return f
}

// Visible returns the shortcuts that pass the filter, in store order.
func Visible(store *model.Store, filter Filter) []*model.Shortcut {
	var visible []*model.Shortcut
	for i := range store.Shortcuts {
		if filter.Matches(store.Shortcuts[i]) {
			visible = append(visible, &store.Shortcuts[i])
		}
	}
	return visible
}

// SearchResult represents a fuzzy search match.
type SearchResult struct {
	Shortcut       *model.Shortcut
	MatchedIndexes []int
	Score          int
}

// shortcutNames implements fuzzy.Source for a shortcut slice.
type shortcutNames []*model.Shortcut

func (sn shortcutNames) String(i int) string {
	return sn[i].Name
}

func (sn shortcutNames) Len() int {
	return len(sn)
}

// FuzzySearchShortcuts searches all shortcuts by name using fuzzy matching.
// Returns results sorted by match score (best first).
func FuzzySearchShortcuts(store *model.Store, query string) []SearchResult {
	if query == "" {
		return nil
	}

	shortcuts := make(shortcutNames, len(store.Shortcuts))
	for i := range store.Shortcuts {
		shortcuts[i] = &store.Shortcuts[i]
	}

	matches := fuzzy.FindFrom(query, shortcuts)

	results := make([]SearchResult, len(matches))
	for i, m := range matches {
		results[i] = SearchResult{
			Shortcut:       shortcuts[m.Index],
			MatchedIndexes: m.MatchedIndexes,
			Score:          m.Score,
		}
	}

	return results
}
