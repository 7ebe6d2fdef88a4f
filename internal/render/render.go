// Package render turns the store and the current filter into a view model.
// It holds no state: every call recomputes sections and card visibility from
// the store, so cards keep their identity across filter changes.
package render

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/nikbrunner/sc/internal/model"
	"github.com/nikbrunner/sc/internal/search"
)

// Action is an operation offered on a card.
type Action string

const (
	ActionEdit      Action = "edit"
	ActionDuplicate Action = "duplicate"
	ActionFavorite  Action = "favorite"
	ActionDelete    Action = "delete"
)

// UncategorizedTitle is the heading of the section without a category.
const UncategorizedTitle = "Uncategorized"

// Card is the display form of one shortcut.
type Card struct {
	ID         string
	Name       string
	URL        string
	Hostname   string
	Icon       string // icon URL or glyph identifier
	Color      string
	IsFavorite bool
	Visible    bool
	Actions    []Action
}

// Section groups the cards of one category.
type Section struct {
	Category string // "" for uncategorized
	Title    string
	Hidden   bool // no visible cards
	Cards    []Card
}

// VisibleCards returns the cards that pass the filter.
func (s Section) VisibleCards() []Card {
	var cards []Card
	for _, c := range s.Cards {
		if c.Visible {
			cards = append(cards, c)
		}
	}
	return cards
}

// View is the full rendering of a store under a filter.
type View struct {
	Sections     []Section
	Empty        bool // store has no shortcuts
	VisibleCount int
	Total        int
}

// VisibleCards returns every visible card in display order.
func (v View) VisibleCards() []Card {
	var cards []Card
	for _, s := range v.Sections {
		cards = append(cards, s.VisibleCards()...)
	}
	return cards
}

// Build groups shortcuts into sections and marks each card visible or not.
// The uncategorized section comes first, then categories in order of first
// appearance among the shortcuts.
func Build(store *model.Store, filter search.Filter) View {
	view := View{
		Empty: len(store.Shortcuts) == 0,
		Total: len(store.Shortcuts),
	}

	index := make(map[string]int)
	var uncategorized *Section
	for _, sc := range store.Shortcuts {
		card := NewCard(sc)
		card.Visible = filter.Matches(sc)
		if card.Visible {
			view.VisibleCount++
		}

		if sc.Category == "" {
			if uncategorized == nil {
				uncategorized = &Section{Title: UncategorizedTitle}
			}
			uncategorized.Cards = append(uncategorized.Cards, card)
			continue
		}

		i, ok := index[sc.Category]
		if !ok {
			i = len(view.Sections)
			index[sc.Category] = i
			view.Sections = append(view.Sections, Section{
				Category: sc.Category,
				Title:    FormatCategoryName(sc.Category),
			})
		}
		view.Sections[i].Cards = append(view.Sections[i].Cards, card)
	}

	if uncategorized != nil {
		view.Sections = append([]Section{*uncategorized}, view.Sections...)
	}

	for i := range view.Sections {
		view.Sections[i].Hidden = len(view.Sections[i].VisibleCards()) == 0
	}

	return view
}

// NewCard builds the display form of a shortcut. Visible is left false.
func NewCard(sc model.Shortcut) Card {
	icon := sc.Icon
	if icon == "" {
		icon = model.FallbackGlyph
	}
	return Card{
		ID:         sc.ID,
		Name:       sc.Name,
		URL:        sc.URL,
		Hostname:   sc.Hostname(),
		Icon:       icon,
		Color:      sc.Color,
		IsFavorite: sc.IsFavorite,
		Actions:    []Action{ActionEdit, ActionDuplicate, ActionFavorite, ActionDelete},
	}
}

// FormatCategoryName upper-cases the first letter of a category.
func FormatCategoryName(name string) string {
	if name == "" {
		return UncategorizedTitle
	}
	r, size := utf8.DecodeRuneInString(name)
	return string(unicode.ToUpper(r)) + name[size:]
}

// ShortID returns the leading part of an ID shown in listings.
func ShortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// Outline renders the visible part of a view as plain text.
func Outline(view View) string {
	if view.Empty {
		return "No shortcuts yet. Add one with: sc add <name> <url>\n"
	}
	if view.VisibleCount == 0 {
		return "No shortcuts match the current filter.\n"
	}

	var b strings.Builder
	first := true
	for _, section := range view.Sections {
		if section.Hidden {
			continue
		}
		if !first {
			b.WriteString("\n")
		}
		first = false

		cards := section.VisibleCards()
		fmt.Fprintf(&b, "%s (%d)\n", section.Title, len(cards))
		for _, card := range cards {
			mark := "-"
			if card.IsFavorite {
				mark = "*"
			}
			fmt.Fprintf(&b, "  %s %s %s  %s\n", ShortID(card.ID), mark, card.Name, card.Hostname)
		}
	}
	fmt.Fprintf(&b, "\n%d of %d shown\n", view.VisibleCount, view.Total)
	return b.String()
}
