package tui

import "github.com/nikbrunner/sc/internal/render"

// RowKind distinguishes between section headings and cards in the list.
type RowKind int

const (
	RowSection RowKind = iota
	RowCard
)

// Row is one line of the shortcut list.
type Row struct {
	Kind      RowKind
	Section   *render.Section
	Card      *render.Card
	CardIndex int // index among visible cards, -1 for headings
}

// IsCard returns true if this row is a card.
func (r Row) IsCard() bool {
	return r.Kind == RowCard
}

// buildRows flattens the visible sections into list rows.
// Hidden sections and invisible cards produce no rows.
func buildRows(view render.View) []Row {
	var rows []Row
	cardIndex := 0
	for i := range view.Sections {
		section := &view.Sections[i]
		if section.Hidden {
			continue
		}
		rows = append(rows, Row{Kind: RowSection, Section: section, CardIndex: -1})
		for j := range section.Cards {
			if !section.Cards[j].Visible {
				continue
			}
			rows = append(rows, Row{
				Kind:      RowCard,
				Section:   section,
				Card:      &section.Cards[j],
				CardIndex: cardIndex,
			})
			cardIndex++
		}
	}
	return rows
}
