package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/nikbrunner/sc/internal/model"
)

// Styles holds all lipgloss styles for the TUI.
type Styles struct {
	App          lipgloss.Style
	Pane         lipgloss.Style
	PaneActive   lipgloss.Style
	Modal        lipgloss.Style
	Title        lipgloss.Style
	Section      lipgloss.Style // Category heading in the list
	Item         lipgloss.Style
	ItemSelected lipgloss.Style
	URL          lipgloss.Style
	Label        lipgloss.Style // Field labels in the detail pane
	Match        lipgloss.Style // Search term inside names
	Help         lipgloss.Style
	Empty        lipgloss.Style
	HintKey      lipgloss.Style // Key portion of hints (e.g., "Enter", "j/k")
	HintDesc     lipgloss.Style // Description portion of hints (e.g., "confirm", "move")
	HintLabel    lipgloss.Style // Row label in the help bar ("Local", "Global")

	Accent     lipgloss.TerminalColor
	Background lipgloss.TerminalColor // nil = terminal default

	palette palette
}

// palette is the handful of colors every style derives from.
type palette struct {
	text       lipgloss.TerminalColor
	muted      lipgloss.TerminalColor
	border     lipgloss.TerminalColor
	accent     lipgloss.TerminalColor
	onAccent   lipgloss.TerminalColor // text drawn on accent fills
	background lipgloss.TerminalColor // nil = terminal default
}

// industrial is grayscale with a single desaturated teal accent.
var industrial = palette{
	text:     lipgloss.AdaptiveColor{Light: "#505050", Dark: "#A0A0A0"},
	muted:    lipgloss.AdaptiveColor{Light: "#888888", Dark: "#606060"},
	border:   lipgloss.AdaptiveColor{Light: "#888888", Dark: "#505050"},
	accent:   lipgloss.AdaptiveColor{Light: "#4A7070", Dark: "#5F8787"},
	onAccent: lipgloss.Color("#1A1A1A"),
}

// DefaultStyles returns the industrial look used until settings say otherwise.
func DefaultStyles() Styles {
	return industrial.styles()
}

func (p palette) styles() Styles {
	fg := func(c lipgloss.TerminalColor) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(c)
	}
	frame := func(c lipgloss.TerminalColor) lipgloss.Style {
		return lipgloss.NewStyle().Border(lipgloss.ThickBorder()).BorderForeground(c)
	}

	return Styles{
		App:          lipgloss.NewStyle().Padding(1, 2, 0),
		Pane:         frame(p.border).Padding(0, 1),
		PaneActive:   frame(p.accent).Padding(0, 1),
		Modal:        frame(p.accent).Padding(1, 2),
		Title:        fg(p.accent).Bold(true),
		Section:      fg(p.muted).Bold(true),
		Item:         fg(p.text),
		ItemSelected: fg(p.onAccent).Background(p.accent),
		URL:          fg(p.muted),
		Label:        fg(p.muted),
		Match:        lipgloss.NewStyle().Underline(true).Bold(true),
		Help:         fg(p.muted),
		Empty:        fg(p.muted),
		HintKey:      fg(p.accent),
		HintDesc:     fg(p.muted),
		HintLabel:    fg(p.muted).Bold(true),

		Accent:     p.accent,
		Background: p.background,
		palette:    p,
	}
}

// WithTheme applies the user's appearance settings: the button color becomes
// the accent and the background color fills the screen.
// Invalid colors keep the current ones.
func (s Styles) WithTheme(settings model.Settings) Styles {
	p := s.palette
	if c, err := colorful.Hex(settings.ButtonColor); err == nil {
		p.accent = lipgloss.Color(settings.ButtonColor)
		p.onAccent = lipgloss.Color(contrastText(c))
	}
	if _, err := colorful.Hex(settings.BackgroundColor); err == nil {
		p.background = lipgloss.Color(settings.BackgroundColor)
	}
	return p.styles()
}

// contrastText picks dark or light text for a filled background.
func contrastText(bg colorful.Color) string {
	l, _, _ := bg.Lab()
	if l > 0.6 {
		return "#1A1A1A"
	}
	return "#F0F0F0"
}
