// Package picker is the inline chooser shown by `sc open` when a query
// matches more than one shortcut.
package picker

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nikbrunner/sc/internal/model"
	"github.com/nikbrunner/sc/internal/render"
	"github.com/nikbrunner/sc/internal/search"
	"github.com/nikbrunner/sc/internal/tui/layout"
)

// rowsPerResult is the name line plus the host/category line.
const rowsPerResult = 2

var (
	cursorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)
	nameStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	hitStyle    = lipgloss.NewStyle().Underline(true)
	hostStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Italic(true)
	queryStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("99")).Bold(true)
)

type keyMap struct {
	Up     key.Binding
	Down   key.Binding
	Choose key.Binding
	Cancel key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Down, k.Choose, k.Cancel}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

var keys = keyMap{
	Up:     key.NewBinding(key.WithKeys("k", "up", "ctrl+p"), key.WithHelp("k", "up")),
	Down:   key.NewBinding(key.WithKeys("j", "down", "ctrl+n"), key.WithHelp("j/k", "move")),
	Choose: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
	Cancel: key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q/esc", "cancel")),
}

// Picker lets the user choose one of several search results.
type Picker struct {
	results   []search.SearchResult
	query     string
	cursor    int
	selected  bool
	cancelled bool
	width     int
	height    int
	help      help.Model
}

// New returns a picker over results for query.
func New(results []search.SearchResult, query string) Picker {
	return Picker{
		results: results,
		query:   query,
		width:   80,
		height:  24,
		help:    help.New(),
	}
}

// Init implements tea.Model.
func (p Picker) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (p Picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		p.width, p.height = msg.Width, msg.Height
		p.help.Width = msg.Width

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Cancel):
			p.cancelled = true
			return p, tea.Quit
		case key.Matches(msg, keys.Choose):
			p.selected = true
			return p, tea.Quit
		case key.Matches(msg, keys.Down):
			p.cursor = min(p.cursor+1, max(len(p.results)-1, 0))
		case key.Matches(msg, keys.Up):
			p.cursor = max(p.cursor-1, 0)
		}
	}
	return p, nil
}

// View implements tea.Model.
func (p Picker) View() string {
	var b strings.Builder

	b.WriteString(queryStyle.Render(fmt.Sprintf("Open: %s (%d results)", p.query, len(p.results))))
	b.WriteString("\n\n")

	// Header, blank line, blank line and hint bar take five rows.
	start, end := layout.Trailing(p.cursor, len(p.results), (p.height-5)/rowsPerResult)
	for i := start; i < end; i++ {
		b.WriteString(p.renderResult(p.results[i], i == p.cursor))
	}

	b.WriteString("\n")
	b.WriteString(p.help.View(keys))
	return b.String()
}

func (p Picker) renderResult(result search.SearchResult, current bool) string {
	sc := result.Shortcut

	marker, style := "  ", nameStyle
	if current {
		marker, style = "> ", cursorStyle
	}

	where := sc.Hostname()
	if sc.Category != "" {
		where += " · " + render.FormatCategoryName(sc.Category)
	}
	where, _ = layout.Truncate(where, p.width-3, "...")

	return marker + markMatches(sc.Name, result.MatchedIndexes, style) + "\n" +
		"   " + hostStyle.Render(where) + "\n"
}

// markMatches underlines the runes of name that the fuzzy matcher hit.
// matched holds byte offsets into name.
func markMatches(name string, matched []int, style lipgloss.Style) string {
	if len(matched) == 0 {
		return style.Render(name)
	}

	hits := make(map[int]struct{}, len(matched))
	for _, off := range matched {
		hits[off] = struct{}{}
	}

	hit := hitStyle.Inherit(style)
	var b strings.Builder
	for off, r := range name {
		if _, ok := hits[off]; ok {
			b.WriteString(hit.Render(string(r)))
			continue
		}
		b.WriteString(style.Render(string(r)))
	}
	return b.String()
}

// SelectedShortcut returns the chosen shortcut, or nil when the picker was
// cancelled or closed without a choice.
func (p Picker) SelectedShortcut() *model.Shortcut {
	if !p.selected || p.cancelled || p.cursor >= len(p.results) {
		return nil
	}
	return p.results[p.cursor].Shortcut
}

// Cancelled reports whether the user backed out.
func (p Picker) Cancelled() bool {
	return p.cancelled
}
