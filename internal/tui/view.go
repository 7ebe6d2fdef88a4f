package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/nikbrunner/sc/internal/model"
	"github.com/nikbrunner/sc/internal/render"
	"github.com/nikbrunner/sc/internal/tui/layout"
)

// renderView creates the complete list + detail view.
func (a App) renderView() string {
	switch a.mode {
	case ModeNormal, ModeSearch:
	case ModeHelp:
		return a.renderHelpOverlay()
	default:
		return a.renderModal()
	}

	panes := layout.Split(a.width, a.height, a.layoutConfig.Pane)

	columns := a.renderListPane(panes)
	if panes.ShowDetail() {
		columns = lipgloss.JoinHorizontal(
			lipgloss.Top,
			columns,
			a.renderDetailPane(panes.Detail, panes.Height),
		)
	}

	content := a.styles.App.Render(
		lipgloss.JoinVertical(lipgloss.Left, a.renderHeader(), columns, a.renderHelpBar()),
	)

	return a.place(lipgloss.Left, lipgloss.Top, content)
}

// place fills the terminal, painting the background color if one is set.
func (a App) place(hPos, vPos lipgloss.Position, content string) string {
	var opts []lipgloss.WhitespaceOption
	if a.styles.Background != nil {
		opts = append(opts, lipgloss.WithWhitespaceBackground(a.styles.Background))
	}
	return lipgloss.Place(a.width, a.height, hPos, vPos, content, opts...)
}

// renderHeader renders the title line with filter, counts and search.
func (a App) renderHeader() string {
	var b strings.Builder
	b.WriteString(a.styles.Title.Render("Shortcuts"))
	b.WriteString("  ")
	b.WriteString(a.filterLabel())
	b.WriteString(a.styles.Help.Render(fmt.Sprintf(" · %d/%d", a.view.VisibleCount, a.view.Total)))

	if a.mode == ModeSearch {
		b.WriteString("  ")
		b.WriteString(a.search.Input.View())
	} else if a.filter.SearchTerm != "" {
		b.WriteString("  ")
		b.WriteString(a.styles.HintKey.Render("/" + a.filter.SearchTerm))
	}

	width := a.width - a.styles.App.GetHorizontalPadding()
	header, _ := layout.Truncate(b.String(), width, a.layoutConfig.Ellipsis)
	return header
}

// renderListPane renders the sections and cards that pass the filter.
func (a App) renderListPane(panes layout.Panes) string {
	style := a.styles.PaneActive.Width(panes.List).Height(panes.Height)

	if a.view.Empty {
		return style.Render(a.styles.Empty.Render("No shortcuts yet. Press a to add one."))
	}
	if len(a.rows) == 0 {
		msg := "No shortcuts match"
		if a.filter.SearchTerm != "" {
			msg += fmt.Sprintf(" %q", a.filter.SearchTerm)
		}
		msg += " in " + a.filterLabel()
		return style.Render(a.styles.Empty.Render(msg))
	}

	itemWidth := panes.RowWidth(a.layoutConfig.Pane)

	selectedRow := 0
	for i, row := range a.rows {
		if row.IsCard() && row.CardIndex == a.cursor {
			selectedRow = i
			break
		}
	}

	start, end := layout.Centered(selectedRow, len(a.rows), panes.Height)

	lines := make([]string, 0, end-start)
	for _, row := range a.rows[start:end] {
		if row.IsCard() {
			lines = append(lines, a.renderCard(*row.Card, row.CardIndex == a.cursor, itemWidth))
			continue
		}
		heading := fmt.Sprintf("%s%s (%d)", render.SectionMark(a.nerdFont), row.Section.Title, len(row.Section.VisibleCards()))
		heading, _ = layout.Truncate(heading, itemWidth, a.layoutConfig.Ellipsis)
		lines = append(lines, a.styles.Section.Render(heading))
	}

	return style.Render(strings.Join(lines, "\n"))
}

// renderCard renders one card row: favorite mark, glyph, name, hostname.
func (a App) renderCard(card render.Card, selected bool, maxWidth int) string {
	prefix := " " + render.FavoriteMark(card.IsFavorite, a.nerdFont) + " " + render.Glyph(card.Icon, a.nerdFont) + " "
	available := maxWidth - layout.Width(prefix)

	name, truncated := layout.Truncate(card.Name, available, a.layoutConfig.Ellipsis)
	host := ""
	if !truncated {
		// Hostname only when at least a few characters fit
		if room := available - layout.Width(name) - 2; room >= 4 {
			host, _ = layout.Truncate(card.Hostname, room, a.layoutConfig.Ellipsis)
		}
	}

	if selected {
		line := prefix + name
		if host != "" {
			line += "  " + host
		}
		return a.styles.ItemSelected.Render(layout.PadRight(line, maxWidth))
	}

	nameStyle := a.styles.Item
	if card.Color != "" {
		nameStyle = nameStyle.Foreground(lipgloss.Color(card.Color))
	}
	matchStyle := a.styles.Match.Inherit(nameStyle)

	line := a.styles.Item.Render(prefix) +
		layout.Highlight(name, a.filter.SearchTerm,
			func(s string) string { return nameStyle.Render(s) },
			func(s string) string { return matchStyle.Render(s) })
	if host != "" {
		line += "  " + a.styles.URL.Render(host)
	}
	return line
}

// renderDetailPane renders the shortcut under the cursor.
func (a App) renderDetailPane(width, height int) string {
	style := a.styles.Pane.Width(width).Height(height)
	textWidth := width - a.styles.Pane.GetHorizontalPadding()

	card, ok := a.SelectedCard()
	if !ok {
		return style.Render(a.styles.Empty.Render("Nothing selected"))
	}
	sc := a.store.ShortcutByID(card.ID)
	if sc == nil {
		return style.Render(a.styles.Empty.Render("Nothing selected"))
	}

	fit := func(s string) string {
		out, _ := layout.Truncate(s, textWidth, a.layoutConfig.Ellipsis)
		return out
	}
	field := func(label, value string) string {
		return a.styles.Label.Render(fmt.Sprintf("%-9s", label)) + fit(value)
	}

	favorite := "no"
	if sc.IsFavorite {
		favorite = "yes"
	}

	lines := []string{
		a.styles.Title.Render(fit(sc.Name)),
		a.styles.URL.Render(fit(sc.URL)),
		"",
		field("Category", render.FormatCategoryName(sc.Category)),
		field("Favorite", favorite),
		field("Icon", a.iconStatus(*sc)),
		field("Added", addedAt(sc.CreatedAt)),
	}
	if sc.Color != "" {
		lines = append(lines, a.styles.Label.Render(fmt.Sprintf("%-9s", "Color"))+swatch(sc.Color)+" "+sc.Color)
	}

	if p := sc.Preview; p != nil {
		lines = append(lines, "")
		if p.Title != "" {
			lines = append(lines, a.styles.Section.Render(fit(p.Title)))
		}
		if p.Description != "" {
			desc, _ := layout.Truncate(p.Description, textWidth*3, a.layoutConfig.Ellipsis)
			lines = append(lines, lipgloss.NewStyle().Width(textWidth).Render(desc))
		}
		if p.Image != "" {
			lines = append(lines, a.styles.URL.Render(fit(p.Image)))
		}
	}

	return style.Render(strings.Join(lines, "\n"))
}

func (a App) iconStatus(sc model.Shortcut) string {
	switch {
	case sc.HasIconURL():
		return sc.Icon
	case sc.Icon == model.FallbackGlyph:
		return "none found"
	case a.resolver != nil:
		return "resolving..."
	default:
		return "none"
	}
}

func addedAt(t time.Time) string {
	if t.IsZero() {
		return "unknown"
	}
	return humanize.Time(t)
}

// swatch renders a small block filled with color, or nothing for invalid colors.
func swatch(color string) string {
	normalized, err := model.NormalizeColor(color)
	if err != nil {
		return ""
	}
	return lipgloss.NewStyle().Background(lipgloss.Color(normalized)).Render("    ")
}

// renderHelpBar renders the message line and key hints below the panes.
func (a App) renderHelpBar() string {
	var lines []string

	// Line 1: Empty spacer OR message (message replaces the gap)
	if a.messageText != "" {
		lines = append(lines, a.renderMessageLine())
	} else {
		lines = append(lines, "")
	}

	h := a.helpModel()
	h.Width = max(a.width-a.styles.App.GetHorizontalPadding()-lipgloss.Width("Global "), 0)
	if local := a.localHints(); len(local) > 0 {
		lines = append(lines, a.styles.HintLabel.Render("Local  ")+h.ShortHelpView(local))
	}
	if a.mode == ModeNormal {
		lines = append(lines, a.styles.HintLabel.Render("Global ")+h.ShortHelpView(a.keys.ShortHelp()))
	}

	return strings.Join(lines, "\n")
}

// renderMessageLine renders the styled message with prefix icon based on type.
func (a App) renderMessageLine() string {
	var msgStyle lipgloss.Style
	var prefix string

	switch a.messageType {
	case MessageError:
		msgStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#CC3333", Dark: "#FF6666"}).
			Bold(true)
		prefix = "✗ "
	case MessageWarning:
		msgStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#CC8800", Dark: "#FFAA00"}).
			Bold(true)
		prefix = "⚠ "
	case MessageSuccess:
		msgStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#338833", Dark: "#66CC66"}).
			Bold(true)
		prefix = "✓ "
	default: // MessageInfo
		msgStyle = lipgloss.NewStyle().
			Foreground(a.styles.Accent).
			Bold(true)
		prefix = ""
	}

	return msgStyle.Render(prefix + a.messageText)
}

// renderModal renders the active dialog centered above the help bar.
func (a App) renderModal() string {
	var title, content strings.Builder

	size := layout.ModalCompact
	if a.mode == ModeAdd || a.mode == ModeEdit || a.mode == ModeSettings {
		size = layout.ModalWide
	}
	modalStyle := a.styles.Modal.Width(layout.ModalWidth(a.width, size, a.layoutConfig.Modal))
	confirm := a.helpModel().ShortHelpView(confirmHints)

	switch a.mode {
	case ModeAdd, ModeEdit:
		if a.mode == ModeAdd {
			title.WriteString("Add Shortcut\n\n")
		} else {
			title.WriteString("Edit Shortcut\n\n")
		}
		content.WriteString(a.formLabel("Name:", a.form.Focus == FieldName) + "\n")
		content.WriteString(a.form.NameInput.View())
		content.WriteString("\n\n")
		content.WriteString(a.formLabel("URL:", a.form.Focus == FieldURL) + "\n")
		content.WriteString(a.form.URLInput.View())
		content.WriteString("\n\n")
		content.WriteString(a.formLabel("Category:", a.form.Focus == FieldCategory) + "\n")
		content.WriteString(a.renderCategoryPicker())
		content.WriteString("\n")
		content.WriteString(a.formLabel("Or new category:", a.form.Focus == FieldNewCategory) + "\n")
		content.WriteString(a.form.NewCategoryInput.View())

	case ModeConfirmDelete:
		name := "this shortcut"
		if sc := a.store.ShortcutByID(a.confirm.ShortcutID); sc != nil {
			name = fmt.Sprintf("%q", sc.Name)
		}
		title.WriteString("Delete " + name + "?\n\n")
		content.WriteString(a.styles.Help.Render("This action cannot be undone.") + "\n\n")
		content.WriteString(confirm)

	case ModeConfirmDeleteCategory:
		title.WriteString(fmt.Sprintf("Delete category %q?\n\n", render.FormatCategoryName(a.confirm.Category)))
		if a.confirm.Count > 0 {
			content.WriteString(fmt.Sprintf("This also deletes %d %s.\n", a.confirm.Count, plural(a.confirm.Count, "shortcut")))
		}
		content.WriteString(a.styles.Help.Render("This action cannot be undone.") + "\n\n")
		content.WriteString(confirm)

	case ModeSettings:
		title.WriteString("Settings\n\n")
		content.WriteString(a.formLabel("Background color:", a.settings.Focus == FieldBackground) + "\n")
		content.WriteString(a.settings.BackgroundInput.View() + " " + swatch(a.settings.BackgroundInput.Value()))
		content.WriteString("\n\n")
		content.WriteString(a.formLabel("Button color:", a.settings.Focus == FieldButton) + "\n")
		content.WriteString(a.settings.ButtonInput.View() + " " + swatch(a.settings.ButtonInput.Value()))
		content.WriteString("\n\n")
		content.WriteString(a.formLabel("Background image:", a.settings.Focus == FieldImage) + " ")
		content.WriteString(a.styles.Help.Render(a.imageStatus()) + "\n")
		content.WriteString(a.settings.ImageInput.View())

	case ModeConfirmRemoveImage:
		title.WriteString("Remove background image?\n\n")
		content.WriteString(a.styles.Help.Render(a.imageStatus()) + "\n\n")
		content.WriteString(confirm)
	}

	modal := lipgloss.Place(
		a.width,
		a.height-3,
		lipgloss.Center,
		lipgloss.Center,
		modalStyle.Render(a.styles.Title.Render(title.String())+content.String()),
	)

	return lipgloss.JoinVertical(lipgloss.Left, modal, a.renderHelpBar())
}

func (a App) formLabel(label string, focused bool) string {
	if focused {
		return a.styles.Title.Render(label)
	}
	return label
}

// renderCategoryPicker renders the scrollable category list of the form.
func (a App) renderCategoryPicker() string {
	categories := a.form.Categories
	start, end := layout.Trailing(a.form.CategoryIdx, len(categories), a.layoutConfig.Modal.CategoryRows)

	overridden := model.NormalizeCategory(a.form.NewCategoryInput.Value()) != ""

	var b strings.Builder
	for i := start; i < end; i++ {
		name := render.FormatCategoryName(categories[i])
		switch {
		case i == a.form.CategoryIdx && !overridden:
			b.WriteString(a.styles.ItemSelected.Render("▸ " + name))
		case i == a.form.CategoryIdx:
			b.WriteString(a.styles.Help.Render("▸ " + name))
		default:
			b.WriteString(a.styles.Help.Render("  " + name))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (a App) imageStatus() string {
	mimeType, size, ok := a.store.Settings.BackgroundImageInfo()
	if !ok {
		return "none"
	}
	return fmt.Sprintf("%s, %s", mimeType, humanize.Bytes(uint64(size)))
}

// renderHelpOverlay renders the full-screen key reference.
func (a App) renderHelpOverlay() string {
	h := a.helpModel()
	h.Width = 0
	h.FullSeparator = "    "

	content := lipgloss.JoinVertical(lipgloss.Left,
		a.styles.Title.Render("Keys"),
		"",
		h.FullHelpView(a.keys.FullHelp()),
		"",
		a.styles.Help.Render("[?/q/esc] close"),
	)

	return a.place(lipgloss.Left, lipgloss.Top, lipgloss.NewStyle().Padding(1, 2).Render(content))
}
