package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
)

// hint is a binding that exists only to be listed in the hint bar.
func hint(keys, desc string) key.Binding {
	return key.NewBinding(key.WithKeys(keys), key.WithHelp(keys, desc))
}

// brief relabels b with a shorter description for the hint bar.
func brief(b key.Binding, desc string) key.Binding {
	b.SetHelp(b.Help().Key, desc)
	return b
}

var (
	searchHints = []key.Binding{
		hint("type", "search"),
		hint("enter", "apply"),
		hint("esc", "clear"),
	}
	formHints = []key.Binding{
		hint("tab", "next"),
		hint("^n/^p", "category"),
		hint("enter", "save"),
		hint("esc", "cancel"),
	}
	settingsHints = []key.Binding{
		hint("tab", "next"),
		hint("enter", "save"),
		hint("^x", "remove image"),
		hint("esc", "cancel"),
	}
	confirmHints = []key.Binding{
		hint("enter/y", "confirm"),
		hint("esc/n", "cancel"),
	}
)

// ShortHelp lists the bindings shown on every browse screen.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Settings, k.Help, k.Quit}
}

// FullHelp groups every binding for the help overlay.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Top, k.Bottom, k.Open, k.YankURL},
		{k.Search, k.ClearSearch, k.CycleFilter, k.Favorites, k.ShowAll},
		{k.Add, k.Edit, k.Duplicate, k.Favorite, k.Delete, k.DeleteCategory},
		{k.Settings, k.Help, k.Quit},
	}
}

// helpModel returns a help renderer painted with the current theme.
func (a App) helpModel() help.Model {
	h := help.New()
	h.Width = a.width
	h.ShortSeparator = "  "
	h.Styles.ShortKey = a.styles.HintKey
	h.Styles.ShortDesc = a.styles.HintDesc
	h.Styles.ShortSeparator = a.styles.HintDesc
	h.Styles.FullKey = a.styles.HintKey.Width(8)
	h.Styles.FullDesc = a.styles.HintDesc
	h.Styles.FullSeparator = a.styles.HintDesc
	return h
}

// localHints returns the bindings relevant to the current mode.
func (a App) localHints() []key.Binding {
	switch a.mode {
	case ModeNormal:
		hints := []key.Binding{
			hint("j/k", "move"),
			brief(a.keys.Open, "open"),
			a.keys.Search,
			brief(a.keys.CycleFilter, "filter"),
			brief(a.keys.Add, "add"),
			a.keys.Edit,
			brief(a.keys.Favorite, "fav"),
			brief(a.keys.Delete, "del"),
		}
		if a.filter.SearchTerm != "" {
			hints = append(hints, a.keys.ClearSearch)
		}
		return hints
	case ModeSearch:
		return searchHints
	case ModeAdd, ModeEdit:
		return formHints
	case ModeSettings:
		return settingsHints
	case ModeHelp:
		return []key.Binding{hint("?/q/esc", "close")}
	default:
		// Confirmations carry their hints inside the dialog.
		return nil
	}
}
