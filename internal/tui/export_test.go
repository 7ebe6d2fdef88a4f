package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nikbrunner/sc/internal/icon"
)

// IconResolved builds the message an icon lookup delivers.
func IconResolved(result icon.Result) tea.Msg {
	return iconResolvedMsg{result: result}
}

// SearchDebounceFor builds the debounce tick for the app's latest keystroke.
func SearchDebounceFor(a App) tea.Msg {
	return searchDebounceMsg{seq: a.search.Seq}
}

// ClearMessageFor builds the timeout message for the app's current status message.
func ClearMessageFor(a App) tea.Msg {
	return clearMessageMsg{seq: a.messageSeq}
}
