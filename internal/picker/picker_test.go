package picker

import (
	"fmt"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nikbrunner/sc/internal/model"
	"github.com/nikbrunner/sc/internal/search"
	"github.com/nikbrunner/sc/internal/tui/layout"
)

func gitResults() []search.SearchResult {
	return []search.SearchResult{
		{Shortcut: &model.Shortcut{ID: "s1", Name: "GitHub", URL: "https://github.com", Category: "work"}, MatchedIndexes: []int{0, 1, 2}},
		{Shortcut: &model.Shortcut{ID: "s2", Name: "GitLab", URL: "https://gitlab.com"}},
		{Shortcut: &model.Shortcut{ID: "s3", Name: "Gitea", URL: "https://gitea.io"}},
	}
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func feed(p Picker, msgs ...tea.Msg) (Picker, tea.Cmd) {
	var cmd tea.Cmd
	for _, msg := range msgs {
		var m tea.Model
		m, cmd = p.Update(msg)
		p = m.(Picker)
	}
	return p, cmd
}

func TestPicker_Navigation(t *testing.T) {
	tests := []struct {
		name string
		keys []tea.Msg
		want int
	}{
		{"starts on the best match", nil, 0},
		{"j moves down", []tea.Msg{runes("j")}, 1},
		{"arrow and ctrl+n move down", []tea.Msg{tea.KeyMsg{Type: tea.KeyDown}, tea.KeyMsg{Type: tea.KeyCtrlN}}, 2},
		{"stops at the last result", []tea.Msg{runes("j"), runes("j"), runes("j"), runes("j")}, 2},
		{"k moves back up", []tea.Msg{runes("j"), runes("j"), runes("k")}, 1},
		{"up and ctrl+p move up", []tea.Msg{runes("j"), runes("j"), tea.KeyMsg{Type: tea.KeyUp}, tea.KeyMsg{Type: tea.KeyCtrlP}}, 0},
		{"stops at the first result", []tea.Msg{runes("k")}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, _ := feed(New(gitResults(), "git"), tt.keys...)
			if p.cursor != tt.want {
				t.Errorf("cursor = %d, want %d", p.cursor, tt.want)
			}
		})
	}
}

func TestPicker_Choose(t *testing.T) {
	results := gitResults()

	p, cmd := feed(New(results, "git"), runes("j"), tea.KeyMsg{Type: tea.KeyEnter})

	if cmd == nil {
		t.Fatal("expected the picker to quit after choosing")
	}
	if got := p.SelectedShortcut(); got != results[1].Shortcut {
		t.Errorf("expected GitLab, got %+v", got)
	}
	if p.Cancelled() {
		t.Error("choosing should not count as cancelling")
	}
}

func TestPicker_Cancel(t *testing.T) {
	for _, msg := range []tea.KeyMsg{{Type: tea.KeyEsc}, {Type: tea.KeyCtrlC}, runes("q")} {
		t.Run(msg.String(), func(t *testing.T) {
			p, cmd := feed(New(gitResults(), "git"), msg)

			if !p.Cancelled() || cmd == nil {
				t.Errorf("expected cancel and quit, got cancelled=%v cmd=%v", p.Cancelled(), cmd != nil)
			}
			if p.SelectedShortcut() != nil {
				t.Error("expected no shortcut after cancel")
			}
		})
	}
}

func TestPicker_NothingChosenYet(t *testing.T) {
	if got := New(gitResults(), "git").SelectedShortcut(); got != nil {
		t.Errorf("expected nil before enter, got %+v", got)
	}
}

func TestPicker_View(t *testing.T) {
	view := layout.StripANSI(New(gitResults(), "git").View())

	for _, want := range []string{
		"Open: git (3 results)",
		"> GitHub",
		"github.com · Work",
		"  GitLab",
		"gitea.io",
		"enter open",
	} {
		if !strings.Contains(view, want) {
			t.Errorf("expected view to contain %q, got:\n%s", want, view)
		}
	}
}

func TestPicker_ViewFollowsCursor(t *testing.T) {
	var results []search.SearchResult
	for i := 0; i < 20; i++ {
		results = append(results, search.SearchResult{
			Shortcut: &model.Shortcut{ID: fmt.Sprint(i), Name: fmt.Sprintf("Docs %02d", i), URL: "https://docs.example.com"},
		})
	}

	// Eleven rows leave room for three results.
	p, _ := feed(New(results, "docs"), tea.WindowSizeMsg{Width: 80, Height: 11})
	for i := 0; i < 10; i++ {
		p, _ = feed(p, runes("j"))
	}

	view := layout.StripANSI(p.View())
	if !strings.Contains(view, "> Docs 10") || !strings.Contains(view, "Docs 08") {
		t.Errorf("expected rows 08 to 10 with the cursor on 10, got:\n%s", view)
	}
	if strings.Contains(view, "Docs 07") || strings.Contains(view, "Docs 11") {
		t.Errorf("expected only three results on screen, got:\n%s", view)
	}
}
