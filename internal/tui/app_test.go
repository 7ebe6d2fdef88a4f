package tui_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap/zaptest"

	"github.com/nikbrunner/sc/internal/icon"
	"github.com/nikbrunner/sc/internal/model"
	"github.com/nikbrunner/sc/internal/search"
	"github.com/nikbrunner/sc/internal/storage"
	"github.com/nikbrunner/sc/internal/tui"
)

func testStore() *model.Store {
	store := model.NewStore()
	store.Shortcuts = []model.Shortcut{
		{ID: "s1", Name: "GitHub", URL: "https://github.com", Category: "work", CreatedAt: time.Now()},
		{ID: "s2", Name: "Hacker News", URL: "https://news.ycombinator.com", Category: "news", IsFavorite: true, CreatedAt: time.Now()},
		{ID: "s3", Name: "Example", URL: "https://example.com", CreatedAt: time.Now()},
	}
	return store
}

type fixture struct {
	storage *storage.JSONStorage
	opened  []string
	copied  []string
}

// newApp builds an app over store with JSON persistence in a temp dir and
// recording browser/clipboard hooks. Search is applied without debounce.
func newApp(t *testing.T, store *model.Store) (tui.App, *fixture) {
	t.Helper()
	cfg := storage.DefaultConfig()
	cfg.SearchDebounce = 0
	return newAppWithConfig(t, store, &cfg)
}

func newAppWithConfig(t *testing.T, store *model.Store, cfg *storage.Config) (tui.App, *fixture) {
	t.Helper()
	logger := zaptest.NewLogger(t)
	f := &fixture{
		storage: storage.NewJSONStorage(filepath.Join(t.TempDir(), "shortcuts.json"), logger),
	}
	app := tui.NewApp(tui.AppParams{
		Store:   store,
		Storage: f.storage,
		Config:  cfg,
		Logger:  logger,
		OpenURL: func(u string) error {
			f.opened = append(f.opened, u)
			return nil
		},
		CopyText: func(s string) error {
			f.copied = append(f.copied, s)
			return nil
		},
	})
	return app, f
}

func send(t *testing.T, app tui.App, msgs ...tea.Msg) (tui.App, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, msg := range msgs {
		var m tea.Model
		m, cmd = app.Update(msg)
		app = m.(tui.App)
	}
	return app, cmd
}

func keys(s string) []tea.Msg {
	var msgs []tea.Msg
	for _, r := range s {
		msgs = append(msgs, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return msgs
}

var (
	enter    = tea.KeyMsg{Type: tea.KeyEnter}
	esc      = tea.KeyMsg{Type: tea.KeyEsc}
	tab      = tea.KeyMsg{Type: tea.KeyTab}
	ctrlU    = tea.KeyMsg{Type: tea.KeyCtrlU}
	ctrlN    = tea.KeyMsg{Type: tea.KeyCtrlN}
	ctrlX    = tea.KeyMsg{Type: tea.KeyCtrlX}
	backspce = tea.KeyMsg{Type: tea.KeyBackspace}
)

func cardNames(app tui.App) []string {
	var names []string
	for _, c := range app.Cards() {
		names = append(names, c.Name)
	}
	return names
}

func assertCards(t *testing.T, app tui.App, want ...string) {
	t.Helper()
	got := cardNames(app)
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("expected cards %v, got %v", want, got)
	}
}

func assertMessage(t *testing.T, app tui.App, wantType tui.MessageType, wantText string) {
	t.Helper()
	text, typ := app.Message()
	if typ != wantType || !strings.Contains(text, wantText) {
		t.Errorf("expected message (%d) containing %q, got (%d) %q", wantType, wantText, typ, text)
	}
}

func TestApp_InitialOrder(t *testing.T) {
	app, _ := newApp(t, testStore())

	// Uncategorized first, then categories by first appearance
	assertCards(t, app, "Example", "GitHub", "Hacker News")
	if app.Cursor() != 0 {
		t.Errorf("expected initial cursor 0, got %d", app.Cursor())
	}
}

func TestApp_Navigation_JK(t *testing.T) {
	app, _ := newApp(t, testStore())

	app, _ = send(t, app, keys("j")...)
	if app.Cursor() != 1 {
		t.Errorf("after j, expected cursor 1, got %d", app.Cursor())
	}

	app, _ = send(t, app, keys("k")...)
	if app.Cursor() != 0 {
		t.Errorf("after k, expected cursor 0, got %d", app.Cursor())
	}

	// k at top should stay at 0 (no wrap)
	app, _ = send(t, app, keys("k")...)
	if app.Cursor() != 0 {
		t.Errorf("k at top should stay at 0, got %d", app.Cursor())
	}

	// j at bottom should stay at bottom
	app, _ = send(t, app, keys("jjjj")...)
	if app.Cursor() != 2 {
		t.Errorf("j at bottom should stay at 2, got %d", app.Cursor())
	}
}

func TestApp_Navigation_GG(t *testing.T) {
	app, _ := newApp(t, testStore())

	app, _ = send(t, app, keys("G")...)
	if app.Cursor() != 2 {
		t.Errorf("after G, expected cursor 2, got %d", app.Cursor())
	}

	// A single g does nothing yet
	app, _ = send(t, app, keys("g")...)
	if app.Cursor() != 2 {
		t.Errorf("after g, expected cursor to stay at 2, got %d", app.Cursor())
	}

	app, _ = send(t, app, keys("g")...)
	if app.Cursor() != 0 {
		t.Errorf("after gg, expected cursor 0, got %d", app.Cursor())
	}
}

func TestApp_AddShortcut(t *testing.T) {
	app, f := newApp(t, testStore())

	app, _ = send(t, app, keys("a")...)
	if app.Mode() != tui.ModeAdd {
		t.Fatalf("expected ModeAdd, got %d", app.Mode())
	}

	app, _ = send(t, app, keys("Go Dev")...)
	app, _ = send(t, app, tab)
	app, _ = send(t, app, keys("go.dev")...)
	app, cmd := send(t, app, enter)

	if app.Mode() != tui.ModeNormal {
		t.Errorf("expected ModeNormal after save, got %d", app.Mode())
	}
	if cmd == nil {
		t.Error("expected a command for the status message")
	}
	assertMessage(t, app, tui.MessageSuccess, "Added Go Dev")

	store := app.Store()
	if len(store.Shortcuts) != 4 {
		t.Fatalf("expected 4 shortcuts, got %d", len(store.Shortcuts))
	}
	added := store.Shortcuts[3]
	if added.URL != "https://go.dev" || added.Category != "" {
		t.Errorf("unexpected shortcut: %+v", added)
	}
	if card, _ := app.SelectedCard(); card.ID != added.ID {
		t.Errorf("expected cursor on the new shortcut, got %q", card.Name)
	}

	loaded, err := f.storage.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.ShortcutByID(added.ID) == nil {
		t.Error("expected the new shortcut to be persisted")
	}
}

func TestApp_AddShortcut_NewCategory(t *testing.T) {
	app, _ := newApp(t, testStore())

	app, _ = send(t, app, keys("a")...)
	app, _ = send(t, app, keys("Blog")...)
	app, _ = send(t, app, tab)
	app, _ = send(t, app, keys("blog.example.com")...)
	app, _ = send(t, app, tab, tab) // category picker, then new category
	app, _ = send(t, app, keys(" Reading ")...)
	app, _ = send(t, app, enter)

	store := app.Store()
	added := store.Shortcuts[len(store.Shortcuts)-1]
	if added.Category != "reading" {
		t.Errorf("expected category reading, got %q", added.Category)
	}
	if !store.HasCategory("reading") {
		t.Error("expected reading to be added to the category set")
	}
}

func TestApp_AddShortcut_ReservedCategory(t *testing.T) {
	app, _ := newApp(t, testStore())

	app, _ = send(t, app, keys("a")...)
	app, _ = send(t, app, keys("Blog")...)
	app, _ = send(t, app, tab)
	app, _ = send(t, app, keys("blog.example.com")...)
	app, _ = send(t, app, tab, tab)
	app, _ = send(t, app, keys("Favorites")...)
	app, _ = send(t, app, enter)

	if app.Mode() != tui.ModeAdd {
		t.Errorf("expected form to stay open, got mode %d", app.Mode())
	}
	assertMessage(t, app, tui.MessageError, "reserved")
	if store := app.Store(); len(store.Shortcuts) != 3 || store.HasCategory("favorites") {
		t.Errorf("expected store unchanged, got %d shortcuts and %v", len(store.Shortcuts), store.Categories)
	}
}

func TestApp_AddShortcut_PickCategory(t *testing.T) {
	app, _ := newApp(t, testStore())

	app, _ = send(t, app, keys("a")...)
	app, _ = send(t, app, keys("Docs")...)
	app, _ = send(t, app, tab)
	app, _ = send(t, app, keys("docs.example.com")...)
	// "" (uncategorized) -> work -> social
	app, _ = send(t, app, ctrlN, ctrlN, enter)

	store := app.Store()
	if got := store.Shortcuts[len(store.Shortcuts)-1].Category; got != "social" {
		t.Errorf("expected category social, got %q", got)
	}
}

func TestApp_AddShortcut_Validation(t *testing.T) {
	app, _ := newApp(t, testStore())

	app, _ = send(t, app, keys("a")...)
	app, _ = send(t, app, enter)

	if app.Mode() != tui.ModeAdd {
		t.Errorf("expected form to stay open, got mode %d", app.Mode())
	}
	assertMessage(t, app, tui.MessageError, "Name is required")

	app, _ = send(t, app, keys("Bad")...)
	app, _ = send(t, app, tab)
	app, _ = send(t, app, keys("ftp://files.example.com")...)
	app, _ = send(t, app, enter)

	assertMessage(t, app, tui.MessageError, "http or https")
	if len(app.Store().Shortcuts) != 3 {
		t.Errorf("expected no shortcut to be added, got %d", len(app.Store().Shortcuts))
	}
}

func TestApp_AddShortcut_Cancel(t *testing.T) {
	app, _ := newApp(t, testStore())

	app, _ = send(t, app, keys("a")...)
	app, _ = send(t, app, keys("Draft")...)
	app, _ = send(t, app, esc)

	if app.Mode() != tui.ModeNormal {
		t.Errorf("expected ModeNormal after Esc, got %d", app.Mode())
	}
	if len(app.Store().Shortcuts) != 3 {
		t.Errorf("expected nothing added, got %d", len(app.Store().Shortcuts))
	}
}

func TestApp_EditShortcut(t *testing.T) {
	app, _ := newApp(t, testStore())

	app, _ = send(t, app, keys("j")...) // GitHub
	app, _ = send(t, app, keys("e")...)
	if app.Mode() != tui.ModeEdit {
		t.Fatalf("expected ModeEdit, got %d", app.Mode())
	}

	app, _ = send(t, app, keys(" Enterprise")...)
	app, _ = send(t, app, enter)

	sc := app.Store().ShortcutByID("s1")
	if sc.Name != "GitHub Enterprise" {
		t.Errorf("expected renamed shortcut, got %q", sc.Name)
	}
	if sc.Category != "work" || sc.URL != "https://github.com" {
		t.Errorf("expected category and URL unchanged, got %+v", sc)
	}
	assertMessage(t, app, tui.MessageSuccess, "Updated GitHub Enterprise")
}

func TestApp_EditShortcut_URLChangeClearsIcon(t *testing.T) {
	store := testStore()
	store.Shortcuts[0].Icon = "https://github.com/favicon.ico"
	app, _ := newApp(t, store)

	app, _ = send(t, app, keys("j")...)
	app, _ = send(t, app, keys("e")...)
	app, _ = send(t, app, tab, ctrlU)
	app, _ = send(t, app, keys("gitlab.com")...)
	app, _ = send(t, app, enter)

	sc := app.Store().ShortcutByID("s1")
	if sc.URL != "https://gitlab.com" {
		t.Errorf("expected normalized new URL, got %q", sc.URL)
	}
	if sc.Icon != "" {
		t.Errorf("expected icon to be cleared for re-resolution, got %q", sc.Icon)
	}
}

func TestApp_Duplicate(t *testing.T) {
	app, _ := newApp(t, testStore())

	app, _ = send(t, app, keys("jy")...)

	store := app.Store()
	if len(store.Shortcuts) != 4 {
		t.Fatalf("expected 4 shortcuts, got %d", len(store.Shortcuts))
	}
	assertCards(t, app, "Example", "GitHub", "GitHub (Copy)", "Hacker News")

	card, _ := app.SelectedCard()
	if card.Name != "GitHub (Copy)" || card.ID == "s1" {
		t.Errorf("expected cursor on the copy, got %+v", card)
	}
}

func TestApp_ToggleFavorite(t *testing.T) {
	app, _ := newApp(t, testStore())

	app, _ = send(t, app, keys("f")...)
	if !app.Store().ShortcutByID("s3").IsFavorite {
		t.Error("expected Example to be a favorite")
	}
	assertMessage(t, app, tui.MessageSuccess, "Added Example to favorites")

	app, _ = send(t, app, keys("f")...)
	if app.Store().ShortcutByID("s3").IsFavorite {
		t.Error("expected Example to no longer be a favorite")
	}
}

func TestApp_DeleteShortcut(t *testing.T) {
	app, f := newApp(t, testStore())

	app, _ = send(t, app, keys("jd")...)
	if app.Mode() != tui.ModeConfirmDelete {
		t.Fatalf("expected ModeConfirmDelete, got %d", app.Mode())
	}

	// n cancels
	app, _ = send(t, app, keys("n")...)
	if app.Mode() != tui.ModeNormal || len(app.Store().Shortcuts) != 3 {
		t.Fatalf("expected cancel to keep all shortcuts")
	}

	app, _ = send(t, app, keys("dy")...)
	if app.Store().ShortcutByID("s1") != nil {
		t.Error("expected GitHub to be deleted")
	}
	assertMessage(t, app, tui.MessageSuccess, "Deleted GitHub")
	assertCards(t, app, "Example", "Hacker News")

	loaded, err := f.storage.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(loaded.Shortcuts) != 2 {
		t.Errorf("expected deletion to be persisted, got %d shortcuts", len(loaded.Shortcuts))
	}
}

func TestApp_DeleteCategory(t *testing.T) {
	store := testStore()
	store.Shortcuts = append(store.Shortcuts, model.Shortcut{ID: "s4", Name: "Jira", URL: "https://jira.example.com", Category: "work"})
	app, _ := newApp(t, store)

	app, _ = send(t, app, keys("jD")...)
	if app.Mode() != tui.ModeConfirmDeleteCategory {
		t.Fatalf("expected ModeConfirmDeleteCategory, got %d", app.Mode())
	}

	app, _ = send(t, app, enter)

	if app.Store().HasCategory("work") {
		t.Error("expected work to be removed from the category set")
	}
	if app.Store().ShortcutByID("s1") != nil || app.Store().ShortcutByID("s4") != nil {
		t.Error("expected shortcuts in work to be deleted")
	}
	assertCards(t, app, "Example", "Hacker News")
	assertMessage(t, app, tui.MessageSuccess, "Deleted category Work (2 shortcuts)")
}

func TestApp_DeleteCategory_Uncategorized(t *testing.T) {
	app, _ := newApp(t, testStore())

	// Cursor starts on the uncategorized Example
	app, _ = send(t, app, keys("D")...)

	if app.Mode() != tui.ModeNormal {
		t.Errorf("expected to stay in ModeNormal, got %d", app.Mode())
	}
	assertMessage(t, app, tui.MessageWarning, "No category")
}

func TestApp_FilterKeys(t *testing.T) {
	app, _ := newApp(t, testStore())

	app, _ = send(t, app, keys("F")...)
	assertCards(t, app, "Hacker News")
	if app.Filter().Current != search.FilterFavorites {
		t.Errorf("expected favorites filter, got %q", app.Filter().Current)
	}

	app, _ = send(t, app, keys("A")...)
	assertCards(t, app, "Example", "GitHub", "Hacker News")

	// all -> favorites -> work
	app, _ = send(t, app, keys("cc")...)
	assertCards(t, app, "GitHub")
	assertMessage(t, app, tui.MessageInfo, "Showing Work")
}

func TestApp_FavoritesFilterWithSearch(t *testing.T) {
	app, _ := newApp(t, testStore())

	app, _ = send(t, app, keys("F/git")...)
	if len(app.Cards()) != 0 {
		t.Errorf("favorites filter must never show non-favorites, got %v", cardNames(app))
	}
}

func TestApp_Search_Immediate(t *testing.T) {
	app, _ := newApp(t, testStore())

	app, _ = send(t, app, keys("/")...)
	if app.Mode() != tui.ModeSearch {
		t.Fatalf("expected ModeSearch, got %d", app.Mode())
	}

	// Typing j in search must not move the cursor
	app, _ = send(t, app, keys("YCOMB")...)
	assertCards(t, app, "Hacker News")

	app, _ = send(t, app, enter)
	if app.Mode() != tui.ModeNormal {
		t.Errorf("expected ModeNormal after Enter, got %d", app.Mode())
	}
	if app.Filter().SearchTerm != "YCOMB" {
		t.Errorf("expected search term to be kept, got %q", app.Filter().SearchTerm)
	}

	// Esc in normal mode clears the search
	app, _ = send(t, app, esc)
	assertCards(t, app, "Example", "GitHub", "Hacker News")
}

func TestApp_Search_EscClears(t *testing.T) {
	app, _ := newApp(t, testStore())

	app, _ = send(t, app, keys("/hub")...)
	assertCards(t, app, "GitHub")

	app, _ = send(t, app, esc)
	if app.Mode() != tui.ModeNormal || app.Filter().SearchTerm != "" {
		t.Errorf("expected cleared search in ModeNormal, got mode %d term %q", app.Mode(), app.Filter().SearchTerm)
	}
	assertCards(t, app, "Example", "GitHub", "Hacker News")
}

func TestApp_Search_Debounced(t *testing.T) {
	cfg := storage.DefaultConfig()
	app, _ := newAppWithConfig(t, testStore(), &cfg)

	app, _ = send(t, app, keys("/g")...)
	stale := tui.SearchDebounceFor(app)

	app, cmd := send(t, app, keys("it")...)
	if cmd == nil {
		t.Fatal("expected a debounce command")
	}
	assertCards(t, app, "Example", "GitHub", "Hacker News")

	// A tick from an earlier keystroke is ignored
	app, _ = send(t, app, stale)
	assertCards(t, app, "Example", "GitHub", "Hacker News")

	app, _ = send(t, app, tui.SearchDebounceFor(app))
	assertCards(t, app, "GitHub")

	// Backspace to empty shows everything again
	app, _ = send(t, app, backspce, backspce, backspce)
	app, _ = send(t, app, tui.SearchDebounceFor(app))
	assertCards(t, app, "Example", "GitHub", "Hacker News")
}

func TestApp_IconResolved(t *testing.T) {
	app, f := newApp(t, testStore())

	preview := &model.Preview{Title: "GitHub", Description: "Where the world builds software"}
	app, _ = send(t, app, tui.IconResolved(icon.Result{ID: "s1", Icon: "https://github.com/favicon.ico", Preview: preview}))

	sc := app.Store().ShortcutByID("s1")
	if sc.Icon != "https://github.com/favicon.ico" || sc.Preview == nil || sc.Preview.Title != "GitHub" {
		t.Errorf("expected icon and preview to be applied, got %+v", sc)
	}

	loaded, err := f.storage.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.ShortcutByID("s1").Icon != "https://github.com/favicon.ico" {
		t.Error("expected icon to be persisted")
	}
}

func TestApp_IconResolved_DeletedShortcut(t *testing.T) {
	app, _ := newApp(t, testStore())

	app, cmd := send(t, app, tui.IconResolved(icon.Result{ID: "gone", Icon: model.FallbackGlyph}))

	if cmd != nil {
		t.Error("expected late result to be dropped silently")
	}
	if len(app.Store().Shortcuts) != 3 {
		t.Errorf("expected store unchanged, got %d shortcuts", len(app.Store().Shortcuts))
	}
	if text, _ := app.Message(); text != "" {
		t.Errorf("expected no message, got %q", text)
	}
}

func TestApp_OpenAndYank(t *testing.T) {
	app, f := newApp(t, testStore())

	app, _ = send(t, app, keys("jo")...)
	if len(f.opened) != 1 || f.opened[0] != "https://github.com" {
		t.Errorf("expected GitHub to be opened, got %v", f.opened)
	}

	app, _ = send(t, app, keys("Y")...)
	if len(f.copied) != 1 || f.copied[0] != "https://github.com" {
		t.Errorf("expected GitHub URL to be copied, got %v", f.copied)
	}
	assertMessage(t, app, tui.MessageSuccess, "Copied https://github.com")
}

func TestApp_OpenError(t *testing.T) {
	app := tui.NewApp(tui.AppParams{
		Store:   testStore(),
		OpenURL: func(string) error { return errors.New("no browser") },
	})

	app, _ = send(t, app, enter)
	assertMessage(t, app, tui.MessageError, "no browser")
}

func TestApp_Settings_Colors(t *testing.T) {
	app, f := newApp(t, testStore())

	app, _ = send(t, app, keys("S")...)
	if app.Mode() != tui.ModeSettings {
		t.Fatalf("expected ModeSettings, got %d", app.Mode())
	}

	app, _ = send(t, app, ctrlU)
	app, _ = send(t, app, keys("#FFF")...)
	app, _ = send(t, app, tab, ctrlU)
	app, _ = send(t, app, keys("336699")...)
	app, _ = send(t, app, enter)

	settings := app.Store().Settings
	if settings.BackgroundColor != "#ffffff" || settings.ButtonColor != "#336699" {
		t.Errorf("unexpected settings: %+v", settings)
	}
	if app.Mode() != tui.ModeNormal {
		t.Errorf("expected ModeNormal after save, got %d", app.Mode())
	}

	loaded, err := f.storage.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.Settings.ButtonColor != "#336699" {
		t.Error("expected settings to be persisted")
	}
}

func TestApp_Settings_InvalidColor(t *testing.T) {
	app, _ := newApp(t, testStore())

	app, _ = send(t, app, keys("S")...)
	app, _ = send(t, app, tab, ctrlU)
	app, _ = send(t, app, keys("teal")...)
	app, _ = send(t, app, enter)

	if app.Mode() != tui.ModeSettings {
		t.Errorf("expected settings to stay open, got mode %d", app.Mode())
	}
	assertMessage(t, app, tui.MessageError, "Button")
	if app.Store().Settings.ButtonColor != model.DefaultButtonColor {
		t.Errorf("expected button color unchanged, got %q", app.Store().Settings.ButtonColor)
	}
}

func TestApp_Settings_BackgroundImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bg.png")
	if err := os.WriteFile(path, []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), 0644); err != nil {
		t.Fatalf("write image: %v", err)
	}

	app, _ := newApp(t, testStore())

	app, _ = send(t, app, keys("S")...)
	app, _ = send(t, app, tab, tab)
	app, _ = send(t, app, keys(path)...)
	app, _ = send(t, app, enter)

	if !strings.HasPrefix(app.Store().Settings.BackgroundImage, "data:image/png;base64,") {
		t.Errorf("expected PNG data URL, got %q", app.Store().Settings.BackgroundImage)
	}

	// ctrl+x asks before removing the image
	app, _ = send(t, app, keys("S")...)
	app, _ = send(t, app, ctrlX)
	if app.Mode() != tui.ModeConfirmRemoveImage {
		t.Fatalf("expected ModeConfirmRemoveImage, got %d", app.Mode())
	}

	// Cancel returns to settings
	app, _ = send(t, app, esc)
	if app.Mode() != tui.ModeSettings {
		t.Fatalf("expected ModeSettings after cancel, got %d", app.Mode())
	}

	app, _ = send(t, app, ctrlX, enter)
	if app.Store().Settings.HasBackgroundImage() {
		t.Error("expected background image to be removed")
	}
	assertMessage(t, app, tui.MessageSuccess, "Background image removed")
}

func TestApp_Settings_RemoveWithoutImage(t *testing.T) {
	app, _ := newApp(t, testStore())

	app, _ = send(t, app, keys("S")...)
	app, _ = send(t, app, ctrlX)

	if app.Mode() != tui.ModeSettings {
		t.Errorf("expected to stay in ModeSettings, got %d", app.Mode())
	}
	assertMessage(t, app, tui.MessageWarning, "No background image")
}

func TestApp_MessageTimeout(t *testing.T) {
	app, _ := newApp(t, testStore())

	app, _ = send(t, app, keys("f")...)
	first := tui.ClearMessageFor(app)

	app, _ = send(t, app, keys("f")...)

	// The first message's timer must not clear the newer message
	app, _ = send(t, app, first)
	if text, _ := app.Message(); text == "" {
		t.Error("expected newer message to survive an old timeout")
	}

	app, _ = send(t, app, tui.ClearMessageFor(app))
	if text, _ := app.Message(); text != "" {
		t.Errorf("expected message to be cleared, got %q", text)
	}
}

func TestApp_HelpAndQuit(t *testing.T) {
	app, _ := newApp(t, testStore())

	app, _ = send(t, app, keys("?")...)
	if app.Mode() != tui.ModeHelp {
		t.Fatalf("expected ModeHelp, got %d", app.Mode())
	}

	// q closes help instead of quitting
	app, cmd := send(t, app, keys("q")...)
	if app.Mode() != tui.ModeNormal || cmd != nil {
		t.Fatalf("expected q to close help, got mode %d", app.Mode())
	}

	_, cmd = send(t, app, keys("q")...)
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
}

func TestApp_EmptyStoreIgnoresCardKeys(t *testing.T) {
	app, _ := newApp(t, model.NewStore())

	app, _ = send(t, app, keys("jkGeyfdY")...)
	app, _ = send(t, app, enter)

	if app.Mode() != tui.ModeNormal {
		t.Errorf("expected ModeNormal, got %d", app.Mode())
	}
	if _, ok := app.SelectedCard(); ok {
		t.Error("expected no selected card")
	}
}
