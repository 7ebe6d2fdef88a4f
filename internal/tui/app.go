package tui

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/nikbrunner/sc/internal/icon"
	"github.com/nikbrunner/sc/internal/model"
	"github.com/nikbrunner/sc/internal/render"
	"github.com/nikbrunner/sc/internal/search"
	"github.com/nikbrunner/sc/internal/storage"
	"github.com/nikbrunner/sc/internal/tui/layout"
)

// Mode is the current interaction mode of the app.
type Mode int

const (
	ModeNormal Mode = iota
	ModeSearch
	ModeAdd
	ModeEdit
	ModeConfirmDelete
	ModeConfirmDeleteCategory
	ModeSettings
	ModeConfirmRemoveImage
	ModeHelp
)

// MessageType is the severity of a status message.
type MessageType int

const (
	MessageInfo MessageType = iota
	MessageSuccess
	MessageWarning
	MessageError
)

// messageTimeout is how long a status message stays visible.
const messageTimeout = 3 * time.Second

type iconResolvedMsg struct {
	result icon.Result
}

type searchDebounceMsg struct {
	seq int
}

type clearMessageMsg struct {
	seq int
}

// App is the main bubbletea model for the shortcut manager.
type App struct {
	store        *model.Store
	storage      storage.Storage
	resolver     *icon.Resolver
	logger       *zap.Logger
	keys         KeyMap
	styles       Styles
	layoutConfig layout.Config

	openURL  func(string) error
	copyText func(string) error

	searchDebounce time.Duration
	maxImageBytes  int
	nerdFont       bool

	// Derived from store + filter on every change
	filter search.Filter
	view   render.View
	rows   []Row
	cards  []render.Card // visible cards in display order
	cursor int           // index into cards

	mode     Mode
	form     FormState
	settings SettingsState
	search   SearchState
	confirm  ConfirmState

	// For gg command
	lastKeyWasG bool

	messageText string
	messageType MessageType
	messageSeq  int

	// Window dimensions
	width  int
	height int
}

// AppParams holds parameters for creating a new App.
type AppParams struct {
	Store    *model.Store
	Storage  storage.Storage // optional, changes are not persisted if nil
	Resolver *icon.Resolver  // optional, icons are not resolved if nil
	Config   *storage.Config // optional, uses defaults if nil
	Logger   *zap.Logger     // optional
	Keys     *KeyMap         // optional, uses default if nil
	Styles   *Styles         // optional, uses default if nil
	OpenURL  func(string) error
	CopyText func(string) error
}

// NewApp creates a new App with the given parameters.
func NewApp(params AppParams) App {
	keys := DefaultKeyMap()
	if params.Keys != nil {
		keys = *params.Keys
	}

	styles := DefaultStyles()
	if params.Styles != nil {
		styles = *params.Styles
	}

	cfg := storage.DefaultConfig()
	if params.Config != nil {
		cfg = *params.Config
	}

	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	store := params.Store
	if store == nil {
		store = model.NewStore()
	}

	openURL := params.OpenURL
	if openURL == nil {
		openURL = OpenInBrowser
	}
	copyText := params.CopyText
	if copyText == nil {
		copyText = clipboard.WriteAll
	}

	layoutConfig := layout.DefaultConfig()

	app := App{
		store:          store,
		storage:        params.Storage,
		resolver:       params.Resolver,
		logger:         logger,
		keys:           keys,
		styles:         styles.WithTheme(store.Settings),
		layoutConfig:   layoutConfig,
		openURL:        openURL,
		copyText:       copyText,
		searchDebounce: time.Duration(cfg.SearchDebounce),
		maxImageBytes:  cfg.MaxBackgroundImageBytes,
		nerdFont:       cfg.NerdFont,
		filter:         search.NewFilter(),
		form:           NewFormState(layoutConfig),
		settings:       NewSettingsState(layoutConfig),
		search:         NewSearchState(layoutConfig),
		width:          80,
		height:         24,
	}

	app.rebuild("")
	return app
}

// rebuild recomputes sections and visibility from the store and filter.
// The cursor follows selectID when it is still visible.
func (a *App) rebuild(selectID string) {
	a.view = render.Build(a.store, a.filter)
	a.rows = buildRows(a.view)
	a.cards = a.view.VisibleCards()

	if selectID != "" {
		for i, c := range a.cards {
			if c.ID == selectID {
				a.cursor = i
				return
			}
		}
	}

	if a.cursor >= len(a.cards) {
		a.cursor = len(a.cards) - 1
	}
	if a.cursor < 0 {
		a.cursor = 0
	}
}

// Cursor returns the current cursor position among visible cards.
func (a App) Cursor() int {
	return a.cursor
}

// Mode returns the current interaction mode.
func (a App) Mode() Mode {
	return a.mode
}

// Filter returns the active filter.
func (a App) Filter() search.Filter {
	return a.filter
}

// Cards returns the visible cards in display order.
func (a App) Cards() []render.Card {
	return a.cards
}

// Message returns the current status message and its type.
func (a App) Message() (string, MessageType) {
	return a.messageText, a.messageType
}

// Store returns the underlying store.
func (a App) Store() *model.Store {
	return a.store
}

// SelectedCard returns the card under the cursor.
func (a App) SelectedCard() (render.Card, bool) {
	if a.cursor < 0 || a.cursor >= len(a.cards) {
		return render.Card{}, false
	}
	return a.cards[a.cursor], true
}

func (a App) selectedID() string {
	card, ok := a.SelectedCard()
	if !ok {
		return ""
	}
	return card.ID
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case iconResolvedMsg:
		return a.applyIcon(msg.result)

	case searchDebounceMsg:
		// Only the last keystroke's tick applies
		if msg.seq == a.search.Seq {
			a.applySearch()
		}
		return a, nil

	case clearMessageMsg:
		if msg.seq == a.messageSeq {
			a.messageText = ""
		}
		return a, nil

	case tea.KeyMsg:
		switch a.mode {
		case ModeSearch:
			return a.updateSearch(msg)
		case ModeAdd, ModeEdit:
			return a.updateForm(msg)
		case ModeConfirmDelete, ModeConfirmDeleteCategory, ModeConfirmRemoveImage:
			return a.updateConfirm(msg)
		case ModeSettings:
			return a.updateSettings(msg)
		case ModeHelp:
			if key.Matches(msg, a.keys.Help, a.keys.Quit, a.keys.ClearSearch) {
				a.mode = ModeNormal
			}
			return a, nil
		default:
			return a.updateNormal(msg)
		}
	}

	return a, nil
}

func (a App) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Handle gg sequence
	if key.Matches(msg, a.keys.Top) {
		if a.lastKeyWasG {
			a.cursor = 0
			a.lastKeyWasG = false
			return a, nil
		}
		a.lastKeyWasG = true
		return a, nil
	}

	// Reset g flag for any other key
	a.lastKeyWasG = false

	switch {
	case key.Matches(msg, a.keys.Quit):
		return a, tea.Quit

	case key.Matches(msg, a.keys.Down):
		if a.cursor < len(a.cards)-1 {
			a.cursor++
		}

	case key.Matches(msg, a.keys.Up):
		if a.cursor > 0 {
			a.cursor--
		}

	case key.Matches(msg, a.keys.Bottom):
		if len(a.cards) > 0 {
			a.cursor = len(a.cards) - 1
		}

	case key.Matches(msg, a.keys.Open):
		card, ok := a.SelectedCard()
		if !ok {
			return a, nil
		}
		if err := a.openURL(card.URL); err != nil {
			a.logger.Warn("open URL failed", zap.String("url", card.URL), zap.Error(err))
			return a, a.setMessage(MessageError, "Could not open browser: "+err.Error())
		}
		return a, a.setMessage(MessageInfo, "Opened "+card.Hostname)

	case key.Matches(msg, a.keys.Add):
		a.form.Reset(a.store.Categories)
		if a.store.HasCategory(a.filter.Current) {
			a.form.CycleCategory(indexOf(a.store.Categories, a.filter.Current) + 1)
		}
		a.mode = ModeAdd

	case key.Matches(msg, a.keys.Edit):
		card, ok := a.SelectedCard()
		if !ok {
			return a, nil
		}
		if sc := a.store.ShortcutByID(card.ID); sc != nil {
			a.form.Load(*sc, a.store.Categories)
			a.mode = ModeEdit
		}

	case key.Matches(msg, a.keys.Duplicate):
		card, ok := a.SelectedCard()
		if !ok {
			return a, nil
		}
		dup, err := a.store.Duplicate(card.ID)
		if err != nil {
			return a, a.fail(err)
		}
		a.logger.Debug("shortcut duplicated", zap.String("id", card.ID), zap.String("copy", dup.ID))
		return a, a.commit(dup.ID, "Duplicated "+card.Name)

	case key.Matches(msg, a.keys.Favorite):
		card, ok := a.SelectedCard()
		if !ok {
			return a, nil
		}
		favorite, err := a.store.ToggleFavorite(card.ID)
		if err != nil {
			return a, a.fail(err)
		}
		if favorite {
			return a, a.commit(card.ID, "Added "+card.Name+" to favorites")
		}
		return a, a.commit(card.ID, "Removed "+card.Name+" from favorites")

	case key.Matches(msg, a.keys.Delete):
		card, ok := a.SelectedCard()
		if !ok {
			return a, nil
		}
		a.confirm = ConfirmState{ShortcutID: card.ID}
		a.mode = ModeConfirmDelete

	case key.Matches(msg, a.keys.DeleteCategory):
		category := a.targetCategory()
		if category == "" {
			return a, a.setMessage(MessageWarning, "No category to delete")
		}
		a.confirm = ConfirmState{Category: category, Count: a.store.CountInCategory(category)}
		a.mode = ModeConfirmDeleteCategory

	case key.Matches(msg, a.keys.Search):
		a.search.Input.SetValue(a.filter.SearchTerm)
		a.search.Input.CursorEnd()
		a.search.Input.Focus()
		a.mode = ModeSearch

	case key.Matches(msg, a.keys.ClearSearch):
		if a.filter.SearchTerm == "" {
			return a, nil
		}
		a.search.Reset()
		a.filter.SearchTerm = ""
		a.rebuild(a.selectedID())

	case key.Matches(msg, a.keys.CycleFilter):
		a.filter = a.filter.Cycle(a.store.Categories)
		a.rebuild(a.selectedID())
		return a, a.setMessage(MessageInfo, "Showing "+a.filterLabel())

	case key.Matches(msg, a.keys.Favorites):
		a.filter.Current = search.FilterFavorites
		a.rebuild(a.selectedID())
		return a, a.setMessage(MessageInfo, "Showing "+a.filterLabel())

	case key.Matches(msg, a.keys.ShowAll):
		a.filter.Current = search.FilterAll
		a.rebuild(a.selectedID())
		return a, a.setMessage(MessageInfo, "Showing "+a.filterLabel())

	case key.Matches(msg, a.keys.YankURL):
		card, ok := a.SelectedCard()
		if !ok {
			return a, nil
		}
		if err := a.copyText(card.URL); err != nil {
			return a, a.setMessage(MessageError, "Could not copy URL: "+err.Error())
		}
		return a, a.setMessage(MessageSuccess, "Copied "+card.URL)

	case key.Matches(msg, a.keys.Settings):
		a.settings.Load(a.store.Settings)
		a.mode = ModeSettings

	case key.Matches(msg, a.keys.Help):
		a.mode = ModeHelp
	}

	return a, nil
}

// targetCategory is the category D acts on: the filtered category if one is
// selected, otherwise the category of the card under the cursor.
func (a App) targetCategory() string {
	if a.store.HasCategory(a.filter.Current) {
		return a.filter.Current
	}
	card, ok := a.SelectedCard()
	if !ok {
		return ""
	}
	if sc := a.store.ShortcutByID(card.ID); sc != nil {
		return sc.Category
	}
	return ""
}

func (a App) filterLabel() string {
	switch a.filter.Current {
	case search.FilterAll, search.FilterFavorites, "":
		return a.filter.Label()
	default:
		return render.FormatCategoryName(a.filter.Current)
	}
}

func (a App) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		a.search.Input.Blur()
		a.search.Seq++
		a.applySearch()
		a.mode = ModeNormal
		return a, nil

	case tea.KeyEsc:
		a.search.Input.Blur()
		a.search.Reset()
		a.filter.SearchTerm = ""
		a.rebuild(a.selectedID())
		a.mode = ModeNormal
		return a, nil
	}

	before := a.search.Input.Value()
	var cmd tea.Cmd
	a.search.Input, cmd = a.search.Input.Update(msg)
	if a.search.Input.Value() == before {
		return a, cmd
	}

	a.search.Seq++
	if a.searchDebounce <= 0 {
		a.applySearch()
		return a, cmd
	}

	seq := a.search.Seq
	debounce := tea.Tick(a.searchDebounce, func(time.Time) tea.Msg {
		return searchDebounceMsg{seq: seq}
	})
	return a, tea.Batch(cmd, debounce)
}

func (a *App) applySearch() {
	a.filter.SearchTerm = a.search.Input.Value()
	a.rebuild(a.selectedID())
}

func (a App) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		a.mode = ModeNormal
		return a, nil
	case tea.KeyTab:
		a.form.NextField()
		return a, nil
	case tea.KeyShiftTab:
		a.form.PrevField()
		return a, nil
	case tea.KeyEnter:
		return a.submitForm()
	case tea.KeyCtrlN:
		a.form.CycleCategory(1)
		return a, nil
	case tea.KeyCtrlP:
		a.form.CycleCategory(-1)
		return a, nil
	}

	if a.form.Focus == FieldCategory {
		switch msg.String() {
		case "j", "l", "down", "right", " ":
			a.form.CycleCategory(1)
		case "k", "h", "up", "left":
			a.form.CycleCategory(-1)
		}
		return a, nil
	}

	return a, a.form.Update(msg)
}

func (a App) submitForm() (tea.Model, tea.Cmd) {
	name := a.form.NameInput.Value()
	rawURL := a.form.URLInput.Value()
	category := a.form.Category()

	if a.form.IsEdit() {
		id := a.form.EditID
		urlChanged, err := a.store.Update(id, model.UpdateShortcutParams{
			Name:     &name,
			URL:      &rawURL,
			Category: &category,
		})
		if errors.Is(err, model.ErrShortcutNotFound) {
			a.mode = ModeNormal
			a.rebuild("")
			return a, nil
		}
		if err != nil {
			return a, a.fail(err)
		}

		a.mode = ModeNormal
		sc := a.store.ShortcutByID(id)
		a.logger.Debug("shortcut updated", zap.String("id", id), zap.Bool("urlChanged", urlChanged))
		cmd := a.commit(id, "Updated "+sc.Name)
		if urlChanged {
			cmd = tea.Batch(cmd, a.resolveIcon(id, sc.URL))
		}
		return a, cmd
	}

	sc, err := a.store.Add(model.AddShortcutParams{
		Name:     name,
		URL:      rawURL,
		Category: category,
	})
	if err != nil {
		return a, a.fail(err)
	}

	// sc points into the store slice; copy what we need before rebuilding
	id, scURL, scName := sc.ID, sc.URL, sc.Name
	a.mode = ModeNormal
	a.logger.Debug("shortcut added", zap.String("id", id), zap.String("url", scURL))
	return a, tea.Batch(a.commit(id, "Added "+scName), a.resolveIcon(id, scURL))
}

func (a App) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "y", "Y":
		mode := a.mode
		target := a.confirm
		a.confirm.Reset()
		a.mode = ModeNormal

		switch mode {
		case ModeConfirmDelete:
			sc := a.store.ShortcutByID(target.ShortcutID)
			if sc == nil {
				a.rebuild("")
				return a, nil
			}
			name := sc.Name
			if err := a.store.Remove(target.ShortcutID); err != nil {
				return a, a.fail(err)
			}
			a.logger.Debug("shortcut removed", zap.String("id", target.ShortcutID))
			return a, a.commit("", "Deleted "+name)

		case ModeConfirmDeleteCategory:
			removed, err := a.store.DeleteCategory(target.Category)
			if err != nil {
				return a, a.fail(err)
			}
			if a.filter.Current == target.Category {
				a.filter.Current = search.FilterAll
			}
			a.logger.Debug("category removed", zap.String("category", target.Category), zap.Int("shortcuts", removed))
			return a, a.commit("", fmt.Sprintf("Deleted category %s (%d %s)",
				render.FormatCategoryName(target.Category), removed, plural(removed, "shortcut")))

		case ModeConfirmRemoveImage:
			if err := a.store.RemoveBackgroundImage(); err != nil {
				return a, a.fail(err)
			}
			a.styles = a.styles.WithTheme(a.store.Settings)
			return a, a.commit(a.selectedID(), "Background image removed")
		}

	case "esc", "n", "N", "q":
		if a.mode == ModeConfirmRemoveImage {
			a.mode = ModeSettings
		} else {
			a.mode = ModeNormal
		}
		a.confirm.Reset()
	}

	return a, nil
}

func (a App) updateSettings(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		a.mode = ModeNormal
		return a, nil
	case tea.KeyTab, tea.KeyDown:
		a.settings.NextField()
		return a, nil
	case tea.KeyShiftTab, tea.KeyUp:
		a.settings.PrevField()
		return a, nil
	case tea.KeyCtrlX:
		if !a.store.Settings.HasBackgroundImage() {
			return a, a.setMessage(MessageWarning, "No background image set")
		}
		a.mode = ModeConfirmRemoveImage
		return a, nil
	case tea.KeyEnter:
		return a.submitSettings()
	}

	return a, a.settings.Update(msg)
}

// submitSettings validates every field before touching the store, so a bad
// value leaves the settings unchanged.
func (a App) submitSettings() (tea.Model, tea.Cmd) {
	background, err := model.NormalizeColor(a.settings.BackgroundInput.Value())
	if err != nil {
		return a, a.setMessage(MessageError, "Background: "+err.Error())
	}
	button, err := model.NormalizeColor(a.settings.ButtonInput.Value())
	if err != nil {
		return a, a.setMessage(MessageError, "Button: "+err.Error())
	}

	if path := a.settings.ImagePath(); path != "" {
		data, mimeType, err := storage.ReadImageFile(path, a.maxImageBytes)
		if err != nil {
			return a, a.fail(err)
		}
		if err := a.store.SetBackgroundImage(data, mimeType, a.maxImageBytes); err != nil {
			return a, a.fail(err)
		}
	}

	_ = a.store.SetBackgroundColor(background)
	_ = a.store.SetButtonColor(button)

	a.styles = a.styles.WithTheme(a.store.Settings)
	a.mode = ModeNormal
	return a, a.commit(a.selectedID(), "Settings saved")
}

// resolveIcon looks up the icon and preview off the update loop.
func (a App) resolveIcon(id, rawURL string) tea.Cmd {
	if a.resolver == nil {
		return nil
	}
	resolver := a.resolver
	return func() tea.Msg {
		result := resolver.Resolve(context.Background(), rawURL)
		result.ID = id
		return iconResolvedMsg{result: result}
	}
}

// applyIcon stores a resolved icon. Results for shortcuts deleted while the
// lookup ran are dropped.
func (a App) applyIcon(result icon.Result) (tea.Model, tea.Cmd) {
	if err := a.store.SetIcon(result.ID, result.Icon, result.Preview); err != nil {
		a.logger.Debug("discarding icon result", zap.String("id", result.ID), zap.Error(err))
		return a, nil
	}

	a.rebuild(a.selectedID())
	if err := a.save(); err != nil {
		return a, a.setMessage(MessageError, "Could not save: "+err.Error())
	}
	return a, nil
}

// commit rebuilds the view, persists the store and reports success.
func (a *App) commit(selectID, success string) tea.Cmd {
	a.rebuild(selectID)
	if err := a.save(); err != nil {
		return a.setMessage(MessageError, "Could not save: "+err.Error())
	}
	return a.setMessage(MessageSuccess, success)
}

// save persists the current store to storage (if storage is configured).
// This should be called after any mutation to the store.
func (a *App) save() error {
	if a.storage == nil {
		return nil
	}
	if err := a.storage.Save(a.store); err != nil {
		a.logger.Error("save failed", zap.Error(err))
		return err
	}
	return nil
}

// fail shows a validation or lookup error as an error message.
func (a *App) fail(err error) tea.Cmd {
	return a.setMessage(MessageError, errorText(err))
}

// setMessage shows a status message and schedules its removal.
func (a *App) setMessage(t MessageType, text string) tea.Cmd {
	a.messageType = t
	a.messageText = text
	a.messageSeq++

	seq := a.messageSeq
	return tea.Tick(messageTimeout, func(time.Time) tea.Msg {
		return clearMessageMsg{seq: seq}
	})
}

// errorText capitalizes an error for display.
func errorText(err error) string {
	text := err.Error()
	r, size := utf8.DecodeRuneInString(text)
	if r == utf8.RuneError {
		return text
	}
	return string(unicode.ToUpper(r)) + text[size:]
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}

func indexOf(list []string, s string) int {
	for i, v := range list {
		if v == s {
			return i
		}
	}
	return -1
}

// View implements tea.Model.
func (a App) View() string {
	return a.renderView()
}
