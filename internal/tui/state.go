package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nikbrunner/sc/internal/model"
	"github.com/nikbrunner/sc/internal/tui/layout"
)

// FormField identifies the focused field of the shortcut form.
type FormField int

const (
	FieldName FormField = iota
	FieldURL
	FieldCategory
	FieldNewCategory
	formFieldCount
)

// FormState holds state for the add/edit shortcut modal.
type FormState struct {
	NameInput        textinput.Model
	URLInput         textinput.Model
	NewCategoryInput textinput.Model // overrides the selected category when set
	Categories       []string        // "" first = uncategorized
	CategoryIdx      int
	Focus            FormField
	EditID           string // empty when adding
}

// NewFormState creates a new FormState with initialized inputs.
func NewFormState(cfg layout.Config) FormState {
	nameInput := textinput.New()
	nameInput.Placeholder = "Name"
	nameInput.CharLimit = cfg.Input.Name.Limit
	nameInput.Width = cfg.Input.Name.Width

	urlInput := textinput.New()
	urlInput.Placeholder = "example.com"
	urlInput.CharLimit = cfg.Input.URL.Limit
	urlInput.Width = cfg.Input.URL.Width

	categoryInput := textinput.New()
	categoryInput.Placeholder = "New category (optional)"
	categoryInput.CharLimit = cfg.Input.Category.Limit
	categoryInput.Width = cfg.Input.Category.Width

	return FormState{
		NameInput:        nameInput,
		URLInput:         urlInput,
		NewCategoryInput: categoryInput,
	}
}

// Reset clears the form and loads the category choices.
func (f *FormState) Reset(categories []string) {
	f.NameInput.Reset()
	f.URLInput.Reset()
	f.NewCategoryInput.Reset()
	f.Categories = append([]string{""}, categories...)
	f.CategoryIdx = 0
	f.EditID = ""
	f.setFocus(FieldName)
}

// Load fills the form from an existing shortcut for editing.
func (f *FormState) Load(sc model.Shortcut, categories []string) {
	f.Reset(categories)
	f.EditID = sc.ID
	f.NameInput.SetValue(sc.Name)
	f.URLInput.SetValue(sc.URL)
	for i, c := range f.Categories {
		if c == sc.Category {
			f.CategoryIdx = i
			break
		}
	}
}

// IsEdit reports whether the form edits an existing shortcut.
func (f FormState) IsEdit() bool {
	return f.EditID != ""
}

// Category returns the chosen category: the typed new category if any,
// otherwise the selected existing one.
func (f FormState) Category() string {
	if typed := model.NormalizeCategory(f.NewCategoryInput.Value()); typed != "" {
		return typed
	}
	if f.CategoryIdx < len(f.Categories) {
		return f.Categories[f.CategoryIdx]
	}
	return ""
}

// NextField moves focus forward, wrapping around.
func (f *FormState) NextField() {
	f.setFocus((f.Focus + 1) % formFieldCount)
}

// PrevField moves focus backward, wrapping around.
func (f *FormState) PrevField() {
	f.setFocus((f.Focus + formFieldCount - 1) % formFieldCount)
}

// CycleCategory moves the category selection by delta, wrapping around.
func (f *FormState) CycleCategory(delta int) {
	n := len(f.Categories)
	if n == 0 {
		return
	}
	f.CategoryIdx = ((f.CategoryIdx+delta)%n + n) % n
}

// Update routes a message to the focused text input.
func (f *FormState) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch f.Focus {
	case FieldName:
		f.NameInput, cmd = f.NameInput.Update(msg)
	case FieldURL:
		f.URLInput, cmd = f.URLInput.Update(msg)
	case FieldNewCategory:
		f.NewCategoryInput, cmd = f.NewCategoryInput.Update(msg)
	}
	return cmd
}

func (f *FormState) setFocus(field FormField) {
	f.Focus = field
	f.NameInput.Blur()
	f.URLInput.Blur()
	f.NewCategoryInput.Blur()

	switch field {
	case FieldName:
		f.NameInput.Focus()
	case FieldURL:
		f.URLInput.Focus()
	case FieldNewCategory:
		f.NewCategoryInput.Focus()
	}
}

// SettingsField identifies the focused field of the settings modal.
type SettingsField int

const (
	FieldBackground SettingsField = iota
	FieldButton
	FieldImage
	settingsFieldCount
)

// SettingsState holds state for the appearance settings modal.
type SettingsState struct {
	BackgroundInput textinput.Model
	ButtonInput     textinput.Model
	ImageInput      textinput.Model // path of a new background image
	Focus           SettingsField
}

// NewSettingsState creates a new SettingsState with initialized inputs.
func NewSettingsState(cfg layout.Config) SettingsState {
	bgInput := textinput.New()
	bgInput.Placeholder = model.DefaultBackgroundColor
	bgInput.CharLimit = cfg.Input.Color.Limit
	bgInput.Width = cfg.Input.Color.Width

	buttonInput := textinput.New()
	buttonInput.Placeholder = model.DefaultButtonColor
	buttonInput.CharLimit = cfg.Input.Color.Limit
	buttonInput.Width = cfg.Input.Color.Width

	imageInput := textinput.New()
	imageInput.Placeholder = "~/Pictures/background.png"
	imageInput.CharLimit = cfg.Input.Path.Limit
	imageInput.Width = cfg.Input.Path.Width

	return SettingsState{
		BackgroundInput: bgInput,
		ButtonInput:     buttonInput,
		ImageInput:      imageInput,
	}
}

// Load fills the inputs from the current settings.
func (s *SettingsState) Load(settings model.Settings) {
	s.BackgroundInput.SetValue(settings.BackgroundColor)
	s.ButtonInput.SetValue(settings.ButtonColor)
	s.BackgroundInput.CursorEnd()
	s.ButtonInput.CursorEnd()
	s.ImageInput.Reset()
	s.setFocus(FieldBackground)
}

// ImagePath returns the trimmed image path, empty when none was entered.
func (s SettingsState) ImagePath() string {
	return strings.TrimSpace(s.ImageInput.Value())
}

// NextField moves focus forward, wrapping around.
func (s *SettingsState) NextField() {
	s.setFocus((s.Focus + 1) % settingsFieldCount)
}

// PrevField moves focus backward, wrapping around.
func (s *SettingsState) PrevField() {
	s.setFocus((s.Focus + settingsFieldCount - 1) % settingsFieldCount)
}

// Update routes a message to the focused text input.
func (s *SettingsState) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch s.Focus {
	case FieldBackground:
		s.BackgroundInput, cmd = s.BackgroundInput.Update(msg)
	case FieldButton:
		s.ButtonInput, cmd = s.ButtonInput.Update(msg)
	case FieldImage:
		s.ImageInput, cmd = s.ImageInput.Update(msg)
	}
	return cmd
}

func (s *SettingsState) setFocus(field SettingsField) {
	s.Focus = field
	s.BackgroundInput.Blur()
	s.ButtonInput.Blur()
	s.ImageInput.Blur()

	switch field {
	case FieldBackground:
		s.BackgroundInput.Focus()
	case FieldButton:
		s.ButtonInput.Focus()
	case FieldImage:
		s.ImageInput.Focus()
	}
}

// SearchState holds state for the debounced search input.
type SearchState struct {
	Input textinput.Model
	Seq   int // bumped on every keystroke; stale debounce ticks are ignored
}

// NewSearchState creates a new SearchState with initialized input.
func NewSearchState(cfg layout.Config) SearchState {
	input := textinput.New()
	input.Placeholder = "Search name or URL..."
	input.CharLimit = cfg.Input.Search.Limit
	input.Width = cfg.Input.Search.Width
	input.Prompt = "/"

	return SearchState{Input: input}
}

// Reset clears the search input.
func (s *SearchState) Reset() {
	s.Input.Reset()
	s.Seq++
}

// ConfirmState holds the target of a pending destructive action.
type ConfirmState struct {
	ShortcutID string
	Category   string
	Count      int // shortcuts removed along with Category
}

// Reset clears the pending action.
func (c *ConfirmState) Reset() {
	*c = ConfirmState{}
}
