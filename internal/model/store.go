package model

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrEmptyName         = errors.New("name is required")
	ErrEmptyURL          = errors.New("URL is required")
	ErrInvalidURL        = errors.New("URL must be an http or https address")
	ErrShortcutNotFound  = errors.New("shortcut not found")
	ErrCategoryNotFound  = errors.New("category not found")
	ErrEmptyCategory     = errors.New("category name is required")
	ErrInvalidColor      = errors.New("color must be a hex value like #5f8787")
	ErrImageTooLarge     = errors.New("background image exceeds size limit")
	ErrNotAnImage        = errors.New("background file is not an image")
	ErrNoBackgroundImage = errors.New("no background image set")
	ErrReservedCategory  = errors.New("category name is reserved")
	errDuplicateCategory = errors.New("category already exists")
)

// Category filter names. They select across categories and cannot name one.
const (
	CategoryAll       = "all"
	CategoryFavorites = "favorites"
)

// IsReservedCategory reports whether name collides with a filter name.
func IsReservedCategory(name string) bool {
	switch NormalizeCategory(name) {
	case CategoryAll, CategoryFavorites:
		return true
	}
	return false
}

// DefaultCategories seeds the category set of a fresh store.
var DefaultCategories = []string{"work", "social", "entertainment", "education", "news", "tools"}

// Store holds all shortcuts, the category set and appearance settings.
// It is not safe for concurrent use.
type Store struct {
	Shortcuts  []Shortcut `json:"shortcuts"`
	Categories []string   `json:"categories"`
	Settings   Settings   `json:"settings"`
}

// NewStore creates an empty Store seeded with the default categories.
func NewStore() *Store {
	categories := make([]string, len(DefaultCategories))
	copy(categories, DefaultCategories)

	return &Store{
		Shortcuts:  []Shortcut{},
		Categories: categories,
		Settings:   DefaultSettings(),
	}
}

// NormalizeCategory trims and lowercases a category name.
func NormalizeCategory(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// AddShortcutParams holds the form values for a new shortcut.
type AddShortcutParams struct {
	Name       string
	URL        string
	Category   string
	IsFavorite bool
}

// Add validates the input, normalizes the URL and appends a new shortcut.
// A category not yet in the set is added to it.
func (s *Store) Add(params AddShortcutParams) (*Shortcut, error) {
	name := strings.TrimSpace(params.Name)
	if name == "" {
		return nil, ErrEmptyName
	}

	normalized, err := NormalizeURL(params.URL)
	if err != nil {
		return nil, err
	}

	category := NormalizeCategory(params.Category)
	if IsReservedCategory(category) {
		return nil, ErrReservedCategory
	}
	if category != "" {
		s.ensureCategory(category)
	}

	shortcut := NewShortcut(NewShortcutParams{
		Name:       name,
		URL:        normalized,
		Category:   category,
		IsFavorite: params.IsFavorite,
	})
	s.Shortcuts = append(s.Shortcuts, shortcut)

	return &s.Shortcuts[len(s.Shortcuts)-1], nil
}

// UpdateShortcutParams holds the fields to change. Nil fields are left as-is.
type UpdateShortcutParams struct {
	Name     *string
	URL      *string
	Category *string
	Color    *string
}

// Update mutates the shortcut in place and reports whether its URL changed,
// in which case the caller should re-resolve the icon.
// Nothing is modified when validation fails or the ID is unknown.
func (s *Store) Update(id string, params UpdateShortcutParams) (bool, error) {
	shortcut := s.ShortcutByID(id)
	if shortcut == nil {
		return false, ErrShortcutNotFound
	}

	name := shortcut.Name
	if params.Name != nil {
		name = strings.TrimSpace(*params.Name)
		if name == "" {
			return false, ErrEmptyName
		}
	}

	rawURL := shortcut.URL
	if params.URL != nil {
		normalized, err := NormalizeURL(*params.URL)
		if err != nil {
			return false, err
		}
		rawURL = normalized
	}

	color := shortcut.Color
	if params.Color != nil {
		color = ""
		if strings.TrimSpace(*params.Color) != "" {
			c, err := NormalizeColor(*params.Color)
			if err != nil {
				return false, err
			}
			color = c
		}
	}

	category := shortcut.Category
	if params.Category != nil {
		category = NormalizeCategory(*params.Category)
		if IsReservedCategory(category) {
			return false, ErrReservedCategory
		}
		if category != "" {
			s.ensureCategory(category)
		}
	}

	urlChanged := rawURL != shortcut.URL
	shortcut.Name = name
	shortcut.URL = rawURL
	shortcut.Category = category
	shortcut.Color = color
	if urlChanged {
		shortcut.Icon = ""
		shortcut.Preview = nil
	}

	return urlChanged, nil
}

// SetIcon stores the resolved icon and preview for a shortcut.
// Results for shortcuts deleted in the meantime return ErrShortcutNotFound.
func (s *Store) SetIcon(id, icon string, preview *Preview) error {
	shortcut := s.ShortcutByID(id)
	if shortcut == nil {
		return ErrShortcutNotFound
	}
	shortcut.Icon = icon
	shortcut.Preview = preview
	return nil
}

// Remove deletes the shortcut with the given ID.
func (s *Store) Remove(id string) error {
	for i := range s.Shortcuts {
		if s.Shortcuts[i].ID == id {
			s.Shortcuts = append(s.Shortcuts[:i], s.Shortcuts[i+1:]...)
			return nil
		}
	}
	return ErrShortcutNotFound
}

// Duplicate appends a copy of the shortcut with a new ID and a suffixed name.
func (s *Store) Duplicate(id string) (*Shortcut, error) {
	original := s.ShortcutByID(id)
	if original == nil {
		return nil, ErrShortcutNotFound
	}

	clone := *original
	clone.ID = GenerateUUID()
	clone.Name = original.Name + CopySuffix
	clone.CreatedAt = time.Now()
	if original.Preview != nil {
		p := *original.Preview
		clone.Preview = &p
	}

	s.Shortcuts = append(s.Shortcuts, clone)
	return &s.Shortcuts[len(s.Shortcuts)-1], nil
}

// ToggleFavorite flips the favorite flag and returns the new value.
func (s *Store) ToggleFavorite(id string) (bool, error) {
	shortcut := s.ShortcutByID(id)
	if shortcut == nil {
		return false, ErrShortcutNotFound
	}
	shortcut.IsFavorite = !shortcut.IsFavorite
	return shortcut.IsFavorite, nil
}

// ShortcutByID finds a shortcut by ID, returns nil if not found.
func (s *Store) ShortcutByID(id string) *Shortcut {
	for i := range s.Shortcuts {
		if s.Shortcuts[i].ID == id {
			return &s.Shortcuts[i]
		}
	}
	return nil
}

// HasURL reports whether any shortcut points at the given URL.
func (s *Store) HasURL(rawURL string) bool {
	for _, sc := range s.Shortcuts {
		if sc.URL == rawURL {
			return true
		}
	}
	return false
}

// HasCategory reports whether the category is in the set.
func (s *Store) HasCategory(name string) bool {
	name = NormalizeCategory(name)
	for _, c := range s.Categories {
		if c == name {
			return true
		}
	}
	return false
}

// AddCategory adds a category to the set and returns its normalized name.
func (s *Store) AddCategory(name string) (string, error) {
	name = NormalizeCategory(name)
	if name == "" {
		return "", ErrEmptyCategory
	}
	if IsReservedCategory(name) {
		return "", ErrReservedCategory
	}
	if s.HasCategory(name) {
		return name, errDuplicateCategory
	}
	s.Categories = append(s.Categories, name)
	return name, nil
}

// ensureCategory adds the category if missing. Name must be normalized.
func (s *Store) ensureCategory(name string) {
	if !s.HasCategory(name) {
		s.Categories = append(s.Categories, name)
	}
}

// IsDuplicateCategory reports whether err came from adding an existing category.
func IsDuplicateCategory(err error) bool {
	return errors.Is(err, errDuplicateCategory)
}

// CountInCategory returns the number of shortcuts in the category.
func (s *Store) CountInCategory(name string) int {
	name = NormalizeCategory(name)
	count := 0
	for _, sc := range s.Shortcuts {
		if sc.Category == name {
			count++
		}
	}
	return count
}

// DeleteCategory removes the category and every shortcut referencing it.
// Returns the number of shortcuts removed.
func (s *Store) DeleteCategory(name string) (int, error) {
	name = NormalizeCategory(name)

	idx := -1
	for i, c := range s.Categories {
		if c == name {
			idx = i
			break
		}
	}
	if idx < 0 {
		return 0, ErrCategoryNotFound
	}

	kept := s.Shortcuts[:0]
	removed := 0
	for _, sc := range s.Shortcuts {
		if sc.Category == name {
			removed++
			continue
		}
		kept = append(kept, sc)
	}
	s.Shortcuts = kept
	s.Categories = append(s.Categories[:idx], s.Categories[idx+1:]...)

	return removed, nil
}

// SetBackgroundColor validates and stores the background color.
func (s *Store) SetBackgroundColor(color string) error {
	c, err := NormalizeColor(color)
	if err != nil {
		return err
	}
	s.Settings.BackgroundColor = c
	return nil
}

// SetButtonColor validates and stores the button color.
func (s *Store) SetButtonColor(color string) error {
	c, err := NormalizeColor(color)
	if err != nil {
		return err
	}
	s.Settings.ButtonColor = c
	return nil
}

// SetBackgroundImage stores image data as a data: URL.
// maxBytes <= 0 uses DefaultMaxBackgroundImageBytes.
func (s *Store) SetBackgroundImage(data []byte, mimeType string, maxBytes int) error {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBackgroundImageBytes
	}
	if len(data) > maxBytes {
		return ErrImageTooLarge
	}
	if !strings.HasPrefix(mimeType, "image/") {
		return ErrNotAnImage
	}
	s.Settings.BackgroundImage = EncodeDataURL(data, mimeType)
	return nil
}

// RemoveBackgroundImage clears the background image.
func (s *Store) RemoveBackgroundImage() error {
	if !s.Settings.HasBackgroundImage() {
		return ErrNoBackgroundImage
	}
	s.Settings.BackgroundImage = ""
	return nil
}

// ImportedShortcut is a shortcut parsed from an external source.
type ImportedShortcut struct {
	Name      string
	URL       string
	Category  string
	Icon      string
	CreatedAt time.Time
}

// ImportMerge adds imported shortcuts, skipping URLs already present.
// Returns counts of added and skipped shortcuts.
func (s *Store) ImportMerge(imported []ImportedShortcut) (added, skipped int) {
	for _, in := range imported {
		normalized, err := NormalizeURL(in.URL)
		if err != nil || s.HasURL(normalized) {
			skipped++
			continue
		}

		name := strings.TrimSpace(in.Name)
		if name == "" {
			name = normalized
		}

		// A browser's "Favorites" folder marks favorites rather than naming
		// a category.
		category, favorite := NormalizeCategory(in.Category), false
		if IsReservedCategory(category) {
			category, favorite = "", category == CategoryFavorites
		}
		if category != "" {
			s.ensureCategory(category)
		}

		shortcut := NewShortcut(NewShortcutParams{
			Name:       name,
			URL:        normalized,
			Category:   category,
			IsFavorite: favorite,
		})
		shortcut.Icon = in.Icon
		if !in.CreatedAt.IsZero() {
			shortcut.CreatedAt = in.CreatedAt
		}

		s.Shortcuts = append(s.Shortcuts, shortcut)
		added++
	}
	return added, skipped
}

// Repair enforces store invariants on loaded data: every shortcut has a
// unique ID, categories are normalized, registered and not reserved, and
// settings hold valid colors. Returns the number of fixes applied.
func (s *Store) Repair() int {
	fixes := 0

	if s.Shortcuts == nil {
		s.Shortcuts = []Shortcut{}
	}
	if s.Categories == nil {
		s.Categories = []string{}
	}

	seenCategories := make(map[string]bool, len(s.Categories))
	categories := make([]string, 0, len(s.Categories))
	for _, c := range s.Categories {
		n := NormalizeCategory(c)
		if n == "" || IsReservedCategory(n) || seenCategories[n] {
			fixes++
			continue
		}
		if n != c {
			fixes++
		}
		seenCategories[n] = true
		categories = append(categories, n)
	}
	s.Categories = categories

	seenIDs := make(map[string]bool, len(s.Shortcuts))
	for i := range s.Shortcuts {
		sc := &s.Shortcuts[i]
		if sc.ID == "" || seenIDs[sc.ID] {
			sc.ID = GenerateUUID()
			fixes++
		}
		seenIDs[sc.ID] = true

		if n := NormalizeCategory(sc.Category); n != sc.Category {
			sc.Category = n
			fixes++
		}
		if IsReservedCategory(sc.Category) {
			sc.IsFavorite = sc.IsFavorite || sc.Category == CategoryFavorites
			sc.Category = ""
			fixes++
		}
		if sc.Category != "" && !seenCategories[sc.Category] {
			seenCategories[sc.Category] = true
			s.Categories = append(s.Categories, sc.Category)
			fixes++
		}

		if sc.Color != "" {
			if c, err := NormalizeColor(sc.Color); err != nil {
				sc.Color = ""
				fixes++
			} else {
				sc.Color = c
			}
		}
		if sc.CreatedAt.IsZero() {
			sc.CreatedAt = time.Now()
			fixes++
		}
	}

	defaults := DefaultSettings()
	if c, err := NormalizeColor(s.Settings.BackgroundColor); err != nil {
		s.Settings.BackgroundColor = defaults.BackgroundColor
		fixes++
	} else {
		s.Settings.BackgroundColor = c
	}
	if c, err := NormalizeColor(s.Settings.ButtonColor); err != nil {
		s.Settings.ButtonColor = defaults.ButtonColor
		fixes++
	} else {
		s.Settings.ButtonColor = c
	}

	return fixes
}
