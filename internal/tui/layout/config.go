package layout

// Config collects the sizing knobs of the shortcut browser.
type Config struct {
	Pane  PaneConfig
	Modal ModalConfig
	Input InputConfig
	// Ellipsis marks truncated names, hostnames and headers.
	Ellipsis string
}

// PaneConfig sizes the list and detail panes.
type PaneConfig struct {
	// Chrome is the number of terminal rows not available to pane content:
	// app padding, header, pane borders and the hint bar.
	Chrome    int
	MinHeight int

	// Gutter is the number of columns lost to app padding and pane borders.
	Gutter int

	DetailPercent  int
	MinListWidth   int
	MinDetailWidth int

	// CollapseBelow is the terminal width under which the detail pane is hidden.
	CollapseBelow int

	// RowInset is the horizontal pane padding around each row.
	RowInset int
}

// ModalConfig sizes dialogs.
type ModalConfig struct {
	CompactPercent int
	WidePercent    int
	MinWidth       int
	MaxWidth       int

	// CategoryRows is how many categories the form picker shows at once.
	CategoryRows int
}

// Field bounds a single text input.
type Field struct {
	Limit int
	Width int
}

// InputConfig bounds every text input of the browser.
type InputConfig struct {
	Name     Field
	URL      Field
	Category Field
	Search   Field
	Color    Field
	Path     Field
}

// DefaultConfig returns the sizes used by the browser.
func DefaultConfig() Config {
	return Config{
		Pane: PaneConfig{
			Chrome:         7,
			MinHeight:      5,
			Gutter:         8,
			DetailPercent:  35,
			MinListWidth:   30,
			MinDetailWidth: 24,
			CollapseBelow:  70,
			RowInset:       2,
		},
		Modal: ModalConfig{
			CompactPercent: 40,
			WidePercent:    50,
			MinWidth:       50,
			MaxWidth:       80,
			CategoryRows:   6,
		},
		Input: InputConfig{
			Name:     Field{Limit: 100, Width: 40},
			URL:      Field{Limit: 500, Width: 40},
			Category: Field{Limit: 40, Width: 40},
			Search:   Field{Limit: 100, Width: 30},
			Color:    Field{Limit: 7, Width: 10},
			Path:     Field{Limit: 1024, Width: 40},
		},
		Ellipsis: "...",
	}
}
