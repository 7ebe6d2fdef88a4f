package layout

// Panes is the geometry of the main screen.
type Panes struct {
	List   int
	Detail int // 0 when collapsed
	Height int
}

// Split divides a terminal of the given size between the shortcut list and
// the detail pane. Terminals narrower than CollapseBelow get the list only.
func Split(width, height int, cfg PaneConfig) Panes {
	p := Panes{Height: max(height-cfg.Chrome, cfg.MinHeight)}

	usable := width - cfg.Gutter
	if width < cfg.CollapseBelow {
		p.List = max(usable, cfg.MinListWidth)
		return p
	}

	p.Detail = max(usable*cfg.DetailPercent/100, cfg.MinDetailWidth)
	p.List = max(usable-p.Detail, cfg.MinListWidth)
	return p
}

// ShowDetail reports whether the detail pane is drawn.
func (p Panes) ShowDetail() bool {
	return p.Detail > 0
}

// RowWidth is the room for a card or section heading inside the list pane.
func (p Panes) RowWidth(cfg PaneConfig) int {
	return max(p.List-cfg.RowInset, 0)
}
