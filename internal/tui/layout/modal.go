package layout

// ModalSize selects a dialog width class.
type ModalSize int

const (
	// ModalCompact is used for confirmations.
	ModalCompact ModalSize = iota
	// ModalWide is used for the shortcut form and settings.
	ModalWide
)

// ModalWidth sizes a dialog as a share of the terminal, bounded by the
// configured minimum and maximum and never wider than the terminal allows.
func ModalWidth(terminalWidth int, size ModalSize, cfg ModalConfig) int {
	percent := cfg.CompactPercent
	if size == ModalWide {
		percent = cfg.WidePercent
	}

	width := min(max(terminalWidth*percent/100, cfg.MinWidth), cfg.MaxWidth)
	return max(min(width, terminalWidth-4), 1)
}
