package render

import "strings"

// Nerd Font icons (requires a Nerd Font to display correctly)
const (
	IconGlobe    = "\uf0ac" // web
	IconBookmark = "\uf02e" // bookmark
	IconStar     = "\uf005" // star
	IconFolder   = "\uf07b" // folder
)

// Glyph returns the single-cell symbol shown for a card icon.
// Terminals cannot draw favicons, so a resolved icon URL and the fallback
// glyph get different symbols.
func Glyph(icon string, nerdFont bool) string {
	resolved := strings.HasPrefix(icon, "http://") || strings.HasPrefix(icon, "https://")

	if nerdFont {
		if resolved {
			return IconBookmark
		}
		return IconGlobe
	}
	if resolved {
		return "◆"
	}
	return "○"
}

// FavoriteMark returns the marker for favorite cards, or a blank of equal width.
func FavoriteMark(isFavorite, nerdFont bool) string {
	if !isFavorite {
		return " "
	}
	if nerdFont {
		return IconStar
	}
	return "★"
}

// SectionMark returns the prefix for a category heading. Only Nerd Font
// terminals get one.
func SectionMark(nerdFont bool) string {
	if nerdFont {
		return IconFolder + " "
	}
	return ""
}
