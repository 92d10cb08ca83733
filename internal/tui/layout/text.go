package layout

import (
	"github.com/charmbracelet/x/ansi"
)

const resetCode = "\x1b[0m"

// StripANSI removes ANSI escape codes from a string.
func StripANSI(s string) string {
	return ansi.Strip(s)
}

// Width returns the number of terminal cells s occupies. Escape codes take
// none and wide runes such as CJK take two.
func Width(s string) int {
	return ansi.StringWidth(s)
}

// TruncateText cuts text to maxWidth cells, ending it with the ellipsis.
// Returns the truncated text and whether truncation occurred.
func TruncateText(text string, maxWidth int, cfg TextConfig) (string, bool) {
	if maxWidth <= 0 {
		return "", true
	}
	if Width(text) <= maxWidth {
		return text, false
	}
	if maxWidth <= Width(cfg.Ellipsis) {
		return ansi.Truncate(cfg.Ellipsis, maxWidth, ""), true
	}
	return ansi.Truncate(text, maxWidth, cfg.Ellipsis), true
}

// TruncateWithPrefixSuffix truncates text while keeping prefix and suffix,
// as in category rows: TruncateWithPrefixSuffix("Lisbon Cafes", 14, "● ", " (3)", cfg)
// gives "● Lisbo... (3)". When even the ellipsis does not fit between them
// the whole line is truncated instead.
func TruncateWithPrefixSuffix(text string, maxWidth int, prefix, suffix string, cfg TextConfig) (string, bool) {
	if maxWidth <= 0 {
		return "", true
	}

	combined := prefix + text + suffix
	if Width(combined) <= maxWidth {
		return combined, false
	}

	room := maxWidth - Width(prefix) - Width(suffix)
	if room <= Width(cfg.Ellipsis) {
		return TruncateText(combined, maxWidth, cfg)
	}
	return prefix + ansi.Truncate(text, room, cfg.Ellipsis) + suffix, true
}

// TruncateANSIAware truncates styled text such as highlighted search
// matches without cutting escape sequences apart. A reset code follows the
// ellipsis so styles do not bleed into the next cell.
func TruncateANSIAware(styledText string, maxWidth int, cfg TextConfig) string {
	if maxWidth <= 0 {
		return ""
	}
	if Width(styledText) <= maxWidth {
		return styledText
	}
	return ansi.Truncate(styledText, maxWidth, cfg.Ellipsis) + resetCode
}
