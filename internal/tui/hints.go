package tui

import "strings"

// Hint represents a single keybind hint for display.
type Hint struct {
	Key  string // Display key (e.g., "j/k", "enter")
	Desc string // Short description (e.g., "move", "open")
}

// renderHints renders hints in horizontal format: "j/k:move l:open"
func (a App) renderHints(hints []Hint) string {
	if len(hints) == 0 {
		return ""
	}

	parts := make([]string, len(hints))
	for i, h := range hints {
		parts[i] = a.styles.HintKey.Render(h.Key) + ":" + a.styles.HintDesc.Render(h.Desc)
	}
	return strings.Join(parts, " ")
}

// renderHintBar renders the hints for the focused pane.
func (a App) renderHintBar() string {
	return a.renderHints(a.contextualHints())
}

// contextualHints returns the hints that apply to the focused pane.
func (a App) contextualHints() []Hint {
	if a.focus == PaneDetail {
		return []Hint{
			{"j/k", "move"},
			{"h", "back"},
			{"o", "sort"},
			{"v", "hide"},
			{"s", "share"},
			{"d", "delete"},
			{"?", "help"},
		}
	}
	return []Hint{
		{"j/k", "move"},
		{"l", "open"},
		{"v", "hide"},
		{"s", "share"},
		{"a", "add"},
		{"d", "delete"},
		{"/", "search"},
		{"?", "help"},
		{"q", "quit"},
	}
}
