package layout

// LayoutConfig holds all layout-related configuration values.
type LayoutConfig struct {
	Pane  PaneConfig
	Modal ModalConfig
	Text  TextConfig
}

// PaneConfig holds pane dimension configuration.
type PaneConfig struct {
	// HeightReduction is subtracted from terminal height for pane content.
	// Accounts for: app padding (1) + title (1) + pane borders (2) + status line (1) + hints (1) = 6
	HeightReduction int

	// MinHeight is the minimum pane height.
	MinHeight int

	// WidthOffset is subtracted from terminal width before splitting it.
	// Accounts for app padding (4) and the borders of both panes (4).
	WidthOffset int

	// ListWidthPercent is the share of the width given to the category list.
	ListWidthPercent int

	// MinListWidth is the minimum width of the category list.
	MinListWidth int

	// MinDetailWidth is the minimum width of the category detail pane.
	MinDetailWidth int

	// ContentPadding is subtracted from pane width for item rendering.
	ContentPadding int

	// HeaderLines is the number of lines above the items in a pane.
	HeaderLines int
}

// ModalConfig holds overlay configuration.
type ModalConfig struct {
	// WidthPercent is the overlay width as percentage of terminal width.
	WidthPercent int

	// MinWidth is the minimum overlay width in characters.
	MinWidth int

	// MaxWidth is the maximum overlay width in characters.
	MaxWidth int

	// ResultsVisible is the number of search results shown at once.
	ResultsVisible int

	// InputCharLimit limits search and name inputs.
	InputCharLimit int
}

// TextConfig holds text truncation configuration.
type TextConfig struct {
	// Ellipsis is the string used to indicate truncation.
	Ellipsis string
}

// DefaultConfig returns the default layout configuration.
func DefaultConfig() LayoutConfig {
	return LayoutConfig{
		Pane: PaneConfig{
			HeightReduction:  6,
			MinHeight:        5,
			WidthOffset:      8,
			ListWidthPercent: 40,
			MinListWidth:     20,
			MinDetailWidth:   30,
			ContentPadding:   2,
			HeaderLines:      2,
		},
		Modal: ModalConfig{
			WidthPercent:   60,
			MinWidth:       40,
			MaxWidth:       90,
			ResultsVisible: 10,
			InputCharLimit: 100,
		},
		Text: TextConfig{
			Ellipsis: "...",
		},
	}
}
