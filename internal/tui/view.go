package tui

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nikbrunner/placemarks/internal/model"
	"github.com/nikbrunner/placemarks/internal/search"
	"github.com/nikbrunner/placemarks/internal/tui/layout"
)

// renderView creates the category list and detail panes.
func (a App) renderView() string {
	if a.mode != ModeNormal {
		return a.renderModal()
	}

	paneHeight := layout.CalculatePaneHeight(a.height, a.layoutConfig.Pane)
	widths := layout.CalculatePaneWidths(a.width, a.layoutConfig.Pane)

	columns := lipgloss.JoinHorizontal(
		lipgloss.Top,
		a.renderCategoryPane(widths.ListWidth, paneHeight),
		a.renderDetailPane(widths.DetailWidth, paneHeight),
	)

	content := a.styles.App.Render(
		lipgloss.JoinVertical(lipgloss.Left, a.renderTitle(), columns, a.renderStatus(), a.renderHintBar()),
	)

	// Use Place to ensure exact terminal dimensions and prevent overflow
	return lipgloss.Place(a.width, a.height, lipgloss.Left, lipgloss.Top, content)
}

func (a App) renderTitle() string {
	meta := fmt.Sprintf("  %d categories · %s", len(a.categories), a.manager.ProviderKind())
	return a.styles.Title.Render("placemarks") + a.styles.Meta.Render(meta)
}

func (a App) paneStyle(p Pane) lipgloss.Style {
	if a.focus == p {
		return a.styles.PaneActive
	}
	return a.styles.Pane
}

// renderCategoryPane renders the category list with visibility markers and
// record counts.
func (a App) renderCategoryPane(width, height int) string {
	var content strings.Builder
	content.WriteString(a.styles.Title.Render("Categories") + "\n\n")

	visibleHeight := layout.CalculateVisibleHeight(height, a.layoutConfig.Pane.HeaderLines)
	itemWidth := layout.CalculateItemWidth(width, a.layoutConfig.Pane)

	if len(a.categories) == 0 {
		content.WriteString(a.styles.Empty.Render("(no categories)"))
	} else {
		offset := layout.CalculateViewportOffset(a.cursor, len(a.categories), visibleHeight)
		var lines []string
		for i := offset; i < len(a.categories) && i < offset+visibleHeight; i++ {
			lines = append(lines, a.renderCategory(a.categories[i], i == a.cursor, itemWidth))
		}
		content.WriteString(strings.Join(lines, "\n"))
	}

	return a.paneStyle(PaneCategories).
		Width(width).
		Height(height).
		Render(content.String())
}

func (a App) renderCategory(cat model.Category, selected bool, width int) string {
	marker := "● "
	style := a.styles.Item
	if !cat.Visible {
		marker = "○ "
		style = a.styles.Hidden
	}
	suffix := fmt.Sprintf(" (%d)", cat.BookmarksCount+cat.TracksCount)
	line, _ := layout.TruncateWithPrefixSuffix(cat.Name, width, marker, suffix, a.layoutConfig.Text)

	switch {
	case selected && a.focus == PaneCategories:
		return a.styles.ItemSelected.Render(padRight(line, width))
	case selected:
		return style.Bold(true).Render(line)
	default:
		return style.Render(line)
	}
}

// renderDetailPane renders the sorted blocks of the open category.
func (a App) renderDetailPane(width, height int) string {
	var content strings.Builder
	itemWidth := layout.CalculateItemWidth(width, a.layoutConfig.Pane)

	if !a.detail.Open {
		content.WriteString(a.styles.Title.Render("Bookmarks") + "\n\n")
		content.WriteString(a.styles.Empty.Render("(open a category with l)"))
		return a.paneStyle(PaneDetail).Width(width).Height(height).Render(content.String())
	}

	name := "?"
	if cat, err := a.manager.CategoryByID(a.detail.CategoryID); err == nil {
		name = cat.Name
	}
	header := fmt.Sprintf("by %s", a.detail.SortType)
	if a.detail.Sorting {
		header += " ..."
	}
	title, _ := layout.TruncateText(name, max(itemWidth-len(header)-1, 1), a.layoutConfig.Text)
	content.WriteString(a.styles.Title.Render(title) + " " + a.styles.Meta.Render(header) + "\n\n")

	visibleHeight := layout.CalculateVisibleHeight(height, a.layoutConfig.Pane.HeaderLines)

	if len(a.detail.Rows) == 0 {
		if !a.detail.Sorting {
			content.WriteString(a.styles.Empty.Render("(empty category)"))
		}
	} else {
		offset := layout.CalculateViewportOffset(a.detail.Cursor, len(a.detail.Rows), visibleHeight)
		var lines []string
		for i := offset; i < len(a.detail.Rows) && i < offset+visibleHeight; i++ {
			lines = append(lines, a.renderRow(a.detail.Rows[i], i == a.detail.Cursor, itemWidth))
		}
		content.WriteString(strings.Join(lines, "\n"))
	}

	return a.paneStyle(PaneDetail).
		Width(width).
		Height(height).
		Render(content.String())
}

func (a App) renderRow(row Row, selected bool, width int) string {
	if row.Kind == RowBlock {
		line, _ := layout.TruncateText("── "+row.Block+" ──", width, a.layoutConfig.Text)
		return a.styles.Block.Render(line)
	}

	prefix := "  "
	if row.Kind == RowTrack {
		prefix = "~ "
	}
	meta := a.rowMeta(row)
	nameWidth := width - len([]rune(meta))
	line, _ := layout.TruncateWithPrefixSuffix(row.Title(), nameWidth, prefix, "", a.layoutConfig.Text)

	if selected && a.focus == PaneDetail {
		return a.styles.ItemSelected.Render(padRight(line, nameWidth) + meta)
	}
	return a.styles.Item.Render(line) + a.styles.Meta.Render(meta)
}

// rowMeta is the distance to a bookmark or the length of a track.
func (a App) rowMeta(row Row) string {
	switch {
	case row.Kind == RowTrack:
		return "  " + formatDistance(row.Track.Length())
	case a.position != nil:
		return "  " + formatDistance(a.position.DistanceTo(row.Bookmark.Position()))
	default:
		return ""
	}
}

func formatDistance(meters float64) string {
	if meters < 1000 {
		return fmt.Sprintf("%.0f m", meters)
	}
	return fmt.Sprintf("%.1f km", meters/1000)
}

func padRight(s string, width int) string {
	if n := layout.Width(s); n < width {
		return s + strings.Repeat(" ", width-n)
	}
	return s
}

func (a App) renderStatus() string {
	if a.loading {
		return a.styles.Status.Render("Loading bookmarks...")
	}
	if a.statusErr {
		return a.styles.Error.Render(a.status)
	}
	return a.styles.Status.Render(a.status)
}

// renderModal renders the overlay of the current mode.
func (a App) renderModal() string {
	width := layout.CalculateModalWidth(a.width, a.layoutConfig.Modal)

	var body string
	switch a.mode {
	case ModeSearch:
		body = a.renderSearch(width)
	case ModeCreateCategory:
		body = a.renderCreate()
	case ModeConfirmDelete:
		body = a.renderConfirm()
	case ModeHelp:
		body = a.renderHelp()
	}

	box := a.styles.Modal.Width(width).Render(body)
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, box)
}

func (a App) renderSearch(width int) string {
	var content strings.Builder
	content.WriteString(a.styles.Title.Render("Search") + "\n\n")
	content.WriteString(a.search.Input.View() + "\n\n")

	query := a.search.Input.Value()
	switch {
	case query == "":
		content.WriteString(a.styles.Empty.Render("Type to search categories and bookmarks"))
	case len(a.search.Results) == 0:
		content.WriteString(a.styles.Empty.Render("No matches"))
	default:
		// Modal border and padding take 6 columns
		itemWidth := width - 6
		start, end := layout.CalculateVisibleListItems(a.layoutConfig.Modal.ResultsVisible, a.search.Cursor, len(a.search.Results))
		var lines []string
		for i := start; i < end; i++ {
			lines = append(lines, a.renderResult(a.search.Results[i], i == a.search.Cursor, itemWidth))
		}
		content.WriteString(strings.Join(lines, "\n"))
	}

	content.WriteString("\n\n" + a.renderHints([]Hint{
		{"↑/↓", "select"}, {"enter", "open"}, {"esc", "cancel"},
	}))
	return content.String()
}

func (a App) renderResult(r search.Result, selected bool, width int) string {
	prefix := "▸ "
	if r.Kind == search.KindBookmark {
		prefix = "  "
	}

	var name strings.Builder
	for i, ch := range r.Name() {
		if slices.Contains(r.MatchedIndexes, i) {
			name.WriteString(a.styles.Match.Render(string(ch)))
		} else {
			name.WriteRune(ch)
		}
	}

	line := prefix + name.String()
	if r.Kind == search.KindBookmark {
		if cat, err := a.manager.CategoryByID(r.Bookmark.CategoryID); err == nil {
			line += a.styles.Meta.Render("  " + cat.Name)
		}
	}
	line = layout.TruncateANSIAware(line, width, a.layoutConfig.Text)

	if selected {
		return a.styles.Title.Render("> ") + line
	}
	return "  " + line
}

func (a App) renderCreate() string {
	var content strings.Builder
	content.WriteString(a.styles.Title.Render("New category") + "\n\n")
	content.WriteString(a.create.Input.View())
	if a.create.Error != "" {
		content.WriteString("\n" + a.styles.Error.Render(a.create.Error))
	}
	content.WriteString("\n\n" + a.renderHints([]Hint{{"enter", "create"}, {"esc", "cancel"}}))
	return content.String()
}

func (a App) renderConfirm() string {
	kind := "category"
	switch a.confirm.Kind {
	case RowBookmark:
		kind = "bookmark"
	case RowTrack:
		kind = "track"
	}

	var content strings.Builder
	content.WriteString(a.styles.Title.Render("Delete "+kind) + "\n\n")
	content.WriteString(fmt.Sprintf("Delete %q?", a.confirm.Name))
	if a.confirm.Kind == RowBlock {
		content.WriteString("\n" + a.styles.Meta.Render("Its bookmarks and tracks are deleted too."))
	}
	content.WriteString("\n\n" + a.renderHints([]Hint{{"enter/y", "delete"}, {"any key", "cancel"}}))
	return content.String()
}

func (a App) renderHelp() string {
	var content strings.Builder
	content.WriteString(a.styles.Title.Render("Keys") + "\n\n")
	for _, b := range a.keys.helpBindings() {
		help := b.Help()
		content.WriteString(a.styles.HintKey.Render(fmt.Sprintf("%-10s", help.Key)) + " " + a.styles.HintDesc.Render(help.Desc) + "\n")
	}
	content.WriteString("\n" + a.styles.Meta.Render("press any key to close"))
	return content.String()
}
