package tui

import (
	"github.com/charmbracelet/bubbles/textinput"

	"github.com/nikbrunner/placemarks/internal/model"
	"github.com/nikbrunner/placemarks/internal/search"
	"github.com/nikbrunner/placemarks/internal/tui/layout"
)

// Mode represents the current interaction mode.
type Mode int

const (
	ModeNormal Mode = iota
	ModeSearch
	ModeCreateCategory
	ModeConfirmDelete
	ModeHelp
)

// Pane identifies the focused pane.
type Pane int

const (
	PaneCategories Pane = iota
	PaneDetail
)

// DetailState holds the open category and its sorted contents.
type DetailState struct {
	Open       bool
	CategoryID int64
	SortType   model.SortingType
	Rows       []Row
	Cursor     int
	// Sorting is set while the latest sort request is outstanding.
	Sorting bool
	// focusID selects this record once the next sort result arrives.
	focusID int64
}

// SearchState holds state for the fuzzy search overlay.
type SearchState struct {
	Input     textinput.Model
	Results   []search.Result
	Cursor    int
	bookmarks []model.Bookmark // every bookmark, collected when search opens
}

// NewSearchState creates a new SearchState with an initialized input.
func NewSearchState(cfg layout.LayoutConfig) SearchState {
	input := textinput.New()
	input.Placeholder = "Search categories and bookmarks..."
	input.CharLimit = cfg.Modal.InputCharLimit
	return SearchState{Input: input}
}

// Reset clears the search state for a new session.
func (s *SearchState) Reset() {
	s.Input.Reset()
	s.Input.Blur()
	s.Results = nil
	s.Cursor = 0
	s.bookmarks = nil
}

// CreateState holds state for the new category form.
type CreateState struct {
	Input textinput.Model
	Error string
}

// NewCreateState creates a new CreateState with an initialized input.
func NewCreateState(cfg layout.LayoutConfig) CreateState {
	input := textinput.New()
	input.Placeholder = "Category name"
	input.CharLimit = cfg.Modal.InputCharLimit
	return CreateState{Input: input}
}

// Reset clears the form.
func (c *CreateState) Reset() {
	c.Input.Reset()
	c.Input.Blur()
	c.Error = ""
}

// ConfirmState describes what a pending delete would remove.
type ConfirmState struct {
	Kind RowKind // RowBlock stands for a whole category
	ID   int64
	Name string
}

// selected returns the row under the cursor when it is selectable.
func (d DetailState) selected() (Row, bool) {
	if d.Cursor < 0 || d.Cursor >= len(d.Rows) || !d.Rows[d.Cursor].Selectable() {
		return Row{}, false
	}
	return d.Rows[d.Cursor], true
}

// step returns the index of the next selectable row after from in
// direction dir, or from when there is none.
func (d DetailState) step(from, dir int) int {
	for i := from + dir; i >= 0 && i < len(d.Rows); i += dir {
		if d.Rows[i].Selectable() {
			return i
		}
	}
	return from
}

func (d *DetailState) clampCursor() {
	if d.Cursor < 0 || d.Cursor >= len(d.Rows) {
		d.Cursor = 0
	}
}

// setRows replaces the rows. The cursor stays on the same record, or moves
// to the record requested through focusID, or to the first selectable row.
func (d *DetailState) setRows(rows []Row) {
	want, ok := d.selected()
	if d.focusID != 0 {
		want, ok = Row{Kind: RowBookmark, Bookmark: &model.Bookmark{ID: d.focusID}}, true
		d.focusID = 0
	}

	d.Rows = rows
	d.Cursor = d.step(-1, 1)
	d.clampCursor()

	if !ok {
		return
	}
	for i, r := range rows {
		if r.Kind == want.Kind && r.ID() == want.ID() {
			d.Cursor = i
			return
		}
	}
}
