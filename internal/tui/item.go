package tui

import "github.com/nikbrunner/placemarks/internal/model"

// RowKind distinguishes the lines of the category detail pane.
type RowKind int

const (
	RowBlock RowKind = iota
	RowBookmark
	RowTrack
)

// Row is one line of the detail pane: a block header, a bookmark or a track.
type Row struct {
	Kind     RowKind
	Block    string
	Bookmark *model.Bookmark
	Track    *model.Track
}

// ID returns the record id, or 0 for block headers.
func (r Row) ID() int64 {
	switch r.Kind {
	case RowBookmark:
		return r.Bookmark.ID
	case RowTrack:
		return r.Track.ID
	default:
		return 0
	}
}

// Title returns a display title for the row.
func (r Row) Title() string {
	switch r.Kind {
	case RowBookmark:
		return r.Bookmark.Name
	case RowTrack:
		return r.Track.Name
	default:
		return r.Block
	}
}

// Selectable reports whether the cursor may rest on the row.
func (r Row) Selectable() bool {
	return r.Kind != RowBlock
}

// rowsFromBlocks expands sorted blocks into rows, resolving ids through the lookups.
// Ids that no longer resolve are skipped.
func rowsFromBlocks(blocks []model.SortedBlock, bookmark func(int64) (model.Bookmark, bool), track func(int64) (model.Track, bool)) []Row {
	var rows []Row
	for _, block := range blocks {
		rows = append(rows, Row{Kind: RowBlock, Block: block.Name})
		for _, id := range block.BookmarkIDs {
			if b, ok := bookmark(id); ok {
				rows = append(rows, Row{Kind: RowBookmark, Bookmark: &b})
			}
		}
		for _, id := range block.TrackIDs {
			if t, ok := track(id); ok {
				rows = append(rows, Row{Kind: RowTrack, Track: &t})
			}
		}
	}
	return rows
}
