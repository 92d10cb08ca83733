package model

// Category is a named group of bookmarks and tracks.
type Category struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	Description    string `json:"description"`
	Visible        bool   `json:"visible"`
	ParentID       *int64 `json:"parentId"` // nil = top level
	BookmarksCount int    `json:"bookmarksCount"`
	TracksCount    int    `json:"tracksCount"`
}

// NewCategoryParams holds parameters for creating a new Category.
type NewCategoryParams struct {
	ID       int64
	Name     string
	ParentID *int64
}

// NewCategory creates a visible, empty Category.
func NewCategory(params NewCategoryParams) Category {
	return Category{
		ID:       params.ID,
		Name:     params.Name,
		Visible:  true,
		ParentID: params.ParentID,
	}
}

// IsEmpty reports whether the category holds no bookmarks and no tracks.
func (c Category) IsEmpty() bool {
	return c.BookmarksCount == 0 && c.TracksCount == 0
}
