package model

import "fmt"

// Catalog holds all categories, bookmarks and tracks known to the Store.
type Catalog struct {
	Categories []Category            `json:"categories"`
	Bookmarks  []Bookmark            `json:"bookmarks"`
	Tracks     []Track               `json:"tracks"`
	SortPrefs  map[int64]SortingType `json:"sortPrefs"` // last sorting type per category
	NextID     int64                 `json:"nextId"`
}

// NewCatalog creates an empty Catalog with initialized collections.
func NewCatalog() *Catalog {
	return &Catalog{
		Categories: []Category{},
		Bookmarks:  []Bookmark{},
		Tracks:     []Track{},
		SortPrefs:  map[int64]SortingType{},
		NextID:     1,
	}
}

// Normalize replaces nil collections and repairs NextID after decoding.
func (c *Catalog) Normalize() {
	if c.Categories == nil {
		c.Categories = []Category{}
	}
	if c.Bookmarks == nil {
		c.Bookmarks = []Bookmark{}
	}
	if c.Tracks == nil {
		c.Tracks = []Track{}
	}
	if c.SortPrefs == nil {
		c.SortPrefs = map[int64]SortingType{}
	}

	maxID := int64(0)
	for _, cat := range c.Categories {
		maxID = max(maxID, cat.ID)
	}
	for _, b := range c.Bookmarks {
		maxID = max(maxID, b.ID)
	}
	for _, t := range c.Tracks {
		maxID = max(maxID, t.ID)
	}
	if c.NextID <= maxID {
		c.NextID = maxID + 1
	}
}

// AllocateID returns a fresh id. Ids are unique across all record kinds.
func (c *Catalog) AllocateID() int64 {
	if c.NextID < 1 {
		c.NextID = 1
	}
	id := c.NextID
	c.NextID++
	return id
}

// GetCategoriesInCategory returns categories with the given parent ID.
// Pass nil for top level categories.
func (c *Catalog) GetCategoriesInCategory(parentID *int64) []Category {
	var result []Category
	for _, cat := range c.Categories {
		if ptrEqual(cat.ParentID, parentID) {
			result = append(result, c.withCounts(cat))
		}
	}
	return result
}

// GetCategories returns every category with its counts filled in.
func (c *Catalog) GetCategories() []Category {
	result := make([]Category, 0, len(c.Categories))
	for _, cat := range c.Categories {
		result = append(result, c.withCounts(cat))
	}
	return result
}

// GetCategoryByID finds a category by ID, returns nil if not found.
// The returned pointer aliases the catalog; counts are not filled in.
func (c *Catalog) GetCategoryByID(id int64) *Category {
	for i := range c.Categories {
		if c.Categories[i].ID == id {
			return &c.Categories[i]
		}
	}
	return nil
}

// CategoryWithCounts returns a copy of the category with bookmark and track counts.
func (c *Catalog) CategoryWithCounts(id int64) (Category, bool) {
	cat := c.GetCategoryByID(id)
	if cat == nil {
		return Category{}, false
	}
	return c.withCounts(*cat), true
}

// GetBookmarksInCategory returns bookmarks in the given category.
func (c *Catalog) GetBookmarksInCategory(categoryID int64) []Bookmark {
	var result []Bookmark
	for _, b := range c.Bookmarks {
		if b.CategoryID == categoryID {
			result = append(result, b)
		}
	}
	return result
}

// GetTracksInCategory returns tracks in the given category.
func (c *Catalog) GetTracksInCategory(categoryID int64) []Track {
	var result []Track
	for _, t := range c.Tracks {
		if t.CategoryID == categoryID {
			result = append(result, t)
		}
	}
	return result
}

// GetBookmarkByID finds a bookmark by ID, returns nil if not found.
func (c *Catalog) GetBookmarkByID(id int64) *Bookmark {
	for i := range c.Bookmarks {
		if c.Bookmarks[i].ID == id {
			return &c.Bookmarks[i]
		}
	}
	return nil
}

// GetTrackByID finds a track by ID, returns nil if not found.
func (c *Catalog) GetTrackByID(id int64) *Track {
	for i := range c.Tracks {
		if c.Tracks[i].ID == id {
			return &c.Tracks[i]
		}
	}
	return nil
}

// AddCategory appends a new top level category and returns its id.
func (c *Catalog) AddCategory(name string) int64 {
	cat := NewCategory(NewCategoryParams{ID: c.AllocateID(), Name: name})
	c.Categories = append(c.Categories, cat)
	return cat.ID
}

// HasCategoryName reports whether a category with exactly this name exists.
func (c *Catalog) HasCategoryName(name string) bool {
	for _, cat := range c.Categories {
		if cat.Name == name {
			return true
		}
	}
	return false
}

// RemoveCategory deletes a category with its bookmarks, tracks and subcategories.
func (c *Catalog) RemoveCategory(id int64) error {
	if c.GetCategoryByID(id) == nil {
		return fmt.Errorf("category %d not found", id)
	}

	doomed := map[int64]bool{id: true}
	// Collect descendants until no new ones appear.
	for changed := true; changed; {
		changed = false
		for _, cat := range c.Categories {
			if cat.ParentID != nil && doomed[*cat.ParentID] && !doomed[cat.ID] {
				doomed[cat.ID] = true
				changed = true
			}
		}
	}

	categories := c.Categories[:0]
	for _, cat := range c.Categories {
		if !doomed[cat.ID] {
			categories = append(categories, cat)
		}
	}
	c.Categories = categories

	bookmarks := c.Bookmarks[:0]
	for _, b := range c.Bookmarks {
		if !doomed[b.CategoryID] {
			bookmarks = append(bookmarks, b)
		}
	}
	c.Bookmarks = bookmarks

	tracks := c.Tracks[:0]
	for _, t := range c.Tracks {
		if !doomed[t.CategoryID] {
			tracks = append(tracks, t)
		}
	}
	c.Tracks = tracks

	for catID := range doomed {
		delete(c.SortPrefs, catID)
	}
	return nil
}

// RemoveBookmark deletes a bookmark by ID.
func (c *Catalog) RemoveBookmark(id int64) error {
	for i := range c.Bookmarks {
		if c.Bookmarks[i].ID == id {
			c.Bookmarks = append(c.Bookmarks[:i], c.Bookmarks[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("bookmark %d not found", id)
}

// RemoveTrack deletes a track by ID.
func (c *Catalog) RemoveTrack(id int64) error {
	for i := range c.Tracks {
		if c.Tracks[i].ID == id {
			c.Tracks = append(c.Tracks[:i], c.Tracks[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("track %d not found", id)
}

// ImportMerge adds an imported category with its contents under fresh ids.
// The incoming ids only need to be consistent among themselves.
// A name that is already used gets a numeric suffix. Returns the new category id.
func (c *Catalog) ImportMerge(category Category, bookmarks []Bookmark, tracks []Track) int64 {
	name := category.Name
	for n := 1; c.HasCategoryName(name); n++ {
		name = fmt.Sprintf("%s (%d)", category.Name, n)
	}

	imported := category
	imported.ID = c.AllocateID()
	imported.Name = name
	imported.ParentID = nil
	imported.BookmarksCount = 0
	imported.TracksCount = 0
	c.Categories = append(c.Categories, imported)

	for _, b := range bookmarks {
		b.ID = c.AllocateID()
		b.CategoryID = imported.ID
		c.Bookmarks = append(c.Bookmarks, b)
	}
	for _, t := range tracks {
		t.ID = c.AllocateID()
		t.CategoryID = imported.ID
		c.Tracks = append(c.Tracks, t)
	}

	return imported.ID
}

// withCounts fills BookmarksCount and TracksCount for a copy of cat.
func (c *Catalog) withCounts(cat Category) Category {
	cat.BookmarksCount = 0
	cat.TracksCount = 0
	for _, b := range c.Bookmarks {
		if b.CategoryID == cat.ID {
			cat.BookmarksCount++
		}
	}
	for _, t := range c.Tracks {
		if t.CategoryID == cat.ID {
			cat.TracksCount++
		}
	}
	return cat
}

// ptrEqual compares two id pointers for equality.
func ptrEqual(a, b *int64) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return *a == *b
}
