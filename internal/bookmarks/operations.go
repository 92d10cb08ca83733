package bookmarks

import (
	"fmt"

	"github.com/nikbrunner/placemarks/internal/model"
)

// Bookmark returns a bookmark by id.
func (m *Manager) Bookmark(id int64) (model.Bookmark, bool) {
	return m.store.Bookmark(id)
}

// Track returns a track by id.
func (m *Manager) Track(id int64) (model.Track, bool) {
	return m.store.Track(id)
}

// Bookmarks returns the bookmarks of a category.
func (m *Manager) Bookmarks(categoryID int64) []model.Bookmark {
	return m.store.Bookmarks(categoryID)
}

// Tracks returns the tracks of a category.
func (m *Manager) Tracks(categoryID int64) []model.Track {
	return m.store.Tracks(categoryID)
}

// IsVisible reports whether a category is shown on the map.
func (m *Manager) IsVisible(id int64) bool {
	return m.store.IsVisible(id)
}

// SetVisibility shows or hides a category.
func (m *Manager) SetVisibility(id int64, visible bool) error {
	if err := m.store.SetVisibility(id, visible); err != nil {
		return fmt.Errorf("set visibility of category %d: %w", id, err)
	}
	return nil
}

// ToggleVisibility flips the visibility of a category and returns the new value.
func (m *Manager) ToggleVisibility(id int64) (bool, error) {
	visible := !m.store.IsVisible(id)
	if err := m.SetVisibility(id, visible); err != nil {
		return !visible, err
	}
	return visible, nil
}

// SetAllCategoriesVisibility shows or hides every category.
func (m *Manager) SetAllCategoriesVisibility(visible bool) error {
	for _, cat := range m.store.Categories() {
		if cat.Visible == visible {
			continue
		}
		if err := m.SetVisibility(cat.ID, visible); err != nil {
			return err
		}
	}
	return nil
}

// CreateCategory creates an empty top level category and returns its id.
func (m *Manager) CreateCategory(name string) (int64, error) {
	id, err := m.store.CreateCategory(name)
	if err != nil {
		return 0, fmt.Errorf("create category %q: %w", name, err)
	}
	return id, nil
}

// DeleteCategory deletes a category with everything in it.
func (m *Manager) DeleteCategory(id int64) error {
	if err := m.store.DeleteCategory(id); err != nil {
		return fmt.Errorf("delete category %d: %w", id, err)
	}
	return nil
}

// DeleteBookmark deletes a bookmark.
func (m *Manager) DeleteBookmark(id int64) error {
	if err := m.store.DeleteBookmark(id); err != nil {
		return fmt.Errorf("delete bookmark %d: %w", id, err)
	}
	return nil
}

// DeleteTrack deletes a track.
func (m *Manager) DeleteTrack(id int64) error {
	if err := m.store.DeleteTrack(id); err != nil {
		return fmt.Errorf("delete track %d: %w", id, err)
	}
	return nil
}

// HasLastSortingType reports whether a sorting type was saved for the category.
func (m *Manager) HasLastSortingType(categoryID int64) bool {
	_, ok := m.store.LastSortingType(categoryID)
	return ok
}

// LastSortingType returns the saved sorting type of a category.
func (m *Manager) LastSortingType(categoryID int64) (model.SortingType, bool) {
	return m.store.LastSortingType(categoryID)
}

// SetLastSortingType saves the sorting type of a category.
func (m *Manager) SetLastSortingType(categoryID int64, t model.SortingType) error {
	return m.store.SetLastSortingType(categoryID, t)
}

// ResetLastSortingType forgets the saved sorting type of a category.
func (m *Manager) ResetLastSortingType(categoryID int64) error {
	return m.store.ResetLastSortingType(categoryID)
}

// AvailableSortingTypes returns the sorting types that make sense for a category.
func (m *Manager) AvailableSortingTypes(categoryID int64, hasMyPosition bool) []model.SortingType {
	return m.store.AvailableSortingTypes(categoryID, hasMyPosition)
}

// SortCategory asks the Store to sort a category. The outcome reaches every
// SortingListener tagged with params.Timestamp.
func (m *Manager) SortCategory(params model.SortParams) {
	m.logger.Debug("sort requested", "category", params.CategoryID,
		"type", params.Type.String(), "timestamp", params.Timestamp)

	m.store.Sort(params, func(result model.SortResult) {
		m.post(func() { m.onSortResult(result) })
	})
}

func (m *Manager) onSortResult(result model.SortResult) {
	switch result.Status {
	case model.SortCompleted:
		m.sortingListeners.each(func(l SortingListener) {
			l.OnSortingCompleted(result.Blocks, result.Timestamp)
		})
	default:
		m.sortingListeners.each(func(l SortingListener) {
			l.OnSortingCancelled(result.Timestamp)
		})
	}
}

// PrepareCategoriesForSharing asks the Store to write the categories to files
// of the given type. The outcome reaches every SharingListener.
func (m *Manager) PrepareCategoriesForSharing(categoryIDs []int64, fileType model.FileType) {
	m.logger.Debug("sharing requested", "categories", categoryIDs, "type", fileType.String())
	m.store.PrepareForSharing(categoryIDs, fileType, m.relaySharing)
}

// PrepareTrackForSharing asks the Store to write a single track to a file.
func (m *Manager) PrepareTrackForSharing(trackID int64, fileType model.FileType) {
	m.logger.Debug("track sharing requested", "track", trackID, "type", fileType.String())
	m.store.PrepareTrackForSharing(trackID, fileType, m.relaySharing)
}

// relaySharing runs on a Store worker.
func (m *Manager) relaySharing(result model.SharingResult) {
	m.post(func() {
		if result.Code != model.SharingSuccess {
			m.logger.Warn("sharing failed", "code", result.Code.String(), "diagnostic", result.Diagnostic)
		}
		m.sharingListeners.each(func(l SharingListener) {
			l.OnPreparedFileForSharing(result)
		})
	})
}
