// Package bookmarks is the category access and caching layer that sits
// between an embedding UI and the bookmark Store.
//
// A Manager serves category queries from the Store until the first bulk load
// finishes and from a snapshot afterwards. It relays sort, sharing and loading
// events to registered listeners. All Manager methods and all listener
// notifications run on one goroutine: results produced on Store workers are
// handed back through a Poster.
package bookmarks

import (
	"io"
	"net/url"

	"github.com/nikbrunner/placemarks/internal/model"
)

// Store owns categories, bookmarks and tracks. Lookups and mutations are
// synchronous. Sort, PrepareForSharing, PrepareTrackForSharing, LoadBookmarks
// and LoadBookmarksFile return immediately and report on a worker goroutine.
type Store interface {
	Category(id int64) (model.Category, bool)
	Categories() []model.Category
	// ChildrenCategories returns the categories under parentID; nil means top level.
	ChildrenCategories(parentID *int64) []model.Category
	IsVisible(id int64) bool
	SetVisibility(id int64, visible bool) error
	CreateCategory(name string) (int64, error)
	DeleteCategory(id int64) error
	DeleteBookmark(id int64) error
	DeleteTrack(id int64) error

	Bookmark(id int64) (model.Bookmark, bool)
	Track(id int64) (model.Track, bool)
	Bookmarks(categoryID int64) []model.Bookmark
	Tracks(categoryID int64) []model.Track

	LastSortingType(categoryID int64) (model.SortingType, bool)
	SetLastSortingType(categoryID int64, t model.SortingType) error
	ResetLastSortingType(categoryID int64) error
	AvailableSortingTypes(categoryID int64, hasMyPosition bool) []model.SortingType

	Sort(params model.SortParams, done func(model.SortResult))
	PrepareForSharing(categoryIDs []int64, fileType model.FileType, done func(model.SharingResult))
	PrepareTrackForSharing(trackID int64, fileType model.FileType, done func(model.SharingResult))

	LoadBookmarks()
	LoadBookmarksFile(path string, isTemporary bool)
	SetCallbacks(callbacks StoreCallbacks)
}

// StoreCallbacks are the lifecycle events of the Store. Any field may be nil.
type StoreCallbacks struct {
	OnLoadingStarted  func()
	OnLoadingFinished func()
	OnFileLoaded      func(path string, ok bool, isTemporary bool)
	OnChanged         func()
}

// ContentResolver answers metadata queries about an import locator and opens it.
type ContentResolver interface {
	// DisplayName returns the human readable name of a content reference.
	DisplayName(uri *url.URL) (string, bool)
	// MimeType returns the declared MIME type of the locator.
	MimeType(uri *url.URL) (string, bool)
	Open(uri *url.URL) (io.ReadCloser, error)
}

// Poster schedules a function on the goroutine that owns the Manager.
type Poster interface {
	Post(fn func())
}

// PosterFunc adapts a function to the Poster interface.
type PosterFunc func(fn func())

// Post calls f(fn).
func (f PosterFunc) Post(fn func()) {
	f(fn)
}
