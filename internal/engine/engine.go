// Package engine is the reference bookmark Store. It keeps the catalog in
// memory, persists it through a storage backend and runs sorting, sharing
// and file loading on background goroutines.
package engine

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/nikbrunner/placemarks/internal/bookmarks"
	"github.com/nikbrunner/placemarks/internal/model"
	"github.com/nikbrunner/placemarks/internal/storage"
)

// ErrNotFound is returned by mutations on unknown ids.
var ErrNotFound = errors.New("not found")

// Params holds parameters for creating a new Engine.
type Params struct {
	// Storage persists the catalog. Nil keeps everything in memory.
	Storage storage.Storage
	// ShareDir receives files prepared for sharing.
	ShareDir string
	// Workers is the number of concurrent file parsers. Defaults to 4.
	Workers int
	Logger  *slog.Logger
	// Now defaults to time.Now.
	Now func() time.Time
}

// Engine implements bookmarks.Store.
type Engine struct {
	mu      sync.RWMutex
	catalog *model.Catalog
	// loaded is set once catalog holds the persisted state. Writes before
	// that read storage first so Save never replaces it with a partial catalog.
	loaded bool

	storage  storage.Storage
	shareDir string
	workers  int
	logger   *slog.Logger
	now      func() time.Time

	cbMu      sync.RWMutex
	callbacks bookmarks.StoreCallbacks

	loads atomic.Int32
	wg    sync.WaitGroup
}

var _ bookmarks.Store = (*Engine)(nil)

// New creates an Engine with an empty catalog. Call LoadBookmarks to read
// the persisted one; a write issued earlier reads it on demand.
func New(params Params) *Engine {
	e := &Engine{
		catalog:  model.NewCatalog(),
		loaded:   params.Storage == nil,
		storage:  params.Storage,
		shareDir: params.ShareDir,
		workers:  params.Workers,
		logger:   params.Logger,
		now:      params.Now,
	}
	if e.workers <= 0 {
		e.workers = 4
	}
	if e.logger == nil {
		e.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if e.now == nil {
		e.now = time.Now
	}
	return e
}

// SetCallbacks installs the lifecycle callbacks.
func (e *Engine) SetCallbacks(callbacks bookmarks.StoreCallbacks) {
	e.cbMu.Lock()
	defer e.cbMu.Unlock()
	e.callbacks = callbacks
}

func (e *Engine) cb() bookmarks.StoreCallbacks {
	e.cbMu.RLock()
	defer e.cbMu.RUnlock()
	return e.callbacks
}

// Wait blocks until every background operation has finished.
func (e *Engine) Wait() {
	e.wg.Wait()
}

// IsLoading reports whether a load is in progress.
func (e *Engine) IsLoading() bool {
	return e.loads.Load() > 0
}

// async runs fn on a new goroutine tracked by Wait.
func (e *Engine) async(fn func()) {
	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		fn()
	}()
}

// mutate applies fn to the catalog, persists it and announces the change.
func (e *Engine) mutate(fn func(c *model.Catalog) error) error {
	e.mu.Lock()
	if err := e.ensureLoadedLocked(); err != nil {
		e.mu.Unlock()
		return err
	}
	if err := fn(e.catalog); err != nil {
		e.mu.Unlock()
		return err
	}
	err := e.persistLocked()
	e.mu.Unlock()

	e.async(e.emitChanged)
	return err
}

// reloadLocked replaces the catalog with the persisted one.
func (e *Engine) reloadLocked() error {
	if e.storage == nil {
		e.loaded = true
		return nil
	}
	catalog, err := e.storage.Load()
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}
	e.catalog = catalog
	e.loaded = true
	return nil
}

func (e *Engine) ensureLoadedLocked() error {
	if e.loaded {
		return nil
	}
	return e.reloadLocked()
}

func (e *Engine) persistLocked() error {
	if e.storage == nil {
		return nil
	}
	if err := e.storage.Save(e.catalog); err != nil {
		e.logger.Error("save catalog", "error", err)
		return fmt.Errorf("save catalog: %w", err)
	}
	return nil
}

func (e *Engine) emitChanged() {
	if fn := e.cb().OnChanged; fn != nil {
		fn()
	}
}

// Category returns a category with its counts.
func (e *Engine) Category(id int64) (model.Category, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.catalog.CategoryWithCounts(id)
}

// Categories returns every category in catalog order.
func (e *Engine) Categories() []model.Category {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.catalog.GetCategories()
}

// ChildrenCategories returns the categories under parentID; nil means top level.
func (e *Engine) ChildrenCategories(parentID *int64) []model.Category {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.catalog.GetCategoriesInCategory(parentID)
}

// IsVisible reports whether a category is visible. Unknown ids are not.
func (e *Engine) IsVisible(id int64) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	cat := e.catalog.GetCategoryByID(id)
	return cat != nil && cat.Visible
}

// SetVisibility shows or hides a category.
func (e *Engine) SetVisibility(id int64, visible bool) error {
	return e.mutate(func(c *model.Catalog) error {
		cat := c.GetCategoryByID(id)
		if cat == nil {
			return fmt.Errorf("category %d: %w", id, ErrNotFound)
		}
		cat.Visible = visible
		return nil
	})
}

// CreateCategory adds an empty top level category.
func (e *Engine) CreateCategory(name string) (int64, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, errors.New("category name is empty")
	}

	var id int64
	err := e.mutate(func(c *model.Catalog) error {
		if c.HasCategoryName(name) {
			return fmt.Errorf("category %q already exists", name)
		}
		id = c.AddCategory(name)
		return nil
	})
	return id, err
}

// DeleteCategory removes a category with its contents and subcategories.
func (e *Engine) DeleteCategory(id int64) error {
	return e.mutate(func(c *model.Catalog) error {
		if err := c.RemoveCategory(id); err != nil {
			return fmt.Errorf("%w: %w", ErrNotFound, err)
		}
		return nil
	})
}

// DeleteBookmark removes a bookmark.
func (e *Engine) DeleteBookmark(id int64) error {
	return e.mutate(func(c *model.Catalog) error {
		if err := c.RemoveBookmark(id); err != nil {
			return fmt.Errorf("%w: %w", ErrNotFound, err)
		}
		return nil
	})
}

// DeleteTrack removes a track.
func (e *Engine) DeleteTrack(id int64) error {
	return e.mutate(func(c *model.Catalog) error {
		if err := c.RemoveTrack(id); err != nil {
			return fmt.Errorf("%w: %w", ErrNotFound, err)
		}
		return nil
	})
}

// Bookmark returns a bookmark by id.
func (e *Engine) Bookmark(id int64) (model.Bookmark, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if b := e.catalog.GetBookmarkByID(id); b != nil {
		return *b, true
	}
	return model.Bookmark{}, false
}

// Track returns a track by id.
func (e *Engine) Track(id int64) (model.Track, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if t := e.catalog.GetTrackByID(id); t != nil {
		return *t, true
	}
	return model.Track{}, false
}

// Bookmarks returns the bookmarks of a category.
func (e *Engine) Bookmarks(categoryID int64) []model.Bookmark {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.catalog.GetBookmarksInCategory(categoryID)
}

// Tracks returns the tracks of a category.
func (e *Engine) Tracks(categoryID int64) []model.Track {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.catalog.GetTracksInCategory(categoryID)
}

// LastSortingType returns the saved sorting type of a category.
func (e *Engine) LastSortingType(categoryID int64) (model.SortingType, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	t, ok := e.catalog.SortPrefs[categoryID]
	return t, ok
}

// SetLastSortingType saves the sorting type of a category.
func (e *Engine) SetLastSortingType(categoryID int64, t model.SortingType) error {
	return e.mutate(func(c *model.Catalog) error {
		if c.GetCategoryByID(categoryID) == nil {
			return fmt.Errorf("category %d: %w", categoryID, ErrNotFound)
		}
		c.SortPrefs[categoryID] = t
		return nil
	})
}

// ResetLastSortingType forgets the saved sorting type of a category.
func (e *Engine) ResetLastSortingType(categoryID int64) error {
	return e.mutate(func(c *model.Catalog) error {
		delete(c.SortPrefs, categoryID)
		return nil
	})
}

// AvailableSortingTypes returns the sorting types that produce useful blocks
// for a category. Sorting by name is always available.
func (e *Engine) AvailableSortingTypes(categoryID int64, hasMyPosition bool) []model.SortingType {
	cat, ok := e.Category(categoryID)
	if !ok {
		return nil
	}

	var types []model.SortingType
	if cat.BookmarksCount > 0 {
		types = append(types, model.SortByType)
		if hasMyPosition {
			types = append(types, model.SortByDistance)
		}
	}
	if !cat.IsEmpty() {
		types = append(types, model.SortByTime)
	}
	return append(types, model.SortByName)
}
