package bookmarks

import (
	"io"
	"log/slog"

	"github.com/nikbrunner/placemarks/internal/model"
)

// ManagerParams holds parameters for creating a new Manager.
type ManagerParams struct {
	Store  Store
	Poster Poster
	Logger *slog.Logger
}

// Manager is the single entry point of the embedding layer to bookmark data.
// It must only be used from the goroutine its Poster runs functions on.
type Manager struct {
	store    Store
	poster   Poster
	logger   *slog.Logger
	cache    *SnapshotCache
	provider dataProvider
	// loads counts Store loads that started and have not finished.
	loads int

	loadingListeners *registry[LoadingListener]
	sortingListeners *registry[SortingListener]
	sharingListeners *registry[SharingListener]
}

// NewManager creates a Manager in the live state and installs its callbacks
// on the Store.
func NewManager(params ManagerParams) *Manager {
	logger := params.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	m := &Manager{
		store:            params.Store,
		poster:           params.Poster,
		logger:           logger,
		cache:            NewSnapshotCache(),
		provider:         &liveProvider{store: params.Store},
		loadingListeners: newRegistry[LoadingListener]("loading"),
		sortingListeners: newRegistry[SortingListener]("sorting"),
		sharingListeners: newRegistry[SharingListener]("sharing"),
	}

	m.store.SetCallbacks(StoreCallbacks{
		OnLoadingStarted: func() {
			m.post(m.onLoadingStarted)
		},
		OnLoadingFinished: func() {
			m.post(m.onLoadingFinished)
		},
		OnFileLoaded: func(path string, ok, isTemporary bool) {
			m.post(func() { m.onFileLoaded(path, ok, isTemporary) })
		},
		OnChanged: func() {
			m.post(m.onChanged)
		},
	})

	return m
}

func (m *Manager) post(fn func()) {
	m.poster.Post(fn)
}

// Cache returns the snapshot cache.
func (m *Manager) Cache() *SnapshotCache {
	return m.cache
}

// ProviderKind reports which data provider answers queries.
func (m *Manager) ProviderKind() ProviderKind {
	return m.provider.kind()
}

// IsLoading reports whether any bulk load has started and not finished yet.
func (m *Manager) IsLoading() bool {
	return m.loads > 0
}

// Categories returns all categories in Store order.
func (m *Manager) Categories() []model.Category {
	return m.provider.categories()
}

// CategoriesCount returns the number of categories.
func (m *Manager) CategoriesCount() int {
	return len(m.provider.categories())
}

// CategoryByID returns the category with the given id or ErrCategoryNotFound.
func (m *Manager) CategoryByID(id int64) (model.Category, error) {
	return m.provider.categoryByID(id)
}

// ChildrenCategories returns the categories under parentID; nil means top level.
func (m *Manager) ChildrenCategories(parentID *int64) []model.Category {
	return m.provider.childrenCategories(parentID)
}

// IsUsedCategoryName reports whether a category already has this name.
func (m *Manager) IsUsedCategoryName(name string) bool {
	for _, cat := range m.provider.categories() {
		if cat.Name == name {
			return true
		}
	}
	return false
}

// AreAllCategoriesVisible reports whether every category is shown on the map.
func (m *Manager) AreAllCategoriesVisible() bool {
	for _, cat := range m.provider.categories() {
		if !cat.Visible {
			return false
		}
	}
	return true
}

// AreAllCategoriesInvisible reports whether every category is hidden.
func (m *Manager) AreAllCategoriesInvisible() bool {
	for _, cat := range m.provider.categories() {
		if cat.Visible {
			return false
		}
	}
	return true
}

// AddCategoriesUpdatesListener registers l with the snapshot cache.
// It panics if l is already registered.
func (m *Manager) AddCategoriesUpdatesListener(l DataChangedListener) {
	m.cache.RegisterListener(l)
}

// RemoveCategoriesUpdatesListener unregisters l. It panics if l is unknown.
func (m *Manager) RemoveCategoriesUpdatesListener(l DataChangedListener) {
	m.cache.UnregisterListener(l)
}

// AddLoadingListener registers l. It panics if l is already registered.
func (m *Manager) AddLoadingListener(l LoadingListener) {
	m.loadingListeners.add(l)
}

// RemoveLoadingListener unregisters l. It panics if l is unknown.
func (m *Manager) RemoveLoadingListener(l LoadingListener) {
	m.loadingListeners.remove(l)
}

// AddSortingListener registers l. It panics if l is already registered.
func (m *Manager) AddSortingListener(l SortingListener) {
	m.sortingListeners.add(l)
}

// RemoveSortingListener unregisters l. It panics if l is unknown.
func (m *Manager) RemoveSortingListener(l SortingListener) {
	m.sortingListeners.remove(l)
}

// AddSharingListener registers l. It panics if l is already registered.
func (m *Manager) AddSharingListener(l SharingListener) {
	m.sharingListeners.add(l)
}

// RemoveSharingListener unregisters l. It panics if l is unknown.
func (m *Manager) RemoveSharingListener(l SharingListener) {
	m.sharingListeners.remove(l)
}

// Store event handlers. They run on the Manager goroutine.

func (m *Manager) onLoadingStarted() {
	m.loads++
	m.loadingListeners.each(func(l LoadingListener) {
		l.OnLoadingStarted()
	})
}

func (m *Manager) onLoadingFinished() {
	if m.loads > 0 {
		m.loads--
	}
	previous := m.provider.kind()
	m.provider = &cachedProvider{cache: m.cache, store: m.store}
	m.updateCache()
	if previous == ProviderLive {
		m.logger.Info("data provider switched", "from", previous.String(), "to", ProviderCached.String(),
			"categories", m.cache.Len())
	} else {
		m.logger.Debug("data provider refreshed", "categories", m.cache.Len())
	}

	m.loadingListeners.each(func(l LoadingListener) {
		l.OnLoadingFinished()
	})
}

func (m *Manager) onChanged() {
	m.updateCache()
}

func (m *Manager) updateCache() {
	m.cache.Update(m.store.Categories())
}

// onFileLoaded removes temporary import copies whatever the outcome.
func (m *Manager) onFileLoaded(path string, ok, isTemporary bool) {
	if isTemporary {
		removeTempCopy(path, m.logger)
	}

	if ok {
		m.logger.Info("bookmarks file loaded", "path", path)
		m.loadingListeners.each(func(l LoadingListener) {
			l.OnFileImportSuccessful()
		})
		return
	}

	m.logger.Warn("bookmarks file failed to load", "path", path)
	m.loadingListeners.each(func(l LoadingListener) {
		l.OnFileImportFailed()
	})
}

// LoadBookmarks asks the Store to load its persisted categories.
func (m *Manager) LoadBookmarks() {
	m.store.LoadBookmarks()
}

// LoadBookmarksFile asks the Store to load one bookmark file. A temporary
// file is deleted once the Store reports on it.
func (m *Manager) LoadBookmarksFile(path string, isTemporary bool) {
	m.logger.Debug("loading bookmarks file", "path", path, "temporary", isTemporary)
	m.store.LoadBookmarksFile(path, isTemporary)
}
