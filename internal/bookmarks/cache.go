package bookmarks

import (
	"slices"

	"github.com/nikbrunner/placemarks/internal/model"
)

// SnapshotCache holds the latest category snapshot and the listeners that
// want to hear when it is replaced. A published snapshot is never modified.
type SnapshotCache struct {
	snapshot  []model.Category
	listeners *registry[DataChangedListener]
}

// NewSnapshotCache creates an empty cache.
func NewSnapshotCache() *SnapshotCache {
	return &SnapshotCache{listeners: newRegistry[DataChangedListener]("data changed")}
}

// Update replaces the snapshot with a copy of categories and notifies every
// listener in registration order before returning.
func (c *SnapshotCache) Update(categories []model.Category) {
	c.snapshot = slices.Clone(categories)
	if c.snapshot == nil {
		c.snapshot = []model.Category{}
	}
	c.listeners.each(func(l DataChangedListener) {
		l.OnChanged()
	})
}

// Categories returns a copy of the current snapshot.
func (c *SnapshotCache) Categories() []model.Category {
	return slices.Clone(c.snapshot)
}

// Len returns the number of categories in the snapshot.
func (c *SnapshotCache) Len() int {
	return len(c.snapshot)
}

// lookup finds a category in the snapshot without copying the snapshot.
func (c *SnapshotCache) lookup(id int64) (model.Category, bool) {
	for _, cat := range c.snapshot {
		if cat.ID == id {
			return cat, true
		}
	}
	return model.Category{}, false
}

// RegisterListener adds l. It panics if l is already registered.
func (c *SnapshotCache) RegisterListener(l DataChangedListener) {
	c.listeners.add(l)
}

// UnregisterListener removes l. It panics if l is not registered.
func (c *SnapshotCache) UnregisterListener(l DataChangedListener) {
	c.listeners.remove(l)
}
