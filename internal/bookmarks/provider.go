package bookmarks

import (
	"errors"
	"fmt"

	"github.com/nikbrunner/placemarks/internal/model"
)

// ErrCategoryNotFound is returned when a category id is unknown to both the
// snapshot and the Store.
var ErrCategoryNotFound = errors.New("category not found")

// ProviderKind names the data provider currently answering queries.
type ProviderKind int

const (
	ProviderLive   ProviderKind = iota // queries go to the Store
	ProviderCached                     // queries read the snapshot
)

func (k ProviderKind) String() string {
	switch k {
	case ProviderLive:
		return "live"
	case ProviderCached:
		return "cached"
	default:
		return fmt.Sprintf("ProviderKind(%d)", int(k))
	}
}

type dataProvider interface {
	kind() ProviderKind
	categories() []model.Category
	categoryByID(id int64) (model.Category, error)
	childrenCategories(parentID *int64) []model.Category
}

type liveProvider struct {
	store Store
}

func (p *liveProvider) kind() ProviderKind { return ProviderLive }

func (p *liveProvider) categories() []model.Category {
	return p.store.Categories()
}

func (p *liveProvider) categoryByID(id int64) (model.Category, error) {
	if cat, ok := p.store.Category(id); ok {
		return cat, nil
	}
	return model.Category{}, fmt.Errorf("category %d: %w", id, ErrCategoryNotFound)
}

func (p *liveProvider) childrenCategories(parentID *int64) []model.Category {
	return p.store.ChildrenCategories(parentID)
}

// cachedProvider serves the snapshot. Lookups by id fall back to the Store
// because the snapshot can lag behind it.
type cachedProvider struct {
	cache *SnapshotCache
	store Store
}

func (p *cachedProvider) kind() ProviderKind { return ProviderCached }

func (p *cachedProvider) categories() []model.Category {
	return p.cache.Categories()
}

func (p *cachedProvider) categoryByID(id int64) (model.Category, error) {
	if cat, ok := p.cache.lookup(id); ok {
		return cat, nil
	}
	if cat, ok := p.store.Category(id); ok {
		return cat, nil
	}
	return model.Category{}, fmt.Errorf("category %d: %w", id, ErrCategoryNotFound)
}

func (p *cachedProvider) childrenCategories(parentID *int64) []model.Category {
	var result []model.Category
	for _, cat := range p.cache.snapshot {
		if sameParent(cat.ParentID, parentID) {
			result = append(result, cat)
		}
	}
	return result
}

func sameParent(a, b *int64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
