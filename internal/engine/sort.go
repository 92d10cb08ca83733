package engine

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"github.com/nikbrunner/placemarks/internal/model"
)

// Block names. Blocks without ids are never produced.
const (
	blockBookmarks = "Bookmarks"
	blockTracks    = "Tracks"
	blockOther     = "Other"

	blockNearMe  = "Near me"
	blockNearby  = "Nearby"
	blockFarAway = "Far away"

	blockLastWeek  = "Last week"
	blockLastMonth = "Last month"
	blockLastYear  = "Last year"
	blockEarlier   = "Earlier"
)

// Distance bucket limits in meters.
const (
	nearMeDistance = 1_000
	nearbyDistance = 10_000
)

// Sort sorts a category on a background goroutine. The result is cancelled
// when the category is gone by the time the sort runs, or when sorting by
// distance without a position.
func (e *Engine) Sort(params model.SortParams, done func(model.SortResult)) {
	e.async(func() {
		done(e.sort(params))
	})
}

func (e *Engine) sort(params model.SortParams) model.SortResult {
	cancelled := model.SortResult{Timestamp: params.Timestamp, Status: model.SortCancelled}

	e.mu.RLock()
	if e.catalog.GetCategoryByID(params.CategoryID) == nil {
		e.mu.RUnlock()
		e.logger.Debug("sort cancelled, category is gone", "category", params.CategoryID)
		return cancelled
	}
	bookmarks := e.catalog.GetBookmarksInCategory(params.CategoryID)
	tracks := e.catalog.GetTracksInCategory(params.CategoryID)
	e.mu.RUnlock()

	var blocks []model.SortedBlock
	switch params.Type {
	case model.SortByName:
		blocks = sortByName(bookmarks, tracks)
	case model.SortByType:
		blocks = sortByType(bookmarks, tracks)
	case model.SortByDistance:
		if !params.HasMyPosition {
			return cancelled
		}
		blocks = sortByDistance(bookmarks, tracks, model.LatLon{Lat: params.Lat, Lon: params.Lon})
	case model.SortByTime:
		blocks = sortByTime(bookmarks, tracks, e.now())
	default:
		return cancelled
	}

	return model.SortResult{Timestamp: params.Timestamp, Status: model.SortCompleted, Blocks: blocks}
}

// tracksBlock returns the tracks block, ordered by name, or nothing.
func tracksBlock(tracks []model.Track) []model.SortedBlock {
	if len(tracks) == 0 {
		return nil
	}
	sorted := slices.Clone(tracks)
	slices.SortStableFunc(sorted, func(a, b model.Track) int {
		return compareNames(a.Name, b.Name)
	})
	ids := make([]int64, len(sorted))
	for i, t := range sorted {
		ids[i] = t.ID
	}
	return []model.SortedBlock{model.NewTrackBlock(blockTracks, ids)}
}

func sortByName(bookmarks []model.Bookmark, tracks []model.Track) []model.SortedBlock {
	blocks := tracksBlock(tracks)
	if len(bookmarks) == 0 {
		return blocks
	}
	sorted := slices.Clone(bookmarks)
	slices.SortStableFunc(sorted, func(a, b model.Bookmark) int {
		return compareNames(a.Name, b.Name)
	})
	return append(blocks, model.NewBookmarkBlock(blockBookmarks, bookmarkIDs(sorted)))
}

func sortByType(bookmarks []model.Bookmark, tracks []model.Track) []model.SortedBlock {
	blocks := tracksBlock(tracks)

	groups := map[string][]model.Bookmark{}
	for _, b := range bookmarks {
		icon := strings.TrimSpace(b.Icon)
		if icon == "" {
			icon = blockOther
		}
		groups[icon] = append(groups[icon], b)
	}

	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	slices.SortFunc(names, func(a, b string) int {
		// The catch-all group goes last.
		if (a == blockOther) != (b == blockOther) {
			if a == blockOther {
				return 1
			}
			return -1
		}
		return compareNames(a, b)
	})

	for _, name := range names {
		group := groups[name]
		slices.SortStableFunc(group, func(a, b model.Bookmark) int {
			return compareNames(a.Name, b.Name)
		})
		blocks = append(blocks, model.NewBookmarkBlock(name, bookmarkIDs(group)))
	}
	return blocks
}

func sortByDistance(bookmarks []model.Bookmark, tracks []model.Track, from model.LatLon) []model.SortedBlock {
	blocks := tracksBlock(tracks)

	type ranked struct {
		id       int64
		distance float64
	}
	all := make([]ranked, len(bookmarks))
	for i, b := range bookmarks {
		all[i] = ranked{id: b.ID, distance: from.DistanceTo(b.Position())}
	}
	slices.SortStableFunc(all, func(a, b ranked) int {
		return cmp.Compare(a.distance, b.distance)
	})

	buckets := []struct {
		name  string
		limit float64
	}{
		{blockNearMe, nearMeDistance},
		{blockNearby, nearbyDistance},
		{blockFarAway, -1},
	}
	i := 0
	for _, bucket := range buckets {
		var ids []int64
		for ; i < len(all) && (bucket.limit < 0 || all[i].distance <= bucket.limit); i++ {
			ids = append(ids, all[i].id)
		}
		if len(ids) > 0 {
			blocks = append(blocks, model.NewBookmarkBlock(bucket.name, ids))
		}
	}
	return blocks
}

func sortByTime(bookmarks []model.Bookmark, tracks []model.Track, now time.Time) []model.SortedBlock {
	var blocks []model.SortedBlock
	if len(tracks) > 0 {
		sorted := slices.Clone(tracks)
		slices.SortStableFunc(sorted, func(a, b model.Track) int {
			return b.CreatedAt.Compare(a.CreatedAt)
		})
		ids := make([]int64, len(sorted))
		for i, t := range sorted {
			ids[i] = t.ID
		}
		blocks = append(blocks, model.NewTrackBlock(blockTracks, ids))
	}

	sorted := slices.Clone(bookmarks)
	slices.SortStableFunc(sorted, func(a, b model.Bookmark) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})

	order := []string{blockLastWeek, blockLastMonth, blockLastYear, blockEarlier}
	groups := map[string][]int64{}
	for _, b := range sorted {
		name := timeBucket(now.Sub(b.CreatedAt))
		groups[name] = append(groups[name], b.ID)
	}
	for _, name := range order {
		if ids := groups[name]; len(ids) > 0 {
			blocks = append(blocks, model.NewBookmarkBlock(name, ids))
		}
	}
	return blocks
}

func timeBucket(age time.Duration) string {
	const day = 24 * time.Hour
	switch {
	case age <= 7*day:
		return blockLastWeek
	case age <= 30*day:
		return blockLastMonth
	case age <= 365*day:
		return blockLastYear
	default:
		return blockEarlier
	}
}

func bookmarkIDs(bookmarks []model.Bookmark) []int64 {
	ids := make([]int64, len(bookmarks))
	for i, b := range bookmarks {
		ids[i] = b.ID
	}
	return ids
}

// compareNames orders names case-insensitively, then by exact value.
func compareNames(a, b string) int {
	if c := strings.Compare(strings.ToLower(a), strings.ToLower(b)); c != 0 {
		return c
	}
	return strings.Compare(a, b)
}
