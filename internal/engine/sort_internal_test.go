package engine

import (
	"testing"
	"time"

	"gotest.tools/v3/assert"

	"github.com/nikbrunner/placemarks/internal/model"
)

func TestSortByName(t *testing.T) {
	bookmarks := []model.Bookmark{{ID: 1, Name: "zoo"}, {ID: 2, Name: "Aquarium"}, {ID: 3, Name: "bakery"}}
	tracks := []model.Track{{ID: 10, Name: "Run"}, {ID: 11, Name: "Hike"}}

	assert.DeepEqual(t, sortByName(bookmarks, tracks), []model.SortedBlock{
		model.NewTrackBlock("Tracks", []int64{11, 10}),
		model.NewBookmarkBlock("Bookmarks", []int64{2, 3, 1}),
	})
	assert.Equal(t, len(sortByName(nil, nil)), 0)
}

func TestSortByType(t *testing.T) {
	bookmarks := []model.Bookmark{
		{ID: 1, Name: "B", Icon: "food"},
		{ID: 2, Name: "x"},
		{ID: 3, Name: "A", Icon: "food"},
		{ID: 4, Name: "Park", Icon: "Nature"},
	}

	assert.DeepEqual(t, sortByType(bookmarks, nil), []model.SortedBlock{
		model.NewBookmarkBlock("food", []int64{3, 1}),
		model.NewBookmarkBlock("Nature", []int64{4}),
		model.NewBookmarkBlock("Other", []int64{2}),
	})
}

func TestSortByDistance(t *testing.T) {
	origin := model.LatLon{Lat: 0, Lon: 0}
	// 0.001 degrees of latitude is about 111 m.
	bookmarks := []model.Bookmark{
		{ID: 1, Lat: 1, Lon: 0},      // ~111 km
		{ID: 2, Lat: 0.001, Lon: 0},  // ~111 m
		{ID: 3, Lat: 0.05, Lon: 0},   // ~5.6 km
		{ID: 4, Lat: 0.0001, Lon: 0}, // ~11 m
	}

	assert.DeepEqual(t, sortByDistance(bookmarks, nil, origin), []model.SortedBlock{
		model.NewBookmarkBlock("Near me", []int64{4, 2}),
		model.NewBookmarkBlock("Nearby", []int64{3}),
		model.NewBookmarkBlock("Far away", []int64{1}),
	})
}

func TestSortByTime(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	day := 24 * time.Hour
	bookmarks := []model.Bookmark{
		{ID: 1, CreatedAt: now.Add(-400 * day)},
		{ID: 2, CreatedAt: now.Add(-2 * day)},
		{ID: 3, CreatedAt: now.Add(-20 * day)},
		{ID: 4, CreatedAt: now.Add(-1 * day)},
		{ID: 5, CreatedAt: now.Add(-100 * day)},
	}
	tracks := []model.Track{{ID: 10, CreatedAt: now.Add(-50 * day)}, {ID: 11, CreatedAt: now}}

	assert.DeepEqual(t, sortByTime(bookmarks, tracks, now), []model.SortedBlock{
		model.NewTrackBlock("Tracks", []int64{11, 10}),
		model.NewBookmarkBlock("Last week", []int64{4, 2}),
		model.NewBookmarkBlock("Last month", []int64{3}),
		model.NewBookmarkBlock("Last year", []int64{5}),
		model.NewBookmarkBlock("Earlier", []int64{1}),
	})
}

func TestSortedBlocksAreValid(t *testing.T) {
	now := time.Now()
	bookmarks := []model.Bookmark{{ID: 1, Name: "a", CreatedAt: now}, {ID: 2, Name: "b", Icon: "x", CreatedAt: now}}
	tracks := []model.Track{{ID: 3, Name: "t", CreatedAt: now}}

	all := [][]model.SortedBlock{
		sortByName(bookmarks, tracks),
		sortByType(bookmarks, tracks),
		sortByDistance(bookmarks, tracks, model.LatLon{}),
		sortByTime(bookmarks, tracks, now),
	}
	for _, blocks := range all {
		for _, b := range blocks {
			assert.Check(t, b.Valid(), "block %q", b.Name)
		}
	}
}
