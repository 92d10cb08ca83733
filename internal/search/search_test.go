package search

import (
	"testing"

	"github.com/nikbrunner/placemarks/internal/model"
)

func TestFuzzySearchBookmarks_EmptyQuery(t *testing.T) {
	bookmarks := []model.Bookmark{{ID: 1, Name: "Pastelaria"}}

	results := FuzzySearchBookmarks(bookmarks, "")

	if len(results) != 0 {
		t.Errorf("expected 0 results for empty query, got %d", len(results))
	}
}

func TestFuzzySearchBookmarks_ExactMatch(t *testing.T) {
	bookmarks := []model.Bookmark{
		{ID: 1, Name: "Belem Tower"},
		{ID: 2, Name: "Bakery"},
	}

	results := FuzzySearchBookmarks(bookmarks, "Belem Tower")

	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].Bookmark.ID != 1 {
		t.Errorf("expected Belem Tower, got %s", results[0].Name())
	}
	if results[0].Kind != KindBookmark {
		t.Errorf("expected bookmark result, got %v", results[0].Kind)
	}
}

func TestFuzzySearchBookmarks_FuzzyMatch(t *testing.T) {
	bookmarks := []model.Bookmark{
		{ID: 1, Name: "Miradouro da Graca"},
		{ID: 2, Name: "Time Out Market"},
	}

	results := FuzzySearchBookmarks(bookmarks, "mdg")

	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].Bookmark.ID != 1 {
		t.Errorf("expected Miradouro da Graca, got %s", results[0].Name())
	}
	if len(results[0].MatchedIndexes) != 3 {
		t.Errorf("expected 3 matched indexes, got %v", results[0].MatchedIndexes)
	}
}

func TestFuzzySearchCategories(t *testing.T) {
	categories := []model.Category{
		{ID: 1, Name: "Lisbon 2024"},
		{ID: 2, Name: "Hikes"},
		{ID: 3, Name: "Lisbon food"},
	}

	results := FuzzySearchCategories(categories, "lisbon")

	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	for _, r := range results {
		if r.Kind != KindCategory || r.Category.ID == 2 {
			t.Errorf("unexpected result %+v", r)
		}
	}
}

func TestFuzzySearch_MergesByScore(t *testing.T) {
	categories := []model.Category{{ID: 1, Name: "Porto"}}
	bookmarks := []model.Bookmark{{ID: 10, Name: "Port wine cellar"}, {ID: 11, Name: "Museum"}}

	results := FuzzySearch(categories, bookmarks, "port")

	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	for i := 1; i < len(results); i++ {
		if results[i-1].Score < results[i].Score {
			t.Errorf("results not sorted by score: %d before %d", results[i-1].Score, results[i].Score)
		}
	}
}
