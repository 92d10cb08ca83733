package search

import (
	"sort"

	"github.com/sahilm/fuzzy"

	"github.com/nikbrunner/placemarks/internal/model"
)

// Kind tells what a search result points at.
type Kind int

const (
	KindCategory Kind = iota
	KindBookmark
)

// Result represents a fuzzy search match.
type Result struct {
	Kind           Kind
	Category       model.Category // set for KindCategory
	Bookmark       model.Bookmark // set for KindBookmark
	MatchedIndexes []int
	Score          int
}

// Name returns the matched name.
func (r Result) Name() string {
	if r.Kind == KindBookmark {
		return r.Bookmark.Name
	}
	return r.Category.Name
}

// categoryNames implements fuzzy.Source for a category slice.
type categoryNames []model.Category

func (c categoryNames) String(i int) string {
	return c[i].Name
}

func (c categoryNames) Len() int {
	return len(c)
}

// bookmarkNames implements fuzzy.Source for a bookmark slice.
type bookmarkNames []model.Bookmark

func (b bookmarkNames) String(i int) string {
	return b[i].Name
}

func (b bookmarkNames) Len() int {
	return len(b)
}

// FuzzySearchCategories searches categories by name.
// Returns results sorted by match score (best first).
func FuzzySearchCategories(categories []model.Category, query string) []Result {
	if query == "" {
		return nil
	}

	matches := fuzzy.FindFrom(query, categoryNames(categories))

	results := make([]Result, len(matches))
	for i, m := range matches {
		results[i] = Result{
			Kind:           KindCategory,
			Category:       categories[m.Index],
			MatchedIndexes: m.MatchedIndexes,
			Score:          m.Score,
		}
	}
	return results
}

// FuzzySearchBookmarks searches bookmarks by name.
// Returns results sorted by match score (best first).
func FuzzySearchBookmarks(bookmarks []model.Bookmark, query string) []Result {
	if query == "" {
		return nil
	}

	matches := fuzzy.FindFrom(query, bookmarkNames(bookmarks))

	results := make([]Result, len(matches))
	for i, m := range matches {
		results[i] = Result{
			Kind:           KindBookmark,
			Bookmark:       bookmarks[m.Index],
			MatchedIndexes: m.MatchedIndexes,
			Score:          m.Score,
		}
	}
	return results
}

// FuzzySearch searches categories and bookmarks together. On equal scores
// categories come first.
func FuzzySearch(categories []model.Category, bookmarks []model.Bookmark, query string) []Result {
	results := append(FuzzySearchCategories(categories, query), FuzzySearchBookmarks(bookmarks, query)...)
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	return results
}
