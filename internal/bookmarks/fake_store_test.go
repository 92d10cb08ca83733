package bookmarks_test

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"slices"
	"strings"

	"github.com/nikbrunner/placemarks/internal/bookmarks"
	"github.com/nikbrunner/placemarks/internal/model"
)

// fakeStore is an in-memory Store. Asynchronous requests are parked until
// the test completes them.
type fakeStore struct {
	categories []model.Category
	visible    map[int64]bool
	sortPrefs  map[int64]model.SortingType
	callbacks  bookmarks.StoreCallbacks

	categoryLookups int
	sorts           []pendingSort
	sharing         []func(model.SharingResult)
	loadedFiles     []string
	loadCalls       int
}

type pendingSort struct {
	params model.SortParams
	done   func(model.SortResult)
}

func newFakeStore(categories ...model.Category) *fakeStore {
	return &fakeStore{
		categories: categories,
		visible:    map[int64]bool{},
		sortPrefs:  map[int64]model.SortingType{},
	}
}

func (s *fakeStore) Category(id int64) (model.Category, bool) {
	s.categoryLookups++
	for _, c := range s.categories {
		if c.ID == id {
			return c, true
		}
	}
	return model.Category{}, false
}

func (s *fakeStore) Categories() []model.Category {
	return slices.Clone(s.categories)
}

func (s *fakeStore) ChildrenCategories(parentID *int64) []model.Category {
	var result []model.Category
	for _, c := range s.categories {
		if (c.ParentID == nil && parentID == nil) ||
			(c.ParentID != nil && parentID != nil && *c.ParentID == *parentID) {
			result = append(result, c)
		}
	}
	return result
}

func (s *fakeStore) IsVisible(id int64) bool {
	for _, c := range s.categories {
		if c.ID == id {
			return c.Visible
		}
	}
	return false
}

func (s *fakeStore) SetVisibility(id int64, visible bool) error {
	for i := range s.categories {
		if s.categories[i].ID == id {
			s.categories[i].Visible = visible
			return nil
		}
	}
	return fmt.Errorf("category %d not found", id)
}

func (s *fakeStore) CreateCategory(name string) (int64, error) {
	if name == "" {
		return 0, errors.New("empty name")
	}
	id := int64(len(s.categories) + 100)
	s.categories = append(s.categories, model.Category{ID: id, Name: name, Visible: true})
	return id, nil
}

func (s *fakeStore) DeleteCategory(id int64) error {
	for i, c := range s.categories {
		if c.ID == id {
			s.categories = slices.Delete(s.categories, i, i+1)
			return nil
		}
	}
	return fmt.Errorf("category %d not found", id)
}

func (s *fakeStore) DeleteBookmark(int64) error { return nil }
func (s *fakeStore) DeleteTrack(int64) error    { return nil }

func (s *fakeStore) Bookmark(int64) (model.Bookmark, bool) { return model.Bookmark{}, false }
func (s *fakeStore) Track(int64) (model.Track, bool)       { return model.Track{}, false }
func (s *fakeStore) Bookmarks(int64) []model.Bookmark      { return nil }
func (s *fakeStore) Tracks(int64) []model.Track            { return nil }

func (s *fakeStore) LastSortingType(categoryID int64) (model.SortingType, bool) {
	t, ok := s.sortPrefs[categoryID]
	return t, ok
}

func (s *fakeStore) SetLastSortingType(categoryID int64, t model.SortingType) error {
	s.sortPrefs[categoryID] = t
	return nil
}

func (s *fakeStore) ResetLastSortingType(categoryID int64) error {
	delete(s.sortPrefs, categoryID)
	return nil
}

func (s *fakeStore) AvailableSortingTypes(int64, bool) []model.SortingType {
	return []model.SortingType{model.SortByName}
}

func (s *fakeStore) Sort(params model.SortParams, done func(model.SortResult)) {
	s.sorts = append(s.sorts, pendingSort{params: params, done: done})
}

func (s *fakeStore) PrepareForSharing(_ []int64, _ model.FileType, done func(model.SharingResult)) {
	s.sharing = append(s.sharing, done)
}

func (s *fakeStore) PrepareTrackForSharing(_ int64, _ model.FileType, done func(model.SharingResult)) {
	s.sharing = append(s.sharing, done)
}

func (s *fakeStore) LoadBookmarks() { s.loadCalls++ }

func (s *fakeStore) LoadBookmarksFile(path string, _ bool) {
	s.loadedFiles = append(s.loadedFiles, path)
}

func (s *fakeStore) SetCallbacks(callbacks bookmarks.StoreCallbacks) {
	s.callbacks = callbacks
}

// completeSort finishes the parked sort tagged timestamp.
func (s *fakeStore) completeSort(timestamp int64, blocks ...model.SortedBlock) {
	for _, p := range s.sorts {
		if p.params.Timestamp == timestamp {
			p.done(model.SortResult{Timestamp: timestamp, Status: model.SortCompleted, Blocks: blocks})
			return
		}
	}
	panic(fmt.Sprintf("no sort with timestamp %d", timestamp))
}

// fakeResolver serves fixed metadata and content.
type fakeResolver struct {
	displayName string
	mimeType    string
	content     string
	openErr     error
}

func (r fakeResolver) DisplayName(*url.URL) (string, bool) {
	return r.displayName, r.displayName != ""
}

func (r fakeResolver) MimeType(*url.URL) (string, bool) {
	return r.mimeType, r.mimeType != ""
}

func (r fakeResolver) Open(*url.URL) (io.ReadCloser, error) {
	if r.openErr != nil {
		return nil, r.openErr
	}
	return io.NopCloser(strings.NewReader(r.content)), nil
}

// recordingListener implements every listener interface and records calls.
type recordingListener struct {
	name   string
	events *[]string
}

func (l *recordingListener) record(event string) {
	*l.events = append(*l.events, l.name+":"+event)
}

func (l *recordingListener) OnChanged()                            { l.record("changed") }
func (l *recordingListener) OnLoadingStarted()                     { l.record("started") }
func (l *recordingListener) OnLoadingFinished()                    { l.record("finished") }
func (l *recordingListener) OnFileUnsupported(*url.URL)            { l.record("unsupported") }
func (l *recordingListener) OnFileDownloadFailed(*url.URL, string) { l.record("download failed") }
func (l *recordingListener) OnFileImportSuccessful()               { l.record("import ok") }
func (l *recordingListener) OnFileImportFailed()                   { l.record("import failed") }

func (l *recordingListener) OnPreparedFileForSharing(result model.SharingResult) {
	l.record("shared " + result.Code.String())
}

func ptr(v int64) *int64 { return &v }
