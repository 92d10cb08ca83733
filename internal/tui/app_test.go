package tui_test

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"

	"github.com/nikbrunner/placemarks/internal/bookmarks"
	"github.com/nikbrunner/placemarks/internal/engine"
	"github.com/nikbrunner/placemarks/internal/model"
	"github.com/nikbrunner/placemarks/internal/tui"
	"github.com/nikbrunner/placemarks/internal/tui/layout"
)

const tripKML = `<kml><Document><name>Trip</name>
<Placemark><name>Cafe</name><TimeStamp><when>2020-05-01T10:00:00Z</when></TimeStamp>
<Point><coordinates>-9.14,38.71</coordinates></Point></Placemark>
<Placemark><name>Bakery</name><TimeStamp><when>2020-05-02T10:00:00Z</when></TimeStamp>
<Point><coordinates>-9.15,38.72</coordinates></Point></Placemark>
<Placemark><name>Walk</name><LineString><coordinates>-9.14,38.71 -9.13,38.72</coordinates></LineString></Placemark>
</Document></kml>`

const hikesKML = `<kml><Document><name>Hikes</name>
<Placemark><name>Summit</name><Point><coordinates>7.65,45.97</coordinates></Point></Placemark>
</Document></kml>`

// testLoop collects posted functions; harness.settle feeds them to the App
// as RunMsg, the same way Loop does in a running program.
type testLoop struct {
	mu  sync.Mutex
	fns []func()
}

func (l *testLoop) Post(fn func()) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.fns = append(l.fns, fn)
}

func (l *testLoop) take() []func() {
	l.mu.Lock()
	defer l.mu.Unlock()
	fns := l.fns
	l.fns = nil
	return fns
}

type harness struct {
	t       *testing.T
	engine  *engine.Engine
	loop    *testLoop
	manager *bookmarks.Manager
	app     tui.App
	copied  []string
}

func newHarness(t *testing.T, files ...string) *harness {
	t.Helper()
	h := &harness{
		t:      t,
		engine: engine.New(engine.Params{ShareDir: t.TempDir()}),
		loop:   &testLoop{},
	}
	h.manager = bookmarks.NewManager(bookmarks.ManagerParams{Store: h.engine, Poster: h.loop})
	h.app = tui.NewApp(tui.AppParams{
		Manager: h.manager,
		Clipboard: func(s string) error {
			h.copied = append(h.copied, s)
			return nil
		},
	})

	dir := t.TempDir()
	for i, content := range files {
		path := filepath.Join(dir, "file"+string(rune('a'+i))+".kml")
		assert.NilError(t, os.WriteFile(path, []byte(content), 0644))
		h.manager.LoadBookmarksFile(path, false)
		h.settle()
	}
	return h
}

// settle waits for the engine and runs posted work until nothing is left.
func (h *harness) settle() {
	for {
		h.engine.Wait()
		fns := h.loop.take()
		if len(fns) == 0 {
			return
		}
		for _, fn := range fns {
			h.update(tui.RunMsg{Fn: fn})
		}
	}
}

func (h *harness) update(msg tea.Msg) {
	updated, _ := h.app.Update(msg)
	h.app = updated.(tui.App)
}

// press sends keys without letting background work finish.
func (h *harness) press(keys ...string) {
	for _, k := range keys {
		h.update(keyMsg(k))
	}
}

// do sends keys and settles after each one.
func (h *harness) do(keys ...string) {
	for _, k := range keys {
		h.update(keyMsg(k))
		h.settle()
	}
}

func (h *harness) typeText(text string) {
	h.update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
}

func rowTitles(rows []tui.Row) []string {
	titles := make([]string, len(rows))
	for i, r := range rows {
		titles[i] = r.Title()
	}
	return titles
}

func categoryNames(categories []model.Category) []string {
	names := make([]string, len(categories))
	for i, c := range categories {
		names[i] = c.Name
	}
	return names
}

func TestApp_ListsLoadedCategories(t *testing.T) {
	h := newHarness(t, tripKML, hikesKML)

	assert.DeepEqual(t, categoryNames(h.app.Categories()), []string{"Trip", "Hikes"})
	assert.Equal(t, h.manager.ProviderKind(), bookmarks.ProviderCached)
	assert.Check(t, !h.app.IsLoading())

	trip := h.app.Categories()[0]
	assert.Equal(t, trip.BookmarksCount, 2)
	assert.Equal(t, trip.TracksCount, 1)
}

func TestApp_Navigation_JK(t *testing.T) {
	h := newHarness(t, tripKML, hikesKML)
	assert.Equal(t, h.app.Cursor(), 0)

	h.do("j")
	assert.Equal(t, h.app.Cursor(), 1)

	// j at bottom stays at bottom
	h.do("j")
	assert.Equal(t, h.app.Cursor(), 1)

	h.do("g", "g")
	assert.Equal(t, h.app.Cursor(), 0)

	h.do("G")
	assert.Equal(t, h.app.Cursor(), 1)

	h.do("k", "k")
	assert.Equal(t, h.app.Cursor(), 0)
}

func TestApp_OpenCategory_SortsByNameByDefault(t *testing.T) {
	h := newHarness(t, tripKML)

	h.do("l")

	detail := h.app.Detail()
	assert.Check(t, detail.Open)
	assert.Equal(t, h.app.Focus(), tui.PaneDetail)
	assert.Equal(t, detail.SortType, model.SortByName)
	assert.Check(t, !detail.Sorting)
	assert.DeepEqual(t, rowTitles(detail.Rows), []string{"Tracks", "Walk", "Bookmarks", "Bakery", "Cafe"})

	// The cursor skips block headers.
	assert.Equal(t, detail.Cursor, 1)
	h.do("j")
	assert.Equal(t, h.app.Detail().Cursor, 3)

	h.do("h")
	assert.Check(t, !h.app.Detail().Open)
	assert.Equal(t, h.app.Focus(), tui.PaneCategories)
}

func TestApp_CycleSort_RemembersChoice(t *testing.T) {
	h := newHarness(t, tripKML)
	trip := h.app.Categories()[0]

	h.do("enter", "o")

	// Available for a category with bookmarks and no position: type, time, name.
	assert.Equal(t, h.app.Detail().SortType, model.SortByType)
	last, ok := h.manager.LastSortingType(trip.ID)
	assert.Check(t, ok)
	assert.Equal(t, last, model.SortByType)

	// Reopening uses the remembered type.
	h.do("h", "l")
	assert.Equal(t, h.app.Detail().SortType, model.SortByType)
}

func TestApp_OnlyLatestSortResultIsShown(t *testing.T) {
	h := newHarness(t, tripKML)
	h.do("l")

	// Two sort requests in flight; whichever finishes last, the rows must
	// reflect the second one (by time).
	h.press("o", "o")
	assert.Check(t, h.app.Detail().Sorting)
	h.settle()

	detail := h.app.Detail()
	assert.Equal(t, detail.SortType, model.SortByTime)
	assert.Check(t, !detail.Sorting)
	assert.DeepEqual(t, rowTitles(detail.Rows), []string{"Tracks", "Walk", "Earlier", "Bakery", "Cafe"})
}

func TestApp_ToggleVisibility(t *testing.T) {
	h := newHarness(t, tripKML, hikesKML)

	h.do("v")
	assert.Check(t, !h.app.Categories()[0].Visible)
	assert.Check(t, h.app.Categories()[1].Visible)
	assert.Check(t, is.Contains(layout.StripANSI(h.app.View()), "○ Trip"))

	h.do("V")
	assert.Check(t, h.manager.AreAllCategoriesVisible())

	h.do("V")
	assert.Check(t, h.manager.AreAllCategoriesInvisible())
}

func TestApp_ShareCategory_CopiesPath(t *testing.T) {
	h := newHarness(t, tripKML)

	h.do("s")

	assert.Assert(t, is.Len(h.copied, 1))
	assert.Check(t, strings.HasSuffix(h.copied[0], "Trip.kmz"), h.copied[0])
	_, err := os.Stat(h.copied[0])
	assert.NilError(t, err)
	assert.Check(t, is.Contains(h.app.Status(), "Shared 1 file(s)"))
}

func TestApp_ShareTrack(t *testing.T) {
	h := newHarness(t, tripKML)

	// Open Trip; the cursor starts on the Walk track.
	h.do("l", "s")

	assert.Assert(t, is.Len(h.copied, 1))
	assert.Check(t, strings.HasSuffix(h.copied[0], "Walk.kmz"), h.copied[0])
}

func TestApp_ShareEmptyCategory_ReportsFailure(t *testing.T) {
	h := newHarness(t)
	_, err := h.manager.CreateCategory("Empty")
	assert.NilError(t, err)
	h.settle()

	h.do("s")

	assert.Check(t, is.Len(h.copied, 0))
	assert.Check(t, is.Contains(h.app.Status(), "EMPTY_CATEGORY"))
}

func TestApp_CreateCategory(t *testing.T) {
	h := newHarness(t, tripKML)

	h.do("a")
	assert.Equal(t, h.app.Mode(), tui.ModeCreateCategory)
	h.typeText("Trip")
	h.do("enter")

	// Name in use: the form stays open.
	assert.Equal(t, h.app.Mode(), tui.ModeCreateCategory)
	assert.Check(t, is.Contains(layout.StripANSI(h.app.View()), `"Trip" already exists`))

	h.do("esc", "a")
	h.typeText("Hikes")
	h.do("enter")

	assert.Equal(t, h.app.Mode(), tui.ModeNormal)
	assert.DeepEqual(t, categoryNames(h.app.Categories()), []string{"Trip", "Hikes"})
	// The new category is selected.
	cat, ok := h.app.SelectedCategory()
	assert.Check(t, ok)
	assert.Equal(t, cat.Name, "Hikes")
}

func TestApp_DeleteCategory_NeedsConfirmation(t *testing.T) {
	h := newHarness(t, tripKML, hikesKML)

	h.do("d")
	assert.Equal(t, h.app.Mode(), tui.ModeConfirmDelete)
	h.do("n")
	assert.Equal(t, h.app.Mode(), tui.ModeNormal)
	assert.Equal(t, len(h.app.Categories()), 2)

	h.do("d", "y")
	assert.DeepEqual(t, categoryNames(h.app.Categories()), []string{"Hikes"})
}

func TestApp_DeleteBookmark_ResortsDetail(t *testing.T) {
	h := newHarness(t, tripKML)

	// Open Trip, move to Bakery and delete it.
	h.do("l", "j")
	assert.Equal(t, rowTitles(h.app.Detail().Rows)[h.app.Detail().Cursor], "Bakery")
	h.do("d", "enter")

	assert.DeepEqual(t, rowTitles(h.app.Detail().Rows), []string{"Tracks", "Walk", "Bookmarks", "Cafe"})
	assert.Equal(t, h.app.Categories()[0].BookmarksCount, 1)
}

func TestApp_DeletingOpenCategoryClosesDetail(t *testing.T) {
	h := newHarness(t, tripKML)
	h.do("l")
	trip := h.app.Categories()[0]

	assert.NilError(t, h.manager.DeleteCategory(trip.ID))
	h.settle()

	assert.Check(t, !h.app.Detail().Open)
	assert.Equal(t, len(h.app.Categories()), 0)
}

func TestApp_Search_OpensBookmarkInCategory(t *testing.T) {
	h := newHarness(t, hikesKML, tripKML)

	h.do("/")
	assert.Equal(t, h.app.Mode(), tui.ModeSearch)
	h.typeText("cafe")
	assert.Check(t, is.Contains(layout.StripANSI(h.app.View()), "Cafe"))
	h.do("enter")

	assert.Equal(t, h.app.Mode(), tui.ModeNormal)
	cat, _ := h.app.SelectedCategory()
	assert.Equal(t, cat.Name, "Trip")

	detail := h.app.Detail()
	assert.Check(t, detail.Open)
	assert.Equal(t, rowTitles(detail.Rows)[detail.Cursor], "Cafe")
}

func TestApp_Search_EscapeCancels(t *testing.T) {
	h := newHarness(t, tripKML)

	h.do("/")
	h.typeText("walk")
	h.do("esc")

	assert.Equal(t, h.app.Mode(), tui.ModeNormal)
	assert.Check(t, !h.app.Detail().Open)
}

func TestApp_Reload_ReportsLoading(t *testing.T) {
	h := newHarness(t, tripKML)

	h.do("r")

	assert.Check(t, !h.app.IsLoading())
	assert.Equal(t, h.app.Status(), "1 categories")
}

func TestApp_Close_UnregistersListeners(t *testing.T) {
	h := newHarness(t)
	h.app.Close()

	// Registering again would panic if Close had left a listener behind.
	app := tui.NewApp(tui.AppParams{Manager: h.manager})
	app.Close()
}

func TestApp_HelpAndQuit(t *testing.T) {
	h := newHarness(t)

	h.do("?")
	assert.Equal(t, h.app.Mode(), tui.ModeHelp)
	assert.Check(t, is.Contains(layout.StripANSI(h.app.View()), "cycle sort"))
	h.do("x")
	assert.Equal(t, h.app.Mode(), tui.ModeNormal)

	_, cmd := h.app.Update(keyMsg("q"))
	assert.Check(t, quits(cmd))
}

func quits(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	switch msg := cmd().(type) {
	case tea.QuitMsg:
		return true
	case tea.BatchMsg:
		for _, c := range msg {
			if quits(c) {
				return true
			}
		}
	}
	return false
}
