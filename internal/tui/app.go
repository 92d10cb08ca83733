package tui

import (
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nikbrunner/placemarks/internal/bookmarks"
	"github.com/nikbrunner/placemarks/internal/model"
	"github.com/nikbrunner/placemarks/internal/search"
	"github.com/nikbrunner/placemarks/internal/tui/layout"
)

// App is the main bubbletea model for browsing bookmark categories.
// It must run on the goroutine the Manager is confined to; see Loop.
type App struct {
	manager      *bookmarks.Manager
	tracker      *bookmarks.SortTracker
	events       *listener
	keys         KeyMap
	styles       Styles
	layoutConfig layout.LayoutConfig
	logger       *slog.Logger

	shareType model.FileType
	position  *model.LatLon
	copyText  func(string) error

	mode  Mode
	focus Pane

	// Category list
	categories []model.Category
	cursor     int
	selectID   int64 // category to select once it shows up in the list

	detail  DetailState
	search  SearchState
	create  CreateState
	confirm ConfirmState

	loading   bool
	status    string
	statusErr bool

	// For gg command
	lastKeyWasG bool

	// Window dimensions
	width  int
	height int
}

// AppParams holds parameters for creating a new App.
type AppParams struct {
	Manager      *bookmarks.Manager
	Keys         *KeyMap              // optional, uses default if nil
	Styles       *Styles              // optional, uses default if nil
	LayoutConfig *layout.LayoutConfig // optional, uses default if nil
	Logger       *slog.Logger

	// ShareType is the file format used when sharing.
	ShareType model.FileType
	// Position enables sorting by distance. Nil when unknown.
	Position *model.LatLon
	// Clipboard receives the paths of shared files. Defaults to the system clipboard.
	Clipboard func(string) error
}

// NewApp creates a new App and registers it with the Manager.
func NewApp(params AppParams) App {
	keys := DefaultKeyMap()
	if params.Keys != nil {
		keys = *params.Keys
	}

	styles := DefaultStyles()
	if params.Styles != nil {
		styles = *params.Styles
	}

	layoutCfg := layout.DefaultConfig()
	if params.LayoutConfig != nil {
		layoutCfg = *params.LayoutConfig
	}

	logger := params.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	copyText := params.Clipboard
	if copyText == nil {
		copyText = clipboard.WriteAll
	}

	app := App{
		manager:      params.Manager,
		tracker:      bookmarks.NewSortTracker(),
		events:       &listener{},
		keys:         keys,
		styles:       styles,
		layoutConfig: layoutCfg,
		logger:       logger,
		shareType:    params.ShareType,
		position:     params.Position,
		copyText:     copyText,
		search:       NewSearchState(layoutCfg),
		create:       NewCreateState(layoutCfg),
		loading:      params.Manager.IsLoading(),
		width:        80,
		height:       24,
	}

	m := params.Manager
	m.AddCategoriesUpdatesListener(app.events)
	m.AddLoadingListener(app.events)
	m.AddSortingListener(app.events)
	m.AddSharingListener(app.events)

	app.refreshCategories()
	return app
}

// Close unregisters the App from the Manager.
func (a App) Close() {
	a.manager.RemoveCategoriesUpdatesListener(a.events)
	a.manager.RemoveLoadingListener(a.events)
	a.manager.RemoveSortingListener(a.events)
	a.manager.RemoveSharingListener(a.events)
}

// WithDimensions returns a copy of the App sized to width x height.
func (a App) WithDimensions(width, height int) App {
	a.width = width
	a.height = height
	return a
}

// Cursor returns the selected index in the category list.
func (a App) Cursor() int {
	return a.cursor
}

// Mode returns the current interaction mode.
func (a App) Mode() Mode {
	return a.mode
}

// Focus returns the focused pane.
func (a App) Focus() Pane {
	return a.focus
}

// Categories returns the listed categories.
func (a App) Categories() []model.Category {
	return a.categories
}

// SelectedCategory returns the category under the list cursor.
func (a App) SelectedCategory() (model.Category, bool) {
	if a.cursor < 0 || a.cursor >= len(a.categories) {
		return model.Category{}, false
	}
	return a.categories[a.cursor], true
}

// Detail returns the state of the detail pane.
func (a App) Detail() DetailState {
	return a.detail
}

// Status returns the status line text.
func (a App) Status() string {
	return a.status
}

// IsLoading reports whether the Store is loading bookmarks.
func (a App) IsLoading() bool {
	return a.loading
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	if run, ok := msg.(RunMsg); ok {
		run.Fn()
	} else {
		var cmd tea.Cmd
		a, cmd = a.handle(msg)
		cmds = append(cmds, cmd)
	}

	// Manager callbacks raised above
	for msgs := a.events.take(); len(msgs) > 0; msgs = a.events.take() {
		for _, m := range msgs {
			var cmd tea.Cmd
			a, cmd = a.handle(m)
			cmds = append(cmds, cmd)
		}
	}

	return a, tea.Batch(cmds...)
}

// View implements tea.Model.
func (a App) View() string {
	return a.renderView()
}

func (a App) handle(msg tea.Msg) (App, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height

	case categoriesChangedMsg:
		a.onCategoriesChanged()

	case loadingMsg:
		a.loading = msg.loading
		if !msg.loading {
			a.setStatus(fmt.Sprintf("%d categories", len(a.categories)), false)
		}

	case statusMsg:
		a.setStatus(msg.text, msg.isErr)

	case sortedMsg:
		a.onSorted(msg)

	case sortCancelledMsg:
		if a.detail.Open && a.tracker.Accept(a.detail.CategoryID, msg.timestamp) {
			a.detail.Sorting = false
			a.setStatus("Sorting cancelled", true)
		}

	case sharedMsg:
		a.onShared(msg.result)

	case tea.KeyMsg:
		return a.handleKey(msg)
	}

	return a, nil
}

func (a *App) setStatus(text string, isErr bool) {
	a.status = text
	a.statusErr = isErr
}

// refreshCategories re-reads the list, keeping the selection on the same
// category when it still exists.
func (a *App) refreshCategories() {
	target := a.selectID
	if target == 0 {
		if cat, ok := a.SelectedCategory(); ok {
			target = cat.ID
		}
	}

	a.categories = a.manager.Categories()

	if i := slices.IndexFunc(a.categories, func(c model.Category) bool { return c.ID == target }); i >= 0 {
		a.cursor = i
		if target == a.selectID {
			a.selectID = 0
		}
	}
	if a.cursor >= len(a.categories) {
		a.cursor = max(len(a.categories)-1, 0)
	}
}

func (a *App) onCategoriesChanged() {
	a.refreshCategories()
	if !a.detail.Open {
		return
	}
	if _, err := a.manager.CategoryByID(a.detail.CategoryID); err != nil {
		a.closeDetail()
		return
	}
	// Contents may have changed.
	a.requestSort()
}

func (a *App) onSorted(msg sortedMsg) {
	if !a.detail.Open || !a.tracker.Accept(a.detail.CategoryID, msg.timestamp) {
		a.logger.Debug("stale sort result dropped", "timestamp", msg.timestamp)
		return
	}
	a.detail.Sorting = false
	a.detail.setRows(rowsFromBlocks(msg.blocks, a.manager.Bookmark, a.manager.Track))
}

func (a *App) onShared(result model.SharingResult) {
	if result.Code != model.SharingSuccess {
		a.setStatus(fmt.Sprintf("Sharing failed (%s): %s", result.Code, result.Diagnostic), true)
		return
	}

	paths := make([]string, len(result.Files))
	for i, f := range result.Files {
		paths[i] = f.Path
	}
	text := strings.Join(paths, "\n")

	if err := a.copyText(text); err != nil {
		a.logger.Warn("copy shared paths", "error", err)
		a.setStatus("Shared to "+text, false)
		return
	}
	a.setStatus(fmt.Sprintf("Shared %d file(s), path copied", len(paths)), false)
}

func (a App) handleKey(msg tea.KeyMsg) (App, tea.Cmd) {
	switch a.mode {
	case ModeSearch:
		return a.handleSearchKey(msg)
	case ModeCreateCategory:
		return a.handleCreateKey(msg)
	case ModeConfirmDelete:
		return a.handleConfirmKey(msg), nil
	case ModeHelp:
		// Any key closes help
		a.mode = ModeNormal
		return a, nil
	}

	// Handle gg sequence
	if key.Matches(msg, a.keys.Top) {
		if a.lastKeyWasG {
			a.moveToEdge(true)
			a.lastKeyWasG = false
			return a, nil
		}
		a.lastKeyWasG = true
		return a, nil
	}

	// Reset g flag for any other key
	a.lastKeyWasG = false

	switch {
	case key.Matches(msg, a.keys.Quit):
		return a, tea.Quit

	case key.Matches(msg, a.keys.Down):
		a.move(1)

	case key.Matches(msg, a.keys.Up):
		a.move(-1)

	case key.Matches(msg, a.keys.Bottom):
		a.moveToEdge(false)

	case key.Matches(msg, a.keys.Right):
		if a.focus == PaneCategories {
			if cat, ok := a.SelectedCategory(); ok {
				a.openDetail(cat.ID)
			}
		}

	case key.Matches(msg, a.keys.Left), key.Matches(msg, a.keys.Cancel):
		if a.focus == PaneDetail {
			a.closeDetail()
		}

	case key.Matches(msg, a.keys.Sort):
		a.cycleSort()

	case key.Matches(msg, a.keys.Visibility):
		a.toggleVisibility()

	case key.Matches(msg, a.keys.ShowAll):
		a.toggleAllVisibility()

	case key.Matches(msg, a.keys.Share):
		a.share()

	case key.Matches(msg, a.keys.Create):
		a.create.Reset()
		a.mode = ModeCreateCategory
		cmd := a.create.Input.Focus()
		return a, cmd

	case key.Matches(msg, a.keys.Delete):
		a.askDelete()

	case key.Matches(msg, a.keys.Search):
		a.openSearch()
		cmd := a.search.Input.Focus()
		return a, cmd

	case key.Matches(msg, a.keys.Reload):
		a.manager.LoadBookmarks()

	case key.Matches(msg, a.keys.Help):
		a.mode = ModeHelp
	}

	return a, nil
}

func (a *App) move(delta int) {
	if a.focus == PaneDetail {
		a.detail.Cursor = a.detail.step(a.detail.Cursor, delta)
		return
	}

	switch {
	case delta > 0 && len(a.categories) > 0 && a.cursor < len(a.categories)-1:
		a.cursor++
	case delta < 0 && a.cursor > 0:
		a.cursor--
	}
}

func (a *App) moveToEdge(top bool) {
	if a.focus == PaneDetail {
		if top {
			a.detail.Cursor = a.detail.step(-1, 1)
		} else {
			a.detail.Cursor = a.detail.step(len(a.detail.Rows), -1)
		}
		a.detail.clampCursor()
		return
	}

	if top {
		a.cursor = 0
	} else if len(a.categories) > 0 {
		a.cursor = len(a.categories) - 1
	}
}

func (a *App) selectCategory(id int64) {
	if i := slices.IndexFunc(a.categories, func(c model.Category) bool { return c.ID == id }); i >= 0 {
		a.cursor = i
	}
}

// openDetail shows a category and requests its sorted contents using the
// remembered sorting type when it still applies.
func (a *App) openDetail(categoryID int64) {
	if a.detail.Open && a.detail.CategoryID != categoryID {
		a.tracker.Forget(a.detail.CategoryID)
	}

	types := a.manager.AvailableSortingTypes(categoryID, a.position != nil)
	sortType := model.SortByName
	if last, ok := a.manager.LastSortingType(categoryID); ok && slices.Contains(types, last) {
		sortType = last
	}

	a.detail = DetailState{Open: true, CategoryID: categoryID, SortType: sortType}
	a.focus = PaneDetail
	a.requestSort()
}

func (a *App) closeDetail() {
	a.tracker.Forget(a.detail.CategoryID)
	a.detail = DetailState{}
	a.focus = PaneCategories
}

func (a *App) requestSort() {
	params := model.SortParams{
		CategoryID: a.detail.CategoryID,
		Type:       a.detail.SortType,
		Timestamp:  a.tracker.Issue(a.detail.CategoryID),
	}
	if a.position != nil {
		params.HasMyPosition = true
		params.Lat = a.position.Lat
		params.Lon = a.position.Lon
	}

	a.detail.Sorting = true
	a.manager.SortCategory(params)
}

func (a *App) cycleSort() {
	if !a.detail.Open {
		return
	}
	id := a.detail.CategoryID

	types := a.manager.AvailableSortingTypes(id, a.position != nil)
	if len(types) == 0 {
		return
	}
	next := types[0]
	if i := slices.Index(types, a.detail.SortType); i >= 0 {
		next = types[(i+1)%len(types)]
	}

	if err := a.manager.SetLastSortingType(id, next); err != nil {
		a.logger.Warn("remember sorting type", "category", id, "error", err)
	}
	a.detail.SortType = next
	a.setStatus("Sorted by "+next.String(), false)
	a.requestSort()
}

// targetCategory is the open category, or the selected one in the list.
func (a App) targetCategory() (model.Category, bool) {
	if a.detail.Open {
		cat, err := a.manager.CategoryByID(a.detail.CategoryID)
		return cat, err == nil
	}
	return a.SelectedCategory()
}

func (a *App) toggleVisibility() {
	cat, ok := a.targetCategory()
	if !ok {
		return
	}
	visible, err := a.manager.ToggleVisibility(cat.ID)
	if err != nil {
		a.setStatus(err.Error(), true)
		return
	}
	if visible {
		a.setStatus("Showing "+cat.Name, false)
	} else {
		a.setStatus("Hiding "+cat.Name, false)
	}
}

func (a *App) toggleAllVisibility() {
	visible := !a.manager.AreAllCategoriesVisible()
	if err := a.manager.SetAllCategoriesVisibility(visible); err != nil {
		a.setStatus(err.Error(), true)
		return
	}
	if visible {
		a.setStatus("Showing all categories", false)
	} else {
		a.setStatus("Hiding all categories", false)
	}
}

func (a *App) share() {
	if a.focus == PaneDetail {
		if row, ok := a.detail.selected(); ok && row.Kind == RowTrack {
			a.manager.PrepareTrackForSharing(row.Track.ID, a.shareType)
			a.setStatus("Preparing "+row.Track.Name+" for sharing...", false)
			return
		}
	}

	cat, ok := a.targetCategory()
	if !ok {
		return
	}
	a.manager.PrepareCategoriesForSharing([]int64{cat.ID}, a.shareType)
	a.setStatus("Preparing "+cat.Name+" for sharing...", false)
}

func (a *App) askDelete() {
	if a.focus == PaneDetail {
		row, ok := a.detail.selected()
		if !ok {
			return
		}
		a.confirm = ConfirmState{Kind: row.Kind, ID: row.ID(), Name: row.Title()}
	} else {
		cat, ok := a.SelectedCategory()
		if !ok {
			return
		}
		a.confirm = ConfirmState{Kind: RowBlock, ID: cat.ID, Name: cat.Name}
	}
	a.mode = ModeConfirmDelete
}

func (a App) handleConfirmKey(msg tea.KeyMsg) App {
	a.mode = ModeNormal
	target := a.confirm
	a.confirm = ConfirmState{}

	if !key.Matches(msg, a.keys.Confirm) {
		return a
	}

	var err error
	switch target.Kind {
	case RowBookmark:
		err = a.manager.DeleteBookmark(target.ID)
	case RowTrack:
		err = a.manager.DeleteTrack(target.ID)
	default:
		err = a.manager.DeleteCategory(target.ID)
		if err == nil && a.detail.Open && a.detail.CategoryID == target.ID {
			a.closeDetail()
		}
	}

	if err != nil {
		a.setStatus(err.Error(), true)
		return a
	}
	a.setStatus("Deleted "+target.Name, false)
	return a
}

func (a App) handleCreateKey(msg tea.KeyMsg) (App, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		a.create.Reset()
		a.mode = ModeNormal
		return a, nil

	case tea.KeyEnter:
		name := strings.TrimSpace(a.create.Input.Value())
		if name == "" {
			a.create.Error = "Name is empty"
			return a, nil
		}
		if a.manager.IsUsedCategoryName(name) {
			a.create.Error = fmt.Sprintf("%q already exists", name)
			return a, nil
		}
		id, err := a.manager.CreateCategory(name)
		if err != nil {
			a.create.Error = err.Error()
			return a, nil
		}
		a.selectID = id
		a.create.Reset()
		a.mode = ModeNormal
		a.setStatus("Created "+name, false)
		return a, nil
	}

	var cmd tea.Cmd
	a.create.Input, cmd = a.create.Input.Update(msg)
	a.create.Error = ""
	return a, cmd
}

func (a *App) openSearch() {
	a.search.Reset()
	for _, cat := range a.categories {
		a.search.bookmarks = append(a.search.bookmarks, a.manager.Bookmarks(cat.ID)...)
	}
	a.mode = ModeSearch
}

func (a App) handleSearchKey(msg tea.KeyMsg) (App, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		a.search.Reset()
		a.mode = ModeNormal
		return a, nil

	case tea.KeyEnter:
		a.openSearchResult()
		return a, nil

	case tea.KeyDown, tea.KeyCtrlN:
		if a.search.Cursor < len(a.search.Results)-1 {
			a.search.Cursor++
		}
		return a, nil

	case tea.KeyUp, tea.KeyCtrlP:
		if a.search.Cursor > 0 {
			a.search.Cursor--
		}
		return a, nil
	}

	var cmd tea.Cmd
	a.search.Input, cmd = a.search.Input.Update(msg)
	a.search.Results = search.FuzzySearch(a.categories, a.search.bookmarks, a.search.Input.Value())
	a.search.Cursor = 0
	return a, cmd
}

func (a *App) openSearchResult() {
	if a.search.Cursor >= len(a.search.Results) {
		return
	}
	result := a.search.Results[a.search.Cursor]
	a.search.Reset()
	a.mode = ModeNormal

	switch result.Kind {
	case search.KindCategory:
		a.selectCategory(result.Category.ID)
		a.openDetail(result.Category.ID)
	case search.KindBookmark:
		a.selectCategory(result.Bookmark.CategoryID)
		a.openDetail(result.Bookmark.CategoryID)
		a.detail.focusID = result.Bookmark.ID
	}
}
