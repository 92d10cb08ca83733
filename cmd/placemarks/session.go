package main

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/nikbrunner/placemarks/internal/bookmarks"
	"github.com/nikbrunner/placemarks/internal/engine"
	"github.com/nikbrunner/placemarks/internal/mainloop"
	"github.com/nikbrunner/placemarks/internal/model"
	"github.com/nikbrunner/placemarks/internal/storage"
)

// session is a Manager for one command. Manager callbacks run on the
// command's goroutine whenever settle drains the queue.
type session struct {
	storage storage.Storage
	engine  *engine.Engine
	queue   *mainloop.Queue
	manager *bookmarks.Manager
	events  *cliListener
}

// openSession opens the storage and loads the persisted catalog.
func openSession() (*session, error) {
	store, err := storage.Open(cfg.Backend, cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}

	s := &session{
		storage: store,
		engine: engine.New(engine.Params{
			Storage:  store,
			ShareDir: cfg.ShareDir,
			Workers:  cfg.LoadWorkers,
			Logger:   logger,
		}),
		queue:  mainloop.New(),
		events: &cliListener{},
	}
	s.manager = bookmarks.NewManager(bookmarks.ManagerParams{
		Store:  s.engine,
		Poster: s.queue,
		Logger: logger,
	})
	s.manager.AddLoadingListener(s.events)
	s.manager.AddSortingListener(s.events)
	s.manager.AddSharingListener(s.events)

	s.manager.LoadBookmarks()
	s.settle()
	return s, nil
}

// settle waits for background work and runs the callbacks it posted until
// nothing is left.
func (s *session) settle() {
	for {
		s.engine.Wait()
		if s.queue.Drain() == 0 && s.queue.Len() == 0 {
			return
		}
	}
}

func (s *session) close() {
	s.settle()
	s.manager.RemoveLoadingListener(s.events)
	s.manager.RemoveSortingListener(s.events)
	s.manager.RemoveSharingListener(s.events)
	if err := s.storage.Close(); err != nil {
		logger.Warn("close storage", "error", err)
	}
}

// category finds a category by id, or by exact name.
func (s *session) category(arg string) (model.Category, error) {
	if id, err := strconv.ParseInt(arg, 10, 64); err == nil {
		return s.manager.CategoryByID(id)
	}
	for _, cat := range s.manager.Categories() {
		if cat.Name == arg {
			return cat, nil
		}
	}
	return model.Category{}, fmt.Errorf("category %q: %w", arg, bookmarks.ErrCategoryNotFound)
}

// cliListener records Manager callbacks for the running command.
type cliListener struct {
	bookmarks.NopLoadingListener

	imported int
	failed   []string

	sorted    []model.SortedBlock
	cancelled bool

	shared *model.SharingResult
}

func (l *cliListener) OnFileUnsupported(uri *url.URL) {
	l.failed = append(l.failed, fmt.Sprintf("%s: unsupported file", uri))
}

func (l *cliListener) OnFileDownloadFailed(uri *url.URL, reason string) {
	l.failed = append(l.failed, fmt.Sprintf("%s: %s", uri, reason))
}

func (l *cliListener) OnFileImportSuccessful() { l.imported++ }

func (l *cliListener) OnFileImportFailed() {
	l.failed = append(l.failed, "file could not be parsed")
}

func (l *cliListener) OnSortingCompleted(blocks []model.SortedBlock, timestamp int64) {
	l.sorted = blocks
}

func (l *cliListener) OnSortingCancelled(timestamp int64) {
	l.cancelled = true
}

func (l *cliListener) OnPreparedFileForSharing(result model.SharingResult) {
	l.shared = &result
}

func printErr(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(os.Stderr, strings.TrimRight(msg, "\n"))
}
