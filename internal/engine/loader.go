package engine

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/nikbrunner/placemarks/internal/importer"
	"github.com/nikbrunner/placemarks/internal/model"
)

// ProgressFunc is called after each file is parsed.
// completed is the number of files parsed so far, total is the total count.
type ProgressFunc func(completed, total int)

type loadJob struct {
	path        string
	isTemporary bool
}

type loadResult struct {
	result *importer.Result
	err    error
}

// LoadBookmarks reads the persisted catalog on a background goroutine,
// between the loading started and loading finished events.
func (e *Engine) LoadBookmarks() {
	e.loads.Add(1)
	e.async(func() {
		defer e.loads.Add(-1)
		cb := e.cb()
		if cb.OnLoadingStarted != nil {
			cb.OnLoadingStarted()
		}

		// Reading under the lock orders the load against concurrent merges.
		e.mu.Lock()
		if err := e.reloadLocked(); err != nil {
			e.logger.Error("load catalog", "error", err)
		} else if e.storage != nil {
			e.logger.Info("catalog loaded", "categories", len(e.catalog.Categories),
				"bookmarks", len(e.catalog.Bookmarks), "tracks", len(e.catalog.Tracks))
		}
		e.mu.Unlock()

		if cb.OnLoadingFinished != nil {
			cb.OnLoadingFinished()
		}
	})
}

// LoadBookmarksFile imports one bookmark file on a background goroutine.
func (e *Engine) LoadBookmarksFile(path string, isTemporary bool) {
	e.loadFiles([]loadJob{{path: path, isTemporary: isTemporary}}, nil)
}

// LoadFiles imports several bookmark files, parsing them concurrently.
// Files are merged into the catalog in the given order.
func (e *Engine) LoadFiles(paths []string, onProgress ProgressFunc) {
	jobs := make([]loadJob, len(paths))
	for i, p := range paths {
		jobs[i] = loadJob{path: p}
	}
	e.loadFiles(jobs, onProgress)
}

func (e *Engine) loadFiles(jobs []loadJob, onProgress ProgressFunc) {
	if len(jobs) == 0 {
		return
	}
	e.loads.Add(1)
	e.async(func() {
		defer e.loads.Add(-1)
		cb := e.cb()
		if cb.OnLoadingStarted != nil {
			cb.OnLoadingStarted()
		}

		results := e.parseAll(jobs, onProgress)

		changed := false
		e.mu.Lock()
		if err := e.ensureLoadedLocked(); err != nil {
			for i := range results {
				if results[i].err == nil {
					results[i].err = err
				}
			}
		}
		for i, r := range results {
			if r.err != nil {
				continue
			}
			id := e.catalog.ImportMerge(r.result.Category, r.result.Bookmarks, r.result.Tracks)
			e.logger.Info("bookmarks file imported", "path", jobs[i].path, "category", id,
				"bookmarks", len(r.result.Bookmarks), "tracks", len(r.result.Tracks))
			changed = true
		}
		if changed {
			if err := e.persistLocked(); err != nil {
				for i := range results {
					if results[i].err == nil {
						results[i].err = err
					}
				}
			}
		}
		e.mu.Unlock()

		for i, r := range results {
			if r.err != nil {
				e.logger.Warn("bookmarks file not loaded", "path", jobs[i].path, "error", r.err)
			}
			if cb.OnFileLoaded != nil {
				cb.OnFileLoaded(jobs[i].path, r.err == nil, jobs[i].isTemporary)
			}
		}

		if cb.OnLoadingFinished != nil {
			cb.OnLoadingFinished()
		}
		if changed && cb.OnChanged != nil {
			cb.OnChanged()
		}
	})
}

// parseAll parses every job with a pool of workers.
func (e *Engine) parseAll(jobs []loadJob, onProgress ProgressFunc) []loadResult {
	results := make([]loadResult, len(jobs))
	queue := make(chan int, len(jobs))
	var wg sync.WaitGroup

	// Progress tracking
	var progressMu sync.Mutex
	completed := 0

	workers := min(e.workers, len(jobs))
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range queue {
				result, err := importer.ParseFile(jobs[idx].path)
				results[idx] = loadResult{result: result, err: err}

				if onProgress != nil {
					progressMu.Lock()
					completed++
					onProgress(completed, len(jobs))
					progressMu.Unlock()
				}
			}
		}()
	}

	for i := range jobs {
		queue <- i
	}
	close(queue)

	wg.Wait()
	return results
}

// bookmarkFiles filters paths down to supported bookmark files.
func bookmarkFiles(paths []string) []string {
	var files []string
	for _, p := range paths {
		if model.IsBookmarkFile(p) {
			files = append(files, p)
		}
	}
	return files
}

// BookmarkFilesIn lists the supported bookmark files directly inside dir.
func BookmarkFilesIn(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var paths []string
	for _, entry := range entries {
		if !entry.IsDir() {
			paths = append(paths, filepath.Join(dir, entry.Name()))
		}
	}
	return bookmarkFiles(paths), nil
}
