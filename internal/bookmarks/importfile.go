package bookmarks

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

const tempCopyPrefix = "import-"

// ImportBookmarksFile copies the file behind uri into tempDir and asks the
// Store to load the copy as a temporary file. It blocks on I/O and must run
// on a worker goroutine. Listener notifications are posted to the Manager
// goroutine. It reports whether the file was handed to the Store.
func (m *Manager) ImportBookmarksFile(resolver ContentResolver, uri *url.URL, tempDir string) bool {
	m.logger.Info("importing bookmarks", "uri", uri.String())

	filename, ok := ResolveFilename(resolver, uri)
	if !ok {
		m.logger.Warn("unsupported bookmarks file", "uri", uri.String())
		m.post(func() {
			m.loadingListeners.each(func(l LoadingListener) {
				l.OnFileUnsupported(uri)
			})
		})
		return false
	}

	tempFile, err := tempCopyPath(tempDir, filename)
	if err == nil {
		err = copyContent(resolver, uri, tempFile)
		if err != nil {
			os.Remove(filepath.Dir(tempFile))
		}
	}
	if err != nil {
		m.logger.Error("download bookmarks file", "uri", uri.String(), "error", err)
		reason := err.Error()
		m.post(func() {
			m.loadingListeners.each(func(l LoadingListener) {
				l.OnFileDownloadFailed(uri, reason)
			})
		})
		return false
	}

	m.logger.Debug("downloaded bookmarks file", "uri", uri.String(), "path", tempFile)
	m.post(func() { m.LoadBookmarksFile(tempFile, true) })
	return true
}

// ImportBookmarksFiles imports uris one after another on a new goroutine.
// The returned channel is closed when every file has been handed off.
func (m *Manager) ImportBookmarksFiles(ctx context.Context, resolver ContentResolver, uris []*url.URL, tempDir string) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		for _, uri := range uris {
			if ctx.Err() != nil {
				return
			}
			m.ImportBookmarksFile(resolver, uri, tempDir)
		}
	}()
	return done
}

// tempCopyPath returns a path for filename inside a new directory under
// tempDir, so copies of same-named files never overwrite each other.
func tempCopyPath(tempDir, filename string) (string, error) {
	if err := os.MkdirAll(tempDir, 0755); err != nil {
		return "", err
	}
	dir, err := os.MkdirTemp(tempDir, tempCopyPrefix+"*")
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, filename), nil
}

// removeTempCopy deletes a temporary import copy and the directory
// tempCopyPath made for it.
func removeTempCopy(path string, logger *slog.Logger) {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Warn("remove temporary bookmarks file", "path", path, "error", err)
	}
	dir := filepath.Dir(path)
	if !strings.HasPrefix(filepath.Base(dir), tempCopyPrefix) {
		return
	}
	if err := os.Remove(dir); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Warn("remove temporary import dir", "dir", dir, "error", err)
	}
}

func copyContent(resolver ContentResolver, uri *url.URL, dst string) error {
	if resolver == nil {
		return fmt.Errorf("no content resolver for %s", uri)
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return err
	}

	src, err := resolver.Open(uri)
	if err != nil {
		return err
	}
	defer src.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, src); err != nil {
		out.Close()
		os.Remove(dst)
		return fmt.Errorf("copy %s: %w", uri, err)
	}
	return out.Close()
}
