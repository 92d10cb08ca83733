package engine

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nikbrunner/placemarks/internal/exporter"
	"github.com/nikbrunner/placemarks/internal/model"
)

// shareItem is one category's content to be written.
type shareItem struct {
	category  model.Category
	bookmarks []model.Bookmark
	tracks    []model.Track
}

// PrepareForSharing writes one file per category into a fresh directory
// under the share dir. Empty categories are skipped; if nothing is left the
// result is EMPTY_CATEGORY.
func (e *Engine) PrepareForSharing(categoryIDs []int64, fileType model.FileType, done func(model.SharingResult)) {
	ids := append([]int64(nil), categoryIDs...)
	e.async(func() {
		done(e.prepareCategories(ids, fileType))
	})
}

// PrepareTrackForSharing writes a single track to a file.
func (e *Engine) PrepareTrackForSharing(trackID int64, fileType model.FileType, done func(model.SharingResult)) {
	e.async(func() {
		done(e.prepareTrack(trackID, fileType))
	})
}

func (e *Engine) prepareCategories(ids []int64, fileType model.FileType) model.SharingResult {
	if len(ids) == 0 {
		return sharingError(model.SharingEmptyCategory, fileType, "no categories requested")
	}

	e.mu.RLock()
	items := make([]shareItem, 0, len(ids))
	for _, id := range ids {
		cat, ok := e.catalog.CategoryWithCounts(id)
		if !ok {
			e.mu.RUnlock()
			return sharingError(model.SharingFileError, fileType, fmt.Sprintf("category %d not found", id))
		}
		if cat.IsEmpty() {
			continue
		}
		items = append(items, shareItem{
			category:  cat,
			bookmarks: e.catalog.GetBookmarksInCategory(id),
			tracks:    e.catalog.GetTracksInCategory(id),
		})
	}
	e.mu.RUnlock()

	if len(items) == 0 {
		return sharingError(model.SharingEmptyCategory, fileType, "nothing to share")
	}
	return e.writeShare(items, fileType)
}

func (e *Engine) prepareTrack(trackID int64, fileType model.FileType) model.SharingResult {
	e.mu.RLock()
	t := e.catalog.GetTrackByID(trackID)
	if t == nil {
		e.mu.RUnlock()
		return sharingError(model.SharingFileError, fileType, fmt.Sprintf("track %d not found", trackID))
	}
	track := *t
	e.mu.RUnlock()

	if len(track.Points) == 0 {
		return sharingError(model.SharingEmptyCategory, fileType, "track has no points")
	}

	cat := model.Category{ID: track.CategoryID, Name: track.Name, Visible: true}
	if cat.Name == "" {
		cat.Name = fmt.Sprintf("track-%d", track.ID)
	}
	return e.writeShare([]shareItem{{category: cat, tracks: []model.Track{track}}}, fileType)
}

// writeShare writes the items into share_dir/<uuid>/. On failure nothing is left behind.
func (e *Engine) writeShare(items []shareItem, fileType model.FileType) model.SharingResult {
	dir := filepath.Join(e.shareDir, model.GenerateUUID())
	if err := os.MkdirAll(dir, 0755); err != nil {
		return sharingError(model.SharingFileError, fileType, err.Error())
	}

	result := model.SharingResult{Code: model.SharingSuccess, MimeType: mimeType(fileType)}
	used := map[string]bool{}
	for _, item := range items {
		name := uniqueName(used, fileSafeName(item.category), extension(fileType))
		path := filepath.Join(dir, name)

		if code, err := writeShareFile(path, item, fileType); err != nil {
			os.RemoveAll(dir)
			e.logger.Error("prepare file for sharing", "path", path, "code", code.String(), "error", err)
			return sharingError(code, fileType, err.Error())
		}
		result.Files = append(result.Files, model.SharedFile{CategoryID: item.category.ID, Path: path})
	}

	e.logger.Info("prepared files for sharing", "dir", dir, "files", len(result.Files))
	return result
}

// writeShareFile returns ARCHIVE_ERROR when encoding fails and FILE_ERROR
// when the file itself cannot be written.
func writeShareFile(path string, item shareItem, fileType model.FileType) (model.SharingCode, error) {
	f, err := os.Create(path)
	if err != nil {
		return model.SharingFileError, err
	}

	code := model.SharingArchiveError
	switch fileType {
	case model.FileTypeText:
		err = exporter.WriteKMZ(f, exporter.ExportKML(item.category, item.bookmarks, item.tracks))
	case model.FileTypeBinary:
		err = exporter.WriteKMB(f, exporter.ExportKML(item.category, item.bookmarks, item.tracks))
	case model.FileTypeGPX:
		code = model.SharingFileError
		_, err = f.WriteString(exporter.ExportGPX(item.category, item.bookmarks, item.tracks))
	default:
		err = fmt.Errorf("unknown file type %v", fileType)
	}
	if err != nil {
		f.Close()
		return code, err
	}
	if err := f.Close(); err != nil {
		return model.SharingFileError, err
	}
	return model.SharingSuccess, nil
}

func sharingError(code model.SharingCode, fileType model.FileType, diagnostic string) model.SharingResult {
	return model.SharingResult{Code: code, MimeType: mimeType(fileType), Diagnostic: diagnostic}
}

func mimeType(fileType model.FileType) string {
	switch fileType {
	case model.FileTypeBinary:
		return exporter.MimeKMB
	case model.FileTypeGPX:
		return exporter.MimeGPX
	default:
		return exporter.MimeKMZ
	}
}

func extension(fileType model.FileType) string {
	switch fileType {
	case model.FileTypeBinary:
		return model.ExtKMB
	case model.FileTypeGPX:
		return model.ExtGPX
	default:
		return model.ExtKMZ
	}
}

var unsafeChars = strings.NewReplacer(
	":", "_", "/", "_", "\\", "_", "<", "_", ">", "_", "\"", "_", "|", "_", "?", "_", "*", "_",
)

func fileSafeName(cat model.Category) string {
	name := strings.TrimSpace(unsafeChars.Replace(cat.Name))
	if name == "" || name == "." || name == ".." {
		return fmt.Sprintf("category-%d", cat.ID)
	}
	return name
}

func uniqueName(used map[string]bool, base, ext string) string {
	name := base + ext
	for n := 1; used[strings.ToLower(name)]; n++ {
		name = fmt.Sprintf("%s (%d)%s", base, n, ext)
	}
	used[strings.ToLower(name)] = true
	return name
}
