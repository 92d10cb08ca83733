// Package importer reads bookmark files (KML, KMZ, KMB, GPX) into model records.
package importer

import (
	"archive/zip"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/nikbrunner/placemarks/internal/model"
)

// Result is the content of one bookmark file: a category with its records.
// Ids are local to the result; the Store assigns real ids on merge.
type Result struct {
	Category  model.Category
	Bookmarks []model.Bookmark
	Tracks    []model.Track
	nextID    int64
}

func newResult(name string) *Result {
	return &Result{
		Category: model.NewCategory(model.NewCategoryParams{Name: name}),
		nextID:   1,
	}
}

func (r *Result) addBookmark(b model.Bookmark) {
	b.ID = r.nextID
	r.nextID++
	r.Bookmarks = append(r.Bookmarks, b)
}

func (r *Result) addTrack(t model.Track) {
	t.ID = r.nextID
	r.nextID++
	r.Tracks = append(r.Tracks, t)
}

// IsEmpty reports whether the file held no bookmarks and no tracks.
func (r *Result) IsEmpty() bool {
	return len(r.Bookmarks) == 0 && len(r.Tracks) == 0
}

// ParseFile parses a bookmark file, choosing the format by extension.
// The category is named after the file when the document carries no name.
func ParseFile(path string) (*Result, error) {
	base := filepath.Base(path)
	fallback := strings.TrimSuffix(base, filepath.Ext(base))

	var (
		result *Result
		err    error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case model.ExtKML:
		result, err = parseWith(path, ParseKML)
	case model.ExtKMB:
		result, err = parseWith(path, ParseKMB)
	case model.ExtGPX:
		result, err = parseWith(path, func(r io.Reader) (*Result, error) {
			return ParseGPX(r, fallback)
		})
	case model.ExtKMZ:
		result, err = ParseKMZ(path)
	default:
		return nil, fmt.Errorf("unsupported bookmark file %q", base)
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", base, err)
	}

	if result.Category.Name == "" {
		result.Category.Name = fallback
	}
	return result, nil
}

func parseWith(path string, parse func(io.Reader) (*Result, error)) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return parse(f)
}

// ParseKMB parses the compact binary form: a gzip-compressed KML document.
func ParseKMB(r io.Reader) (*Result, error) {
	zr, err := gzip.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("open kmb: %w", err)
	}
	defer zr.Close()
	return ParseKML(zr)
}

// ParseKMZ parses the KML document inside a KMZ archive.
// "doc.kml" is preferred; otherwise the first .kml entry is used.
func ParseKMZ(path string) (*Result, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("open kmz: %w", err)
	}
	defer zr.Close()

	var entry *zip.File
	for _, f := range zr.File {
		if !strings.EqualFold(filepath.Ext(f.Name), model.ExtKML) {
			continue
		}
		if entry == nil || strings.EqualFold(filepath.Base(f.Name), "doc.kml") {
			entry = f
		}
	}
	if entry == nil {
		return nil, fmt.Errorf("kmz has no kml document")
	}

	rc, err := entry.Open()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", entry.Name, err)
	}
	defer rc.Close()
	return ParseKML(rc)
}
