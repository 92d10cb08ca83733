package model

import (
	"path/filepath"
	"strings"
)

// Bookmark file extensions the Store can load.
const (
	ExtKMZ = ".kmz"
	ExtKML = ".kml"
	ExtKMB = ".kmb"
	ExtGPX = ".gpx"
)

// BookmarkExtensions is the static list of supported bookmark file extensions.
var BookmarkExtensions = []string{ExtKMZ, ExtKML, ExtKMB, ExtGPX}

// IsBookmarkFile reports whether path ends with a supported extension, ignoring case.
func IsBookmarkFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range BookmarkExtensions {
		if ext == e {
			return true
		}
	}
	return false
}
