package bookmarks

import (
	"net/url"
	"strings"

	"github.com/nikbrunner/placemarks/internal/model"
)

// Characters that cannot appear in a file name.
var forbiddenChars = strings.NewReplacer(
	":", "", "/", "", "\\", "", "<", "", ">", "", "\"", "", "|", "", "?", "", "*", "",
)

// Hosts that share GPX files without a usable name or MIME type.
var messagingHosts = []string{"com.whatsapp.provider.media"}

// isContentReference reports whether uri names content that only the
// resolver can describe, as opposed to a plain file path.
func isContentReference(uri *url.URL) bool {
	switch strings.ToLower(uri.Scheme) {
	case "content", "http", "https":
		return true
	}
	return false
}

// ResolveFilename derives a loadable bookmark file name from an import
// locator. It returns false when the locator does not look like a supported
// bookmark file; callers report that as an unsupported file type.
func ResolveFilename(resolver ContentResolver, uri *url.URL) (string, bool) {
	if uri == nil {
		return "", false
	}

	var name string
	if resolver != nil && isContentReference(uri) {
		if displayName, ok := resolver.DisplayName(uri); ok {
			name = displayName
		}
	}
	if name == "" {
		name = uri.Path
		if name == "" {
			name = uri.Opaque
		}
		if i := strings.LastIndex(name, "/"); i >= 0 {
			name = name[i+1:]
		}
	}

	name = forbiddenChars.Replace(name)
	if name == "" {
		return "", false
	}

	lower := strings.ToLower(name)
	for _, ext := range model.BookmarkExtensions {
		if strings.HasSuffix(lower, ext) {
			return name, true
		}
	}

	// Some browsers save "x.gpx" as "x.gpx.xml" or "x.gpx (1).xml".
	if i := strings.LastIndex(lower, model.ExtGPX); i >= 0 {
		return name[:i+len(model.ExtGPX)], true
	}

	if resolver != nil {
		if mimeType, ok := resolver.MimeType(uri); ok {
			if ext, ok := extensionForMime(mimeType); ok {
				return name + ext, true
			}
		}
	}

	for _, host := range messagingHosts {
		if strings.Contains(uri.Host, host) {
			return name + model.ExtGPX, true
		}
	}

	return "", false
}

// extensionForMime maps the subtype of a MIME type, taken after the last
// "/" or ".", to a bookmark extension.
func extensionForMime(mimeType string) (string, bool) {
	mimeType = strings.TrimSpace(mimeType)
	if i := strings.IndexByte(mimeType, ';'); i >= 0 {
		mimeType = strings.TrimSpace(mimeType[:i])
	}
	subtype := strings.ToLower(mimeType[strings.LastIndexAny(mimeType, "/.")+1:])

	switch subtype {
	case "kmz":
		return model.ExtKMZ, true
	case "kml+xml":
		return model.ExtKML, true
	case "gpx", "gpx+xml":
		return model.ExtGPX, true
	}
	return "", false
}
