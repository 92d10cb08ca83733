package model

import "fmt"

// FileType selects the format of a file prepared for sharing.
type FileType int

const (
	FileTypeText   FileType = iota // KML packed into a KMZ archive
	FileTypeBinary                 // KMB
	FileTypeGPX
)

func (t FileType) String() string {
	switch t {
	case FileTypeText:
		return "kml"
	case FileTypeBinary:
		return "kmb"
	case FileTypeGPX:
		return "gpx"
	default:
		return fmt.Sprintf("FileType(%d)", int(t))
	}
}

// ParseFileType parses the String form of a file type. "kmz" is accepted for Text.
func ParseFileType(s string) (FileType, error) {
	switch s {
	case "kml", "kmz":
		return FileTypeText, nil
	case "kmb":
		return FileTypeBinary, nil
	case "gpx":
		return FileTypeGPX, nil
	default:
		return 0, fmt.Errorf("unknown file type %q", s)
	}
}

// SharingCode classifies the outcome of a sharing request.
type SharingCode int

const (
	SharingSuccess SharingCode = iota
	SharingEmptyCategory
	SharingArchiveError
	SharingFileError
)

func (c SharingCode) String() string {
	switch c {
	case SharingSuccess:
		return "SUCCESS"
	case SharingEmptyCategory:
		return "EMPTY_CATEGORY"
	case SharingArchiveError:
		return "ARCHIVE_ERROR"
	case SharingFileError:
		return "FILE_ERROR"
	default:
		return fmt.Sprintf("SharingCode(%d)", int(c))
	}
}

// SharedFile is one prepared file and the category it was made from.
type SharedFile struct {
	CategoryID int64  `json:"categoryId"`
	Path       string `json:"path"`
}

// SharingResult is delivered once per sharing request.
type SharingResult struct {
	Code       SharingCode  `json:"code"`
	Files      []SharedFile `json:"files"`
	MimeType   string       `json:"mimeType"`
	Diagnostic string       `json:"diagnostic"`
}
