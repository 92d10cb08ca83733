package model

import (
	"fmt"
	"strings"
)

// SortingType selects how a category's contents are grouped into blocks.
type SortingType int

const (
	SortByType SortingType = iota
	SortByDistance
	SortByTime
	SortByName
)

// SortingTypes lists every sorting type in cycling order.
var SortingTypes = []SortingType{SortByType, SortByDistance, SortByTime, SortByName}

func (t SortingType) String() string {
	switch t {
	case SortByType:
		return "type"
	case SortByDistance:
		return "distance"
	case SortByTime:
		return "time"
	case SortByName:
		return "name"
	default:
		return fmt.Sprintf("SortingType(%d)", int(t))
	}
}

// ParseSortingType parses the String form of a sorting type.
func ParseSortingType(s string) (SortingType, error) {
	for _, t := range SortingTypes {
		if strings.EqualFold(s, t.String()) {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown sorting type %q", s)
}

// SortParams is a sort request for one category.
// Timestamp is chosen by the caller and echoed back in the result.
type SortParams struct {
	CategoryID    int64
	Type          SortingType
	HasMyPosition bool
	Lat           float64
	Lon           float64
	Timestamp     int64
}

// SortStatus tells whether a sort produced blocks or was abandoned.
type SortStatus int

const (
	SortCompleted SortStatus = iota
	SortCancelled
)

// SortResult is delivered once per SortParams.
type SortResult struct {
	Timestamp int64
	Status    SortStatus
	Blocks    []SortedBlock
}

// SortedBlock is a named group of either bookmark ids or track ids.
type SortedBlock struct {
	Name        string  `json:"name"`
	BookmarkIDs []int64 `json:"bookmarkIds,omitempty"`
	TrackIDs    []int64 `json:"trackIds,omitempty"`
}

// NewBookmarkBlock creates a block holding bookmark ids.
func NewBookmarkBlock(name string, ids []int64) SortedBlock {
	return SortedBlock{Name: name, BookmarkIDs: ids}
}

// NewTrackBlock creates a block holding track ids.
func NewTrackBlock(name string, ids []int64) SortedBlock {
	return SortedBlock{Name: name, TrackIDs: ids}
}

// Valid reports whether exactly one of the id lists is populated.
func (b SortedBlock) Valid() bool {
	return (len(b.BookmarkIDs) > 0) != (len(b.TrackIDs) > 0)
}

// IsTracks reports whether the block holds track ids.
func (b SortedBlock) IsTracks() bool {
	return len(b.TrackIDs) > 0
}
