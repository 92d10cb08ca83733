package model

import "time"

// Color is one of the predefined bookmark colors.
type Color string

const (
	ColorRed    Color = "red"
	ColorPink   Color = "pink"
	ColorPurple Color = "purple"
	ColorBlue   Color = "blue"
	ColorGreen  Color = "green"
	ColorYellow Color = "yellow"
	ColorOrange Color = "orange"
	ColorBrown  Color = "brown"
	ColorGray   Color = "gray"
)

// DefaultColor is used when a file does not specify one.
const DefaultColor = ColorRed

// Bookmark is a named point that belongs to exactly one category.
type Bookmark struct {
	ID          int64     `json:"id"`
	CategoryID  int64     `json:"categoryId"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Lat         float64   `json:"lat"`
	Lon         float64   `json:"lon"`
	Color       Color     `json:"color"`
	Icon        string    `json:"icon"` // "" = no specific type
	CreatedAt   time.Time `json:"createdAt"`
}

// NewBookmarkParams holds parameters for creating a new Bookmark.
type NewBookmarkParams struct {
	ID         int64
	CategoryID int64
	Name       string
	Lat        float64
	Lon        float64
	Color      Color
	Icon       string
}

// NewBookmark creates a Bookmark stamped with the current time.
func NewBookmark(params NewBookmarkParams) Bookmark {
	color := params.Color
	if color == "" {
		color = DefaultColor
	}

	return Bookmark{
		ID:         params.ID,
		CategoryID: params.CategoryID,
		Name:       params.Name,
		Lat:        params.Lat,
		Lon:        params.Lon,
		Color:      color,
		Icon:       params.Icon,
		CreatedAt:  time.Now(),
	}
}

// Position returns the bookmark coordinates.
func (b Bookmark) Position() LatLon {
	return LatLon{Lat: b.Lat, Lon: b.Lon}
}
