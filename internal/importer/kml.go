package importer

import (
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/nikbrunner/placemarks/internal/model"
)

type kmlFile struct {
	XMLName  xml.Name      `xml:"kml"`
	Document *kmlContainer `xml:"Document"`
	Folder   *kmlContainer `xml:"Folder"`
}

type kmlContainer struct {
	Name        string         `xml:"name"`
	Description string         `xml:"description"`
	Visibility  *int           `xml:"visibility"`
	Placemarks  []kmlPlacemark `xml:"Placemark"`
	Folders     []kmlContainer `xml:"Folder"`
}

type kmlPlacemark struct {
	Name         string         `xml:"name"`
	Description  string         `xml:"description"`
	StyleURL     string         `xml:"styleUrl"`
	When         string         `xml:"TimeStamp>when"`
	Point        *kmlGeometry   `xml:"Point"`
	LineString   *kmlGeometry   `xml:"LineString"`
	MultiLines   []kmlGeometry  `xml:"MultiGeometry>LineString"`
	ExtendedData []kmlDataField `xml:"ExtendedData>Data"`
}

type kmlGeometry struct {
	Coordinates string `xml:"coordinates"`
}

type kmlDataField struct {
	Name  string `xml:"name,attr"`
	Value string `xml:"value"`
}

// ParseKML parses a KML document into one category with its bookmarks and tracks.
// Nested folders are flattened into the document's category.
func ParseKML(r io.Reader) (*Result, error) {
	var doc kmlFile
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode kml: %w", err)
	}

	root := doc.Document
	if root == nil {
		root = doc.Folder
	}
	if root == nil {
		return nil, fmt.Errorf("kml has no Document or Folder")
	}

	result := newResult(strings.TrimSpace(root.Name))
	result.Category.Description = plainDescription(root.Description)
	if root.Visibility != nil {
		result.Category.Visible = *root.Visibility != 0
	}

	var walk func(c *kmlContainer) error
	walk = func(c *kmlContainer) error {
		for _, p := range c.Placemarks {
			if err := result.addPlacemark(p); err != nil {
				return err
			}
		}
		for i := range c.Folders {
			if err := walk(&c.Folders[i]); err != nil {
				return err
			}
		}
		return nil
	}
	if err := walk(root); err != nil {
		return nil, err
	}

	return result, nil
}

func (r *Result) addPlacemark(p kmlPlacemark) error {
	color := colorFromStyle(p.StyleURL)
	createdAt := parseTime(p.When)
	name := strings.TrimSpace(p.Name)
	description := plainDescription(p.Description)

	if p.Point != nil {
		points, err := parseCoordinates(p.Point.Coordinates)
		if err != nil {
			return fmt.Errorf("placemark %q: %w", name, err)
		}
		if len(points) == 0 {
			return fmt.Errorf("placemark %q: point without coordinates", name)
		}
		r.addBookmark(model.Bookmark{
			Name:        name,
			Description: description,
			Lat:         points[0].Lat,
			Lon:         points[0].Lon,
			Color:       color,
			Icon:        dataValue(p.ExtendedData, "icon"),
			CreatedAt:   createdAt,
		})
		return nil
	}

	lines := p.MultiLines
	if p.LineString != nil {
		lines = append([]kmlGeometry{*p.LineString}, lines...)
	}
	if len(lines) == 0 {
		// Polygons and other geometries are not supported; skip them.
		return nil
	}

	var points []model.LatLon
	for _, line := range lines {
		pts, err := parseCoordinates(line.Coordinates)
		if err != nil {
			return fmt.Errorf("track %q: %w", name, err)
		}
		points = append(points, pts...)
	}
	r.addTrack(model.Track{
		Name:        name,
		Description: description,
		Color:       color,
		Points:      points,
		CreatedAt:   createdAt,
	})
	return nil
}

// parseCoordinates parses whitespace separated "lon,lat[,alt]" tuples.
func parseCoordinates(s string) ([]model.LatLon, error) {
	var points []model.LatLon
	for _, tuple := range strings.Fields(s) {
		parts := strings.Split(tuple, ",")
		if len(parts) < 2 {
			return nil, fmt.Errorf("bad coordinate %q", tuple)
		}
		lon, err := strconv.ParseFloat(parts[0], 64)
		if err != nil {
			return nil, fmt.Errorf("bad longitude %q: %w", parts[0], err)
		}
		lat, err := strconv.ParseFloat(parts[1], 64)
		if err != nil {
			return nil, fmt.Errorf("bad latitude %q: %w", parts[1], err)
		}
		points = append(points, model.LatLon{Lat: lat, Lon: lon})
	}
	return points, nil
}

// colorFromStyle maps "#placemark-blue" style references to a color.
func colorFromStyle(styleURL string) model.Color {
	name := strings.TrimPrefix(strings.TrimPrefix(styleURL, "#"), "placemark-")
	switch c := model.Color(strings.ToLower(name)); c {
	case model.ColorRed, model.ColorPink, model.ColorPurple, model.ColorBlue, model.ColorGreen,
		model.ColorYellow, model.ColorOrange, model.ColorBrown, model.ColorGray:
		return c
	}
	return model.DefaultColor
}

func dataValue(fields []kmlDataField, name string) string {
	for _, f := range fields {
		if strings.EqualFold(f.Name, name) {
			return strings.TrimSpace(f.Value)
		}
	}
	return ""
}

// parseTime parses an RFC3339 timestamp. A missing or bad value yields now.
func parseTime(s string) time.Time {
	if t, err := time.Parse(time.RFC3339, strings.TrimSpace(s)); err == nil {
		return t
	}
	return time.Now()
}
