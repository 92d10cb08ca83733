package importer

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/nikbrunner/placemarks/internal/model"
)

type gpxFile struct {
	XMLName  xml.Name    `xml:"gpx"`
	Metadata gpxMetadata `xml:"metadata"`
	Points   []gpxPoint  `xml:"wpt"`
	Tracks   []gpxTrack  `xml:"trk"`
	Routes   []gpxRoute  `xml:"rte"`
}

type gpxMetadata struct {
	Name        string `xml:"name"`
	Description string `xml:"desc"`
}

type gpxPoint struct {
	Lat         float64 `xml:"lat,attr"`
	Lon         float64 `xml:"lon,attr"`
	Name        string  `xml:"name"`
	Description string  `xml:"desc"`
	Time        string  `xml:"time"`
	Type        string  `xml:"type"`
}

type gpxTrack struct {
	Name        string       `xml:"name"`
	Description string       `xml:"desc"`
	Segments    []gpxSegment `xml:"trkseg"`
}

type gpxSegment struct {
	Points []gpxPoint `xml:"trkpt"`
}

type gpxRoute struct {
	Name        string     `xml:"name"`
	Description string     `xml:"desc"`
	Points      []gpxPoint `xml:"rtept"`
}

// ParseGPX parses a GPX document. Waypoints become bookmarks; tracks and
// routes become tracks. fallbackName is used when the file has no name.
func ParseGPX(r io.Reader, fallbackName string) (*Result, error) {
	var doc gpxFile
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode gpx: %w", err)
	}

	name := strings.TrimSpace(doc.Metadata.Name)
	if name == "" {
		name = fallbackName
	}
	result := newResult(name)
	result.Category.Description = plainDescription(doc.Metadata.Description)

	for _, p := range doc.Points {
		result.addBookmark(model.Bookmark{
			Name:        strings.TrimSpace(p.Name),
			Description: plainDescription(p.Description),
			Lat:         p.Lat,
			Lon:         p.Lon,
			Color:       model.DefaultColor,
			Icon:        strings.TrimSpace(p.Type),
			CreatedAt:   parseTime(p.Time),
		})
	}

	for _, trk := range doc.Tracks {
		var points []model.LatLon
		var first string
		for _, seg := range trk.Segments {
			for _, p := range seg.Points {
				if first == "" {
					first = p.Time
				}
				points = append(points, model.LatLon{Lat: p.Lat, Lon: p.Lon})
			}
		}
		result.addTrack(model.Track{
			Name:        strings.TrimSpace(trk.Name),
			Description: plainDescription(trk.Description),
			Color:       model.DefaultColor,
			Points:      points,
			CreatedAt:   parseTime(first),
		})
	}

	for _, rte := range doc.Routes {
		points := make([]model.LatLon, 0, len(rte.Points))
		for _, p := range rte.Points {
			points = append(points, model.LatLon{Lat: p.Lat, Lon: p.Lon})
		}
		result.addTrack(model.Track{
			Name:        strings.TrimSpace(rte.Name),
			Description: plainDescription(rte.Description),
			Color:       model.DefaultColor,
			Points:      points,
			CreatedAt:   parseTime(""),
		})
	}

	return result, nil
}
