package exporter

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/nikbrunner/placemarks/internal/model"
)

// ExportGPX renders a category as GPX 1.1: bookmarks as waypoints, tracks as
// single-segment tracks.
func ExportGPX(category model.Category, bookmarks []model.Bookmark, tracks []model.Track) string {
	var b strings.Builder

	b.WriteString("<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n")
	b.WriteString("<gpx version=\"1.1\" creator=\"placemarks\" xmlns=\"http://www.topografix.com/GPX/1/1\">\n")
	b.WriteString("  <metadata>\n")
	fmt.Fprintf(&b, "    <name>%s</name>\n", html.EscapeString(category.Name))
	if category.Description != "" {
		fmt.Fprintf(&b, "    <desc>%s</desc>\n", html.EscapeString(category.Description))
	}
	b.WriteString("  </metadata>\n")

	for _, bm := range bookmarks {
		fmt.Fprintf(&b, "  <wpt lat=\"%.6f\" lon=\"%.6f\">\n", bm.Lat, bm.Lon)
		fmt.Fprintf(&b, "    <time>%s</time>\n", bm.CreatedAt.UTC().Format(time.RFC3339))
		fmt.Fprintf(&b, "    <name>%s</name>\n", html.EscapeString(bm.Name))
		if bm.Description != "" {
			fmt.Fprintf(&b, "    <desc>%s</desc>\n", html.EscapeString(bm.Description))
		}
		if bm.Icon != "" {
			fmt.Fprintf(&b, "    <type>%s</type>\n", html.EscapeString(bm.Icon))
		}
		b.WriteString("  </wpt>\n")
	}

	for _, t := range tracks {
		b.WriteString("  <trk>\n")
		fmt.Fprintf(&b, "    <name>%s</name>\n", html.EscapeString(t.Name))
		if t.Description != "" {
			fmt.Fprintf(&b, "    <desc>%s</desc>\n", html.EscapeString(t.Description))
		}
		b.WriteString("    <trkseg>\n")
		for i, p := range t.Points {
			if i == 0 {
				fmt.Fprintf(&b, "      <trkpt lat=\"%.6f\" lon=\"%.6f\"><time>%s</time></trkpt>\n",
					p.Lat, p.Lon, t.CreatedAt.UTC().Format(time.RFC3339))
				continue
			}
			fmt.Fprintf(&b, "      <trkpt lat=\"%.6f\" lon=\"%.6f\"></trkpt>\n", p.Lat, p.Lon)
		}
		b.WriteString("    </trkseg>\n")
		b.WriteString("  </trk>\n")
	}

	b.WriteString("</gpx>\n")

	return b.String()
}
