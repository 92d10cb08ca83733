// Package exporter writes categories to bookmark files (KML, KMZ, KMB, GPX).
package exporter

import (
	"archive/zip"
	"compress/gzip"
	"fmt"
	"html"
	"io"
	"strings"
	"time"

	"github.com/nikbrunner/placemarks/internal/model"
)

// MIME types of the formats the exporter produces.
const (
	MimeKMZ = "application/vnd.google-earth.kmz"
	MimeKML = "application/vnd.google-earth.kml+xml"
	MimeKMB = "application/octet-stream"
	MimeGPX = "application/gpx+xml"
)

var colors = []model.Color{
	model.ColorRed, model.ColorPink, model.ColorPurple, model.ColorBlue, model.ColorGreen,
	model.ColorYellow, model.ColorOrange, model.ColorBrown, model.ColorGray,
}

// ExportKML renders a category with its bookmarks and tracks as KML.
func ExportKML(category model.Category, bookmarks []model.Bookmark, tracks []model.Track) string {
	var b strings.Builder

	// Header
	b.WriteString("<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n")
	b.WriteString("<kml xmlns=\"http://www.opengis.net/kml/2.2\">\n")
	b.WriteString("<Document>\n")
	writeStyles(&b)
	fmt.Fprintf(&b, "  <name>%s</name>\n", html.EscapeString(category.Name))
	if category.Description != "" {
		fmt.Fprintf(&b, "  <description>%s</description>\n", html.EscapeString(category.Description))
	}
	fmt.Fprintf(&b, "  <visibility>%d</visibility>\n", visibility(category.Visible))

	for _, bm := range bookmarks {
		b.WriteString("  <Placemark>\n")
		fmt.Fprintf(&b, "    <name>%s</name>\n", html.EscapeString(bm.Name))
		if bm.Description != "" {
			fmt.Fprintf(&b, "    <description>%s</description>\n", html.EscapeString(bm.Description))
		}
		fmt.Fprintf(&b, "    <TimeStamp><when>%s</when></TimeStamp>\n", bm.CreatedAt.UTC().Format(time.RFC3339))
		fmt.Fprintf(&b, "    <styleUrl>#placemark-%s</styleUrl>\n", colorOrDefault(bm.Color))
		fmt.Fprintf(&b, "    <Point><coordinates>%s</coordinates></Point>\n", formatCoordinate(bm.Position()))
		if bm.Icon != "" {
			fmt.Fprintf(&b, "    <ExtendedData><Data name=\"icon\"><value>%s</value></Data></ExtendedData>\n",
				html.EscapeString(bm.Icon))
		}
		b.WriteString("  </Placemark>\n")
	}

	for _, t := range tracks {
		b.WriteString("  <Placemark>\n")
		fmt.Fprintf(&b, "    <name>%s</name>\n", html.EscapeString(t.Name))
		if t.Description != "" {
			fmt.Fprintf(&b, "    <description>%s</description>\n", html.EscapeString(t.Description))
		}
		fmt.Fprintf(&b, "    <TimeStamp><when>%s</when></TimeStamp>\n", t.CreatedAt.UTC().Format(time.RFC3339))
		fmt.Fprintf(&b, "    <styleUrl>#placemark-%s</styleUrl>\n", colorOrDefault(t.Color))
		coords := make([]string, len(t.Points))
		for i, p := range t.Points {
			coords[i] = formatCoordinate(p)
		}
		fmt.Fprintf(&b, "    <LineString><coordinates>%s</coordinates></LineString>\n", strings.Join(coords, " "))
		b.WriteString("  </Placemark>\n")
	}

	// Footer
	b.WriteString("</Document>\n")
	b.WriteString("</kml>\n")

	return b.String()
}

// WriteKMZ packs a KML document into a KMZ archive as doc.kml.
func WriteKMZ(w io.Writer, kml string) error {
	zw := zip.NewWriter(w)
	entry, err := zw.Create("doc.kml")
	if err != nil {
		return fmt.Errorf("create kmz entry: %w", err)
	}
	if _, err := io.WriteString(entry, kml); err != nil {
		return fmt.Errorf("write kmz entry: %w", err)
	}
	return zw.Close()
}

// WriteKMB writes the compact binary form of a KML document.
func WriteKMB(w io.Writer, kml string) error {
	zw := gzip.NewWriter(w)
	if _, err := io.WriteString(zw, kml); err != nil {
		return fmt.Errorf("write kmb: %w", err)
	}
	return zw.Close()
}

func writeStyles(b *strings.Builder) {
	for _, c := range colors {
		fmt.Fprintf(b, "  <Style id=\"placemark-%s\"><IconStyle><Icon><href>placemark-%s.png</href></Icon></IconStyle></Style>\n", c, c)
	}
}

func formatCoordinate(p model.LatLon) string {
	return fmt.Sprintf("%.6f,%.6f", p.Lon, p.Lat)
}

func colorOrDefault(c model.Color) model.Color {
	if c == "" {
		return model.DefaultColor
	}
	return c
}

func visibility(visible bool) int {
	if visible {
		return 1
	}
	return 0
}
