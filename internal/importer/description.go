package importer

import (
	"strings"

	"golang.org/x/net/html"
)

// plainDescription reduces an HTML description to readable text.
// Plain text passes through unchanged apart from trimming.
func plainDescription(s string) string {
	s = strings.TrimSpace(s)
	if !strings.Contains(s, "<") {
		return s
	}

	doc, err := html.Parse(strings.NewReader(s))
	if err != nil {
		return s
	}
	return getTextContent(doc)
}

// getTextContent returns the text content of a node. Block elements and
// <br> become line breaks.
func getTextContent(n *html.Node) string {
	var text strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			text.WriteString(n.Data)
		case html.ElementNode:
			switch strings.ToLower(n.Data) {
			case "br":
				text.WriteString("\n")
			case "script", "style":
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
		if n.Type == html.ElementNode {
			switch strings.ToLower(n.Data) {
			case "p", "div", "li", "tr":
				text.WriteString("\n")
			}
		}
	}
	extract(n)

	lines := strings.Split(text.String(), "\n")
	kept := lines[:0]
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}
