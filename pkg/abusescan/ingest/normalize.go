package ingest

import (
	"strings"

	"golang.org/x/net/html"
)

// StripHTML extracts the plain text content from markup. Messages
// scraped from web platforms sometimes arrive with tags embedded;
// stripping is opt-in because it changes what the keyword matcher sees.
func StripHTML(s string) string {
	if !strings.ContainsRune(s, '<') {
		return s
	}

	doc, err := html.Parse(strings.NewReader(s))
	if err != nil {
		// Fallback to the raw string if parsing fails
		return s
	}

	var buf strings.Builder
	var extractText func(*html.Node)
	extractText = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extractText(c)
		}
	}
	extractText(doc)

	return strings.TrimSpace(buf.String())
}
