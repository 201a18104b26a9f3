package ai

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// CleanHTML strips markup from feed-supplied HTML and collapses
// whitespace, producing plain text suitable for prompts and summaries.
func CleanHTML(html string) string {
	if html == "" {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return strings.Join(strings.Fields(html), " ")
	}

	return strings.Join(strings.Fields(doc.Text()), " ")
}

// truncate limits text to at most n runes.
func truncate(text string, n int) string {
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[:n])
}
