package fetch

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"

	"newscourier/app/article"
)

type Parser struct {
	gofeedParser *gofeed.Parser
}

func NewParser() *Parser {
	return &Parser{
		gofeedParser: gofeed.NewParser(),
	}
}

// Run parses raw feed data into article records. Published falls back to
// the updated timestamp, then to the current time.
func (p *Parser) Run(data []byte) ([]*article.Article, error) {
	feed, err := p.gofeedParser.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	articles := make([]*article.Article, 0, len(feed.Items))
	for _, item := range feed.Items {
		if item == nil {
			continue
		}
		articles = append(articles, p.normalizeItem(item))
	}

	return articles, nil
}

func (p *Parser) normalizeItem(item *gofeed.Item) *article.Article {
	published := time.Now()
	if item.PublishedParsed != nil {
		published = *item.PublishedParsed
	} else if item.UpdatedParsed != nil {
		published = *item.UpdatedParsed
	}

	a := article.New(item.Title, item.Link, item.Description, published)

	if imageURL := p.extractImageURL(item); imageURL != "" {
		a.Image = &article.ImageRef{URL: imageURL}
	}

	return a
}

// extractImageURL picks a cover image candidate: an image enclosure first,
// then the item image, then the first <img> in the description HTML.
func (p *Parser) extractImageURL(item *gofeed.Item) string {
	for _, enclosure := range item.Enclosures {
		if enclosure == nil {
			continue
		}
		if strings.HasPrefix(enclosure.Type, "image/") || looksLikeImageURL(enclosure.URL) {
			return enclosure.URL
		}
	}

	if item.Image != nil && item.Image.URL != "" {
		return item.Image.URL
	}

	return firstImageInHTML(item.Description)
}

func firstImageInHTML(html string) string {
	if html == "" {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}

	src, _ := doc.Find("img").First().Attr("src")
	return src
}

func looksLikeImageURL(url string) bool {
	lowered := strings.ToLower(url)
	if idx := strings.IndexAny(lowered, "?#"); idx >= 0 {
		lowered = lowered[:idx]
	}
	for _, ext := range []string{".jpg", ".jpeg", ".png", ".gif", ".webp"} {
		if strings.HasSuffix(lowered, ext) {
			return true
		}
	}
	return false
}
