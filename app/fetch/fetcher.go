package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"newscourier/app/article"
	"newscourier/app/sources"
)

// Fetcher retrieves and normalizes a single source's feed.
type Fetcher struct {
	httpClient *http.Client
	parser     *Parser
	userAgent  string
	timeout    time.Duration
	window     time.Duration
}

func NewFetcher(httpClient *http.Client, parser *Parser, userAgent string, timeout, window time.Duration) *Fetcher {
	return &Fetcher{
		httpClient: httpClient,
		parser:     parser,
		userAgent:  userAgent,
		timeout:    timeout,
		window:     window,
	}
}

// Run fetches one source and returns its articles published within the
// fetch window, labeled with the source's name and URL.
func (f *Fetcher) Run(ctx context.Context, source *sources.Source) ([]*article.Article, error) {
	data, err := f.fetchFeed(ctx, source.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed: %w", err)
	}

	parsed, err := f.parser.Run(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	cutoff := time.Now().Add(-f.window)

	articles := make([]*article.Article, 0, len(parsed))
	for _, a := range parsed {
		if a.Published.Before(cutoff) {
			continue
		}
		a.SourceName = source.Name
		a.SourceURL = source.URL
		articles = append(articles, a)
	}

	return articles, nil
}

func (f *Fetcher) fetchFeed(ctx context.Context, url string) ([]byte, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(timeoutCtx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return data, nil
}
