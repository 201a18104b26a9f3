package fetch

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"newscourier/app/article"
	"newscourier/app/sources"
)

// MultiSourceFetcher fans out to all enabled sources with a bounded worker
// pool and merges the results. A failing source is logged and skipped; the
// batch continues with whatever the remaining sources returned.
type MultiSourceFetcher struct {
	sources []*sources.Source
	fetcher *Fetcher
	workers int
}

func NewMultiSourceFetcher(srcs []*sources.Source, fetcher *Fetcher, workers int) *MultiSourceFetcher {
	if workers <= 0 {
		workers = 3
	}
	return &MultiSourceFetcher{
		sources: srcs,
		fetcher: fetcher,
		workers: workers,
	}
}

// Sources returns the configured source set, including health counters.
func (m *MultiSourceFetcher) Sources() []*sources.Source {
	return m.sources
}

// Run polls every enabled source concurrently and returns the merged,
// cross-source-deduplicated batch, newest first.
func (m *MultiSourceFetcher) Run(ctx context.Context) []*article.Article {
	enabled := make([]*sources.Source, 0, len(m.sources))
	for _, src := range m.sources {
		if src.Enabled {
			enabled = append(enabled, src)
		}
	}
	if len(enabled) == 0 {
		slog.Warn("No enabled feed sources configured")
		return nil
	}

	jobs := make(chan *sources.Source)
	var mu sync.Mutex
	var collected []*article.Article

	var wg sync.WaitGroup
	for i := 0; i < m.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for src := range jobs {
				items, err := m.fetcher.Run(ctx, src)
				if err != nil {
					src.MarkError(err)
					slog.Warn("Failed to fetch source, skipping", "source", src.Name, "error", err)
					continue
				}
				src.MarkSuccess()
				slog.Debug("Fetched source", "source", src.Name, "articles", len(items))

				mu.Lock()
				collected = append(collected, items...)
				mu.Unlock()
			}
		}()
	}

	for _, src := range enabled {
		select {
		case jobs <- src:
		case <-ctx.Done():
		}
	}
	close(jobs)
	wg.Wait()

	unique := dedupeAcrossSources(collected)

	sort.Slice(unique, func(i, j int) bool {
		return unique[i].Published.After(unique[j].Published)
	})

	slog.Info("Fetch cycle collected articles",
		"sources", len(enabled), "total", len(collected), "unique", len(unique))

	return unique
}

// dedupeAcrossSources drops near-duplicates carried by several feeds,
// keyed on normalized title and normalized link. This is independent of
// the store's date-shard dedup: the two layers protect against different
// failure modes (cross-source duplicates vs re-fetch of the same source).
func dedupeAcrossSources(items []*article.Article) []*article.Article {
	seenTitles := make(map[string]struct{}, len(items))
	seenLinks := make(map[string]struct{}, len(items))

	unique := make([]*article.Article, 0, len(items))
	for _, a := range items {
		titleKey := strings.ToLower(article.NormalizeTitle(a.Title))
		linkKey := strings.ToLower(strings.TrimSpace(a.Link))

		if _, ok := seenTitles[titleKey]; ok {
			continue
		}
		if linkKey != "" {
			if _, ok := seenLinks[linkKey]; ok {
				continue
			}
			seenLinks[linkKey] = struct{}{}
		}
		seenTitles[titleKey] = struct{}{}
		unique = append(unique, a)
	}

	return unique
}
