package store

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"newscourier/app/article"
)

const shardPrefix = "courier_"

// shardFile is the on-disk layout of one date shard.
type shardFile struct {
	Date        string             `json:"date"`
	TitleHashes []string           `json:"title_hashes"`
	Articles    []*article.Article `json:"articles"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

// Store is the date-sharded article cache: the single source of truth for
// per-day dedup membership and each article's lifecycle state. Persistence
// is write-through, one JSON file per calendar date, so eviction is a file
// delete rather than per-record TTL bookkeeping. The tradeoff: dedup does
// not span midnight — identical titles on different days are distinct
// articles by design.
//
// The scheduler loop is the only writer, but the status API reads from
// request goroutines, so all map access goes through the mutex.
type Store struct {
	dir  string
	gate *article.Gate

	mu       sync.RWMutex
	hashes   map[string]map[string]struct{}          // dateKey -> title hashes
	articles map[string]map[string]*article.Article // dateKey -> hash -> article
}

func NewStore(dir string, gate *article.Gate) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	s := &Store{
		dir:      dir,
		gate:     gate,
		hashes:   make(map[string]map[string]struct{}),
		articles: make(map[string]map[string]*article.Article),
	}

	// Load today's and yesterday's shards; older shards only matter for
	// eviction and are left on disk.
	for daysBack := 0; daysBack <= 1; daysBack++ {
		dateKey := time.Now().AddDate(0, 0, -daysBack).Format("2006-01-02")
		if err := s.loadShard(dateKey); err != nil {
			slog.Error("Failed to load cache shard", "date", dateKey, "error", err)
		}
	}

	return s, nil
}

func (s *Store) shardPath(dateKey string) string {
	return filepath.Join(s.dir, shardPrefix+dateKey+".json")
}

// loadShard populates the in-memory maps from disk. Callers other than the
// constructor must hold the write lock.
func (s *Store) loadShard(dateKey string) error {
	data, err := os.ReadFile(s.shardPath(dateKey))
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read shard: %w", err)
	}

	var shard shardFile
	if err := json.Unmarshal(data, &shard); err != nil {
		return fmt.Errorf("failed to parse shard: %w", err)
	}

	hashes := make(map[string]struct{}, len(shard.TitleHashes))
	for _, h := range shard.TitleHashes {
		hashes[h] = struct{}{}
	}
	articles := make(map[string]*article.Article, len(shard.Articles))
	for _, a := range shard.Articles {
		hashes[a.TitleHash] = struct{}{}
		articles[a.TitleHash] = a
	}

	s.hashes[dateKey] = hashes
	s.articles[dateKey] = articles

	slog.Debug("Loaded cache shard", "date", dateKey, "articles", len(articles))
	return nil
}

// saveShard rewrites the whole shard file. Write failures are logged and
// swallowed: in-memory state stays correct for the current run, durability
// is best-effort.
func (s *Store) saveShard(dateKey string) {
	hashes, ok := s.hashes[dateKey]
	if !ok {
		return
	}

	shard := shardFile{
		Date:        dateKey,
		TitleHashes: make([]string, 0, len(hashes)),
		Articles:    make([]*article.Article, 0, len(s.articles[dateKey])),
		UpdatedAt:   time.Now(),
	}
	for h := range hashes {
		shard.TitleHashes = append(shard.TitleHashes, h)
	}
	sort.Strings(shard.TitleHashes)
	for _, a := range s.articles[dateKey] {
		shard.Articles = append(shard.Articles, a)
	}
	sort.Slice(shard.Articles, func(i, j int) bool {
		return shard.Articles[i].TitleHash < shard.Articles[j].TitleHash
	})

	data, err := json.MarshalIndent(shard, "", "  ")
	if err != nil {
		slog.Error("Failed to serialize cache shard", "date", dateKey, "error", err)
		return
	}

	if err := os.WriteFile(s.shardPath(dateKey), data, 0o644); err != nil {
		slog.Error("Failed to write cache shard", "date", dateKey, "error", err)
	}
}

// IsDuplicate reports whether an article with the same title hash is
// already recorded under the article's date key.
func (s *Store) IsDuplicate(a *article.Article) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.hashes[a.DateKey][a.TitleHash]
	return ok
}

// Add inserts the article into its date shard and persists the shard.
func (s *Store) Add(a *article.Article) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.hashes[a.DateKey]; !ok {
		s.hashes[a.DateKey] = make(map[string]struct{})
		s.articles[a.DateKey] = make(map[string]*article.Article)
	}
	s.hashes[a.DateKey][a.TitleHash] = struct{}{}
	s.articles[a.DateKey][a.TitleHash] = a
	s.saveShard(a.DateKey)
}

// Update re-persists the shard containing the article after a state
// mutation (score, exclusion, send attempt).
func (s *Store) Update(a *article.Article) {
	s.mu.Lock()
	defer s.mu.Unlock()
	shard, ok := s.articles[a.DateKey]
	if !ok {
		return
	}
	if _, ok := shard[a.TitleHash]; !ok {
		return
	}
	shard[a.TitleHash] = a
	s.saveShard(a.DateKey)
}

// Get returns the stored article for a date key and title hash, or nil.
func (s *Store) Get(dateKey, titleHash string) *article.Article {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.articles[dateKey][titleHash]
}

// GetSendable returns all articles eligible for a send attempt: not
// terminal, not excluded, unscored or passing the quality gate, and
// retry-eligible. Ordered newest-published-first.
func (s *Store) GetSendable() []*article.Article {
	s.mu.RLock()
	defer s.mu.RUnlock()
	now := time.Now()

	var sendable []*article.Article
	for _, shard := range s.articles {
		for _, a := range shard {
			if a.SentStatus {
				continue
			}
			if !s.gate.Passes(a) {
				continue
			}
			if !a.ShouldRetry(now) {
				continue
			}
			sendable = append(sendable, a)
		}
	}

	sort.Slice(sendable, func(i, j int) bool {
		return sendable[i].Published.After(sendable[j].Published)
	})
	return sendable
}

// Articles returns all articles for one date key, newest first. Used by
// the status API. Takes the write lock: a miss lazily loads the shard.
func (s *Store) Articles(dateKey string) []*article.Article {
	s.mu.Lock()
	defer s.mu.Unlock()
	shard, ok := s.articles[dateKey]
	if !ok {
		if err := s.loadShard(dateKey); err != nil {
			slog.Error("Failed to load cache shard", "date", dateKey, "error", err)
		}
		shard = s.articles[dateKey]
	}

	out := make([]*article.Article, 0, len(shard))
	for _, a := range shard {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Published.After(out[j].Published)
	})
	return out
}

// Counts returns the number of cached articles per date key.
func (s *Store) Counts() map[string]int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	counts := make(map[string]int, len(s.hashes))
	for dateKey, hashes := range s.hashes {
		counts[dateKey] = len(hashes)
	}
	return counts
}

// EvictOlderThan deletes shards whose date key precedes now minus the
// given number of days, on disk and in memory.
func (s *Store) EvictOlderThan(days int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cutoff := time.Now().AddDate(0, 0, -days)

	files, err := filepath.Glob(filepath.Join(s.dir, shardPrefix+"*.json"))
	if err != nil {
		slog.Error("Failed to list cache shards", "error", err)
		return
	}

	for _, file := range files {
		name := filepath.Base(file)
		dateKey := name[len(shardPrefix) : len(name)-len(".json")]
		shardDate, err := time.ParseInLocation("2006-01-02", dateKey, time.Local)
		if err != nil {
			slog.Warn("Skipping unrecognized cache file", "file", name)
			continue
		}

		if shardDate.Before(cutoff) {
			if err := os.Remove(file); err != nil {
				slog.Error("Failed to delete cache shard", "file", name, "error", err)
				continue
			}
			delete(s.hashes, dateKey)
			delete(s.articles, dateKey)
			slog.Info("Evicted cache shard", "date", dateKey)
		}
	}
}
