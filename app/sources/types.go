package sources

import (
	"net/url"
	"strings"
	"time"
)

// Source is one configured feed endpoint with rolling health counters.
// The success rate informs no automated behavior; it is exposed for
// observability only.
type Source struct {
	URL      string `yaml:"url"`
	Name     string `yaml:"name"`
	Priority int    `yaml:"priority"`
	Enabled  bool   `yaml:"enabled"`

	LastFetchTime *time.Time `yaml:"-"`
	LastError     string     `yaml:"-"`
	SuccessCount  int        `yaml:"-"`
	ErrorCount    int        `yaml:"-"`
}

func (s *Source) MarkSuccess() {
	s.SuccessCount++
	now := time.Now()
	s.LastFetchTime = &now
	s.LastError = ""
}

func (s *Source) MarkError(err error) {
	s.ErrorCount++
	s.LastError = err.Error()
}

func (s *Source) SuccessRate() float64 {
	total := s.SuccessCount + s.ErrorCount
	if total == 0 {
		return 1.0
	}
	return float64(s.SuccessCount) / float64(total)
}

// domainName derives a default source name from the feed URL host.
func domainName(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return "unknown"
	}
	return strings.TrimPrefix(parsed.Host, "www.")
}
