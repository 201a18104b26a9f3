package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"newscourier/app/fetch"
	"newscourier/app/scheduler"
	"newscourier/app/store"
)

func NewHandler(st *store.Store, fetcher *fetch.MultiSourceFetcher,
	sendScheduler *scheduler.SendScheduler) *Handler {
	return &Handler{
		store:         st,
		fetcher:       fetcher,
		sendScheduler: sendScheduler,
	}
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]interface{}{
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
		"sources":   len(h.fetcher.Sources()),
	}

	cached := 0
	for _, count := range h.store.Counts() {
		cached += count
	}
	health["cached_articles"] = cached

	c.JSON(http.StatusOK, health)
}

// GetStatus reports the send queue state: pending count, last and next
// send times, whether the window is open.
func (h *Handler) GetStatus(c *gin.Context) {
	status := h.sendScheduler.Status()

	c.JSON(http.StatusOK, map[string]interface{}{
		"send_queue":   status,
		"cache_counts": h.store.Counts(),
	})
}

// APIListSources exposes per-source health counters and success rates.
func (h *Handler) APIListSources(c *gin.Context) {
	srcs := h.fetcher.Sources()

	out := make([]map[string]interface{}, 0, len(srcs))
	for _, src := range srcs {
		info := map[string]interface{}{
			"name":          src.Name,
			"url":           src.URL,
			"priority":      src.Priority,
			"enabled":       src.Enabled,
			"success_count": src.SuccessCount,
			"error_count":   src.ErrorCount,
			"success_rate":  src.SuccessRate(),
		}
		if src.LastFetchTime != nil {
			info["last_fetch_time"] = src.LastFetchTime
		}
		if src.LastError != "" {
			info["last_error"] = src.LastError
		}
		out = append(out, info)
	}

	c.JSON(http.StatusOK, map[string]interface{}{
		"sources": out,
		"total":   len(out),
	})
}

// APIListArticles returns the lifecycle state of every cached article for
// one date (default today): score, exclusion, attempts, errors.
func (h *Handler) APIListArticles(c *gin.Context) {
	dateKey := c.DefaultQuery("date", time.Now().Format("2006-01-02"))
	if _, err := time.Parse("2006-01-02", dateKey); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date, expected YYYY-MM-DD"})
		return
	}

	articles := h.store.Articles(dateKey)

	out := make([]map[string]interface{}, 0, len(articles))
	for _, a := range articles {
		record := map[string]interface{}{
			"title":                 a.Title,
			"link":                  a.Link,
			"source_name":           a.SourceName,
			"published":             a.Published,
			"title_hash":            a.TitleHash,
			"quality_score":         a.QualityScore,
			"excluded_from_sending": a.ExcludedFromSending,
			"exclusion_reason":      a.ExclusionReason,
			"sent_status":           a.SentStatus,
			"send_success":          a.SendSuccess,
			"send_attempts":         a.SendAttempts,
			"send_error":            a.SendError,
		}
		if a.LastAttemptTime != nil {
			record["last_attempt_time"] = a.LastAttemptTime
		}
		out = append(out, record)
	}

	c.JSON(http.StatusOK, map[string]interface{}{
		"date":     dateKey,
		"articles": out,
		"total":    len(out),
	})
}
