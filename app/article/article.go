package article

import (
	"crypto/md5"
	"encoding/hex"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"
)

const (
	// MaxSendAttempts is the retry budget per article. Reaching it marks
	// the article terminal even without a successful send.
	MaxSendAttempts = 3

	// RetryCooldown is the minimum wait between attempts for one article.
	RetryCooldown = 5 * time.Minute
)

// ImageRef points at an optional cover image for an article.
type ImageRef struct {
	URL       string `json:"url"`
	LocalPath string `json:"local_path,omitempty"`
}

// Article is one feed entry tracked through scoring and sending.
// JSON tags define the shard file record format.
type Article struct {
	Title       string    `json:"title"`
	Link        string    `json:"link"`
	Description string    `json:"description"`
	Published   time.Time `json:"published"`

	TitleHash  string `json:"title_hash"`
	DateKey    string `json:"date_key"`
	SourceName string `json:"source_name,omitempty"`
	SourceURL  string `json:"source_url,omitempty"`

	QualityScore        *int       `json:"quality_score"`
	ScoredTime          *time.Time `json:"scored_time"`
	ExcludedFromSending bool       `json:"excluded_from_sending"`
	ExclusionReason     *string    `json:"exclusion_reason"`

	SentStatus      bool       `json:"sent_status"`
	SentTime        *time.Time `json:"sent_time"`
	SendSuccess     bool       `json:"send_success"`
	SendAttempts    int        `json:"send_attempts"`
	LastAttemptTime *time.Time `json:"last_attempt_time"`
	SendError       *string    `json:"send_error"`

	Image *ImageRef `json:"image,omitempty"`
}

func New(title, link, description string, published time.Time) *Article {
	return &Article{
		Title:       title,
		Link:        link,
		Description: description,
		Published:   published,
		TitleHash:   HashTitle(title),
		DateKey:     published.Format("2006-01-02"),
	}
}

// NormalizeTitle collapses runs of whitespace and applies Unicode NFC so
// that visually identical titles hash identically across sources.
func NormalizeTitle(title string) string {
	return norm.NFC.String(strings.Join(strings.Fields(title), " "))
}

// HashTitle is the dedup key: first 16 hex chars of the md5 of the
// normalized title. Unique within one date shard only.
func HashTitle(title string) string {
	sum := md5.Sum([]byte(NormalizeTitle(title)))
	return hex.EncodeToString(sum[:])[:16]
}

// MarkAttempt records one send attempt before the publish call is made.
func (a *Article) MarkAttempt() {
	a.SendAttempts++
	now := time.Now()
	a.LastAttemptTime = &now
}

// MarkSent finalizes the article after a successful publish.
func (a *Article) MarkSent() {
	a.SentStatus = true
	a.SendSuccess = true
	a.SendError = nil
	now := time.Now()
	a.SentTime = &now
}

// MarkFailed records a publish failure. Once the retry budget is spent the
// article becomes terminal: SentStatus is set without SendSuccess.
func (a *Article) MarkFailed(reason string) {
	a.SendError = &reason
	a.SendSuccess = false
	if a.SendAttempts >= MaxSendAttempts {
		a.SentStatus = true
	}
}

// ShouldRetry reports whether the article is eligible for another send
// attempt at the given time.
func (a *Article) ShouldRetry(now time.Time) bool {
	if a.SentStatus {
		return false
	}
	if a.SendAttempts >= MaxSendAttempts {
		return false
	}
	if a.LastAttemptTime != nil && now.Sub(*a.LastAttemptTime) < RetryCooldown {
		return false
	}
	return true
}

// Scored reports whether a quality score has been assigned.
func (a *Article) Scored() bool {
	return a.QualityScore != nil
}
