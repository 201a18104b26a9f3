package scheduler

import (
	"context"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"newscourier/app/ai"
	"newscourier/app/article"
	"newscourier/app/publish"
	"newscourier/app/store"
)

// ArticleScorer assigns a 0-10 quality score. An error triggers the
// heuristic fallback; it never blocks an article from progressing.
type ArticleScorer interface {
	Score(ctx context.Context, a *article.Article) (int, error)
}

// Summarizer turns an article into publishable text.
type Summarizer interface {
	Summarize(ctx context.Context, a *article.Article) (string, error)
}

// Sender delivers formatted content to the publishing back-ends.
type Sender interface {
	Send(ctx context.Context, msg publish.Message) error
}

// Options are the send gate settings.
type Options struct {
	StartHour int // start of the daily send window, 24h clock
	EndHour   int // end of the window; 24 or 0 means midnight, end <= start wraps
	Interval  time.Duration
	MaxJitter time.Duration
}

// SendScheduler selects at most one article per cycle and attempts to
// publish it, under three gates: the daily time window, the minimum
// inter-send interval with jitter, and the per-article retry budget.
// One send at a time keeps the publishing cadence human-like.
type SendScheduler struct {
	store      *store.Store
	gate       *article.Gate
	scorer     ArticleScorer
	summarizer Summarizer
	sender     Sender
	opts       Options

	// lastSendTime is written by the cycle loop and read by the status
	// API from request goroutines.
	mu           sync.Mutex
	lastSendTime *time.Time

	now func() time.Time
}

func NewSendScheduler(st *store.Store, gate *article.Gate, scorer ArticleScorer,
	summarizer Summarizer, sender Sender, opts Options) *SendScheduler {
	return &SendScheduler{
		store:      st,
		gate:       gate,
		scorer:     scorer,
		summarizer: summarizer,
		sender:     sender,
		opts:       opts,
		now:        time.Now,
	}
}

// isHourAllowed classifies one clock hour against the send window. When
// the window wraps midnight (end <= start, with 24 treated as 0) the
// allowed set is [start, 24) plus [0, end).
func (s *SendScheduler) isHourAllowed(hour int) bool {
	start, end := s.opts.StartHour, s.opts.EndHour
	if end == 24 {
		end = 0
	}
	if end <= start {
		return hour >= start || hour < end
	}
	return hour >= start && hour < end
}

// IsSendTimeAllowed reports whether the given time falls inside the
// daily send window.
func (s *SendScheduler) IsSendTimeAllowed(t time.Time) bool {
	return s.isHourAllowed(t.Hour())
}

// lastSend snapshots the last successful send time.
func (s *SendScheduler) lastSend() *time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSendTime
}

// CanSendNow checks the time-window gate and the inter-send interval.
func (s *SendScheduler) CanSendNow() bool {
	now := s.now()
	if !s.IsSendTimeAllowed(now) {
		return false
	}
	last := s.lastSend()
	if last == nil {
		return true
	}
	return now.Sub(*last) >= s.opts.Interval
}

// NextSendTime computes when the next send may happen: last send plus the
// interval plus a uniform random jitter. A jittered time outside the
// window is pushed forward to the next window start with a fresh jitter
// draw rather than being sent late.
func (s *SendScheduler) NextSendTime() time.Time {
	now := s.now()

	base := now
	if last := s.lastSend(); last != nil {
		base = last.Add(s.opts.Interval)
	}
	next := base.Add(s.jitter())

	for !s.isHourAllowed(next.Hour()) {
		windowStart := time.Date(next.Year(), next.Month(), next.Day(),
			s.opts.StartHour, 0, 0, 0, next.Location())
		if !windowStart.After(next) {
			windowStart = windowStart.AddDate(0, 0, 1)
		}
		next = windowStart.Add(s.jitter())
	}

	if next.Before(now) {
		return now
	}
	return next
}

func (s *SendScheduler) jitter() time.Duration {
	if s.opts.MaxJitter <= 0 {
		return 0
	}
	return time.Duration(rand.Int63n(int64(s.opts.MaxJitter) + 1))
}

// RunCycle performs one send-queue check: if the gates allow it, pick the
// single best sendable article and attempt to publish it. Returns the
// number of articles sent (0 or 1). Failures never propagate out of the
// cycle; they degrade to "try again later" or "give up after 3 tries".
func (s *SendScheduler) RunCycle(ctx context.Context) int {
	if !s.CanSendNow() {
		slog.Debug("Send gates closed", "next_send_time", s.NextSendTime())
		return 0
	}

	a := s.selectArticle(ctx)
	if a == nil {
		return 0
	}

	if s.sendArticle(ctx, a) {
		return 1
	}
	return 0
}

// selectArticle scores whatever still needs scoring, then picks the
// highest-scored passing article; ties go to the most recently published.
func (s *SendScheduler) selectArticle(ctx context.Context) *article.Article {
	candidates := s.store.GetSendable()
	if len(candidates) == 0 {
		return nil
	}

	for _, a := range candidates {
		if !s.gate.NeedsCheck(a) {
			continue
		}
		score, err := s.scorer.Score(ctx, a)
		if err != nil {
			score = ai.HeuristicScore(a)
			slog.Warn("Scoring failed, using heuristic fallback",
				"title", a.Title, "score", score, "error", err)
		}
		s.gate.AssignScore(a, score)
		s.store.Update(a)
	}

	// candidates are ordered newest first, so replacing only on a
	// strictly higher score breaks ties toward the most recent article
	var best *article.Article
	for _, a := range candidates {
		if !s.gate.Passes(a) {
			continue
		}
		if best == nil || scoreValue(a) > scoreValue(best) {
			best = a
		}
	}
	return best
}

// sendArticle runs the send sequence: summarize, mark the attempt,
// persist, publish, record the outcome, persist again. A summarization
// failure skips the cycle without consuming an attempt.
func (s *SendScheduler) sendArticle(ctx context.Context, a *article.Article) bool {
	summary, err := s.summarizer.Summarize(ctx, a)
	if err != nil || summary == "" {
		slog.Warn("Summarization produced no content, skipping article this cycle",
			"title", a.Title, "error", err)
		return false
	}

	a.MarkAttempt()
	s.store.Update(a)

	msg := publish.Message{Title: a.Title, Body: summary}
	if a.Image != nil {
		msg.ImageURL = a.Image.URL
	}

	if err := s.sender.Send(ctx, msg); err != nil {
		a.MarkFailed(err.Error())
		s.store.Update(a)
		slog.Error("Failed to publish article",
			"title", a.Title, "attempts", a.SendAttempts, "terminal", a.SentStatus, "error", err)
		return false
	}

	a.MarkSent()
	s.store.Update(a)
	now := s.now()
	s.mu.Lock()
	s.lastSendTime = &now
	s.mu.Unlock()

	slog.Info("Published article",
		"title", a.Title, "source", a.SourceName, "score", scoreValue(a))
	return true
}

func scoreValue(a *article.Article) int {
	if a.QualityScore == nil {
		return -1
	}
	return *a.QualityScore
}

// SendStatus is the queryable state of the send queue.
type SendStatus struct {
	PendingCount int        `json:"pending_articles_count"`
	LastSendTime *time.Time `json:"last_send_time"`
	CanSendNow   bool       `json:"can_send_now"`
	NextSendTime time.Time  `json:"next_send_time"`
	WindowOpen   bool       `json:"window_open"`
}

func (s *SendScheduler) Status() SendStatus {
	return SendStatus{
		PendingCount: len(s.store.GetSendable()),
		LastSendTime: s.lastSend(),
		CanSendNow:   s.CanSendNow(),
		NextSendTime: s.NextSendTime(),
		WindowOpen:   s.IsSendTimeAllowed(s.now()),
	}
}
