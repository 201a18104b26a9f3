package article

import (
	"strings"
	"testing"
	"time"
)

func TestHashTitle_NormalizesWhitespace(t *testing.T) {
	a := HashTitle("Breaking   News:  Big\tStory")
	b := HashTitle("Breaking News: Big Story")

	if a != b {
		t.Errorf("Expected identical hashes for whitespace variants, got %s and %s", a, b)
	}
	if len(a) != 16 {
		t.Errorf("Expected 16-char hash, got %d chars", len(a))
	}
}

func TestHashTitle_DistinctTitles(t *testing.T) {
	if HashTitle("Title One") == HashTitle("Title Two") {
		t.Error("Expected different hashes for different titles")
	}
}

func TestNew_SetsDateKey(t *testing.T) {
	published := time.Date(2025, 3, 10, 14, 30, 0, 0, time.UTC)
	a := New("Some Title", "https://example.com/1", "desc", published)

	if a.DateKey != "2025-03-10" {
		t.Errorf("Expected date key 2025-03-10, got %s", a.DateKey)
	}
	if a.TitleHash == "" {
		t.Error("Expected title hash to be set")
	}
	if a.SentStatus || a.SendSuccess || a.ExcludedFromSending {
		t.Error("Expected new article to start with clear flags")
	}
}

func TestMarkFailed_RetryCapForcesTerminal(t *testing.T) {
	a := New("Title", "https://example.com/1", "desc", time.Now())

	for i := 1; i <= MaxSendAttempts; i++ {
		a.MarkAttempt()
		a.MarkFailed("publisher unavailable")

		if i < MaxSendAttempts && a.SentStatus {
			t.Fatalf("Article should not be terminal after %d attempts", i)
		}
	}

	if !a.SentStatus {
		t.Error("Article should be terminal after exhausting the retry budget")
	}
	if a.SendSuccess {
		t.Error("Terminal-failed article must not report send success")
	}
	if a.SendAttempts != MaxSendAttempts {
		t.Errorf("Expected %d attempts, got %d", MaxSendAttempts, a.SendAttempts)
	}
	if a.SendError == nil || !strings.Contains(*a.SendError, "publisher unavailable") {
		t.Error("Expected last send error to be recorded")
	}
}

func TestShouldRetry_RejectsTerminalAndExhausted(t *testing.T) {
	now := time.Now()

	sent := New("Sent", "https://example.com/1", "", now)
	sent.MarkSent()
	if sent.ShouldRetry(now) {
		t.Error("Successfully sent article must not be retried")
	}

	exhausted := New("Exhausted", "https://example.com/2", "", now)
	exhausted.SendAttempts = MaxSendAttempts
	if exhausted.ShouldRetry(now) {
		t.Error("Article with exhausted attempts must not be retried")
	}
}

func TestShouldRetry_RespectsCooldown(t *testing.T) {
	now := time.Now()
	a := New("Title", "https://example.com/1", "", now)
	a.MarkAttempt()

	if a.ShouldRetry(now) {
		t.Error("Article should not be retried within the cooldown")
	}

	later := now.Add(RetryCooldown + time.Second)
	if !a.ShouldRetry(later) {
		t.Error("Article should be retryable after the cooldown")
	}
}

func TestMarkSent_ClearsError(t *testing.T) {
	a := New("Title", "https://example.com/1", "", time.Now())
	a.MarkAttempt()
	a.MarkFailed("temporary failure")
	a.MarkAttempt()
	a.MarkSent()

	if !a.SentStatus || !a.SendSuccess {
		t.Error("Expected sent article to be terminal and successful")
	}
	if a.SendError != nil {
		t.Errorf("Expected send error cleared, got %q", *a.SendError)
	}
	if a.SentTime == nil {
		t.Error("Expected sent time to be stamped")
	}
}
