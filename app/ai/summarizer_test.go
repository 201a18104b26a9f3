package ai

import (
	"context"
	"strings"
	"testing"
	"time"

	"newscourier/app/article"
)

func TestSummarizer_FallbackLayout(t *testing.T) {
	s := NewSummarizer(NewClient("", "", ""))

	a := article.New("Big Launch", "https://example.com/1",
		"<p>The company shipped a <b>new product</b> today.</p>", time.Now())

	summary, err := s.Summarize(context.Background(), a)
	if err != nil {
		t.Fatalf("Unexpected summarize error: %v", err)
	}

	if !strings.HasPrefix(summary, "Big Launch") {
		t.Errorf("Expected summary to start with the title, got %q", summary)
	}
	if !strings.Contains(summary, "The company shipped a new product today.") {
		t.Errorf("Expected cleaned description in summary, got %q", summary)
	}
	if !strings.Contains(summary, "Read more: https://example.com/1") {
		t.Errorf("Expected source link in summary, got %q", summary)
	}
}

func TestSummarizer_TruncatesLongDescription(t *testing.T) {
	s := NewSummarizer(NewClient("", "", ""))

	a := article.New("Title", "https://example.com/1",
		strings.Repeat("x", 1000), time.Now())

	summary, err := s.Summarize(context.Background(), a)
	if err != nil {
		t.Fatalf("Unexpected summarize error: %v", err)
	}
	if strings.Count(summary, "x") != fallbackDescriptionLimit {
		t.Errorf("Expected description trimmed to %d runes, got %d",
			fallbackDescriptionLimit, strings.Count(summary, "x"))
	}
}

func TestSummarizer_EmptyArticleErrors(t *testing.T) {
	s := NewSummarizer(NewClient("", "", ""))

	a := article.New("", "https://example.com/1", "", time.Now())
	if _, err := s.Summarize(context.Background(), a); err == nil {
		t.Error("Expected an error for an article with no content")
	}
}
