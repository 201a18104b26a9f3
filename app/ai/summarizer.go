package ai

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"newscourier/app/article"
)

const summarizerSystemRole = "You are a content strategist who writes engaging, accurate digests of news articles for a general audience."

const summaryInstructionsFormat = `Summarize the following article in %d-%d words.
Lead with the single most important fact, then the context a reader needs.
Do not invent details that are not in the content.

Title: %s
Content: %s
Link: %s`

const (
	summaryMinWords          = 100
	summaryMaxWords          = 200
	maxSummaryContentLength  = 500
	fallbackDescriptionLimit = 400
)

// Summarizer produces the formatted text handed to publishers. An AI
// failure degrades to a deterministic layout; an error is returned only
// when even that would be empty, and the caller must not send in that
// case.
type Summarizer struct {
	client *Client
}

func NewSummarizer(client *Client) *Summarizer {
	return &Summarizer{client: client}
}

func (s *Summarizer) Summarize(ctx context.Context, a *article.Article) (string, error) {
	title := strings.TrimSpace(a.Title)
	description := CleanHTML(a.Description)

	if s.client.Configured() {
		prompt := fmt.Sprintf(summaryInstructionsFormat,
			summaryMinWords, summaryMaxWords,
			title, truncate(description, maxSummaryContentLength), a.Link)

		summary, err := s.client.Complete(ctx, summarizerSystemRole, prompt, 800, 0.8)
		if err != nil {
			slog.Warn("AI summarization failed, using fallback", "title", title, "error", err)
		} else if summary != "" {
			if a.Link != "" && !strings.Contains(summary, a.Link) {
				summary += "\n\nRead more: " + a.Link
			}
			return summary, nil
		}
	}

	return s.simpleSummary(title, description, a.Link)
}

// simpleSummary is the deterministic non-AI layout: title, trimmed
// description, source link.
func (s *Summarizer) simpleSummary(title, description, link string) (string, error) {
	if title == "" && description == "" {
		return "", fmt.Errorf("article has no content to summarize")
	}

	var b strings.Builder
	if title != "" {
		b.WriteString(title)
	}
	if description != "" {
		if b.Len() > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(truncate(description, fallbackDescriptionLimit))
	}
	if link != "" {
		b.WriteString("\n\nRead more: ")
		b.WriteString(link)
	}

	return b.String(), nil
}
