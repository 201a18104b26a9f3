package ai

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"newscourier/app/article"
)

const scorerSystemRole = "You are a content analyst who evaluates news articles."

const scoringInstructions = `Score the following article between 0 and 10.
Consider clarity, accuracy, depth, logical structure and completeness.
Thin or superficial content should score low.

Return only the score (0-10), no other text or explanation.`

// maxScoringContentLength caps the description passed to the scoring API.
const maxScoringContentLength = 500

// NeutralScore is assigned when the API replies with something that is
// not a number.
const NeutralScore = 5

// Scorer assigns a 0-10 quality score via the chat completions API. A
// transport or API error is returned to the caller, which is expected to
// fall back to HeuristicScore.
type Scorer struct {
	client *Client
}

func NewScorer(client *Client) *Scorer {
	return &Scorer{client: client}
}

func (s *Scorer) Score(ctx context.Context, a *article.Article) (int, error) {
	content := fmt.Sprintf("Title: %s\nContent: %s",
		strings.TrimSpace(a.Title),
		truncate(CleanHTML(a.Description), maxScoringContentLength))

	reply, err := s.client.Complete(ctx, scorerSystemRole, scoringInstructions+"\n\nContent:\n"+content, 20, 0.1)
	if err != nil {
		return 0, fmt.Errorf("failed to score article: %w", err)
	}

	// A non-numeric reply is not a failure, just an unusable answer.
	score, err := strconv.Atoi(strings.TrimSpace(reply))
	if err != nil {
		return NeutralScore, nil
	}

	if score < 0 {
		score = 0
	} else if score > 10 {
		score = 10
	}
	return score, nil
}
