package article

import (
	"fmt"
	"time"
)

// Gate decides pass/exclude from an article's quality score against the
// configured minimum.
type Gate struct {
	minScore int
}

func NewGate(minScore int) *Gate {
	return &Gate{minScore: minScore}
}

func (g *Gate) MinScore() int {
	return g.minScore
}

// AssignScore sets the quality score (clamped to 0-10) and derives the
// exclusion state. A score, once set, is immutable: repeated calls are
// no-ops.
func (g *Gate) AssignScore(a *Article, score int) {
	if a.Scored() {
		return
	}

	score = clampScore(score)
	a.QualityScore = &score
	now := time.Now()
	a.ScoredTime = &now

	if score < g.minScore {
		reason := fmt.Sprintf("quality score %d below minimum %d", score, g.minScore)
		a.ExcludedFromSending = true
		a.ExclusionReason = &reason
	}
}

// NeedsCheck reports whether the article should be submitted to the
// scoring collaborator: unscored, not excluded, not already handled.
func (g *Gate) NeedsCheck(a *Article) bool {
	return !a.Scored() && !a.ExcludedFromSending && !a.SentStatus
}

// Passes reports whether the article may be sent with respect to quality:
// unscored articles are provisionally sendable so scoring latency does not
// starve the pipeline.
func (g *Gate) Passes(a *Article) bool {
	if a.ExcludedFromSending {
		return false
	}
	return !a.Scored() || *a.QualityScore >= g.minScore
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 10 {
		return 10
	}
	return score
}
