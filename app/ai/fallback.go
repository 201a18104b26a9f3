package ai

import (
	"strings"

	"newscourier/app/article"
)

// highValueKeywords nudge the heuristic score up for announcement-style
// coverage that tends to carry substance.
var highValueKeywords = []string{
	"breakthrough",
	"launch",
	"release",
	"announce",
	"partnership",
	"funding",
	"investment",
	"acquisition",
	"milestone",
	"award",
}

// HeuristicScore is the deterministic fallback used when the scoring
// collaborator fails: a function of title length, cleaned description
// length, and presence of high-value keywords. It never fails, so scoring
// outages cannot stall the pipeline.
func HeuristicScore(a *article.Article) int {
	score := 5

	titleLen := len([]rune(strings.TrimSpace(a.Title)))
	if titleLen > 10 {
		score++
	}
	if titleLen > 20 {
		score++
	}

	descLen := len([]rune(CleanHTML(a.Description)))
	if descLen > 100 {
		score++
	}
	if descLen > 300 {
		score++
	}

	content := strings.ToLower(a.Title + " " + a.Description)
	for _, keyword := range highValueKeywords {
		if strings.Contains(content, keyword) {
			score++
			break
		}
	}

	if score > 10 {
		score = 10
	}
	return score
}
