package article

import (
	"strings"
	"testing"
	"time"
)

func TestGate_AssignScore_ClampsAndExcludes(t *testing.T) {
	gate := NewGate(7)

	low := New("Low", "https://example.com/low", "", time.Now())
	gate.AssignScore(low, 4)
	if low.QualityScore == nil || *low.QualityScore != 4 {
		t.Fatal("Expected score 4 to be recorded")
	}
	if !low.ExcludedFromSending {
		t.Error("Score below minimum should exclude the article")
	}
	if low.ExclusionReason == nil || !strings.Contains(*low.ExclusionReason, "below minimum") {
		t.Error("Expected exclusion reason to be recorded")
	}

	high := New("High", "https://example.com/high", "", time.Now())
	gate.AssignScore(high, 15)
	if *high.QualityScore != 10 {
		t.Errorf("Expected score clamped to 10, got %d", *high.QualityScore)
	}
	if high.ExcludedFromSending {
		t.Error("Passing article must not be excluded")
	}

	negative := New("Negative", "https://example.com/neg", "", time.Now())
	gate.AssignScore(negative, -3)
	if *negative.QualityScore != 0 {
		t.Errorf("Expected score clamped to 0, got %d", *negative.QualityScore)
	}
}

func TestGate_AssignScore_Immutable(t *testing.T) {
	gate := NewGate(7)
	a := New("Title", "https://example.com/1", "", time.Now())

	gate.AssignScore(a, 9)
	gate.AssignScore(a, 2)

	if *a.QualityScore != 9 {
		t.Errorf("Expected first score 9 to stick, got %d", *a.QualityScore)
	}
	if a.ExcludedFromSending {
		t.Error("Rescoring attempt must not change the exclusion state")
	}
}

func TestGate_NeedsCheck(t *testing.T) {
	gate := NewGate(7)

	fresh := New("Fresh", "https://example.com/1", "", time.Now())
	if !gate.NeedsCheck(fresh) {
		t.Error("Unscored article should need a quality check")
	}

	scored := New("Scored", "https://example.com/2", "", time.Now())
	gate.AssignScore(scored, 8)
	if gate.NeedsCheck(scored) {
		t.Error("Scored article should not need another check")
	}

	sent := New("Sent", "https://example.com/3", "", time.Now())
	sent.MarkSent()
	if gate.NeedsCheck(sent) {
		t.Error("Terminal article should not need a check")
	}
}

func TestGate_Passes_UnscoredIsProvisional(t *testing.T) {
	gate := NewGate(7)

	unscored := New("Unscored", "https://example.com/1", "", time.Now())
	if !gate.Passes(unscored) {
		t.Error("Unscored article should provisionally pass the gate")
	}

	excluded := New("Excluded", "https://example.com/2", "", time.Now())
	gate.AssignScore(excluded, 3)
	if gate.Passes(excluded) {
		t.Error("Excluded article must not pass the gate")
	}

	boundary := New("Boundary", "https://example.com/3", "", time.Now())
	gate.AssignScore(boundary, 7)
	if !gate.Passes(boundary) {
		t.Error("Article scoring exactly the minimum should pass")
	}
}
