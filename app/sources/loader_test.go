package sources

import (
	"os"
	"path/filepath"
	"testing"
)

func writeSourceFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write source file: %v", err)
	}
}

func TestLoader_LoadAll_DefaultsAndOrdering(t *testing.T) {
	dir := t.TempDir()

	writeSourceFile(t, dir, "a-first.yaml", `url: https://news.site.org/rss
name: custom-name
priority: 5
enabled: false`)
	writeSourceFile(t, dir, "b-second.yml", `url: https://www.example.com/feed.xml`)

	loaded, err := NewLoader(dir).LoadAll()
	if err != nil {
		t.Fatalf("Failed to load sources: %v", err)
	}
	if len(loaded) != 2 {
		t.Fatalf("Expected 2 sources, got %d", len(loaded))
	}

	// positional priority 2 sorts ahead of the explicit 5
	first := loaded[0]
	if first.Name != "example.com" {
		t.Errorf("Expected name derived from domain without www, got %q", first.Name)
	}
	if !first.Enabled {
		t.Error("Enabled should default to true")
	}
	if first.Priority != 2 {
		t.Errorf("Expected positional priority 2, got %d", first.Priority)
	}

	second := loaded[1]
	if second.Name != "custom-name" || second.Enabled || second.Priority != 5 {
		t.Errorf("Unexpected second source: %+v", second)
	}
}

func TestLoader_LoadAll_MissingDir(t *testing.T) {
	loaded, err := NewLoader(filepath.Join(t.TempDir(), "does-not-exist")).LoadAll()
	if err != nil {
		t.Fatalf("Missing directory should not be an error, got: %v", err)
	}
	if len(loaded) != 0 {
		t.Errorf("Expected no sources, got %d", len(loaded))
	}
}

func TestLoader_LoadAll_MissingURL(t *testing.T) {
	dir := t.TempDir()
	writeSourceFile(t, dir, "broken.yaml", `name: no-url-here`)

	if _, err := NewLoader(dir).LoadAll(); err == nil {
		t.Error("Expected a validation error for a source without a URL")
	}
}

func TestSource_HealthCounters(t *testing.T) {
	src := &Source{URL: "https://example.com/feed", Name: "example"}

	if src.SuccessRate() != 1.0 {
		t.Errorf("Expected optimistic 1.0 success rate before any fetch, got %f", src.SuccessRate())
	}

	src.MarkSuccess()
	src.MarkSuccess()
	src.MarkError(os.ErrDeadlineExceeded)

	if src.SuccessCount != 2 || src.ErrorCount != 1 {
		t.Errorf("Unexpected counters: %d successes, %d errors", src.SuccessCount, src.ErrorCount)
	}
	if src.LastError == "" {
		t.Error("Expected last error recorded")
	}
	if src.LastFetchTime == nil {
		t.Error("Expected last fetch time recorded")
	}

	want := 2.0 / 3.0
	if rate := src.SuccessRate(); rate < want-0.001 || rate > want+0.001 {
		t.Errorf("Expected success rate ~%f, got %f", want, rate)
	}
}
