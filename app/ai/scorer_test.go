package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"newscourier/app/article"
)

func chatStub(t *testing.T, reply string, status int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("Unexpected request path %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("Expected bearer auth header, got %q", r.Header.Get("Authorization"))
		}

		w.WriteHeader(status)
		if status >= http.StatusBadRequest {
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"role": "assistant", "content": reply}},
			},
		})
	}))
}

func TestScorer_ParsesNumericReply(t *testing.T) {
	server := chatStub(t, "8", http.StatusOK)
	defer server.Close()

	scorer := NewScorer(NewClient(server.URL, "test-model", "test-key"))
	a := article.New("Title", "https://example.com/1", "description", time.Now())

	score, err := scorer.Score(context.Background(), a)
	if err != nil {
		t.Fatalf("Unexpected scoring error: %v", err)
	}
	if score != 8 {
		t.Errorf("Expected score 8, got %d", score)
	}
}

func TestScorer_ClampsOutOfRangeReply(t *testing.T) {
	server := chatStub(t, "42", http.StatusOK)
	defer server.Close()

	scorer := NewScorer(NewClient(server.URL, "test-model", "test-key"))
	a := article.New("Title", "https://example.com/1", "", time.Now())

	score, err := scorer.Score(context.Background(), a)
	if err != nil {
		t.Fatalf("Unexpected scoring error: %v", err)
	}
	if score != 10 {
		t.Errorf("Expected score clamped to 10, got %d", score)
	}
}

func TestScorer_NonNumericReplyIsNeutral(t *testing.T) {
	server := chatStub(t, "I would rate this article a solid seven.", http.StatusOK)
	defer server.Close()

	scorer := NewScorer(NewClient(server.URL, "test-model", "test-key"))
	a := article.New("Title", "https://example.com/1", "", time.Now())

	score, err := scorer.Score(context.Background(), a)
	if err != nil {
		t.Fatalf("Unusable reply must not be an error, got: %v", err)
	}
	if score != NeutralScore {
		t.Errorf("Expected neutral score %d, got %d", NeutralScore, score)
	}
}

func TestScorer_APIErrorPropagates(t *testing.T) {
	server := chatStub(t, "", http.StatusInternalServerError)
	defer server.Close()

	scorer := NewScorer(NewClient(server.URL, "test-model", "test-key"))
	a := article.New("Title", "https://example.com/1", "", time.Now())

	if _, err := scorer.Score(context.Background(), a); err == nil {
		t.Error("Expected an error from a failing API")
	}
}

func TestClient_Unconfigured(t *testing.T) {
	client := NewClient("", "", "")
	if client.Configured() {
		t.Error("Empty client must not report as configured")
	}
	if _, err := client.Complete(context.Background(), "system", "user", 10, 0.1); err == nil {
		t.Error("Expected an error when completing without configuration")
	}
}
