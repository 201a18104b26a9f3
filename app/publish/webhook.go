package publish

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// WebhookPublisher POSTs the message as JSON to a configured endpoint.
type WebhookPublisher struct {
	endpoint string
	client   *http.Client
}

var _ Publisher = (*WebhookPublisher)(nil)

func NewWebhookPublisher(endpoint string) *WebhookPublisher {
	return &WebhookPublisher{
		endpoint: endpoint,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

func (w *WebhookPublisher) Name() string {
	return "webhook"
}

func (w *WebhookPublisher) Send(ctx context.Context, msg Message) error {
	if w.endpoint == "" {
		return fmt.Errorf("webhook publisher misconfigured")
	}

	body, err := json.Marshal(map[string]string{
		"title":     msg.Title,
		"body":      msg.Body,
		"image_url": msg.ImageURL,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to post message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("webhook error: %s", resp.Status)
	}

	return nil
}
