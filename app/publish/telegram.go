package publish

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const telegramAPIBase = "https://api.telegram.org"

// TelegramPublisher posts messages to a Telegram chat via the bot API.
// Messages with a cover image go through sendPhoto with the text as the
// caption, plain messages through sendMessage.
type TelegramPublisher struct {
	botToken string
	chatID   string
	apiBase  string
	client   *http.Client
}

var _ Publisher = (*TelegramPublisher)(nil)

func NewTelegramPublisher(botToken, chatID string) *TelegramPublisher {
	return &TelegramPublisher{
		botToken: botToken,
		chatID:   chatID,
		apiBase:  telegramAPIBase,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

func (t *TelegramPublisher) Name() string {
	return "telegram"
}

func (t *TelegramPublisher) Send(ctx context.Context, msg Message) error {
	if t.botToken == "" || t.chatID == "" {
		return fmt.Errorf("telegram publisher misconfigured")
	}

	text := msg.Body
	if msg.Title != "" && !strings.HasPrefix(text, msg.Title) {
		text = msg.Title + "\n\n" + text
	}

	method := "sendMessage"
	form := url.Values{}
	form.Set("chat_id", t.chatID)
	if msg.ImageURL != "" {
		method = "sendPhoto"
		form.Set("photo", msg.ImageURL)
		form.Set("caption", text)
	} else {
		form.Set("text", text)
	}

	endpoint := fmt.Sprintf("%s/bot%s/%s", t.apiBase, t.botToken, method)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("telegram error: %s", resp.Status)
	}

	return nil
}
