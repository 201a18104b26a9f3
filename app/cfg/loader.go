package cfg

import (
	"cmp"
	"fmt"
	"time"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Application configuration
	SourcesDir   string `long:"sources-dir" env:"SOURCES_DIR" default:"./sources" description:"Directory containing feed source configuration files"`
	DataDir      string `long:"data-dir" env:"DATA_DIR" default:"./data" description:"Directory for the date-sharded article cache"`
	Port         string `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`
	APIAccessKey string `long:"api-key" env:"API_ACCESS_KEY" description:"API access key for authentication (optional)"`

	// Fetch configuration
	CheckIntervalMinutes int `long:"check-interval" env:"CHECK_INTERVAL_MINUTES" default:"30" description:"Feed check interval in minutes"`
	FetchWindowHours     int `long:"fetch-window" env:"FETCH_WINDOW_HOURS" default:"6" description:"Only ingest articles published within this many hours"`
	FetchWorkers         int `long:"fetch-workers" env:"FETCH_WORKERS" default:"3" description:"Number of concurrent feed fetch workers"`
	FetchTimeoutSeconds  int `long:"fetch-timeout" env:"FETCH_TIMEOUT_SECONDS" default:"30" description:"Per-source fetch timeout in seconds"`

	// Send configuration
	MinQualityScore      int `long:"min-quality-score" env:"MIN_QUALITY_SCORE" default:"7" description:"Minimum quality score (0-10) required for sending"`
	SendStartHour        int `long:"send-start-hour" env:"SEND_START_HOUR" default:"9" description:"Start of the daily send window (24h clock)"`
	SendEndHour          int `long:"send-end-hour" env:"SEND_END_HOUR" default:"24" description:"End of the daily send window (24h clock, 24 or 0 means midnight)"`
	SendIntervalMinutes  int `long:"send-interval" env:"SEND_INTERVAL_MINUTES" default:"30" description:"Minimum interval between sends in minutes"`
	SendMaxJitterSeconds int `long:"send-max-jitter" env:"SEND_RANDOM_DELAY_MAX_SECONDS" default:"15" description:"Maximum random delay added to the next send time in seconds"`
	RetentionDays        int `long:"retention-days" env:"RETENTION_DAYS" default:"7" description:"Days to keep article cache shards before eviction"`

	// AI configuration
	AIAPIKey  string `long:"ai-api-key" env:"AI_API_KEY" description:"API key for the OpenAI-compatible scoring/summarization service"`
	AIBaseURL string `long:"ai-base-url" env:"AI_BASE_URL" default:"https://api.openai.com/v1" description:"Base URL of the OpenAI-compatible API"`
	AIModel   string `long:"ai-model" env:"AI_MODEL" default:"gpt-4o-mini" description:"Model used for scoring and summarization"`

	// Publisher configuration
	TelegramBotToken string `long:"telegram-bot-token" env:"TELEGRAM_BOT_TOKEN" description:"Telegram bot token (enables the Telegram publisher)"`
	TelegramChatID   string `long:"telegram-chat-id" env:"TELEGRAM_CHAT_ID" description:"Telegram chat identifier"`
	WebhookURL       string `long:"webhook-url" env:"WEBHOOK_URL" description:"Webhook endpoint (enables the webhook publisher)"`

	// Application metadata
	UserAgent string `long:"user-agent" env:"USER_AGENT" default:"NewsCourier/1.0" description:"User agent string for HTTP requests"`
	Timezone  string `long:"timezone" env:"TZ" default:"UTC" description:"Timezone for timestamps and the send window (e.g., UTC, America/New_York)"`
	Debug     bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

func Load() (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := &Cfg{
		SourcesDir:           raw.SourcesDir,
		DataDir:              raw.DataDir,
		Port:                 raw.Port,
		APIAccessKey:         raw.APIAccessKey,
		CheckIntervalMinutes: raw.CheckIntervalMinutes,
		FetchWindowHours:     raw.FetchWindowHours,
		FetchWorkers:         raw.FetchWorkers,
		FetchTimeoutSeconds:  raw.FetchTimeoutSeconds,
		MinQualityScore:      raw.MinQualityScore,
		SendStartHour:        raw.SendStartHour,
		SendEndHour:          raw.SendEndHour,
		SendIntervalMinutes:  raw.SendIntervalMinutes,
		SendMaxJitterSeconds: raw.SendMaxJitterSeconds,
		RetentionDays:        raw.RetentionDays,
		AIAPIKey:             raw.AIAPIKey,
		AIBaseURL:            raw.AIBaseURL,
		AIModel:              raw.AIModel,
		TelegramBotToken:     raw.TelegramBotToken,
		TelegramChatID:       raw.TelegramChatID,
		WebhookURL:           raw.WebhookURL,
		UserAgent:            raw.UserAgent,
		Timezone:             raw.Timezone,
		Debug:                raw.Debug,
		Version:              GetVersion(),
	}

	if err := applyTimezone(cfg.Timezone); err != nil {
		fmt.Printf("Warning: Invalid timezone '%s', using system default: %v\n", cfg.Timezone, err)
	}

	return cfg, nil
}

func applyTimezone(timezone string) error {
	if timezone != "" {
		if loc, err := time.LoadLocation(timezone); err != nil {
			return err
		} else {
			time.Local = loc
		}
	}
	return nil
}
