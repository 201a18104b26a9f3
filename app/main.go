package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"newscourier/app/ai"
	"newscourier/app/api"
	"newscourier/app/article"
	"newscourier/app/cfg"
	"newscourier/app/fetch"
	"newscourier/app/publish"
	"newscourier/app/scheduler"
	"newscourier/app/sources"
	"newscourier/app/store"
)

func main() {
	appCfg, err := cfg.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if appCfg == nil {
		// Help was shown, exit gracefully
		return
	}

	setupLogging(appCfg.Debug)

	slog.Info("Starting News Courier", "version", appCfg.Version)

	srcs, err := sources.NewLoader(appCfg.SourcesDir).LoadAll()
	if err != nil {
		slog.Error("Failed to load feed sources", "error", err)
		os.Exit(1)
	}
	if len(srcs) == 0 {
		slog.Warn("No feed sources configured", "dir", appCfg.SourcesDir)
	}
	for _, src := range srcs {
		slog.Info("Loaded feed source", "name", src.Name, "url", src.URL, "enabled", src.Enabled)
	}

	gate := article.NewGate(appCfg.MinQualityScore)

	articleStore, err := store.NewStore(appCfg.DataDir, gate)
	if err != nil {
		slog.Error("Failed to initialize article store", "error", err)
		os.Exit(1)
	}

	httpClient := &http.Client{}
	fetcher := fetch.NewFetcher(httpClient, fetch.NewParser(), appCfg.UserAgent,
		time.Duration(appCfg.FetchTimeoutSeconds)*time.Second,
		time.Duration(appCfg.FetchWindowHours)*time.Hour)
	multiFetcher := fetch.NewMultiSourceFetcher(srcs, fetcher, appCfg.FetchWorkers)

	aiClient := ai.NewClient(appCfg.AIBaseURL, appCfg.AIModel, appCfg.AIAPIKey)
	if !aiClient.Configured() {
		slog.Warn("AI client not configured, falling back to heuristic scoring and plain summaries")
	}

	publishManager := publish.NewManager(buildPublishers(appCfg)...)
	if !publishManager.HasPublishers() {
		slog.Warn("No publishers configured, articles will accumulate unsent")
	} else {
		slog.Info("Publishers enabled", "publishers", publishManager.Names())
	}

	sendScheduler := scheduler.NewSendScheduler(articleStore, gate,
		ai.NewScorer(aiClient), ai.NewSummarizer(aiClient), publishManager,
		scheduler.Options{
			StartHour: appCfg.SendStartHour,
			EndHour:   appCfg.SendEndHour,
			Interval:  time.Duration(appCfg.SendIntervalMinutes) * time.Minute,
			MaxJitter: time.Duration(appCfg.SendMaxJitterSeconds) * time.Second,
		})

	runner := scheduler.NewRunner(multiFetcher, articleStore, sendScheduler,
		time.Duration(appCfg.CheckIntervalMinutes)*time.Minute, appCfg.RetentionDays)
	runner.Start()
	defer runner.Stop()

	handler := api.NewHandler(articleStore, multiFetcher, sendScheduler)
	server := api.NewServer(handler, appCfg.APIAccessKey)

	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("Starting HTTP server", "port", appCfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig.String())
	case err := <-serverErrChan:
		slog.Error("Server error", "error", err)
	}

	slog.Info("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	// Runner is stopped via defer
	slog.Info("Shutdown complete")
}

func setupLogging(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})))
}

func buildPublishers(appCfg *cfg.Cfg) []publish.Publisher {
	var publishers []publish.Publisher
	if appCfg.TelegramBotToken != "" && appCfg.TelegramChatID != "" {
		publishers = append(publishers, publish.NewTelegramPublisher(appCfg.TelegramBotToken, appCfg.TelegramChatID))
	}
	if appCfg.WebhookURL != "" {
		publishers = append(publishers, publish.NewWebhookPublisher(appCfg.WebhookURL))
	}
	return publishers
}
