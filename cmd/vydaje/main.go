package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"vydaje/internal/amqp"
	"vydaje/internal/config"
	"vydaje/internal/core"
	apphttp "vydaje/internal/http"
	"vydaje/internal/i18n"
	"vydaje/internal/metrics"
	"vydaje/internal/rates"
	"vydaje/internal/services"
	"vydaje/internal/store/memory"
)

func main() {
	// Setup structured logging
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	if err := i18n.Validate(); err != nil {
		logger.Error("String table validation failed", "error", err)
		os.Exit(1)
	}
	if err := core.ValidateCountries(core.Countries); err != nil {
		logger.Error("Country table validation failed", "error", err)
		os.Exit(1)
	}

	// Rate feed: CNB text format by default, JSON when configured.
	var feed rates.Feed
	switch cfg.FeedFormat {
	case config.FeedFormatJSON:
		url := cfg.FeedURL
		if url == "" {
			url = rates.DefaultJSONFeedURL
		}
		feed = rates.NewJSONFeed(url, cfg.FeedTimeout)
	default:
		url := cfg.FeedURL
		if url == "" {
			url = rates.DefaultTextFeedURL
		}
		feed = rates.NewTextFeed(url, cfg.FeedTimeout)
	}
	feed = metrics.WrapFeed(feed)

	resolver, err := rates.New(feed, rates.Options{
		HomeCurrency:        cfg.HomeCurrency,
		WalkBackLimitDays:   cfg.WalkBackLimitDays,
		CutoffPolicy:        cfg.CutoffPolicy,
		AllowLatestFallback: cfg.AllowLatestFallback,
		Proxies:             cfg.ProxyCurrencies,
	})
	if err != nil {
		logger.Error("Failed to build rate resolver", "error", err)
		os.Exit(1)
	}

	store := memory.New()

	// AMQP sync pipeline is optional; without a broker purchases stay local.
	var publisher services.SyncPublisher
	if cfg.AMQPURL != "" {
		amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", "error", err)
			os.Exit(1)
		}
		defer amqpClient.Close()
		publisher = amqpClient
		logger.Info("AMQP sync pipeline enabled", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	} else {
		logger.Info("AMQP sync pipeline disabled - no AMQP_URL provided")
	}

	svc := services.NewPurchaseService(store, resolver, publisher)
	srv := apphttp.NewServer(":"+cfg.Port, svc)

	// Configure server timeouts and limits
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	// Graceful shutdown handling
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		cancel()
	}()

	logger.Info("Starting vydaje server",
		"port", cfg.Port,
		"home_currency", cfg.HomeCurrency,
		"feed_format", cfg.FeedFormat,
		"walk_back_days", cfg.WalkBackLimitDays)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}
