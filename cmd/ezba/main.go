package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	anthropic "github.com/anthropics/anthropic-sdk-go"

	"ezba/internal/amqp"
	"ezba/internal/backend"
	"ezba/internal/cli"
	"ezba/internal/ledger"
	"ezba/internal/nlu"
	"ezba/internal/telegram"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()
	cfg := cli.LoadAndValidateConfig(logger)

	actors, err := cfg.AllowedActors()
	if err != nil {
		logger.Error("Failed to parse allow-list", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Failed to build backend config", "error", err)
		os.Exit(1)
	}
	result, err := backend.NewFactory(logger).CreateBackend(ctx, backendCfg)
	if err != nil {
		logger.Error("Failed to initialize backend", "error", err, "backend", cfg.DataBackend)
		os.Exit(1)
	}
	if result.Cleanup != nil {
		defer func() {
			if err := result.Cleanup(); err != nil {
				logger.Error("Backend cleanup failed", "error", err)
			}
		}()
	}

	// Audit stream is optional: record flow works without it, the
	// sqlite mirror just goes stale until the next worker resync.
	var audit ledger.AuditPublisher
	if cfg.AMQPURL != "" {
		amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("Failed to initialize AMQP client, continuing without audit stream", "error", err)
		} else {
			defer amqpClient.Close()
			audit = amqpClient
			logger.Info("Audit stream enabled", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
		}
	}

	// Anthropic API key comes from ANTHROPIC_API_KEY.
	client := anthropic.NewClient()
	resolver := nlu.NewResolver(nlu.NewAnthropicClassifier(client, cfg.AnthropicModel), cfg.ResolveTimeout)

	service := ledger.NewService(resolver, result.Backend, audit, ledger.Config{
		AllowedActors: actors,
		Location:      cfg.Location(),
		StoreTimeout:  cfg.StoreTimeout,
		RecentLimit:   cfg.RecentLimit,
	})

	sender := telegram.NewSender(cfg.TelegramToken)
	srv := telegram.NewServer(":"+cfg.Port, service, sender, cfg.TelegramWebhookSecret)

	// Graceful shutdown handling
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

	logger.Info("Starting ezba bot", "port", cfg.Port, "backend", cfg.DataBackend, "model", cfg.AnthropicModel)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}
