// Package main is the entry point for the bakery storefront server.
// It loads configuration, picks the row-store backend and mail channel,
// sets up routing, and starts the HTTP server with graceful shutdown.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"bakehouse/internal/config"
	"bakehouse/internal/handlers"
	"bakehouse/internal/notify"
	"bakehouse/internal/order"
	"bakehouse/internal/render"
	"bakehouse/internal/router"
	"bakehouse/internal/rowstore"
	"bakehouse/internal/settings"
	"bakehouse/internal/subscribers"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
		"rowstore", cfg.RowStoreDriver,
	)

	// Pick the row-store backend.
	var store rowstore.Store
	switch cfg.RowStoreDriver {
	case "sheets":
		ctx, cancel := context.WithTimeout(context.Background(), cfg.RowStoreTimeout)
		store, err = rowstore.NewSheets(ctx, []byte(cfg.GoogleCredentials), cfg.SheetID)
		cancel()
		if err != nil {
			slog.Error("failed to connect to google sheets", "error", err)
			os.Exit(1)
		}
	case "postgres":
		db, err := rowstore.Connect(cfg.DSN())
		if err != nil {
			slog.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		if err := rowstore.Migrate(db); err != nil {
			slog.Error("failed to run migrations", "error", err)
			os.Exit(1)
		}
		store = rowstore.NewPostgres(db)
	default:
		slog.Warn("using in-memory row store — all data is lost on restart")
		store = rowstore.NewMemory()
	}

	// A hung backend must not wedge request handlers.
	store = rowstore.WithTimeout(store, cfg.RowStoreTimeout)

	// Redis serializes concurrent subscribe calls across instances.
	// Without it, a per-process lock still covers the single-instance case.
	var locker subscribers.Locker = subscribers.NewLocalLocker()
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		defer client.Close()
		if err := client.Ping(context.Background()).Err(); err != nil {
			slog.Error("failed to connect to redis", "error", err)
			os.Exit(1)
		}
		locker = subscribers.NewRedisLocker(client)
		slog.Info("redis connected", "addr", cfg.RedisAddr)
	}

	// Pick the outbound mail channel.
	var channel notify.Channel
	switch cfg.MailChannel {
	case "api":
		channel = notify.NewAPIChannel(cfg.MailAPIBaseURL, cfg.MailAPIKey, cfg.MailFrom)
	case "smtp":
		channel = notify.NewSMTPChannel(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.MailFrom)
	default:
		slog.Warn("no mail channel configured — messages will be logged, not sent")
		channel = notify.LogChannel{}
	}

	dispatcher, err := notify.NewDispatcher(channel, cfg.MailFrom)
	if err != nil {
		slog.Error("failed to initialize mail dispatcher", "error", err)
		os.Exit(1)
	}

	renderer, err := render.New()
	if err != nil {
		slog.Error("failed to initialize template renderer", "error", err)
		os.Exit(1)
	}

	resolver := settings.NewResolver(store)
	signer := subscribers.NewTokenSigner(cfg.UnsubscribeSecret)
	registry := subscribers.NewRegistry(store, locker, dispatcher, signer, cfg.BaseURL)
	orders := order.NewService(store, resolver, registry, dispatcher, cfg.BakeDateFormats)

	public := handlers.NewPublic(store, resolver, orders, registry, renderer, cfg.BakeDateFormats)
	r := router.New(public)

	// WriteTimeout covers a Sheets round-trip plus a synchronous mail send.
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}
