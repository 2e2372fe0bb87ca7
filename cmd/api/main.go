package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/vercel-bot/engine/internal/api"
	"github.com/vercel-bot/engine/internal/api/handlers"
	mw "github.com/vercel-bot/engine/internal/api/middleware"
	"github.com/vercel-bot/engine/internal/notify"
	"github.com/vercel-bot/engine/pkg/config"
	"github.com/vercel-bot/engine/pkg/logger"
)

func main() {
	cfg := config.MustLoad()

	log, err := logger.Init(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	if err := cfg.RequireTelegram(true); err != nil {
		log.Fatal("invalid configuration", zap.Error(err))
	}

	log.Info("Starting vercel-bot webhook receiver",
		zap.String("env", cfg.AppEnv),
		zap.String("addr", cfg.HTTPAddr),
		zap.Bool("signature_check", cfg.WebhookSecret != ""),
	)

	notifier, err := notify.NewTelegram(cfg.Telegram.Token,
		notify.WithBaseURL(cfg.Telegram.BaseURL),
		notify.WithDefaultChat(cfg.Telegram.ChatID),
		notify.WithTimeout(cfg.RequestTimeout),
	)
	if err != nil {
		log.Fatal("failed to create telegram notifier", zap.Error(err))
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	limiter := mw.NewRateLimiter(10, 20)
	go limiter.RunSweeper(ctx, 5*time.Minute)

	health := handlers.NewHealthHandler()
	router := api.NewRouter(api.Dependencies{
		Notifier:      notifier,
		WebhookSecret: []byte(cfg.WebhookSecret),
		Health:        health,
		RateLimiter:   limiter,
		Registry:      reg,
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       90 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("HTTP server starting", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info("shutdown signal received", zap.String("signal", sig.String()))
	case err := <-errCh:
		log.Error("server error", zap.Error(err))
	}

	health.SetReady(false)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown error", zap.Error(err))
	} else {
		log.Info("server exited gracefully")
	}
}
