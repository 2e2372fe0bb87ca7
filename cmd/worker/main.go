package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/vercel-bot/engine/internal/bot"
	"github.com/vercel-bot/engine/internal/notify"
	"github.com/vercel-bot/engine/internal/vercel"
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

	if err := cfg.RequireVercel(); err != nil {
		log.Fatal("invalid configuration", zap.Error(err))
	}
	if err := cfg.RequireTelegram(false); err != nil {
		log.Fatal("invalid configuration", zap.Error(err))
	}
	allowed, err := cfg.AllowedChatIDs()
	if err != nil {
		log.Fatal("invalid configuration", zap.Error(err))
	}

	client, err := vercel.New(cfg.Vercel.Token,
		vercel.WithBaseURL(cfg.Vercel.BaseURL),
		vercel.WithTeamID(cfg.Vercel.TeamID),
		vercel.WithProjectName(cfg.Vercel.ProjectName),
		vercel.WithTimeout(cfg.RequestTimeout),
	)
	if err != nil {
		log.Fatal("failed to create vercel client", zap.Error(err))
	}
	log.Info("vercel client configured",
		zap.String("team", client.TeamID()),
		zap.String("default_project", client.ProjectName()),
	)

	replies, err := notify.NewTelegram(cfg.Telegram.Token,
		notify.WithBaseURL(cfg.Telegram.BaseURL),
		notify.WithTimeout(cfg.RequestTimeout),
	)
	if err != nil {
		log.Fatal("failed to create telegram sender", zap.Error(err))
	}

	// long polling holds the request open, so this client carries no timeout
	api, err := tgbotapi.NewBotAPIWithClient(cfg.Telegram.Token, cfg.Telegram.BaseURL+"/bot%s/%s", &http.Client{})
	if err != nil {
		log.Fatal("telegram authentication failed", zap.Error(err))
	}
	log.Info("telegram bot authorized", zap.String("username", api.Self.UserName))

	b := bot.New(client, replies,
		bot.WithAllowedChats(allowed),
		bot.WithLogger(log.Named("bot")),
	)
	poller := bot.NewPoller(api, b, cfg.BotConcurrency, log.Named("poller"))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		errCh <- poller.Run(ctx)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info("shutdown signal received", zap.String("signal", sig.String()))
		cancel()
		if err := <-errCh; err != nil {
			log.Error("poller stopped with error", zap.Error(err))
		}
	case err := <-errCh:
		if err != nil {
			log.Error("poller stopped with error", zap.Error(err))
		}
	}
	log.Info("worker exited")
}
