package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/vercel-bot/engine/internal/cli"
	"github.com/vercel-bot/engine/internal/vercel"
	"github.com/vercel-bot/engine/pkg/config"
	"github.com/vercel-bot/engine/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := cli.Execute(ctx, os.Args[1:], newClient, os.Stdout, os.Stderr)
	stop()
	logger.Sync()
	os.Exit(code)
}

// newClient loads configuration only once a command actually needs the API.
func newClient(team string) (cli.Client, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if _, err := logger.InitTo(cfg.LogLevel, cfg.LogFormat, os.Stderr); err != nil {
		return nil, err
	}
	if err := cfg.RequireVercel(); err != nil {
		return nil, err
	}
	if team == "" {
		team = cfg.Vercel.TeamID
	}
	c, err := vercel.New(cfg.Vercel.Token,
		vercel.WithBaseURL(cfg.Vercel.BaseURL),
		vercel.WithTeamID(team),
		vercel.WithProjectName(cfg.Vercel.ProjectName),
		vercel.WithTimeout(cfg.RequestTimeout),
	)
	if err != nil {
		return nil, err
	}
	logger.L().Debug("vercel client configured",
		zap.String("base_url", cfg.Vercel.BaseURL),
		zap.String("team", c.TeamID()),
		zap.String("project", c.ProjectName()),
	)
	return c, nil
}
