package bot

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// UpdateSource is satisfied by *tgbotapi.BotAPI.
type UpdateSource interface {
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// Poller feeds long-polled Telegram updates to a Bot.
type Poller struct {
	source      UpdateSource
	bot         *Bot
	concurrency int
	pollTimeout int
	log         *zap.Logger
}

func NewPoller(source UpdateSource, b *Bot, concurrency int, log *zap.Logger) *Poller {
	if concurrency < 1 {
		concurrency = 1
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Poller{source: source, bot: b, concurrency: concurrency, pollTimeout: 30, log: log}
}

// Run handles updates until ctx is cancelled or the update channel closes.
// Commands already started are allowed to finish before Run returns.
func (p *Poller) Run(ctx context.Context) error {
	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = p.pollTimeout
	updates := p.source.GetUpdatesChan(cfg)

	// in-flight commands outlive the poll loop
	handlerCtx := context.WithoutCancel(ctx)

	var g errgroup.Group
	g.SetLimit(p.concurrency)

	p.log.Info("telegram poller started", zap.Int("concurrency", p.concurrency))
	for {
		select {
		case <-ctx.Done():
			p.source.StopReceivingUpdates()
			p.log.Info("telegram poller stopping, waiting for in-flight commands")
			return g.Wait()
		case upd, ok := <-updates:
			if !ok {
				return g.Wait()
			}
			msg, ok := messageFrom(upd)
			if !ok {
				continue
			}
			g.Go(func() error {
				p.bot.Handle(handlerCtx, msg)
				return nil
			})
		}
	}
}

func messageFrom(upd tgbotapi.Update) (Message, bool) {
	m := upd.Message
	if m == nil || m.Chat == nil || m.Text == "" {
		return Message{}, false
	}
	msg := Message{ChatID: m.Chat.ID, Text: m.Text}
	if m.From != nil {
		msg.From = m.From.UserName
	}
	return msg, true
}
