// Package bot implements the Telegram chat commands for inspecting, triggering
// and cancelling Vercel deployments.
package bot

import (
	"context"
	"fmt"
	"runtime/debug"
	"strconv"

	"go.uber.org/zap"

	"github.com/vercel-bot/engine/internal/format"
	"github.com/vercel-bot/engine/internal/models"
	appErr "github.com/vercel-bot/engine/pkg/errors"
)

// ChatDeploymentLimit is how many deployments /deployments shows.
const ChatDeploymentLimit = 5

// API is the part of the Vercel client the chat commands use.
type API interface {
	ListDeployments(ctx context.Context, project string, limit int) ([]models.Deployment, error)
	GetDeployment(ctx context.Context, id string) (*models.Deployment, error)
	TriggerDeployment(ctx context.Context, project string) (*models.TriggeredDeployment, error)
	CancelDeployment(ctx context.Context, id string) error
}

// Sender delivers a reply to a chat.
type Sender interface {
	SendMessage(ctx context.Context, chatID, text string) error
}

// Message is an inbound chat message.
type Message struct {
	ChatID int64
	Text   string
	From   string
}

const (
	welcomeText = "👋 *Vercel Deployment Bot*\n\n" +
		"I can show, trigger and cancel deployments of your Vercel projects.\n" +
		"Send /help to see what I understand."

	helpText = "*Available commands*\n\n" +
		"/deployments \\[project] - recent deployments\n" +
		"/status <id> - status of one deployment\n" +
		"/deploy \\[project] - redeploy the latest production build\n" +
		"/cancel <id> - cancel a running deployment\n" +
		"/help - this message"

	unknownText  = "🤔 Unknown command. Send /help for the list of commands."
	panicText    = "⚠️ An unexpected error occurred. Please try again later."
	noDeployText = "No deployments found."

	undeliverableText = "❌ Error: the reply could not be displayed. Please try again later."
)

// Bot dispatches chat commands. It keeps no state between messages.
type Bot struct {
	api     API
	sender  Sender
	allowed map[int64]struct{}
	log     *zap.Logger
}

type Option func(*Bot)

// WithAllowedChats restricts the bot to the given chats. An empty list allows
// every chat.
func WithAllowedChats(ids []int64) Option {
	return func(b *Bot) {
		if len(ids) == 0 {
			b.allowed = nil
			return
		}
		b.allowed = make(map[int64]struct{}, len(ids))
		for _, id := range ids {
			b.allowed[id] = struct{}{}
		}
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(b *Bot) {
		if l != nil {
			b.log = l
		}
	}
}

func New(api API, sender Sender, opts ...Option) *Bot {
	b := &Bot{api: api, sender: sender, log: zap.NewNop()}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Handle processes one message. Failures are reported to the chat, never
// returned, and a panicking command is answered with a generic notice.
func (b *Bot) Handle(ctx context.Context, msg Message) {
	cmd, ok := ParseCommand(msg.Text)
	if !ok {
		return
	}
	if !b.chatAllowed(msg.ChatID) {
		b.log.Warn("message from chat outside allow-list ignored",
			zap.Int64("chat_id", msg.ChatID),
			zap.String("from", msg.From),
			zap.String("command", cmd.Name),
		)
		return
	}

	defer func() {
		if rec := recover(); rec != nil {
			b.log.Error("panic in chat command",
				zap.String("command", cmd.Name),
				zap.Any("panic", rec),
				zap.ByteString("stack", debug.Stack()),
			)
			b.reply(ctx, msg.ChatID, panicText)
		}
	}()

	b.log.Debug("chat command", zap.String("command", cmd.Name), zap.Int64("chat_id", msg.ChatID), zap.String("from", msg.From))

	switch cmd.Name {
	case "start":
		b.reply(ctx, msg.ChatID, welcomeText)
	case "help":
		b.reply(ctx, msg.ChatID, helpText)
	case "deployments":
		b.deployments(ctx, msg.ChatID, cmd.Arg)
	case "status":
		b.status(ctx, msg.ChatID, cmd.Arg)
	case "deploy":
		b.deploy(ctx, msg.ChatID, cmd.Arg)
	case "cancel":
		b.cancel(ctx, msg.ChatID, cmd.Arg)
	default:
		b.reply(ctx, msg.ChatID, unknownText)
	}
}

func (b *Bot) deployments(ctx context.Context, chatID int64, project string) {
	b.reply(ctx, chatID, "🔍 Fetching deployments...")
	ds, err := b.api.ListDeployments(ctx, project, ChatDeploymentLimit)
	if err != nil {
		b.replyError(ctx, chatID, err)
		return
	}
	if len(ds) == 0 {
		b.reply(ctx, chatID, noDeployText)
		return
	}
	b.reply(ctx, chatID, format.DeploymentList(ds))
}

func (b *Bot) status(ctx context.Context, chatID int64, id string) {
	if id == "" {
		b.reply(ctx, chatID, "Usage: /status <deployment-id>")
		return
	}
	b.reply(ctx, chatID, "🔍 Fetching deployment status...")
	d, err := b.api.GetDeployment(ctx, id)
	if err != nil {
		b.replyError(ctx, chatID, err)
		return
	}
	if !d.State.Known() {
		b.log.Info("deployment in undocumented state", zap.String("deployment", d.UID), zap.String("state", string(d.State)))
	}
	b.reply(ctx, chatID, format.DeploymentDetails(*d))
}

func (b *Bot) deploy(ctx context.Context, chatID int64, project string) {
	b.reply(ctx, chatID, "🚀 Triggering deployment...")
	res, err := b.api.TriggerDeployment(ctx, project)
	if err != nil {
		b.replyError(ctx, chatID, err)
		return
	}
	b.reply(ctx, chatID, fmt.Sprintf("✅ Deployment triggered!\n🆔 `%s`\n🔗 https://%s", res.UID, res.URL))
}

func (b *Bot) cancel(ctx context.Context, chatID int64, id string) {
	if id == "" {
		b.reply(ctx, chatID, "Usage: /cancel <deployment-id>")
		return
	}
	b.reply(ctx, chatID, "⏹ Cancelling deployment...")
	if err := b.api.CancelDeployment(ctx, id); err != nil {
		b.replyError(ctx, chatID, err)
		return
	}
	b.reply(ctx, chatID, fmt.Sprintf("🚫 Deployment `%s` canceled.", id))
}

func (b *Bot) chatAllowed(id int64) bool {
	if b.allowed == nil {
		return true
	}
	_, ok := b.allowed[id]
	return ok
}

func (b *Bot) replyError(ctx context.Context, chatID int64, err error) {
	b.log.Warn("chat command failed", zap.Int64("chat_id", chatID), zap.Error(err))
	b.reply(ctx, chatID, "❌ Error: "+format.EscapeMarkdown(err.Error()))
}

// reply sends text. When Telegram refuses the message itself (bad Markdown,
// oversized text) the chat still gets a short notice instead of silence.
func (b *Bot) reply(ctx context.Context, chatID int64, text string) {
	chat := strconv.FormatInt(chatID, 10)
	err := b.sender.SendMessage(ctx, chat, text)
	if err == nil {
		return
	}
	b.log.Error("failed to send chat reply", zap.Int64("chat_id", chatID), zap.Error(err))
	if !appErr.IsCode(err, appErr.CodeInvalid) {
		return
	}
	if err := b.sender.SendMessage(ctx, chat, undeliverableText); err != nil {
		b.log.Error("failed to send fallback notice", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}
