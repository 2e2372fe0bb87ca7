package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/vercel-bot/engine/internal/api/middleware"
	"github.com/vercel-bot/engine/internal/api/types"
	"github.com/vercel-bot/engine/internal/notify"
)

const maxWebhookBody = 1 << 20

// Notifier delivers a message to the configured chat.
type Notifier interface {
	Notify(ctx context.Context, text string) error
}

// Recorder counts webhook outcomes. *middleware.Metrics satisfies it.
type Recorder interface {
	Notification(eventType, outcome string)
}

// Notification outcomes.
const (
	OutcomeSent    = "sent"
	OutcomeFailed  = "failed"
	OutcomeIgnored = "ignored"
)

type WebhookHandler struct {
	notifier Notifier
	recorder Recorder
}

func NewWebhookHandler(n Notifier, rec Recorder) *WebhookHandler {
	return &WebhookHandler{notifier: n, recorder: rec}
}

// Vercel relays deployment.ready and deployment.error deliveries to the chat.
// The response is 200 OK whatever happens so that Vercel does not retry.
func (h *WebhookHandler) Vercel(w http.ResponseWriter, r *http.Request) {
	h.relay(r)
	writeOK(w)
}

func (h *WebhookHandler) relay(r *http.Request) {
	log := middleware.Logger(r.Context())

	body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		log.Warn("webhook body unreadable", zap.Error(err))
		h.record("invalid", OutcomeIgnored)
		return
	}
	var evt types.WebhookEvent
	if err := json.Unmarshal(body, &evt); err != nil {
		log.Warn("webhook body is not a vercel event", zap.Error(err))
		h.record("invalid", OutcomeIgnored)
		return
	}

	de := evt.DeploymentEvent()
	if !de.Notable() {
		log.Debug("webhook event ignored", zap.String("type", evt.Type))
		h.record("other", OutcomeIgnored)
		return
	}

	// the delivery is answered either way; a dropped connection must not
	// abort the notification
	ctx := context.WithoutCancel(r.Context())
	if err := h.notifier.Notify(ctx, notify.DeploymentMessage(de)); err != nil {
		log.Error("webhook notification failed",
			zap.String("type", evt.Type),
			zap.String("project", de.Project),
			zap.Error(err),
		)
		h.record(evt.Type, OutcomeFailed)
		return
	}
	log.Info("webhook notification sent", zap.String("type", evt.Type), zap.String("project", de.Project))
	h.record(evt.Type, OutcomeSent)
}

func (h *WebhookHandler) record(eventType, outcome string) {
	if h.recorder != nil {
		h.recorder.Notification(eventType, outcome)
	}
}

func writeOK(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}
