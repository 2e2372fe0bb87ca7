package bot

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/vercel-bot/engine/internal/models"
)

type fakeSource struct {
	ch      chan tgbotapi.Update
	stopped atomic.Bool
	timeout int
}

func newFakeSource() *fakeSource {
	return &fakeSource{ch: make(chan tgbotapi.Update, 16)}
}

func (f *fakeSource) GetUpdatesChan(cfg tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel {
	f.timeout = cfg.Timeout
	return f.ch
}

func (f *fakeSource) StopReceivingUpdates() { f.stopped.Store(true) }

func textUpdate(chatID int64, text string) tgbotapi.Update {
	return tgbotapi.Update{Message: &tgbotapi.Message{
		Text: text,
		Chat: &tgbotapi.Chat{ID: chatID},
		From: &tgbotapi.User{UserName: "dev"},
	}}
}

func TestPollerHandlesUpdatesUntilChannelCloses(t *testing.T) {
	b, _, sender := newTestBot()
	src := newFakeSource()
	src.ch <- textUpdate(1, "/help")
	src.ch <- tgbotapi.Update{}
	src.ch <- textUpdate(2, "/start")
	close(src.ch)

	p := NewPoller(src, b, 2, nil)
	require.NoError(t, p.Run(context.Background()))

	assert.Len(t, sender.texts(), 2)
	assert.Equal(t, 30, src.timeout)
}

func TestPollerDrainsInFlightOnShutdown(t *testing.T) {
	b, api, sender := newTestBot()
	release := make(chan struct{})
	started := make(chan struct{})
	api.On("GetDeployment", mock.Anything, "slow").Run(func(mock.Arguments) {
		close(started)
		<-release
	}).Return(&models.Deployment{UID: "slow", State: models.StateReady}, nil)

	src := newFakeSource()
	src.ch <- textUpdate(1, "/status slow")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- NewPoller(src, b, 1, nil).Run(ctx) }()

	<-started
	cancel()

	select {
	case <-done:
		t.Fatal("poller returned before the in-flight command finished")
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("poller did not return after the command finished")
	}

	assert.True(t, src.stopped.Load())
	texts := sender.texts()
	require.Len(t, texts, 2)
	assert.Contains(t, texts[1], "✅ *READY*")
}

func TestMessageFromSkipsNonText(t *testing.T) {
	_, ok := messageFrom(tgbotapi.Update{})
	assert.False(t, ok)

	_, ok = messageFrom(tgbotapi.Update{Message: &tgbotapi.Message{Chat: &tgbotapi.Chat{ID: 1}}})
	assert.False(t, ok)

	msg, ok := messageFrom(textUpdate(5, "/help"))
	require.True(t, ok)
	assert.Equal(t, Message{ChatID: 5, Text: "/help", From: "dev"}, msg)
}
