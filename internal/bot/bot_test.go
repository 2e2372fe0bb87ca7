package bot

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/vercel-bot/engine/internal/models"
	appErr "github.com/vercel-bot/engine/pkg/errors"
)

type mockAPI struct {
	mock.Mock
}

func (m *mockAPI) ListDeployments(ctx context.Context, project string, limit int) ([]models.Deployment, error) {
	args := m.Called(ctx, project, limit)
	if v := args.Get(0); v != nil {
		return v.([]models.Deployment), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAPI) GetDeployment(ctx context.Context, id string) (*models.Deployment, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.(*models.Deployment), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAPI) TriggerDeployment(ctx context.Context, project string) (*models.TriggeredDeployment, error) {
	args := m.Called(ctx, project)
	if v := args.Get(0); v != nil {
		return v.(*models.TriggeredDeployment), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAPI) CancelDeployment(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// recordingSender keeps every reply in order.
type recordingSender struct {
	mu      sync.Mutex
	replies []sentMessage
	err     error
	reject  func(text string) error
}

type sentMessage struct {
	ChatID string
	Text   string
}

func (s *recordingSender) SendMessage(_ context.Context, chatID, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.replies = append(s.replies, sentMessage{ChatID: chatID, Text: text})
	if s.reject != nil {
		return s.reject(text)
	}
	return s.err
}

func (s *recordingSender) texts() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.replies))
	for _, r := range s.replies {
		out = append(out, r.Text)
	}
	return out
}

func newTestBot(opts ...Option) (*Bot, *mockAPI, *recordingSender) {
	api := new(mockAPI)
	sender := &recordingSender{}
	return New(api, sender, opts...), api, sender
}

func TestParseCommand(t *testing.T) {
	cases := []struct {
		in   string
		want Command
		ok   bool
	}{
		{"/status dpl_1", Command{Name: "status", Arg: "dpl_1"}, true},
		{"/status@VercelBot dpl_1 extra words", Command{Name: "status", Arg: "dpl_1"}, true},
		{"  /deploy  ", Command{Name: "deploy"}, true},
		{"/HELP", Command{Name: "help"}, true},
		{"hello there", Command{}, false},
		{"", Command{}, false},
		{"/", Command{}, false},
		{"/@bot", Command{}, false},
	}
	for _, tc := range cases {
		got, ok := ParseCommand(tc.in)
		assert.Equal(t, tc.ok, ok, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}
}

func TestStartAndHelp(t *testing.T) {
	b, _, sender := newTestBot()

	b.Handle(context.Background(), Message{ChatID: 7, Text: "/start"})
	b.Handle(context.Background(), Message{ChatID: 7, Text: "/help@VercelBot"})

	texts := sender.texts()
	require.Len(t, texts, 2)
	assert.Contains(t, texts[0], "Vercel Deployment Bot")
	for _, cmd := range []string{"/deployments", "/status", "/deploy", "/cancel"} {
		assert.Contains(t, texts[1], cmd)
	}
	assert.Equal(t, "7", sender.replies[0].ChatID)
}

func TestNonCommandTextIsIgnored(t *testing.T) {
	b, api, sender := newTestBot()
	b.Handle(context.Background(), Message{ChatID: 1, Text: "just chatting"})
	assert.Empty(t, sender.texts())
	api.AssertExpectations(t)
}

func TestUnknownCommand(t *testing.T) {
	b, _, sender := newTestBot()
	b.Handle(context.Background(), Message{ChatID: 1, Text: "/frobnicate"})
	require.Len(t, sender.texts(), 1)
	assert.Contains(t, sender.texts()[0], "/help")
}

func TestStatusAcknowledgesThenReplies(t *testing.T) {
	b, api, sender := newTestBot()
	api.On("GetDeployment", mock.Anything, "dpl_1").Return(&models.Deployment{
		UID: "dpl_1", Name: "web", URL: "web.vercel.app", State: models.StateBuilding,
	}, nil)

	b.Handle(context.Background(), Message{ChatID: 1, Text: "/status dpl_1"})

	texts := sender.texts()
	require.Len(t, texts, 2)
	assert.Contains(t, texts[0], "Fetching")
	assert.True(t, strings.HasPrefix(texts[1], "🔨 *BUILDING*"))
	api.AssertExpectations(t)
}

func TestStatusWithoutArgument(t *testing.T) {
	b, api, sender := newTestBot()
	b.Handle(context.Background(), Message{ChatID: 1, Text: "/status"})
	require.Len(t, sender.texts(), 1)
	assert.Contains(t, sender.texts()[0], "Usage: /status")
	api.AssertNotCalled(t, "GetDeployment", mock.Anything, mock.Anything)
}

func TestDeploymentsListsResults(t *testing.T) {
	b, api, sender := newTestBot()
	api.On("ListDeployments", mock.Anything, "web", ChatDeploymentLimit).Return([]models.Deployment{
		{UID: "a", State: models.StateReady},
		{UID: "b", State: models.StateError},
	}, nil)

	b.Handle(context.Background(), Message{ChatID: 1, Text: "/deployments web"})

	texts := sender.texts()
	require.Len(t, texts, 2)
	assert.Contains(t, texts[1], "✅ *READY*")
	assert.Contains(t, texts[1], "❌ *ERROR*")
}

func TestDeploymentsEmpty(t *testing.T) {
	b, api, sender := newTestBot()
	api.On("ListDeployments", mock.Anything, "", ChatDeploymentLimit).Return([]models.Deployment{}, nil)

	b.Handle(context.Background(), Message{ChatID: 1, Text: "/deployments"})
	texts := sender.texts()
	require.Len(t, texts, 2)
	assert.Equal(t, noDeployText, texts[1])
}

func TestDeployReportsNewDeployment(t *testing.T) {
	b, api, sender := newTestBot()
	api.On("TriggerDeployment", mock.Anything, "").Return(&models.TriggeredDeployment{UID: "dpl_new", URL: "web-new.vercel.app"}, nil)

	b.Handle(context.Background(), Message{ChatID: 1, Text: "/deploy"})

	texts := sender.texts()
	require.Len(t, texts, 2)
	assert.Contains(t, texts[0], "Triggering")
	assert.Contains(t, texts[1], "dpl_new")
	assert.Contains(t, texts[1], "https://web-new.vercel.app")
}

func TestErrorsAreRepliedAndSessionContinues(t *testing.T) {
	b, api, sender := newTestBot()
	api.On("CancelDeployment", mock.Anything, "dpl_1").
		Return(appErr.New(appErr.CodeNotFound, "deployment not_found")).Once()
	api.On("CancelDeployment", mock.Anything, "dpl_2").Return(nil).Once()

	b.Handle(context.Background(), Message{ChatID: 1, Text: "/cancel dpl_1"})
	b.Handle(context.Background(), Message{ChatID: 1, Text: "/cancel dpl_2"})

	texts := sender.texts()
	require.Len(t, texts, 4)
	assert.True(t, strings.HasPrefix(texts[1], "❌ Error: "))
	assert.Contains(t, texts[1], `deployment not\_found`)
	assert.Contains(t, texts[3], "dpl_2")
	api.AssertExpectations(t)
}

func TestPanicIsRecovered(t *testing.T) {
	b, api, sender := newTestBot()
	api.On("GetDeployment", mock.Anything, "boom").Run(func(mock.Arguments) {
		panic("kaboom")
	}).Return(nil, nil)

	require.NotPanics(t, func() {
		b.Handle(context.Background(), Message{ChatID: 1, Text: "/status boom"})
	})
	texts := sender.texts()
	require.Len(t, texts, 2)
	assert.Equal(t, panicText, texts[1])
}

func TestAllowList(t *testing.T) {
	b, _, sender := newTestBot(WithAllowedChats([]int64{10}))

	b.Handle(context.Background(), Message{ChatID: 99, Text: "/help"})
	assert.Empty(t, sender.texts())

	b.Handle(context.Background(), Message{ChatID: 10, Text: "/help"})
	assert.Len(t, sender.texts(), 1)
}

func TestSendFailureDoesNotStopCommand(t *testing.T) {
	b, api, sender := newTestBot()
	sender.err = errors.New("telegram down")
	api.On("TriggerDeployment", mock.Anything, "web").Return(&models.TriggeredDeployment{UID: "x"}, nil)

	b.Handle(context.Background(), Message{ChatID: 1, Text: "/deploy web"})
	assert.Len(t, sender.texts(), 2)
	api.AssertExpectations(t)
}

func TestRejectedResultIsFollowedByNotice(t *testing.T) {
	b, api, sender := newTestBot()
	sender.reject = func(text string) error {
		if strings.Contains(text, "*READY*") {
			return appErr.New(appErr.CodeInvalid, "telegram returned 400: Bad Request: can't parse entities")
		}
		return nil
	}
	api.On("ListDeployments", mock.Anything, "web", ChatDeploymentLimit).
		Return([]models.Deployment{{UID: "a", State: models.StateReady}}, nil)

	b.Handle(context.Background(), Message{ChatID: 1, Text: "/deployments web"})

	texts := sender.texts()
	require.Len(t, texts, 3)
	assert.Contains(t, texts[1], "*READY*")
	assert.Equal(t, undeliverableText, texts[2])
}

func TestStatusShowsDetailsAndLogsUnknownState(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	b, api, sender := newTestBot(WithLogger(zap.New(core)))
	api.On("GetDeployment", mock.Anything, "dpl_1").Return(&models.Deployment{
		UID:          "dpl_1",
		State:        "PAUSED",
		InspectorURL: "https://vercel.com/acme/web/dpl_1",
	}, nil)

	b.Handle(context.Background(), Message{ChatID: 1, Text: "/status dpl_1"})

	texts := sender.texts()
	require.Len(t, texts, 2)
	assert.Contains(t, texts[1], "❓ *PAUSED*")
	assert.Contains(t, texts[1], "[Inspector](https://vercel.com/acme/web/dpl_1)")

	entries := logs.FilterMessage("deployment in undocumented state").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "PAUSED", entries[0].ContextMap()["state"])
}
