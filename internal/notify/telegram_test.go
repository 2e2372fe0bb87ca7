package notify

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	appErr "github.com/vercel-bot/engine/pkg/errors"
)

type mockHTTPClient struct {
	mock.Mock
}

func (m *mockHTTPClient) Do(req *http.Request) (*http.Response, error) {
	args := m.Called(req)
	if v := args.Get(0); v != nil {
		return v.(*http.Response), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestSendMessagePostsJSON(t *testing.T) {
	var (
		gotPath string
		gotType string
		gotBody map[string]any
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotType = r.Header.Get("Content-Type")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_, _ = w.Write([]byte(`{"ok":true,"result":{}}`))
	}))
	defer srv.Close()

	tg, err := NewTelegram("123:abc", WithBaseURL(srv.URL))
	require.NoError(t, err)

	require.NoError(t, tg.SendMessage(context.Background(), "-100", "hello"))
	assert.Equal(t, "/bot123:abc/sendMessage", gotPath)
	assert.Equal(t, "application/json", gotType)
	assert.Equal(t, map[string]any{"chat_id": "-100", "text": "hello", "parse_mode": "Markdown"}, gotBody)
}

func TestSendMessagePlainText(t *testing.T) {
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	tg, err := NewTelegram("tok", WithBaseURL(srv.URL), WithParseMode(""))
	require.NoError(t, err)
	require.NoError(t, tg.SendMessage(context.Background(), "1", "x"))
	assert.NotContains(t, gotBody, "parse_mode")
}

func TestSendMessageRemoteFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"ok":false,"error_code":400,"description":"Bad Request: chat not found"}`))
	}))
	defer srv.Close()

	tg, err := NewTelegram("tok", WithBaseURL(srv.URL))
	require.NoError(t, err)

	err = tg.SendMessage(context.Background(), "1", "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chat not found")
	assert.Contains(t, err.Error(), "400")
	assert.True(t, appErr.IsCode(err, appErr.CodeInvalid))
}

func TestSendMessageNotOK(t *testing.T) {
	m := new(mockHTTPClient)
	m.On("Do", mock.Anything).Return(&http.Response{
		StatusCode: http.StatusOK,
		Body:       io.NopCloser(strings.NewReader(`{"ok":false,"description":"flood"}`)),
	}, nil)

	tg, err := NewTelegram("tok", WithHTTPClient(m))
	require.NoError(t, err)

	err = tg.SendMessage(context.Background(), "1", "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "flood")
	m.AssertExpectations(t)
}

func TestSendMessageTransportErrorHidesToken(t *testing.T) {
	m := new(mockHTTPClient)
	m.On("Do", mock.Anything).Return(nil, errors.New(`Post "https://api.telegram.org/botsecret-token/sendMessage": dial tcp: refused`))

	tg, err := NewTelegram("secret-token", WithHTTPClient(m))
	require.NoError(t, err)

	err = tg.SendMessage(context.Background(), "1", "x")
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "secret-token")
	assert.True(t, appErr.IsCode(err, appErr.CodeUnavailable))
}

func TestNotifyUsesDefaultChat(t *testing.T) {
	var chat any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		chat = body["chat_id"]
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	tg, err := NewTelegram("tok", WithBaseURL(srv.URL), WithDefaultChat("42"))
	require.NoError(t, err)
	require.NoError(t, tg.Notify(context.Background(), "hi"))
	assert.Equal(t, "42", chat)

	bare, err := NewTelegram("tok", WithBaseURL(srv.URL))
	require.NoError(t, err)
	assert.True(t, appErr.IsCode(bare.Notify(context.Background(), "hi"), appErr.CodeInvalid))
}

func TestNewTelegramRequiresToken(t *testing.T) {
	_, err := NewTelegram("")
	require.Error(t, err)
}

func TestDeploymentMessage(t *testing.T) {
	e := DeploymentEvent{
		Type:         EventDeploymentReady,
		Project:      "foo",
		URL:          "foo-1.vercel.app",
		InspectorURL: "https://vercel.com/acme/foo/abc",
	}
	assert.True(t, e.Notable())
	assert.Equal(t, "**Vercel Deployment Update**\n"+
		"Project: foo\n"+
		"Status: ✅ Success\n"+
		"URL: foo-1.vercel.app\n"+
		"Inspector: https://vercel.com/acme/foo/abc", DeploymentMessage(e))

	e.Type = EventDeploymentError
	assert.Contains(t, DeploymentMessage(e), "Status: ❌ Failed")

	assert.False(t, DeploymentEvent{Type: "deployment.created"}.Notable())
}
