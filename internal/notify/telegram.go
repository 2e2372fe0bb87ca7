// Package notify delivers text messages to Telegram chats through the Bot
// API sendMessage method.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	appErr "github.com/vercel-bot/engine/pkg/errors"
)

// DefaultBaseURL is the public Telegram Bot API endpoint.
const DefaultBaseURL = "https://api.telegram.org"

// ParseModeMarkdown is the legacy Markdown dialect used by every message
// this service sends.
const ParseModeMarkdown = "Markdown"

// HTTPClient is satisfied by *http.Client.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Telegram posts messages to the Bot API.
type Telegram struct {
	baseURL     string
	token       string
	parseMode   string
	defaultChat string
	timeout     time.Duration
	httpClient  HTTPClient
}

type Option func(*Telegram)

func WithBaseURL(base string) Option {
	return func(t *Telegram) {
		if s := strings.TrimSpace(base); s != "" {
			t.baseURL = strings.TrimRight(s, "/")
		}
	}
}

func WithHTTPClient(h HTTPClient) Option {
	return func(t *Telegram) {
		if h != nil {
			t.httpClient = h
		}
	}
}

// WithParseMode sets parse_mode on outgoing messages. Empty sends plain text.
func WithParseMode(mode string) Option {
	return func(t *Telegram) { t.parseMode = mode }
}

// WithDefaultChat sets the destination used by Notify.
func WithDefaultChat(chatID string) Option {
	return func(t *Telegram) { t.defaultChat = strings.TrimSpace(chatID) }
}

// WithTimeout bounds every request. Zero leaves requests unbounded.
func WithTimeout(d time.Duration) Option {
	return func(t *Telegram) {
		if d > 0 {
			t.timeout = d
		}
	}
}

// NewTelegram builds a notifier for the bot identified by token.
func NewTelegram(token string, opts ...Option) (*Telegram, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, appErr.New(appErr.CodeInvalid, "telegram token is required")
	}
	t := &Telegram{
		baseURL:    DefaultBaseURL,
		token:      token,
		parseMode:  ParseModeMarkdown,
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

type sendMessageRequest struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode,omitempty"`
}

type apiResponse struct {
	OK          bool   `json:"ok"`
	ErrorCode   int    `json:"error_code"`
	Description string `json:"description"`
}

// SendMessage posts text to chatID.
func (t *Telegram) SendMessage(ctx context.Context, chatID, text string) error {
	if strings.TrimSpace(chatID) == "" {
		return appErr.New(appErr.CodeInvalid, "send message: chat id is required")
	}
	if t.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}

	payload, err := json.Marshal(sendMessageRequest{ChatID: chatID, Text: text, ParseMode: t.parseMode})
	if err != nil {
		return appErr.Wrap(err, appErr.CodeInternal, "send message: encode body")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL+"/bot"+t.token+"/sendMessage", bytes.NewReader(payload))
	if err != nil {
		return appErr.Wrap(err, appErr.CodeInternal, "send message: create request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		// the request URL embeds the bot token; keep it out of the message
		return appErr.Wrap(redact(err, t.token), appErr.CodeFromContext(err), "send message")
	}
	defer resp.Body.Close()

	data, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	var parsed apiResponse
	decodeErr := json.Unmarshal(data, &parsed)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := strings.TrimSpace(string(data))
		if decodeErr == nil && parsed.Description != "" {
			msg = parsed.Description
		}
		return appErr.Newf(appErr.CodeFromHTTPStatus(resp.StatusCode), "send message: telegram returned %d: %s", resp.StatusCode, msg).
			WithMeta("status", resp.StatusCode)
	}
	if decodeErr == nil && !parsed.OK {
		return appErr.Newf(appErr.CodeUnavailable, "send message: telegram rejected message: %s", parsed.Description)
	}
	return nil
}

// Notify sends text to the default chat.
func (t *Telegram) Notify(ctx context.Context, text string) error {
	if t.defaultChat == "" {
		return appErr.New(appErr.CodeInvalid, "notify: no default chat configured")
	}
	return t.SendMessage(ctx, t.defaultChat, text)
}

type redactedError struct {
	msg string
	err error
}

func (e *redactedError) Error() string { return e.msg }
func (e *redactedError) Unwrap() error { return e.err }

func redact(err error, secret string) error {
	return &redactedError{msg: strings.ReplaceAll(err.Error(), secret, "<redacted>"), err: err}
}
