package vercel

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	appErr "github.com/vercel-bot/engine/pkg/errors"
)

// DefaultBaseURL is the public Vercel REST endpoint.
const DefaultBaseURL = "https://api.vercel.com"

const maxResponseBytes = 4 << 20

// Client provides typed access to the Vercel REST API.
type Client struct {
	baseURL     string
	token       string
	teamID      string
	projectName string
	timeout     time.Duration
	httpClient  *http.Client
}

// Option customises client instantiation.
type Option func(*Client)

// WithBaseURL points the client at another API host (tests, proxies).
func WithBaseURL(base string) Option {
	return func(c *Client) {
		if s := strings.TrimSpace(base); s != "" {
			c.baseURL = strings.TrimRight(s, "/")
		}
	}
}

// WithTeamID scopes every request to a team.
func WithTeamID(teamID string) Option {
	return func(c *Client) { c.teamID = strings.TrimSpace(teamID) }
}

// WithProjectName sets the project used when an operation is not given one.
func WithProjectName(name string) Option {
	return func(c *Client) { c.projectName = strings.TrimSpace(name) }
}

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.httpClient = h
		}
	}
}

// WithTimeout bounds every request. Zero leaves requests unbounded.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// New constructs a Client authenticated with token.
func New(token string, opts ...Option) (*Client, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, appErr.New(appErr.CodeInvalid, "vercel token is required")
	}
	c := &Client{
		baseURL:    DefaultBaseURL,
		token:      token,
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	if _, err := url.ParseRequestURI(c.baseURL); err != nil {
		return nil, appErr.Wrap(err, appErr.CodeInvalid, "invalid vercel api base url")
	}
	return c, nil
}

// ProjectName returns the default project configured at construction.
func (c *Client) ProjectName() string { return c.projectName }

// TeamID returns the team scope configured at construction.
func (c *Client) TeamID() string { return c.teamID }

// do performs one request. Any failure comes back as an AppError wrapping a
// *RequestError; op names the operation for the message.
func (c *Client) do(ctx context.Context, op, method, path string, query url.Values, body, out any) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	if query == nil {
		query = url.Values{}
	}
	if c.teamID != "" {
		query.Set("teamId", c.teamID)
	}
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return appErr.Wrap(err, appErr.CodeInternal, op+": encode request body")
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return appErr.Wrap(err, appErr.CodeInternal, op+": create request")
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		re := &RequestError{Kind: KindTransport, Method: method, Path: path, Err: err}
		return appErr.Wrap(re, appErr.CodeFromContext(err), op)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		re := &RequestError{Kind: KindTransport, Method: method, Path: path, Status: resp.StatusCode, Err: err}
		return appErr.Wrap(re, appErr.CodeFromContext(err), op)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		re := remoteError(method, path, resp.StatusCode, data)
		return appErr.Wrap(re, appErr.CodeFromHTTPStatus(resp.StatusCode), op).WithMeta("status", resp.StatusCode)
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		re := &RequestError{Kind: KindDecode, Method: method, Path: path, Status: resp.StatusCode, Err: err}
		return appErr.Wrap(re, appErr.CodeInternal, op)
	}
	return nil
}

func escape(segment string) string {
	return url.PathEscape(strings.TrimSpace(segment))
}

func requireArg(op, name, value string) error {
	if strings.TrimSpace(value) == "" {
		return appErr.Newf(appErr.CodeInvalid, "%s: %s is required", op, name)
	}
	return nil
}
