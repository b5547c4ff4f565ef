package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"sync"
	"time"
)

// ErrRenewalFailed covers every silent-refresh failure: transport errors,
// non-success statuses, and malformed or empty grants.
var ErrRenewalFailed = errors.New("session renewal failed")

// ErrInvalidCredentials is returned by Login when the backend rejects the
// email/password pair.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrLoginFailed wraps login failures other than rejected credentials.
var ErrLoginFailed = errors.New("login failed")

// TokenGrant is the backend's response to a successful login or refresh.
type TokenGrant struct {
	AccessToken string   `json:"accessToken"`
	Roles       []string `json:"roles"`
}

// Client calls the backend auth endpoints. Safe for concurrent use.
type Client struct {
	baseURL     string
	refreshPath string
	loginPath   string
	logoutPath  string
	httpClient  *http.Client

	mu       sync.Mutex
	inflight *refreshCall
}

type refreshCall struct {
	done  chan struct{}
	grant TokenGrant
	err   error
}

// Options captures Client configuration.
type Options struct {
	// BaseURL is the backend API root, e.g. "http://localhost:3000/api".
	BaseURL string

	// RefreshPath, LoginPath, and LogoutPath are joined onto BaseURL.
	RefreshPath string
	LoginPath   string
	LogoutPath  string

	// HTTPClient performs the requests. When nil a client with a fresh
	// cookie jar and Timeout is built; when provided it should carry a jar
	// so the server session cookie survives between calls.
	HTTPClient *http.Client

	// Timeout bounds each call when HTTPClient is nil. Defaults to 10s.
	Timeout time.Duration
}

// NewClient builds a Client from opts.
func NewClient(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		jar, _ := cookiejar.New(nil)
		httpClient = &http.Client{Jar: jar, Timeout: timeout}
	}
	return &Client{
		baseURL:     strings.TrimRight(opts.BaseURL, "/"),
		refreshPath: opts.RefreshPath,
		loginPath:   opts.LoginPath,
		logoutPath:  opts.LogoutPath,
		httpClient:  httpClient,
	}
}

// BackendClient exposes the underlying HTTP client, cookie jar included, so
// a rebuilt engine can reuse the refresh cookie the way a reloaded page does.
func (c *Client) BackendClient() *http.Client {
	return c.httpClient
}

// Refresh exchanges the ambient session cookie for a fresh grant. Concurrent
// calls collapse into a single upstream request; every caller receives the
// same result.
func (c *Client) Refresh(ctx context.Context) (TokenGrant, error) {
	c.mu.Lock()
	if call := c.inflight; call != nil {
		c.mu.Unlock()
		select {
		case <-call.done:
			return call.grant, call.err
		case <-ctx.Done():
			return TokenGrant{}, fmt.Errorf("%w: %w", ErrRenewalFailed, ctx.Err())
		}
	}
	call := &refreshCall{done: make(chan struct{})}
	c.inflight = call
	c.mu.Unlock()

	call.grant, call.err = c.doRefresh(ctx)
	close(call.done)

	c.mu.Lock()
	c.inflight = nil
	c.mu.Unlock()

	return call.grant, call.err
}

func (c *Client) doRefresh(ctx context.Context) (TokenGrant, error) {
	resp, err := c.post(ctx, c.refreshPath, nil)
	if err != nil {
		return TokenGrant{}, fmt.Errorf("%w: %w", ErrRenewalFailed, err)
	}
	defer drain(resp)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return TokenGrant{}, fmt.Errorf("%w: status %d", ErrRenewalFailed, resp.StatusCode)
	}

	var grant TokenGrant
	if err := json.NewDecoder(resp.Body).Decode(&grant); err != nil {
		return TokenGrant{}, fmt.Errorf("%w: malformed response: %w", ErrRenewalFailed, err)
	}
	if grant.AccessToken == "" {
		return TokenGrant{}, fmt.Errorf("%w: response missing access token", ErrRenewalFailed)
	}
	return grant, nil
}

// Login exchanges email/password for a grant. A 400 or 401 maps to
// [ErrInvalidCredentials]; any other failure wraps [ErrLoginFailed].
func (c *Client) Login(ctx context.Context, email, password string) (TokenGrant, error) {
	body, err := json.Marshal(map[string]string{"email": email, "password": password})
	if err != nil {
		return TokenGrant{}, fmt.Errorf("%w: %w", ErrLoginFailed, err)
	}

	resp, err := c.post(ctx, c.loginPath, body)
	if err != nil {
		return TokenGrant{}, fmt.Errorf("%w: %w", ErrLoginFailed, err)
	}
	defer drain(resp)

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusBadRequest:
		return TokenGrant{}, fmt.Errorf("%w: status %d", ErrInvalidCredentials, resp.StatusCode)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return TokenGrant{}, fmt.Errorf("%w: status %d", ErrLoginFailed, resp.StatusCode)
	}

	var grant TokenGrant
	if err := json.NewDecoder(resp.Body).Decode(&grant); err != nil {
		return TokenGrant{}, fmt.Errorf("%w: malformed response: %w", ErrLoginFailed, err)
	}
	if grant.AccessToken == "" {
		return TokenGrant{}, fmt.Errorf("%w: response missing access token", ErrLoginFailed)
	}
	return grant, nil
}

// Logout notifies the backend that the session ends. Best-effort: the caller
// may log the returned error but must clear local state regardless.
func (c *Client) Logout(ctx context.Context) error {
	resp, err := c.post(ctx, c.logoutPath, nil)
	if err != nil {
		return err
	}
	defer drain(resp)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("logout: status %d", resp.StatusCode)
	}
	return nil
}

func (c *Client) post(ctx context.Context, path string, body []byte) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.httpClient.Do(req)
}

func drain(resp *http.Response) {
	io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<16))
	resp.Body.Close()
}
