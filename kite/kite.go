// Package kite is a minimal client for the Kite Connect v3 HTTP API. It
// covers exactly the surface this service needs: building the external
// login URL, exchanging a request token for an access token, and the
// read-only account endpoints (profile, positions, holdings, orders).
//
// Account payloads are returned as raw JSON and passed through to callers
// untouched; this package never reshapes upstream data.
package kite

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

const (
	// DefaultBaseURL is the Kite Connect API root.
	DefaultBaseURL = "https://api.kite.trade"
	// DefaultLoginURL is the external login page users are redirected to.
	DefaultLoginURL = "https://kite.zerodha.com/connect/login"

	kiteVersion = "3"
)

// Client is an ephemeral Kite Connect client bound to an API key and,
// optionally, an access token. Construction performs no I/O; create one
// client per request and discard it afterwards.
type Client struct {
	apiKey      string
	accessToken string
	baseURL     string
	loginURL    string
	httpClient  *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithAccessToken attaches an access token obtained from a prior session
// exchange.
func WithAccessToken(token string) Option {
	return func(c *Client) {
		c.accessToken = token
	}
}

// WithBaseURL overrides the API root. Used by tests to point the client at
// a fake upstream.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(u, "/")
	}
}

// WithLoginURL overrides the external login page URL.
func WithLoginURL(u string) Option {
	return func(c *Client) {
		c.loginURL = strings.TrimRight(u, "/")
	}
}

// WithHTTPClient overrides the HTTP client used for upstream calls.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// New creates a Client bound to the given API key.
func New(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:     apiKey,
		baseURL:    DefaultBaseURL,
		loginURL:   DefaultLoginURL,
		httpClient: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// LoginURL returns the external login page URL embedding the API key and,
// when non-empty, the callback URL the login flow should redirect back to.
func (c *Client) LoginURL(redirectURI string) string {
	q := url.Values{}
	q.Set("v", kiteVersion)
	q.Set("api_key", c.apiKey)
	if redirectURI != "" {
		q.Set("redirect_uri", redirectURI)
	}
	return c.loginURL + "?" + q.Encode()
}

// GenerateSession exchanges a one-time request token for an access token.
// The checksum is SHA-256 over api_key + request_token + api_secret, as
// required by the session/token endpoint.
func (c *Client) GenerateSession(ctx context.Context, requestToken, apiSecret string) (*UserSession, error) {
	sum := sha256.Sum256([]byte(c.apiKey + requestToken + apiSecret))
	form := url.Values{}
	form.Set("api_key", c.apiKey)
	form.Set("request_token", requestToken)
	form.Set("checksum", hex.EncodeToString(sum[:]))

	data, err := c.do(ctx, http.MethodPost, "/session/token", form)
	if err != nil {
		return nil, err
	}
	session := &UserSession{Raw: data}
	if err := json.Unmarshal(data, session); err != nil {
		return nil, fmt.Errorf("decoding session payload: %w", err)
	}
	return session, nil
}

// Profile fetches the user profile. This is the lightweight call used to
// validate an access token before account queries.
func (c *Client) Profile(ctx context.Context) (json.RawMessage, error) {
	return c.do(ctx, http.MethodGet, "/user/profile", nil)
}

// Positions fetches the current day/net positions.
func (c *Client) Positions(ctx context.Context) (json.RawMessage, error) {
	return c.do(ctx, http.MethodGet, "/portfolio/positions", nil)
}

// Holdings fetches the long-term equity holdings.
func (c *Client) Holdings(ctx context.Context) (json.RawMessage, error) {
	return c.do(ctx, http.MethodGet, "/portfolio/holdings", nil)
}

// Orders fetches the order book for the day.
func (c *Client) Orders(ctx context.Context) (json.RawMessage, error) {
	return c.do(ctx, http.MethodGet, "/orders", nil)
}

// envelope is the uniform response wrapper used by every Kite Connect
// endpoint.
type envelope struct {
	Status    string          `json:"status"`
	Data      json.RawMessage `json:"data"`
	Message   string          `json:"message"`
	ErrorType string          `json:"error_type"`
}

func (c *Client) do(ctx context.Context, method, path string, form url.Values) (json.RawMessage, error) {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("building %s request: %w", path, err)
	}
	req.Header.Set("X-Kite-Version", kiteVersion)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if c.accessToken != "" {
		req.Header.Set("Authorization", "token "+c.apiKey+":"+c.accessToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling %s: %w", path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading %s response: %w", path, err)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		if resp.StatusCode >= http.StatusBadRequest {
			return nil, &Error{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(raw))}
		}
		return nil, fmt.Errorf("decoding %s response: %w", path, err)
	}
	if resp.StatusCode >= http.StatusBadRequest || env.Status == "error" {
		return nil, &Error{
			StatusCode: resp.StatusCode,
			ErrorType:  env.ErrorType,
			Message:    env.Message,
		}
	}
	return env.Data, nil
}
