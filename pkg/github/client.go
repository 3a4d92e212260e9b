package github

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

const (
	// DefaultTimeout bounds each API call.
	DefaultTimeout = 20 * time.Second

	apiVersion   = "2022-11-28"
	maxBodyBytes = 8 << 20
)

// Owner is the owner block of a repository response.
type Owner struct {
	Login string `json:"login"`
}

// Repository holds the repository attributes the tools care about.
// Null fields in the response decode to empty strings.
type Repository struct {
	Name        string `json:"name"`
	FullName    string `json:"full_name"`
	Description string `json:"description"`
	Homepage    string `json:"homepage"`
	HTMLURL     string `json:"html_url"`
	Owner       Owner  `json:"owner"`
}

// User is the authenticated identity returned by GET /user.
type User struct {
	Login string `json:"login"`
	Name  string `json:"name"`
}

// Client performs read-only GitHub REST calls. One attempt per call, no retries.
type Client struct {
	httpFetcher HTTPFetcher
	token       string
	userAgent   string
	endpoints   Endpoints
}

// Option customises a Client.
type Option func(*Client)

// WithEndpoints points the client at a non-default API/web root.
func WithEndpoints(e Endpoints) Option {
	return func(c *Client) { c.endpoints = e }
}

// WithUserAgent sets the product identifier sent on every request.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// NewClient creates a client with a TLS 1.2+ HTTP client bounded by timeout.
func NewClient(token string, timeout time.Duration, opts ...Option) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	client := &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			TLSClientConfig: &tls.Config{
				MinVersion: tls.VersionTLS12,
			},
		},
	}
	return NewClientWithHTTP(NewRealHTTPFetcher(client), token, opts...)
}

// NewClientWithHTTP creates a client with injectable HTTP for testing
func NewClientWithHTTP(httpFetcher HTTPFetcher, token string, opts ...Option) *Client {
	c := &Client{
		httpFetcher: httpFetcher,
		token:       strings.TrimSpace(token),
		userAgent:   "repokit",
		endpoints:   DefaultEndpoints(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Endpoints returns the roots this client talks to.
func (c *Client) Endpoints() Endpoints {
	return c.endpoints
}

// HasToken reports whether requests carry an Authorization header.
func (c *Client) HasToken() bool {
	return c.token != ""
}

// Repository fetches the repository at a canonical endpoint (see Endpoints.Normalize).
func (c *Client) Repository(ctx context.Context, endpoint string) (*Repository, error) {
	var repo Repository
	if err := c.getJSON(ctx, endpoint, &repo); err != nil {
		return nil, err
	}
	return &repo, nil
}

// Viewer fetches the identity behind the configured token.
func (c *Client) Viewer(ctx context.Context) (*User, error) {
	var user User
	if err := c.getJSON(ctx, c.endpoints.UserURL(), &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) getJSON(ctx context.Context, apiURL string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("X-GitHub-Api-Version", apiVersion)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpFetcher.Do(req)
	if err != nil {
		return &NetworkError{URL: apiURL, Wrapped: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return &NetworkError{URL: apiURL, Wrapped: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(resp, apiURL, body)
	}

	if err := json.Unmarshal(body, v); err != nil {
		return &ParseError{URL: apiURL, Wrapped: err}
	}
	return nil
}

// statusError turns a non-2xx response into a StatusError or, when the rate
// limit headers say the budget is spent, a RateLimitError.
func statusError(resp *http.Response, apiURL string, body []byte) error {
	remainingStr := resp.Header.Get("X-RateLimit-Remaining")
	limited := resp.StatusCode == http.StatusTooManyRequests ||
		(resp.StatusCode == http.StatusForbidden && remainingStr == "0")
	if limited {
		return parseRateLimitError(resp, apiURL)
	}

	var payload struct {
		Message string `json:"message"`
	}
	_ = json.Unmarshal(body, &payload)
	return &StatusError{URL: apiURL, StatusCode: resp.StatusCode, Message: payload.Message}
}

// parseRateLimitError extracts rate limit information from GitHub response headers
func parseRateLimitError(resp *http.Response, apiURL string) error {
	limit := 60 // unauthenticated default
	if parsed, err := strconv.Atoi(resp.Header.Get("X-RateLimit-Limit")); err == nil {
		limit = parsed
	}

	remaining := 0
	if parsed, err := strconv.Atoi(resp.Header.Get("X-RateLimit-Remaining")); err == nil {
		remaining = parsed
	}

	var retryAfter time.Time
	if resetUnix, err := strconv.ParseInt(resp.Header.Get("X-RateLimit-Reset"), 10, 64); err == nil {
		retryAfter = time.Unix(resetUnix, 0)
	}

	return &RateLimitError{
		URL:        apiURL,
		RetryAfter: retryAfter,
		Limit:      limit,
		Remaining:  remaining,
		StatusCode: resp.StatusCode,
	}
}
