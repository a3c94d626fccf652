// Copyright (c) 2025 Pulse Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Configuration constants for the Pulse backend client.
const (
	// DefaultBaseURL is the backend used when no config overrides it.
	DefaultBaseURL = "http://localhost:8080"

	// DefaultTimeout is the default timeout for request/response calls.
	DefaultTimeout = 30 * time.Second

	// DefaultMaxRetries is the default number of retry attempts for
	// transient errors on the auxiliary REST calls.
	DefaultMaxRetries = 3

	// retryBaseDelay is the base delay for exponential backoff.
	retryBaseDelay = 500 * time.Millisecond

	// retryMaxDelay is the maximum delay for exponential backoff.
	retryMaxDelay = 10 * time.Second

	// MaxResponseSize is the maximum allowed response body size for
	// request/response calls. Streams are not subject to this limit.
	MaxResponseSize = 10 * 1024 * 1024 // 10MB

	// restRateLimit caps auxiliary REST calls per second. Conversation-list
	// refreshes fire after every completed turn; the limiter keeps a burst of
	// turns from hammering the backend. Streaming requests are exempt.
	restRateLimit = 10
	restRateBurst = 20
)

var (
	// Shared HTTP client with connection pooling for request/response calls.
	sharedHTTPClient = &http.Client{
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
			TLSHandshakeTimeout: 10 * time.Second,
			TLSClientConfig: &tls.Config{
				MinVersion: tls.VersionTLS12,
			},
		},
		Timeout: DefaultTimeout,
	}

	// sharedStreamingClient is used for streaming requests. No client-level
	// timeout: stream lifetime is controlled via context.
	sharedStreamingClient = &http.Client{
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
			TLSHandshakeTimeout: 10 * time.Second,
			TLSClientConfig: &tls.Config{
				MinVersion: tls.VersionTLS12,
			},
		},
	}
)

// =============================================================================
// CLIENT
// =============================================================================

// Client is an HTTP client for the Pulse backend.
//
// The bearer token lives on the client, not in ambient storage: callers
// construct a Client from a loaded session and install an unauthorized
// handler that tears the session down when any request comes back 401.
type Client struct {
	baseURL    string
	maxRetries int

	mu    sync.RWMutex
	token string

	// onUnauthorized is called once per 401, after the token is cleared.
	onUnauthorized func()

	// limiter throttles auxiliary REST calls.
	limiter *rate.Limiter

	// httpClient and streamClient default to the shared pooled clients;
	// tests substitute their own.
	httpClient   *http.Client
	streamClient *http.Client
}

// NewClient creates a client for the given backend base URL.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:      strings.TrimSuffix(baseURL, "/"),
		maxRetries:   DefaultMaxRetries,
		limiter:      rate.NewLimiter(rate.Limit(restRateLimit), restRateBurst),
		httpClient:   sharedHTTPClient,
		streamClient: sharedStreamingClient,
	}
}

// WithToken sets the bearer token and returns the client.
func (c *Client) WithToken(token string) *Client {
	c.SetToken(token)
	return c
}

// WithMaxRetries sets the maximum number of retry attempts.
func (c *Client) WithMaxRetries(n int) *Client {
	c.maxRetries = n
	return c
}

// WithHTTPClient substitutes the underlying HTTP clients. Intended for tests.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.httpClient = hc
	c.streamClient = hc
	return c
}

// SetToken replaces the bearer token.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = strings.TrimSpace(token)
}

// Token returns the current bearer token.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// IsAuthenticated reports whether the client holds a token.
func (c *Client) IsAuthenticated() bool {
	return c.Token() != ""
}

// BaseURL returns the backend base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// SetUnauthorizedHandler installs the session-invalidation callback fired on
// any 401 response. The token is already cleared when it runs.
func (c *Client) SetUnauthorizedHandler(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onUnauthorized = fn
}

// =============================================================================
// REQUEST PLUMBING
// =============================================================================

// setHeaders sets the standard headers for backend requests.
func (c *Client) setHeaders(req *http.Request, authenticated bool) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "pulse-tui/"+Version)
	if authenticated {
		if tok := c.Token(); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}
}

// handleUnauthorized clears the token and fires the unauthorized handler.
func (c *Client) handleUnauthorized() {
	c.mu.Lock()
	c.token = ""
	fn := c.onUnauthorized
	c.mu.Unlock()

	if fn != nil {
		fn()
	}
}

// logRequest logs an API request without exposing sensitive data.
// Headers (auth) and bodies (user content) are never logged.
func logRequest(req *http.Request) {
	log.Printf("API request: %s %s", req.Method, req.URL.Path)
}

// logResponse logs the status and duration of an API response.
func logResponse(resp *http.Response, duration time.Duration) {
	log.Printf("API response: %d (%v)", resp.StatusCode, duration)
}

// readResponse reads the response body with a size limit.
func readResponse(resp *http.Response) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if int64(len(body)) == MaxResponseSize {
		return nil, fmt.Errorf("response exceeded maximum size of %d bytes", MaxResponseSize)
	}
	return body, nil
}

// doJSON performs one request/response call: marshals the optional body,
// applies auth, checks for 401, and decodes the response into out.
func (c *Client) doJSON(ctx context.Context, method, path string, reqBody, out any, authenticated bool) error {
	if authenticated && !c.IsAuthenticated() {
		return ErrNotAuthenticated
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	var bodyReader io.Reader
	if reqBody != nil {
		raw, err := json.Marshal(reqBody)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	c.setHeaders(req, authenticated)
	logRequest(req)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	logResponse(resp, time.Since(start))

	if resp.StatusCode == http.StatusUnauthorized {
		io.Copy(io.Discard, io.LimitReader(resp.Body, MaxResponseSize))
		c.handleUnauthorized()
		return ErrSessionExpired
	}

	body, err := readResponse(resp)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return errorFromResponse(resp.StatusCode, body)
	}

	if out != nil {
		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}
	}
	return nil
}

// doJSONWithRetry wraps doJSON with exponential backoff on transient errors.
// 401 and other 4xx responses are never retried.
func (c *Client) doJSONWithRetry(ctx context.Context, method, path string, reqBody, out any, authenticated bool) error {
	var lastErr error
	for attempt := 0; attempt < c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(calculateBackoff(attempt)):
			}
		}

		err := c.doJSON(ctx, method, path, reqBody, out, authenticated)
		if err == nil {
			return nil
		}
		if errors.Is(err, ErrSessionExpired) || errors.Is(err, ErrNotAuthenticated) || !IsRetryable(err) {
			return err
		}
		lastErr = err
	}
	return fmt.Errorf("max retries exceeded: %w", lastErr)
}

// calculateBackoff returns the delay before the next retry attempt.
func calculateBackoff(attempt int) time.Duration {
	delay := retryBaseDelay * time.Duration(1<<uint(attempt))
	if delay > retryMaxDelay {
		delay = retryMaxDelay
	}
	return delay
}

// Version is the client version reported in the User-Agent header.
// Overridden at build time via -ldflags.
var Version = "0.1.0"
