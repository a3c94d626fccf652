// Copyright (c) 2025 Pulse Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
)

// Error variables for common backend failures.
var (
	// ErrSessionExpired indicates the backend rejected the bearer token.
	// The client clears its token and fires the unauthorized handler before
	// returning this error.
	ErrSessionExpired = errors.New("session expired")

	// ErrNotAuthenticated indicates a request that needs a token was made
	// without one.
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrRateLimited indicates too many requests were made.
	ErrRateLimited = errors.New("rate limited")
)

// APIError represents a non-2xx response from the Pulse backend.
type APIError struct {
	Status  int
	Message string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("pulse API error (HTTP %d): %s", e.Status, e.Message)
	}
	return fmt.Sprintf("pulse API error (HTTP %d)", e.Status)
}

// Is allows APIError 429s to be compared with ErrRateLimited.
func (e *APIError) Is(target error) bool {
	return target == ErrRateLimited && e.Status == http.StatusTooManyRequests
}

// apiErrorBody is the backend's error envelope: { "error": "..." }.
type apiErrorBody struct {
	Error string `json:"error"`
}

// errorFromResponse converts a non-2xx response body into an APIError.
// The body is the raw bytes already read from the response.
func errorFromResponse(status int, body []byte) error {
	var envelope apiErrorBody
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error != "" {
		return &APIError{Status: status, Message: envelope.Error}
	}
	return &APIError{Status: status, Message: string(body)}
}

// IsRetryable reports whether an error should trigger another attempt.
// Server errors, rate limiting, and transport failures are retryable;
// client errors and cancellations are not.
func IsRetryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if errors.Is(err, ErrRateLimited) {
		return true
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status >= 500 && apiErr.Status < 600
	}
	var urlErr *url.Error
	return errors.As(err, &urlErr)
}
