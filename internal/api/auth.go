// Copyright (c) 2025 Pulse Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"net/http"

	"github.com/pulsedash/pulse-tui/internal/model"
)

// =============================================================================
// AUTH ENDPOINTS
// =============================================================================

// registerRequest is the body for POST /api/auth/register.
type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// loginRequest is the body for POST /api/auth/login.
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register creates a new account and returns the issued token and user.
// On success the token is installed on the client.
func (c *Client) Register(ctx context.Context, email, password, name string) (*model.AuthResponse, error) {
	var auth model.AuthResponse
	err := c.doJSON(ctx, http.MethodPost, "/api/auth/register", registerRequest{
		Email:    email,
		Password: password,
		Name:     name,
	}, &auth, false)
	if err != nil {
		return nil, err
	}
	c.SetToken(auth.Token)
	return &auth, nil
}

// Login authenticates with email and password and returns the issued token
// and user. On success the token is installed on the client.
func (c *Client) Login(ctx context.Context, email, password string) (*model.AuthResponse, error) {
	var auth model.AuthResponse
	err := c.doJSON(ctx, http.MethodPost, "/api/auth/login", loginRequest{
		Email:    email,
		Password: password,
	}, &auth, false)
	if err != nil {
		return nil, err
	}
	c.SetToken(auth.Token)
	return &auth, nil
}
