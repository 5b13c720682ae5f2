package client

import (
	"context"
	"net/http"

	"github.com/wzyjerry/llm-judge-client/internal/model"
)

// Register creates a new account and returns its first access token.
func (c *Client) Register(ctx context.Context, username, password, email string) (*model.TokenResponse, error) {
	req := model.UserRegister{Username: username, Password: password, Email: email}
	var resp model.TokenResponse
	if err := c.do(ctx, http.MethodPost, "/auth/register", nil, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Login exchanges credentials for an access token.
func (c *Client) Login(ctx context.Context, username, password string) (*model.TokenResponse, error) {
	req := model.UserLogin{Username: username, Password: password}
	var resp model.TokenResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", nil, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetCurrentUser returns the user behind the current token.
func (c *Client) GetCurrentUser(ctx context.Context) (*model.UserInfo, error) {
	var resp model.UserInfo
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
