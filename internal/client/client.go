// Package client implements the HTTP client for the llm-judge web
// API. Every method is a thin wrapper over one endpoint: JSON in,
// JSON out, Bearer token attached when a session exists.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// APIError represents an error response from the web API, rendered
// exactly as the platform presents backend failures.
type APIError struct {
	Status int
	Detail string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("[HTTP %d] %s", e.Status, e.Detail)
}

// errorBody is the error response shape of the web API.
type errorBody struct {
	Detail string `json:"detail"`
}

// Client talks to the llm-judge web API.
type Client struct {
	baseURL string
	http    *http.Client

	// tokenFunc returns the current access token, or "" when the
	// session is anonymous. Supplied by the store.
	tokenFunc func() string

	// onUnauthorized fires on any 401 outside the login endpoint.
	// The store uses it to clear the session.
	onUnauthorized func()
}

// New creates a client for the given base URL (e.g.
// "http://localhost:8080/api"). All requests share one fixed timeout.
func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// SetTokenFunc installs the token provider.
func (c *Client) SetTokenFunc(fn func() string) {
	c.tokenFunc = fn
}

// SetUnauthorizedHook installs the session-expiry callback.
func (c *Client) SetUnauthorizedHook(fn func()) {
	c.onUnauthorized = fn
}

// do performs one JSON request. body and out may be nil. A non-2xx
// response becomes an *APIError; a 401 outside /auth/login also fires
// the unauthorized hook before the error is returned.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := c.newRequest(ctx, method, path, query, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.send(req, path, out)
}

// upload performs one multipart file upload request.
func (c *Client) upload(ctx context.Context, path, fileField, filename string, content io.Reader, fields map[string]string, out interface{}) error {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile(fileField, filename)
	if err != nil {
		return fmt.Errorf("failed to build multipart body: %w", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return fmt.Errorf("failed to read upload content: %w", err)
	}
	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			return fmt.Errorf("failed to build multipart body: %w", err)
		}
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to build multipart body: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, path, nil, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	return c.send(req, path, out)
}

func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body io.Reader) (*http.Request, error) {
	fullURL := c.baseURL + path
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	req.Header.Set("X-Request-ID", uuid.NewString())
	if c.tokenFunc != nil {
		if token := c.tokenFunc(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	return req, nil
}

func (c *Client) send(req *http.Request, path string, out interface{}) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		apiErr := &APIError{Status: resp.StatusCode, Detail: http.StatusText(resp.StatusCode)}
		var parsed errorBody
		if json.Unmarshal(respBody, &parsed) == nil && parsed.Detail != "" {
			apiErr.Detail = parsed.Detail
		}

		zap.L().Debug("API error response",
			zap.String("method", req.Method),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
			zap.String("detail", apiErr.Detail))

		// 401 from login means wrong credentials; anywhere else it
		// means the session is dead and must be cleared.
		if resp.StatusCode == http.StatusUnauthorized && !strings.HasPrefix(path, "/auth/login") {
			if c.onUnauthorized != nil {
				c.onUnauthorized()
			}
		}
		return apiErr
	}

	if out != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}
