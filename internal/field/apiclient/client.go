// internal/field/apiclient/client.go

// Package apiclient is the field SDK's typed REST layer. Every call is
// authenticated with the session token and decoded through the backend's
// {success,data} / {success:false,error:{...}} envelope.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// TokenSource yields the current bearer token. *session.Store satisfies
// this; tests substitute a literal.
type TokenSource interface {
	Token() (string, error)
}

// StaticToken is a fixed-token TokenSource.
type StaticToken string

func (t StaticToken) Token() (string, error) { return string(t), nil }

// ErrUnauthorized means the token is missing, expired, or rejected. The
// caller decides whether to re-login; the client never retries it.
var ErrUnauthorized = errors.New("apiclient: unauthorized")

// APIError carries the backend's structured error body.
type APIError struct {
	StatusCode int
	Code       string `json:"code"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("apiclient: %s (%s, http %d)", e.Message, e.Code, e.StatusCode)
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *APIError       `json:"error"`
}

type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
}

func New(baseURL string, tokens TokenSource) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
		tokens:  tokens,
	}
}

// do runs one authenticated request and unmarshals the envelope's data
// field into out (out may be nil when the caller only needs the status).
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	token, err := c.tokens.Token()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("apiclient: encode request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return fmt.Errorf("apiclient: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("apiclient: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return fmt.Errorf("apiclient: read response: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		return ErrUnauthorized
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return fmt.Errorf("apiclient: bad envelope (http %d): %w", resp.StatusCode, err)
	}

	if !env.Success {
		if env.Error == nil {
			return &APIError{StatusCode: resp.StatusCode, Code: "UNKNOWN", Message: "request failed"}
		}
		env.Error.StatusCode = resp.StatusCode
		return env.Error
	}

	if out != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("apiclient: decode data: %w", err)
		}
	}
	return nil
}
