// Package gotrue talks to the Supabase auth (GoTrue) REST API and exposes a
// browser's auth session as an auth.Provider.
package gotrue

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"roomify/internal/auth"
)

const requestTimeout = 10 * time.Second

// ErrUnauthorized is returned when GoTrue rejects the access token.
var ErrUnauthorized = errors.New("gotrue: unauthorized")

// APIError is a non-2xx response. Message is GoTrue's own wording.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string { return e.Message }

// Client is shared by all sessions.
type Client struct {
	baseURL string
	anonKey string
	http    *http.Client
}

// NewClient returns a client for the project at baseURL
// (e.g. https://xyz.supabase.co).
func NewClient(baseURL, anonKey string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/") + "/auth/v1",
		anonKey: anonKey,
		http:    &http.Client{Timeout: requestTimeout},
	}
}

// Tokens is what a browser session keeps between requests.
type Tokens struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

func (t *Tokens) expired(now time.Time) bool {
	// refresh a little early so a request doesn't race the expiry
	return !t.ExpiresAt.IsZero() && now.Add(30*time.Second).After(t.ExpiresAt)
}

type userResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

func (u userResponse) user() auth.User {
	return auth.User{ID: u.ID, Email: u.Email, Role: u.Role, CreatedAt: u.CreatedAt}
}

type tokenResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	ExpiresIn    int          `json:"expires_in"`
	ExpiresAt    int64        `json:"expires_at"`
	User         userResponse `json:"user"`
}

func (r tokenResponse) tokens(now time.Time) Tokens {
	t := Tokens{AccessToken: r.AccessToken, RefreshToken: r.RefreshToken}
	switch {
	case r.ExpiresAt > 0:
		t.ExpiresAt = time.Unix(r.ExpiresAt, 0)
	case r.ExpiresIn > 0:
		t.ExpiresAt = now.Add(time.Duration(r.ExpiresIn) * time.Second)
	}
	return t
}

// errorResponse covers both the old and the current GoTrue error shapes.
type errorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
	ErrorCode        string `json:"error_code"`
	Msg              string `json:"msg"`
	Message          string `json:"message"`
}

func (c *Client) passwordGrant(ctx context.Context, email, password string) (*tokenResponse, error) {
	var out tokenResponse
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/token?grant_type=password", "", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) refreshGrant(ctx context.Context, refreshToken string) (*tokenResponse, error) {
	var out tokenResponse
	body := map[string]string{"refresh_token": refreshToken}
	if err := c.do(ctx, http.MethodPost, "/token?grant_type=refresh_token", "", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) getUser(ctx context.Context, accessToken string) (*userResponse, error) {
	var out userResponse
	if err := c.do(ctx, http.MethodGet, "/user", accessToken, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) logout(ctx context.Context, accessToken string) error {
	return c.do(ctx, http.MethodPost, "/logout", accessToken, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path, bearer string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("apikey", c.anonKey)
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("gotrue %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized && bearer != "" {
		return ErrUnauthorized
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding gotrue response: %w", err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}
	var er errorResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&er); err == nil {
		apiErr.Code = firstNonEmpty(er.ErrorCode, er.Error)
		apiErr.Message = firstNonEmpty(er.Msg, er.ErrorDescription, er.Message, er.Error)
	}
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(resp.StatusCode)
	}
	return apiErr
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
