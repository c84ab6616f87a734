// Package client calls the wordgen REST backend.
//
// Every call is a single request: there are no retries and no timeouts
// beyond what the caller's context imposes. The bearer token comes from an
// injected session.Store.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/pavelanni/wordgen/internal/history"
	"github.com/pavelanni/wordgen/internal/model"
	"github.com/pavelanni/wordgen/internal/quiz"
	"github.com/pavelanni/wordgen/internal/session"
	"github.com/pavelanni/wordgen/internal/vocab"
)

// DefaultBaseURL is where the backend listens by default.
const DefaultBaseURL = "http://localhost:8000"

// MinPasswordLength is the shortest password accepted at signup.
const MinPasswordLength = 6

// Client talks to the backend on behalf of one user.
type Client struct {
	baseURL string
	http    *http.Client
	session session.Store
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// New creates a client for the backend at baseURL.
func New(baseURL string, store session.Store, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    http.DefaultClient,
		session: store,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Signup creates an account. It does not log the user in.
func (c *Client) Signup(ctx context.Context, req model.SignupRequest) (string, error) {
	req.Email = strings.TrimSpace(req.Email)
	req.JobTitle = strings.TrimSpace(req.JobTitle)
	if req.Email == "" || req.Password == "" || req.JobTitle == "" {
		return "", &ValidationError{Message: "please fill in all fields"}
	}
	if len(req.Password) < MinPasswordLength {
		return "", &ValidationError{
			Field:   "password",
			Message: fmt.Sprintf("must be at least %d characters long", MinPasswordLength),
		}
	}

	var resp model.MessageResponse
	if err := c.doJSON(ctx, http.MethodPost, "/signup", req, false, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

// Login authenticates and stores the access token.
func (c *Client) Login(ctx context.Context, req model.LoginRequest) error {
	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Password == "" {
		return &ValidationError{Message: "please fill in all fields"}
	}

	var resp model.TokenResponse
	if err := c.doJSON(ctx, http.MethodPost, "/login", req, false, &resp); err != nil {
		return err
	}
	if resp.AccessToken == "" {
		return fmt.Errorf("%w: login response has no access token", ErrInvalidFormat)
	}
	if err := c.session.SetToken(ctx, resp.AccessToken); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	slog.Debug("logged in", "email", req.Email)
	return nil
}

// Logout forgets the stored token.
func (c *Client) Logout(ctx context.Context) error {
	return c.session.Clear(ctx)
}

// LoggedIn reports whether a token is stored.
func (c *Client) LoggedIn(ctx context.Context) (bool, error) {
	tok, err := c.session.Token(ctx)
	if err != nil {
		return false, err
	}
	return tok != "", nil
}

// Generate asks the backend for today's vocabulary, generating it if needed.
func (c *Client) Generate(ctx context.Context) ([]vocab.Item, error) {
	return c.fetchItems(ctx, "/generate-data")
}

// Today returns vocabulary already generated today; none is not an error.
func (c *Client) Today(ctx context.Context) ([]vocab.Item, error) {
	return c.fetchItems(ctx, "/get-data")
}

func (c *Client) fetchItems(ctx context.Context, path string) ([]vocab.Item, error) {
	body, err := c.do(ctx, http.MethodGet, path, nil, true)
	if err != nil {
		return nil, err
	}
	records, err := vocab.Decode(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidFormat, err)
	}
	return vocab.NormalizeAll(records), nil
}

// History returns every past generation for the user.
func (c *Client) History(ctx context.Context) ([]history.Entry, error) {
	body, err := c.do(ctx, http.MethodGet, "/get-history", nil, true)
	if err != nil {
		return nil, err
	}
	var records []model.HistoryRecord
	if err := json.Unmarshal(bytes.TrimSpace(body), &records); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	entries, err := history.FromRecords(records)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidFormat, err)
	}
	return entries, nil
}

// Quiz fetches quiz questions built from today's vocabulary.
func (c *Client) Quiz(ctx context.Context) ([]quiz.Question, error) {
	body, err := c.do(ctx, http.MethodGet, "/quiz", nil, true)
	if err != nil {
		return nil, err
	}
	questions, err := quiz.Decode(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidFormat, err)
	}
	return questions, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, in any, auth bool, out any) error {
	body, err := c.do(ctx, method, path, in, auth)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	return nil
}

// do sends one request and returns the body of a 2xx response. A 401 on an
// authenticated call clears the stored token.
func (c *Client) do(ctx context.Context, method, path string, in any, auth bool) ([]byte, error) {
	var reqBody io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	if auth {
		token, err := c.session.Token(ctx)
		if err != nil {
			return nil, fmt.Errorf("read session: %w", err)
		}
		if token == "" {
			return nil, ErrNotLoggedIn
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	slog.Debug("calling API", "method", method, "url", req.URL.String())
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	slog.Debug("API response", "path", path, "status", resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode, Detail: errorDetail(body)}
		if auth && resp.StatusCode == http.StatusUnauthorized {
			if err := c.session.Clear(ctx); err != nil {
				slog.Warn("failed to clear session", "error", err)
			}
		}
		return nil, apiErr
	}
	return body, nil
}

// errorDetail extracts the "detail" message of an error body.
func errorDetail(body []byte) string {
	var payload struct {
		Detail any `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return GenericErrorMessage
	}
	if s, ok := payload.Detail.(string); ok && strings.TrimSpace(s) != "" {
		return s
	}
	return GenericErrorMessage
}
