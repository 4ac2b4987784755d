// Package api is the typed HTTP client for the journal backend.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/idilsaglam/journal/internal/model"
)

// TokenStore is the credential the client authenticates with. Token returns
// "" when not logged in; requests then go out without an Authorization header.
type TokenStore interface {
	Token() string
	Set(token string, expires *time.Time) error
	Delete() error
}

// Config holds client construction options.
type Config struct {
	BaseURL string
	Tokens  TokenStore
	Timeout time.Duration
	Logger  zerolog.Logger
}

// Client talks to the journal backend. One request per user action; no
// retries, and overlapping calls race independently.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenStore
	log        zerolog.Logger
}

// New creates a client against cfg.BaseURL. A cookie jar is attached so the
// backend can set session cookies alongside bearer auth.
func New(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	jar, _ := cookiejar.New(nil)

	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		tokens:  cfg.Tokens,
		log:     cfg.Logger,
		httpClient: &http.Client{
			Timeout: timeout,
			Jar:     jar,
		},
	}
}

// BaseURL reports the resolved backend address.
func (c *Client) BaseURL() string { return c.baseURL }

// ---------------------------------------------------
// Request/response types
// ---------------------------------------------------

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type,omitempty"`
	ExpiresIn   int64  `json:"expires_in,omitempty"`
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name,omitempty"`
}

type entryRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// ---------------------------------------------------
// Auth operations
// ---------------------------------------------------

// Login exchanges credentials for a bearer token and persists it. A token
// that fails to persist is not fatal; the session just won't survive the
// process.
func (c *Client) Login(ctx context.Context, email, password string) error {
	var res loginResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", loginRequest{Email: email, Password: password}, &res); err != nil {
		return err
	}
	if res.AccessToken == "" {
		return fmt.Errorf("login response missing access_token")
	}
	var expires *time.Time
	if res.ExpiresIn > 0 {
		t := time.Now().Add(time.Duration(res.ExpiresIn) * time.Second)
		expires = &t
	}
	if err := c.tokens.Set(res.AccessToken, expires); err != nil {
		c.log.Warn().Err(err).Msg("token not persisted")
	}
	return nil
}

// Register creates an account and returns the new user. It does not log in;
// callers chain a Login with the same credentials.
func (c *Client) Register(ctx context.Context, email, password, name string) (*model.User, error) {
	var user model.User
	if err := c.do(ctx, http.MethodPost, "/auth/register", registerRequest{Email: email, Password: password, Name: name}, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Me fetches the profile for the current token.
func (c *Client) Me(ctx context.Context) (*model.User, error) {
	var user model.User
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Logout drops the stored token. Purely local; the backend keeps no
// session state worth revoking.
func (c *Client) Logout() error {
	return c.tokens.Delete()
}

// ---------------------------------------------------
// Entry operations
// ---------------------------------------------------

// ListEntries returns the user's entries. The backend answers with either a
// bare array or an {items: [...]} wrapper; both normalize to the same slice.
func (c *Client) ListEntries(ctx context.Context) ([]model.Entry, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/entries", nil, &raw); err != nil {
		return nil, err
	}
	return normalizeEntries(raw)
}

// CreateEntry posts a new entry and returns the server's representation.
func (c *Client) CreateEntry(ctx context.Context, title, content string) (*model.Entry, error) {
	var entry model.Entry
	if err := c.do(ctx, http.MethodPost, "/entries", entryRequest{Title: title, Content: content}, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

// UpdateEntry replaces an entry's title and content.
func (c *Client) UpdateEntry(ctx context.Context, id, title, content string) (*model.Entry, error) {
	var entry model.Entry
	if err := c.do(ctx, http.MethodPut, "/entries/"+id, entryRequest{Title: title, Content: content}, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

// DeleteEntry removes an entry by id.
func (c *Client) DeleteEntry(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/entries/"+id, nil, nil)
}

func normalizeEntries(raw json.RawMessage) ([]model.Entry, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var entries []model.Entry
		if err := json.Unmarshal(trimmed, &entries); err != nil {
			return nil, fmt.Errorf("decode entries: %w", err)
		}
		return entries, nil
	}
	var wrapper struct {
		Items []model.Entry `json:"items"`
	}
	if err := json.Unmarshal(trimmed, &wrapper); err != nil {
		return nil, fmt.Errorf("decode entries: %w", err)
	}
	if wrapper.Items == nil {
		return []model.Entry{}, nil
	}
	return wrapper.Items, nil
}

// ---------------------------------------------------
// Transport
// ---------------------------------------------------

// do performs one round trip. body is marshalled as JSON when non-nil; out
// is filled from a JSON response when non-nil. Non-2xx responses come back
// as *Error.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token := c.tokens.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	c.log.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Msg("request")

	isJSON := jsonContentType(resp.Header.Get("Content-Type"))
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newStatusError(resp.StatusCode, respBody, isJSON)
	}

	if out == nil || len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}
	if !isJSON {
		return fmt.Errorf("unexpected content type %q", resp.Header.Get("Content-Type"))
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}
	return nil
}

func jsonContentType(ct string) bool {
	mediaType, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return false
	}
	return mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
}
