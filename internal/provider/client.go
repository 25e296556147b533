// Package provider is a minimal HTTP client for the hosted platform's auth
// API. Only the capabilities this service consumes are covered: password
// sign-in and resolving a bearer token to its user.
package provider

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
)

// ErrInvalidCredentials is returned when the provider rejects a password
// sign-in. Callers map it to a generic 401 so responses cannot be used to
// enumerate accounts.
var ErrInvalidCredentials = errors.New("invalid credentials")

// User is the provider's view of an account.
type User struct {
	ID           string         `json:"id"`
	Email        string         `json:"email"`
	UserMetadata map[string]any `json:"user_metadata"`
}

// Name returns the display name from the user metadata, falling back to the
// email when no name was recorded at sign-up.
func (u User) Name() string {
	if v, ok := u.UserMetadata["name"].(string); ok && v != "" {
		return v
	}
	return u.Email
}

// Claims exposes the provider-native fields as a raw claim set.
func (u User) Claims() map[string]any {
	return map[string]any{
		"id":            u.ID,
		"email":         u.Email,
		"user_metadata": u.UserMetadata,
	}
}

// Session is the provider's password-grant response. AccessToken is returned
// to the client verbatim.
type Session struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
	User        User   `json:"user"`
}

// Client talks to the provider's REST auth endpoints.
type Client struct {
	baseURL    string
	anonKey    string
	serviceKey string
	http       *http.Client
}

// New builds a client for the given provider base URL. The anonymous key
// authenticates public endpoints; the service key is reserved for
// administrative calls and may be empty when unused.
func New(baseURL, anonKey, serviceKey string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		anonKey:    anonKey,
		serviceKey: serviceKey,
		http:       &http.Client{Timeout: 10 * time.Second},
	}
}

// BaseURL returns the provider base URL for clients that talk to the
// provider directly.
func (c *Client) BaseURL() string { return c.baseURL }

// AnonKey returns the provider's public API key. The key is designed to be
// public and is handed out by the anon-key endpoint.
func (c *Client) AnonKey() string { return c.anonKey }

// SignInWithPassword exchanges email and password for the provider's own
// session. A 400 or 401 from the provider means the credentials were wrong;
// anything else unexpected is surfaced as an error for the caller to treat
// as a backend failure.
func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (Session, error) {
	body, err := json.Marshal(map[string]string{"email": email, "password": password})
	if err != nil {
		return Session{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/auth/v1/token?grant_type=password", bytes.NewReader(body))
	if err != nil {
		return Session{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", c.anonKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return Session{}, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		var s Session
		if err := json.NewDecoder(resp.Body).Decode(&s); err != nil {
			return Session{}, err
		}
		if s.AccessToken == "" {
			return Session{}, fmt.Errorf("provider sign-in: empty access token")
		}
		return s, nil
	case http.StatusBadRequest, http.StatusUnauthorized:
		return Session{}, ErrInvalidCredentials
	default:
		return Session{}, fmt.Errorf("provider sign-in: unexpected status %d: %s",
			resp.StatusCode, readSnippet(resp.Body))
	}
}

// GetUser resolves a bearer token to its user via the provider's live
// lookup.
func (c *Client) GetUser(ctx context.Context, accessToken string) (User, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/auth/v1/user", nil)
	if err != nil {
		return User{}, err
	}
	req.Header.Set("apikey", c.anonKey)
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.http.Do(req)
	if err != nil {
		return User{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return User{}, fmt.Errorf("provider user lookup: unexpected status %d", resp.StatusCode)
	}
	var u User
	if err := json.NewDecoder(resp.Body).Decode(&u); err != nil {
		return User{}, err
	}
	if u.ID == "" {
		return User{}, fmt.Errorf("provider user lookup: response without user id")
	}
	return u, nil
}

// readSnippet returns at most the first 256 bytes of a response body for
// error messages.
func readSnippet(r io.Reader) string {
	b, _ := io.ReadAll(io.LimitReader(r, 256))
	return strings.TrimSpace(string(b))
}
