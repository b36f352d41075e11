// Package backend is the client for the first-party Atlas API: account
// authentication and the per-user favorites resource.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ImalAyodya/atlas/pkg/domain"
)

// Client is the Atlas backend API client. The bearer token it sends is
// swapped by the session store across login/logout, so token access is
// mutex-guarded.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.SugaredLogger

	mu    sync.RWMutex
	token string
}

// New creates a backend client. A nil logger disables logging.
func New(baseURL, token string, logger *zap.SugaredLogger) *Client {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Client{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

// SetToken replaces the bearer token sent on authenticated requests.
// An empty token means requests go out unauthenticated.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// Token returns the bearer token currently in use.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// AuthResponse is the body returned by the login and register endpoints.
type AuthResponse struct {
	Token    string `json:"token"`
	ID       string `json:"_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Login exchanges credentials for a token and the user's identity.
func (c *Client) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	var resp AuthResponse
	body := map[string]string{"email": email, "password": password}
	if err := c.post(ctx, "/api/auth/login", body, &resp); err != nil {
		return nil, fmt.Errorf("backend.Login: %w", err)
	}
	return &resp, nil
}

// Register creates an account. A successful registration returns the same
// shape as Login, so the caller can treat it as an implicit sign-in.
func (c *Client) Register(ctx context.Context, username, email, password string) (*AuthResponse, error) {
	var resp AuthResponse
	body := map[string]string{"username": username, "email": email, "password": password}
	if err := c.post(ctx, "/api/auth/register", body, &resp); err != nil {
		return nil, fmt.Errorf("backend.Register: %w", err)
	}
	return &resp, nil
}

// Profile returns the user the current token belongs to.
func (c *Client) Profile(ctx context.Context) (*domain.User, error) {
	var u domain.User
	if err := c.get(ctx, "/api/auth/profile", &u); err != nil {
		return nil, fmt.Errorf("backend.Profile: %w", err)
	}
	return &u, nil
}

// ListFavorites returns the current user's saved countries. A 401 is
// detectable via IsSessionExpired on the returned error.
func (c *Client) ListFavorites(ctx context.Context) ([]domain.Favorite, error) {
	var favs []domain.Favorite
	if err := c.get(ctx, "/api/favorites", &favs); err != nil {
		return nil, fmt.Errorf("backend.ListFavorites: %w", err)
	}
	return favs, nil
}

// CheckFavorite reports whether the given country is saved. Any failure is
// reported as "not a favorite"; transient errors are indistinguishable from
// an absent favorite by design of the upstream contract.
func (c *Client) CheckFavorite(ctx context.Context, code string) bool {
	var resp struct {
		IsFavorite bool `json:"isFavorite"`
	}
	if err := c.get(ctx, "/api/favorites/check/"+url.PathEscape(code), &resp); err != nil {
		c.logger.Debugw("favorite check failed", "code", code, "err", err)
		return false
	}
	return resp.IsFavorite
}

// AddFavorite saves a country for the current user.
func (c *Client) AddFavorite(ctx context.Context, code, name, flag string) error {
	body := map[string]string{"countryCode": code, "name": name, "flag": flag}
	if err := c.post(ctx, "/api/favorites", body, nil); err != nil {
		return fmt.Errorf("backend.AddFavorite: %w", err)
	}
	return nil
}

// RemoveFavorite deletes a saved country.
func (c *Client) RemoveFavorite(ctx context.Context, code string) error {
	if err := c.doRequest(ctx, http.MethodDelete, "/api/favorites/"+url.PathEscape(code), nil, nil); err != nil {
		return fmt.Errorf("backend.RemoveFavorite: %w", err)
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.doRequest(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	return c.doRequest(ctx, http.MethodPost, path, body, out)
}

func (c *Client) doRequest(ctx context.Context, method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if tok := c.Token(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	req.Header.Set("X-Request-Id", uuid.NewString())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck // best-effort close

	if resp.StatusCode >= 400 {
		respBody, readErr := io.ReadAll(io.LimitReader(resp.Body, 1<<20)) // 1 MB max error body
		if readErr != nil {
			return &HTTPError{StatusCode: resp.StatusCode, Message: fmt.Sprintf("failed to read body: %v", readErr)}
		}
		// The backend reports failures as {"message": ...}; tolerate
		// {"error": ...} as well.
		var apiErr struct {
			Message string `json:"message"`
			Error   string `json:"error"`
		}
		if json.Unmarshal(respBody, &apiErr) == nil {
			if apiErr.Message != "" {
				return &HTTPError{StatusCode: resp.StatusCode, Message: apiErr.Message}
			}
			if apiErr.Error != "" {
				return &HTTPError{StatusCode: resp.StatusCode, Message: apiErr.Error}
			}
		}
		return &HTTPError{StatusCode: resp.StatusCode, Message: string(respBody)}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
