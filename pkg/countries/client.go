// Package countries is a read-only client for the REST Countries service.
//
// The service has two live API generations that diverge in availability per
// field. Lookups by code try the current v3.1 API first and fall back to the
// legacy v2 API, translating its response into the v3.1 shape, so callers
// only ever see one record format.
package countries

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/ImalAyodya/atlas/pkg/domain"
)

// Default endpoints for the public REST Countries deployment.
const (
	DefaultBaseURL       = "https://restcountries.com/v3.1"
	DefaultLegacyBaseURL = "https://restcountries.com/v2"
)

// Client fetches country records. It is stateless and safe for concurrent use.
type Client struct {
	baseURL    string
	legacyURL  string
	httpClient *http.Client
	logger     *zap.SugaredLogger
}

// New creates a countries client. Empty URLs select the public deployment;
// a nil logger disables logging.
func New(baseURL, legacyURL string, logger *zap.SugaredLogger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if legacyURL == "" {
		legacyURL = DefaultLegacyBaseURL
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Client{
		baseURL:   baseURL,
		legacyURL: legacyURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

// All returns every country known to the service.
func (c *Client) All(ctx context.Context) ([]domain.Country, error) {
	var out []domain.Country
	if err := c.get(ctx, c.baseURL+"/all", &out); err != nil {
		return nil, fmt.Errorf("countries.All: %w", err)
	}
	return out, nil
}

// ByRegion returns the countries of a continental region. Unknown regions
// are rejected before any request goes out.
func (c *Client) ByRegion(ctx context.Context, region string) ([]domain.Country, error) {
	if !domain.ValidRegion(region) {
		return nil, fmt.Errorf("countries.ByRegion: unknown region %q", region)
	}
	var out []domain.Country
	if err := c.get(ctx, c.baseURL+"/region/"+url.PathEscape(region), &out); err != nil {
		return nil, fmt.Errorf("countries.ByRegion: %w", err)
	}
	return out, nil
}

// ByCode looks up a single country by its alpha code. The current API is
// tried first; on any failure the legacy API is consulted and its response
// translated to the current shape. When both generations fail, the error
// from the current API is returned so the fallback never masks the root
// cause.
func (c *Client) ByCode(ctx context.Context, code string) (*domain.Country, error) {
	var out []domain.Country
	primaryErr := c.get(ctx, c.baseURL+"/alpha/"+url.PathEscape(code), &out)
	if primaryErr == nil {
		if len(out) == 0 {
			return nil, fmt.Errorf("countries.ByCode: empty response for %q", code)
		}
		return &out[0], nil
	}

	var legacy legacyCountry
	if err := c.get(ctx, c.legacyURL+"/alpha/"+url.PathEscape(code), &legacy); err != nil {
		c.logger.Debugw("legacy lookup also failed", "code", code, "err", err)
		return nil, fmt.Errorf("countries.ByCode: %w", primaryErr)
	}
	c.logger.Debugw("served country from legacy api", "code", code)
	country := legacy.toCountry()
	return &country, nil
}

// SearchByName searches countries by (partial) name. A 404 means nothing
// matched and yields an empty result rather than an error.
func (c *Client) SearchByName(ctx context.Context, name string) ([]domain.Country, error) {
	var out []domain.Country
	if err := c.get(ctx, c.baseURL+"/name/"+url.PathEscape(name), &out); err != nil {
		var statusErr *StatusError
		if errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("countries.SearchByName: %w", err)
	}
	return out, nil
}

func (c *Client) get(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck // best-effort close

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<16)) //nolint:errcheck // drain for connection reuse
		return &StatusError{StatusCode: resp.StatusCode, URL: url}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// StatusError represents a non-2xx response from the country service.
type StatusError struct {
	StatusCode int
	URL        string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d from %s", e.StatusCode, e.URL)
}
