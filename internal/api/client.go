package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/greenee/ecarbon/internal/httpclient"
	"github.com/greenee/ecarbon/internal/model"
)

// DefaultBaseURL is used when no API base is configured. The dashboard is
// normally deployed same-origin with the backend, so this only matters for
// local use.
const DefaultBaseURL = "http://localhost:8080"

// Config holds settings for the API client.
type Config struct {
	BaseURL string
	Cookie  string
	Timeout time.Duration
	Retries int
}

// Client is a typed binding to the eCarbon measurement backend. All state
// lives server-side; the client only carries the opaque session cookie.
type Client struct {
	base *url.URL
	http *http.Client
}

// New creates a Client from cfg.
func New(cfg Config) (*Client, error) {
	base := cfg.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	u, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("parse API base URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("API base URL must be http(s), got %q", base)
	}
	return &Client{
		base: u,
		http: httpclient.New(httpclient.Config{
			Timeout: cfg.Timeout,
			Cookie:  cfg.Cookie,
			Retries: cfg.Retries,
		}),
	}, nil
}

// LoginURL returns the browser URL that initiates the Google OAuth flow.
func (c *Client) LoginURL() string {
	return c.endpoint("/api/auth/login/google", nil)
}

func (c *Client) endpoint(path string, query url.Values) string {
	u := *c.base
	u.Path = strings.TrimRight(u.Path, "/") + path
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

func (c *Client) get(ctx context.Context, path string, query url.Values) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint(path, query), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	return c.http.Do(req)
}

func (c *Client) postForm(ctx context.Context, path string, form url.Values) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(path, nil),
		strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.http.Do(req)
}

func decode(resp *http.Response, endpoint string, v any) error {
	defer drain(resp)
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode %s response: %w", endpoint, err)
	}
	return nil
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
	_ = resp.Body.Close()
}

func isRedirect(status int) bool {
	return status == http.StatusFound || status == http.StatusSeeOther ||
		status == http.StatusMovedPermanently || status == http.StatusTemporaryRedirect
}

// Me performs the session probe. It returns ErrAuthRequired for anonymous
// sessions (401 or a redirect back to the landing page); callers treat that
// as a normal state, never as a failure.
func (c *Client) Me(ctx context.Context) (*model.UserInfo, error) {
	resp, err := c.get(ctx, "/api/user/me", nil)
	if err != nil {
		return nil, err
	}
	switch {
	case resp.StatusCode == http.StatusOK:
		var u model.UserInfo
		if err := decode(resp, "/api/user/me", &u); err != nil {
			return nil, err
		}
		return &u, nil
	case resp.StatusCode == http.StatusUnauthorized || isRedirect(resp.StatusCode):
		drain(resp)
		return nil, ErrAuthRequired
	default:
		drain(resp)
		return nil, &RequestError{Endpoint: "/api/user/me", Status: resp.StatusCode}
	}
}

// Logout ends the current session.
func (c *Client) Logout(ctx context.Context) error {
	resp, err := c.postForm(ctx, "/api/auth/logout", nil)
	if err != nil {
		return err
	}
	drain(resp)
	// The backend answers the logout POST with a redirect to the landing
	// page on success.
	if resp.StatusCode >= 200 && resp.StatusCode < 300 || isRedirect(resp.StatusCode) {
		return nil
	}
	return &RequestError{Endpoint: "/api/auth/logout", Status: resp.StatusCode}
}

// StartAnalysis asks the backend to look up a cached measurement for target.
// ErrNoCachedResult means nothing has been measured yet and the caller
// should fall back to StartMeasurement.
func (c *Client) StartAnalysis(ctx context.Context, target string) error {
	resp, err := c.postForm(ctx, "/api/start-analysis", url.Values{"url": {target}})
	if err != nil {
		return err
	}
	drain(resp)
	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusNotFound:
		return ErrNoCachedResult
	default:
		return &RequestError{Endpoint: "/api/start-analysis", Status: resp.StatusCode}
	}
}

// StartMeasurement forces a fresh measurement of target. This is the
// cold-start path and can take a while; the caller's context bounds it.
func (c *Client) StartMeasurement(ctx context.Context, target string) error {
	resp, err := c.postForm(ctx, "/api/start-measurement", url.Values{"url": {target}})
	if err != nil {
		return err
	}
	drain(resp)
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	return &RequestError{Endpoint: "/api/start-measurement", Status: resp.StatusCode}
}

// CarbonAnalysis fetches the measurement result prepared by StartAnalysis /
// StartMeasurement. ErrNotReady means the backend has no result for this
// session yet and sent the user back to the landing flow.
func (c *Client) CarbonAnalysis(ctx context.Context) (*model.MeasurementResult, error) {
	resp, err := c.get(ctx, "/api/carbon-analysis", nil)
	if err != nil {
		return nil, err
	}
	switch {
	case resp.StatusCode == http.StatusOK:
		var r model.MeasurementResult
		if err := decode(resp, "/api/carbon-analysis", &r); err != nil {
			return nil, err
		}
		return &r, nil
	case isRedirect(resp.StatusCode):
		drain(resp)
		return nil, ErrNotReady
	default:
		drain(resp)
		return nil, &RequestError{Endpoint: "/api/carbon-analysis", Status: resp.StatusCode}
	}
}

func weekQuery(weekStartDate string, category model.PlaceCategory) url.Values {
	q := url.Values{}
	if weekStartDate != "" {
		q.Set("weekStartDate", weekStartDate)
	}
	if category != "" {
		q.Set("placeCategory", strings.ToUpper(string(category)))
	}
	return q
}

// Ranking fetches the leaderboard snapshot for a week/category.
// ErrNoData marks an empty snapshot (HTTP 204).
func (c *Client) Ranking(ctx context.Context, weekStartDate string, category model.PlaceCategory) (*model.Ranking, error) {
	resp, err := c.get(ctx, "/api/ranking", weekQuery(weekStartDate, category))
	if err != nil {
		return nil, err
	}
	switch resp.StatusCode {
	case http.StatusOK:
		var r model.Ranking
		if err := decode(resp, "/api/ranking", &r); err != nil {
			return nil, err
		}
		return &r, nil
	case http.StatusNoContent:
		drain(resp)
		return nil, ErrNoData
	default:
		drain(resp)
		return nil, &RequestError{Endpoint: "/api/ranking", Status: resp.StatusCode}
	}
}

// GlobalStats fetches the aggregate breakdown (top places, country averages,
// map markers) for a week/category. ErrNoData marks HTTP 204.
func (c *Client) GlobalStats(ctx context.Context, weekStartDate string, category model.PlaceCategory) (*model.GlobalStats, error) {
	resp, err := c.get(ctx, "/api/global-stats", weekQuery(weekStartDate, category))
	if err != nil {
		return nil, err
	}
	switch resp.StatusCode {
	case http.StatusOK:
		var s model.GlobalStats
		if err := decode(resp, "/api/global-stats", &s); err != nil {
			return nil, err
		}
		return &s, nil
	case http.StatusNoContent:
		drain(resp)
		return nil, ErrNoData
	default:
		drain(resp)
		return nil, &RequestError{Endpoint: "/api/global-stats", Status: resp.StatusCode}
	}
}

// CarbonSavings fetches the savings time series for the current session's
// site.
func (c *Client) CarbonSavings(ctx context.Context) (*model.CarbonSavings, error) {
	resp, err := c.get(ctx, "/api/carbon-savings", nil)
	if err != nil {
		return nil, err
	}
	switch resp.StatusCode {
	case http.StatusOK:
		var s model.CarbonSavings
		if err := decode(resp, "/api/carbon-savings", &s); err != nil {
			return nil, err
		}
		return &s, nil
	case http.StatusNoContent:
		drain(resp)
		return nil, ErrNoData
	default:
		drain(resp)
		return nil, &RequestError{Endpoint: "/api/carbon-savings", Status: resp.StatusCode}
	}
}

// UserPage fetches the per-user reduction history. The backend redirects
// anonymous sessions to the landing page, which maps to ErrAuthRequired.
func (c *Client) UserPage(ctx context.Context) (*model.UserPage, error) {
	resp, err := c.get(ctx, "/api/user/page", nil)
	if err != nil {
		return nil, err
	}
	switch {
	case resp.StatusCode == http.StatusOK:
		var p model.UserPage
		if err := decode(resp, "/api/user/page", &p); err != nil {
			return nil, err
		}
		return &p, nil
	case resp.StatusCode == http.StatusUnauthorized || isRedirect(resp.StatusCode):
		drain(resp)
		return nil, ErrAuthRequired
	default:
		drain(resp)
		return nil, &RequestError{Endpoint: "/api/user/page", Status: resp.StatusCode}
	}
}

// SaveMeasurementToUser persists the session's last measurement into the
// logged-in user's history. Anonymous sessions get ErrAuthRequired, which
// the UI surfaces as "log in to save", not as a measurement failure.
func (c *Client) SaveMeasurementToUser(ctx context.Context) error {
	resp, err := c.postForm(ctx, "/api/save-measurement-to-user", nil)
	if err != nil {
		return err
	}
	drain(resp)
	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusUnauthorized:
		return ErrAuthRequired
	default:
		return &RequestError{Endpoint: "/api/save-measurement-to-user", Status: resp.StatusCode}
	}
}
