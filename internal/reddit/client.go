// Package reddit implements the OAuth-protected client used to verify that
// claimed reddit accounts exist.
package reddit

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"crewdesk/internal/config"
	"crewdesk/internal/models"
	"crewdesk/internal/observability"
)

// Client talks to the reddit API using the OAuth2 client-credentials flow.
// The bearer token is cached for its declared lifetime; the cache is an
// optimization only and every method works with a cold cache.
type Client struct {
	clientID     string
	clientSecret string
	userAgent    string
	tokenURL     string
	apiBaseURL   string
	httpClient   *http.Client

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

// tokenResponse holds the response from reddit's token endpoint.
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// aboutResponse is the payload of GET /user/{name}/about.
type aboutResponse struct {
	Kind string `json:"kind"`
	Data struct {
		Name string `json:"name"`
	} `json:"data"`
}

// Post is one entry of a subreddit listing.
type Post struct {
	Title      string  `json:"title"`
	Author     string  `json:"author"`
	Score      int     `json:"score"`
	Permalink  string  `json:"permalink"`
	CreatedUTC float64 `json:"created_utc"`
}

// listingResponse is the payload of listing endpoints such as /r/{sub}/top.
type listingResponse struct {
	Data struct {
		Children []struct {
			Data Post `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

// NewClient creates a reddit API client from configuration.
func NewClient(cfg *config.Config) *Client {
	timeout := time.Duration(cfg.RedditTimeoutSecs) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		clientID:     cfg.RedditClientID,
		clientSecret: cfg.RedditClientSecret,
		userAgent:    cfg.RedditUserAgent,
		tokenURL:     strings.TrimSuffix(cfg.RedditTokenURL, "/"),
		apiBaseURL:   strings.TrimSuffix(cfg.RedditAPIBaseURL, "/"),
		httpClient:   &http.Client{Timeout: timeout},
	}
}

// acquireToken returns a valid bearer token, performing the client-credentials
// exchange when the cached token is missing or near expiry.
// Missing credentials fail before any network call.
func (c *Client) acquireToken(ctx context.Context) (string, error) {
	if c.clientID == "" || c.clientSecret == "" {
		return "", models.NewConfigError("reddit client credentials are not configured")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// Refresh slightly early so a token is never served right at expiry.
	if c.accessToken != "" && c.tokenExpiry.After(time.Now().Add(30*time.Second)) {
		return c.accessToken, nil
	}

	data := url.Values{}
	data.Set("grant_type", "client_credentials")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tokenURL, strings.NewReader(data.Encode()))
	if err != nil {
		return "", models.NewInternalError(fmt.Errorf("failed to create token request: %w", err))
	}
	req.SetBasicAuth(c.clientID, c.clientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", models.NewNetworkError("reddit token endpoint unreachable", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", models.NewUpstreamError(
			fmt.Sprintf("reddit token exchange failed with status %d", resp.StatusCode),
			fmt.Errorf("upstream body: %s", string(body)),
		)
	}

	var tokenResp tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tokenResp); err != nil {
		return "", models.NewNetworkError("failed to decode reddit token response", err)
	}
	if tokenResp.AccessToken == "" {
		return "", models.NewUpstreamError("reddit token response contained no access token", nil)
	}

	c.accessToken = tokenResp.AccessToken
	c.tokenExpiry = time.Now().Add(time.Duration(tokenResp.ExpiresIn) * time.Second)
	observability.TokenRefreshes.Inc()

	return c.accessToken, nil
}

// invalidateToken drops the cached token so the next call re-authenticates.
func (c *Client) invalidateToken() {
	c.mu.Lock()
	c.accessToken = ""
	c.tokenExpiry = time.Time{}
	c.mu.Unlock()
}

// get issues an authenticated GET against the reddit API.
func (c *Client) get(ctx context.Context, path string) (*http.Response, error) {
	token, err := c.acquireToken(ctx)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiBaseURL+path, nil)
	if err != nil {
		return nil, models.NewInternalError(fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, models.NewNetworkError("reddit API unreachable", err)
	}
	return resp, nil
}

// UserExists reports whether the named reddit account exists.
// 404 is the only response that means "no": every other failure is returned
// as an error so callers never mistake an outage for a missing account.
func (c *Client) UserExists(ctx context.Context, username string) (bool, error) {
	resp, err := c.get(ctx, "/user/"+url.PathEscape(username)+"/about")
	if err != nil {
		switch models.ErrorCode(err) {
		case models.CodeNetwork:
			observability.VerificationResults.WithLabelValues("network_error").Inc()
		case models.CodeUpstream:
			observability.VerificationResults.WithLabelValues("upstream_error").Inc()
		}
		return false, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		var about aboutResponse
		if err := json.NewDecoder(resp.Body).Decode(&about); err != nil {
			observability.VerificationResults.WithLabelValues("network_error").Inc()
			return false, models.NewNetworkError("failed to decode reddit user payload", err)
		}
		observability.VerificationResults.WithLabelValues("exists").Inc()
		return true, nil

	case resp.StatusCode == http.StatusNotFound:
		observability.VerificationResults.WithLabelValues("not_found").Inc()
		return false, nil

	case resp.StatusCode == http.StatusTooManyRequests:
		observability.VerificationResults.WithLabelValues("rate_limited").Inc()
		return false, models.NewRateLimitedError("reddit API rate limit exceeded")

	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		// The cached token may have been revoked; force a fresh exchange next call.
		c.invalidateToken()
		fallthrough

	default:
		body, _ := io.ReadAll(resp.Body)
		observability.VerificationResults.WithLabelValues("upstream_error").Inc()
		return false, models.NewUpstreamError(
			fmt.Sprintf("reddit API returned status %d", resp.StatusCode),
			fmt.Errorf("upstream body: %s", string(body)),
		)
	}
}

// TopPosts returns the top posts of a community. Error mapping matches
// UserExists except that 404 here means the community itself is missing.
func (c *Client) TopPosts(ctx context.Context, community string, limit int) ([]Post, error) {
	if limit <= 0 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}

	path := fmt.Sprintf("/r/%s/top?limit=%d&t=week", url.PathEscape(community), limit)
	resp, err := c.get(ctx, path)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		var listing listingResponse
		if err := json.NewDecoder(resp.Body).Decode(&listing); err != nil {
			return nil, models.NewNetworkError("failed to decode reddit listing payload", err)
		}
		posts := make([]Post, 0, len(listing.Data.Children))
		for _, child := range listing.Data.Children {
			posts = append(posts, child.Data)
		}
		return posts, nil

	case resp.StatusCode == http.StatusNotFound:
		return nil, models.NewNotFoundError(fmt.Sprintf("community '%s' not found", community))

	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, models.NewRateLimitedError("reddit API rate limit exceeded")

	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		c.invalidateToken()
		fallthrough

	default:
		body, _ := io.ReadAll(resp.Body)
		return nil, models.NewUpstreamError(
			fmt.Sprintf("reddit API returned status %d", resp.StatusCode),
			fmt.Errorf("upstream body: %s", string(body)),
		)
	}
}
