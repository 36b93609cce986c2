// Package github is the read-through proxy to the GitHub repositories API.
//
// The server holds a single access token; clients never see it. The
// response body is passed through verbatim — no transformation, no
// caching, no retries. An upstream failure is a terminal 500 for that
// request.
package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/oauth2"
)

const defaultAPIBase = "https://api.github.com"

// requestTimeout bounds every outbound call so a hung upstream cannot pin
// request goroutines indefinitely.
const requestTimeout = 10 * time.Second

// Client fetches public repositories for a GitHub user.
type Client struct {
	apiBase string
	http    *http.Client
}

// New creates a Client. With a non-empty token the underlying http.Client
// is built by oauth2 with a static token source, so every request carries
// the Authorization header; without one, calls go out unauthenticated
// (GitHub then applies the low anonymous rate limit). apiBase "" means the
// public API; tests point it at an httptest server.
func New(token, apiBase string) *Client {
	if apiBase == "" {
		apiBase = defaultAPIBase
	}

	httpClient := &http.Client{Timeout: requestTimeout}
	if token != "" {
		src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		httpClient = oauth2.NewClient(context.Background(), src)
		httpClient.Timeout = requestTimeout
	}

	return &Client{
		apiBase: apiBase,
		http:    httpClient,
	}
}

// Repos returns the five most recently created public repositories of the
// given user, as raw JSON.
func (c *Client) Repos(ctx context.Context, username string) (json.RawMessage, error) {
	if username == "" {
		return nil, fmt.Errorf("github: username is required")
	}

	u := fmt.Sprintf("%s/users/%s/repos?per_page=5&sort=created:asc",
		c.apiBase, url.PathEscape(username))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("github: building request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("github: calling %s: %w", u, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("github: reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("github: upstream returned %d for %s", resp.StatusCode, username)
	}

	return json.RawMessage(body), nil
}
