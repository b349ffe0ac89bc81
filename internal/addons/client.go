package addons

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

// DefaultURL is the wiki page listing KubeJS addons.
const DefaultURL = "https://kubejs.com/wiki/addons"

// DefaultMaxAge is how long a cached addon list stays fresh.
const DefaultMaxAge = 7 * 24 * time.Hour

// userAgent avoids the wiki's 403 on default library user agents.
const userAgent = "Mozilla/5.0 KubeJS Recipe Manager"

// Client fetches the addon list, preferring the local cache over the web.
//
// Resolution order: fresh cache, then web (result saved to the cache), then
// stale cache, then the built-in fallback list (also saved, so the next run
// has something to serve before its first successful fetch).
type Client struct {
	cache  *Cache
	http   *http.Client
	url    string
	maxAge time.Duration

	// now is replaceable in tests.
	now func() time.Time
}

// Option configures a Client.
type Option func(*Client)

// WithURL overrides the addons page URL.
func WithURL(url string) Option {
	return func(c *Client) { c.url = url }
}

// WithMaxAge overrides the cache freshness window.
func WithMaxAge(d time.Duration) Option {
	return func(c *Client) { c.maxAge = d }
}

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

// NewClient creates an addon client backed by the given cache file.
func NewClient(cachePath string, opts ...Option) *Client {
	c := &Client{
		cache:  NewCache(cachePath),
		http:   &http.Client{},
		url:    DefaultURL,
		maxAge: DefaultMaxAge,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch returns the addon list. With refresh set, the cache freshness check
// is skipped and the web is tried first; the cached list still serves as a
// fallback if the fetch fails.
//
// Fetch never returns an empty list with a nil error: every failure path
// lands on either the stale cache or the built-in fallback.
func (c *Client) Fetch(ctx context.Context, refresh bool) ([]Addon, error) {
	cached, ts, err := c.cache.Load()
	if err != nil {
		slog.Warn("addon cache unreadable", "error", err)
		cached = nil
	}

	if !refresh && len(cached) > 0 && c.now().Sub(ts) <= c.maxAge {
		slog.Debug("serving addons from cache", "count", len(cached), "written", ts)
		return cached, nil
	}

	web, err := c.fetchWeb(ctx)
	if err == nil && len(web) > 0 {
		if err := c.cache.Save(web, c.now()); err != nil {
			slog.Warn("saving addon cache failed", "error", err)
		}
		return web, nil
	}
	if err != nil {
		slog.Warn("addon web fetch failed", "url", c.url, "error", err)
	} else {
		slog.Warn("addon page yielded no addons", "url", c.url)
	}

	if len(cached) > 0 {
		slog.Info("serving stale addons from cache", "count", len(cached), "written", ts)
		return cached, nil
	}

	slog.Warn("using built-in fallback addon list")
	fallback := Fallback()
	if err := c.cache.Save(fallback, c.now()); err != nil {
		slog.Warn("saving addon cache failed", "error", err)
	}
	return fallback, nil
}

func (c *Client) fetchWeb(ctx context.Context) ([]Addon, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: HTTP %d", c.url, resp.StatusCode)
	}
	return ParseAddonsPage(resp.Body)
}
