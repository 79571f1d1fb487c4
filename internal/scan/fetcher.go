package scan

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/synnbad/fixbot/internal/cache"
	"github.com/synnbad/fixbot/internal/util"
)

// Fetcher retrieves page HTML. A layered cache and a robots.txt gate are
// both optional; a nil cache always fetches fresh, a nil robots checker
// skips the gate.
type Fetcher struct {
	httpClient *http.Client
	userAgent  string
	maxBytes   int64
	pageCache  cache.Cache
	robots     *util.Robots
}

// NewFetcher creates a fetcher with the given limits
func NewFetcher(timeout time.Duration, userAgent string, maxBytes int64, pageCache cache.Cache, robots *util.Robots) *Fetcher {
	return &Fetcher{
		httpClient: &http.Client{
			Timeout: timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("stopped after 3 redirects")
				}
				return nil
			},
		},
		userAgent: userAgent,
		maxBytes:  maxBytes,
		pageCache: pageCache,
		robots:    robots,
	}
}

// Fetch returns the page HTML for rawURL. Failures here are fatal to the
// scan: no partial report is ever produced from a failed fetch.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (string, error) {
	if f.pageCache != nil {
		if cached, ok := f.pageCache.Get(cache.Key(rawURL)); ok {
			return string(cached), nil
		}
	}

	if f.robots != nil {
		allowed, err := f.robots.Allowed(ctx, rawURL)
		if err != nil {
			return "", fmt.Errorf("robots check: %w", err)
		}
		if !allowed {
			return "", fmt.Errorf("fetch disallowed by robots.txt: %s", rawURL)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("unexpected status: %d %s", resp.StatusCode, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes))
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}

	if f.pageCache != nil {
		_ = f.pageCache.Set(cache.Key(rawURL), body, 0)
	}

	return string(body), nil
}
