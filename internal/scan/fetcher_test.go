package scan

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/synnbad/fixbot/internal/cache"
	"github.com/synnbad/fixbot/internal/util"
)

func TestFetcher_RobotsDisallow(t *testing.T) {
	origin := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			_, _ = w.Write([]byte("User-agent: *\nDisallow: /private/\n"))
			return
		}
		_, _ = w.Write([]byte("<html><body>secret</body></html>"))
	}))
	defer origin.Close()

	robots := util.NewRobots("FixBot/0.2", 5*time.Second)
	fetcher := NewFetcher(5*time.Second, "FixBot/0.2", 1<<20, nil, robots)

	if _, err := fetcher.Fetch(context.Background(), origin.URL+"/private/page"); err == nil {
		t.Fatal("fetch of a disallowed path should fail")
	} else if !strings.Contains(err.Error(), "robots.txt") {
		t.Errorf("error = %v, want robots.txt disallow", err)
	}

	body, err := fetcher.Fetch(context.Background(), origin.URL+"/public/page")
	if err != nil {
		t.Fatalf("allowed path should fetch: %v", err)
	}
	if !strings.Contains(body, "secret") {
		t.Errorf("body = %q, want page content", body)
	}
}

func TestFetcher_CacheAvoidsSecondFetch(t *testing.T) {
	var hits int32
	origin := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		_, _ = w.Write([]byte("<html><body>cached page</body></html>"))
	}))
	defer origin.Close()

	fetcher := NewFetcher(5*time.Second, "FixBot/0.2", 1<<20, cache.NewMemory(time.Minute), nil)

	for i := 0; i < 2; i++ {
		body, err := fetcher.Fetch(context.Background(), origin.URL)
		if err != nil {
			t.Fatalf("fetch %d: %v", i+1, err)
		}
		if !strings.Contains(body, "cached page") {
			t.Fatalf("fetch %d body = %q", i+1, body)
		}
	}

	if got := atomic.LoadInt32(&hits); got != 1 {
		t.Errorf("origin served %d requests, want 1 (second from cache)", got)
	}
}

func TestFetcher_BodySizeCap(t *testing.T) {
	origin := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(strings.Repeat("x", 1000)))
	}))
	defer origin.Close()

	fetcher := NewFetcher(5*time.Second, "FixBot/0.2", 100, nil, nil)

	body, err := fetcher.Fetch(context.Background(), origin.URL)
	if err != nil {
		t.Fatalf("Fetch() error: %v", err)
	}
	if len(body) != 100 {
		t.Errorf("body length = %d, want capped at 100", len(body))
	}
}

func TestFetcher_RedirectCap(t *testing.T) {
	var origin *httptest.Server
	origin = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, origin.URL+r.URL.Path+"/again", http.StatusFound)
	}))
	defer origin.Close()

	fetcher := NewFetcher(5*time.Second, "FixBot/0.2", 1<<20, nil, nil)

	if _, err := fetcher.Fetch(context.Background(), origin.URL); err == nil {
		t.Error("endless redirects should fail the fetch")
	}
}
