package worker

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/synnbad/fixbot/internal/model"
)

type fakeScanner struct {
	mu    sync.Mutex
	calls []string
	fail  map[string]error
	delay time.Duration

	active  int32
	maxSeen int32
}

func (f *fakeScanner) Scan(ctx context.Context, url string) (*model.Report, error) {
	cur := atomic.AddInt32(&f.active, 1)
	defer atomic.AddInt32(&f.active, -1)
	for {
		max := atomic.LoadInt32(&f.maxSeen)
		if cur <= max || atomic.CompareAndSwapInt32(&f.maxSeen, max, cur) {
			break
		}
	}

	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	f.mu.Lock()
	f.calls = append(f.calls, url)
	f.mu.Unlock()

	if err, ok := f.fail[url]; ok {
		return nil, err
	}
	return &model.Report{ScanID: "scan-" + url, URL: url}, nil
}

func TestBatch_RunPreservesOrder(t *testing.T) {
	scanner := &fakeScanner{}
	batch := NewBatch(scanner, 3, nil)

	urls := []string{
		"https://a.example/1",
		"https://b.example/2",
		"https://c.example/3",
		"https://d.example/4",
	}
	outcomes := batch.Run(context.Background(), urls)

	if len(outcomes) != len(urls) {
		t.Fatalf("got %d outcomes, want %d", len(outcomes), len(urls))
	}
	for i, out := range outcomes {
		if out.URL != urls[i] {
			t.Errorf("outcomes[%d].URL = %s, want %s", i, out.URL, urls[i])
		}
		if out.Err != nil {
			t.Errorf("outcomes[%d].Err = %v", i, out.Err)
		}
		if out.Report == nil || out.Report.URL != urls[i] {
			t.Errorf("outcomes[%d] report missing or wrong URL", i)
		}
	}
}

func TestBatch_RunRecordsFailuresWithoutAborting(t *testing.T) {
	bad := errors.New("connection refused")
	scanner := &fakeScanner{fail: map[string]error{"https://bad.example": bad}}
	batch := NewBatch(scanner, 2, nil)

	outcomes := batch.Run(context.Background(), []string{
		"https://good.example",
		"https://bad.example",
		"https://also-good.example",
	})

	if outcomes[0].Err != nil || outcomes[2].Err != nil {
		t.Error("healthy URLs should succeed")
	}
	if !errors.Is(outcomes[1].Err, bad) {
		t.Errorf("outcomes[1].Err = %v, want wrapped scan error", outcomes[1].Err)
	}
	if outcomes[1].Report != nil {
		t.Error("failed outcome should carry no report")
	}
}

func TestBatch_RunBoundsConcurrency(t *testing.T) {
	scanner := &fakeScanner{delay: 20 * time.Millisecond}
	batch := NewBatch(scanner, 2, nil)

	urls := make([]string, 8)
	for i := range urls {
		urls[i] = fmt.Sprintf("https://site%d.example", i)
	}
	batch.Run(context.Background(), urls)

	if max := atomic.LoadInt32(&scanner.maxSeen); max > 2 {
		t.Errorf("observed %d concurrent scans, want at most 2", max)
	}
}

func TestBatch_RunEmpty(t *testing.T) {
	batch := NewBatch(&fakeScanner{}, 4, nil)
	if outcomes := batch.Run(context.Background(), nil); len(outcomes) != 0 {
		t.Errorf("got %d outcomes for empty input", len(outcomes))
	}
}

func TestBatch_RunCancelled(t *testing.T) {
	scanner := &fakeScanner{delay: 50 * time.Millisecond}
	batch := NewBatch(scanner, 1, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	urls := []string{"https://a.example", "https://b.example"}
	outcomes := batch.Run(ctx, urls)

	var cancelled int
	for _, out := range outcomes {
		if errors.Is(out.Err, context.Canceled) {
			cancelled++
		}
	}
	if cancelled == 0 {
		t.Error("cancelled batch should surface context errors")
	}
}

func TestReadURLList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "urls.txt")
	content := `# batch for the docs site
https://example.com/a

https://example.com/b
https://example.com/a
  https://example.com/c
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	urls, err := ReadURLList(path)
	if err != nil {
		t.Fatalf("ReadURLList() error: %v", err)
	}
	want := []string{"https://example.com/a", "https://example.com/b", "https://example.com/c"}
	if len(urls) != len(want) {
		t.Fatalf("urls = %v, want %v", urls, want)
	}
	for i := range want {
		if urls[i] != want[i] {
			t.Errorf("urls[%d] = %s, want %s", i, urls[i], want[i])
		}
	}
}

func TestReadURLList_Missing(t *testing.T) {
	if _, err := ReadURLList(filepath.Join(t.TempDir(), "nope.txt")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestHostLimiter_Allow(t *testing.T) {
	limiter := NewHostLimiter(1, 2)

	if !limiter.Allow("https://example.com/a") {
		t.Error("first request should pass")
	}
	if !limiter.Allow("https://example.com/b") {
		t.Error("second request should consume the remaining burst")
	}
	if limiter.Allow("https://example.com/c") {
		t.Error("third immediate request should be throttled")
	}
	if !limiter.Allow("https://other.example/") {
		t.Error("distinct host should have its own limiter")
	}
}

func TestHostLimiter_WaitHonoursContext(t *testing.T) {
	limiter := NewHostLimiter(0.001, 1)
	_ = limiter.Allow("https://slow.example/") // drain the burst

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if err := limiter.Wait(ctx, "https://slow.example/"); err == nil {
		t.Error("wait should fail once the context deadline passes")
	}
}
