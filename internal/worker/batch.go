package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/synnbad/fixbot/internal/model"
)

// Scanner is the part of the scan pipeline a batch needs
type Scanner interface {
	Scan(ctx context.Context, url string) (*model.Report, error)
}

// Outcome is the result of scanning one URL in a batch
type Outcome struct {
	URL    string
	Report *model.Report
	Err    error
}

// Batch scans a list of URLs with a fixed number of workers. A nil
// limiter disables per-host throttling.
type Batch struct {
	scanner Scanner
	limiter *HostLimiter
	workers int
}

// NewBatch creates a batch runner
func NewBatch(scanner Scanner, workers int, limiter *HostLimiter) *Batch {
	if workers <= 0 {
		workers = 1
	}
	return &Batch{
		scanner: scanner,
		limiter: limiter,
		workers: workers,
	}
}

// Run scans every URL and returns outcomes in input order. A failed
// scan records its error in the outcome; it never aborts the batch.
func (b *Batch) Run(ctx context.Context, urls []string) []Outcome {
	outcomes := make([]Outcome, len(urls))
	if len(urls) == 0 {
		return outcomes
	}

	indexes := make(chan int)
	var wg sync.WaitGroup

	for w := 0; w < b.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indexes {
				outcomes[i] = b.scanOne(ctx, urls[i])
			}
		}()
	}

	for i := range urls {
		select {
		case indexes <- i:
		case <-ctx.Done():
			for j := i; j < len(urls); j++ {
				outcomes[j] = Outcome{URL: urls[j], Err: ctx.Err()}
			}
			close(indexes)
			wg.Wait()
			return outcomes
		}
	}
	close(indexes)
	wg.Wait()

	return outcomes
}

// RunFile reads a URL list file and scans it
func (b *Batch) RunFile(ctx context.Context, path string) ([]Outcome, error) {
	urls, err := ReadURLList(path)
	if err != nil {
		return nil, err
	}
	return b.Run(ctx, urls), nil
}

func (b *Batch) scanOne(ctx context.Context, url string) Outcome {
	if b.limiter != nil {
		if err := b.limiter.Wait(ctx, url); err != nil {
			return Outcome{URL: url, Err: fmt.Errorf("rate limit: %w", err)}
		}
	}

	report, err := b.scanner.Scan(ctx, url)
	return Outcome{URL: url, Report: report, Err: err}
}

// ReadURLList reads one URL per line, skipping blank lines and lines
// starting with #. Duplicate URLs are dropped, keeping first position.
func ReadURLList(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open URL list: %w", err)
	}
	defer func() { _ = file.Close() }()

	var urls []string
	seen := make(map[string]bool)

	lines := bufio.NewScanner(file)
	for lines.Scan() {
		line := strings.TrimSpace(lines.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if !seen[line] {
			seen[line] = true
			urls = append(urls, line)
		}
	}
	if err := lines.Err(); err != nil {
		return nil, fmt.Errorf("read URL list: %w", err)
	}

	return urls, nil
}
