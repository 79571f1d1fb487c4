// Package store persists scan reports as JSON files, one per scan, with
// an insertion-ordered in-memory index. Saved reports are immediately
// visible to subsequent reads.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/synnbad/fixbot/internal/model"
)

// ErrNotFound is returned when a scan id is unknown
var ErrNotFound = fmt.Errorf("report not found")

// Store is a file-backed report store
type Store struct {
	dir   string
	mu    sync.RWMutex
	order []string
	hot   *gocache.Cache // scanId -> *model.Report
}

// New opens (and creates if needed) a store rooted at dir, reloading any
// reports already on disk in timestamp order.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}

	s := &Store{
		dir: dir,
		hot: gocache.New(30*time.Minute, 10*time.Minute),
	}
	if err := s.reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Save writes the report to disk. A scan id can be written at most once;
// a second save of the same id fails.
func (s *Store) Save(report *model.Report) error {
	if report.ScanID == "" {
		return fmt.Errorf("report has no scan id")
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.OpenFile(s.path(report.ScanID), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if os.IsExist(err) {
			return fmt.Errorf("report %s already saved", report.ScanID)
		}
		return fmt.Errorf("create report file: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return fmt.Errorf("write report file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close report file: %w", err)
	}

	s.order = append(s.order, report.ScanID)
	s.hot.Set(report.ScanID, report, gocache.DefaultExpiration)
	return nil
}

// Get returns the report for scanId, or ErrNotFound
func (s *Store) Get(scanID string) (*model.Report, error) {
	if v, ok := s.hot.Get(scanID); ok {
		return v.(*model.Report), nil
	}

	s.mu.RLock()
	known := false
	for _, id := range s.order {
		if id == scanID {
			known = true
			break
		}
	}
	s.mu.RUnlock()
	if !known {
		return nil, ErrNotFound
	}

	report, err := s.read(scanID)
	if err != nil {
		return nil, err
	}
	s.hot.Set(scanID, report, gocache.DefaultExpiration)
	return report, nil
}

// List returns all stored reports in insertion order
func (s *Store) List() ([]*model.Report, error) {
	s.mu.RLock()
	ids := make([]string, len(s.order))
	copy(ids, s.order)
	s.mu.RUnlock()

	reports := make([]*model.Report, 0, len(ids))
	for _, id := range ids {
		report, err := s.Get(id)
		if err != nil {
			return nil, err
		}
		reports = append(reports, report)
	}
	return reports, nil
}

// Summaries returns the listing rows for GET /api/scans
func (s *Store) Summaries() ([]model.ScanSummary, error) {
	reports, err := s.List()
	if err != nil {
		return nil, err
	}
	summaries := make([]model.ScanSummary, 0, len(reports))
	for _, r := range reports {
		summaries = append(summaries, r.Summary())
	}
	return summaries, nil
}

func (s *Store) path(scanID string) string {
	return filepath.Join(s.dir, scanID+".json")
}

func (s *Store) read(scanID string) (*model.Report, error) {
	data, err := os.ReadFile(s.path(scanID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("read report file: %w", err)
	}

	var report model.Report
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("decode report %s: %w", scanID, err)
	}
	return &report, nil
}

// reload rebuilds the index from report files already on disk
func (s *Store) reload() error {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return fmt.Errorf("read storage dir: %w", err)
	}

	type stamped struct {
		id string
		ts time.Time
	}
	var found []stamped

	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		id := strings.TrimSuffix(e.Name(), ".json")
		report, err := s.read(id)
		if err != nil {
			continue // skip unreadable files rather than refusing to start
		}
		found = append(found, stamped{id: id, ts: report.Timestamp})
	}

	sort.Slice(found, func(i, j int) bool { return found[i].ts.Before(found[j].ts) })

	for _, f := range found {
		s.order = append(s.order, f.id)
	}
	return nil
}
