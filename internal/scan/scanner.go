// Package scan orchestrates a full page scan: fetch, DOM fact collection,
// analyzers, CMS detection, scoring, report assembly.
package scan

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/synnbad/fixbot/internal/analyze"
	"github.com/synnbad/fixbot/internal/cache"
	"github.com/synnbad/fixbot/internal/cms"
	"github.com/synnbad/fixbot/internal/model"
	"github.com/synnbad/fixbot/internal/score"
	"github.com/synnbad/fixbot/internal/util"
)

// Scanner runs scans and assembles immutable reports
type Scanner struct {
	fetcher         *Fetcher
	altAnalyzer     *analyze.AltTextAnalyzer
	headingAnalyzer *analyze.HeadingAnalyzer
	detector        *cms.Detector
	scorer          *score.Scorer
}

// NewScanner wires a scanner from configuration
func NewScanner(cfg *model.Config) *Scanner {
	var pageCache cache.Cache
	if cfg.Cache.Enabled {
		pageCache = cache.NewLayered(cfg.Cache.MemoryTTL, cfg.Cache.Dir, cfg.Cache.DiskTTL)
	}

	var robots *util.Robots
	if cfg.HTTP.RespectRobots {
		robots = util.NewRobots(cfg.HTTP.UserAgent, cfg.HTTP.Timeout)
	}

	return &Scanner{
		fetcher:         NewFetcher(cfg.HTTP.Timeout, cfg.HTTP.UserAgent, cfg.HTTP.MaxBodyBytes, pageCache, robots),
		altAnalyzer:     analyze.NewAltTextAnalyzer(),
		headingAnalyzer: analyze.NewHeadingAnalyzer(),
		detector:        cms.NewDetector(),
		scorer:          score.NewScorer(),
	}
}

// Scan fetches the page and produces a complete report. Fetch or parse
// failures fail the whole scan; there are no partial reports.
func (s *Scanner) Scan(ctx context.Context, url string) (*model.Report, error) {
	htmlContent, err := s.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}

	facts, err := CollectFacts(htmlContent)
	if err != nil {
		return nil, fmt.Errorf("collect page facts: %w", err)
	}

	return s.Assemble(url, facts), nil
}

// Assemble builds a report from already-collected facts. Alt-text issues
// always precede heading issues; this fixes the canonical issue order for
// a given page.
func (s *Scanner) Assemble(url string, facts *model.PageFacts) *model.Report {
	issues := []model.Issue{}
	issues = append(issues, s.altAnalyzer.Analyze(facts.Images)...)
	issues = append(issues, s.headingAnalyzer.Analyze(facts.Headings)...)

	return &model.Report{
		ScanID:    uuid.NewString(),
		URL:       url,
		Timestamp: time.Now().UTC(),
		Scores:    s.scorer.Calculate(issues),
		CMS:       s.detector.Detect(facts.CMS),
		Issues:    issues,
	}
}
