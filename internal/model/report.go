package model

import "time"

// Platform identifies the content-management system behind a page
type Platform string

const (
	PlatformWordPress Platform = "wordpress"
	PlatformDrupal    Platform = "drupal"
	PlatformUmbraco   Platform = "umbraco"
	PlatformUnknown   Platform = "unknown"
)

// Confidence expresses how strong the CMS detection signal was
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
	ConfidenceNone   Confidence = "none"
)

// CMSInfo is the result of CMS detection.
// Confidence is "none" iff the platform is "unknown".
type CMSInfo struct {
	Platform   Platform   `json:"platform"`
	Confidence Confidence `json:"confidence"`
}

// CategoryScores holds the per-category scores, each clamped to [0,100]
type CategoryScores struct {
	Accessibility  float64 `json:"accessibility"`
	ContentQuality float64 `json:"contentQuality"`
	Structure      float64 `json:"structure"`
}

// ScoreBreakdown is the overall score plus independently accumulated
// category scores. Overall uses the global deduction, not the sum of
// category deductions.
type ScoreBreakdown struct {
	Overall    float64        `json:"overall"`
	Categories CategoryScores `json:"categories"`
}

// Report is the immutable snapshot of one scan's findings, scores, and
// CMS detection. Issues keep detection order: alt-text issues before
// heading issues.
type Report struct {
	ScanID    string         `json:"scanId"`
	URL       string         `json:"url"`
	Timestamp time.Time      `json:"timestamp"`
	Scores    ScoreBreakdown `json:"scores"`
	CMS       CMSInfo        `json:"cms"`
	Issues    []Issue        `json:"issues"`
}

// ScanSummary is the listing row returned by GET /api/scans
type ScanSummary struct {
	ScanID     string    `json:"scanId"`
	URL        string    `json:"url"`
	Timestamp  time.Time `json:"timestamp"`
	Score      float64   `json:"score"`
	CMS        Platform  `json:"cms"`
	IssueCount int       `json:"issueCount"`
}

// Summary builds the listing row for a report
func (r *Report) Summary() ScanSummary {
	return ScanSummary{
		ScanID:     r.ScanID,
		URL:        r.URL,
		Timestamp:  r.Timestamp,
		Score:      r.Scores.Overall,
		CMS:        r.CMS.Platform,
		IssueCount: len(r.Issues),
	}
}
