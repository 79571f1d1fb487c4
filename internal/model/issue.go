package model

// Severity is the ordinal importance of an issue, driving score deduction
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityModerate Severity = "moderate"
	SeverityLow      Severity = "low"
)

// Category classifies an issue along the scoring axis
type Category string

const (
	CategoryAccessibility  Category = "accessibility"
	CategoryContentQuality Category = "content-quality"
	CategoryStructure      Category = "structure"
)

// Issue represents a single detected defect on a scanned page.
// Issues are immutable once created; identity is the ID.
type Issue struct {
	ID             string            `json:"id"`
	Title          string            `json:"title"`
	Category       Category          `json:"category"`
	Severity       Severity          `json:"severity"`
	Description    string            `json:"description"`
	WhyItMatters   string            `json:"whyItMatters"`
	Evidence       Evidence          `json:"evidence"`
	SuggestedFix   string            `json:"suggestedFix"`
	CMSSpecificFix map[string]string `json:"cmsSpecificFix,omitempty"` // keyed by platform
}

// Evidence locates an issue on the page
type Evidence struct {
	Selector string `json:"selector"`
	Snippet  string `json:"snippet"`
	Location string `json:"location"`
}
