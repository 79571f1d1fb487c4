package score

import "github.com/synnbad/fixbot/internal/model"

// severityWeights are the exact deduction constants. Changing them breaks
// round-trip score reproducibility for stored reports.
var severityWeights = map[model.Severity]float64{
	model.SeverityCritical: 10,
	model.SeverityHigh:     5,
	model.SeverityModerate: 2,
	model.SeverityLow:      0.5,
}

// Scorer reduces an issue list to an overall score and three category
// sub-scores via severity-weighted deduction.
type Scorer struct{}

// NewScorer creates a new scorer
func NewScorer() *Scorer {
	return &Scorer{}
}

// Calculate is a pure function of the issue multiset. Each issue's weight
// is charged once against the global deduction and once against exactly
// one category accumulator; category scores are independent clamps, not
// derived from the overall score.
func (s *Scorer) Calculate(issues []model.Issue) model.ScoreBreakdown {
	var total, accessibility, contentQuality, structure float64

	for _, issue := range issues {
		weight := severityWeights[issue.Severity]
		total += weight

		switch issue.Category {
		case model.CategoryAccessibility:
			accessibility += weight
		case model.CategoryContentQuality:
			contentQuality += weight
		case model.CategoryStructure:
			structure += weight
		}
	}

	return model.ScoreBreakdown{
		Overall: clamp(100 - total),
		Categories: model.CategoryScores{
			Accessibility:  clamp(100 - accessibility),
			ContentQuality: clamp(100 - contentQuality),
			Structure:      clamp(100 - structure),
		},
	}
}

// Weight returns the deduction for a severity (0 for unrecognized values)
func Weight(sev model.Severity) float64 {
	return severityWeights[sev]
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
