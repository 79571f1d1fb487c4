package analyze

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/synnbad/fixbot/internal/model"
)

// HeadingAnalyzer flags structural problems in the heading outline:
// multiple H1s, skipped levels, and empty headings.
type HeadingAnalyzer struct{}

// NewHeadingAnalyzer creates a new heading analyzer
func NewHeadingAnalyzer() *HeadingAnalyzer {
	return &HeadingAnalyzer{}
}

// Analyze evaluates the full ordered heading list. Issues are appended in
// a fixed order: the multiple-H1 check, then skip-level violations in
// document order, then empty headings in document order.
func (a *HeadingAnalyzer) Analyze(headings []model.HeadingElement) []model.Issue {
	if len(headings) == 0 {
		return nil
	}

	var issues []model.Issue

	h1Count := 0
	for _, h := range headings {
		if h.Level == 1 {
			h1Count++
		}
	}
	if h1Count > 1 {
		issues = append(issues, model.Issue{
			ID:           uuid.NewString(),
			Title:        "Multiple H1 headings found",
			Category:     model.CategoryStructure,
			Severity:     model.SeverityModerate,
			Description:  fmt.Sprintf("This page has %d H1 headings. Pages should typically have only one main heading.", h1Count),
			WhyItMatters: "Multiple H1s can confuse screen reader users about the main topic of the page.",
			Evidence: model.Evidence{
				Selector: "h1",
				Snippet:  fmt.Sprintf("Found %d H1 elements", h1Count),
				Location: "Page structure",
			},
			SuggestedFix: "Use only one H1 for the main page title. Use H2-H6 for subheadings.",
			CMSSpecificFix: map[string]string{
				"wordpress": "Click on the heading, then use the level dropdown in the block toolbar to change it to H2 or lower.",
			},
		})
	}

	for i := 1; i < len(headings); i++ {
		prev, cur := headings[i-1], headings[i]
		if cur.Level-prev.Level > 1 {
			issues = append(issues, model.Issue{
				ID:           uuid.NewString(),
				Title:        "Skipped heading level",
				Category:     model.CategoryStructure,
				Severity:     model.SeverityModerate,
				Description:  fmt.Sprintf("Heading jumps from %s to %s, skipping a level.", prev.TagName, cur.TagName),
				WhyItMatters: "Skipping heading levels makes it harder for screen reader users to understand page structure.",
				Evidence: model.Evidence{
					Selector: fmt.Sprintf("%s:nth-of-type(%d)", strings.ToLower(cur.TagName), cur.Index),
					Snippet:  fmt.Sprintf("%s: %q -> %s: %q", prev.TagName, prev.Text, cur.TagName, cur.Text),
					Location: fmt.Sprintf("Heading #%d", cur.Index),
				},
				SuggestedFix: fmt.Sprintf("Use %s followed by H%d instead of jumping to %s.", prev.TagName, prev.Level+1, cur.TagName),
			})
		}
	}

	for _, h := range headings {
		if strings.TrimSpace(h.Text) == "" {
			issues = append(issues, model.Issue{
				ID:           uuid.NewString(),
				Title:        "Empty heading",
				Category:     model.CategoryStructure,
				Severity:     model.SeverityHigh,
				Description:  fmt.Sprintf("This %s heading is empty.", h.TagName),
				WhyItMatters: "Empty headings confuse screen reader users and provide no information.",
				Evidence: model.Evidence{
					Selector: fmt.Sprintf("%s:nth-of-type(%d)", strings.ToLower(h.TagName), h.Index),
					Snippet:  fmt.Sprintf("<%s></%s>", h.TagName, h.TagName),
					Location: fmt.Sprintf("Heading #%d", h.Index),
				},
				SuggestedFix: "Add descriptive text to the heading or remove it if not needed.",
			})
		}
	}

	return issues
}
