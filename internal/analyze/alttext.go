package analyze

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/synnbad/fixbot/internal/model"
)

// AltTextAnalyzer flags images with missing or generic alt text
type AltTextAnalyzer struct {
	genericTerms map[string]bool
}

// NewAltTextAnalyzer creates a new alt-text analyzer
func NewAltTextAnalyzer() *AltTextAnalyzer {
	return &AltTextAnalyzer{
		genericTerms: map[string]bool{
			"image":   true,
			"photo":   true,
			"picture": true,
			"img":     true,
		},
	}
}

// Analyze walks the images in document order and emits one issue per
// offending image. An image is never flagged both missing and generic.
func (a *AltTextAnalyzer) Analyze(images []model.ImageElement) []model.Issue {
	var issues []model.Issue

	for _, img := range images {
		switch {
		case !img.HasAlt || strings.TrimSpace(img.Alt) == "":
			issues = append(issues, model.Issue{
				ID:           uuid.NewString(),
				Title:        "Missing alt text on image",
				Category:     model.CategoryAccessibility,
				Severity:     model.SeverityCritical,
				Description:  "This image doesn't have alt text, which means screen reader users won't know what it shows.",
				WhyItMatters: "Alt text helps people who can't see images understand your content.",
				Evidence: model.Evidence{
					Selector: fmt.Sprintf("img:nth-of-type(%d)", img.Index),
					Snippet:  fmt.Sprintf("<img src=%q>", truncate(img.Src, 50)),
					Location: fmt.Sprintf("Image #%d", img.Index),
				},
				SuggestedFix: `Add an alt attribute that describes what the image shows. For example: alt="Person typing on laptop"`,
				CMSSpecificFix: map[string]string{
					"wordpress": `Click on the image in your editor, then look for the "Alt text" field in the right sidebar under "Image settings".`,
				},
			})

		case a.genericTerms[strings.ToLower(strings.TrimSpace(img.Alt))]:
			issues = append(issues, model.Issue{
				ID:           uuid.NewString(),
				Title:        "Generic alt text on image",
				Category:     model.CategoryAccessibility,
				Severity:     model.SeverityModerate,
				Description:  fmt.Sprintf("This image has generic alt text (%q) that doesn't describe what it shows.", img.Alt),
				WhyItMatters: "Descriptive alt text helps everyone understand your images better.",
				Evidence: model.Evidence{
					Selector: fmt.Sprintf("img:nth-of-type(%d)", img.Index),
					Snippet:  fmt.Sprintf("<img src=%q alt=%q>", truncate(img.Src, 50), img.Alt),
					Location: fmt.Sprintf("Image #%d", img.Index),
				},
				SuggestedFix: "Replace with a description of what the image actually shows.",
			})
		}
	}

	return issues
}

// truncate shortens long attribute values for evidence snippets
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
