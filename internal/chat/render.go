package chat

import (
	"fmt"
	"strings"

	"github.com/synnbad/fixbot/internal/model"
)

// style selects one of the three response renderings. Style and content
// selection are deliberately decoupled: every intent extracts the same
// data regardless of style.
type style string

const (
	styleDetailed  style = "detailed"  // beginner: numbered steps, CMS walkthroughs
	styleTechnical style = "technical" // advanced: selectors, WCAG references, counts
	styleConcise   style = "concise"   // default
)

func styleFor(profile *model.UserProfile) style {
	if profile == nil {
		return styleConcise
	}
	switch profile.SkillLevel {
	case model.SkillBeginner:
		return styleDetailed
	case model.SkillAdvanced:
		return styleTechnical
	default:
		return styleConcise
	}
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}

// wordPressDetected gates CMS-specific instructions
func wordPressDetected(report *model.Report) bool {
	return report.CMS.Platform == model.PlatformWordPress && report.CMS.Confidence != model.ConfidenceNone
}

func (e *Engine) handleProfileBootstrap(q query) model.ChatResponse {
	var b strings.Builder
	b.WriteString("Hi! I'm FixBot, and I'll help you fix the issues found on your page.\n\n")
	b.WriteString("So I can explain things at the right level, tell me a bit about yourself:\n\n")
	b.WriteString("- Are you a **beginner**, **intermediate**, or **advanced** user?\n")
	b.WriteString("- What's your role? (content editor, developer, designer, site owner)\n\n")
	b.WriteString("Just say something like \"I'm a beginner\" and we'll get started!")

	return model.ChatResponse{
		Response:          b.String(),
		Citations:         []string{},
		NeedsProfileSetup: true,
	}
}

func (e *Engine) handleSkillDeclaration(q query) model.ChatResponse {
	level := declaredSkill(q.message)
	report := q.report
	citations := []string{}

	var b strings.Builder
	switch level {
	case model.SkillBeginner:
		b.WriteString("Great, I'll keep things simple and walk you through each fix step by step.\n\n")
		b.WriteString(fmt.Sprintf("Your page scored **%.0f/100** and I found %d issue%s to work on. ",
			report.Scores.Overall, len(report.Issues), plural(len(report.Issues))))
		b.WriteString("Don't worry - none of this is hard to fix!\n\n")
		b.WriteString("Try asking me about images or headings to get started.")

	case model.SkillAdvanced:
		b.WriteString(fmt.Sprintf("Understood. Scan summary: overall %.0f/100, %d issue%s (%d critical, %d high).\n\n",
			report.Scores.Overall, len(report.Issues), plural(len(report.Issues)),
			severityCount(report, model.SeverityCritical), severityCount(report, model.SeverityHigh)))
		if len(report.Issues) > 0 {
			b.WriteString("Top findings:\n")
			for i, issue := range report.Issues {
				if i >= 5 {
					break
				}
				b.WriteString(fmt.Sprintf("%d. [%s/%s] %s (%s)\n", i+1, issue.Severity, issue.Category, issue.Title, issue.Evidence.Selector))
				citations = append(citations, issue.ID)
			}
		}
		b.WriteString("\nAsk about any finding for remediation details.")

	default:
		b.WriteString(fmt.Sprintf("Thanks! Your page scored %.0f/100 with %d issue%s found.\n\n",
			report.Scores.Overall, len(report.Issues), plural(len(report.Issues))))
		b.WriteString("Ask me about image alt text, heading structure, or an overall summary.")
	}

	return model.ChatResponse{Response: b.String(), Citations: citations}
}

func (e *Engine) handleImages(q query) model.ChatResponse {
	report := q.report
	issue := firstIssueByTitle(report, "alt text")

	count := 0
	for _, i := range report.Issues {
		if strings.Contains(i.Title, "alt text") {
			count++
		}
	}

	var b strings.Builder
	switch q.style {
	case styleDetailed:
		b.WriteString(fmt.Sprintf("I found %d image issue%s on your page! 📸\n\n", count, plural(count)))
		b.WriteString(fmt.Sprintf("**Issue:** %s\n", issue.Title))
		b.WriteString(fmt.Sprintf("**Why it matters:** %s\n\n", issue.WhyItMatters))
		b.WriteString(fmt.Sprintf("**How to fix it:**\n%s\n", issue.SuggestedFix))
		if wordPressDetected(report) {
			b.WriteString("\n**WordPress steps:**\n")
			b.WriteString("1. Open the page in your editor and click on the image.\n")
			b.WriteString("2. Look for the \"Alt text\" field in the right sidebar under \"Image settings\".\n")
			b.WriteString("3. Type a description of what the image shows.\n")
			b.WriteString("4. Click \"Update\" to save. 🎯\n")
		}

	case styleTechnical:
		b.WriteString(fmt.Sprintf("%d alt-text finding%s. First: %s\n\n", count, plural(count), issue.Title))
		b.WriteString(fmt.Sprintf("Selector: `%s`\n", issue.Evidence.Selector))
		b.WriteString(fmt.Sprintf("Evidence: %s\n", issue.Evidence.Snippet))
		b.WriteString(fmt.Sprintf("Severity: %s | WCAG 1.1.1 (Non-text Content)\n\n", issue.Severity))
		b.WriteString(fmt.Sprintf("Remediation: %s", issue.SuggestedFix))
		if wordPressDetected(report) {
			b.WriteString("\n\nWordPress: editable via the media block's alt text field, or programmatically via wp_get_attachment_metadata.")
		}

	default:
		b.WriteString(fmt.Sprintf("Found %d image issue%s. %s: %s\n\n", count, plural(count), issue.Title, issue.Description))
		b.WriteString(fmt.Sprintf("Fix: %s", issue.SuggestedFix))
		if wordPressDetected(report) {
			b.WriteString("\n\nWordPress tip: click the image in your editor and fill in the \"Alt text\" field in the sidebar.")
		}
	}

	return model.ChatResponse{Response: b.String(), Citations: []string{issue.ID}}
}

func (e *Engine) handleHeadings(q query) model.ChatResponse {
	report := q.report
	issue := firstIssueByCategory(report, model.CategoryStructure)

	count := 0
	for _, i := range report.Issues {
		if i.Category == model.CategoryStructure {
			count++
		}
	}

	var b strings.Builder
	switch q.style {
	case styleDetailed:
		b.WriteString("Let's talk about your page structure! 📋\n\n")
		b.WriteString(fmt.Sprintf("**Issue:** %s\n", issue.Title))
		b.WriteString(fmt.Sprintf("**Why it matters:** %s\n\n", issue.WhyItMatters))
		b.WriteString(fmt.Sprintf("**How to fix it:**\n%s\n", issue.SuggestedFix))
		if wordPressDetected(report) {
			b.WriteString("\n**WordPress steps:**\n")
			b.WriteString("1. Click on the heading you want to change.\n")
			b.WriteString("2. In the block toolbar, open the heading-level dropdown (H1, H2, ...).\n")
			b.WriteString("3. Select the correct level. Easy! ✨\n")
		}

	case styleTechnical:
		b.WriteString(fmt.Sprintf("%d structure finding%s. First: %s\n\n", count, plural(count), issue.Title))
		b.WriteString(fmt.Sprintf("Selector: `%s`\n", issue.Evidence.Selector))
		b.WriteString(fmt.Sprintf("Evidence: %s\n", issue.Evidence.Snippet))
		b.WriteString(fmt.Sprintf("Severity: %s | WCAG 1.3.1 (Info and Relationships)\n\n", issue.Severity))
		b.WriteString(fmt.Sprintf("Remediation: %s", issue.SuggestedFix))

	default:
		b.WriteString(fmt.Sprintf("Found %d structure issue%s. %s: %s\n\n", count, plural(count), issue.Title, issue.Description))
		b.WriteString(fmt.Sprintf("Fix: %s", issue.SuggestedFix))
		if wordPressDetected(report) {
			b.WriteString("\n\nWordPress tip: use the heading-level dropdown in the block toolbar to pick the right level.")
		}
	}

	return model.ChatResponse{Response: b.String(), Citations: []string{issue.ID}}
}

func (e *Engine) handleOverview(q query) model.ChatResponse {
	report := q.report
	citations := []string{}

	criticalCount := severityCount(report, model.SeverityCritical)
	highCount := severityCount(report, model.SeverityHigh)

	top := report.Issues
	if len(top) > 3 {
		top = top[:3]
	}
	for _, issue := range top {
		citations = append(citations, issue.ID)
	}

	var b strings.Builder
	switch q.style {
	case styleDetailed:
		b.WriteString("Great question! Here's what I found on your page:\n\n")
		b.WriteString(fmt.Sprintf("**Overall Score:** %.0f/100\n", report.Scores.Overall))
		b.WriteString(fmt.Sprintf("**Total Issues:** %d\n", len(report.Issues)))
		if criticalCount > 0 {
			b.WriteString(fmt.Sprintf("- %d critical issue%s\n", criticalCount, plural(criticalCount)))
		}
		if highCount > 0 {
			b.WriteString(fmt.Sprintf("- %d high priority issue%s\n", highCount, plural(highCount)))
		}
		if len(top) > 0 {
			b.WriteString("\n**Top issues to fix:**\n")
			for i, issue := range top {
				b.WriteString(fmt.Sprintf("%d. %s\n", i+1, issue.Title))
			}
		}
		b.WriteString("\nAsk me about any specific issue and I'll walk you through fixing it! 💪")

	case styleTechnical:
		moderateCount := severityCount(report, model.SeverityModerate)
		lowCount := severityCount(report, model.SeverityLow)
		b.WriteString(fmt.Sprintf("Overall %.0f/100 | %d issue%s: %d critical, %d high, %d moderate, %d low\n\n",
			report.Scores.Overall, len(report.Issues), plural(len(report.Issues)),
			criticalCount, highCount, moderateCount, lowCount))
		b.WriteString(fmt.Sprintf("Category scores: accessibility %.0f, content quality %.0f, structure %.0f\n",
			report.Scores.Categories.Accessibility, report.Scores.Categories.ContentQuality, report.Scores.Categories.Structure))
		if len(top) > 0 {
			b.WriteString("\nTop findings:\n")
			for i, issue := range top {
				b.WriteString(fmt.Sprintf("%d. [%s/%s] %s (%s)\n", i+1, issue.Severity, issue.Category, issue.Title, issue.Evidence.Selector))
			}
		}

	default:
		b.WriteString(fmt.Sprintf("Your page scored %.0f/100 with %d issue%s",
			report.Scores.Overall, len(report.Issues), plural(len(report.Issues))))
		if criticalCount > 0 || highCount > 0 {
			b.WriteString(fmt.Sprintf(" (%d critical, %d high)", criticalCount, highCount))
		}
		b.WriteString(".\n")
		if len(top) > 0 {
			b.WriteString("\nTop issues:\n")
			for i, issue := range top {
				b.WriteString(fmt.Sprintf("%d. %s\n", i+1, issue.Title))
			}
		}
		b.WriteString("\nAsk about any of them for details.")
	}

	return model.ChatResponse{Response: b.String(), Citations: citations}
}

func (e *Engine) handleOutOfScope(q query) model.ChatResponse {
	return model.ChatResponse{
		Response: "I can only help with issues I found in your scan. I didn't detect any issues related to that on this page. Try asking me about:\n\n" +
			"- Image alt text\n- Heading structure\n- Overall accessibility score\n\nWhat would you like to know? 🤔",
		Citations: []string{},
	}
}

func (e *Engine) handleDefault(q query) model.ChatResponse {
	report := q.report

	var b strings.Builder
	switch q.style {
	case styleDetailed:
		b.WriteString("I'm here to help you fix accessibility issues on your page! 🎯\n\n")
		b.WriteString(fmt.Sprintf("I found %d issue%s total. You can ask me about:\n\n", len(report.Issues), plural(len(report.Issues))))
		b.WriteString("- Image alt text problems\n- Heading structure issues\n- Overall score and priorities\n\nWhat would you like to tackle first?")

	case styleTechnical:
		b.WriteString(fmt.Sprintf("%d finding%s in this report. Available queries: alt-text findings, heading structure, score summary.",
			len(report.Issues), plural(len(report.Issues))))

	default:
		b.WriteString(fmt.Sprintf("I found %d issue%s on your page. Ask me about image alt text, heading structure, or the overall score.",
			len(report.Issues), plural(len(report.Issues))))
	}

	return model.ChatResponse{Response: b.String(), Citations: []string{}}
}
