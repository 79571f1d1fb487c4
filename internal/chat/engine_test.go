package chat

import (
	"fmt"
	"strings"
	"testing"

	"github.com/synnbad/fixbot/internal/model"
)

func altIssue(id string) model.Issue {
	return model.Issue{
		ID:           id,
		Title:        "Missing alt text on image",
		Category:     model.CategoryAccessibility,
		Severity:     model.SeverityCritical,
		Description:  "This image doesn't have alt text.",
		WhyItMatters: "Alt text helps people who can't see images understand your content.",
		Evidence:     model.Evidence{Selector: "img:nth-of-type(1)", Snippet: "<img src=\"/a.png\">", Location: "Image #1"},
		SuggestedFix: "Add an alt attribute that describes what the image shows.",
	}
}

func headingIssue(id string) model.Issue {
	return model.Issue{
		ID:           id,
		Title:        "Multiple H1 headings found",
		Category:     model.CategoryStructure,
		Severity:     model.SeverityModerate,
		Description:  "This page has 2 H1 headings.",
		WhyItMatters: "Multiple H1s can confuse screen reader users.",
		Evidence:     model.Evidence{Selector: "h1", Snippet: "Found 2 H1 elements", Location: "Page structure"},
		SuggestedFix: "Use only one H1 for the main page title.",
	}
}

func testReport(issues ...model.Issue) *model.Report {
	return &model.Report{
		ScanID: "scan-1",
		URL:    "https://example.com",
		Scores: model.ScoreBreakdown{
			Overall:    88,
			Categories: model.CategoryScores{Accessibility: 90, ContentQuality: 100, Structure: 98},
		},
		CMS:    model.CMSInfo{Platform: model.PlatformUnknown, Confidence: model.ConfidenceNone},
		Issues: issues,
	}
}

func beginner() *model.UserProfile {
	return &model.UserProfile{SkillLevel: model.SkillBeginner, Role: "content-editor", PreferredDetail: "step-by-step"}
}

func advanced() *model.UserProfile {
	return &model.UserProfile{SkillLevel: model.SkillAdvanced, Role: "developer", PreferredDetail: "technical"}
}

func assertGrounded(t *testing.T, report *model.Report, resp model.ChatResponse) {
	t.Helper()
	valid := make(map[string]bool)
	for _, issue := range report.Issues {
		valid[issue.ID] = true
	}
	seen := make(map[string]bool)
	for _, id := range resp.Citations {
		if !valid[id] {
			t.Errorf("Citation %q does not reference an issue in the report", id)
		}
		if seen[id] {
			t.Errorf("Duplicate citation %q", id)
		}
		seen[id] = true
	}
}

func TestEngine_ImageQueryCitesIssue(t *testing.T) {
	engine := NewEngine()
	report := testReport(altIssue("alt-1"))

	resp := engine.Respond(report, "tell me about images", nil)

	if len(resp.Citations) != 1 || resp.Citations[0] != "alt-1" {
		t.Errorf("Expected citation [alt-1], got %v", resp.Citations)
	}
	if !strings.Contains(resp.Response, report.Issues[0].SuggestedFix) {
		t.Errorf("Expected response to contain the suggested fix, got %q", resp.Response)
	}
	assertGrounded(t, report, resp)
}

func TestEngine_ImageQueryStyles(t *testing.T) {
	engine := NewEngine()

	t.Run("beginner with wordpress gets numbered steps", func(t *testing.T) {
		report := testReport(altIssue("alt-1"))
		report.CMS = model.CMSInfo{Platform: model.PlatformWordPress, Confidence: model.ConfidenceHigh}

		resp := engine.Respond(report, "what about my images?", beginner())

		if !strings.Contains(resp.Response, "WordPress steps") || !strings.Contains(resp.Response, "1.") {
			t.Errorf("Expected numbered WordPress steps, got %q", resp.Response)
		}
	})

	t.Run("no wordpress steps when cms unknown", func(t *testing.T) {
		report := testReport(altIssue("alt-1"))

		resp := engine.Respond(report, "what about my images?", beginner())

		if strings.Contains(resp.Response, "WordPress") {
			t.Errorf("Expected no WordPress instructions for unknown CMS, got %q", resp.Response)
		}
	})

	t.Run("advanced gets selector and WCAG reference", func(t *testing.T) {
		report := testReport(altIssue("alt-1"))

		resp := engine.Respond(report, "show me the alt problems", advanced())

		if !strings.Contains(resp.Response, "img:nth-of-type(1)") {
			t.Errorf("Expected selector in technical rendering, got %q", resp.Response)
		}
		if !strings.Contains(resp.Response, "WCAG 1.1.1") {
			t.Errorf("Expected WCAG 1.1.1 reference, got %q", resp.Response)
		}
	})
}

func TestEngine_HeadingQuery(t *testing.T) {
	engine := NewEngine()
	report := testReport(altIssue("alt-1"), headingIssue("head-1"))

	resp := engine.Respond(report, "how is my heading structure?", advanced())

	if len(resp.Citations) != 1 || resp.Citations[0] != "head-1" {
		t.Errorf("Expected citation [head-1], got %v", resp.Citations)
	}
	if !strings.Contains(resp.Response, "WCAG 1.3.1") {
		t.Errorf("Expected WCAG 1.3.1 reference, got %q", resp.Response)
	}
	assertGrounded(t, report, resp)
}

func TestEngine_OverviewCitesTopThree(t *testing.T) {
	engine := NewEngine()
	report := testReport(altIssue("a"), altIssue("b"), headingIssue("c"), headingIssue("d"))

	resp := engine.Respond(report, "give me a summary", nil)

	if len(resp.Citations) != 3 {
		t.Fatalf("Expected 3 citations, got %d", len(resp.Citations))
	}
	for i, want := range []string{"a", "b", "c"} {
		if resp.Citations[i] != want {
			t.Errorf("Citation %d: expected %s, got %s", i, want, resp.Citations[i])
		}
	}
	assertGrounded(t, report, resp)
}

func TestEngine_OverviewTechnicalVariant(t *testing.T) {
	engine := NewEngine()
	report := testReport(altIssue("a"), headingIssue("b"))

	resp := engine.Respond(report, "overview please", advanced())

	for _, want := range []string{"moderate", "low", "accessibility 90", "structure 98"} {
		if !strings.Contains(resp.Response, want) {
			t.Errorf("Expected technical overview to contain %q, got %q", want, resp.Response)
		}
	}
}

func TestEngine_OutOfScope(t *testing.T) {
	engine := NewEngine()
	report := testReport(altIssue("a"))

	for _, msg := range []string{
		"what's the weather",
		"can you change my font?",
		"I want different colors",
		"any news today?",
		"fix my layout",
	} {
		resp := engine.Respond(report, msg, beginner())
		if len(resp.Citations) != 0 {
			t.Errorf("%q: expected no citations, got %v", msg, resp.Citations)
		}
		if !strings.Contains(resp.Response, "I can only help with issues I found in your scan") {
			t.Errorf("%q: expected the fixed redirect, got %q", msg, resp.Response)
		}
	}
}

func TestEngine_ProfileBootstrap(t *testing.T) {
	engine := NewEngine()
	report := testReport(altIssue("a"))

	resp := engine.Respond(report, "hello, can you help me?", nil)

	if !resp.NeedsProfileSetup {
		t.Error("Expected needsProfileSetup to be set")
	}
	if len(resp.Citations) != 0 {
		t.Errorf("Expected no citations, got %v", resp.Citations)
	}
}

func TestEngine_BootstrapSkippedWhenProfileSupplied(t *testing.T) {
	engine := NewEngine()
	report := testReport(altIssue("a"))

	resp := engine.Respond(report, "hello!", beginner())

	if resp.NeedsProfileSetup {
		t.Error("Expected no profile setup when a profile is supplied")
	}
}

func TestEngine_SkillDeclarationBeatsBootstrap(t *testing.T) {
	engine := NewEngine()
	report := testReport(altIssue("a"))

	resp := engine.Respond(report, "hi, I'm a beginner", nil)

	if resp.NeedsProfileSetup {
		t.Error("Expected a declared level to suppress profile setup")
	}
	if len(resp.Citations) != 0 {
		t.Errorf("Expected no citations for a beginner welcome, got %v", resp.Citations)
	}
}

func TestEngine_AdvancedDeclarationCitesUpToFive(t *testing.T) {
	engine := NewEngine()

	var issues []model.Issue
	for i := 0; i < 7; i++ {
		issues = append(issues, altIssue(fmt.Sprintf("issue-%d", i)))
	}
	report := testReport(issues...)

	resp := engine.Respond(report, "I'm an advanced user", nil)

	if len(resp.Citations) != 5 {
		t.Fatalf("Expected 5 citations, got %d", len(resp.Citations))
	}
	for i := 0; i < 5; i++ {
		if resp.Citations[i] != fmt.Sprintf("issue-%d", i) {
			t.Errorf("Citation %d: expected issue-%d, got %s", i, i, resp.Citations[i])
		}
	}
	assertGrounded(t, report, resp)
}

func TestEngine_DefaultMenu(t *testing.T) {
	engine := NewEngine()
	report := testReport(altIssue("a"))

	resp := engine.Respond(report, "xyzzy", beginner())

	if len(resp.Citations) != 0 {
		t.Errorf("Expected no citations, got %v", resp.Citations)
	}
	if !strings.Contains(resp.Response, "alt text") {
		t.Errorf("Expected a topic menu, got %q", resp.Response)
	}
}

func TestEngine_ImageQueryWithoutAltIssues(t *testing.T) {
	engine := NewEngine()
	report := testReport(headingIssue("h"))

	// No alt-text issue in the report: the image rule must not match and
	// no citation may be fabricated.
	resp := engine.Respond(report, "are my pictures ok?", nil)

	assertGrounded(t, report, resp)
	for _, id := range resp.Citations {
		if id == "h" {
			continue
		}
		t.Errorf("Unexpected citation %q", id)
	}
}

func TestEngine_GroundingAcrossMessages(t *testing.T) {
	engine := NewEngine()
	report := testReport(altIssue("a"), headingIssue("b"))

	messages := []string{
		"hello", "help", "I'm a beginner", "advanced here",
		"images?", "alt text", "headings", "structure",
		"summary", "what did you find", "weather", "colors",
		"completely unrelated message",
	}

	for _, msg := range messages {
		for _, profile := range []*model.UserProfile{nil, beginner(), advanced()} {
			assertGrounded(t, report, engine.Respond(report, msg, profile))
		}
	}
}
