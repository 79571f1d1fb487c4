// Package chat implements the rule-based response engine. Given a report,
// a free-text message, and an optional user profile it selects an intent
// from an ordered rule table and renders a cited answer grounded strictly
// in the report's issues.
package chat

import (
	"strings"

	"github.com/synnbad/fixbot/internal/model"
)

// Engine answers questions about a single report. It holds no per-user
// state; the caller re-supplies the profile on every turn.
type Engine struct {
	rules []intentRule
}

// query carries one chat turn through the rule table
type query struct {
	report  *model.Report
	message string // lower-cased
	profile *model.UserProfile
	style   style
}

// intentRule pairs a predicate with a handler. Rules are evaluated in
// order; the first match wins.
type intentRule struct {
	name   string
	match  func(q query) bool
	handle func(q query) model.ChatResponse
}

// NewEngine creates an engine with the standard intent table
func NewEngine() *Engine {
	e := &Engine{}
	e.rules = []intentRule{
		{name: "profile-bootstrap", match: matchProfileBootstrap, handle: e.handleProfileBootstrap},
		{name: "skill-declaration", match: matchSkillDeclaration, handle: e.handleSkillDeclaration},
		{name: "images", match: matchImages, handle: e.handleImages},
		{name: "headings", match: matchHeadings, handle: e.handleHeadings},
		// The disallowed-topic guard outranks the generic overview
		// keywords so that "what's the weather" redirects instead of
		// matching the overview intent on "what".
		{name: "out-of-scope", match: matchOutOfScope, handle: e.handleOutOfScope},
		{name: "overview", match: matchOverview, handle: e.handleOverview},
	}
	return e
}

// Respond selects an intent and renders the answer. It never fails: a
// message matching no rule gets the default topic menu.
func (e *Engine) Respond(report *model.Report, message string, profile *model.UserProfile) model.ChatResponse {
	q := query{
		report:  report,
		message: strings.ToLower(message),
		profile: profile,
		style:   styleFor(profile),
	}

	for _, rule := range e.rules {
		if rule.match(q) {
			return rule.handle(q)
		}
	}
	return e.handleDefault(q)
}

// containsAny reports whether the message mentions any of the keywords
func containsAny(message string, keywords ...string) bool {
	for _, kw := range keywords {
		if strings.Contains(message, kw) {
			return true
		}
	}
	return false
}

// hasWord matches whole words only; greeting tokens like "hi" are too
// short for substring matching ("this" is not a greeting).
func hasWord(message string, words ...string) bool {
	for _, tok := range strings.FieldsFunc(message, func(r rune) bool {
		return !('a' <= r && r <= 'z' || '0' <= r && r <= '9')
	}) {
		for _, w := range words {
			if tok == w {
				return true
			}
		}
	}
	return false
}

func matchProfileBootstrap(q query) bool {
	if q.profile != nil {
		return false
	}
	if declaredSkill(q.message) != "" {
		return false
	}
	return hasWord(q.message, "hello", "hi", "hey", "help", "start", "started")
}

func matchSkillDeclaration(q query) bool {
	return declaredSkill(q.message) != ""
}

// declaredSkill maps skill-level synonyms in the message to a level
func declaredSkill(message string) model.SkillLevel {
	switch {
	case containsAny(message, "beginner", "new to this", "not technical", "novice"):
		return model.SkillBeginner
	case containsAny(message, "intermediate", "some experience"):
		return model.SkillIntermediate
	case containsAny(message, "advanced", "expert", "developer"):
		return model.SkillAdvanced
	}
	return ""
}

func matchImages(q query) bool {
	if !containsAny(q.message, "image", "alt", "picture") {
		return false
	}
	return firstIssueByTitle(q.report, "alt text") != nil
}

func matchHeadings(q query) bool {
	if !containsAny(q.message, "heading", "h1", "h2", "structure") {
		return false
	}
	return firstIssueByCategory(q.report, model.CategoryStructure) != nil
}

func matchOverview(q query) bool {
	return containsAny(q.message, "overview", "summary", "what", "issues", "score")
}

func matchOutOfScope(q query) bool {
	return containsAny(q.message, "color", "font", "layout", "weather", "news")
}

// firstIssueByTitle returns the first issue whose title contains substr
func firstIssueByTitle(report *model.Report, substr string) *model.Issue {
	for i := range report.Issues {
		if strings.Contains(report.Issues[i].Title, substr) {
			return &report.Issues[i]
		}
	}
	return nil
}

// firstIssueByCategory returns the first issue in the category
func firstIssueByCategory(report *model.Report, cat model.Category) *model.Issue {
	for i := range report.Issues {
		if report.Issues[i].Category == cat {
			return &report.Issues[i]
		}
	}
	return nil
}

// severityCount counts issues at the given severity
func severityCount(report *model.Report, sev model.Severity) int {
	n := 0
	for _, issue := range report.Issues {
		if issue.Severity == sev {
			n++
		}
	}
	return n
}
