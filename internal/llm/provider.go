// Package llm delegates chat turns to a generative backend while keeping
// the report-grounding contract: the backend only ever sees the issues in
// the current report, and citations are verified against the report after
// generation.
package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/synnbad/fixbot/internal/model"
)

// Message is one turn of conversation history
type Message struct {
	Role    string `json:"role"` // "user" or "assistant"
	Content string `json:"content"`
}

// Provider is a generative backend
type Provider interface {
	// Name returns the provider name
	Name() string

	// Generate produces a completion for the system prompt plus history.
	// The last history entry is the current user message.
	Generate(ctx context.Context, systemPrompt string, history []Message) (string, error)

	// IsAvailable checks if the provider is configured and reachable
	IsAvailable(ctx context.Context) bool
}

// Config holds generative-backend configuration
type Config struct {
	Provider  string // openai, anthropic, ollama, bedrock, "" = disabled
	Model     string
	APIKey    string
	BaseURL   string
	Region    string // bedrock only
	Timeout   int    // seconds
	MaxTokens int
}

// ConfigFromModel converts the application config section
func ConfigFromModel(c model.LLMConfig) Config {
	return Config{
		Provider:  c.Provider,
		Model:     c.Model,
		APIKey:    c.APIKey,
		BaseURL:   c.BaseURL,
		Region:    c.Region,
		Timeout:   c.Timeout,
		MaxTokens: c.MaxTokens,
	}
}

// BuildSystemPrompt renders the grounding prompt for a report. The issue
// listing below is the only material the backend may discuss or cite.
func BuildSystemPrompt(report *model.Report) string {
	var b strings.Builder

	b.WriteString(`You are FixBot, a friendly accessibility assistant helping users fix issues on their website.

STRICT GROUNDING RULES:
1. You can ONLY discuss issues found in the provided scan report below
2. You MUST cite specific issue IDs when answering (format: [Issue: <id>])
3. You MUST refuse questions about content not in the report
4. You MUST NOT speculate or make up information
5. If asked about something not in the report, politely redirect to what you CAN help with

PERSONALITY GUIDELINES:
- Be warm, conversational, and encouraging
- Make accessibility feel approachable, not intimidating
- Break down complex issues into simple, actionable steps
- Avoid technical jargon unless the user asks for it

`)
	b.WriteString(fmt.Sprintf("CMS-SPECIFIC GUIDANCE:\n- Detected CMS: %s\n- Confidence: %s\n", report.CMS.Platform, report.CMS.Confidence))
	b.WriteString("- When confidence is medium or higher, provide platform-specific instructions\n\n")

	b.WriteString("SCAN REPORT CONTEXT:\n")
	b.WriteString(fmt.Sprintf("URL: %s\n", report.URL))
	b.WriteString(fmt.Sprintf("Overall Score: %.0f/100\n", report.Scores.Overall))
	b.WriteString(fmt.Sprintf("Total Issues: %d\n\nISSUES FOUND:\n", len(report.Issues)))

	for i, issue := range report.Issues {
		b.WriteString(fmt.Sprintf("\nIssue %d [ID: %s]:\n", i+1, issue.ID))
		b.WriteString(fmt.Sprintf("- Title: %s\n", issue.Title))
		b.WriteString(fmt.Sprintf("- Severity: %s\n", issue.Severity))
		b.WriteString(fmt.Sprintf("- Category: %s\n", issue.Category))
		b.WriteString(fmt.Sprintf("- Description: %s\n", issue.Description))
		b.WriteString(fmt.Sprintf("- Why it matters: %s\n", issue.WhyItMatters))
		b.WriteString(fmt.Sprintf("- Evidence: %s (Location: %s)\n", issue.Evidence.Snippet, issue.Evidence.Location))
		b.WriteString(fmt.Sprintf("- Suggested fix: %s\n", issue.SuggestedFix))
		if fix, ok := issue.CMSSpecificFix[string(report.CMS.Platform)]; ok {
			b.WriteString(fmt.Sprintf("- CMS-specific fix: %s\n", fix))
		}
	}

	b.WriteString("\nRemember: You can ONLY discuss the issues listed above. If the user asks about anything else, politely explain you can only help with issues found in this scan.")

	return b.String()
}
