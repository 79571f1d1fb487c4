package llm

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/synnbad/fixbot/internal/model"
)

var citationPattern = regexp.MustCompile(`\[Issue:\s*([^\]]+)\]`)

// Assistant wraps a Provider with the grounding contract. Every response
// is generated against the report's system prompt, and citations the
// backend emits are verified against the report before they are returned.
type Assistant struct {
	provider Provider
}

// NewAssistant creates an assistant on top of a provider. A nil provider
// produces a disabled assistant.
func NewAssistant(provider Provider) *Assistant {
	return &Assistant{provider: provider}
}

// Enabled reports whether a backend is configured
func (a *Assistant) Enabled() bool {
	return a != nil && a.provider != nil
}

// Chat generates a grounded response for one conversation turn. history
// holds prior turns; message is the current user message.
func (a *Assistant) Chat(ctx context.Context, report *model.Report, message string, history []Message) (*model.ChatResponse, error) {
	if !a.Enabled() {
		return nil, fmt.Errorf("no LLM provider configured")
	}

	turns := make([]Message, 0, len(history)+1)
	turns = append(turns, history...)
	turns = append(turns, Message{Role: "user", Content: message})

	raw, err := a.provider.Generate(ctx, BuildSystemPrompt(report), turns)
	if err != nil {
		return nil, fmt.Errorf("generation failed: %w", err)
	}

	text, citations := verifyCitations(raw, report)
	return &model.ChatResponse{
		Response:  text,
		Citations: citations,
	}, nil
}

// verifyCitations keeps only citation markers that name a real issue in
// the report. Markers are matched by issue ID first, then by
// case-insensitive title. Unverifiable markers are stripped from the
// text so a hallucinated reference never reaches the user.
func verifyCitations(text string, report *model.Report) (string, []string) {
	byID := make(map[string]string, len(report.Issues))
	byTitle := make(map[string]string, len(report.Issues))
	for _, issue := range report.Issues {
		byID[issue.ID] = issue.ID
		byTitle[strings.ToLower(issue.Title)] = issue.ID
	}

	citations := []string{}
	seen := make(map[string]bool)

	cleaned := citationPattern.ReplaceAllStringFunc(text, func(marker string) string {
		ref := strings.TrimSpace(citationPattern.FindStringSubmatch(marker)[1])

		id, ok := byID[ref]
		if !ok {
			id, ok = byTitle[strings.ToLower(ref)]
		}
		if !ok {
			return ""
		}
		if !seen[id] {
			seen[id] = true
			citations = append(citations, id)
		}
		return marker
	})

	return strings.TrimSpace(cleaned), citations
}
