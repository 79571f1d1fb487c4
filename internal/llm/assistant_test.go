package llm

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/synnbad/fixbot/internal/model"
)

type mockProvider struct {
	response  string
	err       error
	available bool
	gotSystem string
	gotTurns  []Message
}

func (m *mockProvider) Name() string { return "mock" }

func (m *mockProvider) IsAvailable(ctx context.Context) bool { return m.available }

func (m *mockProvider) Generate(ctx context.Context, systemPrompt string, history []Message) (string, error) {
	m.gotSystem = systemPrompt
	m.gotTurns = history
	if m.err != nil {
		return "", m.err
	}
	return m.response, nil
}

func assistantReport() *model.Report {
	return &model.Report{
		ScanID:    "scan-123",
		URL:       "https://example.com",
		Timestamp: time.Now().UTC(),
		Scores: model.ScoreBreakdown{
			Overall: 88,
			Categories: model.CategoryScores{
				Accessibility:  90,
				ContentQuality: 100,
				Structure:      98,
			},
		},
		CMS: model.CMSInfo{Platform: model.PlatformWordPress, Confidence: model.ConfidenceMedium},
		Issues: []model.Issue{
			{
				ID:           "alt-1",
				Title:        "Missing alt text",
				Category:     model.CategoryAccessibility,
				Severity:     model.SeverityCritical,
				Description:  "1 image has no alt attribute.",
				WhyItMatters: "Screen readers cannot describe images without alt text.",
				Evidence:     model.Evidence{Selector: "img:nth-of-type(1)", Snippet: `<img src="hero.png">`, Location: "image 1"},
				SuggestedFix: "Add a descriptive alt attribute.",
				CMSSpecificFix: map[string]string{
					"wordpress": "Open the Media Library and fill in the Alt Text field.",
				},
			},
			{
				ID:           "head-1",
				Title:        "Skipped heading level",
				Category:     model.CategoryStructure,
				Severity:     model.SeverityModerate,
				Description:  "Heading jumps from H1 to H3.",
				WhyItMatters: "Screen reader users rely on heading order to navigate.",
				Evidence:     model.Evidence{Selector: "h3:nth-of-type(1)", Snippet: "Details", Location: "heading 2"},
				SuggestedFix: "Use H2 instead of H3.",
			},
		},
	}
}

func TestAssistantDisabled(t *testing.T) {
	var a *Assistant
	if a.Enabled() {
		t.Error("nil assistant should not be enabled")
	}

	a = NewAssistant(nil)
	if a.Enabled() {
		t.Error("assistant without provider should not be enabled")
	}
	if _, err := a.Chat(context.Background(), assistantReport(), "hello", nil); err == nil {
		t.Error("expected error from disabled assistant")
	}
}

func TestAssistantChatSuccess(t *testing.T) {
	mock := &mockProvider{response: "Your image is missing alt text [Issue: alt-1]. Add a description."}
	a := NewAssistant(mock)

	resp, err := a.Chat(context.Background(), assistantReport(), "what about my images?", nil)
	if err != nil {
		t.Fatalf("Chat() error: %v", err)
	}
	if !strings.Contains(resp.Response, "[Issue: alt-1]") {
		t.Errorf("verified citation marker should survive, got %q", resp.Response)
	}
	if len(resp.Citations) != 1 || resp.Citations[0] != "alt-1" {
		t.Errorf("Citations = %v, want [alt-1]", resp.Citations)
	}
}

func TestAssistantChatSendsHistoryAndPrompt(t *testing.T) {
	mock := &mockProvider{response: "ok"}
	a := NewAssistant(mock)
	report := assistantReport()

	history := []Message{
		{Role: "user", Content: "hi"},
		{Role: "assistant", Content: "hello"},
	}
	if _, err := a.Chat(context.Background(), report, "what next?", history); err != nil {
		t.Fatalf("Chat() error: %v", err)
	}

	if len(mock.gotTurns) != 3 {
		t.Fatalf("provider received %d turns, want 3", len(mock.gotTurns))
	}
	last := mock.gotTurns[2]
	if last.Role != "user" || last.Content != "what next?" {
		t.Errorf("last turn = %+v, want current user message", last)
	}

	for _, want := range []string{
		"STRICT GROUNDING RULES",
		"Detected CMS: wordpress",
		"[ID: alt-1]",
		"[ID: head-1]",
		"Overall Score: 88/100",
		"Open the Media Library",
	} {
		if !strings.Contains(mock.gotSystem, want) {
			t.Errorf("system prompt missing %q", want)
		}
	}
}

func TestAssistantChatProviderError(t *testing.T) {
	mock := &mockProvider{err: errors.New("timeout")}
	a := NewAssistant(mock)

	_, err := a.Chat(context.Background(), assistantReport(), "hello", nil)
	if err == nil {
		t.Fatal("expected error when provider fails")
	}
	if !strings.Contains(err.Error(), "generation failed") {
		t.Errorf("error = %v, want generation failure", err)
	}
}

func TestAssistantStripsUnverifiableCitations(t *testing.T) {
	mock := &mockProvider{response: "See [Issue: alt-1] and also [Issue: made-up-id]."}
	a := NewAssistant(mock)

	resp, err := a.Chat(context.Background(), assistantReport(), "images?", nil)
	if err != nil {
		t.Fatalf("Chat() error: %v", err)
	}
	if strings.Contains(resp.Response, "made-up-id") {
		t.Errorf("fabricated citation should be stripped, got %q", resp.Response)
	}
	if len(resp.Citations) != 1 || resp.Citations[0] != "alt-1" {
		t.Errorf("Citations = %v, want [alt-1]", resp.Citations)
	}
}

func TestAssistantCitationByTitle(t *testing.T) {
	mock := &mockProvider{response: "Fix the heading order [Issue: Skipped Heading Level]."}
	a := NewAssistant(mock)

	resp, err := a.Chat(context.Background(), assistantReport(), "headings?", nil)
	if err != nil {
		t.Fatalf("Chat() error: %v", err)
	}
	if len(resp.Citations) != 1 || resp.Citations[0] != "head-1" {
		t.Errorf("Citations = %v, want [head-1]", resp.Citations)
	}
}

func TestAssistantDeduplicatesCitations(t *testing.T) {
	mock := &mockProvider{response: "[Issue: alt-1] twice [Issue: alt-1], plus [Issue: head-1]."}
	a := NewAssistant(mock)

	resp, err := a.Chat(context.Background(), assistantReport(), "everything?", nil)
	if err != nil {
		t.Fatalf("Chat() error: %v", err)
	}
	want := []string{"alt-1", "head-1"}
	if len(resp.Citations) != len(want) {
		t.Fatalf("Citations = %v, want %v", resp.Citations, want)
	}
	for i, id := range want {
		if resp.Citations[i] != id {
			t.Errorf("Citations[%d] = %s, want %s", i, resp.Citations[i], id)
		}
	}
}

func TestNewProvider(t *testing.T) {
	if p, err := NewProvider(Config{}); err != nil || p != nil {
		t.Errorf("empty provider should be disabled, got %v, %v", p, err)
	}
	if _, err := NewProvider(Config{Provider: "openai"}); err == nil {
		t.Error("openai without API key should fail")
	}
	p, err := NewProvider(Config{Provider: "ollama"})
	if err != nil || p == nil {
		t.Fatalf("ollama provider: %v", err)
	}
	if p.Name() != "ollama" {
		t.Errorf("Name() = %s, want ollama", p.Name())
	}
	if _, err := NewProvider(Config{Provider: "something-else"}); err == nil {
		t.Error("unknown provider should fail")
	}
}
