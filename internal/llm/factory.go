package llm

import (
	"fmt"
	"strings"
)

// NewProvider constructs the configured backend. An empty provider name
// means generative chat is disabled and returns (nil, nil).
func NewProvider(config Config) (Provider, error) {
	switch strings.ToLower(config.Provider) {
	case "":
		return nil, nil
	case "openai":
		return NewOpenAIProvider(config)
	case "anthropic", "claude":
		return NewAnthropicProvider(config)
	case "ollama":
		return NewOllamaProvider(config)
	case "bedrock":
		return NewBedrockProvider(config)
	default:
		return nil, fmt.Errorf("unknown LLM provider: %s", config.Provider)
	}
}
