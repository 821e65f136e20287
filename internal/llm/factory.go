package llm

import (
	"fmt"
	"os"
)

// NewProvider creates a new LLM provider based on the given provider type and
// model. Supported provider types: "openai", "anthropic", "ollama". The
// "none" provider type returns nil without error; callers treat a nil
// Provider as "fallback only".
func NewProvider(providerType string, model string) (Provider, error) {
	switch providerType {
	case "openai":
		apiKey := os.Getenv("OPENAI_API_KEY")
		if apiKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY environment variable is not set")
		}
		return NewOpenAIProvider(apiKey, model), nil

	case "anthropic":
		apiKey := os.Getenv("ANTHROPIC_API_KEY")
		if apiKey == "" {
			return nil, fmt.Errorf("ANTHROPIC_API_KEY environment variable is not set")
		}
		return NewAnthropicProvider(apiKey, model), nil

	case "ollama":
		host := os.Getenv("OLLAMA_HOST")
		if host == "" {
			host = "http://localhost:11434"
		}
		return NewOllamaProvider(host, model), nil

	case "none", "":
		return nil, nil

	default:
		return nil, fmt.Errorf("unsupported provider type: %s", providerType)
	}
}
