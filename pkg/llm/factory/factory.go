package factory

import (
	"fmt"

	"faith-companion-be/pkg/llm"
	"faith-companion-be/pkg/llm/ollama"
)

func NewLLMProvider(providerType, modelName, baseURL string) (llm.LLMProvider, error) {
	switch providerType {
	case "ollama":
		if baseURL == "" {
			baseURL = "http://localhost:11434" // Default
		}
		return ollama.NewOllamaProvider(baseURL, modelName), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", providerType)
	}
}

// NewStreamProvider returns the provider as a line-delimited stream source.
// Not every backend can stream NDJSON; the event pipeline requires one that
// does.
func NewStreamProvider(provider llm.LLMProvider) (llm.StreamProvider, error) {
	sp, ok := provider.(llm.StreamProvider)
	if !ok {
		return nil, fmt.Errorf("LLM provider %T does not support line-delimited streaming", provider)
	}
	return sp, nil
}
