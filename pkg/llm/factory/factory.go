package factory

import (
	"fmt"
	"strings"

	"support-chat-be/pkg/llm"
	"support-chat-be/pkg/llm/ollama"
	"support-chat-be/pkg/llm/openai"
)

// Registry maps model identifiers to their providers. The gateway selects a
// provider by model name instead of switching on provider strings.
type Registry struct {
	providers map[string]llm.LLMProvider
}

func NewRegistry() *Registry {
	return &Registry{
		providers: make(map[string]llm.LLMProvider),
	}
}

// Register binds a model identifier to a provider. Last registration wins.
func (r *Registry) Register(modelName string, provider llm.LLMProvider) {
	r.providers[strings.ToLower(modelName)] = provider
}

// Lookup returns the provider serving the given model identifier.
func (r *Registry) Lookup(modelName string) (llm.LLMProvider, bool) {
	p, ok := r.providers[strings.ToLower(modelName)]
	return p, ok
}

// Models returns the registered model identifiers.
func (r *Registry) Models() []string {
	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	return names
}

// NewProviderForModel builds a provider backend from a model identifier.
// Models prefixed "gpt-" go to the OpenAI-compatible API; everything else is
// assumed to be served by the local Ollama daemon.
func NewProviderForModel(modelName, ollamaBaseURL, openAIBaseURL, openAIKey string) (llm.LLMProvider, error) {
	if modelName == "" {
		return nil, fmt.Errorf("model name is required")
	}
	if strings.HasPrefix(strings.ToLower(modelName), "gpt-") {
		if openAIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY is required for model %s", modelName)
		}
		return openai.NewOpenAIProvider(openAIBaseURL, openAIKey, modelName), nil
	}
	if ollamaBaseURL == "" {
		ollamaBaseURL = "http://localhost:11434" // Default
	}
	return ollama.NewOllamaProvider(ollamaBaseURL, modelName), nil
}
