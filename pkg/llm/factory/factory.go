package factory

import (
	"fmt"

	"tabsensei-be/pkg/llm"
	"tabsensei-be/pkg/llm/huggingface"
	"tabsensei-be/pkg/llm/ollama"
)

// NewProvider builds the configured completion provider. apiKey is only
// used by hosted providers; baseURL only by local ones.
func NewProvider(providerType, model, baseURL, apiKey string) (llm.Provider, error) {
	switch providerType {
	case "ollama":
		return ollama.New(baseURL, model), nil
	case "huggingface":
		return huggingface.New(apiKey, "", model), nil
	default:
		return nil, fmt.Errorf("unsupported llm provider: %s", providerType)
	}
}
