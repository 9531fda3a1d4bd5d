package providers

import (
	"margin/pkg/ai"
)

// Mistral exposes an OpenAI-compatible chat completions endpoint, so the
// provider reuses the OpenAI client against the Mistral base URL.
const (
	mistralDefaultAPIURL = "https://api.mistral.ai/v1"
	mistralDefaultModel  = "mistral-large-latest"
)

func init() {
	ai.RegisterProvider(ai.ProviderInfo{
		Type:        ai.ProviderMistral,
		Name:        "Mistral",
		Description: "Mistral AI via its OpenAI-compatible API",
		RequiresKey: true,
	}, NewMistralProvider)
}

// NewMistralProvider creates a Mistral provider from config.
func NewMistralProvider(cfg ai.ProviderConfig) (ai.Provider, error) {
	if cfg.APIURL == "" {
		cfg.APIURL = mistralDefaultAPIURL
	}
	return newOpenAICompatible(cfg, mistralDefaultAPIURL, mistralDefaultModel, "mistral")
}
