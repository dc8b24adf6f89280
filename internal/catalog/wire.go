package catalog

import (
	"github.com/brandpulse/citation-service/internal/config"
	"github.com/brandpulse/citation-service/internal/llm"
	"github.com/brandpulse/citation-service/internal/model"
)

// FromConfig builds the production registry: every supported platform in
// canonical order, with clients constructed from configured credentials.
// Platforms with missing keys are still registered — the credential check
// happens per invocation, failing that platform only, never the process.
func FromConfig(cfg config.ProvidersConfig) (*Registry, error) {
	return New(
		Entry{
			Platform: model.PlatformAnthropic,
			Models:   cfg.Anthropic.Models,
			Client:   llm.NewAnthropicClient(cfg.Anthropic.APIKey),
		},
		Entry{
			Platform: model.PlatformOpenAI,
			Models:   cfg.OpenAI.Models,
			Client:   llm.NewOpenAIClient(cfg.OpenAI.APIKey),
		},
		Entry{
			Platform: model.PlatformGemini,
			Models:   cfg.Gemini.Models,
			Client:   llm.NewGeminiClient(cfg.Gemini.APIKey),
		},
		Entry{
			Platform: model.PlatformPerplexity,
			Models:   cfg.Perplexity.Models,
			Client:   llm.NewPerplexityClient(cfg.Perplexity.APIKey),
		},
	)
}
