package llm

import (
	"context"
	"fmt"

	"github.com/abhisek/studyaid/internal/store"
)

// NewProvider creates a Provider from configuration, wrapped as
// caller → timeout → retry → logging → vendor. repo may be nil, in which
// case requests are not recorded.
func NewProvider(ctx context.Context, cfg Config, repo store.EventRepo) (Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var base Provider
	var err error

	switch cfg.Provider {
	case ProviderAnthropic:
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case ProviderOpenAI:
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case ProviderGemini:
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case ProviderOpenRouter:
		base, err = NewOpenRouterProvider(cfg.OpenRouter)
	case ProviderMock:
		return NewMockProvider(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	if repo != nil {
		base = WithLogging(base, cfg.Provider, repo)
	}
	return WithTimeout(WithRetry(base, cfg.Retry), cfg.Timeout), nil
}
