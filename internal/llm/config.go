package llm

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Provider names accepted in Config.Provider.
const (
	ProviderAnthropic  = "anthropic"
	ProviderOpenAI     = "openai"
	ProviderGemini     = "gemini"
	ProviderOpenRouter = "openrouter"
	ProviderMock       = "mock"
)

// Config holds all provider configuration.
type Config struct {
	// Provider selects the backend. See the Provider* constants.
	Provider string

	Anthropic  AnthropicConfig
	OpenAI     OpenAIConfig
	Gemini     GeminiConfig
	OpenRouter OpenRouterConfig
	Retry      RetryConfig

	// Timeout bounds a single logical request, retries included.
	Timeout time.Duration
}

type AnthropicConfig struct {
	APIKey  string
	Model   string // Default: "claude-haiku"
	BaseURL string
}

type OpenAIConfig struct {
	APIKey  string
	Model   string // Default: "gpt-4o-mini"
	BaseURL string
}

type GeminiConfig struct {
	APIKey string
	Model  string // Default: "gemini-flash"
}

type OpenRouterConfig struct {
	APIKey  string
	Model   string // Default: "anthropic/claude-3-haiku"
	BaseURL string // Default: "https://openrouter.ai/api/v1"
}

// RetryConfig configures retry behavior for transient failures.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// DefaultConfig returns the out-of-the-box configuration: OpenRouter with a
// small Claude model, three attempts and a 30s budget.
func DefaultConfig() Config {
	return Config{
		Provider:   ProviderOpenRouter,
		Anthropic:  AnthropicConfig{Model: "claude-haiku"},
		OpenAI:     OpenAIConfig{Model: "gpt-4o-mini"},
		Gemini:     GeminiConfig{Model: "gemini-flash"},
		OpenRouter: OpenRouterConfig{Model: "anthropic/claude-3-haiku"},
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: 1 * time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2.0,
		},
		Timeout: 30 * time.Second,
	}
}

// DiscoverConfig checks the vendors' standard API key variables
// (OpenRouter, OpenAI, Anthropic, Gemini) and returns a Config for the
// first one set. ok is false when none is.
func DiscoverConfig() (cfg Config, ok bool) {
	cfg = DefaultConfig()

	switch {
	case os.Getenv("OPENROUTER_API_KEY") != "":
		cfg.Provider = ProviderOpenRouter
		cfg.OpenRouter.APIKey = os.Getenv("OPENROUTER_API_KEY")
	case os.Getenv("OPENAI_API_KEY") != "":
		cfg.Provider = ProviderOpenAI
		cfg.OpenAI.APIKey = os.Getenv("OPENAI_API_KEY")
	case os.Getenv("ANTHROPIC_API_KEY") != "":
		cfg.Provider = ProviderAnthropic
		cfg.Anthropic.APIKey = os.Getenv("ANTHROPIC_API_KEY")
	case os.Getenv("GEMINI_API_KEY") != "":
		cfg.Provider = ProviderGemini
		cfg.Gemini.APIKey = os.Getenv("GEMINI_API_KEY")
	default:
		return Config{}, false
	}
	return cfg, true
}

// HasKey reports whether the selected provider has credentials.
func (c Config) HasKey() bool {
	switch c.Provider {
	case ProviderAnthropic:
		return c.Anthropic.APIKey != ""
	case ProviderOpenAI:
		return c.OpenAI.APIKey != ""
	case ProviderGemini:
		return c.Gemini.APIKey != ""
	case ProviderOpenRouter:
		return c.OpenRouter.APIKey != ""
	case ProviderMock:
		return true
	}
	return false
}

// Validate checks that the selected provider is known and has its API key.
func (c Config) Validate() error {
	switch c.Provider {
	case ProviderAnthropic, ProviderOpenAI, ProviderGemini, ProviderOpenRouter, ProviderMock:
	default:
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	if !c.HasKey() {
		return fmt.Errorf("llm.%s.api_key (or STUDYAID_LLM_%s_API_KEY) is required for the %s provider",
			c.Provider, strings.ToUpper(c.Provider), c.Provider)
	}
	return nil
}
