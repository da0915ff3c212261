// Package config loads studyaid settings from defaults, an optional YAML
// file and STUDYAID_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"

	"github.com/abhisek/studyaid/internal/llm"
	"github.com/abhisek/studyaid/internal/quiz"
)

// EnvPrefix is prepended to every environment key.
const EnvPrefix = "STUDYAID"

// Config is the resolved application configuration.
type Config struct {
	// DB is the SQLite path. Empty means the default data directory.
	DB       string
	LogLevel string
	// User is the account commands act for when --user is not given.
	User     string
	AdminKey string

	QuizMaxContentChars int

	LLM llm.Config

	// File is the config file that was read, if any.
	File string
}

// vendorKeys are the standard API key variables checked when the
// configured provider has no key of its own.
var vendorKeys = map[string]string{
	llm.ProviderOpenRouter: "OPENROUTER_API_KEY",
	llm.ProviderOpenAI:     "OPENAI_API_KEY",
	llm.ProviderAnthropic:  "ANTHROPIC_API_KEY",
	llm.ProviderGemini:     "GEMINI_API_KEY",
}

func setDefaults(v *viper.Viper) {
	d := llm.DefaultConfig()

	v.SetDefault("db", "")
	v.SetDefault("user", "")
	v.SetDefault("admin_key", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("quiz.max_content_chars", quiz.MaxContentChars)

	v.SetDefault("llm.provider", "")
	v.SetDefault("llm.timeout", d.Timeout)
	v.SetDefault("llm.retry.max_attempts", d.Retry.MaxAttempts)
	v.SetDefault("llm.retry.initial_wait", d.Retry.InitialWait)
	v.SetDefault("llm.retry.max_wait", d.Retry.MaxWait)
	v.SetDefault("llm.retry.multiplier", d.Retry.Multiplier)

	v.SetDefault("llm.anthropic.api_key", "")
	v.SetDefault("llm.anthropic.model", d.Anthropic.Model)
	v.SetDefault("llm.anthropic.base_url", "")
	v.SetDefault("llm.openai.api_key", "")
	v.SetDefault("llm.openai.model", d.OpenAI.Model)
	v.SetDefault("llm.openai.base_url", "")
	v.SetDefault("llm.gemini.api_key", "")
	v.SetDefault("llm.gemini.model", d.Gemini.Model)
	v.SetDefault("llm.openrouter.api_key", "")
	v.SetDefault("llm.openrouter.model", d.OpenRouter.Model)
	v.SetDefault("llm.openrouter.base_url", "")
}

// DefaultPath returns $XDG_CONFIG_HOME/studyaid/config.yaml.
func DefaultPath() (string, error) {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("find home directory: %w", err)
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "studyaid", "config.yaml"), nil
}

// Load resolves the configuration. An explicit path must exist; otherwise
// the default path is read when present.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		cfg.File = path
	} else if def, err := DefaultPath(); err == nil {
		v.SetConfigFile(def)
		err := v.ReadInConfig()
		var notFound viper.ConfigFileNotFoundError
		switch {
		case err == nil:
			cfg.File = def
		case errors.As(err, &notFound), errors.Is(err, os.ErrNotExist):
		default:
			return nil, fmt.Errorf("read config %s: %w", def, err)
		}
	}

	cfg.DB = v.GetString("db")
	cfg.User = v.GetString("user")
	cfg.AdminKey = v.GetString("admin_key")
	cfg.LogLevel = v.GetString("log.level")
	cfg.QuizMaxContentChars = v.GetInt("quiz.max_content_chars")
	cfg.LLM = llmConfig(v)

	log.Debug().Str("file", cfg.File).Str("provider", cfg.LLM.Provider).Msg("config loaded")
	return cfg, nil
}

func llmConfig(v *viper.Viper) llm.Config {
	c := llm.DefaultConfig()
	c.Timeout = v.GetDuration("llm.timeout")
	c.Retry = llm.RetryConfig{
		MaxAttempts: v.GetInt("llm.retry.max_attempts"),
		InitialWait: v.GetDuration("llm.retry.initial_wait"),
		MaxWait:     v.GetDuration("llm.retry.max_wait"),
		Multiplier:  v.GetFloat64("llm.retry.multiplier"),
	}
	c.Anthropic = llm.AnthropicConfig{
		APIKey:  v.GetString("llm.anthropic.api_key"),
		Model:   v.GetString("llm.anthropic.model"),
		BaseURL: v.GetString("llm.anthropic.base_url"),
	}
	c.OpenAI = llm.OpenAIConfig{
		APIKey:  v.GetString("llm.openai.api_key"),
		Model:   v.GetString("llm.openai.model"),
		BaseURL: v.GetString("llm.openai.base_url"),
	}
	c.Gemini = llm.GeminiConfig{
		APIKey: v.GetString("llm.gemini.api_key"),
		Model:  v.GetString("llm.gemini.model"),
	}
	c.OpenRouter = llm.OpenRouterConfig{
		APIKey:  v.GetString("llm.openrouter.api_key"),
		Model:   v.GetString("llm.openrouter.model"),
		BaseURL: v.GetString("llm.openrouter.base_url"),
	}

	c.Provider = strings.ToLower(v.GetString("llm.provider"))
	if c.Provider == "" {
		if found, ok := llm.DiscoverConfig(); ok {
			c.Provider = found.Provider
		} else {
			c.Provider = llm.DefaultConfig().Provider
		}
	}
	if !c.HasKey() {
		if env, ok := vendorKeys[c.Provider]; ok {
			setKey(&c, os.Getenv(env))
		}
	}
	return c
}

func setKey(c *llm.Config, key string) {
	switch c.Provider {
	case llm.ProviderAnthropic:
		c.Anthropic.APIKey = key
	case llm.ProviderOpenAI:
		c.OpenAI.APIKey = key
	case llm.ProviderGemini:
		c.Gemini.APIKey = key
	case llm.ProviderOpenRouter:
		c.OpenRouter.APIKey = key
	}
}
