package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/studyaid/internal/llm"
	"github.com/abhisek/studyaid/internal/quiz"
)

// isolate clears the variables Load reads.
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	for _, k := range []string{"OPENROUTER_API_KEY", "OPENAI_API_KEY", "ANTHROPIC_API_KEY", "GEMINI_API_KEY",
		"STUDYAID_LLM_PROVIDER", "STUDYAID_DB", "STUDYAID_LOG_LEVEL", "STUDYAID_LLM_OPENAI_API_KEY"} {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Empty(t, cfg.File)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, quiz.MaxContentChars, cfg.QuizMaxContentChars)
	assert.Equal(t, llm.ProviderOpenRouter, cfg.LLM.Provider)
	assert.Equal(t, 30*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, 3, cfg.LLM.Retry.MaxAttempts)
	assert.False(t, cfg.LLM.HasKey())
}

func TestLoad_File(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "studyaid.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
db: /tmp/study.db
log:
  level: debug
quiz:
  max_content_chars: 500
llm:
  provider: openai
  timeout: 5s
  openai:
    api_key: sk-file
    model: gpt-test
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, path, cfg.File)
	assert.Equal(t, "/tmp/study.db", cfg.DB)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 500, cfg.QuizMaxContentChars)
	assert.Equal(t, llm.ProviderOpenAI, cfg.LLM.Provider)
	assert.Equal(t, "sk-file", cfg.LLM.OpenAI.APIKey)
	assert.Equal(t, "gpt-test", cfg.LLM.OpenAI.Model)
	assert.Equal(t, 5*time.Second, cfg.LLM.Timeout)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "c.yaml")
	require.NoError(t, os.WriteFile(path, []byte("llm:\n  provider: openai\n  openai:\n    api_key: sk-file\n"), 0o644))
	t.Setenv("STUDYAID_LLM_OPENAI_API_KEY", "sk-env")
	t.Setenv("STUDYAID_LOG_LEVEL", "warn")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "sk-env", cfg.LLM.OpenAI.APIKey)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestLoad_DefaultPath(t *testing.T) {
	isolate(t)
	dir := os.Getenv("XDG_CONFIG_HOME")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "studyaid"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "studyaid", "config.yaml"), []byte("user: ada\n"), 0o644))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "ada", cfg.User)
	assert.Equal(t, filepath.Join(dir, "studyaid", "config.yaml"), cfg.File)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	isolate(t)
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_DiscoversVendorKey(t *testing.T) {
	isolate(t)
	t.Setenv("ANTHROPIC_API_KEY", "sk-ant")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, llm.ProviderAnthropic, cfg.LLM.Provider)
	assert.Equal(t, "sk-ant", cfg.LLM.Anthropic.APIKey)
	assert.NoError(t, cfg.LLM.Validate())
}

func TestLoad_ProviderFallsBackToVendorKey(t *testing.T) {
	isolate(t)
	t.Setenv("STUDYAID_LLM_PROVIDER", "openai")
	t.Setenv("OPENAI_API_KEY", "sk-openai")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "sk-openai", cfg.LLM.OpenAI.APIKey)
}

func TestSetupLogging(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.DebugLevel)

	var buf bytes.Buffer
	require.NoError(t, SetupLogging("WARN", &buf))
	log.Info().Msg("hidden")
	log.Warn().Msg("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")

	assert.Error(t, SetupLogging("loud", &buf))
	require.NoError(t, SetupLogging("", &buf))
	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
}
