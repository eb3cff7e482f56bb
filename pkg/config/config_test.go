package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("1.2.3")
	require.NoError(t, err)

	assert.Equal(t, "1.2.3", cfg.Version)
	assert.Equal(t, "127.0.0.1", cfg.BindAddr)
	assert.Equal(t, "8085", cfg.Port)
	assert.Equal(t, "local", cfg.Env)
	assert.Equal(t, "openai", cfg.AI.Provider)
	assert.Equal(t, "https://api.openai.com/v1", cfg.AI.Endpoint)
	assert.Equal(t, 2000, cfg.AI.MaxTokens)
	assert.Equal(t, 30, cfg.Odoo.TimeoutSeconds)
	assert.Equal(t, 60, cfg.Sessions.TTLMinutes)
	assert.Equal(t, 6379, cfg.Sessions.RedisPort)
	assert.Equal(t, 1, cfg.Upload.Concurrency)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("AI_PROVIDER", "anthropic")
	t.Setenv("AI_MODEL", "claude-sonnet-4-20250514")
	t.Setenv("AI_API_KEY", "secret-ai-key")
	t.Setenv("ODOO_URL", "https://crm.example.com")
	t.Setenv("ODOO_API_KEY", "secret-odoo-key")
	t.Setenv("UPLOAD_CONCURRENCY", "4")

	cfg, err := Load("dev")
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "production", cfg.Env)
	assert.Equal(t, "anthropic", cfg.AI.Provider)
	assert.Equal(t, "claude-sonnet-4-20250514", cfg.AI.Model)
	assert.Equal(t, "secret-ai-key", cfg.AI.APIKey)
	assert.Equal(t, "https://crm.example.com", cfg.Odoo.URL)
	assert.Equal(t, "secret-odoo-key", cfg.Odoo.APIKey)
	assert.Equal(t, 4, cfg.Upload.Concurrency)
}

func TestAIConfig_IsAvailable(t *testing.T) {
	assert.False(t, (&AIConfig{}).IsAvailable())
	assert.False(t, (&AIConfig{APIKey: "k"}).IsAvailable())
	// Local OpenAI-compatible endpoints may not need a key, so the model
	// alone decides availability.
	assert.True(t, (&AIConfig{Model: "gpt-4o-mini"}).IsAvailable())
}
