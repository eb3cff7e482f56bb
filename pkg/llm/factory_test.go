package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewFromConfig(t *testing.T) {
	tests := []struct {
		name      string
		cfg       *Config
		wantNil   bool
		wantErr   bool
		wantModel string
	}{
		{
			name:    "nil config means unavailable",
			cfg:     nil,
			wantNil: true,
		},
		{
			name:    "no model means unavailable",
			cfg:     &Config{Provider: "openai", APIKey: "k"},
			wantNil: true,
		},
		{
			name:      "default provider is openai",
			cfg:       &Config{Endpoint: "https://api.openai.com/v1", Model: "gpt-4o-mini", APIKey: "k"},
			wantModel: "gpt-4o-mini",
		},
		{
			name:      "explicit openai",
			cfg:       &Config{Provider: "openai", Endpoint: "https://api.openai.com/v1", Model: "gpt-4o-mini", APIKey: "k"},
			wantModel: "gpt-4o-mini",
		},
		{
			name:    "openai without endpoint",
			cfg:     &Config{Provider: "openai", Model: "gpt-4o-mini", APIKey: "k"},
			wantErr: true,
		},
		{
			name:      "anthropic",
			cfg:       &Config{Provider: "anthropic", Model: "claude-sonnet-4-20250514", APIKey: "k"},
			wantModel: "claude-sonnet-4-20250514",
		},
		{
			name:    "unknown provider",
			cfg:     &Config{Provider: "cohere", Model: "command", APIKey: "k"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewFromConfig(tt.cfg, zap.NewNop())
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			if tt.wantNil {
				assert.Nil(t, client)
				return
			}
			require.NotNil(t, client)
			assert.Equal(t, tt.wantModel, client.GetModel())
		})
	}
}
