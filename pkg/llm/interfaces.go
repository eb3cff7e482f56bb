// Package llm provides access to OpenAI-compatible and Anthropic LLM
// endpoints for the field-mapping classifier.
package llm

import "context"

// Client defines the interface for LLM text generation. Use this
// interface for dependency injection to enable mocking in tests.
type Client interface {
	// GenerateResponse generates a chat completion and returns its text
	// content.
	GenerateResponse(ctx context.Context, prompt string, systemMessage string, temperature float64) (string, error)

	// GetModel returns the configured model name.
	GetModel() string

	// GetEndpoint returns the configured endpoint.
	GetEndpoint() string
}

// Config holds configuration for creating an LLM client.
type Config struct {
	Provider  string // "openai" (any OpenAI-compatible endpoint) or "anthropic"
	Endpoint  string // Base URL, e.g. "https://api.openai.com/v1"; optional for anthropic
	Model     string // Model name, e.g. "gpt-4o"
	APIKey    string // Resolved at call time from the environment, never compiled in
	MaxTokens int    // Completion token cap; 0 uses the provider default
}
