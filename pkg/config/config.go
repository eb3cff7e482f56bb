// Package config loads lead-engine configuration from config.yaml with
// environment variable overrides.
package config

import (
	"fmt"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds all configuration for lead-engine.
// Configuration can come from YAML file (config.yaml) or environment
// variables. Environment variables always override YAML values. Secrets
// (API keys, passwords) must only come from environment variables.
type Config struct {
	// Server configuration
	BindAddr string `yaml:"bind_addr" env:"BIND_ADDR" env-default:"127.0.0.1"`
	Port     string `yaml:"port" env:"PORT" env-default:"8085"`
	Env      string `yaml:"env" env:"ENVIRONMENT" env-default:"local"`
	Version  string `yaml:"-"` // Set at load time, not from config

	// AI classifier used for field mapping. Optional: with no model
	// configured the deterministic fallback mapper runs alone.
	AI AIConfig `yaml:"ai"`

	// Default Odoo connection. Requests may carry their own connection
	// settings; these act as server-side defaults.
	Odoo OdooConfig `yaml:"odoo"`

	// Import session storage
	Sessions SessionsConfig `yaml:"sessions"`

	// Upload behavior
	Upload UploadConfig `yaml:"upload"`
}

// AIConfig holds the field-mapping classifier settings.
type AIConfig struct {
	Provider  string `yaml:"provider" env:"AI_PROVIDER" env-default:"openai"`
	Endpoint  string `yaml:"endpoint" env:"AI_ENDPOINT" env-default:"https://api.openai.com/v1"`
	Model     string `yaml:"model" env:"AI_MODEL" env-default:""`
	MaxTokens int    `yaml:"max_tokens" env:"AI_MAX_TOKENS" env-default:"2000"`
	APIKey    string `yaml:"-" env:"AI_API_KEY"` // Secret - not in YAML
}

// IsAvailable returns true if a classifier is configured.
func (c *AIConfig) IsAvailable() bool {
	return c.Model != ""
}

// OdooConfig holds default Odoo CRM connection settings.
type OdooConfig struct {
	URL            string `yaml:"url" env:"ODOO_URL" env-default:""`
	Database       string `yaml:"database" env:"ODOO_DATABASE" env-default:""`
	Username       string `yaml:"username" env:"ODOO_USERNAME" env-default:""`
	APIKey         string `yaml:"-" env:"ODOO_API_KEY"` // Secret - not in YAML
	TimeoutSeconds int    `yaml:"timeout_seconds" env:"ODOO_TIMEOUT_SECONDS" env-default:"30"`
}

// SessionsConfig holds import session storage settings.
type SessionsConfig struct {
	// TTLMinutes is how long an import session stays retrievable.
	TTLMinutes int `yaml:"ttl_minutes" env:"SESSIONS_TTL_MINUTES" env-default:"60"`

	// Redis host; empty keeps sessions in process memory.
	RedisHost     string `yaml:"redis_host" env:"REDIS_HOST" env-default:""`
	RedisPort     int    `yaml:"redis_port" env:"REDIS_PORT" env-default:"6379"`
	RedisDB       int    `yaml:"redis_db" env:"REDIS_DB" env-default:"0"`
	RedisPassword string `yaml:"-" env:"REDIS_PASSWORD"` // Secret - not in YAML
}

// UploadConfig holds CRM upload settings.
type UploadConfig struct {
	// Concurrency bounds parallel record uploads. 1 keeps the upload
	// strictly sequential.
	Concurrency int `yaml:"concurrency" env:"UPLOAD_CONCURRENCY" env-default:"1"`
}

// Load reads configuration from config.yaml with environment variable
// overrides. When no config.yaml exists, the environment alone is used.
// The version parameter is injected at build time and set on the
// returned Config.
func Load(version string) (*Config, error) {
	cfg := &Config{
		Version: version,
	}

	if _, err := os.Stat("config.yaml"); err == nil {
		if err := cleanenv.ReadConfig("config.yaml", cfg); err != nil {
			return nil, fmt.Errorf("failed to read config.yaml: %w", err)
		}
	} else {
		if err := cleanenv.ReadEnv(cfg); err != nil {
			return nil, fmt.Errorf("failed to read environment: %w", err)
		}
	}

	return cfg, nil
}
