package main

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/leadwise/lead-engine/pkg/config"
	"github.com/leadwise/lead-engine/pkg/handlers"
	"github.com/leadwise/lead-engine/pkg/llm"
	"github.com/leadwise/lead-engine/pkg/mapping"
	"github.com/leadwise/lead-engine/pkg/middleware"
	"github.com/leadwise/lead-engine/pkg/odoo"
	"github.com/leadwise/lead-engine/pkg/services"
	"github.com/leadwise/lead-engine/pkg/sessions"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	cfg, err := config.Load(Version)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := newLogger(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("configuration loaded",
		zap.String("env", cfg.Env),
		zap.String("version", cfg.Version),
		zap.String("ai_provider", cfg.AI.Provider),
		zap.Bool("classifier_available", cfg.AI.IsAvailable()),
		zap.Bool("redis_sessions", cfg.Sessions.RedisHost != ""))

	classifier, err := llm.NewFromConfig(&llm.Config{
		Provider:  cfg.AI.Provider,
		Endpoint:  cfg.AI.Endpoint,
		Model:     cfg.AI.Model,
		APIKey:    cfg.AI.APIKey,
		MaxTokens: cfg.AI.MaxTokens,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to create classifier client", zap.Error(err))
	}

	store := newSessionStore(cfg)
	mapper := mapping.NewAIMapper(classifier, logger)
	validator := services.NewValidator(logger)

	odooClient := odoo.NewClient(time.Duration(cfg.Odoo.TimeoutSeconds)*time.Second, logger)
	uploader := services.NewUploader(odooClient, cfg.Upload.Concurrency, logger)

	mux := http.NewServeMux()
	handlers.NewHealthHandler(cfg, logger).RegisterRoutes(mux)
	handlers.NewImportsHandler(store, mapper, validator, logger).RegisterRoutes(mux)
	handlers.NewOdooHandler(store, odooClient, validator, uploader, cfg.Odoo, logger).RegisterRoutes(mux)

	handler := middleware.Recoverer(logger)(middleware.RequestLogger(logger)(mux))

	addr := fmt.Sprintf("%s:%s", cfg.BindAddr, cfg.Port)
	logger.Info("starting lead-engine", zap.String("addr", addr), zap.String("version", cfg.Version))
	if err := http.ListenAndServe(addr, handler); err != nil {
		logger.Fatal("Server failed", zap.Error(err))
	}
}

func newLogger(env string) (*zap.Logger, error) {
	if env == "local" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func newSessionStore(cfg *config.Config) sessions.Store {
	ttl := time.Duration(cfg.Sessions.TTLMinutes) * time.Minute
	if cfg.Sessions.RedisHost == "" {
		return sessions.NewMemoryStore(ttl)
	}

	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Sessions.RedisHost, cfg.Sessions.RedisPort),
		Password: cfg.Sessions.RedisPassword,
		DB:       cfg.Sessions.RedisDB,
	})
	return sessions.NewRedisStore(client, ttl)
}
