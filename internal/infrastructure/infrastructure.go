// Package infrastructure provides core service initialization for application startup.
// It assembles common dependencies (logging, database, the LLM client) that domain
// systems require.
package infrastructure

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"mapstudio/internal/config"
	"mapstudio/internal/llm"
	"mapstudio/pkg/database"
	"mapstudio/pkg/lifecycle"
)

// Infrastructure holds the core systems required by all domain modules.
// It provides a single point of initialization for lifecycle coordination,
// logging, database access, and the LLM client. LLM is nil when no API key
// is configured; the resolver degrades to its lexical tier.
type Infrastructure struct {
	Lifecycle *lifecycle.Coordinator
	Logger    *slog.Logger
	Database  database.System
	LLM       *llm.Client
	CallLog   *llm.CallLog
}

// New creates an Infrastructure from the application configuration.
// It initializes all systems but does not start them; call Start separately.
func New(ctx context.Context, cfg *config.Config) (*Infrastructure, error) {
	lc := lifecycle.New()
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	db, err := database.New(&cfg.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("database init failed: %w", err)
	}

	callLog := llm.NewCallLog(db.Connection(), logger)

	var client *llm.Client
	if cfg.LLM.Enabled() {
		client, err = llm.New(ctx, llm.Config{
			APIKey:         cfg.LLM.APIKey,
			Model:          cfg.LLM.Model,
			EmbeddingModel: cfg.LLM.EmbeddingModel,
			Temperature:    cfg.LLM.Temperature,
		}, logger, callLog)
		if err != nil {
			return nil, fmt.Errorf("llm init failed: %w", err)
		}
	} else {
		logger.Warn("llm api key not configured, semantic tiers disabled")
	}

	return &Infrastructure{
		Lifecycle: lc,
		Logger:    logger,
		Database:  db,
		LLM:       client,
		CallLog:   callLog,
	}, nil
}

// Start registers all infrastructure systems with the lifecycle coordinator.
func (i *Infrastructure) Start() error {
	if err := i.Database.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("database start failed: %w", err)
	}
	return nil
}
