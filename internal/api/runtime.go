package api

import (
	"mapstudio/internal/config"
	"mapstudio/internal/infrastructure"
	"mapstudio/pkg/pagination"
)

// Runtime extends Infrastructure with API-specific configuration.
type Runtime struct {
	*infrastructure.Infrastructure
	Pagination pagination.Config
}

// NewRuntime creates an API runtime with a module-scoped logger.
func NewRuntime(cfg *config.Config, infra *infrastructure.Infrastructure) *Runtime {
	return &Runtime{
		Infrastructure: &infrastructure.Infrastructure{
			Lifecycle: infra.Lifecycle,
			Logger:    infra.Logger.With("module", "api"),
			Database:  infra.Database,
			LLM:       infra.LLM,
			CallLog:   infra.CallLog,
		},
		Pagination: cfg.API.Pagination,
	}
}
