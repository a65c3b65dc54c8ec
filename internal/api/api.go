// Package api assembles the API module with all domain systems and route registration.
package api

import (
	"net/http"

	"mapstudio/internal/config"
	"mapstudio/internal/infrastructure"
	"mapstudio/pkg/middleware"
	"mapstudio/pkg/module"
	"mapstudio/pkg/openapi"
)

// NewModule creates the API module with all domain handlers and middleware.
func NewModule(cfg *config.Config, infra *infrastructure.Infrastructure) (*module.Module, error) {
	runtime := NewRuntime(cfg, infra)
	domain := NewDomain(runtime)

	mux := http.NewServeMux()
	registerRoutes(mux, domain)

	spec, err := buildSpec(cfg)
	if err != nil {
		return nil, err
	}
	mux.HandleFunc("GET /openapi.json", openapi.ServeSpec(spec))

	m := module.New(cfg.API.BasePath, mux)
	m.Use(middleware.CORS(&cfg.API.CORS))
	m.Use(middleware.MaxBytes(cfg.API.MaxBodySizeBytes()))
	m.Use(middleware.Logger(runtime.Infrastructure.Logger))

	return m, nil
}
