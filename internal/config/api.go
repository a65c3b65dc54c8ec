package config

import (
	"fmt"
	"os"

	"mapstudio/pkg/formatting"
	"mapstudio/pkg/middleware"
	"mapstudio/pkg/openapi"
	"mapstudio/pkg/pagination"
)

var corsEnv = &middleware.CORSEnv{
	Enabled:          "MAPSTUDIO_CORS_ENABLED",
	Origins:          "MAPSTUDIO_CORS_ORIGINS",
	AllowedMethods:   "MAPSTUDIO_CORS_ALLOWED_METHODS",
	AllowedHeaders:   "MAPSTUDIO_CORS_ALLOWED_HEADERS",
	AllowCredentials: "MAPSTUDIO_CORS_ALLOW_CREDENTIALS",
	MaxAge:           "MAPSTUDIO_CORS_MAX_AGE",
}

var paginationEnv = &pagination.ConfigEnv{
	DefaultPageSize: "MAPSTUDIO_PAGINATION_DEFAULT_PAGE_SIZE",
	MaxPageSize:     "MAPSTUDIO_PAGINATION_MAX_PAGE_SIZE",
}

var openapiEnv = &openapi.ConfigEnv{
	Title:       "MAPSTUDIO_OPENAPI_TITLE",
	Description: "MAPSTUDIO_OPENAPI_DESCRIPTION",
}

// APIConfig holds API routing, CORS, pagination, and spec settings.
type APIConfig struct {
	BasePath    string                `toml:"base_path"`
	MaxBodySize string                `toml:"max_body_size"`
	CORS        middleware.CORSConfig `toml:"cors"`
	Pagination  pagination.Config     `toml:"pagination"`
	OpenAPI     openapi.Config        `toml:"openapi"`
}

// MaxBodySizeBytes returns the request body limit in bytes. Schema uploads
// are text, so the limit is much smaller than a file-upload service would use.
func (c *APIConfig) MaxBodySizeBytes() int64 {
	size, err := formatting.ParseBytes(c.MaxBodySize)
	if err != nil {
		return 10 * 1024 * 1024 // 10MB fallback
	}
	return size
}

// Finalize applies defaults, environment variable overrides, and validation
// for the API config and its nested configs.
func (c *APIConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.CORS.Finalize(corsEnv); err != nil {
		return fmt.Errorf("cors: %w", err)
	}
	if err := c.Pagination.Finalize(paginationEnv); err != nil {
		return fmt.Errorf("pagination: %w", err)
	}
	if err := c.OpenAPI.Finalize(openapiEnv); err != nil {
		return fmt.Errorf("openapi: %w", err)
	}
	return nil
}

// Merge overwrites non-zero fields from overlay across nested configs.
func (c *APIConfig) Merge(overlay *APIConfig) {
	if overlay.BasePath != "" {
		c.BasePath = overlay.BasePath
	}
	if overlay.MaxBodySize != "" {
		c.MaxBodySize = overlay.MaxBodySize
	}

	c.CORS.Merge(&overlay.CORS)
	c.Pagination.Merge(&overlay.Pagination)
	c.OpenAPI.Merge(&overlay.OpenAPI)
}

func (c *APIConfig) loadDefaults() {
	if c.BasePath == "" {
		c.BasePath = "/api"
	}
	if c.MaxBodySize == "" {
		c.MaxBodySize = "10MB"
	}
}

func (c *APIConfig) loadEnv() {
	if v := os.Getenv("MAPSTUDIO_API_BASE_PATH"); v != "" {
		c.BasePath = v
	}
	if v := os.Getenv("MAPSTUDIO_API_MAX_BODY_SIZE"); v != "" {
		c.MaxBodySize = v
	}
}
