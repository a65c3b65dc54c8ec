package config

import (
	"fmt"
	"os"
	"strconv"
)

const (
	EnvLLMAPIKey         = "MAPSTUDIO_LLM_API_KEY"
	EnvLLMModel          = "MAPSTUDIO_LLM_MODEL"
	EnvLLMEmbeddingModel = "MAPSTUDIO_LLM_EMBEDDING_MODEL"
	EnvLLMTemperature    = "MAPSTUDIO_LLM_TEMPERATURE"
)

// LLMConfig holds Gemini model and credential settings. A blank APIKey
// disables the LLM-assisted and embedding tiers.
type LLMConfig struct {
	APIKey         string  `toml:"api_key"`
	Model          string  `toml:"model"`
	EmbeddingModel string  `toml:"embedding_model"`
	Temperature    float64 `toml:"temperature"`
}

// Enabled reports whether an API key is configured.
func (c *LLMConfig) Enabled() bool {
	return c.APIKey != ""
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *LLMConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *LLMConfig) Merge(overlay *LLMConfig) {
	if overlay.APIKey != "" {
		c.APIKey = overlay.APIKey
	}
	if overlay.Model != "" {
		c.Model = overlay.Model
	}
	if overlay.EmbeddingModel != "" {
		c.EmbeddingModel = overlay.EmbeddingModel
	}
	if overlay.Temperature != 0 {
		c.Temperature = overlay.Temperature
	}
}

func (c *LLMConfig) loadDefaults() {
	if c.Model == "" {
		c.Model = "gemini-2.0-flash"
	}
	if c.EmbeddingModel == "" {
		c.EmbeddingModel = "text-embedding-004"
	}
	if c.Temperature == 0 {
		c.Temperature = 0.2
	}
}

func (c *LLMConfig) loadEnv() {
	if v := os.Getenv(EnvLLMAPIKey); v != "" {
		c.APIKey = v
	}
	if v := os.Getenv(EnvLLMModel); v != "" {
		c.Model = v
	}
	if v := os.Getenv(EnvLLMEmbeddingModel); v != "" {
		c.EmbeddingModel = v
	}
	if v := os.Getenv(EnvLLMTemperature); v != "" {
		if t, err := strconv.ParseFloat(v, 64); err == nil {
			c.Temperature = t
		}
	}
}

func (c *LLMConfig) validate() error {
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("invalid temperature: %g", c.Temperature)
	}
	return nil
}
