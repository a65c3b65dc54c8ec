package api

import (
	"mapstudio/internal/llm"
	"mapstudio/internal/mappings"
	"mapstudio/internal/session"
	"mapstudio/internal/studio"
	"mapstudio/internal/suggestions"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Mappings mappings.System
	Studio   studio.System
	Sessions *session.Store
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(runtime *Runtime) *Domain {
	mappingsSystem := mappings.New(
		runtime.Database.Connection(),
		runtime.Logger,
		runtime.Pagination,
	)

	var generator llm.Generator
	var embedder llm.Embedder
	if runtime.LLM != nil {
		generator = runtime.LLM
		embedder = runtime.LLM
	}

	resolver := suggestions.NewResolver(generator, embedder, runtime.Logger)
	sessions := session.NewStore()

	studioSystem := studio.New(
		sessions,
		resolver,
		mappingsSystem,
		runtime.Logger,
	)

	return &Domain{
		Mappings: mappingsSystem,
		Studio:   studioSystem,
		Sessions: sessions,
	}
}
