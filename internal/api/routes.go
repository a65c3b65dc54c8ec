package api

import (
	"net/http"

	"mapstudio/pkg/routes"
)

func registerRoutes(mux *http.ServeMux, domain *Domain) {
	routes.Register(
		mux,
		domain.Mappings.Handler().Routes(),
		domain.Studio.Handler().Routes(),
	)
}
