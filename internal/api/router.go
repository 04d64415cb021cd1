// Package api implements the specpress REST API using chi.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/specpress/internal/docservice"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(svc *docservice.Service, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Documents.
	r.Get("/documents", h.ListDocuments)
	r.Get("/documents/{id}", h.GetDocument)
	r.Get("/documents/{id}/html", h.DocumentHTML)

	// Search and facets.
	r.Get("/search", h.Search)
	r.Get("/types", h.Types)
	r.Get("/projects", h.Projects)

	// Pipeline.
	r.Post("/import", h.Import)
	r.Post("/render", h.Render)
	r.Get("/preview", h.Preview)
	r.Get("/style.css", h.Style)

	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
