package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/adfbridge/internal/converter"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// maxBody caps request bodies; values <= 0 fall back to 10 MiB.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(svc *converter.Service, authEnabled bool, token string, maxBody int64, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc, maxBody)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Stateless conversions.
	r.Post("/convert/adf", h.ConvertADF)
	r.Post("/convert/text", h.ConvertText)
	r.Post("/convert/wiki", h.ConvertWiki)
	r.Post("/convert/normalize", h.ConvertNormalize)

	// Workspace documents.
	r.Get("/documents", h.ListDocuments)
	r.Post("/documents", h.CreateDocument)
	r.Get("/documents/*", h.GetDocument)
	r.Put("/documents/*", h.UpdateDocument)
	r.Delete("/documents/*", h.DeleteDocument)
	r.Get("/preview/*", h.Preview)

	// Search.
	r.Get("/search", h.Search)

	// SSE endpoint (protected by same auth middleware).
	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
