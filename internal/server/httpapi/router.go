package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Routes assembles the router.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(middleware.StripSlashes)
	r.Use(h.requestLogger)

	r.Get("/status", h.handleStatus)
	r.Get("/stats", h.handleStats)

	r.Post("/users", h.handleRegister)
	r.Get("/connect", h.handleConnect)

	r.Group(func(r chi.Router) {
		r.Use(h.requireUser)

		r.Get("/users/me", h.handleMe)
		r.Get("/disconnect", h.handleDisconnect)

		r.Post("/files", h.handleUpload)
		r.Get("/files", h.handleList)
		r.Get("/files/{id}", h.handleGetFile)
		r.Put("/files/{id}/publish", h.handlePublish)
		r.Put("/files/{id}/unpublish", h.handleUnpublish)
	})

	// content is readable anonymously when the file is public
	r.Group(func(r chi.Router) {
		r.Use(h.withUser)

		r.Get("/files/{id}/data", h.handleContent)
	})

	return r
}
