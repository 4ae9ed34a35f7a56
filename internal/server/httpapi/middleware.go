package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/dmitrijs2005/filevault/internal/server/models"
	"github.com/go-chi/chi/v5/middleware"
)

// tokenHeader carries the opaque session token on authenticated requests.
const tokenHeader = "X-Token"

// contextKey is a private type so context keys cannot collide with other
// packages.
type contextKey string

const userContextKey = contextKey("user")

// userFrom returns the authenticated user stored in the request context, or
// nil for anonymous requests.
func userFrom(ctx context.Context) *models.User {
	user, _ := ctx.Value(userContextKey).(*models.User)
	return user
}

// requireUser resolves the X-Token header and rejects the request when it
// does not map to a live session.
func (h *Handler) requireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, _, err := h.tokens.Resolve(r.Context(), r.Header.Get(tokenHeader))
		if err != nil {
			h.respondWithServiceError(w, r, err)
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// withUser resolves the X-Token header when present but lets the request
// through either way. Handlers behind it see a nil user for anonymous
// callers.
func (h *Handler) withUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if user, _, err := h.tokens.Resolve(r.Context(), r.Header.Get(tokenHeader)); err == nil {
			r = r.WithContext(context.WithValue(r.Context(), userContextKey, user))
		}
		next.ServeHTTP(w, r)
	})
}

// requestLogger emits one structured log line per request.
func (h *Handler) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		h.logger.Info(r.Context(), "request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start).String(),
		)
	})
}
