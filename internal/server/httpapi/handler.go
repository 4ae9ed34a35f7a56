// Package httpapi exposes the REST surface: registration, token auth,
// file management, and content download.
package httpapi

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/filevault/internal/common"
	"github.com/dmitrijs2005/filevault/internal/logging"
	"github.com/dmitrijs2005/filevault/internal/server/auth"
	"github.com/dmitrijs2005/filevault/internal/server/services"
	"github.com/dmitrijs2005/filevault/internal/server/sessions"
	"github.com/go-playground/validator/v10"
)

// Handler carries the dependencies of the HTTP handlers.
type Handler struct {
	users    *services.UserService
	files    *services.FileService
	tokens   *auth.TokenService
	store    sessions.Store
	db       *sql.DB
	validate *validator.Validate
	logger   logging.Logger
}

// NewHandler constructs a Handler. db may be nil when no relational
// database is wired; the status endpoint then reports the document store as
// alive.
func NewHandler(
	usersSvc *services.UserService,
	filesSvc *services.FileService,
	tokenSvc *auth.TokenService,
	store sessions.Store,
	db *sql.DB,
	logger logging.Logger,
) *Handler {
	return &Handler{
		users:    usersSvc,
		files:    filesSvc,
		tokens:   tokenSvc,
		store:    store,
		db:       db,
		validate: validator.New(),
		logger:   logger,
	}
}

func (h *Handler) respondWithJSON(w http.ResponseWriter, code int, payload any) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}

func (h *Handler) respondWithError(w http.ResponseWriter, code int, message string) {
	h.respondWithJSON(w, code, map[string]string{"error": message})
}

// respondWithServiceError maps sentinel errors from the service layer to
// their HTTP representation. Anything unmapped is a 500 and gets logged.
func (h *Handler) respondWithServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, common.ErrMissingEmail):
		h.respondWithError(w, http.StatusBadRequest, "Missing email")
	case errors.Is(err, common.ErrMissingPassword):
		h.respondWithError(w, http.StatusBadRequest, "Missing password")
	case errors.Is(err, common.ErrAlreadyExists):
		h.respondWithError(w, http.StatusBadRequest, "Already exist")
	case errors.Is(err, common.ErrMissingName):
		h.respondWithError(w, http.StatusBadRequest, "Missing name")
	case errors.Is(err, common.ErrMissingType):
		h.respondWithError(w, http.StatusBadRequest, "Missing type")
	case errors.Is(err, common.ErrMissingData):
		h.respondWithError(w, http.StatusBadRequest, "Missing data")
	case errors.Is(err, common.ErrParentNotFound):
		h.respondWithError(w, http.StatusBadRequest, "Parent not found")
	case errors.Is(err, common.ErrParentNotFolder):
		h.respondWithError(w, http.StatusBadRequest, "Parent not a folder")
	case errors.Is(err, common.ErrNotReadable):
		h.respondWithError(w, http.StatusBadRequest, "A folder doesn't have content")
	case errors.Is(err, common.ErrUnauthorized):
		h.respondWithError(w, http.StatusUnauthorized, "Unauthorized")
	case errors.Is(err, common.ErrNotFound):
		h.respondWithError(w, http.StatusNotFound, "Not found")
	default:
		h.logger.Error(r.Context(), "request failed",
			"method", r.Method, "path", r.URL.Path, "error", err)
		h.respondWithError(w, http.StatusInternalServerError, "Internal server error")
	}
}

func (h *Handler) decodeJSON(r *http.Request, dst any) error {
	return json.NewDecoder(r.Body).Decode(dst)
}
