package httpapi

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/filevault/internal/common"
	"github.com/go-playground/validator/v10"
)

type registerRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type userResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// validateRegister maps struct validation failures back to the field-level
// sentinels so the response wording stays uniform with the service layer.
func (h *Handler) validateRegister(req registerRequest) error {
	err := h.validate.Struct(req)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		switch verrs[0].Field() {
		case "Email":
			return common.ErrMissingEmail
		case "Password":
			return common.ErrMissingPassword
		}
	}
	return err
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := h.decodeJSON(r, &req); err != nil {
		h.respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.validateRegister(req); err != nil {
		h.respondWithServiceError(w, r, err)
		return
	}

	user, err := h.users.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		h.respondWithServiceError(w, r, err)
		return
	}

	h.respondWithJSON(w, http.StatusCreated, userResponse{ID: user.ID, Email: user.Email})
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r.Context())
	h.respondWithJSON(w, http.StatusOK, userResponse{ID: user.ID, Email: user.Email})
}

func (h *Handler) handleConnect(w http.ResponseWriter, r *http.Request) {
	user, err := h.tokens.AuthenticateBasic(r.Context(), r.Header.Get("Authorization"))
	if err != nil {
		h.respondWithServiceError(w, r, err)
		return
	}

	token, err := h.tokens.Issue(r.Context(), user.ID)
	if err != nil {
		h.respondWithServiceError(w, r, err)
		return
	}

	h.respondWithJSON(w, http.StatusOK, map[string]string{"token": token})
}

func (h *Handler) handleDisconnect(w http.ResponseWriter, r *http.Request) {
	if err := h.tokens.Revoke(r.Context(), r.Header.Get(tokenHeader)); err != nil {
		h.respondWithServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	redisAlive := h.store.Ping(ctx) == nil

	dbAlive := true
	if h.db != nil {
		dbAlive = h.db.PingContext(ctx) == nil
	}

	h.respondWithJSON(w, http.StatusOK, map[string]bool{"redis": redisAlive, "db": dbAlive})
}

func (h *Handler) handleStats(w http.ResponseWriter, r *http.Request) {
	usersCount, filesCount, err := h.users.Stats(r.Context())
	if err != nil {
		h.respondWithServiceError(w, r, err)
		return
	}

	h.respondWithJSON(w, http.StatusOK, map[string]int64{"users": usersCount, "files": filesCount})
}
