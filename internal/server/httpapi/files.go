package httpapi

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/dmitrijs2005/filevault/internal/common"
	"github.com/dmitrijs2005/filevault/internal/server/models"
	"github.com/dmitrijs2005/filevault/internal/server/services"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type uploadRequest struct {
	Name     string `json:"name" validate:"required"`
	Type     string `json:"type" validate:"required,oneof=folder file image"`
	ParentID string `json:"parentId"`
	IsPublic bool   `json:"isPublic"`
	Data     string `json:"data" validate:"required_unless=Type folder"`
}

type fileResponse struct {
	ID       string `json:"id"`
	UserID   string `json:"userId"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	IsPublic bool   `json:"isPublic"`
	ParentID string `json:"parentId"`
}

func toFileResponse(f *models.File) fileResponse {
	resp := fileResponse{
		ID:       f.ID,
		UserID:   f.UserID,
		Name:     f.Name,
		Type:     f.Type,
		IsPublic: f.IsPublic,
	}
	if f.ParentID.Valid {
		resp.ParentID = f.ParentID.UUID.String()
	}
	return resp
}

func (h *Handler) validateUpload(req uploadRequest) error {
	err := h.validate.Struct(req)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		switch verrs[0].Field() {
		case "Name":
			return common.ErrMissingName
		case "Type":
			return common.ErrMissingType
		case "Data":
			return common.ErrMissingData
		}
	}
	return err
}

// parseParentID interprets the wire form of a parent reference: the empty
// string is the root. A malformed id cannot name an existing folder, so it
// maps to the same error as an absent one.
func parseParentID(s string) (uuid.NullUUID, error) {
	if s == "" {
		return uuid.NullUUID{}, nil
	}

	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.NullUUID{}, common.ErrParentNotFound
	}

	return uuid.NullUUID{UUID: id, Valid: true}, nil
}

// parseFileID validates a path id. Malformed ids map to ErrNotFound so they
// are indistinguishable from absent ones.
func parseFileID(r *http.Request) (string, error) {
	id := chi.URLParam(r, "id")
	if _, err := uuid.Parse(id); err != nil {
		return "", common.ErrNotFound
	}
	return id, nil
}

func (h *Handler) handleUpload(w http.ResponseWriter, r *http.Request) {
	var req uploadRequest
	if err := h.decodeJSON(r, &req); err != nil {
		h.respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.validateUpload(req); err != nil {
		h.respondWithServiceError(w, r, err)
		return
	}

	parentID, err := parseParentID(req.ParentID)
	if err != nil {
		h.respondWithServiceError(w, r, err)
		return
	}

	file, err := h.files.Upload(r.Context(), userFrom(r.Context()), services.UploadRequest{
		Name:     req.Name,
		Type:     req.Type,
		ParentID: parentID,
		IsPublic: req.IsPublic,
		Data:     req.Data,
	})
	if err != nil {
		h.respondWithServiceError(w, r, err)
		return
	}

	h.respondWithJSON(w, http.StatusCreated, toFileResponse(file))
}

func (h *Handler) handleGetFile(w http.ResponseWriter, r *http.Request) {
	id, err := parseFileID(r)
	if err != nil {
		h.respondWithServiceError(w, r, err)
		return
	}

	file, err := h.files.Get(r.Context(), userFrom(r.Context()), id)
	if err != nil {
		h.respondWithServiceError(w, r, err)
		return
	}

	h.respondWithJSON(w, http.StatusOK, toFileResponse(file))
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	parentID, err := parseParentID(r.URL.Query().Get("parentId"))
	if err != nil {
		// an unparsable filter matches nothing
		h.respondWithJSON(w, http.StatusOK, []fileResponse{})
		return
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))

	files, err := h.files.List(r.Context(), userFrom(r.Context()), parentID, page)
	if err != nil {
		h.respondWithServiceError(w, r, err)
		return
	}

	resp := make([]fileResponse, 0, len(files))
	for _, f := range files {
		resp = append(resp, toFileResponse(f))
	}

	h.respondWithJSON(w, http.StatusOK, resp)
}

func (h *Handler) setPublic(w http.ResponseWriter, r *http.Request, isPublic bool) {
	id, err := parseFileID(r)
	if err != nil {
		h.respondWithServiceError(w, r, err)
		return
	}

	file, err := h.files.SetPublic(r.Context(), userFrom(r.Context()), id, isPublic)
	if err != nil {
		h.respondWithServiceError(w, r, err)
		return
	}

	h.respondWithJSON(w, http.StatusOK, toFileResponse(file))
}

func (h *Handler) handlePublish(w http.ResponseWriter, r *http.Request) {
	h.setPublic(w, r, true)
}

func (h *Handler) handleUnpublish(w http.ResponseWriter, r *http.Request) {
	h.setPublic(w, r, false)
}

func (h *Handler) handleContent(w http.ResponseWriter, r *http.Request) {
	id, err := parseFileID(r)
	if err != nil {
		h.respondWithServiceError(w, r, err)
		return
	}

	size, _ := strconv.Atoi(r.URL.Query().Get("size"))

	rc, file, err := h.files.Content(r.Context(), userFrom(r.Context()), id, size)
	if err != nil {
		h.respondWithServiceError(w, r, err)
		return
	}
	defer rc.Close()

	contentType := mime.TypeByExtension(filepath.Ext(file.Name))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)

	if _, err := io.Copy(w, rc); err != nil {
		h.logger.Error(r.Context(), "error streaming content", "fileId", file.ID, "error", err)
	}
}
