package drive

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
)

// Browser is Files plus folder lookup by path.
type Browser interface {
	Files
	FindFolderByPath(ctx context.Context, path string) (string, error)
}

type Handler struct {
	service  Browser
	importer *Importer
}

func NewHandler(service Browser, importer *Importer) *Handler {
	return &Handler{
		service:  service,
		importer: importer,
	}
}

func (h *Handler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/drive/files", h.ListFiles).Methods(http.MethodGet)
	router.HandleFunc("/api/drive/import", h.Import).Methods(http.MethodPost)
}

// Router returns a standalone router carrying the drive routes.
func (h *Handler) Router() *mux.Router {
	r := mux.NewRouter()
	h.RegisterRoutes(r)
	return r
}

func (h *Handler) resolveFolder(r *http.Request) (string, int, error) {
	query := r.URL.Query()
	folderID := query.Get("folderId")
	if path := query.Get("path"); path != "" {
		id, err := h.service.FindFolderByPath(r.Context(), path)
		if err != nil {
			status := http.StatusInternalServerError
			if errors.Is(err, ErrFolderNotFound) {
				status = http.StatusNotFound
			}
			return "", status, err
		}
		folderID = id
	}
	return folderID, http.StatusOK, nil
}

func (h *Handler) ListFiles(w http.ResponseWriter, r *http.Request) {
	folderID, status, err := h.resolveFolder(r)
	if err != nil {
		writeError(w, status, "Failed to resolve folder", err)
		return
	}

	files, err := h.service.ListFiles(r.Context(), folderID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list drive files", err)
		return
	}
	if files == nil {
		files = make([]*File, 0)
	}

	writeJSON(w, http.StatusOK, files)
}

func (h *Handler) Import(w http.ResponseWriter, r *http.Request) {
	folderID, status, err := h.resolveFolder(r)
	if err != nil {
		writeError(w, status, "Failed to resolve folder", err)
		return
	}

	summaries, err := h.importer.Import(r.Context(), folderID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Drive import failed", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status": "success",
		"weeks":  summaries,
	})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Warn().Err(err).Msg("drive: failed to encode response")
	}
}

func writeError(w http.ResponseWriter, status int, msg string, err error) {
	writeJSON(w, status, map[string]string{"error": msg, "details": err.Error()})
}
