// Package web exposes the stored enriched catalog over a read-only
// JSON API.
package web

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/avelars/melodex/internal/constants"
	"github.com/avelars/melodex/internal/logger"
	"github.com/avelars/melodex/internal/store"
)

type Handler struct {
	Store  *store.DB
	Logger *logger.Logger
}

func NewHandler(db *store.DB, log *logger.Logger) *Handler {
	return &Handler{
		Store:  db,
		Logger: log.WithComponent("web"),
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/api/tracks", h.ListTracks)
	r.Get("/api/tracks/{id}", h.GetTrack)
	r.Get("/api/runs", h.ListRuns)
}

func (h *Handler) ListTracks(w http.ResponseWriter, r *http.Request) {
	limit := constants.MaxListTracks
	if q := r.URL.Query().Get("limit"); q != "" {
		n, err := strconv.Atoi(q)
		if err != nil || n < 1 {
			http.Error(w, "limit must be a positive number", http.StatusBadRequest)
			return
		}
		if n < limit {
			limit = n
		}
	}

	tracks, err := h.Store.ListTracks(limit)
	if err != nil {
		h.Logger.Error("Failed to list tracks", "error", err)
		http.Error(w, "failed to list tracks", http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, tracks)
}

func (h *Handler) GetTrack(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "id must be a number", http.StatusBadRequest)
		return
	}

	track, err := h.Store.GetTrack(id)
	if err != nil {
		h.Logger.Error("Failed to get track", "id", id, "error", err)
		http.Error(w, "failed to get track", http.StatusInternalServerError)
		return
	}
	if track == nil {
		http.Error(w, "track not found", http.StatusNotFound)
		return
	}
	h.writeJSON(w, track)
}

func (h *Handler) ListRuns(w http.ResponseWriter, r *http.Request) {
	runs, err := h.Store.ListRuns(constants.MaxListRuns)
	if err != nil {
		h.Logger.Error("Failed to list runs", "error", err)
		http.Error(w, "failed to list runs", http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, runs)
}

func (h *Handler) writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.Logger.Error("Failed to encode response", "error", err)
	}
}
