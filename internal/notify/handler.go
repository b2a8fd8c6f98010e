// internal/notify/handler.go
package notify

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// Routes mounts the notification endpoints.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.HandleList)
	r.Post("/clear", h.HandleClear)
	r.Post("/{id}/read", h.HandleMarkRead)
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(h.service.List(r.Context()))
}

func (h *Handler) HandleMarkRead(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid notification ID", http.StatusBadRequest)
		return
	}

	h.service.MarkRead(r.Context(), id)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) HandleClear(w http.ResponseWriter, r *http.Request) {
	h.service.ClearAll(r.Context())
	w.WriteHeader(http.StatusNoContent)
}
