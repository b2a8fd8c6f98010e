// internal/membership/handler.go
package membership

import (
	"encoding/json"
	"errors"
	"net/http"

	"campushub/internal/circulation"
	"campushub/internal/state"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// Routes mounts the membership endpoints.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.HandleListMembers)
	r.Post("/register", h.HandleRegister)
	r.Get("/{id}", h.HandleGetMember)
	r.Patch("/{id}/status", h.HandleSetStatus)
	r.Delete("/{id}", h.HandleRemoveMember)
}

func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name         string           `json:"name"`
		MembershipID string           `json:"membership_id"`
		Email        string           `json:"email"`
		Phone        string           `json:"phone"`
		MemberType   state.MemberType `json:"member_type"`
		MaxBooks     int              `json:"max_books"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	member, err := h.service.RegisterMember(r.Context(), RegisterInput{
		Name:         req.Name,
		MembershipID: req.MembershipID,
		Email:        req.Email,
		Phone:        req.Phone,
		MemberType:   req.MemberType,
		MaxBooks:     req.MaxBooks,
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(member)
}

func (h *Handler) HandleListMembers(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(h.service.ListMembers(r.Context()))
}

func (h *Handler) HandleGetMember(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid member ID", http.StatusBadRequest)
		return
	}

	member, err := h.service.GetMember(r.Context(), id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(member)
}

func (h *Handler) HandleSetStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid member ID", http.StatusBadRequest)
		return
	}

	var req struct {
		Status state.MemberStatus `json:"status"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	member, err := h.service.SetMemberStatus(r.Context(), id, req.Status)
	if err != nil {
		if errors.Is(err, circulation.ErrNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(member)
}

func (h *Handler) HandleRemoveMember(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid member ID", http.StatusBadRequest)
		return
	}

	if err := h.service.RemoveMember(r.Context(), id); err != nil {
		switch {
		case errors.Is(err, circulation.ErrNotFound):
			http.Error(w, err.Error(), http.StatusNotFound)
		case errors.Is(err, circulation.ErrReferencedByOpenTransaction):
			http.Error(w, err.Error(), http.StatusConflict)
		default:
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
