// internal/circulation/handler.go
package circulation

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// Routes mounts the circulation endpoints.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/checkout", h.HandleCheckout)
	r.Post("/return", h.HandleReturn)
	r.Get("/transactions", h.HandleListTransactions)
}

func (h *Handler) HandleCheckout(w http.ResponseWriter, r *http.Request) {
	var req struct {
		BookID   uuid.UUID `json:"book_id"`
		MemberID uuid.UUID `json:"member_id"`
		DueDate  time.Time `json:"due_date,omitzero"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	txn, err := h.service.IssueBook(r.Context(), req.BookID, req.MemberID, req.DueDate)
	if err != nil {
		http.Error(w, err.Error(), statusForError(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(txn)
}

func (h *Handler) HandleReturn(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TransactionID uuid.UUID `json:"transaction_id"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	txn, err := h.service.ReturnBook(r.Context(), req.TransactionID)
	if err != nil {
		http.Error(w, err.Error(), statusForError(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(txn)
}

func (h *Handler) HandleListTransactions(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(h.service.ListTransactions(r.Context()))
}

// statusForError maps the typed circulation failures to HTTP statuses.
func statusForError(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrAlreadyReturned), errors.Is(err, ErrReferencedByOpenTransaction):
		return http.StatusConflict
	case errors.Is(err, ErrBookUnavailable), errors.Is(err, ErrMemberInactive), errors.Is(err, ErrMemberAtLimit):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
