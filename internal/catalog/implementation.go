// internal/catalog/implementation.go
package catalog

import (
	"context"
	"fmt"
	"strings"

	"campushub/internal/circulation"
	"campushub/internal/state"

	"github.com/google/uuid"
)

const searchLimit = 10

// service implements the Service interface. All writes go through the
// store's dispatch; deletion is delegated to the circulation engine, which
// owns the open-transaction rule.
type service struct {
	store *state.Store
	circ  circulation.Service
}

// NewService creates a new catalog service instance.
func NewService(store *state.Store, circ circulation.Service) Service {
	return &service{store: store, circ: circ}
}

// AddBook creates a new book with all copies available.
func (s *service) AddBook(ctx context.Context, isbn, title, author, category string, totalCopies int) (*state.Book, error) {
	if strings.TrimSpace(title) == "" {
		return nil, fmt.Errorf("title is required")
	}
	if totalCopies < 1 {
		return nil, fmt.Errorf("total copies must be at least 1")
	}

	book := state.Book{
		ID:              uuid.New(),
		Title:           title,
		Author:          author,
		ISBN:            isbn,
		Category:        category,
		TotalCopies:     totalCopies,
		AvailableCopies: totalCopies,
		Status:          state.DeriveBookStatus(totalCopies, totalCopies),
	}

	s.store.Dispatch(ctx, state.AddBook{Book: book})
	return &book, nil
}

// GetBook retrieves a book by its ID.
func (s *service) GetBook(_ context.Context, id uuid.UUID) (*state.Book, error) {
	book := s.store.State().FindBook(id)
	if book == nil {
		return nil, fmt.Errorf("book %s: %w", id, circulation.ErrNotFound)
	}
	copied := *book
	return &copied, nil
}

// ListBooks returns the full catalog snapshot.
func (s *service) ListBooks(_ context.Context) []state.Book {
	return s.store.State().Books
}

// UpdateBookCopies changes the copy counts; the derived status is
// recomputed by the reducer.
func (s *service) UpdateBookCopies(ctx context.Context, id uuid.UUID, newTotal, newAvailable int) (*state.Book, error) {
	existing := s.store.State().FindBook(id)
	if existing == nil {
		return nil, fmt.Errorf("book %s: %w", id, circulation.ErrNotFound)
	}
	if newTotal < 1 || newAvailable < 0 || newAvailable > newTotal {
		return nil, fmt.Errorf("copy counts out of range: total %d, available %d", newTotal, newAvailable)
	}

	book := *existing
	book.TotalCopies = newTotal
	book.AvailableCopies = newAvailable
	book.Status = state.DeriveBookStatus(newAvailable, newTotal)

	s.store.Dispatch(ctx, state.UpdateBook{Book: book})
	return &book, nil
}

// RemoveBook deletes a book via the circulation engine so that a book with
// an open transaction is rejected, not silently dropped.
func (s *service) RemoveBook(ctx context.Context, id uuid.UUID) error {
	return s.circ.DeleteBook(ctx, id)
}

// Search finds books whose title, author or ISBN contains the query,
// case-insensitively.
func (s *service) Search(_ context.Context, query string) []state.Book {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}

	var matches []state.Book
	for _, book := range s.store.State().Books {
		if strings.Contains(strings.ToLower(book.Title), q) ||
			strings.Contains(strings.ToLower(book.Author), q) ||
			strings.Contains(strings.ToLower(book.ISBN), q) {
			matches = append(matches, book)
			if len(matches) == searchLimit {
				break
			}
		}
	}
	return matches
}
