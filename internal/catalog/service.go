// internal/catalog/service.go
package catalog

import (
	"context"

	"campushub/internal/state"

	"github.com/google/uuid"
)

// Service defines the interface for the catalog surface.
type Service interface {
	AddBook(ctx context.Context, isbn, title, author, category string, totalCopies int) (*state.Book, error)
	GetBook(ctx context.Context, id uuid.UUID) (*state.Book, error)
	ListBooks(ctx context.Context) []state.Book
	UpdateBookCopies(ctx context.Context, id uuid.UUID, newTotal, newAvailable int) (*state.Book, error)
	RemoveBook(ctx context.Context, id uuid.UUID) error
	Search(ctx context.Context, query string) []state.Book
}
