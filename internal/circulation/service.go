// internal/circulation/service.go
package circulation

import (
	"context"
	"time"

	"campushub/internal/state"

	"github.com/google/uuid"
)

// Service defines the interface for the circulation engine. It is the only
// component that builds the composite issue/return intents, because a
// single circulation operation must change three aggregates together.
type Service interface {
	IssueBook(ctx context.Context, bookID, memberID uuid.UUID, dueDate time.Time) (*state.Transaction, error)
	ReturnBook(ctx context.Context, transactionID uuid.UUID) (*state.Transaction, error)
	DeleteBook(ctx context.Context, bookID uuid.UUID) error
	DeleteMember(ctx context.Context, memberID uuid.UUID) error
	ListTransactions(ctx context.Context) []state.Transaction
}
