// internal/accounts/service.go
package accounts

import (
	"context"

	"campushub/internal/state"

	"github.com/google/uuid"
)

// Service defines the interface for dashboard account management. Accounts
// start pending; approval, rejection and password assignment each emit a
// channel notification through the store's outbound path.
type Service interface {
	RegisterUser(ctx context.Context, name, email, phone, role string) (*state.User, error)
	GetUser(ctx context.Context, id uuid.UUID) (*state.User, error)
	ListUsers(ctx context.Context) []state.User
	ApproveUser(ctx context.Context, id uuid.UUID) error
	RejectUser(ctx context.Context, id uuid.UUID) error
	AssignPassword(ctx context.Context, id uuid.UUID, password string) error
	RemoveUser(ctx context.Context, id uuid.UUID) error
	Authenticate(ctx context.Context, email, password string) (*state.User, error)
}
