// internal/membership/service.go
package membership

import (
	"context"

	"campushub/internal/state"

	"github.com/google/uuid"
)

// Defaults holds the per-type borrowing limits applied at registration.
type Defaults struct {
	StudentMaxBooks int
	FacultyMaxBooks int
	StaffMaxBooks   int
}

// DefaultLimits matches the shipped configuration: 5/10/3.
func DefaultLimits() Defaults {
	return Defaults{StudentMaxBooks: 5, FacultyMaxBooks: 10, StaffMaxBooks: 3}
}

// RegisterInput carries the caller-supplied member fields. MaxBooks is
// optional; zero means "use the default for the member type".
type RegisterInput struct {
	Name         string
	MembershipID string
	Email        string
	Phone        string
	MemberType   state.MemberType
	MaxBooks     int
}

// Service defines the interface for the membership surface.
type Service interface {
	RegisterMember(ctx context.Context, input RegisterInput) (*state.Member, error)
	GetMember(ctx context.Context, id uuid.UUID) (*state.Member, error)
	ListMembers(ctx context.Context) []state.Member
	SetMemberStatus(ctx context.Context, id uuid.UUID, status state.MemberStatus) (*state.Member, error)
	RemoveMember(ctx context.Context, id uuid.UUID) error
}
