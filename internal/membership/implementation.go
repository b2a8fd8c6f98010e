// internal/membership/implementation.go
package membership

import (
	"context"
	"fmt"
	"strings"

	"campushub/internal/circulation"
	"campushub/internal/state"

	"github.com/google/uuid"
)

// service implements the Service interface.
type service struct {
	store    *state.Store
	circ     circulation.Service
	defaults Defaults
}

// NewService creates a new membership service instance.
func NewService(store *state.Store, circ circulation.Service, defaults Defaults) Service {
	return &service{store: store, circ: circ, defaults: defaults}
}

// RegisterMember creates a member with the per-type borrowing limit unless
// the caller supplies one.
func (s *service) RegisterMember(ctx context.Context, input RegisterInput) (*state.Member, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, fmt.Errorf("name is required")
	}

	maxBooks := input.MaxBooks
	if maxBooks <= 0 {
		switch input.MemberType {
		case state.MemberTypeStudent:
			maxBooks = s.defaults.StudentMaxBooks
		case state.MemberTypeFaculty:
			maxBooks = s.defaults.FacultyMaxBooks
		case state.MemberTypeStaff:
			maxBooks = s.defaults.StaffMaxBooks
		default:
			return nil, fmt.Errorf("unknown member type %q", input.MemberType)
		}
	}

	member := state.Member{
		ID:           uuid.New(),
		Name:         input.Name,
		MembershipID: input.MembershipID,
		Email:        input.Email,
		Phone:        input.Phone,
		MemberType:   input.MemberType,
		MaxBooks:     maxBooks,
		Status:       state.MemberStatusActive,
	}

	s.store.Dispatch(ctx, state.AddMember{Member: member})
	return &member, nil
}

// GetMember retrieves a member by their ID.
func (s *service) GetMember(_ context.Context, id uuid.UUID) (*state.Member, error) {
	member := s.store.State().FindMember(id)
	if member == nil {
		return nil, fmt.Errorf("member %s: %w", id, circulation.ErrNotFound)
	}
	copied := *member
	return &copied, nil
}

// ListMembers returns the current member roster.
func (s *service) ListMembers(_ context.Context) []state.Member {
	return s.store.State().Members
}

// SetMemberStatus activates or suspends a member.
func (s *service) SetMemberStatus(ctx context.Context, id uuid.UUID, status state.MemberStatus) (*state.Member, error) {
	if status != state.MemberStatusActive && status != state.MemberStatusSuspended {
		return nil, fmt.Errorf("unknown member status %q", status)
	}

	existing := s.store.State().FindMember(id)
	if existing == nil {
		return nil, fmt.Errorf("member %s: %w", id, circulation.ErrNotFound)
	}

	member := *existing
	member.Status = status

	s.store.Dispatch(ctx, state.UpdateMember{Member: member})
	return &member, nil
}

// RemoveMember deletes a member via the circulation engine so that a member
// with books still out is rejected.
func (s *service) RemoveMember(ctx context.Context, id uuid.UUID) error {
	return s.circ.DeleteMember(ctx, id)
}
