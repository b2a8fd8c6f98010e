// internal/accounts/implementation.go
package accounts

import (
	"context"
	"fmt"
	"strings"
	"time"

	"campushub/internal/circulation"
	"campushub/internal/state"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// service implements the Service interface. Registration and
// authentication are throttled independently so a burst of one cannot
// lock out the other.
type service struct {
	store        *state.Store
	registerRate *rate.Limiter
	authRate     *rate.Limiter
}

// NewService creates a new accounts service instance.
func NewService(store *state.Store) Service {
	return &service{
		store:        store,
		registerRate: rate.NewLimiter(rate.Every(1*time.Minute), 5),
		authRate:     rate.NewLimiter(rate.Every(1*time.Second), 10),
	}
}

// RegisterUser creates a pending account awaiting approval.
func (s *service) RegisterUser(ctx context.Context, name, email, phone, role string) (*state.User, error) {
	if !s.registerRate.Allow() {
		return nil, fmt.Errorf("rate limit exceeded")
	}
	if strings.TrimSpace(email) == "" {
		return nil, fmt.Errorf("email is required")
	}
	for _, existing := range s.store.State().Users {
		if strings.EqualFold(existing.Email, email) {
			return nil, fmt.Errorf("email %s is already registered", email)
		}
	}

	user := state.User{
		ID:     uuid.New(),
		Name:   name,
		Email:  email,
		Phone:  phone,
		Role:   role,
		Status: state.UserStatusPending,
	}

	s.store.Dispatch(ctx, state.AddUser{User: user})
	redacted := user.Redacted()
	return &redacted, nil
}

// GetUser retrieves an account by its ID, with credentials redacted.
func (s *service) GetUser(_ context.Context, id uuid.UUID) (*state.User, error) {
	user := s.store.State().FindUser(id)
	if user == nil {
		return nil, fmt.Errorf("user %s: %w", id, circulation.ErrNotFound)
	}
	redacted := user.Redacted()
	return &redacted, nil
}

// ListUsers returns all accounts with credentials redacted.
func (s *service) ListUsers(_ context.Context) []state.User {
	users := s.store.State().Users
	redacted := make([]state.User, len(users))
	for i, u := range users {
		redacted[i] = u.Redacted()
	}
	return redacted
}

// ApproveUser activates a pending account.
func (s *service) ApproveUser(ctx context.Context, id uuid.UUID) error {
	if s.store.State().FindUser(id) == nil {
		return fmt.Errorf("user %s: %w", id, circulation.ErrNotFound)
	}
	s.store.Dispatch(ctx, state.ApproveUser{ID: id})
	return nil
}

// RejectUser declines a pending account.
func (s *service) RejectUser(ctx context.Context, id uuid.UUID) error {
	if s.store.State().FindUser(id) == nil {
		return fmt.Errorf("user %s: %w", id, circulation.ErrNotFound)
	}
	s.store.Dispatch(ctx, state.RejectUser{ID: id})
	return nil
}

// AssignPassword hashes and stores a password for the account.
func (s *service) AssignPassword(ctx context.Context, id uuid.UUID, password string) error {
	if len(password) < 8 {
		return fmt.Errorf("password must be at least 8 characters")
	}
	if s.store.State().FindUser(id) == nil {
		return fmt.Errorf("user %s: %w", id, circulation.ErrNotFound)
	}

	passwordHash, salt, err := hashPassword(password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	s.store.Dispatch(ctx, state.AssignPassword{
		ID:           id,
		PasswordHash: passwordHash,
		Salt:         salt,
	})
	return nil
}

// RemoveUser deletes an account.
func (s *service) RemoveUser(ctx context.Context, id uuid.UUID) error {
	if s.store.State().FindUser(id) == nil {
		return fmt.Errorf("user %s: %w", id, circulation.ErrNotFound)
	}
	s.store.Dispatch(ctx, state.RemoveUser{ID: id})
	return nil
}

// Authenticate verifies credentials and returns the account if successful.
func (s *service) Authenticate(_ context.Context, email, password string) (*state.User, error) {
	if !s.authRate.Allow() {
		return nil, fmt.Errorf("rate limit exceeded")
	}

	for _, user := range s.store.State().Users {
		if !strings.EqualFold(user.Email, email) {
			continue
		}
		if user.Status != state.UserStatusApproved || user.PasswordHash == "" {
			return nil, fmt.Errorf("authentication failed: invalid credentials")
		}
		ok, err := verifyPassword(password, user.Salt, user.PasswordHash)
		if err != nil {
			return nil, fmt.Errorf("authentication failed: %w", err)
		}
		if !ok {
			return nil, fmt.Errorf("authentication failed: invalid credentials")
		}
		redacted := user.Redacted()
		return &redacted, nil
	}
	return nil, fmt.Errorf("authentication failed: invalid credentials")
}
