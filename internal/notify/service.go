// internal/notify/service.go
package notify

import (
	"context"

	"campushub/internal/state"

	"github.com/google/uuid"
)

// Service defines the interface for reading and acknowledging system
// notifications.
type Service interface {
	List(ctx context.Context) []state.Notification
	MarkRead(ctx context.Context, id uuid.UUID)
	ClearAll(ctx context.Context)
}

type service struct {
	store *state.Store
}

// NewService creates a new notification service instance.
func NewService(store *state.Store) Service {
	return &service{store: store}
}

func (s *service) List(_ context.Context) []state.Notification {
	return s.store.State().Notifications
}

func (s *service) MarkRead(ctx context.Context, id uuid.UUID) {
	s.store.Dispatch(ctx, state.MarkNotificationRead{ID: id})
}

func (s *service) ClearAll(ctx context.Context) {
	s.store.Dispatch(ctx, state.ClearNotifications{})
}
