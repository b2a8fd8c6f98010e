// internal/state/store.go
package state

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Store owns the current AppState and is its sole mutator. Dispatches are
// serialized; every reader gets an immutable snapshot, so no reader can
// observe a half-applied multi-aggregate operation.
type Store struct {
	mu      sync.Mutex
	current *AppState

	logger     *slog.Logger
	tracer     trace.Tracer
	now        func() time.Time
	onChange   func(*AppState)
	onOutbound func(context.Context, []Outbound)
}

// NewStore creates a store seeded with the given state, typically restored
// from a snapshot before any mutation is accepted.
func NewStore(initial *AppState, logger *slog.Logger) *Store {
	if initial == nil {
		initial = Default()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		current: initial,
		logger:  logger,
		tracer:  otel.Tracer("campushub/state"),
		now:     time.Now,
	}
}

// OnChange registers the persistence hook, invoked in commit order with
// every new state. It runs inside the dispatch critical section: it must
// not block and must not call back into the store.
func (s *Store) OnChange(fn func(*AppState)) {
	s.onChange = fn
}

// OnOutbound registers the channel dispatcher for reducer-derived side
// effects. Delivery failures never roll back into the store.
func (s *Store) OnOutbound(fn func(context.Context, []Outbound)) {
	s.onOutbound = fn
}

// SetClock overrides the reducer timestamp source. Test hook.
func (s *Store) SetClock(now func() time.Time) {
	s.now = now
}

// Dispatch runs the action through the reducer and replaces the current
// state atomically. Actions the reducer does not recognize, or whose
// preconditions no longer hold, leave state unchanged.
func (s *Store) Dispatch(ctx context.Context, a Action) {
	_, span := s.tracer.Start(ctx, "store.dispatch",
		trace.WithAttributes(attribute.String("action.type", a.Name())),
	)
	defer span.End()

	s.mu.Lock()
	next, outbound := reduce(s.current, a, s.now())
	changed := next != s.current
	s.current = next
	if changed && s.onChange != nil {
		// Still under the lock, so the hook observes states in commit
		// order and the writer can never persist a stale snapshot over a
		// newer one. The hook must not block.
		s.onChange(next)
	}
	s.mu.Unlock()

	span.SetAttributes(attribute.Bool("state.changed", changed))
	if !changed {
		s.logger.Debug("dispatch left state unchanged", "action", a.Name())
		return
	}

	if len(outbound) > 0 && s.onOutbound != nil {
		s.onOutbound(ctx, outbound)
	}
}

// State returns the current snapshot. The returned value must be treated
// as read-only; the reducer never mutates a published state.
func (s *Store) State() *AppState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}
