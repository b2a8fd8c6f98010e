// internal/persist/writer.go
package persist

import (
	"context"
	"log/slog"

	"campushub/internal/state"
)

// Writer decouples snapshot writes from the dispatch path. Enqueue never
// blocks: an unwritten older state is replaced by the newer one, since the
// slot is overwritten wholesale anyway. Write errors are logged and
// discarded; the in-memory store stays authoritative for the process
// lifetime, only durability across restarts is lost.
type Writer struct {
	store  *SnapshotStore
	logger *slog.Logger
	ch     chan *state.AppState
}

func NewWriter(store *SnapshotStore, logger *slog.Logger) *Writer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Writer{
		store:  store,
		logger: logger,
		ch:     make(chan *state.AppState, 1),
	}
}

// Enqueue schedules a snapshot write for the given state. Matches the
// store's OnChange hook.
func (w *Writer) Enqueue(st *state.AppState) {
	for {
		select {
		case w.ch <- st:
			return
		default:
			// Drop the stale pending state and retry with the newer one.
			select {
			case <-w.ch:
			default:
			}
		}
	}
}

// Run writes queued snapshots until the context is canceled, flushing any
// pending state on the way out.
func (w *Writer) Run(ctx context.Context) {
	for {
		select {
		case st := <-w.ch:
			if err := w.store.Save(ctx, st); err != nil {
				w.logger.Error("snapshot write failed", "error", err)
			}
		case <-ctx.Done():
			select {
			case st := <-w.ch:
				if err := w.store.Save(context.Background(), st); err != nil {
					w.logger.Error("final snapshot write failed", "error", err)
				}
			default:
			}
			return
		}
	}
}
