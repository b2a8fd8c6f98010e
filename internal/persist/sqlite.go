// internal/persist/sqlite.go
package persist

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"campushub/internal/state"

	_ "modernc.org/sqlite"
)

const defaultSlot = "campushub"

// SnapshotStore persists the whole application state as a single JSON blob
// under one named slot, overwritten wholesale on every change. There is no
// schema versioning or migration logic: the system has a single writer and
// no external consumers of the persisted blob.
type SnapshotStore struct {
	db   *sql.DB
	slot string
	now  func() time.Time
}

// payload is the persisted layout: the entity collections keyed by name
// plus an ISO-8601 lastUpdated timestamp.
type payload struct {
	state.AppState
	LastUpdated time.Time `json:"lastUpdated"`
}

// Open opens and prepares a snapshot store at the given path.
func Open(path string) (*SnapshotStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("snapshot path is required")
	}

	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS snapshots (
			slot TEXT PRIMARY KEY,
			app_state BLOB NOT NULL,
			last_updated TEXT NOT NULL
		)
	`)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &SnapshotStore{db: db, slot: defaultSlot, now: time.Now}, nil
}

// Close releases the underlying connection.
func (s *SnapshotStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Save overwrites the slot with the given state.
func (s *SnapshotStore) Save(ctx context.Context, st *state.AppState) error {
	now := s.now().UTC()
	blob, err := json.Marshal(payload{AppState: *st, LastUpdated: now})
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO snapshots (slot, app_state, last_updated)
		VALUES (?, ?, ?)
		ON CONFLICT (slot) DO UPDATE
		SET app_state = EXCLUDED.app_state,
		    last_updated = EXCLUDED.last_updated
	`, s.slot, blob, now.Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}

	return nil
}

// Load retrieves the persisted state, or (nil, nil) when no snapshot
// exists. Callers fall back to the default state on nil or error.
func (s *SnapshotStore) Load(ctx context.Context) (*state.AppState, error) {
	var blob []byte
	err := s.db.QueryRowContext(ctx, `
		SELECT app_state FROM snapshots WHERE slot = ?
	`, s.slot).Scan(&blob)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}

	var p payload
	if err := json.Unmarshal(blob, &p); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}

	st := p.AppState
	return &st, nil
}
