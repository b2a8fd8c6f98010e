// internal/persist/sqlite_test.go
package persist

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"campushub/internal/state"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *SnapshotStore {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "snapshots.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestLoadWithoutSnapshotReturnsNil(t *testing.T) {
	store := openTestStore(t)

	st, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Nil(t, st)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	bookID := uuid.New()
	memberID := uuid.New()
	original := &state.AppState{
		Books: []state.Book{{
			ID:              bookID,
			Title:           "The Go Programming Language",
			TotalCopies:     3,
			AvailableCopies: 2,
			Status:          state.BookStatusAvailable,
		}},
		Members: []state.Member{{
			ID:          memberID,
			Name:        "Priya Raman",
			MemberType:  state.MemberTypeStudent,
			MaxBooks:    5,
			BooksIssued: 1,
			Status:      state.MemberStatusActive,
		}},
		Transactions: []state.Transaction{{
			ID:        uuid.New(),
			BookID:    bookID,
			MemberID:  memberID,
			IssueDate: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
			DueDate:   time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC),
			Status:    state.TransactionIssued,
		}},
	}

	require.NoError(t, store.Save(ctx, original))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, original.Books, loaded.Books)
	assert.Equal(t, original.Members, loaded.Members)
	assert.Equal(t, original.Transactions, loaded.Transactions)
}

func TestSaveOverwritesWholesale(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	first := &state.AppState{Books: []state.Book{{ID: uuid.New(), Title: "First", TotalCopies: 1, AvailableCopies: 1}}}
	second := &state.AppState{Members: []state.Member{{ID: uuid.New(), Name: "Only Member", MaxBooks: 5}}}

	require.NoError(t, store.Save(ctx, first))
	require.NoError(t, store.Save(ctx, second))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, loaded.Books)
	require.Len(t, loaded.Members, 1)
	assert.Equal(t, "Only Member", loaded.Members[0].Name)
}

func TestOpenRejectsEmptyPath(t *testing.T) {
	_, err := Open("   ")
	assert.Error(t, err)
}

func TestOpenAppliesPragmas(t *testing.T) {
	store := openTestStore(t)

	var journalMode string
	require.NoError(t, store.db.QueryRow("PRAGMA journal_mode").Scan(&journalMode))
	assert.Equal(t, "wal", journalMode)

	var busyTimeout int
	require.NoError(t, store.db.QueryRow("PRAGMA busy_timeout").Scan(&busyTimeout))
	assert.GreaterOrEqual(t, busyTimeout, 5000)
}

func TestWriterKeepsLatestState(t *testing.T) {
	store := openTestStore(t)
	w := NewWriter(store, nil)

	// Without a running consumer, repeated enqueues keep only the newest.
	stale := &state.AppState{Books: []state.Book{{ID: uuid.New(), Title: "Stale"}}}
	fresh := &state.AppState{Books: []state.Book{{ID: uuid.New(), Title: "Fresh"}}}
	w.Enqueue(stale)
	w.Enqueue(fresh)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool {
		loaded, err := store.Load(context.Background())
		return err == nil && loaded != nil && len(loaded.Books) == 1 && loaded.Books[0].Title == "Fresh"
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	<-done
}
