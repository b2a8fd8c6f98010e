// internal/circulation/implementation_test.go
package circulation

import (
	"context"
	"testing"
	"time"

	"campushub/internal/state"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type fixture struct {
	store    *state.Store
	svc      *service
	bookID   uuid.UUID
	memberID uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	bookID := uuid.New()
	memberID := uuid.New()
	store := state.NewStore(&state.AppState{
		Books: []state.Book{{
			ID:              bookID,
			Title:           "The Pragmatic Programmer",
			Author:          "Hunt & Thomas",
			TotalCopies:     3,
			AvailableCopies: 3,
			Status:          state.BookStatusAvailable,
		}},
		Members: []state.Member{{
			ID:         memberID,
			Name:       "Priya Raman",
			Email:      "priya@example.edu",
			MemberType: state.MemberTypeStudent,
			MaxBooks:   5,
			Status:     state.MemberStatusActive,
		}},
	}, nil)

	svc := NewService(store, DefaultPolicy()).(*service)
	svc.now = func() time.Time { return t0 }
	store.SetClock(func() time.Time { return t0 })

	return &fixture{store: store, svc: svc, bookID: bookID, memberID: memberID}
}

func (f *fixture) advanceTo(now time.Time) {
	f.svc.now = func() time.Time { return now }
}

func TestIssueThenOverdueReturnScenario(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	txn, err := f.svc.IssueBook(ctx, f.bookID, f.memberID, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, state.TransactionIssued, txn.Status)
	assert.Equal(t, t0.Add(14*24*time.Hour), txn.DueDate)

	snapshot := f.store.State()
	assert.Equal(t, 2, snapshot.FindBook(f.bookID).AvailableCopies)
	assert.Equal(t, 1, snapshot.FindMember(f.memberID).BooksIssued)

	// Returned 20 days after issue against a 14 day due date at 1 unit
	// per day: fine of 6.
	f.advanceTo(t0.Add(20 * 24 * time.Hour))
	returned, err := f.svc.ReturnBook(ctx, txn.ID)
	require.NoError(t, err)
	assert.Equal(t, 6.0, returned.Fine)

	snapshot = f.store.State()
	assert.Equal(t, 6.0, snapshot.FindTransaction(txn.ID).Fine)
	assert.Equal(t, 6.0, snapshot.FindMember(f.memberID).FineAmount)
	assert.Equal(t, 3, snapshot.FindBook(f.bookID).AvailableCopies)
	assert.Equal(t, 0, snapshot.FindMember(f.memberID).BooksIssued)
}

func TestIssueReturnRoundTripRestoresCounts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	before := f.store.State()
	txn, err := f.svc.IssueBook(ctx, f.bookID, f.memberID, time.Time{})
	require.NoError(t, err)

	_, err = f.svc.ReturnBook(ctx, txn.ID)
	require.NoError(t, err)

	after := f.store.State()
	assert.Equal(t, before.FindBook(f.bookID).AvailableCopies, after.FindBook(f.bookID).AvailableCopies)
	assert.Equal(t, before.FindMember(f.memberID).BooksIssued, after.FindMember(f.memberID).BooksIssued)
	// On-time return adds no fine.
	assert.Equal(t, before.FindMember(f.memberID).FineAmount, after.FindMember(f.memberID).FineAmount)
}

func TestIssueBookUnavailable(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// Drain all copies with distinct members.
	for range 3 {
		memberID := uuid.New()
		f.store.Dispatch(ctx, state.AddMember{Member: state.Member{
			ID: memberID, Name: "Reader", MemberType: state.MemberTypeStudent,
			MaxBooks: 5, Status: state.MemberStatusActive,
		}})
		_, err := f.svc.IssueBook(ctx, f.bookID, memberID, time.Time{})
		require.NoError(t, err)
	}

	before := f.store.State()
	_, err := f.svc.IssueBook(ctx, f.bookID, f.memberID, time.Time{})
	assert.ErrorIs(t, err, ErrBookUnavailable)
	assert.Same(t, before, f.store.State())
}

func TestIssueBookMemberAtLimit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	member := *f.store.State().FindMember(f.memberID)
	member.MaxBooks = 1
	member.BooksIssued = 1
	f.store.Dispatch(ctx, state.UpdateMember{Member: member})

	before := f.store.State()
	_, err := f.svc.IssueBook(ctx, f.bookID, f.memberID, time.Time{})
	assert.ErrorIs(t, err, ErrMemberAtLimit)
	assert.Same(t, before, f.store.State())
}

func TestIssueBookMemberInactive(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	member := *f.store.State().FindMember(f.memberID)
	member.Status = state.MemberStatusSuspended
	f.store.Dispatch(ctx, state.UpdateMember{Member: member})

	_, err := f.svc.IssueBook(ctx, f.bookID, f.memberID, time.Time{})
	assert.ErrorIs(t, err, ErrMemberInactive)
}

func TestIssueBookUnknownIDs(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.IssueBook(ctx, uuid.New(), f.memberID, time.Time{})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.svc.IssueBook(ctx, f.bookID, uuid.New(), time.Time{})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReturnBookTwice(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	txn, err := f.svc.IssueBook(ctx, f.bookID, f.memberID, time.Time{})
	require.NoError(t, err)

	_, err = f.svc.ReturnBook(ctx, txn.ID)
	require.NoError(t, err)

	_, err = f.svc.ReturnBook(ctx, txn.ID)
	assert.ErrorIs(t, err, ErrAlreadyReturned)

	_, err = f.svc.ReturnBook(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteBlockedByOpenTransaction(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	txn, err := f.svc.IssueBook(ctx, f.bookID, f.memberID, time.Time{})
	require.NoError(t, err)

	assert.ErrorIs(t, f.svc.DeleteBook(ctx, f.bookID), ErrReferencedByOpenTransaction)
	assert.ErrorIs(t, f.svc.DeleteMember(ctx, f.memberID), ErrReferencedByOpenTransaction)

	_, err = f.svc.ReturnBook(ctx, txn.ID)
	require.NoError(t, err)

	assert.NoError(t, f.svc.DeleteBook(ctx, f.bookID))
	assert.NoError(t, f.svc.DeleteMember(ctx, f.memberID))
	assert.Empty(t, f.store.State().Books)
	assert.Empty(t, f.store.State().Members)
}

func TestPolicyFine(t *testing.T) {
	p := Policy{FinePerDay: 2, LoanPeriod: 14 * 24 * time.Hour}
	due := t0

	assert.Zero(t, p.Fine(due, due))
	assert.Zero(t, p.Fine(due, due.Add(-time.Hour)))
	// Less than a whole day overdue floors to zero.
	assert.Zero(t, p.Fine(due, due.Add(23*time.Hour)))
	assert.Equal(t, 2.0, p.Fine(due, due.Add(25*time.Hour)))
	assert.Equal(t, 12.0, p.Fine(due, due.Add(6*24*time.Hour)))
}
