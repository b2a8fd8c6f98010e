// internal/circulation/implementation.go
package circulation

import (
	"context"
	"sync"
	"time"

	"campushub/internal/state"

	"github.com/google/uuid"
)

// service implements the Service interface over the state store.
type service struct {
	store  *state.Store
	policy Policy
	now    func() time.Time

	// Serializes validate-then-dispatch so two engine operations cannot
	// both pass preconditions against the same snapshot.
	mu sync.Mutex
}

// NewService creates a new circulation engine instance.
func NewService(store *state.Store, policy Policy) Service {
	return &service{
		store:  store,
		policy: policy,
		now:    time.Now,
	}
}

// IssueBook validates the issue preconditions against the current snapshot
// and, on success, dispatches one composite action that creates the
// transaction, decrements the book's available copies and increments the
// member's issued count.
func (s *service) IssueBook(ctx context.Context, bookID, memberID uuid.UUID, dueDate time.Time) (*state.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.store.State()
	book := snapshot.FindBook(bookID)
	if book == nil {
		return nil, ErrNotFound
	}
	member := snapshot.FindMember(memberID)
	if member == nil {
		return nil, ErrNotFound
	}
	if book.AvailableCopies < 1 {
		return nil, ErrBookUnavailable
	}
	if member.Status != state.MemberStatusActive {
		return nil, ErrMemberInactive
	}
	if member.BooksIssued >= member.MaxBooks {
		return nil, ErrMemberAtLimit
	}

	issuedAt := s.now()
	if dueDate.IsZero() {
		dueDate = issuedAt.Add(s.policy.LoanPeriod)
	}
	txn := state.Transaction{
		ID:        uuid.New(),
		BookID:    bookID,
		MemberID:  memberID,
		IssueDate: issuedAt,
		DueDate:   dueDate,
		Status:    state.TransactionIssued,
	}

	s.store.Dispatch(ctx, state.IssueBook{Transaction: txn})
	return &txn, nil
}

// ReturnBook closes an issued transaction: the fine is fixed here, the
// composite action restores the copy count, recomputes the book's tiered
// status and adds the fine to the member's balance.
func (s *service) ReturnBook(ctx context.Context, transactionID uuid.UUID) (*state.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.store.State()
	txn := snapshot.FindTransaction(transactionID)
	if txn == nil {
		return nil, ErrNotFound
	}
	if txn.Status != state.TransactionIssued {
		return nil, ErrAlreadyReturned
	}

	returnedAt := s.now()
	fine := s.policy.Fine(txn.DueDate, returnedAt)

	s.store.Dispatch(ctx, state.ReturnBook{
		TransactionID: transactionID,
		ReturnDate:    returnedAt,
		Fine:          fine,
	})

	returned := *txn
	returned.Status = state.TransactionReturned
	returned.ReturnDate = returnedAt
	returned.Fine = fine
	return &returned, nil
}

// DeleteBook removes a book unless an open transaction still references it.
func (s *service) DeleteBook(ctx context.Context, bookID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.store.State()
	if snapshot.FindBook(bookID) == nil {
		return ErrNotFound
	}
	if snapshot.HasOpenTransaction(bookID) {
		return ErrReferencedByOpenTransaction
	}

	s.store.Dispatch(ctx, state.RemoveBook{ID: bookID})
	return nil
}

// ListTransactions returns the full circulation history snapshot.
func (s *service) ListTransactions(_ context.Context) []state.Transaction {
	return s.store.State().Transactions
}

// DeleteMember removes a member unless an open transaction still references
// them.
func (s *service) DeleteMember(ctx context.Context, memberID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.store.State()
	if snapshot.FindMember(memberID) == nil {
		return ErrNotFound
	}
	if snapshot.HasOpenTransaction(memberID) {
		return ErrReferencedByOpenTransaction
	}

	s.store.Dispatch(ctx, state.RemoveMember{ID: memberID})
	return nil
}
