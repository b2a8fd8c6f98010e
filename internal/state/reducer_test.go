// internal/state/reducer_test.go
package state

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type bogusAction struct{}

func (bogusAction) isAction()    {}
func (bogusAction) Name() string { return "Bogus" }

func seededState() *AppState {
	return &AppState{
		Books: []Book{{
			ID:              uuid.New(),
			Title:           "The Go Programming Language",
			Author:          "Donovan & Kernighan",
			ISBN:            "9780134190440",
			TotalCopies:     3,
			AvailableCopies: 3,
			Status:          BookStatusAvailable,
		}},
		Members: []Member{{
			ID:           uuid.New(),
			Name:         "Priya Raman",
			MembershipID: "M-1001",
			Email:        "priya@example.edu",
			MemberType:   MemberTypeStudent,
			MaxBooks:     5,
			Status:       MemberStatusActive,
		}},
	}
}

func TestReduceAddBookDerivesStatusAndNotifies(t *testing.T) {
	s := &AppState{}

	next, outbound := reduce(s, AddBook{Book: Book{
		ID:              uuid.New(),
		Title:           "Clean Architecture",
		Author:          "Robert Martin",
		TotalCopies:     4,
		AvailableCopies: 4,
	}}, testNow)

	require.Len(t, next.Books, 1)
	assert.Equal(t, BookStatusAvailable, next.Books[0].Status)
	assert.Empty(t, outbound)

	require.Len(t, next.Notifications, 1)
	assert.Equal(t, "Book Added", next.Notifications[0].Title)
	assert.Equal(t, NotificationSuccess, next.Notifications[0].Type)
	assert.Equal(t, testNow, next.Notifications[0].Timestamp)

	// The input state is untouched.
	assert.Empty(t, s.Books)
	assert.Empty(t, s.Notifications)
}

func TestReduceEverySuccessfulMutationAppendsExactlyOneNotification(t *testing.T) {
	s := seededState()
	studentID := uuid.New()
	userID := uuid.New()

	actions := []Action{
		AddBook{Book: Book{ID: uuid.New(), Title: "SICP", TotalCopies: 1, AvailableCopies: 1}},
		AddMember{Member: Member{ID: uuid.New(), Name: "Ben", MemberType: MemberTypeStaff, MaxBooks: 3, Status: MemberStatusActive}},
		AddStudent{Student: Student{ID: studentID, Name: "Alice", RollNumber: "S-1"}},
		RemoveStudent{ID: studentID},
		AddFaculty{Faculty: FacultyMember{ID: uuid.New(), Name: "Dr. Wu", Department: "CS"}},
		AddCourse{Course: Course{ID: uuid.New(), Code: "CS101", Title: "Intro"}},
		AddUser{User: User{ID: userID, Name: "Admin", Email: "admin@example.edu"}},
		ApproveUser{ID: userID},
	}

	for _, a := range actions {
		before := len(s.Notifications)
		s, _ = reduce(s, a, testNow)
		assert.Equalf(t, before+1, len(s.Notifications), "action %s", a.Name())
	}
}

func TestReduceUnknownActionIsSafeNoOp(t *testing.T) {
	s := seededState()

	next, outbound := reduce(s, bogusAction{}, testNow)

	assert.Same(t, s, next)
	assert.Empty(t, outbound)
}

func TestReduceIssueBookMutatesThreeAggregatesTogether(t *testing.T) {
	s := seededState()
	book := s.Books[0]
	member := s.Members[0]

	txn := Transaction{
		ID:        uuid.New(),
		BookID:    book.ID,
		MemberID:  member.ID,
		IssueDate: testNow,
		DueDate:   testNow.AddDate(0, 0, 14),
		Status:    TransactionIssued,
	}
	next, outbound := reduce(s, IssueBook{Transaction: txn}, testNow)

	require.NotSame(t, s, next)
	assert.Empty(t, outbound)
	assert.Equal(t, 2, next.Books[0].AvailableCopies)
	assert.Equal(t, BookStatusAvailable, next.Books[0].Status)
	assert.Equal(t, 1, next.Members[0].BooksIssued)
	require.Len(t, next.Transactions, 1)
	assert.Equal(t, TransactionIssued, next.Transactions[0].Status)

	// The issuing snapshot kept its pre-issue values.
	assert.Equal(t, 3, s.Books[0].AvailableCopies)
	assert.Equal(t, 0, s.Members[0].BooksIssued)
	assert.Empty(t, s.Transactions)
}

func TestReduceIssueBookDroppedWholeWhenUnavailable(t *testing.T) {
	s := seededState()
	s.Books[0].AvailableCopies = 0
	s.Books[0].Status = BookStatusOutOfStock

	txn := Transaction{
		ID:       uuid.New(),
		BookID:   s.Books[0].ID,
		MemberID: s.Members[0].ID,
		Status:   TransactionIssued,
	}
	next, _ := reduce(s, IssueBook{Transaction: txn}, testNow)

	assert.Same(t, s, next)
}

func TestReduceReturnBookRecomputesTieredStatus(t *testing.T) {
	// A 10-copy book returning to 2 available must read Limited, not
	// Available.
	s := seededState()
	s.Books[0].TotalCopies = 10
	s.Books[0].AvailableCopies = 1
	s.Books[0].Status = BookStatusLimited
	s.Members[0].BooksIssued = 1

	txnID := uuid.New()
	s.Transactions = []Transaction{{
		ID:       txnID,
		BookID:   s.Books[0].ID,
		MemberID: s.Members[0].ID,
		DueDate:  testNow.AddDate(0, 0, 14),
		Status:   TransactionIssued,
	}}

	next, outbound := reduce(s, ReturnBook{TransactionID: txnID, ReturnDate: testNow}, testNow)

	assert.Equal(t, 2, next.Books[0].AvailableCopies)
	assert.Equal(t, BookStatusLimited, next.Books[0].Status)
	assert.Equal(t, 0, next.Members[0].BooksIssued)
	assert.Equal(t, TransactionReturned, next.Transactions[0].Status)
	assert.Zero(t, next.Transactions[0].Fine)
	assert.Empty(t, outbound)
}

func TestReduceReturnBookWithFineEmitsOutbound(t *testing.T) {
	s := seededState()
	s.Books[0].AvailableCopies = 2
	s.Members[0].BooksIssued = 1

	txnID := uuid.New()
	s.Transactions = []Transaction{{
		ID:       txnID,
		BookID:   s.Books[0].ID,
		MemberID: s.Members[0].ID,
		DueDate:  testNow.AddDate(0, 0, -6),
		Status:   TransactionIssued,
	}}

	next, outbound := reduce(s, ReturnBook{TransactionID: txnID, ReturnDate: testNow, Fine: 6}, testNow)

	assert.Equal(t, 6.0, next.Transactions[0].Fine)
	assert.Equal(t, 6.0, next.Members[0].FineAmount)
	require.Len(t, outbound, 1)
	assert.Equal(t, OutboundOverdueReturn, outbound[0].Kind)
	assert.Equal(t, "priya@example.edu", outbound[0].Email)

	require.Len(t, next.Notifications, 1)
	assert.Equal(t, NotificationWarning, next.Notifications[0].Type)
}

func TestReduceReturnBookAlreadyReturnedIsNoOp(t *testing.T) {
	s := seededState()
	txnID := uuid.New()
	s.Transactions = []Transaction{{
		ID:       txnID,
		BookID:   s.Books[0].ID,
		MemberID: s.Members[0].ID,
		Status:   TransactionReturned,
	}}

	next, _ := reduce(s, ReturnBook{TransactionID: txnID, ReturnDate: testNow, Fine: 3}, testNow)

	assert.Same(t, s, next)
}

func TestReduceRemoveBookBlockedByOpenTransaction(t *testing.T) {
	s := seededState()
	s.Transactions = []Transaction{{
		ID:       uuid.New(),
		BookID:   s.Books[0].ID,
		MemberID: s.Members[0].ID,
		Status:   TransactionIssued,
	}}

	next, _ := reduce(s, RemoveBook{ID: s.Books[0].ID}, testNow)

	assert.Same(t, s, next)
}

func TestReduceNotificationActionsTouchNothingElse(t *testing.T) {
	s := seededState()
	s, _ = reduce(s, AddStudent{Student: Student{ID: uuid.New(), Name: "Alice"}}, testNow)
	require.Len(t, s.Notifications, 1)
	notifID := s.Notifications[0].ID

	marked, outbound := reduce(s, MarkNotificationRead{ID: notifID}, testNow)
	assert.Empty(t, outbound)
	assert.True(t, marked.Notifications[0].Read)
	assert.Len(t, marked.Notifications, 1)
	assert.Equal(t, s.Books, marked.Books)
	assert.Equal(t, s.Members, marked.Members)
	assert.Equal(t, s.Students, marked.Students)

	cleared, _ := reduce(marked, ClearNotifications{}, testNow)
	assert.Empty(t, cleared.Notifications)
	assert.Equal(t, marked.Books, cleared.Books)
	assert.Equal(t, marked.Members, cleared.Members)
	assert.Equal(t, marked.Students, cleared.Students)
}

func TestReduceApproveRejectAndPasswordEmitOutbound(t *testing.T) {
	userID := uuid.New()
	s := &AppState{Users: []User{{
		ID:     userID,
		Name:   "Admin",
		Email:  "admin@example.edu",
		Phone:  "+1555010",
		Status: UserStatusPending,
	}}}

	approved, outbound := reduce(s, ApproveUser{ID: userID}, testNow)
	assert.Equal(t, UserStatusApproved, approved.Users[0].Status)
	require.Len(t, outbound, 1)
	assert.Equal(t, OutboundAccountApproved, outbound[0].Kind)

	assigned, outbound := reduce(approved, AssignPassword{ID: userID, PasswordHash: "h", Salt: "s"}, testNow)
	assert.Equal(t, "h", assigned.Users[0].PasswordHash)
	require.Len(t, outbound, 1)
	assert.Equal(t, OutboundPasswordAssigned, outbound[0].Kind)

	rejected, outbound := reduce(assigned, RejectUser{ID: userID}, testNow)
	assert.Equal(t, UserStatusRejected, rejected.Users[0].Status)
	require.Len(t, outbound, 1)
	assert.Equal(t, OutboundAccountRejected, outbound[0].Kind)
}

func TestDeriveBookStatus(t *testing.T) {
	tests := []struct {
		available int
		total     int
		want      BookStatus
	}{
		{0, 3, BookStatusOutOfStock},
		{1, 3, BookStatusLimited},
		{2, 3, BookStatusAvailable},
		{3, 3, BookStatusAvailable},
		{2, 10, BookStatusLimited},
		{3, 10, BookStatusLimited},
		{4, 10, BookStatusAvailable},
		{0, 0, BookStatusOutOfStock},
	}

	for _, tt := range tests {
		assert.Equalf(t, tt.want, DeriveBookStatus(tt.available, tt.total),
			"available=%d total=%d", tt.available, tt.total)
	}
}
