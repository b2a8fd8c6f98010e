// internal/state/domain.go
package state

import (
	"time"

	"github.com/google/uuid"
)

// BookStatus is derived from the copy counts and is never set directly.
type BookStatus string

const (
	BookStatusAvailable  BookStatus = "available"
	BookStatusLimited    BookStatus = "limited"
	BookStatusOutOfStock BookStatus = "out_of_stock"
)

// Book represents a title in the library catalog. Copy identity is tracked
// only in aggregate via AvailableCopies, not per physical copy.
type Book struct {
	ID              uuid.UUID  `json:"id"`
	Title           string     `json:"title"`
	Author          string     `json:"author"`
	ISBN            string     `json:"isbn"`
	Category        string     `json:"category"`
	TotalCopies     int        `json:"total_copies"`
	AvailableCopies int        `json:"available_copies"`
	Status          BookStatus `json:"status"`
}

// DeriveBookStatus computes the tiered status for the given copy counts:
// Available while more than a third of the copies remain, Limited down to
// the last copy, OutOfStock at zero.
func DeriveBookStatus(available, total int) BookStatus {
	switch {
	case available <= 0:
		return BookStatusOutOfStock
	case 3*available > total:
		return BookStatusAvailable
	default:
		return BookStatusLimited
	}
}

// MemberType determines the default borrowing limit at registration time.
type MemberType string

const (
	MemberTypeStudent MemberType = "student"
	MemberTypeFaculty MemberType = "faculty"
	MemberTypeStaff   MemberType = "staff"
)

type MemberStatus string

const (
	MemberStatusActive    MemberStatus = "active"
	MemberStatusSuspended MemberStatus = "suspended"
)

// Member represents a library member.
type Member struct {
	ID           uuid.UUID    `json:"id"`
	Name         string       `json:"name"`
	MembershipID string       `json:"membership_id"`
	Email        string       `json:"email,omitempty"`
	Phone        string       `json:"phone,omitempty"`
	MemberType   MemberType   `json:"member_type"`
	MaxBooks     int          `json:"max_books"`
	BooksIssued  int          `json:"books_issued"`
	FineAmount   float64      `json:"fine_amount"`
	Status       MemberStatus `json:"status"`
}

type TransactionStatus string

const (
	TransactionIssued   TransactionStatus = "issued"
	TransactionReturned TransactionStatus = "returned"
)

// Transaction records one circulation of a book copy against a member.
// The only transition is Issued to Returned; Fine is fixed at the moment
// of return.
type Transaction struct {
	ID         uuid.UUID         `json:"id"`
	BookID     uuid.UUID         `json:"book_id"`
	MemberID   uuid.UUID         `json:"member_id"`
	IssueDate  time.Time         `json:"issue_date"`
	DueDate    time.Time         `json:"due_date"`
	ReturnDate time.Time         `json:"return_date,omitzero"`
	Status     TransactionStatus `json:"status"`
	Fine       float64           `json:"fine"`
}

type NotificationType string

const (
	NotificationSuccess NotificationType = "success"
	NotificationError   NotificationType = "error"
	NotificationWarning NotificationType = "warning"
	NotificationInfo    NotificationType = "info"
)

// Notification is an append-only record of a completed mutation. It is
// mutated only by mark-read and clear-all.
type Notification struct {
	ID        uuid.UUID        `json:"id"`
	Type      NotificationType `json:"type"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	Timestamp time.Time        `json:"timestamp"`
	Read      bool             `json:"read"`
}

type UserStatus string

const (
	UserStatusPending  UserStatus = "pending"
	UserStatusApproved UserStatus = "approved"
	UserStatusRejected UserStatus = "rejected"
)

// User is a dashboard account, distinct from a library Member.
type User struct {
	ID           uuid.UUID  `json:"id"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	Phone        string     `json:"phone,omitempty"`
	Role         string     `json:"role"`
	Status       UserStatus `json:"status"`
	PasswordHash string     `json:"password_hash,omitempty"`
	Salt         string     `json:"salt,omitempty"`
}

// Redacted returns a copy safe for API responses.
func (u User) Redacted() User {
	u.PasswordHash = ""
	u.Salt = ""
	return u
}

// Student, FacultyMember and Course live in the same tree as the library
// collections but carry no business rules.
type Student struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	RollNumber string    `json:"roll_number"`
	Class      string    `json:"class"`
	Email      string    `json:"email,omitempty"`
}

type FacultyMember struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Department string    `json:"department"`
	Email      string    `json:"email,omitempty"`
}

type Course struct {
	ID         uuid.UUID `json:"id"`
	Code       string    `json:"code"`
	Title      string    `json:"title"`
	Department string    `json:"department"`
	Credits    int       `json:"credits"`
}

// AppState is the aggregate root. The Store exclusively owns the current
// instance; every value handed out is an immutable snapshot.
type AppState struct {
	Books         []Book          `json:"books"`
	Members       []Member        `json:"members"`
	Transactions  []Transaction   `json:"libraryTransactions"`
	Students      []Student       `json:"students"`
	Faculty       []FacultyMember `json:"faculty"`
	Courses       []Course        `json:"courses"`
	Users         []User          `json:"users"`
	Notifications []Notification  `json:"notifications"`
}

// Default returns the seeded state used when no snapshot exists.
func Default() *AppState {
	return &AppState{}
}

// FindBook returns the book with the given id, or nil.
func (s *AppState) FindBook(id uuid.UUID) *Book {
	for i := range s.Books {
		if s.Books[i].ID == id {
			return &s.Books[i]
		}
	}
	return nil
}

// FindMember returns the member with the given id, or nil.
func (s *AppState) FindMember(id uuid.UUID) *Member {
	for i := range s.Members {
		if s.Members[i].ID == id {
			return &s.Members[i]
		}
	}
	return nil
}

// FindTransaction returns the transaction with the given id, or nil.
func (s *AppState) FindTransaction(id uuid.UUID) *Transaction {
	for i := range s.Transactions {
		if s.Transactions[i].ID == id {
			return &s.Transactions[i]
		}
	}
	return nil
}

// FindUser returns the user with the given id, or nil.
func (s *AppState) FindUser(id uuid.UUID) *User {
	for i := range s.Users {
		if s.Users[i].ID == id {
			return &s.Users[i]
		}
	}
	return nil
}

// HasOpenTransaction reports whether any issued transaction references the
// given book or member id.
func (s *AppState) HasOpenTransaction(id uuid.UUID) bool {
	for i := range s.Transactions {
		t := &s.Transactions[i]
		if t.Status == TransactionIssued && (t.BookID == id || t.MemberID == id) {
			return true
		}
	}
	return false
}
