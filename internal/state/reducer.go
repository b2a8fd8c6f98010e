// internal/state/reducer.go
package state

import (
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
)

// reduce maps (state, action) to a new state plus the channel-facing side
// effects derived from the mutation. The input state is never modified;
// collections touched by the action are cloned first. No I/O happens here.
//
// Precondition checks for the composite circulation actions are repeated
// here even though the circulation engine validates before dispatching:
// a composite action that no longer holds against the current state is
// dropped whole, so a half-applied issue or return can never be observed.
func reduce(s *AppState, a Action, now time.Time) (*AppState, []Outbound) {
	switch act := a.(type) {
	case AddBook:
		next := *s
		book := act.Book
		book.AvailableCopies = clamp(book.AvailableCopies, 0, book.TotalCopies)
		book.Status = DeriveBookStatus(book.AvailableCopies, book.TotalCopies)
		next.Books = append(slices.Clone(s.Books), book)
		notify(&next, now, NotificationSuccess, "Book Added",
			fmt.Sprintf("%q by %s added to the catalog", book.Title, book.Author))
		return &next, nil

	case UpdateBook:
		idx := indexByID(s.Books, act.Book.ID, func(b Book) uuid.UUID { return b.ID })
		if idx < 0 {
			return s, nil
		}
		next := *s
		book := act.Book
		book.AvailableCopies = clamp(book.AvailableCopies, 0, book.TotalCopies)
		book.Status = DeriveBookStatus(book.AvailableCopies, book.TotalCopies)
		next.Books = slices.Clone(s.Books)
		next.Books[idx] = book
		notify(&next, now, NotificationSuccess, "Book Updated",
			fmt.Sprintf("%q updated", book.Title))
		return &next, nil

	case RemoveBook:
		idx := indexByID(s.Books, act.ID, func(b Book) uuid.UUID { return b.ID })
		if idx < 0 || s.HasOpenTransaction(act.ID) {
			return s, nil
		}
		next := *s
		title := s.Books[idx].Title
		next.Books = slices.Delete(slices.Clone(s.Books), idx, idx+1)
		notify(&next, now, NotificationSuccess, "Book Removed",
			fmt.Sprintf("%q removed from the catalog", title))
		return &next, nil

	case AddMember:
		next := *s
		member := act.Member
		member.BooksIssued = clamp(member.BooksIssued, 0, member.MaxBooks)
		member.FineAmount = max(0, member.FineAmount)
		next.Members = append(slices.Clone(s.Members), member)
		notify(&next, now, NotificationSuccess, "Member Added",
			fmt.Sprintf("%s registered as a %s member", member.Name, member.MemberType))
		return &next, nil

	case UpdateMember:
		idx := indexByID(s.Members, act.Member.ID, func(m Member) uuid.UUID { return m.ID })
		if idx < 0 {
			return s, nil
		}
		next := *s
		member := act.Member
		member.BooksIssued = clamp(member.BooksIssued, 0, member.MaxBooks)
		member.FineAmount = max(0, member.FineAmount)
		next.Members = slices.Clone(s.Members)
		next.Members[idx] = member
		notify(&next, now, NotificationSuccess, "Member Updated",
			fmt.Sprintf("%s updated", member.Name))
		return &next, nil

	case RemoveMember:
		idx := indexByID(s.Members, act.ID, func(m Member) uuid.UUID { return m.ID })
		if idx < 0 || s.HasOpenTransaction(act.ID) {
			return s, nil
		}
		next := *s
		name := s.Members[idx].Name
		next.Members = slices.Delete(slices.Clone(s.Members), idx, idx+1)
		notify(&next, now, NotificationSuccess, "Member Removed",
			fmt.Sprintf("%s removed", name))
		return &next, nil

	case IssueBook:
		return reduceIssue(s, act, now)

	case ReturnBook:
		return reduceReturn(s, act, now)

	case AddUser:
		next := *s
		next.Users = append(slices.Clone(s.Users), act.User)
		notify(&next, now, NotificationInfo, "User Registered",
			fmt.Sprintf("%s awaiting approval", act.User.Email))
		return &next, nil

	case ApproveUser:
		idx := indexByID(s.Users, act.ID, func(u User) uuid.UUID { return u.ID })
		if idx < 0 {
			return s, nil
		}
		next := *s
		next.Users = slices.Clone(s.Users)
		next.Users[idx].Status = UserStatusApproved
		user := next.Users[idx]
		notify(&next, now, NotificationSuccess, "User Approved",
			fmt.Sprintf("account for %s approved", user.Email))
		return &next, []Outbound{{
			Kind:    OutboundAccountApproved,
			Email:   user.Email,
			Phone:   user.Phone,
			Subject: "Your account has been approved",
			Body:    fmt.Sprintf("Hello %s, your dashboard account is now active.", user.Name),
		}}

	case RejectUser:
		idx := indexByID(s.Users, act.ID, func(u User) uuid.UUID { return u.ID })
		if idx < 0 {
			return s, nil
		}
		next := *s
		next.Users = slices.Clone(s.Users)
		next.Users[idx].Status = UserStatusRejected
		user := next.Users[idx]
		notify(&next, now, NotificationWarning, "User Rejected",
			fmt.Sprintf("account for %s rejected", user.Email))
		return &next, []Outbound{{
			Kind:    OutboundAccountRejected,
			Email:   user.Email,
			Phone:   user.Phone,
			Subject: "Your account request was declined",
			Body:    fmt.Sprintf("Hello %s, your dashboard account request was declined.", user.Name),
		}}

	case AssignPassword:
		idx := indexByID(s.Users, act.ID, func(u User) uuid.UUID { return u.ID })
		if idx < 0 {
			return s, nil
		}
		next := *s
		next.Users = slices.Clone(s.Users)
		next.Users[idx].PasswordHash = act.PasswordHash
		next.Users[idx].Salt = act.Salt
		user := next.Users[idx]
		notify(&next, now, NotificationSuccess, "Password Assigned",
			fmt.Sprintf("password set for %s", user.Email))
		return &next, []Outbound{{
			Kind:    OutboundPasswordAssigned,
			Email:   user.Email,
			Phone:   user.Phone,
			Subject: "Your password has been set",
			Body:    fmt.Sprintf("Hello %s, a password was assigned to your account.", user.Name),
		}}

	case RemoveUser:
		idx := indexByID(s.Users, act.ID, func(u User) uuid.UUID { return u.ID })
		if idx < 0 {
			return s, nil
		}
		next := *s
		email := s.Users[idx].Email
		next.Users = slices.Delete(slices.Clone(s.Users), idx, idx+1)
		notify(&next, now, NotificationSuccess, "User Removed",
			fmt.Sprintf("account for %s removed", email))
		return &next, nil

	case AddStudent:
		next := *s
		next.Students = append(slices.Clone(s.Students), act.Student)
		notify(&next, now, NotificationSuccess, "Student Added", act.Student.Name)
		return &next, nil

	case RemoveStudent:
		idx := indexByID(s.Students, act.ID, func(st Student) uuid.UUID { return st.ID })
		if idx < 0 {
			return s, nil
		}
		next := *s
		name := s.Students[idx].Name
		next.Students = slices.Delete(slices.Clone(s.Students), idx, idx+1)
		notify(&next, now, NotificationSuccess, "Student Removed", name)
		return &next, nil

	case AddFaculty:
		next := *s
		next.Faculty = append(slices.Clone(s.Faculty), act.Faculty)
		notify(&next, now, NotificationSuccess, "Faculty Added", act.Faculty.Name)
		return &next, nil

	case RemoveFaculty:
		idx := indexByID(s.Faculty, act.ID, func(f FacultyMember) uuid.UUID { return f.ID })
		if idx < 0 {
			return s, nil
		}
		next := *s
		name := s.Faculty[idx].Name
		next.Faculty = slices.Delete(slices.Clone(s.Faculty), idx, idx+1)
		notify(&next, now, NotificationSuccess, "Faculty Removed", name)
		return &next, nil

	case AddCourse:
		next := *s
		next.Courses = append(slices.Clone(s.Courses), act.Course)
		notify(&next, now, NotificationSuccess, "Course Added",
			fmt.Sprintf("%s %s", act.Course.Code, act.Course.Title))
		return &next, nil

	case RemoveCourse:
		idx := indexByID(s.Courses, act.ID, func(c Course) uuid.UUID { return c.ID })
		if idx < 0 {
			return s, nil
		}
		next := *s
		code := s.Courses[idx].Code
		next.Courses = slices.Delete(slices.Clone(s.Courses), idx, idx+1)
		notify(&next, now, NotificationSuccess, "Course Removed", code)
		return &next, nil

	case MarkNotificationRead:
		idx := indexByID(s.Notifications, act.ID, func(n Notification) uuid.UUID { return n.ID })
		if idx < 0 {
			return s, nil
		}
		next := *s
		next.Notifications = slices.Clone(s.Notifications)
		next.Notifications[idx].Read = true
		return &next, nil

	case ClearNotifications:
		next := *s
		next.Notifications = nil
		return &next, nil

	default:
		return s, nil
	}
}

func reduceIssue(s *AppState, act IssueBook, now time.Time) (*AppState, []Outbound) {
	t := act.Transaction
	bookIdx := indexByID(s.Books, t.BookID, func(b Book) uuid.UUID { return b.ID })
	memberIdx := indexByID(s.Members, t.MemberID, func(m Member) uuid.UUID { return m.ID })
	if bookIdx < 0 || memberIdx < 0 {
		return s, nil
	}
	book := s.Books[bookIdx]
	member := s.Members[memberIdx]
	if book.AvailableCopies < 1 || member.Status != MemberStatusActive || member.BooksIssued >= member.MaxBooks {
		return s, nil
	}

	next := *s
	next.Books = slices.Clone(s.Books)
	next.Members = slices.Clone(s.Members)
	next.Transactions = append(slices.Clone(s.Transactions), t)

	book.AvailableCopies--
	book.Status = DeriveBookStatus(book.AvailableCopies, book.TotalCopies)
	next.Books[bookIdx] = book

	member.BooksIssued++
	next.Members[memberIdx] = member

	notify(&next, now, NotificationSuccess, "Book Issued",
		fmt.Sprintf("%q issued to %s, due %s", book.Title, member.Name, t.DueDate.Format("2006-01-02")))
	return &next, nil
}

func reduceReturn(s *AppState, act ReturnBook, now time.Time) (*AppState, []Outbound) {
	txnIdx := indexByID(s.Transactions, act.TransactionID, func(t Transaction) uuid.UUID { return t.ID })
	if txnIdx < 0 || s.Transactions[txnIdx].Status != TransactionIssued {
		return s, nil
	}
	t := s.Transactions[txnIdx]
	bookIdx := indexByID(s.Books, t.BookID, func(b Book) uuid.UUID { return b.ID })
	memberIdx := indexByID(s.Members, t.MemberID, func(m Member) uuid.UUID { return m.ID })
	if bookIdx < 0 || memberIdx < 0 {
		return s, nil
	}

	next := *s
	next.Books = slices.Clone(s.Books)
	next.Members = slices.Clone(s.Members)
	next.Transactions = slices.Clone(s.Transactions)

	t.Status = TransactionReturned
	t.ReturnDate = act.ReturnDate
	t.Fine = max(0, act.Fine)
	next.Transactions[txnIdx] = t

	book := s.Books[bookIdx]
	book.AvailableCopies = clamp(book.AvailableCopies+1, 0, book.TotalCopies)
	book.Status = DeriveBookStatus(book.AvailableCopies, book.TotalCopies)
	next.Books[bookIdx] = book

	member := s.Members[memberIdx]
	member.FineAmount += t.Fine
	member.BooksIssued = max(0, member.BooksIssued-1)
	next.Members[memberIdx] = member

	if t.Fine > 0 {
		notify(&next, now, NotificationWarning, "Book Returned",
			fmt.Sprintf("%q returned late by %s, fine %.2f", book.Title, member.Name, t.Fine))
		return &next, []Outbound{{
			Kind:    OutboundOverdueReturn,
			Email:   member.Email,
			Phone:   member.Phone,
			Subject: "Overdue book returned",
			Body: fmt.Sprintf("Hello %s, %q was returned after its due date. A fine of %.2f was added to your account.",
				member.Name, book.Title, t.Fine),
		}}
	}

	notify(&next, now, NotificationSuccess, "Book Returned",
		fmt.Sprintf("%q returned by %s", book.Title, member.Name))
	return &next, nil
}

// notify appends the single system notification that accompanies every
// successful mutation. It runs in the same reducer pass as the mutation so
// the two can never fall out of sync.
func notify(s *AppState, now time.Time, typ NotificationType, title, message string) {
	s.Notifications = append(slices.Clone(s.Notifications), Notification{
		ID:        uuid.New(),
		Type:      typ,
		Title:     title,
		Message:   message,
		Timestamp: now,
	})
}

func indexByID[T any](items []T, id uuid.UUID, idOf func(T) uuid.UUID) int {
	for i := range items {
		if idOf(items[i]) == id {
			return i
		}
	}
	return -1
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
