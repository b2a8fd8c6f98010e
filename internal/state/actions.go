// internal/state/actions.go
package state

import (
	"time"

	"github.com/google/uuid"
)

// Action is the closed tagged union of all mutation intents. The reducer
// matches on the concrete type; anything it does not recognize is a safe
// no-op.
type Action interface {
	isAction()
	Name() string
}

// Catalog actions.

type AddBook struct{ Book Book }

type UpdateBook struct{ Book Book }

type RemoveBook struct{ ID uuid.UUID }

// Membership actions.

type AddMember struct{ Member Member }

type UpdateMember struct{ Member Member }

type RemoveMember struct{ ID uuid.UUID }

// Circulation composites. These are built only by the circulation engine:
// one action mutates the book, the member and the transaction list together
// so atomicity is structural, not a matter of caller discipline.

type IssueBook struct{ Transaction Transaction }

type ReturnBook struct {
	TransactionID uuid.UUID
	ReturnDate    time.Time
	Fine          float64
}

// Account actions.

type AddUser struct{ User User }

type ApproveUser struct{ ID uuid.UUID }

type RejectUser struct{ ID uuid.UUID }

type AssignPassword struct {
	ID           uuid.UUID
	PasswordHash string
	Salt         string
}

type RemoveUser struct{ ID uuid.UUID }

// Roster actions for the co-located collections. No cross-entity rules.

type AddStudent struct{ Student Student }

type RemoveStudent struct{ ID uuid.UUID }

type AddFaculty struct{ Faculty FacultyMember }

type RemoveFaculty struct{ ID uuid.UUID }

type AddCourse struct{ Course Course }

type RemoveCourse struct{ ID uuid.UUID }

// Notification actions.

type MarkNotificationRead struct{ ID uuid.UUID }

type ClearNotifications struct{}

func (AddBook) isAction()              {}
func (UpdateBook) isAction()           {}
func (RemoveBook) isAction()           {}
func (AddMember) isAction()            {}
func (UpdateMember) isAction()         {}
func (RemoveMember) isAction()         {}
func (IssueBook) isAction()            {}
func (ReturnBook) isAction()           {}
func (AddUser) isAction()              {}
func (ApproveUser) isAction()          {}
func (RejectUser) isAction()           {}
func (AssignPassword) isAction()       {}
func (RemoveUser) isAction()           {}
func (AddStudent) isAction()           {}
func (RemoveStudent) isAction()        {}
func (AddFaculty) isAction()           {}
func (RemoveFaculty) isAction()        {}
func (AddCourse) isAction()            {}
func (RemoveCourse) isAction()         {}
func (MarkNotificationRead) isAction() {}
func (ClearNotifications) isAction()   {}

func (AddBook) Name() string              { return "AddBook" }
func (UpdateBook) Name() string           { return "UpdateBook" }
func (RemoveBook) Name() string           { return "RemoveBook" }
func (AddMember) Name() string            { return "AddMember" }
func (UpdateMember) Name() string         { return "UpdateMember" }
func (RemoveMember) Name() string         { return "RemoveMember" }
func (IssueBook) Name() string            { return "IssueBook" }
func (ReturnBook) Name() string           { return "ReturnBook" }
func (AddUser) Name() string              { return "AddUser" }
func (ApproveUser) Name() string          { return "ApproveUser" }
func (RejectUser) Name() string           { return "RejectUser" }
func (AssignPassword) Name() string       { return "AssignPassword" }
func (RemoveUser) Name() string           { return "RemoveUser" }
func (AddStudent) Name() string           { return "AddStudent" }
func (RemoveStudent) Name() string        { return "RemoveStudent" }
func (AddFaculty) Name() string           { return "AddFaculty" }
func (RemoveFaculty) Name() string        { return "RemoveFaculty" }
func (AddCourse) Name() string            { return "AddCourse" }
func (RemoveCourse) Name() string         { return "RemoveCourse" }
func (MarkNotificationRead) Name() string { return "MarkNotificationRead" }
func (ClearNotifications) Name() string   { return "ClearNotifications" }

// OutboundKind tags a channel-facing side effect derived from a mutation.
type OutboundKind string

const (
	OutboundAccountApproved  OutboundKind = "account_approved"
	OutboundAccountRejected  OutboundKind = "account_rejected"
	OutboundPasswordAssigned OutboundKind = "password_assigned"
	OutboundOverdueReturn    OutboundKind = "overdue_return"
)

// Outbound is a channel notification intent returned by the reducer
// alongside the new state. The core never delivers it; an external
// dispatcher does, best-effort.
type Outbound struct {
	Kind    OutboundKind
	Email   string
	Phone   string
	Subject string
	Body    string
}
