// internal/circulation/domain.go
package circulation

import (
	"errors"
	"time"
)

// Typed precondition failures. These are expected and recoverable: the
// caller decides how to surface them and store state is left untouched.
var (
	ErrBookUnavailable             = errors.New("no copies of the book are available")
	ErrMemberInactive              = errors.New("member is not active")
	ErrMemberAtLimit               = errors.New("member has reached the borrowing limit")
	ErrAlreadyReturned             = errors.New("transaction is already returned")
	ErrNotFound                    = errors.New("not found")
	ErrReferencedByOpenTransaction = errors.New("referenced by an open transaction")
)

// Policy holds the circulation constants. Consumed, never computed, by the
// engine.
type Policy struct {
	FinePerDay float64
	LoanPeriod time.Duration
}

// DefaultPolicy is one currency unit per overdue day and a 14 day loan.
func DefaultPolicy() Policy {
	return Policy{
		FinePerDay: 1,
		LoanPeriod: 14 * 24 * time.Hour,
	}
}

// Fine computes the deterministic overdue fine for a return at the given
// time: whole days past the due date, floored, times the per-day rate.
func (p Policy) Fine(dueDate, returnedAt time.Time) float64 {
	if !returnedAt.After(dueDate) {
		return 0
	}
	daysOverdue := int(returnedAt.Sub(dueDate).Hours() / 24)
	return float64(daysOverdue) * p.FinePerDay
}
