package domain

import (
	"context"
	"errors"
	"time"
)

// ErrAlreadyAssigned is returned when assigning a user who is already a
// guard of the event.
var ErrAlreadyAssigned = errors.New("already assigned as guard")

// Guard represents a person authorized to check in guests for one event.
// Assignments are per event; the same account may be a guard of any number
// of events independently.
// swagger:model Guard
type Guard struct {
	EventID   string    `json:"event_id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// GuardRepository defines the interface for guard assignment storage.
type GuardRepository interface {
	Add(ctx context.Context, eventID, userID string) error
	ListByEventID(ctx context.Context, eventID string) ([]*Guard, error)
	Remove(ctx context.Context, eventID, userID string) error
	// Exists is a direct existence check against the store, never a cached
	// view: a revoked guard must be rejected on the very next check-in.
	Exists(ctx context.Context, eventID, userID string) (bool, error)
}

// GuardService defines organizer-facing guard assignment operations.
type GuardService interface {
	// AssignGuardByEmail resolves the email to an account and grants it
	// check-in authority for the event. Fails with ErrInvalidInput on a
	// malformed email, ErrUserNotFound when no account matches, and
	// ErrAlreadyAssigned on a duplicate grant.
	AssignGuardByEmail(ctx context.Context, eventID, email, ownerID string) (*Guard, error)
	RevokeGuard(ctx context.Context, eventID, guardID, ownerID string) error
	ListGuards(ctx context.Context, eventID, ownerID string) ([]*Guard, error)
	// IsAuthorized reports whether userID may perform check-ins for the
	// event (assigned guard or event owner).
	IsAuthorized(ctx context.Context, eventID, userID string) (bool, error)
}
