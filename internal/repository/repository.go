// Package repository declares the document-store contracts used by the
// service layer. Backends live in the postgres, mongodb and memory
// subpackages.
package repository

import (
	"context"
	"errors"

	"github.com/Shivanand-hulikatti/eventoz/internal/model"
)

// ErrNotFound is returned when a requested document does not exist.
var ErrNotFound = errors.New("not found")

// ErrConflict is returned when an insert violates a uniqueness constraint.
var ErrConflict = errors.New("conflict")

// UserRepository persists user accounts.
type UserRepository interface {
	// Create stores u and assigns u.ID. Returns ErrConflict when the email
	// is already taken.
	Create(ctx context.Context, u *model.User) error
	FindByEmail(ctx context.Context, email string) (*model.User, error)
}

// EventRepository persists events keyed by owner.
type EventRepository interface {
	Create(ctx context.Context, e *model.Event) error
	ListByOwner(ctx context.Context, ownerID string) ([]model.Event, error)
}

// RegistrationFilter selects registrations with registered=true for a form.
type RegistrationFilter struct {
	FormID       string
	AttendedOnly bool
}

// RegistrationRepository persists event registrations.
type RegistrationRepository interface {
	Create(ctx context.Context, r *model.Registration) error
	// FindRegistered returns the registration with the given id and
	// registered=true, or ErrNotFound.
	FindRegistered(ctx context.Context, id string) (*model.Registration, error)
	// MarkAttended sets attended=true on the registration matching id and
	// registered=true and reports how many documents matched.
	MarkAttended(ctx context.Context, id string) (int64, error)
	Count(ctx context.Context, f RegistrationFilter) (int64, error)
	List(ctx context.Context, f RegistrationFilter) ([]model.Registration, error)
}

// Store is a handle on one backend, shared by every request for the life of
// the process.
type Store interface {
	Users() UserRepository
	Events() EventRepository
	Registrations() RegistrationRepository
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}
