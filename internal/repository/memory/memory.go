// Package memory is an in-process repository.Store for local development
// and tests. It keeps insertion order and copies documents on the way in and
// out so callers never share state with the store.
package memory

import (
	"context"
	"maps"
	"sync"

	"github.com/Shivanand-hulikatti/eventoz/internal/model"
	"github.com/Shivanand-hulikatti/eventoz/internal/repository"
	"github.com/google/uuid"
)

type Store struct {
	mu            sync.RWMutex
	users         []model.User
	events        []model.Event
	registrations []model.Registration
}

var _ repository.Store = (*Store)(nil)

func NewStore() *Store {
	return &Store{}
}

func (s *Store) Users() repository.UserRepository                 { return users{s} }
func (s *Store) Events() repository.EventRepository               { return events{s} }
func (s *Store) Registrations() repository.RegistrationRepository { return registrations{s} }
func (s *Store) Ping(context.Context) error                       { return nil }
func (s *Store) Close(context.Context) error                      { return nil }

type users struct{ s *Store }

func (r users) Create(_ context.Context, u *model.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.users {
		if existing.Email == u.Email {
			return repository.ErrConflict
		}
	}
	u.ID = uuid.New().String()
	r.s.users = append(r.s.users, *u)
	return nil
}

func (r users) FindByEmail(_ context.Context, email string) (*model.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, u := range r.s.users {
		if u.Email == email {
			found := u
			return &found, nil
		}
	}
	return nil, repository.ErrNotFound
}

type events struct{ s *Store }

func (r events) Create(_ context.Context, e *model.Event) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.events = append(r.s.events, *e)
	return nil
}

func (r events) ListByOwner(_ context.Context, ownerID string) ([]model.Event, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []model.Event
	for _, e := range r.s.events {
		if e.OwnerID == ownerID {
			out = append(out, e)
		}
	}
	return out, nil
}

type registrations struct{ s *Store }

func (r registrations) Create(_ context.Context, reg *model.Registration) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.registrations = append(r.s.registrations, cloneRegistration(*reg))
	return nil
}

func (r registrations) FindRegistered(_ context.Context, id string) (*model.Registration, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	if i := r.indexRegistered(id); i >= 0 {
		reg := cloneRegistration(r.s.registrations[i])
		return &reg, nil
	}
	return nil, repository.ErrNotFound
}

func (r registrations) MarkAttended(_ context.Context, id string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	i := r.indexRegistered(id)
	if i < 0 {
		return 0, nil
	}
	r.s.registrations[i].Attended = true
	return 1, nil
}

func (r registrations) Count(_ context.Context, f repository.RegistrationFilter) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var n int64
	for _, reg := range r.s.registrations {
		if matches(reg, f) {
			n++
		}
	}
	return n, nil
}

func (r registrations) List(_ context.Context, f repository.RegistrationFilter) ([]model.Registration, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []model.Registration
	for _, reg := range r.s.registrations {
		if matches(reg, f) {
			out = append(out, cloneRegistration(reg))
		}
	}
	return out, nil
}

// indexRegistered must be called with the lock held.
func (r registrations) indexRegistered(id string) int {
	for i, reg := range r.s.registrations {
		if reg.ID == id && reg.Registered {
			return i
		}
	}
	return -1
}

func matches(reg model.Registration, f repository.RegistrationFilter) bool {
	if reg.FormID != f.FormID || !reg.Registered {
		return false
	}
	return !f.AttendedOnly || reg.Attended
}

func cloneRegistration(reg model.Registration) model.Registration {
	reg.Fields = maps.Clone(reg.Fields)
	return reg
}
