// Package repotest holds the behaviour every repository.Store backend must
// share. Backend test files call Run with a constructor for a clean store.
package repotest

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/Shivanand-hulikatti/eventoz/internal/model"
	"github.com/Shivanand-hulikatti/eventoz/internal/repository"
	"github.com/stretchr/testify/require"
)

// Run executes the shared store suite. newStore must return an empty store.
func Run(t *testing.T, newStore func(t *testing.T) repository.Store) {
	t.Run("users", func(t *testing.T) { testUsers(t, newStore(t)) })
	t.Run("users concurrent duplicate", func(t *testing.T) { testConcurrentDuplicateEmail(t, newStore(t)) })
	t.Run("events", func(t *testing.T) { testEvents(t, newStore(t)) })
	t.Run("registrations", func(t *testing.T) { testRegistrations(t, newStore(t)) })
	t.Run("registrations duplicate id", func(t *testing.T) { testDuplicateRegistrationID(t, newStore(t)) })
	t.Run("ping", func(t *testing.T) { require.NoError(t, newStore(t).Ping(context.Background())) })
}

func testUsers(t *testing.T, store repository.Store) {
	ctx := context.Background()
	users := store.Users()

	_, err := users.FindByEmail(ctx, "a@x.com")
	require.ErrorIs(t, err, repository.ErrNotFound)

	u := &model.User{Email: "a@x.com", PasswordHash: "hash"}
	require.NoError(t, users.Create(ctx, u))
	require.NotEmpty(t, u.ID)

	found, err := users.FindByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	require.Equal(t, u.ID, found.ID)
	require.Equal(t, "hash", found.PasswordHash)

	// Emails are compared exactly as stored.
	_, err = users.FindByEmail(ctx, "A@x.com")
	require.ErrorIs(t, err, repository.ErrNotFound)

	err = users.Create(ctx, &model.User{Email: "a@x.com", PasswordHash: "other"})
	require.ErrorIs(t, err, repository.ErrConflict)
}

func testConcurrentDuplicateEmail(t *testing.T, store repository.Store) {
	ctx := context.Background()
	const workers = 8

	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- store.Users().Create(ctx, &model.User{Email: "race@x.com", PasswordHash: "hash"})
		}()
	}
	wg.Wait()
	close(errs)

	created := 0
	for err := range errs {
		if err == nil {
			created++
			continue
		}
		require.ErrorIs(t, err, repository.ErrConflict)
	}
	require.Equal(t, 1, created)
}

func testEvents(t *testing.T, store repository.Store) {
	ctx := context.Background()
	events := store.Events()

	list, err := events.ListByOwner(ctx, "owner-1")
	require.NoError(t, err)
	require.Empty(t, list)

	e := &model.Event{ID: "e1", Name: "Launch", Description: "desc", Date: "2026-05-01", Banner: "b.png", OwnerID: "owner-1"}
	require.NoError(t, events.Create(ctx, e))
	// Duplicate client ids are stored as separate documents.
	require.NoError(t, events.Create(ctx, &model.Event{ID: "e1", Name: "Again", OwnerID: "owner-1"}))
	require.NoError(t, events.Create(ctx, &model.Event{ID: "e2", Name: "Other", OwnerID: "owner-2"}))

	list, err = events.ListByOwner(ctx, "owner-1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.ElementsMatch(t, []string{"Launch", "Again"}, []string{list[0].Name, list[1].Name})
	for _, got := range list {
		if got.Name == "Launch" {
			require.Equal(t, *e, got)
		}
	}
}

func testRegistrations(t *testing.T, store repository.Store) {
	ctx := context.Background()
	regs := store.Registrations()
	created := time.Date(2026, 2, 3, 4, 5, 6, 0, time.UTC)

	reg := &model.Registration{
		ID:         "r1",
		FormID:     "f1",
		Fields:     map[string]any{"name": "Ada", "email": "ada@x.com"},
		Registered: true,
		CreatedAt:  created,
	}
	require.NoError(t, regs.Create(ctx, reg))
	require.NoError(t, regs.Create(ctx, &model.Registration{ID: "r2", FormID: "f1", Fields: map[string]any{"name": "Bob"}, Registered: true, CreatedAt: created}))
	require.NoError(t, regs.Create(ctx, &model.Registration{ID: "r3", FormID: "f2", Registered: true, CreatedAt: created}))
	require.NoError(t, regs.Create(ctx, &model.Registration{ID: "r4", FormID: "f1", Registered: false, CreatedAt: created}))

	registered := repository.RegistrationFilter{FormID: "f1"}
	attended := repository.RegistrationFilter{FormID: "f1", AttendedOnly: true}

	n, err := regs.Count(ctx, registered)
	require.NoError(t, err)
	require.EqualValues(t, 2, n)

	n, err = regs.Count(ctx, attended)
	require.NoError(t, err)
	require.Zero(t, n)

	found, err := regs.FindRegistered(ctx, "r1")
	require.NoError(t, err)
	require.Equal(t, "f1", found.FormID)
	require.Equal(t, "Ada", found.Name())
	require.Equal(t, "ada@x.com", found.Fields["email"])
	require.True(t, found.Registered)
	require.False(t, found.Attended)
	require.True(t, created.Equal(found.CreatedAt))

	_, err = regs.FindRegistered(ctx, "missing")
	require.ErrorIs(t, err, repository.ErrNotFound)
	_, err = regs.FindRegistered(ctx, "r4")
	require.ErrorIs(t, err, repository.ErrNotFound)

	matched, err := regs.MarkAttended(ctx, "r1")
	require.NoError(t, err)
	require.EqualValues(t, 1, matched)

	// Marking again still matches the document.
	matched, err = regs.MarkAttended(ctx, "r1")
	require.NoError(t, err)
	require.EqualValues(t, 1, matched)

	matched, err = regs.MarkAttended(ctx, "r4")
	require.NoError(t, err)
	require.Zero(t, matched)

	n, err = regs.Count(ctx, attended)
	require.NoError(t, err)
	require.EqualValues(t, 1, n)

	list, err := regs.List(ctx, attended)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "r1", list[0].ID)
	require.True(t, list[0].Attended)

	list, err = regs.List(ctx, registered)
	require.NoError(t, err)
	require.Len(t, list, 2)

	list, err = regs.List(ctx, repository.RegistrationFilter{FormID: "unknown"})
	require.NoError(t, err)
	require.Empty(t, list)
}

// Client-supplied ids may repeat; lookups and updates both act on the
// earliest registration.
func testDuplicateRegistrationID(t *testing.T, store repository.Store) {
	ctx := context.Background()
	regs := store.Registrations()
	created := time.Date(2026, 2, 3, 4, 5, 6, 0, time.UTC)

	for _, name := range []string{"First", "Second"} {
		require.NoError(t, regs.Create(ctx, &model.Registration{
			ID:         "dup",
			FormID:     "f9",
			Fields:     map[string]any{"name": name},
			Registered: true,
			CreatedAt:  created,
		}))
	}

	found, err := regs.FindRegistered(ctx, "dup")
	require.NoError(t, err)
	require.Equal(t, "First", found.Name())

	matched, err := regs.MarkAttended(ctx, "dup")
	require.NoError(t, err)
	require.EqualValues(t, 1, matched)

	list, err := regs.List(ctx, repository.RegistrationFilter{FormID: "f9", AttendedOnly: true})
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "First", list[0].Name())
}
