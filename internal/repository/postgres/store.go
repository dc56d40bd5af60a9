// Package postgres implements the repository contracts on PostgreSQL using
// pgx directly. Attendee data is kept in a JSONB column so registrations
// behave like schemaless documents.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/Shivanand-hulikatti/eventoz/internal/repository"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolation = "23505"

// Store implements repository.Store on a shared pgx pool.
type Store struct {
	pool *pgxpool.Pool
}

var _ repository.Store = (*Store)(nil)

func NewStore(pool *pgxpool.Pool) (*Store, error) {
	if pool == nil {
		return nil, fmt.Errorf("postgres store: pool is nil")
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Users() repository.UserRepository {
	return &UserRepository{db: s.pool}
}

func (s *Store) Events() repository.EventRepository {
	return &EventRepository{db: s.pool}
}

func (s *Store) Registrations() repository.RegistrationRepository {
	return &RegistrationRepository{db: s.pool}
}

func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *Store) Close(context.Context) error {
	s.pool.Close()
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
