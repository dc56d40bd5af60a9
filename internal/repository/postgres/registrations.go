package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/Shivanand-hulikatti/eventoz/internal/model"
	"github.com/Shivanand-hulikatti/eventoz/internal/repository"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RegistrationRepository handles persistence for event registrations.
type RegistrationRepository struct {
	db *pgxpool.Pool
}

const registrationColumns = `id, form_id, fields, registered, attended, created_at`

func (r *RegistrationRepository) Create(ctx context.Context, reg *model.Registration) error {
	fields := reg.Fields
	if fields == nil {
		fields = map[string]any{}
	}
	_, err := r.db.Exec(ctx,
		`INSERT INTO event_registrations (id, form_id, fields, registered, attended, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		reg.ID, reg.FormID, fields, reg.Registered, reg.Attended, reg.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert registration: %w", err)
	}
	return nil
}

// FindRegistered returns the oldest registration with the given id that is
// still flagged registered. Ids are client-supplied and may repeat.
func (r *RegistrationRepository) FindRegistered(ctx context.Context, id string) (*model.Registration, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+registrationColumns+`
		 FROM event_registrations
		 WHERE id = $1 AND registered
		 ORDER BY pk
		 LIMIT 1`,
		id,
	)
	reg, err := scanRegistration(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("find registration: %w", err)
	}
	return reg, nil
}

// MarkAttended updates the same row FindRegistered would return, so exactly
// one document changes even when ids repeat.
func (r *RegistrationRepository) MarkAttended(ctx context.Context, id string) (int64, error) {
	tag, err := r.db.Exec(ctx,
		`UPDATE event_registrations SET attended = true
		 WHERE pk = (
		     SELECT pk FROM event_registrations
		     WHERE id = $1 AND registered
		     ORDER BY pk
		     LIMIT 1
		 )`,
		id,
	)
	if err != nil {
		return 0, fmt.Errorf("mark attended: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *RegistrationRepository) Count(ctx context.Context, f repository.RegistrationFilter) (int64, error) {
	var n int64
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM event_registrations
		 WHERE form_id = $1 AND registered AND (NOT $2 OR attended)`,
		f.FormID, f.AttendedOnly,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count registrations: %w", err)
	}
	return n, nil
}

func (r *RegistrationRepository) List(ctx context.Context, f repository.RegistrationFilter) ([]model.Registration, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+registrationColumns+`
		 FROM event_registrations
		 WHERE form_id = $1 AND registered AND (NOT $2 OR attended)
		 ORDER BY pk`,
		f.FormID, f.AttendedOnly,
	)
	if err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}
	defer rows.Close()

	var regs []model.Registration
	for rows.Next() {
		reg, err := scanRegistration(rows)
		if err != nil {
			return nil, fmt.Errorf("scan registration: %w", err)
		}
		regs = append(regs, *reg)
	}
	return regs, rows.Err()
}

func scanRegistration(row pgx.Row) (*model.Registration, error) {
	var reg model.Registration
	if err := row.Scan(&reg.ID, &reg.FormID, &reg.Fields, &reg.Registered, &reg.Attended, &reg.CreatedAt); err != nil {
		return nil, err
	}
	reg.CreatedAt = reg.CreatedAt.UTC()
	return &reg, nil
}
