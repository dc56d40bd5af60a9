package postgres

import (
	"context"
	"fmt"

	"github.com/Shivanand-hulikatti/eventoz/internal/model"
	"github.com/jackc/pgx/v5/pgxpool"
)

// EventRepository handles persistence for events.
type EventRepository struct {
	db *pgxpool.Pool
}

func (r *EventRepository) Create(ctx context.Context, e *model.Event) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO events (id, event_name, event_desc, date, banner, owner_id)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		e.ID, e.Name, e.Description, e.Date, e.Banner, e.OwnerID,
	)
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

func (r *EventRepository) ListByOwner(ctx context.Context, ownerID string) ([]model.Event, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, event_name, event_desc, date, banner, owner_id
		 FROM events
		 WHERE owner_id = $1
		 ORDER BY pk`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var events []model.Event
	for rows.Next() {
		var e model.Event
		if err := rows.Scan(&e.ID, &e.Name, &e.Description, &e.Date, &e.Banner, &e.OwnerID); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}
