package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/Shivanand-hulikatti/eventoz/internal/model"
	"github.com/Shivanand-hulikatti/eventoz/internal/repository"
	"github.com/go-playground/validator/v10"
)

// EventRegistry stores events on behalf of their owners.
type EventRegistry struct {
	events    repository.EventRepository
	validator *validator.Validate
}

func NewEventRegistry(events repository.EventRepository) *EventRegistry {
	return &EventRegistry{events: events, validator: newValidator()}
}

// Create stores a new event owned by ownerID. Ids are not checked for
// uniqueness; a repeated id produces a second event.
func (s *EventRegistry) Create(ctx context.Context, ownerID string, req model.CreateEventRequest) (*model.Event, error) {
	if ownerID == "" {
		return nil, ErrUnauthorized
	}
	req.ID = strings.TrimSpace(req.ID)
	if err := validate(s.validator, req); err != nil {
		return nil, err
	}

	event := &model.Event{
		ID:          req.ID,
		Name:        req.Name,
		Description: req.Description,
		Date:        req.Date,
		Banner:      req.Banner,
		OwnerID:     ownerID,
	}
	if err := s.events.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	return event, nil
}

// ListByOwner returns every event created by ownerID, in no particular order.
func (s *EventRegistry) ListByOwner(ctx context.Context, ownerID string) ([]model.Event, error) {
	if ownerID == "" {
		return nil, ErrUnauthorized
	}
	events, err := s.events.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	if events == nil {
		events = []model.Event{}
	}
	return events, nil
}
