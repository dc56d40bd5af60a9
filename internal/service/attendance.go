package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Shivanand-hulikatti/eventoz/internal/model"
	"github.com/Shivanand-hulikatti/eventoz/internal/repository"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// AttendanceObserver is notified after a registration is marked attended.
type AttendanceObserver func(formID string)

// AttendanceTracker owns registrations and their registered → attended
// transition.
type AttendanceTracker struct {
	registrations repository.RegistrationRepository
	validator     *validator.Validate
	now           func() time.Time
	onAttended    AttendanceObserver
	logger        zerolog.Logger
}

type AttendanceOption func(*AttendanceTracker)

func WithAttendanceClock(now func() time.Time) AttendanceOption {
	return func(t *AttendanceTracker) {
		t.now = now
	}
}

func WithAttendanceObserver(fn AttendanceObserver) AttendanceOption {
	return func(t *AttendanceTracker) {
		t.onAttended = fn
	}
}

func NewAttendanceTracker(registrations repository.RegistrationRepository, logger zerolog.Logger, opts ...AttendanceOption) *AttendanceTracker {
	t := &AttendanceTracker{
		registrations: registrations,
		validator:     newValidator(),
		now:           time.Now,
		logger:        logger.With().Str("component", "attendance").Logger(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Register records a sign-up. Every call creates a new registration in the
// registered state; duplicates are not detected.
func (t *AttendanceTracker) Register(ctx context.Context, req model.RegisterAttendeeRequest) (*model.Registration, error) {
	if err := validate(t.validator, req); err != nil {
		return nil, err
	}

	reg := &model.Registration{
		ID:         req.ID,
		FormID:     req.FormID,
		Fields:     req.Fields,
		Registered: true,
		Attended:   false,
		CreatedAt:  t.now().UTC(),
	}
	if reg.Fields == nil {
		reg.Fields = map[string]any{}
	}
	if err := t.registrations.Create(ctx, reg); err != nil {
		return nil, fmt.Errorf("create registration: %w", err)
	}
	return reg, nil
}

func (t *AttendanceTracker) CountRegistered(ctx context.Context, formID string) (int64, error) {
	return t.count(ctx, repository.RegistrationFilter{FormID: formID})
}

func (t *AttendanceTracker) CountAttended(ctx context.Context, formID string) (int64, error) {
	return t.count(ctx, repository.RegistrationFilter{FormID: formID, AttendedOnly: true})
}

func (t *AttendanceTracker) ListRegistered(ctx context.Context, formID string) ([]model.Registration, error) {
	return t.list(ctx, repository.RegistrationFilter{FormID: formID})
}

func (t *AttendanceTracker) ListAttended(ctx context.Context, formID string) ([]model.Registration, error) {
	return t.list(ctx, repository.RegistrationFilter{FormID: formID, AttendedOnly: true})
}

// MarkAttended flips attended to true on the registered record with the
// given id. The lookup only filters on registered=true, so marking an
// already-attended record succeeds again and is indistinguishable from a
// first mark.
func (t *AttendanceTracker) MarkAttended(ctx context.Context, registrationID string) (*model.Registration, error) {
	if registrationID == "" {
		return nil, fmt.Errorf("%w: id is required", ErrValidation)
	}

	reg, err := t.registrations.FindRegistered(ctx, registrationID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find registration: %w", err)
	}

	matched, err := t.registrations.MarkAttended(ctx, registrationID)
	if err != nil {
		return nil, fmt.Errorf("mark attended: %w", err)
	}
	if matched == 0 {
		return nil, ErrNotFound
	}

	reg.Attended = true
	t.logger.Info().
		Str("registration_id", reg.ID).
		Str("form_id", reg.FormID).
		Msg("attendance marked")
	if t.onAttended != nil {
		t.onAttended(reg.FormID)
	}
	return reg, nil
}

func (t *AttendanceTracker) count(ctx context.Context, f repository.RegistrationFilter) (int64, error) {
	n, err := t.registrations.Count(ctx, f)
	if err != nil {
		return 0, fmt.Errorf("count registrations: %w", err)
	}
	return n, nil
}

func (t *AttendanceTracker) list(ctx context.Context, f repository.RegistrationFilter) ([]model.Registration, error) {
	regs, err := t.registrations.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}
	if regs == nil {
		regs = []model.Registration{}
	}
	return regs, nil
}
