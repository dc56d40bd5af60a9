package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Shivanand-hulikatti/eventoz/internal/auth"
	"github.com/Shivanand-hulikatti/eventoz/internal/model"
	"github.com/Shivanand-hulikatti/eventoz/internal/repository"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// TokenIssuer mints identity tokens for verified users.
type TokenIssuer interface {
	Issue(userID, email string) (string, error)
}

// CredentialStore registers users and verifies their passwords.
type CredentialStore struct {
	users     repository.UserRepository
	hasher    auth.PasswordHasher
	tokens    TokenIssuer
	validator *validator.Validate
	logger    zerolog.Logger
}

func NewCredentialStore(
	users repository.UserRepository,
	hasher auth.PasswordHasher,
	tokens TokenIssuer,
	logger zerolog.Logger,
) *CredentialStore {
	return &CredentialStore{
		users:     users,
		hasher:    hasher,
		tokens:    tokens,
		validator: newValidator(),
		logger:    logger.With().Str("component", "credentials").Logger(),
	}
}

// Register creates a user. The email is looked up first; the store's unique
// constraint catches registrations racing past that check.
func (s *CredentialStore) Register(ctx context.Context, req model.RegisterUserRequest) (*model.User, error) {
	if err := validate(s.validator, req); err != nil {
		return nil, err
	}

	_, err := s.users.FindByEmail(ctx, req.Email)
	switch {
	case err == nil:
		return nil, ErrConflict
	case !errors.Is(err, repository.ErrNotFound):
		return nil, fmt.Errorf("check existing user: %w", err)
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrPasswordTooLong) {
			return nil, fmt.Errorf("%w: Password must be at most %d bytes", ErrValidation, auth.MaxPasswordBytes)
		}
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{Email: req.Email, PasswordHash: hash}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			s.logger.Warn().Str("email", req.Email).Msg("duplicate registration caught by store constraint")
			return nil, ErrConflict
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.logger.Info().Str("user_id", user.ID).Msg("user registered")
	return user, nil
}

// Verify returns the user for email when password matches.
func (s *CredentialStore) Verify(ctx context.Context, email, password string) (*model.User, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if err := s.hasher.Compare(user.PasswordHash, password); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			return nil, ErrUnauthorized
		}
		return nil, fmt.Errorf("compare password: %w", err)
	}
	return user, nil
}

// Login verifies the credentials and issues a token for the user.
func (s *CredentialStore) Login(ctx context.Context, req model.LoginRequest) (*model.User, string, error) {
	if err := validate(s.validator, req); err != nil {
		return nil, "", err
	}

	user, err := s.Verify(ctx, req.Email, req.Password)
	if err != nil {
		return nil, "", err
	}

	token, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return nil, "", fmt.Errorf("issue token: %w", err)
	}
	return user, token, nil
}
