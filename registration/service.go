package registration

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/coreybb/roster/models"
)

// ErrEmailRejected signals that the candidate user was not created because
// the reputation service declined the email. A validator that cannot be
// reached is folded into the same outcome: no user is created either way,
// and the caller sees a single rejection signal.
var ErrEmailRejected = errors.New("email rejected by validation service")

// EmailValidator answers whether an email is acceptable.
type EmailValidator interface {
	Check(ctx context.Context, email string) (bool, error)
}

// UserStore is the durable record store for users.
type UserStore interface {
	InsertUser(ctx context.Context, email, firstName string) (*models.User, error)
	GetUsers(ctx context.Context) ([]models.User, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
}

// UserCache holds denormalized copies of user records keyed by identifier.
type UserCache interface {
	SetUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, id int64) (*models.User, error)
}

// Service orchestrates user creation and listing across the validator,
// the store, and the cache.
type Service struct {
	validator EmailValidator
	store     UserStore
	cache     UserCache
}

func NewService(validator EmailValidator, store UserStore, cache UserCache) *Service {
	return &Service{
		validator: validator,
		store:     store,
		cache:     cache,
	}
}

// CreateUser validates the email, persists the user, and caches the
// persisted record, strictly in that order. A declined or unreachable
// validator aborts before any write. A cache failure after a successful
// insert is returned as-is; the inserted row is not rolled back.
func (s *Service) CreateUser(ctx context.Context, email, firstName string) (*models.User, error) {
	valid, err := s.validator.Check(ctx, email)
	if err != nil {
		slog.Warn("Email validation unavailable, rejecting candidate",
			"email", email,
			"error", err,
		)
		return nil, ErrEmailRejected
	}
	if !valid {
		return nil, ErrEmailRejected
	}

	user, err := s.store.InsertUser(ctx, email, firstName)
	if err != nil {
		return nil, fmt.Errorf("failed to persist user: %w", err)
	}

	if err := s.cache.SetUser(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to cache user %d: %w", user.ID, err)
	}

	return user, nil
}

// ListUsers returns every persisted user.
func (s *Service) ListUsers(ctx context.Context) ([]models.User, error) {
	users, err := s.store.GetUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// GetUser returns a single user, preferring the cached copy and falling back
// to storage on a cache miss or cache error.
func (s *Service) GetUser(ctx context.Context, id int64) (*models.User, error) {
	if user, err := s.cache.GetUser(ctx, id); err == nil {
		return user, nil
	}
	user, err := s.store.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return user, nil
}
