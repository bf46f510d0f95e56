package ports

import (
	"context"
	"time"

	"github.com/streamhub/identity-service/internal/core/domain"
)

// UserRepository defines the persistence contract for user identities.
type UserRepository interface {
	// FindByIdentifier matches either the email or the username column.
	FindByIdentifier(ctx context.Context, identifier string) (*domain.User, error)
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	// Create allocates a new unique id and persists the user together with
	// its initial role grants. Returns domain.ErrUserExists when the email
	// or username is already taken, relying on store-level uniqueness
	// rather than a prior read.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	// MarkLogin records the last successful login instant. Best effort:
	// callers must not fail the login when it errors.
	MarkLogin(ctx context.Context, id int64, at time.Time) error
	SetActive(ctx context.Context, id int64, active bool) error
	UpdatePasswordHash(ctx context.Context, id int64, hash string) error
}
