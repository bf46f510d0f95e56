package ports

import (
	"context"

	"github.com/streamhub/identity-service/internal/core/domain"
)

// RoleRepository manages the role catalog and per-user grants.
type RoleRepository interface {
	// EnsureCatalog upserts the closed role catalog. Idempotent; called at
	// startup.
	EnsureCatalog(ctx context.Context, roles []domain.Role) error
	CatalogContains(ctx context.Context, code string) (bool, error)
	// RolesFor returns the user's current role codes; an empty slice when
	// the user has none.
	RolesFor(ctx context.Context, userID int64) ([]string, error)
	// Grant adds a role to a user. Idempotent: granting an already-held
	// role is not an error.
	Grant(ctx context.Context, userID int64, code string) error
	// Revoke removes a grant. Returns domain.ErrRoleNotGranted when the
	// user does not hold the role.
	Revoke(ctx context.Context, userID int64, code string) error
}
