package ports

import "context"

// UserService exposes role administration and account switching. All
// operations are admin-gated at the API layer.
type UserService interface {
	RolesFor(ctx context.Context, userID int64) ([]string, error)
	// Authorize reports whether the user holds at least one of the
	// required roles. It never returns an error; resolution failures count
	// as "not authorized".
	Authorize(ctx context.Context, userID int64, required ...string) bool
	AssignRole(ctx context.Context, userID int64, code string) error
	RevokeRole(ctx context.Context, userID int64, code string) error
	SetActive(ctx context.Context, userID int64, active bool) error
}
