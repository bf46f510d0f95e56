package ports

import (
	"context"

	"github.com/streamhub/identity-service/internal/core/domain"
)

// SignupInput carries the validated signup payload.
type SignupInput struct {
	Email    string
	Username string
	Password string
}

// LoginInput carries login credentials plus the client metadata retained in
// the audit trail. Identifier may be an email or a username.
type LoginInput struct {
	Identifier string
	Password   string
	ClientIP   string
	UserAgent  string
}

// LoginResult is the successful outcome of a login.
type LoginResult struct {
	Token string
	User  *domain.User
	Roles []string
}

// AuthService orchestrates signup, login, and per-request session
// resolution.
type AuthService interface {
	Signup(ctx context.Context, in SignupInput) (*domain.User, error)
	Login(ctx context.Context, in LoginInput) (*LoginResult, error)
	// ResolveSession maps a bearer token to a live identity. Any failure
	// (bad token, unknown user, deactivated account) is
	// domain.ErrUnauthenticated.
	ResolveSession(ctx context.Context, token string) (*domain.User, error)
}
