package domain

import "errors"

// Sentinel errors translated to HTTP status codes at the API boundary.
// ErrInvalidCredentials covers both "no such user" and "wrong password" so
// the response never reveals which one occurred.
var (
	ErrValidation         = errors.New("invalid input")
	ErrUserExists         = errors.New("email or username already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountDisabled    = errors.New("account is deactivated")
	ErrUnauthenticated    = errors.New("could not validate credentials")
	ErrForbidden          = errors.New("access forbidden")
	ErrTooManyAttempts    = errors.New("too many login attempts")
	ErrResetTokenInvalid  = errors.New("invalid or expired reset token")
	ErrUserNotFound       = errors.New("user not found")
	ErrRoleNotFound       = errors.New("role not found")
	ErrRoleNotGranted     = errors.New("user does not have this role")
)
