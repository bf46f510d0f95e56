package ports

import "context"

// ResetService implements the two-step password reset flow.
type ResetService interface {
	// RequestReset creates a single-use token when the identifier resolves
	// to a user. It returns nil either way so callers cannot distinguish
	// known from unknown identifiers.
	RequestReset(ctx context.Context, identifier string) error
	// ConfirmReset redeems a raw token and installs the new password in a
	// single atomic unit.
	ConfirmReset(ctx context.Context, rawToken, newPassword string) error
}
