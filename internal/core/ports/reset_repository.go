package ports

import (
	"context"
	"time"

	"github.com/streamhub/identity-service/internal/core/domain"
)

// ResetRepository persists single-use password reset tokens.
type ResetRepository interface {
	Create(ctx context.Context, reset *domain.PasswordReset) error
	// Redeem atomically marks the token used and writes the new password
	// hash for its user. Both writes commit together or not at all.
	// Returns domain.ErrResetTokenInvalid when the token is unknown,
	// already used, or expired at instant now.
	Redeem(ctx context.Context, tokenHash string, newPasswordHash string, now time.Time) error
}
