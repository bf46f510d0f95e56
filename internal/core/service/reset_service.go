package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/streamhub/identity-service/internal/core/domain"
	"github.com/streamhub/identity-service/internal/core/ports"
)

type resetService struct {
	users  ports.UserRepository
	resets ports.ResetRepository
	ttl    time.Duration
	log    zerolog.Logger
}

// NewResetService returns the ResetService implementation. ttl is the reset
// token validity window; it defaults to 24h when non-positive.
func NewResetService(users ports.UserRepository, resets ports.ResetRepository, ttl time.Duration, log zerolog.Logger) ports.ResetService {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &resetService{users: users, resets: resets, ttl: ttl, log: log}
}

// RequestReset issues a single-use token when the identifier resolves to a
// user, and returns nil regardless so the caller cannot probe for accounts.
// Mail delivery is out of scope; the raw token is logged at debug level for
// operators to forward manually.
func (s *resetService) RequestReset(ctx context.Context, identifier string) error {
	user, err := s.users.FindByIdentifier(ctx, identifier)
	if err != nil {
		if err == domain.ErrUserNotFound {
			return nil
		}
		return fmt.Errorf("resolve identifier: %w", err)
	}

	raw := uuid.NewString()
	now := time.Now().UTC()
	reset := &domain.PasswordReset{
		TokenHash: hashResetToken(raw),
		UserID:    user.ID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}
	if err := s.resets.Create(ctx, reset); err != nil {
		return fmt.Errorf("create reset token: %w", err)
	}

	s.log.Debug().Int64("user_id", user.ID).Str("reset_token", raw).Msg("password reset token issued")
	return nil
}

// ConfirmReset redeems a raw token: marking it used and installing the new
// password hash commit together. Unknown, spent, and expired tokens all
// surface as ErrResetTokenInvalid.
func (s *resetService) ConfirmReset(ctx context.Context, rawToken, newPassword string) error {
	if rawToken == "" || newPassword == "" {
		return domain.ErrResetTokenInvalid
	}

	hash, err := HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if err := s.resets.Redeem(ctx, hashResetToken(rawToken), hash, time.Now().UTC()); err != nil {
		return err
	}

	s.log.Info().Msg("password reset completed")
	return nil
}

// hashResetToken derives the stored form of a raw reset token. Only the
// digest is persisted so a leaked resets collection cannot be replayed.
func hashResetToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
