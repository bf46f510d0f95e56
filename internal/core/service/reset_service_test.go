package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/streamhub/identity-service/internal/core/domain"
)

func newResetFixture(t *testing.T) (*stubUserRepo, *stubResetRepo, *resetService, *domain.User) {
	t.Helper()
	users := newStubUserRepo()
	resets := newStubResetRepo()
	svc := NewResetService(users, resets, 24*time.Hour, zerolog.Nop()).(*resetService)

	hash, err := HashPassword("old-password")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	user, err := users.Create(context.Background(), &domain.User{
		Email: "a@x.com", Username: "alice", PasswordHash: hash, Active: true,
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	return users, resets, svc, user
}

func TestResetService_Request_UnknownIdentifier(t *testing.T) {
	_, resets, svc, _ := newResetFixture(t)

	// Anti-enumeration: unknown identifiers succeed without side effects.
	if err := svc.RequestReset(context.Background(), "nobody@x.com"); err != nil {
		t.Fatalf("expected generic success, got %v", err)
	}
	if len(resets.tokens) != 0 {
		t.Fatalf("token created for unknown identifier")
	}
}

func TestResetService_Request_StoresHashedToken(t *testing.T) {
	_, resets, svc, user := newResetFixture(t)

	if err := svc.RequestReset(context.Background(), "alice"); err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if len(resets.tokens) != 1 {
		t.Fatalf("expected 1 stored token, got %d", len(resets.tokens))
	}
	for hash, reset := range resets.tokens {
		if len(hash) != 64 {
			t.Fatalf("stored value is not a sha256 hex digest: %q", hash)
		}
		if reset.UserID != user.ID {
			t.Fatalf("token bound to wrong user: %d", reset.UserID)
		}
		if reset.UsedAt != nil {
			t.Fatalf("fresh token already marked used")
		}
		if got, want := reset.ExpiresAt.Sub(reset.CreatedAt), 24*time.Hour; got != want {
			t.Fatalf("expected %v window, got %v", want, got)
		}
	}
}

func TestResetService_Confirm_FabricatedToken(t *testing.T) {
	_, _, svc, _ := newResetFixture(t)

	if err := svc.ConfirmReset(context.Background(), "not-a-real-token", "new-password"); err != domain.ErrResetTokenInvalid {
		t.Fatalf("expected ErrResetTokenInvalid, got %v", err)
	}
	if err := svc.ConfirmReset(context.Background(), "", "new-password"); err != domain.ErrResetTokenInvalid {
		t.Fatalf("expected ErrResetTokenInvalid for empty token, got %v", err)
	}
}

func TestResetService_Confirm_Redeems(t *testing.T) {
	_, resets, svc, user := newResetFixture(t)

	raw := "raw-reset-token"
	now := time.Now().UTC()
	_ = resets.Create(context.Background(), &domain.PasswordReset{
		TokenHash: hashResetToken(raw),
		UserID:    user.ID,
		CreatedAt: now,
		ExpiresAt: now.Add(time.Hour),
	})

	if err := svc.ConfirmReset(context.Background(), raw, "new-password"); err != nil {
		t.Fatalf("confirm failed: %v", err)
	}

	newHash, ok := resets.passwords[user.ID]
	if !ok {
		t.Fatalf("password not updated")
	}
	if !CheckPassword("new-password", newHash) {
		t.Fatalf("new password hash does not verify")
	}

	// Single use: a second redemption must fail.
	if err := svc.ConfirmReset(context.Background(), raw, "another-password"); err != domain.ErrResetTokenInvalid {
		t.Fatalf("expected ErrResetTokenInvalid on double spend, got %v", err)
	}
}

func TestResetService_Confirm_ExpiredToken(t *testing.T) {
	_, resets, svc, user := newResetFixture(t)

	raw := "stale-token"
	now := time.Now().UTC()
	_ = resets.Create(context.Background(), &domain.PasswordReset{
		TokenHash: hashResetToken(raw),
		UserID:    user.ID,
		CreatedAt: now.Add(-48 * time.Hour),
		ExpiresAt: now.Add(-24 * time.Hour),
	})

	if err := svc.ConfirmReset(context.Background(), raw, "new-password"); err != domain.ErrResetTokenInvalid {
		t.Fatalf("expected ErrResetTokenInvalid for expired token, got %v", err)
	}
}
