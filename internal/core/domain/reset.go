package domain

import "time"

// PasswordReset is a single-use reset token. Only the SHA-256 hash of the
// raw token is persisted. A token is redeemable iff UsedAt is unset and the
// current instant is strictly before ExpiresAt.
type PasswordReset struct {
	TokenHash string     `json:"-"`
	UserID    int64      `json:"user_id"`
	CreatedAt time.Time  `json:"created_at"`
	ExpiresAt time.Time  `json:"expires_at"`
	UsedAt    *time.Time `json:"used_at,omitempty"`
}

// Redeemable reports whether the token can still be spent at instant now.
func (p *PasswordReset) Redeemable(now time.Time) bool {
	return p.UsedAt == nil && now.Before(p.ExpiresAt)
}
