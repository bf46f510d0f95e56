package service

import (
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/streamhub/identity-service/internal/core/domain"
)

// accessClaims is the payload of an access token: the registered claims plus
// the role codes resolved at issuance.
type accessClaims struct {
	Roles []string `json:"roles,omitempty"`
	jwt.RegisteredClaims
}

// TokenService signs and verifies HS256 access tokens. It is pure — no I/O,
// safe for concurrent use; the signing key is immutable after construction.
type TokenService struct {
	secret     []byte
	defaultTTL time.Duration
}

func NewTokenService(secret string, defaultTTL time.Duration) *TokenService {
	if defaultTTL <= 0 {
		defaultTTL = time.Hour
	}
	return &TokenService{secret: []byte(secret), defaultTTL: defaultTTL}
}

// Issue mints a token for the given user with an absolute expiry of now+ttl.
func (s *TokenService) Issue(userID int64, roles []string, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = s.defaultTTL
	}
	now := time.Now().UTC()
	claims := accessClaims{
		Roles: roles,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// IssueDefault mints a token with the configured default lifetime.
func (s *TokenService) IssueDefault(userID int64, roles []string) (string, error) {
	return s.Issue(userID, roles, s.defaultTTL)
}

// Verify decodes a token and returns the subject user id and role claims.
// It returns domain.ErrUnauthenticated for every failure mode — bad
// signature, wrong algorithm, malformed structure, missing or non-numeric
// subject, or expiry. Expiry is exclusive: a token whose exp equals the
// current instant is already invalid.
func (s *TokenService) Verify(token string) (int64, []string, error) {
	claims := &accessClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return 0, nil, domain.ErrUnauthenticated
	}

	if claims.ExpiresAt == nil || !time.Now().Before(claims.ExpiresAt.Time) {
		return 0, nil, domain.ErrUnauthenticated
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || userID <= 0 {
		return 0, nil, domain.ErrUnauthenticated
	}

	return userID, claims.Roles, nil
}
