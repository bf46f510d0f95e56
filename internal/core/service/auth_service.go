package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/streamhub/identity-service/internal/core/domain"
	"github.com/streamhub/identity-service/internal/core/ports"
)

// LoginThrottle abstracts the failed-attempt limiter (Redis). Errors from
// the limiter are treated as "not throttled" so a degraded Redis never locks
// out logins.
type LoginThrottle interface {
	TooManyFailures(ctx context.Context, identifier string) (bool, error)
	RecordFailure(ctx context.Context, identifier string) error
	Clear(ctx context.Context, identifier string) error
}

type authService struct {
	users    ports.UserRepository
	roles    ports.RoleRepository
	audit    ports.AuditRepository
	tokens   *TokenService
	throttle LoginThrottle
	log      zerolog.Logger
}

// NewAuthService returns the AuthService implementation. throttle may be nil
// when no limiter is configured.
func NewAuthService(
	users ports.UserRepository,
	roles ports.RoleRepository,
	audit ports.AuditRepository,
	tokens *TokenService,
	throttle LoginThrottle,
	log zerolog.Logger,
) ports.AuthService {
	return &authService{
		users:    users,
		roles:    roles,
		audit:    audit,
		tokens:   tokens,
		throttle: throttle,
		log:      log,
	}
}

// Signup creates an identity with the default USER role. The insert and the
// role grant are a single atomic write; uniqueness races surface as
// domain.ErrUserExists from the store, never as a raw database error.
func (s *authService) Signup(ctx context.Context, in ports.SignupInput) (*domain.User, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	username := strings.TrimSpace(in.Username)
	if email == "" || username == "" || in.Password == "" {
		return nil, domain.ErrValidation
	}

	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &domain.User{
		Email:        email,
		Username:     username,
		PasswordHash: hash,
		Active:       true,
		Roles:        []string{domain.RoleUser},
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	s.log.Info().Int64("user_id", created.ID).Str("username", created.Username).Msg("user registered")
	return created, nil
}

// Login verifies credentials and issues a token. Unknown identifier and
// wrong password return the identical ErrInvalidCredentials; a deactivated
// account is only reported after the password matched, so existence never
// leaks to an unauthenticated caller. Every attempt against a resolved
// identity appends an audit record.
func (s *authService) Login(ctx context.Context, in ports.LoginInput) (*ports.LoginResult, error) {
	if in.Identifier == "" || in.Password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	if s.throttle != nil {
		blocked, err := s.throttle.TooManyFailures(ctx, in.Identifier)
		if err != nil {
			s.log.Warn().Err(err).Msg("login throttle unavailable, allowing attempt")
		} else if blocked {
			return nil, domain.ErrTooManyAttempts
		}
	}

	user, err := s.users.FindByIdentifier(ctx, in.Identifier)
	if err != nil {
		if err == domain.ErrUserNotFound {
			// No identity resolved: nothing to audit or throttle-clear.
			s.recordFailure(ctx, in.Identifier)
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("resolve identifier: %w", err)
	}

	if !CheckPassword(in.Password, user.PasswordHash) {
		s.recordFailure(ctx, in.Identifier)
		s.recordAudit(ctx, user.ID, in, false)
		return nil, domain.ErrInvalidCredentials
	}

	if !user.Active {
		s.recordAudit(ctx, user.ID, in, false)
		return nil, domain.ErrAccountDisabled
	}

	s.recordAudit(ctx, user.ID, in, true)
	if s.throttle != nil {
		if err := s.throttle.Clear(ctx, in.Identifier); err != nil {
			s.log.Warn().Err(err).Msg("clear login throttle failed")
		}
	}

	now := time.Now().UTC()
	if err := s.users.MarkLogin(ctx, user.ID, now); err != nil {
		// Best effort only: a missed last-login update never fails a login.
		s.log.Warn().Err(err).Int64("user_id", user.ID).Msg("record last login failed")
	} else {
		user.LastLoginAt = &now
	}

	roles, err := s.roles.RolesFor(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("resolve roles: %w", err)
	}

	token, err := s.tokens.IssueDefault(user.ID, roles)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	user.Roles = roles
	return &ports.LoginResult{Token: token, User: user, Roles: roles}, nil
}

// ResolveSession maps a bearer token to a live identity. The user row is
// re-read on every call so deactivation takes effect immediately even for
// unexpired tokens.
func (s *authService) ResolveSession(ctx context.Context, token string) (*domain.User, error) {
	userID, _, err := s.tokens.Verify(token)
	if err != nil {
		return nil, domain.ErrUnauthenticated
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, domain.ErrUnauthenticated
	}
	if !user.Active {
		return nil, domain.ErrUnauthenticated
	}

	return user, nil
}

func (s *authService) recordFailure(ctx context.Context, identifier string) {
	if s.throttle == nil {
		return
	}
	if err := s.throttle.RecordFailure(ctx, identifier); err != nil {
		s.log.Warn().Err(err).Msg("record login failure failed")
	}
}

func (s *authService) recordAudit(ctx context.Context, userID int64, in ports.LoginInput, success bool) {
	entry := &domain.LoginAudit{
		UserID:    userID,
		LoginTime: time.Now().UTC(),
		IPAddress: in.ClientIP,
		UserAgent: in.UserAgent,
		Success:   success,
	}
	if err := s.audit.Record(ctx, entry); err != nil {
		s.log.Warn().Err(err).Int64("user_id", userID).Msg("write login audit failed")
	}
}
