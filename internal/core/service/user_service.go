package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/streamhub/identity-service/internal/core/domain"
	"github.com/streamhub/identity-service/internal/core/ports"
)

type userService struct {
	users ports.UserRepository
	roles ports.RoleRepository
	log   zerolog.Logger
}

// NewUserService returns the UserService implementation backing the admin
// endpoints and direct authorization checks.
func NewUserService(users ports.UserRepository, roles ports.RoleRepository, log zerolog.Logger) ports.UserService {
	return &userService{users: users, roles: roles, log: log}
}

func (s *userService) RolesFor(ctx context.Context, userID int64) ([]string, error) {
	return s.roles.RolesFor(ctx, userID)
}

// Authorize reports whether the user holds at least one required role. When
// no roles are required, any existing user passes. Resolution failures are
// logged and count as a denial rather than an error.
func (s *userService) Authorize(ctx context.Context, userID int64, required ...string) bool {
	held, err := s.roles.RolesFor(ctx, userID)
	if err != nil {
		s.log.Warn().Err(err).Int64("user_id", userID).Msg("role resolution failed, denying")
		return false
	}
	if len(required) == 0 {
		return true
	}
	for _, want := range required {
		for _, have := range held {
			if have == want {
				return true
			}
		}
	}
	return false
}

// AssignRole grants a catalog role to an existing user. Granting a role the
// user already holds is a no-op.
func (s *userService) AssignRole(ctx context.Context, userID int64, code string) error {
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return err
	}
	ok, err := s.roles.CatalogContains(ctx, code)
	if err != nil {
		return fmt.Errorf("check role catalog: %w", err)
	}
	if !ok {
		return domain.ErrRoleNotFound
	}
	if err := s.roles.Grant(ctx, userID, code); err != nil {
		return err
	}
	s.log.Info().Int64("user_id", userID).Str("role", code).Msg("role granted")
	return nil
}

func (s *userService) RevokeRole(ctx context.Context, userID int64, code string) error {
	if err := s.roles.Revoke(ctx, userID, code); err != nil {
		return err
	}
	s.log.Info().Int64("user_id", userID).Str("role", code).Msg("role revoked")
	return nil
}

func (s *userService) SetActive(ctx context.Context, userID int64, active bool) error {
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return err
	}
	if err := s.users.SetActive(ctx, userID, active); err != nil {
		return fmt.Errorf("set active: %w", err)
	}
	s.log.Info().Int64("user_id", userID).Bool("active", active).Msg("account state changed")
	return nil
}
