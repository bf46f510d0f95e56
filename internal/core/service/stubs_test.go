package service

import (
	"context"
	"strings"
	"time"

	"github.com/streamhub/identity-service/internal/core/domain"
)

// In-memory repository stubs shared by the service tests. They mirror the
// store contracts including sentinel errors and uniqueness conflicts.

type stubUserRepo struct {
	users        map[int64]*domain.User
	nextID       int64
	markLoginErr error
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[int64]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	clone.Roles = append([]string(nil), u.Roles...)
	return &clone
}

func (r *stubUserRepo) FindByIdentifier(_ context.Context, identifier string) (*domain.User, error) {
	for _, u := range r.users {
		// Emails are stored lowercased; usernames are case-sensitive.
		if u.Email == strings.ToLower(identifier) || u.Username == identifier {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id int64) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == user.Email || u.Username == user.Username {
			return nil, domain.ErrUserExists
		}
	}
	r.nextID++
	stored := cloneUser(user)
	stored.ID = r.nextID
	r.users[stored.ID] = stored
	return cloneUser(stored), nil
}

func (r *stubUserRepo) MarkLogin(_ context.Context, id int64, at time.Time) error {
	if r.markLoginErr != nil {
		return r.markLoginErr
	}
	if u, ok := r.users[id]; ok {
		u.LastLoginAt = &at
	}
	return nil
}

func (r *stubUserRepo) SetActive(_ context.Context, id int64, active bool) error {
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.Active = active
	return nil
}

func (r *stubUserRepo) UpdatePasswordHash(_ context.Context, id int64, hash string) error {
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.PasswordHash = hash
	return nil
}

type stubRoleRepo struct {
	catalog map[string]bool
	grants  map[int64][]string
}

func newStubRoleRepo() *stubRoleRepo {
	catalog := make(map[string]bool)
	for _, r := range domain.DefaultRoles {
		catalog[r.Code] = true
	}
	return &stubRoleRepo{catalog: catalog, grants: make(map[int64][]string)}
}

func (r *stubRoleRepo) EnsureCatalog(_ context.Context, roles []domain.Role) error {
	for _, role := range roles {
		r.catalog[role.Code] = true
	}
	return nil
}

func (r *stubRoleRepo) CatalogContains(_ context.Context, code string) (bool, error) {
	return r.catalog[code], nil
}

func (r *stubRoleRepo) RolesFor(_ context.Context, userID int64) ([]string, error) {
	return append([]string(nil), r.grants[userID]...), nil
}

func (r *stubRoleRepo) Grant(_ context.Context, userID int64, code string) error {
	for _, held := range r.grants[userID] {
		if held == code {
			return nil
		}
	}
	r.grants[userID] = append(r.grants[userID], code)
	return nil
}

func (r *stubRoleRepo) Revoke(_ context.Context, userID int64, code string) error {
	held := r.grants[userID]
	for i, c := range held {
		if c == code {
			r.grants[userID] = append(held[:i], held[i+1:]...)
			return nil
		}
	}
	return domain.ErrRoleNotGranted
}

type stubAuditRepo struct {
	entries []*domain.LoginAudit
}

func (r *stubAuditRepo) Record(_ context.Context, entry *domain.LoginAudit) error {
	r.entries = append(r.entries, entry)
	return nil
}

type stubResetRepo struct {
	tokens    map[string]*domain.PasswordReset
	passwords map[int64]string
}

func newStubResetRepo() *stubResetRepo {
	return &stubResetRepo{
		tokens:    make(map[string]*domain.PasswordReset),
		passwords: make(map[int64]string),
	}
}

func (r *stubResetRepo) Create(_ context.Context, reset *domain.PasswordReset) error {
	clone := *reset
	r.tokens[reset.TokenHash] = &clone
	return nil
}

func (r *stubResetRepo) Redeem(_ context.Context, tokenHash, newPasswordHash string, now time.Time) error {
	reset, ok := r.tokens[tokenHash]
	if !ok || !reset.Redeemable(now) {
		return domain.ErrResetTokenInvalid
	}
	reset.UsedAt = &now
	r.passwords[reset.UserID] = newPasswordHash
	return nil
}

type stubThrottle struct {
	failures map[string]int
	limit    int
	err      error
}

func newStubThrottle(limit int) *stubThrottle {
	return &stubThrottle{failures: make(map[string]int), limit: limit}
}

func (t *stubThrottle) TooManyFailures(_ context.Context, identifier string) (bool, error) {
	if t.err != nil {
		return false, t.err
	}
	return t.failures[identifier] >= t.limit, nil
}

func (t *stubThrottle) RecordFailure(_ context.Context, identifier string) error {
	if t.err != nil {
		return t.err
	}
	t.failures[identifier]++
	return nil
}

func (t *stubThrottle) Clear(_ context.Context, identifier string) error {
	if t.err != nil {
		return t.err
	}
	delete(t.failures, identifier)
	return nil
}
