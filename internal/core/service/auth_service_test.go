package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/streamhub/identity-service/internal/core/domain"
	"github.com/streamhub/identity-service/internal/core/ports"
)

type authFixture struct {
	users    *stubUserRepo
	roles    *stubRoleRepo
	audit    *stubAuditRepo
	throttle *stubThrottle
	svc      ports.AuthService
}

func newAuthFixture() *authFixture {
	f := &authFixture{
		users:    newStubUserRepo(),
		roles:    newStubRoleRepo(),
		audit:    &stubAuditRepo{},
		throttle: newStubThrottle(5),
	}
	tokens := NewTokenService("test-secret", time.Hour)
	f.svc = NewAuthService(f.users, f.roles, f.audit, tokens, f.throttle, zerolog.Nop())
	return f
}

func (f *authFixture) signup(t *testing.T, email, username, password string) *domain.User {
	t.Helper()
	user, err := f.svc.Signup(context.Background(), ports.SignupInput{
		Email:    email,
		Username: username,
		Password: password,
	})
	if err != nil {
		t.Fatalf("signup failed: %v", err)
	}
	// Mirror the store-side default grant; the stub user repo persists the
	// embedded roles, the role repo tracks grants for resolution.
	for _, code := range user.Roles {
		_ = f.roles.Grant(context.Background(), user.ID, code)
	}
	return user
}

func TestAuthService_Signup_DefaultRole(t *testing.T) {
	f := newAuthFixture()

	user := f.signup(t, "a@x.com", "alice", "secret123")
	if user.ID == 0 {
		t.Fatalf("expected allocated id")
	}
	if !user.Active {
		t.Fatalf("new user must be active")
	}
	if len(user.Roles) != 1 || user.Roles[0] != domain.RoleUser {
		t.Fatalf("expected default USER role, got %v", user.Roles)
	}
	if user.PasswordHash == "secret123" || user.PasswordHash == "" {
		t.Fatalf("password not hashed")
	}
	if !CheckPassword("secret123", user.PasswordHash) {
		t.Fatalf("stored hash does not verify")
	}
}

func TestAuthService_Signup_Conflict(t *testing.T) {
	f := newAuthFixture()
	f.signup(t, "a@x.com", "alice", "secret123")

	// Same email, different username.
	_, err := f.svc.Signup(context.Background(), ports.SignupInput{Email: "a@x.com", Username: "alice2", Password: "pw123456"})
	if err != domain.ErrUserExists {
		t.Fatalf("expected ErrUserExists for duplicate email, got %v", err)
	}

	// Same username, different email.
	_, err = f.svc.Signup(context.Background(), ports.SignupInput{Email: "b@x.com", Username: "alice", Password: "pw123456"})
	if err != domain.ErrUserExists {
		t.Fatalf("expected ErrUserExists for duplicate username, got %v", err)
	}
}

func TestAuthService_Signup_Validation(t *testing.T) {
	f := newAuthFixture()

	cases := []ports.SignupInput{
		{Email: "", Username: "alice", Password: "pw"},
		{Email: "a@x.com", Username: "", Password: "pw"},
		{Email: "a@x.com", Username: "alice", Password: ""},
	}
	for _, in := range cases {
		if _, err := f.svc.Signup(context.Background(), in); err != domain.ErrValidation {
			t.Fatalf("expected ErrValidation for %+v, got %v", in, err)
		}
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	f := newAuthFixture()
	created := f.signup(t, "a@x.com", "alice", "secret123")

	res, err := f.svc.Login(context.Background(), ports.LoginInput{
		Identifier: "alice",
		Password:   "secret123",
		ClientIP:   "203.0.113.9",
		UserAgent:  "test-agent",
	})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if res.Token == "" {
		t.Fatalf("expected token")
	}
	if len(res.Roles) != 1 || res.Roles[0] != domain.RoleUser {
		t.Fatalf("unexpected roles: %v", res.Roles)
	}

	// Token decodes back to the same subject and roles.
	tokens := NewTokenService("test-secret", time.Hour)
	userID, roles, err := tokens.Verify(res.Token)
	if err != nil {
		t.Fatalf("issued token does not verify: %v", err)
	}
	if userID != created.ID || len(roles) != 1 || roles[0] != domain.RoleUser {
		t.Fatalf("token claims mismatch: %d %v", userID, roles)
	}

	// Audit trail: one successful entry with client metadata.
	if len(f.audit.entries) != 1 {
		t.Fatalf("expected 1 audit entry, got %d", len(f.audit.entries))
	}
	entry := f.audit.entries[0]
	if !entry.Success || entry.UserID != created.ID || entry.IPAddress != "203.0.113.9" || entry.UserAgent != "test-agent" {
		t.Fatalf("unexpected audit entry: %+v", entry)
	}

	// Last login recorded.
	stored, _ := f.users.FindByID(context.Background(), created.ID)
	if stored.LastLoginAt == nil {
		t.Fatalf("last login not recorded")
	}
}

func TestAuthService_Login_LoginByEmail(t *testing.T) {
	f := newAuthFixture()
	f.signup(t, "a@x.com", "alice", "secret123")

	if _, err := f.svc.Login(context.Background(), ports.LoginInput{Identifier: "a@x.com", Password: "secret123"}); err != nil {
		t.Fatalf("login by email failed: %v", err)
	}
}

func TestAuthService_Login_MixedCaseEmail(t *testing.T) {
	f := newAuthFixture()
	created := f.signup(t, "Alice@X.com", "alice", "secret123")
	if created.Email != "alice@x.com" {
		t.Fatalf("email not lowercased at signup: %s", created.Email)
	}

	// The identifier exactly as the user typed it at signup must still
	// resolve, as must the stored lowercase form.
	for _, identifier := range []string{"Alice@X.com", "alice@x.com", "ALICE@X.COM"} {
		if _, err := f.svc.Login(context.Background(), ports.LoginInput{Identifier: identifier, Password: "secret123"}); err != nil {
			t.Fatalf("login with identifier %q failed: %v", identifier, err)
		}
	}
}

func TestAuthService_Login_IndistinguishableFailures(t *testing.T) {
	f := newAuthFixture()
	f.signup(t, "a@x.com", "alice", "secret123")

	_, errUnknown := f.svc.Login(context.Background(), ports.LoginInput{Identifier: "nobody", Password: "secret123"})
	_, errWrongPw := f.svc.Login(context.Background(), ports.LoginInput{Identifier: "alice", Password: "wrong"})

	if errUnknown != domain.ErrInvalidCredentials || errWrongPw != domain.ErrInvalidCredentials {
		t.Fatalf("expected identical ErrInvalidCredentials, got %v / %v", errUnknown, errWrongPw)
	}

	// Only the resolved-identity failure is audited.
	if len(f.audit.entries) != 1 {
		t.Fatalf("expected 1 audit entry, got %d", len(f.audit.entries))
	}
	if f.audit.entries[0].Success {
		t.Fatalf("failure audit entry marked success")
	}
}

func TestAuthService_Login_DisabledAccount(t *testing.T) {
	f := newAuthFixture()
	user := f.signup(t, "a@x.com", "alice", "secret123")
	if err := f.users.SetActive(context.Background(), user.ID, false); err != nil {
		t.Fatalf("deactivate failed: %v", err)
	}

	// Wrong password on a disabled account still reports invalid
	// credentials, not the account state.
	if _, err := f.svc.Login(context.Background(), ports.LoginInput{Identifier: "alice", Password: "wrong"}); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}

	if _, err := f.svc.Login(context.Background(), ports.LoginInput{Identifier: "alice", Password: "secret123"}); err != domain.ErrAccountDisabled {
		t.Fatalf("expected ErrAccountDisabled, got %v", err)
	}
}

func TestAuthService_Login_Throttled(t *testing.T) {
	f := newAuthFixture()
	f.signup(t, "a@x.com", "alice", "secret123")

	for i := 0; i < 5; i++ {
		if _, err := f.svc.Login(context.Background(), ports.LoginInput{Identifier: "alice", Password: "wrong"}); err != domain.ErrInvalidCredentials {
			t.Fatalf("attempt %d: expected ErrInvalidCredentials, got %v", i, err)
		}
	}

	if _, err := f.svc.Login(context.Background(), ports.LoginInput{Identifier: "alice", Password: "secret123"}); err != domain.ErrTooManyAttempts {
		t.Fatalf("expected ErrTooManyAttempts, got %v", err)
	}
}

func TestAuthService_Login_ThrottleFailsOpen(t *testing.T) {
	f := newAuthFixture()
	f.signup(t, "a@x.com", "alice", "secret123")
	f.throttle.err = context.DeadlineExceeded

	if _, err := f.svc.Login(context.Background(), ports.LoginInput{Identifier: "alice", Password: "secret123"}); err != nil {
		t.Fatalf("login must succeed when throttle is unavailable, got %v", err)
	}
}

func TestAuthService_Login_MarkLoginBestEffort(t *testing.T) {
	f := newAuthFixture()
	f.signup(t, "a@x.com", "alice", "secret123")
	f.users.markLoginErr = context.DeadlineExceeded

	if _, err := f.svc.Login(context.Background(), ports.LoginInput{Identifier: "alice", Password: "secret123"}); err != nil {
		t.Fatalf("login must succeed despite last-login write failure, got %v", err)
	}
}

func TestAuthService_ResolveSession(t *testing.T) {
	f := newAuthFixture()
	user := f.signup(t, "a@x.com", "alice", "secret123")

	res, err := f.svc.Login(context.Background(), ports.LoginInput{Identifier: "alice", Password: "secret123"})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	resolved, err := f.svc.ResolveSession(context.Background(), res.Token)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if resolved.ID != user.ID || resolved.Username != "alice" {
		t.Fatalf("unexpected identity: %+v", resolved)
	}
}

func TestAuthService_ResolveSession_DeactivatedUser(t *testing.T) {
	f := newAuthFixture()
	user := f.signup(t, "a@x.com", "alice", "secret123")

	res, err := f.svc.Login(context.Background(), ports.LoginInput{Identifier: "alice", Password: "secret123"})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	// Deactivation cuts off the still-unexpired token immediately.
	if err := f.users.SetActive(context.Background(), user.ID, false); err != nil {
		t.Fatalf("deactivate failed: %v", err)
	}
	if _, err := f.svc.ResolveSession(context.Background(), res.Token); err != domain.ErrUnauthenticated {
		t.Fatalf("expected ErrUnauthenticated for deactivated user, got %v", err)
	}
}

func TestAuthService_ResolveSession_BadToken(t *testing.T) {
	f := newAuthFixture()

	for _, token := range []string{"", "garbage", "a.b.c"} {
		if _, err := f.svc.ResolveSession(context.Background(), token); err != domain.ErrUnauthenticated {
			t.Fatalf("expected ErrUnauthenticated for %q, got %v", token, err)
		}
	}
}
