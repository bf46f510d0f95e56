package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/streamhub/identity-service/internal/core/domain"
)

func TestUserHandler_AssignRole(t *testing.T) {
	e := echo.New()
	e.Validator = NewValidator()
	svc := &stubUserService{
		assignFn: func(_ context.Context, userID int64, code string) error {
			if userID != 7 || code != "ADMIN" {
				t.Fatalf("unexpected args: %d %s", userID, code)
			}
			return nil
		},
	}
	h := NewUserHandler(svc)

	c, rec := newTestContext(e, http.MethodPost, "/users/roles/assign",
		`{"user_id":7,"role_code":"ADMIN"}`, echo.MIMEApplicationJSON)
	if err := h.AssignRole(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
}

func TestUserHandler_AssignRole_UnknownRole(t *testing.T) {
	e := echo.New()
	e.Validator = NewValidator()
	svc := &stubUserService{
		assignFn: func(context.Context, int64, string) error {
			return domain.ErrRoleNotFound
		},
	}
	h := NewUserHandler(svc)

	c, _ := newTestContext(e, http.MethodPost, "/users/roles/assign",
		`{"user_id":7,"role_code":"SUPERUSER"}`, echo.MIMEApplicationJSON)
	if err := h.AssignRole(c); err != domain.ErrRoleNotFound {
		t.Fatalf("expected ErrRoleNotFound, got %v", err)
	}
}

func TestUserHandler_RevokeRole_NotGranted(t *testing.T) {
	e := echo.New()
	e.Validator = NewValidator()
	svc := &stubUserService{
		revokeFn: func(context.Context, int64, string) error {
			return domain.ErrRoleNotGranted
		},
	}
	h := NewUserHandler(svc)

	c, _ := newTestContext(e, http.MethodDelete, "/users/roles/revoke",
		`{"user_id":7,"role_code":"EMPLOYEE"}`, echo.MIMEApplicationJSON)
	if err := h.RevokeRole(c); err != domain.ErrRoleNotGranted {
		t.Fatalf("expected ErrRoleNotGranted, got %v", err)
	}
}

func TestUserHandler_ListRoles(t *testing.T) {
	e := echo.New()
	svc := &stubUserService{
		rolesForFn: func(_ context.Context, userID int64) ([]string, error) {
			if userID != 7 {
				t.Fatalf("unexpected user id: %d", userID)
			}
			return []string{"USER", "EMPLOYEE"}, nil
		},
	}
	h := NewUserHandler(svc)

	c, rec := newTestContext(e, http.MethodGet, "/users/7/roles", "", "")
	c.SetParamNames("id")
	c.SetParamValues("7")

	if err := h.ListRoles(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var roles []string
	if err := json.Unmarshal(rec.Body.Bytes(), &roles); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(roles) != 2 || roles[0] != "USER" {
		t.Fatalf("unexpected roles: %v", roles)
	}
}

func TestUserHandler_Deactivate(t *testing.T) {
	e := echo.New()
	var gotActive *bool
	svc := &stubUserService{
		activeFn: func(_ context.Context, userID int64, active bool) error {
			if userID != 7 {
				t.Fatalf("unexpected user id: %d", userID)
			}
			gotActive = &active
			return nil
		},
	}
	h := NewUserHandler(svc)

	c, rec := newTestContext(e, http.MethodPost, "/users/7/deactivate", "", "")
	c.SetParamNames("id")
	c.SetParamValues("7")

	if err := h.Deactivate(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if gotActive == nil || *gotActive {
		t.Fatalf("expected SetActive(false)")
	}
}

func TestUserHandler_BadUserID(t *testing.T) {
	e := echo.New()
	h := NewUserHandler(&stubUserService{})

	for _, raw := range []string{"abc", "-1", "0", ""} {
		c, _ := newTestContext(e, http.MethodGet, "/users/"+raw+"/roles", "", "")
		c.SetParamNames("id")
		c.SetParamValues(raw)

		err := h.ListRoles(c)
		he, ok := err.(*echo.HTTPError)
		if !ok || he.Code != http.StatusBadRequest {
			t.Fatalf("id %q: expected 400, got %v", raw, err)
		}
	}
}
