package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/streamhub/identity-service/internal/core/ports"
)

// UserHandler exposes the admin-only role and account management endpoints.
// The routes are mounted behind Auth + RequireRoles(ADMIN).
type UserHandler struct {
	userService ports.UserService
}

func NewUserHandler(userService ports.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

type roleChangeRequest struct {
	UserID   int64  `json:"user_id" validate:"required,gt=0"`
	RoleCode string `json:"role_code" validate:"required"`
}

// AssignRole grants a catalog role to a user.
//
// @Summary      Assign a role
// @Tags         users
// @Accept       json
// @Security     BearerAuth
// @Param        body  body  roleChangeRequest  true  "User and role"
// @Success      204
// @Failure      404  {object}  map[string]string
// @Router       /users/roles/assign [post]
func (h *UserHandler) AssignRole(c echo.Context) error {
	var req roleChangeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.userService.AssignRole(c.Request().Context(), req.UserID, req.RoleCode); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// RevokeRole removes a role grant from a user.
//
// @Summary      Revoke a role
// @Tags         users
// @Accept       json
// @Security     BearerAuth
// @Param        body  body  roleChangeRequest  true  "User and role"
// @Success      204
// @Failure      404  {object}  map[string]string
// @Router       /users/roles/revoke [delete]
func (h *UserHandler) RevokeRole(c echo.Context) error {
	var req roleChangeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.userService.RevokeRole(c.Request().Context(), req.UserID, req.RoleCode); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// ListRoles returns the role codes currently granted to a user.
//
// @Summary      List a user's roles
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "User id"
// @Success      200  {array}   string
// @Failure      404  {object}  map[string]string
// @Router       /users/{id}/roles [get]
func (h *UserHandler) ListRoles(c echo.Context) error {
	userID, err := pathUserID(c)
	if err != nil {
		return err
	}

	roles, err := h.userService.RolesFor(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, roles)
}

// Deactivate disables a user account. Session resolution rejects the account
// from the next request on, regardless of outstanding tokens.
//
// @Summary      Deactivate a user
// @Tags         users
// @Security     BearerAuth
// @Param        id  path  int  true  "User id"
// @Success      204
// @Failure      404  {object}  map[string]string
// @Router       /users/{id}/deactivate [post]
func (h *UserHandler) Deactivate(c echo.Context) error {
	return h.setActive(c, false)
}

// Activate re-enables a user account.
//
// @Summary      Activate a user
// @Tags         users
// @Security     BearerAuth
// @Param        id  path  int  true  "User id"
// @Success      204
// @Failure      404  {object}  map[string]string
// @Router       /users/{id}/activate [post]
func (h *UserHandler) Activate(c echo.Context) error {
	return h.setActive(c, true)
}

func (h *UserHandler) setActive(c echo.Context, active bool) error {
	userID, err := pathUserID(c)
	if err != nil {
		return err
	}

	if err := h.userService.SetActive(c.Request().Context(), userID, active); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func pathUserID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid user id")
	}
	return id, nil
}
