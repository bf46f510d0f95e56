package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/streamhub/identity-service/internal/core/domain"
)

// RequireRoles enforces role-based access control over the identity injected
// by Auth. The request passes when the caller holds at least one of the
// required roles; an empty required set admits any authenticated caller.
func RequireRoles(required ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, ok := c.Get(ContextUserKey).(*domain.User)
			if !ok || user == nil {
				return domain.ErrUnauthenticated
			}
			if len(required) == 0 {
				return next(c)
			}
			for _, code := range required {
				if user.HasRole(code) {
					return next(c)
				}
			}
			return domain.ErrForbidden
		}
	}
}
