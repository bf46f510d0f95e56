package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/streamhub/identity-service/internal/api/metrics"
	"github.com/streamhub/identity-service/internal/core/domain"
	"github.com/streamhub/identity-service/internal/core/ports"
)

// ContextUserKey is where Auth stores the resolved *domain.User for
// downstream middleware and handlers.
const ContextUserKey = "auth_user"

// Auth resolves the bearer token into a live identity and injects it into
// the request context. The user row is re-read on every request, so a
// deactivated account is rejected even while its token is still unexpired.
// Every failure mode is the same 401.
func Auth(auth ports.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := bearerToken(c)
			if !ok {
				metrics.SessionResolutionsTotal.WithLabelValues("rejected").Inc()
				return domain.ErrUnauthenticated
			}

			user, err := auth.ResolveSession(c.Request().Context(), token)
			if err != nil {
				metrics.SessionResolutionsTotal.WithLabelValues("rejected").Inc()
				return domain.ErrUnauthenticated
			}

			metrics.SessionResolutionsTotal.WithLabelValues("ok").Inc()
			c.Set(ContextUserKey, user)

			return next(c)
		}
	}
}

func bearerToken(c echo.Context) (string, bool) {
	header := c.Request().Header.Get("Authorization")
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}
