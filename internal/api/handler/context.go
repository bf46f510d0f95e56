package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/streamhub/identity-service/internal/api/middleware"
	"github.com/streamhub/identity-service/internal/core/domain"
)

// currentUser extracts the identity injected by the Auth middleware. A
// missing identity means the route was wired without the middleware; treat
// it as an unauthenticated request rather than panicking.
func currentUser(c echo.Context) (*domain.User, error) {
	user, ok := c.Get(middleware.ContextUserKey).(*domain.User)
	if !ok || user == nil {
		return nil, domain.ErrUnauthenticated
	}
	return user, nil
}
