package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dibsly/dibs-api/internal/api/middleware"
	"github.com/dibsly/dibs-api/internal/core/domain"
)

// ctxIdentity extracts the session identity and token injected by the Auth
// middleware. Presence of the identity proves the middleware ran; its
// absence on a protected route means the route is miswired, so fail closed.
func ctxIdentity(c echo.Context) (domain.Identity, string, error) {
	identity, ok := c.Get(middleware.ContextKeyIdentity).(domain.Identity)
	if !ok || identity.Username == "" {
		return domain.Identity{}, "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication")
	}
	token, _ := c.Get(middleware.ContextKeyToken).(string)
	return identity, token, nil
}
