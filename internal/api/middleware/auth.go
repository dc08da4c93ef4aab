package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/dibsly/dibs-api/internal/api/metrics"
	"github.com/dibsly/dibs-api/internal/core/domain"
	"github.com/dibsly/dibs-api/internal/core/ports"
)

// Context keys set on authenticated requests.
const (
	ContextKeyIdentity = "identity"
	ContextKeyToken    = "token"
)

// Auth resolves the bearer token against the session store and injects the
// owner identity into context. Requests failing validation stop here: no
// read or mutation runs without a valid identity.
func Auth(sessions ports.SessionStore) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				metrics.SessionValidationFailuresTotal.WithLabelValues("missing").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				metrics.SessionValidationFailuresTotal.WithLabelValues("malformed").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			identity, err := sessions.Validate(c.Request().Context(), parts[1])
			if err != nil {
				metrics.SessionValidationFailuresTotal.WithLabelValues("invalid").Inc()
				if errors.Is(err, domain.ErrAuthInvalid) {
					return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
				}
				// A store that cannot be reached never counts as valid.
				return echo.NewHTTPError(http.StatusUnauthorized, "session validation unavailable")
			}

			c.Set(ContextKeyIdentity, *identity)
			c.Set(ContextKeyToken, parts[1])

			return next(c)
		}
	}
}
