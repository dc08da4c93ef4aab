package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/dibsly/dibs-api/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
// ClaimedBy is populated only on claim conflicts so clients can render
// "claimed by X" inline.
type errorResponse struct {
	Error     string `json:"error"`
	ClaimedBy string `json:"claimed_by,omitempty"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, body := resolveError(err, log, c)
		_ = c.JSON(code, body)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, errorResponse) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, errorResponse{Error: fmt.Sprintf("%v", he.Message)}
	}

	// Claim conflict carries the current holder; an expected outcome.
	var claimed *domain.AlreadyClaimedError
	if errors.As(err, &claimed) {
		return http.StatusConflict, errorResponse{
			Error:     claimed.Error(),
			ClaimedBy: claimed.Holder.Username,
		}
	}

	// Known domain errors → deterministic HTTP codes.
	switch {
	case errors.Is(err, domain.ErrAuthInvalid):
		return http.StatusUnauthorized, errorResponse{Error: "invalid or expired session"}
	case errors.Is(err, domain.ErrInvalidLogin):
		return http.StatusBadRequest, errorResponse{Error: "username is required"}
	case errors.Is(err, domain.ErrItemNotFound):
		return http.StatusNotFound, errorResponse{Error: "item not found"}
	case errors.Is(err, domain.ErrClaimConflict):
		return http.StatusConflict, errorResponse{Error: "claim state changed, re-query and retry"}
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, errorResponse{Error: "user not found"}
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, errorResponse{Error: "internal server error"}
}
