package middleware

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

const RequestIDHeader = "X-Request-Id"

// RequestID assigns an id to every request, binds a child logger carrying it
// into the request context, and echoes it back in the response header. Any
// log.Ctx call further down the stack (repository, pipeline, classifier)
// then carries the id without plumbing it explicitly.
func RequestID(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		requestID := uuid.New().String()

		logger := log.With().Str("request_id", requestID).Logger()
		ctx := logger.WithContext(c.Request().Context())
		c.SetRequest(c.Request().WithContext(ctx))

		c.Response().Header().Set(RequestIDHeader, requestID)

		return next(c)
	}
}
