package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"finmemory/internal/errors"

	"github.com/labstack/echo/v4"
)

// PanicRecovery converts handler panics into a standard 500 envelope so a
// single bad request cannot take the server down.
func PanicRecovery() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			defer func() {
				r := recover()
				if r == nil {
					return
				}

				traceID := GetTraceID(c)
				if traceID == "" {
					traceID = "unknown"
				}

				slog.Error("Panic recovered",
					"trace_id", traceID,
					"panic", r,
					"stack_trace", string(debug.Stack()),
					"path", c.Request().URL.Path,
					"method", c.Request().Method,
				)

				errorResponse := errors.NewErrorResponse(errors.SystemInternalError, traceID)
				if err := c.JSON(http.StatusInternalServerError, errorResponse); err != nil {
					slog.Error("Failed to send panic recovery response", "trace_id", traceID, "error", err)
				}
			}()

			return next(c)
		}
	}
}
