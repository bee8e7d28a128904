package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"ledgerbook/internal/errors"

	"github.com/labstack/echo/v4"
)

// PanicRecovery converts a handler panic into the standard SYSTEM_001
// envelope. The stack goes to the log under the request's trace ID; the
// client only ever sees the generic message.
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

				slog.Error("panic recovered",
					"trace_id", traceID,
					"panic", fmt.Sprintf("%v", r),
					"method", c.Request().Method,
					"path", c.Request().URL.Path,
					"stack_trace", string(debug.Stack()),
				)

				response := errors.NewErrorResponse(errors.SystemInternalError, traceID)
				if err := c.JSON(http.StatusInternalServerError, response); err != nil {
					slog.Error("failed to write panic response",
						"trace_id", traceID,
						"error", err.Error(),
					)
				}
			}()

			return next(c)
		}
	}
}
