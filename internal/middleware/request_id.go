package middleware

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	// TraceIDHeader carries the trace ID on both request and response
	TraceIDHeader = "X-Trace-ID"
	// TraceIDContextKey is where handlers find the trace ID in the echo context
	TraceIDContextKey = "trace_id"
)

// RequestID tags every request with a trace ID. An upstream-supplied
// X-Trace-ID is honored so a gateway can correlate its own logs with ours;
// otherwise a fresh UUID is minted. The ID rides on the response header and
// in every error envelope.
func RequestID() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			traceID := c.Request().Header.Get(TraceIDHeader)
			if traceID == "" {
				traceID = uuid.New().String()
			}

			c.Set(TraceIDContextKey, traceID)
			c.Response().Header().Set(TraceIDHeader, traceID)

			return next(c)
		}
	}
}

// GetTraceID returns the request's trace ID, or "" before RequestID has run
func GetTraceID(c echo.Context) string {
	if traceID, ok := c.Get(TraceIDContextKey).(string); ok {
		return traceID
	}
	return ""
}
