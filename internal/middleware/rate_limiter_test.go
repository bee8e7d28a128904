package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func rateLimitedRequest(t *testing.T, e *echo.Echo, handler echo.HandlerFunc, ip string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Real-IP", ip)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := handler(c)
	assert.NoError(t, err)
	return rec
}

func TestRateLimiter_AllowsWithinBurst(t *testing.T) {
	e := echo.New()
	handler := RateLimiterWithConfig(1, 2)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	rec := rateLimitedRequest(t, e, handler, "10.0.0.1")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = rateLimitedRequest(t, e, handler, "10.0.0.1")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRateLimiter_BlocksBeyondBurst(t *testing.T) {
	e := echo.New()
	handler := RateLimiterWithConfig(1, 2)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	ip := "10.0.0.2"
	rateLimitedRequest(t, e, handler, ip)
	rateLimitedRequest(t, e, handler, ip)
	rec := rateLimitedRequest(t, e, handler, ip)

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	var body map[string]map[string]interface{}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "SYSTEM_003", body["error"]["code"])
}

func TestRateLimiter_SeparateLimitsPerIP(t *testing.T) {
	e := echo.New()
	handler := RateLimiterWithConfig(1, 1)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	rec := rateLimitedRequest(t, e, handler, "10.0.0.3")
	assert.Equal(t, http.StatusOK, rec.Code)

	// Exhausted for the first IP, a different client is unaffected
	rec = rateLimitedRequest(t, e, handler, "10.0.0.3")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	rec = rateLimitedRequest(t, e, handler, "10.0.0.4")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGetIP_HeaderPrecedence(t *testing.T) {
	e := echo.New()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.7")
	req.Header.Set("X-Real-IP", "198.51.100.9")
	c := e.NewContext(req, httptest.NewRecorder())
	assert.Equal(t, "203.0.113.7", getIP(c))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Real-IP", "198.51.100.9")
	c = e.NewContext(req, httptest.NewRecorder())
	assert.Equal(t, "198.51.100.9", getIP(c))
}
