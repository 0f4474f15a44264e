package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

func newContext(t *testing.T) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestRequestID_Generates(t *testing.T) {
	c, rec := newContext(t)
	h := RequestID()(func(c echo.Context) error {
		if rid, _ := c.Get("request_id").(string); rid == "" {
			t.Error("expected request id on context")
		}
		return c.NoContent(http.StatusOK)
	})
	if err := h(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("expected X-Request-ID response header")
	}
}

func TestRequestID_HonorsIncoming(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "caller-id")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := RequestID()(func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	if err := h(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Header().Get("X-Request-ID") != "caller-id" {
		t.Error("expected incoming request id to be preserved")
	}
}

func TestRecovery_CatchesPanic(t *testing.T) {
	c, _ := newContext(t)
	h := Recovery(zerolog.Nop())(func(c echo.Context) error {
		panic("boom")
	})
	err := h(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusInternalServerError {
		t.Errorf("expected 500 from recovered panic, got %v", err)
	}
}

func TestLogger_PassesThrough(t *testing.T) {
	c, _ := newContext(t)
	called := false
	h := Logger(zerolog.Nop())(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})
	if err := h(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !called {
		t.Error("expected handler to be invoked")
	}
}

func TestRateLimit_Exhaustion(t *testing.T) {
	mw := RateLimit(RateLimitConfig{RequestsPerSecond: 0.001, BurstSize: 2})
	ok := func(c echo.Context) error { return c.NoContent(http.StatusOK) }

	for i := 0; i < 2; i++ {
		c, _ := newContext(t)
		if err := mw(ok)(c); err != nil {
			t.Fatalf("request %d should pass: %v", i, err)
		}
	}

	c, rec := newContext(t)
	err := mw(ok)(c)
	he, isHTTP := err.(*echo.HTTPError)
	if !isHTTP || he.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 after burst exhausted, got %v", err)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Error("expected Retry-After header")
	}
}

func TestRequestTimeout(t *testing.T) {
	c, _ := newContext(t)
	h := RequestTimeout(20 * time.Millisecond)(func(c echo.Context) error {
		select {
		case <-c.Request().Context().Done():
			return c.Request().Context().Err()
		case <-time.After(time.Second):
			return c.NoContent(http.StatusOK)
		}
	})
	err := h(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusGatewayTimeout {
		t.Errorf("expected 504 on deadline, got %v", err)
	}
}

func TestRequestTimeout_FastHandler(t *testing.T) {
	c, _ := newContext(t)
	h := RequestTimeout(time.Second)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	if err := h(c); err != nil {
		t.Errorf("fast handler should not time out: %v", err)
	}
}
