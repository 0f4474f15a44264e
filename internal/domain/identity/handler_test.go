package identity

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Murugesh1804/revivewell-final/internal/platform/auth"
)

func newTestContext(t *testing.T, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func asUser(c echo.Context, id uuid.UUID, userType string) {
	ctx := c.Request().Context()
	ctx = context.WithValue(ctx, auth.UserIDKey, id.String())
	ctx = context.WithValue(ctx, auth.UserTypeKey, userType)
	c.SetRequest(c.Request().WithContext(ctx))
}

func httpStatus(t *testing.T, err error) int {
	t.Helper()
	he, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("expected *echo.HTTPError, got %T: %v", err, err)
	}
	return he.Code
}

func TestHandlerRegister(t *testing.T) {
	h := NewHandler(newTestService())
	c, rec := newTestContext(t, http.MethodPost, "/api/register",
		`{"name":"Maya","email":"maya@example.com","password":"secret1","userType":"patient"}`)

	if err := h.Register(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp authResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Token == "" {
		t.Error("expected token in response")
	}
	if resp.User == nil || resp.User.UserType != "patient" {
		t.Errorf("unexpected user payload: %+v", resp.User)
	}
}

func TestHandlerRegister_Duplicate(t *testing.T) {
	svc := newTestService()
	register(t, svc, "dup@example.com", "patient")
	h := NewHandler(svc)

	c, _ := newTestContext(t, http.MethodPost, "/api/register",
		`{"name":"Other","email":"dup@example.com","password":"secret1"}`)
	err := h.Register(c)
	if got := httpStatus(t, err); got != http.StatusConflict {
		t.Errorf("expected 409, got %d", got)
	}
}

func TestHandlerLogin(t *testing.T) {
	svc := newTestService()
	register(t, svc, "maya@example.com", "patient")
	h := NewHandler(svc)

	c, rec := newTestContext(t, http.MethodPost, "/api/login",
		`{"email":"maya@example.com","password":"secret1"}`)
	if err := h.Login(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestHandlerLogin_BadCredentials(t *testing.T) {
	svc := newTestService()
	register(t, svc, "maya@example.com", "patient")
	h := NewHandler(svc)

	c, _ := newTestContext(t, http.MethodPost, "/api/login",
		`{"email":"maya@example.com","password":"wrong"}`)
	err := h.Login(c)
	if got := httpStatus(t, err); got != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", got)
	}
}

func TestHandlerLogin_MissingFields(t *testing.T) {
	h := NewHandler(newTestService())
	c, _ := newTestContext(t, http.MethodPost, "/api/login", `{"email":"only@example.com"}`)
	err := h.Login(c)
	if got := httpStatus(t, err); got != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", got)
	}
}

func TestHandlerGetProfile_MergesIntake(t *testing.T) {
	svc := newTestService()
	u := register(t, svc, "p@example.com", "patient")
	if err := svc.SubmitIntake(context.Background(), u.ID, &PatientProfile{PrimaryGoal: "sobriety"}); err != nil {
		t.Fatalf("submit intake: %v", err)
	}
	h := NewHandler(svc)

	c, rec := newTestContext(t, http.MethodGet, "/api/user/profile", "")
	asUser(c, u.ID, "patient")
	if err := h.GetProfile(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var out map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if out["userType"] != "patient" {
		t.Errorf("expected userType in profile, got %v", out["userType"])
	}
	if out["primary_goal"] != "sobriety" {
		t.Errorf("expected intake fields merged in, got %v", out["primary_goal"])
	}
}

func TestHandlerSubmitIntake_ClinicianForbidden(t *testing.T) {
	svc := newTestService()
	u := register(t, svc, "doc@example.com", "doctor")
	h := NewHandler(svc)

	c, _ := newTestContext(t, http.MethodPost, "/api/new-user-form", `{"dob":"1990-01-01"}`)
	asUser(c, u.ID, "doctor")
	err := h.SubmitIntake(c)
	if got := httpStatus(t, err); got != http.StatusForbidden {
		t.Errorf("expected 403, got %d", got)
	}
}

func TestHandlerSubmitIntake_CamelCaseKeys(t *testing.T) {
	svc := newTestService()
	u := register(t, svc, "p@example.com", "patient")
	h := NewHandler(svc)

	c, rec := newTestContext(t, http.MethodPost, "/api/new-user-form",
		`{"dob":"1990-01-01","contactNumber":"555-0100","primarySubstance":"alcohol"}`)
	asUser(c, u.ID, "patient")
	if err := h.SubmitIntake(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	_, p, err := svc.Profile(context.Background(), u.ID)
	if err != nil {
		t.Fatalf("profile: %v", err)
	}
	if p == nil || p.ContactNumber != "555-0100" || p.PrimarySubstance != "alcohol" {
		t.Errorf("intake fields not persisted: %+v", p)
	}
}

func TestHandlerGetProfile_NoSession(t *testing.T) {
	h := NewHandler(newTestService())
	c, _ := newTestContext(t, http.MethodGet, "/api/user/profile", "")
	err := h.GetProfile(c)
	if got := httpStatus(t, err); got != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", got)
	}
}
