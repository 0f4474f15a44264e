package meeting

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type mockRepo struct {
	items []*Meeting
	err   error
}

func (m *mockRepo) List(_ context.Context) ([]*Meeting, error) {
	return m.items, m.err
}

func newTestContext(t *testing.T) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/aa-meetings", nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestList(t *testing.T) {
	h := NewHandler(&mockRepo{items: []*Meeting{
		{ID: uuid.New(), Location: "Community Center, Anna Nagar", Time: "7:00 PM", Day: "Tuesday"},
		{ID: uuid.New(), Location: "St. Mary's Hall", Time: "6:30 PM", Day: "Friday"},
	}})

	c, rec := newTestContext(t)
	if err := h.List(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var items []*Meeting
	if err := json.Unmarshal(rec.Body.Bytes(), &items); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 meetings, got %d", len(items))
	}
	if items[0].Time != "7:00 PM" || items[0].Day != "Tuesday" {
		t.Errorf("display strings should pass through untouched: %+v", items[0])
	}
}

func TestList_EmptyIsArray(t *testing.T) {
	h := NewHandler(&mockRepo{})
	c, rec := newTestContext(t)
	if err := h.List(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != "[]" {
		t.Errorf("expected empty array, got %s", got)
	}
}

func TestList_RepoError(t *testing.T) {
	h := NewHandler(&mockRepo{err: fmt.Errorf("connection refused")})
	c, _ := newTestContext(t)
	err := h.List(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %v", err)
	}
}
