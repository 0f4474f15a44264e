package dashboard

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

func TestHTTPSource_BearerAttached(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		fmt.Fprint(w, `{"totalPatients":1}`)
	}))
	defer srv.Close()

	src := NewHTTPSource(Session{BaseURL: srv.URL, Token: "tok-123"}, zerolog.Nop())
	stats, err := src.FetchStats(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotAuth != "Bearer tok-123" {
		t.Errorf("expected bearer header, got %q", gotAuth)
	}
	if stats.TotalPatients != 1 {
		t.Errorf("stats not decoded: %+v", stats)
	}
}

func TestHTTPSource_RetriesOn5xx(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		fmt.Fprint(w, `[]`)
	}))
	defer srv.Close()

	src := NewHTTPSource(Session{BaseURL: srv.URL}, zerolog.Nop())
	items, err := src.FetchAppointments(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("empty result is success, got %d items", len(items))
	}
	if atomic.LoadInt32(&calls) != 2 {
		t.Errorf("expected retry after 5xx, got %d calls", calls)
	}
}

func TestHTTPSource_4xxTerminal(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	src := NewHTTPSource(Session{BaseURL: srv.URL}, zerolog.Nop())
	if _, err := src.FetchStats(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	if atomic.LoadInt32(&calls) != 1 {
		t.Errorf("4xx must not be retried, got %d calls", calls)
	}
}

func TestHTTPSource_FetchCheckinsInsightFlag(t *testing.T) {
	id, pid := uuid.New(), uuid.New()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"checkins":[{"id":%q,"user_id":%q,"mood":5,"cravings":5}],"llm_insights":"steady week"}`, id, pid)
	}))
	defer srv.Close()

	src := NewHTTPSource(Session{BaseURL: srv.URL}, zerolog.Nop())

	checkins, insight, err := src.FetchCheckins(context.Background(), false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(checkins) != 1 {
		t.Fatalf("expected 1 check-in, got %d", len(checkins))
	}
	if insight != "" {
		t.Errorf("withInsight=false must not surface the narrative, got %q", insight)
	}

	_, insight, err = src.FetchCheckins(context.Background(), true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if insight != "steady week" {
		t.Errorf("expected narrative, got %q", insight)
	}
}

func TestHTTPSource_MalformedRecordsDropped(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"checkins":[{"id":%q,"user_id":%q,"mood":5,"cravings":5},{"mood":"broken"}],"llm_insights":""}`,
			uuid.New(), uuid.New())
	}))
	defer srv.Close()

	src := NewHTTPSource(Session{BaseURL: srv.URL}, zerolog.Nop())
	checkins, _, err := src.FetchCheckins(context.Background(), false)
	if err != nil {
		t.Fatalf("a malformed record must not fail the fetch: %v", err)
	}
	if len(checkins) != 1 {
		t.Errorf("expected the malformed record dropped, got %d", len(checkins))
	}
}

// End-to-end: collaborator API -> source -> store -> snapshot.
func TestEndToEnd_SnapshotFromCollaborator(t *testing.T) {
	patientID := uuid.New()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/dashboard-stats", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"totalPatients":2,"criticalCases":1,"todayAppointments":1,"progress":60,
			"patients":[{"id":%q,"name":"Maya R","risk_level":"High"}]}`, patientID)
	})
	mux.HandleFunc("/api/daily-checkins", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"checkins":[
			{"id":%q,"user_id":%q,"patient_name":"Maya R","mood":2,"cravings":9,"need_emergency_contact":1,"created_at":"2026-03-14 08:00:00"},
			{"id":%q,"user_id":%q,"patient_name":"Sam T","mood":6,"cravings":3,"created_at":"2026-03-14 09:00:00"}
		],"llm_insights":"Patient shows improvement"}`, uuid.New(), patientID, uuid.New(), uuid.New())
	})
	mux.HandleFunc("/api/appointments", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[]`)
	})
	mux.HandleFunc("/api/aa-meetings", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `[{"id":%q,"location":"Community Center","time":"7:00 PM","day":"Tuesday"}]`, uuid.New())
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	src := NewHTTPSource(Session{BaseURL: srv.URL, Token: "tok"}, zerolog.Nop())
	store := NewStore(src, zerolog.Nop(), nil)

	if err := store.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	store.RefreshInsight(context.Background())

	snap := store.Snapshot()
	if snap.InsightText != "Patient shows improvement" {
		t.Errorf("expected insight text, got %q", snap.InsightText)
	}
	if len(snap.CriticalCheckins) != 1 {
		t.Fatalf("expected exactly the flagged check-in, got %d", len(snap.CriticalCheckins))
	}
	if snap.CriticalCheckins[0].UserID != patientID {
		t.Error("wrong record on the critical list")
	}
	if len(snap.Groups) != 2 {
		t.Errorf("expected 2 patient groups, got %d", len(snap.Groups))
	}
	if g := snap.Groups[patientID]; g == nil || g.PatientName != "Maya R" {
		t.Errorf("group index missing patient metadata: %+v", g)
	}
	if snap.Stats == nil || snap.Stats.Patients[0].RiskLevel != "High" {
		t.Error("collaborator-owned risk level must pass through untouched")
	}
	if len(snap.Meetings) != 1 {
		t.Errorf("meetings slice not committed: %d", len(snap.Meetings))
	}
	if len(snap.Degraded) != 0 {
		t.Errorf("no slice should be degraded: %v", snap.Degraded)
	}
}
