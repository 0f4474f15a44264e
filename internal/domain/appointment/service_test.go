package appointment

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/Murugesh1804/revivewell-final/internal/domain/identity"
)

type mockRepo struct {
	store map[uuid.UUID]*Appointment
}

func newMockRepo() *mockRepo {
	return &mockRepo{store: make(map[uuid.UUID]*Appointment)}
}

func (m *mockRepo) Create(_ context.Context, a *Appointment) error {
	a.ID = uuid.New()
	m.store[a.ID] = a
	return nil
}

func (m *mockRepo) sortedByDate() []*Appointment {
	var all []*Appointment
	for _, a := range m.store {
		all = append(all, a)
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].Date.Equal(all[j].Date) {
			return all[i].Date.Before(all[j].Date)
		}
		return all[i].Time < all[j].Time
	})
	return all
}

func (m *mockRepo) ListByPatient(_ context.Context, patientID uuid.UUID) ([]*Appointment, error) {
	var out []*Appointment
	for _, a := range m.sortedByDate() {
		if a.PatientID == patientID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *mockRepo) ListByProvider(_ context.Context, providerID uuid.UUID) ([]*Appointment, error) {
	var out []*Appointment
	for _, a := range m.sortedByDate() {
		if a.ProviderID == providerID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *mockRepo) NextForPatient(_ context.Context, patientID uuid.UUID, from time.Time) (*Appointment, error) {
	for _, a := range m.sortedByDate() {
		if a.PatientID == patientID && a.Status == "scheduled" && !a.Date.Before(from) {
			return a, nil
		}
	}
	return nil, nil
}

func (m *mockRepo) CountForProviderOn(_ context.Context, providerID uuid.UUID, day time.Time) (int, error) {
	n := 0
	for _, a := range m.store {
		if a.ProviderID == providerID && a.Date.Equal(day) {
			n++
		}
	}
	return n, nil
}

type mockDirectory struct {
	users map[uuid.UUID]*identity.User
}

func newMockDirectory() *mockDirectory {
	return &mockDirectory{users: make(map[uuid.UUID]*identity.User)}
}

func (m *mockDirectory) add(userType string) uuid.UUID {
	id := uuid.New()
	m.users[id] = &identity.User{ID: id, Name: "user " + id.String()[:8], UserType: userType}
	return id
}

func (m *mockDirectory) GetUser(_ context.Context, id uuid.UUID) (*identity.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, identity.ErrNotFound
	}
	return u, nil
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

func newBooking(patientID, providerID uuid.UUID, on time.Time) *Appointment {
	return &Appointment{
		PatientID:  patientID,
		ProviderID: providerID,
		Date:       on,
		Time:       "10:30 AM",
		Type:       "counseling",
	}
}

func TestCreate_Success(t *testing.T) {
	repo, dir := newMockRepo(), newMockDirectory()
	patientID, providerID := dir.add("patient"), dir.add("counselor")
	svc := NewService(repo, dir)

	a := newBooking(patientID, providerID, day(2026, 3, 14))
	if err := svc.Create(context.Background(), patientID, a); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.Status != "scheduled" {
		t.Errorf("expected default status scheduled, got %q", a.Status)
	}
	if len(repo.store) != 1 {
		t.Errorf("appointment not stored")
	}
}

func TestCreate_ProviderMayBook(t *testing.T) {
	repo, dir := newMockRepo(), newMockDirectory()
	patientID, providerID := dir.add("patient"), dir.add("doctor")
	svc := NewService(repo, dir)

	if err := svc.Create(context.Background(), providerID, newBooking(patientID, providerID, day(2026, 3, 14))); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCreate_ThirdPartyRejected(t *testing.T) {
	repo, dir := newMockRepo(), newMockDirectory()
	patientID, providerID := dir.add("patient"), dir.add("counselor")
	stranger := dir.add("patient")
	svc := NewService(repo, dir)

	err := svc.Create(context.Background(), stranger, newBooking(patientID, providerID, day(2026, 3, 14)))
	if !errors.Is(err, ErrNotParticipant) {
		t.Fatalf("expected ErrNotParticipant, got %v", err)
	}
}

func TestCreate_UnknownParticipant(t *testing.T) {
	repo, dir := newMockRepo(), newMockDirectory()
	patientID := dir.add("patient")
	svc := NewService(repo, dir)

	ghost := uuid.New()
	err := svc.Create(context.Background(), patientID, newBooking(patientID, ghost, day(2026, 3, 14)))
	if !errors.Is(err, ErrParticipantNotFound) {
		t.Fatalf("expected ErrParticipantNotFound, got %v", err)
	}
}

func TestCreate_RoleMismatch(t *testing.T) {
	repo, dir := newMockRepo(), newMockDirectory()
	p1, p2 := dir.add("patient"), dir.add("patient")
	svc := NewService(repo, dir)

	// Provider slot filled by another patient.
	if err := svc.Create(context.Background(), p1, newBooking(p1, p2, day(2026, 3, 14))); err == nil {
		t.Fatal("expected error for non-clinician provider")
	}
}

func TestCreate_InvalidStatus(t *testing.T) {
	repo, dir := newMockRepo(), newMockDirectory()
	patientID, providerID := dir.add("patient"), dir.add("counselor")
	svc := NewService(repo, dir)

	a := newBooking(patientID, providerID, day(2026, 3, 14))
	a.Status = "postponed"
	if err := svc.Create(context.Background(), patientID, a); err == nil {
		t.Fatal("expected error for invalid status")
	}
}

func TestListFor_ScopedByRole(t *testing.T) {
	repo, dir := newMockRepo(), newMockDirectory()
	patientID, providerID := dir.add("patient"), dir.add("counselor")
	otherPatient := dir.add("patient")
	svc := NewService(repo, dir)

	svc.Create(context.Background(), patientID, newBooking(patientID, providerID, day(2026, 3, 14)))
	svc.Create(context.Background(), otherPatient, newBooking(otherPatient, providerID, day(2026, 3, 15)))

	mine, err := svc.ListFor(context.Background(), patientID, "patient")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(mine) != 1 {
		t.Errorf("patient should see only own bookings, got %d", len(mine))
	}

	schedule, err := svc.ListFor(context.Background(), providerID, "counselor")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(schedule) != 2 {
		t.Errorf("provider should see full schedule, got %d", len(schedule))
	}

	if _, err := svc.ListFor(context.Background(), patientID, "admin"); err == nil {
		t.Error("unknown role should be rejected")
	}
}

func TestNextForPatient_SkipsPastAndCancelled(t *testing.T) {
	repo, dir := newMockRepo(), newMockDirectory()
	patientID, providerID := dir.add("patient"), dir.add("counselor")
	svc := NewService(repo, dir)

	past := newBooking(patientID, providerID, day(2026, 3, 1))
	svc.Create(context.Background(), patientID, past)

	cancelled := newBooking(patientID, providerID, day(2026, 3, 20))
	cancelled.Status = "cancelled"
	svc.Create(context.Background(), patientID, cancelled)

	upcoming := newBooking(patientID, providerID, day(2026, 3, 25))
	svc.Create(context.Background(), patientID, upcoming)

	now := day(2026, 3, 10).Add(15 * time.Hour)
	next, err := svc.NextForPatient(context.Background(), patientID, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if next == nil || !next.Date.Equal(day(2026, 3, 25)) {
		t.Errorf("expected the upcoming scheduled booking, got %+v", next)
	}
}

func TestNextForPatient_NoneBooked(t *testing.T) {
	repo, dir := newMockRepo(), newMockDirectory()
	patientID := dir.add("patient")
	svc := NewService(repo, dir)

	next, err := svc.NextForPatient(context.Background(), patientID, day(2026, 3, 10))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if next != nil {
		t.Errorf("expected nil, got %+v", next)
	}
}

func TestCountToday(t *testing.T) {
	repo, dir := newMockRepo(), newMockDirectory()
	patientID, providerID := dir.add("patient"), dir.add("doctor")
	svc := NewService(repo, dir)

	svc.Create(context.Background(), providerID, newBooking(patientID, providerID, day(2026, 3, 14)))
	svc.Create(context.Background(), providerID, newBooking(patientID, providerID, day(2026, 3, 14)))
	svc.Create(context.Background(), providerID, newBooking(patientID, providerID, day(2026, 3, 15)))

	n, err := svc.CountToday(context.Background(), providerID, day(2026, 3, 14).Add(9*time.Hour))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 appointments today, got %d", n)
	}
}
