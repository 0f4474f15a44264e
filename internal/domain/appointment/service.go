package appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Murugesh1804/revivewell-final/internal/domain/identity"
)

// ErrParticipantNotFound is returned when the patient or provider of a new
// appointment does not exist.
var ErrParticipantNotFound = errors.New("patient or provider not found")

// ErrNotParticipant is returned when the requester is neither the patient
// nor the provider of the appointment being created.
var ErrNotParticipant = errors.New("unauthorized to create this appointment")

// UserDirectory is the slice of the identity service appointments need.
type UserDirectory interface {
	GetUser(ctx context.Context, id uuid.UUID) (*identity.User, error)
}

type Service struct {
	repo  Repository
	users UserDirectory
}

func NewService(repo Repository, users UserDirectory) *Service {
	return &Service{repo: repo, users: users}
}

// Create books an appointment. Both participants must exist and the
// requester must be one of them.
func (s *Service) Create(ctx context.Context, requesterID uuid.UUID, a *Appointment) error {
	if err := a.Validate(); err != nil {
		return err
	}
	if requesterID != a.PatientID && requesterID != a.ProviderID {
		return ErrNotParticipant
	}

	patient, err := s.users.GetUser(ctx, a.PatientID)
	if err != nil {
		return ErrParticipantNotFound
	}
	if patient.UserType != "patient" {
		return fmt.Errorf("patientId does not refer to a patient")
	}
	provider, err := s.users.GetUser(ctx, a.ProviderID)
	if err != nil {
		return ErrParticipantNotFound
	}
	if !provider.IsClinician() {
		return fmt.Errorf("providerId does not refer to a clinician")
	}

	return s.repo.Create(ctx, a)
}

// ListFor returns the appointments visible to a user: patients see their
// own bookings with provider names, clinicians see their schedule with
// patient names.
func (s *Service) ListFor(ctx context.Context, userID uuid.UUID, userType string) ([]*Appointment, error) {
	switch userType {
	case "patient":
		return s.repo.ListByPatient(ctx, userID)
	case "counselor", "doctor":
		return s.repo.ListByProvider(ctx, userID)
	default:
		return nil, fmt.Errorf("unauthorized access")
	}
}

// NextForPatient returns the patient's next scheduled appointment from the
// start of today, or nil.
func (s *Service) NextForPatient(ctx context.Context, patientID uuid.UUID, now time.Time) (*Appointment, error) {
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return s.repo.NextForPatient(ctx, patientID, day)
}

// CountToday counts a provider's appointments on the current calendar day.
func (s *Service) CountToday(ctx context.Context, providerID uuid.UUID, now time.Time) (int, error) {
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return s.repo.CountForProviderOn(ctx, providerID, day)
}
