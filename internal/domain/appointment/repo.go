package appointment

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, a *Appointment) error
	// ListByPatient returns a patient's appointments ordered by date then
	// time, with ProviderName populated.
	ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*Appointment, error)
	// ListByProvider returns a provider's appointments ordered by date then
	// time, with PatientName populated.
	ListByProvider(ctx context.Context, providerID uuid.UUID) ([]*Appointment, error)
	// NextForPatient returns the patient's earliest appointment on or after
	// the given day, or nil when none is booked.
	NextForPatient(ctx context.Context, patientID uuid.UUID, from time.Time) (*Appointment, error)
	// CountForProviderOn counts a provider's appointments on a calendar day.
	CountForProviderOn(ctx context.Context, providerID uuid.UUID, day time.Time) (int, error)
}
