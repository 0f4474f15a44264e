package appointment

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Appointment links a patient with a provider at a date and clock time.
// Date carries the calendar day; Time stays a display string ("10:30 AM")
// exactly as the clients send it.
type Appointment struct {
	ID           uuid.UUID `db:"id" json:"id"`
	PatientID    uuid.UUID `db:"patient_id" json:"patient_id"`
	ProviderID   uuid.UUID `db:"provider_id" json:"provider_id"`
	PatientName  string    `db:"patient_name" json:"patient_name,omitempty"`
	ProviderName string    `db:"provider_name" json:"provider_name,omitempty"`
	Date         time.Time `db:"date" json:"date"`
	Time         string    `db:"time" json:"time"`
	Type         string    `db:"type" json:"type"`
	Notes        string    `db:"notes" json:"notes,omitempty"`
	Status       string    `db:"status" json:"status"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

var validStatuses = map[string]bool{
	"scheduled": true, "completed": true, "cancelled": true,
}

// Validate checks required fields and defaults the status.
func (a *Appointment) Validate() error {
	if a.PatientID == uuid.Nil {
		return fmt.Errorf("patientId is required")
	}
	if a.ProviderID == uuid.Nil {
		return fmt.Errorf("providerId is required")
	}
	if a.Date.IsZero() {
		return fmt.Errorf("date is required")
	}
	if a.Time == "" {
		return fmt.Errorf("time is required")
	}
	if a.Type == "" {
		return fmt.Errorf("type is required")
	}
	if a.Status == "" {
		a.Status = "scheduled"
	}
	if !validStatuses[a.Status] {
		return fmt.Errorf("invalid status: %s", a.Status)
	}
	return nil
}
