package checkin

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, c *CheckIn) error
	// ListByUser returns a patient's own check-ins, newest first.
	ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*CheckIn, error)
	// ListAcrossPatients returns check-ins from every patient, newest first,
	// with PatientName populated from the users table.
	ListAcrossPatients(ctx context.Context, limit int) ([]*CheckIn, error)
	// ListSince returns all check-ins created at or after the cutoff, with
	// PatientName populated. Used for roster risk bucketing.
	ListSince(ctx context.Context, cutoff time.Time) ([]*CheckIn, error)
}
