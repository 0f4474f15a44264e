package identity

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a user or profile does not exist.
var ErrNotFound = errors.New("not found")

// ErrDuplicateEmail is returned when registering an email already in use.
var ErrDuplicateEmail = errors.New("email already registered")

type UserRepository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	UpdateName(ctx context.Context, id uuid.UUID, name string) error
	ListByType(ctx context.Context, userType string) ([]*User, error)
	CountByType(ctx context.Context, userType string) (int, error)
}

type ProfileRepository interface {
	Upsert(ctx context.Context, p *PatientProfile) error
	GetByUserID(ctx context.Context, userID uuid.UUID) (*PatientProfile, error)
}
