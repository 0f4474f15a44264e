package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned by Login when the email is unknown or
// the password does not match. The two cases are deliberately not
// distinguishable by the caller.
var ErrInvalidCredentials = errors.New("invalid email or password")

// TokenIssuer signs a session token for an authenticated user.
type TokenIssuer interface {
	Issue(userID, userType string) (string, error)
}

type Service struct {
	users    UserRepository
	profiles ProfileRepository
	tokens   TokenIssuer
}

func NewService(users UserRepository, profiles ProfileRepository, tokens TokenIssuer) *Service {
	return &Service{users: users, profiles: profiles, tokens: tokens}
}

// Register creates an account and returns it with a fresh session token.
// A duplicate email surfaces as ErrDuplicateEmail.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*User, string, error) {
	if err := in.Validate(); err != nil {
		return nil, "", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	u := &User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: string(hash),
		UserType:     in.UserType,
	}

	// Two concurrent registrations can both pass this check; the unique
	// index on email catches the loser inside Create.
	if _, err := s.users.GetByEmail(ctx, in.Email); err == nil {
		return nil, "", ErrDuplicateEmail
	} else if !errors.Is(err, ErrNotFound) {
		return nil, "", err
	}

	if err := s.users.Create(ctx, u); err != nil {
		return nil, "", err
	}

	token, err := s.tokens.Issue(u.ID.String(), u.UserType)
	if err != nil {
		return nil, "", fmt.Errorf("issue token: %w", err)
	}
	return u, token, nil
}

// Login authenticates by email and password and returns the user with a
// fresh session token.
func (s *Service) Login(ctx context.Context, email, password string) (*User, string, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, ErrNotFound) {
		return nil, "", ErrInvalidCredentials
	}
	if err != nil {
		return nil, "", err
	}

	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(u.ID.String(), u.UserType)
	if err != nil {
		return nil, "", fmt.Errorf("issue token: %w", err)
	}
	return u, token, nil
}

// GetUser returns an account by id.
func (s *Service) GetUser(ctx context.Context, id uuid.UUID) (*User, error) {
	return s.users.GetByID(ctx, id)
}

// Profile returns the user plus, for patients, their intake details.
// A patient who has not filed the intake form gets a nil profile.
func (s *Service) Profile(ctx context.Context, userID uuid.UUID) (*User, *PatientProfile, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	if u.UserType != "patient" {
		return u, nil, nil
	}
	p, err := s.profiles.GetByUserID(ctx, userID)
	if errors.Is(err, ErrNotFound) {
		return u, nil, nil
	}
	if err != nil {
		return nil, nil, err
	}
	return u, p, nil
}

// UpdateProfile changes the account name and, for patients, intake fields.
func (s *Service) UpdateProfile(ctx context.Context, userID uuid.UUID, name string, p *PatientProfile) error {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if name != "" && name != u.Name {
		if err := s.users.UpdateName(ctx, userID, name); err != nil {
			return err
		}
	}
	if p != nil {
		if u.UserType != "patient" {
			return fmt.Errorf("only patients have an intake profile")
		}
		p.UserID = userID
		if err := s.profiles.Upsert(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

// SubmitIntake files the new-patient intake form. Patients only.
func (s *Service) SubmitIntake(ctx context.Context, userID uuid.UUID, p *PatientProfile) error {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if u.UserType != "patient" {
		return fmt.Errorf("only patients can submit the intake form")
	}
	p.UserID = userID
	return s.profiles.Upsert(ctx, p)
}

// ListPatients returns all patient accounts sorted by name.
func (s *Service) ListPatients(ctx context.Context) ([]*User, error) {
	return s.users.ListByType(ctx, "patient")
}

// CountPatients returns the number of patient accounts.
func (s *Service) CountPatients(ctx context.Context) (int, error) {
	return s.users.CountByType(ctx, "patient")
}
