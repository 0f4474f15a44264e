package identity

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// User is an account: a patient in recovery or a clinician (counselor or
// doctor) coordinating their care. PasswordHash never leaves the package.
type User struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	UserType     string    `db:"user_type" json:"userType"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

var validUserTypes = map[string]bool{
	"patient": true, "counselor": true, "doctor": true,
}

// IsClinician reports whether the user is on the care-team side.
func (u *User) IsClinician() bool {
	return u.UserType == "counselor" || u.UserType == "doctor"
}

// PatientProfile holds the intake details a patient submits when joining
// the program. One row per patient, upserted in place.
type PatientProfile struct {
	ID                uuid.UUID `db:"id" json:"-"`
	UserID            uuid.UUID `db:"user_id" json:"-"`
	DOB               string    `db:"dob" json:"dob,omitempty"`
	ContactNumber     string    `db:"contact_number" json:"contact_number,omitempty"`
	PrimarySubstance  string    `db:"primary_substance" json:"primary_substance,omitempty"`
	UsageDuration     string    `db:"usage_duration" json:"usage_duration,omitempty"`
	PreviousTreatment string    `db:"previous_treatment" json:"previous_treatment,omitempty"`
	PrimaryGoal       string    `db:"primary_goal" json:"primary_goal,omitempty"`
	SpecificGoals     string    `db:"specific_goals" json:"specific_goals,omitempty"`
	SupportSystem     string    `db:"support_system" json:"support_system,omitempty"`
	CreatedAt         time.Time `db:"created_at" json:"-"`
}

// RegisterInput is the payload accepted by Register.
type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	UserType string `json:"userType"`
}

// Validate checks required fields and normalizes the email.
func (in *RegisterInput) Validate() error {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if in.Name == "" {
		return fmt.Errorf("name is required")
	}
	if in.Email == "" || !strings.Contains(in.Email, "@") {
		return fmt.Errorf("a valid email is required")
	}
	if len(in.Password) < 6 {
		return fmt.Errorf("password must be at least 6 characters")
	}
	if in.UserType == "" {
		in.UserType = "patient"
	}
	if !validUserTypes[in.UserType] {
		return fmt.Errorf("invalid userType: %s", in.UserType)
	}
	return nil
}
